package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "TENDRIL_"

// volumeUnset marks a master volume the environment did not provide
const volumeUnset = math.MinInt

// LoadEnvFile loads variables from a .env file into the process environment
// Variables already set in the environment win; a missing file is not an error
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	log.Printf("config: loaded environment from %s", path)
	return nil
}

// envOverrides carries variables that do not map one to one onto a config field
type envOverrides struct {
	GravityY     float64 `env:"GRAVITY_Y"`
	MasterVolume int     `env:"MASTER_VOLUME"` // percent
}

// ApplyEnv overrides fields from TENDRIL_* variables
// Unparseable values are reported together and leave the field unchanged
func (c *Config) ApplyEnv() error {
	opts := env.Options{
		Prefix: EnvPrefix,
		OnSet: func(key string, value any, isDefault bool) {
			if s, _ := value.(string); s != "" && !isDefault {
				log.Printf("config: %s set from environment", key)
			}
		},
	}

	errs := []error{env.ParseWithOptions(c, opts)}

	extra := envOverrides{GravityY: c.Strand.Gravity[1], MasterVolume: volumeUnset}
	errs = append(errs, env.ParseWithOptions(&extra, opts))
	c.Strand.Gravity[1] = extra.GravityY

	// Master volume is given as 0-100 and clamped to that range
	if extra.MasterVolume != volumeUnset {
		c.Audio.MasterVolume = float64(max(0, min(extra.MasterVolume, 100))) / 100
	}

	return errors.Join(errs...)
}
