package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/tendril/parameter"
	"github.com/lixenwraith/tendril/physics"
	"github.com/lixenwraith/tendril/strand"
	"github.com/lixenwraith/tendril/vmath"
)

// ErrUnsupportedFormat is returned for config files that are neither TOML nor YAML
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config is the surrounding system's configuration surface for a strand field
type Config struct {
	Strand StrandConfig `toml:"strand" yaml:"strand"`
	Solver SolverConfig `toml:"solver" yaml:"solver"`
	Audio  AudioConfig  `toml:"audio" yaml:"audio"`
}

// StrandConfig is rest geometry and physical properties of one strand
type StrandConfig struct {
	Radius         float64    `toml:"radius" yaml:"radius" env:"RADIUS"`
	Length         float64    `toml:"length" yaml:"length" env:"LENGTH"`
	Turns          float64    `toml:"turns" yaml:"turns" env:"TURNS"`
	Particles      int        `toml:"particles" yaml:"particles" env:"PARTICLES"`
	Mass           float64    `toml:"mass" yaml:"mass" env:"MASS"`
	BendStiffness  float64    `toml:"bend_stiffness" yaml:"bend_stiffness" env:"BEND_STIFFNESS"`
	TwistStiffness float64    `toml:"twist_stiffness" yaml:"twist_stiffness" env:"TWIST_STIFFNESS"`
	Damping        float64    `toml:"damping" yaml:"damping" env:"DAMPING"`
	Drag           float64    `toml:"drag" yaml:"drag" env:"DRAG"`
	Gravity        [3]float64 `toml:"gravity" yaml:"gravity" env:"-"`
}

// SolverConfig controls the per-frame solver
type SolverConfig struct {
	MaxForce   float64 `toml:"max_force" yaml:"max_force" env:"MAX_FORCE"`
	Iterations int     `toml:"iterations" yaml:"iterations" env:"ITERATIONS"`
	Workers    int     `toml:"workers" yaml:"workers" env:"WORKERS"`
}

// AudioConfig controls sandbox sound
type AudioConfig struct {
	Enabled      bool    `toml:"enabled" yaml:"enabled" env:"AUDIO_ENABLED"`
	MasterVolume float64 `toml:"master_volume" yaml:"master_volume" env:"-"`
	SampleRate   int     `toml:"sample_rate" yaml:"sample_rate" env:"SAMPLE_RATE"`
}

// Default returns the reference scenario configuration
func Default() *Config {
	return &Config{
		Strand: StrandConfig{
			Radius:         parameter.StrandRadius,
			Length:         parameter.StrandLength,
			Turns:          parameter.StrandTurns,
			Particles:      parameter.StrandParticles,
			Mass:           parameter.StrandMass,
			BendStiffness:  parameter.BendStiffness,
			TwistStiffness: parameter.TwistStiffness,
			Damping:        parameter.StrandDamping,
			Drag:           parameter.StrandDrag,
			Gravity:        [3]float64{0, -parameter.Gravity, 0},
		},
		Solver: SolverConfig{
			MaxForce:   parameter.MaxForce,
			Iterations: parameter.RelaxIterations,
			Workers:    1,
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: parameter.AudioMasterVolume,
			SampleRate:   parameter.AudioSampleRate,
		},
	}
}

// Load reads a TOML or YAML file over the defaults; keys absent from the file keep their default
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes cfg as TOML, the format written by the sandbox for a starter file
func Marshal(cfg *Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// RodParams validates the physical section and builds shared rod parameters
func (c *Config) RodParams() (*physics.RodParams, error) {
	return physics.NewRodParams(physics.RodParams{
		BendStiffness:  c.Strand.BendStiffness,
		TwistStiffness: c.Strand.TwistStiffness,
		MaxForce:       c.Solver.MaxForce,
		Particles:      c.Strand.Particles,
		Iterations:     c.Solver.Iterations,
		Mass:           c.Strand.Mass,
		Damping:        c.Strand.Damping,
		Drag:           c.Strand.Drag,
		Gravity:        vmath.V3FFromArray(c.Strand.Gravity),
	})
}

// Geometry returns the rest coil geometry
func (c *Config) Geometry() strand.Geometry {
	return strand.Geometry{
		Radius: c.Strand.Radius,
		Length: c.Strand.Length,
		Turns:  c.Strand.Turns,
	}
}

// NewField validates the whole configuration and returns an uninitialized field
func (c *Config) NewField() (*strand.Field, error) {
	params, err := c.RodParams()
	if err != nil {
		return nil, err
	}
	f, err := strand.NewField(params, c.Geometry())
	if err != nil {
		return nil, err
	}
	f.SetWorkers(c.Solver.Workers)
	return f, nil
}
