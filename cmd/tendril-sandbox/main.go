// tendril-sandbox animates a ring of curled strands on a movable host in the terminal
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tendril/audio"
	"github.com/lixenwraith/tendril/config"
	"github.com/lixenwraith/tendril/parameter"
	"github.com/lixenwraith/tendril/record"
)

func main() {
	configPath := flag.String("config", "", "strand config file (.toml, .yaml)")
	envPath := flag.String("env", ".env", "environment file with TENDRIL_ overrides")
	debug := flag.Bool("debug", false, "write logs to logs/tendril.log")
	recordPath := flag.String("record", "", "write JSON-lines snapshots to this file")
	recordEvery := flag.Int("record-every", 1, "keep one recorded frame in N")
	workers := flag.Int("workers", 0, "strand step goroutines, overrides config when > 0")
	anchors := flag.Int("anchors", parameter.HostAnchors, "strands attached to the host")
	writeConfig := flag.String("write-config", "", "write the effective config as TOML to this file and exit")
	flag.Parse()

	logFile := setupLogging(*debug)
	if logFile != nil {
		defer logFile.Close()
	}

	opts := options{
		configPath:  *configPath,
		envPath:     *envPath,
		recordPath:  *recordPath,
		recordEvery: *recordEvery,
		workers:     *workers,
		anchors:     *anchors,
		writeConfig: *writeConfig,
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "tendril-sandbox: %v\n", err)
		os.Exit(1)
	}
}

// options are the parsed command line flags
type options struct {
	configPath  string
	envPath     string
	recordPath  string
	recordEvery int
	workers     int
	anchors     int
	writeConfig string
}

// loadConfig layers defaults, the config file, the .env file and TENDRIL_ variables
func loadConfig(opts options) (*config.Config, error) {
	if err := config.LoadEnvFile(opts.envPath); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if opts.workers > 0 {
		cfg.Solver.Workers = opts.workers
	}
	return cfg, nil
}

func run(opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if opts.writeConfig != "" {
		data, err := config.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		if err := os.WriteFile(opts.writeConfig, data, 0644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("wrote %s\n", opts.writeConfig)
		return nil
	}

	field, err := cfg.NewField()
	if err != nil {
		return err
	}
	host := newSandboxHost(opts.anchors, parameter.HostBodyRadius)
	if err := field.Init(host); err != nil {
		return err
	}

	var rec *record.Writer
	if opts.recordPath != "" {
		f, err := os.Create(opts.recordPath)
		if err != nil {
			return fmt.Errorf("create recording: %w", err)
		}
		rec, err = record.NewWriter(f, field, opts.recordEvery)
		if err != nil {
			f.Close()
			return err
		}
		log.Printf("sandbox: recording run %s to %s", rec.RunID(), opts.recordPath)
	}

	var eng *audio.AudioEngine
	if cfg.Audio.Enabled {
		eng = audio.NewAudioEngine(&audio.AudioConfig{
			Enabled:      true,
			MasterVolume: cfg.Audio.MasterVolume,
			SampleRate:   cfg.Audio.SampleRate,
		})
		if err := eng.Start(); err != nil {
			log.Printf("sandbox: audio unavailable: %v", err)
			eng = nil
		}
	}

	sb := NewSandbox(nil, field, host, eng, rec)
	defer sb.cleanup()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	sb.attach(screen)
	sb.run()
	return nil
}
