package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/tendril/parameter"
	"github.com/lixenwraith/tendril/physics"
	"github.com/lixenwraith/tendril/strand"
	"github.com/lixenwraith/tendril/vmath"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultBuildsValidParams(t *testing.T) {
	cfg := Default()
	p, err := cfg.RodParams()
	if err != nil {
		t.Fatalf("default params rejected: %v", err)
	}
	if p.Particles != parameter.StrandParticles || p.Iterations != parameter.RelaxIterations {
		t.Errorf("particles/iterations = %d/%d", p.Particles, p.Iterations)
	}
	if p.Gravity.Y != -parameter.Gravity {
		t.Errorf("gravity Y = %v, want %v", p.Gravity.Y, -parameter.Gravity)
	}
	if err := cfg.Geometry().Validate(); err != nil {
		t.Errorf("default geometry rejected: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "tendril.toml", `
[strand]
particles = 24
bend_stiffness = 0.25
gravity = [0.0, -1.5, 0.0]

[solver]
iterations = 8
workers = 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Strand.Particles != 24 {
		t.Errorf("particles = %d, want 24", cfg.Strand.Particles)
	}
	if cfg.Strand.BendStiffness != 0.25 {
		t.Errorf("bend = %v, want 0.25", cfg.Strand.BendStiffness)
	}
	if cfg.Strand.Gravity[1] != -1.5 {
		t.Errorf("gravity = %v", cfg.Strand.Gravity)
	}
	if cfg.Solver.Iterations != 8 || cfg.Solver.Workers != 4 {
		t.Errorf("solver = %+v", cfg.Solver)
	}
	// Untouched keys keep defaults
	if cfg.Strand.TwistStiffness != parameter.TwistStiffness {
		t.Errorf("twist = %v, want default %v", cfg.Strand.TwistStiffness, parameter.TwistStiffness)
	}
	if cfg.Strand.Radius != parameter.StrandRadius {
		t.Errorf("radius = %v, want default", cfg.Strand.Radius)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "tendril.yaml", `
strand:
  length: 2.5
  turns: 5
solver:
  max_force: 40
audio:
  enabled: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Strand.Length != 2.5 || cfg.Strand.Turns != 5 {
		t.Errorf("strand = %+v", cfg.Strand)
	}
	if cfg.Solver.MaxForce != 40 {
		t.Errorf("max force = %v", cfg.Solver.MaxForce)
	}
	if cfg.Audio.Enabled {
		t.Error("audio should be disabled")
	}
	if cfg.Solver.Iterations != parameter.RelaxIterations {
		t.Errorf("iterations = %d, want default", cfg.Solver.Iterations)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}

	path := writeFile(t, "tendril.json", `{}`)
	if _, err := Load(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("json: got %v, want ErrUnsupportedFormat", err)
	}

	path = writeFile(t, "bad.toml", "[strand\nparticles = ")
	if _, err := Load(path); err == nil {
		t.Error("malformed toml should fail")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Strand.Particles = 12
	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := writeFile(t, "out.toml", string(data))
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	cfg := Default()
	cfg.Strand.Particles = 1
	if _, err := cfg.RodParams(); !errors.Is(err, physics.ErrInvalidConfig) {
		t.Errorf("particles=1: got %v, want ErrInvalidConfig", err)
	}

	cfg = Default()
	cfg.Strand.Radius = -1
	if _, err := cfg.NewField(); !errors.Is(err, strand.ErrInvalidGeometry) {
		t.Errorf("radius=-1: got %v, want ErrInvalidGeometry", err)
	}
}

func TestNewFieldUsesWorkers(t *testing.T) {
	cfg := Default()
	cfg.Solver.Workers = 3
	f, err := cfg.NewField()
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := f.Init(strand.NewStaticHost(vmath.Vec3F{})); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if f.Strands() != 1 {
		t.Errorf("strands = %d, want 1", f.Strands())
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TENDRIL_PARTICLES", "40")
	t.Setenv("TENDRIL_BEND_STIFFNESS", "0.7")
	t.Setenv("TENDRIL_AUDIO_ENABLED", "false")
	t.Setenv("TENDRIL_MASTER_VOLUME", "250")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Strand.Particles != 40 {
		t.Errorf("particles = %d, want 40", cfg.Strand.Particles)
	}
	if cfg.Strand.BendStiffness != 0.7 {
		t.Errorf("bend = %v, want 0.7", cfg.Strand.BendStiffness)
	}
	if cfg.Audio.Enabled {
		t.Error("audio should be disabled")
	}
	if cfg.Audio.MasterVolume != 1 {
		t.Errorf("volume = %v, want clamped 1", cfg.Audio.MasterVolume)
	}
}

func TestApplyEnvBadValue(t *testing.T) {
	t.Setenv("TENDRIL_ITERATIONS", "many")
	t.Setenv("TENDRIL_DRAG", "2")

	cfg := Default()
	err := cfg.ApplyEnv()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.Solver.Iterations != parameter.RelaxIterations {
		t.Errorf("iterations changed to %d on bad input", cfg.Solver.Iterations)
	}
	// Valid variables still apply
	if cfg.Strand.Drag != 2 {
		t.Errorf("drag = %v, want 2", cfg.Strand.Drag)
	}
}

func TestApplyEnvGravityAndVolume(t *testing.T) {
	tests := []struct {
		name       string
		gravity    string
		volume     string
		wantY      float64
		wantVolume float64
		wantErr    bool
	}{
		{"gravity override", "-3.5", "", -3.5, Default().Audio.MasterVolume, false},
		{"negative volume clamps to silent", "", "-20", Default().Strand.Gravity[1], 0, false},
		{"volume percent", "", "40", Default().Strand.Gravity[1], 0.4, false},
		{"bad gravity keeps default", "down", "", Default().Strand.Gravity[1], Default().Audio.MasterVolume, true},
		{"bad volume keeps default", "", "loud", Default().Strand.Gravity[1], Default().Audio.MasterVolume, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.gravity != "" {
				t.Setenv("TENDRIL_GRAVITY_Y", tt.gravity)
			}
			if tt.volume != "" {
				t.Setenv("TENDRIL_MASTER_VOLUME", tt.volume)
			}

			cfg := Default()
			err := cfg.ApplyEnv()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEnv error = %v, wantErr %v", err, tt.wantErr)
			}
			if cfg.Strand.Gravity[1] != tt.wantY {
				t.Errorf("gravity y = %v, want %v", cfg.Strand.Gravity[1], tt.wantY)
			}
			if cfg.Audio.MasterVolume != tt.wantVolume {
				t.Errorf("volume = %v, want %v", cfg.Audio.MasterVolume, tt.wantVolume)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("empty path: %v", err)
	}
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing file: %v", err)
	}

	const key = "TENDRIL_TURNS"
	t.Setenv(key, "")
	os.Unsetenv(key)

	path := writeFile(t, ".env", key+"=7\n")
	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Strand.Turns != 7 {
		t.Errorf("turns = %v, want 7", cfg.Strand.Turns)
	}
}
