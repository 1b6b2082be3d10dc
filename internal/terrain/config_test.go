package terrain

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.ParticleNum != 50_000 || cfg.ErodibilityDistributionPower != 4 || cfg.FaultScale != 35 ||
		cfg.LandRatio != 0.6 || cfg.ConvexHullIsAlwaysOutlet || cfg.GlobalMaxSlope != 1.57 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	cases := map[string]func(*Config){
		"particles":      func(c *Config) { c.ParticleNum = 0 },
		"negative power": func(c *Config) { c.ErodibilityDistributionPower = -1 },
		"nan fault":      func(c *Config) { c.FaultScale = math.NaN() },
		"land low":       func(c *Config) { c.LandRatio = -0.01 },
		"land high":      func(c *Config) { c.LandRatio = 1.01 },
		"land nan":       func(c *Config) { c.LandRatio = math.NaN() },
		"slope":          func(c *Config) { c.GlobalMaxSlope = 2 },
		"relax":          func(c *Config) { c.RelaxIterations = -1 },
		"workers":        func(c *Config) { c.Workers = -2 },
		"noise":          func(c *Config) { c.Noise = "value" },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestFromMapIgnoresBadValues(t *testing.T) {
	cfg := FromMap(map[string]string{
		"seed":                         "17",
		"land_ratio":                   "0.35",
		"fault_scale":                  "not-a-number",
		"convex_hull_is_always_outlet": "true",
		"mystery":                      "1",
	})
	if cfg.Seed != 17 || cfg.LandRatio != 0.35 || !cfg.ConvexHullIsAlwaysOutlet {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.FaultScale != DefaultConfig().FaultScale {
		t.Fatalf("bad value should keep the default, got %v", cfg.FaultScale)
	}
}

func TestSetReportsUnknownKey(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Set("volcano", "1"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if err := cfg.Set("seed", "-1"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected negative seed to be rejected, got %v", err)
	}
}

func TestDecodeConfigKeepsDefaults(t *testing.T) {
	cfg, err := DecodeConfig([]byte("seed = 99\nland_ratio = 0.4\nnoise = \"simplex\"\n"))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Seed != 99 || cfg.LandRatio != 0.4 || cfg.Noise != "simplex" {
		t.Fatalf("decoded values missing: %+v", cfg)
	}
	if cfg.ParticleNum != 50_000 || cfg.RelaxIterations != 10 {
		t.Fatalf("missing keys should keep defaults: %+v", cfg)
	}
	if _, err := DecodeConfig([]byte("land_ratio = 3.0\n")); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected out of range file value to fail validation, got %v", err)
	}
	if _, err := DecodeConfig([]byte("land_ratio = [")); err == nil {
		t.Fatalf("expected malformed TOML to fail")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terrain.toml")
	want := DefaultConfig()
	want.Seed = 4242
	want.FaultScale = 12.5
	want.ConvexHullIsAlwaysOutlet = true
	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got != want {
		t.Fatalf("loaded %+v, want %+v", got, want)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}
}

func TestFingerprintIgnoresWorkers(t *testing.T) {
	b := DefaultBounds()
	r := b.Range()
	a := DefaultConfig()
	c := a
	c.Workers = 8
	if a.Fingerprint(b, r) != c.Fingerprint(b, r) {
		t.Fatalf("workers should not change the fingerprint")
	}
	c.Seed++
	if a.Fingerprint(b, r) == c.Fingerprint(b, r) {
		t.Fatalf("seed change should change the fingerprint")
	}
	small := HexMapBounds(10, 10)
	if a.Fingerprint(b, r) == a.Fingerprint(small, small.Range()) {
		t.Fatalf("bounds change should change the fingerprint")
	}
}

func TestFingerprintTracksFaultRange(t *testing.T) {
	b := DefaultBounds()
	cfg := DefaultConfig()
	if cfg.Fingerprint(b, b.Range()) == cfg.Fingerprint(b, b.Range().Mul(2)) {
		t.Fatalf("a different fault range should change the fingerprint")
	}
}

func TestParameterSettersValidate(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.SetFloatParameter("land_ratio", 0.25) || cfg.LandRatio != 0.25 {
		t.Fatalf("SetFloatParameter did not apply: %+v", cfg)
	}
	if cfg.SetFloatParameter("land_ratio", 1.5) || cfg.LandRatio != 0.25 {
		t.Fatalf("invalid land ratio should be rejected, got %v", cfg.LandRatio)
	}
	if !cfg.SetIntParameter("particle_num", 1000) || cfg.ParticleNum != 1000 {
		t.Fatalf("SetIntParameter did not apply: %+v", cfg)
	}
	snap := cfg.Parameters()
	if p, ok := snap.Lookup("land_ratio"); !ok || p.Value != "0.25" {
		t.Fatalf("snapshot land_ratio = %+v, %v", p, ok)
	}
	for _, ctrl := range cfg.ParameterControls() {
		if _, ok := snap.Lookup(ctrl.Key); !ok {
			t.Fatalf("control %q has no snapshot parameter", ctrl.Key)
		}
	}
}
