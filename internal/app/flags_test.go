package app

import (
	"flag"
	"testing"
)

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-seed", "7", "-scale", "2", "-hud", "0", "-config", "t.toml"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Seed != 7 || cfg.Scale != 2 || cfg.HUDWidth != 0 || cfg.Terrain != "t.toml" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Width != 300 || cfg.TPS != 30 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}
