package app

import "flag"

// Config represents the command-line parameters of the viewer.
type Config struct {
	Terrain  string
	Seed     uint
	Width    int
	Height   int
	Scale    int
	HUDWidth int
	TPS      int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Seed: 0, Width: 300, Height: 162, Scale: 3, HUDWidth: 260, TPS: 30}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Terrain, "config", c.Terrain, "terrain TOML config (defaults when empty)")
	fs.UintVar(&c.Seed, "seed", c.Seed, "terrain seed, overrides the config file when non-zero")
	fs.IntVar(&c.Width, "width", c.Width, "preview raster width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "preview raster height in pixels")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width, 0 hides it")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
}
