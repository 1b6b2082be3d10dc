//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"lemterrain/internal/app"
	"lemterrain/internal/core"
	"lemterrain/internal/terrain"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	tc := terrain.DefaultConfig()
	if cfg.Terrain != "" {
		loaded, err := terrain.LoadConfig(cfg.Terrain)
		if err != nil {
			log.Fatal(err)
		}
		tc = loaded
	}
	if cfg.Seed != 0 {
		tc.Seed = uint32(cfg.Seed)
	}

	size := core.Size{W: cfg.Width, H: cfg.Height}
	model := app.NewModel(tc, terrain.DefaultBounds(), size, terrain.Generator{})
	if err := model.Regenerate(); err != nil {
		log.Fatal(err)
	}
	game := app.New(model, cfg.Scale, cfg.HUDWidth)

	ebiten.SetWindowTitle("lemterrain")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
