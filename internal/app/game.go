//go:build ebiten

package app

import (
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"lemterrain/internal/render"
	"lemterrain/internal/ui"
)

// Game adapts a Model to the ebiten.Game interface.
type Game struct {
	model   *Model
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	palette render.Palette

	scale    int
	hudWidth int
	auto     bool
}

// New constructs a Game for the model. hudWidth 0 hides the parameter panel.
func New(model *Model, scale, hudWidth int) *Game {
	size := model.Size()
	return &Game{
		model:    model,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(model, scale),
		hud:      ui.NewHUD(model, hudWidth),
		palette:  render.DefaultPalette,
		scale:    scale,
		hudWidth: hudWidth,
	}
}

// Update handles per-frame input and regenerates when requested.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	regen := g.model.Dirty() && (g.auto || g.model.Result() == nil)
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		regen = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.model.Reseed(uint32(time.Now().UnixNano()))
		regen = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.auto = !g.auto
	}

	g.overlay.Update()
	size := g.model.Size()
	g.hud.Update(size.W * g.scale)

	if regen {
		if err := g.model.Regenerate(); err != nil {
			slog.Error("regenerate failed", "err", err)
			return nil
		}
		g.painter.Invalidate()
		g.overlay.Invalidate()
	}
	return nil
}

// Draw renders the terrain, overlays and HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	if f := g.model.ElevationField(); f != nil {
		g.painter.BlitElevation(screen, f, g.palette, g.scale)
	}
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.model.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.model.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
