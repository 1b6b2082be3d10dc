//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"lemterrain/internal/core"
	"lemterrain/internal/render"
)

var layerKeys = [layerCount]ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3}

// Overlay draws the optional field layers on top of the terrain.
type Overlay struct {
	src      FieldSource
	scale    int
	visible  [layerCount]bool
	painters [layerCount]*render.GridPainter
	help     bool
}

// NewOverlay constructs an overlay over src.
func NewOverlay(src FieldSource, scale int) *Overlay {
	o := &Overlay{src: src, scale: scale}
	size := src.Size()
	for l := range o.painters {
		o.painters[l] = render.NewGridPainter(size.W, size.H)
	}
	return o
}

// Update toggles layers from the number keys.
func (o *Overlay) Update() {
	for l, key := range layerKeys {
		if inpututil.IsKeyJustPressed(key) {
			o.visible[l] = !o.visible[l]
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.help = !o.help
	}
}

// Invalidate forces every layer to re-upload its field.
func (o *Overlay) Invalidate() {
	for _, p := range o.painters {
		p.Invalidate()
	}
}

// Draw renders the visible layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	for l := Layer(0); l < layerCount; l++ {
		if !o.visible[l] {
			continue
		}
		p := o.painters[l]
		if p.Upload(l.field(o.src), fillFor(l)) {
			p.Draw(screen, o.scale)
		}
	}
	if o.help {
		ebitenutil.DebugPrint(screen, keyHelp(o.visible))
	}
}

func fillFor(l Layer) func([]byte, *core.FloatGrid) {
	switch l {
	case LayerOutlets:
		return func(buf []byte, g *core.FloatGrid) {
			render.FillMaskRGBA(buf, g, color.RGBA{R: 200, G: 60, B: 40, A: 150}, color.RGBA{})
		}
	case LayerLand:
		return func(buf []byte, g *core.FloatGrid) {
			render.FillMaskRGBA(buf, g, color.RGBA{R: 60, G: 150, B: 60, A: 110}, color.RGBA{R: 30, G: 60, B: 140, A: 110})
		}
	}
	return func(buf []byte, g *core.FloatGrid) { render.FillRampRGBA(buf, g, 0.1, 0.6) }
}
