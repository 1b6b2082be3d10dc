//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"lemterrain/internal/core"
)

// GridPainter keeps one RGBA image in sync with a FloatGrid.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
	last *core.FloatGrid
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Upload refills the image when g differs from the grid uploaded last.
func (gp *GridPainter) Upload(g *core.FloatGrid, fill func(buf []byte, g *core.FloatGrid)) bool {
	if g == nil || g.W != gp.w || g.H != gp.h {
		return false
	}
	if g != gp.last {
		fill(gp.buf, g)
		gp.img.WritePixels(gp.buf)
		gp.last = g
	}
	return true
}

// Invalidate forces the next Upload to refill the image.
func (gp *GridPainter) Invalidate() { gp.last = nil }

// Draw scales the current image onto dst.
func (gp *GridPainter) Draw(dst *ebiten.Image, scale int) {
	if scale <= 0 {
		scale = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// BlitElevation uploads an elevation grid with the palette and draws it.
func (gp *GridPainter) BlitElevation(dst *ebiten.Image, g *core.FloatGrid, p Palette, scale int) {
	ok := gp.Upload(g, func(buf []byte, g *core.FloatGrid) { FillElevationRGBA(buf, g, p) })
	if ok {
		gp.Draw(dst, scale)
	}
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
