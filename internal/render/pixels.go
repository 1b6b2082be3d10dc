package render

import (
	"image/color"
	"math"

	"lemterrain/internal/core"
)

// FillElevationRGBA writes the palette colour of every grid cell into buf,
// which must hold 4 bytes per cell.
func FillElevationRGBA(buf []byte, g *core.FloatGrid, p Palette) {
	for i, e := range g.Cells() {
		putRGBA(buf[i*4:], p.Color(e))
	}
}

// FillRampRGBA maps cells onto Ramp after normalising by [lo, hi]. NaN cells
// become transparent.
func FillRampRGBA(buf []byte, g *core.FloatGrid, lo, hi float64) {
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	for i, v := range g.Cells() {
		if math.IsNaN(v) {
			putRGBA(buf[i*4:], color.RGBA{})
			continue
		}
		putRGBA(buf[i*4:], Ramp((v-lo)/span))
	}
}

// FillMaskRGBA paints cells >= 0.5 with on and the rest with off. NaN cells
// become transparent.
func FillMaskRGBA(buf []byte, g *core.FloatGrid, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, c := range g.Cells() {
		base := i * 4
		switch {
		case math.IsNaN(c):
			putRGBA(buf[base:], color.RGBA{})
		case c >= 0.5:
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
		default:
			buf[base+0] = uint8(rOff >> 8)
			buf[base+1] = uint8(gOff >> 8)
			buf[base+2] = uint8(bOff >> 8)
			buf[base+3] = uint8(aOff >> 8)
		}
	}
}

func putRGBA(dst []byte, c color.RGBA) {
	dst[0] = c.R
	dst[1] = c.G
	dst[2] = c.B
	dst[3] = c.A
}
