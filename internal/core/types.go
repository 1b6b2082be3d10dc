package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Size describes the dimensions of a raster.
type Size struct {
	W int
	H int
}

// Len returns the number of cells covered by the size.
func (s Size) Len() int {
	if s.W <= 0 || s.H <= 0 {
		return 0
	}
	return s.W * s.H
}

// Bounds is an axis-aligned rectangle in domain units.
type Bounds struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// NewBounds returns the rectangle spanned by the two corners.
func NewBounds(min, max mgl64.Vec2) Bounds {
	return Bounds{Min: min, Max: max}
}

// CenteredBounds returns a w*h rectangle centred on the origin.
func CenteredBounds(w, h float64) Bounds {
	return Bounds{
		Min: mgl64.Vec2{-w / 2, -h / 2},
		Max: mgl64.Vec2{w / 2, h / 2},
	}
}

// Range returns Max - Min per axis.
func (b Bounds) Range() mgl64.Vec2 { return b.Max.Sub(b.Min) }

// Area returns the rectangle area.
func (b Bounds) Area() float64 {
	r := b.Range()
	return r.X() * r.Y()
}

// Valid reports whether both corners are finite and the rectangle has a
// positive extent on both axes.
func (b Bounds) Valid() bool {
	for _, v := range []float64{b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.Max.X() > b.Min.X() && b.Max.Y() > b.Min.Y()
}

// Contains reports whether p lies inside or on the rectangle.
func (b Bounds) Contains(p mgl64.Vec2) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() && p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y()
}

// Lerp maps normalised coordinates (u, v in [0,1]) into the rectangle.
func (b Bounds) Lerp(u, v float64) mgl64.Vec2 {
	r := b.Range()
	return mgl64.Vec2{b.Min.X() + u*r.X(), b.Min.Y() + v*r.Y()}
}
