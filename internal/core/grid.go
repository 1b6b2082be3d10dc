package core

import "math"

// FloatGrid stores a 2D raster of float64 samples in row-major order. Cells
// without data hold NaN.
type FloatGrid struct {
	W, H int
	data []float64
}

// NewFloatGrid allocates a grid with the given dimensions, filled with NaN.
func NewFloatGrid(w, h int) *FloatGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	g := &FloatGrid{W: w, H: h, data: make([]float64, w*h)}
	g.Clear()
	return g
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *FloatGrid) Cells() []float64 { return g.data }

// Size returns the grid dimensions.
func (g *FloatGrid) Size() Size { return Size{W: g.W, H: g.H} }

// Index returns the linear slice index for coordinates (x, y).
func (g *FloatGrid) Index(x, y int) int { return y*g.W + x }

// At returns the sample at (x, y), or NaN when out of range.
func (g *FloatGrid) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return math.NaN()
	}
	return g.data[g.Index(x, y)]
}

// Set stores v at (x, y). Out of range writes are ignored.
func (g *FloatGrid) Set(x, y int, v float64) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return
	}
	g.data[g.Index(x, y)] = v
}

// MinMax returns the smallest and largest defined samples. ok is false when
// every cell is NaN.
func (g *FloatGrid) MinMax() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range g.data {
		if math.IsNaN(v) {
			continue
		}
		ok = true
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, ok
}

// Clear marks every cell as having no data.
func (g *FloatGrid) Clear() {
	nan := math.NaN()
	for i := range g.data {
		g.data[i] = nan
	}
}
