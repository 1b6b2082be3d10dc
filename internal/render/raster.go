// Package render turns generated surfaces into raster previews.
package render

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"lemterrain/internal/core"
	"lemterrain/internal/mesh"
	"lemterrain/internal/surface"
)

// Rasterize samples the surface at the centre of every pixel. Row 0 is the
// top of the bounds (largest y). Pixels outside the mesh hold NaN.
func Rasterize(s *surface.Surface, size core.Size, bounds core.Bounds) *core.FloatGrid {
	return RasterizeField(s.Mesh(), s.Elevations(), size, bounds)
}

// RasterizeField interpolates arbitrary per-site values the same way.
func RasterizeField(m *mesh.Mesh, values []float64, size core.Size, bounds core.Bounds) *core.FloatGrid {
	g := core.NewFloatGrid(size.W, size.H)
	if size.W <= 0 || size.H <= 0 {
		return g
	}
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for y := 0; y < size.H; y++ {
		eg.Go(func() error {
			v := 1 - (float64(y)+0.5)/float64(size.H)
			for x := 0; x < size.W; x++ {
				u := (float64(x) + 0.5) / float64(size.W)
				g.Set(x, y, m.Interpolate(values, bounds.Lerp(u, v)))
			}
			return nil
		})
	}
	_ = eg.Wait()
	return g
}

// BoolField converts a per-site mask into 0/1 values for RasterizeField.
func BoolField(mask []bool) []float64 {
	out := make([]float64, len(mask))
	for i, b := range mask {
		if b {
			out[i] = 1
		}
	}
	return out
}
