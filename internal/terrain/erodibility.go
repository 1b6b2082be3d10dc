package terrain

import (
	"math"

	"lemterrain/internal/mesh"
	"lemterrain/internal/noise"
)

const erodibilityNoiseScale = 75.0

// Erodibility returns the erosion coefficient at p, within [0.1, 0.6] for any
// non-negative power.
func Erodibility(s noise.Sampler, f Fault, p mesh.Site, power float64) float64 {
	q := f.Displace(p)
	n := noise.Octaved(s, q.X()/erodibilityNoiseScale, q.Y()/erodibilityNoiseScale, 5, 0.7, 2.2)*0.5 + 0.5
	return math.Pow(math.Abs(1-2*n), power)*0.5 + 0.1
}
