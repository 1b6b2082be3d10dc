package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"lemterrain/internal/mesh"
	"lemterrain/internal/noise"
)

const faultNoiseScale = 100.0

// Fault warps coordinates along noise-driven directions so that derived
// fields bend like terrain pushed along fault lines.
type Fault struct {
	noise  noise.Sampler
	scale  float64
	extent mgl64.Vec2
}

// NewFault builds a displacement of strength scale over a domain whose size
// is extent. A zero scale leaves every coordinate unchanged.
func NewFault(s noise.Sampler, scale float64, extent mgl64.Vec2) Fault {
	return Fault{noise: s, scale: scale, extent: extent}
}

// Displace returns the warped position of p.
func (f Fault) Displace(p mesh.Site) mesh.Site {
	if f.scale == 0 {
		return p
	}
	x, y := p.X(), p.Y()
	rx, ry := f.extent.X(), f.extent.Y()

	modulus := math.Abs(noise.Octaved(f.noise, x/faultNoiseScale, y/faultNoiseScale, 3, 0.5, 2.0)) * 2 * f.scale
	dirX := noise.Octaved(f.noise, (x+rx)/faultNoiseScale, (y+ry)/faultNoiseScale, 4, 0.6, 2.2) * 2
	dirY := noise.Octaved(f.noise, (x-rx)/faultNoiseScale, (y-ry)/faultNoiseScale, 4, 0.6, 2.2) * 2

	return mesh.Site{x + dirX*modulus, y + dirY*modulus}
}
