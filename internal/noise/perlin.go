package noise

import perlin "github.com/aquilax/go-perlin"

// Perlin is classic gradient noise backed by go-perlin.
type Perlin struct {
	p *perlin.Perlin
}

// NewPerlin seeds a single-octave Perlin sampler. Octave summation is done by
// Octaved so the underlying generator runs with one octave.
func NewPerlin(seed uint32) *Perlin {
	return &Perlin{p: perlin.NewPerlin(2, 2, 1, int64(seed))}
}

// Sample implements Sampler.
func (n *Perlin) Sample(x, y float64) float64 {
	return clampUnit(n.p.Noise2D(x, y))
}

func init() {
	Register("perlin", func(seed uint32) Sampler { return NewPerlin(seed) })
}
