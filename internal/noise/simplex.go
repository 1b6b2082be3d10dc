package noise

import "github.com/ojrac/opensimplex-go"

// Simplex is OpenSimplex noise. It has fewer directional artefacts than
// Perlin at the cost of a different value distribution.
type Simplex struct {
	n opensimplex.Noise
}

// NewSimplex seeds an OpenSimplex sampler.
func NewSimplex(seed uint32) *Simplex {
	return &Simplex{n: opensimplex.New(int64(seed))}
}

// Sample implements Sampler.
func (n *Simplex) Sample(x, y float64) float64 {
	return clampUnit(n.n.Eval2(x, y))
}

func init() {
	Register("simplex", func(seed uint32) Sampler { return NewSimplex(seed) })
}
