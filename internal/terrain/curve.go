package terrain

import (
	"math"
	"slices"
	"sort"
)

// Curve is an empirical inverse distribution of the land noise over the
// sites of one run: Inverse(r) is the value below which a fraction r of the
// sites falls.
type Curve struct {
	quantiles []float64
}

// NewCurve sorts a copy of values into a Curve. At least one value is
// required for Inverse to return a finite threshold.
func NewCurve(values []float64) *Curve {
	q := slices.Clone(values)
	slices.Sort(q)
	return &Curve{quantiles: q}
}

// Calibrate builds the curve from the land noise of the given layers, one
// entry per site.
func Calibrate(layers []landLayer) *Curve {
	d := make([]float64, len(layers))
	for i, l := range layers {
		d[i] = l.noise()
	}
	return NewCurve(d)
}

// Inverse maps a land ratio to a noise threshold by interpolating between
// quantiles. Ratios at or below 0 return -Inf and ratios at or above 1
// return +Inf so the extremes classify every site the same way.
func (c *Curve) Inverse(ratio float64) float64 {
	switch {
	case math.IsNaN(ratio):
		return math.NaN()
	case ratio <= 0 || len(c.quantiles) == 0:
		return math.Inf(-1)
	case ratio >= 1:
		return math.Inf(1)
	}
	pos := ratio * float64(len(c.quantiles)-1)
	i := int(pos)
	if i >= len(c.quantiles)-1 {
		return c.quantiles[len(c.quantiles)-1]
	}
	frac := pos - float64(i)
	return c.quantiles[i] + frac*(c.quantiles[i+1]-c.quantiles[i])
}

// Fraction returns the share of values at or below t, the forward
// counterpart of Inverse.
func (c *Curve) Fraction(t float64) float64 {
	if len(c.quantiles) == 0 {
		return 0
	}
	k := sort.Search(len(c.quantiles), func(i int) bool { return c.quantiles[i] > t })
	return float64(k) / float64(len(c.quantiles))
}

// Len is the number of values behind the curve.
func (c *Curve) Len() int { return len(c.quantiles) }
