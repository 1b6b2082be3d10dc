// Package noise provides seeded 2D gradient noise samplers and the fractal
// octave sum built on top of them.
package noise

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownSampler is returned by New for names that were never registered.
var ErrUnknownSampler = errors.New("noise: unknown sampler")

// Sampler is a single-octave noise primitive. Sample is a pure function of
// the seed the sampler was built with and the coordinates, and returns a
// value in [-1, 1]. Implementations must be safe for concurrent use.
type Sampler interface {
	Sample(x, y float64) float64
}

// Factory constructs a Sampler for the given seed.
type Factory func(seed uint32) Sampler

// Default is the sampler used when a configuration leaves the name empty.
const Default = "perlin"

var samplers = map[string]Factory{}

// Register adds a sampler factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	samplers[name] = f
}

// Names lists the registered sampler names in lexical order.
func Names() []string {
	names := make([]string, 0, len(samplers))
	for name := range samplers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named sampler for seed. An empty name selects Default.
func New(name string, seed uint32) (Sampler, error) {
	if name == "" {
		name = Default
	}
	f, ok := samplers[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSampler, name)
	}
	return f(seed), nil
}

// Octaved sums octaves of s, each scaled in frequency by lacunarity and in
// amplitude by persistence, and divides by the total amplitude so the result
// stays in [-1, 1] whenever persistence is positive. Zero or negative octave
// counts yield 0.
func Octaved(s Sampler, x, y float64, octaves int, persistence, lacunarity float64) float64 {
	if octaves <= 0 {
		return 0
	}
	var value, total float64
	amplitude, frequency := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		value += amplitude * s.Sample(x*frequency, y*frequency)
		total += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if total == 0 {
		return 0
	}
	return value / total
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
