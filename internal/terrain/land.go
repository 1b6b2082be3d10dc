package terrain

import (
	"math"

	"lemterrain/internal/mesh"
	"lemterrain/internal/noise"
)

const (
	plateNoiseScale     = 50.0
	continentNoiseScale = 200.0
)

// landLayer holds the plate and continent noise at one displaced site.
type landLayer struct {
	plate, continent float64
}

// noise is the quantity the classifier thresholds: ocean-like sites are
// those where it exceeds the curve value for the target land ratio.
func (l landLayer) noise() float64 { return l.plate - l.continent + 0.5 }

// landLayers evaluates the plate and continent layers at an already
// displaced position.
func landLayers(s noise.Sampler, p mesh.Site) landLayer {
	x, y := p.X(), p.Y()
	persistence := math.Abs(noise.Octaved(s, x/plateNoiseScale, y/plateNoiseScale, 2, 0.5, 2.0))*0.7 + 0.3
	return landLayer{
		plate:     noise.Octaved(s, x/plateNoiseScale, y/plateNoiseScale, 8, persistence, 2.4)*0.5 + 0.5,
		continent: noise.Octaved(s, x/continentNoiseScale, y/continentNoiseScale, 3, 0.5, 1.8)*0.7 + 0.5,
	}
}

// sampleLand evaluates the land layers at every fault-displaced site.
func sampleLand(s noise.Sampler, f Fault, sites []mesh.Site, workers int) []landLayer {
	layers := make([]landLayer, len(sites))
	forEachChunk(len(sites), workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			layers[i] = landLayers(s, f.Displace(sites[i]))
		}
	})
	return layers
}

// Classifier splits sites into land and ocean candidates.
type Classifier struct {
	noise     noise.Sampler
	fault     Fault
	threshold float64
}

// NewClassifier targets landRatio using curve to translate the ratio into a
// threshold on the land noise.
func NewClassifier(s noise.Sampler, f Fault, landRatio float64, curve *Curve) Classifier {
	return Classifier{
		noise:     s,
		fault:     f,
		threshold: curve.Inverse(landRatio),
	}
}

// IsOceanCandidate reports whether the site at p is ocean-like, i.e. a
// candidate for outlet propagation.
func (c Classifier) IsOceanCandidate(p mesh.Site) bool {
	return c.isOcean(landLayers(c.noise, c.fault.Displace(p)))
}

// IsLand is the complement of IsOceanCandidate.
func (c Classifier) IsLand(p mesh.Site) bool { return !c.IsOceanCandidate(p) }

func (c Classifier) isOcean(l landLayer) bool { return l.noise() > c.threshold }
