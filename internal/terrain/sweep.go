package terrain

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"lemterrain/internal/core"
	"lemterrain/internal/mesh"
	"lemterrain/internal/noise"
)

// LandSample records how closely one seed hit one target land ratio.
type LandSample struct {
	Seed   uint32
	Target float64
	// Achieved is the fraction of sites classified as land.
	Achieved float64
	Sites    int
	Outlets  int
}

// Error is the signed difference between achieved and target ratio.
func (s LandSample) Error() float64 { return s.Achieved - s.Target }

// LandSweep classifies the sites of every seed at every target ratio and
// reports the land fraction reached. The solver is not run. Meshes are built
// once per seed and shared between ratios.
func LandSweep(base Config, bounds core.Bounds, ratios []float64, seeds []uint32, workers int) ([]LandSample, error) {
	if workers <= 0 {
		workers = 1
	}
	for _, r := range ratios {
		cfg := base
		cfg.LandRatio = r
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if !bounds.Valid() {
		return nil, fmt.Errorf("%w: bounds %v", ErrInvalidConfig, bounds)
	}

	samples := make([]LandSample, len(seeds)*len(ratios))
	errs := make([]error, len(seeds))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for si, seed := range seeds {
		wg.Add(1)
		sem <- struct{}{}
		go func(si int, seed uint32) {
			defer wg.Done()
			defer func() { <-sem }()
			cfg := base
			cfg.Seed = seed
			cfg.Workers = 1
			m, err := mesh.RandomBuilder{RelaxIterations: cfg.RelaxIterations}.Build(cfg.ParticleNum, bounds, MeshSeed(seed))
			if err != nil {
				errs[si] = fmt.Errorf("seed %d: %w", seed, err)
				return
			}
			sampler, err := noise.New(cfg.Noise, seed)
			if err != nil {
				errs[si] = err
				return
			}
			fault := NewFault(sampler, cfg.FaultScale, bounds.Range())
			layers := sampleLand(sampler, fault, m.Sites(), cfg.Workers)
			curve := Calibrate(layers)
			for ri, ratio := range ratios {
				cfg.LandRatio = ratio
				classifier := NewClassifier(sampler, fault, ratio, curve)
				samples[si*len(ratios)+ri] = classifySample(m, layers, classifier, cfg)
			}
		}(si, seed)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	sort.SliceStable(samples, func(a, b int) bool {
		if samples[a].Target != samples[b].Target {
			return samples[a].Target < samples[b].Target
		}
		return samples[a].Seed < samples[b].Seed
	})
	return samples, nil
}

func classifySample(m *mesh.Mesh, layers []landLayer, classifier Classifier, cfg Config) LandSample {
	ocean := make([]bool, m.Len())
	land := 0
	for i, l := range layers {
		ocean[i] = classifier.isOcean(l)
		if !ocean[i] {
			land++
		}
	}
	outlets := 0
	if marks, err := DetermineOutlets(m, ocean, m.Boundary(), cfg.ConvexHullIsAlwaysOutlet); err == nil {
		for _, o := range marks {
			if o {
				outlets++
			}
		}
	}
	return LandSample{
		Seed:     cfg.Seed,
		Target:   cfg.LandRatio,
		Achieved: float64(land) / float64(m.Len()),
		Sites:    m.Len(),
		Outlets:  outlets,
	}
}

// RatioSummary aggregates the samples of one target ratio.
type RatioSummary struct {
	Target       float64
	MeanAchieved float64
	MeanAbsError float64
	MaxAbsError  float64
	Samples      int
}

// SummarizeLand groups samples by target ratio, in ascending order.
func SummarizeLand(samples []LandSample) []RatioSummary {
	byTarget := map[float64]*RatioSummary{}
	var order []float64
	for _, s := range samples {
		sum, ok := byTarget[s.Target]
		if !ok {
			sum = &RatioSummary{Target: s.Target}
			byTarget[s.Target] = sum
			order = append(order, s.Target)
		}
		e := math.Abs(s.Error())
		sum.MeanAchieved += s.Achieved
		sum.MeanAbsError += e
		sum.MaxAbsError = math.Max(sum.MaxAbsError, e)
		sum.Samples++
	}
	sort.Float64s(order)
	out := make([]RatioSummary, 0, len(order))
	for _, t := range order {
		sum := byTarget[t]
		sum.MeanAchieved /= float64(sum.Samples)
		sum.MeanAbsError /= float64(sum.Samples)
		out = append(out, *sum)
	}
	return out
}
