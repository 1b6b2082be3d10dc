// Package terrain turns a configuration into an eroded elevation surface:
// it scatters sites, classifies land and sea from fault-warped noise,
// propagates drainage outlets from the ocean and hands the per-site
// parameters to an erosion solver.
package terrain

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/segmentio/fasthash/fnv1a"
	"golang.org/x/sync/errgroup"

	"lemterrain/internal/core"
	"lemterrain/internal/mesh"
	"lemterrain/internal/noise"
	"lemterrain/internal/solver"
	"lemterrain/internal/surface"
)

// MeshBuilder produces the site mesh for a generation.
type MeshBuilder interface {
	Build(count int, bounds core.Bounds, seed uint64) (*mesh.Mesh, error)
}

// Solver turns per-site parameters into elevations.
type Solver interface {
	Solve(m *mesh.Mesh, params []solver.Parameters) (*surface.Surface, error)
}

// Generator wires the mesh builder and solver. The zero value uses
// mesh.RandomBuilder with the configured relax iterations and the default
// stream-power solver.
type Generator struct {
	Builder MeshBuilder
	Solver  Solver
	Log     *slog.Logger
}

// Result carries the surface together with the per-site inputs that shaped
// it.
type Result struct {
	Surface *surface.Surface
	// OceanCandidate holds the classifier output per site.
	OceanCandidate []bool
	Params         []solver.Parameters
}

// Mesh returns the mesh the surface was generated on.
func (r *Result) Mesh() *mesh.Mesh { return r.Surface.Mesh() }

// LandCount returns the number of sites classified as land.
func (r *Result) LandCount() int {
	n := 0
	for _, ocean := range r.OceanCandidate {
		if !ocean {
			n++
		}
	}
	return n
}

// OutletCount returns the number of outlet sites.
func (r *Result) OutletCount() int {
	n := 0
	for _, p := range r.Params {
		if p.IsOutlet {
			n++
		}
	}
	return n
}

// Generate builds a terrain with the zero Generator.
func Generate(cfg Config, boundMin, boundMax, boundRange mgl64.Vec2) (*surface.Surface, error) {
	return Generator{}.Generate(cfg, boundMin, boundMax, boundRange)
}

// Generate builds a terrain over the rectangle [boundMin, boundMax].
// boundRange is boundMax - boundMin and sets the fault offsets.
func (g Generator) Generate(cfg Config, boundMin, boundMax, boundRange mgl64.Vec2) (*surface.Surface, error) {
	res, err := g.Run(cfg, core.NewBounds(boundMin, boundMax), boundRange)
	if err != nil {
		return nil, err
	}
	return res.Surface, nil
}

// Run is Generate returning the intermediate per-site fields as well.
func (g Generator) Run(cfg Config, bounds core.Bounds, boundRange mgl64.Vec2) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !bounds.Valid() {
		return nil, fmt.Errorf("%w: bounds %v", ErrInvalidConfig, bounds)
	}
	log := g.logger()
	sampler, err := noise.New(cfg.Noise, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	log.Debug("creating a model", "seed", cfg.Seed, "particles", cfg.ParticleNum, "relax", cfg.RelaxIterations)
	m, err := g.builder(cfg).Build(cfg.ParticleNum, bounds, MeshSeed(cfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("build mesh: %w", err)
	}

	log.Debug("distributing params", "sites", m.Len(), "boundary", len(m.Boundary()))
	fields := computeFields(m, sampler, cfg, boundRange, true)
	outlets, err := DetermineOutlets(m, fields.ocean, m.Boundary(), cfg.ConvexHullIsAlwaysOutlet)
	if err != nil {
		return nil, err
	}
	params := make([]solver.Parameters, m.Len())
	for i := range params {
		params[i] = solver.Parameters{
			Erodibility: fields.erodibility[i],
			IsOutlet:    outlets[i],
			MaxSlope:    cfg.GlobalMaxSlope,
		}
	}
	res := &Result{OceanCandidate: fields.ocean, Params: params}

	log.Debug("generating", "land", res.LandCount(), "outlets", res.OutletCount())
	surf, err := g.solver().Solve(m, params)
	if err != nil {
		return nil, fmt.Errorf("solve terrain: %w", err)
	}
	res.Surface = surf
	return res, nil
}

func (g Generator) logger() *slog.Logger {
	if g.Log != nil {
		return g.Log
	}
	return slog.Default()
}

func (g Generator) builder(cfg Config) MeshBuilder {
	if g.Builder != nil {
		return g.Builder
	}
	return mesh.RandomBuilder{RelaxIterations: cfg.RelaxIterations}
}

func (g Generator) solver() Solver {
	if g.Solver != nil {
		return g.Solver
	}
	return solver.Default()
}

// MeshSeed derives the site scattering seed from the terrain seed so the
// mesh and the noise field do not share a random stream.
func MeshSeed(seed uint32) uint64 {
	return fnv1a.AddUint64(fnv1a.HashString64("lemterrain/mesh"), uint64(seed))
}

type siteFields struct {
	ocean       []bool
	erodibility []float64
}

// computeFields evaluates the classifier, and optionally the erodibility,
// at every site. The land threshold is the target quantile of the land noise
// over these same sites, so the land share matches the ratio to within one
// site. Sites are split into contiguous chunks across workers.
func computeFields(m *mesh.Mesh, sampler noise.Sampler, cfg Config, boundRange mgl64.Vec2, withErodibility bool) siteFields {
	fault := NewFault(sampler, cfg.FaultScale, boundRange)
	sites := m.Sites()
	layers := sampleLand(sampler, fault, sites, cfg.Workers)
	classifier := NewClassifier(sampler, fault, cfg.LandRatio, Calibrate(layers))

	n := m.Len()
	f := siteFields{ocean: make([]bool, n)}
	if withErodibility {
		f.erodibility = make([]float64, n)
	}
	forEachChunk(n, cfg.Workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			f.ocean[i] = classifier.isOcean(layers[i])
			if withErodibility {
				f.erodibility[i] = Erodibility(sampler, fault, sites[i], cfg.ErodibilityDistributionPower)
			}
		}
	})
	return f
}

func forEachChunk(n, workers int, fn func(lo, hi int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := max(256, (n+workers*4-1)/(workers*4))
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
