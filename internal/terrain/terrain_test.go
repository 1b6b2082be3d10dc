package terrain

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"slices"
	"testing"

	"lemterrain/internal/core"
	"lemterrain/internal/mesh"
	"lemterrain/internal/noise"
	"lemterrain/internal/solver"
	"lemterrain/internal/surface"
)

func quietGenerator() Generator {
	return Generator{Log: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))}
}

func smallConfig(seed uint32) Config {
	cfg := DefaultConfig()
	cfg.Seed = seed
	cfg.ParticleNum = 100
	return cfg
}

func run(t *testing.T, g Generator, cfg Config) *Result {
	t.Helper()
	b := DefaultBounds()
	res, err := g.Run(cfg, b, b.Range())
	if err != nil {
		t.Fatalf("Run(%+v): %v", cfg, err)
	}
	return res
}

func TestAllLandStillFindsAnOutlet(t *testing.T) {
	cfg := smallConfig(0)
	cfg.LandRatio = 1.0
	res := run(t, quietGenerator(), cfg)

	if res.LandCount() != res.Mesh().Len() {
		t.Fatalf("expected every site to be land, got %d of %d", res.LandCount(), res.Mesh().Len())
	}
	if res.OutletCount() != 1 {
		t.Fatalf("expected the single fallback outlet, got %d", res.OutletCount())
	}
	first := res.Mesh().Boundary()[0]
	if !res.Params[first].IsOutlet {
		t.Fatalf("fallback outlet should be the first boundary site %d", first)
	}
	if got := res.Surface.Elevation(first); got != 0 {
		t.Fatalf("outlet elevation = %v, want 0", got)
	}
	if _, hi := res.Surface.Range(); !(hi > 0) {
		t.Fatalf("expected relief away from the outlet, max elevation %v", hi)
	}
}

func TestAllOceanIsFlat(t *testing.T) {
	cfg := smallConfig(0)
	cfg.LandRatio = 0.0
	res := run(t, quietGenerator(), cfg)

	if res.LandCount() != 0 {
		t.Fatalf("expected no land, got %d sites", res.LandCount())
	}
	if res.OutletCount() != res.Mesh().Len() {
		t.Fatalf("expected every site to be an outlet, got %d of %d", res.OutletCount(), res.Mesh().Len())
	}
	lo, hi := res.Surface.Range()
	if lo != 0 || hi != 0 {
		t.Fatalf("expected elevations at the outlet anchor, got %v..%v", lo, hi)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := smallConfig(1234)
	b := DefaultBounds()
	g := quietGenerator()
	a, err := g.Generate(cfg, b.Min, b.Max, b.Range())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	cfg.Workers = 3
	c, err := g.Generate(cfg, b.Min, b.Max, b.Range())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !slices.Equal(a.Elevations(), c.Elevations()) {
		t.Fatalf("same seed produced different elevations")
	}
	if a.Fingerprint() != c.Fingerprint() {
		t.Fatalf("fingerprints differ for identical surfaces")
	}
}

func TestElevationAtOutsideIsNaN(t *testing.T) {
	b := DefaultBounds()
	s, err := quietGenerator().Generate(smallConfig(3), b.Min, b.Max, b.Range())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, p := range [][2]float64{{b.Min.X() - 0.5, 0}, {0, b.Max.Y() + 1}, {1e6, -1e6}} {
		if v := s.ElevationAt(p[0], p[1]); !math.IsNaN(v) {
			t.Fatalf("ElevationAt(%v) = %v, want NaN", p, v)
		}
	}
	for i, p := range s.Mesh().Sites() {
		if v := s.ElevationAt(p.X(), p.Y()); math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("site %d at %v: ElevationAt = %v", i, p, v)
		}
	}
}

func TestFaultScaleChangesClassification(t *testing.T) {
	b := DefaultBounds()
	differs := 0
	for seed := uint32(0); seed < 4; seed++ {
		m, err := mesh.RandomBuilder{RelaxIterations: 10}.Build(100, b, MeshSeed(seed))
		if err != nil {
			t.Fatalf("build mesh: %v", err)
		}
		s, _ := noise.New("perlin", seed)
		cfg := smallConfig(seed)
		cfg.LandRatio = 0.5
		cfg.FaultScale = 0
		still := computeFields(m, s, cfg, b.Range(), true)
		cfg.FaultScale = 35
		warped := computeFields(m, s, cfg, b.Range(), true)

		if slices.Equal(still.erodibility, warped.erodibility) {
			t.Fatalf("seed %d: fault displacement left erodibility unchanged", seed)
		}
		if !slices.Equal(still.ocean, warped.ocean) {
			differs++
		}
	}
	if differs == 0 {
		t.Fatalf("fault displacement never changed the land/sea pattern")
	}
}

func TestZeroFaultScaleIsIdentity(t *testing.T) {
	s, _ := noise.New("perlin", 9)
	f := NewFault(s, 0, DefaultBounds().Range())
	p := mesh.Site{12.5, -3.25}
	if got := f.Displace(p); got != p {
		t.Fatalf("Displace = %v, want %v", got, p)
	}
	moved := NewFault(s, 35, DefaultBounds().Range()).Displace(mesh.Site{12.3, -3.7})
	if moved == (mesh.Site{12.3, -3.7}) {
		t.Fatalf("expected a non-zero fault scale to move the site")
	}
}

func TestErodibilityRange(t *testing.T) {
	s, _ := noise.New("simplex", 5)
	f := NewFault(s, 35, DefaultBounds().Range())
	for _, power := range []float64{0, 0.5, 1, 4, 12} {
		for i := 0; i < 400; i++ {
			p := mesh.Site{float64(i)*0.61 - 120, float64(i)*1.37 - 250}
			e := Erodibility(s, f, p, power)
			if e < 0.1 || e > 0.6 {
				t.Fatalf("power %v at %v: erodibility %v out of [0.1, 0.6]", power, p, e)
			}
		}
	}
}

func TestCurveInverseMatchesFraction(t *testing.T) {
	rng := core.NewRNG(1)
	values := make([]float64, 2000)
	for i := range values {
		values[i] = rng.Open(-0.4, 1.3)
	}
	first := values[0]
	curve := NewCurve(values)
	if values[0] != first {
		t.Fatalf("NewCurve reordered its input")
	}
	if !math.IsInf(curve.Inverse(0), -1) || !math.IsInf(curve.Inverse(1), 1) {
		t.Fatalf("extreme ratios should map to infinite thresholds")
	}
	prev := math.Inf(-1)
	for r := 0.05; r < 1; r += 0.05 {
		v := curve.Inverse(r)
		if v < prev {
			t.Fatalf("curve is not monotonic at ratio %v", r)
		}
		prev = v
		if got := curve.Fraction(v); math.Abs(got-r) > 1.0/float64(curve.Len()) {
			t.Fatalf("Fraction(Inverse(%v)) = %v", r, got)
		}
	}
}

func TestGeneratedLandShareMatchesRatio(t *testing.T) {
	g := quietGenerator()
	for seed := uint32(0); seed < 3; seed++ {
		for _, ratio := range []float64{0.3, 0.6, 0.9} {
			g.Solver = &recordingSolver{}
			cfg := smallConfig(seed)
			cfg.ParticleNum = 400
			cfg.RelaxIterations = 1
			cfg.LandRatio = ratio
			res := run(t, g, cfg)
			n := len(res.OceanCandidate)
			got := float64(res.LandCount()) / float64(n)
			if math.Abs(got-ratio) > 1.0/float64(n) {
				t.Fatalf("seed %d: land share %v over %d sites, want %v", seed, got, n, ratio)
			}
		}
	}
}

type recordingSolver struct {
	params []solver.Parameters
	err    error
}

func (r *recordingSolver) Solve(m *mesh.Mesh, params []solver.Parameters) (*surface.Surface, error) {
	r.params = params
	if r.err != nil {
		return nil, r.err
	}
	elev := make([]float64, m.Len())
	for i, p := range params {
		if !p.IsOutlet {
			elev[i] = p.Erodibility
		}
	}
	return surface.New(m, elev)
}

func TestGeneratorAssemblesParameters(t *testing.T) {
	stub := &recordingSolver{}
	g := quietGenerator()
	g.Builder = mesh.GridBuilder{}
	g.Solver = stub

	cfg := smallConfig(8)
	cfg.GlobalMaxSlope = 1.2
	cfg.ConvexHullIsAlwaysOutlet = true
	res := run(t, g, cfg)

	m := res.Mesh()
	if len(stub.params) != m.Len() {
		t.Fatalf("solver received %d parameters for %d sites", len(stub.params), m.Len())
	}
	for i, p := range stub.params {
		if p.MaxSlope != 1.2 {
			t.Fatalf("site %d max slope %v", i, p.MaxSlope)
		}
		if p.Erodibility < 0.1 || p.Erodibility > 0.6 {
			t.Fatalf("site %d erodibility %v", i, p.Erodibility)
		}
		if m.IsBoundary(i) && !p.IsOutlet {
			t.Fatalf("boundary site %d should be an outlet", i)
		}
		if p.IsOutlet && !m.IsBoundary(i) && !res.OceanCandidate[i] {
			t.Fatalf("interior land site %d became an outlet", i)
		}
	}

	again := &recordingSolver{}
	g.Solver = again
	run(t, g, cfg)
	if !slices.Equal(stub.params, again.params) {
		t.Fatalf("parameter assembly is not deterministic")
	}
}

func TestGeneratorForwardsSolverFailure(t *testing.T) {
	errDiverged := errors.New("diverged")
	g := quietGenerator()
	g.Builder = mesh.GridBuilder{}
	g.Solver = &recordingSolver{err: errDiverged}
	b := DefaultBounds()
	if _, err := g.Run(smallConfig(1), b, b.Range()); !errors.Is(err, errDiverged) {
		t.Fatalf("expected solver error to be forwarded, got %v", err)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	b := DefaultBounds()
	cfg := smallConfig(0)
	cfg.LandRatio = 1.5
	if _, err := Generate(cfg, b.Min, b.Max, b.Range()); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := Generate(smallConfig(0), b.Max, b.Min, b.Range()); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected inverted bounds to be rejected, got %v", err)
	}
}

func TestHexMapBounds(t *testing.T) {
	r := DefaultBounds().Range()
	if math.Abs(r.X()-74.5) > 1e-9 {
		t.Fatalf("width = %v, want 74.5", r.X())
	}
	wantH := (45*0.75*115.47005 + 115.47005) / 100
	if math.Abs(r.Y()-wantH) > 1e-9 {
		t.Fatalf("height = %v, want %v", r.Y(), wantH)
	}
	if DefaultBounds().Min.X() != -r.X()/2 {
		t.Fatalf("bounds are not centred: %+v", DefaultBounds())
	}
}

func TestLandSweepReportsEverySample(t *testing.T) {
	cfg := smallConfig(0)
	cfg.RelaxIterations = 2
	samples, err := LandSweep(cfg, DefaultBounds(), []float64{0, 0.5, 1}, []uint32{1, 2, 3}, 2)
	if err != nil {
		t.Fatalf("LandSweep: %v", err)
	}
	if len(samples) != 9 {
		t.Fatalf("expected 9 samples, got %d", len(samples))
	}
	for _, s := range samples {
		if s.Outlets < 1 {
			t.Fatalf("sample %+v has no outlet", s)
		}
		switch s.Target {
		case 0:
			if s.Achieved != 0 {
				t.Fatalf("ratio 0 produced land: %+v", s)
			}
		case 1:
			if s.Achieved != 1 {
				t.Fatalf("ratio 1 produced ocean: %+v", s)
			}
		}
	}
	summary := SummarizeLand(samples)
	if len(summary) != 3 || summary[0].Target != 0 || summary[2].Samples != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary[0].MeanAbsError != 0 || summary[2].MeanAbsError != 0 {
		t.Fatalf("extreme ratios should be exact: %+v", summary)
	}
}

func TestLandSweepHitsTargetOnMapDomain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleNum = 1500
	cfg.RelaxIterations = 1
	seeds := []uint32{11, 12, 13, 14, 15}
	samples, err := LandSweep(cfg, DefaultBounds(), []float64{0.3, 0.6, 0.9}, seeds, 3)
	if err != nil {
		t.Fatalf("LandSweep: %v", err)
	}
	for _, sum := range SummarizeLand(samples) {
		if sum.Samples != len(seeds) {
			t.Fatalf("target %v: %d samples", sum.Target, sum.Samples)
		}
		if math.Abs(sum.MeanAchieved-sum.Target) > 0.01 {
			t.Fatalf("target %v: mean land share %v", sum.Target, sum.MeanAchieved)
		}
		if sum.MaxAbsError > 0.01 {
			t.Fatalf("target %v: worst seed off by %v", sum.Target, sum.MaxAbsError)
		}
	}
}
