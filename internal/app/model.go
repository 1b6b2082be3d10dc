// Package app hosts the interactive terrain preview. Model holds the
// generation state and is usable without a window; Game adapts it to ebiten.
package app

import (
	"fmt"
	"log/slog"

	"lemterrain/internal/core"
	"lemterrain/internal/render"
	"lemterrain/internal/terrain"
)

// Model regenerates a terrain on demand and keeps raster views of it.
type Model struct {
	cfg    terrain.Config
	bounds core.Bounds
	size   core.Size
	gen    terrain.Generator
	log    *slog.Logger

	result *terrain.Result
	dirty  bool

	elevation   *core.FloatGrid
	outlets     *core.FloatGrid
	land        *core.FloatGrid
	erodibility *core.FloatGrid
}

// NewModel prepares a model; call Regenerate to produce the first terrain.
func NewModel(cfg terrain.Config, bounds core.Bounds, size core.Size, gen terrain.Generator) *Model {
	log := gen.Log
	if log == nil {
		log = slog.Default()
	}
	return &Model{cfg: cfg, bounds: bounds, size: size, gen: gen, log: log, dirty: true}
}

// Name labels the HUD.
func (m *Model) Name() string { return "terrain" }

// Size returns the raster size in pixels.
func (m *Model) Size() core.Size { return m.size }

// Config returns the current configuration.
func (m *Model) Config() terrain.Config { return m.cfg }

// Parameters reports the configuration for the HUD.
func (m *Model) Parameters() core.ParameterSnapshot { return m.cfg.Parameters() }

// ParameterControls lists adjustable parameters.
func (m *Model) ParameterControls() []core.ParameterControl { return m.cfg.ParameterControls() }

// SetFloatParameter changes a float parameter and marks the terrain stale.
func (m *Model) SetFloatParameter(key string, value float64) bool {
	if !m.cfg.SetFloatParameter(key, value) {
		return false
	}
	m.dirty = true
	return true
}

// SetIntParameter changes an integer parameter and marks the terrain stale.
func (m *Model) SetIntParameter(key string, value int) bool {
	if !m.cfg.SetIntParameter(key, value) {
		return false
	}
	m.dirty = true
	return true
}

// Reseed switches to a new seed.
func (m *Model) Reseed(seed uint32) {
	m.cfg.Seed = seed
	m.dirty = true
}

// Dirty reports whether the terrain no longer matches the configuration.
func (m *Model) Dirty() bool { return m.dirty }

// Regenerate runs the generator and rasterises its fields.
func (m *Model) Regenerate() error {
	res, err := m.gen.Run(m.cfg, m.bounds, m.bounds.Range())
	if err != nil {
		return fmt.Errorf("regenerate: %w", err)
	}
	msh := res.Mesh()
	outlets := make([]bool, len(res.Params))
	erod := make([]float64, len(res.Params))
	for i, p := range res.Params {
		outlets[i] = p.IsOutlet
		erod[i] = p.Erodibility
	}
	land := make([]bool, len(res.OceanCandidate))
	for i, ocean := range res.OceanCandidate {
		land[i] = !ocean
	}

	m.result = res
	m.elevation = render.Rasterize(res.Surface, m.size, m.bounds)
	m.outlets = render.RasterizeField(msh, render.BoolField(outlets), m.size, m.bounds)
	m.land = render.RasterizeField(msh, render.BoolField(land), m.size, m.bounds)
	m.erodibility = render.RasterizeField(msh, erod, m.size, m.bounds)
	m.dirty = false

	lo, hi := res.Surface.Range()
	m.log.Info("terrain ready", "seed", m.cfg.Seed, "sites", msh.Len(), "land", res.LandCount(),
		"outlets", res.OutletCount(), "min", lo, "max", hi)
	return nil
}

// Result returns the last generation, or nil before the first.
func (m *Model) Result() *terrain.Result { return m.result }

// ElevationField is the rasterised elevation.
func (m *Model) ElevationField() *core.FloatGrid { return m.elevation }

// OutletField is 1 where the nearest sites are outlets.
func (m *Model) OutletField() *core.FloatGrid { return m.outlets }

// LandField is 1 over land.
func (m *Model) LandField() *core.FloatGrid { return m.land }

// ErodibilityField is the rasterised erodibility.
func (m *Model) ErodibilityField() *core.FloatGrid { return m.erodibility }
