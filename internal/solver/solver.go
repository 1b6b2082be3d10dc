// Package solver computes steady-state elevations over a site mesh from
// per-site erodibility, outlet flags and slope caps.
package solver

import (
	"errors"
	"fmt"
	"math"

	"lemterrain/internal/mesh"
	"lemterrain/internal/surface"
)

var (
	// ErrParameterCount is returned when the parameters do not match the mesh.
	ErrParameterCount = errors.New("solver: parameter count does not match site count")
	// ErrInvalidParameter is returned for non-positive or non-finite
	// erodibility values.
	ErrInvalidParameter = errors.New("solver: invalid parameter")
	// ErrNoOutlet is returned when no site is marked as an outlet.
	ErrNoOutlet = errors.New("solver: no outlet")
	// ErrUnreachable is returned when some site cannot drain to any outlet.
	ErrUnreachable = errors.New("solver: site cannot reach an outlet")
)

// Parameters are the per-site inputs of a solve.
type Parameters struct {
	// Erodibility scales how fast the site is worn down; it must be positive.
	Erodibility float64
	// IsOutlet pins the site at elevation zero and lets water leave the mesh.
	IsOutlet bool
	// MaxSlope caps the slope towards the downstream neighbour, in radians.
	// Zero or negative disables the cap.
	MaxSlope float64
}

// StreamPower balances uplift against stream-power erosion,
// U = K * A^m * S, and solves for the slope S along each drainage path.
type StreamPower struct {
	UpliftRate    float64
	AreaExponent  float64
	MaxIterations int
	Tolerance     float64
}

// Default returns the solver used by terrain generation.
func Default() StreamPower {
	return StreamPower{
		UpliftRate:    1,
		AreaExponent:  0.5,
		MaxIterations: 10,
		Tolerance:     1e-6,
	}
}

// Solve returns the steady-state elevation surface. It is deterministic for a
// given mesh and parameter slice.
func (s StreamPower) Solve(m *mesh.Mesh, params []Parameters) (*surface.Surface, error) {
	n := m.Len()
	if len(params) != n {
		return nil, fmt.Errorf("%w: %d parameters for %d sites", ErrParameterCount, len(params), n)
	}
	outlets := 0
	maxGrade := make([]float64, n)
	for i, p := range params {
		if !(p.Erodibility > 0) || math.IsInf(p.Erodibility, 0) {
			return nil, fmt.Errorf("%w: site %d erodibility %v", ErrInvalidParameter, i, p.Erodibility)
		}
		if p.IsOutlet {
			outlets++
		}
		maxGrade[i] = math.Inf(1)
		if p.MaxSlope > 0 && p.MaxSlope < math.Pi/2 {
			maxGrade[i] = math.Tan(p.MaxSlope)
		}
	}
	if outlets == 0 {
		return nil, ErrNoOutlet
	}

	uplift := s.UpliftRate
	if uplift <= 0 {
		uplift = 1
	}
	iterations := max(s.MaxIterations, 1)

	elev, err := distanceFromOutlets(m, params)
	if err != nil {
		return nil, err
	}
	cells := m.CellAreas()
	area := make([]float64, n)

	for it := 0; it < iterations; it++ {
		d := floodReceivers(m, params, elev)
		if len(d.order) < n {
			return nil, fmt.Errorf("%w: %d of %d sites drained", ErrUnreachable, len(d.order), n)
		}

		copy(area, cells)
		for k := len(d.order) - 1; k >= 0; k-- {
			i := d.order[k]
			if r := d.receiver[i]; r >= 0 {
				area[r] += area[i]
			}
		}

		var delta, peak float64
		for _, i := range d.order {
			h := 0.0
			if r := d.receiver[i]; r >= 0 {
				grade := uplift / (params[i].Erodibility * math.Pow(area[i], s.AreaExponent))
				grade = math.Min(grade, maxGrade[i])
				h = elev[r] + grade*d.length[i]
			}
			delta = math.Max(delta, math.Abs(h-elev[i]))
			peak = math.Max(peak, h)
			elev[i] = h
		}
		if delta <= s.Tolerance*math.Max(1, peak) {
			break
		}
	}
	return surface.New(m, elev)
}
