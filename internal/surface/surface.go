// Package surface holds generated elevations over a site mesh and answers
// point queries against them.
package surface

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"lemterrain/internal/mesh"
)

// ErrElevationCount is returned when the elevations do not match the mesh.
var ErrElevationCount = errors.New("surface: elevation count does not match site count")

// Surface maps mesh sites to elevations and interpolates between them.
type Surface struct {
	mesh       *mesh.Mesh
	elevations []float64
}

// New wraps per-site elevations. The slice is owned by the surface afterwards.
func New(m *mesh.Mesh, elevations []float64) (*Surface, error) {
	if m == nil || len(elevations) != m.Len() {
		n := 0
		if m != nil {
			n = m.Len()
		}
		return nil, fmt.Errorf("%w: %d elevations for %d sites", ErrElevationCount, len(elevations), n)
	}
	return &Surface{mesh: m, elevations: elevations}, nil
}

// Mesh returns the underlying site mesh.
func (s *Surface) Mesh() *mesh.Mesh { return s.mesh }

// Len returns the number of sites.
func (s *Surface) Len() int { return len(s.elevations) }

// Elevation returns the elevation at site i.
func (s *Surface) Elevation(i int) float64 { return s.elevations[i] }

// Elevations exposes the per-site elevations. Callers must not modify the
// slice.
func (s *Surface) Elevations() []float64 { return s.elevations }

// ElevationAt interpolates the elevation at (x, y). It returns NaN for points
// outside the mesh; NaN means "no data" and must not be treated as zero.
func (s *Surface) ElevationAt(x, y float64) float64 {
	return s.mesh.Interpolate(s.elevations, mesh.Site{x, y})
}

// Average samples ElevationAt at each point and averages the defined values.
// n reports how many points contributed; the average is NaN when n is 0.
func (s *Surface) Average(points []mesh.Site) (avg float64, n int) {
	var sum float64
	for _, p := range points {
		e := s.ElevationAt(p.X(), p.Y())
		if math.IsNaN(e) {
			continue
		}
		sum += e
		n++
	}
	if n == 0 {
		return math.NaN(), 0
	}
	return sum / float64(n), n
}

// Range returns the lowest and highest site elevations.
func (s *Surface) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, e := range s.elevations {
		lo = math.Min(lo, e)
		hi = math.Max(hi, e)
	}
	return lo, hi
}

// Fingerprint hashes site positions and elevations.
func (s *Surface) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	for i, p := range s.mesh.Sites() {
		put(p.X())
		put(p.Y())
		put(s.elevations[i])
	}
	return d.Sum64()
}

// ID derives a stable name-based UUID from the fingerprint.
func (s *Surface) ID() uuid.UUID {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], s.Fingerprint())
	return uuid.NewSHA1(uuid.NameSpaceOID, buf[:])
}
