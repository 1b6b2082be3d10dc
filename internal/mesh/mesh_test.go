package mesh

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lemterrain/internal/core"
)

var testBounds = core.CenteredBounds(74.5, 40.1)

func scatter(n int, b core.Bounds, seed uint64) []Site {
	rng := core.NewRNG(seed)
	pts := make([]Site, n)
	for i := range pts {
		pts[i] = Site{rng.Open(b.Min.X(), b.Max.X()), rng.Open(b.Min.Y(), b.Max.Y())}
	}
	return append(pts, EdgeRing(b, n)...)
}

func TestTriangulateEulerCount(t *testing.T) {
	for _, n := range []int{1, 10, 100, 500} {
		pts := scatter(n, testBounds, uint64(n))
		ring := len(pts) - n
		tris, err := Triangulate(pts)
		require.NoError(t, err)
		assert.Equal(t, 2*n+ring-2, len(tris), "triangle count for %d interior sites", n)

		var area float64
		for _, tr := range tris {
			o := orient(pts[tr[0]], pts[tr[1]], pts[tr[2]])
			assert.Greater(t, o, 0.0, "triangle %v not counter-clockwise", tr)
			area += o / 2
		}
		assert.InDelta(t, testBounds.Area(), area, 1e-6*testBounds.Area())
	}
}

func TestTriangulateIsDelaunay(t *testing.T) {
	pts := scatter(80, testBounds, 3)
	tris, err := Triangulate(pts)
	require.NoError(t, err)
	for _, tr := range tris {
		a, b, c := pts[tr[0]], pts[tr[1]], pts[tr[2]]
		scale := math.Pow(a.Sub(b).Len()*b.Sub(c).Len()*c.Sub(a).Len(), 4.0/3.0)
		for i, p := range pts {
			if i == tr[0] || i == tr[1] || i == tr[2] {
				continue
			}
			assert.LessOrEqual(t, inCircle(a, b, c, p), 1e-9*scale, "site %d inside circumcircle of %v", i, tr)
		}
	}
}

func TestTriangulateRequiresCorners(t *testing.T) {
	pts := []Site{{0, 0}, {1, 0}, {1, 1}, {0.5, 0.5}, {0.2, 0.9}}
	_, err := Triangulate(pts)
	assert.ErrorIs(t, err, ErrDegenerateMesh)
}

func TestTriangulateSkipsDuplicates(t *testing.T) {
	pts := []Site{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0.4, 0.6}, {0.4, 0.6}}
	tris, err := Triangulate(pts)
	require.NoError(t, err)
	assert.Len(t, tris, 4)
	for _, tr := range tris {
		assert.NotContains(t, tr[:], 5)
	}
}

func TestRandomBuilderDeterministic(t *testing.T) {
	b := RandomBuilder{RelaxIterations: 3}
	m1, err := b.Build(200, testBounds, 11)
	require.NoError(t, err)
	m2, err := b.Build(200, testBounds, 11)
	require.NoError(t, err)
	m3, err := b.Build(200, testBounds, 12)
	require.NoError(t, err)

	assert.Equal(t, m1.Sites(), m2.Sites())
	assert.Equal(t, m1.Triangles(), m2.Triangles())
	assert.NotEqual(t, m1.Sites(), m3.Sites())
}

func TestRandomBuilderBoundaryAppendedLast(t *testing.T) {
	m, err := RandomBuilder{RelaxIterations: 10}.Build(100, testBounds, 0)
	require.NoError(t, err)

	boundary := m.Boundary()
	require.NotEmpty(t, boundary)
	assert.Equal(t, 100, boundary[0])
	assert.Equal(t, m.Len()-1, boundary[len(boundary)-1])
	for i := 0; i < m.Len(); i++ {
		p := m.Site(i)
		onEdge := p.X() == testBounds.Min.X() || p.X() == testBounds.Max.X() ||
			p.Y() == testBounds.Min.Y() || p.Y() == testBounds.Max.Y()
		assert.Equal(t, onEdge, m.IsBoundary(i), "site %d at %v", i, p)
		assert.True(t, testBounds.Contains(p), "site %d escaped the domain: %v", i, p)
	}
}

func TestGraphIsSymmetricAndConnected(t *testing.T) {
	m, err := RandomBuilder{RelaxIterations: 2}.Build(300, testBounds, 5)
	require.NoError(t, err)

	for i := 0; i < m.Len(); i++ {
		nb, w := m.Neighbors(i), m.Weights(i)
		require.Equal(t, len(nb), len(w))
		for k, j := range nb {
			assert.Contains(t, m.Neighbors(j), i)
			assert.InDelta(t, m.Site(i).Sub(m.Site(j)).Len(), w[k], 1e-12)
		}
	}

	seen := make([]bool, m.Len())
	stack := []int{0}
	seen[0] = true
	count := 1
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, j := range m.Neighbors(cur) {
			if !seen[j] {
				seen[j] = true
				count++
				stack = append(stack, j)
			}
		}
	}
	assert.Equal(t, m.Len(), count)
	assert.Equal(t, 3*m.Len()-3-len(m.Boundary()), m.EdgeCount())
}

func TestInterpolateReproducesLinearField(t *testing.T) {
	m, err := RandomBuilder{RelaxIterations: 1}.Build(150, testBounds, 9)
	require.NoError(t, err)

	f := func(p Site) float64 { return 2*p.X() - 3*p.Y() + 1 }
	values := make([]float64, m.Len())
	for i, p := range m.Sites() {
		values[i] = f(p)
	}

	rng := core.NewRNG(77)
	for i := 0; i < 500; i++ {
		p := Site{rng.Open(testBounds.Min.X(), testBounds.Max.X()), rng.Open(testBounds.Min.Y(), testBounds.Max.Y())}
		assert.InDelta(t, f(p), m.Interpolate(values, p), 1e-7)
	}
	for i, p := range m.Sites() {
		assert.InDelta(t, values[i], m.Interpolate(values, p), 1e-7)
	}
	for _, p := range []Site{{100, 0}, {0, -21}, {-38, 21}, {math.NaN(), 0}} {
		assert.True(t, math.IsNaN(m.Interpolate(values, p)), "expected NaN at %v", p)
	}
}

func TestCellAreasCoverDomain(t *testing.T) {
	m, err := GridBuilder{}.Build(16, testBounds, 0)
	require.NoError(t, err)
	var total float64
	for _, a := range m.CellAreas() {
		assert.Greater(t, a, 0.0)
		total += a
	}
	assert.InDelta(t, testBounds.Area(), total, 1e-9)
}

func TestGridBuilderLayout(t *testing.T) {
	m, err := GridBuilder{}.Build(9, core.NewBounds(mgl64.Vec2{0, 0}, mgl64.Vec2{4, 4}), 0)
	require.NoError(t, err)
	// side 4 -> 5x5 lattice, 9 interior sites then 16 rim sites.
	assert.Equal(t, 25, m.Len())
	assert.Len(t, m.Boundary(), 16)
	assert.Equal(t, 9, m.Boundary()[0])
	assert.Len(t, m.Triangles(), 32)
	assert.Equal(t, Site{1, 1}, m.Site(0))
	for _, b := range m.Boundary() {
		assert.True(t, m.IsBoundary(b))
	}
}

func TestBuildErrors(t *testing.T) {
	_, err := RandomBuilder{}.Build(0, testBounds, 0)
	assert.ErrorIs(t, err, ErrNoSites)
	_, err = GridBuilder{}.Build(-3, testBounds, 0)
	assert.ErrorIs(t, err, ErrNoSites)
	_, err = RandomBuilder{}.Build(10, core.Bounds{}, 0)
	assert.ErrorIs(t, err, ErrDegenerateMesh)

	sites := []Site{{0, 0}, {1, 0}, {0, 1}, {5, 5}}
	_, err = FromParts(sites, [][3]int{{0, 1, 2}}, []int{0, 1, 2})
	assert.ErrorIs(t, err, ErrDegenerateMesh)
	_, err = FromParts(nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoSites)
}

func TestFromPartsReorientsTriangles(t *testing.T) {
	sites := []Site{{0, 0}, {1, 0}, {0, 1}}
	m, err := FromParts(sites, [][3]int{{0, 2, 1}}, []int{2, 0, 1, 0})
	require.NoError(t, err)
	tr := m.Triangles()[0]
	assert.Greater(t, orient(sites[tr[0]], sites[tr[1]], sites[tr[2]]), 0.0)
	assert.Equal(t, []int{0, 1, 2}, m.Boundary())
}

func TestRandomBuilderRelaxesAgainstFixedEdgeRing(t *testing.T) {
	const count = 100
	relaxed, err := RandomBuilder{RelaxIterations: 5}.Build(count, testBounds, 7)
	require.NoError(t, err)
	raw, err := RandomBuilder{}.Build(count, testBounds, 7)
	require.NoError(t, err)

	ring := EdgeRing(testBounds, count)
	assert.Equal(t, ring, relaxed.Sites()[count:])
	assert.Equal(t, ring, raw.Sites()[count:])
	assert.NotEqual(t, raw.Sites()[:count], relaxed.Sites()[:count])
}
