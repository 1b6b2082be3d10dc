// Package mesh builds irregular site meshes: a relaxed random point set over a
// rectangle, its Delaunay triangulation, the weighted adjacency graph between
// neighbouring sites and a point locator for interpolation.
package mesh

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/brentp/intintmap"
)

var (
	// ErrNoSites is returned when a mesh is requested with no sites.
	ErrNoSites = errors.New("mesh: no sites")
	// ErrDegenerateMesh is returned when the sites do not form a connected
	// triangulated surface.
	ErrDegenerateMesh = errors.New("mesh: degenerate mesh")
)

// Mesh is an immutable triangulated site set with an undirected adjacency
// graph. Edge weights are the euclidean distances between sites.
type Mesh struct {
	sites     []Site
	triangles [][3]int
	boundary  []int
	onEdge    []bool

	offsets   []int
	neighbors []int
	weights   []float64

	locator *Locator
}

// FromParts assembles a mesh from sites, triangles over those sites and the
// indices of the sites that lie on the domain boundary. Triangles are
// reoriented counter-clockwise. Every site must belong to at least one edge.
func FromParts(sites []Site, triangles [][3]int, boundary []int) (*Mesh, error) {
	if len(sites) == 0 {
		return nil, ErrNoSites
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("%w: no triangles", ErrDegenerateMesh)
	}
	n := len(sites)
	tris := make([][3]int, len(triangles))
	for i, tr := range triangles {
		for _, v := range tr {
			if v < 0 || v >= n {
				return nil, fmt.Errorf("%w: triangle %d references site %d of %d", ErrDegenerateMesh, i, v, n)
			}
		}
		if orient(sites[tr[0]], sites[tr[1]], sites[tr[2]]) < 0 {
			tr[1], tr[2] = tr[2], tr[1]
		}
		tris[i] = tr
	}

	onEdge := make([]bool, n)
	edge := make([]int, 0, len(boundary))
	for _, b := range boundary {
		if b < 0 || b >= n {
			return nil, fmt.Errorf("%w: boundary index %d of %d", ErrDegenerateMesh, b, n)
		}
		if !onEdge[b] {
			onEdge[b] = true
			edge = append(edge, b)
		}
	}
	sort.Ints(edge)

	m := &Mesh{
		sites:     sites,
		triangles: tris,
		boundary:  edge,
		onEdge:    onEdge,
	}
	if err := m.buildGraph(); err != nil {
		return nil, err
	}
	m.locator = NewLocator(sites, tris)
	return m, nil
}

func (m *Mesh) buildGraph() error {
	n := len(m.sites)
	seen := intintmap.New(len(m.triangles)*3, 0.6)
	var edges [][2]int
	degree := make([]int, n)
	for _, tr := range m.triangles {
		for k := 0; k < 3; k++ {
			a, b := tr[k], tr[(k+1)%3]
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			key := int64(a)<<32 | int64(b)
			if _, ok := seen.Get(key); ok {
				continue
			}
			seen.Put(key, int64(len(edges)))
			edges = append(edges, [2]int{a, b})
			degree[a]++
			degree[b]++
		}
	}

	m.offsets = make([]int, n+1)
	for i, d := range degree {
		if d == 0 {
			return fmt.Errorf("%w: site %d has no neighbours", ErrDegenerateMesh, i)
		}
		m.offsets[i+1] = m.offsets[i] + d
	}
	m.neighbors = make([]int, m.offsets[n])
	m.weights = make([]float64, m.offsets[n])
	fill := append([]int(nil), m.offsets[:n]...)
	for _, e := range edges {
		a, b := e[0], e[1]
		m.neighbors[fill[a]] = b
		fill[a]++
		m.neighbors[fill[b]] = a
		fill[b]++
	}
	for i := 0; i < n; i++ {
		nb := m.neighbors[m.offsets[i]:m.offsets[i+1]]
		sort.Ints(nb)
		w := m.weights[m.offsets[i]:m.offsets[i+1]]
		for k, j := range nb {
			w[k] = m.sites[i].Sub(m.sites[j]).Len()
		}
	}
	return nil
}

// Len returns the number of sites.
func (m *Mesh) Len() int { return len(m.sites) }

// Sites exposes the site positions indexed by site id. Callers must not
// modify the slice.
func (m *Mesh) Sites() []Site { return m.sites }

// Site returns the position of site i.
func (m *Mesh) Site(i int) Site { return m.sites[i] }

// Triangles exposes the counter-clockwise triangles. Callers must not modify
// the slice.
func (m *Mesh) Triangles() [][3]int { return m.triangles }

// Boundary returns the boundary site indices in ascending order.
func (m *Mesh) Boundary() []int { return m.boundary }

// IsBoundary reports whether site i lies on the domain boundary.
func (m *Mesh) IsBoundary(i int) bool { return m.onEdge[i] }

// Neighbors returns the sorted neighbour indices of site i.
func (m *Mesh) Neighbors(i int) []int {
	return m.neighbors[m.offsets[i]:m.offsets[i+1]]
}

// Weights returns the edge lengths matching Neighbors(i).
func (m *Mesh) Weights(i int) []float64 {
	return m.weights[m.offsets[i]:m.offsets[i+1]]
}

// EdgeCount returns the number of undirected edges.
func (m *Mesh) EdgeCount() int { return len(m.neighbors) / 2 }

// CellAreas assigns each site a third of the area of every triangle it
// belongs to. The areas sum to the triangulated area.
func (m *Mesh) CellAreas() []float64 {
	areas := make([]float64, len(m.sites))
	for _, tr := range m.triangles {
		a := triangleArea(m.sites[tr[0]], m.sites[tr[1]], m.sites[tr[2]]) / 3
		areas[tr[0]] += a
		areas[tr[1]] += a
		areas[tr[2]] += a
	}
	return areas
}

// Locate returns the triangle containing p and the barycentric weights of p
// within it.
func (m *Mesh) Locate(p Site) (tri int, w [3]float64, ok bool) {
	return m.locator.Locate(p)
}

// Interpolate barycentrically interpolates per-site values at p. It returns
// NaN when p is outside the mesh.
func (m *Mesh) Interpolate(values []float64, p Site) float64 {
	ti, w, ok := m.locator.Locate(p)
	if !ok || len(values) != len(m.sites) {
		return math.NaN()
	}
	tr := m.triangles[ti]
	return w[0]*values[tr[0]] + w[1]*values[tr[1]] + w[2]*values[tr[2]]
}
