package mesh

import (
	"fmt"
	"math"

	"lemterrain/internal/core"
)

// RandomBuilder scatters sites uniformly over the domain, relaxes them towards
// the centroids of their surrounding triangles and rings the domain with edge
// sites. The edge sites are appended after the scattered ones and form the
// mesh boundary.
type RandomBuilder struct {
	RelaxIterations int
}

// Build creates a mesh of count scattered sites plus the edge ring.
func (b RandomBuilder) Build(count int, bounds core.Bounds, seed uint64) (*Mesh, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: requested %d sites", ErrNoSites, count)
	}
	if !bounds.Valid() {
		return nil, fmt.Errorf("%w: bounds %v", ErrDegenerateMesh, bounds)
	}

	rng := core.NewRNG(seed)
	pts := make([]Site, count, count+4*int(math.Sqrt(float64(count)))+8)
	for i := range pts {
		pts[i] = Site{
			rng.Open(bounds.Min.X(), bounds.Max.X()),
			rng.Open(bounds.Min.Y(), bounds.Max.Y()),
		}
	}
	pts = append(pts, EdgeRing(bounds, count)...)

	for it := 0; it < b.RelaxIterations; it++ {
		tris, err := Triangulate(pts)
		if err != nil {
			return nil, fmt.Errorf("relax pass %d: %w", it, err)
		}
		relax(pts, count, tris, bounds)
	}

	tris, err := Triangulate(pts)
	if err != nil {
		return nil, err
	}
	boundary := make([]int, 0, len(pts)-count)
	for i := count; i < len(pts); i++ {
		boundary = append(boundary, i)
	}
	return FromParts(pts, tris, boundary)
}

// EdgeRing returns sites along the rectangle's perimeter, counter-clockwise
// from the minimum corner, spaced roughly as far apart as count sites spread
// evenly over the area would be. All four corners are included.
func EdgeRing(bounds core.Bounds, count int) []Site {
	r := bounds.Range()
	spacing := math.Sqrt(bounds.Area() / float64(max(count, 1)))
	nx := max(1, int(math.Ceil(r.X()/spacing)))
	ny := max(1, int(math.Ceil(r.Y()/spacing)))
	dx := r.X() / float64(nx)
	dy := r.Y() / float64(ny)

	minX, minY := bounds.Min.X(), bounds.Min.Y()
	maxX, maxY := bounds.Max.X(), bounds.Max.Y()
	ring := make([]Site, 0, 2*(nx+ny))
	for i := 0; i < nx; i++ {
		ring = append(ring, Site{minX + float64(i)*dx, minY})
	}
	for j := 0; j < ny; j++ {
		ring = append(ring, Site{maxX, minY + float64(j)*dy})
	}
	for i := 0; i < nx; i++ {
		ring = append(ring, Site{maxX - float64(i)*dx, maxY})
	}
	for j := 0; j < ny; j++ {
		ring = append(ring, Site{minX, maxY - float64(j)*dy})
	}
	return ring
}

// relax moves each of the first movable sites to the area-weighted centroid
// of its incident triangles, keeping it strictly inside bounds.
func relax(pts []Site, movable int, tris [][3]int, bounds core.Bounds) {
	sum := make([]Site, movable)
	weight := make([]float64, movable)
	for _, tr := range tris {
		a, b, c := pts[tr[0]], pts[tr[1]], pts[tr[2]]
		area := triangleArea(a, b, c)
		if area == 0 {
			continue
		}
		ctr := centroid(a, b, c).Mul(area)
		for _, v := range tr {
			if v < movable {
				sum[v] = sum[v].Add(ctr)
				weight[v] += area
			}
		}
	}
	r := bounds.Range()
	marginX, marginY := r.X()*1e-9, r.Y()*1e-9
	for i := 0; i < movable; i++ {
		if weight[i] == 0 {
			continue
		}
		p := sum[i].Mul(1 / weight[i])
		pts[i] = Site{
			math.Min(math.Max(p.X(), bounds.Min.X()+marginX), bounds.Max.X()-marginX),
			math.Min(math.Max(p.Y(), bounds.Min.Y()+marginY), bounds.Max.Y()-marginY),
		}
	}
}

// GridBuilder lays sites on a regular lattice with two triangles per cell.
// It ignores the seed and is intended as a predictable stand-in for
// RandomBuilder.
type GridBuilder struct{}

// Build creates a lattice with roughly count interior sites. Interior sites
// come first in row-major order, followed by the perimeter sites.
func (GridBuilder) Build(count int, bounds core.Bounds, _ uint64) (*Mesh, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: requested %d sites", ErrNoSites, count)
	}
	if !bounds.Valid() {
		return nil, fmt.Errorf("%w: bounds %v", ErrDegenerateMesh, bounds)
	}
	side := int(math.Ceil(math.Sqrt(float64(count)))) + 1
	cols, rows := side+1, side+1

	index := make([]int, cols*rows)
	var sites []Site
	var boundary []int
	onRim := func(x, y int) bool { return x == 0 || y == 0 || x == cols-1 || y == rows-1 }
	for pass := 0; pass < 2; pass++ {
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				if onRim(x, y) != (pass == 1) {
					continue
				}
				index[y*cols+x] = len(sites)
				if pass == 1 {
					boundary = append(boundary, len(sites))
				}
				sites = append(sites, bounds.Lerp(float64(x)/float64(cols-1), float64(y)/float64(rows-1)))
			}
		}
	}

	tris := make([][3]int, 0, 2*(cols-1)*(rows-1))
	for y := 0; y+1 < rows; y++ {
		for x := 0; x+1 < cols; x++ {
			a := index[y*cols+x]
			b := index[y*cols+x+1]
			c := index[(y+1)*cols+x+1]
			d := index[(y+1)*cols+x]
			tris = append(tris, [3]int{a, b, c}, [3]int{a, c, d})
		}
	}
	return FromParts(sites, tris, boundary)
}
