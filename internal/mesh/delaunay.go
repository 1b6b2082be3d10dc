package mesh

import (
	"fmt"
	"math"
	"sort"
)

// triangle is a counter-clockwise face during construction. n[i] is the face
// across the edge opposite v[i], or -1 on the hull.
type triangle struct {
	v    [3]int
	n    [3]int
	dead bool
}

type cavityEdge struct {
	a, b    int
	outside int
}

type triangulator struct {
	pts  []Site
	tris []triangle
	last int

	stamp []int
	gen   int

	cavity []int
	edges  []cavityEdge
}

// Triangulate returns the Delaunay triangulation of pts as counter-clockwise
// index triples. The four corners of the points' bounding box must be among
// the input; they seed the triangulation so its hull is exactly that
// rectangle. Points that coincide with an earlier point are left out of every
// triangle.
func Triangulate(pts []Site) ([][3]int, error) {
	if len(pts) < 4 {
		return nil, fmt.Errorf("%w: %d points cannot span a rectangle", ErrDegenerateMesh, len(pts))
	}
	corners, err := findCorners(pts)
	if err != nil {
		return nil, err
	}

	t := &triangulator{pts: pts}
	t.seed(corners)

	inserted := make([]bool, len(pts))
	for _, c := range corners {
		inserted[c] = true
	}
	for _, i := range insertionOrder(pts) {
		if inserted[i] {
			continue
		}
		inserted[i] = true
		if err := t.insert(i); err != nil {
			return nil, err
		}
	}

	out := make([][3]int, 0, len(t.tris)/2)
	for _, tr := range t.tris {
		if !tr.dead {
			out = append(out, tr.v)
		}
	}
	return out, nil
}

// findCorners returns the indices of the bounding-box corners in the order
// (min,min), (max,min), (max,max), (min,max).
func findCorners(pts []Site) ([4]int, error) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X())
		minY = math.Min(minY, p.Y())
		maxX = math.Max(maxX, p.X())
		maxY = math.Max(maxY, p.Y())
	}
	if !(maxX > minX) || !(maxY > minY) {
		return [4]int{}, fmt.Errorf("%w: points have no area", ErrDegenerateMesh)
	}
	want := [4]Site{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}}
	corners := [4]int{-1, -1, -1, -1}
	for i, p := range pts {
		for k, c := range want {
			if corners[k] < 0 && p == c {
				corners[k] = i
			}
		}
	}
	for k, c := range corners {
		if c < 0 {
			return corners, fmt.Errorf("%w: bounding box corner %v missing", ErrDegenerateMesh, want[k])
		}
	}
	return corners, nil
}

// insertionOrder sorts point indices along a serpentine walk over a coarse
// grid so consecutive insertions are spatially close.
func insertionOrder(pts []Site) []int {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X())
		minY = math.Min(minY, p.Y())
		maxX = math.Max(maxX, p.X())
		maxY = math.Max(maxY, p.Y())
	}
	cells := int(math.Ceil(math.Sqrt(float64(len(pts)) / 4)))
	if cells < 1 {
		cells = 1
	}
	w := (maxX - minX) / float64(cells)
	h := (maxY - minY) / float64(cells)
	key := make([]int, len(pts))
	for i, p := range pts {
		cx := min(int((p.X()-minX)/w), cells-1)
		cy := min(int((p.Y()-minY)/h), cells-1)
		if cy%2 == 1 {
			cx = cells - 1 - cx
		}
		key[i] = cy*cells + cx
	}
	order := make([]int, len(pts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return key[order[a]] < key[order[b]] })
	return order
}

func (t *triangulator) seed(c [4]int) {
	t.tris = append(t.tris,
		triangle{v: [3]int{c[0], c[1], c[2]}, n: [3]int{-1, 1, -1}},
		triangle{v: [3]int{c[0], c[2], c[3]}, n: [3]int{-1, -1, 0}},
	)
	t.stamp = append(t.stamp, 0, 0)
}

func (t *triangulator) locate(p Site) int {
	cur := t.last
	if cur < 0 || cur >= len(t.tris) || t.tris[cur].dead {
		cur = t.anyAlive()
	}
	limit := 4*len(t.tris) + 16
	for step := 0; step < limit; step++ {
		tr := &t.tris[cur]
		moved := false
		for i := 0; i < 3; i++ {
			a := t.pts[tr.v[(i+1)%3]]
			b := t.pts[tr.v[(i+2)%3]]
			if orient(a, b, p) < 0 && tr.n[i] >= 0 {
				cur = tr.n[i]
				moved = true
				break
			}
		}
		if !moved {
			return cur
		}
	}
	for i, tr := range t.tris {
		if tr.dead {
			continue
		}
		a, b, c := t.pts[tr.v[0]], t.pts[tr.v[1]], t.pts[tr.v[2]]
		if orient(a, b, p) >= 0 && orient(b, c, p) >= 0 && orient(c, a, p) >= 0 {
			return i
		}
	}
	return cur
}

func (t *triangulator) anyAlive() int {
	for i := len(t.tris) - 1; i >= 0; i-- {
		if !t.tris[i].dead {
			return i
		}
	}
	return 0
}

func (t *triangulator) inCavity(ti int) bool { return t.stamp[ti] == t.gen }

func (t *triangulator) insert(pi int) error {
	p := t.pts[pi]
	start := t.locate(p)
	for _, v := range t.tris[start].v {
		if t.pts[v] == p {
			return nil
		}
	}

	t.gen++
	t.cavity = append(t.cavity[:0], start)
	t.stamp[start] = t.gen
	for head := 0; head < len(t.cavity); head++ {
		tr := t.tris[t.cavity[head]]
		for _, o := range tr.n {
			if o < 0 || t.inCavity(o) {
				continue
			}
			ot := t.tris[o]
			if inCircle(t.pts[ot.v[0]], t.pts[ot.v[1]], t.pts[ot.v[2]], p) > 0 {
				t.stamp[o] = t.gen
				t.cavity = append(t.cavity, o)
			}
		}
	}

	// Grow the cavity until p sees every boundary edge from the inside.
	for {
		t.edges = t.edges[:0]
		grown := false
		for _, ti := range t.cavity {
			tr := t.tris[ti]
			for i, o := range tr.n {
				if o >= 0 && t.inCavity(o) {
					continue
				}
				a, b := tr.v[(i+1)%3], tr.v[(i+2)%3]
				d := orient(t.pts[a], t.pts[b], p)
				switch {
				case d > 0:
					t.edges = append(t.edges, cavityEdge{a: a, b: b, outside: o})
				case o < 0 && d == 0:
					// p splits a hull edge; the hull side stays open.
				case o >= 0:
					t.stamp[o] = t.gen
					t.cavity = append(t.cavity, o)
					grown = true
				default:
					return fmt.Errorf("%w: point %v lies outside the hull", ErrDegenerateMesh, p)
				}
			}
		}
		if !grown {
			break
		}
	}

	for _, ti := range t.cavity {
		t.tris[ti].dead = true
	}

	byStart := make(map[int]int, len(t.edges))
	byEnd := make(map[int]int, len(t.edges))
	first := len(t.tris)
	for k, e := range t.edges {
		idx := first + k
		t.tris = append(t.tris, triangle{v: [3]int{e.a, e.b, pi}, n: [3]int{-1, -1, e.outside}})
		t.stamp = append(t.stamp, 0)
		byStart[e.a] = idx
		byEnd[e.b] = idx
		if e.outside >= 0 {
			out := &t.tris[e.outside]
			for j := range out.n {
				if out.n[j] >= 0 && t.tris[out.n[j]].dead && t.stamp[out.n[j]] == t.gen {
					if out.v[(j+1)%3] == e.b && out.v[(j+2)%3] == e.a {
						out.n[j] = idx
					}
				}
			}
		}
	}
	for k, e := range t.edges {
		idx := first + k
		if nb, ok := byStart[e.b]; ok {
			t.tris[idx].n[0] = nb
		}
		if nb, ok := byEnd[e.a]; ok {
			t.tris[idx].n[1] = nb
		}
	}
	t.last = len(t.tris) - 1
	return nil
}
