package mesh

import "math"

const baryEpsilon = -1e-9

// Locator buckets triangles into a uniform grid for point location.
type Locator struct {
	sites     []Site
	triangles [][3]int

	minX, minY float64
	maxX, maxY float64
	cellW      float64
	cellH      float64
	gridW      int
	gridH      int

	// Each cell lists the triangles whose bounding box overlaps it.
	cells [][]int
}

// NewLocator indexes the triangles over sites.
func NewLocator(sites []Site, triangles [][3]int) *Locator {
	l := &Locator{sites: sites, triangles: triangles}
	l.minX, l.minY = math.Inf(1), math.Inf(1)
	l.maxX, l.maxY = math.Inf(-1), math.Inf(-1)
	for _, tr := range triangles {
		for _, v := range tr {
			p := sites[v]
			l.minX = math.Min(l.minX, p.X())
			l.minY = math.Min(l.minY, p.Y())
			l.maxX = math.Max(l.maxX, p.X())
			l.maxY = math.Max(l.maxY, p.Y())
		}
	}
	w := l.maxX - l.minX
	h := l.maxY - l.minY
	if len(triangles) == 0 || !(w > 0) || !(h > 0) {
		return l
	}
	side := math.Sqrt(float64(len(triangles)) / 2)
	aspect := w / h
	l.gridW = max(1, int(math.Ceil(side*math.Sqrt(aspect))))
	l.gridH = max(1, int(math.Ceil(side/math.Sqrt(aspect))))
	l.cellW = w / float64(l.gridW)
	l.cellH = h / float64(l.gridH)
	l.cells = make([][]int, l.gridW*l.gridH)

	for ti, tr := range triangles {
		a, b, c := sites[tr[0]], sites[tr[1]], sites[tr[2]]
		x0, y0 := l.cell(math.Min(a.X(), math.Min(b.X(), c.X())), math.Min(a.Y(), math.Min(b.Y(), c.Y())))
		x1, y1 := l.cell(math.Max(a.X(), math.Max(b.X(), c.X())), math.Max(a.Y(), math.Max(b.Y(), c.Y())))
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				idx := cy*l.gridW + cx
				l.cells[idx] = append(l.cells[idx], ti)
			}
		}
	}
	return l
}

func (l *Locator) cell(x, y float64) (int, int) {
	cx := int((x - l.minX) / l.cellW)
	cy := int((y - l.minY) / l.cellH)
	return min(max(cx, 0), l.gridW-1), min(max(cy, 0), l.gridH-1)
}

// Locate finds the triangle containing p. Points on a shared edge resolve to
// whichever neighbouring triangle is tested first.
func (l *Locator) Locate(p Site) (int, [3]float64, bool) {
	var none [3]float64
	if l == nil || l.cells == nil {
		return -1, none, false
	}
	if math.IsNaN(p.X()) || math.IsNaN(p.Y()) {
		return -1, none, false
	}
	if p.X() < l.minX || p.X() > l.maxX || p.Y() < l.minY || p.Y() > l.maxY {
		return -1, none, false
	}
	cx, cy := l.cell(p.X(), p.Y())
	for _, ti := range l.cells[cy*l.gridW+cx] {
		tr := l.triangles[ti]
		w, ok := barycentric(l.sites[tr[0]], l.sites[tr[1]], l.sites[tr[2]], p)
		if !ok {
			continue
		}
		if w[0] >= baryEpsilon && w[1] >= baryEpsilon && w[2] >= baryEpsilon {
			return ti, w, true
		}
	}
	return -1, none, false
}
