package mesh

import "github.com/go-gl/mathgl/mgl64"

// Site is a 2D sample point in domain units.
type Site = mgl64.Vec2

// orient returns twice the signed area of triangle abc. It is positive when
// a, b, c wind counter-clockwise.
func orient(a, b, c Site) float64 {
	return (b.X()-a.X())*(c.Y()-a.Y()) - (b.Y()-a.Y())*(c.X()-a.X())
}

// inCircle is positive when d lies strictly inside the circumcircle of the
// counter-clockwise triangle abc.
func inCircle(a, b, c, d Site) float64 {
	adx, ady := a.X()-d.X(), a.Y()-d.Y()
	bdx, bdy := b.X()-d.X(), b.Y()-d.Y()
	cdx, cdy := c.X()-d.X(), c.Y()-d.Y()

	ad := adx*adx + ady*ady
	bd := bdx*bdx + bdy*bdy
	cd := cdx*cdx + cdy*cdy

	return adx*(bdy*cd-bd*cdy) - ady*(bdx*cd-bd*cdx) + ad*(bdx*cdy-bdy*cdx)
}

func triangleArea(a, b, c Site) float64 {
	area := orient(a, b, c) / 2
	if area < 0 {
		return -area
	}
	return area
}

func centroid(a, b, c Site) Site {
	return a.Add(b).Add(c).Mul(1.0 / 3.0)
}

// barycentric returns the weights of p relative to triangle abc. ok is false
// for degenerate triangles.
func barycentric(a, b, c, p Site) (w [3]float64, ok bool) {
	det := orient(a, b, c)
	if det == 0 {
		return w, false
	}
	w[0] = orient(b, c, p) / det
	w[1] = orient(c, a, p) / det
	w[2] = 1 - w[0] - w[1]
	return w, true
}
