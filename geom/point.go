package geom

import (
	"fmt"
	"math"
)

// Point is a position on the canvas.
type Point struct {
	X float64
	Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (pt Point) String() string {
	return fmt.Sprintf("(%g, %g)", pt.X, pt.Y)
}

// Translate returns pt moved by o.
func (pt Point) Translate(o Vec2) Point { return Point{pt.X + o.X, pt.Y + o.Y} }

func (pt Point) Transform(aff Affine) Point {
	return Point{
		X: aff.N0*pt.X + aff.N2*pt.Y + aff.N4,
		Y: aff.N1*pt.X + aff.N3*pt.Y + aff.N5,
	}
}

// Sub returns the displacement from o to pt.
func (pt Point) Sub(o Point) Vec2 { return Vec2{pt.X - o.X, pt.Y - o.Y} }

// Lerp linearly interpolates between two points.
func (pt Point) Lerp(o Point, t float64) Point {
	return Point(Vec2(pt).Lerp(Vec2(o), t))
}

// Midpoint returns the midpoint of two points.
func (pt Point) Midpoint(o Point) Point {
	return Point{
		X: 0.5 * (pt.X + o.X),
		Y: 0.5 * (pt.Y + o.Y),
	}
}

func (pt Point) Distance(o Point) float64 { return pt.Sub(o).Hypot() }

func (pt Point) DistanceSquared(o Point) float64 { return pt.Sub(o).Hypot2() }

// Centroid returns the arithmetic mean of pts. It returns the origin for an
// empty slice.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var sum Vec2
	for _, p := range pts {
		sum = sum.Add(Vec2(p))
	}
	return Point(sum.Div(float64(len(pts))))
}

// Bilinear evaluates the bilinear patch spanned by the four corners p00,
// p10, p11, p01 (in that winding) at (u, v).
func Bilinear(p00, p10, p11, p01 Point, u, v float64) Point {
	top := p00.Lerp(p10, u)
	bottom := p01.Lerp(p11, u)
	return top.Lerp(bottom, v)
}

// BilinearWeights returns the weights of the four corners of a bilinear
// patch at (u, v), in the same order as [Bilinear] takes them.
func BilinearWeights(u, v float64) [4]float64 {
	return [4]float64{
		(1 - u) * (1 - v),
		u * (1 - v),
		u * v,
		(1 - u) * v,
	}
}

// InverseBilinear finds (u, v) such that Bilinear(p00, p10, p11, p01, u, v)
// is pt. The result is only meaningful for non-degenerate patches; ok is
// false if Newton's method does not converge. The returned coordinates are
// not clamped, so points outside the patch yield values outside [0, 1].
func InverseBilinear(p00, p10, p11, p01, pt Point) (uv Vec2, ok bool) {
	const (
		maxIter = 20
		eps     = 1e-12
	)
	u, v := 0.5, 0.5
	for range maxIter {
		f := Bilinear(p00, p10, p11, p01, u, v).Sub(pt)
		// partial derivatives
		du := p10.Sub(p00).Mul(1 - v).Add(p11.Sub(p01).Mul(v))
		dv := p01.Sub(p00).Mul(1 - u).Add(p11.Sub(p10).Mul(u))
		det := du.Cross(dv)
		if math.Abs(det) < eps {
			return Vec2{}, false
		}
		su := (f.X*dv.Y - f.Y*dv.X) / det
		sv := (du.X*f.Y - du.Y*f.X) / det
		u -= su
		v -= sv
		if su*su+sv*sv < eps*eps {
			return Vec2{u, v}, true
		}
	}
	uv = Vec2{u, v}
	return uv, Bilinear(p00, p10, p11, p01, u, v).DistanceSquared(pt) < 1e-12
}
