package geom

import "math"

// Line represents a line segment.
type Line struct {
	// The line's start point.
	P0 Point
	// The line's end point.
	P1 Point
}

func (l Line) Eval(t float64) Point {
	return l.P0.Lerp(l.P1, t)
}

// Nearest returns the squared distance from pt to the closest point of the
// segment, and that point's parameter t ∈ [0, 1].
func (l Line) Nearest(pt Point) (distSq, t float64) {
	d := l.P1.Sub(l.P0)
	dotp := d.Dot(pt.Sub(l.P0))
	dSquared := d.Dot(d)
	if dotp <= 0.0 {
		return pt.Sub(l.P0).Hypot2(), 0.0
	} else if dotp >= dSquared {
		return pt.Sub(l.P1).Hypot2(), 1.0
	} else {
		t := dotp / dSquared
		dist := pt.Sub(l.Eval(t)).Hypot2()
		return dist, t
	}
}

// Distance returns the distance from pt to the segment.
func (l Line) Distance(pt Point) float64 {
	d, _ := l.Nearest(pt)
	return math.Sqrt(d)
}

// ExitCircle returns the parameter at which the segment leaves the circle
// of radius r around center, that is, the largest t ∈ [0, 1] with
// |Eval(t) − center| = r. ok is false if the segment never crosses the
// circle on its way out.
func (l Line) ExitCircle(center Point, r float64) (t float64, ok bool) {
	d := l.P1.Sub(l.P0)
	f := l.P0.Sub(center)
	a := d.Dot(d)
	if a == 0 {
		return 0, false
	}
	b := 2 * f.Dot(d)
	c := f.Dot(f) - r*r
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	t = (-b + math.Sqrt(disc)) / (2 * a)
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}
