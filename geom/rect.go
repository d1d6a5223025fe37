package geom

import "math"

// Rect is an axis-aligned rectangle with minimum corner X0, Y0.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// EmptyRect contains nothing and is absorbed by UnionPoint.
var EmptyRect = Rect{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}

// BoundingRect returns the bounding box of pts, or [EmptyRect].
func BoundingRect(pts ...Point) Rect {
	r := EmptyRect
	for _, p := range pts {
		r = r.UnionPoint(p)
	}
	return r
}

// Contains reports whether pt lies inside the rectangle. Edges count as
// inside.
func (r Rect) Contains(pt Point) bool {
	return pt.X >= r.X0 && pt.X <= r.X1 && pt.Y >= r.Y0 && pt.Y <= r.Y1
}

// UnionPoint returns the smallest rectangle enclosing r and pt.
func (r Rect) UnionPoint(pt Point) Rect {
	return Rect{
		X0: min(r.X0, pt.X),
		Y0: min(r.Y0, pt.Y),
		X1: max(r.X1, pt.X),
		Y1: max(r.Y1, pt.Y),
	}
}

// Inflate expands the rectangle by width on the left and right and height
// on the top and bottom.
func (r Rect) Inflate(width, height float64) Rect {
	return Rect{
		X0: r.X0 - width,
		Y0: r.Y0 - height,
		X1: r.X1 + width,
		Y1: r.Y1 + height,
	}
}
