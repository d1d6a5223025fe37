package stroke

import (
	"math"
	"sort"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
)

// Polyline parametrizes a sequence of points by cumulative arclength.
//
// The point slice is owned by the polyline once passed to [NewPolyline].
// Code that mutates it directly must call [Polyline.UpdateLengths]
// afterwards.
type Polyline struct {
	pts []Point
	// lengths[i] is the arclength from pts[0] to pts[i].
	lengths []float64
}

// NewPolyline returns the polyline through pts. It fails with
// [frite.ErrTooFewPoints] if there are fewer than two points.
func NewPolyline(pts []Point) (*Polyline, error) {
	if len(pts) < 2 {
		return nil, frite.ErrTooFewPoints
	}
	pl := &Polyline{pts: pts}
	pl.UpdateLengths()
	return pl, nil
}

// UpdateLengths recomputes the cumulative arclengths.
func (pl *Polyline) UpdateLengths() {
	pl.lengths = pl.lengths[:0]
	if cap(pl.lengths) < len(pl.pts) {
		pl.lengths = make([]float64, 0, len(pl.pts))
	}
	acc := 0.0
	for i, p := range pl.pts {
		if i > 0 {
			acc += p.Pos.Distance(pl.pts[i-1].Pos)
		}
		pl.lengths = append(pl.lengths, acc)
	}
}

// Len returns the number of points.
func (pl *Polyline) Len() int { return len(pl.pts) }

// At returns the i-th point.
func (pl *Polyline) At(i int) Point { return pl.pts[i] }

// Points returns the underlying points.
func (pl *Polyline) Points() []Point { return pl.pts }

// Lengths returns the cumulative arclength at every point. The slice must
// not be modified.
func (pl *Polyline) Lengths() []float64 { return pl.lengths }

// Length returns the total arclength.
func (pl *Polyline) Length() float64 {
	if len(pl.lengths) == 0 {
		return 0
	}
	return pl.lengths[len(pl.lengths)-1]
}

// ParamToIdx returns the index i of the segment [pts[i], pts[i+1]]
// containing arclength s. Values outside [0, Length] map to the first or
// last segment.
func (pl *Polyline) ParamToIdx(s float64) int {
	n := len(pl.pts)
	if n < 2 {
		return 0
	}
	i := sort.Search(n, func(i int) bool { return pl.lengths[i] > s })
	return min(max(i-1, 0), n-2)
}

// segment returns the segment index for s and the fraction of s along it.
// Zero-length segments report a fraction of 0.
func (pl *Polyline) segment(s float64) (i int, t float64, invLength float64) {
	i = pl.ParamToIdx(s)
	l := pl.lengths[i+1] - pl.lengths[i]
	invLength = 1
	if l > 0 {
		invLength = 1 / l
	}
	t = (s - pl.lengths[i]) * invLength
	return i, min(max(t, 0), 1), invLength
}

// Pos returns the position at arclength s.
func (pl *Polyline) Pos(s float64) geom.Point {
	switch len(pl.pts) {
	case 0:
		return geom.Point{}
	case 1:
		return pl.pts[0].Pos
	}
	i, t, _ := pl.segment(s)
	return pl.pts[i].Pos.Lerp(pl.pts[i+1].Pos, t)
}

// Tangent returns the direction of the segment containing arclength s,
// normalized unless the segment has zero length.
func (pl *Polyline) Tangent(s float64) geom.Vec2 {
	if len(pl.pts) < 2 {
		return geom.Vec2{}
	}
	i, _, invLength := pl.segment(s)
	return pl.pts[i+1].Pos.Sub(pl.pts[i].Pos).Mul(invLength)
}

// PointAt returns the point at arclength s with every attribute linearly
// interpolated.
func (pl *Polyline) PointAt(s float64) Point {
	switch len(pl.pts) {
	case 0:
		return Point{}
	case 1:
		return pl.pts[0]
	}
	i, t, _ := pl.segment(s)
	return pl.pts[i].Lerp(pl.pts[i+1], t)
}

// Project returns the arclength of the point of the polyline closest to
// pt.
func (pl *Polyline) Project(pt geom.Point) float64 {
	best := math.Inf(1)
	bestS := 0.0
	for i := 0; i+1 < len(pl.pts); i++ {
		seg := geom.Line{P0: pl.pts[i].Pos, P1: pl.pts[i+1].Pos}
		d, t := seg.Nearest(pt)
		if d < best {
			best = d
			bestS = pl.lengths[i] + t*(pl.lengths[i+1]-pl.lengths[i])
		}
	}
	return bestS
}

// Trimmed returns the part of the polyline between arclengths from and
// to, both clamped to [0, Length]. The end points are interpolated.
func (pl *Polyline) Trimmed(from, to float64) *Polyline {
	total := pl.Length()
	from = min(max(from, 0), total)
	to = min(max(to, 0), total)
	if from > to {
		from, to = to, from
	}
	out := []Point{pl.PointAt(from)}
	for i, l := range pl.lengths {
		if l > from && l < to {
			out = append(out, pl.pts[i])
		}
	}
	out = append(out, pl.PointAt(to))
	res := &Polyline{pts: out}
	res.UpdateLengths()
	return res
}
