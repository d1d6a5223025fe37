// Package trajectory models the motion paths of groups: a cubic Bézier per
// inbetween span, chained across keyframes by id, with optional tangent
// coupling at the keyframe boundaries.
package trajectory

import (
	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
	"github.com/MoStyle/frite/lattice"
	"github.com/MoStyle/frite/monotone"
)

// Trajectory is the path of a point of a group over one inbetween span.
//
// Trajectories are owned by a [Store] and refer to each other by id. Prev
// and Next are [frite.InvalidID] at the ends of a chain.
type Trajectory struct {
	ID    int
	Group int
	// Anchor is the point of the group's lattice the trajectory drags.
	Anchor lattice.UVInfo
	// Hard trajectories are enforced with the hard constraint weight.
	Hard bool

	Prev, Next int
	// SyncPrev and SyncNext couple the tangent at the respective end with
	// the neighbouring trajectory, so that edits to one carry over.
	SyncPrev, SyncNext bool

	cubic geom.CubicBez
	param *monotone.PiecewiseLinear
}

// Cubic returns the path.
func (t *Trajectory) Cubic() geom.CubicBez { return t.cubic }

func (t *Trajectory) setCubic(c geom.CubicBez) {
	t.cubic = c
	t.param = nil
}

// Eval returns the position at curve parameter u.
func (t *Trajectory) Eval(u float64) geom.Point { return t.cubic.Eval(u) }

// Deriv returns the derivative at curve parameter u.
func (t *Trajectory) Deriv(u float64) geom.Vec2 { return t.cubic.Deriv(u) }

const (
	arclenAccuracy = 1e-6
	arclenSamples  = 64
)

// Arclen returns the length of the path.
func (t *Trajectory) Arclen() float64 { return t.cubic.Arclen(arclenAccuracy) }

// ArclengthParam returns the increasing map from curve parameter to
// arclength, sampled. The table is cached until the path changes.
func (t *Trajectory) ArclengthParam() *monotone.PiecewiseLinear {
	if t.param != nil {
		return t.param
	}
	f := monotone.New(monotone.Increasing)
	f.Add(0, 0)
	s := 0.0
	for i := 1; i <= arclenSamples; i++ {
		u0 := float64(i-1) / arclenSamples
		u1 := float64(i) / arclenSamples
		s += t.cubic.Subsegment(u0, u1).Arclen(arclenAccuracy)
		f.Add(u1, s)
	}
	t.param = f
	return f
}

// EvalUniform returns the position at fraction u of the path's length, so
// that evenly spaced u move at constant speed. u is clamped to [0, 1].
func (t *Trajectory) EvalUniform(u float64) geom.Point {
	f := t.ArclengthParam()
	total := f.MaxY()
	if total == 0 {
		return t.cubic.P0
	}
	v, _ := f.Invert(min(max(u, 0), 1) * total)
	return t.cubic.Eval(v)
}

// Offset returns how far the path has moved its anchor at curve parameter
// u.
func (t *Trajectory) Offset(u float64) geom.Vec2 {
	return t.cubic.Eval(u).Sub(t.cubic.P0)
}

// Linked reports whether the trajectory has a neighbour on either side.
func (t *Trajectory) Linked() bool {
	return t.Prev != frite.InvalidID || t.Next != frite.InvalidID
}
