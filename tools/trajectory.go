package tools

import (
	"math"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
)

// TrajectoryEdit drags a control point of one of the group's
// trajectories. Synced neighbours follow. Pressing on the curve away from
// its control points grabs the handle of the nearer end, which then moves
// with the pointer.
type TrajectoryEdit struct {
	// Trajectory and Point identify the grabbed control point;
	// Trajectory is frite.InvalidID when nothing is grabbed.
	Trajectory int
	Point      int

	offset geom.Vec2
}

func (*TrajectoryEdit) Kind() Kind { return KindTrajectory }

func (te *TrajectoryEdit) Press(ctx *Context, e Event) error {
	te.Trajectory = frite.InvalidID
	g, err := ctx.group()
	if err != nil {
		return err
	}
	best := ctx.config().DeformRadius
	for _, id := range g.Trajectories {
		t, err := ctx.Layer.Trajectories.Get(id)
		if err != nil {
			return err
		}
		c := t.Cubic()
		for k, p := range [4]geom.Point{c.P0, c.P1, c.P2, c.P3} {
			if d := p.Distance(e.Pos); d <= best {
				best = d
				te.Trajectory, te.Point = id, k
				te.offset = geom.Vec2{}
			}
		}
	}
	if te.Trajectory != frite.InvalidID {
		return nil
	}
	for _, id := range g.Trajectories {
		t, err := ctx.Layer.Trajectories.Get(id)
		if err != nil {
			return err
		}
		c := t.Cubic()
		if !c.BoundingBox().Inflate(best, best).Contains(e.Pos) {
			continue
		}
		d2, u := c.Nearest(e.Pos)
		if d := math.Sqrt(d2); d <= best {
			best = d
			te.Trajectory, te.Point = id, 1
			handle := c.P1
			if u >= 0.5 {
				te.Point, handle = 2, c.P2
			}
			te.offset = handle.Sub(e.Pos)
		}
	}
	return nil
}

func (te *TrajectoryEdit) Move(ctx *Context, e Event) error {
	if te.Trajectory == frite.InvalidID {
		return nil
	}
	s := ctx.Layer.Trajectories
	p := e.Pos.Translate(te.offset)
	switch te.Point {
	case 0:
		return s.SetP0(te.Trajectory, p)
	case 1:
		return s.SetP1(te.Trajectory, p)
	case 2:
		return s.SetP2(te.Trajectory, p)
	default:
		return s.SetP3(te.Trajectory, p)
	}
}

func (te *TrajectoryEdit) Release(ctx *Context, e Event) error {
	err := te.Move(ctx, e)
	te.Trajectory = frite.InvalidID
	return err
}
