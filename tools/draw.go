package tools

import (
	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/anim"
	"github.com/MoStyle/frite/stroke"
)

// Draw records a stroke and adds it to the context's group. With
// [frite.InvalidID] as the group, a new group is created for it.
type Draw struct {
	pts []stroke.Point
	// StrokeID is the id of the last stroke drawn.
	StrokeID int
}

func (*Draw) Kind() Kind { return KindDraw }

func (d *Draw) Press(ctx *Context, e Event) error {
	d.pts = d.pts[:0]
	d.StrokeID = frite.InvalidID
	return d.Move(ctx, e)
}

func (d *Draw) Move(ctx *Context, e Event) error {
	d.pts = append(d.pts, stroke.Point{Pos: e.Pos, Pressure: e.Pressure, GroupID: frite.InvalidID})
	return nil
}

func (d *Draw) Release(ctx *Context, e Event) error {
	if err := d.Move(ctx, e); err != nil {
		return err
	}
	kf, err := ctx.keyframe()
	if err != nil {
		return err
	}
	var g *anim.Group
	if ctx.Group != frite.InvalidID {
		if g, err = kf.Group(ctx.Group); err != nil {
			d.pts = nil
			return err
		}
	}
	s := kf.AddStroke(d.pts, ctx.Color, ctx.Width)
	d.pts = nil
	if err := s.Resample(ctx.config()); err != nil {
		kf.RemoveStroke(s.ID)
		return err
	}
	created := g == nil
	if created {
		g = kf.AddGroup()
	}
	if _, err := kf.AddToGroup(s.ID, g.ID, stroke.Interval{From: 0, To: s.Len() - 1}); err != nil {
		kf.RemoveStroke(s.ID)
		if created {
			kf.RemoveGroup(g.ID)
		}
		return err
	}
	ctx.Group = g.ID
	d.StrokeID = s.ID
	return nil
}
