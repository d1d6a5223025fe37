package tools

import (
	"math"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
	"github.com/MoStyle/frite/lattice"
)

// nearestCorner returns the active corner of l closest to p in
// configuration t, if one lies within radius.
func nearestCorner(l *lattice.Lattice, p geom.Point, t lattice.PosType, radius float64) (int, bool) {
	best, bestD := frite.InvalidID, math.Inf(1)
	for i := range l.NumCorners() {
		if !l.Active(i) {
			continue
		}
		if d := l.Corner(i).Pos(t).Distance(p); d <= radius && d < bestD {
			best, bestD = i, d
		}
	}
	return best, best != frite.InvalidID
}

// Pin toggles whether the lattice corner nearest to the press is solved
// for or pinned.
type Pin struct {
	// Corner is the last corner toggled, or frite.InvalidID.
	Corner int
}

func (*Pin) Kind() Kind { return KindPin }

func (p *Pin) Press(ctx *Context, e Event) error {
	p.Corner = frite.InvalidID
	g, err := ctx.group()
	if err != nil {
		return err
	}
	i, ok := nearestCorner(g.Lattice, e.Pos, lattice.RefPos, ctx.config().DeformRadius)
	if !ok {
		return nil
	}
	g.Lattice.SetDeformable(i, !g.Lattice.Corner(i).Deformable)
	p.Corner = i
	return nil
}

func (*Pin) Move(*Context, Event) error    { return nil }
func (*Pin) Release(*Context, Event) error { return nil }

// Warp drags the target configuration of the group's lattice. Corners
// within Config.DeformRadius of the press follow the pointer, fully at the
// press point and fading linearly to nothing at the radius.
type Warp struct {
	last    geom.Point
	corners []int
	weights []float64
}

func (*Warp) Kind() Kind { return KindWarp }

func (w *Warp) Press(ctx *Context, e Event) error {
	w.corners, w.weights = w.corners[:0], w.weights[:0]
	w.last = e.Pos
	g, err := ctx.group()
	if err != nil {
		return err
	}
	r := ctx.config().DeformRadius
	l := g.Lattice
	for i := range l.NumCorners() {
		if !l.Active(i) {
			continue
		}
		if d := l.Corner(i).Pos(lattice.TargetPos).Distance(e.Pos); d < r {
			w.corners = append(w.corners, i)
			w.weights = append(w.weights, 1-d/r)
		}
	}
	return nil
}

func (w *Warp) Move(ctx *Context, e Event) error {
	if len(w.corners) == 0 {
		return nil
	}
	g, err := ctx.group()
	if err != nil {
		return err
	}
	delta := e.Pos.Sub(w.last)
	w.last = e.Pos
	for k, i := range w.corners {
		c := g.Lattice.Corner(i)
		g.Lattice.SetTarget(i, c.Pos(lattice.TargetPos).Translate(delta.Mul(w.weights[k])))
	}
	return nil
}

func (w *Warp) Release(ctx *Context, e Event) error {
	err := w.Move(ctx, e)
	w.corners, w.weights = nil, nil
	return err
}
