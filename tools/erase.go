package tools

import (
	"slices"

	"github.com/MoStyle/frite/stroke"
)

// Erase removes the stroke points the pointer passes over, within
// Config.EraseRadius. Strokes are cut on release.
type Erase struct {
	hits map[int][]int
}

func (*Erase) Kind() Kind { return KindErase }

func (er *Erase) Press(ctx *Context, e Event) error {
	er.hits = make(map[int][]int)
	return er.Move(ctx, e)
}

func (er *Erase) Move(ctx *Context, e Event) error {
	kf, err := ctx.keyframe()
	if err != nil {
		return err
	}
	r2 := ctx.config().EraseRadius * ctx.config().EraseRadius
	for _, id := range kf.StrokeIDs() {
		s, _ := kf.Stroke(id)
		for i, p := range s.Points {
			if p.Pos.DistanceSquared(e.Pos) <= r2 && !slices.Contains(er.hits[id], i) {
				er.hits[id] = append(er.hits[id], i)
			}
		}
	}
	return nil
}

func (er *Erase) Release(ctx *Context, e Event) error {
	if err := er.Move(ctx, e); err != nil {
		return err
	}
	kf, err := ctx.keyframe()
	if err != nil {
		return err
	}
	for _, id := range kf.StrokeIDs() {
		idx := er.hits[id]
		if len(idx) == 0 {
			continue
		}
		slices.Sort(idx)
		// cut from the back so earlier indices stay valid
		ivs := runs(idx)
		for i := len(ivs) - 1; i >= 0; i-- {
			if _, err := kf.Erase(id, ivs[i].From, ivs[i].To); err != nil {
				return err
			}
			if _, err := kf.Stroke(id); err != nil {
				break
			}
		}
	}
	er.hits = nil
	return nil
}

// runs groups sorted indices into maximal intervals of consecutive ones.
func runs(idx []int) stroke.Intervals {
	var out stroke.Intervals
	for _, i := range idx {
		if n := len(out); n > 0 && out[n-1].To+1 == i {
			out[n-1].To = i
			continue
		}
		out = append(out, stroke.Interval{From: i, To: i})
	}
	return out
}
