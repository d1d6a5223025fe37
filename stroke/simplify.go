package stroke

import "github.com/MoStyle/frite/geom"

// MarkDouglasPeucker flags the points the Douglas-Peucker algorithm keeps at
// the given cutoff: within every span, the point farthest from the chord is
// kept if it lies more than cutoff away, and both halves are examined in
// turn. The first and last points are always kept.
func MarkDouglasPeucker(pts []Point, cutoff float64) []bool {
	keep := make([]bool, len(pts))
	if len(pts) == 0 {
		return keep
	}
	keep[0] = true
	keep[len(pts)-1] = true

	type span struct{ lo, hi int }
	stack := []span{{0, len(pts) - 1}}
	for len(stack) > 0 {
		sp := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if sp.hi-sp.lo < 2 {
			continue
		}
		chord := geom.Line{P0: pts[sp.lo].Pos, P1: pts[sp.hi].Pos}
		best, bestIdx := -1.0, -1
		for i := sp.lo + 1; i < sp.hi; i++ {
			if d := chord.Distance(pts[i].Pos); d > best {
				best, bestIdx = d, i
			}
		}
		if best > cutoff {
			keep[bestIdx] = true
			stack = append(stack, span{sp.lo, bestIdx}, span{bestIdx, sp.hi})
		}
	}
	return keep
}
