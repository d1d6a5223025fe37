package stroke

import (
	"slices"

	"github.com/MoStyle/frite"
)

// Interval is an inclusive range of point indices within a stroke. An
// interval with To < From is empty.
type Interval struct {
	From, To int
}

// Len returns the number of indices in iv.
func (iv Interval) Len() int {
	return max(iv.To-iv.From+1, 0)
}

func (iv Interval) Contains(i int) bool {
	return i >= iv.From && i <= iv.To
}

// Clamp restricts iv to the indices of a stroke with n points.
func (iv Interval) Clamp(n int) Interval {
	return Interval{From: max(iv.From, 0), To: min(iv.To, n-1)}
}

// Intervals is a set of index ranges of one stroke.
type Intervals []Interval

// Normalize returns the intervals sorted by start, with empty intervals
// dropped and overlapping or adjacent ones merged.
func (ivs Intervals) Normalize() Intervals {
	out := make(Intervals, 0, len(ivs))
	for _, iv := range ivs {
		if iv.Len() > 0 {
			out = append(out, iv)
		}
	}
	slices.SortFunc(out, func(a, b Interval) int { return a.From - b.From })
	merged := out[:0]
	for _, iv := range out {
		if n := len(merged); n > 0 && iv.From <= merged[n-1].To+1 {
			merged[n-1].To = max(merged[n-1].To, iv.To)
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

func (ivs Intervals) Contains(i int) bool {
	for _, iv := range ivs {
		if iv.Contains(i) {
			return true
		}
	}
	return false
}

// Len returns the total number of indices covered, counting overlaps twice.
func (ivs Intervals) Len() int {
	n := 0
	for _, iv := range ivs {
		n += iv.Len()
	}
	return n
}

// Shift returns the intervals offset by delta.
func (ivs Intervals) Shift(delta int) Intervals {
	out := make(Intervals, len(ivs))
	for i, iv := range ivs {
		out[i] = Interval{From: iv.From + delta, To: iv.To + delta}
	}
	return out
}

// Partition groups the points by GroupID, returning for every group the
// maximal runs of consecutive points it owns. Points without a group are
// left out.
func Partition(points []Point) map[int]Intervals {
	out := make(map[int]Intervals)
	for i := 0; i < len(points); {
		g := points[i].GroupID
		j := i
		for j+1 < len(points) && points[j+1].GroupID == g {
			j++
		}
		if g != frite.InvalidID {
			out[g] = append(out[g], Interval{From: i, To: j})
		}
		i = j + 1
	}
	return out
}
