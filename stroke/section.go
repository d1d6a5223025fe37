package stroke

import "slices"

// RemoveSection removes the points with indices in [from, to] and returns
// the pieces the removal cut off.
//
// The polyline keeps the first run of surviving points. A removal reaching
// either end of the polyline therefore just shortens it and returns
// nothing, while an interior removal returns the trailing run as a
// separate point list.
func (pl *Polyline) RemoveSection(from, to int) [][]Point {
	return pl.RemoveIntervals(Intervals{{From: from, To: to}})
}

// RemoveIndices removes the points at the given indices. Consecutive
// indices are removed as one section.
func (pl *Polyline) RemoveIndices(idx []int) [][]Point {
	idx = slices.Clone(idx)
	slices.Sort(idx)
	idx = slices.Compact(idx)
	var ivs Intervals
	for _, i := range idx {
		if n := len(ivs); n > 0 && ivs[n-1].To+1 == i {
			ivs[n-1].To = i
			continue
		}
		ivs = append(ivs, Interval{From: i, To: i})
	}
	return pl.RemoveIntervals(ivs)
}

// RemoveIntervals removes every point covered by ivs. The polyline keeps
// the first surviving run; each later run is returned as its own list, in
// order.
func (pl *Polyline) RemoveIntervals(ivs Intervals) [][]Point {
	ivs = ivs.Normalize()
	n := len(pl.pts)

	var runs [][]Point
	start := 0
	for _, iv := range ivs {
		iv = iv.Clamp(n)
		if iv.Len() == 0 {
			continue
		}
		if iv.From > start {
			runs = append(runs, pl.pts[start:iv.From])
		}
		start = iv.To + 1
	}
	if start < n {
		runs = append(runs, pl.pts[start:])
	}

	if len(runs) == 0 {
		pl.pts = pl.pts[:0]
		pl.UpdateLengths()
		return nil
	}
	rest := make([][]Point, 0, len(runs)-1)
	for _, r := range runs[1:] {
		rest = append(rest, slices.Clone(r))
	}
	pl.pts = slices.Clone(runs[0])
	pl.UpdateLengths()
	if len(rest) == 0 {
		return nil
	}
	return rest
}
