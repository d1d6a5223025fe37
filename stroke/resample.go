package stroke

import (
	"math"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
)

// ResampleOptions tunes the shape-preserving pass of [Polyline.Resample].
type ResampleOptions struct {
	// SimplifyTolerance is the Douglas-Peucker cutoff below which a point is
	// not considered a feature of the curve.
	SimplifyTolerance float64
	// CaptureRadius is the spacing of the intermediate curve.
	CaptureRadius float64
}

var DefaultResampleOptions = ResampleOptions{
	SimplifyTolerance: 3.0,
	CaptureRadius:     2.0,
}

// OptionsFromConfig extracts the resampling options from cfg.
func OptionsFromConfig(cfg frite.Config) ResampleOptions {
	return ResampleOptions{
		SimplifyTolerance: cfg.SimplifyTolerance,
		CaptureRadius:     cfg.CaptureRadius,
	}
}

// Resample is ResampleOpt with [DefaultResampleOptions].
func (pl *Polyline) Resample(maxSampling, minSampling float64) *Polyline {
	return pl.ResampleOpt(maxSampling, minSampling, DefaultResampleOptions)
}

// ResampleOpt returns a new polyline whose consecutive samples are at most
// maxSampling and, where the shape allows it, at least minSampling apart
// along the curve. Points marked by Douglas-Peucker are preserved, as are
// both end points.
//
// Resampling happens in two passes. The first walks the curve with a
// capture circle, dropping points inside it and emitting the point where
// the curve leaves it, which evens out the spacing of noisy input without
// cutting corners. The second subdivides gaps longer than maxSampling and
// merges gaps shorter than minSampling. A maxSampling ≤ 0 disables
// subdivision and a minSampling ≤ 0 disables merging.
func (pl *Polyline) ResampleOpt(maxSampling, minSampling float64, opts ResampleOptions) *Polyline {
	if len(pl.pts) < 2 {
		return &Polyline{pts: append([]Point(nil), pl.pts...), lengths: append([]float64(nil), pl.lengths...)}
	}
	mid := &Polyline{pts: pl.capture(opts)}
	mid.UpdateLengths()
	return mid.subsample(maxSampling, minSampling)
}

// capture is the first pass of ResampleOpt.
func (pl *Polyline) capture(opts ResampleOptions) []Point {
	pts := pl.pts
	n := len(pts)
	keep := MarkDouglasPeucker(pts, opts.SimplifyTolerance)
	r := opts.CaptureRadius

	out := []Point{pts[0]}
	last := pts[0]
	// prev is the start of the segment ending at pts[i]. It always lies
	// within r of last.
	prev := pts[0]
	for i := 1; i < n; {
		cur := pts[i]
		if i == n-1 || keep[i] || r <= 0 {
			out = append(out, cur)
			last, prev = cur, cur
			i++
			continue
		}
		if last.Pos.Distance(cur.Pos) < r {
			prev = cur
			i++
			continue
		}
		seg := geom.Line{P0: prev.Pos, P1: cur.Pos}
		t, ok := seg.ExitCircle(last.Pos, r)
		if !ok {
			// prev and cur coincide with the circle's boundary
			out = append(out, cur)
			last, prev = cur, cur
			i++
			continue
		}
		q := prev.Lerp(cur, t)
		out = append(out, q)
		last, prev = q, q
	}
	return out
}

// subsample is the second pass of ResampleOpt.
func (pl *Polyline) subsample(maxSampling, minSampling float64) *Polyline {
	n := len(pl.pts)
	out := []Point{pl.pts[0]}
	lastS := 0.0
	for j := 1; j < n; j++ {
		s := pl.lengths[j]
		gap := s - lastS
		if j != n-1 && minSampling > 0 && gap < minSampling {
			continue
		}
		if maxSampling > 0 && gap > maxSampling {
			k := math.Ceil(gap / maxSampling)
			step := gap / k
			for m := 1; m < int(k); m++ {
				out = append(out, pl.PointAt(lastS+float64(m)*step))
			}
		}
		out = append(out, pl.pts[j])
		lastS = s
	}
	res := &Polyline{pts: out}
	res.UpdateLengths()
	return res
}
