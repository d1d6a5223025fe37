// Package monotone approximates monotone real functions by sorted sample
// sets, supporting evaluation and inversion in logarithmic time.
//
// The editor uses it to retime motion: arclength as a function of a curve
// parameter, or the spacing curve remapping linear time to eased time, are
// both monotone and need to be inverted.
package monotone

import (
	"math"

	"github.com/MoStyle/frite"
	"github.com/google/btree"
)

// Sign declares the direction of a monotone function.
type Sign int

const (
	Increasing Sign = 1
	Decreasing Sign = -1
)

func (s Sign) String() string {
	switch s {
	case Increasing:
		return "increasing"
	case Decreasing:
		return "decreasing"
	default:
		return "invalid"
	}
}

// Samples closer than this along an axis are treated as one vertical (or
// horizontal) step.
const epsilon = 1e-8

type sample struct {
	x float64
	// y is stored multiplied by the sign, so that it increases with x for
	// either direction.
	y float64
}

// PiecewiseLinear is a monotone function given by samples, linearly
// interpolated in between. The zero value is not usable; call [New].
type PiecewiseLinear struct {
	sign Sign
	byX  *btree.BTreeG[sample]
	byY  *btree.BTreeG[sample]
}

func lessX(a, b sample) bool {
	if a.x != b.x {
		return a.x < b.x
	}
	return a.y < b.y
}

func lessY(a, b sample) bool {
	if a.y != b.y {
		return a.y < b.y
	}
	return a.x < b.x
}

// New returns an empty function of the given direction.
func New(sign Sign) *PiecewiseLinear {
	if sign != Decreasing {
		sign = Increasing
	}
	return &PiecewiseLinear{
		sign: sign,
		byX:  btree.NewG(8, lessX),
		byY:  btree.NewG(8, lessY),
	}
}

// Identity returns the increasing function through (0, 0) and (1, 1).
func Identity() *PiecewiseLinear {
	f := New(Increasing)
	f.Add(0, 0)
	f.Add(1, 1)
	return f
}

// Sign returns the declared direction of f.
func (f *PiecewiseLinear) Sign() Sign { return f.sign }

// Len returns the number of samples.
func (f *PiecewiseLinear) Len() int { return f.byX.Len() }

// Clear removes every sample.
func (f *PiecewiseLinear) Clear() {
	f.byX.Clear(false)
	f.byY.Clear(false)
}

// Add inserts the sample (x, y). A sample that breaks monotonicity against
// its neighbours is still inserted, and the violation is logged.
func (f *PiecewiseLinear) Add(x, y float64) {
	s := sample{x: x, y: y * float64(f.sign)}
	if prev, ok := f.below(s); ok && prev.y > s.y+epsilon {
		frite.Logger().Warn("monotone: sample breaks monotonicity",
			"sign", f.sign, "x", x, "y", y, "prevX", prev.x, "prevY", prev.y*float64(f.sign))
	}
	if next, ok := f.atOrAbove(s); ok && next.y < s.y-epsilon {
		frite.Logger().Warn("monotone: sample breaks monotonicity",
			"sign", f.sign, "x", x, "y", y, "nextX", next.x, "nextY", next.y*float64(f.sign))
	}
	f.byX.ReplaceOrInsert(s)
	f.byY.ReplaceOrInsert(s)
}

func (f *PiecewiseLinear) below(s sample) (sample, bool) {
	var out sample
	found := false
	f.byX.DescendLessOrEqual(s, func(it sample) bool {
		if it == s {
			return true
		}
		out, found = it, true
		return false
	})
	return out, found
}

func (f *PiecewiseLinear) atOrAbove(s sample) (sample, bool) {
	var out sample
	found := false
	f.byX.AscendGreaterOrEqual(s, func(it sample) bool {
		if it == s {
			return true
		}
		out, found = it, true
		return false
	})
	return out, found
}

// MinX returns the smallest sampled x, or NaN if f is empty.
func (f *PiecewiseLinear) MinX() float64 {
	s, ok := f.byX.Min()
	if !ok {
		return math.NaN()
	}
	return s.x
}

// MaxX returns the largest sampled x, or NaN if f is empty.
func (f *PiecewiseLinear) MaxX() float64 {
	s, ok := f.byX.Max()
	if !ok {
		return math.NaN()
	}
	return s.x
}

// MinY returns the smallest sampled y, or NaN if f is empty.
func (f *PiecewiseLinear) MinY() float64 {
	s, ok := f.byY.Min()
	if f.sign == Decreasing {
		s, ok = f.byY.Max()
	}
	if !ok {
		return math.NaN()
	}
	return s.y * float64(f.sign)
}

// MaxY returns the largest sampled y, or NaN if f is empty.
func (f *PiecewiseLinear) MaxY() float64 {
	s, ok := f.byY.Max()
	if f.sign == Decreasing {
		s, ok = f.byY.Min()
	}
	if !ok {
		return math.NaN()
	}
	return s.y * float64(f.sign)
}

// Eval returns f(x). Outside [MinX, MaxX] it returns the value at the
// nearest end and ok is false. Samples whose x differ by less than 1e-8
// form a vertical step, for which the left value is returned.
func (f *PiecewiseLinear) Eval(x float64) (y float64, ok bool) {
	first, ok := f.byX.Min()
	if !ok {
		return 0, false
	}
	last, _ := f.byX.Max()
	sign := float64(f.sign)
	if x < first.x {
		return first.y * sign, false
	}
	if x > last.x {
		return last.y * sign, false
	}

	inf := math.Inf(1)
	lo, _ := descendFrom(f.byX, sample{x: x, y: inf})
	if x-lo.x < epsilon {
		left, _ := ascendFrom(f.byX, sample{x: lo.x - epsilon, y: -inf})
		return left.y * sign, true
	}
	hi, _ := ascendFrom(f.byX, sample{x: x, y: inf})
	t := (x - lo.x) / (hi.x - lo.x)
	return (lo.y + t*(hi.y-lo.y)) * sign, true
}

// Invert returns x such that f(x) = y. Outside the sampled range it returns
// the x of the nearest end and ok is false. Samples whose y differ by less
// than 1e-8 form a horizontal step, for which the left x is returned.
func (f *PiecewiseLinear) Invert(y float64) (x float64, ok bool) {
	first, ok := f.byY.Min()
	if !ok {
		return 0, false
	}
	last, _ := f.byY.Max()
	ys := y * float64(f.sign)
	if ys < first.y {
		return first.x, false
	}
	if ys > last.y {
		return last.x, false
	}

	inf := math.Inf(1)
	lo, _ := descendFrom(f.byY, sample{x: inf, y: ys})
	if ys-lo.y < epsilon {
		left, _ := ascendFrom(f.byY, sample{x: -inf, y: lo.y - epsilon})
		return left.x, true
	}
	hi, _ := ascendFrom(f.byY, sample{x: inf, y: ys})
	t := (ys - lo.y) / (hi.y - lo.y)
	return lo.x + t*(hi.x-lo.x), true
}

// BatchEval replaces every element of xs by f(xs[i]). It reports whether
// all of them were inside the domain; failures are logged and leave the
// clamped value in place.
func (f *PiecewiseLinear) BatchEval(xs []float64) bool {
	all := true
	for i, x := range xs {
		y, ok := f.Eval(x)
		if !ok {
			frite.Logger().Warn("monotone: evaluation outside of domain",
				"x", x, "min", f.MinX(), "max", f.MaxX())
			all = false
		}
		xs[i] = y
	}
	return all
}

// Samples returns the samples in increasing x order.
func (f *PiecewiseLinear) Samples() (xs, ys []float64) {
	f.byX.Ascend(func(s sample) bool {
		xs = append(xs, s.x)
		ys = append(ys, s.y*float64(f.sign))
		return true
	})
	return xs, ys
}

// ascendFrom returns the first item not less than pivot.
func ascendFrom(t *btree.BTreeG[sample], pivot sample) (sample, bool) {
	var out sample
	found := false
	t.AscendGreaterOrEqual(pivot, func(s sample) bool {
		out, found = s, true
		return false
	})
	return out, found
}

// descendFrom returns the last item not greater than pivot.
func descendFrom(t *btree.BTreeG[sample], pivot sample) (sample, bool) {
	var out sample
	found := false
	t.DescendLessOrEqual(pivot, func(s sample) bool {
		out, found = s, true
		return false
	})
	return out, found
}
