package geom

import (
	"math"
	"testing"
)

func TestRotationMatchesAffine(t *testing.T) {
	v := Vec(3, -1)
	diff(t, Point(v).Transform(Rotate(0.9)), Point(Rotation(0.9).MulVec(v)), approx)
	diff(t, Vec(0, 1), Rotation(math.Pi/2).MulVec(Vec(1, 0)), approx)
}

func TestFitRotation(t *testing.T) {
	src := []Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, th := range []float64{0, 0.3, math.Pi / 2, -2.5, math.Pi} {
		dst := make([]Vec2, len(src))
		for i, v := range src {
			dst[i] = Rotation(th).MulVec(v)
		}
		got := FitRotation(src, dst)
		if d := math.Abs(WrapAngle(got - th)); d > 1e-9 {
			t.Errorf("FitRotation for %g returned %g", th, got)
		}
	}
}

func TestWrapAngle(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-5 * math.Pi / 2, -math.Pi / 2},
	} {
		diff(t, tc.want, WrapAngle(tc.in), approx)
	}
}
