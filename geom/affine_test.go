package geom

import (
	"math"
	"testing"
)

func TestAffineInvert(t *testing.T) {
	aff := Rotate(0.7).ThenTranslate(Vec(5, -1))
	diff(t, Identity, aff.Mul(aff.Invert()), approx)
	diff(t, Pt(2, 3), Pt(2, 3).Transform(aff).Transform(aff.Invert()), approx)
}

func TestRotateAbout(t *testing.T) {
	center := Pt(5, 5)
	got := Pt(10, 5).Transform(RotateAbout(math.Pi/2, center))
	diff(t, Pt(5, 10), got, approx)
	diff(t, center, center.Transform(RotateAbout(1.3, center)), approx)
}
