package stroke

import (
	"testing"

	"github.com/MoStyle/frite/geom"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func pts(xy ...float64) []Point {
	out := make([]Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, Point{Pos: geom.Pt(xy[i], xy[i+1]), GroupID: -1})
	}
	return out
}

func xs(p []Point) []float64 {
	out := make([]float64, len(p))
	for i, q := range p {
		out[i] = q.Pos.X
	}
	return out
}

func mustPolyline(t *testing.T, p []Point) *Polyline {
	t.Helper()
	pl, err := NewPolyline(p)
	if err != nil {
		t.Fatal(err)
	}
	return pl
}
