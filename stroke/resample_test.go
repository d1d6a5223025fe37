package stroke

import (
	"testing"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
)

func TestMarkDouglasPeucker(t *testing.T) {
	for _, cutoff := range []float64{0, 3, 1e9} {
		keep := MarkDouglasPeucker(pts(0, 0, 1, 0.1, 2, -0.1, 3, 5, 4, 0), cutoff)
		if !keep[0] || !keep[len(keep)-1] {
			t.Errorf("cutoff %g: ends not kept: %v", cutoff, keep)
		}
	}

	keep := MarkDouglasPeucker(pts(0, 0, 1, 0.1, 2, -0.1, 3, 5, 4, 0), 3)
	diff(t, []bool{true, false, false, true, true}, keep)

	if got := MarkDouglasPeucker(nil, 3); len(got) != 0 {
		t.Errorf("got %v for no points", got)
	}
}

func line(from, to geom.Point, step float64) []Point {
	d := to.Sub(from)
	n := int(d.Hypot()/step + 0.5)
	out := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, Point{Pos: from.Lerp(to, float64(i)/float64(n)), GroupID: frite.InvalidID})
	}
	return out
}

func TestResampleSubdivides(t *testing.T) {
	pl := mustPolyline(t, pts(0, 0, 10, 0))
	diff(t, []float64{0, 2.5, 5, 7.5, 10}, xs(pl.Resample(3, 0.5).Points()), approx)
}

func TestResampleMerges(t *testing.T) {
	pl := mustPolyline(t, pts(0, 0, 0.1, 0, 0.2, 0, 3, 0, 3.1, 0, 6, 0))
	got := pl.ResampleOpt(0, 0.5, ResampleOptions{SimplifyTolerance: 3})
	diff(t, []float64{0, 3, 6}, xs(got.Points()), approx)
}

func TestResampleSpacing(t *testing.T) {
	pl := mustPolyline(t, line(geom.Pt(0, 0), geom.Pt(100, 0), 0.25))
	got := pl.Resample(4, 0.5)
	l := got.Lengths()
	for i := 1; i < len(l); i++ {
		if gap := l[i] - l[i-1]; gap > 4+1e-9 {
			t.Errorf("gap %d is %g", i, gap)
		}
	}
	if got.Len() > 60 || got.Len() < 40 {
		t.Errorf("unexpected point count %d", got.Len())
	}
}

func TestResampleKeepsCorners(t *testing.T) {
	p := line(geom.Pt(0, 0), geom.Pt(50, 0), 0.25)
	p = append(p, line(geom.Pt(50, 0), geom.Pt(50, 50), 0.25)[1:]...)
	got := mustPolyline(t, p).Resample(4, 0.5)
	found := false
	for _, q := range got.Points() {
		if q.Pos == geom.Pt(50, 0) {
			found = true
		}
	}
	if !found {
		t.Error("corner was not preserved")
	}
}

func TestResampleIdempotent(t *testing.T) {
	p := line(geom.Pt(0, 0), geom.Pt(100, 0), 0.25)
	first := mustPolyline(t, p).Resample(4, 0.5)
	second := first.Resample(4, 0.5)

	if d := first.Len() - second.Len(); d > 3 || d < -3 {
		t.Errorf("point count changed from %d to %d", first.Len(), second.Len())
	}
	if first.At(0).Pos != second.At(0).Pos {
		t.Errorf("first point moved from %v to %v", first.At(0).Pos, second.At(0).Pos)
	}
	if a, b := first.At(first.Len()-1).Pos, second.At(second.Len()-1).Pos; a != b {
		t.Errorf("last point moved from %v to %v", a, b)
	}
	if p[0].Pos != first.At(0).Pos || p[len(p)-1].Pos != first.At(first.Len()-1).Pos {
		t.Error("endpoints changed by the first resampling")
	}
}

func TestStrokeResampleUsesConfig(t *testing.T) {
	cfg := frite.DefaultConfig()
	cfg.MaxSampling = 3
	s := New(1, pts(0, 0, 10, 0), colorBlack, 1)
	if err := s.Resample(cfg); err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0, 2.5, 5, 7.5, 10}, xs(s.Points), approx)
}
