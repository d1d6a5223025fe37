package trajectory

import (
	"errors"
	"testing"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
	"github.com/MoStyle/frite/lattice"
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

func cubic(xy ...float64) geom.CubicBez {
	return geom.CubicBez{
		P0: geom.Pt(xy[0], xy[1]),
		P1: geom.Pt(xy[2], xy[3]),
		P2: geom.Pt(xy[4], xy[5]),
		P3: geom.Pt(xy[6], xy[7]),
	}
}

func pair(t *testing.T) (*Store, *Trajectory, *Trajectory) {
	t.Helper()
	s := NewStore()
	a := s.New(0, cubic(0, 0, 1, 0, 2, 0, 3, 0), lattice.UVInfo{})
	b := s.New(1, cubic(3, 0, 3, 1, 4, 1, 5, 1), lattice.UVInfo{})
	if err := s.Link(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	return s, a, b
}

func TestSetSyncNext(t *testing.T) {
	s, a, b := pair(t)
	if err := s.SetSyncNext(a.ID, true); err != nil {
		t.Fatal(err)
	}
	diff(t, geom.Pt(2.5, -0.5), a.Cubic().P2, approx)
	diff(t, geom.Pt(3.5, 0.5), b.Cubic().P1, approx)
	if !a.SyncNext || !b.SyncPrev {
		t.Error("link not marked as synced")
	}

	if err := s.SetP2(a.ID, geom.Pt(2, -1)); err != nil {
		t.Fatal(err)
	}
	diff(t, geom.Pt(4, 1), b.Cubic().P1, approx)

	if err := s.SetP1(b.ID, geom.Pt(3, 2)); err != nil {
		t.Fatal(err)
	}
	diff(t, geom.Pt(3, -2), a.Cubic().P2, approx)
}

func TestSyncCollapsedHandle(t *testing.T) {
	s := NewStore()
	a := s.New(0, cubic(0, 0, 1, 0, 3, 0, 3, 0), lattice.UVInfo{})
	b := s.New(1, cubic(3, 0, 3, 1, 4, 1, 5, 1), lattice.UVInfo{})
	if err := s.Link(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSyncNext(a.ID, true); err != nil {
		t.Fatal(err)
	}
	diff(t, geom.Pt(2, -0.5), a.Cubic().P2, approx)
	diff(t, geom.Pt(4, 0.5), b.Cubic().P1, approx)
}

func TestUnsync(t *testing.T) {
	s, a, b := pair(t)
	if err := s.SetSyncPrev(b.ID, false); err != nil {
		t.Fatal(err)
	}
	// still averaged once
	diff(t, geom.Pt(2.5, -0.5), a.Cubic().P2, approx)
	diff(t, geom.Pt(3.5, 0.5), b.Cubic().P1, approx)
	if a.SyncNext || b.SyncPrev {
		t.Error("link should not propagate")
	}
	if err := s.SetP2(a.ID, geom.Pt(0, 0)); err != nil {
		t.Fatal(err)
	}
	diff(t, geom.Pt(3.5, 0.5), b.Cubic().P1, approx)
}

func TestSyncWithoutNeighbour(t *testing.T) {
	s, a, b := pair(t)
	if err := s.SetSyncNext(b.ID, true); !errors.Is(err, frite.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if err := s.SetSyncPrev(a.ID, true); !errors.Is(err, frite.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if err := s.MakeC1(a.ID); err != nil {
		t.Fatal(err)
	}
	if !a.SyncNext || a.SyncPrev {
		t.Error("MakeC1 should sync exactly the existing link")
	}
}

func TestChain(t *testing.T) {
	s := NewStore()
	var ids []int
	for i := range 4 {
		ids = append(ids, s.New(i, geom.LineCubic(geom.Pt(0, 0), geom.Pt(1, 1)), lattice.UVInfo{}).ID)
	}
	for i := 0; i+1 < len(ids); i++ {
		if err := s.Link(ids[i], ids[i+1]); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.Chain(ids[2])
	if err != nil {
		t.Fatal(err)
	}
	diff(t, ids, got)

	s.Remove(ids[1])
	got, err = s.Chain(ids[2])
	if err != nil {
		t.Fatal(err)
	}
	diff(t, ids[2:], got)
	diff(t, frite.InvalidID, mustGet(t, s, ids[0]).Next)

	// close the loop behind the store's back
	c, d := mustGet(t, s, ids[2]), mustGet(t, s, ids[3])
	d.Next, c.Prev = c.ID, d.ID
	if _, err := s.Chain(c.ID); !errors.Is(err, frite.ErrCycle) {
		t.Errorf("got %v, want ErrCycle", err)
	}
	if err := s.Link(ids[0], ids[0]); !errors.Is(err, frite.ErrCycle) {
		t.Errorf("got %v, want ErrCycle", err)
	}
}

func mustGet(t *testing.T, s *Store, id int) *Trajectory {
	t.Helper()
	tr, err := s.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestGetInvalid(t *testing.T) {
	s := NewStore()
	if _, err := s.Get(frite.InvalidID); !errors.Is(err, frite.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	s.Remove(42)
	diff(t, 0, s.Len())
}

func TestEvalUniform(t *testing.T) {
	s := NewStore()
	tr := s.New(0, cubic(0, 0, 0, 0, 0, 0, 10, 0), lattice.UVInfo{})
	diff(t, 10.0, tr.Arclen(), approx)
	diff(t, geom.Pt(5, 0), tr.EvalUniform(0.5), cmpopts.EquateApprox(0, 1e-2))
	diff(t, geom.Pt(0, 0), tr.EvalUniform(-1), approx)
	diff(t, geom.Pt(10, 0), tr.EvalUniform(2), approx)
	diff(t, geom.Vec(1.25, 0), tr.Offset(0.5), approx)

	f := tr.ArclengthParam()
	if tr.ArclengthParam() != f {
		t.Error("arclength table not cached")
	}
	if err := s.SetP3(tr.ID, geom.Pt(20, 0)); err != nil {
		t.Fatal(err)
	}
	if tr.ArclengthParam() == f {
		t.Error("arclength table not invalidated")
	}
	diff(t, 20.0, tr.ArclengthParam().MaxY(), cmpopts.EquateApprox(0, 1e-6))
}

func TestByGroup(t *testing.T) {
	s := NewStore()
	a := s.New(1, geom.CubicBez{}, lattice.UVInfo{})
	s.New(2, geom.CubicBez{}, lattice.UVInfo{})
	c := s.New(1, geom.CubicBez{}, lattice.UVInfo{})
	got := s.ByGroup(1)
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("got %v", got)
	}
	diff(t, []int{0, 1, 2}, s.IDs())
}
