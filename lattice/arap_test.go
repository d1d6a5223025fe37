package lattice

import (
	"math"
	"slices"
	"testing"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rodLattice embeds a straight 10 unit stroke.
func rodLattice(t *testing.T) *Lattice {
	t.Helper()
	l := New(4, geom.Point{})
	pts := strokePts(1, 2, 11, 2)
	_, err := l.ConstructGrid(pts, all(pts))
	require.NoError(t, err)
	return l
}

func cornerCentroid(l *Lattice, pt PosType) geom.Point {
	var pts []geom.Point
	for i := range l.NumCorners() {
		if l.Active(i) {
			pts = append(pts, l.Corner(i).Pos(pt))
		}
	}
	return geom.Centroid(pts)
}

func assertPos(t *testing.T, l *Lattice, pt PosType, want func(geom.Point) geom.Point, delta float64) {
	t.Helper()
	for i := range l.NumCorners() {
		c := l.Corner(i)
		w := want(c.Pos(RefPos))
		assert.InDelta(t, w.X, c.Pos(pt).X, delta, "corner %d (%d,%d) x", i, c.X, c.Y)
		assert.InDelta(t, w.Y, c.Pos(pt).Y, delta, "corner %d (%d,%d) y", i, c.X, c.Y)
	}
}

func TestInterpolateRotation(t *testing.T) {
	l := rodLattice(t)
	center := cornerCentroid(l, RefPos)
	quarter := geom.RotateAbout(math.Pi/2, center)
	for i := range l.NumCorners() {
		l.SetTarget(i, l.Corner(i).Pos(RefPos).Transform(quarter))
	}

	require.NoError(t, l.InterpolateARAP(0.5, 0.5, geom.Identity))
	eighth := geom.RotateAbout(math.Pi/4, center)
	assertPos(t, l, InterpPos, func(p geom.Point) geom.Point { return p.Transform(eighth) }, 1e-6)

	// a linear blend would have shrunk the rod
	b := l.Bounds(InterpPos)
	w := b.X1 - b.X0
	assert.Greater(t, w, 10.0)

	require.NoError(t, l.InterpolateARAP(0, 0, geom.Identity))
	assertPos(t, l, InterpPos, func(p geom.Point) geom.Point { return p }, 1e-6)

	require.NoError(t, l.InterpolateARAP(1, 1, geom.Identity))
	assertPos(t, l, InterpPos, func(p geom.Point) geom.Point { return p.Transform(quarter) }, 1e-6)
}

func TestInterpolateRigidPart(t *testing.T) {
	l := rodLattice(t)
	center := cornerCentroid(l, RefPos)
	l.SetRigid(geom.RigidTransform{Center: center, Angle: math.Pi / 2})
	l.ResetTarget()

	require.NoError(t, l.InterpolateARAP(0.5, 0.5, l.Rigid.At(0.5)))
	eighth := geom.RotateAbout(math.Pi/4, center)
	assertPos(t, l, InterpPos, func(p geom.Point) geom.Point { return p.Transform(eighth) }, 1e-6)
}

func TestInterpolateAllPinned(t *testing.T) {
	l := rodLattice(t)
	for i := range l.NumCorners() {
		l.SetDeformable(i, false)
	}
	move := geom.Vec(3, -7)
	for _, alpha := range []float64{0, 0.3, 1} {
		require.NoError(t, l.InterpolateARAP(alpha, alpha, geom.Translate(move)))
		assertPos(t, l, InterpPos, func(p geom.Point) geom.Point { return p.Translate(move) }, 1e-9)
	}
}

func TestInterpolatePinnedTranslation(t *testing.T) {
	l := rodLattice(t)
	move := geom.Vec(10, 0)
	for i := range l.NumCorners() {
		l.SetTarget(i, l.Corner(i).Pos(RefPos).Translate(move))
	}
	l.SetDeformable(mustCorner(t, l, 0, 0), false)

	require.NoError(t, l.InterpolateARAP(0.5, 0.5, geom.Identity))
	assertPos(t, l, InterpPos, func(p geom.Point) geom.Point { return p.Translate(move.Mul(0.5)) }, 1e-6)
}

func TestInterpolateConstraint(t *testing.T) {
	l := New(4, geom.Point{})
	q, err := l.AddQuad(0, 0)
	require.NoError(t, err)
	l.SetConstraints([]Constraint{{
		Anchor: UVInfo{Quad: q.Key},
		Weight: 1e4,
		Target: geom.Pt(3, 0),
	}})

	require.NoError(t, l.InterpolateARAP(0.5, 0.5, geom.Identity))
	assertPos(t, l, InterpPos, func(p geom.Point) geom.Point { return p.Translate(geom.Vec(3, 0)) }, 1e-6)

	// moving the target alone keeps the factorization
	l.SetConstraints([]Constraint{{
		Anchor: UVInfo{Quad: q.Key},
		Weight: 1e4,
		Target: geom.Pt(0, 2),
	}})
	assert.False(t, l.ArapPrecomputeDirty())
	require.NoError(t, l.InterpolateARAP(0.5, 0.5, geom.Identity))
	assertPos(t, l, InterpPos, func(p geom.Point) geom.Point { return p.Translate(geom.Vec(0, 2)) }, 1e-6)

	// the target is given in canvas space
	require.NoError(t, l.InterpolateARAP(0.5, 0.5, geom.Translate(geom.Vec(1, 1))))
	assertPos(t, l, InterpPos, func(p geom.Point) geom.Point { return p.Translate(geom.Vec(0, 2)) }, 1e-6)
}

func TestSetConstraintsUnchangedKeepsSolve(t *testing.T) {
	l := rodLattice(t)
	require.NoError(t, l.InterpolateARAP(0.5, 0.5, geom.Identity))
	l.SetConstraints(nil)
	_, ok := l.CurrentPrecomputedTime()
	assert.True(t, ok)

	q := l.Keys()[0]
	cs := []Constraint{{Anchor: UVInfo{Quad: q}, Weight: 1, Target: geom.Pt(2, 2)}}
	l.SetConstraints(cs)
	require.NoError(t, l.InterpolateARAP(0.5, 0.5, geom.Identity))
	l.SetConstraints(slices.Clone(cs))
	_, ok = l.CurrentPrecomputedTime()
	assert.True(t, ok)
	assert.False(t, l.ArapPrecomputeDirty())

	cs[0].Target = geom.Pt(3, 2)
	l.SetConstraints(cs)
	_, ok = l.CurrentPrecomputedTime()
	assert.False(t, ok)
}

func TestInterpolateEmpty(t *testing.T) {
	l := New(4, geom.Point{})
	assert.NoError(t, l.InterpolateARAP(0.5, 0.5, geom.Identity))
}

func TestPrecomputeDirty(t *testing.T) {
	l := rodLattice(t)
	assert.True(t, l.ArapPrecomputeDirty())
	require.NoError(t, l.Precompute())
	assert.False(t, l.ArapPrecomputeDirty())

	l.SetDeformable(0, false)
	assert.True(t, l.ArapPrecomputeDirty())
	require.NoError(t, l.InterpolateARAP(0.25, 0.25, geom.Identity))
	assert.False(t, l.ArapPrecomputeDirty())

	alpha, ok := l.CurrentPrecomputedTime()
	assert.True(t, ok)
	assert.Equal(t, 0.25, alpha)

	l.SetTarget(3, geom.Pt(1, 1))
	_, ok = l.CurrentPrecomputedTime()
	assert.False(t, ok)

	_, err := l.AddQuad(9, 9)
	require.NoError(t, err)
	assert.True(t, l.ArapPrecomputeDirty())
}

func TestNewFromConfig(t *testing.T) {
	cfg := frite.DefaultConfig()
	cfg.ArapIterations = 3
	l := NewFromConfig(cfg, geom.Pt(1, 1))
	assert.Equal(t, 3, l.Iterations)
	assert.Equal(t, cfg.CellSize, l.CellSize)
	x, y := l.Cell(geom.Pt(17, 0.5))
	assert.Equal(t, [2]int{1, -1}, [2]int{x, y})
}
