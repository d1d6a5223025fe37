package lattice

import (
	"testing"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
	"github.com/MoStyle/frite/stroke"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strokePts(xy ...float64) []stroke.Point {
	out := make([]stroke.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, stroke.Point{Pos: geom.Pt(xy[i], xy[i+1]), GroupID: frite.InvalidID})
	}
	return out
}

func all(pts []stroke.Point) stroke.Interval {
	return stroke.Interval{From: 0, To: len(pts) - 1}
}

func quadCoords(l *Lattice) [][2]int {
	var out [][2]int
	for _, k := range l.Keys() {
		x, y := KeyToCoord(k)
		out = append(out, [2]int{x, y})
	}
	return out
}

func TestConstructGrid(t *testing.T) {
	l := New(4, geom.Point{})
	pts := strokePts(1, 2, 11, 2)
	created, err := l.ConstructGrid(pts, all(pts))
	require.NoError(t, err)
	assert.True(t, created)
	assert.ElementsMatch(t, [][2]int{{0, 0}, {1, 0}, {2, 0}}, quadCoords(l))
	assert.Equal(t, 8, l.NumCorners(), "corners are shared between neighbours")

	created, err = l.ConstructGrid(pts, all(pts))
	require.NoError(t, err)
	assert.False(t, created)

	i, ok := l.CornerAt(1, 0)
	require.True(t, ok)
	assert.ElementsMatch(t, []int{mustCorner(t, l, 0, 0), mustCorner(t, l, 2, 0), mustCorner(t, l, 1, 1)}, l.Corner(i).Neighbors)
}

func mustCorner(t *testing.T, l *Lattice, x, y int) int {
	t.Helper()
	i, ok := l.CornerAt(x, y)
	require.True(t, ok, "no corner at %d,%d", x, y)
	return i
}

func TestConstructGridTraversal(t *testing.T) {
	l := New(4, geom.Point{})
	pts := strokePts(1, 1, 11, 9)
	_, err := l.ConstructGrid(pts, all(pts))
	require.NoError(t, err)
	assert.ElementsMatch(t, [][2]int{{0, 0}, {1, 0}, {1, 1}, {2, 1}, {2, 2}}, quadCoords(l))

	l = New(4, geom.Point{})
	pts = strokePts(11, 9, 1, 1)
	_, err = l.ConstructGrid(pts, all(pts))
	require.NoError(t, err)
	assert.ElementsMatch(t, [][2]int{{0, 0}, {1, 0}, {1, 1}, {2, 1}, {2, 2}}, quadCoords(l))

	l = New(4, geom.Point{})
	pts = strokePts(6, 6)
	created, err := l.ConstructGrid(pts, all(pts))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, [][2]int{{1, 1}}, quadCoords(l))
}

func TestConstructGridFrozen(t *testing.T) {
	l := New(4, geom.Point{})
	l.Frozen = true
	pts := strokePts(1, 2, 11, 2)
	_, err := l.ConstructGrid(pts, all(pts))
	assert.ErrorIs(t, err, frite.ErrFrozenTopology)
	_, err = l.AddQuad(0, 0)
	assert.ErrorIs(t, err, frite.ErrFrozenTopology)
	assert.Equal(t, 0, l.NumQuads())
}

func TestContainsExclusive(t *testing.T) {
	l := NewGrid(4, geom.Point{}, []geom.Point{geom.Pt(0, 0), geom.Pt(11, 11)})
	require.Equal(t, 9, l.NumQuads())

	for x := 0.5; x < 12; x += 1.3 {
		for y := 0.25; y < 12; y += 1.3 {
			p := geom.Pt(x, y)
			n := 0
			for _, k := range l.Keys() {
				if _, ok := l.quadContains(l.quads[k], p, RefPos); ok {
					n++
				}
			}
			assert.Equal(t, 1, n, "point %v", p)
		}
	}

	for _, tc := range []struct {
		p    geom.Point
		want [2]int
	}{
		{geom.Pt(4, 4), [2]int{0, 0}},
		{geom.Pt(4, 2), [2]int{0, 0}},
		{geom.Pt(2, 4), [2]int{0, 0}},
		{geom.Pt(8, 6), [2]int{1, 1}},
		{geom.Pt(12, 12), [2]int{2, 2}},
	} {
		k, ok := l.Contains(tc.p, RefPos)
		require.True(t, ok, "point %v", tc.p)
		assert.Equal(t, CoordToKey(tc.want[0], tc.want[1]), k, "point %v", tc.p)
	}

	_, ok := l.Contains(geom.Pt(20, 20), RefPos)
	assert.False(t, ok)
}

func TestBake(t *testing.T) {
	l := New(4, geom.Point{})
	pts := strokePts(1, 2, 5, 3, 11, 2)
	_, err := l.ConstructGrid(pts, all(pts))
	require.NoError(t, err)

	uvs := make(UVTable)
	assert.Zero(t, l.BakeStrokeInGrid(uvs, 7, pts, all(pts)))
	require.Len(t, uvs, 3)
	for i, p := range pts {
		uv, ok := uvs[UVKey{Stroke: 7, Index: i}]
		require.True(t, ok)
		got, ok := l.Eval(uv, RefPos)
		require.True(t, ok)
		assert.InDelta(t, p.Pos.X, got.X, 1e-9)
		assert.InDelta(t, p.Pos.Y, got.Y, 1e-9)
	}

	outside := strokePts(100, 100)
	assert.Equal(t, 1, l.BakeStrokeInGrid(uvs, 8, outside, all(outside)))
	assert.Len(t, uvs, 3)

	uvs.RemoveStroke(7)
	assert.Empty(t, uvs)
}

func TestBakeForwardUV(t *testing.T) {
	l := New(4, geom.Point{})
	_, err := l.AddQuad(0, 0)
	require.NoError(t, err)
	for i := range l.NumCorners() {
		l.corners[i].coords[InterpPos] = l.corners[i].coords[RefPos].Translate(geom.Vec(10, 0))
	}
	pts := strokePts(11, 1)
	uvs := make(UVTable)
	assert.Zero(t, l.BakeForwardUV(uvs, 1, pts, all(pts), InterpPos))
	got, _ := l.Eval(uvs[UVKey{1, 0}], RefPos)
	assert.InDelta(t, 1, got.X, 1e-9)
	assert.InDelta(t, 1, got.Y, 1e-9)
}

func TestRemoveQuad(t *testing.T) {
	l := New(4, geom.Point{})
	pts := strokePts(1, 2, 7, 2)
	_, err := l.ConstructGrid(pts, all(pts))
	require.NoError(t, err)

	edge := strokePts(4, 2)
	uvs := make(UVTable)
	l.BakeStrokeInGrid(uvs, 1, edge, all(edge))
	require.Equal(t, CoordToKey(0, 0), uvs[UVKey{1, 0}].Quad)

	require.NoError(t, l.RemoveQuad(CoordToKey(0, 0), uvs))
	assert.Equal(t, 1, l.NumQuads())
	assert.Equal(t, CoordToKey(1, 0), uvs[UVKey{1, 0}].Quad)
	assert.InDelta(t, 0, uvs[UVKey{1, 0}].UV.X, 1e-9)
	assert.InDelta(t, 0.5, uvs[UVKey{1, 0}].UV.Y, 1e-9)
	assert.True(t, l.ArapPrecomputeDirty())

	err = l.RemoveQuad(CoordToKey(0, 0), uvs)
	assert.ErrorIs(t, err, frite.ErrNotFound)
}

func TestRemoveQuadOrphans(t *testing.T) {
	l := New(4, geom.Point{})
	pts := strokePts(1, 2, 7, 2)
	_, err := l.ConstructGrid(pts, all(pts))
	require.NoError(t, err)
	uvs := make(UVTable)
	l.BakeStrokeInGrid(uvs, 1, pts, all(pts))
	before := make(UVTable)
	for k, v := range uvs {
		before[k] = v
	}

	err = l.RemoveQuad(CoordToKey(0, 0), uvs)
	assert.ErrorIs(t, err, frite.ErrOrphanedPoints)
	assert.Equal(t, 2, l.NumQuads())
	assert.Equal(t, before, uvs)
}

func TestNeighborsFollowTopology(t *testing.T) {
	l := NewGrid(1, geom.Point{}, []geom.Point{geom.Pt(0.5, 0.5), geom.Pt(1.5, 1.5)})
	require.Equal(t, 4, l.NumQuads())
	neighbors := func(x, y int) []int { return l.Corner(mustCorner(t, l, x, y)).Neighbors }
	assert.ElementsMatch(t, []int{
		mustCorner(t, l, 0, 1), mustCorner(t, l, 2, 1),
		mustCorner(t, l, 1, 0), mustCorner(t, l, 1, 2),
	}, neighbors(1, 1))

	require.NoError(t, l.RemoveQuad(CoordToKey(1, 1), make(UVTable)))
	assert.Len(t, neighbors(1, 1), 4, "every edge of the center is still on a quad")
	assert.Empty(t, neighbors(2, 2))
	assert.ElementsMatch(t, []int{mustCorner(t, l, 2, 0), mustCorner(t, l, 1, 1)}, neighbors(2, 1))
	assert.ElementsMatch(t, []int{mustCorner(t, l, 0, 2), mustCorner(t, l, 1, 1)}, neighbors(1, 2))

	_, err := l.AddQuad(1, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{mustCorner(t, l, 2, 1), mustCorner(t, l, 1, 2)}, neighbors(2, 2))
}

func TestRemoveEmptyQuads(t *testing.T) {
	l := NewGrid(4, geom.Point{}, []geom.Point{geom.Pt(0, 0), geom.Pt(11, 3)})
	require.Equal(t, 3, l.NumQuads())
	pts := strokePts(5, 1)
	uvs := make(UVTable)
	l.BakeStrokeInGrid(uvs, 1, pts, all(pts))

	n, err := l.RemoveEmptyQuads(uvs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, [][2]int{{1, 0}}, quadCoords(l))
	b := l.Bounds(RefPos)
	assert.Equal(t, 4.0, b.X1-b.X0)
}

func TestBackwardUV(t *testing.T) {
	l := New(4, geom.Point{})
	_, err := l.AddQuad(0, 0)
	require.NoError(t, err)
	for i := range l.NumCorners() {
		l.SetTarget(i, l.Corner(i).Pos(RefPos).Translate(geom.Vec(5, 0)))
	}
	assert.True(t, l.BackwardUVDirty())

	p, ok := l.TargetToRef(geom.Pt(7, 2))
	require.True(t, ok)
	assert.InDelta(t, 2, p.X, 1e-9)
	assert.InDelta(t, 2, p.Y, 1e-9)
	assert.False(t, l.BackwardUVDirty())

	_, ok = l.TargetToRef(geom.Pt(1, 2))
	assert.False(t, ok)

	l.SetTarget(0, geom.Pt(4, -1))
	assert.True(t, l.BackwardUVDirty())
}

func TestClone(t *testing.T) {
	l := New(4, geom.Point{})
	pts := strokePts(1, 2, 7, 2)
	_, err := l.ConstructGrid(pts, all(pts))
	require.NoError(t, err)

	c := l.Clone()
	c.Frozen = true
	c.SetTarget(0, geom.Pt(-50, -50))
	assert.Equal(t, geom.Pt(0, 0), l.Corner(0).Pos(TargetPos))
	assert.Equal(t, l.NumQuads(), c.NumQuads())
	assert.True(t, c.ArapPrecomputeDirty())

	_, err = c.AddQuad(5, 5)
	assert.ErrorIs(t, err, frite.ErrFrozenTopology)
	_, err = l.AddQuad(5, 5)
	assert.NoError(t, err)
	assert.Equal(t, 2, c.NumQuads())
}
