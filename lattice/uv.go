package lattice

import (
	"fmt"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
	"github.com/MoStyle/frite/stroke"
)

// UVInfo binds a point to a quad: the point is the bilinear combination of
// the quad's corners at UV.
type UVInfo struct {
	Quad Key
	UV   geom.Vec2
}

// UVKey addresses a point of a stroke.
type UVKey struct {
	Stroke int
	Index  int
}

// UVTable holds the bindings of a group's stroke points.
type UVTable map[UVKey]UVInfo

// RemoveStroke drops every binding of the given stroke.
func (t UVTable) RemoveStroke(id int) {
	for k := range t {
		if k.Stroke == id {
			delete(t, k)
		}
	}
}

// Count returns how many points are bound to each quad.
func (t UVTable) Count() map[Key]int {
	out := make(map[Key]int)
	for _, uv := range t {
		out[uv.Quad]++
	}
	return out
}

// boundaries are inclusive up to this slack in uv space
const uvEpsilon = 1e-9

func (l *Lattice) quadContains(q *Quad, p geom.Point, t PosType) (geom.Vec2, bool) {
	c := l.QuadPoints(q, t)
	box := geom.BoundingRect(c[:]...).Inflate(uvEpsilon*l.CellSize, uvEpsilon*l.CellSize)
	if !box.Contains(p) {
		return geom.Vec2{}, false
	}
	uv, ok := geom.InverseBilinear(c[0], c[1], c[2], c[3], p)
	if !ok {
		return geom.Vec2{}, false
	}
	if uv.X < -uvEpsilon || uv.X > 1+uvEpsilon || uv.Y < -uvEpsilon || uv.Y > 1+uvEpsilon {
		return geom.Vec2{}, false
	}
	uv.X = min(max(uv.X, 0), 1)
	uv.Y = min(max(uv.Y, 0), 1)
	return uv, true
}

// Contains returns the key of the quad containing p in configuration t.
// Quad boundaries are inclusive; a point shared by several quads belongs
// to the one with the lowest key.
func (l *Lattice) Contains(p geom.Point, t PosType) (Key, bool) {
	uv, ok := l.UVOf(p, t)
	return uv.Quad, ok
}

// UVOf binds p to the quad containing it in configuration t.
func (l *Lattice) UVOf(p geom.Point, t PosType) (UVInfo, bool) {
	return l.uvOf(p, t, nil)
}

func (l *Lattice) uvOf(p geom.Point, t PosType, skip *Quad) (UVInfo, bool) {
	for _, k := range l.Keys() {
		q := l.quads[k]
		if q == skip {
			continue
		}
		if uv, ok := l.quadContains(q, p, t); ok {
			return UVInfo{Quad: k, UV: uv}, true
		}
	}
	return UVInfo{}, false
}

// Eval returns the position of the bound point uv in configuration t. It
// fails if the quad does not exist.
func (l *Lattice) Eval(uv UVInfo, t PosType) (geom.Point, bool) {
	q, ok := l.quads[uv.Quad]
	if !ok {
		return geom.Point{}, false
	}
	c := l.QuadPoints(q, t)
	return geom.Bilinear(c[0], c[1], c[2], c[3], uv.UV.X, uv.UV.Y), true
}

// BakeStrokeInGrid binds the points of iv to the quads containing them in
// the reference configuration. It returns the number of points no quad
// contains; their previous bindings are dropped.
func (l *Lattice) BakeStrokeInGrid(uvs UVTable, strokeID int, pts []stroke.Point, iv stroke.Interval) int {
	return l.BakeForwardUV(uvs, strokeID, pts, iv, RefPos)
}

// BakeForwardUV is like BakeStrokeInGrid, but locates the points in
// configuration t. Breakdown groups use it to bind strokes drawn over a
// deformed lattice.
func (l *Lattice) BakeForwardUV(uvs UVTable, strokeID int, pts []stroke.Point, iv stroke.Interval, t PosType) int {
	iv = iv.Clamp(len(pts))
	unbound := 0
	for i := iv.From; i <= iv.To; i++ {
		k := UVKey{Stroke: strokeID, Index: i}
		uv, ok := l.UVOf(pts[i].Pos, t)
		if !ok {
			delete(uvs, k)
			unbound++
			continue
		}
		uvs[k] = uv
	}
	if unbound > 0 {
		frite.Logger().Warn("lattice: points outside of the lattice",
			"stroke", strokeID, "from", iv.From, "to", iv.To, "unbound", unbound, "pos", t)
	}
	return unbound
}

// RemoveQuad deletes the quad with key k. Points bound to it are rebound
// to the neighbouring quad containing them in the reference
// configuration. If one of them is not covered by any other quad, the
// removal fails with [frite.ErrOrphanedPoints] and nothing changes.
func (l *Lattice) RemoveQuad(k Key, uvs UVTable) error {
	if l.Frozen {
		return frite.ErrFrozenTopology
	}
	q, ok := l.quads[k]
	if !ok {
		return fmt.Errorf("quad %d: %w", k, frite.ErrNotFound)
	}
	rebound := make(map[UVKey]UVInfo)
	for key, uv := range uvs {
		if uv.Quad != k {
			continue
		}
		p, _ := l.Eval(uv, RefPos)
		nuv, ok := l.uvOf(p, RefPos, q)
		if !ok {
			return fmt.Errorf("quad %d: stroke %d point %d: %w", k, key.Stroke, key.Index, frite.ErrOrphanedPoints)
		}
		rebound[key] = nuv
	}
	l.deleteQuad(q)
	for key, uv := range rebound {
		uvs[key] = uv
	}
	return nil
}

// RemoveEmptyQuads deletes every quad no point is bound to and returns how
// many were removed.
func (l *Lattice) RemoveEmptyQuads(uvs UVTable) (int, error) {
	if l.Frozen {
		return 0, frite.ErrFrozenTopology
	}
	used := uvs.Count()
	var empty []*Quad
	for _, k := range l.Keys() {
		if used[k] == 0 {
			empty = append(empty, l.quads[k])
		}
	}
	for _, q := range empty {
		l.deleteQuad(q)
	}
	return len(empty), nil
}

// BackwardUV binds p to the quad containing it in the target
// configuration. Evaluating the result at [RefPos] maps a target-space
// point back to the reference configuration.
func (l *Lattice) BackwardUV(p geom.Point) (UVInfo, bool) {
	if l.backwardDirty || l.targetBoxes == nil {
		l.updateBackwardUV()
	}
	for _, k := range l.Keys() {
		if !l.targetBoxes[k].Inflate(uvEpsilon*l.CellSize, uvEpsilon*l.CellSize).Contains(p) {
			continue
		}
		if uv, ok := l.quadContains(l.quads[k], p, TargetPos); ok {
			return UVInfo{Quad: k, UV: uv}, true
		}
	}
	return UVInfo{}, false
}

// TargetToRef maps a point of the target configuration to the reference
// configuration.
func (l *Lattice) TargetToRef(p geom.Point) (geom.Point, bool) {
	uv, ok := l.BackwardUV(p)
	if !ok {
		return geom.Point{}, false
	}
	return l.Eval(uv, RefPos)
}

func (l *Lattice) updateBackwardUV() {
	l.targetBoxes = make(map[Key]geom.Rect, len(l.quads))
	for k, q := range l.quads {
		c := l.QuadPoints(q, TargetPos)
		l.targetBoxes[k] = geom.BoundingRect(c[:]...)
	}
	l.backwardDirty = false
}
