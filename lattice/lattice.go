// Package lattice implements the quad mesh a group's strokes are embedded
// in, and its as-rigid-as-possible deformation.
//
// A lattice is a set of square cells of a regular grid. Cells are
// addressed by their integer grid coordinate, or equivalently by the [Key]
// derived from it, so adjacency is plain arithmetic. The four corners of a
// cell are shared with its neighbours through the vertex they sit on.
//
// Every corner carries one position per [PosType]: the reference
// configuration the strokes were drawn in, the target configuration the
// group should reach at the next keyframe, and the interpolated
// configuration last computed by [Lattice.InterpolateARAP]. Stroke points
// are bound to the lattice by [UVInfo] records: a cell and bilinear
// coordinates within it.
package lattice

import (
	"fmt"
	"slices"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
)

// PosType selects one of the coordinate sets of a corner.
type PosType int

const (
	RefPos PosType = iota
	TargetPos
	InterpPos
	numPosTypes
)

func (t PosType) String() string {
	switch t {
	case RefPos:
		return "ref"
	case TargetPos:
		return "target"
	case InterpPos:
		return "interp"
	default:
		return fmt.Sprintf("PosType(%d)", int(t))
	}
}

// Corner is a vertex of the lattice.
type Corner struct {
	// X, Y is the grid vertex the corner was created on.
	X, Y   int
	coords [numPosTypes]geom.Point
	// Deformable corners are solved for by ARAP. The others follow their
	// prescribed path from reference to target.
	Deformable bool
	// Rotation is the mean rotation of the incident quads after the last
	// ARAP solve.
	Rotation float64
	// Neighbors lists the corners sharing a quad edge with this one.
	Neighbors []int

	refs int
}

// Pos returns the corner position in configuration t.
func (c *Corner) Pos(t PosType) geom.Point { return c.coords[t] }

// Quad is a cell of the lattice.
type Quad struct {
	Key  Key
	X, Y int
	// Corners holds corner indices in top-left, top-right, bottom-right,
	// bottom-left order.
	Corners [4]int
	// Rotation is the rotation fitted in the last ARAP iteration.
	Rotation float64

	centroid geom.Point
	rest     [4]geom.Vec2
}

// Centroid returns the centroid of the quad in the reference
// configuration.
func (q *Quad) Centroid() geom.Point { return q.centroid }

const (
	defaultIterations = 10
	defaultTolerance  = 1e-6
)

// Lattice is the quad mesh of a group. The zero value is not usable; call
// [New].
type Lattice struct {
	CellSize float64
	Origin   geom.Point
	// Frozen lattices belong to breakdown groups. Their topology cannot be
	// edited.
	Frozen bool
	// Rigid is the global motion of the group from the reference to the
	// target configuration. ARAP only solves for what remains of the
	// target after undoing it.
	Rigid geom.RigidTransform

	// Iterations bounds the local-global rounds of an ARAP solve, which
	// stops early once no corner moves by more than Tolerance.
	Iterations int
	Tolerance  float64

	quads    map[Key]*Quad
	keys     []Key
	corners  []Corner
	vertices map[Key]int

	constraints []Constraint

	arapDirty     bool
	backwardDirty bool

	arap     *arapSystem
	solved   bool
	solvedAt solveKey

	targetBoxes map[Key]geom.Rect
}

// New returns an empty lattice with cells of the given size, aligned on
// origin.
func New(cellSize float64, origin geom.Point) *Lattice {
	return &Lattice{
		CellSize:      cellSize,
		Origin:        origin,
		Iterations:    defaultIterations,
		Tolerance:     defaultTolerance,
		quads:         make(map[Key]*Quad),
		vertices:      make(map[Key]int),
		arapDirty:     true,
		backwardDirty: true,
	}
}

// NewFromConfig returns an empty lattice set up from cfg.
func NewFromConfig(cfg frite.Config, origin geom.Point) *Lattice {
	l := New(cfg.CellSize, origin)
	l.Iterations = cfg.ArapIterations
	l.Tolerance = cfg.ArapTolerance
	return l
}

// NumQuads returns the number of quads.
func (l *Lattice) NumQuads() int { return len(l.quads) }

// NumCorners returns the size of the corner pool. Corners are never
// removed from the pool, so some may not belong to any quad.
func (l *Lattice) NumCorners() int { return len(l.corners) }

// Corner returns the corner with index i.
func (l *Lattice) Corner(i int) *Corner { return &l.corners[i] }

// CornerAt returns the index of the corner on grid vertex (x, y).
func (l *Lattice) CornerAt(x, y int) (int, bool) {
	i, ok := l.vertices[CoordToKey(x, y)]
	return i, ok
}

// Quad returns the quad with key k.
func (l *Lattice) Quad(k Key) (*Quad, bool) {
	q, ok := l.quads[k]
	return q, ok
}

// QuadAt returns the quad on grid cell (x, y).
func (l *Lattice) QuadAt(x, y int) (*Quad, bool) {
	return l.Quad(CoordToKey(x, y))
}

// Keys returns the quad keys in increasing order. The slice must not be
// modified.
func (l *Lattice) Keys() []Key {
	if l.keys == nil {
		l.keys = make([]Key, 0, len(l.quads))
		for k := range l.quads {
			l.keys = append(l.keys, k)
		}
		slices.Sort(l.keys)
	}
	return l.keys
}

// Active reports whether corner i belongs to at least one quad.
func (l *Lattice) Active(i int) bool { return l.corners[i].refs > 0 }

// QuadPoints returns the corners of q in configuration t.
func (l *Lattice) QuadPoints(q *Quad, t PosType) [4]geom.Point {
	return [4]geom.Point{
		l.corners[q.Corners[0]].coords[t],
		l.corners[q.Corners[1]].coords[t],
		l.corners[q.Corners[2]].coords[t],
		l.corners[q.Corners[3]].coords[t],
	}
}

// Bounds returns the bounding box of the lattice in configuration t.
func (l *Lattice) Bounds(t PosType) geom.Rect {
	r := geom.EmptyRect
	for i := range l.corners {
		if l.corners[i].refs > 0 {
			r = r.UnionPoint(l.corners[i].coords[t])
		}
	}
	return r
}

// vertexPos is the reference position of grid vertex (x, y).
func (l *Lattice) vertexPos(x, y int) geom.Point {
	return geom.Pt(l.Origin.X+float64(x)*l.CellSize, l.Origin.Y+float64(y)*l.CellSize)
}

func (l *Lattice) cornerFor(x, y int) int {
	k := CoordToKey(x, y)
	if i, ok := l.vertices[k]; ok {
		return i
	}
	ref := l.vertexPos(x, y)
	c := Corner{X: x, Y: y, Deformable: true}
	c.coords[RefPos] = ref
	c.coords[TargetPos] = ref.Transform(l.Rigid.Affine())
	c.coords[InterpPos] = ref
	l.corners = append(l.corners, c)
	l.vertices[k] = len(l.corners) - 1
	return len(l.corners) - 1
}

func (l *Lattice) addQuad(x, y int) (*Quad, bool) {
	k := CoordToKey(x, y)
	if q, ok := l.quads[k]; ok {
		return q, false
	}
	q := &Quad{Key: k, X: x, Y: y}
	q.Corners = [4]int{
		l.cornerFor(x, y),
		l.cornerFor(x+1, y),
		l.cornerFor(x+1, y+1),
		l.cornerFor(x, y+1),
	}
	for _, c := range q.Corners {
		l.corners[c].refs++
	}
	l.quads[k] = q
	l.updateRest(q)
	for i := range 4 {
		l.link(q.Corners[i], q.Corners[(i+1)%4])
	}
	l.topologyChanged()
	return q, true
}

// AddQuad adds the quad on grid cell (x, y) if it does not exist yet.
func (l *Lattice) AddQuad(x, y int) (*Quad, error) {
	if l.Frozen {
		return nil, frite.ErrFrozenTopology
	}
	q, _ := l.addQuad(x, y)
	return q, nil
}

func (l *Lattice) deleteQuad(q *Quad) {
	for _, c := range q.Corners {
		l.corners[c].refs--
	}
	delete(l.quads, q.Key)
	// edge i of a quad is shared with the quad across it
	across := [4][2]int{{q.X, q.Y - 1}, {q.X + 1, q.Y}, {q.X, q.Y + 1}, {q.X - 1, q.Y}}
	for i, xy := range across {
		if _, ok := l.QuadAt(xy[0], xy[1]); !ok {
			l.unlink(q.Corners[i], q.Corners[(i+1)%4])
		}
	}
	l.topologyChanged()
}

func (l *Lattice) topologyChanged() {
	l.keys = nil
	l.SetArapPrecomputeDirty()
	l.SetBackwardUVDirty()
}

func (l *Lattice) link(a, b int) {
	if !slices.Contains(l.corners[a].Neighbors, b) {
		l.corners[a].Neighbors = append(l.corners[a].Neighbors, b)
		l.corners[b].Neighbors = append(l.corners[b].Neighbors, a)
	}
}

func (l *Lattice) unlink(a, b int) {
	l.corners[a].Neighbors = slices.DeleteFunc(l.corners[a].Neighbors, func(c int) bool { return c == b })
	l.corners[b].Neighbors = slices.DeleteFunc(l.corners[b].Neighbors, func(c int) bool { return c == a })
}

func (l *Lattice) updateRest(q *Quad) {
	p := l.QuadPoints(q, RefPos)
	q.centroid = geom.Centroid(p[:])
	for i := range 4 {
		q.rest[i] = p[i].Sub(q.centroid)
	}
}

// SetDeformable marks corner i as solved for (true) or pinned (false).
func (l *Lattice) SetDeformable(i int, on bool) {
	if l.corners[i].Deformable == on {
		return
	}
	l.corners[i].Deformable = on
	l.SetArapPrecomputeDirty()
}

// SetTarget moves corner i in the target configuration.
func (l *Lattice) SetTarget(i int, p geom.Point) {
	l.corners[i].coords[TargetPos] = p
	l.solved = false
	l.SetBackwardUVDirty()
}

// ResetTarget sets every target position to the reference position moved
// by the lattice's rigid motion.
func (l *Lattice) ResetTarget() {
	aff := l.Rigid.Affine()
	for i := range l.corners {
		l.corners[i].coords[TargetPos] = l.corners[i].coords[RefPos].Transform(aff)
	}
	l.solved = false
	l.SetBackwardUVDirty()
}

// SetRigid replaces the lattice's global rigid motion. Target positions
// are left where they are.
func (l *Lattice) SetRigid(r geom.RigidTransform) {
	l.Rigid = r
	l.solved = false
}

// SetReference copies configuration t into the reference configuration,
// making it the new rest shape.
func (l *Lattice) SetReference(t PosType) {
	for i := range l.corners {
		l.corners[i].coords[RefPos] = l.corners[i].coords[t]
	}
	for _, q := range l.quads {
		l.updateRest(q)
	}
	l.SetArapPrecomputeDirty()
	l.SetBackwardUVDirty()
}

// SetArapPrecomputeDirty marks the ARAP factorization as stale.
func (l *Lattice) SetArapPrecomputeDirty() {
	l.arapDirty = true
	l.solved = false
}

// ArapPrecomputeDirty reports whether [Lattice.Precompute] has to run
// before the next solve. [Lattice.InterpolateARAP] does so itself.
func (l *Lattice) ArapPrecomputeDirty() bool { return l.arapDirty }

// SetBackwardUVDirty marks the target-to-reference mapping as stale.
func (l *Lattice) SetBackwardUVDirty() { l.backwardDirty = true }

// BackwardUVDirty reports whether the target-to-reference mapping is
// stale. It is rebuilt by the next backward query.
func (l *Lattice) BackwardUVDirty() bool { return l.backwardDirty }

// Clone returns a deep copy of l. Solver state is not copied; the clone
// refactors on its first solve.
func (l *Lattice) Clone() *Lattice {
	out := &Lattice{
		CellSize:      l.CellSize,
		Origin:        l.Origin,
		Frozen:        l.Frozen,
		Rigid:         l.Rigid,
		Iterations:    l.Iterations,
		Tolerance:     l.Tolerance,
		quads:         make(map[Key]*Quad, len(l.quads)),
		corners:       slices.Clone(l.corners),
		vertices:      make(map[Key]int, len(l.vertices)),
		constraints:   slices.Clone(l.constraints),
		arapDirty:     true,
		backwardDirty: true,
	}
	for i := range out.corners {
		out.corners[i].Neighbors = slices.Clone(out.corners[i].Neighbors)
	}
	for k, q := range l.quads {
		c := *q
		out.quads[k] = &c
	}
	for k, v := range l.vertices {
		out.vertices[k] = v
	}
	return out
}
