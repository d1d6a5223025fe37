package lattice

import (
	"math"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
	"github.com/MoStyle/frite/stroke"
)

// Cell returns the grid cell containing p. Points on a cell boundary
// belong to the cell on their bottom-right side.
func (l *Lattice) Cell(p geom.Point) (x, y int) {
	return int(math.Floor((p.X - l.Origin.X) / l.CellSize)),
		int(math.Floor((p.Y - l.Origin.Y) / l.CellSize))
}

// traverse calls visit for every grid cell the segment from a to b passes
// through, in order, using the voxel walk of Amanatides and Woo.
func (l *Lattice) traverse(a, b geom.Point, visit func(x, y int)) {
	ax, ay := (a.X-l.Origin.X)/l.CellSize, (a.Y-l.Origin.Y)/l.CellSize
	bx, by := (b.X-l.Origin.X)/l.CellSize, (b.Y-l.Origin.Y)/l.CellSize
	x, y := int(math.Floor(ax)), int(math.Floor(ay))
	ex, ey := int(math.Floor(bx)), int(math.Floor(by))

	stepX, tMaxX, tDeltaX := walkAxis(ax, bx-ax)
	stepY, tMaxY, tDeltaY := walkAxis(ay, by-ay)

	visit(x, y)
	// the walk takes exactly one step per crossed grid line
	n := abs(ex-x) + abs(ey-y)
	for range n {
		if tMaxX < tMaxY {
			x += stepX
			tMaxX += tDeltaX
		} else {
			y += stepY
			tMaxY += tDeltaY
		}
		visit(x, y)
	}
}

func walkAxis(a, d float64) (step int, tMax, tDelta float64) {
	switch {
	case d > 0:
		return 1, (math.Floor(a) + 1 - a) / d, 1 / d
	case d < 0:
		return -1, (a - math.Floor(a)) / -d, -1 / d
	default:
		return 0, math.Inf(1), math.Inf(1)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ConstructGrid grows the lattice so that it covers the points of iv and
// every segment between consecutive ones, in the reference configuration.
// It reports whether quads were added, in which case bindings and
// correspondences computed against the old topology are stale.
//
// Frozen lattices fail with [frite.ErrFrozenTopology].
func (l *Lattice) ConstructGrid(pts []stroke.Point, iv stroke.Interval) (bool, error) {
	if l.Frozen {
		return false, frite.ErrFrozenTopology
	}
	iv = iv.Clamp(len(pts))
	if iv.Len() == 0 {
		return false, nil
	}
	created := false
	add := func(x, y int) {
		if _, ok := l.addQuad(x, y); ok {
			created = true
		}
	}
	if iv.Len() == 1 {
		add(l.Cell(pts[iv.From].Pos))
	}
	for i := iv.From; i < iv.To; i++ {
		l.traverse(pts[i].Pos, pts[i+1].Pos, add)
	}
	if created {
		frite.Logger().Debug("lattice: grid grown", "quads", len(l.quads))
	}
	return created, nil
}

// NewGrid returns a lattice covering the bounding box of pts.
func NewGrid(cellSize float64, origin geom.Point, pts []geom.Point) *Lattice {
	l := New(cellSize, origin)
	if len(pts) == 0 {
		return l
	}
	r := geom.BoundingRect(pts...)
	x0, y0 := l.Cell(geom.Pt(r.X0, r.Y0))
	x1, y1 := l.Cell(geom.Pt(r.X1, r.Y1))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			l.addQuad(x, y)
		}
	}
	return l
}
