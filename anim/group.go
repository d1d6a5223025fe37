// Package anim ties strokes, lattices and trajectories together into
// keyframes and synthesizes the frames in between them.
//
// A [VectorKeyFrame] owns strokes and two registries of groups. Post groups
// own stroke points and deform towards the next keyframe. Pre groups
// describe how groups of the previous keyframe arrive; they carry a
// lattice but no strokes. Groups refer to each other through
// correspondences: intra correspondences link a keyframe's pre groups to
// its post groups, inter correspondences link post groups to the pre
// groups of the next keyframe. All links are integer ids, and a missing
// link is [frite.InvalidID].
package anim

import (
	"maps"
	"slices"

	"github.com/MoStyle/frite/lattice"
	"github.com/MoStyle/frite/monotone"
	"github.com/MoStyle/frite/stroke"
)

// GroupKind tells main groups from breakdown groups.
type GroupKind int

const (
	Main GroupKind = iota
	// Breakdown groups are derived from an inbetween. Their lattice
	// topology is frozen.
	Breakdown
)

func (k GroupKind) String() string {
	if k == Breakdown {
		return "breakdown"
	}
	return "main"
}

// Group is a set of stroke intervals deformed together by one lattice.
type Group struct {
	ID   int
	Kind GroupKind
	// Strokes maps stroke ids to the point intervals of the stroke that
	// belong to the group. It is derived from the points' group ids.
	Strokes map[int]stroke.Intervals
	Lattice *lattice.Lattice
	UVs     lattice.UVTable
	// Spacing remaps the linear interpolation factor of an inbetween to the
	// factor the deformation is evaluated at.
	Spacing *monotone.PiecewiseLinear
	// Trajectories holds the ids of the trajectories dragging the group,
	// resolved through the layer's store.
	Trajectories []int
}

func newGroup(id int, kind GroupKind, l *lattice.Lattice) *Group {
	return &Group{
		ID:      id,
		Kind:    kind,
		Strokes: make(map[int]stroke.Intervals),
		Lattice: l,
		UVs:     make(lattice.UVTable),
		Spacing: monotone.Identity(),
	}
}

// StrokeIDs returns the ids of the strokes with points in the group, in
// increasing order.
func (g *Group) StrokeIDs() []int {
	return slices.Sorted(maps.Keys(g.Strokes))
}

// Empty reports whether no stroke point belongs to the group.
func (g *Group) Empty() bool { return len(g.Strokes) == 0 }

// SpacingAt evaluates the spacing curve, clamping outside of its domain.
func (g *Group) SpacingAt(alpha float64) float64 {
	s, _ := g.Spacing.Eval(alpha)
	return s
}
