package anim

import (
	"fmt"
	"image/color"
	"maps"
	"slices"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
	"github.com/MoStyle/frite/lattice"
	"github.com/MoStyle/frite/stroke"
)

// VectorKeyFrame is a drawn frame of a layer.
type VectorKeyFrame struct {
	Frame int

	cfg     frite.Config
	strokes map[int]*stroke.Stroke
	pre     map[int]*Group
	post    map[int]*Group
	// intra maps pre group ids to post group ids of this keyframe.
	intra map[int]int
	// inter maps post group ids to pre group ids of the next keyframe.
	inter map[int]int

	nextStroke int
	nextGroup  int
}

func newKeyFrame(frame int, cfg frite.Config) *VectorKeyFrame {
	return &VectorKeyFrame{
		Frame:   frame,
		cfg:     cfg,
		strokes: make(map[int]*stroke.Stroke),
		pre:     make(map[int]*Group),
		post:    make(map[int]*Group),
		intra:   make(map[int]int),
		inter:   make(map[int]int),
	}
}

// Stroke resolves a stroke id.
func (kf *VectorKeyFrame) Stroke(id int) (*stroke.Stroke, error) {
	s, ok := kf.strokes[id]
	if !ok {
		return nil, fmt.Errorf("keyframe %d: stroke %d: %w", kf.Frame, id, frite.ErrNotFound)
	}
	return s, nil
}

// StrokeIDs returns the stroke ids in increasing order.
func (kf *VectorKeyFrame) StrokeIDs() []int {
	return slices.Sorted(maps.Keys(kf.strokes))
}

// AddStroke takes ownership of pts as a new stroke and returns it. The
// points start out in no group.
func (kf *VectorKeyFrame) AddStroke(pts []stroke.Point, c color.NRGBA, width float64) *stroke.Stroke {
	for i := range pts {
		pts[i].GroupID = frite.InvalidID
	}
	s := stroke.New(kf.nextStroke, pts, c, width)
	kf.nextStroke++
	kf.strokes[s.ID] = s
	return s
}

// RemoveStroke deletes a stroke and its bindings.
func (kf *VectorKeyFrame) RemoveStroke(id int) {
	delete(kf.strokes, id)
	for _, g := range kf.post {
		delete(g.Strokes, id)
		g.UVs.RemoveStroke(id)
	}
}

// AddGroup creates an empty post group with a fresh lattice.
func (kf *VectorKeyFrame) AddGroup() *Group {
	return kf.addGroup(kf.post, Main, lattice.NewFromConfig(kf.cfg, geom.Point{}))
}

// AddPreGroup registers a pre group deformed by l.
func (kf *VectorKeyFrame) AddPreGroup(l *lattice.Lattice) *Group {
	return kf.addGroup(kf.pre, Main, l)
}

func (kf *VectorKeyFrame) addGroup(reg map[int]*Group, kind GroupKind, l *lattice.Lattice) *Group {
	g := newGroup(kf.nextGroup, kind, l)
	kf.nextGroup++
	reg[g.ID] = g
	return g
}

// Group resolves a post group id.
func (kf *VectorKeyFrame) Group(id int) (*Group, error) {
	g, ok := kf.post[id]
	if !ok {
		return nil, fmt.Errorf("keyframe %d: group %d: %w", kf.Frame, id, frite.ErrNotFound)
	}
	return g, nil
}

// PreGroup resolves a pre group id.
func (kf *VectorKeyFrame) PreGroup(id int) (*Group, error) {
	g, ok := kf.pre[id]
	if !ok {
		return nil, fmt.Errorf("keyframe %d: pre group %d: %w", kf.Frame, id, frite.ErrNotFound)
	}
	return g, nil
}

// GroupIDs returns the post group ids in increasing order.
func (kf *VectorKeyFrame) GroupIDs() []int {
	return slices.Sorted(maps.Keys(kf.post))
}

// RemoveGroup deletes a post group and its correspondences. Its points
// return to no group.
func (kf *VectorKeyFrame) RemoveGroup(id int) {
	g, ok := kf.post[id]
	if !ok {
		return
	}
	for sid, ivs := range g.Strokes {
		s := kf.strokes[sid]
		for _, iv := range ivs {
			s.SetGroup(iv, frite.InvalidID)
		}
	}
	delete(kf.post, id)
	delete(kf.inter, id)
	for pre, post := range kf.intra {
		if post == id {
			delete(kf.intra, pre)
		}
	}
}

// SetIntra links pre group pre to post group post.
func (kf *VectorKeyFrame) SetIntra(pre, post int) error {
	if _, err := kf.PreGroup(pre); err != nil {
		return err
	}
	if _, err := kf.Group(post); err != nil {
		return err
	}
	kf.intra[pre] = post
	return nil
}

// IntraOf returns the post group linked to pre group pre, or
// [frite.InvalidID].
func (kf *VectorKeyFrame) IntraOf(pre int) int {
	if post, ok := kf.intra[pre]; ok {
		return post
	}
	return frite.InvalidID
}

// SetInter links post group post to pre group nextPre of the next
// keyframe.
func (kf *VectorKeyFrame) SetInter(post, nextPre int) error {
	if _, err := kf.Group(post); err != nil {
		return err
	}
	kf.inter[post] = nextPre
	return nil
}

// InterOf returns the pre group of the next keyframe linked to post group
// post, or [frite.InvalidID].
func (kf *VectorKeyFrame) InterOf(post int) int {
	if pre, ok := kf.inter[post]; ok {
		return pre
	}
	return frite.InvalidID
}

// invalidateIntra drops the intra correspondences of a post group whose
// topology changed.
func (kf *VectorKeyFrame) invalidateIntra(post int) {
	for pre, p := range kf.intra {
		if p == post {
			delete(kf.intra, pre)
			frite.Logger().Debug("anim: intra correspondence invalidated",
				"frame", kf.Frame, "pre", pre, "post", post)
		}
	}
}

// AddToGroup moves the points iv of a stroke into a post group, growing
// the group's lattice around them unless it is frozen, and binds them. It
// reports whether the lattice grew; intra correspondences of the group
// are invalidated when it did.
func (kf *VectorKeyFrame) AddToGroup(strokeID, groupID int, iv stroke.Interval) (bool, error) {
	if _, err := kf.Group(groupID); err != nil {
		return false, err
	}
	return kf.SetGroup(strokeID, iv, groupID)
}

// SetGroup reassigns the points iv of a stroke to a group, or to no group
// with [frite.InvalidID], and rebuilds the membership of every group from
// the points.
func (kf *VectorKeyFrame) SetGroup(strokeID int, iv stroke.Interval, groupID int) (bool, error) {
	s, err := kf.Stroke(strokeID)
	if err != nil {
		return false, err
	}
	if groupID != frite.InvalidID {
		if _, err := kf.Group(groupID); err != nil {
			return false, err
		}
	}
	s.SetGroup(iv, groupID)
	return kf.rebind(s)
}

// rebind derives the group intervals of s from its points, then grows and
// binds every group that owns some of them.
func (kf *VectorKeyFrame) rebind(s *stroke.Stroke) (bool, error) {
	parts := stroke.Partition(s.Points)
	for gid := range parts {
		if _, ok := kf.post[gid]; !ok {
			frite.Logger().Warn("anim: points in an unknown group",
				"frame", kf.Frame, "stroke", s.ID, "group", gid)
			delete(parts, gid)
		}
	}
	grown := false
	for _, gid := range kf.GroupIDs() {
		g := kf.post[gid]
		g.UVs.RemoveStroke(s.ID)
		ivs, ok := parts[gid]
		if !ok {
			delete(g.Strokes, s.ID)
			continue
		}
		g.Strokes[s.ID] = ivs
		created := false
		for _, iv := range ivs {
			if !g.Lattice.Frozen {
				c, err := g.Lattice.ConstructGrid(s.Points, iv)
				if err != nil {
					return grown, fmt.Errorf("group %d: %w", gid, err)
				}
				created = created || c
			}
		}
		if created {
			kf.invalidateIntra(gid)
			grown = true
		}
		for _, iv := range ivs {
			g.Lattice.BakeStrokeInGrid(g.UVs, s.ID, s.Points, iv)
		}
	}
	return grown, nil
}

// Erase removes the points [from, to] of a stroke. The pieces the removal
// cuts off become new strokes, keeping their points' groups. It returns
// the ids of the new strokes. A stroke left with no point is deleted.
func (kf *VectorKeyFrame) Erase(strokeID, from, to int) ([]int, error) {
	s, err := kf.Stroke(strokeID)
	if err != nil {
		return nil, err
	}
	var rest [][]stroke.Point
	if len(s.Points) < 2 {
		if from <= 0 && to >= 0 {
			s.Points = nil
		}
	} else {
		pl, err := s.Polyline()
		if err != nil {
			return nil, err
		}
		rest = pl.RemoveSection(from, to)
		s.Points = pl.Points()
	}

	var ids []int
	for _, pts := range rest {
		n := stroke.New(kf.nextStroke, pts, s.Color, s.Width)
		kf.nextStroke++
		kf.strokes[n.ID] = n
		ids = append(ids, n.ID)
		if _, err := kf.rebind(n); err != nil {
			return ids, err
		}
	}
	if len(s.Points) == 0 {
		kf.RemoveStroke(s.ID)
		return ids, nil
	}
	if _, err := kf.rebind(s); err != nil {
		return ids, err
	}
	return ids, nil
}

// UpdateTargets pulls the arrival shape of every post group from the
// corresponding pre group of next: each corner of the group's lattice
// targets the reference position of the pre group's corner on the same
// grid vertex. The lattice's rigid motion is refit to the best rotation
// and translation carrying its reference shape onto those targets. A post
// group without correspondence is skipped with a warning.
func (kf *VectorKeyFrame) UpdateTargets(next *VectorKeyFrame) {
	for _, gid := range kf.GroupIDs() {
		g := kf.post[gid]
		preID := kf.InterOf(gid)
		if preID == frite.InvalidID {
			frite.Logger().Warn("anim: no corresponding group in the next keyframe",
				"frame", kf.Frame, "group", gid)
			continue
		}
		pre, err := next.PreGroup(preID)
		if err != nil {
			frite.Logger().Warn("anim: corresponding group is missing",
				"frame", kf.Frame, "group", gid, "err", err)
			continue
		}
		l := g.Lattice
		var src, dst []geom.Point
		for i := range l.NumCorners() {
			c := l.Corner(i)
			if !l.Active(i) {
				continue
			}
			if j, ok := pre.Lattice.CornerAt(c.X, c.Y); ok {
				p := pre.Lattice.Corner(j).Pos(lattice.RefPos)
				l.SetTarget(i, p)
				src = append(src, c.Pos(lattice.RefPos))
				dst = append(dst, p)
			}
		}
		r := geom.FitRigid(src, dst)
		if r.IsIdentity() {
			r = geom.RigidTransform{}
		}
		l.SetRigid(r)
	}
}

// Propagate creates in next a pre group arriving in the target shape of
// post group groupID, links the two and returns the new group.
func (kf *VectorKeyFrame) Propagate(next *VectorKeyFrame, groupID int) (*Group, error) {
	g, err := kf.Group(groupID)
	if err != nil {
		return nil, err
	}
	l := g.Lattice.Clone()
	l.Frozen = false
	l.Rigid = geom.RigidTransform{}
	l.SetReference(lattice.TargetPos)
	l.ResetTarget()
	pre := next.AddPreGroup(l)
	kf.inter[groupID] = pre.ID
	return pre, nil
}

// deformed returns the strokes of g re-projected through the interpolated
// configuration of its lattice, one per stroke interval.
func (kf *VectorKeyFrame) deformed(g *Group) ([]*stroke.Stroke, error) {
	var out []*stroke.Stroke
	for _, sid := range g.StrokeIDs() {
		s := kf.strokes[sid]
		for _, iv := range g.Strokes[sid] {
			d, err := s.Clone()
			if err != nil {
				return nil, err
			}
			pts := d.Points[:0]
			for i := iv.From; i <= iv.To; i++ {
				uv, ok := g.UVs[lattice.UVKey{Stroke: sid, Index: i}]
				if !ok {
					continue
				}
				p := s.Points[i]
				pos, ok := g.Lattice.Eval(uv, lattice.InterpPos)
				if !ok {
					continue
				}
				p.Pos = pos
				pts = append(pts, p)
			}
			if len(pts) == 0 {
				continue
			}
			d.Points = pts
			out = append(out, d)
		}
	}
	return out, nil
}
