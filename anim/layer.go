package anim

import (
	"context"
	"fmt"
	"maps"
	"runtime"
	"slices"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
	"github.com/MoStyle/frite/lattice"
	"github.com/MoStyle/frite/stroke"
	"github.com/MoStyle/frite/trajectory"
	"golang.org/x/sync/errgroup"
)

// Layer is a sequence of keyframes sharing a trajectory store.
type Layer struct {
	Config       frite.Config
	Trajectories *trajectory.Store

	keyframes map[int]*VectorKeyFrame
}

// NewLayer returns an empty layer. The configuration is validated.
func NewLayer(cfg frite.Config) (*Layer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Layer{
		Config:       cfg,
		Trajectories: trajectory.NewStore(),
		keyframes:    make(map[int]*VectorKeyFrame),
	}, nil
}

// AddKeyFrame returns the keyframe at frame, creating it if needed.
func (l *Layer) AddKeyFrame(frame int) *VectorKeyFrame {
	if kf, ok := l.keyframes[frame]; ok {
		return kf
	}
	kf := newKeyFrame(frame, l.Config)
	l.keyframes[frame] = kf
	return kf
}

// KeyFrameAt returns the keyframe exactly at frame.
func (l *Layer) KeyFrameAt(frame int) (*VectorKeyFrame, error) {
	kf, ok := l.keyframes[frame]
	if !ok {
		return nil, fmt.Errorf("keyframe %d: %w", frame, frite.ErrNotFound)
	}
	return kf, nil
}

// Frames returns the keyframe numbers in increasing order.
func (l *Layer) Frames() []int {
	return slices.Sorted(maps.Keys(l.keyframes))
}

// Span returns the keyframe at or before frame, the keyframe after it, and
// how far frame is between the two. next is nil and alpha 0 past the last
// keyframe.
func (l *Layer) Span(frame int) (kf, next *VectorKeyFrame, alpha float64, err error) {
	frames := l.Frames()
	i, found := slices.BinarySearch(frames, frame)
	if !found {
		i--
	}
	if i < 0 {
		return nil, nil, 0, fmt.Errorf("frame %d precedes the first keyframe: %w", frame, frite.ErrNotFound)
	}
	kf = l.keyframes[frames[i]]
	if i+1 == len(frames) {
		return kf, nil, 0, nil
	}
	next = l.keyframes[frames[i+1]]
	alpha = float64(frame-kf.Frame) / float64(next.Frame-kf.Frame)
	return kf, next, alpha, nil
}

// Inbetween is a synthesized frame.
type Inbetween struct {
	Frame int
	Alpha float64
	// Strokes holds the deformed strokes, ordered by group and then by
	// stroke id. A stroke split across groups appears once per interval.
	Strokes []*stroke.Stroke
}

// Inbetween deforms every post group of the keyframe spanning frame to its
// state at that frame. Groups are interpolated concurrently, at most
// Config.Workers at a time. The output strokes are resampled.
func (l *Layer) Inbetween(ctx context.Context, frame int, tp TransformProvider) (*Inbetween, error) {
	if tp == nil {
		tp = DefaultTransforms{}
	}
	kf, _, alpha, err := l.Span(frame)
	if err != nil {
		return nil, err
	}
	ids := kf.GroupIDs()
	results := make([][]*stroke.Stroke, len(ids))

	eg, ctx := errgroup.WithContext(ctx)
	workers := l.Config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg.SetLimit(workers)
	for i, gid := range ids {
		g := kf.post[gid]
		// constraints are built here; the trajectory store is not safe for
		// concurrent use
		rigid, spacing := tp.Transform(g, alpha)
		cs := l.constraints(g, spacing)
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g.Lattice.SetConstraints(cs)
			if err := g.Lattice.InterpolateARAP(alpha, spacing, rigid); err != nil {
				return fmt.Errorf("frame %d: group %d: %w", frame, gid, err)
			}
			out, err := kf.deformed(g)
			if err != nil {
				return err
			}
			for _, s := range out {
				if err := s.Resample(l.Config); err != nil {
					return err
				}
			}
			results[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	ib := &Inbetween{Frame: frame, Alpha: alpha}
	for _, r := range results {
		ib.Strokes = append(ib.Strokes, r...)
	}
	frite.Logger().Debug("anim: inbetween", "frame", frame, "alpha", alpha, "groups", len(ids), "strokes", len(ib.Strokes))
	return ib, nil
}

// constraints turns the trajectories of g into solver constraints at the
// given spacing.
func (l *Layer) constraints(g *Group, spacing float64) []lattice.Constraint {
	var cs []lattice.Constraint
	for _, id := range g.Trajectories {
		t, err := l.Trajectories.Get(id)
		if err != nil {
			frite.Logger().Warn("anim: group refers to a missing trajectory", "group", g.ID, "err", err)
			continue
		}
		w := l.Config.SoftConstraintWeight
		if t.Hard {
			w = l.Config.HardConstraintWeight
		}
		cs = append(cs, lattice.Constraint{Anchor: t.Anchor, Weight: w, Target: t.Eval(spacing)})
	}
	return cs
}

// AddTrajectory anchors a trajectory at point p of post group groupID of
// the keyframe at frame. The path runs straight from p to where the
// group's target configuration takes it.
func (l *Layer) AddTrajectory(frame, groupID int, p geom.Point, hard bool) (*trajectory.Trajectory, error) {
	kf, err := l.KeyFrameAt(frame)
	if err != nil {
		return nil, err
	}
	g, err := kf.Group(groupID)
	if err != nil {
		return nil, err
	}
	uv, ok := g.Lattice.UVOf(p, lattice.RefPos)
	if !ok {
		return nil, fmt.Errorf("trajectory anchor %v outside of group %d: %w", p, groupID, frite.ErrNotFound)
	}
	end, _ := g.Lattice.Eval(uv, lattice.TargetPos)
	t := l.Trajectories.New(groupID, geom.LineCubic(p, end), uv)
	t.Hard = hard
	g.Trajectories = append(g.Trajectories, t.ID)
	return t, nil
}

// DeriveBreakdown inserts a keyframe at frame, which must lie strictly
// between two keyframes. Every post group of the earlier keyframe is
// interpolated at frame and copied into a breakdown group of the new
// keyframe, whose frozen lattice rests in the interpolated shape and still
// targets the original target. The original group then ends in that
// shape.
func (l *Layer) DeriveBreakdown(ctx context.Context, frame int, tp TransformProvider) (*VectorKeyFrame, error) {
	kf, next, _, err := l.Span(frame)
	if err != nil {
		return nil, err
	}
	if next == nil || kf.Frame == frame {
		return nil, fmt.Errorf("frame %d is not strictly between two keyframes: %w", frame, frite.ErrNotFound)
	}
	// solves every group at frame
	if _, err := l.Inbetween(ctx, frame, tp); err != nil {
		return nil, err
	}

	bd := l.AddKeyFrame(frame)
	for _, gid := range kf.GroupIDs() {
		g := kf.post[gid]
		lat := g.Lattice.Clone()
		lat.Rigid = geom.RigidTransform{}
		lat.SetReference(lattice.InterpPos)
		lat.Frozen = true
		h := bd.addGroup(bd.post, Breakdown, lat)
		strokes, err := kf.deformed(g)
		if err != nil {
			return nil, err
		}
		for _, s := range strokes {
			n := bd.AddStroke(s.Points, s.Color, s.Width)
			if _, err := bd.SetGroup(n.ID, stroke.Interval{From: 0, To: n.Len() - 1}, h.ID); err != nil {
				return nil, err
			}
		}
		if pre := kf.InterOf(gid); pre != frite.InvalidID {
			bd.inter[h.ID] = pre
		}

		// the original group now ends where the breakdown starts
		gl := g.Lattice
		for i := range gl.NumCorners() {
			if gl.Active(i) {
				gl.SetTarget(i, gl.Corner(i).Pos(lattice.InterpPos))
			}
		}
		gl.SetRigid(geom.RigidTransform{})
		delete(kf.inter, gid)
	}
	return bd, nil
}
