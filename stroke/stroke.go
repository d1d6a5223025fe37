package stroke

import (
	"fmt"
	"image/color"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
	"github.com/jinzhu/copier"
)

// Stroke is a drawn line: an ordered run of points plus how to render it.
type Stroke struct {
	ID     int
	Points []Point
	Color  color.NRGBA
	Width  float64
}

// New returns a stroke owning pts.
func New(id int, pts []Point, c color.NRGBA, width float64) *Stroke {
	return &Stroke{ID: id, Points: pts, Color: c, Width: width}
}

// Len returns the number of points.
func (s *Stroke) Len() int { return len(s.Points) }

// Clone returns a deep copy of s.
func (s *Stroke) Clone() (*Stroke, error) {
	out := new(Stroke)
	if err := copier.CopyWithOption(out, s, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("clone stroke %d: %w", s.ID, err)
	}
	return out, nil
}

// Polyline returns an arclength parametrization of the stroke's points.
// The polyline shares the point slice with the stroke.
func (s *Stroke) Polyline() (*Polyline, error) {
	pl, err := NewPolyline(s.Points)
	if err != nil {
		return nil, fmt.Errorf("stroke %d: %w", s.ID, err)
	}
	return pl, nil
}

// Bounds returns the bounding box of the stroke's points.
func (s *Stroke) Bounds() geom.Rect {
	r := geom.EmptyRect
	for _, p := range s.Points {
		r = r.UnionPoint(p.Pos)
	}
	return r
}

// Resample replaces the stroke's points by a resampled copy. Strokes with
// fewer than two points are left alone.
func (s *Stroke) Resample(cfg frite.Config) error {
	if len(s.Points) < 2 {
		return nil
	}
	pl, err := s.Polyline()
	if err != nil {
		return err
	}
	out := pl.ResampleOpt(cfg.MaxSampling, cfg.MinSampling, OptionsFromConfig(cfg))
	s.Points = out.Points()
	return nil
}

// SetGroup assigns every point in iv to group.
func (s *Stroke) SetGroup(iv Interval, group int) {
	iv = iv.Clamp(len(s.Points))
	for i := iv.From; i <= iv.To; i++ {
		s.Points[i].GroupID = group
	}
}
