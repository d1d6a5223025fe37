// Package stroke holds the drawn geometry of a keyframe: sample points,
// strokes, and the arclength-parametrized polylines used to resample,
// trim, project onto and cut them.
package stroke

import "github.com/MoStyle/frite/geom"

// Point is one sample of a stroke.
type Point struct {
	Pos      geom.Point
	Pressure float64
	// TemporalWeight biases the timing of the point within an inbetween.
	TemporalWeight float64
	// IntervalParam is the point's normalized position within its group
	// interval.
	IntervalParam float64
	// GroupID is the group the point belongs to, or frite.InvalidID.
	GroupID int
}

// Lerp interpolates position and scalar attributes. The group id is taken
// from p.
func (p Point) Lerp(o Point, t float64) Point {
	return Point{
		Pos:            p.Pos.Lerp(o.Pos, t),
		Pressure:       p.Pressure + t*(o.Pressure-p.Pressure),
		TemporalWeight: p.TemporalWeight + t*(o.TemporalWeight-p.TemporalWeight),
		IntervalParam:  p.IntervalParam + t*(o.IntervalParam-p.IntervalParam),
		GroupID:        p.GroupID,
	}
}
