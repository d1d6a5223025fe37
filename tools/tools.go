// Package tools turns pointer events into edits of a layer.
//
// Every tool implements [Tool]. The set of tools is closed: [Kind] names
// each of them, and [New] builds one from its kind.
package tools

import (
	"fmt"
	"image/color"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/anim"
	"github.com/MoStyle/frite/geom"
)

// Kind identifies a tool.
type Kind int

const (
	KindDraw Kind = iota
	KindErase
	KindPin
	KindWarp
	KindTrajectory
)

func (k Kind) String() string {
	switch k {
	case KindDraw:
		return "draw"
	case KindErase:
		return "erase"
	case KindPin:
		return "pin"
	case KindWarp:
		return "warp"
	case KindTrajectory:
		return "trajectory"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is a pointer sample.
type Event struct {
	Pos      geom.Point
	Pressure float64
}

// Context is what a tool edits: a keyframe of a layer and, for tools that
// need one, a post group of it.
type Context struct {
	Layer *anim.Layer
	Frame int
	Group int
	// Color and Width style new strokes.
	Color color.NRGBA
	Width float64
}

func (c *Context) keyframe() (*anim.VectorKeyFrame, error) {
	return c.Layer.KeyFrameAt(c.Frame)
}

func (c *Context) group() (*anim.Group, error) {
	kf, err := c.keyframe()
	if err != nil {
		return nil, err
	}
	return kf.Group(c.Group)
}

func (c *Context) config() frite.Config { return c.Layer.Config }

// Tool reacts to a press, any number of moves, and a release.
type Tool interface {
	Kind() Kind
	Press(ctx *Context, e Event) error
	Move(ctx *Context, e Event) error
	Release(ctx *Context, e Event) error
}

// New returns a fresh tool of the given kind.
func New(k Kind) (Tool, error) {
	switch k {
	case KindDraw:
		return &Draw{StrokeID: frite.InvalidID}, nil
	case KindErase:
		return &Erase{}, nil
	case KindPin:
		return &Pin{Corner: frite.InvalidID}, nil
	case KindWarp:
		return &Warp{}, nil
	case KindTrajectory:
		return &TrajectoryEdit{Trajectory: frite.InvalidID}, nil
	default:
		return nil, fmt.Errorf("tool %v: %w", k, frite.ErrNotFound)
	}
}
