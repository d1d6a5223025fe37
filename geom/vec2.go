package geom

import (
	"fmt"
	"math"
)

// Vec2 is a displacement in the plane.
type Vec2 struct {
	X float64
	Y float64
}

// Vec returns the vector ⟨x, y⟩.
func Vec(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) String() string {
	return fmt.Sprintf("⟨%g, %g⟩", v.X, v.Y)
}

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3-D cross product, positive when o
// is clockwise of v on screen.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

// Hypot returns the length of v.
func (v Vec2) Hypot() float64 { return math.Hypot(v.X, v.Y) }

// Hypot2 returns the squared length of v.
func (v Vec2) Hypot2() float64 { return v.Dot(v) }

func (v Vec2) Lerp(o Vec2, t float64) Vec2 { return v.Add(o.Sub(v).Mul(t)) }

func (v Vec2) Add(o Vec2) Vec2             { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2             { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(f float64) Vec2          { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Div(f float64) Vec2          { return Vec2{v.X / f, v.Y / f} }
func (v Vec2) Negate() Vec2                { return Vec2{-v.X, -v.Y} }
