// Package geom provides the 2D primitives the deformation engine is built
// on: vectors and points, affine and rigid transforms, axis-aligned
// rectangles, line segments, cubic Béziers and 2×2 matrices.
//
// Points and vectors are distinct types. A [Point] is a position on the
// canvas, a [Vec2] a displacement; subtracting two points yields a vector
// and translating a point by a vector yields a point. Both are plain
// float64 pairs and convert freely into each other.
//
// The coordinate system is the canvas one: y points down. A positive angle
// rotates the positive x axis into the positive y axis, which is clockwise
// on screen.
package geom
