package anim

import "github.com/MoStyle/frite/geom"

// TransformProvider supplies the global motion of a group at an
// inbetween: the spacing-remapped interpolation factor, and the rigid
// transform taking the group's deformed lattice into canvas space at that
// factor.
type TransformProvider interface {
	Transform(g *Group, alpha float64) (rigid geom.Affine, spacing float64)
}

// DefaultTransforms evaluates the group's own spacing curve and the
// lattice's rigid motion. Trajectories are not part of the transform; they
// constrain the deformation itself.
type DefaultTransforms struct{}

func (DefaultTransforms) Transform(g *Group, alpha float64) (geom.Affine, float64) {
	s := g.SpacingAt(alpha)
	return g.Lattice.Rigid.At(s), s
}

// TransformFunc adapts a function to [TransformProvider].
type TransformFunc func(g *Group, alpha float64) (geom.Affine, float64)

func (f TransformFunc) Transform(g *Group, alpha float64) (geom.Affine, float64) {
	return f(g, alpha)
}
