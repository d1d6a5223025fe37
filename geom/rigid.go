package geom

// RigidTransform is a rotation by Angle about Center followed by a
// translation. Unlike a plain [Affine] it can be evaluated partially: At
// interpolates between the identity (t = 0) and the full motion (t = 1)
// along the rotation arc instead of blending coefficients, which would
// shrink the shape halfway through.
//
// The zero value is the identity.
type RigidTransform struct {
	Center      Point
	Angle       float64
	Translation Vec2
}

// At returns the transform at fraction t of the motion.
func (r RigidTransform) At(t float64) Affine {
	return RotateAbout(r.Angle*t, r.Center).ThenTranslate(r.Translation.Mul(t))
}

// Affine returns the full motion, At(1).
func (r RigidTransform) Affine() Affine {
	return r.At(1)
}

// IsIdentity reports whether r leaves every point in place.
func (r RigidTransform) IsIdentity() bool {
	return r.Angle == 0 && r.Translation == (Vec2{})
}

// FitRigid returns the rigid motion mapping src onto dst best in the least
// squares sense. The rotation is taken about the centroid of src. Both
// slices must have the same length.
func FitRigid(src, dst []Point) RigidTransform {
	if len(src) == 0 {
		return RigidTransform{}
	}
	cs := Centroid(src)
	cd := Centroid(dst)
	a := make([]Vec2, len(src))
	b := make([]Vec2, len(dst))
	for i := range src {
		a[i] = src[i].Sub(cs)
		b[i] = dst[i].Sub(cd)
	}
	return RigidTransform{
		Center:      cs,
		Angle:       FitRotation(a, b),
		Translation: cd.Sub(cs),
	}
}
