package geom

import "math"

// Mat2 is a row-major 2×2 matrix
//
//	| A B |
//	| C D |
type Mat2 struct {
	A, B, C, D float64
}

// Rotation returns the matrix rotating by th radians.
func Rotation(th float64) Mat2 {
	sin, cos := math.Sincos(th)
	return Mat2{cos, -sin, sin, cos}
}

func (m Mat2) MulVec(v Vec2) Vec2 {
	return Vec2{
		X: m.A*v.X + m.B*v.Y,
		Y: m.C*v.X + m.D*v.Y,
	}
}

// FitRotation returns the angle of the rotation R minimizing
// Σ |R·src[i] − dst[i]|². Both sets are expected to be centered. It is the
// two-dimensional orthogonal Procrustes problem.
func FitRotation(src, dst []Vec2) float64 {
	var dot, cross float64
	for i := range src {
		dot += src[i].Dot(dst[i])
		cross += src[i].Cross(dst[i])
	}
	return math.Atan2(cross, dot)
}

// WrapAngle maps th into (−π, π].
func WrapAngle(th float64) float64 {
	th = math.Mod(th+math.Pi, 2*math.Pi)
	if th <= 0 {
		th += 2 * math.Pi
	}
	return th - math.Pi
}
