package geom

import "github.com/go-gl/mathgl/mgl32"

// QuatToMat3 extracts the 3x3 rotation part of a quaternion.
func QuatToMat3(q mgl32.Quat) mgl32.Mat3 {
	m4 := q.Mat4()
	return mgl32.Mat3{
		m4[0], m4[1], m4[2],
		m4[4], m4[5], m4[6],
		m4[8], m4[9], m4[10],
	}
}

// Diag3x3 is a diagonal 3x3 matrix, used for per-axis entity Scale.
type Diag3x3 struct {
	X, Y, Z float32
}

func NewDiag3x3(v mgl32.Vec3) Diag3x3 {
	return Diag3x3{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// Inverse returns the component-wise reciprocal diagonal matrix.
// Zero entries are treated as 1 to avoid a singular scale.
func (d Diag3x3) Inverse() Diag3x3 {
	inv := func(v float32) float32 {
		if v == 0 {
			return 1
		}
		return 1 / v
	}
	return Diag3x3{X: inv(d.X), Y: inv(d.Y), Z: inv(d.Z)}
}

// MulVec3 applies the diagonal scale to a vector.
func (d Diag3x3) MulVec3(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X() * d.X, v.Y() * d.Y, v.Z() * d.Z}
}

func (d Diag3x3) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{d.X, d.Y, d.Z}
}
