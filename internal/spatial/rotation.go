package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// v3 converts an r3 vector to the mgl64 form used for matrix products.
func v3(v r3.Vector) mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

// rv converts back from mgl64 to r3.
func rv(v mgl64.Vec3) r3.Vector { return r3.Vector{X: v.X(), Y: v.Y(), Z: v.Z()} }

// MulVec applies a 3x3 matrix to an r3 vector.
func MulVec(m mgl64.Mat3, v r3.Vector) r3.Vector { return rv(m.Mul3x1(v3(v))) }

// Skew returns the cross-product matrix of v, so Skew(v).Mul3x1(w) == v x w.
func Skew(v r3.Vector) mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3{0, -v.Z, v.Y},
		mgl64.Vec3{v.Z, 0, -v.X},
		mgl64.Vec3{-v.Y, v.X, 0},
	)
}

// Outer returns the outer product a * b^T.
func Outer(a, b r3.Vector) mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3{a.X * b.X, a.X * b.Y, a.X * b.Z},
		mgl64.Vec3{a.Y * b.X, a.Y * b.Y, a.Y * b.Z},
		mgl64.Vec3{a.Z * b.X, a.Z * b.Y, a.Z * b.Z},
	)
}

// RotX returns the coordinate rotation E about the x axis: vectors
// expressed in the parent frame are carried into a frame rotated by
// angle about x. Note E is the transpose of the usual rotation matrix.
func RotX(angle float64) mgl64.Mat3 {
	return mgl64.Rotate3DX(angle).Transpose()
}

// RotY returns the coordinate rotation E about the y axis.
func RotY(angle float64) mgl64.Mat3 {
	return mgl64.Rotate3DY(angle).Transpose()
}

// RotZ returns the coordinate rotation E about the z axis.
func RotZ(angle float64) mgl64.Mat3 {
	return mgl64.Rotate3DZ(angle).Transpose()
}

// RotAxis returns the coordinate rotation E about an arbitrary unit axis,
// via the (transposed) Rodrigues formula E = I - sin(t)K + (1-cos(t))K^2.
func RotAxis(axis r3.Vector, angle float64) mgl64.Mat3 {
	s, c := math.Sincos(angle)
	k := Skew(axis)
	k2 := k.Mul3(k)
	e := mgl64.Ident3()
	e = e.Sub(k.Mul(s))
	e = e.Add(k2.Mul(1 - c))
	return e
}

// RotFromQuat returns the coordinate rotation E for a unit quaternion q,
// where q rotates body-frame vectors into the parent frame. E is the
// transpose of that rotation.
func RotFromQuat(q quat.Number) mgl64.Mat3 {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	// body-to-parent rotation matrix R(q), transposed on assembly
	return mgl64.Mat3FromRows(
		mgl64.Vec3{1 - 2*(y*y+z*z), 2 * (x*y + w*z), 2 * (x*z - w*y)},
		mgl64.Vec3{2 * (x*y - w*z), 1 - 2*(x*x+z*z), 2 * (y*z + w*x)},
		mgl64.Vec3{2 * (x*z + w*y), 2 * (y*z - w*x), 1 - 2*(x*x+y*y)},
	)
}
