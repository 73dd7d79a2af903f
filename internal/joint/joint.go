// Package joint models the joints connecting the links of an articulated
// mechanism. A joint is a tagged variant over {Revolute, Prismatic, Fixed,
// FreeBase} exposing its motion subspace, its position-dependent frame
// transform and the mapping from velocity state to position-state rate.
//
// Joint state itself lives in the owning mechanism's flat state vector;
// the Joint value only describes geometry, so it can be shared and copied
// freely.
package joint

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"github.com/san-kum/mbdsim/internal/spatial"
)

// ErrInvalidAxis is returned when constructing a revolute or prismatic
// joint with a zero or non-unit axis.
var ErrInvalidAxis = errors.New("joint: axis must be a unit vector")

const axisTol = 1e-9

// Kind tags the joint variant.
type Kind int

const (
	// Revolute is a single rotational degree of freedom about an axis.
	Revolute Kind = iota + 1
	// Prismatic is a single translational degree of freedom along an axis.
	Prismatic
	// Fixed is a rigid weld contributing no degrees of freedom.
	Fixed
	// FreeBase is the unconstrained 6-DOF joint used at the root of a
	// floating mechanism. Position state is a unit quaternion plus a
	// world translation; velocity state is a body-frame twist.
	FreeBase
)

func (k Kind) String() string {
	switch k {
	case Revolute:
		return "revolute"
	case Prismatic:
		return "prismatic"
	case Fixed:
		return "fixed"
	case FreeBase:
		return "free"
	}
	return "invalid"
}

// Joint describes one joint's geometry. The zero value is not valid; use
// the constructors.
type Joint struct {
	kind Kind
	axis r3.Vector
}

// NewRevolute returns a revolute joint about the given unit axis.
func NewRevolute(axis r3.Vector) (Joint, error) {
	if math.Abs(axis.Norm()-1) > axisTol {
		return Joint{}, errors.Wrapf(ErrInvalidAxis, "revolute axis %v", axis)
	}
	return Joint{kind: Revolute, axis: axis}, nil
}

// NewPrismatic returns a prismatic joint along the given unit axis.
func NewPrismatic(axis r3.Vector) (Joint, error) {
	if math.Abs(axis.Norm()-1) > axisTol {
		return Joint{}, errors.Wrapf(ErrInvalidAxis, "prismatic axis %v", axis)
	}
	return Joint{kind: Prismatic, axis: axis}, nil
}

// Convenience constructors for the coordinate axes, mirroring the common
// Rx/Ry/Rz/Px/Py/Pz mechanism descriptions.
func RevoluteX() Joint { return Joint{kind: Revolute, axis: r3.Vector{X: 1}} }
func RevoluteY() Joint { return Joint{kind: Revolute, axis: r3.Vector{Y: 1}} }
func RevoluteZ() Joint { return Joint{kind: Revolute, axis: r3.Vector{Z: 1}} }
func PrismaticX() Joint { return Joint{kind: Prismatic, axis: r3.Vector{X: 1}} }
func PrismaticY() Joint { return Joint{kind: Prismatic, axis: r3.Vector{Y: 1}} }
func PrismaticZ() Joint { return Joint{kind: Prismatic, axis: r3.Vector{Z: 1}} }

// NewFixed returns a rigid weld.
func NewFixed() Joint { return Joint{kind: Fixed} }

// NewFreeBase returns the 6-DOF floating-base joint.
func NewFreeBase() Joint { return Joint{kind: FreeBase} }

// Kind reports the joint variant.
func (j Joint) Kind() Kind { return j.kind }

// Axis reports the joint axis (revolute/prismatic only).
func (j Joint) Axis() r3.Vector { return j.axis }

// DOF returns the position-state and velocity-state dimensions. They
// differ only for the free base (quaternion: 7 position, 6 velocity).
func (j Joint) DOF() (nq, nv int) {
	switch j.kind {
	case Revolute, Prismatic:
		return 1, 1
	case FreeBase:
		return 7, 6
	}
	return 0, 0
}

// Subspace appends the motion subspace columns (one twist per velocity
// DOF, in the joint's local frame) to dst and returns the result.
func (j Joint) Subspace(dst []spatial.Motion) []spatial.Motion {
	switch j.kind {
	case Revolute:
		return append(dst, spatial.NewMotion(j.axis, r3.Vector{}))
	case Prismatic:
		return append(dst, spatial.NewMotion(r3.Vector{}, j.axis))
	case FreeBase:
		return append(dst,
			spatial.NewMotion(r3.Vector{X: 1}, r3.Vector{}),
			spatial.NewMotion(r3.Vector{Y: 1}, r3.Vector{}),
			spatial.NewMotion(r3.Vector{Z: 1}, r3.Vector{}),
			spatial.NewMotion(r3.Vector{}, r3.Vector{X: 1}),
			spatial.NewMotion(r3.Vector{}, r3.Vector{Y: 1}),
			spatial.NewMotion(r3.Vector{}, r3.Vector{Z: 1}),
		)
	}
	return dst
}

// Transform returns the joint frame transform for position state q. It is
// continuous in q and, for revolute joints, periodic in the angle.
func (j Joint) Transform(q []float64) spatial.Transform {
	switch j.kind {
	case Revolute:
		return spatial.Rotation(spatial.RotAxis(j.axis, q[0]))
	case Prismatic:
		return spatial.Translation(j.axis.Mul(q[0]))
	case FreeBase:
		return spatial.NewTransform(
			spatial.RotFromQuat(quat.Number{Real: q[0], Imag: q[1], Jmag: q[2], Kmag: q[3]}),
			r3.Vector{X: q[4], Y: q[5], Z: q[6]},
		)
	}
	return spatial.Identity()
}

// PositionDerivative writes dq/dt into dst given position state q and
// velocity state qd. For 1-DOF joints this is qd itself; for the free
// base it is the quaternion rate induced by the body-frame angular
// velocity plus the world-frame translation rate.
func (j Joint) PositionDerivative(dst, q, qd []float64) {
	switch j.kind {
	case Revolute, Prismatic:
		dst[0] = qd[0]
	case FreeBase:
		qn := quat.Number{Real: q[0], Imag: q[1], Jmag: q[2], Kmag: q[3]}
		w := quat.Number{Imag: qd[0], Jmag: qd[1], Kmag: qd[2]}
		dq := quat.Scale(0.5, quat.Mul(qn, w))
		dst[0], dst[1], dst[2], dst[3] = dq.Real, dq.Imag, dq.Jmag, dq.Kmag

		// body-frame linear velocity back to world coordinates
		e := spatial.RotFromQuat(qn)
		v := spatial.MulVec(e.Transpose(), r3.Vector{X: qd[3], Y: qd[4], Z: qd[5]})
		dst[4], dst[5], dst[6] = v.X, v.Y, v.Z
	}
}

// Normalize restores the unit-quaternion invariant after an integration
// step. Other joint kinds keep unbounded coordinates and need no fixup.
func (j Joint) Normalize(q []float64) {
	if j.kind != FreeBase {
		return
	}
	n := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if n == 0 {
		q[0] = 1
		return
	}
	for i := 0; i < 4; i++ {
		q[i] /= n
	}
}

// Neutral writes the identity pose into q.
func (j Joint) Neutral(q []float64) {
	for i := range q {
		q[i] = 0
	}
	if j.kind == FreeBase {
		q[0] = 1
	}
}
