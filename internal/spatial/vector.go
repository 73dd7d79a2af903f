package spatial

import (
	"github.com/golang/geo/r3"
)

// Motion is a spatial motion vector (twist): angular velocity paired with
// the linear velocity of the body-fixed point at the frame origin.
type Motion struct {
	Ang r3.Vector
	Lin r3.Vector
}

// ZeroMotion is the zero twist.
var ZeroMotion = Motion{}

// NewMotion builds a twist from angular and linear parts.
func NewMotion(ang, lin r3.Vector) Motion {
	return Motion{Ang: ang, Lin: lin}
}

func (m Motion) Add(o Motion) Motion {
	return Motion{Ang: m.Ang.Add(o.Ang), Lin: m.Lin.Add(o.Lin)}
}

func (m Motion) Sub(o Motion) Motion {
	return Motion{Ang: m.Ang.Sub(o.Ang), Lin: m.Lin.Sub(o.Lin)}
}

func (m Motion) Scale(k float64) Motion {
	return Motion{Ang: m.Ang.Mul(k), Lin: m.Lin.Mul(k)}
}

// CrossMotion is the spatial cross product m x o between two twists.
func (m Motion) CrossMotion(o Motion) Motion {
	return Motion{
		Ang: m.Ang.Cross(o.Ang),
		Lin: m.Ang.Cross(o.Lin).Add(m.Lin.Cross(o.Ang)),
	}
}

// CrossForce is the dual spatial cross product m x* f, used for the
// velocity-dependent bias force.
func (m Motion) CrossForce(f Force) Force {
	return Force{
		Ang: m.Ang.Cross(f.Ang).Add(m.Lin.Cross(f.Lin)),
		Lin: m.Ang.Cross(f.Lin),
	}
}

// Dot is the scalar pairing between a twist and a wrench (the power
// delivered by f along m).
func (m Motion) Dot(f Force) float64 {
	return m.Ang.Dot(f.Ang) + m.Lin.Dot(f.Lin)
}

// VelocityAtPoint returns the classical velocity of the body-fixed point p,
// with p expressed in the same frame as m.
func (m Motion) VelocityAtPoint(p r3.Vector) r3.Vector {
	return m.Ang.Cross(p).Add(m.Lin)
}

// Force is a spatial force vector (wrench): a moment about the frame
// origin paired with a linear force.
type Force struct {
	Ang r3.Vector
	Lin r3.Vector
}

// ZeroForce is the zero wrench.
var ZeroForce = Force{}

// NewForce builds a wrench from moment and linear parts.
func NewForce(ang, lin r3.Vector) Force {
	return Force{Ang: ang, Lin: lin}
}

// ForceAtPoint builds the wrench about the frame origin equivalent to a
// pure force f acting at point p.
func ForceAtPoint(f, p r3.Vector) Force {
	return Force{Ang: p.Cross(f), Lin: f}
}

func (f Force) Add(o Force) Force {
	return Force{Ang: f.Ang.Add(o.Ang), Lin: f.Lin.Add(o.Lin)}
}

func (f Force) Sub(o Force) Force {
	return Force{Ang: f.Ang.Sub(o.Ang), Lin: f.Lin.Sub(o.Lin)}
}

func (f Force) Scale(k float64) Force {
	return Force{Ang: f.Ang.Mul(k), Lin: f.Lin.Mul(k)}
}

// OuterSq returns the rank-one articulated inertia f * f^T that appears in
// the articulated-body inertia update.
func (f Force) OuterSq() ABInertia {
	return ABInertia{
		M:   Outer(f.Lin, f.Lin),
		C:   Outer(f.Ang, f.Lin),
		Moi: Outer(f.Ang, f.Ang),
	}
}
