package spatial

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Inertia is the rigid-body inertia of a single link: mass, center of mass
// offset from the link frame origin, and rotational inertia about the
// center of mass. It is symmetric positive-semidefinite by construction
// for any physical link.
type Inertia struct {
	Mass float64
	CoM  r3.Vector
	Moi  mgl64.Mat3
}

// NewInertia builds a link inertia. Moi is taken about the center of mass.
func NewInertia(mass float64, com r3.Vector, moi mgl64.Mat3) Inertia {
	return Inertia{Mass: mass, CoM: com, Moi: moi}
}

// BoxInertia returns the inertia of a uniform rectangular solid with the
// given exterior dimensions, centered at com.
func BoxInertia(mass float64, com, dims r3.Vector) Inertia {
	k := mass / 12.0
	return NewInertia(mass, com, mgl64.Diag3(mgl64.Vec3{
		k * (dims.Y*dims.Y + dims.Z*dims.Z),
		k * (dims.X*dims.X + dims.Z*dims.Z),
		k * (dims.X*dims.X + dims.Y*dims.Y),
	}))
}

// PointInertia returns the inertia of a point mass at p.
func PointInertia(mass float64, p r3.Vector) Inertia {
	return NewInertia(mass, p, mgl64.Mat3{})
}

// Spatial expands the compact inertia into its dense articulated-body
// form, referred to the link frame origin (parallel-axis shift included).
func (i Inertia) Spatial() ABInertia {
	cx := Skew(i.CoM)
	return ABInertia{
		M:   mgl64.Ident3().Mul(i.Mass),
		C:   cx.Mul(i.Mass),
		Moi: i.Moi.Sub(cx.Mul3(cx).Mul(i.Mass)),
	}
}

// ABInertia is an articulated-body inertia: the 6x6 symmetric inertia of a
// link plus the reduced inertia of its outboard subtree, stored as three
// 3x3 blocks ([[Moi, C], [C^T, M]]) referred to the frame origin.
type ABInertia struct {
	M   mgl64.Mat3
	C   mgl64.Mat3
	Moi mgl64.Mat3
}

func (ia ABInertia) Add(o ABInertia) ABInertia {
	return ABInertia{M: ia.M.Add(o.M), C: ia.C.Add(o.C), Moi: ia.Moi.Add(o.Moi)}
}

func (ia ABInertia) Sub(o ABInertia) ABInertia {
	return ABInertia{M: ia.M.Sub(o.M), C: ia.C.Sub(o.C), Moi: ia.Moi.Sub(o.Moi)}
}

func (ia ABInertia) Scale(k float64) ABInertia {
	return ABInertia{M: ia.M.Mul(k), C: ia.C.Mul(k), Moi: ia.Moi.Mul(k)}
}

// Mul applies the inertia to a twist, producing the momentum wrench
// (or, applied to an acceleration, the required wrench).
func (ia ABInertia) Mul(m Motion) Force {
	return Force{
		Lin: MulVec(ia.M, m.Lin).Add(MulVec(ia.C.Transpose(), m.Ang)),
		Ang: MulVec(ia.Moi, m.Ang).Add(MulVec(ia.C, m.Lin)),
	}
}

// Mat returns the inertia as a dense 6x6 in [ang, lin] block order,
// row-major. Used for the floating-base solve.
func (ia ABInertia) Mat() []float64 {
	out := make([]float64, 36)
	ct := ia.C.Transpose()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*6+c] = ia.Moi.At(r, c)
			out[r*6+c+3] = ia.C.At(r, c)
			out[(r+3)*6+c] = ct.At(r, c)
			out[(r+3)*6+c+3] = ia.M.At(r, c)
		}
	}
	return out
}
