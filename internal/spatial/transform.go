package spatial

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Transform is a Plücker coordinate transform between two frames. Pos is
// the child origin expressed in the parent frame; Rot is the coordinate
// rotation E carrying parent-frame vectors into the child frame.
type Transform struct {
	Rot mgl64.Mat3
	Pos r3.Vector
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Rot: mgl64.Ident3()}
}

// NewTransform builds a transform from a rotation E and a translation.
func NewTransform(rot mgl64.Mat3, pos r3.Vector) Transform {
	return Transform{Rot: rot, Pos: pos}
}

// Translation returns a pure translation transform.
func Translation(pos r3.Vector) Transform {
	return Transform{Rot: mgl64.Ident3(), Pos: pos}
}

// Rotation returns a pure rotation transform.
func Rotation(rot mgl64.Mat3) Transform {
	return Transform{Rot: rot}
}

// Mul composes two transforms; the result applies o first, then t.
// Used as xTotal = xJoint.Mul(xTree) and x = xLink.Mul(xParent).
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		Rot: t.Rot.Mul3(o.Rot),
		Pos: o.Pos.Add(MulVec(o.Rot.Transpose(), t.Pos)),
	}
}

// Inverse returns the transform in the opposite direction.
func (t Transform) Inverse() Transform {
	return Transform{
		Rot: t.Rot.Transpose(),
		Pos: MulVec(t.Rot, t.Pos).Mul(-1),
	}
}

// TransformPoint carries a point from the parent frame into the child frame.
func (t Transform) TransformPoint(p r3.Vector) r3.Vector {
	return MulVec(t.Rot, p.Sub(t.Pos))
}

// Rotate applies only the rotation part to a free vector.
func (t Transform) Rotate(v r3.Vector) r3.Vector {
	return MulVec(t.Rot, v)
}

// ApplyMotion carries a twist from the parent frame into the child frame.
func (t Transform) ApplyMotion(m Motion) Motion {
	return Motion{
		Ang: MulVec(t.Rot, m.Ang),
		Lin: MulVec(t.Rot, m.Lin.Sub(t.Pos.Cross(m.Ang))),
	}
}

// ApplyForce carries a wrench from the parent frame into the child frame.
func (t Transform) ApplyForce(f Force) Force {
	return Force{
		Ang: MulVec(t.Rot, f.Ang.Sub(t.Pos.Cross(f.Lin))),
		Lin: MulVec(t.Rot, f.Lin),
	}
}

// ApplyInertia carries an articulated-body inertia across the transform.
// It is used with the inverse link transform to reduce a child's
// articulated inertia onto its parent.
func (t Transform) ApplyInertia(ia ABInertia) ABInertia {
	r := t.Rot
	rt := r.Transpose()
	px := Skew(t.Pos)

	cShift := ia.C.Sub(px.Mul3(ia.M))
	return ABInertia{
		M: r.Mul3(ia.M).Mul3(rt),
		C: r.Mul3(cShift).Mul3(rt),
		Moi: r.Mul3(
			ia.Moi.Sub(px.Mul3(ia.C.Transpose())).Add(cShift.Mul3(px)),
		).Mul3(rt),
	}
}
