package mech

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/mbdsim/internal/joint"
	"github.com/san-kum/mbdsim/internal/spatial"
)

// Inputs carries the applied forces for one dynamics evaluation. Force
// generators rebuild it every evaluation; nothing in it survives a step.
type Inputs struct {
	// Tau holds joint-space generalized forces, indexed like the velocity
	// segment of the state vector.
	Tau []float64
	// External holds one wrench per link, expressed in world coordinates
	// about the world origin. Applied unconditionally, no plausibility
	// checks.
	External []spatial.Force
}

// NewInputs allocates an input set sized for the mechanism.
func (m *Mechanism) NewInputs() *Inputs {
	return &Inputs{
		Tau:      make([]float64, m.nv),
		External: make([]spatial.Force, len(m.links)),
	}
}

// Reset zeroes all applied forces.
func (in *Inputs) Reset() {
	for i := range in.Tau {
		in.Tau[i] = 0
	}
	for i := range in.External {
		in.External[i] = spatial.ZeroForce
	}
}

// AddWrench accumulates a world-frame wrench on link i.
func (in *Inputs) AddWrench(i int, f spatial.Force) {
	in.External[i] = in.External[i].Add(f)
}

// UpdateKinematics runs the outward pass: link transforms, spatial
// velocities, velocity-product accelerations and bias forces for the
// current joint state. Force generators may read link transforms and
// velocities after this and before ComputeAccelerations.
func (m *Mechanism) UpdateKinematics() {
	for _, i := range m.order {
		ln := &m.links[i]
		q := m.q[ln.qi : ln.qi+ln.nq]
		qd := m.qd[ln.vi : ln.vi+ln.nv]

		xj := ln.joint.Transform(q)
		ln.xl = xj.Mul(ln.xt)

		vj := spatial.ZeroMotion
		for k, s := range ln.s {
			vj = vj.Add(s.Scale(qd[k]))
		}

		if ln.parent == WorldIndex {
			ln.x = ln.xl
			ln.v = vj
		} else {
			p := &m.links[ln.parent]
			ln.x = ln.xl.Mul(p.x)
			ln.v = ln.xl.ApplyMotion(p.v).Add(vj)
		}
		ln.c = ln.v.CrossMotion(vj)
		ln.iab = ln.inertia.Spatial()
		ln.pa = ln.v.CrossForce(ln.iab.Mul(ln.v))
	}
}

// ComputeAccelerations runs the inward articulated-inertia pass and the
// outward acceleration pass for the given applied forces, leaving the
// joint accelerations readable through Accelerations / Derivative.
// Gravity enters as the equivalent upward base acceleration. NaN or Inf
// in the result is reported as ErrDynamicsDiverged; state is not touched.
func (m *Mechanism) ComputeAccelerations(in *Inputs, gravity r3.Vector) error {
	// external wrenches, world frame -> link frame
	for i := range m.links {
		ln := &m.links[i]
		if f := in.External[i]; f != (spatial.Force{}) {
			ln.pa = ln.pa.Sub(ln.x.ApplyForce(f))
		}
	}

	// inward: articulated inertias and bias forces, leaves to root
	for oi := len(m.order) - 1; oi >= 0; oi-- {
		i := m.order[oi]
		ln := &m.links[i]

		switch ln.joint.Kind() {
		case joint.Revolute, joint.Prismatic:
			s := ln.s[0]
			ln.bu[0] = ln.iab.Mul(s)
			ln.bd = s.Dot(ln.bu[0])
			ln.uu = in.Tau[ln.vi] - s.Dot(ln.pa)

			if ln.parent != WorldIndex {
				inv := 1 / ln.bd
				ia := ln.iab.Sub(ln.bu[0].OuterSq().Scale(inv))
				pa := ln.pa.Add(ia.Mul(ln.c)).Add(ln.bu[0].Scale(inv * ln.uu))
				xli := ln.xl.Inverse()
				p := &m.links[ln.parent]
				p.iab = p.iab.Add(xli.ApplyInertia(ia))
				p.pa = p.pa.Add(xli.ApplyForce(pa))
			}

		case joint.Fixed:
			if ln.parent != WorldIndex {
				pa := ln.pa.Add(ln.iab.Mul(ln.c))
				xli := ln.xl.Inverse()
				p := &m.links[ln.parent]
				p.iab = p.iab.Add(xli.ApplyInertia(ln.iab))
				p.pa = p.pa.Add(xli.ApplyForce(pa))
			}

		case joint.FreeBase:
			// root by construction; resolved in the outward pass
		}
	}

	// outward: joint accelerations, root to leaves
	base := spatial.NewMotion(r3.Vector{}, gravity.Mul(-1))
	for _, i := range m.order {
		ln := &m.links[i]

		var ap spatial.Motion
		if ln.parent == WorldIndex {
			ap = ln.xl.ApplyMotion(base).Add(ln.c)
		} else {
			ap = ln.xl.ApplyMotion(m.links[ln.parent].a).Add(ln.c)
		}

		switch ln.joint.Kind() {
		case joint.Revolute, joint.Prismatic:
			qdd := (ln.uu - ap.Dot(ln.bu[0])) / ln.bd
			m.qdd[ln.vi] = qdd
			ln.a = ap.Add(ln.s[0].Scale(qdd))

		case joint.Fixed:
			ln.a = ap

		case joint.FreeBase:
			if err := m.solveFreeBase(ln, in, ap); err != nil {
				return err
			}
		}
	}

	for _, a := range m.qdd {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return errors.WithStack(ErrDynamicsDiverged)
		}
	}
	return nil
}

// solveFreeBase resolves the unconstrained 6-DOF root: the motion
// subspace is the identity, so the joint acceleration comes from a dense
// 6x6 solve against the root's articulated inertia.
func (m *Mechanism) solveFreeBase(ln *link, in *Inputs, ap spatial.Motion) error {
	ia := mat.NewDense(6, 6, ln.iab.Mat())
	bias := ln.pa.Add(ln.iab.Mul(ap))

	b := mat.NewVecDense(6, []float64{
		in.Tau[ln.vi+0] - bias.Ang.X,
		in.Tau[ln.vi+1] - bias.Ang.Y,
		in.Tau[ln.vi+2] - bias.Ang.Z,
		in.Tau[ln.vi+3] - bias.Lin.X,
		in.Tau[ln.vi+4] - bias.Lin.Y,
		in.Tau[ln.vi+5] - bias.Lin.Z,
	})

	var x mat.VecDense
	if err := x.SolveVec(ia, b); err != nil {
		return errors.Wrap(ErrDynamicsDiverged, "singular articulated inertia at free base")
	}
	for k := 0; k < 6; k++ {
		m.qdd[ln.vi+k] = x.AtVec(k)
	}
	qddTwist := spatial.NewMotion(
		r3.Vector{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)},
		r3.Vector{X: x.AtVec(3), Y: x.AtVec(4), Z: x.AtVec(5)},
	)
	ln.a = ap.Add(qddTwist)
	return nil
}

// ForwardDynamics is the single-call form: kinematics, force application
// and both remaining passes for the current state.
func (m *Mechanism) ForwardDynamics(in *Inputs, gravity r3.Vector) error {
	m.UpdateKinematics()
	return m.ComputeAccelerations(in, gravity)
}

// Energy returns the mechanical energy (kinetic + potential) of the
// mechanism for the current state; requires a prior kinematics update.
// Potential is measured against the world origin plane normal to gravity.
func (m *Mechanism) Energy(gravity r3.Vector) float64 {
	e := 0.0
	for i := range m.links {
		ln := &m.links[i]
		e += 0.5 * ln.v.Dot(ln.inertia.Spatial().Mul(ln.v))
		e -= ln.inertia.Mass * gravity.Dot(m.WorldCoM(i))
	}
	return e
}
