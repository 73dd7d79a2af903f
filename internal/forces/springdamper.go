package forces

import "github.com/san-kum/mbdsim/internal/mech"

// SpringDamper applies a joint-space spring and damper to a 1-DOF joint.
// Preload shifts the force curve without moving the rest position, the way a
// suspension spring carries static weight.
type SpringDamper struct {
	Link      int
	Stiffness float64
	Damping   float64
	Rest      float64
	Preload   float64
}

func (s *SpringDamper) Apply(m *mech.Mechanism, in *mech.Inputs, t float64) {
	q := m.JointPosition(s.Link)[0]
	qd := m.JointVelocity(s.Link)[0]
	vi, _ := m.VelocityIndex(s.Link)
	in.Tau[vi] += s.Preload - s.Stiffness*(q-s.Rest) - s.Damping*qd
}
