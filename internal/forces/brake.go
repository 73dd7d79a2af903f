package forces

import "github.com/san-kum/mbdsim/internal/mech"

// Brake opposes the rate of a 1-DOF joint with up to MaxTorque, scaled by a
// command in [0, 1]. The torque ramps linearly through zero rate over
// +-1 rad/s so a stopped wheel is not driven backwards.
type Brake struct {
	Link      int
	MaxTorque float64
	command   float64
}

// SetCommand clamps the brake command to [0, 1].
func (b *Brake) SetCommand(u float64) {
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	b.command = u
}

func (b *Brake) Command() float64 { return b.command }

func (b *Brake) Apply(m *mech.Mechanism, in *mech.Inputs, t float64) {
	qd := m.JointVelocity(b.Link)[0]
	ramp := qd
	if ramp > 1 {
		ramp = 1
	} else if ramp < -1 {
		ramp = -1
	}
	vi, _ := m.VelocityIndex(b.Link)
	in.Tau[vi] += -b.command * b.MaxTorque * ramp
}
