package car

import (
	"math"

	"github.com/san-kum/mbdsim/internal/forces"
	"github.com/san-kum/mbdsim/internal/mech"
)

// steerServo tracks the wheel angle demanded by the commanded vehicle
// curvature. The wheel angle follows Ackermann geometry: each front wheel
// steers onto its own circle about the common turn center.
type steerServo struct {
	link    int
	x, y    float64 // wheel position relative to the rear axle center
	maxCurv float64
	kp, kd  float64
	control *Control
}

func (s *steerServo) target() float64 {
	_, _, steer := s.control.Get()
	vehCurv := s.maxCurv * steer
	wheelCurv := vehCurv / (1 - vehCurv*s.y)
	return math.Atan(wheelCurv * s.x)
}

func (s *steerServo) Apply(m *mech.Mechanism, in *mech.Inputs, _ float64) {
	q := m.JointPosition(s.link)[0]
	qd := m.JointVelocity(s.link)[0]
	vi, _ := m.VelocityIndex(s.link)
	in.Tau[vi] += s.kp*(s.target()-q) - s.kd*qd
}

// driveWheel feeds throttle through a torque-vs-speed map onto a spinning
// wheel, cutting to zero beyond the map's top speed.
type driveWheel struct {
	link     int
	curve    *forces.Table
	maxSpeed float64
	control  *Control
}

func (d *driveWheel) Apply(m *mech.Mechanism, in *mech.Inputs, _ float64) {
	throttle, _, _ := d.control.Get()
	qd := m.JointVelocity(d.link)[0]
	speed := math.Abs(qd)
	if speed > d.maxSpeed {
		return
	}
	vi, _ := m.VelocityIndex(d.link)
	in.Tau[vi] += throttle * d.curve.At(speed)
}

// brakeWheel opposes wheel spin with a torque that ramps in over the first
// radian per second so it cannot flip the spin direction at a step.
type brakeWheel struct {
	link      int
	maxTorque float64
	control   *Control
}

func (b *brakeWheel) Apply(m *mech.Mechanism, in *mech.Inputs, _ float64) {
	_, brake, _ := b.control.Get()
	qd := m.JointVelocity(b.link)[0]
	vi, _ := m.VelocityIndex(b.link)
	in.Tau[vi] += -brake * b.maxTorque * clamp(qd, -1, 1)
}
