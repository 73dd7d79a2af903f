package forces

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/san-kum/mbdsim/internal/joint"
	"github.com/san-kum/mbdsim/internal/mech"
	"github.com/san-kum/mbdsim/internal/spatial"
)

func slider(t *testing.T) *mech.Mechanism {
	t.Helper()
	m, err := mech.New([]mech.LinkSpec{{
		Name: "slider", Parent: mech.WorldIndex, Joint: joint.PrismaticZ(),
		Inertia: spatial.PointInertia(2.0, r3.Vector{}),
		Offset:  spatial.Identity(),
	}})
	test.That(t, err, test.ShouldBeNil)
	return m
}

func TestSpringDamper(t *testing.T) {
	m := slider(t)
	in := m.NewInputs()
	g := &SpringDamper{Link: 0, Stiffness: 100, Damping: 10, Rest: 0.2, Preload: 5}

	m.SetJointPosition(0, 0.3)
	m.SetJointVelocity(0, -0.4)
	m.UpdateKinematics()
	Apply([]Generator{g}, m, in, 0)

	// 5 - 100*(0.3-0.2) - 10*(-0.4)
	test.That(t, in.Tau[0], test.ShouldAlmostEqual, -1.0, 1e-12)
}

func TestSpringHoldsWeight(t *testing.T) {
	// preload equal to the static load leaves the slider at rest
	m := slider(t)
	in := m.NewInputs()
	g := &SpringDamper{Link: 0, Stiffness: 500, Preload: 2.0 * 9.81}

	m.UpdateKinematics()
	Apply([]Generator{g}, m, in, 0)
	test.That(t, m.ComputeAccelerations(in, r3.Vector{Z: -9.81}), test.ShouldBeNil)
	test.That(t, m.Accelerations(nil)[0], test.ShouldAlmostEqual, 0, 1e-12)
}

func TestActuatorLimit(t *testing.T) {
	m := slider(t)
	in := m.NewInputs()
	a := &Actuator{Link: 0, Limit: 10}

	a.SetCommand(25)
	m.UpdateKinematics()
	Apply([]Generator{a}, m, in, 0)
	test.That(t, in.Tau[0], test.ShouldEqual, 10.0)

	a.SetCommand(-25)
	Apply([]Generator{a}, m, in, 0)
	test.That(t, in.Tau[0], test.ShouldEqual, -10.0)

	a.SetCommand(3)
	Apply([]Generator{a}, m, in, 0)
	test.That(t, in.Tau[0], test.ShouldEqual, 3.0)
}

func TestTable(t *testing.T) {
	tab, err := NewTable([]float64{0, 10, 20}, []float64{100, 80, 20})
	test.That(t, err, test.ShouldBeNil)

	test.That(t, tab.At(-5), test.ShouldEqual, 100.0)
	test.That(t, tab.At(0), test.ShouldEqual, 100.0)
	test.That(t, tab.At(5), test.ShouldEqual, 90.0)
	test.That(t, tab.At(15), test.ShouldEqual, 50.0)
	test.That(t, tab.At(20), test.ShouldEqual, 20.0)
	test.That(t, tab.At(99), test.ShouldEqual, 20.0)

	_, err = NewTable([]float64{0, 0}, []float64{1, 2})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewTable([]float64{0}, []float64{1, 2})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewTable(nil, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTorqueMap(t *testing.T) {
	m := slider(t)
	in := m.NewInputs()
	tab, err := NewTable([]float64{0, 10}, []float64{100, 0})
	test.That(t, err, test.ShouldBeNil)
	tm := &TorqueMap{Link: 0, Curve: tab}

	m.SetJointVelocity(0, 5)
	m.UpdateKinematics()

	// zero throttle, no torque
	Apply([]Generator{tm}, m, in, 0)
	test.That(t, in.Tau[0], test.ShouldEqual, 0.0)

	tm.SetThrottle(0.5)
	Apply([]Generator{tm}, m, in, 0)
	test.That(t, in.Tau[0], test.ShouldAlmostEqual, 25.0, 1e-12)

	tm.SetThrottle(7)
	test.That(t, tm.Throttle(), test.ShouldEqual, 1.0)
}

func TestBrakeOpposesRate(t *testing.T) {
	m := slider(t)
	in := m.NewInputs()
	b := &Brake{Link: 0, MaxTorque: 50}
	b.SetCommand(1)

	m.SetJointVelocity(0, 4)
	m.UpdateKinematics()
	Apply([]Generator{b}, m, in, 0)
	test.That(t, in.Tau[0], test.ShouldEqual, -50.0)

	m.SetJointVelocity(0, -4)
	m.UpdateKinematics()
	Apply([]Generator{b}, m, in, 0)
	test.That(t, in.Tau[0], test.ShouldEqual, 50.0)

	// inside the ramp the torque scales with rate, so a stopped joint
	// is left alone
	m.SetJointVelocity(0, 0.5)
	m.UpdateKinematics()
	Apply([]Generator{b}, m, in, 0)
	test.That(t, in.Tau[0], test.ShouldEqual, -25.0)

	m.SetJointVelocity(0, 0)
	m.UpdateKinematics()
	Apply([]Generator{b}, m, in, 0)
	test.That(t, in.Tau[0], test.ShouldEqual, 0.0)
}

func TestGeneratorsAccumulate(t *testing.T) {
	m := slider(t)
	in := m.NewInputs()
	a1 := &Actuator{Link: 0}
	a2 := &Actuator{Link: 0}
	a1.SetCommand(2)
	a2.SetCommand(3)

	m.UpdateKinematics()
	Apply([]Generator{a1, a2}, m, in, 0)
	test.That(t, in.Tau[0], test.ShouldEqual, 5.0)

	// Apply resets before writing, repeated calls do not pile up
	Apply([]Generator{a1, a2}, m, in, 0)
	test.That(t, in.Tau[0], test.ShouldEqual, 5.0)
}

func TestBodyForce(t *testing.T) {
	m := slider(t)
	in := m.NewInputs()
	g := &BodyForce{Link: 0, Force: r3.Vector{Z: 2.0 * 9.81}}

	m.UpdateKinematics()
	Apply([]Generator{g}, m, in, 0)
	test.That(t, m.ComputeAccelerations(in, r3.Vector{Z: -9.81}), test.ShouldBeNil)
	test.That(t, m.Accelerations(nil)[0], test.ShouldAlmostEqual, 9.81, 1e-10)
}
