package tire

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/san-kum/mbdsim/internal/joint"
	"github.com/san-kum/mbdsim/internal/mech"
	"github.com/san-kum/mbdsim/internal/spatial"
	"github.com/san-kum/mbdsim/internal/terrain"
)

func testParams() Params {
	return Params{
		Stiffness:        [2]float64{500000, 0},
		Damping:          0,
		Friction:         0.8,
		SlipStiffness:    20,
		RollingRadius:    0.315,
		LowSpeed:         1.0,
		ActivationLength: 0.005,
		Radius:           0.325,
		Width:            0.2,
		PointsWidth:      3,
		PointsRadius:     20,
	}
}

func freeWheel(t *testing.T) *mech.Mechanism {
	t.Helper()
	m, err := mech.New([]mech.LinkSpec{{
		Name:    "wheel",
		Parent:  mech.WorldIndex,
		Joint:   joint.NewFreeBase(),
		Inertia: spatial.BoxInertia(20, r3.Vector{}, r3.Vector{X: 0.3, Y: 0.2, Z: 0.3}),
	}})
	test.That(t, err, test.ShouldBeNil)
	return m
}

func TestPointLattice(t *testing.T) {
	p := testParams()
	tr := NewPoint(0, 0, terrain.Flat(), p, 0.001)

	pts := tr.Points()
	test.That(t, len(pts), test.ShouldEqual, p.PointsWidth*p.PointsRadius)
	for _, pt := range pts {
		r := math.Hypot(pt.X, pt.Z)
		test.That(t, r, test.ShouldAlmostEqual, p.Radius, 1e-12)
		test.That(t, math.Abs(pt.Y), test.ShouldBeLessThanOrEqualTo, p.Width/2+1e-12)
	}
}

func TestNormalForceAtRest(t *testing.T) {
	m := freeWheel(t)
	p := testParams()
	depth := 0.01

	// axle at radius minus depth: the lowest ring penetrates the ground
	m.SetJointPosition(0, 1, 0, 0, 0, 5, 5, p.Radius-depth)
	m.UpdateKinematics()

	in := m.NewInputs()
	tr := NewPoint(0, 0, terrain.Flat(), p, 0.001)
	tr.Apply(m, in, 0)

	f := in.External[0]
	test.That(t, f.Lin.Z, test.ShouldBeGreaterThan, 0.0)
	test.That(t, math.Abs(f.Lin.X), test.ShouldBeLessThan, 1e-6)
	test.That(t, math.Abs(f.Lin.Y), test.ShouldBeLessThan, 1e-6)

	// activation-weighted load never exceeds the full spring force at
	// the deepest point
	test.That(t, f.Lin.Z, test.ShouldBeLessThan, p.Stiffness[0]*depth+1)
}

func TestNoContactNoForce(t *testing.T) {
	m := freeWheel(t)
	p := testParams()

	m.SetJointPosition(0, 1, 0, 0, 0, 5, 5, p.Radius+0.05)
	m.UpdateKinematics()

	in := m.NewInputs()
	tr := NewPoint(0, 0, terrain.Flat(), p, 0.001)
	tr.Apply(m, in, 0)

	test.That(t, in.External[0].Lin.Norm(), test.ShouldEqual, 0.0)
	test.That(t, in.External[0].Ang.Norm(), test.ShouldEqual, 0.0)
}

func TestDriveSlipPushesForward(t *testing.T) {
	m := freeWheel(t)
	p := testParams()

	m.SetJointPosition(0, 1, 0, 0, 0, 5, 5, p.Radius-0.01)
	// spinning about +y with no translation: the contact patch slides
	// backward, friction drives the wheel forward
	m.SetJointVelocity(0, 0, 10, 0, 0, 0, 0)
	m.UpdateKinematics()

	in := m.NewInputs()
	tr := NewPoint(0, 0, terrain.Flat(), p, 0.001)
	tr.Apply(m, in, 0)

	test.That(t, in.External[0].Lin.X, test.ShouldBeGreaterThan, 0.0)
	test.That(t, in.External[0].Lin.Z, test.ShouldBeGreaterThan, 0.0)
}

func TestLateralSlipResists(t *testing.T) {
	m := freeWheel(t)
	p := testParams()

	m.SetJointPosition(0, 1, 0, 0, 0, 5, 5, p.Radius-0.01)
	// sliding sideways: friction opposes the slide
	m.SetJointVelocity(0, 0, 0, 0, 0, 2, 0)
	m.UpdateKinematics()

	in := m.NewInputs()
	tr := NewPoint(0, 0, terrain.Flat(), p, 0.001)
	tr.Apply(m, in, 0)

	test.That(t, in.External[0].Lin.Y, test.ShouldBeLessThan, 0.0)
}

func TestFrictionSaturates(t *testing.T) {
	m := freeWheel(t)
	p := testParams()

	m.SetJointPosition(0, 1, 0, 0, 0, 5, 5, p.Radius-0.01)
	m.SetJointVelocity(0, 0, 200, 0, 0, 0, 0)
	m.UpdateKinematics()

	in := m.NewInputs()
	tr := NewPoint(0, 0, terrain.Flat(), p, 0.001)
	tr.Apply(m, in, 0)

	f := in.External[0]
	test.That(t, f.Lin.X, test.ShouldBeLessThanOrEqualTo, p.Friction*f.Lin.Z*1.001)
}

func TestSpinMomentFilterConverges(t *testing.T) {
	m := freeWheel(t)
	p := testParams()
	p.FilterTime = 0.005
	dt := 0.001

	m.SetJointPosition(0, 1, 0, 0, 0, 5, 5, p.Radius-0.01)
	m.SetJointVelocity(0, 0, 10, 0, 0, 0, 0)
	m.UpdateKinematics()

	tr := NewPoint(0, 0, terrain.Flat(), p, dt)

	in := m.NewInputs()
	tr.Apply(m, in, 0)
	first := in.External[0].Ang.Y

	var last float64
	for i := 0; i < 100; i++ {
		in.Reset()
		tr.Apply(m, in, 0)
		last = in.External[0].Ang.Y
	}

	// the filter starts from zero and converges to the steady moment
	unfiltered := NewPoint(0, 0, terrain.Flat(), testParams(), dt)
	in.Reset()
	unfiltered.Apply(m, in, 0)
	steady := in.External[0].Ang.Y

	test.That(t, math.Abs(first), test.ShouldBeLessThan, math.Abs(steady))
	test.That(t, last, test.ShouldAlmostEqual, steady, math.Abs(steady)*1e-3+1e-9)
}
