package car

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/san-kum/mbdsim/internal/config"
	"github.com/san-kum/mbdsim/internal/sim"
	"github.com/san-kum/mbdsim/internal/solver"
	"github.com/san-kum/mbdsim/internal/terrain"
)

const (
	testDt      = 0.0005
	testGravity = 9.81
)

func testCar(t *testing.T, ground *terrain.Grid) *Car {
	t.Helper()
	c, err := New(config.DefaultCar(), ground, testGravity, testDt)
	test.That(t, err, test.ShouldBeNil)
	return c
}

// drive steps the car for the given time and returns the final state.
func drive(t *testing.T, c *Car, x0 []float64, seconds float64) []float64 {
	t.Helper()
	plant := sim.NewPlant(c.Mechanism(), r3.Vector{Z: -testGravity}, c.Generators()...)
	stepper := solver.NewRK4()

	x := x0
	steps := int(seconds/testDt + 0.5)
	for i := 0; i < steps; i++ {
		next, err := stepper.Step(plant, x, float64(i)*testDt, testDt)
		test.That(t, err, test.ShouldBeNil)
		plant.Normalize(next)
		x = next
	}
	return x
}

func TestTopology(t *testing.T) {
	c := testCar(t, terrain.Flat())
	m := c.Mechanism()

	// chassis, two steer knuckles, four sliders, four wheels
	test.That(t, m.NumLinks(), test.ShouldEqual, 11)
	test.That(t, m.NQ(), test.ShouldEqual, 7+2+4+4)
	test.That(t, m.NV(), test.ShouldEqual, 6+2+4+4)
	test.That(t, m.LinkIndex("wheel_rr"), test.ShouldNotEqual, -1)
	test.That(t, m.LinkIndex("steer_fl"), test.ShouldNotEqual, -1)
	test.That(t, m.LinkIndex("steer_rl"), test.ShouldEqual, -1)
}

func TestSettlesAtRideHeight(t *testing.T) {
	c := testCar(t, terrain.Flat())

	x0 := c.InitialState(r3.Vector{X: 5, Y: 5, Z: c.RideHeight()}, 0)
	x := drive(t, c, x0, 2.0)

	// tires sag under the static load, suspension preload carries the rest
	height := x[6]
	test.That(t, height, test.ShouldAlmostEqual, c.RideHeight()-0.005, 0.02)

	// still level and nearly at rest
	test.That(t, x[0], test.ShouldAlmostEqual, 1, 1e-3)
	test.That(t, math.Abs(c.Speed(x)), test.ShouldBeLessThan, 0.05)
}

func TestThrottleAccelerates(t *testing.T) {
	c := testCar(t, terrain.Flat())
	c.Control().Set(1, 0, 0)

	x0 := c.InitialState(r3.Vector{X: 5, Y: 5, Z: c.RideHeight()}, 0)
	x := drive(t, c, x0, 1.5)

	test.That(t, c.Speed(x), test.ShouldBeGreaterThan, 1.0)
	test.That(t, x[4], test.ShouldBeGreaterThan, 5.5) // moved forward in x
}

func TestBrakeStops(t *testing.T) {
	c := testCar(t, terrain.Flat())
	c.Control().Set(0, 1, 0)

	x0 := c.InitialState(r3.Vector{X: 5, Y: 5, Z: c.RideHeight()}, 5)
	x := drive(t, c, x0, 1.5)

	test.That(t, c.Speed(x), test.ShouldBeLessThan, 2.0)
	test.That(t, c.Speed(x), test.ShouldBeGreaterThan, -0.5)
}

func TestSteeringTurns(t *testing.T) {
	c := testCar(t, terrain.Flat())
	c.Control().Set(0.3, 0, 0.5)

	x0 := c.InitialState(r3.Vector{X: 5, Y: 5, Z: c.RideHeight()}, 5)
	x := drive(t, c, x0, 2.0)

	// positive steering curves the path toward +y
	test.That(t, x[5], test.ShouldBeGreaterThan, 5.5)
}

func TestSteeringTarget(t *testing.T) {
	ctl := &Control{}
	s := &steerServo{x: 2.5, y: 0.75, maxCurv: 0.2, control: ctl}

	ctl.Set(0, 0, 1)
	vehCurv := 0.2
	wheelCurv := vehCurv / (1 - vehCurv*s.y)
	test.That(t, s.target(), test.ShouldAlmostEqual, math.Atan(wheelCurv*2.5), 1e-12)

	ctl.Set(0, 0, 0)
	test.That(t, s.target(), test.ShouldEqual, 0.0)
}

func TestControlClamps(t *testing.T) {
	ctl := &Control{}
	ctl.Set(2, -1, -3)
	throttle, brake, steering := ctl.Get()
	test.That(t, throttle, test.ShouldEqual, 1.0)
	test.That(t, brake, test.ShouldEqual, 0.0)
	test.That(t, steering, test.ShouldEqual, -1.0)
}
