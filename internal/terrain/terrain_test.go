package terrain

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestGridFallbackPlane(t *testing.T) {
	g := Flat()

	// outside the grid in every direction, below ground
	for _, p := range []r3.Vector{
		{X: -5, Y: 3, Z: -0.2},
		{X: 3, Y: -5, Z: -0.2},
		{X: 500, Y: 500, Z: -0.2},
	} {
		inf, ok := g.Interference(p)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, inf.Magnitude, test.ShouldAlmostEqual, 0.2, 1e-12)
		test.That(t, inf.Normal, test.ShouldResemble, r3.Vector{Z: 1})
		test.That(t, inf.Position.Z, test.ShouldEqual, 0.0)
	}

	_, ok := g.Interference(r3.Vector{X: -5, Y: 3, Z: 0.1})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestStepFaces(t *testing.T) {
	s := Step{Size: 4, Height: 0.5}

	// low half, below ground
	inf, ok := s.Interference(r3.Vector{X: 1, Y: 2, Z: -0.1})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, inf.Magnitude, test.ShouldAlmostEqual, 0.1, 1e-12)
	test.That(t, inf.Normal, test.ShouldResemble, r3.Vector{Z: 1})

	// low half, above ground
	_, ok = s.Interference(r3.Vector{X: 1, Y: 2, Z: 0.1})
	test.That(t, ok, test.ShouldBeFalse)

	// just under the top surface
	inf, ok = s.Interference(r3.Vector{X: 3, Y: 2, Z: 0.45})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, inf.Magnitude, test.ShouldAlmostEqual, 0.05, 1e-12)
	test.That(t, inf.Normal, test.ShouldResemble, r3.Vector{Z: 1})
	test.That(t, inf.Position.Z, test.ShouldEqual, 0.5)

	// just inside the riser face, nearer to it than the top
	inf, ok = s.Interference(r3.Vector{X: 2.05, Y: 2, Z: 0.2})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, inf.Magnitude, test.ShouldAlmostEqual, 0.05, 1e-12)
	test.That(t, inf.Normal, test.ShouldResemble, r3.Vector{X: -1})
	test.That(t, inf.Position.X, test.ShouldEqual, 2.0)

	// above the step entirely
	_, ok = s.Interference(r3.Vector{X: 3, Y: 2, Z: 0.6})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestStepRotated(t *testing.T) {
	// rotated half a turn the ledge occupies the low-x half
	s := Step{Size: 4, Height: 0.5, Rotate: Rotate180}

	inf, ok := s.Interference(r3.Vector{X: 1, Y: 2, Z: 0.45})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, inf.Magnitude, test.ShouldAlmostEqual, 0.05, 1e-12)
	test.That(t, inf.Normal, test.ShouldResemble, r3.Vector{Z: 1})

	_, ok = s.Interference(r3.Vector{X: 3, Y: 2, Z: 0.1})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestSlope(t *testing.T) {
	s := Slope{Size: 4, Height: 1}

	// below the inclined surface midway
	inf, ok := s.Interference(r3.Vector{X: 2, Y: 2, Z: 0.3})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, inf.Magnitude, test.ShouldBeGreaterThan, 0.0)

	// normal tilts toward +y and up
	test.That(t, inf.Normal.Z, test.ShouldBeGreaterThan, 0.9)
	test.That(t, inf.Normal.Y, test.ShouldBeGreaterThan, 0.0)
	test.That(t, inf.Normal.Norm(), test.ShouldAlmostEqual, 1, 1e-12)

	// above the surface
	_, ok = s.Interference(r3.Vector{X: 2, Y: 2, Z: 0.8})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestSurfaceWave(t *testing.T) {
	g := Wave(10, 0.2, 2.5)

	// center cell crest at x=10 (cosine peak at multiples of 2.5 from
	// the cell origin), querying just below it
	p := r3.Vector{X: 15, Y: 15, Z: 0.1}
	inf, ok := g.Interference(p)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, inf.Magnitude, test.ShouldAlmostEqual, 0.2-0.1, 1e-9)
	test.That(t, inf.Normal.Norm(), test.ShouldAlmostEqual, 1, 1e-12)

	// crest is flat, normal is vertical there
	test.That(t, inf.Normal.Z, test.ShouldAlmostEqual, 1, 1e-9)

	// on the fade border the wave has died out
	inf, ok = g.Interference(r3.Vector{X: 0.01, Y: 15, Z: -0.001})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, inf.Position.Z, test.ShouldAlmostEqual, 0, 1e-2)
}

func TestSurfaceGradient(t *testing.T) {
	// single unfaded cosine cell: analytic normal against finite
	// difference
	size, height, wl := 10.0, 0.3, 2.0
	k := 2 * math.Pi / wl
	s := Surface{
		Size:  [2]float64{size, size},
		Funcs: []HeightFunc{func(x, _ float64) float64 { return height * math.Cos(k*x) }},
		Grads: []GradFunc{func(x, _ float64) (float64, float64) { return -height * k * math.Sin(k * x), 0 }},
	}

	x := 1.3
	h, dx, _ := s.evaluate(x, 5)
	eps := 1e-7
	hp, _, _ := s.evaluate(x+eps, 5)
	test.That(t, dx, test.ShouldAlmostEqual, (hp-h)/eps, 1e-5)
}

func TestByName(t *testing.T) {
	for _, name := range []string{"flat", "steps", "slope", "wave", "mixed", "unknown"} {
		g := ByName(name)
		test.That(t, g, test.ShouldNotBeNil)

		// every terrain still reports contact for a deeply buried point
		inf, ok := g.Interference(r3.Vector{X: 2.5, Y: 2, Z: -10})
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, inf.Magnitude, test.ShouldBeGreaterThan, 0.0)
	}
}
