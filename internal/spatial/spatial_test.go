package spatial

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func vecAlmostEqual(t *testing.T, got, want r3.Vector, tol float64) {
	t.Helper()
	test.That(t, got.X, test.ShouldAlmostEqual, want.X, tol)
	test.That(t, got.Y, test.ShouldAlmostEqual, want.Y, tol)
	test.That(t, got.Z, test.ShouldAlmostEqual, want.Z, tol)
}

func TestRotationConvention(t *testing.T) {
	// E carries parent coordinates into the rotated frame: a vector fixed
	// in the parent appears rotated backwards from the child.
	e := RotZ(math.Pi / 2)
	got := MulVec(e, r3.Vector{X: 1})
	vecAlmostEqual(t, got, r3.Vector{Y: -1}, 1e-12)

	// composition against the axis-angle form
	axis := r3.Vector{X: 0, Y: 0, Z: 1}
	e2 := RotAxis(axis, math.Pi/2)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			test.That(t, e2.At(r, c), test.ShouldAlmostEqual, e.At(r, c), 1e-12)
		}
	}
}

func TestRotFromQuat(t *testing.T) {
	// quaternion for a rotation of theta about z
	theta := 0.7
	q := quat.Number{Real: math.Cos(theta / 2), Kmag: math.Sin(theta / 2)}
	e := RotFromQuat(q)
	want := RotZ(theta)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			test.That(t, e.At(r, c), test.ShouldAlmostEqual, want.At(r, c), 1e-12)
		}
	}
}

func TestTransformRoundTrip(t *testing.T) {
	x := NewTransform(RotY(0.3), r3.Vector{X: 1, Y: -2, Z: 0.5})
	p := r3.Vector{X: 0.2, Y: 0.4, Z: -1.1}

	local := x.TransformPoint(p)
	back := x.Inverse().TransformPoint(local)
	vecAlmostEqual(t, back, p, 1e-12)

	m := NewMotion(r3.Vector{X: 0.1, Y: 0.2, Z: 0.3}, r3.Vector{X: -1, Y: 0, Z: 2})
	vecAlmostEqual(t, x.Inverse().ApplyMotion(x.ApplyMotion(m)).Ang, m.Ang, 1e-12)
	vecAlmostEqual(t, x.Inverse().ApplyMotion(x.ApplyMotion(m)).Lin, m.Lin, 1e-12)
}

func TestTransformComposition(t *testing.T) {
	a := NewTransform(RotX(0.4), r3.Vector{X: 1})
	b := NewTransform(RotZ(-0.9), r3.Vector{Y: 2, Z: -1})
	m := NewMotion(r3.Vector{X: 0.3, Y: -0.1, Z: 0.8}, r3.Vector{X: 0.5, Y: 1.5, Z: -0.5})

	// a.Mul(b) applies b first
	lhs := a.Mul(b).ApplyMotion(m)
	rhs := a.ApplyMotion(b.ApplyMotion(m))
	vecAlmostEqual(t, lhs.Ang, rhs.Ang, 1e-12)
	vecAlmostEqual(t, lhs.Lin, rhs.Lin, 1e-12)
}

func TestPowerInvariance(t *testing.T) {
	// m . f is frame independent
	x := NewTransform(RotZ(1.2).Mul3(RotX(-0.4)), r3.Vector{X: 0.3, Y: 0.1, Z: -2})
	m := NewMotion(r3.Vector{X: 1, Y: 2, Z: 3}, r3.Vector{X: -1, Y: 0.5, Z: 0})
	f := NewForce(r3.Vector{X: 0.2, Y: -0.3, Z: 0.9}, r3.Vector{X: 4, Y: 5, Z: 6})

	before := m.Dot(f)
	after := x.ApplyMotion(m).Dot(x.ApplyForce(f))
	test.That(t, after, test.ShouldAlmostEqual, before, 1e-10)
}

func TestSpatialCrossProducts(t *testing.T) {
	v := NewMotion(r3.Vector{X: 0.1, Y: -0.2, Z: 0.3}, r3.Vector{X: 1, Y: 2, Z: -1})
	f := NewForce(r3.Vector{X: 2, Y: 0, Z: 1}, r3.Vector{X: -1, Y: 1, Z: 0.5})

	// d/dt (m . f) identity: (v x m) . f + m . (v x* f) == 0 for m == v
	lhs := v.CrossMotion(v).Dot(f) + v.Dot(v.CrossForce(f))
	test.That(t, lhs, test.ShouldAlmostEqual, 0, 1e-12)

	// cross of a twist with itself vanishes
	test.That(t, v.CrossMotion(v).Ang.Norm(), test.ShouldAlmostEqual, 0, 1e-15)
	test.That(t, v.CrossMotion(v).Lin.Norm(), test.ShouldAlmostEqual, 0, 1e-15)
}

func TestInertiaMomentum(t *testing.T) {
	// point mass on the z axis, rotating about y: momentum matches m*v at
	// the mass location
	mass := 2.5
	p := r3.Vector{Z: -1.5}
	ia := PointInertia(mass, p).Spatial()

	w := r3.Vector{Y: 2.0}
	mom := ia.Mul(NewMotion(w, r3.Vector{}))

	vel := w.Cross(p)
	vecAlmostEqual(t, mom.Lin, vel.Mul(mass), 1e-12)
	vecAlmostEqual(t, mom.Ang, p.Cross(vel.Mul(mass)), 1e-12)
}

func TestInertiaTransformConsistency(t *testing.T) {
	// transforming an inertia and multiplying must equal multiplying and
	// transforming the wrench: X I X^{-1} applied via ApplyInertia
	i := NewInertia(3.0, r3.Vector{X: 0.2, Y: -0.1, Z: 0.4},
		mgl64.Diag3(mgl64.Vec3{0.3, 0.4, 0.5}))
	x := NewTransform(RotY(0.8), r3.Vector{X: 1, Y: 0.5, Z: -0.2})
	xi := x.Inverse()

	m := NewMotion(r3.Vector{X: 0.5, Y: 1, Z: -0.7}, r3.Vector{X: 0.1, Y: 0.2, Z: 0.3})

	// parent-frame inertia applied to a parent-frame twist
	iaParent := xi.ApplyInertia(i.Spatial())
	lhs := iaParent.Mul(m)

	// carry the twist to the child, apply there, carry the wrench back
	rhs := xi.ApplyForce(i.Spatial().Mul(x.ApplyMotion(m)))

	vecAlmostEqual(t, lhs.Ang, rhs.Ang, 1e-10)
	vecAlmostEqual(t, lhs.Lin, rhs.Lin, 1e-10)
}

func TestBoxInertia(t *testing.T) {
	i := BoxInertia(12, r3.Vector{}, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, i.Moi.At(0, 0), test.ShouldAlmostEqual, 4+9)
	test.That(t, i.Moi.At(1, 1), test.ShouldAlmostEqual, 1+9)
	test.That(t, i.Moi.At(2, 2), test.ShouldAlmostEqual, 1+4)
}

func TestForceAtPoint(t *testing.T) {
	f := ForceAtPoint(r3.Vector{Z: 10}, r3.Vector{X: 2})
	vecAlmostEqual(t, f.Lin, r3.Vector{Z: 10}, 1e-15)
	vecAlmostEqual(t, f.Ang, r3.Vector{Y: -20}, 1e-12)
}
