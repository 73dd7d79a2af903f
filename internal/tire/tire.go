// Package tire implements a point-contact brush tire: sample points on
// the wheel surface are tested against the terrain and each contact
// contributes a normal spring-damper force plus slip-based friction.
package tire

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/san-kum/mbdsim/internal/forces"
	"github.com/san-kum/mbdsim/internal/mech"
	"github.com/san-kum/mbdsim/internal/spatial"
	"github.com/san-kum/mbdsim/internal/terrain"
)

// Params holds the contact model constants for one tire.
type Params struct {
	// Stiffness is the normal force polynomial [linear, quadratic] in the
	// penetration depth, N/m and N/m^2.
	Stiffness [2]float64
	// Damping acts on the hub's normal velocity, N*s/m.
	Damping float64
	// Friction caps the in-plane force at Friction times the normal load.
	Friction float64
	// SlipStiffness scales slip ratio and slip angle into the normalized
	// friction demand before saturation.
	SlipStiffness float64
	// RollingRadius is the effective radius used for the slip velocity.
	RollingRadius float64
	// LowSpeed floors the reference ground speed so slip stays bounded
	// near standstill.
	LowSpeed float64
	// FilterTime is the first-order time constant applied to the spin
	// moment about the axle; zero disables the filter.
	FilterTime float64
	// ActivationLength ramps a point's contribution in over this much
	// penetration so contacts engage smoothly.
	ActivationLength float64
	Radius           float64
	Width            float64
	PointsWidth      int
	PointsRadius     int
}

// Point is a tire bound to a spinning wheel link and its carrier (the
// suspension link the wheel spins on). It reads the terrain each dynamics
// evaluation and applies the resulting wrench to the wheel.
type Point struct {
	wheel  int
	hub    int
	ground *terrain.Grid
	p      Params
	dt     float64

	points   []r3.Vector
	filtered float64
}

var _ forces.Generator = (*Point)(nil)

// NewPoint builds the wheel-local sample point lattice: PointsRadius
// rings around the circumference, PointsWidth across, with each ring
// staggered so the tracks do not repeat. dt is the integration step the
// spin-moment filter is tuned for.
func NewPoint(wheel, hub int, ground *terrain.Grid, p Params, dt float64) *Point {
	nw, nr := p.PointsWidth, p.PointsRadius
	if nw < 1 {
		nw = 1
	}
	if nr < 1 {
		nr = 1
	}

	halfWidth, yStep := 0.0, 0.0
	if nw > 1 {
		yStep = p.Width / float64(nw-1)
		halfWidth = p.Width / 2
	}

	points := make([]r3.Vector, 0, nw*nr)
	dTheta := 2 * math.Pi / float64(nr)
	theta := 0.0
	for ri := 0; ri < nr; ri++ {
		y := -halfWidth
		for wi := 0; wi < nw; wi++ {
			tp := theta + float64(wi)/float64(nw)*dTheta
			s, c := math.Sincos(tp)
			points = append(points, r3.Vector{X: p.Radius * s, Y: y, Z: p.Radius * c})
			y += yStep
		}
		theta += dTheta
	}

	return &Point{wheel: wheel, hub: hub, ground: ground, p: p, dt: dt, points: points}
}

// Wheel returns the link index the tire acts on.
func (t *Point) Wheel() int { return t.wheel }

// Points returns the wheel-local sample points.
func (t *Point) Points() []r3.Vector { return t.points }

func planeProject(v, n r3.Vector) r3.Vector {
	return v.Sub(n.Mul(v.Dot(n)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

type contact struct {
	inf    terrain.Interference
	point  r3.Vector
	active float64
}

// Apply samples the terrain under the wheel and accumulates the contact
// wrench, in world coordinates, on the wheel link.
func (t *Point) Apply(m *mech.Mechanism, in *mech.Inputs, _ float64) {
	wheelX := m.LinkTransform(t.wheel)
	hubX := m.LinkTransform(t.hub)
	wheelXi := wheelX.Inverse()
	hubXi := hubX.Inverse()

	v0 := wheelXi.ApplyMotion(m.LinkVelocity(t.wheel))
	vp0 := hubXi.ApplyMotion(m.LinkVelocity(t.hub))
	center := hubXi.TransformPoint(r3.Vector{})
	lateral := wheelXi.Rotate(r3.Vector{Y: 1})

	var contacts []contact
	activePoints := 0.0
	for _, p := range t.points {
		pAbs := wheelXi.TransformPoint(p)
		inf, ok := t.ground.Interference(pAbs)
		if !ok {
			continue
		}
		active := 1.0
		if t.p.ActivationLength > 0 {
			active = clamp(inf.Magnitude/t.p.ActivationLength, 0, 1)
		}
		contacts = append(contacts, contact{inf: inf, point: pAbs, active: active})
		activePoints += active
	}

	fExt := spatial.ZeroForce
	for _, c := range contacts {
		n := c.inf.Normal

		contactLat := planeProject(lateral, n).Normalize()
		contactLong := contactLat.Cross(n).Normalize()
		tireUp := contactLong.Cross(lateral).Normalize()

		radial := planeProject(c.point.Sub(center), lateral).Normalize()

		// effective rolling point on the radial through the contact
		rollingPoint := center.Add(radial.Mul(t.p.RollingRadius / -tireUp.Dot(radial)))

		planeVelRolling := planeProject(v0.VelocityAtPoint(rollingPoint), n)
		planeVelContact := planeProject(v0.VelocityAtPoint(c.inf.Position), n)

		velParent := vp0.VelocityAtPoint(c.inf.Position)
		normalSpeedParent := velParent.Dot(n)
		planeVelParent := planeProject(velParent, n)

		groundSpeedLat := planeVelContact.Dot(contactLat)
		groundSpeedLong := planeVelRolling.Dot(contactLong)
		refSpeed := math.Max(math.Abs(planeVelParent.Dot(contactLong)), t.p.LowSpeed)

		slipRatio := -groundSpeedLong / refSpeed
		slipAngle := -groundSpeedLat / refSpeed

		stiffForce := (t.p.Stiffness[0]*c.inf.Magnitude +
			t.p.Stiffness[1]*c.inf.Magnitude*c.inf.Magnitude) / activePoints
		dampForce := clamp(-t.p.Damping/activePoints*normalSpeedParent,
			-stiffForce/2, stiffForce)
		normalMag := stiffForce + dampForce

		longForce := clamp(slipRatio*t.p.SlipStiffness, -1, 1) * normalMag * t.p.Friction
		latForce := clamp(slipAngle*t.p.SlipStiffness, -1, 1) * normalMag * t.p.Friction

		force := n.Mul(normalMag).
			Add(contactLat.Mul(latForce)).
			Add(contactLong.Mul(longForce)).
			Mul(c.active)
		fExt = fExt.Add(spatial.ForceAtPoint(force, c.inf.Position))
	}

	// low-pass the spin moment about the axle; the raw moment is stiff
	// enough to make the wheel oscillate at practical step sizes
	if t.p.FilterTime > 0 {
		fHub := hubX.ApplyForce(fExt)
		w := math.Pow(0.5, t.dt/t.p.FilterTime)
		t.filtered = t.filtered*w + fHub.Ang.Y*(1-w)
		fHub.Ang.Y = t.filtered
		fExt = hubXi.ApplyForce(fHub)
	}

	in.AddWrench(t.wheel, fExt)
}

// Reset clears the filter state, for reuse across runs.
func (t *Point) Reset() { t.filtered = 0 }
