// Package car assembles a four-wheeled vehicle: a free chassis carrying
// steered front knuckles, suspension sliders and spinning wheels with
// point-contact tires.
package car

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/san-kum/mbdsim/internal/config"
	"github.com/san-kum/mbdsim/internal/forces"
	"github.com/san-kum/mbdsim/internal/joint"
	"github.com/san-kum/mbdsim/internal/mech"
	"github.com/san-kum/mbdsim/internal/spatial"
	"github.com/san-kum/mbdsim/internal/terrain"
	"github.com/san-kum/mbdsim/internal/tire"
)

const (
	knuckleMass = 1.0
	steerKp     = 2000.0
	steerKd     = 60.0
)

var cornerNames = [4]string{"fl", "fr", "rl", "rr"}

// Car owns the vehicle mechanism and the force generators that drive it.
type Car struct {
	m       *mech.Mechanism
	control *Control
	gens    []forces.Generator

	chassis int
	susp    [4]int
	wheels  [4]int

	radius     float64
	suspDrop   float64
	suspTravel float64
}

// New builds the vehicle over the given terrain. dt is the integration
// step the tire spin filters are tuned for.
func New(cfg config.Car, ground *terrain.Grid, gravity, dt float64) (*Car, error) {
	c := &Car{
		control:    &Control{},
		radius:     cfg.WheelRadius,
		suspDrop:   0.2,
		suspTravel: 0.025,
	}

	locations := [4]r3.Vector{
		{X: 1.25, Y: 0.75, Z: -c.suspDrop},
		{X: 1.25, Y: -0.75, Z: -c.suspDrop},
		{X: -1.25, Y: 0.75, Z: -c.suspDrop},
		{X: -1.25, Y: -0.75, Z: -c.suspDrop},
	}
	wheelBase := locations[0].X - locations[2].X

	dims := r3.Vector{X: cfg.ChassisDims[0], Y: cfg.ChassisDims[1], Z: cfg.ChassisDims[2]}
	specs := []mech.LinkSpec{{
		Name:    "chassis",
		Parent:  mech.WorldIndex,
		Joint:   joint.NewFreeBase(),
		Inertia: spatial.BoxInertia(cfg.ChassisMass, r3.Vector{}, dims),
	}}

	suspSize := 0.025
	suspMoi := (2.0 / 3.0) * cfg.SuspensionMass * suspSize * suspSize
	suspStiffness := cfg.ChassisMass * (gravity / 4) / 0.1
	suspDamping := 0.25 * 2 * math.Sqrt(suspStiffness*cfg.ChassisMass/4)
	suspPreload := cfg.ChassisMass * gravity / 4

	r := cfg.WheelRadius
	w := cfg.WheelWidth
	wheelMoiY := cfg.WheelMass * r * r
	wheelMoiXZ := cfg.WheelMass / 12 * (3*r*r + w*w)

	cornerMass := cfg.ChassisMass/4 + cfg.SuspensionMass + cfg.WheelMass
	tireParams := tire.Params{
		Stiffness:        [2]float64{cornerMass * gravity / 0.005, 0},
		Friction:         cfg.Friction,
		SlipStiffness:    20,
		RollingRadius:    r - 0.01,
		LowSpeed:         1.0,
		FilterTime:       0.005,
		ActivationLength: 0.01,
		Radius:           r,
		Width:            w,
		PointsWidth:      5,
		PointsRadius:     51,
	}
	tireParams.Damping = 0.01 * 2 * math.Sqrt(tireParams.Stiffness[0]*cfg.WheelMass)

	for i, loc := range locations {
		name := cornerNames[i]
		parent := c.chassis
		offset := spatial.Translation(loc)

		if i < 2 {
			specs = append(specs, mech.LinkSpec{
				Name:    "steer_" + name,
				Parent:  parent,
				Joint:   joint.RevoluteZ(),
				Inertia: spatial.NewInertia(knuckleMass, r3.Vector{}, mgl64.Ident3().Mul(0.01)),
				Offset:  offset,
			})
			parent = len(specs) - 1
			offset = spatial.Identity()

			c.gens = append(c.gens, &steerServo{
				link:    parent,
				x:       wheelBase,
				y:       loc.Y,
				maxCurv: cfg.MaxCurvature,
				kp:      steerKp,
				kd:      steerKd,
				control: c.control,
			})
		}

		specs = append(specs, mech.LinkSpec{
			Name:    "susp_" + name,
			Parent:  parent,
			Joint:   joint.PrismaticZ(),
			Inertia: spatial.NewInertia(cfg.SuspensionMass, r3.Vector{}, mgl64.Ident3().Mul(suspMoi)),
			Offset:  offset,
		})
		c.susp[i] = len(specs) - 1

		specs = append(specs, mech.LinkSpec{
			Name:   "wheel_" + name,
			Parent: c.susp[i],
			Joint:  joint.RevoluteY(),
			Inertia: spatial.NewInertia(cfg.WheelMass, r3.Vector{},
				mgl64.Diag3(mgl64.Vec3{wheelMoiXZ, wheelMoiY, wheelMoiXZ})),
		})
		c.wheels[i] = len(specs) - 1
	}

	m, err := mech.New(specs)
	if err != nil {
		return nil, errors.Wrap(err, "build car")
	}
	c.m = m

	for i := range locations {
		c.gens = append(c.gens, &forces.SpringDamper{
			Link:      c.susp[i],
			Stiffness: suspStiffness,
			Damping:   suspDamping,
			// the constant term reacts the corner's share of the chassis
			// weight so the sliders settle near zero
			Preload: -suspPreload,
		})

		c.gens = append(c.gens, tire.NewPoint(c.wheels[i], c.susp[i], ground, tireParams, dt))

		brakeTorque := cfg.FrontBrake
		if i >= 2 {
			brakeTorque = cfg.RearBrake

			curve, err := forces.NewTable(cfg.DriveSpeeds, cfg.DriveTorques)
			if err != nil {
				return nil, errors.Wrap(err, "drive torque table")
			}
			c.gens = append(c.gens, &driveWheel{
				link:     c.wheels[i],
				curve:    curve,
				maxSpeed: cfg.DriveSpeeds[len(cfg.DriveSpeeds)-1],
				control:  c.control,
			})
		}
		c.gens = append(c.gens, &brakeWheel{
			link:      c.wheels[i],
			maxTorque: brakeTorque,
			control:   c.control,
		})
	}

	return c, nil
}

// Mechanism returns the underlying articulated body tree.
func (c *Car) Mechanism() *mech.Mechanism { return c.m }

// Generators returns the vehicle's force generators.
func (c *Car) Generators() []forces.Generator { return c.gens }

// Control returns the shared driver command.
func (c *Car) Control() *Control { return c.control }

// Chassis returns the chassis link index.
func (c *Car) Chassis() int { return c.chassis }

// Wheels returns the spin link index of each corner, fl fr rl rr.
func (c *Car) Wheels() [4]int { return c.wheels }

// RideHeight is the chassis height with the wheels touching flat ground
// and the suspension at its free length.
func (c *Car) RideHeight() float64 {
	return c.suspDrop + c.radius + c.suspTravel
}

// InitialState places the chassis level at the given position moving
// forward at speed, with the wheels pre-spun to roll without slip.
func (c *Car) InitialState(pos r3.Vector, speed float64) []float64 {
	x := make([]float64, c.m.StateDim())
	c.m.SetState(x)
	c.m.SetJointPosition(c.chassis, 1, 0, 0, 0, pos.X, pos.Y, pos.Z)
	c.m.SetJointVelocity(c.chassis, 0, 0, 0, speed, 0, 0)
	for _, wi := range c.wheels {
		c.m.SetJointVelocity(wi, speed/c.radius)
	}
	return c.m.State(x)
}

// Speed reads the chassis forward speed out of a state vector.
func (c *Car) Speed(x []float64) float64 {
	vi, _ := c.m.VelocityIndex(c.chassis)
	return x[c.m.NQ()+vi+3]
}
