// Package scene turns a run configuration into a ready-to-step plant.
package scene

import (
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/san-kum/mbdsim/internal/car"
	"github.com/san-kum/mbdsim/internal/config"
	"github.com/san-kum/mbdsim/internal/forces"
	"github.com/san-kum/mbdsim/internal/joint"
	"github.com/san-kum/mbdsim/internal/mech"
	"github.com/san-kum/mbdsim/internal/spatial"
	"github.com/san-kum/mbdsim/internal/terrain"
)

// Channel labels one state component worth recording or plotting.
type Channel struct {
	Label string
	Index int
}

// Scene is a built scenario: the plant's ingredients plus its initial
// state and the channels worth looking at.
type Scene struct {
	Name       string
	Mechanism  *mech.Mechanism
	Generators []forces.Generator
	Gravity    r3.Vector
	Initial    []float64
	Channels   []Channel

	// Car is set only for the car scenario, for driver input.
	Car *car.Car
}

// ErrUnknownScenario rejects scenario names Build cannot serve.
var ErrUnknownScenario = errors.New("scene: unknown scenario")

// Names lists the buildable scenario names.
func Names() []string {
	names := []string{"pendulum", "double_pendulum", "slider", "brick", "car"}
	sort.Strings(names)
	return names
}

// Build constructs the scenario the configuration names.
func Build(cfg *config.Config) (*Scene, error) {
	switch cfg.Scenario {
	case "pendulum":
		return pendulum(cfg)
	case "double_pendulum":
		return doublePendulum(cfg)
	case "slider":
		return slider(cfg)
	case "brick":
		return brick(cfg)
	case "car":
		return carScene(cfg)
	default:
		return nil, errors.Wrapf(ErrUnknownScenario, "%q", cfg.Scenario)
	}
}

func pendulum(cfg *config.Config) (*Scene, error) {
	const length = 1.0
	m, err := mech.New([]mech.LinkSpec{{
		Name:    "bob",
		Parent:  mech.WorldIndex,
		Joint:   joint.RevoluteY(),
		Inertia: spatial.PointInertia(1, r3.Vector{Z: -length}),
	}})
	if err != nil {
		return nil, err
	}

	x := make([]float64, m.StateDim())
	x[0] = cfg.InitState.Theta
	x[1] = cfg.InitState.Omega

	return &Scene{
		Name:      "pendulum",
		Mechanism: m,
		Gravity:   r3.Vector{Z: -cfg.Gravity},
		Initial:   x,
		Channels: []Channel{
			{Label: "theta", Index: 0},
			{Label: "omega", Index: 1},
		},
	}, nil
}

func doublePendulum(cfg *config.Config) (*Scene, error) {
	const length = 1.0
	m, err := mech.New([]mech.LinkSpec{
		{
			Name:    "upper",
			Parent:  mech.WorldIndex,
			Joint:   joint.RevoluteY(),
			Inertia: spatial.PointInertia(1, r3.Vector{Z: -length}),
		},
		{
			Name:    "lower",
			Parent:  0,
			Joint:   joint.RevoluteY(),
			Inertia: spatial.PointInertia(1, r3.Vector{Z: -length}),
			Offset:  spatial.Translation(r3.Vector{Z: -length}),
		},
	})
	if err != nil {
		return nil, err
	}

	x := make([]float64, m.StateDim())
	x[0] = cfg.InitState.Theta
	x[1] = cfg.InitState.Theta2
	x[2] = cfg.InitState.Omega
	x[3] = cfg.InitState.Omega2

	return &Scene{
		Name:      "double_pendulum",
		Mechanism: m,
		Gravity:   r3.Vector{Z: -cfg.Gravity},
		Initial:   x,
		Channels: []Channel{
			{Label: "theta1", Index: 0},
			{Label: "theta2", Index: 1},
			{Label: "omega1", Index: 2},
			{Label: "omega2", Index: 3},
		},
	}, nil
}

func slider(cfg *config.Config) (*Scene, error) {
	m, err := mech.New([]mech.LinkSpec{{
		Name:    "mass",
		Parent:  mech.WorldIndex,
		Joint:   joint.PrismaticZ(),
		Inertia: spatial.PointInertia(2, r3.Vector{}),
	}})
	if err != nil {
		return nil, err
	}

	x := make([]float64, m.StateDim())
	x[0] = cfg.InitState.Pos
	x[1] = cfg.InitState.Vel

	return &Scene{
		Name:      "slider",
		Mechanism: m,
		Generators: []forces.Generator{
			&forces.SpringDamper{Link: 0, Stiffness: 200, Damping: 0.5},
		},
		Gravity: r3.Vector{Z: -cfg.Gravity},
		Initial: x,
		Channels: []Channel{
			{Label: "pos", Index: 0},
			{Label: "vel", Index: 1},
		},
	}, nil
}

func brick(cfg *config.Config) (*Scene, error) {
	dims := r3.Vector{X: 0.4, Y: 0.2, Z: 0.1}
	m, err := mech.New([]mech.LinkSpec{{
		Name:    "brick",
		Parent:  mech.WorldIndex,
		Joint:   joint.NewFreeBase(),
		Inertia: spatial.BoxInertia(1, r3.Vector{}, dims),
	}})
	if err != nil {
		return nil, err
	}

	x := make([]float64, m.StateDim())
	m.SetState(x)
	m.SetJointPosition(0, 1, 0, 0, 0, 0, 0, cfg.InitState.Height)
	// spin about the intermediate axis tumbles, a nudge about another
	// axis seeds the instability
	m.SetJointVelocity(0, 0.01, cfg.InitState.Omega, 0, cfg.InitState.Speed, 0, 0)
	x = m.State(x)

	return &Scene{
		Name:      "brick",
		Mechanism: m,
		Gravity:   r3.Vector{Z: -cfg.Gravity},
		Initial:   x,
		Channels: []Channel{
			{Label: "z", Index: 6},
			{Label: "wx", Index: 7},
			{Label: "wy", Index: 8},
		},
	}, nil
}

func carScene(cfg *config.Config) (*Scene, error) {
	ground := terrain.ByName(cfg.Terrain)
	c, err := car.New(cfg.Car, ground, cfg.Gravity, cfg.Dt)
	if err != nil {
		return nil, err
	}

	height := c.RideHeight()
	if cfg.InitState.Height > 0 {
		height += cfg.InitState.Height
	}
	x := c.InitialState(r3.Vector{X: 5, Y: 5, Z: height}, cfg.InitState.Speed)

	m := c.Mechanism()
	nq := m.NQ()
	vi, _ := m.VelocityIndex(c.Chassis())

	return &Scene{
		Name:       "car",
		Mechanism:  m,
		Generators: c.Generators(),
		Gravity:    r3.Vector{Z: -cfg.Gravity},
		Initial:    x,
		Car:        c,
		Channels: []Channel{
			{Label: "x", Index: 4},
			{Label: "y", Index: 5},
			{Label: "z", Index: 6},
			{Label: "vx", Index: nq + vi + 3},
			{Label: "yaw_rate", Index: nq + vi + 2},
		},
	}, nil
}
