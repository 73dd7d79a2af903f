// Package sim binds a mechanism, its force generators and an integrator
// into runnable simulations.
package sim

import (
	"github.com/golang/geo/r3"

	"github.com/san-kum/mbdsim/internal/forces"
	"github.com/san-kum/mbdsim/internal/mech"
)

// Plant is the closed dynamics of one mechanism under its force generators
// and uniform gravity. It implements solver.System. A Plant owns its
// mechanism's scratch state and must not be shared across goroutines.
type Plant struct {
	m       *mech.Mechanism
	gens    []forces.Generator
	in      *mech.Inputs
	gravity r3.Vector
}

func NewPlant(m *mech.Mechanism, gravity r3.Vector, gens ...forces.Generator) *Plant {
	return &Plant{m: m, gens: gens, in: m.NewInputs(), gravity: gravity}
}

// AddGenerator appends a force generator. Not safe while stepping.
func (p *Plant) AddGenerator(g forces.Generator) {
	p.gens = append(p.gens, g)
}

func (p *Plant) Mechanism() *mech.Mechanism { return p.m }

func (p *Plant) Gravity() r3.Vector { return p.gravity }

func (p *Plant) StateDim() int { return p.m.StateDim() }

// Derivative evaluates the full pipeline at x: kinematics, force
// generators, then articulated-body accelerations.
func (p *Plant) Derivative(dst, x []float64, t float64) error {
	p.m.SetState(x)
	p.m.UpdateKinematics()
	forces.Apply(p.gens, p.m, p.in, t)
	if err := p.m.ComputeAccelerations(p.in, p.gravity); err != nil {
		return err
	}
	p.m.Derivative(dst)
	return nil
}

// Normalize restores unit quaternions in x.
func (p *Plant) Normalize(x []float64) {
	p.m.NormalizeState(x)
}

// Energy evaluates mechanical energy at x.
func (p *Plant) Energy(x []float64) float64 {
	p.m.SetState(x)
	p.m.UpdateKinematics()
	return p.m.Energy(p.gravity)
}

// InitialState returns the mechanism's current state as a starting vector.
func (p *Plant) InitialState() []float64 {
	return p.m.State(nil)
}
