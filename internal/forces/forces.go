// Package forces provides generators that turn mechanism state into applied
// joint torques and body wrenches.
package forces

import "github.com/san-kum/mbdsim/internal/mech"

// Generator writes forces for one dynamics evaluation into in. It is called
// fresh at every evaluation, including integrator sub-stages, after link
// kinematics have been updated for the evaluated state. Generators must not
// retain in between calls.
type Generator interface {
	Apply(m *mech.Mechanism, in *mech.Inputs, t float64)
}

// Apply runs every generator against a cleared input set.
func Apply(gens []Generator, m *mech.Mechanism, in *mech.Inputs, t float64) {
	in.Reset()
	for _, g := range gens {
		g.Apply(m, in, t)
	}
}

// Func adapts a plain function to the Generator interface.
type Func func(m *mech.Mechanism, in *mech.Inputs, t float64)

func (f Func) Apply(m *mech.Mechanism, in *mech.Inputs, t float64) { f(m, in, t) }
