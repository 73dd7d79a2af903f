package forces

import (
	"math"

	"github.com/san-kum/mbdsim/internal/mech"
)

// Actuator applies a commanded torque to a 1-DOF joint, saturated at
// +-Limit. Limit <= 0 means unlimited.
type Actuator struct {
	Link    int
	Limit   float64
	command float64
}

// SetCommand stores the torque applied from the next evaluation on.
func (a *Actuator) SetCommand(tau float64) { a.command = tau }

func (a *Actuator) Command() float64 { return a.command }

func (a *Actuator) Apply(m *mech.Mechanism, in *mech.Inputs, t float64) {
	tau := a.command
	if a.Limit > 0 {
		tau = math.Max(-a.Limit, math.Min(a.Limit, tau))
	}
	vi, _ := m.VelocityIndex(a.Link)
	in.Tau[vi] += tau
}
