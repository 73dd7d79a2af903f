package forces

import (
	"github.com/golang/geo/r3"

	"github.com/san-kum/mbdsim/internal/mech"
	"github.com/san-kum/mbdsim/internal/spatial"
)

// ConstantWrench applies a fixed world-frame wrench about the world origin
// to one link.
type ConstantWrench struct {
	Link   int
	Wrench spatial.Force
}

func (c *ConstantWrench) Apply(m *mech.Mechanism, in *mech.Inputs, t float64) {
	in.AddWrench(c.Link, c.Wrench)
}

// BodyForce applies a fixed world-frame force through a link's current
// center of mass, a thruster or drag stand-in.
type BodyForce struct {
	Link  int
	Force r3.Vector
}

func (b *BodyForce) Apply(m *mech.Mechanism, in *mech.Inputs, t float64) {
	in.AddWrench(b.Link, spatial.ForceAtPoint(b.Force, m.WorldCoM(b.Link)))
}
