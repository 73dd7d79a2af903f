package mech

import "github.com/pkg/errors"

// Construction errors: a mechanism that fails validation is never
// instantiated, there is no partially-built state to clean up.
var (
	// ErrZeroMassLink indicates a link with zero or negative mass.
	ErrZeroMassLink = errors.New("mech: link mass must be positive")

	// ErrCyclicTopology indicates the parent indices form a cycle.
	ErrCyclicTopology = errors.New("mech: topology contains a cycle")

	// ErrMissingParent indicates a parent index referencing no link.
	ErrMissingParent = errors.New("mech: parent index out of range")

	// ErrFreeBaseNotRoot indicates a free 6-DOF joint below the root.
	ErrFreeBaseNotRoot = errors.New("mech: free base joint must be at the root")
)

// ErrDynamicsDiverged is reported when a dynamics pass produces NaN or Inf
// accelerations. The mechanism state is left as-is: recovery (resetting,
// clamping) is a policy decision for the caller, not the core.
var ErrDynamicsDiverged = errors.New("mech: dynamics diverged (NaN/Inf in accelerations)")
