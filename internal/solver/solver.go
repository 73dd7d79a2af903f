// Package solver provides fixed-step explicit integrators over flat state
// vectors and the wall-clock accumulator that schedules them.
package solver

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownScheme reports an integration scheme name that does not
	// match any stepper.
	ErrUnknownScheme = errors.New("unknown integration scheme")
	// ErrInvalidTimestep reports a non-positive dt.
	ErrInvalidTimestep = errors.New("timestep must be positive")
)

// System is the first-order ODE xdot = f(x, t). Derivative writes the state
// derivative into dst; it may fail, e.g. when the dynamics blow up at the
// evaluated state. Normalize restores state invariants after a step (unit
// quaternions) and is a no-op for purely Euclidean states.
type System interface {
	StateDim() int
	Derivative(dst, x []float64, t float64) error
	Normalize(x []float64)
}

// Stepper advances a System by one step of size dt. The returned slice is
// freshly allocated; x is never modified. Steppers keep internal scratch and
// are not safe for concurrent use.
type Stepper interface {
	Name() string
	Step(sys System, x []float64, t, dt float64) ([]float64, error)
}

// FromName returns the stepper for a configured scheme name.
// Recognized names: euler, midpoint, heun, rk4.
func FromName(name string) (Stepper, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "euler":
		return NewEuler(), nil
	case "midpoint":
		return NewMidpoint(), nil
	case "heun":
		return NewHeun(), nil
	case "rk4":
		return NewRK4(), nil
	default:
		return nil, errors.Wrapf(ErrUnknownScheme, "%q", name)
	}
}

// Schemes lists the recognized scheme names.
func Schemes() []string {
	return []string{"euler", "midpoint", "heun", "rk4"}
}
