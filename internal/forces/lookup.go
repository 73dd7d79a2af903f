package forces

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/mbdsim/internal/mech"
)

// Table is a piecewise-linear 1-D lookup with clamped ends.
type Table struct {
	xs, ys []float64
}

// NewTable requires matching, non-empty breakpoint and value slices with
// strictly increasing breakpoints.
func NewTable(xs, ys []float64) (*Table, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return nil, errors.Errorf("table needs matching non-empty slices, got %d and %d", len(xs), len(ys))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, errors.Errorf("table breakpoints must be strictly increasing at index %d", i)
		}
	}
	t := &Table{xs: make([]float64, len(xs)), ys: make([]float64, len(ys))}
	copy(t.xs, xs)
	copy(t.ys, ys)
	return t, nil
}

// At evaluates the table, holding the end values outside the breakpoints.
func (t *Table) At(x float64) float64 {
	if x <= t.xs[0] {
		return t.ys[0]
	}
	last := len(t.xs) - 1
	if x >= t.xs[last] {
		return t.ys[last]
	}
	i := sort.SearchFloat64s(t.xs, x) - 1
	slope := (t.ys[i+1] - t.ys[i]) / (t.xs[i+1] - t.xs[i])
	return t.ys[i] + slope*(x-t.xs[i])
}

// TorqueMap drives a 1-DOF joint with throttle times a torque curve sampled
// at the joint rate, an engine map on a wheel spin joint.
type TorqueMap struct {
	Link     int
	Curve    *Table
	throttle float64
}

// SetThrottle clamps the command to [0, 1].
func (tm *TorqueMap) SetThrottle(u float64) {
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	tm.throttle = u
}

func (tm *TorqueMap) Throttle() float64 { return tm.throttle }

func (tm *TorqueMap) Apply(m *mech.Mechanism, in *mech.Inputs, t float64) {
	qd := m.JointVelocity(tm.Link)[0]
	vi, _ := m.VelocityIndex(tm.Link)
	in.Tau[vi] += tm.throttle * tm.Curve.At(qd)
}
