package solver

import "github.com/pkg/errors"

// FixedStep banks elapsed wall time and drains it in whole dt increments,
// decoupling the physics rate from whatever loop feeds it. The fractional
// remainder carries over to the next Advance, so long-run simulated time
// tracks banked time exactly.
type FixedStep struct {
	sys     System
	stepper Stepper
	dt      float64

	t   float64
	acc float64
	x   []float64

	// maxSubsteps caps the steps drained per Advance; 0 means no cap.
	// When the cap trips, the surplus backlog is dropped so a stall
	// cannot snowball into an ever-growing catch-up burst.
	maxSubsteps int
}

// NewFixedStep validates dt and seeds the accumulator with x0.
func NewFixedStep(sys System, stepper Stepper, dt float64, x0 []float64) (*FixedStep, error) {
	if dt <= 0 {
		return nil, errors.Wrapf(ErrInvalidTimestep, "dt=%g", dt)
	}
	x := make([]float64, len(x0))
	copy(x, x0)
	return &FixedStep{sys: sys, stepper: stepper, dt: dt, x: x}, nil
}

// SetMaxSubsteps caps steps per Advance call; n <= 0 removes the cap.
func (fs *FixedStep) SetMaxSubsteps(n int) {
	if n < 0 {
		n = 0
	}
	fs.maxSubsteps = n
}

// Advance banks elapsed seconds and runs as many whole dt steps as the
// accumulator now covers, returning the number of steps taken. Negative
// elapsed banks nothing. On a step error the state and clock stay at the
// last completed step.
func (fs *FixedStep) Advance(elapsed float64) (int, error) {
	if elapsed > 0 {
		fs.acc += elapsed
	}

	steps := 0
	for fs.acc >= fs.dt {
		if fs.maxSubsteps > 0 && steps >= fs.maxSubsteps {
			fs.acc = 0
			break
		}
		next, err := fs.stepper.Step(fs.sys, fs.x, fs.t, fs.dt)
		if err != nil {
			return steps, err
		}
		fs.sys.Normalize(next)
		fs.x = next
		fs.t += fs.dt
		fs.acc -= fs.dt
		steps++
	}
	return steps, nil
}

// Step runs exactly one dt step, bypassing the accumulator.
func (fs *FixedStep) Step() error {
	next, err := fs.stepper.Step(fs.sys, fs.x, fs.t, fs.dt)
	if err != nil {
		return err
	}
	fs.sys.Normalize(next)
	fs.x = next
	fs.t += fs.dt
	return nil
}

// Dt returns the fixed timestep.
func (fs *FixedStep) Dt() float64 { return fs.dt }

// Time returns the simulated time, always a whole multiple of dt.
func (fs *FixedStep) Time() float64 { return fs.t }

// Pending returns the banked time not yet consumed, in [0, dt) between
// Advance calls.
func (fs *FixedStep) Pending() float64 { return fs.acc }

// State copies the current state into dst, growing it if needed.
func (fs *FixedStep) State(dst []float64) []float64 {
	if len(dst) != len(fs.x) {
		dst = make([]float64, len(fs.x))
	}
	copy(dst, fs.x)
	return dst
}

// SetState replaces the current state.
func (fs *FixedStep) SetState(x []float64) {
	copy(fs.x, x)
}
