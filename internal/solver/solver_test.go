package solver

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

// unit harmonic oscillator, exact solution x(t) = cos(t)
type oscillator struct{}

func (oscillator) StateDim() int { return 2 }
func (oscillator) Normalize([]float64) {}
func (oscillator) Derivative(dst, x []float64, t float64) error {
	dst[0] = x[1]
	dst[1] = -x[0]
	return nil
}

func globalError(t *testing.T, s Stepper, dt float64) float64 {
	t.Helper()
	sys := oscillator{}
	x := []float64{1, 0}
	tEnd := 2.0
	steps := int(math.Round(tEnd / dt))
	var err error
	for i := 0; i < steps; i++ {
		x, err = s.Step(sys, x, float64(i)*dt, dt)
		if err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}
	return math.Abs(x[0] - math.Cos(tEnd))
}

func TestConvergenceOrder(t *testing.T) {
	cases := []struct {
		stepper Stepper
		order   float64
	}{
		{NewEuler(), 1},
		{NewMidpoint(), 2},
		{NewHeun(), 2},
		{NewRK4(), 4},
	}

	for _, tc := range cases {
		e1 := globalError(t, tc.stepper, 1e-2)
		e2 := globalError(t, tc.stepper, 5e-3)
		got := math.Log2(e1 / e2)
		if math.Abs(got-tc.order) > 0.25 {
			t.Errorf("%s: observed order %.2f, expected %.0f (errors %.3e, %.3e)",
				tc.stepper.Name(), got, tc.order, e1, e2)
		}
	}
}

func TestRK4Accuracy(t *testing.T) {
	s := NewRK4()
	if e := globalError(t, s, 1e-2); e > 1e-8 {
		t.Errorf("rk4 global error %.3e, expected below 1e-8", e)
	}
}

func TestFromName(t *testing.T) {
	for _, name := range Schemes() {
		s, err := FromName(name)
		if err != nil {
			t.Fatalf("FromName(%q): %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("FromName(%q) returned %q", name, s.Name())
		}
	}
	if s, err := FromName(" RK4 "); err != nil || s.Name() != "rk4" {
		t.Errorf("scheme parsing should be case and space insensitive, got %v, %v", s, err)
	}
	if _, err := FromName("leapfrog"); !errors.Is(err, ErrUnknownScheme) {
		t.Errorf("expected ErrUnknownScheme, got %v", err)
	}
}

// failAfter returns an error once its budget of evaluations is spent.
type failAfter struct {
	remaining int
}

var errBoom = errors.New("boom")

func (f *failAfter) StateDim() int { return 1 }
func (f *failAfter) Normalize([]float64) {}
func (f *failAfter) Derivative(dst, x []float64, t float64) error {
	if f.remaining <= 0 {
		return errBoom
	}
	f.remaining--
	dst[0] = 1
	return nil
}

func TestStepErrorPropagates(t *testing.T) {
	// the failure surfaces no matter which sub-evaluation hits it
	for _, s := range []Stepper{NewEuler(), NewMidpoint(), NewHeun(), NewRK4()} {
		for budget := 0; budget < 4; budget++ {
			sys := &failAfter{remaining: budget}
			_, err := s.Step(sys, []float64{0}, 0, 0.1)
			if budget >= evaluations(s) {
				if err != nil {
					t.Errorf("%s with budget %d: unexpected error %v", s.Name(), budget, err)
				}
				continue
			}
			if !errors.Is(err, errBoom) {
				t.Errorf("%s with budget %d: expected propagated error, got %v", s.Name(), budget, err)
			}
		}
	}
}

func evaluations(s Stepper) int {
	switch s.Name() {
	case "euler":
		return 1
	case "midpoint", "heun":
		return 2
	default:
		return 4
	}
}

type countingSystem struct {
	oscillator
	normalized int
}

func (c *countingSystem) Normalize([]float64) { c.normalized++ }

func TestFixedStepAccumulator(t *testing.T) {
	sys := &countingSystem{}
	fs, err := NewFixedStep(sys, NewEuler(), 0.01, []float64{1, 0})
	if err != nil {
		t.Fatal(err)
	}

	steps, err := fs.Advance(0.035)
	if err != nil {
		t.Fatal(err)
	}
	if steps != 3 {
		t.Errorf("0.035s at dt=0.01 should drain 3 steps, got %d", steps)
	}
	if p := fs.Pending(); math.Abs(p-0.005) > 1e-12 {
		t.Errorf("remainder should carry over, pending=%g", p)
	}

	// the carried remainder tops up to a whole step
	steps, err = fs.Advance(0.005)
	if err != nil {
		t.Fatal(err)
	}
	if steps != 1 {
		t.Errorf("carried remainder should complete a step, got %d", steps)
	}
	if math.Abs(fs.Time()-0.04) > 1e-12 {
		t.Errorf("simulated time should be 4*dt, got %g", fs.Time())
	}
	if sys.normalized != 4 {
		t.Errorf("Normalize should run once per step, got %d", sys.normalized)
	}
}

func TestFixedStepSmallAdvances(t *testing.T) {
	fs, err := NewFixedStep(oscillator{}, NewEuler(), 0.01, []float64{1, 0})
	if err != nil {
		t.Fatal(err)
	}

	// feed time in slices smaller than dt; total steps must match the
	// total banked time
	total := 0
	for i := 0; i < 100; i++ {
		n, err := fs.Advance(0.004)
		if err != nil {
			t.Fatal(err)
		}
		total += n
	}
	if total != 40 {
		t.Errorf("0.4s at dt=0.01 should yield 40 steps, got %d", total)
	}
}

func TestFixedStepMaxSubsteps(t *testing.T) {
	fs, err := NewFixedStep(oscillator{}, NewEuler(), 0.01, []float64{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	fs.SetMaxSubsteps(5)

	steps, err := fs.Advance(1.0)
	if err != nil {
		t.Fatal(err)
	}
	if steps != 5 {
		t.Errorf("cap should limit to 5 steps, got %d", steps)
	}
	if fs.Pending() != 0 {
		t.Errorf("surplus backlog should be dropped, pending=%g", fs.Pending())
	}
}

func TestFixedStepInvalidTimestep(t *testing.T) {
	for _, dt := range []float64{0, -0.01} {
		if _, err := NewFixedStep(oscillator{}, NewEuler(), dt, []float64{0}); !errors.Is(err, ErrInvalidTimestep) {
			t.Errorf("dt=%g: expected ErrInvalidTimestep, got %v", dt, err)
		}
	}
}

func TestFixedStepErrorKeepsState(t *testing.T) {
	sys := &failAfter{remaining: 2}
	fs, err := NewFixedStep(sys, NewEuler(), 0.01, []float64{0})
	if err != nil {
		t.Fatal(err)
	}

	steps, err := fs.Advance(0.05)
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected propagated error, got %v", err)
	}
	if steps != 2 {
		t.Errorf("expected 2 completed steps before failure, got %d", steps)
	}
	if math.Abs(fs.Time()-0.02) > 1e-12 {
		t.Errorf("clock should stop at last completed step, got %g", fs.Time())
	}
	x := fs.State(nil)
	if math.Abs(x[0]-0.02) > 1e-12 {
		t.Errorf("state should reflect completed steps only, got %g", x[0])
	}
}
