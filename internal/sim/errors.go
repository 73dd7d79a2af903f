package sim

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidDuration reports a non-positive run duration.
	ErrInvalidDuration = errors.New("duration must be positive")
)

// StepError wraps a failure with the step index and simulated time where it
// happened. errors.Is/As reach the wrapped cause.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6gs): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
