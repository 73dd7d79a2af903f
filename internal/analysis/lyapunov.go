package analysis

import (
	"math"

	"github.com/san-kum/mbdsim/internal/solver"
)

// LyapunovExponent estimates the largest Lyapunov exponent by tracking the
// separation of two nearby trajectories, renormalizing when they drift
// apart. A clearly positive value indicates chaotic dynamics.
func LyapunovExponent(
	sys solver.System,
	stepper func() solver.Stepper,
	x0 []float64,
	dt, duration, perturbation float64,
) (float64, error) {
	if len(x0) == 0 || perturbation <= 0 {
		return 0, nil
	}

	x := make([]float64, len(x0))
	xp := make([]float64, len(x0))
	copy(x, x0)
	copy(xp, x0)
	xp[0] += perturbation

	// independent scratch per trajectory
	sa := stepper()
	sb := stepper()

	d0 := perturbation
	sumLog := 0.0
	count := 0
	steps := int(duration / dt)

	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		var err error
		if x, err = sa.Step(sys, x, t, dt); err != nil {
			return 0, err
		}
		sys.Normalize(x)
		if xp, err = sb.Step(sys, xp, t, dt); err != nil {
			return 0, err
		}
		sys.Normalize(xp)

		sep := 0.0
		for j := range x {
			diff := xp[j] - x[j]
			sep += diff * diff
		}
		sep = math.Sqrt(sep)

		// Benettin: bank the growth each step and renormalize back to d0
		if sep > 0 {
			sumLog += math.Log(sep / d0)
			count++

			scale := d0 / sep
			for j := range xp {
				xp[j] = x[j] + (xp[j]-x[j])*scale
			}
		}
	}

	if count == 0 {
		return 0, nil
	}
	return sumLog / (float64(count) * dt), nil
}
