// Package metrics provides per-step observers accumulated over a
// simulation run.
package metrics

// Metric observes each recorded state and reduces the run to one number.
type Metric interface {
	Name() string
	Observe(x []float64, t float64)
	Value() float64
	Reset()
}
