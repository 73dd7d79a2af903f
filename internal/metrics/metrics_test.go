package metrics

import (
	"math"
	"testing"
)

func TestEnergyDrift(t *testing.T) {
	// energy proportional to the state's first component
	drift := NewEnergyDrift(func(x []float64) float64 { return x[0] })

	drift.Observe([]float64{10}, 0)
	drift.Observe([]float64{10.5}, 1)
	drift.Observe([]float64{9.8}, 2)

	if got := drift.Value(); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("expected max relative drift 0.05, got %g", got)
	}

	drift.Reset()
	if drift.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestEnergyMean(t *testing.T) {
	mean := NewEnergyMean(func(x []float64) float64 { return x[0] })
	mean.Observe([]float64{2}, 0)
	mean.Observe([]float64{4}, 1)

	if got := mean.Value(); got != 3 {
		t.Errorf("expected mean 3, got %g", got)
	}
}

func TestStability(t *testing.T) {
	s := NewStability(100)
	s.Observe([]float64{1, 2}, 0)
	s.Observe([]float64{500, 0}, 1)
	s.Observe([]float64{math.NaN(), 0}, 2)
	s.Observe([]float64{3, 4}, 3)

	if got := s.Value(); got != 0.5 {
		t.Errorf("expected stability 0.5, got %g", got)
	}
}

func TestPeakVelocity(t *testing.T) {
	p := NewPeakVelocity(2)
	p.Observe([]float64{99, 99, 1, -3}, 0)
	p.Observe([]float64{99, 99, 2.5, 0}, 1)

	if got := p.Value(); got != 3 {
		t.Errorf("expected peak 3, got %g", got)
	}
}
