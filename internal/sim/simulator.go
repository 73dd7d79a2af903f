package sim

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/san-kum/mbdsim/internal/metrics"
	"github.com/san-kum/mbdsim/internal/solver"
)

// Config holds the run parameters for a batch simulation.
type Config struct {
	Dt       float64
	Duration float64
	// Record controls whether every step's state is kept in the Result.
	// The final state is always kept.
	Record bool
}

// Result collects a completed (or interrupted) run.
type Result struct {
	States  [][]float64
	Times   []float64
	Final   []float64
	Steps   int
	Metrics map[string]float64
}

// Observer is called after every completed step.
type Observer interface {
	OnStep(x []float64, t float64)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(x []float64, t float64)

func (f ObserverFunc) OnStep(x []float64, t float64) { f(x, t) }

// Simulator runs batch simulations of one plant.
type Simulator struct {
	plant     *Plant
	stepper   solver.Stepper
	metrics   []metrics.Metric
	observers []Observer
	logger    golog.Logger
}

func New(plant *Plant, stepper solver.Stepper, logger golog.Logger) *Simulator {
	return &Simulator{plant: plant, stepper: stepper, logger: logger}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

// Run integrates from x0 for cfg.Duration. The returned Result holds
// whatever completed before an error or cancellation; the error carries
// step and time context around the cause.
func (s *Simulator) Run(ctx context.Context, x0 []float64, cfg Config) (*Result, error) {
	if cfg.Dt <= 0 {
		return nil, errors.Wrapf(solver.ErrInvalidTimestep, "dt=%g", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return nil, errors.Wrapf(ErrInvalidDuration, "duration=%g", cfg.Duration)
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		Metrics: make(map[string]float64),
	}
	if cfg.Record {
		result.States = make([][]float64, 0, steps+1)
		result.Times = make([]float64, 0, steps+1)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := make([]float64, len(x0))
	copy(x, x0)
	t := 0.0

	record := func() {
		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, o := range s.observers {
			o.OnStep(x, t)
		}
		if cfg.Record {
			c := make([]float64, len(x))
			copy(c, x)
			result.States = append(result.States, c)
			result.Times = append(result.Times, t)
		}
	}
	record()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, x)
			return result, ctx.Err()
		default:
		}

		next, err := s.stepper.Step(s.plant, x, t, cfg.Dt)
		if err != nil {
			s.finish(result, x)
			return result, &StepError{Step: i, Time: t, Wrapped: err}
		}
		s.plant.Normalize(next)
		x = next
		t += cfg.Dt
		result.Steps++
		record()
	}

	s.finish(result, x)
	s.logger.Debugw("run complete",
		"steps", result.Steps,
		"scheme", s.stepper.Name(),
		"dt", cfg.Dt,
	)
	return result, nil
}

func (s *Simulator) finish(result *Result, x []float64) {
	result.Final = make([]float64, len(x))
	copy(result.Final, x)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
