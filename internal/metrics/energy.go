package metrics

import "math"

// EnergyFunc evaluates mechanical energy at a state.
type EnergyFunc func(x []float64) float64

type EnergyMean struct {
	name    string
	fn      EnergyFunc
	sum     float64
	samples int
}

func NewEnergyMean(fn EnergyFunc) *EnergyMean {
	return &EnergyMean{name: "energy_mean", fn: fn}
}

func (e *EnergyMean) Name() string { return e.name }

func (e *EnergyMean) Observe(x []float64, t float64) {
	e.sum += e.fn(x)
	e.samples++
}

func (e *EnergyMean) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *EnergyMean) Reset() {
	e.sum = 0
	e.samples = 0
}

// EnergyDrift tracks the worst relative deviation from the energy at the
// first observed state. For a conservative system this measures integrator
// quality.
type EnergyDrift struct {
	name     string
	fn       EnergyFunc
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(fn EnergyFunc) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", fn: fn}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x []float64, t float64) {
	energy := e.fn(x)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
