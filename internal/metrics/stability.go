package metrics

import "math"

// Stability reports the fraction of observed states whose components all
// stayed within a magnitude threshold. NaN counts as a violation.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{name: "stability", threshold: threshold}
}

func (s *Stability) Name() string { return s.name }

func (s *Stability) Observe(x []float64, t float64) {
	s.samples++
	for _, val := range x {
		if math.IsNaN(val) || math.Abs(val) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// PeakVelocity tracks the largest absolute value seen in the velocity
// segment of the state, given its offset.
type PeakVelocity struct {
	name   string
	offset int
	peak   float64
}

func NewPeakVelocity(velocityOffset int) *PeakVelocity {
	return &PeakVelocity{name: "peak_velocity", offset: velocityOffset}
}

func (p *PeakVelocity) Name() string { return p.name }

func (p *PeakVelocity) Observe(x []float64, t float64) {
	for _, v := range x[p.offset:] {
		p.peak = math.Max(p.peak, math.Abs(v))
	}
}

func (p *PeakVelocity) Value() float64 { return p.peak }

func (p *PeakVelocity) Reset() { p.peak = 0 }
