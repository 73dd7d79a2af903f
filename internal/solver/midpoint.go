package solver

// Midpoint is the explicit midpoint rule: one Euler half step to the
// interval midpoint, then a full step using the midpoint slope.
type Midpoint struct {
	k1, k2  []float64
	scratch []float64
}

func NewMidpoint() *Midpoint {
	return &Midpoint{}
}

func (m *Midpoint) Name() string { return "midpoint" }

func (m *Midpoint) ensureScratch(n int) {
	if len(m.k1) != n {
		m.k1 = make([]float64, n)
		m.k2 = make([]float64, n)
		m.scratch = make([]float64, n)
	}
}

func (m *Midpoint) Step(sys System, x []float64, t, dt float64) ([]float64, error) {
	n := len(x)
	m.ensureScratch(n)

	if err := sys.Derivative(m.k1, x, t); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.scratch[i] = x[i] + dt*0.5*m.k1[i]
	}
	if err := sys.Derivative(m.k2, m.scratch, t+dt*0.5); err != nil {
		return nil, err
	}

	result := make([]float64, n)
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt*m.k2[i]
	}
	return result, nil
}
