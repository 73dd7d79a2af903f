package solver

// Heun is the explicit trapezoidal rule: a full Euler predictor, then the
// average of the endpoint slopes.
type Heun struct {
	k1, k2  []float64
	scratch []float64
}

func NewHeun() *Heun {
	return &Heun{}
}

func (h *Heun) Name() string { return "heun" }

func (h *Heun) ensureScratch(n int) {
	if len(h.k1) != n {
		h.k1 = make([]float64, n)
		h.k2 = make([]float64, n)
		h.scratch = make([]float64, n)
	}
}

func (h *Heun) Step(sys System, x []float64, t, dt float64) ([]float64, error) {
	n := len(x)
	h.ensureScratch(n)

	if err := sys.Derivative(h.k1, x, t); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		h.scratch[i] = x[i] + dt*h.k1[i]
	}
	if err := sys.Derivative(h.k2, h.scratch, t+dt); err != nil {
		return nil, err
	}

	result := make([]float64, n)
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt*0.5*(h.k1[i]+h.k2[i])
	}
	return result, nil
}
