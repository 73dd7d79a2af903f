package solver

type Euler struct {
	k []float64
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(sys System, x []float64, t, dt float64) ([]float64, error) {
	n := len(x)
	if len(e.k) != n {
		e.k = make([]float64, n)
	}

	if err := sys.Derivative(e.k, x, t); err != nil {
		return nil, err
	}

	result := make([]float64, n)
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt*e.k[i]
	}
	return result, nil
}
