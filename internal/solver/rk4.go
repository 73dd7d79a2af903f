package solver

type RK4 struct {
	k1, k2, k3, k4 []float64
	scratch        []float64
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make([]float64, n)
		r.k2 = make([]float64, n)
		r.k3 = make([]float64, n)
		r.k4 = make([]float64, n)
		r.scratch = make([]float64, n)
	}
}

func (r *RK4) Step(sys System, x []float64, t, dt float64) ([]float64, error) {
	n := len(x)
	r.ensureScratch(n)

	if err := sys.Derivative(r.k1, x, t); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	if err := sys.Derivative(r.k2, r.scratch, t+dt*0.5); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	if err := sys.Derivative(r.k3, r.scratch, t+dt*0.5); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	if err := sys.Derivative(r.k4, r.scratch, t+dt); err != nil {
		return nil, err
	}

	result := make([]float64, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return result, nil
}
