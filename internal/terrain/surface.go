package terrain

import "github.com/golang/geo/r3"

// HeightFunc evaluates a surface height term at (x, y).
type HeightFunc func(x, y float64) float64

// GradFunc evaluates a term's partial derivatives (dz/dx, dz/dy).
type GradFunc func(x, y float64) (float64, float64)

// Surface is an analytic height field built as a product of terms, each
// with its gradient. Multiplying terms lets a wave profile be faded to
// zero at cell borders so neighboring cells join continuously.
type Surface struct {
	Size  [2]float64
	Funcs []HeightFunc
	Grads []GradFunc
}

func (s Surface) evaluate(x, y float64) (height, dx, dy float64) {
	height = 1.0
	partsX := make([]float64, len(s.Funcs))
	partsY := make([]float64, len(s.Funcs))
	for i := range partsX {
		partsX[i] = 1
		partsY[i] = 1
	}

	// product rule across the factored terms
	for iFun, fn := range s.Funcs {
		v := fn(x, y)
		gx, gy := s.Grads[iFun](x, y)

		height *= v
		for i := range s.Funcs {
			if i == iFun {
				partsX[i] *= gx
				partsY[i] *= gy
			} else {
				partsX[i] *= v
				partsY[i] *= v
			}
		}
	}

	for i := range partsX {
		dx += partsX[i]
		dy += partsY[i]
	}
	return height, dx, dy
}

func (s Surface) Interference(p r3.Vector) (Interference, bool) {
	if p.X < 0 || p.X > s.Size[0] || p.Y < 0 || p.Y > s.Size[1] {
		return Interference{}, false
	}

	height, dx, dy := s.evaluate(p.X, p.Y)
	if p.Z > height {
		return Interference{}, false
	}

	return Interference{
		Magnitude: height - p.Z,
		Position:  r3.Vector{X: p.X, Y: p.Y, Z: height},
		Normal:    r3.Vector{X: -dx, Y: -dy, Z: 1}.Normalize(),
	}, true
}
