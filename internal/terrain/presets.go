package terrain

import "math"

// Flat is endless level ground.
func Flat() *Grid {
	return NewGrid([][]Element{{Plane{Size: [2]float64{10, 10}}}}, [2]float64{10, 10})
}

// Steps builds a row of ledges with the given heights, each step cell
// flanked by its mirrored exit and a recovery plane.
func Steps(size float64, heights []float64) *Grid {
	elements := make([][]Element, 0, len(heights))
	for _, h := range heights {
		elements = append(elements, []Element{
			Step{Size: size, Height: h},
			Step{Size: size, Height: h, Rotate: Rotate180},
			Plane{Size: [2]float64{size, size}},
		})
	}
	return NewGrid(elements, [2]float64{size, size})
}

// Wave builds a 3x3 patch of cosine waves faded to zero at the outer
// borders so the patch meets the surrounding flat ground smoothly.
func Wave(size, height, waveLength float64) *Grid {
	xStart := func(x, _ float64) float64 { return x / size }
	xEnd := func(x, _ float64) float64 { return 1 - x/size }
	yStart := func(_, y float64) float64 { return y / size }
	yEnd := func(_, y float64) float64 { return 1 - y/size }

	dxStart := func(_, _ float64) (float64, float64) { return 1 / size, 0 }
	dxEnd := func(_, _ float64) (float64, float64) { return -1 / size, 0 }
	dyStart := func(_, _ float64) (float64, float64) { return 0, 1 / size }
	dyEnd := func(_, _ float64) (float64, float64) { return 0, -1 / size }

	k := 2 * math.Pi / waveLength
	z := func(x, _ float64) float64 { return height * math.Cos(k*x) }
	dz := func(x, _ float64) (float64, float64) { return -height * k * math.Sin(k*x), 0 }

	cell := func(funcs []HeightFunc, grads []GradFunc) Element {
		return Surface{Size: [2]float64{size, size}, Funcs: funcs, Grads: grads}
	}

	elements := [][]Element{
		{
			cell([]HeightFunc{z, xStart, yStart}, []GradFunc{dz, dxStart, dyStart}),
			cell([]HeightFunc{z, yStart}, []GradFunc{dz, dyStart}),
			cell([]HeightFunc{z, xEnd, yStart}, []GradFunc{dz, dxEnd, dyStart}),
		},
		{
			cell([]HeightFunc{z, xStart}, []GradFunc{dz, dxStart}),
			cell([]HeightFunc{z}, []GradFunc{dz}),
			cell([]HeightFunc{z, xEnd}, []GradFunc{dz, dxEnd}),
		},
		{
			cell([]HeightFunc{z, xStart, yEnd}, []GradFunc{dz, dxStart, dyEnd}),
			cell([]HeightFunc{z, yEnd}, []GradFunc{dz, dyEnd}),
			cell([]HeightFunc{z, xEnd, yEnd}, []GradFunc{dz, dxEnd, dyEnd}),
		},
	}
	return NewGrid(elements, [2]float64{size, size})
}

// Ramp is a single slope cell up onto a table of plane cells.
func Ramp(size, height float64) *Grid {
	elements := [][]Element{{
		Slope{Size: size, Height: height, Rotate: Rotate90},
		Plane{Size: [2]float64{size, size}},
	}}
	return NewGrid(elements, [2]float64{size, size})
}

// ByName resolves the terrain names used in run configurations. Unknown
// names get flat ground.
func ByName(name string) *Grid {
	switch name {
	case "steps":
		return Steps(4, []float64{0.1, 0.2, 0.3})
	case "slope":
		return Ramp(8, 1)
	case "wave":
		return Wave(10, 0.15, 2.5)
	case "mixed":
		// step rows into a wave patch, same cell pitch throughout
		g := Steps(10, []float64{0.1, 0.2})
		wave := Wave(10, 0.1, 2.5)
		g.elements = append(g.elements, wave.elements...)
		return g
	default:
		return Flat()
	}
}
