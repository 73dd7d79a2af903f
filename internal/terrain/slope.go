package terrain

import "github.com/golang/geo/r3"

// Slope is a planar ramp descending from Height at y=0 to 0 at y=Size.
type Slope struct {
	Size   float64
	Height float64
	Rotate Rotate
}

func (s Slope) Interference(pt r3.Vector) (Interference, bool) {
	p := rotateIn(pt, s.Size, s.Rotate)

	if p.Z > s.Height {
		return Interference{}, false
	}
	if p.X < 0 || p.X > s.Size || p.Y < 0 || p.Y > s.Size {
		return Interference{}, false
	}

	normal := r3.Vector{Y: s.Height, Z: s.Size}.Normalize()
	top := r3.Vector{Z: s.Height}
	depth := -normal.Dot(p.Sub(top))
	if depth < 0 {
		return Interference{}, false
	}

	inf := Interference{
		Magnitude: depth,
		Position:  p.Sub(normal.Mul(depth)),
		Normal:    normal,
	}
	return rotateOut(inf, s.Size, s.Rotate), true
}
