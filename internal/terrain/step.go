package terrain

import "github.com/golang/geo/r3"

// Step is a half-cell ledge: flat ground for x < Size/2, a raised top at
// Height beyond it. Points inside the ledge resolve toward whichever face
// is closest so a wheel can climb the riser or be pushed off the sides.
type Step struct {
	Size   float64
	Height float64
	Rotate Rotate
	Mirror Mirror
}

func (s Step) Interference(pt r3.Vector) (Interference, bool) {
	p := mirrorIn(rotateIn(pt, s.Size, s.Rotate), s.Size, s.Mirror)

	if p.Z > s.Height {
		return Interference{}, false
	}
	if p.X < 0 || p.X > s.Size || p.Y < 0 || p.Y > s.Size {
		return Interference{}, false
	}

	out := func(inf Interference) (Interference, bool) {
		return rotateOut(mirrorOut(inf, s.Size, s.Mirror), s.Size, s.Rotate), true
	}

	// low half
	if p.X < s.Size/2 {
		if p.Z > 0 {
			return Interference{}, false
		}
		return out(Interference{
			Magnitude: -p.Z,
			Position:  r3.Vector{X: p.X, Y: p.Y},
			Normal:    r3.Vector{Z: 1},
		})
	}

	zDepth := s.Height - p.Z
	xDepth := p.X - s.Size/2
	ypDepth := s.Size - p.Y
	ynDepth := p.Y

	if xDepth > zDepth && ypDepth > zDepth && ynDepth > zDepth {
		// nearest to the top surface
		return out(Interference{
			Magnitude: zDepth,
			Position:  r3.Vector{X: p.X, Y: p.Y, Z: s.Height},
			Normal:    r3.Vector{Z: 1},
		})
	}
	if ypDepth > xDepth && ynDepth > xDepth {
		// nearest to the riser face
		return out(Interference{
			Magnitude: xDepth,
			Position:  r3.Vector{X: s.Size / 2, Y: p.Y, Z: p.Z},
			Normal:    r3.Vector{X: -1},
		})
	}
	if ypDepth > ynDepth {
		return out(Interference{
			Magnitude: ynDepth,
			Position:  r3.Vector{X: p.X, Z: p.Z},
			Normal:    r3.Vector{Y: -1},
		})
	}
	return out(Interference{
		Magnitude: ypDepth,
		Position:  r3.Vector{X: p.X, Y: s.Size, Z: p.Z},
		Normal:    r3.Vector{Y: 1},
	})
}
