package terrain

import "github.com/golang/geo/r3"

// Rotate turns an element a quarter-turn multiple within its square cell.
type Rotate int

const (
	RotateNone Rotate = iota
	Rotate90
	Rotate180
	Rotate270
)

// Mirror reflects an element across a cell midplane.
type Mirror int

const (
	MirrorNone Mirror = iota
	MirrorXZ
	MirrorYZ
)

// rotateIn maps a grid-local point into the element's unrotated frame.
func rotateIn(p r3.Vector, size float64, r Rotate) r3.Vector {
	switch r {
	case Rotate90:
		return r3.Vector{X: p.Y, Y: size - p.X, Z: p.Z}
	case Rotate180:
		return r3.Vector{X: size - p.X, Y: size - p.Y, Z: p.Z}
	case Rotate270:
		return r3.Vector{X: size - p.Y, Y: p.X, Z: p.Z}
	}
	return p
}

// rotateOut maps an interference computed in the unrotated frame back to
// grid-local coordinates.
func rotateOut(inf Interference, size float64, r Rotate) Interference {
	switch r {
	case Rotate90:
		inf.Position = r3.Vector{X: size - inf.Position.Y, Y: inf.Position.X, Z: inf.Position.Z}
		inf.Normal = r3.Vector{X: -inf.Normal.Y, Y: inf.Normal.X, Z: inf.Normal.Z}
	case Rotate180:
		inf.Position = r3.Vector{X: size - inf.Position.X, Y: size - inf.Position.Y, Z: inf.Position.Z}
		inf.Normal = r3.Vector{X: -inf.Normal.X, Y: -inf.Normal.Y, Z: inf.Normal.Z}
	case Rotate270:
		inf.Position = r3.Vector{X: inf.Position.Y, Y: size - inf.Position.X, Z: inf.Position.Z}
		inf.Normal = r3.Vector{X: inf.Normal.Y, Y: -inf.Normal.X, Z: inf.Normal.Z}
	}
	return inf
}

func mirrorIn(p r3.Vector, size float64, m Mirror) r3.Vector {
	switch m {
	case MirrorXZ:
		p.Y = size - p.Y
	case MirrorYZ:
		p.X = size - p.X
	}
	return p
}

func mirrorOut(inf Interference, size float64, m Mirror) Interference {
	switch m {
	case MirrorXZ:
		inf.Position.Y = size - inf.Position.Y
		inf.Normal.Y = -inf.Normal.Y
	case MirrorYZ:
		inf.Position.X = size - inf.Position.X
		inf.Normal.X = -inf.Normal.X
	}
	return inf
}
