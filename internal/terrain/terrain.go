// Package terrain models the ground as a grid of surface elements queried
// for point interference.
package terrain

import "github.com/golang/geo/r3"

// Interference describes a point found below a surface: how deep it sits,
// the surface position it maps back to, and the outward surface normal
// there.
type Interference struct {
	Magnitude float64
	Position  r3.Vector
	Normal    r3.Vector
}

// Element is one grid cell's surface, queried in cell-local coordinates.
type Element interface {
	Interference(p r3.Vector) (Interference, bool)
}

// Grid tiles elements over the x-y plane with a fixed cell pitch. Queries
// outside the tiled region fall back to the z=0 plane.
type Grid struct {
	elements [][]Element
	step     [2]float64
}

func NewGrid(elements [][]Element, step [2]float64) *Grid {
	return &Grid{elements: elements, step: step}
}

func groundPlane(p r3.Vector) (Interference, bool) {
	if p.Z < 0 {
		return Interference{
			Magnitude: -p.Z,
			Position:  r3.Vector{X: p.X, Y: p.Y},
			Normal:    r3.Vector{Z: 1},
		}, true
	}
	return Interference{}, false
}

// Interference locates the cell containing p and queries it in local
// coordinates, shifting the contact position back to grid coordinates.
func (g *Grid) Interference(p r3.Vector) (Interference, bool) {
	if p.X < 0 || p.Y < 0 {
		return groundPlane(p)
	}

	xi := int(p.X / g.step[0])
	yi := int(p.Y / g.step[1])

	if yi >= len(g.elements) || xi >= len(g.elements[yi]) {
		return groundPlane(p)
	}

	offset := r3.Vector{X: float64(xi) * g.step[0], Y: float64(yi) * g.step[1]}
	inf, ok := g.elements[yi][xi].Interference(p.Sub(offset))
	if !ok {
		return Interference{}, false
	}
	inf.Position = inf.Position.Add(offset)
	return inf, true
}
