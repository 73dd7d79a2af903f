package terrain

import "github.com/golang/geo/r3"

// Plane is flat ground at z=0 covering its whole cell.
type Plane struct {
	Size [2]float64
}

func (p Plane) Interference(pt r3.Vector) (Interference, bool) {
	return groundPlane(pt)
}
