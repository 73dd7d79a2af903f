package analysis

import (
	"strings"

	"github.com/san-kum/mbdsim/internal/solver"
)

// PhasePortrait2D is a recorded trajectory projected onto two state
// components.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []struct{ X, Y float64 }
}

// PhasePortrait integrates sys from x0 and records the (xIdx, yIdx)
// projection after every step.
func PhasePortrait(
	sys solver.System,
	stepper solver.Stepper,
	x0 []float64,
	xIdx, yIdx int,
	dt, duration float64,
) (*PhasePortrait2D, error) {
	steps := int(duration / dt)
	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]struct{ X, Y float64 }, 0, steps),
	}

	x := make([]float64, len(x0))
	copy(x, x0)

	for i := 0; i < steps; i++ {
		next, err := stepper.Step(sys, x, float64(i)*dt, dt)
		if err != nil {
			return portrait, err
		}
		sys.Normalize(next)
		x = next
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{
			X: x[xIdx],
			Y: x[yIdx],
		})
	}
	return portrait, nil
}

// ASCII renders the portrait on a character canvas with axes where they
// cross the visible range.
func (p *PhasePortrait2D) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX = min(minX, pt.X)
		maxX = max(maxX, pt.X)
		minY = min(minY, pt.Y)
		maxY = max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
