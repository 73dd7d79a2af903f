package tui

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	liveWidth   = 70
	liveHeight  = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a plain ANSI view for non-interactive runs. It implements
// sim.Observer and throttles itself to the requested frame rate; steps
// between frames are skipped, not buffered.
type LiveRenderer struct {
	scenario  string
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	trail     []struct{ x, y int }
}

func NewLiveRenderer(scenario string, frameRate int) *LiveRenderer {
	canvas := make([][]rune, liveHeight)
	for i := range canvas {
		canvas[i] = make([]rune, liveWidth)
	}
	return &LiveRenderer{
		scenario:  scenario,
		frameRate: frameRate,
		canvas:    canvas,
		trail:     make([]struct{ x, y int }, 0, 50),
	}
}

func (r *LiveRenderer) OnStep(x []float64, t float64) {
	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.clear()

	switch r.scenario {
	case "pendulum":
		r.drawPendulum(x)
	case "double_pendulum":
		r.drawDoublePendulum(x)
	case "slider":
		r.drawSlider(x)
	case "brick", "car":
		r.drawBody(x)
	default:
		r.drawGeneric(x)
	}

	r.render(x, t)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < liveWidth && y >= 0 && y < liveHeight {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := intAbs(x2 - x1)
	dy := intAbs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (r *LiveRenderer) mark(x, y int) {
	r.trail = append(r.trail, struct{ x, y int }{x, y})
	if len(r.trail) > 40 {
		r.trail = r.trail[1:]
	}
	for i, pt := range r.trail {
		if i < len(r.trail)/2 {
			r.set(pt.x, pt.y, '.')
		} else {
			r.set(pt.x, pt.y, 'o')
		}
	}
}

func (r *LiveRenderer) drawPendulum(x []float64) {
	if len(x) < 2 {
		return
	}
	theta := x[0]
	px, py := liveWidth/2, 3
	length := 10.0
	bx := px + int(length*math.Sin(theta))
	by := py + int(length*math.Cos(theta))

	r.mark(bx, by)
	r.set(px, py, '+')
	r.line(px, py, bx, by, '|')
	r.set(bx, by, 'O')
}

func (r *LiveRenderer) drawDoublePendulum(x []float64) {
	if len(x) < 4 {
		return
	}
	t1, t2 := x[0], x[0]+x[1]
	px, py := liveWidth/2, 2
	length := 6.0

	b1x := px + int(length*math.Sin(t1))
	b1y := py + int(length*math.Cos(t1))
	b2x := b1x + int(length*math.Sin(t2))
	b2y := b1y + int(length*math.Cos(t2))

	r.mark(b2x, b2y)
	r.set(px, py, '+')
	r.line(px, py, b1x, b1y, '|')
	r.set(b1x, b1y, 'o')
	r.line(b1x, b1y, b2x, b2y, '|')
	r.set(b2x, b2y, 'O')
}

func (r *LiveRenderer) drawSlider(x []float64) {
	if len(x) < 2 {
		return
	}
	pos := x[0]
	cx := liveWidth / 2

	my := liveHeight/2 - int(pos*8)
	if my < 2 {
		my = 2
	}
	if my > liveHeight-3 {
		my = liveHeight - 3
	}

	for y := 0; y < my-1; y += 2 {
		r.set(cx, y, '~')
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			r.set(cx+dx, my+dy, '#')
		}
	}
}

// drawBody shows a free body from the side: x along the screen, z up.
func (r *LiveRenderer) drawBody(x []float64) {
	if len(x) < 13 {
		return
	}
	px, pz := x[4], x[6]

	for i := 3; i < liveWidth-3; i++ {
		r.set(i, liveHeight-2, '_')
	}

	bx := liveWidth/2 + int(px)%20
	by := liveHeight - 3 - int(pz*2)
	if by < 1 {
		by = 1
	}

	r.mark(bx, by)
	r.set(bx, by, 'X')
}

func (r *LiveRenderer) drawGeneric(x []float64) {
	cy := liveHeight / 2
	for i := 5; i < liveWidth-5; i++ {
		r.set(i, cy, '-')
	}

	if len(x) == 0 {
		return
	}

	bw := (liveWidth - 15) / len(x)
	if bw < 3 {
		bw = 3
	}

	maxVal := 1.0
	for _, v := range x {
		if math.Abs(v) > maxVal {
			maxVal = math.Abs(v)
		}
	}

	for i, v := range x {
		bx := 8 + i*bw
		bh := int((v / maxVal) * float64(liveHeight/3))
		if bh > 0 {
			for y := cy - 1; y >= cy-bh && y >= 1; y-- {
				r.set(bx, y, '#')
			}
		} else {
			for y := cy + 1; y <= cy-bh && y < liveHeight-1; y++ {
				r.set(bx, y, '#')
			}
		}
	}
}

func (r *LiveRenderer) render(x []float64, t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs\n", r.scenario, t))
	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")

	stateStr := "  "
	for i, v := range x {
		if i >= 4 {
			break
		}
		stateStr += fmt.Sprintf("x%d=%.2f ", i, v)
	}
	b.WriteString(stateStr + "\n")

	fmt.Print(b.String())
}

func (r *LiveRenderer) Start() { fmt.Print(hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Print(showCursor) }
