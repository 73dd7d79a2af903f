package tui

import (
	"math"
	"strings"
)

func (m model) drawPendulum(canvas [][]rune, w, h int, x []float64) {
	if len(x) < 2 {
		return
	}
	theta := x[0]
	px, py := w/2, 2
	length := float64(h) * 0.65
	bx := px + int(length*math.Sin(theta))
	by := py + int(length*math.Cos(theta))

	for _, pt := range m.trail {
		tx := px + int(length*math.Sin(pt.x))
		ty := py + int(length*math.Cos(pt.x))
		set(canvas, tx, ty, '·', w, h)
	}

	set(canvas, px, py, '▼', w, h)
	drawLine(canvas, w, h, px, py, bx, by, '│')
	set(canvas, bx, by, '⬤', w, h)
}

func (m model) drawDoublePendulum(canvas [][]rune, w, h int, x []float64) {
	if len(x) < 4 {
		return
	}
	// joint angles are relative, the lower link hangs off the upper one
	t1, t2 := x[0], x[0]+x[1]
	px, py := w/2, 1
	length := float64(h) * 0.38

	b1x := px + int(length*math.Sin(t1))
	b1y := py + int(length*math.Cos(t1))
	b2x := b1x + int(length*math.Sin(t2))
	b2y := b1y + int(length*math.Cos(t2))

	for _, pt := range m.trail {
		a1, a2 := pt.x, pt.x+pt.y
		tx := px + int(length*math.Sin(a1)) + int(length*math.Sin(a2))
		ty := py + int(length*math.Cos(a1)) + int(length*math.Cos(a2))
		set(canvas, tx, ty, '·', w, h)
	}

	set(canvas, px, py, '▼', w, h)
	drawLine(canvas, w, h, px, py, b1x, b1y, '│')
	set(canvas, b1x, b1y, '●', w, h)
	drawLine(canvas, w, h, b1x, b1y, b2x, b2y, '│')
	set(canvas, b2x, b2y, '⬤', w, h)
}

func (m model) drawSlider(canvas [][]rune, w, h int, x []float64) {
	if len(x) < 2 {
		return
	}
	pos := x[0]
	cx := w / 2

	for y := 1; y < h-1; y++ {
		set(canvas, cx-6, y, '┆', w, h)
		set(canvas, cx+6, y, '┆', w, h)
	}

	my := h/2 - int(pos*float64(h)/2)
	if my < 2 {
		my = 2
	}
	if my > h-3 {
		my = h - 3
	}

	// spring coils from the anchor down to the mass
	for y := 1; y < my-1; y++ {
		off := 0
		if y%2 == 0 {
			off = 1
		} else {
			off = -1
		}
		set(canvas, cx+off, y, '~', w, h)
	}

	for dy := -1; dy <= 1; dy++ {
		for dx := -2; dx <= 2; dx++ {
			set(canvas, cx+dx, my+dy, '█', w, h)
		}
	}
}

func (m model) drawBrick(canvas [][]rune, w, h int, x []float64) {
	if len(x) < 13 {
		return
	}
	pz := x[6]
	pitch := pitchFromQuat(x[0], x[1], x[2], x[3])

	for i := 1; i < w-1; i++ {
		set(canvas, i, h-1, '▀', w, h)
	}

	bx := w / 2
	by := h - 2 - int(pz*float64(h-4)/6.0)
	if by < 1 {
		by = 1
	}

	arm := 5.0
	lx := bx - int(arm*math.Cos(pitch))
	ly := by - int(arm*math.Sin(pitch))
	rx := bx + int(arm*math.Cos(pitch))
	ry := by + int(arm*math.Sin(pitch))

	drawLine(canvas, w, h, lx, ly, rx, ry, '▬')
	set(canvas, bx, by, '╋', w, h)
}

func (m model) drawCar(canvas [][]rune, w, h int, x []float64) {
	if len(x) < 13 {
		return
	}
	// top down view centered on the chassis
	px, py := x[4], x[5]
	yaw := yawFromQuat(x[0], x[1], x[2], x[3])

	cx, cy := w/2, h/2
	scale := 2.0

	for _, pt := range m.trail {
		tx := cx + int((pt.x-px)*scale)
		ty := cy - int((pt.y-py)*scale)
		set(canvas, tx, ty, '·', w, h)
	}

	// chassis as a heading segment with a nose marker
	arm := 4.0
	nx := cx + int(arm*math.Cos(yaw))
	ny := cy - int(arm*math.Sin(yaw))
	tx := cx - int(arm*math.Cos(yaw))
	ty := cy + int(arm*math.Sin(yaw))

	drawLine(canvas, w, h, tx, ty, nx, ny, '█')
	set(canvas, nx, ny, '▲', w, h)
}

func (m model) drawBars(canvas [][]rune, w, h int, x []float64) {
	cy := h / 2
	for i := 2; i < w-2; i++ {
		set(canvas, i, cy, '─', w, h)
	}
	if len(x) == 0 {
		return
	}
	maxVal := 1.0
	for _, v := range x {
		if math.Abs(v) > maxVal {
			maxVal = math.Abs(v)
		}
	}
	bw := (w - 8) / len(x)
	if bw < 4 {
		bw = 4
	}
	for i, v := range x {
		bx := 4 + i*bw
		bh := int((v / maxVal) * float64(h/3))
		if bh > 0 {
			for y := cy - 1; y >= cy-bh && y >= 1; y-- {
				set(canvas, bx, y, '█', w, h)
			}
		} else {
			for y := cy + 1; y <= cy-bh && y < h-1; y++ {
				set(canvas, bx, y, '█', w, h)
			}
		}
	}
}

func set(canvas [][]rune, x, y int, c rune, w, h int) {
	if x >= 0 && x < w && y >= 0 && y < h {
		canvas[y][x] = c
	}
}

func drawLine(canvas [][]rune, w, h, x1, y1, x2, y2 int, c rune) {
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
		set(canvas, x1, y1, c, w, h)
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

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

func yawFromQuat(qw, qx, qy, qz float64) float64 {
	return math.Atan2(2*(qw*qz+qx*qy), 1-2*(qy*qy+qz*qz))
}

func pitchFromQuat(qw, qx, qy, qz float64) float64 {
	s := 2 * (qw*qy - qz*qx)
	if s > 1 {
		s = 1
	}
	if s < -1 {
		s = -1
	}
	return math.Asin(s)
}
