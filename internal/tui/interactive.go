// Package tui is the terminal front end: a scenario picker, a parameter
// editor and a live real-time view, with keyboard driving for the car.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/mbdsim/internal/config"
	"github.com/san-kum/mbdsim/internal/scene"
	"github.com/san-kum/mbdsim/internal/sim"
	"github.com/san-kum/mbdsim/internal/solver"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var scenarioInfo = map[string]string{
	"pendulum":        "single revolute link",
	"double_pendulum": "chaotic dynamics",
	"slider":          "spring mass on a vertical rail",
	"brick":           "free body tumbling",
	"car":             "drive over terrain",
}

var terrains = []string{"flat", "steps", "slope", "wave", "mixed"}

type uiState int

const (
	stateMenu uiState = iota
	stateConfig
	stateSim
)

type model struct {
	state    uiState
	cursor   int
	names    []string
	selected string

	cfg         *config.Config
	params      map[string]float64
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string
	terrainIdx  int

	sc       *scene.Scene
	rt       *sim.RealTime
	running  bool
	paused   bool
	speed    float64
	simErr   error
	throttle float64
	brake    float64
	steering float64

	trail     []trailPoint
	history   []float64
	lastFrame time.Time
	fps       float64

	width  int
	height int
}

type trailPoint struct {
	x, y float64
}

func NewInteractiveApp() *model {
	return &model{
		state: stateMenu,
		names: scene.Names(),
		cfg:   config.DefaultConfig(),
		params: map[string]float64{
			"theta": 0.5, "theta2": 0.5, "omega": 0.0, "omega2": 0.0,
			"pos": 0.2, "height": 2.0, "speed": 0.0,
			"dt": 0.001, "duration": 30.0,
		},
		paramNames: []string{"theta", "omega", "dt", "duration"},
		speed:      1.0,
		trail:      make([]trailPoint, 0, 100),
		history:    make([]float64, 0, 60),
		width:      80,
		height:     24,
	}
}

func (m model) Init() tea.Cmd { return nil }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.state != stateSim {
			return m, nil
		}
		if m.running && !m.paused && m.rt != nil {
			now := time.Now()
			if !m.lastFrame.IsZero() {
				elapsed := now.Sub(m.lastFrame).Seconds()
				if elapsed > 0 {
					m.fps = 1.0 / elapsed
				}
				if _, err := m.rt.Advance(elapsed * m.speed); err != nil {
					m.simErr = err
					m.paused = true
				}
				m.afterStep()
			}
			m.lastFrame = now
		}
		if m.running && m.state == stateSim {
			return m, tick()
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		return m.simKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.names[m.cursor]
		m.state = stateConfig
		m.paramCursor = 0
		m.setParamsForScenario()
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			fmt.Sscanf(m.editBuf, "%f", &val)
			m.params[m.paramNames[m.paramCursor]] = val
			m.editing = false
			m.editBuf = ""
		case "escape":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "escape":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = fmt.Sprintf("%.3f", m.params[m.paramNames[m.paramCursor]])
	case "t":
		if m.selected == "car" {
			m.terrainIdx = (m.terrainIdx + 1) % len(terrains)
		}
	case "s":
		if err := m.start(); err != nil {
			m.simErr = err
			return m, nil
		}
		m.state = stateSim
		return m, tea.Batch(tea.ClearScreen, tick())
	case "left", "h":
		m.params[m.paramNames[m.paramCursor]] -= 0.1
	case "right", "l":
		m.params[m.paramNames[m.paramCursor]] += 0.1
	}
	return m, nil
}

func (m model) simKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.selected == "car" && m.sc != nil && m.sc.Car != nil {
		if handled := m.driveKey(msg.String()); handled {
			return m, nil
		}
	}

	switch msg.String() {
	case "q", "escape":
		m.running = false
		m.state = stateMenu
		m.reset()
		return m, tea.ClearScreen
	case " ", "p":
		m.paused = !m.paused
		m.lastFrame = time.Time{}
	case "r":
		if err := m.start(); err != nil {
			m.simErr = err
		}
		return m, tea.ClearScreen
	case "c":
		m.running = false
		m.state = stateConfig
		m.reset()
		return m, tea.ClearScreen
	case "+", "=":
		m.speed = math.Min(m.speed*2, 16)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1.0
	}
	return m, nil
}

// driveKey maps arrow keys onto the car controls. Returns false for keys
// that should fall through to the generic sim bindings.
func (m *model) driveKey(key string) bool {
	switch key {
	case "up":
		m.throttle = math.Min(m.throttle+0.1, 1)
		m.brake = 0
	case "down":
		m.brake = math.Min(m.brake+0.2, 1)
		m.throttle = 0
	case "left":
		m.steering = math.Min(m.steering+0.1, 1)
	case "right":
		m.steering = math.Max(m.steering-0.1, -1)
	case "x":
		m.throttle, m.brake = 0, 0
	case "z":
		m.steering = 0
	default:
		return false
	}
	m.sc.Car.Control().Set(m.throttle, m.brake, m.steering)
	return true
}

func (m *model) setParamsForScenario() {
	switch m.selected {
	case "pendulum":
		m.paramNames = []string{"theta", "omega", "dt", "duration"}
	case "double_pendulum":
		m.paramNames = []string{"theta", "theta2", "omega", "omega2", "dt", "duration"}
	case "slider":
		m.paramNames = []string{"pos", "dt", "duration"}
	case "brick":
		m.paramNames = []string{"height", "omega", "speed", "dt", "duration"}
	case "car":
		m.paramNames = []string{"speed", "dt", "duration"}
	}
}

func (m *model) buildConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scenario = m.selected
	if dt := m.params["dt"]; dt > 0 {
		cfg.Dt = dt
	}
	if d := m.params["duration"]; d > 0 {
		cfg.Duration = d
	}
	cfg.Terrain = terrains[m.terrainIdx]
	cfg.InitState = config.InitState{
		Theta:  m.params["theta"],
		Omega:  m.params["omega"],
		Theta2: m.params["theta2"],
		Omega2: m.params["omega2"],
		Pos:    m.params["pos"],
		Height: m.params["height"],
		Speed:  m.params["speed"],
	}
	return cfg
}

func (m *model) start() error {
	cfg := m.buildConfig()
	sc, err := scene.Build(cfg)
	if err != nil {
		return err
	}

	plant := sim.NewPlant(sc.Mechanism, sc.Gravity, sc.Generators...)
	rt, err := sim.NewRealTime(plant, solver.NewRK4(), cfg.Dt, sc.Initial)
	if err != nil {
		return err
	}
	rt.SetMaxSubsteps(int(0.1/cfg.Dt) + 1)

	m.cfg = cfg
	m.sc = sc
	m.rt = rt
	m.trail = make([]trailPoint, 0, 100)
	m.history = make([]float64, 0, 60)
	m.speed = 1.0
	m.simErr = nil
	m.throttle, m.brake, m.steering = 0, 0, 0
	m.lastFrame = time.Time{}
	m.running = true
	m.paused = false
	return nil
}

func (m *model) reset() {
	m.sc = nil
	m.rt = nil
	m.trail = nil
	m.history = nil
	m.simErr = nil
}

func (m *model) afterStep() {
	snap := m.rt.Snapshot()
	x := snap.State

	var tx, ty float64
	switch m.selected {
	case "pendulum":
		tx, ty = x[0], 0
	case "double_pendulum":
		tx, ty = x[0], x[1]
	case "brick", "car":
		tx, ty = x[4], x[5]
	default:
		tx = x[0]
	}
	m.trail = append(m.trail, trailPoint{tx, ty})
	if len(m.trail) > 100 {
		m.trail = m.trail[1:]
	}

	ch := m.sc.Channels[0]
	m.history = append(m.history, x[ch.Index])
	if len(m.history) > 60 {
		m.history = m.history[1:]
	}
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.viewSim()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("m b d s i m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.names {
		desc := scenarioInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter start   q quit") + "\n")

	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.selected) + "  " + dim.Render(scenarioInfo[m.selected]) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	for i, name := range m.paramNames {
		val := fmt.Sprintf("%8.3f", m.params[name])
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%8s", m.editBuf+"▋")
		}
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", name)) + dim.Render(val) + "\n")
		}
	}

	if m.selected == "car" {
		b.WriteString("\n        " + dim.Render(fmt.Sprintf("%-10s", "terrain")) + magenta.Render(fmt.Sprintf("%8s", terrains[m.terrainIdx])) + dim.Render("  (t cycles)") + "\n")
	}
	if m.simErr != nil {
		b.WriteString("\n      " + yellow.Render(m.simErr.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  s start  esc back") + "\n")

	return b.String()
}

func (m model) viewSim() string {
	if m.rt == nil {
		return ""
	}
	snap := m.rt.Snapshot()

	cw := m.width - 6
	ch := m.height - 12
	if cw < 50 {
		cw = 50
	}
	if ch < 12 {
		ch = 12
	}

	canvas := make([][]rune, ch)
	for i := range canvas {
		canvas[i] = make([]rune, cw)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	switch m.selected {
	case "pendulum":
		m.drawPendulum(canvas, cw, ch, snap.State)
	case "double_pendulum":
		m.drawDoublePendulum(canvas, cw, ch, snap.State)
	case "slider":
		m.drawSlider(canvas, cw, ch, snap.State)
	case "brick":
		m.drawBrick(canvas, cw, ch, snap.State)
	case "car":
		m.drawCar(canvas, cw, ch, snap.State)
	default:
		m.drawBars(canvas, cw, ch, snap.State)
	}

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	if m.simErr != nil {
		statusIcon = yellow.Render("✗")
		statusText = yellow.Render(m.simErr.Error())
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n",
		statusIcon, cyan.Render(m.selected), statusText))

	duration := m.params["duration"]
	progress := snap.Time / duration
	if progress > 1 {
		progress = 1
	}
	barWidth := 36
	filled := int(progress * float64(barWidth))
	timeStr := fmt.Sprintf("%.1fs/%.0fs", snap.Time, duration)
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s  %s ×%.2g\n\n", bar, dim.Render(timeStr), dim.Render(fmt.Sprintf("%.0ffps", m.fps)), m.speed))

	for _, row := range canvas {
		b.WriteString("   " + string(row) + "\n")
	}

	b.WriteString(fmt.Sprintf("\n   %s %s\n", dim.Render("energy"), white.Render(fmt.Sprintf("%.3f J", snap.Energy))))

	var stateStr strings.Builder
	stateStr.WriteString("   ")
	for i, c := range m.sc.Channels {
		if i >= 4 {
			break
		}
		stateStr.WriteString(dim.Render(c.Label + "="))
		stateStr.WriteString(white.Render(fmt.Sprintf("%.2f", snap.State[c.Index])))
		stateStr.WriteString("  ")
	}
	b.WriteString(stateStr.String() + "\n")

	if len(m.history) > 1 {
		spark := sparkline(m.history, 24)
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render(m.sc.Channels[0].Label), cyan.Render(spark)))
	}

	help := "   space pause  ±speed  r reset  c config  q quit"
	if m.selected == "car" {
		help = "   ↑ throttle  ↓ brake  ←→ steer  x coast  z center  space pause  q quit"
		b.WriteString(fmt.Sprintf("\n   %s%.1f %s%.1f %s%+.1f\n",
			green.Render("thr "), m.throttle,
			yellow.Render("brk "), m.brake,
			magenta.Render("str "), m.steering))
	}
	b.WriteString("\n" + dim.Render(help) + "\n")

	return b.String()
}

func RunInteractive() error {
	p := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
