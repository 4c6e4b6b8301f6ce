package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/tinytorch/internal/dynamo"
	"github.com/san-kum/tinytorch/internal/systems"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	trailCapacity   = 400
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type tickMsg time.Time

// Model steps a system under a fixed-step integrator and renders each
// frame to a braille canvas with an energy strip alongside.
type Model struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	state      dynamo.State
	initial    dynamo.State
	t, dt      float64
	family     string
	reduced    bool
	fps        int
	running    bool

	canvas        *Canvas
	trail         []struct{ x, y int }
	energyHistory []float64

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int
}

func NewModel(sys dynamo.System, integ dynamo.Integrator, initState dynamo.State, dt float64, family string, fps int) Model {
	if fps <= 0 {
		fps = 30
	}

	params := make(map[string]float64)
	initialParams := make(map[string]float64)
	if cfg, ok := sys.(dynamo.Configurable); ok {
		for k, v := range cfg.GetParams() {
			params[k] = v
			initialParams[k] = v
		}
	}

	reduced := false
	if v, ok := sys.(systems.Varianted); ok {
		reduced = v.Variant() == systems.Reduced
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Model{
		sys:           sys,
		integrator:    integ,
		state:         initState.Clone(),
		initial:       initState.Clone(),
		dt:            dt,
		family:        family,
		reduced:       reduced,
		fps:           fps,
		running:       true,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		trail:         make([]struct{ x, y int }, 0, trailCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
		params:        params,
		initialParams: initialParams,
		paramKeys:     keys,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		}
	case tickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.state = m.integrator.Step(m.sys, m.state, m.t, m.dt)
	m.t += m.dt

	if h, ok := m.sys.(dynamo.Hamiltonian); ok {
		m.energyHistory = append(m.energyHistory, h.Energy(m.state))
		if len(m.energyHistory) > historyCapacity {
			m.energyHistory = m.energyHistory[1:]
		}
	}
}

func (m *Model) reset() {
	m.t = 0
	m.state = m.initial.Clone()
	m.trail = m.trail[:0]
	m.energyHistory = m.energyHistory[:0]
	for k, v := range m.initialParams {
		m.params[k] = v
		if cfg, ok := m.sys.(dynamo.Configurable); ok {
			cfg.SetParam(k, v)
		}
	}
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if cfg, ok := m.sys.(dynamo.Configurable); ok {
		if err := cfg.SetParam(key, val); err != nil {
			return
		}
	}
	m.params[key] = val
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.family)) + "\n")
	if m.running {
		s.WriteString("RUNNING\n\n")
	} else {
		s.WriteString("PAUSED\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	if h, ok := m.sys.(dynamo.Hamiltonian); ok {
		s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.3f", h.Energy(m.state))) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) == 0 {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	for i, k := range m.paramKeys {
		val, initial := m.params[k], m.initialParams[k]
		barWidth := 10
		ratio := 0.0
		if initial != 0 {
			ratio = val / (2.0 * initial)
		}
		if ratio > 1 {
			ratio = 1
		} else if ratio < 0 {
			ratio = 0
		}
		filled := int(ratio * float64(barWidth))
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
		line := fmt.Sprintf("%-10s %s %.3f", k, bar, val)
		if i == m.selected {
			s.WriteString(activeStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nTab:Param ↑↓:Tune"))

	canvasView := canvasStyle.Render(m.canvas.String())
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

func (m *Model) draw() {
	m.canvas.Clear()
	switch m.family {
	case "pendulum":
		m.drawPendulum()
	case "masschain":
		m.drawChain()
	default:
		m.drawPhase()
	}
}

func (m *Model) drawPendulum() {
	if len(m.state) < 2 {
		return
	}
	theta := m.state[0]
	cw, ch := m.canvas.Width*2, m.canvas.Height*4
	cx, cy := cw/2, 8
	length := float64(ch) * 0.75

	bx := cx + int(length*math.Sin(theta))
	by := cy + int(length*math.Cos(theta))

	m.pushTrail(bx, by)
	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}

	m.canvas.Set(cx, cy)
	m.canvas.Line(cx, cy, bx, by)
	m.canvas.Blob(bx, by, 1)
}

// drawPhase traces (x0, x1) with the axes drawn through the origin.
func (m *Model) drawPhase() {
	if len(m.state) < 2 {
		return
	}
	cw, ch := m.canvas.Width*2, m.canvas.Height*4
	cx, cy := cw/2, ch/2
	scaleX := float64(cw) / 6.0
	scaleY := float64(ch) / 6.0

	px := clamp(cx+int(m.state[0]*scaleX), 0, cw-1)
	py := clamp(cy-int(m.state[1]*scaleY), 0, ch-1)

	m.pushTrail(px, py)
	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}

	m.canvas.Line(0, cy, cw-1, cy)
	m.canvas.Line(cx, 0, cx, ch-1)
	m.canvas.Blob(px, py, 1)
}

// drawChain renders mass displacements as a connected string between
// two walls. Reduced (modal) states are drawn as generic phase space
// since their coordinates are not positions.
func (m *Model) drawChain() {
	n := len(m.state) / 2
	if m.reduced || n < 2 {
		m.drawPhase()
		return
	}
	cw, ch := m.canvas.Width*2, m.canvas.Height*4
	cy := ch / 2
	spacing := cw / (n + 1)
	scale := float64(ch) / 4.0

	prevX, prevY := 0, cy
	for i := 0; i < n; i++ {
		x := (i + 1) * spacing
		y := clamp(cy+int(m.state[i]*scale), 0, ch-1)
		m.canvas.Line(prevX, prevY, x, y)
		m.canvas.Blob(x, y, 2)
		prevX, prevY = x, y
	}
	m.canvas.Line(prevX, prevY, cw-1, cy)

	m.canvas.Line(0, 0, 0, ch-1)
	m.canvas.Line(cw-1, 0, cw-1, ch-1)
}

func (m *Model) pushTrail(x, y int) {
	m.trail = append(m.trail, struct{ x, y int }{x, y})
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[1:]
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
