package viz

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/invpend/internal/control"
	"github.com/san-kum/invpend/internal/dynamo"
	"github.com/san-kum/invpend/internal/physics"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300
	frameRate       = 60
	nudge           = 0.5
)

type TickMsg time.Time

type Options struct {
	Dt    float64
	Steps int
	// SnapshotDir receives the SVG snapshots taken with the s key.
	SnapshotDir string
}

// Model owns the plant while the view runs. Every step goes through the
// simulator, so observers see the same samples as in a batch run.
type Model struct {
	plant   *physics.CartPendulum
	policy  *control.Policy
	sim     *dynamo.Simulator
	initial [4]float64

	dt           float64
	maxSteps     int
	steps        int
	stepsPerTick int

	running      bool
	canvas       *Canvas
	angleHistory []float64

	snapshotDir string
	snapshot    string
}

func NewModel(plant *physics.CartPendulum, policy *control.Policy, sim *dynamo.Simulator, opts Options) Model {
	perTick := int(math.Round(1.0 / frameRate / opts.Dt))
	if perTick < 1 {
		perTick = 1
	}
	return Model{
		plant:        plant,
		policy:       policy,
		sim:          sim,
		initial:      plant.FullState(),
		dt:           opts.Dt,
		maxSteps:     opts.Steps,
		stepsPerTick: perTick,
		running:      true,
		canvas:       NewCanvas(width, height),
		angleHistory: make([]float64, 0, historyCapacity),
		snapshotDir:  opts.SnapshotDir,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
		case "r":
			m.reset()
		case "g":
			m.policy.Enabled = !m.policy.Enabled
		case "left", "h":
			m.push(-nudge)
		case "right", "l":
			m.push(nudge)
		case "s":
			m.snapshot = m.saveSnapshot()
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// Done reports whether the step budget is used up.
func (m Model) Done() bool { return m.maxSteps > 0 && m.steps >= m.maxSteps }

func (m Model) Steps() int { return m.steps }

func (m *Model) advance() {
	for i := 0; i < m.stepsPerTick && !m.Done(); i++ {
		m.sim.Advance(m.plant, m.dt)
		m.steps++

		m.angleHistory = append(m.angleHistory, m.plant.Pendulum.Position)
		if len(m.angleHistory) > historyCapacity {
			m.angleHistory = m.angleHistory[1:]
		}
	}
}

func (m *Model) push(dOmega float64) {
	x := m.plant.FullState()
	x[3] += dOmega
	m.plant.SetFullState(x)
}

// saveSnapshot writes the current frame as SVG and returns a status line.
func (m *Model) saveSnapshot() string {
	m.draw()
	path := filepath.Join(m.snapshotDir, fmt.Sprintf("snapshot_%06d.svg", m.steps))
	if err := os.WriteFile(path, []byte(CanvasToSVG(m.canvas, 4)), 0o644); err != nil {
		return "snapshot failed: " + err.Error()
	}
	return path
}

func (m *Model) reset() {
	m.plant.Reset(m.initial)
	m.steps = 0
	m.angleHistory = m.angleHistory[:0]
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	x := m.plant.FullState()
	var s strings.Builder
	s.WriteString(headerStyle.Render("INVERTED PENDULUM") + "\n")

	switch {
	case m.Done():
		s.WriteString(statusDone.Render("DONE"))
	case m.running:
		s.WriteString(statusRunning.Render("RUNNING"))
	default:
		s.WriteString(statusPaused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	if len(m.angleHistory) > 1 {
		chart := asciigraph.Plot(m.angleHistory, asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("x3 [rad]"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	mode := "-"
	if m.steps > 0 {
		mode = renderMode(m.policy.LastMode())
	}
	regulator := "on"
	if !m.policy.Enabled {
		regulator = "off"
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.plant.Time()))
	s.WriteString(labelStyle.Render("Mode") + mode + "\n")
	row("Regulator", regulator)
	row("x1 [m]", fmt.Sprintf("%+.4f", x[0]))
	row("x2 [m/s]", fmt.Sprintf("%+.4f", x[1]))
	row("x3 [rad]", fmt.Sprintf("%+.4f", x[2]))
	row("x4 [rad/s]", fmt.Sprintf("%+.4f", x[3]))
	row("F [N]", fmt.Sprintf("%+.3f", m.plant.Force()))
	row("Energy", fmt.Sprintf("%+.4f", m.plant.Energy(dynamo.State(x[:]))))

	if m.snapshot != "" {
		row("Snapshot", m.snapshot)
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reset G:Regulator\n←/→:Nudge S:Snapshot Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// draw renders the track, the cart and the pendulum. The track spans the
// cart position limits.
func (m *Model) draw() {
	m.canvas.Clear()

	cw, ch := m.canvas.Dots()
	track := m.plant.Cart.PosBounds()
	margin := 10
	scale := float64(cw-2*margin) / (track.Max - track.Min)
	toX := func(pos float64) int { return margin + int((pos-track.Min)*scale) }

	groundY := ch - 10
	m.canvas.DrawLine(0, groundY+5, cw-1, groundY+5)
	for _, end := range []float64{track.Min, track.Max} {
		ex := toX(end)
		m.canvas.DrawLine(ex, groundY-2, ex, groundY+5)
	}

	x := m.plant.FullState()
	cartX := toX(x[0])
	m.canvas.FillRect(cartX-7, groundY, cartX+7, groundY+3)

	poleLen := float64(ch) * 0.55
	px := cartX + int(poleLen*math.Sin(x[2]))
	py := groundY - int(poleLen*math.Cos(x[2]))
	m.canvas.DrawLine(cartX, groundY, px, py)
	m.canvas.Disc(px, py, 2)
}
