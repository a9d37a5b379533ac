package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/solarsim/internal/cosmos"
	"github.com/san-kum/solarsim/internal/metrics"
	"github.com/san-kum/solarsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 45
	historyCapacity = 600
	trailCapacity   = 4000
	maxStepsFrame   = 4096
)

type TickMsg time.Time

type Options struct {
	Name string
	Dt   float64
	// StepsPerFrame is the number of ticks advanced per frame.
	StepsPerFrame int
	// MaxTicks stops stepping once reached. Zero runs until quit.
	MaxTicks int
	FPS      int
	Theme    string
}

type trailPoint struct {
	x, y  int
	color lipgloss.Color
}

// Model drives a simulator from frame ticks and draws it.
type Model struct {
	opts          Options
	initial       *cosmos.Registry
	sim           *sim.Simulator
	canvas        *Canvas
	view          viewport
	width, height int
	trail         []trailPoint
	showTrail     bool
	energyHistory []float64
	theme         Theme
	running       bool
	done          bool
	failed        bool
	showHelp      bool
}

// NewModel copies reg, so the caller's bodies are never stepped.
func NewModel(reg *cosmos.Registry, opts Options) Model {
	if opts.StepsPerFrame <= 0 {
		opts.StepsPerFrame = 1
	}
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Name == "" {
		opts.Name = "solarsim"
	}

	initial := reg.Clone()
	s := sim.New(initial.Clone(), nil, nil)

	return Model{
		opts:          opts,
		initial:       initial,
		sim:           s,
		canvas:        NewCanvas(width, height),
		view:          fit(initial.Views()),
		width:         width,
		height:        height,
		trail:         make([]trailPoint, 0, 256),
		showTrail:     true,
		energyHistory: make([]float64, 0, historyCapacity),
		theme:         GetTheme(opts.Theme),
		running:       true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
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
		case "t":
			m.theme = NextTheme(m.theme)
		case "f":
			m.opts.StepsPerFrame = min(m.opts.StepsPerFrame*2, maxStepsFrame)
		case "s":
			m.opts.StepsPerFrame = max(m.opts.StepsPerFrame/2, 1)
		case "+", "=":
			m.view.span /= 1.25
			m.trail = m.trail[:0]
		case "-", "_":
			m.view.span *= 1.25
			m.trail = m.trail[:0]
		case "a":
			m.view = fit(m.sim.Registry().Views())
			m.trail = m.trail[:0]
		case "c":
			m.showTrail = !m.showTrail
			m.trail = m.trail[:0]
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		w := (msg.Width - statsWidth - 6)
		h := msg.Height - 2
		if w >= 10 && h >= 5 {
			m.width, m.height = w, h
			m.canvas = NewCanvas(w, h)
			m.trail = m.trail[:0]
		}
	case TickMsg:
		if m.running && !m.done {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance steps the simulator by one frame worth of ticks.
func (m *Model) advance() {
	for i := 0; i < m.opts.StepsPerFrame; i++ {
		if m.opts.MaxTicks > 0 && m.sim.Tick() >= m.opts.MaxTicks {
			m.done = true
			break
		}
		m.sim.Step(m.opts.Dt)
		if !m.sim.Valid() {
			m.done, m.failed = true, true
			break
		}
	}

	views := m.sim.Registry().Views()
	m.energyHistory = append(m.energyHistory, metrics.Kinetic(views))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}

	if m.showTrail {
		for _, v := range views {
			px, py := m.view.toPixel(v.Pos, m.width*2, m.height*4)
			m.trail = append(m.trail, trailPoint{px, py, m.theme.BodyColor(v.Color)})
		}
		if len(m.trail) > trailCapacity {
			m.trail = m.trail[len(m.trail)-trailCapacity:]
		}
	}
}

// reset restores the initial bodies and clears the history.
func (m *Model) reset() {
	m.sim = sim.New(m.initial.Clone(), nil, nil)
	m.view = fit(m.initial.Views())
	m.trail = m.trail[:0]
	m.energyHistory = m.energyHistory[:0]
	m.done, m.failed = false, false
	m.running = true
}

func (m *Model) draw() {
	m.canvas.Clear()
	cw, ch := m.width*2, m.height*4

	for _, p := range m.trail {
		m.canvas.Paint(p.x, p.y, m.theme.Trail)
	}
	for _, v := range m.sim.Registry().Views() {
		px, py := m.view.toPixel(v.Pos, cw, ch)
		m.canvas.Disc(px, py, dotRadius(v.Radius), m.theme.BodyColor(v.Color))
	}
}

// dotRadius maps the display radius of a record to sub-pixels.
func dotRadius(r int) int {
	return min(1+r/4, 6)
}

func (m Model) status(st styles) string {
	switch {
	case m.failed:
		return st.failed.Render("INVALID STATE")
	case m.done:
		return st.paused.Render("DONE")
	case !m.running:
		return st.paused.Render("PAUSED")
	}
	return st.running.Render("RUNNING")
}

// View renders the TUI interface.
func (m Model) View() string {
	st := newStyles(m.theme)
	m.draw()
	canvasView := st.canvas.Render(m.canvas.Render(lipgloss.NewStyle().Foreground(m.theme.Muted)))

	var s strings.Builder
	s.WriteString(st.header.Render(GradientText(strings.ToUpper(m.opts.Name), m.theme.Primary, m.theme.Secondary)) + "\n")
	s.WriteString(m.status(st) + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	reg := m.sim.Registry()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.sim.Tick()))
	row("Time", formatDuration(m.sim.Time()))
	row("dt", fmt.Sprintf("%gs x%d", m.opts.Dt, m.opts.StepsPerFrame))
	row("Bodies", fmt.Sprintf("%d★ %d● %d·", reg.Count(cosmos.Star), reg.Count(cosmos.Planet), reg.Count(cosmos.Satellite)))
	if n := len(m.energyHistory); n > 0 {
		row("Energy", fmt.Sprintf("%.4g J", m.energyHistory[n-1]))
	}
	row("Scale", fmt.Sprintf("%.3g m", 2*m.view.span))
	if m.opts.MaxTicks > 0 {
		s.WriteString("\n" + ProgressBar(float64(m.sim.Tick())/float64(m.opts.MaxTicks), 30, st.running) + "\n")
	}

	hint := func(k, what string) string { return st.key.Render(k) + st.item.Render(" "+what+"  ") }
	s.WriteString(st.help.Render("\n" + hint("SP", "pause") + hint("R", "reset") + hint("Q", "quit") + "\n" +
		hint("F/S", "speed") + hint("+/-", "zoom") + hint("?", "help")))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  F / S    - Faster / slower          ║
║  + / -    - Zoom in / out            ║
║  A        - Fit view to bodies       ║
║  C        - Toggle orbit trails      ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func formatDuration(seconds float64) string {
	const day = 86400.0
	switch {
	case seconds >= 365.25*day:
		return fmt.Sprintf("%.2f yr", seconds/(365.25*day))
	case seconds >= day:
		return fmt.Sprintf("%.1f d", seconds/day)
	}
	return fmt.Sprintf("%.0f s", seconds)
}

// viewport maps world coordinates to canvas sub-pixels. span is the
// half-width of the visible square.
type viewport struct {
	center r2.Vec
	span   float64
}

func fit(views []cosmos.View) viewport {
	if len(views) == 0 {
		return viewport{span: 1}
	}
	lo, hi := views[0].Pos, views[0].Pos
	for _, v := range views[1:] {
		lo = r2.Vec{X: math.Min(lo.X, v.Pos.X), Y: math.Min(lo.Y, v.Pos.Y)}
		hi = r2.Vec{X: math.Max(hi.X, v.Pos.X), Y: math.Max(hi.Y, v.Pos.Y)}
	}
	span := 0.6 * math.Max(hi.X-lo.X, hi.Y-lo.Y)
	if !(span > 0) {
		span = 1
	}
	return viewport{center: r2.Scale(0.5, r2.Add(lo, hi)), span: span}
}

func (v viewport) toPixel(p r2.Vec, cw, ch int) (int, int) {
	scale := float64(min(cw, ch)) / 2 / v.span
	d := r2.Sub(p, v.center)
	x := float64(cw)/2 + d.X*scale
	y := float64(ch)/2 - d.Y*scale
	if math.IsNaN(x) || math.IsNaN(y) || math.Abs(x) > 1e9 || math.Abs(y) > 1e9 {
		return -1, -1
	}
	return int(math.Round(x)), int(math.Round(y))
}

// Run opens the live view on the alternate screen and blocks until quit.
func Run(reg *cosmos.Registry, opts Options) error {
	_, err := tea.NewProgram(NewModel(reg, opts), tea.WithAltScreen()).Run()
	return err
}
