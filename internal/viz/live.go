package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/emergent/internal/analysis"
	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
	"github.com/san-kum/emergent/internal/sim"
)

const (
	defaultCols   = 80
	defaultRows   = 24
	panelWidth    = 50
	historyLimit  = 300
	portraitLimit = 200
	minCanvasCols = 20
	minCanvasRows = 8
)

type TickMsg time.Time

// Model is the live bubbletea view of one controller. Every frame ticks the
// controller once and redraws its snapshot.
type Model struct {
	title    string
	ctrl     *sim.Controller
	source   *params.Static
	schema   params.Schema
	opts     Options
	theme    Theme
	styles   Styles
	shader   *Shader
	scene    *Scene
	snap     dynamo.Snapshot
	seed     int64
	selected int
	chart    int
	field    int
	history  map[string][]float64
	portrait *analysis.Portrait
	showHelp bool
	rows     int
	cols     int
}

// NewModel wraps ctrl, whose parameters are read from source. Knob edits
// are written back into source.
func NewModel(title string, ctrl *sim.Controller, source *params.Static, seed int64, opts Options) Model {
	if opts.FPS < 1 {
		opts.FPS = 30
	}
	theme := GetTheme(opts.Theme)
	var portrait *analysis.Portrait
	if src, ok := ctrl.Kernel().(analysis.StateSource); ok && opts.Phase {
		portrait = analysis.NewPortrait(src, analysis.AnglePlane, portraitLimit)
	}
	return Model{
		title:    title,
		ctrl:     ctrl,
		source:   source,
		schema:   ctrl.Kernel().Schema(),
		opts:     opts,
		theme:    theme,
		styles:   NewStyles(theme),
		shader:   NewShader(theme.Gradient()),
		scene:    NewScene(defaultCols, defaultRows, opts),
		snap:     ctrl.Kernel().Snapshot(),
		seed:     seed,
		history:  make(map[string][]float64),
		portrait: portrait,
		cols:     defaultCols,
		rows:     defaultRows,
	}
}

func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.frameCmd()
}

// Update handles input events and advances the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.ctrl.Toggle()
		case "r":
			m.seed++
			m.ctrl.Restart(m.seed)
			m.history = make(map[string][]float64)
			if m.portrait != nil {
				m.portrait.Reset()
			}
		case "tab":
			if len(m.schema) > 0 {
				m.selected = (m.selected + 1) % len(m.schema)
			}
		case "shift+tab":
			if len(m.schema) > 0 {
				m.selected = (m.selected + len(m.schema) - 1) % len(m.schema)
			}
		case "up", "k":
			m.adjust(1)
		case "down", "j":
			m.adjust(-1)
		case "c":
			m.chart++
		case "f":
			m.field++
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = NewStyles(m.theme)
			m.shader = NewShader(m.theme.Gradient())
		case "a":
			m.scene.Camera.Rotate(-0.1, 0)
		case "d":
			m.scene.Camera.Rotate(0.1, 0)
		case "w":
			m.scene.Camera.Rotate(0, -0.1)
		case "s":
			m.scene.Camera.Rotate(0, 0.1)
		case "+", "=":
			m.scene.Camera.ZoomIn()
		case "-", "_":
			m.scene.Camera.ZoomOut()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.cols = max(minCanvasCols, msg.Width-panelWidth-6)
		m.rows = max(minCanvasRows, msg.Height-4)
		m.scene.Canvas.Resize(m.cols, m.rows)
	case TickMsg:
		prev := m.snap.Tick
		m.snap = m.ctrl.Tick()
		if !m.snap.Paused {
			m.record()
		}
		if m.portrait != nil {
			// A structural change restarts the tick count.
			if m.snap.Tick < prev {
				m.portrait.Reset()
			}
			m.portrait.OnTick(m.snap)
		}
		if len(m.snap.Fields) == 0 {
			m.scene.Draw(m.snap)
		}
		return m, m.frameCmd()
	}
	return m, nil
}

// adjust moves the selected knob by one step in dir.
func (m *Model) adjust(dir float64) {
	if len(m.schema) == 0 {
		return
	}
	k := m.schema[m.selected]
	step := k.Step
	if step <= 0 {
		step = (k.Range.Max - k.Range.Min) / 100
	}
	cur := m.ctrl.Params().Get(k.Name)
	m.source.Set(k.Name, k.Range.Clamp(cur+dir*step))
}

func (m *Model) record() {
	for name, v := range m.ctrl.Metrics() {
		h := append(m.history[name], v)
		if len(h) > historyLimit {
			h = h[len(h)-historyLimit:]
		}
		m.history[name] = h
	}
}

func (m Model) chartName() string {
	names := sortedKeys(m.history)
	if len(names) == 0 {
		return ""
	}
	return names[m.chart%len(names)]
}

func (m Model) status() string {
	if m.snap.Paused {
		return m.styles.Paused.Render("PAUSED")
	}
	return m.styles.Running.Render("RUNNING")
}

func (m Model) canvasView() string {
	if names := FieldNames(m.snap); len(names) > 0 {
		name := names[m.field%len(names)]
		return m.styles.Canvas.Render(m.shader.Render(m.snap.Fields[name], m.cols, m.rows))
	}
	return m.styles.Canvas.Render(m.scene.Canvas.String())
}

// phaseView plots the θ1 vs θ2 portrait, or returns "" when there is none.
func (m Model) phaseView() string {
	if m.portrait == nil {
		return ""
	}
	plot := analysis.PortraitToASCII(m.portrait.Trails(), 36, 10, analysis.AngleBounds)
	if plot == "" {
		return ""
	}
	return plot + m.styles.Label.Render("θ1 vs θ2")
}

// View renders the canvas next to the parameter and metric panel.
func (m Model) View() string {
	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.title), m.theme.Gradient()) + "\n\n")
	s.WriteString(fmt.Sprintf("%s  tick %d  seed %d\n\n", m.status(), m.snap.Tick, m.seed))

	if name := m.chartName(); name != "" {
		if series := finite(m.history[name]); len(series) > 1 {
			chart := asciigraph.Plot(series, asciigraph.Height(6), asciigraph.Width(36), asciigraph.Caption(name))
			s.WriteString(m.styles.Graph.Render(chart) + "\n\n")
		}
	}
	if phase := m.phaseView(); phase != "" {
		s.WriteString(m.styles.Graph.Render(phase) + "\n\n")
	}
	for _, name := range sortedKeys(m.history) {
		h := m.history[name]
		s.WriteString(m.styles.Label.Render(name) + m.styles.Value.Render(fmt.Sprintf("%.4g", h[len(h)-1])) + "\n")
	}

	s.WriteString("\n" + m.styles.Header.Render("PARAMETERS") + "\n")
	current := m.ctrl.Params()
	for i, k := range m.schema {
		v := current.Get(k.Name)
		line := fmt.Sprintf("%-16s %s %8.4g", k.Name, Bar(v, k.Range.Min, k.Range.Max, 10), v)
		if k.Structural {
			line += " *"
		}
		if i == m.selected {
			s.WriteString(m.styles.Active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + m.styles.Value.Render(line) + "\n")
		}
	}
	s.WriteString(m.styles.Help.Render("space pause  r restart  tab/↑↓ tune  c chart  t theme  ? help  q quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.canvasView(), m.styles.Panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
  space      pause / resume
  r          restart with the next seed
  tab        select parameter (* restarts the demo)
  up/k       increase parameter
  down/j     decrease parameter
  c          cycle charted metric
  f          cycle displayed field
  a/d w/s    rotate camera
  +/-        zoom
  t          cycle theme
  q          quit
`

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func finite(vs []float64) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Run shows m full screen until the user quits.
func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
