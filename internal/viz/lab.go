package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/sandpend/internal/config"
	"github.com/san-kum/sandpend/internal/export"
	"github.com/san-kum/sandpend/internal/physics"
	"github.com/san-kum/sandpend/internal/session"
)

const (
	defaultWidth  = 110
	defaultHeight = 30

	// panelWidth is the side panel including its border.
	panelWidth = 47
	// canvasTop is the terminal row of the first canvas cell.
	canvasTop = 1
	// chrome is the rows used by title, status and help lines.
	chrome = 3

	fps           = 60
	frameInterval = time.Second / fps
	graphPoints   = 120
)

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type mode int

const (
	modeLab mode = iota
	modePresets
)

// Options configure a Lab.
type Options struct {
	Theme      string
	FigurePath string
	Logger     *zap.Logger
}

// Lab is the Bubble Tea model of the terminal front end.
type Lab struct {
	session *session.Session
	logger  *zap.Logger
	theme   Theme
	st      styles
	figure  string

	width, height int
	pathCanvas    *Canvas
	traceCanvas   *Canvas
	arrowCanvas   *Canvas
	originCanvas  *Canvas
	view          *Viewport

	plan     *session.Plan
	graph    [2][]float64
	playhead int

	dragging  bool
	dragStart physics.Point
	dragEnd   physics.Point

	field   field
	editing bool
	editBuf string

	mode         mode
	presets      []string
	presetCursor int

	status    string
	statusErr bool
	showHelp  bool
}

func NewLab(s *session.Session, opts Options) Lab {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.FigurePath == "" {
		opts.FigurePath = export.DefaultFigure
	}
	theme := GetTheme(opts.Theme)

	m := Lab{
		session:      s,
		logger:       opts.Logger.Named("tui"),
		theme:        theme,
		st:           newStyles(theme),
		figure:       opts.FigurePath,
		pathCanvas:   NewCanvas(1, 1),
		traceCanvas:  NewCanvas(1, 1),
		arrowCanvas:  NewCanvas(1, 1),
		originCanvas: NewCanvas(1, 1),
		presets:      config.ListPresets(),
		status:       "drag on the canvas to throw the bob",
	}
	cfg := s.Config()
	m.view = NewViewport(1, 1, math.Max(cfg.LengthX, cfg.LengthY)*0.3, fps)
	m.resize(defaultWidth, defaultHeight)
	return m
}

// Run starts the program on the terminal's alternate screen with mouse
// reporting enabled and blocks until it exits.
func Run(s *session.Session, opts Options) error {
	_, err := tea.NewProgram(NewLab(s, opts), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

func (m Lab) Init() tea.Cmd {
	return tick(m.interval())
}

// interval is the time between animation ticks: one sample per tick,
// capped at the display frame rate.
func (m Lab) interval() time.Duration {
	d := time.Duration(m.session.Config().TimeStep * float64(time.Second))
	return max(d, frameInterval)
}

// samplesPerTick is how many samples one tick advances the trace.
func (m Lab) samplesPerTick() int {
	step := m.session.Config().TimeStep
	return max(1, int(math.Round(m.interval().Seconds()/step)))
}

func (m *Lab) resize(w, h int) {
	m.width, m.height = w, h
	cw := max(w-panelWidth-1, 20)
	ch := max(h-chrome, 8)
	for _, c := range []*Canvas{m.pathCanvas, m.traceCanvas, m.arrowCanvas, m.originCanvas} {
		c.Resize(cw, ch)
	}
	m.view.Resize(m.pathCanvas.DotsWide(), m.pathCanvas.DotsHigh())
}

func (m Lab) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		m.advance()
		return m, tick(m.interval())
	}
	return m, nil
}

func (m *Lab) advance() {
	m.view.Step()
	if m.plan == nil {
		return
	}
	m.playhead = min(m.playhead+m.samplesPerTick(), m.plan.Path.Len())
}

// mouseDot maps a terminal cell to the canvas dot at its centre.
func (m *Lab) mouseDot(x, y int) (int, int, bool) {
	row := y - canvasTop
	inside := x >= 0 && x < m.pathCanvas.Width && row >= 0 && row < m.pathCanvas.Height
	x = min(max(x, 0), m.pathCanvas.Width-1)
	row = min(max(row, 0), m.pathCanvas.Height-1)
	return x*2 + 1, row*4 + 2, inside
}

func (m *Lab) handleMouse(msg tea.MouseMsg) {
	dx, dy, inside := m.mouseDot(msg.X, msg.Y)
	p := m.view.ToWorld(dx, dy)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return
		}
		m.dragging = true
		m.dragStart, m.dragEnd = p, p
	case tea.MouseActionMotion:
		if m.dragging {
			m.dragEnd = p
		}
	case tea.MouseActionRelease:
		if !m.dragging {
			return
		}
		m.dragging = false
		m.dragEnd = p
		m.throw(session.Drag{Start: m.dragStart, End: m.dragEnd})
	}
}

func (m *Lab) throw(d session.Drag) {
	plan, err := m.session.Throw(d)
	if err != nil {
		m.setError(err)
		return
	}
	m.show(plan)
}

// show makes plan the animated throw and fits the view to every throw
// still on the canvas.
func (m *Lab) show(plan *session.Plan) {
	m.plan = plan
	m.playhead = 0
	m.dragStart, m.dragEnd = plan.Drag.Start, plan.Drag.End

	var ext physics.Point
	var also []physics.Point
	for _, p := range m.session.Plans() {
		e := p.Trajectory.Extent()
		ext.X, ext.Y = math.Max(ext.X, e.X), math.Max(ext.Y, e.Y)
		also = append(also, p.Drag.Start, p.Drag.End)
	}
	m.view.Fit(ext, also...)

	xs, ys := plan.Path.XY()
	m.graph = [2][]float64{downsample(xs, graphPoints), downsample(ys, graphPoints)}

	if adv := plan.Advisories(); len(adv) > 0 {
		m.status, m.statusErr = adv[len(adv)-1].String(), false
	} else {
		m.status, m.statusErr = fmt.Sprintf("thrown at v = (%.3f, %.3f) m/s", plan.Velocity.X, plan.Velocity.Y), false
	}
}

func (m *Lab) setError(err error) {
	m.status, m.statusErr = err.Error(), true
	m.logger.Debug("tui error", zap.Error(err))
}

// applyConfig hands cfg to the session and re-solves every throw on the
// canvas when the change moves the figure.
func (m *Lab) applyConfig(cfg config.PendulumConfig) bool {
	old := m.session.Config()
	if err := m.session.Update(cfg); err != nil {
		m.setError(err)
		return false
	}
	m.status, m.statusErr = "", false
	if m.plan != nil && reshapes(old, cfg) {
		plans, err := m.session.Rethrow()
		if err != nil {
			m.setError(err)
			return true
		}
		m.show(plans[len(plans)-1])
	}
	return true
}

func (m Lab) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.editing {
		m.editKey(msg)
		return m, nil
	}
	if m.mode == modePresets {
		m.presetKey(msg)
		return m, nil
	}

	cfg := m.session.Config()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.field = (m.field + 1) % fieldCount
	case "shift+tab":
		m.field = (m.field + fieldCount - 1) % fieldCount
	case "enter":
		m.editing = true
		m.editBuf = m.field.format(cfg)
	case "up", "k":
		m.field.set(&cfg, m.field.get(cfg)*1.05)
		m.applyConfig(cfg)
	case "down", "j":
		m.field.set(&cfg, m.field.get(cfg)*0.95)
		m.applyConfig(cfg)
	case "p":
		cfg.PredictPath = !cfg.PredictPath
		m.applyConfig(cfg)
	case "r":
		cfg.ShowRatio = !cfg.ShowRatio
		m.applyConfig(cfg)
	case " ":
		m.playhead = 0
	case "c":
		m.session.Clear()
		m.plan = nil
		m.playhead = 0
		m.graph = [2][]float64{}
		m.status, m.statusErr = "cleared", false
	case "s":
		m.save()
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.st = newStyles(m.theme)
	case "l":
		m.mode = modePresets
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Lab) editKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		v, err := parseField(m.field, m.editBuf)
		if err != nil {
			m.setError(err)
			return
		}
		cfg := m.session.Config()
		m.field.set(&cfg, v)
		if m.applyConfig(cfg) {
			m.editing, m.editBuf = false, ""
		}
	case tea.KeyEsc:
		m.editing, m.editBuf = false, ""
	case tea.KeyBackspace:
		if r := []rune(m.editBuf); len(r) > 0 {
			m.editBuf = string(r[:len(r)-1])
		}
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if acceptsRune(r) {
				m.editBuf += string(r)
			}
		}
	}
}

func (m *Lab) presetKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		m.presetCursor = max(m.presetCursor-1, 0)
	case "down", "j":
		m.presetCursor = min(m.presetCursor+1, len(m.presets)-1)
	case "enter":
		p := config.GetPreset(m.presets[m.presetCursor])
		cfg := m.session.Config()
		cfg.LengthX, cfg.LengthY = p.LengthX, p.LengthY
		if m.applyConfig(cfg) {
			m.status = fmt.Sprintf("preset %s: %s", p.Name, p.Description)
		}
		m.mode = modeLab
	case "esc", "l", "q":
		m.mode = modeLab
	}
}

func (m *Lab) save() {
	plans := m.session.Plans()
	if len(plans) == 0 {
		m.setError(fmt.Errorf("nothing to save, throw first"))
		return
	}
	opts := export.DefaultFigureOptions()
	opts.ShowRatio = m.session.Config().ShowRatio
	if err := export.PNG(m.figure, plans, opts); err != nil {
		m.setError(err)
		return
	}
	m.status, m.statusErr = "saved "+m.figure, false
	m.logger.Info("figure saved", zap.String("path", m.figure))
}

// draw repaints every canvas layer from the current state.
func (m *Lab) draw() {
	for _, c := range []*Canvas{m.pathCanvas, m.traceCanvas, m.arrowCanvas, m.originCanvas} {
		c.Clear()
	}

	ox, oy := m.view.ToCanvas(physics.Point{})
	m.originCanvas.DrawLine(ox-2, oy, ox+2, oy)
	m.originCanvas.DrawLine(ox, oy-2, ox, oy+2)

	// earlier throws stay as laid sand; only the newest is animated
	for _, p := range m.session.Plans() {
		if p != m.plan {
			m.polyline(m.pathCanvas, p.Path, p.Path.Len())
		}
	}

	if m.plan != nil {
		path := m.plan.Path
		if m.session.Config().PredictPath {
			m.polyline(m.pathCanvas, path, path.Len())
		}
		m.polyline(m.traceCanvas, path, m.playhead)
		if m.playhead > 0 && m.playhead < path.Len() {
			bx, by := m.view.ToCanvas(path.Point(m.playhead - 1))
			m.traceCanvas.DrawDot(bx, by)
		}
	}

	if m.dragging || m.plan != nil {
		m.drawArrow(m.dragStart, m.dragEnd)
	}
}

func (m *Lab) polyline(c *Canvas, path *physics.Path, n int) {
	if n == 0 {
		return
	}
	px, py := m.view.ToCanvas(path.Point(0))
	c.Set(px, py)
	for i := 1; i < n; i++ {
		x, y := m.view.ToCanvas(path.Point(i))
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
}

func (m *Lab) drawArrow(from, to physics.Point) {
	x0, y0 := m.view.ToCanvas(from)
	x1, y1 := m.view.ToCanvas(to)
	m.arrowCanvas.DrawDot(x0, y0)
	if x0 == x1 && y0 == y1 {
		return
	}
	m.arrowCanvas.DrawLine(x0, y0, x1, y1)

	// barbs at ±25° from the reversed shaft
	back := math.Atan2(float64(y0-y1), float64(x0-x1))
	for _, a := range []float64{back + 0.44, back - 0.44} {
		bx := x1 + int(math.Round(4*math.Cos(a)))
		by := y1 + int(math.Round(4*math.Sin(a)))
		m.arrowCanvas.DrawLine(x1, y1, bx, by)
	}
}

func (m Lab) View() string {
	m.draw()

	title := GradientText("SAND PENDULUM", m.theme.Primary, m.theme.Secondary) +
		m.st.help.Render("  drag to throw")
	canvas := RenderLayers(m.st.blank,
		Layer{Canvas: m.arrowCanvas, Style: m.st.arrow},
		Layer{Canvas: m.traceCanvas, Style: m.st.trace},
		Layer{Canvas: m.pathCanvas, Style: m.st.path},
		Layer{Canvas: m.originCanvas, Style: m.st.blank},
	)

	side := m.viewPanel()
	if m.mode == modePresets {
		side = m.viewPresets()
	}
	if m.showHelp {
		side = m.viewHelp()
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, strings.TrimSuffix(canvas, "\n"), m.st.panel.Render(side))

	status := m.st.value.Render(m.status)
	if m.statusErr {
		status = m.st.err.Render(m.status)
	}
	help := m.st.key.Render("tab") + m.st.help.Render(" field  ") +
		m.st.key.Render("enter") + m.st.help.Render(" edit  ") +
		m.st.key.Render("p") + m.st.help.Render(" path  ") +
		m.st.key.Render("r") + m.st.help.Render(" ratio  ") +
		m.st.key.Render("l") + m.st.help.Render(" presets  ") +
		m.st.key.Render("c") + m.st.help.Render(" clear  ") +
		m.st.key.Render("s") + m.st.help.Render(" save  ") +
		m.st.key.Render("q") + m.st.help.Render(" quit")

	return title + "\n" + body + "\n" + status + "\n" + help
}

func (m Lab) viewPanel() string {
	cfg := m.session.Config()
	var s strings.Builder

	s.WriteString(m.st.title.Render("PENDULUM") + "\n")
	for f := field(0); f < fieldCount; f++ {
		val := f.format(cfg) + " " + fieldUnits[f]
		line := m.st.label.Render(f.String()) + m.st.value.Render(val)
		switch {
		case f == m.field && m.editing:
			line = m.st.selected.Render("> ") + m.st.label.Render(f.String()) + m.st.editing.Render(m.editBuf+"_")
		case f == m.field:
			line = m.st.selected.Render("> "+fmt.Sprintf("%-12s", f.String())+val)
		default:
			line = "  " + line
		}
		s.WriteString(line + "\n")
	}
	s.WriteString("  " + m.st.label.Render("Path") + m.toggle(cfg.PredictPath) + "\n")
	s.WriteString("  " + m.st.label.Render("Ratio") + m.toggle(cfg.ShowRatio) + "\n")
	s.WriteString(Separator(40, m.st.off) + "\n")

	if m.plan == nil {
		s.WriteString(m.st.off.Render("no throw yet") + "\n")
		return s.String()
	}

	sol := m.plan.Solution
	s.WriteString(m.st.title.Render("MOTION") + m.st.off.Render(fmt.Sprintf("  throw %d", len(m.session.Plans()))) + "\n")
	for _, ax := range []struct {
		name string
		c    physics.AxisCoefficients
	}{{"x", sol.X}, {"y", sol.Y}} {
		s.WriteString(m.st.value.Render(fmt.Sprintf("%s  A %.4f rad  ω %.3f  δ %+.3f", ax.name, ax.c.Amplitude, ax.c.Omega, ax.c.Phase)) + "\n")
	}
	if cfg.ShowRatio {
		s.WriteString(m.st.label.Render("x:y") + m.st.selected.Render(m.plan.Ratio.Approximate(32).String()) +
			m.st.off.Render(fmt.Sprintf("  (%.4f)", m.plan.Ratio.Value)) + "\n")
	}

	n := m.plan.Path.Len()
	progress := 1.0
	if n > 0 {
		progress = float64(m.playhead) / float64(n)
	}
	s.WriteString(ProgressBar(progress, 28, m.st.trace) + m.st.off.Render(fmt.Sprintf(" %d/%d", m.playhead, n)) + "\n")

	if len(m.graph[0]) > 1 {
		chart := asciigraph.PlotMany(m.graph[:],
			asciigraph.Height(6),
			asciigraph.Width(30),
			asciigraph.Precision(3),
			asciigraph.SeriesColors(m.theme.SeriesX, m.theme.SeriesY),
			asciigraph.Caption("x(t) y(t)"),
		)
		s.WriteString(chart + "\n")
	}

	for _, a := range m.plan.Advisories() {
		s.WriteString(m.st.warning.Render("! "+a.String()) + "\n")
	}
	return s.String()
}

func (m Lab) toggle(on bool) string {
	if on {
		return m.st.on.Render("on")
	}
	return m.st.off.Render("off")
}

func (m Lab) viewPresets() string {
	var s strings.Builder
	s.WriteString(m.st.title.Render("PRESETS") + "\n\n")
	for i, name := range m.presets {
		p := config.GetPreset(name)
		if i == m.presetCursor {
			s.WriteString(m.st.selected.Render(fmt.Sprintf("> %-8s %s", name, p.Description)) + "\n")
		} else {
			s.WriteString("  " + m.st.value.Render(fmt.Sprintf("%-8s ", name)) + m.st.off.Render(p.Description) + "\n")
		}
	}
	s.WriteString("\n" + m.st.help.Render("j/k move  enter apply  esc back"))
	return s.String()
}

func (m Lab) viewHelp() string {
	return m.st.title.Render("CONTROLS") + "\n\n" + m.st.value.Render(strings.Join([]string{
		"drag     press, then release to throw",
		"tab      next field",
		"enter    edit field, enter applies",
		"esc      cancel edit",
		"↑/↓      nudge field by 5%",
		"space    replay the trace",
		"p        predicted path on/off",
		"r        frequency ratio on/off",
		"l        length presets",
		"c        clear",
		"s        save figure",
		"t        next theme",
		"?        close help",
		"q        quit",
	}, "\n"))
}

// downsample picks at most n evenly spaced values, keeping the last.
func downsample(v []float64, n int) []float64 {
	if len(v) <= n || n < 2 {
		return v
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = v[i*(len(v)-1)/(n-1)]
	}
	return out
}
