package viz

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sandpend/internal/config"
	"github.com/san-kum/sandpend/internal/session"
)

func newLab(t *testing.T) Lab {
	t.Helper()
	s, err := session.New(config.DefaultPendulum(), nil)
	require.NoError(t, err)
	m := NewLab(s, Options{FigurePath: filepath.Join(t.TempDir(), "output.png")})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Lab)
}

func send(t *testing.T, m Lab, msgs ...tea.Msg) Lab {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Lab)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

// drag presses at the centre of the canvas and releases dx cells right.
func drag(t *testing.T, m Lab, dx int) Lab {
	t.Helper()
	return dragFrom(t, m, 4, 0, dx, 0)
}

// dragFrom presses (ox, oy) cells from the canvas centre and releases
// (dx, dy) cells further on.
func dragFrom(t *testing.T, m Lab, ox, oy, dx, dy int) Lab {
	t.Helper()
	cx, cy := m.pathCanvas.Width/2+ox, canvasTop+m.pathCanvas.Height/2+oy
	return send(t, m,
		mouse(tea.MouseActionPress, cx, cy),
		mouse(tea.MouseActionMotion, cx+dx/2, cy+dy/2),
		mouse(tea.MouseActionRelease, cx+dx, cy+dy),
	)
}

// drawn reports whether every tenth sample of plan lands on a set dot.
func drawn(m Lab, c *Canvas, plan *session.Plan) bool {
	for i := 0; i < plan.Path.Len(); i += 10 {
		if !c.IsSet(m.view.ToCanvas(plan.Path.Point(i))) {
			return false
		}
	}
	return true
}

func TestLabLayout(t *testing.T) {
	m := newLab(t)
	assert.Equal(t, 120-panelWidth-1, m.pathCanvas.Width)
	assert.Equal(t, 40-chrome, m.pathCanvas.Height)
	assert.Equal(t, m.pathCanvas.Width, m.traceCanvas.Width)
	assert.Contains(t, m.View(), "no throw yet")
}

func TestLabDragThrows(t *testing.T) {
	m := newLab(t)
	m = drag(t, m, 6)

	require.NotNil(t, m.plan)
	assert.False(t, m.dragging)
	assert.Greater(t, m.plan.Velocity.X, 0.0)
	assert.InDelta(t, 0, m.plan.Velocity.Y, 1e-12)
	assert.Equal(t, m.plan, m.session.Last())
	assert.False(t, m.statusErr)
	assert.Len(t, m.graph[0], graphPoints)

	view := m.View()
	assert.Contains(t, view, "MOTION")
	assert.Contains(t, view, "ω")
}

func TestLabPressOutsideCanvasIgnored(t *testing.T) {
	m := newLab(t)
	m = send(t, m, mouse(tea.MouseActionPress, m.pathCanvas.Width+5, 3))
	assert.False(t, m.dragging)
	m = send(t, m, mouse(tea.MouseActionRelease, 2, 3))
	assert.Nil(t, m.plan)
}

func TestLabTicksAdvanceTrace(t *testing.T) {
	m := drag(t, newLab(t), 4)
	require.NotNil(t, m.plan)

	m = send(t, m, tickMsg{}, tickMsg{})
	assert.Equal(t, 2*m.samplesPerTick(), m.playhead)

	for i := 0; i < m.plan.Path.Len(); i++ {
		m = send(t, m, tickMsg{})
	}
	assert.Equal(t, m.plan.Path.Len(), m.playhead)

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Zero(t, m.playhead)
}

func TestLabPacing(t *testing.T) {
	m := newLab(t)
	// 0.03 s per sample is slower than a frame
	assert.Equal(t, 1, m.samplesPerTick())

	cfg := m.session.Config()
	cfg.TimeStep = 0.001
	require.NoError(t, m.session.Update(cfg))
	assert.Equal(t, frameInterval, m.interval())
	assert.Equal(t, 17, m.samplesPerTick())
}

func TestLabEditField(t *testing.T) {
	m := newLab(t)
	m = send(t, m, key("enter"))
	require.True(t, m.editing)
	assert.Equal(t, "1", m.editBuf)

	m = send(t, m, key("backspace"), key("2x.5"), key("enter"))
	assert.False(t, m.editing)
	assert.Equal(t, 2.5, m.session.Config().LengthX)
}

func TestLabEditRejectsInvalid(t *testing.T) {
	m := newLab(t)
	m = send(t, m, key("tab"), key("enter"), key("backspace"), key("backspace"), key("backspace"), key("backspace"))
	m = send(t, m, key("-1"), key("enter"))

	assert.True(t, m.editing)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "length_y")
	assert.Equal(t, config.DefaultLengthY, m.session.Config().LengthY)

	m = send(t, m, key("esc"))
	assert.False(t, m.editing)
}

func TestLabLengthChangeRethrows(t *testing.T) {
	m := drag(t, newLab(t), 4)
	first := m.plan
	require.NotNil(t, first)

	m = dragFrom(t, m, -6, 2, 0, -3)
	second := m.plan

	m = send(t, m, key("up"))
	require.NotNil(t, m.plan)
	plans := m.session.Plans()
	require.Len(t, plans, 2)
	assert.Same(t, plans[1], m.plan)
	for i, old := range []*session.Plan{first, second} {
		assert.NotSame(t, old, plans[i])
		assert.Equal(t, old.Drag, plans[i].Drag)
		assert.InDelta(t, 1.05, plans[i].Solution.LengthX, 1e-12)
	}
}

func TestLabToggles(t *testing.T) {
	m := newLab(t)
	m = send(t, m, key("p"), key("r"))
	cfg := m.session.Config()
	assert.False(t, cfg.PredictPath)
	assert.True(t, cfg.ShowRatio)

	name := m.theme.Name
	m = send(t, m, key("t"))
	assert.NotEqual(t, name, m.theme.Name)
}

func TestLabPresets(t *testing.T) {
	m := newLab(t)
	m = send(t, m, key("l"))
	require.Equal(t, modePresets, m.mode)
	assert.Contains(t, m.View(), "PRESETS")

	want := m.presets[1]
	m = send(t, m, key("down"), key("enter"))
	assert.Equal(t, modeLab, m.mode)

	p := config.GetPreset(want)
	cfg := m.session.Config()
	assert.Equal(t, p.LengthX, cfg.LengthX)
	assert.Equal(t, p.LengthY, cfg.LengthY)
}

func TestLabClearAndSave(t *testing.T) {
	m := newLab(t)
	m = send(t, m, key("s"))
	assert.True(t, m.statusErr)

	m = drag(t, m, 5)
	m = send(t, m, key("s"))
	require.False(t, m.statusErr, m.status)
	_, err := os.Stat(m.figure)
	require.NoError(t, err)

	m = send(t, m, key("c"))
	assert.Nil(t, m.plan)
	assert.Nil(t, m.session.Last())
	assert.Empty(t, m.session.Plans())
}

func TestLabThrowsStayOnCanvas(t *testing.T) {
	m := newLab(t)
	// keep the newest throw off the path layer so only history shows there
	m = send(t, m, key("p"))

	m = dragFrom(t, m, -6, 0, 4, 0)
	first := m.plan
	require.NotNil(t, first)
	m = dragFrom(t, m, 10, -2, 0, 3)
	second := m.plan
	require.NotNil(t, second)
	require.NotSame(t, first, second)

	assert.Equal(t, []*session.Plan{first, second}, m.session.Plans())
	assert.Contains(t, m.View(), "throw 2")

	m.view.Snap()
	m.View()
	assert.True(t, drawn(m, m.pathCanvas, first), "earlier throw missing")
	assert.False(t, drawn(m, m.pathCanvas, second), "newest throw drawn as history")

	m = send(t, m, tickMsg{}, tickMsg{}, tickMsg{})
	m.View()
	assert.True(t, drawn(m, m.pathCanvas, first), "earlier throw lost after ticks")
	assert.Equal(t, 3*m.samplesPerTick(), m.playhead)

	m = send(t, m, key("s"))
	require.False(t, m.statusErr, m.status)

	m = send(t, m, key("c"))
	m.View()
	assert.Empty(t, m.session.Plans())
	assert.False(t, drawn(m, m.pathCanvas, first))
}

func TestLabQuit(t *testing.T) {
	m := newLab(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
