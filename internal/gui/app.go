package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/sandpend/internal/audio"
	"github.com/san-kum/sandpend/internal/config"
	"github.com/san-kum/sandpend/internal/export"
	"github.com/san-kum/sandpend/internal/physics"
	"github.com/san-kum/sandpend/internal/session"
	"github.com/san-kum/sandpend/internal/viz"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)    // Deep Black
	ColAccent  = rl.NewColor(180, 180, 180, 255) // Soft White
	ColSelect  = rl.NewColor(255, 255, 255, 255) // Bright White
	ColText    = rl.NewColor(140, 140, 140, 255) // Neutral Gray
	ColTextDim = rl.NewColor(60, 60, 60, 255)    // Dark Gray (Subtle)
	ColGrid    = rl.NewColor(30, 30, 30, 255)    // Barely visible grid
	ColArrow   = rl.NewColor(64, 192, 255, 255)
	ColWarn    = rl.NewColor(255, 159, 28, 255)
	ColErr     = rl.NewColor(230, 57, 70, 255)
)

const (
	screenW = 1280
	screenH = 720
	fps     = 60
)

// Options configure the window.
type Options struct {
	FigurePath string
	Audio      bool
	Logger     *zap.Logger
}

type App struct {
	Session *session.Session
	Plan    *session.Plan
	View    *viz.Viewport
	Font    rl.Font

	// Gesture in metres
	Dragging  bool
	DragStart physics.Point
	DragEnd   physics.Point

	// Animation
	Playhead float64 // samples drawn so far
	Colours  []rl.Color

	Status    string
	StatusErr bool
	Figure    string

	// Audio
	Audio *audio.Player

	logger *zap.Logger
}

// initWindow initializes the Raylib window, sets the target FPS to 60, and disables the default exit key.
func initWindow() {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(screenW, screenH, "sandpend")
	rl.SetTargetFPS(fps)
	rl.SetExitKey(0)
}

// loadFont loads the Liberation Mono font from the system path and enables bilinear texture filtering.
// A missing font falls back to raylib's built-in one.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(s *session.Session, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.FigurePath == "" {
		opts.FigurePath = export.DefaultFigure
	}

	cfg := s.Config()
	app := &App{
		Session: s,
		View:    viz.NewViewport(screenW, screenH, math.Max(cfg.LengthX, cfg.LengthY)*0.3, fps),
		Font:    loadFont(),
		Figure:  opts.FigurePath,
		Status:  "press and drag to throw",
		logger:  opts.Logger.Named("gui"),
	}

	if opts.Audio {
		app.Audio = audio.NewPlayer(opts.Logger)
		if err := app.Audio.Start(); err != nil {
			app.logger.Warn("audio unavailable", zap.Error(err))
			app.Audio = nil
		}
	}
	return app
}

// Run opens the window and blocks until it is closed.
func Run(s *session.Session, opts Options) error {
	initWindow()
	defer rl.CloseWindow()

	app := NewApp(s, opts)
	defer app.Close()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) Close() {
	if a.Audio != nil {
		a.Audio.Stop()
	}
}

// Update handles one frame of input. It returns false when the user quits.
func (a *App) Update() bool {
	a.View.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
	a.View.Step()

	mouse := a.toWorld(rl.GetMousePosition())
	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		a.Dragging = true
		a.DragStart, a.DragEnd = mouse, mouse
	case a.Dragging && rl.IsMouseButtonReleased(rl.MouseLeftButton):
		a.Dragging = false
		a.DragEnd = mouse
		a.throw(session.Drag{Start: a.DragStart, End: a.DragEnd})
	case a.Dragging:
		a.DragEnd = mouse
	}

	if a.Plan != nil {
		step := a.Session.Config().TimeStep
		a.Playhead = advance(a.Playhead, float64(rl.GetFrameTime()), step, a.Plan.Path.Len())
	}

	cfg := a.Session.Config()
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		return false
	case rl.IsKeyPressed(rl.KeyC):
		a.Session.Clear()
		a.Plan = nil
		a.Playhead = 0
		a.setStatus("cleared", false)
		if a.Audio != nil {
			a.Audio.Release()
		}
	case rl.IsKeyPressed(rl.KeyS):
		rl.TakeScreenshot(a.Figure)
		a.setStatus("saved "+a.Figure, false)
		a.logger.Info("screenshot saved", zap.String("path", a.Figure))
	case rl.IsKeyPressed(rl.KeyP):
		cfg.PredictPath = !cfg.PredictPath
		a.apply(cfg)
	case rl.IsKeyPressed(rl.KeyR):
		cfg.ShowRatio = !cfg.ShowRatio
		a.apply(cfg)
	case rl.IsKeyPressed(rl.KeySpace):
		a.Playhead = 0
	case rl.IsKeyPressed(rl.KeyA):
		a.toggleAudio()
	case rl.IsKeyPressed(rl.KeyRight):
		cfg.LengthX *= 1.05
		a.apply(cfg)
	case rl.IsKeyPressed(rl.KeyLeft):
		cfg.LengthX *= 0.95
		a.apply(cfg)
	case rl.IsKeyPressed(rl.KeyUp):
		cfg.LengthY *= 1.05
		a.apply(cfg)
	case rl.IsKeyPressed(rl.KeyDown):
		cfg.LengthY *= 0.95
		a.apply(cfg)
	}
	return true
}

func (a *App) toWorld(v rl.Vector2) physics.Point {
	return a.View.ToWorld(int(v.X), int(v.Y))
}

func (a *App) toScreen(p physics.Point) rl.Vector2 {
	x, y := a.View.ToCanvas(p)
	return rl.NewVector2(float32(x), float32(y))
}

func (a *App) setStatus(msg string, isErr bool) {
	a.Status, a.StatusErr = msg, isErr
}

func (a *App) throw(d session.Drag) {
	plan, err := a.Session.Throw(d)
	if err != nil {
		a.setStatus(err.Error(), true)
		return
	}
	a.show(plan)
	a.setStatus(fmt.Sprintf("v = (%.3f, %.3f) m/s", plan.Velocity.X, plan.Velocity.Y), false)
}

// show animates plan and fits the view to every throw in the session.
func (a *App) show(plan *session.Plan) {
	a.Plan = plan
	a.Playhead = 0
	a.DragStart, a.DragEnd = plan.Drag.Start, plan.Drag.End

	var ext physics.Point
	var also []physics.Point
	n := 0
	for _, p := range a.Session.Plans() {
		e := p.Trajectory.Extent()
		ext.X, ext.Y = math.Max(ext.X, e.X), math.Max(ext.Y, e.Y)
		also = append(also, p.Drag.Start, p.Drag.End)
		n = max(n, p.Path.Len())
	}
	a.Colours = gradient(n)
	a.View.Fit(ext, also...)

	if a.Audio != nil && a.Audio.Playing() {
		a.play()
	}
}

// apply hands cfg to the session and re-solves every throw.
func (a *App) apply(cfg config.PendulumConfig) {
	if err := a.Session.Update(cfg); err != nil {
		a.setStatus(err.Error(), true)
		return
	}
	a.setStatus(fmt.Sprintf("Lx %.3f m  Ly %.3f m", cfg.LengthX, cfg.LengthY), false)
	if a.Plan == nil {
		return
	}
	plans, err := a.Session.Rethrow()
	if err != nil {
		a.setStatus(err.Error(), true)
		return
	}
	a.show(plans[len(plans)-1])
}

func (a *App) toggleAudio() {
	switch {
	case a.Audio == nil:
		a.setStatus("audio unavailable", true)
	case a.Audio.Playing():
		a.Audio.Release()
	case a.Plan != nil:
		a.play()
	}
}

func (a *App) play() {
	s, err := audio.NewSynth(a.Plan.Path, audio.DefaultSpeed)
	if err != nil {
		a.setStatus(err.Error(), true)
		return
	}
	a.Audio.Play(s)
}

// advance moves the playhead by one frame of real time, one sample per
// step seconds, stopping at n.
func advance(playhead, frame, step float64, n int) float64 {
	if step <= 0 {
		return float64(n)
	}
	return math.Min(playhead+frame/step, float64(n))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawAxes()
	for _, p := range a.Session.Plans() {
		if p != a.Plan {
			a.drawPath(p.Path, p.Path.Len(), 1, 160)
		}
	}
	if a.Plan != nil {
		if a.Session.Config().PredictPath {
			a.drawPath(a.Plan.Path, a.Plan.Path.Len(), 1, 90)
		}
		a.drawPath(a.Plan.Path, int(a.Playhead), 2, 255)
		a.drawBob()
	}
	if a.Dragging || a.Plan != nil {
		a.drawArrow(a.DragStart, a.DragEnd)
	}
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("sandpend", 30, 30, 24, ColSelect)

	cfg := a.Session.Config()
	y := 70
	line := func(label, value string, col rl.Color) {
		a.drawText(fmt.Sprintf("%-8s %s", label, value), 30, y, 16, col)
		y += 22
	}
	line("Lx", fmt.Sprintf("%.3f m", cfg.LengthX), ColText)
	line("Ly", fmt.Sprintf("%.3f m", cfg.LengthY), ColText)
	line("time", fmt.Sprintf("%.2f s / %.3f s", cfg.MaxTime, cfg.TimeStep), ColText)
	line("path", onOff(cfg.PredictPath), ColText)

	if a.Plan != nil {
		y += 10
		sol := a.Plan.Solution
		line("x", fmt.Sprintf("A %.4f  ω %.3f  δ %+.3f", sol.X.Amplitude, sol.X.Omega, sol.X.Phase), ColAccent)
		line("y", fmt.Sprintf("A %.4f  ω %.3f  δ %+.3f", sol.Y.Amplitude, sol.Y.Omega, sol.Y.Phase), ColAccent)
		if cfg.ShowRatio {
			line("x:y", fmt.Sprintf("%s (%.4f)", a.Plan.Ratio.Approximate(32), a.Plan.Ratio.Value), ColSelect)
		}
		for _, adv := range a.Plan.Advisories() {
			a.drawText(adv.String(), 30, y, 14, ColWarn)
			y += 20
		}
	}

	h := rl.GetScreenHeight()
	col := ColText
	if a.StatusErr {
		col = ColErr
	}
	a.drawText(a.Status, 30, h-70, 16, col)
	a.drawText("[DRAG] THROW  [C] CLEAR  [S] SAVE  [P] PATH  [R] RATIO  [←→] LX  [↑↓] LY  [SPACE] REPLAY  [A] AUDIO  [Q] QUIT", 30, h-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), rl.GetScreenWidth()-100, 30, 14, ColTextDim)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
