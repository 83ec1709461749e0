package gui

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/plot/palette/moreland"

	"github.com/san-kum/sandpend/internal/physics"
)

// gradient colours n samples from dark red to pale yellow, the same map
// the exported figures use.
func gradient(n int) []rl.Color {
	cmap := moreland.ExtendedBlackBody()
	cmap.SetMin(0)
	cmap.SetMax(1)

	out := make([]rl.Color, n)
	for i := range out {
		v := 0.25
		if n > 1 {
			v += 0.75 * float64(i) / float64(n-1)
		}
		c, err := cmap.At(v)
		if err != nil {
			out[i] = ColAccent
			continue
		}
		rgba := color.RGBAModel.Convert(c).(color.RGBA)
		out[i] = rl.NewColor(rgba.R, rgba.G, rgba.B, 255)
	}
	return out
}

func (a *App) drawAxes() {
	o := a.toScreen(physics.Point{})
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	rl.DrawLineV(rl.NewVector2(0, o.Y), rl.NewVector2(w, o.Y), ColGrid)
	rl.DrawLineV(rl.NewVector2(o.X, 0), rl.NewVector2(o.X, h), ColGrid)
}

// drawPath draws the first n samples of path.
func (a *App) drawPath(path *physics.Path, n int, thick float32, alpha uint8) {
	n = min(n, path.Len(), len(a.Colours))
	if n < 2 {
		return
	}
	prev := a.toScreen(path.Point(0))
	for i := 1; i < n; i++ {
		cur := a.toScreen(path.Point(i))
		c := a.Colours[i]
		c.A = alpha
		rl.DrawLineEx(prev, cur, thick, c)
		prev = cur
	}
}

func (a *App) drawBob() {
	n := a.Plan.Path.Len()
	i := int(a.Playhead)
	if n == 0 || i >= n {
		return
	}
	pos := a.toScreen(a.Plan.Path.Point(i))
	rl.DrawCircleV(pos, 6, rl.Fade(ColSelect, 0.3))
	rl.DrawCircleV(pos, 3, ColSelect)
}

func (a *App) drawArrow(from, to physics.Point) {
	s, e := a.toScreen(from), a.toScreen(to)
	rl.DrawCircleLines(int32(s.X), int32(s.Y), 6, ColArrow)

	dx, dy := float64(e.X-s.X), float64(e.Y-s.Y)
	length := math.Hypot(dx, dy)
	if length < 1 {
		return
	}
	rl.DrawLineEx(s, e, 2, ColArrow)

	l, r := arrowHead(s, e, 14)
	rl.DrawTriangle(e, l, r, ColArrow)
	rl.DrawTriangle(e, r, l, ColArrow)
}

// arrowHead returns the two back corners of a head of the given size at
// the end of the segment from s to e.
func arrowHead(s, e rl.Vector2, size float64) (rl.Vector2, rl.Vector2) {
	back := math.Atan2(float64(s.Y-e.Y), float64(s.X-e.X))
	corner := func(a float64) rl.Vector2 {
		return rl.NewVector2(e.X+float32(size*math.Cos(a)), e.Y+float32(size*math.Sin(a)))
	}
	return corner(back + 0.44), corner(back - 0.44)
}
