package viz

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/sandpend/internal/physics"
)

const (
	// minRadius keeps a throw from rest from zooming in without bound.
	minRadius = 0.05
	// margin leaves room around the figure.
	margin = 1.15
)

// Viewport maps metres to canvas dots with the origin in the middle of
// the canvas and y pointing up. Its zoom follows a critically damped
// spring so a new throw eases into frame.
type Viewport struct {
	dotsWide, dotsHigh int

	radius   float64 // m shown from centre to the nearest edge
	velocity float64
	target   float64
	spring   harmonica.Spring
}

func NewViewport(dotsWide, dotsHigh int, radius float64, fps int) *Viewport {
	radius = max(radius, minRadius)
	return &Viewport{
		dotsWide: dotsWide,
		dotsHigh: dotsHigh,
		radius:   radius,
		target:   radius,
		spring:   harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Resize changes the dot dimensions without touching the zoom.
func (v *Viewport) Resize(dotsWide, dotsHigh int) {
	v.dotsWide, v.dotsHigh = dotsWide, dotsHigh
}

// scale is metres per dot.
func (v *Viewport) scale() float64 {
	half := float64(min(v.dotsWide, v.dotsHigh)) / 2
	if half <= 0 {
		return 1
	}
	return v.radius / half
}

// ToCanvas returns the dot nearest p.
func (v *Viewport) ToCanvas(p physics.Point) (int, int) {
	s := v.scale()
	x := float64(v.dotsWide)/2 + p.X/s
	y := float64(v.dotsHigh)/2 - p.Y/s
	return int(math.Round(x)), int(math.Round(y))
}

// ToWorld returns the point in metres under dot (x, y).
func (v *Viewport) ToWorld(x, y int) physics.Point {
	s := v.scale()
	return physics.Point{
		X: (float64(x) - float64(v.dotsWide)/2) * s,
		Y: (float64(v.dotsHigh)/2 - float64(y)) * s,
	}
}

// Radius is the current zoom in metres.
func (v *Viewport) Radius() float64 { return v.radius }

// Fit sets the zoom target so a figure reaching extent fits with margin.
func (v *Viewport) Fit(extent physics.Point, also ...physics.Point) {
	r := math.Max(extent.X, extent.Y)
	for _, p := range also {
		r = math.Max(r, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	v.target = max(margin*r, minRadius)
}

// Snap jumps straight to the target.
func (v *Viewport) Snap() {
	v.radius, v.velocity = v.target, 0
}

// Step advances the spring by one frame and reports whether it is
// still moving.
func (v *Viewport) Step() bool {
	if v.Settled() {
		v.Snap()
		return false
	}
	v.radius, v.velocity = v.spring.Update(v.radius, v.velocity, v.target)
	v.radius = max(v.radius, minRadius/2)
	return true
}

// Settled reports whether the zoom is at its target.
func (v *Viewport) Settled() bool {
	return math.Abs(v.radius-v.target) < 1e-4*v.target && math.Abs(v.velocity) < 1e-4*v.target
}
