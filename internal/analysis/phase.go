package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/sandpend/internal/physics"
)

// Axis picks one swing direction of the pendulum.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// ParseAxis accepts "x" or "y".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	}
	return AxisX, fmt.Errorf("unknown axis %q, want x or y", s)
}

// PhasePoint is one sample of a 2D plot.
type PhasePoint struct {
	X, Y float64
}

// PhasePortrait2D holds θ (X) against θ̇ (Y) for one axis.
type PhasePortrait2D struct {
	Axis   Axis
	Points []PhasePoint
}

// GeneratePhasePortrait samples the closed form every step seconds while
// t < duration. A small-angle axis traces an ellipse.
func GeneratePhasePortrait(tr physics.Trajectory, axis Axis, duration, step float64) (*PhasePortrait2D, error) {
	path, err := tr.Range(duration, step)
	if err != nil {
		return nil, err
	}

	portrait := &PhasePortrait2D{
		Axis:   axis,
		Points: make([]PhasePoint, 0, path.Len()),
	}
	for i := 0; i < path.Len(); i++ {
		t := path.Time(i)
		thetaX, thetaY, err := tr.Angles(t)
		if err != nil {
			return nil, err
		}
		omegaX, omegaY, err := tr.AngularVelocities(t)
		if err != nil {
			return nil, err
		}
		p := PhasePoint{X: thetaX, Y: omegaX}
		if axis == AxisY {
			p = PhasePoint{X: thetaY, Y: omegaY}
		}
		portrait.Points = append(portrait.Points, p)
	}
	return portrait, nil
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}
	return plotASCII(portrait.Points, width, height)
}

func plotASCII(points []PhasePoint, width, height int) string {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	// pad by 10%
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if grid[row][col] == ' ' {
				grid[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if grid[row][col] == ' ' {
				grid[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PoincareSection holds bob positions recorded at each upward zero
// crossing of the x swing. A rational frequency ratio gives a finite set
// of distinct points.
type PoincareSection struct {
	Points []PhasePoint
}

// GeneratePoincareSection samples tr every step seconds while t < duration
// and linearly interpolates the position at each crossing.
func GeneratePoincareSection(tr physics.Trajectory, duration, step float64) (*PoincareSection, error) {
	path, err := tr.Range(duration, step)
	if err != nil {
		return nil, err
	}

	section := &PoincareSection{}
	if path.Len() == 0 {
		return section, nil
	}

	prev := path.Point(0)
	for i := 1; i < path.Len(); i++ {
		curr := path.Point(i)
		if prev.X < 0 && curr.X >= 0 {
			frac := -prev.X / (curr.X - prev.X)
			section.Points = append(section.Points, PhasePoint{
				X: 0,
				Y: prev.Y + frac*(curr.Y-prev.Y),
			})
		}
		prev = curr
	}
	return section, nil
}

// PoincareSectionToASCII converts section data to ASCII plot
func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}
	if width < 2 || height < 2 {
		return ""
	}
	return plotASCII(section.Points, width, height)
}
