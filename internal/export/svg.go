package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/sandpend/internal/physics"
)

// CanvasToSVG converts the rows of a braille canvas to SVG dots.
func CanvasToSVG(grid [][]rune, scale float64, dotColor string) string {
	if len(grid) == 0 {
		return ""
	}

	rows, cols := len(grid), len(grid[0])
	width := float64(cols) * scale * 2  // 2 sub-pixels per char
	height := float64(rows) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, dotColor)

	// braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := range grid {
		for col, r := range grid[row] {
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws points as a single polyline. The scale is the
// same on both axes and the origin sits in the middle, so the figure
// keeps the pendulum's proportions.
func TrajectoryToSVG(points []physics.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	r := 0.0
	for _, p := range points {
		r = max(r, abs(p.X), abs(p.Y))
	}
	if r == 0 {
		r = 1
	}
	r *= 1.1
	scale := float64(min(width, height)) / (2 * r)
	cx, cy := float64(width)/2, float64(height)/2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range points {
		x := cx + p.X*scale
		y := cy - p.Y*scale
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// WriteSVG writes the plan's path with TrajectoryToSVG.
func WriteSVG(w io.Writer, path *physics.Path, width, height int, strokeColor string) error {
	svg := TrajectoryToSVG(path.Points(), width, height, strokeColor)
	if svg == "" {
		return fmt.Errorf("svg: need at least 2 samples, have %d", path.Len())
	}
	_, err := io.WriteString(w, svg)
	return err
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
