package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layer is a canvas drawn in one style. Earlier layers win where cells
// overlap.
type Layer struct {
	Canvas *Canvas
	Style  lipgloss.Style
}

// RenderLayers composes same-sized canvases into styled text. Runs of
// cells that share a layer are rendered together.
func RenderLayers(blank lipgloss.Style, layers ...Layer) string {
	if len(layers) == 0 {
		return ""
	}
	w, h := layers[0].Canvas.Width, layers[0].Canvas.Height

	var b strings.Builder
	var run []rune
	owner := -1
	flush := func() {
		if len(run) == 0 {
			return
		}
		style := blank
		if owner >= 0 {
			style = layers[owner].Style
		}
		b.WriteString(style.Render(string(run)))
		run = run[:0]
	}

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			r, who := rune(brailleBlank), -1
			for i, l := range layers {
				if row < l.Canvas.Height && col < l.Canvas.Width && !l.Canvas.Empty(row, col) {
					r, who = l.Canvas.Grid[row][col], i
					break
				}
			}
			if who != owner {
				flush()
				owner = who
			}
			run = append(run, r)
		}
		flush()
		owner = -1
		b.WriteByte('\n')
	}
	return b.String()
}
