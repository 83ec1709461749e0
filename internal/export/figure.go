package export

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgeps"
	_ "gonum.org/v1/plot/vg/vgsvg"

	"github.com/san-kum/sandpend/internal/physics"
	"github.com/san-kum/sandpend/internal/session"
)

// DefaultFigure is the file the save button writes.
const DefaultFigure = "output.png"

// colourBands is how many colour steps the path is split into.
const colourBands = 64

type FigureOptions struct {
	Width     vg.Length
	Height    vg.Length
	DPI       int
	Title     string
	ShowRatio bool
	ShowThrow bool
}

func DefaultFigureOptions() FigureOptions {
	return FigureOptions{
		Width:     6 * vg.Inch,
		Height:    6 * vg.Inch,
		DPI:       150,
		Title:     "Sand pendulum",
		ShowThrow: true,
	}
}

// Figure overlays the static paths of plans, each coloured from dark to
// bright along time, with the throw starts and drag arrows on top. The
// ratio in the title is the newest plan's.
func Figure(plans []*session.Plan, opts FigureOptions) (*plot.Plot, error) {
	if len(plans) == 0 {
		return nil, fmt.Errorf("figure: no throw to draw")
	}
	for _, plan := range plans {
		if plan == nil || plan.Path == nil {
			return nil, fmt.Errorf("figure: no throw to draw")
		}
	}
	newest := plans[len(plans)-1]

	p := plot.New()
	p.Title.Text = opts.Title
	if opts.ShowRatio {
		p.Title.Text = strings.TrimSpace(fmt.Sprintf("%s   x:y %s", opts.Title, newest.Ratio.Approximate(32)))
	}
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	p.BackgroundColor = color.Black
	p.Title.TextStyle.Color = color.White
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Color = color.Gray{Y: 0xaa}
		ax.Label.TextStyle.Color = color.Gray{Y: 0xaa}
		ax.Tick.Color = color.Gray{Y: 0xaa}
		ax.Tick.Label.Color = color.Gray{Y: 0xaa}
	}

	cmap := moreland.ExtendedBlackBody()
	cmap.SetMin(0)
	cmap.SetMax(1)
	for _, plan := range plans {
		if err := addPath(p, plan.Path, cmap); err != nil {
			return nil, err
		}
	}

	if opts.ShowThrow {
		for _, plan := range plans {
			if err := addThrow(p, plan.Drag); err != nil {
				return nil, err
			}
		}
	}

	var r float64
	for _, plan := range plans {
		r = math.Max(r, figureRadius(plan))
	}
	p.X.Min, p.X.Max = -r, r
	p.Y.Min, p.Y.Max = -r, r
	return p, nil
}

func addPath(p *plot.Plot, path *physics.Path, cmap palette.ColorMap) error {
	n := path.Len()
	if n < 2 {
		return nil
	}

	pts := path.Points()
	band := max(1, (n+colourBands-1)/colourBands)
	for start := 0; start < n-1; start += band {
		end := min(start+band, n-1)
		seg := make(plotter.XYs, 0, end-start+1)
		for i := start; i <= end; i++ {
			seg = append(seg, plotter.XY{X: pts[i].X, Y: pts[i].Y})
		}

		line, err := plotter.NewLine(seg)
		if err != nil {
			return err
		}
		c, err := cmap.At(0.25 + 0.75*float64(start)/float64(n-1))
		if err != nil {
			return err
		}
		line.LineStyle.Color = c
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
	}
	return nil
}

func addThrow(p *plot.Plot, d session.Drag) error {
	start, err := plotter.NewScatter(plotter.XYs{{X: d.Start.X, Y: d.Start.Y}})
	if err != nil {
		return err
	}
	start.GlyphStyle.Shape = draw.RingGlyph{}
	start.GlyphStyle.Color = color.RGBA{R: 0x40, G: 0xc0, B: 0xff, A: 0xff}
	start.GlyphStyle.Radius = vg.Points(4)
	p.Add(start)

	dx, dy := d.End.X-d.Start.X, d.End.Y-d.Start.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil
	}

	// shaft plus two barbs at ±25° from the reversed direction
	head := 0.2 * length
	back := math.Atan2(-dy, -dx)
	arrow := plotter.XYs{
		{X: d.Start.X, Y: d.Start.Y},
		{X: d.End.X, Y: d.End.Y},
		{X: d.End.X + head*math.Cos(back+0.44), Y: d.End.Y + head*math.Sin(back+0.44)},
		{X: d.End.X, Y: d.End.Y},
		{X: d.End.X + head*math.Cos(back-0.44), Y: d.End.Y + head*math.Sin(back-0.44)},
	}
	line, err := plotter.NewLine(arrow)
	if err != nil {
		return err
	}
	line.LineStyle.Color = start.GlyphStyle.Color
	line.LineStyle.Width = vg.Points(1)
	p.Add(line)
	return nil
}

// figureRadius keeps both axes on the same symmetric scale so the figure
// is not stretched.
func figureRadius(plan *session.Plan) float64 {
	ext := plan.Trajectory.Extent()
	r := math.Max(ext.X, ext.Y)
	for _, v := range []float64{plan.Drag.Start.X, plan.Drag.Start.Y, plan.Drag.End.X, plan.Drag.End.Y} {
		r = math.Max(r, math.Abs(v))
	}
	if r == 0 {
		r = 0.1
	}
	return 1.1 * r
}

// WriteFigure encodes the figure as format: png, jpg, svg or eps.
func WriteFigure(w io.Writer, plans []*session.Plan, opts FigureOptions, format string) error {
	p, err := Figure(plans, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// PNG renders the figure at opts.DPI and writes it to path.
func PNG(path string, plans []*session.Plan, opts FigureOptions) (err error) {
	p, err := Figure(plans, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
	}

	c := vgimg.NewWith(
		vgimg.UseWH(opts.Width, opts.Height),
		vgimg.UseDPI(opts.DPI),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("cannot write png: %w", cerr)
		}
	}()

	return encodePNG(f, c)
}

// encodePNG writes c to w through a buffer and reports the flush.
func encodePNG(w io.Writer, c *vgimg.Canvas) error {
	bw := bufio.NewWriter(w)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}
