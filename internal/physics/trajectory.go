package physics

import (
	"iter"
	"math"

	"github.com/san-kum/sandpend/internal/dynamo"
)

// MaxSamples bounds the number of samples a single Path may describe.
const MaxSamples = 1 << 26

// parallelChunk is the smallest slice of samples worth a goroutine.
const parallelChunk = 1 << 14

// Point is a bob position in metres.
type Point struct {
	X, Y float64
}

// Trajectory evaluates the closed-form motion of both axes.
type Trajectory struct {
	X, Y    AxisCoefficients
	LengthX float64
	LengthY float64
}

// NewTrajectory rejects lengths that are not positive and finite.
func NewTrajectory(cx, cy AxisCoefficients, lengthX, lengthY float64) (Trajectory, error) {
	tr := Trajectory{X: cx, Y: cy, LengthX: lengthX, LengthY: lengthY}
	if err := tr.validate(); err != nil {
		return Trajectory{}, err
	}
	return tr, nil
}

// EvaluateInstant returns the bob position at time t.
func EvaluateInstant(cx, cy AxisCoefficients, lengthX, lengthY, t float64) (Point, error) {
	tr, err := NewTrajectory(cx, cy, lengthX, lengthY)
	if err != nil {
		return Point{}, err
	}
	return tr.At(t)
}

// EvaluateRange samples the trajectory at t = 0, step, 2·step, … while t < duration.
func EvaluateRange(cx, cy AxisCoefficients, lengthX, lengthY, duration, step float64) (*Path, error) {
	tr, err := NewTrajectory(cx, cy, lengthX, lengthY)
	if err != nil {
		return nil, err
	}
	return tr.Range(duration, step)
}

func (tr Trajectory) validate() error {
	if err := checkLength("length_x", tr.LengthX); err != nil {
		return err
	}
	return checkLength("length_y", tr.LengthY)
}

// At returns the bob position at time t.
func (tr Trajectory) At(t float64) (Point, error) {
	if err := tr.validate(); err != nil {
		return Point{}, err
	}
	if err := checkFinite("time", t); err != nil {
		return Point{}, err
	}
	return tr.at(t), nil
}

func (tr Trajectory) at(t float64) Point {
	return Point{
		X: tr.LengthX * tr.X.Amplitude * math.Cos(tr.X.Omega*t+tr.X.Phase),
		Y: tr.LengthY * tr.Y.Amplitude * math.Cos(tr.Y.Omega*t+tr.Y.Phase),
	}
}

// Angles returns θx and θy at time t.
func (tr Trajectory) Angles(t float64) (float64, float64, error) {
	if err := checkFinite("time", t); err != nil {
		return 0, 0, err
	}
	return tr.X.Amplitude * math.Cos(tr.X.Omega*t+tr.X.Phase),
		tr.Y.Amplitude * math.Cos(tr.Y.Omega*t+tr.Y.Phase), nil
}

// AngularVelocities returns dθx/dt and dθy/dt at time t.
func (tr Trajectory) AngularVelocities(t float64) (float64, float64, error) {
	if err := checkFinite("time", t); err != nil {
		return 0, 0, err
	}
	return -tr.X.Amplitude * tr.X.Omega * math.Sin(tr.X.Omega*t+tr.X.Phase),
		-tr.Y.Amplitude * tr.Y.Omega * math.Sin(tr.Y.Omega*t+tr.Y.Phase), nil
}

// Velocity returns the bob velocity in m/s at time t.
func (tr Trajectory) Velocity(t float64) (Point, error) {
	if err := tr.validate(); err != nil {
		return Point{}, err
	}
	wx, wy, err := tr.AngularVelocities(t)
	if err != nil {
		return Point{}, err
	}
	return Point{X: tr.LengthX * wx, Y: tr.LengthY * wy}, nil
}

// Range describes the samples at t = i·step for every i with t < duration.
// A non-positive duration gives an empty path.
func (tr Trajectory) Range(duration, step float64) (*Path, error) {
	if err := tr.validate(); err != nil {
		return nil, err
	}
	if err := checkFinite("duration", duration); err != nil {
		return nil, err
	}
	if err := checkFinite("step", step); err != nil {
		return nil, err
	}
	if step <= 0 {
		return nil, dynamo.NewDomainError("step", step, "must be positive")
	}

	if duration <= 0 {
		return &Path{tr: tr, step: step}, nil
	}

	count := math.Ceil(duration / step)
	if count > MaxSamples {
		return nil, dynamo.NewDomainError("step", step, "too small for the requested duration")
	}

	n := int(count)
	for n > 0 && float64(n-1)*step >= duration {
		n--
	}

	return &Path{tr: tr, step: step, n: n}, nil
}

// Path is a finite sequence of trajectory samples. Samples are computed on
// demand, so a Path can be iterated any number of times.
type Path struct {
	tr   Trajectory
	step float64
	n    int
}

func (p *Path) Len() int               { return p.n }
func (p *Path) Step() float64          { return p.step }
func (p *Path) Trajectory() Trajectory { return p.tr }
func (p *Path) Time(i int) float64     { return float64(i) * p.step }
func (p *Path) Point(i int) Point      { return p.tr.at(p.Time(i)) }

// All yields (t, point) pairs in chronological order.
func (p *Path) All() iter.Seq2[float64, Point] {
	return func(yield func(float64, Point) bool) {
		for i := 0; i < p.n; i++ {
			t := p.Time(i)
			if !yield(t, p.tr.at(t)) {
				return
			}
		}
	}
}

// Take returns the first n samples as a new Path.
func (p *Path) Take(n int) *Path {
	if n < 0 {
		n = 0
	}
	if n > p.n {
		n = p.n
	}
	return &Path{tr: p.tr, step: p.step, n: n}
}

// Points materializes every sample.
func (p *Path) Points() []Point {
	pts := make([]Point, p.n)
	dynamo.ParallelFor(p.n, parallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			pts[i] = p.Point(i)
		}
	})
	return pts
}

// Times returns the sample times.
func (p *Path) Times() []float64 {
	ts := make([]float64, p.n)
	for i := range ts {
		ts[i] = p.Time(i)
	}
	return ts
}

// XY splits the samples into separate x and y slices.
func (p *Path) XY() ([]float64, []float64) {
	xs := make([]float64, p.n)
	ys := make([]float64, p.n)
	dynamo.ParallelFor(p.n, parallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			pt := p.Point(i)
			xs[i], ys[i] = pt.X, pt.Y
		}
	})
	return xs, ys
}

// Bounds returns the component-wise minimum and maximum of the samples.
// An empty path returns zero points.
func (p *Path) Bounds() (lo, hi Point) {
	if p.n == 0 {
		return Point{}, Point{}
	}
	lo = p.Point(0)
	hi = lo
	for _, pt := range p.All() {
		lo.X = math.Min(lo.X, pt.X)
		lo.Y = math.Min(lo.Y, pt.Y)
		hi.X = math.Max(hi.X, pt.X)
		hi.Y = math.Max(hi.Y, pt.Y)
	}
	return lo, hi
}

// Extent returns the largest absolute coordinate the trajectory can reach:
// L·A on each axis.
func (tr Trajectory) Extent() Point {
	return Point{
		X: math.Abs(tr.LengthX * tr.X.Amplitude),
		Y: math.Abs(tr.LengthY * tr.Y.Amplitude),
	}
}
