package metrics

import (
	"math"

	"github.com/san-kum/sandpend/internal/dynamo"
	"github.com/san-kum/sandpend/internal/physics"
)

// Deviation is the largest distance in metres between an integrated
// sand pendulum state and the closed-form trajectory at the same time.
type Deviation struct {
	name     string
	pendulum *physics.SandPendulum
	ref      physics.Trajectory
	maxDev   float64
	worstT   float64
	samples  int
}

func NewDeviation(p *physics.SandPendulum, ref physics.Trajectory) *Deviation {
	return &Deviation{
		name:     "deviation",
		pendulum: p,
		ref:      ref,
	}
}

func (d *Deviation) Name() string { return d.name }

func (d *Deviation) Observe(x dynamo.State, t float64) {
	want, err := d.ref.At(t)
	if err != nil {
		return
	}
	got := d.pendulum.Position(x)
	dev := math.Hypot(got.X-want.X, got.Y-want.Y)
	if dev > d.maxDev {
		d.maxDev = dev
		d.worstT = t
	}
	d.samples++
}

func (d *Deviation) Value() float64 {
	return d.maxDev
}

// WorstTime is the time at which the largest deviation was seen.
func (d *Deviation) WorstTime() float64 {
	return d.worstT
}

func (d *Deviation) Reset() {
	d.maxDev = 0
	d.worstT = 0
	d.samples = 0
}
