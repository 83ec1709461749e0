package metrics

import (
	"math"

	"github.com/san-kum/sandpend/internal/dynamo"
	"github.com/san-kum/sandpend/internal/physics"
)

// SmallAngle is the fraction of observed states whose swing angles all
// stay within a limit. The first StateDim/2 entries are taken as angles.
type SmallAngle struct {
	name       string
	limit      float64
	violations int
	samples    int
}

// NewSmallAngle uses physics.IsochronismLimit when limit is not positive.
func NewSmallAngle(limit float64) *SmallAngle {
	if !(limit > 0) {
		limit = physics.IsochronismLimit
	}
	return &SmallAngle{
		name:  "small_angle",
		limit: limit,
	}
}

func (s *SmallAngle) Name() string {
	return s.name
}

func (s *SmallAngle) Observe(x dynamo.State, t float64) {
	s.samples++
	for _, theta := range x[:len(x)/2] {
		if math.Abs(theta) > s.limit {
			s.violations++
			break
		}
	}
}

func (s *SmallAngle) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *SmallAngle) Reset() {
	s.violations = 0
	s.samples = 0
}
