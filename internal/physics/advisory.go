package physics

import (
	"fmt"
	"math"
)

const (
	// IsochronismLimit is the amplitude in radians above which the period
	// starts to depend on amplitude.
	IsochronismLimit = 0.1

	// UpperLimitDegrees bounds amplitudes for which the pendulum still
	// behaves predictably under the small-angle model.
	UpperLimitDegrees = 20.0
)

// UpperLimit is UpperLimitDegrees in radians.
var UpperLimit = UpperLimitDegrees * math.Pi / 180

type AdvisoryLevel int

const (
	AdvisoryIsochronism AdvisoryLevel = iota + 1
	AdvisoryUnpredictable
)

func (l AdvisoryLevel) String() string {
	switch l {
	case AdvisoryIsochronism:
		return "isochronism"
	case AdvisoryUnpredictable:
		return "unpredictable"
	default:
		return "unknown"
	}
}

// Advisory flags an amplitude that degrades the small-angle approximation.
// It is informational only.
type Advisory struct {
	Axis      string
	Level     AdvisoryLevel
	Amplitude float64
	Limit     float64
}

func (a Advisory) String() string {
	var consequence string
	switch a.Level {
	case AdvisoryUnpredictable:
		consequence = "This breaks the upper limit for predictable pendulum behaviour."
	default:
		consequence = "This breaks the isochronism limit."
	}
	return fmt.Sprintf("%s is > %.3f radians; it is %.3f radians (%.3f degrees). %s",
		a.Axis, a.Limit, a.Amplitude, degrees(a.Amplitude), consequence)
}

// Degrees returns the amplitude in degrees.
func (a Advisory) Degrees() float64 {
	return degrees(a.Amplitude)
}

// CheckAmplitudes returns the advisories for the x and y amplitudes,
// isochronism checks first, then the upper limit.
func CheckAmplitudes(ax, ay float64) []Advisory {
	var out []Advisory
	named := []struct {
		name string
		amp  float64
	}{{"A_x", ax}, {"A_y", ay}}

	for _, n := range named {
		if n.amp > IsochronismLimit {
			out = append(out, Advisory{Axis: n.name, Level: AdvisoryIsochronism, Amplitude: n.amp, Limit: IsochronismLimit})
		}
	}
	for _, n := range named {
		if n.amp > UpperLimit {
			out = append(out, Advisory{Axis: n.name, Level: AdvisoryUnpredictable, Amplitude: n.amp, Limit: UpperLimit})
		}
	}
	return out
}

// HasLevel reports whether any advisory has the given level.
func HasLevel(advisories []Advisory, level AdvisoryLevel) bool {
	for _, a := range advisories {
		if a.Level == level {
			return true
		}
	}
	return false
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
