package viz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/sandpend/internal/config"
)

// field is one editable number in the side panel.
type field int

const (
	fieldLengthX field = iota
	fieldLengthY
	fieldMaxTime
	fieldTimeStep
	fieldSpeed
	fieldCount
)

var fieldLabels = [fieldCount]string{"Length X", "Length Y", "Max time", "Time step", "Speed ×"}
var fieldUnits = [fieldCount]string{"m", "m", "s", "s", ""}

func (f field) String() string { return fieldLabels[f] }

func (f field) get(c config.PendulumConfig) float64 {
	switch f {
	case fieldLengthX:
		return c.LengthX
	case fieldLengthY:
		return c.LengthY
	case fieldMaxTime:
		return c.MaxTime
	case fieldTimeStep:
		return c.TimeStep
	case fieldSpeed:
		return c.SpeedMultiplier
	}
	return 0
}

func (f field) set(c *config.PendulumConfig, v float64) {
	switch f {
	case fieldLengthX:
		c.LengthX = v
	case fieldLengthY:
		c.LengthY = v
	case fieldMaxTime:
		c.MaxTime = v
	case fieldTimeStep:
		c.TimeStep = v
	case fieldSpeed:
		c.SpeedMultiplier = v
	}
}

func (f field) format(c config.PendulumConfig) string {
	return strconv.FormatFloat(f.get(c), 'g', 6, 64)
}

func parseField(f field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", f, s)
	}
	return v, nil
}

// acceptsRune reports whether r may be typed into a number field.
func acceptsRune(r rune) bool {
	return (r >= '0' && r <= '9') || strings.ContainsRune(".-+eE", r)
}

// reshapes reports whether a change moves the figure, so the current
// throw has to be solved again.
func reshapes(a, b config.PendulumConfig) bool {
	return a.LengthX != b.LengthX || a.LengthY != b.LengthY ||
		a.MaxTime != b.MaxTime || a.TimeStep != b.TimeStep ||
		a.SpeedMultiplier != b.SpeedMultiplier
}
