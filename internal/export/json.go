package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/sandpend/internal/physics"
	"github.com/san-kum/sandpend/internal/session"
)

type AxisData struct {
	Length    float64 `json:"length"`
	Position  float64 `json:"position"`
	Velocity  float64 `json:"velocity"`
	Amplitude float64 `json:"amplitude"`
	Omega     float64 `json:"omega"`
	Phase     float64 `json:"phase"`
	Period    float64 `json:"period"`
}

type Sample struct {
	T float64 `json:"t"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ExportData struct {
	Gravity    float64  `json:"gravity"`
	X          AxisData `json:"x"`
	Y          AxisData `json:"y"`
	Ratio      string   `json:"ratio"`
	Advisories []string `json:"advisories,omitempty"`
	Step       float64  `json:"step"`
	Steps      int      `json:"steps"`
	Samples    []Sample `json:"samples"`
}

// NewExportData flattens a plan into its serialised form.
func NewExportData(plan *session.Plan) ExportData {
	sol := plan.Solution
	data := ExportData{
		Gravity: physics.Gravity,
		X:       axisData(sol.LengthX, plan.Drag.Start.X, plan.Velocity.X, sol.X),
		Y:       axisData(sol.LengthY, plan.Drag.Start.Y, plan.Velocity.Y, sol.Y),
		Ratio:   plan.Ratio.Approximate(1000).String(),
		Step:    plan.Path.Step(),
		Steps:   plan.Path.Len(),
		Samples: make([]Sample, 0, plan.Path.Len()),
	}
	for _, a := range sol.Advisories {
		data.Advisories = append(data.Advisories, a.String())
	}
	for t, p := range plan.Path.All() {
		data.Samples = append(data.Samples, Sample{T: t, X: p.X, Y: p.Y})
	}
	return data
}

func axisData(length, pos, vel float64, c physics.AxisCoefficients) AxisData {
	return AxisData{
		Length:    length,
		Position:  pos,
		Velocity:  vel,
		Amplitude: c.Amplitude,
		Omega:     c.Omega,
		Phase:     c.Phase,
		Period:    c.Period(),
	}
}

func WriteJSON(w io.Writer, plan *session.Plan) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(plan))
}
