package config

import "sort"

// Preset is a pair of arm lengths whose swing frequencies form a simple
// ratio. Frequency goes as 1/√L, so a p:q ratio needs LengthY = LengthX·(p/q)².
type Preset struct {
	Name        string
	Description string
	LengthX     float64
	LengthY     float64
}

var Presets = map[string]Preset{
	"unison":  {Name: "unison", Description: "1:1 ellipse or line", LengthX: 1, LengthY: 1},
	"octave":  {Name: "octave", Description: "1:2 figure eight", LengthX: 1, LengthY: 0.25},
	"fifth":   {Name: "fifth", Description: "2:3 pretzel", LengthX: 1, LengthY: 4.0 / 9},
	"fourth":  {Name: "fourth", Description: "3:4 knot", LengthX: 1, LengthY: 9.0 / 16},
	"default": {Name: "default", Description: "4:5 startup lengths", LengthX: DefaultLengthX, LengthY: DefaultLengthY},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply sets the arm lengths of cfg to the preset's.
func (p *Preset) Apply(cfg *Config) {
	cfg.Pendulum.LengthX = p.LengthX
	cfg.Pendulum.LengthY = p.LengthY
}
