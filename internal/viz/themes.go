package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color

	// Path is the predicted figure, Trace the animated sand line.
	Path  lipgloss.Color
	Trace lipgloss.Color

	// SeriesX and SeriesY colour the x(t) and y(t) graph.
	SeriesX asciigraph.AnsiColor
	SeriesY asciigraph.AnsiColor
}

// Available themes
var (
	ThemeSand = Theme{
		Name:       "sand",
		Primary:    lipgloss.Color("#f4a261"),
		Secondary:  lipgloss.Color("#e9c46a"),
		Accent:     lipgloss.Color("#ffd166"),
		Background: lipgloss.Color("#1b1410"),
		Text:       lipgloss.Color("#f8efe0"),
		Muted:      lipgloss.Color("#7a6a58"),
		Success:    lipgloss.Color("#8ac926"),
		Warning:    lipgloss.Color("#ff9f1c"),
		Error:      lipgloss.Color("#e63946"),
		Path:       lipgloss.Color("#5c4b3b"),
		Trace:      lipgloss.Color("#ffd166"),
		SeriesX:    asciigraph.Goldenrod,
		SeriesY:    asciigraph.IndianRed,
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Primary:    lipgloss.Color("#00ff00"),
		Secondary:  lipgloss.Color("#00cc00"),
		Accent:     lipgloss.Color("#88ff88"),
		Background: lipgloss.Color("#001100"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Success:    lipgloss.Color("#88ff88"),
		Warning:    lipgloss.Color("#ffff00"),
		Error:      lipgloss.Color("#ff0000"),
		Path:       lipgloss.Color("#006600"),
		Trace:      lipgloss.Color("#88ff88"),
		SeriesX:    asciigraph.Green,
		SeriesY:    asciigraph.GreenYellow,
	}

	ThemeMinimal = Theme{
		Name:       "minimal",
		Primary:    lipgloss.Color("#ffffff"),
		Secondary:  lipgloss.Color("#cccccc"),
		Accent:     lipgloss.Color("#0088ff"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Success:    lipgloss.Color("#00ff00"),
		Warning:    lipgloss.Color("#ffaa00"),
		Error:      lipgloss.Color("#ff0000"),
		Path:       lipgloss.Color("#555555"),
		Trace:      lipgloss.Color("#ffffff"),
		SeriesX:    asciigraph.White,
		SeriesY:    asciigraph.DodgerBlue,
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Primary:    lipgloss.Color("#0077be"),
		Secondary:  lipgloss.Color("#00a8cc"),
		Accent:     lipgloss.Color("#ffd700"),
		Background: lipgloss.Color("#001a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Success:    lipgloss.Color("#00ff88"),
		Warning:    lipgloss.Color("#ffcc00"),
		Error:      lipgloss.Color("#ff4444"),
		Path:       lipgloss.Color("#1f4e79"),
		Trace:      lipgloss.Color("#00d4ff"),
		SeriesX:    asciigraph.DeepSkyBlue,
		SeriesY:    asciigraph.Gold,
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Primary:    lipgloss.Color("#ff6b6b"),
		Secondary:  lipgloss.Color("#feca57"),
		Accent:     lipgloss.Color("#ff9ff3"),
		Background: lipgloss.Color("#2d1b2e"),
		Text:       lipgloss.Color("#fff5f5"),
		Muted:      lipgloss.Color("#8b6b8c"),
		Success:    lipgloss.Color("#5fd068"),
		Warning:    lipgloss.Color("#ffc048"),
		Error:      lipgloss.Color("#ff4757"),
		Path:       lipgloss.Color("#6b3f5c"),
		Trace:      lipgloss.Color("#feca57"),
		SeriesX:    asciigraph.HotPink,
		SeriesY:    asciigraph.Orange,
	}

	// All available themes
	Themes = []Theme{
		ThemeSand,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to sand.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSand
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
