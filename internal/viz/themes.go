package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette of the live view. Trail colors orbit history.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Trail      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

var (
	ThemeSolar = Theme{
		Name:       "solar",
		Primary:    lipgloss.Color("#ffb000"),
		Secondary:  lipgloss.Color("#ff6a00"),
		Accent:     lipgloss.Color("#fff2a8"),
		Background: lipgloss.Color("#0b0b14"),
		Text:       lipgloss.Color("#f0f0f0"),
		Muted:      lipgloss.Color("#6c6c80"),
		Trail:      lipgloss.Color("#3a3a55"),
		Success:    lipgloss.Color("#5fd068"),
		Warning:    lipgloss.Color("#ffc048"),
		Error:      lipgloss.Color("#ff4757"),
	}

	ThemeAurora = Theme{
		Name:       "aurora",
		Primary:    lipgloss.Color("#7cffcb"),
		Secondary:  lipgloss.Color("#b388ff"),
		Accent:     lipgloss.Color("#f9f871"),
		Background: lipgloss.Color("#060d1a"),
		Text:       lipgloss.Color("#e6fff5"),
		Muted:      lipgloss.Color("#5a7d8c"),
		Trail:      lipgloss.Color("#1f3d4d"),
		Success:    lipgloss.Color("#3ddc97"),
		Warning:    lipgloss.Color("#f7b267"),
		Error:      lipgloss.Color("#f25f5c"),
	}

	ThemeEclipse = Theme{
		Name:       "eclipse",
		Primary:    lipgloss.Color("#e8e8e8"),
		Secondary:  lipgloss.Color("#ff9f1c"),
		Accent:     lipgloss.Color("#ffbf69"),
		Background: lipgloss.Color("#050505"),
		Text:       lipgloss.Color("#d9d9d9"),
		Muted:      lipgloss.Color("#707070"),
		Trail:      lipgloss.Color("#2e2e2e"),
		Success:    lipgloss.Color("#9ee493"),
		Warning:    lipgloss.Color("#ff9f1c"),
		Error:      lipgloss.Color("#e63946"),
	}

	// single-hue terminal look
	ThemePhosphor = Theme{
		Name:       "phosphor",
		Primary:    lipgloss.Color("#33ff66"),
		Secondary:  lipgloss.Color("#22bb44"),
		Accent:     lipgloss.Color("#aaffbb"),
		Background: lipgloss.Color("#000a02"),
		Text:       lipgloss.Color("#33ff66"),
		Muted:      lipgloss.Color("#1a6630"),
		Trail:      lipgloss.Color("#0d3318"),
		Success:    lipgloss.Color("#aaffbb"),
		Warning:    lipgloss.Color("#eeff55"),
		Error:      lipgloss.Color("#ff5533"),
	}

	ThemeDeepSpace = Theme{
		Name:       "deep",
		Primary:    lipgloss.Color("#4ea8de"),
		Secondary:  lipgloss.Color("#5e60ce"),
		Accent:     lipgloss.Color("#f4d35e"),
		Background: lipgloss.Color("#03071e"),
		Text:       lipgloss.Color("#caf0f8"),
		Muted:      lipgloss.Color("#48639c"),
		Trail:      lipgloss.Color("#1b2a4e"),
		Success:    lipgloss.Color("#64dfdf"),
		Warning:    lipgloss.Color("#f4a261"),
		Error:      lipgloss.Color("#ef476f"),
	}

	Themes = []Theme{
		ThemeSolar,
		ThemeAurora,
		ThemeEclipse,
		ThemePhosphor,
		ThemeDeepSpace,
	}
)

// GetTheme returns a theme by name, falling back to the solar theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSolar
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

var namedColors = map[string]lipgloss.Color{
	"yellow":  "#ffd700",
	"orange":  "#ff8c00",
	"red":     "#ff4444",
	"blue":    "#4488ff",
	"cyan":    "#00e5ff",
	"green":   "#44dd66",
	"magenta": "#ff55ff",
	"purple":  "#9966ff",
	"gray":    "#999999",
	"grey":    "#999999",
	"white":   "#ffffff",
	"brown":   "#a0522d",
}

// BodyColor maps the color token of a record to a terminal color. Hex
// tokens ("#rrggbb") pass through; unknown names use the theme text color.
func (t Theme) BodyColor(token string) lipgloss.Color {
	if strings.HasPrefix(token, "#") && len(token) == 7 {
		return lipgloss.Color(token)
	}
	if c, ok := namedColors[strings.ToLower(token)]; ok {
		return c
	}
	return t.Text
}
