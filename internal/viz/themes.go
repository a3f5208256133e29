package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// Accents are the named step and topic colours used by the catalog.
var Accents = map[string]lipgloss.Color{
	"blue":   lipgloss.Color("#3b82f6"),
	"green":  lipgloss.Color("#22c55e"),
	"orange": lipgloss.Color("#f97316"),
	"purple": lipgloss.Color("#a855f7"),
	"cyan":   lipgloss.Color("#06b6d4"),
	"pink":   lipgloss.Color("#ec4899"),
	"yellow": lipgloss.Color("#eab308"),
}

// AccentColor resolves an accent name, falling back to the theme accent.
func (t Theme) AccentColor(name string) lipgloss.Color {
	if c, ok := Accents[name]; ok {
		return c
	}
	return t.Accent
}

// Available themes
var (
	ThemeSlate = Theme{
		Name:       "slate",
		Primary:    lipgloss.Color("#3b82f6"),
		Secondary:  lipgloss.Color("#06b6d4"),
		Accent:     lipgloss.Color("#a855f7"),
		Background: lipgloss.Color("#0f172a"), // dark-900
		Surface:    lipgloss.Color("#1e293b"), // dark-800
		Border:     lipgloss.Color("#334155"), // dark-700
		Text:       lipgloss.Color("#e2e8f0"),
		Muted:      lipgloss.Color("#475569"), // dark-600
		Success:    lipgloss.Color("#22c55e"),
		Warning:    lipgloss.Color("#eab308"),
		Error:      lipgloss.Color("#ef4444"),
	}

	ThemeCyan = Theme{
		Name:       "cyan",
		Primary:    lipgloss.Color("#06b6d4"),
		Secondary:  lipgloss.Color("#22c55e"),
		Accent:     lipgloss.Color("#eab308"),
		Background: lipgloss.Color("#0a0a0a"),
		Surface:    lipgloss.Color("#111827"),
		Border:     lipgloss.Color("#155e75"),
		Text:       lipgloss.Color("#ecfeff"),
		Muted:      lipgloss.Color("#4b6b73"),
		Success:    lipgloss.Color("#22c55e"),
		Warning:    lipgloss.Color("#f97316"),
		Error:      lipgloss.Color("#ef4444"),
	}

	ThemePurple = Theme{
		Name:       "purple",
		Primary:    lipgloss.Color("#a855f7"),
		Secondary:  lipgloss.Color("#ec4899"),
		Accent:     lipgloss.Color("#06b6d4"),
		Background: lipgloss.Color("#1a0b2e"),
		Surface:    lipgloss.Color("#2d1b4e"),
		Border:     lipgloss.Color("#4c2a7a"),
		Text:       lipgloss.Color("#f5f3ff"),
		Muted:      lipgloss.Color("#7c6a9c"),
		Success:    lipgloss.Color("#22c55e"),
		Warning:    lipgloss.Color("#eab308"),
		Error:      lipgloss.Color("#f43f5e"),
	}

	ThemeMinimal = Theme{
		Name:       "minimal",
		Primary:    lipgloss.Color("#ffffff"),
		Secondary:  lipgloss.Color("#cccccc"),
		Accent:     lipgloss.Color("#0088ff"),
		Background: lipgloss.Color("#000000"),
		Surface:    lipgloss.Color("#111111"),
		Border:     lipgloss.Color("#444444"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Success:    lipgloss.Color("#00ff00"),
		Warning:    lipgloss.Color("#ffaa00"),
		Error:      lipgloss.Color("#ff0000"),
	}

	// Default theme
	CurrentTheme = ThemeSlate

	// All available themes
	Themes = []Theme{
		ThemeSlate,
		ThemeCyan,
		ThemePurple,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSlate
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one and returns it.
func NextTheme() Theme {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			break
		}
	}
	return CurrentTheme
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
