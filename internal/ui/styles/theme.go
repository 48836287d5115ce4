// Package styles holds the color palette and shared lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette plus styles built from it.
type Theme struct {
	Accent    lipgloss.Color // current track, focused border
	AccentAlt lipgloss.Color // progress gradient end

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	BgCursor lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	Error   lipgloss.Color
	Warning lipgloss.Color

	styles *Styles
}

// Styles are the pre-built styles of a theme.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Playing lipgloss.Style // current track row
	Cursor  lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

var defaultTheme = Theme{
	Accent:    lipgloss.Color("#7dd3fc"),
	AccentAlt: lipgloss.Color("#c4b5fd"),

	FgBase:   lipgloss.Color("#d0d0d0"),
	FgMuted:  lipgloss.Color("#8a8a8a"),
	FgSubtle: lipgloss.Color("#5f5f5f"),

	BgCursor: lipgloss.Color("#2e2e2e"),

	Border:      lipgloss.Color("#5f5f5f"),
	BorderFocus: lipgloss.Color("#7dd3fc"),

	Error:   lipgloss.Color("#ff6b6b"),
	Warning: lipgloss.Color("#f5a524"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the theme's styles, building them on first use.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	return &Styles{
		Base:    base,
		Muted:   lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:  lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:   base.Bold(true),
		Playing: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Cursor:  lipgloss.NewStyle().Background(t.BgCursor).Foreground(t.FgBase),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
}
