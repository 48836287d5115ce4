// Package playerbar renders the bottom bar: the current track, a progress
// bar and the elapsed and total time.
package playerbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/nightingale/internal/presenter"
	"github.com/llehouerou/nightingale/internal/ui"
	"github.com/llehouerou/nightingale/internal/ui/render"
	"github.com/llehouerou/nightingale/internal/ui/styles"
)

// Height is the bar height: two content rows plus the border.
const Height = 2 + ui.BorderHeight

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	separator   = " · "
)

// Model renders the player bar.
type Model struct {
	ui.Base
	bar progress.Model
}

// New creates a player bar.
func New() Model {
	t := styles.T()
	return Model{
		bar: progress.New(
			progress.WithGradient(string(t.Accent), string(t.AccentAlt)),
			progress.WithoutPercentage(),
			progress.WithFillCharacters('━', '─'),
		),
	}
}

// View renders m for the current width.
func (b Model) View(m presenter.Model) string {
	inner := max(b.Width()-ui.BorderWidth-2, 0) // border plus one cell of padding per side

	lines := []string{
		infoLine(m, inner),
		b.progressLine(m, inner),
	}
	return styles.Panel(false).
		Padding(0, 1).
		Width(max(b.Width()-ui.BorderWidth, 0)).
		Render(strings.Join(lines, "\n"))
}

// infoLine is "▶ Title · Artist", or a placeholder when nothing is loaded.
func infoLine(m presenter.Model, width int) string {
	s := styles.T().S()
	if m.Current == nil {
		return s.Subtle.Render(render.Truncate("Nothing playing", width))
	}

	status := pauseSymbol
	if m.IsPlaying {
		status = playSymbol
	}
	suffix := ""
	if m.Buffering {
		suffix = "  buffering…"
	}

	avail := width - lipgloss.Width(status) - 1 - lipgloss.Width(suffix)
	title := render.Truncate(m.Current.Label(), avail)
	line := s.Playing.Render(status) + " " + s.Title.Render(title)

	if artist := m.Current.Artist; artist != "" {
		rest := avail - lipgloss.Width(title) - lipgloss.Width(separator)
		if rest > 3 {
			line += s.Muted.Render(separator + render.Truncate(artist, rest))
		}
	}
	if suffix != "" {
		line += s.Warning.Render(suffix)
	}
	return line
}

// progressLine is the bar followed by "mm:ss / mm:ss".
func (b Model) progressLine(m presenter.Model, width int) string {
	times := TimeText(m)
	barWidth := width - lipgloss.Width(times) - 2
	if barWidth < ui.MinProgressBarWidth {
		return styles.T().S().Muted.Render(times)
	}
	b.bar.Width = barWidth
	return b.bar.ViewAs(m.ProgressPercent/100) + "  " + styles.T().S().Muted.Render(times)
}

// TimeText is the elapsed and total time of m.
func TimeText(m presenter.Model) string {
	return m.ProgressText + " / " + m.DurationText
}
