package tracklist

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/nightingale/internal/presenter"
	"github.com/llehouerou/nightingale/internal/ui"
	"github.com/llehouerou/nightingale/internal/ui/render"
	"github.com/llehouerou/nightingale/internal/ui/styles"
)

// DetailView renders the details of the track under the cursor in the
// list's space. With no track it renders the empty list.
func (l Model) DetailView() string {
	t, ok := l.SelectedTrack()
	if !ok {
		return l.View()
	}
	width, _ := l.InnerSize()
	s := styles.T().S()

	lines := []string{
		s.Title.Render(render.Truncate(t.Label(), width)),
		s.Subtle.Render(render.Separator(width)),
	}
	cover := t.CoverPath()
	if cover == "" {
		cover = "none"
	}
	fields := []struct{ name, value string }{
		{"Artist", orUnknown(t.Artist)},
		{"File", t.DisplayName},
		{"Duration", presenter.FormatDuration(t.Duration)},
		{"Location", t.Location()},
		{"Cover", cover},
	}
	if i, _ := l.Selected(); i == l.current {
		state := "paused"
		if l.playing {
			state = "playing"
		}
		fields = append(fields, struct{ name, value string }{"Status", state})
	}
	for _, f := range fields {
		lines = append(lines, detailRow(f.name, f.value, width))
	}
	lines = append(lines, "", s.Subtle.Render("tab: back to list"))

	return styles.Panel(true).
		Width(width).
		Height(max(l.Height()-ui.BorderHeight, 0)).
		Render(strings.Join(lines, "\n"))
}

const labelWidth = 10

func detailRow(name, value string, width int) string {
	s := styles.T().S()
	label := s.Muted.Render(render.Fit(name, labelWidth))
	return label + s.Base.Render(render.Truncate(value, max(width-lipgloss.Width(label), 0)))
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

