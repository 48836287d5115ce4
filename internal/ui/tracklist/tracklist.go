// Package tracklist renders the library as a scrollable list with the
// current track highlighted.
package tracklist

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/llehouerou/nightingale/internal/catalog"
	"github.com/llehouerou/nightingale/internal/keymap"
	"github.com/llehouerou/nightingale/internal/presenter"
	"github.com/llehouerou/nightingale/internal/ui"
	"github.com/llehouerou/nightingale/internal/ui/render"
	"github.com/llehouerou/nightingale/internal/ui/styles"
)

const (
	playingIcon = "▶"
	pausedIcon  = "⏸"
	iconWidth   = 2
	timeWidth   = 5 // mm:ss
)

// EmptyText is shown when the library has no tracks.
const EmptyText = "No music found. Press r to reload."

// Model is the track list.
type Model struct {
	ui.Base
	tracks   []catalog.Track
	snapshot uuid.UUID
	current  int
	playing  bool
	loaded   bool
	cursor   scroll
}

// New creates an empty list.
func New() Model {
	return Model{current: -1, cursor: scroll{margin: ui.ScrollMargin}}
}

// Sync copies the tracks and playback position of m. The cursor is kept
// unless a new catalog snapshot arrived.
func (l *Model) Sync(m presenter.Model) {
	if m.Snapshot != l.snapshot {
		l.snapshot = m.Snapshot
		l.cursor = scroll{margin: ui.ScrollMargin}
		if m.CurrentIndex >= 0 {
			l.cursor.jump(m.CurrentIndex, len(m.Tracks), l.rows())
		}
	}
	l.tracks = m.Tracks
	l.current = m.CurrentIndex
	l.playing = m.IsPlaying
	l.loaded = m.Loaded
	l.cursor.jump(l.cursor.pos, len(l.tracks), l.rows())
}

// SetSize resizes the list and keeps the cursor visible.
func (l *Model) SetSize(width, height int) {
	l.Base.SetSize(width, height)
	l.cursor.follow(len(l.tracks), l.rows())
}

// Selected returns the index under the cursor.
func (l Model) Selected() (int, bool) {
	if len(l.tracks) == 0 {
		return 0, false
	}
	return l.cursor.pos, true
}

// SelectedTrack returns the track under the cursor.
func (l Model) SelectedTrack() (catalog.Track, bool) {
	i, ok := l.Selected()
	if !ok {
		return catalog.Track{}, false
	}
	return l.tracks[i], true
}

// Handle applies a navigation action and reports whether it was one.
func (l *Model) Handle(a keymap.Action) bool {
	n, h := len(l.tracks), l.rows()
	switch a {
	case keymap.ActionMoveUp:
		l.cursor.move(-1, n, h)
	case keymap.ActionMoveDown:
		l.cursor.move(1, n, h)
	case keymap.ActionTop:
		l.cursor.jump(0, n, h)
	case keymap.ActionBottom:
		l.cursor.jump(n-1, n, h)
	case keymap.ActionPageUp:
		l.cursor.move(-max(h-1, 1), n, h)
	case keymap.ActionPageDown:
		l.cursor.move(max(h-1, 1), n, h)
	default:
		return false
	}
	return true
}

// rows is the number of visible track rows.
func (l Model) rows() int {
	return max(l.Height()-ui.PanelOverhead, 0)
}

// View renders the list panel.
func (l Model) View() string {
	width, _ := l.InnerSize()
	s := styles.T().S()

	lines := []string{l.header(width), s.Subtle.Render(render.Separator(width))}

	switch {
	case !l.loaded:
		lines = append(lines, s.Muted.Render("Loading library…"))
	case len(l.tracks) == 0:
		lines = append(lines, s.Muted.Render(render.Truncate(EmptyText, width)))
	default:
		start, end := l.cursor.visible(len(l.tracks), l.rows())
		for i := start; i < end; i++ {
			lines = append(lines, l.row(i, width))
		}
	}

	for len(lines) < l.rows()+ui.HeaderHeight {
		lines = append(lines, "")
	}
	return styles.Panel(true).
		Width(width).
		Height(max(l.Height()-ui.BorderHeight, 0)).
		Render(strings.Join(lines, "\n"))
}

// header is the title with the cursor position on the right when it
// fits.
func (l Model) header(width int) string {
	s := styles.T().S()
	title := fmt.Sprintf("Tracks (%d)", len(l.tracks))
	if len(l.tracks) == 0 {
		return s.Title.Render(render.Truncate(title, width))
	}
	pos := fmt.Sprintf("%d/%d", l.cursor.pos+1, len(l.tracks))
	if len(title)+len(pos)+1 > width {
		return s.Title.Render(render.Truncate(title, width))
	}
	return render.Row(s.Title.Render(title), s.Muted.Render(pos), width)
}

// row renders "▶ Title    Artist  mm:ss".
func (l Model) row(i, width int) string {
	t := l.tracks[i]
	s := styles.T().S()

	icon := strings.Repeat(" ", iconWidth)
	if i == l.current {
		if l.playing {
			icon = playingIcon + " "
		} else {
			icon = pausedIcon + " "
		}
	}

	rest := max(width-iconWidth-timeWidth-1, 0)
	artistWidth := min(rest/3, 30)
	titleWidth := max(rest-artistWidth-1, 0)
	if t.Artist == "" {
		titleWidth, artistWidth = rest, 0
	}

	line := icon + render.Fit(t.Label(), titleWidth)
	if artistWidth > 0 {
		line += " " + render.Fit(t.Artist, artistWidth)
	}
	line += fmt.Sprintf(" %*s", timeWidth, presenter.FormatDuration(t.Duration))

	switch {
	case i == l.cursor.pos:
		return s.Cursor.Width(width).Render(line)
	case i == l.current:
		return s.Playing.Render(line)
	default:
		return s.Base.Render(line)
	}
}
