package tracklist

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/llehouerou/nightingale/internal/catalog"
	"github.com/llehouerou/nightingale/internal/keymap"
	"github.com/llehouerou/nightingale/internal/presenter"
)

func loadedModel(n int) presenter.Model {
	tracks := make([]catalog.Track, n)
	for i := range tracks {
		name := fmt.Sprintf("track%02d.mp3", i)
		tracks[i] = catalog.NewTrack(int64(i+1), name, "Artist", fmt.Sprintf("Title %02d", i), "/music/"+name, 3*time.Minute)
	}
	return presenter.Model{
		Tracks:       tracks,
		Snapshot:     uuid.New(),
		Loaded:       true,
		Empty:        n == 0,
		CurrentIndex: -1,
	}
}

func newList(width, height int, m presenter.Model) Model {
	l := New()
	l.SetSize(width, height)
	l.Sync(m)
	return l
}

func TestView_Loading(t *testing.T) {
	l := newList(60, 10, presenter.Model{CurrentIndex: -1})
	if out := l.View(); !strings.Contains(out, "Loading") {
		t.Errorf("view:\n%s", out)
	}
}

func TestView_Empty(t *testing.T) {
	l := newList(60, 10, loadedModel(0))
	out := l.View()
	if !strings.Contains(out, "press r to reload") && !strings.Contains(out, "Press r to reload") {
		t.Errorf("empty view missing reload hint:\n%s", out)
	}
	if _, ok := l.Selected(); ok {
		t.Error("Selected() on empty list")
	}
}

func TestView_Size(t *testing.T) {
	l := newList(60, 12, loadedModel(30))
	out := l.View()
	if got := lipgloss.Height(out); got != 12 {
		t.Errorf("height = %d, want 12", got)
	}
	if got := lipgloss.Width(out); got != 60 {
		t.Errorf("width = %d, want 60", got)
	}
	if !strings.Contains(out, "Tracks (30)") || !strings.Contains(out, "1/30") {
		t.Errorf("missing header:\n%s", out)
	}
}

func TestView_CurrentTrackIcon(t *testing.T) {
	m := loadedModel(3)
	m.CurrentIndex = 1
	m.IsPlaying = true
	l := newList(60, 10, m)

	out := l.View()
	lines := strings.Split(out, "\n")
	var found bool
	for _, line := range lines {
		if strings.Contains(line, "Title 01") {
			found = true
			if !strings.Contains(line, playingIcon) {
				t.Errorf("current row lacks playing icon: %q", line)
			}
		} else if strings.Contains(line, playingIcon) {
			t.Errorf("non-current row has icon: %q", line)
		}
	}
	if !found {
		t.Fatalf("current row not rendered:\n%s", out)
	}

	m.IsPlaying = false
	l.Sync(m)
	if out := l.View(); !strings.Contains(out, pausedIcon) {
		t.Errorf("paused current row lacks pause icon:\n%s", out)
	}
}

func TestHandle_Navigation(t *testing.T) {
	l := newList(60, 10, loadedModel(20)) // 6 visible rows

	l.Handle(keymap.ActionMoveDown)
	l.Handle(keymap.ActionMoveDown)
	if i, _ := l.Selected(); i != 2 {
		t.Errorf("after two downs = %d, want 2", i)
	}
	l.Handle(keymap.ActionBottom)
	if i, _ := l.Selected(); i != 19 {
		t.Errorf("Bottom = %d, want 19", i)
	}
	if !strings.Contains(l.View(), "Title 19") {
		t.Error("last row not visible after Bottom")
	}
	l.Handle(keymap.ActionPageUp)
	if i, _ := l.Selected(); i != 14 {
		t.Errorf("PageUp = %d, want 14", i)
	}
	l.Handle(keymap.ActionTop)
	l.Handle(keymap.ActionMoveUp)
	if i, _ := l.Selected(); i != 0 {
		t.Errorf("up from top = %d, want 0", i)
	}
	if l.Handle(keymap.ActionPlayPause) {
		t.Error("Handle(play_pause) reported a navigation action")
	}
}

func TestSync_KeepsCursorWithinSnapshot(t *testing.T) {
	m := loadedModel(10)
	l := newList(60, 10, m)
	l.Handle(keymap.ActionMoveDown)
	l.Handle(keymap.ActionMoveDown)

	m.CurrentIndex = 5
	m.IsPlaying = true
	l.Sync(m)
	if i, _ := l.Selected(); i != 2 {
		t.Errorf("cursor moved on state sync: %d", i)
	}

	fresh := loadedModel(10)
	fresh.CurrentIndex = 7
	l.Sync(fresh)
	if i, _ := l.Selected(); i != 7 {
		t.Errorf("new snapshot cursor = %d, want current 7", i)
	}

	smaller := loadedModel(3)
	l.Sync(smaller)
	if i, _ := l.Selected(); i != 0 {
		t.Errorf("cursor on smaller snapshot = %d, want 0", i)
	}
}

func TestDetailView(t *testing.T) {
	m := loadedModel(3)
	m.CurrentIndex = 0
	m.IsPlaying = true
	l := newList(70, 14, m)

	out := l.DetailView()
	for _, want := range []string{"Title 00", "Artist", "track00.mp3", "03:00", "file:///music/track00.mp3", "playing"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}

	empty := newList(70, 14, loadedModel(0))
	if out := empty.DetailView(); !strings.Contains(out, "reload") {
		t.Errorf("detail of empty list should show empty state:\n%s", out)
	}
}

func TestScroll(t *testing.T) {
	s := scroll{margin: 2}
	s.jump(9, 10, 5)
	if start, end := s.visible(10, 5); start != 5 || end != 10 {
		t.Errorf("visible = [%d,%d), want [5,10)", start, end)
	}
	s.jump(4, 10, 5)
	if start, _ := s.visible(10, 5); start != 2 {
		t.Errorf("offset after jump up = %d, want 2", start)
	}
	s.jump(3, 0, 5)
	if s.pos != 0 || s.offset != 0 {
		t.Errorf("empty list pos/offset = %d/%d", s.pos, s.offset)
	}
}
