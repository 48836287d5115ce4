package notify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/llehouerou/nightingale/internal/catalog"
)

func TestUrgencyValues(t *testing.T) {
	if UrgencyLow != 0 || UrgencyNormal != 1 || UrgencyCritical != 2 {
		t.Errorf("urgency values = %d %d %d, want 0 1 2", UrgencyLow, UrgencyNormal, UrgencyCritical)
	}
}

func TestNowPlaying(t *testing.T) {
	tr := catalog.NewTrack(1, "song.mp3", "Artist", "Song", "/nowhere/song.mp3", time.Minute)
	n := NowPlaying(tr)
	if n.Title != "Song" || n.Body != "Artist" {
		t.Errorf("Title=%q Body=%q", n.Title, n.Body)
	}
	if n.Icon != "audio-x-generic" {
		t.Errorf("Icon = %q, want fallback icon", n.Icon)
	}
	if n.ReplacesID != 0 {
		t.Errorf("ReplacesID = %d, want 0", n.ReplacesID)
	}
}

func TestNowPlayingUsesCover(t *testing.T) {
	dir := t.TempDir()
	track := filepath.Join(dir, "01.flac")
	cover := filepath.Join(dir, "cover.jpg")
	for _, p := range []string{track, cover} {
		if err := os.WriteFile(p, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	n := NowPlaying(catalog.NewTrack(1, "01.flac", "", "", track, 0))
	if n.Icon != cover {
		t.Errorf("Icon = %q, want %q", n.Icon, cover)
	}
	if n.Title != "01" {
		t.Errorf("Title = %q, want display name without extension", n.Title)
	}
}
