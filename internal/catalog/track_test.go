package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewTrack_ClampsNegativeDuration(t *testing.T) {
	tr := NewTrack(1, "a.mp3", "", "", "/music/a.mp3", -time.Second)
	if tr.Duration != 0 {
		t.Errorf("Duration = %v, want 0", tr.Duration)
	}
}

func TestTrack_Location(t *testing.T) {
	tr := Track{Path: "/music/My Song.mp3"}
	want := "file:///music/My%20Song.mp3"
	if got := tr.Location(); got != want {
		t.Errorf("Location() = %q, want %q", got, want)
	}
}

func TestTrack_Label(t *testing.T) {
	tests := []struct {
		name  string
		track Track
		want  string
	}{
		{"title wins", Track{Title: "Song", DisplayName: "file.mp3"}, "Song"},
		{"display name without extension", Track{DisplayName: "file.flac"}, "file"},
		{"path base", Track{Path: "/x/y.ogg"}, "y.ogg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.track.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrack_CoverPath(t *testing.T) {
	dir := t.TempDir()
	tr := Track{Path: filepath.Join(dir, "track.mp3")}

	if got := tr.CoverPath(); got != "" {
		t.Errorf("CoverPath() = %q, want empty", got)
	}

	folder := filepath.Join(dir, "folder.jpg")
	if err := os.WriteFile(folder, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	cover := filepath.Join(dir, "cover.png")
	if err := os.WriteFile(cover, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if got := tr.CoverPath(); got != cover {
		t.Errorf("CoverPath() = %q, want %q (cover before folder)", got, cover)
	}
}
