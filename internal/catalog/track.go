// Package catalog holds the track records the player works with and the
// repository that loads them wholesale from a catalog source.
package catalog

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Track is one playable audio item. Tracks are values: a reload produces a
// new set instead of mutating existing ones.
type Track struct {
	ID          int64 // stable within one snapshot only
	DisplayName string
	Artist      string
	Title       string
	Path        string
	Duration    time.Duration
}

// NewTrack builds a track, clamping a negative duration to zero.
func NewTrack(id int64, displayName, artist, title, path string, duration time.Duration) Track {
	return Track{
		ID:          id,
		DisplayName: displayName,
		Artist:      artist,
		Title:       title,
		Path:        path,
		Duration:    max(duration, 0),
	}
}

// Location returns the file:// URI of the track.
func (t Track) Location() string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(t.Path)}
	return u.String()
}

// Label returns the best human-readable name for the track.
func (t Track) Label() string {
	if t.Title != "" {
		return t.Title
	}
	if t.DisplayName != "" {
		return strings.TrimSuffix(t.DisplayName, filepath.Ext(t.DisplayName))
	}
	return filepath.Base(t.Path)
}

// coverNames lists cover image filenames in priority order.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// CoverPath returns the path of a cover image stored next to the track,
// or "" when there is none.
func (t Track) CoverPath() string {
	if t.Path == "" {
		return ""
	}
	dir := filepath.Dir(t.Path)
	for _, name := range coverNames {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}
