// Package tags reads the metadata the media index stores for each file:
// title, artist, album and duration.
package tags

import (
	"path/filepath"
	"strings"
	"time"
)

// File extensions the player can index and decode.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOGG  = ".ogg"
	ExtWAV  = ".wav"
)

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

// Info is the metadata of one audio file.
type Info struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// DisplayName returns the file name with its extension.
func (i *Info) DisplayName() string {
	return filepath.Base(i.Path)
}

// IsMusicFile returns true if the path has a supported extension.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3, ExtFLAC, ExtOGG, ExtWAV:
		return true
	}
	return false
}

// baseTitle is the title used when a file carries none.
func baseTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sanitize trims whitespace and NUL padding left by some taggers.
func sanitize(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\x00"))
}

// taglibTags wraps a taglib result map.
type taglibTags map[string][]string

// get returns the first value for any of the given keys.
func (t taglibTags) get(keys ...string) string {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
