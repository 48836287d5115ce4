package tags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/cockroachdb/errors"
	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// ErrUnsupported is returned for files the player cannot handle.
var ErrUnsupported = errors.New("unsupported format")

// Read returns the tags and duration of a music file.
func Read(path string) (*Info, error) {
	if !IsMusicFile(path) {
		return nil, errors.Wrapf(ErrUnsupported, "%s", filepath.Ext(path))
	}

	info, err := ReadTags(path)
	if err != nil {
		return nil, err
	}

	d, err := ReadDuration(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read duration of %s", path)
	}
	info.Duration = d
	return info, nil
}

// ReadTags reads tag metadata only. Files without readable tags still
// produce an Info titled after the file name.
func ReadTags(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return readFallback(path)
	}

	return newInfo(path, m.Title(), m.Artist(), m.Album()), nil
}

// readFallback covers files dhowden/tag cannot parse.
func readFallback(path string) (*Info, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3:
		// dhowden/tag has issues with some UTF-16 encoded ID3 frames
		t, err := id3v2.Open(path, id3v2.Options{Parse: true})
		if err != nil {
			return newInfo(path, "", "", ""), nil //nolint:nilerr // untagged file
		}
		defer t.Close()
		return newInfo(path, t.Title(), t.Artist(), t.Album()), nil
	case ExtFLAC, ExtOGG:
		raw, err := taglib.ReadTags(path)
		if err != nil {
			return newInfo(path, "", "", ""), nil //nolint:nilerr // untagged file
		}
		tt := taglibTags(raw)
		return newInfo(path, tt.get(taglib.Title), tt.get(taglib.Artist), tt.get(taglib.Album)), nil
	}
	// WAV rarely carries tags
	return newInfo(path, "", "", ""), nil
}

func newInfo(path, title, artist, album string) *Info {
	title = sanitize(title)
	if title == "" {
		title = baseTitle(path)
	}
	return &Info{
		Path:   path,
		Title:  title,
		Artist: sanitize(artist),
		Album:  sanitize(album),
	}
}
