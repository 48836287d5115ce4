package engine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/llehouerou/nightingale/internal/tags"
)

// ErrUnsupportedFormat is returned for files no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Decoder opens an item for streaming.
type Decoder interface {
	Decode(path string) (beep.StreamSeekCloser, beep.Format, error)
}

// FileDecoder decodes local files by extension.
type FileDecoder struct{}

// Decode opens path and returns a seekable stream. Closing the stream
// closes the file.
func (FileDecoder) Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !tags.IsMusicFile(path) {
		return nil, beep.Format{}, errors.Wrapf(ErrUnsupportedFormat, "%s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch ext {
	case tags.ExtMP3:
		s, format, err = decodeGoMP3(f)
	case tags.ExtFLAC:
		if err = tags.SkipID3v2(f); err == nil {
			s, format, err = flac.Decode(f)
		}
	case tags.ExtOGG:
		s, format, err = vorbis.Decode(f)
	case tags.ExtWAV:
		s, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, errors.Wrapf(err, "decode %s", filepath.Base(path))
	}
	return s, format, nil
}
