package tags

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	goflac "github.com/go-flac/go-flac"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/llehouerou/go-mp3"
)

// ReadDuration returns the playing time of an audio file without decoding
// it where the container allows.
func ReadDuration(path string) (time.Duration, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3:
		return mp3Duration(path)
	case ExtFLAC:
		return flacDuration(path)
	case ExtOGG:
		return beepDuration(path, func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
			return vorbis.Decode(rc)
		})
	case ExtWAV:
		return beepDuration(path, func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
			return wav.Decode(rc)
		})
	}
	return 0, errors.Wrapf(ErrUnsupported, "%s", filepath.Ext(path))
}

func mp3Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	d, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, err
	}
	rate := d.SampleRate()
	if rate == 0 {
		return 0, errors.New("mp3: invalid sample rate")
	}
	count := max(d.SampleCount(), 0)
	return time.Duration(float64(count) / float64(rate) * float64(time.Second)), nil
}

// flacDuration reads STREAMINFO and falls back to beep's decoder for files
// with a prepended ID3 tag.
func flacDuration(path string) (time.Duration, error) {
	f, err := goflac.ParseFile(path)
	if err == nil {
		for _, meta := range f.Meta {
			if meta.Type != goflac.StreamInfo || len(meta.Data) < 18 {
				continue
			}
			if d, ok := streamInfoDuration(meta.Data); ok {
				return d, nil
			}
		}
	}

	return beepDuration(path, func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		if rs, ok := rc.(io.ReadSeeker); ok {
			if err := skipID3v2(rs); err != nil {
				return nil, beep.Format{}, err
			}
		}
		return flac.Decode(rc)
	})
}

// streamInfoDuration decodes the sample rate (20 bits at byte 10) and the
// total sample count (36 bits at byte 13) of a STREAMINFO block.
func streamInfoDuration(data []byte) (time.Duration, bool) {
	sampleRate := int(data[10])<<12 | int(data[11])<<4 | int(data[12])>>4
	total := int64(data[13]&0x0F)<<32 | int64(data[14])<<24 | int64(data[15])<<16 |
		int64(data[16])<<8 | int64(data[17])
	if sampleRate == 0 {
		return 0, false
	}
	return time.Duration(float64(total) / float64(sampleRate) * float64(time.Second)), true
}

type decodeFunc func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

func beepDuration(path string, decode decodeFunc) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	s, format, err := decode(f)
	if err != nil {
		f.Close()
		return 0, err
	}
	defer s.Close()
	return format.SampleRate.D(s.Len()), nil
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the stream.
// Some taggers prepend one to FLAC files, which the FLAC decoder rejects.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if n < 10 || string(header[0:3]) != id3Magic {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// syncsafe integer: 7 bits per byte
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}

// SkipID3v2 is exported for decoders outside this package.
func SkipID3v2(r io.ReadSeeker) error { return skipID3v2(r) }
