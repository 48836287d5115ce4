package engine

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Output renders a mixed stream to the audio device.
type Output interface {
	Init(sr beep.SampleRate) error
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

// Speaker is the Output backed by beep/speaker.
type Speaker struct {
	once sync.Once
	err  error
}

// Init initializes the speaker once; later calls return the first result.
func (s *Speaker) Init(sr beep.SampleRate) error {
	s.once.Do(func() {
		s.err = speaker.Init(sr, sr.N(time.Second/10))
	})
	return s.err
}

func (s *Speaker) Play(st beep.Streamer) { speaker.Play(st) }

func (s *Speaker) Clear() { speaker.Clear() }

func (s *Speaker) Lock() { speaker.Lock() }

func (s *Speaker) Unlock() { speaker.Unlock() }
