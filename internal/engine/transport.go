package engine

import (
	"math"
	"time"
)

// SeekTo moves to pos within the current item, clamped to its bounds.
// Seeking to the end finishes the item.
func (e *Engine) SeekTo(pos time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.seekLocked(pos)
}

// SeekForward skips ahead by the forward increment.
func (e *Engine) SeekForward() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.seekLocked(e.positionLocked() + e.seekForward)
}

// SeekBack rewinds by the back increment.
func (e *Engine) SeekBack() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.seekLocked(e.positionLocked() - e.seekBack)
}

// SeekToNext moves to the start of the next item. It is a no-op on the
// last item.
func (e *Engine) SeekToNext() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.index+1 >= len(e.items) {
		return nil
	}
	return e.loadLocked(e.index + 1)
}

// SeekToPrevious restarts the current item when it has played past the
// restart threshold or is the first; otherwise it moves to the previous
// item.
func (e *Engine) SeekToPrevious() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if len(e.items) == 0 {
		return nil
	}
	if e.index <= 0 || e.positionLocked() > e.restartThreshold {
		if e.cur == nil || e.state == StateEnded {
			return e.loadLocked(max(e.index, 0))
		}
		return e.seekLocked(0)
	}
	return e.loadLocked(e.index - 1)
}

// SeekToDefaultPosition makes item index current from its start.
func (e *Engine) SeekToDefaultPosition(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.loadLocked(index)
}

// PlayIndex starts item index from its start with play-when-ready set.
func (e *Engine) PlayIndex(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if index < 0 || index >= len(e.items) {
		return ErrIndexOutOfRange
	}
	e.playWhenReady = true
	return e.loadLocked(index)
}

func (e *Engine) seekLocked(pos time.Duration) error {
	if e.cur == nil {
		return nil
	}
	if e.state == StateEnded {
		// The finished stream is no longer rendered.
		if err := e.loadLocked(e.index); err != nil {
			return err
		}
	}
	pos = min(max(pos, 0), e.durationLocked())
	target := e.cur.format.SampleRate.N(pos)
	if target > e.cur.stream.Len() {
		target = e.cur.stream.Len()
	}

	// Mute, seek, then unmute to avoid clicks.
	vol := e.cur.volume
	e.out.Lock()
	vol.Silent = true
	err := e.cur.stream.Seek(target)
	e.out.Unlock()

	gen := e.gen
	time.AfterFunc(seekUnmuteDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed || gen != e.gen || e.cur == nil {
			return
		}
		e.out.Lock()
		e.cur.volume.Silent = e.level <= 0
		e.out.Unlock()
	})
	return err
}

// SetVolume sets the volume level (0 to 1).
func (e *Engine) SetVolume(level float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.level = clampLevel(level)
	if e.cur == nil {
		return
	}
	e.out.Lock()
	e.cur.volume.Volume = levelToVolume(e.level)
	e.cur.volume.Silent = e.level <= 0
	e.out.Unlock()
}

// Volume returns the volume level.
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

func clampLevel(level float64) float64 {
	if math.IsNaN(level) {
		return 1
	}
	return min(max(level, 0), 1)
}

// levelToVolume maps a linear level to beep's base-2 volume: 1 is 0,
// 0.5 is -1 and silence is -10.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
