package engine

import (
	"slices"
	"sync"
	"time"
)

// Mock is a scriptable engine for coordinator tests. Transport calls are
// recorded; events are fired by the test through Fire helpers, which call
// the listener synchronously.
type Mock struct {
	mu       sync.Mutex
	listener Listener
	items    []Item
	index    int
	state    State
	playing  bool
	position time.Duration
	duration time.Duration
	calls    []string
	err      error
}

// NewMock returns an idle mock with an empty queue.
func NewMock() *Mock {
	return &Mock{index: -1}
}

func (m *Mock) record(call string) error {
	m.calls = append(m.calls, call)
	return m.err
}

func (m *Mock) SetListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = l
}

func (m *Mock) SetItems(items []Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = slices.Clone(items)
	m.index = -1
	if len(items) > 0 {
		m.index = 0
	} else {
		m.playing = false
	}
	_ = m.record("SetItems")
}

func (m *Mock) Prepare() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record("Prepare")
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = true
	return m.record("Play")
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	_ = m.record("Pause")
}

func (m *Mock) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *Mock) SeekTo(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = min(max(d, 0), m.duration)
	return m.record("SeekTo")
}

func (m *Mock) SeekForward() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record("SeekForward")
}

func (m *Mock) SeekBack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record("SeekBack")
}

func (m *Mock) SeekToNext() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index+1 < len(m.items) {
		m.index++
	}
	return m.record("SeekToNext")
}

func (m *Mock) SeekToPrevious() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index > 0 {
		m.index--
	}
	return m.record("SeekToPrevious")
}

func (m *Mock) SeekToDefaultPosition(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.items) {
		return ErrIndexOutOfRange
	}
	m.index = i
	m.position = 0
	return m.record("SeekToDefaultPosition")
}

func (m *Mock) PlayIndex(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.items) {
		return ErrIndexOutOfRange
	}
	m.index = i
	m.position = 0
	m.playing = true
	return m.record("PlayIndex")
}

func (m *Mock) CurrentIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

func (m *Mock) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Test helpers

// Calls returns the recorded transport calls in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// ResetCalls forgets recorded calls.
func (m *Mock) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// SetError makes every later fallible call return err.
func (m *Mock) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *Mock) SetIndex(i int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = i
}

// FireState sets the state and reports it to the listener.
func (m *Mock) FireState(s State) {
	m.mu.Lock()
	m.state = s
	l := m.listener
	m.mu.Unlock()
	if l != nil {
		l.OnPlaybackStateChanged(s)
	}
}

// FirePlaying sets the playing flag and reports it to the listener.
func (m *Mock) FirePlaying(playing bool) {
	m.mu.Lock()
	m.playing = playing
	l := m.listener
	m.mu.Unlock()
	if l != nil {
		l.OnIsPlayingChanged(playing)
	}
}
