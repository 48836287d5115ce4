package playback

import (
	"time"

	"github.com/llehouerou/nightingale/internal/catalog"
)

// Value is one facet of the playback state. Known is false until the
// facet has been reported at least once.
type Value[T comparable] struct {
	Value T
	Known bool
}

func known[T comparable](v T) Value[T] {
	return Value[T]{Value: v, Known: true}
}

// Get returns the value and whether it is known.
func (v Value[T]) Get() (T, bool) {
	return v.Value, v.Known
}

// Facet names the part of the state an Update changed.
type Facet int

const (
	// FacetSnapshot is the first update of every subscription.
	FacetSnapshot Facet = iota
	FacetQueue
	FacetBuffering
	FacetReady
	FacetPlaying
	FacetCurrentTrack
	FacetProgress
)

// String returns the facet name.
func (f Facet) String() string {
	switch f {
	case FacetSnapshot:
		return "Snapshot"
	case FacetQueue:
		return "Queue"
	case FacetBuffering:
		return "Buffering"
	case FacetReady:
		return "Ready"
	case FacetPlaying:
		return "Playing"
	case FacetCurrentTrack:
		return "CurrentTrack"
	case FacetProgress:
		return "Progress"
	default:
		return "Unknown"
	}
}

// State is the application-level playback state.
//
// Buffering and Ready are exclusive: reporting one clears the other.
// The remaining facets are independent.
type State struct {
	Buffering    Value[time.Duration] // position when buffering began
	Ready        Value[time.Duration] // duration of the current track
	Playing      Value[bool]
	CurrentTrack Value[int]
	Progress     Value[time.Duration]
	QueueLen     int
}

// IsInitial reports whether nothing has been reported yet.
func (s State) IsInitial() bool {
	return !s.Buffering.Known && !s.Ready.Known && !s.Playing.Known &&
		!s.CurrentTrack.Known && !s.Progress.Known && s.QueueLen == 0
}

// IsPlaying reports whether Playing is known and true.
func (s State) IsPlaying() bool {
	return s.Playing.Known && s.Playing.Value
}

// Update is one state change. State is the full state after the change.
type Update struct {
	Seq   uint64
	Facet Facet
	State State

	// Queue is the queue State refers to. Set on FacetSnapshot and
	// FacetQueue only; shared, must not be modified.
	Queue []catalog.Track
}
