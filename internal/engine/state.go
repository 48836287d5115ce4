package engine

// State is the engine's playback state.
//
//	┌──────┐  prepare  ┌───────────┐  decoded  ┌───────┐  last item ends  ┌───────┐
//	│ Idle │ ────────▶ │ Buffering │ ────────▶ │ Ready │ ───────────────▶ │ Ended │
//	└──────┘           └───────────┘           └───────┘                  └───────┘
//	                          ▲                     │
//	                          └─────────────────────┘
//	                           seek to another item / item ends
//
// Whether audio is audible is tracked separately: the engine is playing
// when it is Ready and play-when-ready is set.
type State int

const (
	StateIdle State = iota
	StateBuffering
	StateReady
	StateEnded
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateBuffering:
		return "Buffering"
	case StateReady:
		return "Ready"
	case StateEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}
