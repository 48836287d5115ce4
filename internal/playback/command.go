package playback

import (
	"fmt"
	"math"
)

// CommandKind identifies a transport command.
type CommandKind int

const (
	CmdPlayPause CommandKind = iota + 1
	CmdSeekForward
	CmdSeekBackward
	CmdSkipNext
	CmdSkipPrevious
	CmdStop
	CmdSeekToFraction
	CmdSelectTrack
)

// String returns the command name.
func (k CommandKind) String() string {
	switch k {
	case CmdPlayPause:
		return "play/pause"
	case CmdSeekForward:
		return "seek forward"
	case CmdSeekBackward:
		return "seek backward"
	case CmdSkipNext:
		return "skip next"
	case CmdSkipPrevious:
		return "skip previous"
	case CmdStop:
		return "stop"
	case CmdSeekToFraction:
		return "seek"
	case CmdSelectTrack:
		return "select track"
	default:
		return fmt.Sprintf("command(%d)", int(k))
	}
}

// Command is a transport command. Build one with the constructors below.
type Command struct {
	Kind     CommandKind
	Fraction float64 // CmdSeekToFraction, in [0,1]
	Index    int     // CmdSelectTrack
}

// PlayPause toggles between playing and paused.
func PlayPause() Command { return Command{Kind: CmdPlayPause} }

// SeekForward jumps ahead by the engine's forward increment.
func SeekForward() Command { return Command{Kind: CmdSeekForward} }

// SeekBackward jumps back by the engine's backward increment.
func SeekBackward() Command { return Command{Kind: CmdSeekBackward} }

// SkipNext moves to the next queue entry, if any.
func SkipNext() Command { return Command{Kind: CmdSkipNext} }

// SkipPrevious restarts the current track, or moves to the previous entry
// when close to its start.
func SkipPrevious() Command { return Command{Kind: CmdSkipPrevious} }

// Stop pauses playback and ends progress reporting.
func Stop() Command { return Command{Kind: CmdStop} }

// SeekToFraction seeks to f of the current track's duration, 0 being the
// start and 1 the end.
func SeekToFraction(f float64) Command {
	return Command{Kind: CmdSeekToFraction, Fraction: f}
}

// SelectTrack plays the queue entry at index, or toggles play/pause if it
// is already current.
func SelectTrack(index int) Command {
	return Command{Kind: CmdSelectTrack, Index: index}
}

// clampFraction limits f to [0,1]. ok is false for NaN.
func clampFraction(f float64) (float64, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	return min(max(f, 0), 1), true
}
