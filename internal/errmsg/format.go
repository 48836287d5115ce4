// Package errmsg formats errors for display in the status line.
package errmsg

import (
	"fmt"

	"github.com/llehouerou/nightingale/internal/playback"
)

// Op names an operation that can fail.
type Op string

const (
	// Library
	OpLibraryLoad Op = "load library"
	OpLibraryScan Op = "scan library"
	OpIndexOpen   Op = "open media index"

	// Playback
	OpPlayPause    Op = "toggle playback"
	OpSeek         Op = "seek"
	OpSkip         Op = "change track"
	OpStop         Op = "stop playback"
	OpSelectTrack  Op = "play track"
	OpAudioStartup Op = "start audio output"

	// Desktop integration
	OpMPRIS  Op = "register media keys"
	OpNotify Op = "connect to notification daemon"

	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith adds the subject of the operation, typically a path.
func FormatWith(op Op, subject string, err error) string {
	if err == nil {
		return ""
	}
	if subject == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, subject, err)
}

// ForCommand returns the operation a playback command performs.
func ForCommand(kind playback.CommandKind) Op {
	switch kind {
	case playback.CmdPlayPause:
		return OpPlayPause
	case playback.CmdSeekForward, playback.CmdSeekBackward, playback.CmdSeekToFraction:
		return OpSeek
	case playback.CmdSkipNext, playback.CmdSkipPrevious:
		return OpSkip
	case playback.CmdStop:
		return OpStop
	case playback.CmdSelectTrack:
		return OpSelectTrack
	}
	return Op(kind.String())
}
