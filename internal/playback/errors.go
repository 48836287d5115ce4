package playback

import "github.com/cockroachdb/errors"

var (
	ErrEmptyQueue      = errors.New("queue is empty")
	ErrIndexOutOfRange = errors.New("track index out of range")
	ErrInvalidFraction = errors.New("seek fraction is not a number")
	ErrClosed          = errors.New("coordinator closed")
	ErrUnknownCommand  = errors.New("unknown command")
)
