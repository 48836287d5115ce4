//go:build !windows

// Package stderr captures what C libraries (ALSA, the audio backend)
// write straight to file descriptor 2 and forwards it to the logger, so
// it never lands on top of the TUI.
package stderr

import (
	"bufio"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

var (
	origStderr = -1
	pipeRead   *os.File
	pipeWrite  *os.File
	done       chan struct{}
)

// Start redirects fd 2 into log. Call it before the audio backend is
// initialised. On error stderr is left untouched.
func Start(log zerolog.Logger) error {
	if origStderr >= 0 {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return errors.Wrap(err, "create pipe")
	}
	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return errors.Wrap(err, "dup stderr")
	}
	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return errors.Wrap(err, "redirect stderr")
	}

	origStderr, pipeRead, pipeWrite = orig, r, w
	done = make(chan struct{})
	go forward(r, log, done)
	return nil
}

// forward logs every non-empty line read from r.
func forward(r io.Reader, log zerolog.Logger, done chan<- struct{}) {
	defer close(done)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			log.Warn().Str("component", "stderr").Msg(line)
		}
	}
}

// WriteOriginal writes to the real stderr, bypassing capture.
func WriteOriginal(msg string) {
	if origStderr >= 0 {
		_, _ = syscall.Write(origStderr, []byte(msg))
		return
	}
	_, _ = os.Stderr.WriteString(msg)
}

// Stop restores the original stderr and waits for pending lines to be
// logged.
func Stop() {
	if origStderr < 0 {
		return
	}
	_ = syscall.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = syscall.Close(origStderr)
	origStderr = -1

	pipeWrite.Close()
	<-done
	pipeRead.Close()
}
