// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config selects where and how much to log.
type Config struct {
	Level   string // debug, info, warn, error
	File    string // JSON log file; empty means DefaultFile
	Console bool   // human-readable output on stderr instead of a file
}

// DefaultFile returns the log file location under the XDG state
// directory.
func DefaultFile() (string, error) {
	return xdg.StateFile(filepath.Join("nightingale", "nightingale.log"))
}

// Init installs the global logger. The returned closer releases the log
// file; it is a no-op for console output.
func Init(cfg Config) (io.Closer, error) {
	level := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)
	zerolog.CallerMarshalFunc = shortCaller

	var (
		logger zerolog.Logger
		closer io.Closer = nopCloser{}
	)
	if cfg.Console {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.TimeOnly,
		}).With().Timestamp().Logger()
	} else {
		path := cfg.File
		if path == "" {
			p, err := DefaultFile()
			if err != nil {
				return nil, errors.Wrap(err, "resolve log file")
			}
			path = p
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "open log file")
		}
		logger = zerolog.New(f).With().Timestamp().Logger()
		closer = f
	}
	if level == zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger
	return closer, nil
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// shortCaller keeps the last directory and file name.
func shortCaller(_ uintptr, file string, line int) string {
	return filepath.Join(filepath.Base(filepath.Dir(file)), filepath.Base(file)) + ":" + strconv.Itoa(line)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
