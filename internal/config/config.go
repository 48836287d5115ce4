// Package config loads the player configuration from TOML files and the
// environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables overriding file values.
const (
	EnvLibrary  = "NIGHTINGALE_LIBRARY" // list of roots, os.PathListSeparator separated
	EnvLogLevel = "NIGHTINGALE_LOG_LEVEL"
)

type Config struct {
	LibrarySources []string      `koanf:"library_sources"`                                  // directories scanned into the index
	IndexPath      string        `koanf:"index_path"`                                       // empty means the XDG data dir
	ScanWorkers    int           `koanf:"scan_workers" default:"8" validate:"gte=1,lte=64"` // concurrent metadata readers
	MinDuration    time.Duration `koanf:"min_duration" default:"0s" validate:"gte=0"`       // shorter files are not music

	Playback    PlaybackConfig    `koanf:"playback"`
	Log         LogConfig         `koanf:"log"`
	Integration IntegrationConfig `koanf:"integration"`
}

// PlaybackConfig holds engine and coordinator settings.
type PlaybackConfig struct {
	PollInterval             time.Duration `koanf:"poll_interval" default:"500ms" validate:"gte=10ms,lte=10s"`
	SeekForward              time.Duration `koanf:"seek_forward" default:"15s" validate:"gt=0"`
	SeekBackward             time.Duration `koanf:"seek_backward" default:"5s" validate:"gt=0"`
	PreviousRestartThreshold time.Duration `koanf:"previous_restart_threshold" default:"3s" validate:"gte=0"`
	Volume                   int           `koanf:"volume" default:"100" validate:"gte=0,lte=100"` // percent
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `koanf:"level" default:"info" validate:"oneof=debug info warn warning error"`
	File  string `koanf:"file"` // empty means the XDG state dir
}

// IntegrationConfig toggles desktop integration.
type IntegrationConfig struct {
	MPRIS         bool `koanf:"mpris" default:"true"`
	Notifications bool `koanf:"notifications" default:"true"`
}

// Load reads the standard config files, then explicit when it is not
// empty. Later files override earlier ones and the environment overrides
// all files. An explicit path must exist.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
	}
	if explicit != "" {
		if err := k.Load(file.Provider(expandPath(explicit)), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load %s", explicit)
		}
	}

	// Defaults go in first so that explicit false or zero values survive.
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "set defaults")
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	cfg.overrideFromEnv()

	for i, src := range cfg.LibrarySources {
		cfg.LibrarySources[i] = expandPath(src)
	}
	cfg.IndexPath = expandPath(cfg.IndexPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

func (c *Config) overrideFromEnv() {
	if v := os.Getenv(EnvLibrary); v != "" {
		var roots []string
		for _, p := range filepath.SplitList(v) {
			if p = strings.TrimSpace(p); p != "" {
				roots = append(roots, p)
			}
		}
		c.LibrarySources = roots
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// HasLibrary reports whether any library root is configured.
func (c *Config) HasLibrary() bool {
	return len(c.LibrarySources) > 0
}

func getConfigPaths() []string {
	paths := []string{
		filepath.Join(xdg.ConfigHome, "nightingale", "config.toml"),
	}
	// ./config.toml has the highest priority
	return append(paths, "config.toml")
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
