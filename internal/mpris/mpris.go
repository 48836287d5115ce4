//go:build linux

package mpris

import (
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	zlog "github.com/rs/zerolog/log"
)

// Adapter serves the player over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates the adapter and starts serving in the background.
func New(ctrl Controller) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("nightingale", rootAdapter{}, &playerAdapter{c: newControl(ctrl)}),
	}
	log := zlog.With().Str("component", "mpris").Logger()
	go func() {
		if err := a.server.Listen(); err != nil {
			log.Warn().Err(err).Msg("mpris server stopped")
		}
	}()
	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

type rootAdapter struct{}

func (rootAdapter) Raise() error                { return nil }
func (rootAdapter) Quit() error                 { return nil }
func (rootAdapter) CanQuit() (bool, error)      { return false, nil }
func (rootAdapter) CanRaise() (bool, error)     { return false, nil }
func (rootAdapter) HasTrackList() (bool, error) { return false, nil }
func (rootAdapter) Identity() (string, error)   { return "Nightingale", nil }

//nolint:revive // Method name required by interface.
func (rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/wav"}, nil
}

type playerAdapter struct {
	c *control
}

func (p *playerAdapter) Next() error      { return p.c.Next() }
func (p *playerAdapter) Previous() error  { return p.c.Previous() }
func (p *playerAdapter) Pause() error     { return p.c.Pause() }
func (p *playerAdapter) PlayPause() error { return p.c.PlayPause() }
func (p *playerAdapter) Stop() error      { return p.c.Stop() }
func (p *playerAdapter) Play() error      { return p.c.Play() }

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	return p.c.Seek(time.Duration(offset) * time.Microsecond)
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	return p.c.SetPosition(trackID, time.Duration(position)*time.Microsecond)
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(string) error { return nil }

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.c.Status() {
	case StatusPlaying:
		return types.PlaybackStatusPlaying, nil
	case StatusPaused:
		return types.PlaybackStatusPaused, nil
	case StatusStopped:
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error)        { return 1.0, nil }
func (p *playerAdapter) SetRate(float64) error         { return nil }
func (p *playerAdapter) MinimumRate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) MaximumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	track := p.c.ctrl.Current()
	if track == nil {
		return types.Metadata{}, nil
	}
	meta := types.Metadata{
		TrackId: dbus.ObjectPath(TrackID(track.Path)),
		Length:  types.Microseconds(track.Duration.Microseconds()),
		Title:   track.Label(),
	}
	if track.Artist != "" {
		meta.Artist = []string{track.Artist}
	}
	if art := track.CoverPath(); art != "" {
		meta.ArtUrl = "file://" + art
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) { return 1.0, nil }
func (p *playerAdapter) SetVolume(float64) error  { return nil }

func (p *playerAdapter) Position() (int64, error) {
	return p.c.ctrl.Position().Microseconds(), nil
}

func (p *playerAdapter) CanGoNext() (bool, error)     { return p.c.CanGoNext(), nil }
func (p *playerAdapter) CanGoPrevious() (bool, error) { return p.c.CanGoPrevious(), nil }
func (p *playerAdapter) CanPlay() (bool, error)       { return p.c.CanPlay(), nil }
func (p *playerAdapter) CanPause() (bool, error)      { return true, nil }
func (p *playerAdapter) CanSeek() (bool, error)       { return true, nil }
func (p *playerAdapter) CanControl() (bool, error)    { return true, nil }
