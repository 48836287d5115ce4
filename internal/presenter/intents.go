package presenter

import (
	"context"
	"fmt"
	"time"

	"github.com/llehouerou/nightingale/internal/playback"
)

// Each intent maps to exactly one coordinator command. A failed command
// is recorded in Model.LastError and returned.

// PlayPause toggles playback.
func (p *Presenter) PlayPause(ctx context.Context) error {
	return p.submit(ctx, playback.PlayPause())
}

// Select plays the track at index, or toggles it if already current.
func (p *Presenter) Select(ctx context.Context, index int) error {
	return p.submit(ctx, playback.SelectTrack(index))
}

// Next skips to the next track.
func (p *Presenter) Next(ctx context.Context) error {
	return p.submit(ctx, playback.SkipNext())
}

// Previous restarts the track or goes back one.
func (p *Presenter) Previous(ctx context.Context) error {
	return p.submit(ctx, playback.SkipPrevious())
}

// Forward seeks forward.
func (p *Presenter) Forward(ctx context.Context) error {
	return p.submit(ctx, playback.SeekForward())
}

// Backward seeks backward.
func (p *Presenter) Backward(ctx context.Context) error {
	return p.submit(ctx, playback.SeekBackward())
}

// Stop pauses playback.
func (p *Presenter) Stop(ctx context.Context) error {
	return p.submit(ctx, playback.Stop())
}

// SeekPercent seeks to percent (0 to 100) of the current track. The
// coordinator takes a fraction; this is the only place percentages are
// converted.
func (p *Presenter) SeekPercent(ctx context.Context, percent float64) error {
	return p.submit(ctx, playback.SeekToFraction(percent/100))
}

func (p *Presenter) submit(ctx context.Context, cmd playback.Command) error {
	if err := p.ctrl.Submit(ctx, cmd); err != nil {
		p.setError(err)
		return err
	}
	return nil
}

// FormatDuration renders d as mm:ss. Minutes are not wrapped into hours.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
