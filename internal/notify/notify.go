// Package notify announces the current track through desktop
// notifications over D-Bus.
package notify

import (
	"github.com/llehouerou/nightingale/internal/catalog"
)

// Urgency is the freedesktop notification priority.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// nowPlayingTimeout is how long a "Now playing" bubble stays up, in ms.
const nowPlayingTimeout = 5000

// Notification is one desktop notification.
type Notification struct {
	Title      string
	Body       string
	Icon       string // image path or icon name
	Timeout    int32  // ms, -1 = server default, 0 = never expire
	ReplacesID uint32 // 0 = new notification
	Urgency    Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends n and returns its id. Unavailable backends return 0
	// and a nil error.
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

// NowPlaying builds the notification announcing t.
func NowPlaying(t catalog.Track) Notification {
	n := Notification{
		Title:   t.Label(),
		Body:    t.Artist,
		Icon:    "audio-x-generic",
		Timeout: nowPlayingTimeout,
		Urgency: UrgencyLow,
	}
	if art := t.CoverPath(); art != "" {
		n.Icon = art
	}
	return n
}
