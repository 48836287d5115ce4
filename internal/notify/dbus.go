//go:build linux

package notify

import (
	"github.com/cockroachdb/errors"
	"github.com/godbus/dbus/v5"
)

const (
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"
)

type dbusNotifier struct {
	obj dbus.BusObject
}

// New returns a D-Bus notifier, or a no-op one when there is no session
// bus.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nopNotifier{}, nil //nolint:nilerr // no session bus, notifications off
	}
	return &dbusNotifier{obj: conn.Object(dbusNotifyDest, dbusNotifyPath)}, nil
}

// Notify sends notif and returns the id the server assigned to it.
func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant("nightingale"),
	}

	// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout)
	call := n.obj.Call(
		dbusNotifyInterface+".Notify",
		0,
		"Nightingale",
		notif.ReplacesID,
		notif.Icon,
		notif.Title,
		notif.Body,
		[]string{},
		hints,
		notif.Timeout,
	)
	if call.Err != nil {
		return 0, errors.Wrap(call.Err, "notify")
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, errors.Wrap(err, "read notification id")
	}
	return id, nil
}

// Close removes notification id from the screen.
func (n *dbusNotifier) Close(id uint32) error {
	return n.obj.Call(dbusNotifyInterface+".CloseNotification", 0, id).Err
}
