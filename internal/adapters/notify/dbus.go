package notify

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/atmouse-/gensokyoradio/internal/domain"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = "/org/freedesktop/Notifications"
	notificationsNotify = "org.freedesktop.Notifications.Notify"
)

// DBusNotifier shows notifications through org.freedesktop.Notifications.
type DBusNotifier struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewDBusNotifier connects to the session bus.
func NewDBusNotifier() (*DBusNotifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &DBusNotifier{
		conn: conn,
		obj:  conn.Object(notificationsDest, dbus.ObjectPath(notificationsPath)),
	}, nil
}

// Notify sends one notification. The request timeout becomes the
// notification's expire timeout.
func (n *DBusNotifier) Notify(ctx context.Context, req domain.NotificationRequest) error {
	urgency, err := ParseUrgency(req.Urgency)
	if err != nil {
		urgency = UrgencyNormal
	}
	appName := req.AppName
	if appName == "" {
		appName = domain.DefaultNotifySettings().AppName
	}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgency),
	}
	if req.ImagePath != "" {
		hints["image-path"] = dbus.MakeVariant(req.ImagePath)
	}

	call := n.obj.CallWithContext(ctx, notificationsNotify, 0,
		appName,
		uint32(0),
		"",
		req.Title,
		req.Body(),
		[]string{},
		hints,
		expireTimeout(req.Timeout),
	)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	return nil
}

// Close releases the bus connection.
func (n *DBusNotifier) Close() error {
	return n.conn.Close()
}

// expireTimeout converts d to milliseconds. Zero lets the server decide.
func expireTimeout(d time.Duration) int32 {
	ms := d.Milliseconds()
	switch {
	case ms <= 0:
		return -1
	case ms > math.MaxInt32:
		return math.MaxInt32
	default:
		return int32(ms)
	}
}
