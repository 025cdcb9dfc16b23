package ui

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Level classifies administrative notifications.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// NotificationManager handles showing notifications across platforms
type NotificationManager struct {
	enabled  atomic.Bool
	appName  string
	iconPath string
	icon     []byte
	log      zerolog.Logger

	// push delivers a notification. Defaults to the platform implementation.
	push func(title, message string) error
}

// NewNotificationManager creates a new notification manager. iconPath may
// be empty, in which case the embedded icon is used where the platform
// supports one.
func NewNotificationManager(enabled bool, appName, iconPath string, icon []byte, log zerolog.Logger) *NotificationManager {
	n := &NotificationManager{
		appName:  appName,
		iconPath: iconPath,
		icon:     icon,
		log:      log,
	}
	n.enabled.Store(enabled)
	n.push = n.platformNotify
	return n
}

// SetEnabled switches binding notifications on or off, e.g. after a config reload.
func (n *NotificationManager) SetEnabled(enabled bool) {
	n.enabled.Store(enabled)
}

// Enabled reports whether binding notifications are shown.
func (n *NotificationManager) Enabled() bool {
	return n.enabled.Load()
}

// Notify shows a notification produced by a hotkey binding. It does nothing
// when notifications are disabled.
func (n *NotificationManager) Notify(title, message string) {
	if !n.enabled.Load() {
		n.log.Debug().Str("title", title).Str("message", message).Msg("notification suppressed (disabled)")
		return
	}
	n.show(title, message)
}

// Admin reports an application event such as a reload or a registration
// failure. It is always logged; errors are shown even when notifications
// are disabled.
func (n *NotificationManager) Admin(level Level, title, message string) {
	var ev *zerolog.Event
	switch level {
	case LevelError:
		ev = n.log.Error()
	case LevelWarn:
		ev = n.log.Warn()
	default:
		ev = n.log.Info()
	}
	ev.Str("title", title).Msg(message)

	if level < LevelError && !n.enabled.Load() {
		return
	}
	n.show(title, message)
}

func (n *NotificationManager) show(title, message string) {
	if err := n.push(title, message); err != nil {
		n.log.Warn().Err(err).Str("title", title).Msg("error showing notification")
		return
	}
	n.log.Debug().Str("title", title).Msg("notification sent")
}
