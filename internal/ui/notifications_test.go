package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushed struct{ title, message string }

func newTestNotifier(enabled bool, pushErr error) (*NotificationManager, *[]pushed, *bytes.Buffer) {
	var buf bytes.Buffer
	n := NewNotificationManager(enabled, "hotkeyd", "", nil, zerolog.New(&buf))
	var got []pushed
	n.push = func(title, message string) error {
		got = append(got, pushed{title, message})
		return pushErr
	}
	return n, &got, &buf
}

func TestNotify(t *testing.T) {
	n, got, _ := newTestNotifier(true, nil)
	n.Notify("Title", "body")
	require.Len(t, *got, 1)
	assert.Equal(t, pushed{"Title", "body"}, (*got)[0])
}

func TestNotifyDisabled(t *testing.T) {
	n, got, _ := newTestNotifier(false, nil)
	n.Notify("Title", "body")
	assert.Empty(t, *got)

	n.SetEnabled(true)
	assert.True(t, n.Enabled())
	n.Notify("Title", "body")
	assert.Len(t, *got, 1)
}

func TestAdminLevels(t *testing.T) {
	n, got, buf := newTestNotifier(false, nil)

	n.Admin(LevelInfo, "Reloaded", "config reloaded")
	n.Admin(LevelWarn, "Hotkeys", "one failed")
	assert.Empty(t, *got, "info and warn stay quiet when disabled")

	n.Admin(LevelError, "Config", "broken")
	require.Len(t, *got, 1)
	assert.Equal(t, "Config", (*got)[0].title)

	logs := buf.String()
	assert.Contains(t, logs, `"level":"info"`)
	assert.Contains(t, logs, `"level":"warn"`)
	assert.Contains(t, logs, `"level":"error"`)
}

func TestNotifyPushError(t *testing.T) {
	n, got, buf := newTestNotifier(true, errors.New("no daemon"))
	n.Notify("Title", "body")
	assert.Len(t, *got, 1)
	assert.Contains(t, buf.String(), "no daemon")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
}
