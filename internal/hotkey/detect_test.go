package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name string
		goos string
		vars map[string]string
		want DisplayServer
	}{
		{"windows", "windows", nil, DisplayServerWindows},
		{"macos", "darwin", map[string]string{"DISPLAY": ":0"}, DisplayServerMacOS},
		{"x11", "linux", map[string]string{"DISPLAY": ":0"}, DisplayServerX11},
		{"wayland with xwayland", "linux", map[string]string{"DISPLAY": ":0", "WAYLAND_DISPLAY": "wayland-0"}, DisplayServerWayland},
		{"session type", "linux", map[string]string{"XDG_SESSION_TYPE": "wayland"}, DisplayServerWayland},
		{"headless", "linux", nil, DisplayServerUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectDisplayServer(tt.goos, env(tt.vars)))
		})
	}
}

func TestHasPortalSupport(t *testing.T) {
	bus := map[string]string{"DBUS_SESSION_BUS_ADDRESS": "unix:path=/run/user/1000/bus"}
	assert.True(t, hasPortalSupport("linux", env(bus)))
	assert.False(t, hasPortalSupport("linux", env(nil)))
	assert.False(t, hasPortalSupport("windows", env(bus)))
}

func TestParseBackendKind(t *testing.T) {
	for in, want := range map[string]BackendKind{
		"":        BackendAuto,
		"auto":    BackendAuto,
		" Native": BackendNative,
		"PORTAL":  BackendPortal,
	} {
		got, err := ParseBackendKind(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseBackendKind("x11")
	assert.Error(t, err)
}

func TestPortalTrigger(t *testing.T) {
	tests := map[string]string{
		"ctrl+shift+k":           "CTRL+SHIFT+k",
		"super+enter":            "LOGO+Return",
		"alt+f4":                 "ALT+F4",
		"ctrl+num7":              "CTRL+KP_7",
		"ctrl+pageup":            "CTRL+Page_Up",
		"volumemute":             "XF86AudioMute",
		"shift+alt+ctrl+super+1": "CTRL+ALT+SHIFT+LOGO+1",
	}
	for desc, want := range tests {
		got, err := portalTrigger(MustParse(desc))
		assert.NoError(t, err, desc)
		assert.Equal(t, want, got, desc)
	}
}

func TestKnownConflicts(t *testing.T) {
	assert.Len(t, knownConflictsFor("windows", MustParse("alt+tab")), 1)
	assert.Len(t, knownConflictsFor("darwin", MustParse("cmd+space")), 1)
	assert.Empty(t, knownConflictsFor("linux", MustParse("ctrl+shift+k")))
	assert.Empty(t, knownConflictsFor("plan9", MustParse("alt+tab")))
}
