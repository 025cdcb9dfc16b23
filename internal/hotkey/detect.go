package hotkey

import (
	"os"
	"runtime"
)

// DisplayServer represents the type of display server in use
type DisplayServer int

const (
	DisplayServerUnknown DisplayServer = iota
	DisplayServerWindows
	DisplayServerMacOS
	DisplayServerX11
	DisplayServerWayland
)

func (ds DisplayServer) String() string {
	switch ds {
	case DisplayServerWindows:
		return "Windows"
	case DisplayServerMacOS:
		return "macOS"
	case DisplayServerX11:
		return "X11"
	case DisplayServerWayland:
		return "Wayland"
	default:
		return "Unknown"
	}
}

// DetectDisplayServer determines which display server is currently in use.
// This function is safe to call on any platform.
func DetectDisplayServer() DisplayServer {
	return detectDisplayServer(runtime.GOOS, os.Getenv)
}

func detectDisplayServer(goos string, getenv func(string) string) DisplayServer {
	switch goos {
	case "windows":
		return DisplayServerWindows
	case "darwin":
		return DisplayServerMacOS
	}

	// Check Wayland first: XWayland also sets DISPLAY.
	if getenv("WAYLAND_DISPLAY") != "" || getenv("XDG_SESSION_TYPE") == "wayland" {
		return DisplayServerWayland
	}
	if getenv("DISPLAY") != "" {
		return DisplayServerX11
	}
	return DisplayServerUnknown
}

// HasPortalSupport checks if a D-Bus session bus is reachable, which the
// XDG Desktop Portal needs. It does not probe the portal itself.
func HasPortalSupport() bool {
	return hasPortalSupport(runtime.GOOS, os.Getenv)
}

func hasPortalSupport(goos string, getenv func(string) string) bool {
	if goos != "linux" {
		return false
	}
	return getenv("DBUS_SESSION_BUS_ADDRESS") != ""
}
