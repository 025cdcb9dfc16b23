package hotkey

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// BackendKind names a backend choice in configuration.
type BackendKind string

const (
	BackendAuto   BackendKind = "auto"
	BackendNative BackendKind = "native"
	BackendPortal BackendKind = "portal"
)

// ParseBackendKind accepts "auto", "native", "portal" or "" (auto).
func ParseBackendKind(s string) (BackendKind, error) {
	switch k := BackendKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", BackendAuto:
		return BackendAuto, nil
	case BackendNative, BackendPortal:
		return k, nil
	default:
		return "", fmt.Errorf("unknown hotkey backend %q", s)
	}
}

// SelectBackend chooses the backend for kind. native is the OS-level
// backend of this build and may be nil when none was compiled in. With
// BackendAuto:
//  1. Windows/X11/macOS: native
//  2. Wayland: PortalBackend if the GlobalShortcuts portal answers
//  3. Otherwise ErrBackendNotAvailable
func SelectBackend(kind BackendKind, native Backend, log zerolog.Logger) (Backend, error) {
	return selectBackend(kind, DetectDisplayServer(), native, func() Backend { return NewPortalBackend(log) }, log)
}

func selectBackend(kind BackendKind, ds DisplayServer, native Backend, portal func() Backend, log zerolog.Logger) (Backend, error) {
	var candidates []Backend
	switch {
	case kind == BackendNative:
		candidates = []Backend{native}
	case kind == BackendPortal, ds == DisplayServerWayland:
		candidates = []Backend{portal()}
	default:
		candidates = []Backend{native, portal()}
	}

	for _, b := range candidates {
		if b == nil {
			log.Debug().Msg("native hotkey backend not compiled into this build")
			continue
		}
		if b.IsAvailable() {
			log.Info().Str("backend", b.Name()).Stringer("display_server", ds).
				Msg("selected hotkey backend")
			return b, nil
		}
		log.Debug().Str("backend", b.Name()).Msg("hotkey backend not available")
		if c, ok := b.(io.Closer); ok {
			_ = c.Close()
		}
	}
	return nil, fmt.Errorf("%w (display server: %s)", ErrBackendNotAvailable, ds)
}
