//go:build !windows && !darwin && !(linux && cgo && !nox11)

package native

import (
	"github.com/TanaroSch/hotkeyd/internal/hotkey"
	"github.com/rs/zerolog"
)

// Supported reports whether this build carries the native backend.
const Supported = false

// Backend is unavailable in this build.
type Backend struct{}

func New(log zerolog.Logger) *Backend {
	log.Debug().Msg("native backend: not compiled into this build")
	return &Backend{}
}

func (b *Backend) Name() string      { return "native" }
func (b *Backend) IsAvailable() bool { return false }

func (b *Backend) Install(hotkey.Hotkey, hotkey.Trigger) (hotkey.Handle, error) {
	return nil, hotkey.ErrBackendNotAvailable
}

func (b *Backend) Remove(hotkey.Handle) error {
	return hotkey.ErrInvalidHandle
}
