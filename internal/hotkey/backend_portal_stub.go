//go:build !linux

package hotkey

import "github.com/rs/zerolog"

// PortalBackend stub for non-Linux platforms.
// This ensures the code compiles on Windows and macOS even though
// the Portal backend is Linux-specific.
type PortalBackend struct{}

// NewPortalBackend creates a stub that's never used on non-Linux platforms.
func NewPortalBackend(log zerolog.Logger) *PortalBackend {
	log.Debug().Msg("portal backend: not available on non-Linux platforms")
	return &PortalBackend{}
}

// Name returns the name of this backend.
func (b *PortalBackend) Name() string {
	return "portal"
}

// IsAvailable always returns false on non-Linux platforms.
func (b *PortalBackend) IsAvailable() bool {
	return false
}

func (b *PortalBackend) Install(Hotkey, Trigger) (Handle, error) {
	return nil, ErrBackendNotAvailable
}

func (b *PortalBackend) Remove(Handle) error {
	return ErrInvalidHandle
}

func (b *PortalBackend) Close() error {
	return nil
}
