package hotkey

import (
	"errors"
	"fmt"
)

// Parse errors. They are always recoverable by fixing the description.
var (
	ErrMissingKey = errors.New("no key in hotkey description")
	// ErrEmptyDescription also matches ErrMissingKey: an empty description has no key either.
	ErrEmptyDescription = fmt.Errorf("empty hotkey description: %w", ErrMissingKey)
	ErrUnknownToken     = errors.New("unknown hotkey token")
	ErrMultipleKeys     = errors.New("more than one key in hotkey description")
)

// Registry errors describe misuse relative to the current registrations.
var (
	ErrAlreadyRegistered = errors.New("hotkey already registered")
	ErrNotRegistered     = errors.New("hotkey not registered")
	ErrBusy              = errors.New("hotkey registration change in progress")
	ErrClosed            = errors.New("hotkey manager closed")
)

// OS errors are reported by a Backend.
var (
	ErrAlreadyBoundElsewhere = errors.New("hotkey is bound by another application or the system")
	ErrPermissionDenied      = errors.New("permission denied registering hotkey")
	ErrUnsupportedKey        = errors.New("hotkey not supported on this platform")
	ErrInvalidHandle         = errors.New("invalid or stale hotkey handle")
	// ErrBackendNotAvailable is returned when a backend cannot be used on the current system.
	ErrBackendNotAvailable = errors.New("backend not available on this system")
)

// ParseError reports why a description could not be parsed.
type ParseError struct {
	Description string
	Token       string
	Err         error
}

func (e *ParseError) Error() string {
	if e.Token != "" || errors.Is(e.Err, ErrUnknownToken) || errors.Is(e.Err, ErrMultipleKeys) {
		return fmt.Sprintf("hotkey %q: %v %q", e.Description, e.Err, e.Token)
	}
	return fmt.Sprintf("hotkey %q: %v", e.Description, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
