package hotkey

// Backend abstracts the OS-level hotkey registration mechanism.
// This allows us to support multiple display servers (Windows, macOS, X11,
// Wayland) behind one Manager.
type Backend interface {
	// Name returns a human-readable name for this backend (for logging).
	Name() string

	// IsAvailable returns true if this backend can be used on the current system.
	IsAvailable() bool

	// Install registers hk with the OS. Whenever the combination is pressed,
	// the backend calls trigger with hk from its own event goroutine.
	// trigger must return quickly; it never runs application code itself.
	Install(hk Hotkey, trigger Trigger) (Handle, error)

	// Remove releases a handle returned by Install. Removing a handle that
	// was already removed fails with ErrInvalidHandle.
	Remove(h Handle) error
}

// Trigger is called by a Backend when an installed hotkey fires.
type Trigger func(Hotkey)

// Handle is an opaque token identifying one OS-level registration.
type Handle interface {
	Hotkey() Hotkey
}
