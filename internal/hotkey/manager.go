package hotkey

import (
	"errors"
	"fmt"
	"sync"

	"github.com/TanaroSch/hotkeyd/internal/bridge"
	"github.com/rs/zerolog"
)

// Manager handles registration and lifecycle of global hotkeys.
//
// Register, Unregister, UnregisterAll and IsRegistered are called from the
// application. Hotkey presses arrive on backend goroutines, are matched
// against the registry and handed to a bridge.Dispatcher, so callbacks
// never run on the goroutine that received the OS event.
type Manager struct {
	// mu guards closed. Register/Unregister hold it shared, Close exclusively.
	// Dispatch of OS events never takes it.
	mu     sync.RWMutex
	closed bool

	backend    Backend
	registry   *registry
	dispatcher *bridge.Dispatcher[Hotkey]
	ownsBridge bool
	log        zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithDispatcher makes the Manager deliver callbacks through d instead of
// a private dispatcher. The caller keeps ownership of d.
func WithDispatcher(d *bridge.Dispatcher[Hotkey]) Option {
	return func(m *Manager) { m.dispatcher = d }
}

// NewManager creates a new hotkey manager with an empty registry.
func NewManager(backend Backend, opts ...Option) *Manager {
	m := &Manager{
		backend:  backend,
		registry: newRegistry(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.dispatcher == nil {
		m.dispatcher = bridge.New[Hotkey](m.log)
		m.ownsBridge = true
	}
	return m
}

// Backend returns the backend the manager installs hotkeys with.
func (m *Manager) Backend() Backend {
	return m.backend
}

// Register parses description and binds callback to it system-wide.
// It fails with a *ParseError, ErrAlreadyRegistered, or the backend's error.
func (m *Manager) Register(description string, callback func()) error {
	if callback == nil {
		return errors.New("hotkey callback is required")
	}
	hk, err := Parse(description)
	if err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}

	for _, c := range KnownConflicts(hk) {
		m.log.Warn().Str("hotkey", hk.String()).Str("conflict", c.Name).Str("description", c.Description).
			Msg("hotkey matches a well-known system shortcut")
	}

	err = m.registry.register(hk, func() (Handle, error) {
		return m.backend.Install(hk, m.dispatch)
	}, callback)
	if err != nil {
		return fmt.Errorf("register %s: %w", hk, err)
	}

	m.log.Info().Str("hotkey", hk.String()).Str("backend", m.backend.Name()).Msg("registered hotkey")
	return nil
}

// Unregister removes the hotkey named by description. Invocations already
// scheduled may still run.
func (m *Manager) Unregister(description string) error {
	hk, err := Parse(description)
	if err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}

	if err := m.registry.unregister(hk, m.backend.Remove); err != nil {
		return fmt.Errorf("unregister %s: %w", hk, err)
	}
	m.log.Info().Str("hotkey", hk.String()).Msg("unregistered hotkey")
	return nil
}

// UnregisterAll removes every registered hotkey. It keeps going after a
// failure; hotkeys that could not be removed stay registered and every
// failure is reported in the joined error.
func (m *Manager) UnregisterAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return m.unregisterAll()
}

func (m *Manager) unregisterAll() error {
	n := len(m.registry.list())
	err := m.registry.unregisterAll(m.backend.Remove)
	if err != nil {
		m.log.Warn().Err(err).Msg("some hotkeys could not be unregistered")
	} else {
		m.log.Info().Int("count", n).Msg("unregistered all hotkeys")
	}
	return err
}

// IsRegistered reports whether the hotkey named by description is registered.
func (m *Manager) IsRegistered(description string) (bool, error) {
	hk, err := Parse(description)
	if err != nil {
		return false, err
	}
	return m.registry.isRegistered(hk), nil
}

// Registered returns the registered hotkeys sorted by canonical description.
func (m *Manager) Registered() []Hotkey {
	return m.registry.list()
}

// Close tears the manager down: every OS registration is removed and the
// dispatcher stops accepting invocations. Removal failures are logged, not
// returned. Close is idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true

	if err := m.unregisterAll(); err != nil {
		m.log.Warn().Err(err).Msg("hotkey teardown left registrations behind")
	}
	if m.ownsBridge {
		m.dispatcher.Close()
	}
}

// dispatch is the Trigger handed to the backend. It runs on backend
// goroutines and only does a map lookup and a non-blocking enqueue.
func (m *Manager) dispatch(hk Hotkey) {
	callback, ok := m.registry.lookup(hk)
	if !ok {
		m.log.Debug().Str("hotkey", hk.String()).Msg("event for unregistered hotkey ignored")
		return
	}
	if !m.dispatcher.Schedule(hk, callback) {
		m.log.Debug().Str("hotkey", hk.String()).Msg("dispatcher closed, hotkey event dropped")
		return
	}
	m.log.Debug().Str("hotkey", hk.String()).Msg("hotkey pressed")
}
