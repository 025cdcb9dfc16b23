//go:build windows || darwin || (linux && cgo && !nox11)

package native

import (
	"fmt"
	"strings"
	"sync"

	"github.com/TanaroSch/hotkeyd/internal/hotkey"
	"github.com/rs/zerolog"
	xhotkey "golang.design/x/hotkey"
)

// Supported reports whether this build carries the native backend.
const Supported = true

// grab is one OS-level key grab. *xhotkey.Hotkey satisfies it.
type grab interface {
	Register() error
	Unregister() error
	Keydown() <-chan xhotkey.Event
}

// Backend wraps golang.design/x/hotkey. It supports Windows, macOS and X11
// but not Wayland.
type Backend struct {
	mu            sync.Mutex
	installed     map[*handle]struct{}
	displayServer hotkey.DisplayServer
	newGrab       func(mods []xhotkey.Modifier, key xhotkey.Key) grab
	log           zerolog.Logger
}

// New creates a native backend for the detected display server.
func New(log zerolog.Logger) *Backend {
	ds := hotkey.DetectDisplayServer()
	log.Debug().Stringer("display_server", ds).Msg("native backend created")

	return &Backend{
		installed:     make(map[*handle]struct{}),
		displayServer: ds,
		newGrab: func(mods []xhotkey.Modifier, key xhotkey.Key) grab {
			return xhotkey.New(mods, key)
		},
		log: log,
	}
}

// Name returns the name of this backend.
func (b *Backend) Name() string {
	return "native"
}

// IsAvailable checks if this backend can be used on the current system.
func (b *Backend) IsAvailable() bool {
	switch b.displayServer {
	case hotkey.DisplayServerWindows, hotkey.DisplayServerMacOS, hotkey.DisplayServerX11:
		return true
	case hotkey.DisplayServerWayland:
		b.log.Debug().Msg("native backend: not available on Wayland")
		return false
	default:
		b.log.Debug().Msg("native backend: unknown display server, assuming unavailable")
		return false
	}
}

// Install grabs hk. On X11 the combination is additionally grabbed with
// NumLock and CapsLock held; those extra grabs may fail without failing
// the install.
func (b *Backend) Install(hk hotkey.Hotkey, trigger hotkey.Trigger) (hotkey.Handle, error) {
	mods, key, err := combination(hk)
	if err != nil {
		return nil, err
	}

	h := &handle{hotkey: hk, stopCh: make(chan struct{})}
	for i, variant := range expandModifiers(mods) {
		g := b.newGrab(variant, key)
		if err := g.Register(); err != nil {
			if i == 0 {
				return nil, classifyRegisterError(err)
			}
			b.log.Debug().Err(err).Str("hotkey", hk.String()).Int("variant", i).
				Msg("lock-state variant could not be grabbed")
			continue
		}
		h.grabs = append(h.grabs, g)
	}

	for _, g := range h.grabs {
		go h.listen(g, trigger, b.log)
	}

	b.mu.Lock()
	b.installed[h] = struct{}{}
	b.mu.Unlock()

	b.log.Debug().Str("hotkey", hk.String()).Int("grabs", len(h.grabs)).Msg("native backend: installed")
	return h, nil
}

// Remove releases every grab of h. If some grab cannot be released the
// handle stays valid, so Remove can be retried.
func (b *Backend) Remove(h hotkey.Handle) error {
	nh, ok := h.(*handle)
	if !ok {
		return hotkey.ErrInvalidHandle
	}

	b.mu.Lock()
	_, ok = b.installed[nh]
	b.mu.Unlock()
	if !ok {
		return hotkey.ErrInvalidHandle
	}

	if err := nh.release(); err != nil {
		return err
	}

	b.mu.Lock()
	delete(b.installed, nh)
	b.mu.Unlock()
	b.log.Debug().Str("hotkey", nh.hotkey.String()).Msg("native backend: removed")
	return nil
}

// classifyRegisterError maps the library's register failure onto the
// hotkey error kinds. The library only reports free-form messages.
func classifyRegisterError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "permission") || strings.Contains(msg, "access") || strings.Contains(msg, "denied") {
		return fmt.Errorf("%w: %v", hotkey.ErrPermissionDenied, err)
	}
	return fmt.Errorf("%w: %v", hotkey.ErrAlreadyBoundElsewhere, err)
}

// handle is the set of grabs backing one installed hotkey.
type handle struct {
	hotkey hotkey.Hotkey

	mu     sync.Mutex
	grabs  []grab
	stopCh chan struct{} // closed once every grab is released
}

func (h *handle) Hotkey() hotkey.Hotkey { return h.hotkey }

// listen forwards keydown events of g to trigger until the handle is released.
func (h *handle) listen(g grab, trigger hotkey.Trigger, log zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("hotkey", h.hotkey.String()).
				Msg("recovered from panic in hotkey listener")
		}
	}()

	events := g.Keydown()
	for {
		select {
		case <-h.stopCh:
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			trigger(h.hotkey)
		}
	}
}

// release unregisters the remaining grabs. Grabs that fail to unregister
// are kept and their listeners keep running.
func (h *handle) release() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var (
		remaining []grab
		firstErr  error
	)
	for _, g := range h.grabs {
		if err := g.Unregister(); err != nil {
			remaining = append(remaining, g)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	h.grabs = remaining
	if firstErr != nil {
		return fmt.Errorf("release %s: %w", h.hotkey, firstErr)
	}
	close(h.stopCh)
	return nil
}

// combination translates hk into the modifier list and key code the OS
// registration call expects.
func combination(hk hotkey.Hotkey) ([]xhotkey.Modifier, xhotkey.Key, error) {
	key, ok := nativeKey(hk.Key)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", hotkey.ErrUnsupportedKey, hk.Key)
	}
	return nativeModifiers(hk.Modifiers), key, nil
}
