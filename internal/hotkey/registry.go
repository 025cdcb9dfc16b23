package hotkey

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

type entryState uint8

const (
	// statePending: the OS install is in flight. Not yet visible as registered.
	statePending entryState = iota
	stateActive
	// stateRemoving: the OS removal is in flight. Still registered until it succeeds.
	stateRemoving
)

// entry binds a hotkey to its OS handle and callback.
type entry struct {
	hotkey   Hotkey
	handle   Handle
	callback func()
	state    entryState
}

// registry maps hotkeys to their registrations. mu only ever guards map
// access: OS install/remove calls and callbacks run outside it.
type registry struct {
	mu      sync.Mutex
	entries map[Hotkey]*entry
}

func newRegistry() *registry {
	return &registry{entries: make(map[Hotkey]*entry)}
}

// register reserves hk, runs install, and commits the entry on success.
// On install failure the registry is left unchanged.
func (r *registry) register(hk Hotkey, install func() (Handle, error), callback func()) error {
	r.mu.Lock()
	if _, exists := r.entries[hk]; exists {
		r.mu.Unlock()
		return ErrAlreadyRegistered
	}
	e := &entry{hotkey: hk, callback: callback, state: statePending}
	r.entries[hk] = e
	r.mu.Unlock()

	handle, err := install()

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		delete(r.entries, hk)
		return err
	}
	e.handle = handle
	e.state = stateActive
	return nil
}

// unregister runs remove for hk's handle and drops the entry on success.
// On failure the entry stays so the call can be retried. A stale handle
// means the OS registration is already gone, so the entry is dropped.
func (r *registry) unregister(hk Hotkey, remove func(Handle) error) error {
	r.mu.Lock()
	e, ok := r.entries[hk]
	switch {
	case !ok || e.state == statePending:
		r.mu.Unlock()
		return ErrNotRegistered
	case e.state == stateRemoving:
		r.mu.Unlock()
		return ErrBusy
	}
	e.state = stateRemoving
	handle := e.handle
	r.mu.Unlock()

	err := remove(handle)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil && !errors.Is(err, ErrInvalidHandle) {
		e.state = stateActive
		return err
	}
	delete(r.entries, hk)
	return nil
}

// unregisterAll removes every active entry, continuing past failures.
// Entries whose removal failed remain registered; all failures are joined
// into the returned error. Stale handles count as removed.
func (r *registry) unregisterAll(remove func(Handle) error) error {
	r.mu.Lock()
	batch := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.state == stateActive {
			e.state = stateRemoving
			batch = append(batch, e)
		}
	}
	r.mu.Unlock()

	sort.Slice(batch, func(i, j int) bool {
		return batch[i].hotkey.String() < batch[j].hotkey.String()
	})

	var errs []error
	failed := make(map[*entry]bool)
	for _, e := range batch {
		if err := remove(e.handle); err != nil && !errors.Is(err, ErrInvalidHandle) {
			errs = append(errs, fmt.Errorf("unregister %s: %w", e.hotkey, err))
			failed[e] = true
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range batch {
		if failed[e] {
			e.state = stateActive
			continue
		}
		delete(r.entries, e.hotkey)
	}
	return errors.Join(errs...)
}

// lookup returns the callback for hk if it is registered.
func (r *registry) lookup(hk Hotkey) (func(), bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[hk]
	if !ok || e.state == statePending {
		return nil, false
	}
	return e.callback, true
}

func (r *registry) isRegistered(hk Hotkey) bool {
	_, ok := r.lookup(hk)
	return ok
}

// list returns registered hotkeys sorted by canonical description.
func (r *registry) list() []Hotkey {
	r.mu.Lock()
	out := make([]Hotkey, 0, len(r.entries))
	for hk, e := range r.entries {
		if e.state != statePending {
			out = append(out, hk)
		}
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
