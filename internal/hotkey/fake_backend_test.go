package hotkey

import (
	"sync"
)

// fakeBackend records OS calls and lets tests fire installed hotkeys.
type fakeBackend struct {
	mu         sync.Mutex
	installs   int
	removes    int
	installErr map[Hotkey]error
	removeErr  map[Hotkey]error
	live       map[*fakeHandle]Trigger
}

type fakeHandle struct{ hk Hotkey }

func (h *fakeHandle) Hotkey() Hotkey { return h.hk }

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		installErr: make(map[Hotkey]error),
		removeErr:  make(map[Hotkey]error),
		live:       make(map[*fakeHandle]Trigger),
	}
}

func (f *fakeBackend) Name() string      { return "fake" }
func (f *fakeBackend) IsAvailable() bool { return true }

func (f *fakeBackend) Install(hk Hotkey, trigger Trigger) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.installs++
	if err := f.installErr[hk]; err != nil {
		return nil, err
	}
	h := &fakeHandle{hk: hk}
	f.live[h] = trigger
	return h, nil
}

func (f *fakeBackend) Remove(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes++
	fh := h.(*fakeHandle)
	if err := f.removeErr[fh.hk]; err != nil {
		return err
	}
	if _, ok := f.live[fh]; !ok {
		return ErrInvalidHandle
	}
	delete(f.live, fh)
	return nil
}

// press simulates the user pressing hk. Only exact OS-level matches fire.
func (f *fakeBackend) press(hk Hotkey) {
	f.mu.Lock()
	var triggers []Trigger
	for h, tr := range f.live {
		if h.hk == hk {
			triggers = append(triggers, tr)
		}
	}
	f.mu.Unlock()
	for _, tr := range triggers {
		tr(hk)
	}
}

func (f *fakeBackend) counts() (installs, removes, live int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.installs, f.removes, len(f.live)
}
