//go:build linux

package hotkey

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

const (
	portalDest         = "org.freedesktop.portal.Desktop"
	portalPath         = "/org/freedesktop/portal/desktop"
	shortcutsInterface = "org.freedesktop.portal.GlobalShortcuts"
	requestInterface   = "org.freedesktop.portal.Request"
	sessionInterface   = "org.freedesktop.portal.Session"

	// The user may have to confirm a permission dialog before the portal answers.
	portalRequestTimeout = 2 * time.Minute
)

// Response codes of org.freedesktop.portal.Request.Response.
const (
	responseSuccess   uint32 = 0
	responseCancelled uint32 = 1
)

// PortalBackend uses XDG Desktop Portal GlobalShortcuts for Wayland support.
// Each installed hotkey gets its own portal session, so removing one hotkey
// never disturbs the others.
//
// References:
// - https://flatpak.github.io/xdg-desktop-portal/docs/doc-org.freedesktop.portal.GlobalShortcuts.html
type PortalBackend struct {
	mu       sync.Mutex
	conn     *dbus.Conn
	waiters  map[dbus.ObjectPath]chan portalResponse
	sessions map[dbus.ObjectPath]*portalHandle
	// Responses nobody waited for yet, kept while a request is in flight.
	// Portals that ignore handle_token may answer before Call returns the
	// real request path.
	early    map[dbus.ObjectPath]portalResponse
	inflight int

	tokens atomic.Uint64
	log    zerolog.Logger
}

type portalResponse struct {
	code    uint32
	results map[string]dbus.Variant
}

// portalShortcut marshals as the (sa{sv}) struct BindShortcuts expects.
type portalShortcut struct {
	ID      string
	Options map[string]dbus.Variant
}

// NewPortalBackend creates a Portal backend. The session bus is connected
// lazily by IsAvailable or the first Install.
func NewPortalBackend(log zerolog.Logger) *PortalBackend {
	return &PortalBackend{
		waiters:  make(map[dbus.ObjectPath]chan portalResponse),
		sessions: make(map[dbus.ObjectPath]*portalHandle),
		early:    make(map[dbus.ObjectPath]portalResponse),
		log:      log,
	}
}

// Name returns the name of this backend.
func (b *PortalBackend) Name() string {
	return "portal"
}

// IsAvailable reports whether the session bus is reachable and the portal
// exposes the GlobalShortcuts interface.
func (b *PortalBackend) IsAvailable() bool {
	if !HasPortalSupport() {
		b.log.Debug().Msg("portal backend: D-Bus session bus not available")
		return false
	}
	conn, err := b.connection()
	if err != nil {
		b.log.Debug().Err(err).Msg("portal backend: cannot connect to D-Bus session bus")
		return false
	}

	var version uint32
	err = conn.Object(portalDest, portalPath).
		Call("org.freedesktop.DBus.Properties.Get", 0, shortcutsInterface, "version").
		Store(&version)
	if err != nil {
		b.log.Debug().Err(err).Msg("portal backend: GlobalShortcuts portal not available")
		_ = b.Close()
		return false
	}
	b.log.Debug().Uint32("version", version).Msg("portal backend: GlobalShortcuts portal available")
	return true
}

// Install creates a portal session for hk and binds it as a single shortcut.
func (b *PortalBackend) Install(hk Hotkey, trigger Trigger) (Handle, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendNotAvailable, err)
	}
	preferred, err := portalTrigger(hk)
	if err != nil {
		return nil, err
	}

	token := b.nextToken()
	resp, err := b.request(conn, "CreateSession", token, map[string]dbus.Variant{
		"handle_token":         dbus.MakeVariant(token),
		"session_handle_token": dbus.MakeVariant(token),
	})
	if err != nil {
		return nil, fmt.Errorf("create portal session: %w", err)
	}
	session, err := sessionHandle(resp.results)
	if err != nil {
		return nil, err
	}

	h := &portalHandle{hotkey: hk, session: session, trigger: trigger}
	// Register before binding; Activated may arrive as soon as the bind completes.
	b.mu.Lock()
	b.sessions[session] = h
	b.mu.Unlock()

	bindToken := b.nextToken()
	shortcuts := []portalShortcut{{
		ID: hk.String(),
		Options: map[string]dbus.Variant{
			"description":       dbus.MakeVariant("hotkeyd: " + hk.String()),
			"preferred_trigger": dbus.MakeVariant(preferred),
		},
	}}
	resp, err = b.request(conn, "BindShortcuts", bindToken,
		session, shortcuts, "", map[string]dbus.Variant{
			"handle_token": dbus.MakeVariant(bindToken),
		})
	if err == nil && !bindsShortcut(resp.results, hk.String()) {
		err = ErrAlreadyBoundElsewhere
	}
	if err != nil {
		b.forget(session)
		b.closeSession(conn, session)
		return nil, fmt.Errorf("bind portal shortcut: %w", err)
	}

	b.log.Debug().Str("hotkey", hk.String()).Str("session", string(session)).
		Str("trigger", preferred).Msg("portal backend: installed")
	return h, nil
}

// Remove closes the portal session behind h.
func (b *PortalBackend) Remove(h Handle) error {
	ph, ok := h.(*portalHandle)
	if !ok {
		return ErrInvalidHandle
	}

	b.mu.Lock()
	conn := b.conn
	current, ok := b.sessions[ph.session]
	b.mu.Unlock()
	if !ok || current != ph || conn == nil {
		return ErrInvalidHandle
	}

	if err := conn.Object(portalDest, ph.session).Call(sessionInterface+".Close", 0).Err; err != nil {
		return fmt.Errorf("close portal session %s: %w", ph.session, err)
	}
	b.forget(ph.session)
	b.log.Debug().Str("hotkey", ph.hotkey.String()).Msg("portal backend: removed")
	return nil
}

// Close releases the D-Bus connection. Sessions die with it.
func (b *PortalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	b.sessions = make(map[dbus.ObjectPath]*portalHandle)
	return err
}

func (b *PortalBackend) connection() (*dbus.Conn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		return b.conn, nil
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	for _, rule := range []string{
		fmt.Sprintf("type='signal',interface='%s',member='Response'", requestInterface),
		fmt.Sprintf("type='signal',interface='%s',member='Activated'", shortcutsInterface),
	} {
		if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
			conn.Close()
			return nil, fmt.Errorf("add signal match: %w", err)
		}
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)
	go b.signalLoop(signals)

	b.conn = conn
	return conn, nil
}

// signalLoop routes Request.Response signals to their waiters and
// GlobalShortcuts.Activated signals to the owning handle's trigger.
func (b *PortalBackend) signalLoop(signals <-chan *dbus.Signal) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Msg("recovered from panic in portal signal loop")
		}
	}()

	for sig := range signals {
		switch sig.Name {
		case requestInterface + ".Response":
			if len(sig.Body) < 2 {
				continue
			}
			code, _ := sig.Body[0].(uint32)
			results, _ := sig.Body[1].(map[string]dbus.Variant)

			b.deliver(sig.Path, portalResponse{code: code, results: results})

		case shortcutsInterface + ".Activated":
			if len(sig.Body) < 2 {
				continue
			}
			session, _ := sig.Body[0].(dbus.ObjectPath)
			b.mu.Lock()
			h, ok := b.sessions[session]
			b.mu.Unlock()
			if ok {
				h.trigger(h.hotkey)
			}
		}
	}
	b.log.Debug().Msg("portal backend: signal channel closed")
}

// deliver hands resp to the request waiting on path. Without a waiter it
// is kept for a request whose path is not known yet.
func (b *PortalBackend) deliver(path dbus.ObjectPath, resp portalResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if waiter, ok := b.waiters[path]; ok {
		delete(b.waiters, path)
		waiter <- resp
		return
	}
	if b.inflight > 0 {
		b.early[path] = resp
	}
}

// await registers waiter for path, handing over a response that already
// arrived.
func (b *PortalBackend) await(path dbus.ObjectPath, waiter chan portalResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if resp, ok := b.early[path]; ok {
		delete(b.early, path)
		waiter <- resp
		return
	}
	b.waiters[path] = waiter
}

// rekey moves waiter from the predicted request path to the one the portal
// actually returned.
func (b *PortalBackend) rekey(expected, actual dbus.ObjectPath, waiter chan portalResponse) {
	b.mu.Lock()
	delete(b.waiters, expected)
	b.mu.Unlock()
	b.await(actual, waiter)
}

func (b *PortalBackend) begin() {
	b.mu.Lock()
	b.inflight++
	b.mu.Unlock()
}

func (b *PortalBackend) end(paths ...dbus.ObjectPath) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range paths {
		delete(b.waiters, p)
	}
	b.inflight--
	if b.inflight == 0 {
		clear(b.early)
	}
}

// request calls a GlobalShortcuts method that answers through a Request
// object and waits for its Response.
func (b *PortalBackend) request(conn *dbus.Conn, method, token string, args ...interface{}) (portalResponse, error) {
	expected := requestPath(conn, token)
	waiter := make(chan portalResponse, 1)

	b.begin()
	b.await(expected, waiter)

	var handle dbus.ObjectPath
	err := conn.Object(portalDest, portalPath).Call(shortcutsInterface+"."+method, 0, args...).Store(&handle)
	defer b.end(expected, handle)
	if err != nil {
		return portalResponse{}, err
	}
	if handle != expected {
		// Portals older than 0.9 ignore handle_token.
		b.rekey(expected, handle, waiter)
	}

	select {
	case resp := <-waiter:
		return resp, resp.err(method)
	case <-time.After(portalRequestTimeout):
		return portalResponse{}, fmt.Errorf("portal %s: no response after %s", method, portalRequestTimeout)
	}
}

func (r portalResponse) err(method string) error {
	switch r.code {
	case responseSuccess:
		return nil
	case responseCancelled:
		return ErrPermissionDenied
	default:
		return fmt.Errorf("portal %s failed with response code %d", method, r.code)
	}
}

func (b *PortalBackend) nextToken() string {
	return fmt.Sprintf("hotkeyd%d", b.tokens.Add(1))
}

func (b *PortalBackend) forget(session dbus.ObjectPath) {
	b.mu.Lock()
	delete(b.sessions, session)
	b.mu.Unlock()
}

func (b *PortalBackend) closeSession(conn *dbus.Conn, session dbus.ObjectPath) {
	if err := conn.Object(portalDest, session).Call(sessionInterface+".Close", 0).Err; err != nil {
		b.log.Debug().Err(err).Str("session", string(session)).Msg("portal backend: closing session failed")
	}
}

// requestPath predicts the Request object path for token, see
// org.freedesktop.portal.Request.
func requestPath(conn *dbus.Conn, token string) dbus.ObjectPath {
	var unique string
	if names := conn.Names(); len(names) > 0 {
		unique = names[0]
	}
	return requestPathFor(unique, token)
}

// requestPathFor builds the request path from the caller's unique bus name
// (":1.42" becomes "1_42").
func requestPathFor(uniqueName, token string) dbus.ObjectPath {
	sender := strings.ReplaceAll(strings.TrimPrefix(uniqueName, ":"), ".", "_")
	return dbus.ObjectPath(portalPath + "/request/" + sender + "/" + token)
}

func sessionHandle(results map[string]dbus.Variant) (dbus.ObjectPath, error) {
	v, ok := results["session_handle"]
	if !ok {
		return "", errors.New("portal did not return a session handle")
	}
	switch s := v.Value().(type) {
	case string:
		return dbus.ObjectPath(s), nil
	case dbus.ObjectPath:
		return s, nil
	default:
		return "", fmt.Errorf("unexpected session handle type %T", s)
	}
}

// bindsShortcut reports whether the BindShortcuts results contain id.
// Results without a shortcut list are taken as success.
func bindsShortcut(results map[string]dbus.Variant, id string) bool {
	v, ok := results["shortcuts"]
	if !ok {
		return true
	}
	var bound []portalShortcut
	if err := dbus.Store([]interface{}{v.Value()}, &bound); err != nil {
		return true
	}
	for _, s := range bound {
		if s.ID == id {
			return true
		}
	}
	return false
}

// portalHandle is one portal session holding a single shortcut.
type portalHandle struct {
	hotkey  Hotkey
	session dbus.ObjectPath
	trigger Trigger
}

func (h *portalHandle) Hotkey() Hotkey { return h.hotkey }
