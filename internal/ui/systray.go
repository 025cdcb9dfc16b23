package ui

import (
	"fmt"
	"sync"

	"github.com/TanaroSch/hotkeyd/internal/config"
	"github.com/getlantern/systray"
	"github.com/rs/zerolog"
)

// AdminNotifier reports tray events to the user.
type AdminNotifier interface {
	Admin(level Level, title, message string)
}

// Callbacks are invoked from menu goroutines.
type Callbacks struct {
	// ToggleBinding persists the new enabled state of the binding at index
	// and applies it. The tray never edits the configuration itself.
	ToggleBinding  func(index int, name string, enabled bool) error
	Reload         func()
	UnregisterAll  func()
	ShowRegistered func()
	OpenConfig     func()
	AddSecret      func()
	ListSecrets    func()
	RemoveSecret   func()
	Quit           func()
}

// SystrayManager handles the system tray icon and menu
type SystrayManager struct {
	mu      sync.Mutex
	config  *config.Config
	version string
	backend string
	icon    []byte
	notify  AdminNotifier
	cb      Callbacks
	log     zerolog.Logger

	miStatus      *systray.MenuItem
	bindingItems  map[int]*systray.MenuItem
	pendingStatus string
}

// NewSystrayManager creates a new system tray manager
func NewSystrayManager(cfg *config.Config, version, backend string, icon []byte, notify AdminNotifier, cb Callbacks, log zerolog.Logger) *SystrayManager {
	return &SystrayManager{
		config:       cfg,
		version:      version,
		backend:      backend,
		icon:         icon,
		notify:       notify,
		cb:           cb,
		log:          log,
		bindingItems: make(map[int]*systray.MenuItem),
	}
}

// Run initializes and starts the system tray. It blocks until Quit.
func (s *SystrayManager) Run() {
	systray.Run(s.onReady, s.onExit)
}

// Quit stops the tray loop.
func (s *SystrayManager) Quit() {
	systray.Quit()
}

// bindingTitle renders a binding's menu entry, checkmark first.
func bindingTitle(b config.Binding) string {
	prefix := "  "
	if b.Enabled {
		prefix = "✓ "
	}
	return fmt.Sprintf("%s%s (%s)", prefix, b.Name, b.Hotkey)
}

func statusTitle(registered, enabled int) string {
	return fmt.Sprintf("Active hotkeys: %d/%d", registered, enabled)
}

// SetStatus updates the registered hotkey counter.
func (s *SystrayManager) SetStatus(registered, enabled int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	title := statusTitle(registered, enabled)
	if s.miStatus == nil {
		s.pendingStatus = title
		return
	}
	s.miStatus.SetTitle(title)
}

// UpdateConfig swaps the configuration after a reload and refreshes the
// binding checkmarks. Menu entries cannot be added after start, so bindings
// beyond the original count only show up after a restart.
func (s *SystrayManager) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg

	for i, item := range s.bindingItems {
		if i < len(cfg.Bindings) {
			item.SetTitle(bindingTitle(cfg.Bindings[i]))
			item.Enable()
			continue
		}
		item.Disable()
	}
	if len(cfg.Bindings) > len(s.bindingItems) {
		s.log.Info().Int("new", len(cfg.Bindings)-len(s.bindingItems)).
			Msg("new bindings are active but only appear in the tray menu after a restart")
	}
}

// onReady is called by systray once the tray is ready.
func (s *SystrayManager) onReady() {
	title := fmt.Sprintf("hotkeyd %s", s.version)
	systray.SetTitle(title)
	systray.SetTooltip(title)
	if len(s.icon) > 0 {
		systray.SetIcon(s.icon)
	} else {
		s.log.Warn().Msg("no icon data to set for systray")
	}

	miVersion := systray.AddMenuItem(fmt.Sprintf("Version: %s", s.version), "hotkeyd version")
	miVersion.Disable()
	miBackend := systray.AddMenuItem(fmt.Sprintf("Backend: %s", s.backend), "Hotkey backend in use")
	miBackend.Disable()

	s.mu.Lock()
	status := s.pendingStatus
	if status == "" {
		status = statusTitle(0, 0)
	}
	s.miStatus = systray.AddMenuItem(status, "Registered / enabled bindings")
	s.miStatus.Disable()
	s.mu.Unlock()
	systray.AddSeparator()

	s.buildBindingMenu()
	miShowRegistered := systray.AddMenuItem("Show Registered Hotkeys", "List hotkeys currently registered with the system")
	miUnregisterAll := systray.AddMenuItem("Unregister All Hotkeys", "Release every global hotkey until the next reload")
	systray.AddSeparator()

	miManageSecrets := systray.AddMenuItem("Manage Secrets", "Add/Remove sensitive values")
	miAddSecret := miManageSecrets.AddSubMenuItem("Add/Update Secret...", "Store a new sensitive value")
	miListSecrets := miManageSecrets.AddSubMenuItem("List Secret Names", "Show names of stored secrets")
	miRemoveSecret := miManageSecrets.AddSubMenuItem("Remove Secret...", "Delete a stored secret")
	systray.AddSeparator()

	miReload := systray.AddMenuItem("Reload Configuration", "Reload config and re-register hotkeys")
	miOpenConfig := systray.AddMenuItem("Open Config File", "Open config.json in default editor")
	systray.AddSeparator()
	miQuit := systray.AddMenuItem("Quit", "Exit the application")

	s.handleClicks(miShowRegistered, "Show Registered Hotkeys", s.cb.ShowRegistered)
	s.handleClicks(miUnregisterAll, "Unregister All Hotkeys", s.cb.UnregisterAll)
	s.handleClicks(miAddSecret, "Add/Update Secret", s.cb.AddSecret)
	s.handleClicks(miListSecrets, "List Secret Names", s.cb.ListSecrets)
	s.handleClicks(miRemoveSecret, "Remove Secret", s.cb.RemoveSecret)
	s.handleClicks(miReload, "Reload Configuration", s.cb.Reload)
	s.handleClicks(miOpenConfig, "Open Config File", s.cb.OpenConfig)

	go func() {
		<-miQuit.ClickedCh
		s.log.Info().Msg("Quit menu item clicked")
		if s.cb.Quit != nil {
			s.cb.Quit()
		}
		systray.Quit()
	}()

	s.log.Debug().Msg("systray ready and menu configured")
}

func (s *SystrayManager) handleClicks(item *systray.MenuItem, name string, fn func()) {
	if fn == nil {
		item.Disable()
		return
	}
	go func() {
		for range item.ClickedCh {
			s.log.Debug().Str("item", name).Msg("menu item clicked")
			fn()
		}
	}()
}

// onExit is called when the systray is exiting
func (s *SystrayManager) onExit() {
	s.log.Debug().Msg("systray exiting")
}

// buildBindingMenu creates one toggle entry per configured binding.
func (s *SystrayManager) buildBindingMenu() {
	miBindings := systray.AddMenuItem("Bindings", "Enable or disable hotkey bindings")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil || len(s.config.Bindings) == 0 {
		none := miBindings.AddSubMenuItem("(No bindings defined)", "Add bindings in config.json")
		none.Disable()
		return
	}
	for i, b := range s.config.Bindings {
		item := miBindings.AddSubMenuItem(bindingTitle(b), fmt.Sprintf("Toggle binding: %s (Hotkey: %s)", b.Name, b.Hotkey))
		s.bindingItems[i] = item
		go func(item *systray.MenuItem, idx int) {
			for range item.ClickedCh {
				s.toggleBinding(idx)
			}
		}(item, i)
	}
}

// toggleRequest returns the binding at idx and the state it should be
// toggled to.
func toggleRequest(cfg *config.Config, idx int) (name string, enable bool, ok bool) {
	if cfg == nil || idx < 0 || idx >= len(cfg.Bindings) {
		return "", false, false
	}
	b := cfg.Bindings[idx]
	return b.Name, !b.Enabled, true
}

// toggleBinding asks for the binding at idx to be flipped. The menu entry
// follows once the new configuration is applied.
func (s *SystrayManager) toggleBinding(idx int) {
	s.mu.Lock()
	name, enable, ok := toggleRequest(s.config, idx)
	s.mu.Unlock()

	if !ok {
		s.notify.Admin(LevelWarn, "Menu Inconsistency", "Binding list changed unexpectedly. Please use Reload or restart.")
		return
	}
	if s.cb.ToggleBinding == nil {
		return
	}
	if err := s.cb.ToggleBinding(idx, name, enable); err != nil {
		s.notify.Admin(LevelError, "Save Error", fmt.Sprintf("Failed to save config after toggling '%s': %v", name, err))
	}
}
