package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/TanaroSch/hotkeyd/internal/action"
	"github.com/TanaroSch/hotkeyd/internal/config"
	"github.com/TanaroSch/hotkeyd/internal/hotkey"
	"github.com/TanaroSch/hotkeyd/internal/resources"
	"github.com/TanaroSch/hotkeyd/internal/ui"
	"github.com/rs/zerolog"
)

// Notifier is what the application needs from the notification layer.
type Notifier interface {
	action.Notifier
	Admin(level ui.Level, title, message string)
	SetEnabled(enabled bool)
}

// Options configures an Application.
type Options struct {
	Version string
	Loader  *config.Loader
	// Backend overrides backend selection from the config.
	Backend hotkey.Backend
	// Native is the OS-level backend offered to selection. Nil leaves only
	// the portal backend.
	Native hotkey.Backend
	// Notifier overrides the desktop notification manager.
	Notifier Notifier
	Log      zerolog.Logger
}

// Application represents the main application
type Application struct {
	config  atomic.Pointer[config.Config]
	loader  *config.Loader
	version string

	// reloadMu serializes RegisterBindings and Reload.
	reloadMu sync.Mutex

	manager  *hotkey.Manager
	runner   *action.Runner
	notifier Notifier
	systray  *ui.SystrayManager
	iconData []byte
	log      zerolog.Logger

	quit     chan struct{}
	quitOnce sync.Once
	shutOnce sync.Once
}

// New loads the configuration through opts.Loader, selects a hotkey backend
// and wires the action runner, notifications and tray.
func New(opts Options) (*Application, error) {
	if opts.Loader == nil {
		return nil, errors.New("config loader is required")
	}
	cfg, err := opts.Loader.Load()
	if err != nil {
		return nil, err
	}

	a := &Application{
		loader:  opts.Loader,
		version: opts.Version,
		log:     opts.Log,
		quit:    make(chan struct{}),
	}
	a.config.Store(cfg)

	a.iconData, err = resources.LoadIcon(cfg.IconPath)
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to load tray icon, using embedded icon")
		a.iconData, _ = resources.GetIcon()
	}

	a.notifier = opts.Notifier
	if a.notifier == nil {
		a.notifier = ui.NewNotificationManager(cfg.UseNotifications, "hotkeyd", cfg.IconPath, a.iconData, a.log)
	}

	backend := opts.Backend
	if backend == nil {
		kind, err := hotkey.ParseBackendKind(cfg.Backend)
		if err != nil {
			return nil, err
		}
		backend, err = hotkey.SelectBackend(kind, opts.Native, a.log)
		if err != nil {
			return nil, err
		}
	}
	a.manager = hotkey.NewManager(backend, hotkey.WithLogger(a.log))

	a.runner = action.NewRunner(a.notifier, a.log)
	a.runner.Expand = func(s string) string { return a.Config().ExpandSecrets(s) }

	a.systray = ui.NewSystrayManager(cfg, a.version, backend.Name(), a.iconData, a.notifier, ui.Callbacks{
		ToggleBinding:  a.ToggleBinding,
		Reload:         a.onReloadConfig,
		UnregisterAll:  a.onUnregisterAll,
		ShowRegistered: a.onShowRegistered,
		OpenConfig:     a.onOpenConfigFile,
		AddSecret:      a.onAddSecret,
		ListSecrets:    a.onListSecrets,
		RemoveSecret:   a.onRemoveSecret,
		Quit:           a.onQuit,
	}, a.log)

	return a, nil
}

// Config returns the configuration currently in effect.
func (a *Application) Config() *config.Config {
	return a.config.Load()
}

// Manager returns the hotkey manager.
func (a *Application) Manager() *hotkey.Manager {
	return a.manager
}

// RegisterBindings registers every enabled binding of the current config.
// It keeps going after failures and returns them joined.
func (a *Application) RegisterBindings() error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()
	return a.registerBindings(a.Config())
}

func (a *Application) registerBindings(cfg *config.Config) error {
	bindings := cfg.EnabledBindings()

	var errs []error
	for _, b := range bindings {
		if err := a.manager.Register(b.Hotkey, a.runner.Callback(b)); err != nil {
			errs = append(errs, fmt.Errorf("binding '%s': %w", b.Name, err))
			continue
		}
		a.log.Debug().Str("binding", b.Name).Str("hotkey", b.Hotkey).Str("action", b.Action.Type).Msg("binding active")
	}

	registered := len(bindings) - len(errs)
	a.systray.SetStatus(registered, len(bindings))
	a.log.Info().Int("registered", registered).Int("enabled", len(bindings)).Msg("hotkey bindings registered")
	return errors.Join(errs...)
}

// Reload replaces the active configuration: all hotkeys are released and
// the enabled bindings of cfg are registered again.
func (a *Application) Reload(cfg *config.Config) error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()
	return a.reload(cfg)
}

// apply runs a config file edit and reloads its result. Both happen under
// reloadMu so concurrent edits are applied in the order they were written.
func (a *Application) apply(edit func() (*config.Config, error)) error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()
	cfg, err := edit()
	if err != nil {
		return err
	}
	_ = a.reload(cfg)
	return nil
}

func (a *Application) reload(cfg *config.Config) error {
	old := a.Config()
	if old != nil && !strings.EqualFold(old.Backend, cfg.Backend) {
		a.log.Warn().Str("from", old.Backend).Str("to", cfg.Backend).Msg("hotkey backend change takes effect after restart")
	}

	if err := a.manager.UnregisterAll(); err != nil {
		// Stale registrations keep their old callbacks until the next reload.
		a.log.Warn().Err(err).Msg("some hotkeys could not be released before reload")
	}

	a.config.Store(cfg)
	a.notifier.SetEnabled(cfg.UseNotifications)
	a.systray.UpdateConfig(cfg)

	err := a.registerBindings(cfg)
	if err != nil {
		a.notifier.Admin(ui.LevelWarn, "Hotkey Registration Issue", fmt.Sprintf("Some hotkeys could not be registered: %v", err))
	}
	return err
}

// Run registers the bindings, starts watching the config file and blocks
// until ctx is done or the user quits. Without headless the tray owns the
// calling goroutine, which must then be the main one.
func (a *Application) Run(ctx context.Context, headless bool) error {
	if err := a.RegisterBindings(); err != nil {
		msg := fmt.Sprintf("Some hotkeys could not be registered: %v", err)
		a.notifier.Admin(ui.LevelWarn, "Hotkey Registration Issue", msg)
		if !headless {
			go func() {
				if err := ui.ShowError(config.DefaultKeyringService+" - Hotkey Registration Issue", msg); err != nil && !errors.Is(err, ui.ErrCanceled) {
					a.log.Debug().Err(err).Msg("failed to show registration error dialog")
				}
			}()
		}
	}

	a.loader.Watch(func(cfg *config.Config) {
		a.log.Info().Str("path", a.loader.Path()).Msg("config file changed, reloading")
		_ = a.Reload(cfg)
	})

	if headless {
		select {
		case <-ctx.Done():
		case <-a.quit:
		}
		return nil
	}

	go func() {
		select {
		case <-ctx.Done():
			a.systray.Quit()
		case <-a.quit:
		}
	}()
	a.systray.Run()
	return nil
}

// Quit makes Run return.
func (a *Application) Quit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// Shutdown releases every hotkey and the backend's resources. It is safe to
// call more than once.
func (a *Application) Shutdown() {
	a.shutOnce.Do(func() {
		a.log.Info().Msg("shutting down, unregistering hotkeys")
		a.manager.Close()
		if c, ok := a.manager.Backend().(io.Closer); ok {
			if err := c.Close(); err != nil {
				a.log.Warn().Err(err).Msg("failed to close hotkey backend")
			}
		}
	})
}

// ToggleBinding writes the enabled state of the binding at index to the
// config file and applies the result. name guards against the file having
// changed since the menu was built.
func (a *Application) ToggleBinding(index int, name string, enabled bool) error {
	return a.apply(func() (*config.Config, error) {
		cfg, err := a.loader.Edit(func(s *config.Settings) error {
			return s.SetBindingEnabled(index, name, enabled)
		})
		if err == nil {
			status := map[bool]string{true: "enabled", false: "disabled"}[enabled]
			a.notifier.Admin(ui.LevelInfo, "Binding Updated", fmt.Sprintf("Binding '%s' has been %s.", name, status))
		}
		return cfg, err
	})
}

// onReloadConfig is called when the reload menu item is clicked.
func (a *Application) onReloadConfig() {
	cfg, err := a.loader.Load()
	if err != nil {
		a.notifier.Admin(ui.LevelError, "Configuration Error",
			fmt.Sprintf("Failed to reload configuration. Check %s and keychain access. Error: %v", a.loader.Path(), err))
		return
	}
	if err := a.Reload(cfg); err == nil {
		a.notifier.Admin(ui.LevelInfo, "Configuration Reloaded",
			fmt.Sprintf("%d hotkey(s) active.", len(a.manager.Registered())))
	}
}

func (a *Application) onUnregisterAll() {
	if err := a.manager.UnregisterAll(); err != nil {
		a.notifier.Admin(ui.LevelWarn, "Unregister Hotkeys", fmt.Sprintf("Some hotkeys could not be released: %v", err))
	} else {
		a.notifier.Admin(ui.LevelInfo, "Hotkeys Released", "All hotkeys were unregistered. Use Reload to register them again.")
	}
	cfg := a.Config()
	a.systray.SetStatus(len(a.manager.Registered()), len(cfg.EnabledBindings()))
}

// registeredSummary lists the registered hotkeys with the binding names
// they belong to.
func (a *Application) registeredSummary() string {
	registered := a.manager.Registered()
	if len(registered) == 0 {
		return "No hotkeys are currently registered."
	}

	names := make(map[hotkey.Hotkey]string)
	for _, b := range a.Config().EnabledBindings() {
		if hk, err := hotkey.Parse(b.Hotkey); err == nil {
			names[hk] = b.Name
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Registered hotkeys (%d, backend: %s):\n", len(registered), a.manager.Backend().Name())
	for _, hk := range registered {
		fmt.Fprintf(&sb, "- %s", hk)
		if name, ok := names[hk]; ok {
			fmt.Fprintf(&sb, "  %s", name)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (a *Application) onShowRegistered() {
	summary := a.registeredSummary()
	a.log.Info().Msg(summary)
	if err := ui.ShowInfo(config.DefaultKeyringService+" - Registered Hotkeys", summary); err != nil && !errors.Is(err, ui.ErrCanceled) {
		a.log.Warn().Err(err).Msg("failed to show registered hotkeys dialog")
	}
}

// onQuit is called when the quit menu item is clicked
func (a *Application) onQuit() {
	a.Shutdown()
	a.Quit()
}

// onOpenConfigFile is called when the open config menu item is clicked
func (a *Application) onOpenConfigFile() {
	configPath := a.loader.Path()
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		a.log.Warn().Err(err).Str("path", configPath).Msg("failed to get absolute path, using original")
		absPath = configPath
	}

	if _, err := os.Stat(absPath); err != nil {
		a.notifier.Admin(ui.LevelWarn, "Error Opening File", fmt.Sprintf("Config file not accessible: %s (%v)", absPath, err))
		return
	}

	a.log.Debug().Str("path", absPath).Msg("opening config file")
	if err := action.OpenInDefaultApp(absPath); err != nil {
		a.notifier.Admin(ui.LevelWarn, "Error Opening File", fmt.Sprintf("Could not open config file '%s': %v", absPath, err))
	}
}

// --- Secret Management Handlers ---

// onAddSecret is called when the Add/Update Secret menu item is clicked
func (a *Application) onAddSecret() {
	name, value, err := ui.PromptSecret(config.DefaultKeyringService)
	if err != nil {
		if errors.Is(err, ui.ErrCanceled) {
			a.log.Debug().Msg("add/update secret canceled by user")
			return
		}
		a.notifier.Admin(ui.LevelWarn, "Add Secret Aborted", err.Error())
		return
	}

	err = a.apply(func() (*config.Config, error) { return a.loader.AddSecret(name, value) })
	if err != nil {
		a.notifier.Admin(ui.LevelError, "Error", fmt.Sprintf("Failed to store secret '%s': %v", name, err))
		return
	}
	a.notifier.Admin(ui.LevelInfo, "Secret Stored",
		fmt.Sprintf("Secret '%s' stored. Use {{%s}} in binding text.", name, strings.ToLower(name)))
}

// onListSecrets is called when the List Secrets menu item is clicked
func (a *Application) onListSecrets() {
	names := a.Config().GetSecretNames()
	var dialogMessage string
	if len(names) == 0 {
		dialogMessage = "No secrets are currently managed in config.json."
	} else {
		dialogMessage = fmt.Sprintf("Managed secrets (%d total):\n- %s", len(names), strings.Join(names, "\n- "))
	}
	a.log.Info().Strs("secrets", names).Msg("listing managed secrets")
	if err := ui.ShowInfo(config.DefaultKeyringService+" - Managed Secrets", dialogMessage); err != nil && !errors.Is(err, ui.ErrCanceled) {
		a.log.Warn().Err(err).Msg("failed to show secrets dialog")
	}
}

// onRemoveSecret is called when the Remove Secret menu item is clicked
func (a *Application) onRemoveSecret() {
	appName := config.DefaultKeyringService
	names := a.Config().GetSecretNames()
	if len(names) == 0 {
		a.notifier.Admin(ui.LevelInfo, "Remove Secret", "No secrets are currently managed.")
		return
	}

	nameToRemove, err := ui.ChooseSecret(appName, names)
	if err != nil {
		if !errors.Is(err, ui.ErrCanceled) {
			a.notifier.Admin(ui.LevelWarn, "Input Error", "Failed to get secret selection.")
		}
		return
	}

	confirmed, err := ui.Confirm(appName+" - Confirm Removal",
		fmt.Sprintf("Are you sure you want to remove the secret '%s'?\n\nThis will remove it from the OS keychain and the application's config. This cannot be undone.", nameToRemove),
		"Remove")
	if err != nil {
		a.notifier.Admin(ui.LevelWarn, "Dialog Error", "Failed to show confirmation dialog.")
		return
	}
	if !confirmed {
		a.log.Debug().Str("secret", nameToRemove).Msg("secret removal canceled by user")
		return
	}

	err = a.apply(func() (*config.Config, error) { return a.loader.RemoveSecret(nameToRemove) })
	if err != nil {
		a.notifier.Admin(ui.LevelError, "Error", fmt.Sprintf("Failed to remove secret '%s': %v", nameToRemove, err))
		return
	}
	a.notifier.Admin(ui.LevelInfo, "Secret Removed", fmt.Sprintf("Secret '%s' removed.", nameToRemove))
}
