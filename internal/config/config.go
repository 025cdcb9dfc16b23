package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/99designs/keyring"
	"github.com/TanaroSch/hotkeyd/internal/hotkey"
)

// Action types a binding can run.
const (
	ActionNotify    = "notify"
	ActionClipboard = "clipboard"
	ActionPaste     = "paste"
	ActionOpen      = "open"
	ActionExec      = "exec"
	ActionLog       = "log"
)

// Binding ties a hotkey description to an action.
type Binding struct {
	Name    string `json:"name" mapstructure:"name"`
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Hotkey  string `json:"hotkey" mapstructure:"hotkey"`
	Action  Action `json:"action" mapstructure:"action"`
}

// Action describes what a binding does when its hotkey fires. Text may
// contain {{name}} placeholders resolved from the keyring.
type Action struct {
	Type    string   `json:"type" mapstructure:"type"`
	Title   string   `json:"title,omitempty" mapstructure:"title"`
	Text    string   `json:"text,omitempty" mapstructure:"text"`
	Target  string   `json:"target,omitempty" mapstructure:"target"`
	Command string   `json:"command,omitempty" mapstructure:"command"`
	Args    []string `json:"args,omitempty" mapstructure:"args"`
	Timeout string   `json:"timeout,omitempty" mapstructure:"timeout"`
}

// Config holds the application configuration
type Config struct {
	UseNotifications bool              `json:"use_notifications" mapstructure:"use_notifications"`
	LogLevel         string            `json:"log_level,omitempty" mapstructure:"log_level"`
	LogFormat        string            `json:"log_format,omitempty" mapstructure:"log_format"`
	LogFile          string            `json:"log_file,omitempty" mapstructure:"log_file"`
	Backend          string            `json:"backend,omitempty" mapstructure:"backend"`
	IconPath         string            `json:"icon_path,omitempty" mapstructure:"icon_path"`
	Secrets          map[string]string `json:"secrets,omitempty" mapstructure:"secrets"` // Maps lower-case logical name -> "managed"
	Bindings         []Binding         `json:"bindings" mapstructure:"bindings"`

	// Non-JSON fields (runtime state)
	configPath      string
	resolvedSecrets map[string]string // Runtime map {"logicalName": "actualValue"}
}

const DefaultKeyringService = "hotkeyd"

// DefaultTimeout bounds exec actions without an explicit timeout.
const DefaultTimeout = 30 * time.Second

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, "hotkeyd", "config.json"), nil
}

// GetConfigPath returns the path to the configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// GetResolvedSecrets returns the map of loaded secrets.
func (c *Config) GetResolvedSecrets() map[string]string {
	if c.resolvedSecrets == nil {
		return make(map[string]string)
	}
	return c.resolvedSecrets
}

// ExpandSecrets replaces {{name}} placeholders with resolved secret values.
// Names are case-insensitive. Unknown placeholders are left untouched.
func (c *Config) ExpandSecrets(text string) string {
	if len(c.resolvedSecrets) == 0 || !strings.Contains(text, "{{") {
		return text
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		name := strings.ToLower(placeholderRe.FindStringSubmatch(m)[1])
		if v, ok := c.resolvedSecrets[name]; ok {
			return v
		}
		return m
	})
}

// EnabledBindings returns the bindings that should be registered.
func (c *Config) EnabledBindings() []Binding {
	var out []Binding
	for _, b := range c.Bindings {
		if b.Enabled {
			out = append(out, b)
		}
	}
	return out
}

// ExecTimeout returns the parsed timeout of an exec action.
func (a Action) ExecTimeout() time.Duration {
	if a.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// Validate checks every enabled binding. All problems are reported at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := hotkey.ParseBackendKind(c.Backend); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[hotkey.Hotkey]string)
	for i, b := range c.Bindings {
		name := b.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		if !b.Enabled {
			continue
		}
		hk, err := hotkey.Parse(b.Hotkey)
		if err != nil {
			errs = append(errs, fmt.Errorf("binding %s: %w", name, err))
		} else if other, dup := seen[hk]; dup {
			errs = append(errs, fmt.Errorf("binding %s: hotkey %s already used by binding %s", name, hk, other))
		} else {
			seen[hk] = name
		}
		if err := b.Action.validate(); err != nil {
			errs = append(errs, fmt.Errorf("binding %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (a Action) validate() error {
	switch a.Type {
	case ActionNotify, ActionClipboard, ActionPaste, ActionLog:
		if a.Text == "" {
			return fmt.Errorf("%s action requires text", a.Type)
		}
	case ActionOpen:
		if a.Target == "" {
			return errors.New("open action requires target")
		}
	case ActionExec:
		if a.Command == "" {
			return errors.New("exec action requires command")
		}
		if a.Timeout != "" {
			if d, err := time.ParseDuration(a.Timeout); err != nil || d <= 0 {
				return fmt.Errorf("invalid exec timeout %q", a.Timeout)
			}
		}
	case "":
		return errors.New("action type is required")
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}

// GetSecretNames returns the sorted logical names of managed secrets.
func (c *Config) GetSecretNames() []string {
	names := make([]string, 0, len(c.Secrets))
	for name := range c.Secrets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func openKeyring(service string) (keyring.Keyring, error) {
	return keyring.Open(keyring.Config{
		ServiceName: service,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
		},
		LibSecretCollectionName:  "login",
		PassPrefix:               service,
		WinCredPrefix:            service,
		KeychainTrustApplication: true,
	})
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() *Config {
	return &Config{
		UseNotifications: true,
		LogLevel:         "info",
		LogFormat:        "console",
		Backend:          string(hotkey.BackendAuto),
		Secrets:          make(map[string]string),
		Bindings: []Binding{
			{
				Name:    "Hello",
				Enabled: true,
				Hotkey:  "CTRL+SHIFT+ALT+H",
				Action:  Action{Type: ActionNotify, Title: "hotkeyd", Text: "Hotkeys are working."},
			},
			{
				Name:    "Paste signature",
				Enabled: false,
				Hotkey:  "CTRL+SHIFT+ALT+S",
				Action:  Action{Type: ActionPaste, Text: "Best regards,\n{{signature_name}}"},
			},
			{
				Name:    "Open notes",
				Enabled: false,
				Hotkey:  "CMDORCTRL+ALT+N",
				Action:  Action{Type: ActionOpen, Target: "https://example.com/notes"},
			},
		},
	}
}

// CreateDefaultConfig creates a default configuration file if none exists.
// The file is written in the format its extension names.
func CreateDefaultConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil // File exists, don't overwrite
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking config path '%s': %w", configPath, err)
	}

	format, err := configFormat(configPath)
	if err != nil {
		return err
	}
	settings, err := settingsOf(DefaultConfig())
	if err != nil {
		return err
	}
	data, err := settings.encode(format)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(configPath, data); err != nil {
		return fmt.Errorf("failed to write default config file '%s': %w", configPath, err)
	}
	return nil
}
