package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/99designs/keyring"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Loader reads the configuration file through viper and watches it for
// changes.
type Loader struct {
	path    string
	service string
	keyring keyring.Keyring
	log     zerolog.Logger

	krMu sync.Mutex

	mu        sync.Mutex
	viper     *viper.Viper
	format    string
	formatErr error
	watching  bool
	written   []byte // last content written by Edit
}

// Option configures a Loader.
type Option func(*Loader)

// WithKeyring makes the Loader resolve secrets from kr instead of the OS keyring.
func WithKeyring(kr keyring.Keyring) Option {
	return func(l *Loader) { l.keyring = kr }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// NewLoader creates a Loader for the config file at path.
func NewLoader(path string, opts ...Option) *Loader {
	l := &Loader{
		path:    path,
		service: DefaultKeyringService,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.format, l.formatErr = configFormat(path)
	l.viper = newViper(path, l.format)
	return l
}

// Load reads path, creating a default config first if it does not exist.
func Load(path string, opts ...Option) (*Config, error) {
	return NewLoader(path, opts...).Load()
}

func newViper(path, format string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	if format != "" {
		v.SetConfigType(format)
	}

	// HOTKEYD_USE_NOTIFICATIONS, HOTKEYD_BACKEND, HOTKEYD_LOG_LEVEL, ...
	v.SetEnvPrefix("HOTKEYD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("use_notifications", defaults.UseNotifications)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("log_file", "")
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("icon_path", "")
	return v
}

// Path returns the config file path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads, validates and resolves the configuration.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *Loader) load() (*Config, error) {
	if l.formatErr != nil {
		return nil, l.formatErr
	}
	if _, err := os.Stat(l.path); errors.Is(err, os.ErrNotExist) {
		l.log.Info().Str("path", l.path).Msg("config file not found, creating default")
		if err := CreateDefaultConfig(l.path); err != nil {
			return nil, fmt.Errorf("config file not found and failed to create default '%s': %w", l.path, err)
		}
	}

	if err := l.viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", l.path, err)
	}

	cfg := &Config{}
	if err := l.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", l.path, err)
	}
	cfg.configPath = l.path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	l.loadSecrets(cfg)
	return cfg, nil
}

// loadSecrets resolves the managed secrets. Missing secrets only produce
// warnings; bindings using them keep the raw placeholder.
func (l *Loader) loadSecrets(cfg *Config) {
	cfg.resolvedSecrets = make(map[string]string)
	if len(cfg.Secrets) == 0 {
		return
	}

	kr, err := l.openKeyring()
	if err != nil {
		l.log.Warn().Err(err).Msg("secrets will not be loaded")
		return
	}
	for _, name := range cfg.GetSecretNames() {
		item, err := kr.Get(name)
		switch {
		case err == nil:
			cfg.resolvedSecrets[name] = string(item.Data)
			l.log.Debug().Str("secret", name).Msg("loaded secret")
		case errors.Is(err, keyring.ErrKeyNotFound):
			l.log.Warn().Str("secret", name).Str("service", l.service).Msg("secret not found in keyring")
		default:
			l.log.Warn().Err(err).Str("secret", name).Msg("error retrieving secret from keyring")
		}
	}
}

// Watch starts watching the config file and calls onChange with every
// successfully reloaded configuration. Invalid edits are logged and the
// previous configuration stays in effect.
func (l *Loader) Watch(onChange func(*Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watching {
		return
	}

	l.viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		l.log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("config change detected")

		data, err := os.ReadFile(l.path)
		if err != nil {
			l.log.Warn().Err(err).Msg("failed to read changed config file")
			return
		}

		l.mu.Lock()
		if l.written != nil && bytes.Equal(data, l.written) {
			l.mu.Unlock()
			l.log.Debug().Msg("config change was written by hotkeyd itself, already applied")
			return
		}
		cfg, err := l.load()
		l.mu.Unlock()
		if err != nil {
			l.log.Warn().Err(err).Msg("failed to reload config")
			return
		}
		onChange(cfg)
	})
	l.viper.WatchConfig()
	l.watching = true
}

// Edit applies fn to the settings stored in the config file, writes them
// back in the file's format and returns the reloaded configuration. An
// edit that would leave the file invalid is rejected and nothing is
// written. Watch does not report changes made through Edit.
func (l *Loader) Edit(fn func(*Settings) error) (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.formatErr != nil {
		return nil, l.formatErr
	}
	settings, err := readSettings(l.path, l.format)
	if err != nil {
		return nil, err
	}
	if err := fn(settings); err != nil {
		return nil, err
	}

	edited, err := settings.decode()
	if err != nil {
		return nil, fmt.Errorf("failed to parse edited config: %w", err)
	}
	if err := edited.Validate(); err != nil {
		return nil, fmt.Errorf("edit rejected: %w", err)
	}

	data, err := settings.encode(l.format)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(l.path, data); err != nil {
		return nil, fmt.Errorf("failed to write config file '%s': %w", l.path, err)
	}
	l.written = data
	l.log.Debug().Str("path", l.path).Msg("config file updated")

	return l.load()
}

// AddSecret stores value in the keyring under the lower-cased name and
// records the reference in the config file.
func (l *Loader) AddSecret(name, value string) (*Config, error) {
	name = strings.ToLower(name)
	kr, err := l.openKeyring()
	if err != nil {
		return nil, err
	}

	err = kr.Set(keyring.Item{
		Key:         name,
		Data:        []byte(value),
		Label:       fmt.Sprintf("Secret for %s used by %s", name, l.service),
		Description: "Managed by hotkeyd",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store secret '%s' in keyring: %w", name, err)
	}

	return l.Edit(func(s *Settings) error {
		s.AddSecret(name)
		return nil
	})
}

// RemoveSecret deletes the secret from the keyring and the config file.
// A secret missing from the keyring is not an error.
func (l *Loader) RemoveSecret(name string) (*Config, error) {
	name = strings.ToLower(name)
	kr, err := l.openKeyring()
	if err != nil {
		return nil, err
	}

	if err := kr.Remove(name); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, fmt.Errorf("failed to delete secret '%s' from keyring: %w", name, err)
	}

	return l.Edit(func(s *Settings) error {
		s.RemoveSecret(name)
		return nil
	})
}

func (l *Loader) openKeyring() (keyring.Keyring, error) {
	l.krMu.Lock()
	defer l.krMu.Unlock()
	if l.keyring != nil {
		return l.keyring, nil
	}
	kr, err := openKeyring(l.service)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring for service '%s': %w", l.service, err)
	}
	l.keyring = kr
	return kr, nil
}
