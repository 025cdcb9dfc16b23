package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// ErrBindingNotFound is returned when an edit names a binding the config
// file does not contain.
var ErrBindingNotFound = errors.New("binding not found in config file")

// Settings is the config file content as the user wrote it: no defaults
// and no HOTKEYD_* overrides. Edits made through it are written back
// without picking those up.
type Settings struct {
	m map[string]any
}

// SetBindingEnabled sets the enabled flag of the binding at index. name
// must match, so an edit never lands on a binding that moved in the file.
func (s *Settings) SetBindingEnabled(index int, name string, enabled bool) error {
	list, _ := s.m["bindings"].([]any)
	if index < 0 || index >= len(list) {
		return fmt.Errorf("%w: #%d %q", ErrBindingNotFound, index+1, name)
	}
	b, ok := list[index].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: #%d %q", ErrBindingNotFound, index+1, name)
	}
	if got, _ := b["name"].(string); got != name {
		return fmt.Errorf("%w: #%d is %q, not %q", ErrBindingNotFound, index+1, got, name)
	}
	b["enabled"] = enabled
	return nil
}

// AddSecret records name as a keyring-managed secret.
func (s *Settings) AddSecret(name string) {
	secrets, _ := s.m["secrets"].(map[string]any)
	if secrets == nil {
		secrets = make(map[string]any)
		s.m["secrets"] = secrets
	}
	secrets[strings.ToLower(name)] = "managed"
}

// RemoveSecret drops the reference to name.
func (s *Settings) RemoveSecret(name string) {
	if secrets, ok := s.m["secrets"].(map[string]any); ok {
		delete(secrets, strings.ToLower(name))
	}
}

// configFormat returns the viper config type for path. Files without an
// extension are JSON.
func configFormat(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "", "json":
		return "json", nil
	case "yaml", "yml", "toml":
		return ext, nil
	default:
		return "", fmt.Errorf("unsupported config format %q (use json, yaml or toml)", ext)
	}
}

// readSettings reads path with a bare viper instance.
func readSettings(path, format string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(format)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return &Settings{m: v.AllSettings()}, nil
}

// decode turns settings into a Config the same way Load does, minus env
// overrides.
func (s *Settings) decode() (*Config, error) {
	v := viper.New()
	if err := v.MergeConfigMap(s.m); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// settingsOf converts cfg into the key layout of the config file.
func settingsOf(cfg *Config) (*Settings, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	m := make(map[string]any)
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &Settings{m: m}, nil
}

// encode renders the settings in format through viper's own encoders.
// Viper only writes to a filesystem, so it gets an in-memory one.
func (s *Settings) encode(format string) ([]byte, error) {
	fs := afero.NewMemMapFs()
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType(format)
	if err := v.MergeConfigMap(s.m); err != nil {
		return nil, err
	}
	name := "/config." + format
	if err := v.WriteConfigAs(name); err != nil {
		return nil, fmt.Errorf("failed to encode config as %s: %w", format, err)
	}
	return afero.ReadFile(fs, name)
}

// writeFileAtomic replaces path with data so that watchers never see a
// half-written file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".hotkeyd-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
