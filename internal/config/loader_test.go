package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var formatSamples = map[string]string{
	"config.json": `{
  "use_notifications": false,
  "backend": "auto",
  "secrets": {"api_token": "managed"},
  "bindings": [
    {"name": "Greet", "enabled": true, "hotkey": "ctrl+shift+k",
     "action": {"type": "notify", "text": "hi {{api_token}}"}},
    {"name": "Spare", "enabled": false, "hotkey": "alt+f5",
     "action": {"type": "exec", "command": "echo", "args": ["a", "b"]}}
  ]
}`,
	"config.yaml": `use_notifications: false
backend: auto
secrets:
  api_token: managed
bindings:
  - name: Greet
    enabled: true
    hotkey: ctrl+shift+k
    action:
      type: notify
      text: "hi {{api_token}}"
  - name: Spare
    enabled: false
    hotkey: alt+f5
    action:
      type: exec
      command: echo
      args: [a, b]
`,
	"config.toml": `use_notifications = false
backend = "auto"

[secrets]
api_token = "managed"

[[bindings]]
name = "Greet"
enabled = true
hotkey = "ctrl+shift+k"

[bindings.action]
type = "notify"
text = "hi {{api_token}}"

[[bindings]]
name = "Spare"
enabled = false
hotkey = "alt+f5"

[bindings.action]
type = "exec"
command = "echo"
args = ["a", "b"]
`,
}

func writeNamedConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEdit_KeepsFileFormat(t *testing.T) {
	for name, content := range formatSamples {
		t.Run(name, func(t *testing.T) {
			path := writeNamedConfig(t, name, content)
			l := NewLoader(path, WithKeyring(testKeyring()))
			_, err := l.Load()
			require.NoError(t, err)

			edited, err := l.Edit(func(s *Settings) error {
				if err := s.SetBindingEnabled(0, "Greet", false); err != nil {
					return err
				}
				return s.SetBindingEnabled(1, "Spare", true)
			})
			require.NoError(t, err)
			assert.False(t, edited.Bindings[0].Enabled)
			assert.True(t, edited.Bindings[1].Enabled)

			// A fresh loader reads the file in the format its name says.
			reloaded, err := Load(path, WithKeyring(testKeyring()))
			require.NoError(t, err)
			require.Len(t, reloaded.Bindings, 2)
			assert.False(t, reloaded.Bindings[0].Enabled)
			assert.True(t, reloaded.Bindings[1].Enabled)
			assert.Equal(t, []string{"a", "b"}, reloaded.Bindings[1].Action.Args)
			assert.Equal(t, "hi s3cret", reloaded.ExpandSecrets(reloaded.Bindings[0].Action.Text))

			if runtime.GOOS != "windows" {
				info, err := os.Stat(path)
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
			}
		})
	}
}

func TestEdit_WritesOnlyFileSettings(t *testing.T) {
	t.Setenv("HOTKEYD_BACKEND", "portal")
	t.Setenv("HOTKEYD_LOG_LEVEL", "")
	path := writeNamedConfig(t, "config.json", formatSamples["config.json"])

	l := NewLoader(path, WithKeyring(testKeyring()))
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "portal", cfg.Backend)
	assert.Equal(t, "info", cfg.LogLevel)

	cfg, err = l.Edit(func(s *Settings) error { return s.SetBindingEnabled(1, "Spare", true) })
	require.NoError(t, err)
	assert.Equal(t, "portal", cfg.Backend, "override still applies to the effective config")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "auto", onDisk["backend"])
	assert.NotContains(t, onDisk, "log_level")
	assert.NotContains(t, onDisk, "log_format")
	assert.NotContains(t, onDisk, "icon_path")
}

func TestEdit_RejectsInvalidResult(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	l := NewLoader(path, WithKeyring(testKeyring()))
	_, err := l.Load()
	require.NoError(t, err)

	// "Off" carries an unparsable hotkey; enabling it must not reach the file.
	_, err = l.Edit(func(s *Settings) error { return s.SetBindingEnabled(2, "Off", true) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binding Off")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleConfig, string(data))
}

func TestEdit_BindingMustMatch(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	l := NewLoader(path, WithKeyring(testKeyring()))

	_, err := l.Edit(func(s *Settings) error { return s.SetBindingEnabled(0, "Run", false) })
	assert.ErrorIs(t, err, ErrBindingNotFound)
	_, err = l.Edit(func(s *Settings) error { return s.SetBindingEnabled(7, "Greet", false) })
	assert.ErrorIs(t, err, ErrBindingNotFound)
}

func TestLoader_Secrets(t *testing.T) {
	path := writeNamedConfig(t, "config.toml", formatSamples["config.toml"])
	kr := keyring.NewArrayKeyring(nil)
	l := NewLoader(path, WithKeyring(kr))
	_, err := l.Load()
	require.NoError(t, err)

	cfg, err := l.AddSecret("Signature_Name", "Ada")
	require.NoError(t, err)
	assert.Equal(t, []string{"api_token", "signature_name"}, cfg.GetSecretNames())
	assert.Equal(t, "Regards, Ada", cfg.ExpandSecrets("Regards, {{signature_name}}"))

	cfg, err = l.RemoveSecret("signature_name")
	require.NoError(t, err)
	assert.Equal(t, []string{"api_token"}, cfg.GetSecretNames())
	_, err = kr.Get("signature_name")
	assert.ErrorIs(t, err, keyring.ErrKeyNotFound)

	// Removing a secret that is not in the keyring still succeeds.
	_, err = l.RemoveSecret("never_added")
	assert.NoError(t, err)

	reloaded, err := Load(path, WithKeyring(kr))
	require.NoError(t, err)
	assert.Equal(t, []string{"api_token"}, reloaded.GetSecretNames())
}

func TestLoad_CreatesDefaultInFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path, WithKeyring(testKeyring()))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Bindings, cfg.Bindings)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, byte('{'), data[0], "default written as YAML")
	assert.Contains(t, string(data), "bindings:")
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := writeNamedConfig(t, "config.ini", "[x]\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestWatch_IgnoresOwnEdits(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	l := NewLoader(path, WithKeyring(testKeyring()))
	_, err := l.Load()
	require.NoError(t, err)

	changed := make(chan *Config, 4)
	l.Watch(func(cfg *Config) { changed <- cfg })

	_, err = l.Edit(func(s *Settings) error { return s.SetBindingEnabled(0, "Greet", false) })
	require.NoError(t, err)

	select {
	case <-changed:
		t.Fatal("an edit made through the loader was reported as an outside change")
	case <-time.After(500 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte(`{"bindings": []}`), 0o600))
	select {
	case cfg := <-changed:
		assert.Empty(t, cfg.Bindings)
	case <-time.After(5 * time.Second):
		t.Fatal("outside change was not observed")
	}
}
