package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
  "use_notifications": false,
  "log_level": "debug",
  "backend": "native",
  "secrets": {"api_token": "managed", "missing": "managed"},
  "bindings": [
    {"name": "Greet", "enabled": true, "hotkey": "ctrl+shift+k",
     "action": {"type": "notify", "title": "Hi", "text": "token={{api_token}} other={{missing}}"}},
    {"name": "Run", "enabled": true, "hotkey": "alt+f5",
     "action": {"type": "exec", "command": "echo", "args": ["a", "b"], "timeout": "5s"}},
    {"name": "Off", "enabled": false, "hotkey": "not a hotkey",
     "action": {"type": "bogus"}}
  ]
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testKeyring() keyring.Keyring {
	return keyring.NewArrayKeyring([]keyring.Item{{Key: "api_token", Data: []byte("s3cret")}})
}

func TestLoad_ParsesBindingsAndSecrets(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	cfg, err := Load(path, WithKeyring(testKeyring()))
	require.NoError(t, err)

	assert.False(t, cfg.UseNotifications)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat, "default applies")
	assert.Equal(t, "native", cfg.Backend)
	assert.Equal(t, path, cfg.GetConfigPath())

	require.Len(t, cfg.Bindings, 3)
	enabled := cfg.EnabledBindings()
	require.Len(t, enabled, 2)
	assert.Equal(t, "Greet", enabled[0].Name)
	assert.Equal(t, []string{"a", "b"}, enabled[1].Action.Args)
	assert.Equal(t, 5*time.Second, enabled[1].Action.ExecTimeout())

	assert.Equal(t, map[string]string{"api_token": "s3cret"}, cfg.GetResolvedSecrets())
	assert.Equal(t, "token=s3cret other={{missing}}", cfg.ExpandSecrets(enabled[0].Action.Text))
	assert.Equal(t, "token=s3cret", cfg.ExpandSecrets("token={{ API_TOKEN }}"))
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOTKEYD_BACKEND", "portal")
	path := writeConfig(t, sampleConfig)

	cfg, err := Load(path, WithKeyring(testKeyring()))
	require.NoError(t, err)
	assert.Equal(t, "portal", cfg.Backend)
}

func TestLoad_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := Load(path, WithKeyring(testKeyring()))
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.True(t, cfg.UseNotifications)
	assert.Equal(t, DefaultConfig().Bindings, cfg.Bindings)

	// A second call must not overwrite the existing file.
	require.NoError(t, os.WriteFile(path, []byte(`{"bindings": []}`), 0o600))
	require.NoError(t, CreateDefaultConfig(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"bindings": []}`, string(data))
}

func TestLoad_ValidationErrors(t *testing.T) {
	path := writeConfig(t, `{
  "backend": "x11",
  "bindings": [
    {"name": "a", "enabled": true, "hotkey": "ctrl+k", "action": {"type": "notify", "text": "x"}},
    {"name": "b", "enabled": true, "hotkey": "K+CONTROL", "action": {"type": "notify", "text": "y"}},
    {"name": "c", "enabled": true, "hotkey": "ctrl+a+b", "action": {"type": "exec"}},
    {"name": "d", "enabled": true, "hotkey": "ctrl+d", "action": {"type": "exec", "command": "x", "timeout": "soon"}}
  ]
}`)

	_, err := Load(path, WithKeyring(testKeyring()))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `unknown hotkey backend "x11"`)
	assert.Contains(t, msg, "already used by binding a")
	assert.Contains(t, msg, "binding c")
	assert.Contains(t, msg, "exec action requires command")
	assert.Contains(t, msg, `invalid exec timeout "soon"`)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeConfig(t, `{"bindings": [`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestActionExecTimeoutDefault(t *testing.T) {
	assert.Equal(t, DefaultTimeout, Action{Type: ActionExec}.ExecTimeout())
	assert.Equal(t, DefaultTimeout, Action{Type: ActionExec, Timeout: "-1s"}.ExecTimeout())
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	l := NewLoader(path, WithKeyring(testKeyring()))
	_, err := l.Load()
	require.NoError(t, err)

	changed := make(chan *Config, 4)
	l.Watch(func(cfg *Config) { changed <- cfg })

	require.NoError(t, os.WriteFile(path, []byte(`{"use_notifications": true, "bindings": [
  {"name": "New", "enabled": true, "hotkey": "ctrl+alt+n", "action": {"type": "log", "text": "n"}}
]}`), 0o600))

	select {
	case cfg := <-changed:
		require.Len(t, cfg.Bindings, 1)
		assert.Equal(t, "New", cfg.Bindings[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}
}
