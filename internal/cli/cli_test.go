package cli

import (
	"bytes"
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TanaroSch/hotkeyd/internal/config"
	"github.com/TanaroSch/hotkeyd/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(BuildInfo{Version: "v1.2.3", Commit: "abc", BuildDate: "today"}, nil)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheck_Valid(t *testing.T) {
	out, err := execute(t, "check", "shift + ctrl + k", "alt+f5")
	require.NoError(t, err)
	assert.Contains(t, out, `✓ "shift + ctrl + k" -> CTRL+SHIFT+K`)
	assert.Contains(t, out, `✓ "alt+f5" -> ALT+F5`)
}

func TestCheck_Invalid(t *testing.T) {
	out, err := execute(t, "check", "ctrl+a+b", "ctrl+bogus", "ctrl+k")
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, `"bogus"`)
	assert.Contains(t, out, "-> CTRL+K")
}

func TestCheck_RequiresArgument(t *testing.T) {
	_, err := execute(t, "check")
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	out, err := execute(t, "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "Modifiers:")
	assert.Contains(t, out, "CTRL")
	assert.Contains(t, out, "Keys:")
	assert.Contains(t, out, "F12")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hotkeyd v1.2.3")
	assert.Contains(t, out, "commit: abc")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	t.Run("creates and accepts default", func(t *testing.T) {
		path := filepath.Join(dir, "default.json")
		out, err := execute(t, "validate", "--config", path)
		require.NoError(t, err)
		assert.Contains(t, out, "3 binding(s), 1 enabled")
		assert.FileExists(t, path)
	})

	t.Run("reports invalid bindings", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"bindings":[
			{"name":"a","enabled":true,"hotkey":"ctrl+nope","action":{"type":"log","text":"x"}}
		]}`), 0o600))

		out, err := execute(t, "validate", "-c", path)
		assert.ErrorIs(t, err, ErrInvalid)
		assert.Contains(t, out, "nope")
	})
}

func TestLoggerFor(t *testing.T) {
	t.Setenv("HOTKEYD_LOG_LEVEL", "")
	t.Setenv("HOTKEYD_LOG_FORMAT", "")

	cfg := config.DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.LogFile = filepath.Join(t.TempDir(), "hotkeyd.log")

	log, closer, err := loggerFor(cfg, true)
	require.NoError(t, err)
	log.Debug().Msg("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestLoggerFor_TrayDefaultsToLogPath(t *testing.T) {
	t.Setenv("HOTKEYD_LOG_LEVEL", "")
	t.Setenv("HOTKEYD_LOG_FORMAT", "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	t.Setenv("LOCALAPPDATA", filepath.Join(home, "appdata"))

	cfg := config.DefaultConfig()
	require.Empty(t, cfg.LogFile)

	log, closer, err := loggerFor(cfg, false)
	require.NoError(t, err)
	log.Info().Msg("tray started")
	require.NoError(t, closer.Close())

	path := logging.DefaultLogPath()
	assert.True(t, strings.HasPrefix(path, home), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tray started")
}

func TestLoggerFor_HeadlessKeepsStderr(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	t.Setenv("LOCALAPPDATA", filepath.Join(home, "appdata"))

	log, closer, err := loggerFor(config.DefaultConfig(), true)
	require.NoError(t, err)
	log.Info().Msg("headless")
	require.NoError(t, closer.Close())

	_, err = os.Stat(logging.DefaultLogPath())
	assert.True(t, os.IsNotExist(err))
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "x.json", resolveConfigPath("x.json"))
	assert.NotEmpty(t, resolveConfigPath(""))
}

func TestBackends_WithoutNativeBuild(t *testing.T) {
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "")

	out, err := execute(t, "backends")
	require.NoError(t, err)
	assert.Contains(t, out, "native  not built in")
	assert.Contains(t, out, "portal  unavailable")
}

// Only cmd/hotkeyd may link the X11 hotkey library: its init panics when
// no display is reachable.
func TestCommandsDoNotLinkNativeLibrary(t *testing.T) {
	const module = "github.com/TanaroSch/hotkeyd"
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)

	seen := map[string]bool{}
	var walk func(importPath string)
	walk = func(importPath string) {
		if seen[importPath] {
			return
		}
		seen[importPath] = true

		dir := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(importPath, module)))
		pkg, err := build.ImportDir(dir, 0)
		require.NoError(t, err, importPath)
		for _, imp := range pkg.Imports {
			assert.NotEqual(t, "golang.design/x/hotkey", imp, "imported by %s", importPath)
			assert.NotEqual(t, module+"/internal/hotkey/native", imp, "imported by %s", importPath)
			if strings.HasPrefix(imp, module+"/") {
				walk(imp)
			}
		}
	}
	walk(module + "/internal/cli")

	assert.True(t, seen[module+"/internal/app"])
	assert.True(t, seen[module+"/internal/hotkey"])
}
