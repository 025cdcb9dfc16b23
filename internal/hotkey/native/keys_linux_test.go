//go:build linux && cgo && !nox11

package native

import (
	"testing"

	"github.com/TanaroSch/hotkeyd/internal/hotkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xhotkey "golang.design/x/hotkey"
)

func TestCombination_X11Keysyms(t *testing.T) {
	tests := []struct {
		desc string
		key  xhotkey.Key
	}{
		{"ctrl+a", 0x61},
		{"ctrl+z", 0x7a},
		{"ctrl+5", 0x35},
		{"ctrl+f1", 0xffbe},
		{"ctrl+f12", 0xffc9},
		{"ctrl+num0", 0xffb0},
		{"ctrl+enter", 0xff0d},
		{"ctrl+space", 0x20},
	}
	for _, tt := range tests {
		_, key, err := combination(hotkey.MustParse(tt.desc))
		require.NoError(t, err, tt.desc)
		assert.Equal(t, tt.key, key, tt.desc)
	}
}

func TestCombination_X11Modifiers(t *testing.T) {
	mods, _, err := combination(hotkey.MustParse("super+alt+k"))
	require.NoError(t, err)
	assert.Equal(t, []xhotkey.Modifier{xhotkey.Mod1, xhotkey.Mod4}, mods)
}

func TestCombination_MediaKeysUnsupported(t *testing.T) {
	_, _, err := combination(hotkey.MustParse("volumeup"))
	assert.ErrorIs(t, err, hotkey.ErrUnsupportedKey)
}

func TestExpandModifiers_LockVariants(t *testing.T) {
	variants := expandModifiers([]xhotkey.Modifier{xhotkey.ModCtrl})
	require.Len(t, variants, 4)
	assert.Equal(t, []xhotkey.Modifier{xhotkey.ModCtrl}, variants[0])
	assert.Contains(t, variants, []xhotkey.Modifier{xhotkey.ModCtrl, xhotkey.Mod2, capsLockMask})
}
