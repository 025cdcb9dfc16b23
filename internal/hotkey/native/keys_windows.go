//go:build windows

package native

import (
	"github.com/TanaroSch/hotkeyd/internal/hotkey"
	xhotkey "golang.design/x/hotkey"
)

// Virtual-key codes, see WinUser.h.
var nativeKeys = map[hotkey.Key]xhotkey.Key{
	hotkey.KeySpace:        0x20,
	hotkey.KeyTab:          0x09,
	hotkey.KeyEnter:        0x0D,
	hotkey.KeyEscape:       0x1B,
	hotkey.KeyBackspace:    0x08,
	hotkey.KeyDelete:       0x2E,
	hotkey.KeyInsert:       0x2D,
	hotkey.KeyHome:         0x24,
	hotkey.KeyEnd:          0x23,
	hotkey.KeyPageUp:       0x21,
	hotkey.KeyPageDown:     0x22,
	hotkey.KeyLeft:         0x25,
	hotkey.KeyUp:           0x26,
	hotkey.KeyRight:        0x27,
	hotkey.KeyDown:         0x28,
	hotkey.KeyPrintScreen:  0x2C,
	hotkey.KeyScrollLock:   0x91,
	hotkey.KeyPause:        0x13,
	hotkey.KeyBackquote:    0xC0,
	hotkey.KeyMinus:        0xBD,
	hotkey.KeyEqual:        0xBB,
	hotkey.KeyComma:        0xBC,
	hotkey.KeyPeriod:       0xBE,
	hotkey.KeySlash:        0xBF,
	hotkey.KeySemicolon:    0xBA,
	hotkey.KeyQuote:        0xDE,
	hotkey.KeyBracketLeft:  0xDB,
	hotkey.KeyBackslash:    0xDC,
	hotkey.KeyBracketRight: 0xDD,

	hotkey.KeyNumMultiply: 0x6A,
	hotkey.KeyNumAdd:      0x6B,
	hotkey.KeyNumSubtract: 0x6D,
	hotkey.KeyNumDecimal:  0x6E,
	hotkey.KeyNumDivide:   0x6F,

	hotkey.KeyVolumeMute:     0xAD,
	hotkey.KeyVolumeDown:     0xAE,
	hotkey.KeyVolumeUp:       0xAF,
	hotkey.KeyMediaNext:      0xB0,
	hotkey.KeyMediaPrev:      0xB1,
	hotkey.KeyMediaStop:      0xB2,
	hotkey.KeyMediaPlayPause: 0xB3,
}

func nativeKey(k hotkey.Key) (xhotkey.Key, bool) {
	switch {
	case k >= hotkey.KeyA && k <= hotkey.KeyZ:
		return xhotkey.Key(0x41 + uint16(k-hotkey.KeyA)), true
	case k >= hotkey.Key0 && k <= hotkey.Key9:
		return xhotkey.Key(0x30 + uint16(k-hotkey.Key0)), true
	case k >= hotkey.KeyF1 && k <= hotkey.KeyF24:
		return xhotkey.Key(0x70 + uint16(k-hotkey.KeyF1)), true
	case k >= hotkey.KeyNumpad0 && k <= hotkey.KeyNumpad9:
		return xhotkey.Key(0x60 + uint16(k-hotkey.KeyNumpad0)), true
	}
	nk, ok := nativeKeys[k]
	return nk, ok
}

func nativeModifiers(m hotkey.Modifiers) []xhotkey.Modifier {
	var mods []xhotkey.Modifier
	if m.Has(hotkey.ModControl) {
		mods = append(mods, xhotkey.ModCtrl)
	}
	if m.Has(hotkey.ModShift) {
		mods = append(mods, xhotkey.ModShift)
	}
	if m.Has(hotkey.ModAlt) {
		mods = append(mods, xhotkey.ModAlt)
	}
	if m.Has(hotkey.ModSuper) {
		mods = append(mods, xhotkey.ModWin)
	}
	return mods
}
