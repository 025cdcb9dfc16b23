//go:build darwin

package native

import (
	"github.com/TanaroSch/hotkeyd/internal/hotkey"
	xhotkey "golang.design/x/hotkey"
)

// Carbon virtual key codes (kVK_*), which follow the ANSI layout rather
// than the alphabet.
var nativeKeys = map[hotkey.Key]xhotkey.Key{
	hotkey.KeyA: 0x00, hotkey.KeyS: 0x01, hotkey.KeyD: 0x02, hotkey.KeyF: 0x03, hotkey.KeyH: 0x04, hotkey.KeyG: 0x05,
	hotkey.KeyZ: 0x06, hotkey.KeyX: 0x07, hotkey.KeyC: 0x08, hotkey.KeyV: 0x09, hotkey.KeyB: 0x0B, hotkey.KeyQ: 0x0C,
	hotkey.KeyW: 0x0D, hotkey.KeyE: 0x0E, hotkey.KeyR: 0x0F, hotkey.KeyY: 0x10, hotkey.KeyT: 0x11, hotkey.KeyO: 0x1F,
	hotkey.KeyU: 0x20, hotkey.KeyI: 0x22, hotkey.KeyP: 0x23, hotkey.KeyL: 0x25, hotkey.KeyJ: 0x26, hotkey.KeyK: 0x28,
	hotkey.KeyN: 0x2D, hotkey.KeyM: 0x2E,

	hotkey.Key1: 0x12, hotkey.Key2: 0x13, hotkey.Key3: 0x14, hotkey.Key4: 0x15, hotkey.Key6: 0x16,
	hotkey.Key5: 0x17, hotkey.Key9: 0x19, hotkey.Key7: 0x1A, hotkey.Key8: 0x1C, hotkey.Key0: 0x1D,

	hotkey.KeyEqual:        0x18,
	hotkey.KeyMinus:        0x1B,
	hotkey.KeyBracketRight: 0x1E,
	hotkey.KeyBracketLeft:  0x21,
	hotkey.KeyQuote:        0x27,
	hotkey.KeySemicolon:    0x29,
	hotkey.KeyBackslash:    0x2A,
	hotkey.KeyComma:        0x2B,
	hotkey.KeySlash:        0x2C,
	hotkey.KeyPeriod:       0x2F,
	hotkey.KeyBackquote:    0x32,

	hotkey.KeyEnter:     0x24,
	hotkey.KeyTab:       0x30,
	hotkey.KeySpace:     0x31,
	hotkey.KeyBackspace: 0x33,
	hotkey.KeyEscape:    0x35,
	hotkey.KeyDelete:    0x75,
	hotkey.KeyInsert:    0x72,
	hotkey.KeyHome:      0x73,
	hotkey.KeyEnd:       0x77,
	hotkey.KeyPageUp:    0x74,
	hotkey.KeyPageDown:  0x79,
	hotkey.KeyLeft:      0x7B,
	hotkey.KeyRight:     0x7C,
	hotkey.KeyDown:      0x7D,
	hotkey.KeyUp:        0x7E,

	hotkey.KeyF1: 0x7A, hotkey.KeyF2: 0x78, hotkey.KeyF3: 0x63, hotkey.KeyF4: 0x76, hotkey.KeyF5: 0x60,
	hotkey.KeyF6: 0x61, hotkey.KeyF7: 0x62, hotkey.KeyF8: 0x64, hotkey.KeyF9: 0x65, hotkey.KeyF10: 0x6D,
	hotkey.KeyF11: 0x67, hotkey.KeyF12: 0x6F, hotkey.KeyF13: 0x69, hotkey.KeyF14: 0x6B, hotkey.KeyF15: 0x71,
	hotkey.KeyF16: 0x6A, hotkey.KeyF17: 0x40, hotkey.KeyF18: 0x4F, hotkey.KeyF19: 0x50, hotkey.KeyF20: 0x5A,

	hotkey.KeyNumDecimal:  0x41,
	hotkey.KeyNumMultiply: 0x43,
	hotkey.KeyNumAdd:      0x45,
	hotkey.KeyNumDivide:   0x4B,
	hotkey.KeyNumSubtract: 0x4E,
	hotkey.KeyNumpad0:     0x52,
	hotkey.KeyNumpad1:     0x53,
	hotkey.KeyNumpad2:     0x54,
	hotkey.KeyNumpad3:     0x55,
	hotkey.KeyNumpad4:     0x56,
	hotkey.KeyNumpad5:     0x57,
	hotkey.KeyNumpad6:     0x58,
	hotkey.KeyNumpad7:     0x59,
	hotkey.KeyNumpad8:     0x5B,
	hotkey.KeyNumpad9:     0x5C,

	hotkey.KeyVolumeUp:   0x48,
	hotkey.KeyVolumeDown: 0x49,
	hotkey.KeyVolumeMute: 0x4A,
}

func nativeKey(k hotkey.Key) (xhotkey.Key, bool) {
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
		mods = append(mods, xhotkey.ModOption)
	}
	if m.Has(hotkey.ModSuper) {
		mods = append(mods, xhotkey.ModCmd)
	}
	return mods
}
