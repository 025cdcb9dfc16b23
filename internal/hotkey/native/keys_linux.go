//go:build linux && cgo && !nox11

package native

import (
	"github.com/TanaroSch/hotkeyd/internal/hotkey"
	xhotkey "golang.design/x/hotkey"
)

// X11 keysyms, see X11/keysymdef.h. Media keys live in the XF86 range,
// which the underlying library cannot express, so they are left out.
var nativeKeys = map[hotkey.Key]xhotkey.Key{
	hotkey.KeySpace:        0x0020,
	hotkey.KeyTab:          0xff09,
	hotkey.KeyEnter:        0xff0d,
	hotkey.KeyEscape:       0xff1b,
	hotkey.KeyBackspace:    0xff08,
	hotkey.KeyDelete:       0xffff,
	hotkey.KeyInsert:       0xff63,
	hotkey.KeyHome:         0xff50,
	hotkey.KeyEnd:          0xff57,
	hotkey.KeyPageUp:       0xff55,
	hotkey.KeyPageDown:     0xff56,
	hotkey.KeyLeft:         0xff51,
	hotkey.KeyUp:           0xff52,
	hotkey.KeyRight:        0xff53,
	hotkey.KeyDown:         0xff54,
	hotkey.KeyPrintScreen:  0xff61,
	hotkey.KeyScrollLock:   0xff14,
	hotkey.KeyPause:        0xff13,
	hotkey.KeyBackquote:    0x0060,
	hotkey.KeyMinus:        0x002d,
	hotkey.KeyEqual:        0x003d,
	hotkey.KeyComma:        0x002c,
	hotkey.KeyPeriod:       0x002e,
	hotkey.KeySlash:        0x002f,
	hotkey.KeySemicolon:    0x003b,
	hotkey.KeyQuote:        0x0027,
	hotkey.KeyBracketLeft:  0x005b,
	hotkey.KeyBackslash:    0x005c,
	hotkey.KeyBracketRight: 0x005d,

	hotkey.KeyNumMultiply: 0xffaa,
	hotkey.KeyNumAdd:      0xffab,
	hotkey.KeyNumSubtract: 0xffad,
	hotkey.KeyNumDecimal:  0xffae,
	hotkey.KeyNumDivide:   0xffaf,
}

func nativeKey(k hotkey.Key) (xhotkey.Key, bool) {
	switch {
	case k >= hotkey.KeyA && k <= hotkey.KeyZ:
		return xhotkey.Key(0x61 + uint16(k-hotkey.KeyA)), true
	case k >= hotkey.Key0 && k <= hotkey.Key9:
		return xhotkey.Key(0x30 + uint16(k-hotkey.Key0)), true
	case k >= hotkey.KeyF1 && k <= hotkey.KeyF24:
		return xhotkey.Key(0xffbe + uint16(k-hotkey.KeyF1)), true
	case k >= hotkey.KeyNumpad0 && k <= hotkey.KeyNumpad9:
		return xhotkey.Key(0xffb0 + uint16(k-hotkey.KeyNumpad0)), true
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
		mods = append(mods, xhotkey.Mod1)
	}
	if m.Has(hotkey.ModSuper) {
		mods = append(mods, xhotkey.Mod4)
	}
	return mods
}
