package hotkey

import (
	"fmt"
	"strings"
)

// xkbNames are the XKB keysym names used in shortcut trigger strings.
var xkbNames = map[Key]string{
	KeySpace:        "space",
	KeyTab:          "Tab",
	KeyEnter:        "Return",
	KeyEscape:       "Escape",
	KeyBackspace:    "BackSpace",
	KeyDelete:       "Delete",
	KeyInsert:       "Insert",
	KeyHome:         "Home",
	KeyEnd:          "End",
	KeyPageUp:       "Page_Up",
	KeyPageDown:     "Page_Down",
	KeyUp:           "Up",
	KeyDown:         "Down",
	KeyLeft:         "Left",
	KeyRight:        "Right",
	KeyPrintScreen:  "Print",
	KeyScrollLock:   "Scroll_Lock",
	KeyPause:        "Pause",
	KeyBackquote:    "grave",
	KeyMinus:        "minus",
	KeyEqual:        "equal",
	KeyBracketLeft:  "bracketleft",
	KeyBracketRight: "bracketright",
	KeyBackslash:    "backslash",
	KeySemicolon:    "semicolon",
	KeyQuote:        "apostrophe",
	KeyComma:        "comma",
	KeyPeriod:       "period",
	KeySlash:        "slash",

	KeyNumAdd:      "KP_Add",
	KeyNumSubtract: "KP_Subtract",
	KeyNumMultiply: "KP_Multiply",
	KeyNumDivide:   "KP_Divide",
	KeyNumDecimal:  "KP_Decimal",

	KeyVolumeUp:       "XF86AudioRaiseVolume",
	KeyVolumeDown:     "XF86AudioLowerVolume",
	KeyVolumeMute:     "XF86AudioMute",
	KeyMediaPlayPause: "XF86AudioPlay",
	KeyMediaStop:      "XF86AudioStop",
	KeyMediaNext:      "XF86AudioNext",
	KeyMediaPrev:      "XF86AudioPrev",
}

// portalTrigger renders hk in the shortcuts XDG specification format used
// for preferred_trigger, e.g. "CTRL+SHIFT+k" or "LOGO+Return".
func portalTrigger(hk Hotkey) (string, error) {
	var key string
	switch k := hk.Key; {
	case k >= KeyA && k <= KeyZ:
		key = strings.ToLower(k.String())
	case k >= Key0 && k <= Key9:
		key = k.String()
	case k >= KeyF1 && k <= KeyF24:
		key = k.String()
	case k >= KeyNumpad0 && k <= KeyNumpad9:
		key = fmt.Sprintf("KP_%d", k-KeyNumpad0)
	default:
		name, ok := xkbNames[k]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedKey, k)
		}
		key = name
	}

	var parts []string
	for _, m := range []struct {
		mod  Modifiers
		name string
	}{
		{ModControl, "CTRL"},
		{ModAlt, "ALT"},
		{ModShift, "SHIFT"},
		{ModSuper, "LOGO"},
	} {
		if hk.Modifiers.Has(m.mod) {
			parts = append(parts, m.name)
		}
	}
	return strings.Join(append(parts, key), "+"), nil
}
