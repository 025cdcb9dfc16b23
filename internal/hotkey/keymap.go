package hotkey

import (
	"fmt"
	"strings"
)

// Modifiers is the set of modifier keys that must be held for a hotkey to fire.
type Modifiers uint8

const (
	ModControl Modifiers = 1 << iota
	ModShift
	ModAlt
	ModSuper
)

// modifierOrder fixes the order modifiers are rendered in.
var modifierOrder = []struct {
	mod  Modifiers
	name string
}{
	{ModControl, "CTRL"},
	{ModAlt, "ALT"},
	{ModShift, "SHIFT"},
	{ModSuper, "SUPER"},
}

// Has reports whether every modifier in other is present in m.
func (m Modifiers) Has(other Modifiers) bool {
	return m&other == other
}

func (m Modifiers) String() string {
	var parts []string
	for _, o := range modifierOrder {
		if m.Has(o.mod) {
			parts = append(parts, o.name)
		}
	}
	return strings.Join(parts, "+")
}

// Key identifies the single non-modifier key of a hotkey.
type Key uint16

const (
	KeyNone Key = iota

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyF21
	KeyF22
	KeyF23
	KeyF24

	KeySpace
	KeyTab
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPrintScreen
	KeyScrollLock
	KeyPause

	KeyBackquote
	KeyMinus
	KeyEqual
	KeyBracketLeft
	KeyBracketRight
	KeyBackslash
	KeySemicolon
	KeyQuote
	KeyComma
	KeyPeriod
	KeySlash

	KeyNumpad0
	KeyNumpad1
	KeyNumpad2
	KeyNumpad3
	KeyNumpad4
	KeyNumpad5
	KeyNumpad6
	KeyNumpad7
	KeyNumpad8
	KeyNumpad9
	KeyNumAdd
	KeyNumSubtract
	KeyNumMultiply
	KeyNumDivide
	KeyNumDecimal

	KeyVolumeUp
	KeyVolumeDown
	KeyVolumeMute
	KeyMediaPlayPause
	KeyMediaStop
	KeyMediaNext
	KeyMediaPrev

	keyCount
)

// keyNames holds the canonical name of every key. It is also the first
// alias accepted by the parser.
var keyNames = map[Key]string{
	KeySpace:        "SPACE",
	KeyTab:          "TAB",
	KeyEnter:        "ENTER",
	KeyEscape:       "ESCAPE",
	KeyBackspace:    "BACKSPACE",
	KeyDelete:       "DELETE",
	KeyInsert:       "INSERT",
	KeyHome:         "HOME",
	KeyEnd:          "END",
	KeyPageUp:       "PAGEUP",
	KeyPageDown:     "PAGEDOWN",
	KeyUp:           "UP",
	KeyDown:         "DOWN",
	KeyLeft:         "LEFT",
	KeyRight:        "RIGHT",
	KeyPrintScreen:  "PRINTSCREEN",
	KeyScrollLock:   "SCROLLLOCK",
	KeyPause:        "PAUSE",
	KeyBackquote:    "BACKQUOTE",
	KeyMinus:        "MINUS",
	KeyEqual:        "EQUAL",
	KeyBracketLeft:  "BRACKETLEFT",
	KeyBracketRight: "BRACKETRIGHT",
	KeyBackslash:    "BACKSLASH",
	KeySemicolon:    "SEMICOLON",
	KeyQuote:        "QUOTE",
	KeyComma:        "COMMA",
	KeyPeriod:       "PERIOD",
	KeySlash:        "SLASH",

	KeyNumAdd:      "NUMADD",
	KeyNumSubtract: "NUMSUBTRACT",
	KeyNumMultiply: "NUMMULTIPLY",
	KeyNumDivide:   "NUMDIVIDE",
	KeyNumDecimal:  "NUMDECIMAL",

	KeyVolumeUp:       "VOLUMEUP",
	KeyVolumeDown:     "VOLUMEDOWN",
	KeyVolumeMute:     "VOLUMEMUTE",
	KeyMediaPlayPause: "MEDIAPLAYPAUSE",
	KeyMediaStop:      "MEDIASTOP",
	KeyMediaNext:      "MEDIANEXT",
	KeyMediaPrev:      "MEDIAPREV",
}

// keyAliases are additional accepted spellings.
var keyAliases = map[string]Key{
	"RETURN":             KeyEnter,
	"ESC":                KeyEscape,
	"DEL":                KeyDelete,
	"INS":                KeyInsert,
	"PGUP":               KeyPageUp,
	"PGDN":               KeyPageDown,
	"ARROWUP":            KeyUp,
	"ARROWDOWN":          KeyDown,
	"ARROWLEFT":          KeyLeft,
	"ARROWRIGHT":         KeyRight,
	"PRINT":              KeyPrintScreen,
	"PRTSC":              KeyPrintScreen,
	"GRAVE":              KeyBackquote,
	"`":                  KeyBackquote,
	"-":                  KeyMinus,
	"=":                  KeyEqual,
	"[":                  KeyBracketLeft,
	"]":                  KeyBracketRight,
	"\\":                 KeyBackslash,
	";":                  KeySemicolon,
	"'":                  KeyQuote,
	",":                  KeyComma,
	".":                  KeyPeriod,
	"/":                  KeySlash,
	"NUMPADADD":          KeyNumAdd,
	"NUMPADSUBTRACT":     KeyNumSubtract,
	"NUMPADMULTIPLY":     KeyNumMultiply,
	"NUMPADDIVIDE":       KeyNumDivide,
	"NUMPADDECIMAL":      KeyNumDecimal,
	"AUDIOVOLUMEUP":      KeyVolumeUp,
	"AUDIOVOLUMEDOWN":    KeyVolumeDown,
	"AUDIOVOLUMEMUTE":    KeyVolumeMute,
	"MEDIAPLAY":          KeyMediaPlayPause,
	"MEDIAPAUSE":         KeyMediaPlayPause,
	"MEDIATRACKNEXT":     KeyMediaNext,
	"MEDIATRACKPREVIOUS": KeyMediaPrev,
}

// modifierAliases maps every accepted modifier spelling to its flag.
// CMDORCTRL and friends are resolved per platform through primaryModifier.
var modifierAliases = map[string]Modifiers{
	"CTRL":             ModControl,
	"CONTROL":          ModControl,
	"SHIFT":            ModShift,
	"ALT":              ModAlt,
	"OPTION":           ModAlt,
	"SUPER":            ModSuper,
	"CMD":              ModSuper,
	"COMMAND":          ModSuper,
	"WIN":              ModSuper,
	"META":             ModSuper,
	"CMDORCTRL":        primaryModifier,
	"CMDORCONTROL":     primaryModifier,
	"COMMANDORCTRL":    primaryModifier,
	"COMMANDORCONTROL": primaryModifier,
}

// KeyMap provides mapping between upper-case token spellings and keys.
var KeyMap = buildKeyMap()

func buildKeyMap() map[string]Key {
	m := make(map[string]Key, int(keyCount)*2)
	for i := 0; i < 26; i++ {
		k := KeyA + Key(i)
		letter := string(rune('A' + i))
		keyNames[k] = letter
		m[letter] = k
		m["KEY"+letter] = k
	}
	for i := 0; i < 10; i++ {
		k := Key0 + Key(i)
		digit := string(rune('0' + i))
		keyNames[k] = digit
		m[digit] = k
		m["DIGIT"+digit] = k

		np := KeyNumpad0 + Key(i)
		keyNames[np] = "NUMPAD" + digit
		m["NUM"+digit] = np
	}
	for i := 0; i < 24; i++ {
		k := KeyF1 + Key(i)
		keyNames[k] = fmt.Sprintf("F%d", i+1)
	}
	for k, name := range keyNames {
		m[name] = k
	}
	for alias, k := range keyAliases {
		m[alias] = k
	}
	return m
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", uint16(k))
}

// ModifierNames returns every accepted modifier spelling.
func ModifierNames() []string {
	names := make([]string, 0, len(modifierAliases))
	for name := range modifierAliases {
		names = append(names, name)
	}
	return names
}

// KeyNames returns the canonical name of every key, in key order.
func KeyNames() []string {
	names := make([]string, 0, keyCount)
	for k := KeyA; k < keyCount; k++ {
		names = append(names, k.String())
	}
	return names
}
