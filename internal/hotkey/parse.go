package hotkey

import (
	"strings"
)

// Separator joins the tokens of a hotkey description.
const Separator = "+"

// Hotkey is a modifier set plus exactly one key. It is comparable and is
// used directly as a map key: two descriptions that parse to equal values
// name the same global shortcut.
type Hotkey struct {
	Modifiers Modifiers
	Key       Key
}

// String returns the canonical description, e.g. "CTRL+SHIFT+K".
// Parse(h.String()) always yields h.
func (h Hotkey) String() string {
	if h.Modifiers == 0 {
		return h.Key.String()
	}
	return h.Modifiers.String() + Separator + h.Key.String()
}

// Parse converts a description such as "ctrl + shift + k" into a Hotkey.
// Tokens are matched case-insensitively with surrounding whitespace ignored;
// modifier order does not matter and repeated modifiers collapse.
func Parse(description string) (Hotkey, error) {
	if strings.TrimSpace(description) == "" {
		return Hotkey{}, &ParseError{Description: description, Err: ErrEmptyDescription}
	}

	var (
		hk    Hotkey
		keys  []string
		parts = strings.Split(description, Separator)
	)
	for _, part := range parts {
		raw := strings.TrimSpace(part)
		token := strings.ToUpper(raw)

		if mod, ok := modifierAliases[token]; ok {
			hk.Modifiers |= mod
			continue
		}
		key, ok := KeyMap[token]
		if !ok {
			return Hotkey{}, &ParseError{Description: description, Token: raw, Err: ErrUnknownToken}
		}
		if hk.Key == KeyNone {
			hk.Key = key
		}
		keys = append(keys, raw)
	}

	switch {
	case len(keys) == 0:
		return Hotkey{}, &ParseError{Description: description, Err: ErrMissingKey}
	case len(keys) > 1:
		return Hotkey{}, &ParseError{Description: description, Token: keys[1], Err: ErrMultipleKeys}
	}
	return hk, nil
}

// MustParse is like Parse but panics on error. Intended for tables and tests.
func MustParse(description string) Hotkey {
	hk, err := Parse(description)
	if err != nil {
		panic(err)
	}
	return hk
}
