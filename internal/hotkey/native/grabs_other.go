//go:build windows || darwin

package native

import xhotkey "golang.design/x/hotkey"

// expandModifiers returns only the requested combination; lock keys do not
// affect hotkey matching outside X11.
func expandModifiers(modifiers []xhotkey.Modifier) [][]xhotkey.Modifier {
	return [][]xhotkey.Modifier{modifiers}
}
