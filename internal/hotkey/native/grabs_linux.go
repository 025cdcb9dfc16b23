//go:build linux && cgo && !nox11

package native

import xhotkey "golang.design/x/hotkey"

// CapsLock is LockMask (1<<1); NumLock is usually Mod2.
const capsLockMask xhotkey.Modifier = 1 << 1

// expandModifiers returns the combinations to grab so that a hotkey still
// fires with NumLock or CapsLock on. XGrabKey matches the modifier state
// exactly. The first element is always the requested combination.
func expandModifiers(modifiers []xhotkey.Modifier) [][]xhotkey.Modifier {
	with := func(extra ...xhotkey.Modifier) []xhotkey.Modifier {
		return append(append([]xhotkey.Modifier(nil), modifiers...), extra...)
	}
	return [][]xhotkey.Modifier{
		with(),
		with(xhotkey.Mod2),
		with(capsLockMask),
		with(xhotkey.Mod2, capsLockMask),
	}
}
