//go:build !darwin

package hotkey

// primaryModifier is what CMDORCTRL resolves to: Control outside macOS.
const primaryModifier = ModControl

// RunOnMainThread calls fn. Only macOS needs hotkeys serviced from the main thread.
func RunOnMainThread(fn func()) {
	fn()
}
