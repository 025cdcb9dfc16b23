//go:build darwin

package hotkey

import "golang.design/x/hotkey/mainthread"

// primaryModifier is what CMDORCTRL resolves to: Command on macOS.
const primaryModifier = ModSuper

// RunOnMainThread runs fn while the macOS main thread services the Carbon
// event loop hotkeys are delivered through. It must be called from main and
// returns when fn does. GUI loops such as the tray already own the main
// thread and do not need it.
func RunOnMainThread(fn func()) {
	mainthread.Init(fn)
}
