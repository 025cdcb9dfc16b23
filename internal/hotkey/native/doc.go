// Package native grabs hotkeys through golang.design/x/hotkey on Windows,
// macOS and X11.
//
// On Linux the library opens the X display from its package init and
// panics when there is none, so only the run path imports this package.
// Linux builds without cgo or tagged nox11 compile an unavailable stub and
// never link libX11; they rely on the XDG portal backend instead.
package native
