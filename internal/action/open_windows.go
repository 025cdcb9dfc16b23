//go:build windows

package action

import (
	"fmt"
	"syscall"
	"unsafe"
)

const swShowNormal = 1

var (
	shell32           = syscall.NewLazyDLL("shell32.dll")
	procShellExecuteW = shell32.NewProc("ShellExecuteW")
)

// shellExecute calls ShellExecuteW with the given verb on file.
func shellExecute(verb, file string) error {
	lpVerb, err := syscall.UTF16PtrFromString(verb)
	if err != nil {
		return fmt.Errorf("failed to convert verb to UTF16Ptr: %w", err)
	}
	lpFile, err := syscall.UTF16PtrFromString(file)
	if err != nil {
		return fmt.Errorf("failed to convert file path to UTF16Ptr: %w", err)
	}

	ret, _, callErr := procShellExecuteW.Call(
		0,
		uintptr(unsafe.Pointer(lpVerb)),
		uintptr(unsafe.Pointer(lpFile)),
		0,
		0,
		uintptr(swShowNormal),
	)
	// Values > 32 indicate success.
	if ret <= 32 {
		return fmt.Errorf("ShellExecuteW failed with return code %d: %v", ret, callErr)
	}
	return nil
}

// OpenInDefaultApp opens a file or URL with its registered handler.
func OpenInDefaultApp(target string) error {
	return shellExecute("open", target)
}
