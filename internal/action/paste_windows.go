//go:build windows

package action

import (
	"context"
	"fmt"
	"os/exec"
	"syscall"
	"unsafe"
)

const (
	inputKeyboard  = 1
	keyeventfKeyUp = 0x0002
	vkControl      = 0x11
	vkV            = 0x56
)

// keyboardInput mirrors the INPUT structure with a KEYBDINPUT payload,
// padded to the size of the union.
type keyboardInput struct {
	Type uint32
	Ki   struct {
		WVk         uint16
		WScan       uint16
		DwFlags     uint32
		Time        uint32
		DwExtraInfo uintptr
		Padding1    uint32
		Padding2    uint32
		Padding3    uint32
	}
}

var (
	user32        = syscall.NewLazyDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

// sendCtrlV presses and releases Ctrl+V through SendInput.
func sendCtrlV() error {
	inputs := make([]keyboardInput, 4)
	for i, ev := range []struct {
		vk    uint16
		flags uint32
	}{
		{vkControl, 0},
		{vkV, 0},
		{vkV, keyeventfKeyUp},
		{vkControl, keyeventfKeyUp},
	} {
		inputs[i].Type = inputKeyboard
		inputs[i].Ki.WVk = ev.vk
		inputs[i].Ki.DwFlags = ev.flags
	}

	ret, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		uintptr(unsafe.Sizeof(inputs[0])),
	)
	if ret != uintptr(len(inputs)) {
		return fmt.Errorf("SendInput sent %d of %d inputs: %v", ret, len(inputs), err)
	}
	return nil
}

// simulatePaste sends Ctrl+V, falling back to PowerShell SendKeys.
func simulatePaste(ctx context.Context) error {
	sendErr := sendCtrlV()
	if sendErr == nil {
		return nil
	}

	psScript := `Add-Type -AssemblyName System.Windows.Forms; [System.Windows.Forms.SendKeys]::SendWait("^v")`
	if err := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", psScript).Run(); err != nil {
		return fmt.Errorf("paste simulation failed: %v; powershell: %w", sendErr, err)
	}
	return nil
}
