//go:build !windows

package action

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

type pasteTool struct {
	name string
	args []string
}

var (
	xdotoolPaste   = pasteTool{"xdotool", []string{"key", "--clearmodifiers", "ctrl+v"}}
	wtypePaste     = pasteTool{"wtype", []string{"-M", "ctrl", "-P", "v", "-m", "ctrl"}}
	osascriptPaste = pasteTool{"osascript", []string{"-e", `tell application "System Events" to keystroke "v" using command down`}}
)

// pasteTools lists the helpers tried in order for goos.
func pasteTools(goos string) []pasteTool {
	if goos == "darwin" {
		return []pasteTool{osascriptPaste}
	}
	return []pasteTool{xdotoolPaste, wtypePaste}
}

// simulatePaste sends the paste shortcut through whichever helper works.
// Modifiers of the hotkey that triggered it may still be held; xdotool
// clears them.
func simulatePaste(ctx context.Context) error {
	var errs []error
	for _, tool := range pasteTools(runtime.GOOS) {
		out, err := exec.CommandContext(ctx, tool.name, tool.args...).CombinedOutput()
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w (%s)", tool.name, err, out))
	}
	return fmt.Errorf("paste simulation failed, install xdotool (X11) or wtype (Wayland): %v", errs)
}
