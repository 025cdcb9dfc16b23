//go:build !windows

package action

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenInDefaultApp opens a file or URL with the desktop's default handler.
func OpenInDefaultApp(target string) error {
	name := "xdg-open"
	if runtime.GOOS == "darwin" {
		name = "open"
	}

	cmd := exec.Command(name, target)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start command (%s): %w", cmd.String(), err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
