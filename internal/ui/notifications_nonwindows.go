//go:build !windows

package ui

import "github.com/gen2brain/beeep"

func (n *NotificationManager) platformNotify(title, message string) error {
	// beeep takes an icon path; embedded icon bytes are not used here.
	return beeep.Notify(title, message, n.iconPath)
}
