//go:build windows

package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-toast/toast"
)

func (n *NotificationManager) platformNotify(title, message string) error {
	iconPathForToast := n.iconPath
	if iconPathForToast != "" {
		if abs, err := filepath.Abs(iconPathForToast); err == nil {
			iconPathForToast = abs
		}
	} else if len(n.icon) > 0 {
		var err error
		iconPathForToast, err = writeTempIcon(n.icon)
		if err != nil {
			n.log.Warn().Err(err).Msg("error writing temporary icon")
			iconPathForToast = ""
		} else {
			tmp := iconPathForToast
			time.AfterFunc(10*time.Second, func() {
				if errRem := os.Remove(tmp); errRem != nil && !errors.Is(errRem, os.ErrNotExist) {
					n.log.Debug().Err(errRem).Str("path", tmp).Msg("error removing temporary icon file")
				}
			})
		}
	}

	notification := toast.Notification{
		AppID:   n.appName,
		Title:   title,
		Message: message,
		Icon:    iconPathForToast,
	}
	if err := notification.Push(); err != nil {
		if strings.Contains(err.Error(), "notification platform is unavailable") {
			return fmt.Errorf("toast platform unavailable (notifications may be disabled in Windows Settings): %w", err)
		}
		return err
	}
	return nil
}

func writeTempIcon(iconData []byte) (string, error) {
	if len(iconData) == 0 {
		return "", fmt.Errorf("cannot write empty icon data")
	}
	tmpFile, err := os.CreateTemp("", "hotkeyd-icon-*.ico")
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	if _, err := tmpFile.Write(iconData); err != nil {
		_ = os.Remove(tmpFile.Name())
		return "", err
	}

	absPath, err := filepath.Abs(tmpFile.Name())
	if err != nil {
		return tmpFile.Name(), nil
	}
	return absPath, nil
}
