package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ncruces/zenity"
)

// ErrCanceled is returned when the user dismisses a dialog.
var ErrCanceled = zenity.ErrCanceled

// invalidSecretChars may not appear in a secret name: they would break the
// {{name}} placeholder syntax or the keyring key.
const invalidSecretChars = " {}[]()<>|=+*?^$\\./"

// ValidSecretName reports whether name can be used as a logical secret name.
func ValidSecretName(name string) bool {
	return name != "" && !strings.ContainsAny(name, invalidSecretChars)
}

// PromptSecret asks for a logical name and a secret value.
func PromptSecret(appName string) (name, value string, err error) {
	name, err = zenity.Entry("Step 1: Enter Logical Name\n(e.g., my_api_key, no spaces/special chars)",
		zenity.Title(appName+" - Add/Update Secret"),
	)
	if err != nil {
		return "", "", err
	}
	name = strings.TrimSpace(name)
	if !ValidSecretName(name) {
		return "", "", fmt.Errorf("invalid logical name (empty or contains spaces/special chars): '%s'", name)
	}

	_, value, err = zenity.Password(
		zenity.Title(appName + " - Step 2: Enter Secret Value for '" + name + "'"),
	)
	if err != nil {
		return "", "", err
	}
	if value == "" {
		return "", "", errors.New("secret value cannot be empty")
	}
	return name, value, nil
}

// ChooseSecret lets the user pick one of names.
func ChooseSecret(appName string, names []string) (string, error) {
	name, err := zenity.List("Select secret to remove:", names, zenity.Title(appName+" - Remove Secret"))
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", ErrCanceled
	}
	return name, nil
}

// Confirm shows a warning question. It returns false without error when
// the user cancels.
func Confirm(title, text, okLabel string) (bool, error) {
	err := zenity.Question(text,
		zenity.Title(title),
		zenity.WarningIcon,
		zenity.OKLabel(okLabel),
		zenity.CancelLabel("Cancel"),
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return false, nil
	}
	return err == nil, err
}

// ShowInfo displays an informational dialog.
func ShowInfo(title, text string) error {
	return zenity.Info(text, zenity.Title(title), zenity.InfoIcon)
}

// ShowError displays an error dialog.
func ShowError(title, text string) error {
	return zenity.Error(text, zenity.Title(title), zenity.ErrorIcon)
}
