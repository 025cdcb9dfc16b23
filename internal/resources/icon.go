package resources

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"runtime"
)

// ErrIconNotFound is returned when no icon data is available.
var ErrIconNotFound = errors.New("icon not found")

//go:embed icon.ico
var iconICO []byte

//go:embed icon.png
var iconPNG []byte

// GetIcon returns the bytes of the embedded tray icon in the format the
// platform's tray expects: ICO on Windows, PNG elsewhere.
func GetIcon() ([]byte, error) {
	return iconFor(runtime.GOOS)
}

func iconFor(goos string) ([]byte, error) {
	data := iconPNG
	if goos == "windows" {
		data = iconICO
	}
	if len(data) == 0 {
		return nil, ErrIconNotFound
	}
	return data, nil
}

// LoadIcon reads a user supplied icon from path, falling back to the
// embedded icon when path is empty.
func LoadIcon(path string) ([]byte, error) {
	if path == "" {
		return GetIcon()
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrIconNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read icon '%s': %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrIconNotFound, path)
	}
	return data, nil
}
