//go:build !windows

package configpaths

import (
	"os"
	"path/filepath"
)

// DataDir returns the directory holding the icon library and the persisted
// loadout. XDG_DATA_HOME is honored.
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}
