//go:build windows

package configpaths

// DataDir returns the directory holding the icon library and the persisted
// loadout.
func DataDir() (string, error) {
	return DefaultConfigDir()
}
