//go:build !windows

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
)

func install(exe string, args []string, logger *slog.Logger) error {
	return fmt.Errorf("autorun install: %w", errors.ErrUnsupported)
}

func uninstall(logger *slog.Logger) error {
	return fmt.Errorf("autorun uninstall: %w", errors.ErrUnsupported)
}
