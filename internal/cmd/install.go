package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// AutorunName is the name of the per-user autorun entry.
const AutorunName = "stratapad"

// Install registers stratapad to start with the user session.
type Install struct {
	Args []string `arg:"" optional:"" help:"Extra arguments passed to 'run' at startup"`
}

// Uninstall removes the autorun entry and stops the autostarted instance.
type Uninstall struct{}

func (c *Install) Run(logger *slog.Logger) error {
	exe, err := currentExecutable()
	if err != nil {
		return err
	}
	return install(exe, c.Args, logger)
}

func (c *Uninstall) Run(logger *slog.Logger) error {
	if _, err := currentExecutable(); err != nil {
		return err
	}
	return uninstall(logger)
}

func currentExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if strings.Contains(exe, "go-build") {
		return "", errors.New("cannot install from 'go run'")
	}
	return filepath.Abs(exe)
}

// autorunCommand is the command line stored in the autorun entry.
func autorunCommand(exe string, args []string) string {
	parts := []string{fmt.Sprintf("%q", exe), "run"}
	for _, a := range args {
		if strings.ContainsAny(a, " \t") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// autorunExe extracts the executable path from an autorun command line.
func autorunExe(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "\"") {
		trimmed = strings.TrimPrefix(trimmed, "\"")
		if end := strings.Index(trimmed, "\""); end >= 0 {
			return filepath.Clean(trimmed[:end])
		}
	}
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return ""
	}
	return filepath.Clean(fields[0])
}
