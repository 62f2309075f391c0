package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Alia5/stratapad/identify"
	"github.com/Alia5/stratapad/screen"
)

// Identify names the loadout icons found in a saved screenshot.
type Identify struct {
	Image    string `arg:"" type:"existingfile" help:"Screenshot to read the loadout from"`
	IconsDir string `help:"Icon library directory (default: <data-dir>/icons)" type:"path" env:"STRATAPAD_ICONS_DIR"`

	Out io.Writer `kong:"-"`
}

// Run is called by Kong when the identify command is executed.
func (c *Identify) Run(logger *slog.Logger) error {
	dir := c.IconsDir
	if dir == "" {
		paths, err := (&Run{}).ResolvePaths()
		if err != nil {
			return err
		}
		dir = paths.IconsDir
	}
	icons, err := identify.LoadLibrary(dir, logger)
	if err != nil {
		return err
	}

	img, err := screen.File(c.Image).Capture()
	if err != nil {
		return err
	}
	regions, err := screen.Extract(img)
	if err != nil {
		return err
	}
	names, placeholders, err := identify.NewIdentifier(icons, logger).Identify(regions)
	if err != nil {
		return err
	}

	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	for i, n := range names {
		fmt.Fprintf(out, "%d: %s\n", i+1, n)
	}
	for _, ph := range placeholders {
		if ph.Path != "" {
			fmt.Fprintf(out, "saved unknown icon #%d to %s\n", ph.Position+1, ph.Path)
		}
	}
	return nil
}
