package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
)

// Codes prints the definition library.
type Codes struct {
	Definitions string `help:"Definition library replacing the bundled one (.json, .yaml or .toml)" type:"existingfile" env:"STRATAPAD_DEFINITIONS"`

	Out io.Writer `kong:"-"`
}

// Run is called by Kong when the codes command is executed.
func (c *Codes) Run(logger *slog.Logger) error {
	lib, err := loadDefinitions(c.Definitions)
	if err != nil {
		return err
	}
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	logger.Debug("Listing definitions", "count", lib.Len())

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tDEPLOYMENT\tCOOLDOWN\tCODE")
	for _, d := range lib.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Name, d.Category, d.Deployment, d.Cooldown, d.CodeString())
	}
	return w.Flush()
}
