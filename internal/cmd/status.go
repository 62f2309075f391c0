package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Alia5/stratapad/apiclient"
)

// Status prints the loadout of a running instance.
type Status struct {
	Addr string `help:"API address of the running instance" default:"127.0.0.1:3243" env:"STRATAPAD_API_ADDR"`

	Out io.Writer `kong:"-"`
}

// Run is called by Kong when the status command is executed.
func (c *Status) Run(logger *slog.Logger) error {
	res, err := apiclient.New(c.Addr).Loadout()
	if err != nil {
		return fmt.Errorf("query %s: %w", c.Addr, err)
	}
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	for _, s := range res.Slots {
		switch {
		case s.Name == "":
			fmt.Fprintf(out, "%s: -\n", s.Button)
		case s.RemainingSeconds != nil:
			fmt.Fprintf(out, "%s: %s [%s] cooldown %ds\n", s.Button, s.Name, strings.Join(s.Code, " "), *s.RemainingSeconds)
		default:
			fmt.Fprintf(out, "%s: %s [%s] ready\n", s.Button, s.Name, strings.Join(s.Code, " "))
		}
	}
	logger.Debug("Status queried", "addr", c.Addr)
	return nil
}
