// Package config defines the CLI structure and configuration for stratapad.
package config

import (
	"github.com/Alia5/stratapad/internal/cmd"
	"github.com/Alia5/stratapad/internal/log"
)

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Log    log.Options `embed:"" prefix:"log."`
	Config string      `help:"Config file (.json, .yaml or .toml); default: config.* in the working or per-user config dir" env:"STRATAPAD_CONFIG"`

	Run       cmd.Run       `cmd:"" default:"withargs" help:"Run the macro engine (default command)"`
	Codes     cmd.Codes     `cmd:"" help:"List the stratagem definitions and their codes"`
	Identify  cmd.Identify  `cmd:"" help:"Identify the loadout icons in a saved screenshot"`
	Status    cmd.Status    `cmd:"" help:"Show the loadout of a running instance"`
	Install   cmd.Install   `cmd:"" help:"Start stratapad with the user session"`
	Uninstall cmd.Uninstall `cmd:"" help:"Remove the autostart entry"`
}
