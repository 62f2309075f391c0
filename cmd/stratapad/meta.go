package main

import (
	"fmt"

	"github.com/Alia5/stratapad/internal/version"
)

var descriptionTemplate = `
Gamepad chords to stratagem macros, with cooldown tracking and
on-screen loadout resync.
  Version: %s (%s)
           %s
`

func Description() string {
	return fmt.Sprintf(descriptionTemplate, version.Version, version.Commit, version.Date)
}
