// Package notify tells the user about icons that matched no reference.
package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ncruces/zenity"

	"github.com/Alia5/stratapad/identify"
)

// Title is the notification title.
const Title = "stratapad: unknown stratagem icons"

// Sender shows one notification.
type Sender func(title, text string) error

// Desktop shows a native desktop notification.
func Desktop(title, text string) error {
	return zenity.Notify(text, zenity.Title(title), zenity.InfoIcon)
}

// Message lists the placeholders and tells the user how to name them.
func Message(placeholders []identify.Placeholder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d icon(s) were not recognized:\n", len(placeholders))
	for _, ph := range placeholders {
		if ph.Path == "" {
			fmt.Fprintf(&b, "  #%d (no image)\n", ph.Position+1)
			continue
		}
		fmt.Fprintf(&b, "  #%d %s\n", ph.Position+1, ph.Path)
	}
	b.WriteString("Rename each file to the stratagem's name and resync.")
	return b.String()
}

// Placeholders returns a resync hook that sends one notification per resync
// with unknown icons. Send failures are logged.
func Placeholders(send Sender, logger *slog.Logger) func([]identify.Placeholder) {
	return func(placeholders []identify.Placeholder) {
		if len(placeholders) == 0 {
			return
		}
		if err := send(Title, Message(placeholders)); err != nil {
			logger.Warn("Failed to show notification", "error", err)
		}
	}
}
