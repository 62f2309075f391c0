// Package tray shows the loadout in the system tray and offers the common
// actions.
package tray

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/systray"

	"github.com/Alia5/stratapad/dispatch"
	"github.com/Alia5/stratapad/loadout"
)

// RefreshInterval is how often cooldown labels tick while a slot is cooling
// down.
const RefreshInterval = time.Second

// Tray is the system tray UI.
type Tray struct {
	engine *dispatch.Engine
	quit   func()
	logger *slog.Logger
}

// New creates a tray for e. quit is called when the user picks "Quit".
func New(e *dispatch.Engine, quit func(), logger *slog.Logger) *Tray {
	return &Tray{engine: e, quit: quit, logger: logger}
}

// Run shows the tray until ctx is done. It blocks on the UI loop.
func (t *Tray) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, systray.Quit)
	defer stop()
	systray.Run(func() { t.onReady(ctx) }, func() { t.logger.Info("Tray closed") })
	return nil
}

func (t *Tray) onReady(ctx context.Context) {
	if ctx.Err() != nil {
		systray.Quit()
		return
	}
	icon, err := Icon()
	if err != nil {
		t.logger.Warn("Failed to build tray icon", "error", err)
	} else {
		systray.SetIcon(icon)
	}
	systray.SetTitle("stratapad")
	systray.SetTooltip("stratapad")

	var items [loadout.NumSlots]*systray.MenuItem
	for i, v := range t.engine.Model().Snapshot() {
		items[i] = systray.AddMenuItem(SlotLabel(v), "")
		items[i].Disable()
	}
	systray.AddSeparator()
	clearItem := systray.AddMenuItem("Clear cooldowns", "Reset every slot's cooldown")
	resyncItem := systray.AddMenuItem("Resync", "Read the loadout from the screen")
	quitItem := systray.AddMenuItem("Quit", "Stop stratapad")

	go t.loop(ctx, items, clearItem, resyncItem, quitItem)
}

func (t *Tray) loop(ctx context.Context, items [loadout.NumSlots]*systray.MenuItem, clearItem, resyncItem, quitItem *systray.MenuItem) {
	changes, cancel := t.engine.Subscribe()
	defer cancel()
	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()

	refresh := func() {
		for i, v := range t.engine.Model().Snapshot() {
			items[i].SetTitle(SlotLabel(v))
		}
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			refresh()
		case <-ticker.C:
			if _, cooling := t.engine.Model().ShortestRemaining(); cooling {
				refresh()
			}
		case <-clearItem.ClickedCh:
			t.engine.ClearCooldowns()
		case <-resyncItem.ClickedCh:
			t.engine.Resync()
		case <-quitItem.ClickedCh:
			t.logger.Info("Quit from tray")
			t.quit()
			return
		}
	}
}

// SlotLabel renders one slot for the menu.
func SlotLabel(v loadout.SlotView) string {
	if v.Definition == nil {
		return fmt.Sprintf("%s: (empty)", v.Slot)
	}
	if !v.OnCooldown() {
		return fmt.Sprintf("%s: %s (ready)", v.Slot, v.Definition.Name)
	}
	return fmt.Sprintf("%s: %s (%ds)", v.Slot, v.Definition.Name, int(v.Remaining.Round(time.Second)/time.Second))
}
