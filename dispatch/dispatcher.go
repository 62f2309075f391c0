// Package dispatch turns controller chords into macros, cooldown commits and
// loadout resyncs.
package dispatch

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Alia5/stratapad/controller"
	"github.com/Alia5/stratapad/loadout"
	"github.com/Alia5/stratapad/macro"
)

const (
	// WeaponAssistName is the stratagem whose weapon needs a held trigger.
	WeaponAssistName = "Epoch"
	// WeaponAssistHold is how long the assist holds the mouse button.
	WeaponAssistHold = 2500 * time.Millisecond
)

var (
	cancelButtons = controller.NewSet(controller.LeftBumper, controller.ButtonY)
	resyncChord   = controller.NewSet(controller.LeftTrigger, controller.RightTrigger, controller.ButtonY)
	resyncAdded   = controller.NewSet(controller.ButtonY)
	assistChord   = controller.NewSet(controller.LeftTrigger, controller.ButtonA)
	assistAdded   = controller.NewSet(controller.ButtonA)
)

// State is the dispatcher's latch state.
type State struct {
	// MacroLocked allows at most one macro per bumper hold.
	MacroLocked bool
	// ReadyToDeploy is set while a played stratagem waits for its throw.
	ReadyToDeploy bool
	ActiveSlot    loadout.Slot
	HasActiveSlot bool
}

// Dispatcher recognizes chords. Handle is serialized; everything it starts
// runs through the launcher.
type Dispatcher struct {
	mu    sync.Mutex
	state State

	model   *loadout.Model
	expiry  *loadout.ExpiryTimer
	player  *macro.Player
	launch  Launcher
	changed func(reason string)
	resync  func() error
	logger  *slog.Logger
}

// NewDispatcher wires a dispatcher. changed and resync may be nil.
func NewDispatcher(
	model *loadout.Model,
	expiry *loadout.ExpiryTimer,
	player *macro.Player,
	launch Launcher,
	changed func(reason string),
	resync func() error,
	logger *slog.Logger,
) *Dispatcher {
	if changed == nil {
		changed = func(string) {}
	}
	if resync == nil {
		resync = func() error { return nil }
	}
	return &Dispatcher{
		model:   model,
		expiry:  expiry,
		player:  player,
		launch:  launch,
		changed: changed,
		resync:  resync,
		logger:  logger,
	}
}

// State returns a copy of the latch state.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Handle processes one controller event. The first three rules only update
// state; each later rule that matches ends processing.
func (d *Dispatcher) Handle(ev controller.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !ev.Added.Intersect(cancelButtons).Empty() {
		d.state.ReadyToDeploy = false
	}

	if ev.Added.Has(controller.LeftBumper) {
		d.state.MacroLocked = false
	}

	if d.state.ReadyToDeploy && ev.Removed.Has(controller.RightTrigger) && d.state.HasActiveSlot {
		d.state.ReadyToDeploy = false
		d.model.ActivateCooldown(d.state.ActiveSlot)
		d.expiry.Rearm()
		d.launch("notify cooldown", func() error {
			d.changed("cooldown")
			return nil
		})
	}

	if ev.Held.ContainsAll(resyncChord) && ev.Added.Equal(resyncAdded) {
		d.logger.Info("Resync requested")
		d.launch("resync", d.resync)
		return
	}

	if ev.Held.ContainsAll(assistChord) && ev.Added.Equal(assistAdded) {
		if d.model.Contains(WeaponAssistName) {
			d.launch("weapon assist", func() error {
				return d.player.Click(WeaponAssistHold)
			})
		}
		return
	}

	if d.state.MacroLocked {
		return
	}

	d.macroChord(ev)
}

func (d *Dispatcher) macroChord(ev controller.Event) {
	face := ev.Held.Intersect(loadout.FaceButtons).Tokens()
	if len(face) != 1 || !ev.Added.Has(face[0]) || !ev.Held.Has(controller.LeftBumper) {
		return
	}
	rb := ev.Held.Has(controller.RightBumper)
	want := 2
	if rb {
		want = 3
	}
	if ev.Held.Len() != want {
		return
	}

	slot, _ := loadout.SlotFor(face[0])
	standUp := slot == loadout.SlotB

	if rb {
		u := macro.UtilityFor(slot)
		d.logger.Info("Play utility", "slot", slot, "stratagem", u.Name)
		d.launch(u.Name, func() error { return d.player.Play(u.Code, standUp) })
		d.state.MacroLocked = true
		return
	}

	def := d.model.Get(slot)
	if def == nil {
		return
	}
	d.logger.Info("Play stratagem", "slot", slot, "stratagem", def.Name)
	d.launch(def.Name, func() error { return d.player.Play(def.Code, standUp) })
	d.state.MacroLocked = true
	d.state.ReadyToDeploy = true
	d.state.ActiveSlot = slot
	d.state.HasActiveSlot = true
}
