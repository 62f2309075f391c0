package dispatch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/stratapad/controller"
	"github.com/Alia5/stratapad/identify"
	"github.com/Alia5/stratapad/internal/events"
	"github.com/Alia5/stratapad/loadout"
	"github.com/Alia5/stratapad/macro"
	"github.com/Alia5/stratapad/screen"
	"github.com/Alia5/stratapad/stratagem"
)

// Change is published whenever the loadout or a cooldown changes. Readers
// re-read the model; Reason is informational.
type Change struct {
	Reason string
	At     time.Time
}

// Deps are the collaborators of an Engine. Now, Sleep, After and Launch
// default to the real clock, time.Sleep, time.AfterFunc and GoLauncher.
type Deps struct {
	Library        *stratagem.Library
	Store          *loadout.Store
	Emitter        macro.Emitter
	Capturer       screen.Capturer
	Identifier     *identify.Identifier
	OnPlaceholders func([]identify.Placeholder)
	DebugDir       string

	Now    func() time.Time
	Sleep  func(time.Duration)
	After  loadout.AfterFunc
	Launch Launcher
}

// Engine owns the loadout and everything that mutates it.
type Engine struct {
	model      *loadout.Model
	expiry     *loadout.ExpiryTimer
	library    *stratagem.Library
	store      *loadout.Store
	dispatcher *Dispatcher
	resyncer   *Resyncer
	hub        *events.Hub[Change]
	launch     Launcher
	now        func() time.Time
	logger     *slog.Logger
}

// NewEngine wires an engine.
func NewEngine(deps Deps, logger *slog.Logger) *Engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Launch == nil {
		deps.Launch = GoLauncher(logger)
	}
	e := &Engine{
		library: deps.Library,
		store:   deps.Store,
		hub:     events.NewHub[Change](4),
		launch:  deps.Launch,
		now:     deps.Now,
		logger:  logger,
	}
	e.model = loadout.NewModel(logger.With("component", "loadout"), deps.Now)
	e.expiry = loadout.NewExpiryTimer(e.model, func() { e.changed("expired") }, logger, deps.After)
	player := macro.NewPlayer(deps.Emitter, logger.With("component", "macro"), deps.Sleep)
	e.resyncer = &Resyncer{
		capturer:       deps.Capturer,
		identifier:     deps.Identifier,
		library:        deps.Library,
		model:          e.model,
		expiry:         e.expiry,
		store:          deps.Store,
		player:         player,
		changed:        e.changed,
		onPlaceholders: deps.OnPlaceholders,
		debugDir:       deps.DebugDir,
		now:            deps.Now,
		logger:         logger.With("component", "resync"),
	}
	e.dispatcher = NewDispatcher(e.model, e.expiry, player, deps.Launch, e.changed, e.runResync, logger.With("component", "dispatch"))
	return e
}

func (e *Engine) changed(reason string) {
	e.hub.Publish(Change{Reason: reason, At: e.now()})
}

func (e *Engine) runResync() error {
	_, err := e.resyncer.Run()
	return err
}

// Model exposes the loadout for reading.
func (e *Engine) Model() *loadout.Model { return e.model }

// Library returns the definition library.
func (e *Engine) Library() *stratagem.Library { return e.library }

// Dispatcher returns the chord dispatcher.
func (e *Engine) Dispatcher() *Dispatcher { return e.dispatcher }

// Handle feeds a controller event to the dispatcher.
func (e *Engine) Handle(ev controller.Event) { e.dispatcher.Handle(ev) }

// Subscribe returns a channel of change notifications.
func (e *Engine) Subscribe() (<-chan Change, func()) { return e.hub.Subscribe() }

// Restore loads the persisted loadout and lays it out with the assigner.
func (e *Engine) Restore() error {
	names, err := e.store.Load()
	if err != nil {
		return err
	}
	e.model.Replace(loadout.Assign(names, e.library))
	e.logger.Info("Restored loadout", "file", e.store.Path(), "loadout", e.model.Names())
	e.changed("restore")
	return nil
}

// SetSlot puts a stratagem into a slot, or empties it for an empty name,
// then persists and notifies.
func (e *Engine) SetSlot(slot loadout.Slot, name string) error {
	var def *stratagem.Definition
	if name != "" {
		var err error
		if def, err = e.library.Lookup(name); err != nil {
			return err
		}
	}
	e.model.Set(slot, def)
	e.expiry.Rearm()
	if err := e.store.Save(e.model.Names()); err != nil {
		return fmt.Errorf("persist loadout: %w", err)
	}
	e.changed("set")
	return nil
}

// ClearCooldowns resets every slot.
func (e *Engine) ClearCooldowns() {
	e.model.ClearAllCooldowns()
	e.expiry.Rearm()
	e.changed("clear")
}

// Resync starts the resync workflow through the launcher.
func (e *Engine) Resync() {
	e.launch("resync", e.runResync)
}

// ResyncNow runs the resync workflow on the calling goroutine.
func (e *Engine) ResyncNow() (Result, error) {
	return e.resyncer.Run()
}

// Close stops the cooldown timer.
func (e *Engine) Close() {
	e.expiry.Stop()
}
