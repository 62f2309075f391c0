package dispatch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/Alia5/stratapad/identify"
	"github.com/Alia5/stratapad/input"
	"github.com/Alia5/stratapad/loadout"
	"github.com/Alia5/stratapad/macro"
	"github.com/Alia5/stratapad/screen"
	"github.com/Alia5/stratapad/stratagem"
)

const (
	// BackKey closes the in-game loadout menu.
	BackKey = input.KeyB
	// BackKeyGap separates the two back taps; a single tap is not always
	// picked up by the game.
	BackKeyGap = 250 * time.Millisecond
)

// Resyncer reads the loadout off the screen and adopts it.
type Resyncer struct {
	capturer   screen.Capturer
	identifier *identify.Identifier
	library    *stratagem.Library
	model      *loadout.Model
	expiry     *loadout.ExpiryTimer
	store      *loadout.Store
	player     *macro.Player
	changed    func(reason string)
	// onPlaceholders, when set, receives icons that matched no reference.
	onPlaceholders func([]identify.Placeholder)
	debugDir       string
	now            func() time.Time
	logger         *slog.Logger
}

// Result summarizes one resync.
type Result struct {
	Identified   [4]string
	Known        []string
	Reassigned   bool
	Placeholders []identify.Placeholder
}

// Run captures, identifies, reassigns when the detected set differs from the
// current one, clears every cooldown, persists, notifies and finally closes
// the game menu.
func (r *Resyncer) Run() (Result, error) {
	var res Result

	img, err := r.capturer.Capture()
	if err != nil {
		return res, fmt.Errorf("resync: %w", err)
	}
	icons, err := screen.Extract(img)
	if err != nil {
		return res, fmt.Errorf("resync: %w", err)
	}
	if r.debugDir != "" {
		if err := screen.SaveDebug(r.debugDir, img, icons, r.now()); err != nil {
			r.logger.Warn("Failed to save debug capture", "error", err)
		}
	}

	res.Identified, res.Placeholders, err = r.identifier.Identify(icons)
	if err != nil {
		return res, fmt.Errorf("resync: %w", err)
	}
	res.Known = lo.Filter(res.Identified[:], func(n string, _ int) bool { return r.library.Has(n) })

	if !loadout.SameNames(r.model.Names(), res.Known) {
		r.model.Replace(loadout.Assign(res.Known, r.library))
		res.Reassigned = true
	}
	r.model.ClearAllCooldowns()
	r.expiry.Rearm()

	if err := r.store.Save(r.model.Names()); err != nil {
		r.logger.Error("Failed to persist loadout", "error", err)
	}
	r.changed("resync")
	r.logger.Info("Loadout resynced", "identified", res.Identified, "reassigned", res.Reassigned, "loadout", r.model.Names())

	if len(res.Placeholders) > 0 && r.onPlaceholders != nil {
		r.onPlaceholders(res.Placeholders)
	}

	if err := r.player.Tap(BackKey); err != nil {
		return res, err
	}
	r.player.Sleep(BackKeyGap)
	if err := r.player.Tap(BackKey); err != nil {
		return res, err
	}
	return res, nil
}
