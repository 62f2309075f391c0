package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/Alia5/stratapad/apitypes"
	"github.com/Alia5/stratapad/dispatch"
	"github.com/Alia5/stratapad/internal/server/api"
	"github.com/Alia5/stratapad/loadout"
	"github.com/Alia5/stratapad/stratagem"
)

// ClearSlotArg empties a slot in "loadout/{slot}/set".
const ClearSlotArg = "-"

// Register adds every control route for e to r.
func Register(r *api.Router, e *dispatch.Engine) {
	r.Register("ping", Ping())
	r.Register("loadout", Loadout(e))
	r.Register("loadout/{slot}/set", LoadoutSet(e))
	r.Register("cooldowns/clear", CooldownsClear(e))
	r.Register("resync", Resync(e))
	r.Register("stratagems", Stratagems(e.Library()))
	r.RegisterStream("events", Events(e))
}

// Loadout returns a handler that reports every slot and its cooldown.
func Loadout(e *dispatch.Engine) api.HandlerFunc {
	return func(_ *api.Request, res *api.Response, _ *slog.Logger) error {
		return writeJSON(res, loadoutResponse(e.Model()))
	}
}

// LoadoutSet returns a handler that assigns a stratagem to a slot by name.
// The name is every remaining argument joined by spaces; "-" empties the
// slot.
func LoadoutSet(e *dispatch.Engine) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		slot, err := loadout.ParseSlot(req.Params["slot"])
		if err != nil {
			return err
		}
		if len(req.Args) == 0 {
			return errors.New("missing stratagem name")
		}
		name := strings.Join(req.Args, " ")
		if name == ClearSlotArg {
			name = ""
		}
		if err := e.SetSlot(slot, name); err != nil {
			return err
		}
		logger.Info("Slot set", "slot", slot, "stratagem", name)
		return writeJSON(res, loadoutResponse(e.Model()))
	}
}

// CooldownsClear returns a handler that resets every cooldown.
func CooldownsClear(e *dispatch.Engine) api.HandlerFunc {
	return func(_ *api.Request, res *api.Response, _ *slog.Logger) error {
		e.ClearCooldowns()
		return writeJSON(res, loadoutResponse(e.Model()))
	}
}

// Resync returns a handler that starts the resync workflow and returns
// immediately.
func Resync(e *dispatch.Engine) api.HandlerFunc {
	return func(_ *api.Request, res *api.Response, _ *slog.Logger) error {
		e.Resync()
		return writeJSON(res, apitypes.ResyncResponse{Started: true})
	}
}

// Stratagems returns a handler listing the definition library.
func Stratagems(lib *stratagem.Library) api.HandlerFunc {
	return func(_ *api.Request, res *api.Response, _ *slog.Logger) error {
		out := apitypes.StratagemsResponse{
			Stratagems: lo.Map(lib.All(), func(d *stratagem.Definition, _ int) apitypes.Stratagem {
				return apitypes.Stratagem{
					Name:            d.Name,
					Category:        d.Category.String(),
					Deployment:      d.Deployment.String(),
					Code:            codeNames(d.Code),
					DeploySeconds:   int(d.DeployTime / time.Second),
					CooldownSeconds: int(d.Cooldown / time.Second),
				}
			}),
		}
		return writeJSON(res, out)
	}
}

func loadoutResponse(m *loadout.Model) apitypes.LoadoutResponse {
	rem := m.RemainingCooldowns()
	out := apitypes.LoadoutResponse{Slots: make([]apitypes.Slot, 0, loadout.NumSlots)}
	for _, s := range loadout.Slots {
		slot := apitypes.Slot{Button: s.String(), RemainingSeconds: rem[s]}
		if d := m.Get(s); d != nil {
			slot.Name = d.Name
			slot.Code = codeNames(d.Code)
		}
		out.Slots = append(out.Slots, slot)
	}
	return out
}

func codeNames(code []stratagem.Direction) []string {
	return lo.Map(code, func(d stratagem.Direction, _ int) string { return d.String() })
}

func writeJSON(res *api.Response, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	res.JSON = string(b)
	return nil
}
