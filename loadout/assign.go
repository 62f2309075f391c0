package loadout

import (
	"slices"

	"github.com/samber/lo"

	"github.com/Alia5/stratapad/stratagem"
)

// preferred pairs deployment kinds with the button they gravitate to.
var preferred = []struct {
	kind stratagem.Deployment
	slot Slot
}{
	{stratagem.Ground, SlotA},
	{stratagem.Backpack, SlotB},
	{stratagem.Weapon, SlotX},
	{stratagem.Orbital, SlotY},
}

var fallbackOrder = []Slot{SlotY, SlotX, SlotB, SlotA}

// Assign lays out detected stratagem names on the four slots. Unknown and
// repeated names are dropped. Candidates are ranked by category, deployment
// kind and position and the best four kept; each kind then claims its
// preferred button, an airstrike takes Y if nothing did, and leftovers fill
// Y, X, B, A in that order.
func Assign(names []string, lib *stratagem.Library) [NumSlots]*stratagem.Definition {
	var out [NumSlots]*stratagem.Definition

	known := lo.Uniq(lo.Filter(names, func(n string, _ int) bool { return lib.Has(n) }))
	candidates := lo.Map(known, func(n string, _ int) *stratagem.Definition {
		d, _ := lib.Get(n)
		return d
	})
	slices.SortStableFunc(candidates, func(a, b *stratagem.Definition) int {
		if c := a.Category.Rank() - b.Category.Rank(); c != 0 {
			return c
		}
		if c := a.Deployment.Rank() - b.Deployment.Rank(); c != 0 {
			return c
		}
		return a.Position - b.Position
	})
	if len(candidates) > NumSlots {
		candidates = candidates[:NumSlots]
	}

	take := func(match func(*stratagem.Definition) bool) *stratagem.Definition {
		i := slices.IndexFunc(candidates, match)
		if i < 0 {
			return nil
		}
		d := candidates[i]
		candidates = slices.Delete(candidates, i, i+1)
		return d
	}

	for _, p := range preferred {
		out[p.slot] = take(func(d *stratagem.Definition) bool { return d.Deployment == p.kind })
	}
	if out[SlotY] == nil {
		out[SlotY] = take(func(d *stratagem.Definition) bool { return d.Deployment == stratagem.Airstrike })
	}
	for _, s := range fallbackOrder {
		if out[s] == nil && len(candidates) > 0 {
			out[s] = candidates[0]
			candidates = candidates[1:]
		}
	}
	return out
}

// SameNames reports whether a and b hold the same set of names.
func SameNames(a, b []string) bool {
	left, right := lo.Difference(lo.Uniq(a), lo.Uniq(b))
	return len(left) == 0 && len(right) == 0
}
