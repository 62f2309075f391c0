package macro

import (
	"github.com/Alia5/stratapad/loadout"
	"github.com/Alia5/stratapad/stratagem"
)

// Utility is a fixed mission stratagem bound to a bumper+bumper+face chord.
type Utility struct {
	Name string
	Code []stratagem.Direction
}

var utilities = func() [loadout.NumSlots]Utility {
	const (
		up    = stratagem.Up
		down  = stratagem.Down
		left  = stratagem.Left
		right = stratagem.Right
	)
	return [loadout.NumSlots]Utility{
		loadout.SlotA: {Name: "Hellbomb", Code: []stratagem.Direction{down, up, left, down, up, right, down, up}},
		loadout.SlotB: {Name: "Eagle Rearm", Code: []stratagem.Direction{up, up, left, up, right}},
		loadout.SlotX: {Name: "Resupply", Code: []stratagem.Direction{down, down, up, right, up, down}},
		loadout.SlotY: {Name: "Reinforce", Code: []stratagem.Direction{up, down, right, left, up}},
	}
}()

// UtilityFor returns the utility macro bound to a face button.
func UtilityFor(slot loadout.Slot) Utility {
	return utilities[slot]
}
