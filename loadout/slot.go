// Package loadout holds the four button-addressed stratagem slots, their
// cooldown bookkeeping and the algorithm that lays out a detected loadout.
package loadout

import (
	"fmt"
	"strings"

	"github.com/Alia5/stratapad/controller"
)

// Slot is one of the four face-button slots.
type Slot uint8

const (
	SlotA Slot = iota
	SlotB
	SlotX
	SlotY
)

// NumSlots is the fixed number of loadout slots.
const NumSlots = 4

// Slots lists every slot in array order.
var Slots = [NumSlots]Slot{SlotA, SlotB, SlotX, SlotY}

var slotTokens = [NumSlots]controller.Token{
	controller.ButtonA,
	controller.ButtonB,
	controller.ButtonX,
	controller.ButtonY,
}

func (s Slot) String() string {
	if s < NumSlots {
		return [...]string{"A", "B", "X", "Y"}[s]
	}
	return fmt.Sprintf("Slot(%d)", s)
}

// Token returns the face button addressing the slot.
func (s Slot) Token() controller.Token { return slotTokens[s] }

// SlotFor maps a face button to its slot.
func SlotFor(t controller.Token) (Slot, bool) {
	for i, st := range slotTokens {
		if st == t {
			return Slot(i), true
		}
	}
	return 0, false
}

// ParseSlot accepts "a", "A" or a face button name such as "ButtonA".
func ParseSlot(s string) (Slot, error) {
	for _, slot := range Slots {
		if strings.EqualFold(s, slot.String()) || strings.EqualFold(s, slot.Token().String()) {
			return slot, nil
		}
	}
	return 0, fmt.Errorf("unknown slot %q", s)
}

// FaceButtons is the set of the four slot buttons.
var FaceButtons = controller.NewSet(slotTokens[:]...)
