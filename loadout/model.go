package loadout

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Alia5/stratapad/stratagem"
)

// ThrowWindow approximates the time between releasing the throw and the
// stratagem landing; the game allows anything from 0 to 3s.
const ThrowWindow = 2500 * time.Millisecond

// Model is the current loadout. Every slot always exists; a slot that is not
// on cooldown carries a cooldown end at or before now, never an unset value.
type Model struct {
	mu     sync.RWMutex
	now    func() time.Time
	logger *slog.Logger
	slots  [NumSlots]slotState
}

type slotState struct {
	def         *stratagem.Definition
	cooldownEnd time.Time
}

// SlotView is a point-in-time copy of one slot.
type SlotView struct {
	Slot       Slot
	Definition *stratagem.Definition
	// Remaining is zero when the slot is not on cooldown.
	Remaining time.Duration
}

// OnCooldown reports whether the view was taken during a cooldown.
func (v SlotView) OnCooldown() bool { return v.Remaining > 0 }

// NewModel creates an empty loadout. A nil clock uses time.Now.
func NewModel(logger *slog.Logger, now func() time.Time) *Model {
	if now == nil {
		now = time.Now
	}
	return &Model{now: now, logger: logger}
}

// Set replaces one slot and resets its cooldown.
func (m *Model) Set(slot Slot, def *stratagem.Definition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = slotState{def: def}
}

// Replace swaps the entire loadout, resetting every cooldown.
func (m *Model) Replace(defs [NumSlots]*stratagem.Definition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range defs {
		m.slots[i] = slotState{def: d}
	}
}

// Get returns the definition in a slot, or nil.
func (m *Model) Get(slot Slot) *stratagem.Definition {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[slot].def
}

// ActivateCooldown starts the cooldown of an occupied slot. Empty slots are
// left untouched.
func (m *Model) ActivateCooldown(slot Slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &m.slots[slot]
	if s.def == nil {
		return
	}
	s.cooldownEnd = m.now().Add(ThrowWindow).Add(s.def.DeployTime).Add(s.def.Cooldown)
	m.logger.Info("Activate cooldown", "slot", slot, "stratagem", s.def.Name, "until", s.cooldownEnd.Format("15:04:05"))
}

// IsOnCooldown reports whether the slot's cooldown end lies in the future.
func (m *Model) IsOnCooldown(slot Slot) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[slot].cooldownEnd.After(m.now())
}

// RemainingCooldowns returns, per slot, the whole seconds left on its
// cooldown, or nil when the slot is idle.
func (m *Model) RemainingCooldowns() [NumSlots]*int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.now()
	var out [NumSlots]*int
	for i, s := range m.slots {
		if left := s.cooldownEnd.Sub(now); left > 0 {
			secs := int(left / time.Second)
			out[i] = &secs
		}
	}
	return out
}

// ShortestRemaining returns the smallest positive remaining cooldown.
func (m *Model) ShortestRemaining() (time.Duration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.now()
	var shortest time.Duration
	found := false
	for _, s := range m.slots {
		left := s.cooldownEnd.Sub(now)
		if left <= 0 {
			continue
		}
		if !found || left < shortest {
			shortest = left
			found = true
		}
	}
	return shortest, found
}

// ClearAllCooldowns marks every slot as already expired.
func (m *Model) ClearAllCooldowns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.slots {
		m.slots[i].cooldownEnd = time.Time{}
	}
	m.logger.Info("All cooldowns cleared")
}

// Names returns the names of the occupied slots in A, B, X, Y order.
func (m *Model) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var names []string
	for _, s := range m.slots {
		if s.def != nil {
			names = append(names, s.def.Name)
		}
	}
	return names
}

// Contains reports whether any slot holds the named stratagem.
func (m *Model) Contains(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.slots {
		if s.def != nil && s.def.Name == name {
			return true
		}
	}
	return false
}

// Snapshot copies the whole loadout under one lock.
func (m *Model) Snapshot() [NumSlots]SlotView {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.now()
	var out [NumSlots]SlotView
	for i, s := range m.slots {
		out[i] = SlotView{Slot: Slot(i), Definition: s.def}
		if left := s.cooldownEnd.Sub(now); left > 0 {
			out[i].Remaining = left
		}
	}
	return out
}
