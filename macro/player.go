// Package macro plays stratagem codes as timed key sequences.
package macro

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/stratapad/input"
	"github.com/Alia5/stratapad/stratagem"
)

const (
	// KeyUpDelay is the hold time of every tap.
	KeyUpDelay = 25 * time.Millisecond
	// PressInterval separates consecutive presses.
	PressInterval = 50 * time.Millisecond
)

// Keys used while playing a code.
const (
	ModifierKey = input.KeyLeftCtrl
	StandUpKey  = input.KeyC
)

var directionKeys = [...]input.Key{
	stratagem.Up:    input.KeyUp,
	stratagem.Down:  input.KeyDown,
	stratagem.Left:  input.KeyLeft,
	stratagem.Right: input.KeyRight,
}

// Emitter is the output side of a macro.
type Emitter interface {
	Key(k input.Key, down bool) error
	MouseClick(hold time.Duration) error
}

// Player turns directional codes into key events. Play blocks for the
// duration of the sequence and is meant to run on its own goroutine.
type Player struct {
	emit   Emitter
	sleep  func(time.Duration)
	logger *slog.Logger
}

// NewPlayer creates a player. A nil sleep uses time.Sleep.
func NewPlayer(emit Emitter, logger *slog.Logger, sleep func(time.Duration)) *Player {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Player{emit: emit, sleep: sleep, logger: logger}
}

// KeyFor maps a direction to its arrow key.
func KeyFor(d stratagem.Direction) (input.Key, error) {
	if int(d) >= len(directionKeys) {
		return 0, fmt.Errorf("no key for direction %v", d)
	}
	return directionKeys[d], nil
}

// Play emits code under a held modifier, optionally tapping the stand-up key
// first. The first failed emission aborts the sequence and may leave the
// modifier down.
func (p *Player) Play(code []stratagem.Direction, standUp bool) error {
	keys := make([]input.Key, len(code))
	for i, d := range code {
		k, err := KeyFor(d)
		if err != nil {
			return err
		}
		keys[i] = k
	}

	if standUp {
		if err := p.Tap(StandUpKey); err != nil {
			return err
		}
		p.sleep(PressInterval)
	}

	if err := p.emit.Key(ModifierKey, true); err != nil {
		return err
	}
	for _, k := range keys {
		p.sleep(PressInterval)
		if err := p.Tap(k); err != nil {
			return err
		}
	}
	p.sleep(KeyUpDelay)
	if err := p.emit.Key(ModifierKey, false); err != nil {
		return err
	}
	p.logger.Debug("Played macro", "keys", len(keys), "standUp", standUp)
	return nil
}

// Tap presses and releases key.
func (p *Player) Tap(key input.Key) error {
	if err := p.emit.Key(key, true); err != nil {
		return err
	}
	p.sleep(KeyUpDelay)
	return p.emit.Key(key, false)
}

// Click holds the mouse button for hold.
func (p *Player) Click(hold time.Duration) error {
	return p.emit.MouseClick(hold)
}

// Sleep waits using the player's clock.
func (p *Player) Sleep(d time.Duration) { p.sleep(d) }
