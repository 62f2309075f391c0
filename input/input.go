// Package input synthesizes keyboard and mouse events.
package input

import (
	"fmt"
	"time"
)

// Key is a Windows virtual-key code.
type Key uint16

const (
	KeyLeft     Key = 0x25
	KeyUp       Key = 0x26
	KeyRight    Key = 0x27
	KeyDown     Key = 0x28
	KeyB        Key = 0x42
	KeyC        Key = 0x43
	KeyLeftCtrl Key = 0xA2
)

var keyNames = map[Key]string{
	KeyLeft:     "Left",
	KeyUp:       "Up",
	KeyRight:    "Right",
	KeyDown:     "Down",
	KeyB:        "B",
	KeyC:        "C",
	KeyLeftCtrl: "LeftCtrl",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return fmt.Sprintf("VK(0x%02X)", uint16(k))
}

// Error reports a failed emission.
type Error struct {
	// Op is "key" or "click".
	Op   string
	Key  Key
	Down bool
	Hold time.Duration
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "click" {
		return fmt.Sprintf("input: mouse click (hold %s): %v", e.Hold, e.Err)
	}
	dir := "up"
	if e.Down {
		dir = "down"
	}
	return fmt.Sprintf("input: key %s %s: %v", e.Key, dir, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
