// Package controller samples a single XInput controller and turns consecutive
// samples into edge-triggered button events.
package controller

import (
	"fmt"
	"math/bits"
	"strings"
)

// Button is a native XInput digital button bit (XINPUT_GAMEPAD wButtons).
type Button uint16

const (
	BtnDPadUp      Button = 0x0001
	BtnDPadDown    Button = 0x0002
	BtnDPadLeft    Button = 0x0004
	BtnDPadRight   Button = 0x0008
	BtnStart       Button = 0x0010
	BtnBack        Button = 0x0020
	BtnLeftStick   Button = 0x0040
	BtnRightStick  Button = 0x0080
	BtnLeftBumper  Button = 0x0100
	BtnRightBumper Button = 0x0200
	BtnA           Button = 0x1000
	BtnB           Button = 0x2000
	BtnX           Button = 0x4000
	BtnY           Button = 0x8000
)

// Trigger identifies one of the two analog triggers.
type Trigger uint8

const (
	TriggerLeft Trigger = iota
	TriggerRight
)

// TriggerThreshold is the analog value a trigger has to exceed to count as held.
const TriggerThreshold uint8 = 30

type tokenKind uint8

const (
	kindNone tokenKind = iota
	kindButton
	kindTrigger
)

// Token is either a native bitmask button or a trigger derived from an analog
// value. The zero Token is invalid.
type Token struct {
	kind    tokenKind
	button  Button
	trigger Trigger
}

// ButtonToken returns the token for a single native button bit.
func ButtonToken(b Button) Token { return Token{kind: kindButton, button: b} }

// TriggerToken returns the synthetic token for an analog trigger.
func TriggerToken(t Trigger) Token { return Token{kind: kindTrigger, trigger: t} }

var (
	DPadUp       = ButtonToken(BtnDPadUp)
	DPadDown     = ButtonToken(BtnDPadDown)
	DPadLeft     = ButtonToken(BtnDPadLeft)
	DPadRight    = ButtonToken(BtnDPadRight)
	Start        = ButtonToken(BtnStart)
	Back         = ButtonToken(BtnBack)
	LeftStick    = ButtonToken(BtnLeftStick)
	RightStick   = ButtonToken(BtnRightStick)
	LeftBumper   = ButtonToken(BtnLeftBumper)
	RightBumper  = ButtonToken(BtnRightBumper)
	ButtonA      = ButtonToken(BtnA)
	ButtonB      = ButtonToken(BtnB)
	ButtonX      = ButtonToken(BtnX)
	ButtonY      = ButtonToken(BtnY)
	LeftTrigger  = TriggerToken(TriggerLeft)
	RightTrigger = TriggerToken(TriggerRight)
)

// AllTokens lists every token in canonical order.
var AllTokens = []Token{
	DPadUp, DPadDown, DPadLeft, DPadRight,
	Start, Back, LeftStick, RightStick,
	LeftBumper, RightBumper,
	ButtonA, ButtonB, ButtonX, ButtonY,
	LeftTrigger, RightTrigger,
}

var tokenNames = map[Token]string{
	DPadUp:       "DPadUp",
	DPadDown:     "DPadDown",
	DPadLeft:     "DPadLeft",
	DPadRight:    "DPadRight",
	Start:        "Start",
	Back:         "Back",
	LeftStick:    "LeftStick",
	RightStick:   "RightStick",
	LeftBumper:   "LeftBumper",
	RightBumper:  "RightBumper",
	ButtonA:      "ButtonA",
	ButtonB:      "ButtonB",
	ButtonX:      "ButtonX",
	ButtonY:      "ButtonY",
	LeftTrigger:  "LeftTrigger",
	RightTrigger: "RightTrigger",
}

// IsTrigger reports whether t is derived from an analog trigger value.
func (t Token) IsTrigger() bool { return t.kind == kindTrigger }

// Button returns the native bit of a button token.
func (t Token) Button() (Button, bool) {
	if t.kind != kindButton {
		return 0, false
	}
	return t.button, true
}

// Trigger returns the trigger a synthetic token is derived from.
func (t Token) Trigger() (Trigger, bool) {
	if t.kind != kindTrigger {
		return 0, false
	}
	return t.trigger, true
}

func (t Token) String() string {
	if n, ok := tokenNames[t]; ok {
		return n
	}
	return "Invalid"
}

// ParseToken resolves a token by its name, case-insensitively.
func ParseToken(s string) (Token, error) {
	for t, n := range tokenNames {
		if strings.EqualFold(n, s) {
			return t, nil
		}
	}
	return Token{}, fmt.Errorf("unknown controller token %q", s)
}

// Set bit layout: low 16 bits mirror the native button mask, triggers live
// above it so the two domains never overlap.
const (
	setLeftTrigger  uint32 = 1 << 16
	setRightTrigger uint32 = 1 << 17
)

func (t Token) mask() uint32 {
	switch t.kind {
	case kindButton:
		return uint32(t.button)
	case kindTrigger:
		if t.trigger == TriggerLeft {
			return setLeftTrigger
		}
		return setRightTrigger
	}
	return 0
}

// Set is an immutable set of tokens.
type Set struct{ bits uint32 }

// NewSet builds a set from tokens.
func NewSet(tokens ...Token) Set {
	var s Set
	for _, t := range tokens {
		s.bits |= t.mask()
	}
	return s
}

// SetFromButtons converts a native button bitmask into a set.
func SetFromButtons(mask uint16) Set { return Set{bits: uint32(mask) & knownButtons} }

var knownButtons = func() uint32 {
	var m uint32
	for _, t := range AllTokens {
		if !t.IsTrigger() {
			m |= t.mask()
		}
	}
	return m
}()

func (s Set) With(t Token) Set { return Set{bits: s.bits | t.mask()} }
func (s Set) Without(t Token) Set { return Set{bits: s.bits &^ t.mask()} }
func (s Set) Union(o Set) Set { return Set{bits: s.bits | o.bits} }
func (s Set) Intersect(o Set) Set { return Set{bits: s.bits & o.bits} }
func (s Set) Minus(o Set) Set { return Set{bits: s.bits &^ o.bits} }
func (s Set) Len() int { return bits.OnesCount32(s.bits) }
func (s Set) Empty() bool { return s.bits == 0 }
func (s Set) Equal(o Set) bool { return s.bits == o.bits }
func (s Set) ContainsAll(o Set) bool { return s.bits&o.bits == o.bits }

// Has reports membership of t; the invalid zero Token is never a member.
func (s Set) Has(t Token) bool {
	m := t.mask()
	return m != 0 && s.bits&m == m
}

// Tokens returns the members in canonical order.
func (s Set) Tokens() []Token {
	out := make([]Token, 0, s.Len())
	for _, t := range AllTokens {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s Set) String() string {
	names := make([]string, 0, s.Len())
	for _, t := range s.Tokens() {
		names = append(names, t.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
