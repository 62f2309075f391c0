//go:build windows

package controller

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	xinput             = windows.NewLazySystemDLL("xinput1_4.dll")
	procXInputGetState = xinput.NewProc("XInputGetState")
)

type xinputGamepad struct {
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

type xinputState struct {
	PacketNumber uint32
	Gamepad      xinputGamepad
}

// XInput reads controller state through xinput1_4.dll.
type XInput struct {
	index uint32
}

// NewXInput returns a Source for the controller at the given user index (0-3).
func NewXInput(index uint32) *XInput {
	return &XInput{index: index}
}

// State calls XInputGetState. Any non-zero result is reported as ErrNotConnected.
func (x *XInput) State() (Sample, error) {
	if err := procXInputGetState.Find(); err != nil {
		return Sample{}, fmt.Errorf("%w: %v", ErrNotConnected, err)
	}
	var st xinputState
	r, _, _ := procXInputGetState.Call(uintptr(x.index), uintptr(unsafe.Pointer(&st)))
	if r != 0 {
		return Sample{}, fmt.Errorf("%w: %w", ErrNotConnected, windows.Errno(r))
	}
	return Sample{
		Buttons: st.Gamepad.Buttons,
		LT:      st.Gamepad.LeftTrigger,
		RT:      st.Gamepad.RightTrigger,
	}, nil
}
