//go:build windows

package input

import (
	"context"
	"log/slog"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Alia5/stratapad/internal/log"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procSendInput        = user32.NewProc("SendInput")
	procGetSystemMetrics = user32.NewProc("GetSystemMetrics")
)

const (
	inputMouse    = 0
	inputKeyboard = 1

	keyEventKeyUp = 0x0002

	mouseLeftDown  = 0x0002
	mouseLeftUp    = 0x0004
	mouseRightDown = 0x0008
	mouseRightUp   = 0x0010

	smSwapButton = 23
)

type keyboardInput struct {
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

type mouseInput struct {
	Dx        int32
	Dy        int32
	MouseData uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// keyboardRecord and mouseRecord share the layout and size of INPUT; the
// keyboard variant is padded up to the larger mouse union member.
type keyboardRecord struct {
	Type uint32
	Ki   keyboardInput
	_    [8]byte
}

type mouseRecord struct {
	Type uint32
	Mi   mouseInput
}

// SendInput emits events through user32!SendInput.
type SendInput struct {
	logger *slog.Logger
}

// NewSendInput returns the Windows emitter.
func NewSendInput(logger *slog.Logger) *SendInput {
	return &SendInput{logger: logger}
}

// Key presses or releases a virtual key.
func (s *SendInput) Key(k Key, down bool) error {
	rec := keyboardRecord{Type: inputKeyboard, Ki: keyboardInput{Vk: uint16(k)}}
	if !down {
		rec.Ki.Flags = keyEventKeyUp
	}
	if err := send(unsafe.Pointer(&rec), unsafe.Sizeof(rec)); err != nil {
		return &Error{Op: "key", Key: k, Down: down, Err: err}
	}
	s.logger.Log(context.Background(), log.LevelTrace, "Key", "key", k, "down", down)
	return nil
}

// MouseClick holds the primary mouse button for hold, honoring swapped
// buttons.
func (s *SendInput) MouseClick(hold time.Duration) error {
	down, up := uint32(mouseLeftDown), uint32(mouseLeftUp)
	if swapped, _, _ := procGetSystemMetrics.Call(smSwapButton); swapped != 0 {
		down, up = mouseRightDown, mouseRightUp
	}
	press := mouseRecord{Type: inputMouse, Mi: mouseInput{Flags: down}}
	if err := send(unsafe.Pointer(&press), unsafe.Sizeof(press)); err != nil {
		return &Error{Op: "click", Hold: hold, Err: err}
	}
	time.Sleep(hold)
	release := mouseRecord{Type: inputMouse, Mi: mouseInput{Flags: up}}
	if err := send(unsafe.Pointer(&release), unsafe.Sizeof(release)); err != nil {
		return &Error{Op: "click", Hold: hold, Err: err}
	}
	s.logger.Debug("Mouse click", "hold", hold)
	return nil
}

func send(rec unsafe.Pointer, size uintptr) error {
	if err := procSendInput.Find(); err != nil {
		return err
	}
	n, _, err := procSendInput.Call(1, uintptr(rec), size)
	if n != 1 {
		return err
	}
	return nil
}
