//go:build !windows

package input

import (
	"errors"
	"log/slog"
	"time"
)

// SendInput has no backend on this platform; every call fails.
type SendInput struct {
	logger *slog.Logger
}

// NewSendInput returns an emitter that reports errors.ErrUnsupported.
func NewSendInput(logger *slog.Logger) *SendInput {
	return &SendInput{logger: logger}
}

// Key always fails.
func (s *SendInput) Key(k Key, down bool) error {
	return &Error{Op: "key", Key: k, Down: down, Err: errors.ErrUnsupported}
}

// MouseClick always fails.
func (s *SendInput) MouseClick(hold time.Duration) error {
	return &Error{Op: "click", Hold: hold, Err: errors.ErrUnsupported}
}
