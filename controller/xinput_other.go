//go:build !windows

package controller

import (
	"errors"
	"fmt"
)

// XInput is only backed by a real device on Windows.
type XInput struct {
	index uint32
}

// NewXInput returns a Source that never finds a controller on this platform.
func NewXInput(index uint32) *XInput {
	return &XInput{index: index}
}

// State always reports ErrNotConnected.
func (x *XInput) State() (Sample, error) {
	return Sample{}, fmt.Errorf("%w: %w", ErrNotConnected, errors.ErrUnsupported)
}
