package controller

import (
	"encoding/binary"
	"io"
)

// SampleSize is the size of the Sample wire form.
const SampleSize = 4

// Sample is one raw controller poll: the digital button mask and both analog
// trigger bytes. Stick axes are not part of the sample.
//
// Wire layout (used by the raw sample log):
//
//	Buttons: 2 bytes (LE uint16)
//	LT: 1 byte
//	RT: 1 byte
type Sample struct {
	Buttons uint16
	LT, RT  uint8
}

// MarshalBinary encodes Sample to 4 bytes.
func (s Sample) MarshalBinary() ([]byte, error) {
	b := make([]byte, SampleSize)
	binary.LittleEndian.PutUint16(b[0:2], s.Buttons)
	b[2] = s.LT
	b[3] = s.RT
	return b, nil
}

// UnmarshalBinary decodes 4 bytes into Sample.
func (s *Sample) UnmarshalBinary(data []byte) error {
	if len(data) < SampleSize {
		return io.ErrUnexpectedEOF
	}
	s.Buttons = binary.LittleEndian.Uint16(data[0:2])
	s.LT = data[2]
	s.RT = data[3]
	return nil
}

// Held returns every token currently down, triggers included.
func (s Sample) Held() Set {
	held := SetFromButtons(s.Buttons)
	if s.LT > TriggerThreshold {
		held = held.With(LeftTrigger)
	}
	if s.RT > TriggerThreshold {
		held = held.With(RightTrigger)
	}
	return held
}
