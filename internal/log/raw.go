package log

import (
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger dumps raw controller samples for troubleshooting input mapping.
type RawLogger interface {
	// Log writes one sample in its wire form together with a decoded note.
	Log(data []byte, note string)
}

type rawLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewRaw returns a RawLogger writing to w. A nil writer yields a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	if w == nil {
		return noopRaw{}
	}
	return &rawLogger{w: w}
}

func (r *rawLogger) Log(data []byte, note string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.w, "%s %s %s\n", time.Now().Format("15:04:05.000000"), hex.EncodeToString(data), note)
}

type noopRaw struct{}

func (noopRaw) Log([]byte, string) {}
