package loadout

import (
	"log/slog"
	"sync"
	"time"
)

// Stopper cancels a pending timer. It matches *time.Timer.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once wrapped.
type AfterFunc func(d time.Duration, f func()) Stopper

func realAfterFunc(d time.Duration, f func()) Stopper { return time.AfterFunc(d, f) }

// ExpiryTimer keeps a single one-shot timer armed for the soonest cooldown
// end in a Model and calls notify whenever it fires.
type ExpiryTimer struct {
	mu     sync.Mutex
	model  *Model
	after  AfterFunc
	notify func()
	logger *slog.Logger
	timer  Stopper
	// gen identifies the current arming; fires from older armings are
	// dropped.
	gen uint64
}

// NewExpiryTimer creates an unarmed timer. A nil after uses time.AfterFunc.
func NewExpiryTimer(model *Model, notify func(), logger *slog.Logger, after AfterFunc) *ExpiryTimer {
	if after == nil {
		after = realAfterFunc
	}
	if notify == nil {
		notify = func() {}
	}
	return &ExpiryTimer{model: model, after: after, notify: notify, logger: logger}
}

// Rearm cancels any pending timer and schedules a new one for the shortest
// positive remaining cooldown. Nothing is scheduled when every slot is idle.
func (e *ExpiryTimer) Rearm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rearmLocked()
}

func (e *ExpiryTimer) rearmLocked() {
	e.stopLocked()
	d, ok := e.model.ShortestRemaining()
	if !ok {
		return
	}
	gen := e.gen
	e.logger.Debug("Arm cooldown timer", "in", d)
	e.timer = e.after(d, func() { e.fire(gen) })
}

func (e *ExpiryTimer) stopLocked() {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// Stop cancels the pending timer, if any.
func (e *ExpiryTimer) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *ExpiryTimer) fire(gen uint64) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		e.logger.Debug("Dropped stale cooldown timer")
		return
	}
	e.timer = nil
	e.rearmLocked()
	e.mu.Unlock()
	e.logger.Debug("Cooldown expired")
	e.notify()
}
