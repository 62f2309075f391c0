package controller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Alia5/stratapad/internal/log"
)

// DefaultPollInterval matches the native 125 Hz polling rate of an Xbox controller.
const DefaultPollInterval = 8 * time.Millisecond

// ErrNotConnected is returned by a Source when no controller answers the query.
var ErrNotConnected = errors.New("controller not connected")

// Source reads the current raw state of a controller.
type Source interface {
	State() (Sample, error)
}

// Poller samples a Source at a fixed rate and hands every edge event to a
// handler. A failed poll is skipped: the previous sample is kept and nothing
// is emitted.
type Poller struct {
	src      Source
	interval time.Duration
	handler  func(Event)
	logger   *slog.Logger
	raw      log.RawLogger

	last      Sample
	connected bool
}

// NewPoller creates a Poller. A zero interval selects DefaultPollInterval.
func NewPoller(src Source, interval time.Duration, handler func(Event), logger *slog.Logger, raw log.RawLogger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Poller{
		src:      src,
		interval: interval,
		handler:  handler,
		logger:   logger,
		raw:      raw,
	}
}

// Run polls until ctx is cancelled. The handler is called synchronously on the
// polling goroutine, so events arrive one at a time and in order.
func (p *Poller) Run(ctx context.Context) error {
	if s, err := p.src.State(); err == nil {
		p.last = s
		p.setConnected(true)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("Controller polling started", "interval", p.interval)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Controller polling stopped")
			return nil
		case <-ticker.C:
			if ev, ok := p.Poll(); ok && p.handler != nil {
				p.handler(ev)
			}
		}
	}
}

// Poll performs a single sampling step.
func (p *Poller) Poll() (Event, bool) {
	cur, err := p.src.State()
	if err != nil {
		if !errors.Is(err, ErrNotConnected) {
			p.logger.Debug("controller poll failed", "error", err)
		}
		p.setConnected(false)
		return Event{}, false
	}
	p.setConnected(true)

	ev, changed := Diff(p.last, cur)
	p.last = cur
	if !changed {
		return Event{}, false
	}

	if b, err := cur.MarshalBinary(); err == nil {
		p.raw.Log(b, ev.String())
	}
	p.logger.Log(context.Background(), log.LevelTrace, "controller event", "held", ev.Held, "added", ev.Added, "removed", ev.Removed)
	return ev, true
}

func (p *Poller) setConnected(c bool) {
	if p.connected == c {
		return
	}
	p.connected = c
	if c {
		p.logger.Info("Controller connected")
	} else {
		p.logger.Warn("Controller disconnected")
	}
}
