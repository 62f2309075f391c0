package controller_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/stratapad/controller"
)

type scriptedSource struct {
	mu    sync.Mutex
	steps []scriptStep
}

type scriptStep struct {
	s   controller.Sample
	err error
}

func (f *scriptedSource) State() (controller.Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.steps) == 0 {
		return controller.Sample{}, controller.ErrNotConnected
	}
	st := f.steps[0]
	f.steps = f.steps[1:]
	return st.s, st.err
}

func TestPoller_Poll(t *testing.T) {
	a := controller.Sample{Buttons: uint16(controller.BtnA)}
	src := &scriptedSource{steps: []scriptStep{
		{s: a},
		{err: controller.ErrNotConnected},
		{s: a},
		{s: controller.Sample{}},
	}}
	p := controller.NewPoller(src, 0, nil, slog.Default(), nil)

	ev, ok := p.Poll()
	require.True(t, ok)
	assert.Equal(t, controller.NewSet(controller.ButtonA), ev.Added)

	_, ok = p.Poll()
	assert.False(t, ok, "failed poll emits nothing")

	_, ok = p.Poll()
	assert.False(t, ok, "previous sample retained across a failed poll")

	ev, ok = p.Poll()
	require.True(t, ok)
	assert.Equal(t, controller.NewSet(controller.ButtonA), ev.Removed)
}

func TestPoller_Run(t *testing.T) {
	src := &scriptedSource{steps: []scriptStep{
		{s: controller.Sample{}},
		{s: controller.Sample{RT: 200}},
		{s: controller.Sample{RT: 220}},
		{s: controller.Sample{}},
	}}

	var mu sync.Mutex
	var got []controller.Event
	p := controller.NewPoller(src, time.Millisecond, func(ev controller.Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	}, slog.Default(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, p.Run(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 3)
	assert.True(t, got[0].Added.Has(controller.RightTrigger))
	// value moved while above the threshold: held only
	assert.True(t, got[1].Held.Has(controller.RightTrigger))
	assert.True(t, got[1].Added.Empty())
	assert.True(t, got[1].Removed.Empty())
	assert.True(t, got[2].Removed.Has(controller.RightTrigger))
}
