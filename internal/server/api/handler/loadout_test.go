package handler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/stratapad/apiclient"
	"github.com/Alia5/stratapad/apitypes"
	"github.com/Alia5/stratapad/dispatch"
	"github.com/Alia5/stratapad/internal/server/api"
	"github.com/Alia5/stratapad/internal/server/api/handler"
	handlerTest "github.com/Alia5/stratapad/internal/testing"
	"github.com/Alia5/stratapad/loadout"
)

func startEngineAPI(t *testing.T) (*dispatch.Engine, *handlerTest.RecordingEmitter, string) {
	t.Helper()
	e, emit := handlerTest.NewEngine(t)
	addr, done := handlerTest.StartAPIServer(t, func(r *api.Router, _ *api.Server) {
		handler.Register(r, e)
	})
	t.Cleanup(done)
	return e, emit, addr
}

func slotByButton(t *testing.T, r *apitypes.LoadoutResponse, button string) apitypes.Slot {
	t.Helper()
	for _, s := range r.Slots {
		if s.Button == button {
			return s
		}
	}
	t.Fatalf("slot %s missing", button)
	return apitypes.Slot{}
}

func TestLoadoutEmpty(t *testing.T) {
	_, _, addr := startEngineAPI(t)

	r, err := apiclient.New(addr).Loadout()
	require.NoError(t, err)
	require.Len(t, r.Slots, loadout.NumSlots)
	for i, s := range r.Slots {
		assert.Equal(t, loadout.Slots[i].String(), s.Button)
		assert.Empty(t, s.Name)
		assert.Nil(t, s.RemainingSeconds)
	}
}

func TestLoadoutSet(t *testing.T) {
	tests := []struct {
		name    string
		cmd     string
		want    string
		wantErr string
	}{
		{name: "multi word name", cmd: "loadout/x/set Orbital Laser", want: `"name":"Orbital Laser"`},
		{name: "button alias", cmd: "loadout/buttony/set Epoch", want: `"name":"Epoch"`},
		{name: "unknown name", cmd: "loadout/a/set Orbital Nope", wantErr: "unknown stratagem"},
		{name: "unknown slot", cmd: "loadout/z/set Epoch", wantErr: "unknown slot"},
		{name: "missing name", cmd: "loadout/a/set", wantErr: "missing stratagem name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, addr := startEngineAPI(t)
			line := handlerTest.ExecCmd(t, addr, tt.cmd)
			if tt.wantErr != "" {
				assert.Contains(t, line, `"error"`)
				assert.Contains(t, line, tt.wantErr)
				return
			}
			assert.Contains(t, line, tt.want)
		})
	}
}

func TestLoadoutSetAndClear(t *testing.T) {
	e, _, addr := startEngineAPI(t)
	c := apiclient.New(addr)

	r, err := c.SetSlot("X", "Orbital Laser")
	require.NoError(t, err)
	x := slotByButton(t, r, "X")
	assert.Equal(t, "Orbital Laser", x.Name)
	assert.Equal(t, []string{"Right", "Down", "Up", "Right", "Down"}, x.Code)
	assert.Equal(t, []string{"Orbital Laser"}, e.Model().Names())

	r, err = c.SetSlot("X", "")
	require.NoError(t, err)
	assert.Empty(t, slotByButton(t, r, "X").Name)
	assert.Empty(t, e.Model().Names())
}

func TestCooldownsClear(t *testing.T) {
	e, _, addr := startEngineAPI(t)
	require.NoError(t, e.SetSlot(loadout.SlotY, "Orbital Laser"))
	e.Model().ActivateCooldown(loadout.SlotY)
	require.True(t, e.Model().IsOnCooldown(loadout.SlotY))

	c := apiclient.New(addr)
	r, err := c.Loadout()
	require.NoError(t, err)
	y := slotByButton(t, r, "Y")
	require.NotNil(t, y.RemainingSeconds)
	assert.Greater(t, *y.RemainingSeconds, 300)

	r, err = c.ClearCooldowns()
	require.NoError(t, err)
	assert.Nil(t, slotByButton(t, r, "Y").RemainingSeconds)
	assert.False(t, e.Model().IsOnCooldown(loadout.SlotY))
}

func TestResyncRoute(t *testing.T) {
	_, emit, addr := startEngineAPI(t)

	r, err := apiclient.New(addr).Resync()
	require.NoError(t, err)
	assert.True(t, r.Started)
	assert.Equal(t, []string{"B-down", "B-up", "B-down", "B-up"}, emit.Snapshot())
}

func TestStratagems(t *testing.T) {
	_, _, addr := startEngineAPI(t)

	r, err := apiclient.New(addr).Stratagems()
	require.NoError(t, err)
	require.Len(t, r.Stratagems, 4)
	assert.Equal(t, "Orbital Laser", r.Stratagems[0].Name)
	assert.Equal(t, "Orbital", r.Stratagems[0].Deployment)
	assert.Equal(t, 300, r.Stratagems[0].CooldownSeconds)
	assert.Equal(t, 3, r.Stratagems[1].DeploySeconds)
}

func TestUnknownPath(t *testing.T) {
	_, _, addr := startEngineAPI(t)
	assert.Equal(t, `{"error":"unknown path"}`, handlerTest.ExecCmd(t, addr, "bus/list"))
}

func TestEventsStream(t *testing.T) {
	e, _, addr := startEngineAPI(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan apitypes.Event, 8)
	go func() {
		_ = apiclient.New(addr).Events(ctx, func(ev apitypes.Event) error {
			events <- ev
			return nil
		})
	}()

	next := func() apitypes.Event {
		select {
		case ev := <-events:
			return ev
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
			return apitypes.Event{}
		}
	}

	assert.Equal(t, "subscribed", next().Event)
	e.ClearCooldowns()
	ev := next()
	assert.Equal(t, "loadout", ev.Event)
	assert.Equal(t, "clear", ev.Reason)
	assert.NotEmpty(t, ev.At)
}
