package dispatch_test

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/stratapad/controller"
	"github.com/Alia5/stratapad/dispatch"
	"github.com/Alia5/stratapad/identify"
	handlerTest "github.com/Alia5/stratapad/internal/testing"
	"github.com/Alia5/stratapad/loadout"
	"github.com/Alia5/stratapad/stratagem"
)

type manualTimer struct{ stopped bool }

func (m *manualTimer) Stop() bool {
	was := !m.stopped
	m.stopped = true
	return was
}

type harness struct {
	engine *dispatch.Engine
	rec    *handlerTest.RecordingEmitter
	now    time.Time
	timers []time.Duration
	store  *loadout.Store
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

var testDefs = []stratagem.Definition{
	{Name: "Left Right", Code: []stratagem.Direction{stratagem.Left, stratagem.Right}, Category: stratagem.Offensive, Deployment: stratagem.Ground, Position: 1, DeployTime: 5 * time.Second, Cooldown: 10 * time.Second},
	{Name: "Backpack", Code: []stratagem.Direction{stratagem.Down}, Category: stratagem.Supply, Deployment: stratagem.Backpack, Position: 1, Cooldown: 60 * time.Second},
	{Name: "Epoch", Code: []stratagem.Direction{stratagem.Down, stratagem.Left, stratagem.Up, stratagem.Left, stratagem.Right}, Category: stratagem.Supply, Deployment: stratagem.Weapon, Position: 2, Cooldown: 480 * time.Second},
	{Name: "Laser", Code: []stratagem.Direction{stratagem.Right, stratagem.Down}, Category: stratagem.Offensive, Deployment: stratagem.Orbital, Position: 2, Cooldown: 300 * time.Second},
}

func newHarness(t *testing.T, capture image.Image, refs ...identify.Reference) *harness {
	t.Helper()
	lib, err := stratagem.NewLibrary(testDefs)
	require.NoError(t, err)

	h := &harness{
		rec:   &handlerTest.RecordingEmitter{},
		now:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		store: loadout.NewStore(filepath.Join(t.TempDir(), loadout.StoreFileName)),
	}
	icons := identify.NewLibrary(t.TempDir(), refs...)
	h.engine = dispatch.NewEngine(dispatch.Deps{
		Library:    lib,
		Store:      h.store,
		Emitter:    h.rec,
		Capturer:   staticCapture{capture},
		Identifier: identify.NewIdentifier(icons, discard()),
		Now:        func() time.Time { return h.now },
		Sleep:      h.rec.Sleep,
		After: func(d time.Duration, _ func()) loadout.Stopper {
			h.timers = append(h.timers, d)
			return &manualTimer{}
		},
		Launch: dispatch.SyncLauncher(discard()),
	}, discard())
	return h
}

func (h *harness) set(t *testing.T, slot loadout.Slot, name string) {
	t.Helper()
	require.NoError(t, h.engine.SetSlot(slot, name))
	h.rec.Take()
}

type staticCapture struct{ img image.Image }

func (s staticCapture) Capture() (image.Image, error) {
	if s.img == nil {
		return nil, fmt.Errorf("no capture")
	}
	return s.img, nil
}

func ev(held, added, removed []controller.Token) controller.Event {
	return controller.Event{
		Held:    controller.NewSet(held...),
		Added:   controller.NewSet(added...),
		Removed: controller.NewSet(removed...),
	}
}

var (
	lb = controller.LeftBumper
	rb = controller.RightBumper
	lt = controller.LeftTrigger
	rt = controller.RightTrigger
	a  = controller.ButtonA
	b  = controller.ButtonB
	x  = controller.ButtonX
	y  = controller.ButtonY
)

func TestHandle_PlaysSlotMacro(t *testing.T) {
	h := newHarness(t, nil)
	h.set(t, loadout.SlotA, "Left Right")

	h.engine.Handle(ev([]controller.Token{lb, a}, []controller.Token{a}, nil))

	assert.Equal(t, []string{
		"LeftCtrl-down",
		"wait 50ms", "Left-down", "wait 25ms", "Left-up",
		"wait 50ms", "Right-down", "wait 25ms", "Right-up",
		"wait 25ms", "LeftCtrl-up",
	}, h.rec.Take())
	assert.Equal(t, dispatch.State{
		MacroLocked:   true,
		ReadyToDeploy: true,
		ActiveSlot:    loadout.SlotA,
		HasActiveSlot: true,
	}, h.engine.Dispatcher().State())
}

func TestHandle_StandUpOnB(t *testing.T) {
	h := newHarness(t, nil)
	h.set(t, loadout.SlotB, "Backpack")

	h.engine.Handle(ev([]controller.Token{lb, b}, []controller.Token{b}, nil))
	trace := h.rec.Take()
	require.NotEmpty(t, trace)
	assert.Equal(t, []string{"C-down", "wait 25ms", "C-up", "wait 50ms", "LeftCtrl-down"}, trace[:5])
}

func TestHandle_MacroLatch(t *testing.T) {
	h := newHarness(t, nil)
	h.set(t, loadout.SlotA, "Left Right")
	h.set(t, loadout.SlotX, "Epoch")

	h.engine.Handle(ev([]controller.Token{lb, a}, []controller.Token{a}, nil))
	require.NotEmpty(t, h.rec.Take())

	// Still holding LB: a second face press is ignored.
	h.engine.Handle(ev([]controller.Token{lb, x}, []controller.Token{x}, []controller.Token{a}))
	assert.Empty(t, h.rec.Take())

	// Fresh LB press resets the latch and cancels the pending deployment.
	h.engine.Handle(ev([]controller.Token{lb}, []controller.Token{lb}, []controller.Token{x}))
	st := h.engine.Dispatcher().State()
	assert.False(t, st.MacroLocked)
	assert.False(t, st.ReadyToDeploy)

	h.engine.Handle(ev([]controller.Token{lb, x}, []controller.Token{x}, nil))
	assert.NotEmpty(t, h.rec.Take())
	assert.Equal(t, loadout.SlotX, h.engine.Dispatcher().State().ActiveSlot)
}

func TestHandle_ChordShape(t *testing.T) {
	tests := []struct {
		name string
		ev   controller.Event
	}{
		{name: "no bumper", ev: ev([]controller.Token{a}, []controller.Token{a}, nil)},
		{name: "two face buttons", ev: ev([]controller.Token{lb, a, x}, []controller.Token{a}, nil)},
		{name: "extra button held", ev: ev([]controller.Token{lb, a, controller.DPadUp}, []controller.Token{a}, nil)},
		{name: "face not just pressed", ev: ev([]controller.Token{lb, a}, []controller.Token{lb}, nil)},
		{name: "empty slot", ev: ev([]controller.Token{lb, y}, []controller.Token{y}, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.set(t, loadout.SlotA, "Left Right")
			h.engine.Handle(tt.ev)
			assert.Empty(t, h.rec.Take())
			assert.False(t, h.engine.Dispatcher().State().ReadyToDeploy)
		})
	}
}

func TestHandle_UtilityMacro(t *testing.T) {
	h := newHarness(t, nil)

	h.engine.Handle(ev([]controller.Token{lb, rb, y}, []controller.Token{y}, nil))
	trace := h.rec.Take()
	// Reinforce: up down right left up.
	assert.Equal(t, "Up-down", trace[2])
	assert.Contains(t, trace, "Left-down")
	st := h.engine.Dispatcher().State()
	assert.True(t, st.MacroLocked)
	assert.False(t, st.ReadyToDeploy)
	assert.False(t, st.HasActiveSlot)
}

func TestHandle_CooldownCommit(t *testing.T) {
	h := newHarness(t, nil)
	h.set(t, loadout.SlotA, "Left Right")
	changes, cancel := h.engine.Subscribe()
	defer cancel()

	h.engine.Handle(ev([]controller.Token{lb, a}, []controller.Token{a}, nil))
	h.rec.Take()
	h.engine.Handle(ev([]controller.Token{rt}, []controller.Token{rt}, []controller.Token{lb, a}))
	assert.False(t, h.engine.Model().IsOnCooldown(loadout.SlotA))

	h.engine.Handle(ev(nil, nil, []controller.Token{rt}))
	assert.True(t, h.engine.Model().IsOnCooldown(loadout.SlotA))
	assert.False(t, h.engine.Dispatcher().State().ReadyToDeploy)
	require.NotEmpty(t, h.timers)
	assert.Equal(t, 17500*time.Millisecond, h.timers[len(h.timers)-1])

	select {
	case c := <-changes:
		assert.Equal(t, "cooldown", c.Reason)
	default:
		t.Fatal("expected change notification")
	}

	// A second release does not commit again.
	h.now = h.now.Add(time.Second)
	h.engine.Handle(ev(nil, nil, []controller.Token{rt}))
	rem := h.engine.Model().RemainingCooldowns()
	require.NotNil(t, rem[loadout.SlotA])
	assert.Equal(t, 16, *rem[loadout.SlotA])
}

func TestHandle_CancelledDeploymentNeverCommits(t *testing.T) {
	h := newHarness(t, nil)
	h.set(t, loadout.SlotA, "Left Right")

	h.engine.Handle(ev([]controller.Token{lb, a}, []controller.Token{a}, nil))
	h.engine.Handle(ev([]controller.Token{y}, []controller.Token{y}, []controller.Token{lb, a}))
	h.engine.Handle(ev(nil, nil, []controller.Token{y, rt}))
	assert.False(t, h.engine.Model().IsOnCooldown(loadout.SlotA))
}

func TestHandle_WeaponAssist(t *testing.T) {
	h := newHarness(t, nil)

	h.engine.Handle(ev([]controller.Token{lt, a}, []controller.Token{a}, nil))
	assert.Empty(t, h.rec.Take())

	h.set(t, loadout.SlotX, "Epoch")
	h.set(t, loadout.SlotA, "Left Right")
	h.engine.Handle(ev([]controller.Token{lt, a}, []controller.Token{a}, nil))
	assert.Equal(t, []string{"click 2.5s"}, h.rec.Take())

	// Assist wins over the macro chord even with the bumper held.
	h.engine.Handle(ev([]controller.Token{lb, lt, a}, []controller.Token{a}, nil))
	assert.Equal(t, []string{"click 2.5s"}, h.rec.Take())
	assert.False(t, h.engine.Dispatcher().State().MacroLocked)
}

func solidIcon(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 70, 70))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func loadoutScreen(colors [4]color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1920, 1080))
	regions := [4]image.Rectangle{
		image.Rect(60, 842, 130, 912),
		image.Rect(145, 842, 215, 912),
		image.Rect(230, 842, 300, 912),
		image.Rect(315, 842, 385, 912),
	}
	for i, r := range regions {
		for yy := r.Min.Y; yy < r.Max.Y; yy++ {
			for xx := r.Min.X; xx < r.Max.X; xx++ {
				img.SetNRGBA(xx, yy, colors[i])
			}
		}
	}
	return img
}

func TestResync(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	h := newHarness(t, loadoutScreen([4]color.NRGBA{red, green, blue, white}),
		identify.Reference{Name: "Left Right", Image: solidIcon(red)},
		identify.Reference{Name: "Epoch", Image: solidIcon(green)},
		identify.Reference{Name: "Laser", Image: solidIcon(blue)},
	)
	h.set(t, loadout.SlotA, "Backpack")
	h.engine.Model().ActivateCooldown(loadout.SlotA)

	// LT+RT held, Y pressed.
	h.engine.Handle(ev([]controller.Token{lt, rt, y}, []controller.Token{y}, nil))

	m := h.engine.Model()
	assert.Equal(t, "Left Right", m.Get(loadout.SlotA).Name)
	assert.Nil(t, m.Get(loadout.SlotB))
	assert.Equal(t, "Epoch", m.Get(loadout.SlotX).Name)
	assert.Equal(t, "Laser", m.Get(loadout.SlotY).Name)
	for _, s := range loadout.Slots {
		assert.False(t, m.IsOnCooldown(s))
	}

	saved, err := h.store.Load()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Left Right", "Epoch", "Laser"}, saved)

	assert.Equal(t, []string{"B-down", "wait 25ms", "B-up", "wait 250ms", "B-down", "wait 25ms", "B-up"}, h.rec.Take())
}

func TestResync_SameSetKeepsOrder(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	black := color.NRGBA{A: 255}

	h := newHarness(t, loadoutScreen([4]color.NRGBA{red, blue, black, black}),
		identify.Reference{Name: "Left Right", Image: solidIcon(red)},
		identify.Reference{Name: "Laser", Image: solidIcon(blue)},
	)
	// User placed these on non-default buttons.
	h.set(t, loadout.SlotB, "Left Right")
	h.set(t, loadout.SlotX, "Laser")

	res, err := h.engine.ResyncNow()
	require.NoError(t, err)
	assert.False(t, res.Reassigned)
	assert.Equal(t, [4]string{"Left Right", "Laser", "_thirdUnknownStratagem", "_fourthUnknownStratagem"}, res.Identified)
	assert.Len(t, res.Placeholders, 2)
	assert.Equal(t, "Left Right", h.engine.Model().Get(loadout.SlotB).Name)
	assert.Equal(t, "Laser", h.engine.Model().Get(loadout.SlotX).Name)
}

func TestResync_CaptureFailure(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.engine.ResyncNow()
	assert.Error(t, err)
	assert.Empty(t, h.rec.Take())
}

func TestEngine_RestoreAndSetSlot(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.store.Save([]string{"Laser", "Left Right", "Unknown"}))
	require.NoError(t, h.engine.Restore())

	m := h.engine.Model()
	assert.Equal(t, "Left Right", m.Get(loadout.SlotA).Name)
	assert.Equal(t, "Laser", m.Get(loadout.SlotY).Name)

	assert.ErrorIs(t, h.engine.SetSlot(loadout.SlotB, "Nope"), stratagem.ErrUnknown)
	require.NoError(t, h.engine.SetSlot(loadout.SlotA, ""))
	assert.Nil(t, m.Get(loadout.SlotA))

	saved, err := h.store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Laser"}, saved)

	m.Set(loadout.SlotY, &testDefs[3])
	m.ActivateCooldown(loadout.SlotY)
	h.engine.ClearCooldowns()
	assert.False(t, m.IsOnCooldown(loadout.SlotY))
}
