package testing

import (
	"image"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Alia5/stratapad/dispatch"
	"github.com/Alia5/stratapad/identify"
	"github.com/Alia5/stratapad/input"
	"github.com/Alia5/stratapad/loadout"
	"github.com/Alia5/stratapad/stratagem"
)

// RecordingEmitter records emitted input instead of sending it.
type RecordingEmitter struct {
	mu     sync.Mutex
	Events []string
}

func (r *RecordingEmitter) Key(k input.Key, down bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if down {
		r.Events = append(r.Events, k.String()+"-down")
	} else {
		r.Events = append(r.Events, k.String()+"-up")
	}
	return nil
}

func (r *RecordingEmitter) MouseClick(hold time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, "click "+hold.String())
	return nil
}

// Sleep records a wait instead of sleeping.
func (r *RecordingEmitter) Sleep(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, "wait "+d.String())
}

// Take returns the recorded events and clears them.
func (r *RecordingEmitter) Take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.Events
	r.Events = nil
	return out
}

// Snapshot returns a copy of the recorded events.
func (r *RecordingEmitter) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Events...)
}

type blankCapturer struct{}

func (blankCapturer) Capture() (image.Image, error) {
	return image.NewNRGBA(image.Rect(0, 0, 1920, 1080)), nil
}

// Library returns a small definition library for tests.
func Library(t *testing.T) *stratagem.Library {
	t.Helper()
	lib, err := stratagem.NewLibrary([]stratagem.Definition{
		{Name: "Orbital Laser", Code: []stratagem.Direction{stratagem.Right, stratagem.Down, stratagem.Up, stratagem.Right, stratagem.Down}, Category: stratagem.Offensive, Deployment: stratagem.Orbital, Position: 1, Cooldown: 300 * time.Second},
		{Name: "Epoch", Code: []stratagem.Direction{stratagem.Down, stratagem.Left, stratagem.Up, stratagem.Left, stratagem.Right}, Category: stratagem.Supply, Deployment: stratagem.Weapon, Position: 1, DeployTime: 3 * time.Second, Cooldown: 480 * time.Second},
		{Name: "Shield Generator Pack", Code: []stratagem.Direction{stratagem.Down, stratagem.Up, stratagem.Left, stratagem.Right, stratagem.Left, stratagem.Right}, Category: stratagem.Supply, Deployment: stratagem.Backpack, Position: 2, DeployTime: 3 * time.Second, Cooldown: 480 * time.Second},
		{Name: "Anti-Personnel Minefield", Code: []stratagem.Direction{stratagem.Down, stratagem.Left, stratagem.Up, stratagem.Right}, Category: stratagem.Defensive, Deployment: stratagem.Ground, Position: 1, DeployTime: 3 * time.Second, Cooldown: 180 * time.Second},
	})
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	return lib
}

// NewEngine builds an engine that never touches the OS: input is recorded,
// waits are skipped, tasks run inline and captures are blank.
func NewEngine(t *testing.T) (*dispatch.Engine, *RecordingEmitter) {
	t.Helper()
	emit := &RecordingEmitter{}
	dir := t.TempDir()
	lib := Library(t)
	e := dispatch.NewEngine(dispatch.Deps{
		Library:    lib,
		Store:      loadout.NewStore(filepath.Join(dir, loadout.StoreFileName)),
		Emitter:    emit,
		Capturer:   blankCapturer{},
		Identifier: identify.NewIdentifier(identify.NewLibrary(filepath.Join(dir, "icons")), slog.Default()),
		Sleep:      func(time.Duration) {},
		Launch:     dispatch.SyncLauncher(slog.Default()),
	}, slog.Default())
	t.Cleanup(e.Close)
	return e, emit
}
