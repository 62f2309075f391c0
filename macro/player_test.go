package macro_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/stratapad/input"
	"github.com/Alia5/stratapad/loadout"
	"github.com/Alia5/stratapad/macro"
	"github.com/Alia5/stratapad/stratagem"
)

// recorder logs emissions and waits into one ordered trace.
type recorder struct {
	trace  []string
	failOn string
}

func (r *recorder) Key(k input.Key, down bool) error {
	ev := fmt.Sprintf("%s-up", k)
	if down {
		ev = fmt.Sprintf("%s-down", k)
	}
	if ev == r.failOn {
		return &input.Error{Op: "key", Key: k, Down: down, Err: errors.New("boom")}
	}
	r.trace = append(r.trace, ev)
	return nil
}

func (r *recorder) MouseClick(hold time.Duration) error {
	r.trace = append(r.trace, "click "+hold.String())
	return nil
}

func (r *recorder) sleep(d time.Duration) {
	r.trace = append(r.trace, "wait "+d.String())
}

func newPlayer(r *recorder) *macro.Player {
	return macro.NewPlayer(r, slog.New(slog.NewTextHandler(io.Discard, nil)), r.sleep)
}

func TestPlay(t *testing.T) {
	tests := []struct {
		name    string
		code    []stratagem.Direction
		standUp bool
		want    []string
	}{
		{
			name: "left right",
			code: []stratagem.Direction{stratagem.Left, stratagem.Right},
			want: []string{
				"LeftCtrl-down",
				"wait 50ms", "Left-down", "wait 25ms", "Left-up",
				"wait 50ms", "Right-down", "wait 25ms", "Right-up",
				"wait 25ms", "LeftCtrl-up",
			},
		},
		{
			name:    "stand up first",
			code:    []stratagem.Direction{stratagem.Down},
			standUp: true,
			want: []string{
				"C-down", "wait 25ms", "C-up", "wait 50ms",
				"LeftCtrl-down",
				"wait 50ms", "Down-down", "wait 25ms", "Down-up",
				"wait 25ms", "LeftCtrl-up",
			},
		},
		{
			name: "empty code still toggles the modifier",
			want: []string{"LeftCtrl-down", "wait 25ms", "LeftCtrl-up"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			require.NoError(t, newPlayer(r).Play(tt.code, tt.standUp))
			assert.Equal(t, tt.want, r.trace)
		})
	}
}

func TestPlay_AbortsOnError(t *testing.T) {
	r := &recorder{failOn: "Up-up"}
	err := newPlayer(r).Play([]stratagem.Direction{stratagem.Up, stratagem.Down}, false)

	var ie *input.Error
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, input.KeyUp, ie.Key)
	assert.Equal(t, []string{"LeftCtrl-down", "wait 50ms", "Up-down", "wait 25ms"}, r.trace)
}

func TestTapAndClick(t *testing.T) {
	r := &recorder{}
	p := newPlayer(r)
	require.NoError(t, p.Tap(input.KeyB))
	require.NoError(t, p.Click(2500*time.Millisecond))
	assert.Equal(t, []string{"B-down", "wait 25ms", "B-up", "click 2.5s"}, r.trace)
}

func TestUtilityFor(t *testing.T) {
	assert.Equal(t, "Hellbomb", macro.UtilityFor(loadout.SlotA).Name)
	assert.Equal(t, []stratagem.Direction{stratagem.Up, stratagem.Up, stratagem.Left, stratagem.Up, stratagem.Right},
		macro.UtilityFor(loadout.SlotB).Code)
	assert.Equal(t, "Resupply", macro.UtilityFor(loadout.SlotX).Name)
	assert.Len(t, macro.UtilityFor(loadout.SlotY).Code, 5)
}
