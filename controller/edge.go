package controller

import "fmt"

// Event is the semantic difference between two consecutive samples.
// Added and Removed are always disjoint.
type Event struct {
	Held    Set
	Added   Set
	Removed Set
}

func (e Event) String() string {
	return fmt.Sprintf("held=%s added=%s removed=%s", e.Held, e.Added, e.Removed)
}

// Diff compares two samples. It reports false, and no event, when the button
// mask and both trigger bytes are unchanged.
func Diff(prev, cur Sample) (Event, bool) {
	if prev == cur {
		return Event{}, false
	}

	ev := Event{
		Held:    SetFromButtons(cur.Buttons),
		Added:   SetFromButtons(cur.Buttons &^ prev.Buttons),
		Removed: SetFromButtons(prev.Buttons &^ cur.Buttons),
	}

	ev = diffTrigger(ev, LeftTrigger, prev.LT, cur.LT)
	ev = diffTrigger(ev, RightTrigger, prev.RT, cur.RT)
	return ev, true
}

// diffTrigger applies threshold hysteresis for one analog trigger. A trigger
// that stays above the threshold while its value moves is held, not re-added.
func diffTrigger(ev Event, t Token, prev, cur uint8) Event {
	was := prev > TriggerThreshold
	is := cur > TriggerThreshold
	switch {
	case is && !was:
		ev.Held = ev.Held.With(t)
		ev.Added = ev.Added.With(t)
	case !is && was:
		ev.Removed = ev.Removed.With(t)
	case is:
		ev.Held = ev.Held.With(t)
	}
	return ev
}
