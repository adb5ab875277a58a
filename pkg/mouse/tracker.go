package mouse

import (
	"time"

	"github.com/ha1tch/thinkmap/pkg/geom"
)

// Default tracker tuning.
const (
	DefaultDoubleClick = 400 * time.Millisecond
	DefaultClickSlop   = 4.0
)

// Tracker turns primary-button state samples, as reported by terminals,
// into Down, Up, Click and Hover events. A release after the pointer
// travelled further than Slop from the press is a drag, not a click. Two
// clicks within DoubleClick and Slop of each other produce a single click
// followed by a double click; the pair is then forgotten so a third click
// starts afresh.
type Tracker struct {
	DoubleClick time.Duration
	Slop        float64

	pressed   bool
	dragged   bool
	downAt    geom.Point
	last      geom.Point
	seen      bool
	lastClick time.Time
	clickAt   geom.Point
}

// NewTracker returns a tracker with the given tuning.
func NewTracker(doubleClick time.Duration, slop float64) *Tracker {
	return &Tracker{DoubleClick: doubleClick, Slop: slop}
}

// Pressed reports whether the button is held.
func (t *Tracker) Pressed() bool {
	return t.pressed
}

// Feed records the pointer at p with the button pressed or not and returns
// the events this sample produces, in order.
func (t *Tracker) Feed(p geom.Point, pressed bool, now time.Time) []Event {
	var events []Event
	if !t.seen || p != t.last {
		events = append(events, Event{Type: EventHover, Point: p})
		t.last, t.seen = p, true
	}

	switch {
	case pressed && !t.pressed:
		t.pressed, t.dragged = true, false
		t.downAt = p
		events = append(events, Event{Type: EventDown, Point: p})

	case pressed && t.pressed:
		if geom.Distance(p, t.downAt) > t.Slop {
			t.dragged = true
		}

	case !pressed && t.pressed:
		t.pressed = false
		events = append(events, Event{Type: EventUp, Point: p})
		if t.dragged || geom.Distance(p, t.downAt) > t.Slop {
			break
		}
		events = append(events, Event{Type: EventClick, Click: ClickSingle, Point: p})
		if !t.lastClick.IsZero() && now.Sub(t.lastClick) < t.DoubleClick && geom.Distance(p, t.clickAt) <= t.Slop {
			events = append(events, Event{Type: EventClick, Click: ClickDouble, Point: p})
			t.lastClick = time.Time{}
		} else {
			t.lastClick, t.clickAt = now, p
		}
	}
	return events
}

// Reset forgets the button and click history.
func (t *Tracker) Reset() {
	*t = Tracker{DoubleClick: t.DoubleClick, Slop: t.Slop}
}
