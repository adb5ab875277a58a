// Package mouse routes pointer events to prioritised interactive regions.
//
// Each Entity declares the point space it works in and a priority. For
// every event the Dispatcher offers the point to entities in descending
// priority until one consumes it; the rest are told they were not hit.
// When nothing consumes the event, global no-hit callbacks run.
package mouse

import "github.com/ha1tch/thinkmap/pkg/geom"

// EventType is the kind of pointer event.
type EventType int

const (
	EventClick EventType = iota
	EventDown
	EventUp
	EventHover
)

func (t EventType) String() string {
	switch t {
	case EventClick:
		return "click"
	case EventDown:
		return "down"
	case EventUp:
		return "up"
	case EventHover:
		return "hover"
	}
	return "unknown"
}

// ClickType distinguishes single from double clicks. Other events carry
// ClickNone.
type ClickType int

const (
	ClickNone ClickType = iota
	ClickSingle
	ClickDouble
)

func (c ClickType) String() string {
	switch c {
	case ClickSingle:
		return "single"
	case ClickDouble:
		return "double"
	}
	return "none"
}

// Space selects the coordinates an entity receives.
type Space int

const (
	Absolute Space = iota // Diagram coordinates
	Relative              // Canvas coordinates
)

// Event is a normalised pointer event. Point is canvas-relative.
type Event struct {
	Type  EventType
	Click ClickType
	Point geom.Point
}

// Handler tests p against a region and reports whether it consumed the
// event.
type Handler[C any] func(c C, p geom.Point, click ClickType) bool

// Callback reacts to an event without consuming it.
type Callback[C any] func(c C, p geom.Point, click ClickType)

// Handlers holds one optional handler per event type.
type Handlers[C any] struct {
	Click, Down, Up, Hover Handler[C]
}

// For returns the handler for t, or nil.
func (h Handlers[C]) For(t EventType) Handler[C] {
	switch t {
	case EventClick:
		return h.Click
	case EventDown:
		return h.Down
	case EventUp:
		return h.Up
	case EventHover:
		return h.Hover
	}
	return nil
}

// Callbacks holds one optional callback per event type.
type Callbacks[C any] struct {
	Click, Down, Up, Hover Callback[C]
}

// For returns the callback for t, or nil.
func (cb Callbacks[C]) For(t EventType) Callback[C] {
	switch t {
	case EventClick:
		return cb.Click
	case EventDown:
		return cb.Down
	case EventUp:
		return cb.Up
	case EventHover:
		return cb.Hover
	}
	return nil
}

// Entity is one class of interactive region.
type Entity[C any] struct {
	Name     string
	Space    Space
	Priority int // Higher is tested first

	On          Handlers[C]  // Hit tests
	NoHit       Callbacks[C] // Run when this entity did not consume the event
	GlobalNoHit Callbacks[C] // Run when no entity consumed the event
}
