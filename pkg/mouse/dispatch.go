package mouse

import (
	"sort"

	"go.uber.org/zap"

	"github.com/ha1tch/thinkmap/pkg/geom"
)

// Dispatcher offers events to registered entities in priority order.
type Dispatcher[C any] struct {
	entities []*Entity[C]
	log      *zap.Logger
}

// NewDispatcher returns a dispatcher over entities. A nil logger discards
// output.
func NewDispatcher[C any](log *zap.Logger, entities ...*Entity[C]) *Dispatcher[C] {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher[C]{log: log}
	for _, e := range entities {
		d.Register(e)
	}
	return d
}

// Register adds e. Entities of equal priority are tested in registration
// order.
func (d *Dispatcher[C]) Register(e *Entity[C]) {
	if e == nil {
		panic("mouse: Register with nil entity")
	}
	d.entities = append(d.entities, e)
}

// Entities returns the registered entities in registration order.
func (d *Dispatcher[C]) Entities() []*Entity[C] {
	return d.entities
}

// ordered returns the entities with a handler for t, highest priority
// first.
func (d *Dispatcher[C]) ordered(t EventType) []*Entity[C] {
	var out []*Entity[C]
	for _, e := range d.entities {
		if e.On.For(t) != nil {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// Dispatch routes ev through the entities that handle its type.
// toAbsolute converts the event's canvas point to diagram coordinates.
// It returns the entity that consumed the event, or nil.
//
// Before a hit every entity's handler runs, followed by its no-hit
// callback if it declines. After a hit only no-hit callbacks run. If no
// entity consumes the event, each entity's global no-hit callback runs
// with the point in that entity's own space.
func (d *Dispatcher[C]) Dispatch(c C, ev Event, toAbsolute func(geom.Point) geom.Point) *Entity[C] {
	rel := ev.Point
	abs := toAbsolute(rel)
	pointFor := func(e *Entity[C]) geom.Point {
		if e.Space == Absolute {
			return abs
		}
		return rel
	}

	entities := d.ordered(ev.Type)
	var hit *Entity[C]
	for _, e := range entities {
		p := pointFor(e)
		if hit == nil && e.On.For(ev.Type)(c, p, ev.Click) {
			hit = e
			continue
		}
		if cb := e.NoHit.For(ev.Type); cb != nil {
			cb(c, p, ev.Click)
		}
	}

	if hit == nil {
		for _, e := range entities {
			if cb := e.GlobalNoHit.For(ev.Type); cb != nil {
				cb(c, pointFor(e), ev.Click)
			}
		}
	}

	if ce := d.log.Check(zap.DebugLevel, "dispatch"); ce != nil {
		hitName := ""
		if hit != nil {
			hitName = hit.Name
		}
		ce.Write(
			zap.Stringer("event", ev.Type),
			zap.Stringer("click", ev.Click),
			zap.Stringer("point", rel),
			zap.String("hit", hitName),
		)
	}
	return hit
}
