package mouse

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ha1tch/thinkmap/pkg/geom"
)

type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// region builds an entity that consumes clicks when hit is true.
func region(name string, priority int, hit bool) *Entity[*recorder] {
	return &Entity[*recorder]{
		Name:     name,
		Space:    Absolute,
		Priority: priority,
		On: Handlers[*recorder]{
			Click: func(r *recorder, p geom.Point, click ClickType) bool {
				r.add("%s:click", name)
				return hit
			},
		},
		NoHit: Callbacks[*recorder]{
			Click: func(r *recorder, p geom.Point, click ClickType) { r.add("%s:nohit", name) },
		},
		GlobalNoHit: Callbacks[*recorder]{
			Click: func(r *recorder, p geom.Point, click ClickType) { r.add("%s:global", name) },
		},
	}
}

func identity(p geom.Point) geom.Point { return p }

func click(p geom.Point) Event {
	return Event{Type: EventClick, Click: ClickSingle, Point: p}
}

func TestDispatchPriority(t *testing.T) {
	low := region("low", 1, true)
	high := region("high", 5, true)
	d := NewDispatcher[*recorder](nil, low, high)

	r := &recorder{}
	hit := d.Dispatch(r, click(geom.Pt(0, 0)), identity)

	assert.Same(t, high, hit)
	assert.Equal(t, []string{"high:click", "low:nohit"}, r.calls)
}

func TestDispatchFallsThrough(t *testing.T) {
	top := region("top", 3, false)
	mid := region("mid", 2, true)
	bottom := region("bottom", 1, true)
	d := NewDispatcher[*recorder](nil, bottom, mid, top)

	r := &recorder{}
	hit := d.Dispatch(r, click(geom.Pt(0, 0)), identity)

	assert.Same(t, mid, hit)
	assert.Equal(t, []string{"top:click", "top:nohit", "mid:click", "bottom:nohit"}, r.calls)
}

func TestDispatchNothingHit(t *testing.T) {
	a := region("a", 2, false)
	b := region("b", 1, false)
	d := NewDispatcher[*recorder](nil, a, b)

	r := &recorder{}
	hit := d.Dispatch(r, click(geom.Pt(0, 0)), identity)

	assert.Nil(t, hit)
	assert.Equal(t, []string{
		"a:click", "a:nohit",
		"b:click", "b:nohit",
		"a:global", "b:global",
	}, r.calls)
}

func TestDispatchTiesKeepRegistrationOrder(t *testing.T) {
	first := region("first", 1, true)
	second := region("second", 1, true)
	d := NewDispatcher[*recorder](nil, first, second)

	r := &recorder{}
	assert.Same(t, first, d.Dispatch(r, click(geom.Pt(0, 0)), identity))
	assert.Equal(t, []string{"first:click", "second:nohit"}, r.calls)
}

func TestDispatchSkipsEntitiesWithoutHandler(t *testing.T) {
	clicker := region("clicker", 1, false)
	hoverOnly := &Entity[*recorder]{
		Name:     "hover",
		Priority: 9,
		On: Handlers[*recorder]{
			Hover: func(r *recorder, p geom.Point, _ ClickType) bool { return true },
		},
		GlobalNoHit: Callbacks[*recorder]{
			Click: func(r *recorder, p geom.Point, _ ClickType) { r.add("hover:global") },
		},
	}
	d := NewDispatcher[*recorder](nil, clicker, hoverOnly)

	r := &recorder{}
	assert.Nil(t, d.Dispatch(r, click(geom.Pt(0, 0)), identity))
	assert.Equal(t, []string{"clicker:click", "clicker:nohit", "clicker:global"}, r.calls)
}

func TestDispatchPointSpaces(t *testing.T) {
	var gotAbs, gotRel, gotGlobal geom.Point
	abs := &Entity[*recorder]{
		Name: "abs", Space: Absolute, Priority: 2,
		On: Handlers[*recorder]{Down: func(_ *recorder, p geom.Point, _ ClickType) bool {
			gotAbs = p
			return false
		}},
	}
	rel := &Entity[*recorder]{
		Name: "rel", Space: Relative, Priority: 1,
		On: Handlers[*recorder]{Down: func(_ *recorder, p geom.Point, _ ClickType) bool {
			gotRel = p
			return false
		}},
		GlobalNoHit: Callbacks[*recorder]{Down: func(_ *recorder, p geom.Point, _ ClickType) {
			gotGlobal = p
		}},
	}
	d := NewDispatcher[*recorder](nil, abs, rel)

	offset := geom.Pt(100, -50)
	d.Dispatch(&recorder{}, Event{Type: EventDown, Point: geom.Pt(5, 5)}, func(p geom.Point) geom.Point {
		return p.Add(offset)
	})

	assert.Equal(t, geom.Pt(105, -45), gotAbs)
	assert.Equal(t, geom.Pt(5, 5), gotRel)
	assert.Equal(t, geom.Pt(5, 5), gotGlobal)
}

func TestDispatchPassesClickType(t *testing.T) {
	var got ClickType
	e := &Entity[*recorder]{
		On: Handlers[*recorder]{Click: func(_ *recorder, _ geom.Point, c ClickType) bool {
			got = c
			return true
		}},
	}
	d := NewDispatcher[*recorder](nil, e)
	d.Dispatch(&recorder{}, Event{Type: EventClick, Click: ClickDouble}, identity)
	assert.Equal(t, ClickDouble, got)
}

func TestDispatchLogsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	d := NewDispatcher(zap.New(core), region("node", 2, true))

	d.Dispatch(&recorder{}, click(geom.Pt(1, 2)), identity)

	entries := logs.FilterMessage("dispatch").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "click", fields["event"])
	assert.Equal(t, "node", fields["hit"])
}

func TestRegisterNilPanics(t *testing.T) {
	d := NewDispatcher[*recorder](nil)
	assert.Panics(t, func() { d.Register(nil) })
	assert.Empty(t, d.Entities())
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "hover", EventHover.String())
	assert.Equal(t, "double", ClickDouble.String())
	assert.Equal(t, "none", ClickNone.String())
}
