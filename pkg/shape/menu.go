package shape

import (
	"github.com/ha1tch/thinkmap/pkg/geom"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

// MenuItemType names a thought menu button.
type MenuItemType string

const (
	MenuClose          MenuItemType = "Close"
	MenuThoughtOptions MenuItemType = "ThoughtOptions"
	MenuSave           MenuItemType = "Save"
	MenuExport         MenuItemType = "Export"
)

// MenuItemTypes lists the menu left to right.
var MenuItemTypes = []MenuItemType{MenuClose, MenuThoughtOptions, MenuSave, MenuExport}

// ToolTip returns the button's help text.
func (m MenuItemType) ToolTip() string {
	switch m {
	case MenuClose:
		return "Close Thought"
	case MenuThoughtOptions:
		return "Open Thought Options"
	case MenuSave:
		return "Save Thought"
	case MenuExport:
		return "Export Thought as Image"
	}
	return ""
}

// ModifiesThought reports whether the item changes the stored thought.
func (m MenuItemType) ModifiesThought() bool {
	return m == MenuSave
}

// MenuItem is a placed menu button in canvas-relative coordinates.
type MenuItem struct {
	Type   MenuItemType
	Center geom.Point
}

// Disabled reports whether the item cannot be clicked for t. Items that
// modify the thought are disabled when it is read-only or unchanged.
func (m MenuItem) Disabled(t *thought.Thought) bool {
	if !m.Type.ModifiesThought() {
		return false
	}
	if !t.Modifiable {
		return true
	}
	return !t.Modified()
}

// Contains reports whether p is within radius of the item centre.
func (m MenuItem) Contains(p geom.Point, radius float64) bool {
	return geom.Distance(m.Center, p) <= radius
}

// MenuItems lays out one button per type in a row along the top left.
func MenuItems(types []MenuItemType, opts Options) []MenuItem {
	items := make([]MenuItem, len(types))
	span := (opts.MenuItemRadius + opts.MenuItemMargin) * 2
	y := opts.MenuMarginTop + opts.MenuItemRadius + opts.MenuItemMargin
	for i, t := range types {
		items[i] = MenuItem{
			Type:   t,
			Center: geom.Point{X: opts.MenuMarginLeft + span*(float64(i)+0.5), Y: y},
		}
	}
	return items
}

// Pill is a rectangle with semicircular ends, drawn as the segment from
// A to B swept by a disc of Radius.
type Pill struct {
	A, B   geom.Point
	Radius float64
}

// Contains reports whether p lies inside the pill.
func (p Pill) Contains(q geom.Point) bool {
	ab := p.B.Sub(p.A)
	lenSq := geom.Dot(ab.X, ab.Y, ab.X, ab.Y)
	t := 0.0
	if lenSq > 0 {
		aq := q.Sub(p.A)
		t = geom.Dot(aq.X, aq.Y, ab.X, ab.Y) / lenSq
		t = min(max(t, 0), 1)
	}
	nearest := geom.Point{X: p.A.X + ab.X*t, Y: p.A.Y + ab.Y*t}
	return geom.Distance(nearest, q) <= p.Radius
}

// Bounds returns the pill's bounding rectangle.
func (p Pill) Bounds() geom.Rect {
	minX, maxX := min(p.A.X, p.B.X), max(p.A.X, p.B.X)
	minY, maxY := min(p.A.Y, p.B.Y), max(p.A.Y, p.B.Y)
	return geom.Rect{
		X: minX - p.Radius,
		Y: minY - p.Radius,
		W: maxX - minX + 2*p.Radius,
		H: maxY - minY + 2*p.Radius,
	}
}

// MenuBackground returns the pill drawn behind items. ok is false when
// there are no items.
func MenuBackground(items []MenuItem, opts Options) (pill Pill, ok bool) {
	if len(items) == 0 {
		return Pill{}, false
	}
	return Pill{
		A:      items[0].Center,
		B:      items[len(items)-1].Center,
		Radius: opts.MenuItemRadius + opts.MenuItemMargin + opts.MenuPadding,
	}, true
}
