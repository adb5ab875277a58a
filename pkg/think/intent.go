package think

import (
	"fmt"

	"github.com/ha1tch/thinkmap/pkg/shape"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

// IntentKind names what a pointer event meant.
type IntentKind int

const (
	IntentSelect IntentKind = iota
	IntentEditNode
	IntentRemoveConnection
	IntentConnectTwoNodes
	IntentCreate
	IntentConnect
	IntentDestroy
	IntentClose
	IntentThoughtOptions
	IntentSave
	IntentExport
	IntentHoverMenuItem
	IntentHoverAction
	IntentHoverNode
	IntentHoverConnection
)

var intentNames = [...]string{
	IntentSelect:           "Select",
	IntentEditNode:         "EditNode",
	IntentRemoveConnection: "RemoveConnection",
	IntentConnectTwoNodes:  "ConnectTwoNodes",
	IntentCreate:           "Create",
	IntentConnect:          "Connect",
	IntentDestroy:          "Destroy",
	IntentClose:            "Close",
	IntentThoughtOptions:   "ThoughtOptions",
	IntentSave:             "Save",
	IntentExport:           "Export",
	IntentHoverMenuItem:    "HoverMenuItem",
	IntentHoverAction:      "HoverAction",
	IntentHoverNode:        "HoverNode",
	IntentHoverConnection:  "HoverConnection",
}

func (k IntentKind) String() string {
	if k >= 0 && int(k) < len(intentNames) {
		return intentNames[k]
	}
	return fmt.Sprintf("IntentKind(%d)", int(k))
}

// Hover reports whether the intent only changes highlighting.
func (k IntentKind) Hover() bool {
	return k >= IntentHoverMenuItem
}

// Intent is one semantic event. Only the fields relevant to Kind are set.
type Intent struct {
	Kind       IntentKind
	Node       *thought.Node
	Connection *thought.Connection
	MenuItem   shape.MenuItemType
	Action     shape.ActionType
}

func (in Intent) String() string {
	return in.Kind.String()
}

var menuIntents = map[shape.MenuItemType]IntentKind{
	shape.MenuClose:          IntentClose,
	shape.MenuThoughtOptions: IntentThoughtOptions,
	shape.MenuSave:           IntentSave,
	shape.MenuExport:         IntentExport,
}

// MenuIntent returns the intent a menu item emits when clicked.
func MenuIntent(item shape.MenuItemType) IntentKind {
	return menuIntents[item]
}

var actionIntents = map[shape.ActionType]IntentKind{
	shape.ActionCreate:  IntentCreate,
	shape.ActionConnect: IntentConnect,
	shape.ActionDestroy: IntentDestroy,
}

// IntentHandler reacts to every kind of intent. Implementations must
// provide a method per kind, so adding a kind breaks every handler until
// it is covered.
type IntentHandler interface {
	Select(c *Context, n *thought.Node)
	EditNode(c *Context, n *thought.Node)
	RemoveConnection(c *Context, conn *thought.Connection)
	ConnectTwoNodes(c *Context, n *thought.Node)
	Create(c *Context, n *thought.Node)
	Connect(c *Context, n *thought.Node)
	Destroy(c *Context, n *thought.Node)
	Close(c *Context)
	ThoughtOptions(c *Context)
	Save(c *Context)
	Export(c *Context)
	HoverMenuItem(c *Context, item shape.MenuItemType)
	HoverAction(c *Context, action shape.ActionType)
	HoverNode(c *Context, n *thought.Node)
	HoverConnection(c *Context, conn *thought.Connection)
}

// deliver routes in to the matching method of h.
func deliver(h IntentHandler, c *Context, in Intent) {
	switch in.Kind {
	case IntentSelect:
		h.Select(c, in.Node)
	case IntentEditNode:
		h.EditNode(c, in.Node)
	case IntentRemoveConnection:
		h.RemoveConnection(c, in.Connection)
	case IntentConnectTwoNodes:
		h.ConnectTwoNodes(c, in.Node)
	case IntentCreate:
		h.Create(c, in.Node)
	case IntentConnect:
		h.Connect(c, in.Node)
	case IntentDestroy:
		h.Destroy(c, in.Node)
	case IntentClose:
		h.Close(c)
	case IntentThoughtOptions:
		h.ThoughtOptions(c)
	case IntentSave:
		h.Save(c)
	case IntentExport:
		h.Export(c)
	case IntentHoverMenuItem:
		h.HoverMenuItem(c, in.MenuItem)
	case IntentHoverAction:
		h.HoverAction(c, in.Action)
	case IntentHoverNode:
		h.HoverNode(c, in.Node)
	case IntentHoverConnection:
		h.HoverConnection(c, in.Connection)
	default:
		panic(fmt.Sprintf("think: unhandled intent %v", in.Kind))
	}
}
