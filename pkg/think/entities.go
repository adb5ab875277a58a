package think

import (
	"github.com/ha1tch/thinkmap/pkg/geom"
	"github.com/ha1tch/thinkmap/pkg/mouse"
	"github.com/ha1tch/thinkmap/pkg/shape"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

type entity = mouse.Entity[*Context]

// DefaultEntities returns the editor's interactive regions: drag
// tracking, the thought menu, the action ring, nodes, connections and
// the viewport background.
func DefaultEntities(z ZOrders) []*mouse.Entity[*Context] {
	return []*mouse.Entity[*Context]{
		draggingEntity(z.Dragging),
		menuItemEntity(z.MenuItem),
		actionEntity(z.Action),
		nodeEntity(z.Node),
		connectionEntity(z.Connection),
		viewportEntity(z.Viewport),
	}
}

// draggingEntity records where the button went down. It never consumes
// an event, so the regions below still see it.
func draggingEntity(priority int) *entity {
	return &entity{
		Name:     "dragging",
		Space:    mouse.Relative,
		Priority: priority,
		On: mouse.Handlers[*Context]{
			Down: func(c *Context, p geom.Point, _ mouse.ClickType) bool {
				c.dragging = true
				c.lastDrag = p
				return false
			},
			Up: func(c *Context, _ geom.Point, _ mouse.ClickType) bool {
				c.dragging = false
				return false
			},
		},
	}
}

func menuItemEntity(priority int) *entity {
	return &entity{
		Name:     "menuItem",
		Space:    mouse.Relative,
		Priority: priority,
		On: mouse.Handlers[*Context]{
			Click: func(c *Context, p geom.Point, _ mouse.ClickType) bool {
				for _, item := range c.MenuItems() {
					if item.Disabled(c.thought) {
						continue
					}
					if item.Contains(p, c.opts.Shape.MenuItemRadius) {
						c.Emit(Intent{Kind: menuIntents[item.Type], MenuItem: item.Type})
						return true
					}
				}
				return false
			},
			Hover: func(c *Context, p geom.Point, _ mouse.ClickType) bool {
				for _, item := range c.MenuItems() {
					if item.Contains(p, c.opts.Shape.MenuItemRadius) {
						c.Emit(Intent{Kind: IntentHoverMenuItem, MenuItem: item.Type})
						return true
					}
				}
				return false
			},
		},
		NoHit: mouse.Callbacks[*Context]{
			Hover: func(c *Context, _ geom.Point, _ mouse.ClickType) {
				c.Hover.MenuItem = ""
			},
		},
	}
}

func actionEntity(priority int) *entity {
	return &entity{
		Name:     "action",
		Space:    mouse.Absolute,
		Priority: priority,
		On: mouse.Handlers[*Context]{
			Click: func(c *Context, p geom.Point, _ mouse.ClickType) bool {
				for _, a := range c.Actions() {
					if a.Contains(p, c.opts.Shape.ActionRadius) {
						c.Emit(Intent{Kind: actionIntents[a.Type], Action: a.Type, Node: c.selection.Node()})
						return true
					}
				}
				return false
			},
			Hover: func(c *Context, p geom.Point, _ mouse.ClickType) bool {
				for _, a := range c.Actions() {
					if a.Contains(p, c.opts.Shape.ActionRadius) {
						c.Emit(Intent{Kind: IntentHoverAction, Action: a.Type})
						return true
					}
				}
				return false
			},
		},
		NoHit: mouse.Callbacks[*Context]{
			Hover: func(c *Context, _ geom.Point, _ mouse.ClickType) {
				c.Hover.Action = ""
			},
		},
	}
}

// nodeAt returns the topmost node containing p. Nodes drawn later are on
// top, so they are tested first.
func (c *Context) nodeAt(p geom.Point) *thought.Node {
	nodes := c.thought.Nodes
	for i := len(nodes) - 1; i >= 0; i-- {
		if shape.NodeCircle(nodes[i], c.engine).Contains(p) {
			return nodes[i]
		}
	}
	return nil
}

// connectionAt returns the topmost connection whose ribbon contains p.
func (c *Context) connectionAt(p geom.Point) *thought.Connection {
	conns := c.thought.Connections
	for i := len(conns) - 1; i >= 0; i-- {
		if shape.ConnectionRibbon(conns[i], c.engine, c.opts.Shape).Contains(p) {
			return conns[i]
		}
	}
	return nil
}

func nodeEntity(priority int) *entity {
	return &entity{
		Name:     "node",
		Space:    mouse.Absolute,
		Priority: priority,
		On: mouse.Handlers[*Context]{
			Click: func(c *Context, p geom.Point, click mouse.ClickType) bool {
				n := c.nodeAt(p)
				if n == nil {
					return false
				}
				switch {
				case c.connectStart != nil:
					c.Emit(Intent{Kind: IntentConnectTwoNodes, Node: n})
				case click == mouse.ClickDouble:
					c.Emit(Intent{Kind: IntentEditNode, Node: n})
				default:
					c.Emit(Intent{Kind: IntentSelect, Node: n})
				}
				return true
			},
			Down: func(c *Context, p geom.Point, _ mouse.ClickType) bool {
				n := c.nodeAt(p)
				if n == nil {
					return false
				}
				c.dragged = n
				return true
			},
			Up: func(c *Context, _ geom.Point, _ mouse.ClickType) bool {
				c.dragged = nil
				return false
			},
			Hover: func(c *Context, p geom.Point, _ mouse.ClickType) bool {
				if c.dragging && c.dragged != nil {
					rel := c.viewport.ToRelative(p)
					delta := rel.Sub(c.lastDrag)
					c.dragged.MoveBy(delta.X, delta.Y)
					c.lastDrag = rel
					c.thought.SetModified(true)
					return true
				}
				n := c.nodeAt(p)
				if n == nil {
					return false
				}
				c.Emit(Intent{Kind: IntentHoverNode, Node: n})
				return true
			},
		},
		NoHit: mouse.Callbacks[*Context]{
			Click: func(c *Context, _ geom.Point, _ mouse.ClickType) {
				c.ConnectNodesNoEvent()
			},
			Down: func(c *Context, _ geom.Point, _ mouse.ClickType) {
				c.dragged = nil
			},
			Hover: func(c *Context, _ geom.Point, _ mouse.ClickType) {
				c.Hover.Node = nil
			},
		},
		GlobalNoHit: mouse.Callbacks[*Context]{
			Click: func(c *Context, _ geom.Point, _ mouse.ClickType) {
				c.selection.set(nil)
			},
		},
	}
}

func connectionEntity(priority int) *entity {
	return &entity{
		Name:     "connection",
		Space:    mouse.Absolute,
		Priority: priority,
		On: mouse.Handlers[*Context]{
			Click: func(c *Context, p geom.Point, _ mouse.ClickType) bool {
				conn := c.connectionAt(p)
				if conn == nil {
					return false
				}
				c.Emit(Intent{Kind: IntentRemoveConnection, Connection: conn})
				return true
			},
			Hover: func(c *Context, p geom.Point, _ mouse.ClickType) bool {
				conn := c.connectionAt(p)
				if conn == nil {
					return false
				}
				c.Emit(Intent{Kind: IntentHoverConnection, Connection: conn})
				return true
			},
		},
		NoHit: mouse.Callbacks[*Context]{
			Hover: func(c *Context, _ geom.Point, _ mouse.ClickType) {
				c.Hover.Connection = nil
			},
		},
	}
}

// viewportEntity pans the view when the background is dragged.
func viewportEntity(priority int) *entity {
	return &entity{
		Name:     "viewport",
		Space:    mouse.Relative,
		Priority: priority,
		On: mouse.Handlers[*Context]{
			Hover: func(c *Context, p geom.Point, _ mouse.ClickType) bool {
				if !c.dragging {
					return false
				}
				c.viewport.Pan(p.Sub(c.lastDrag))
				c.lastDrag = p
				return true
			},
		},
	}
}
