package think

import (
	"github.com/ha1tch/thinkmap/pkg/shape"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

// Host does the work that leaves the core: dialogs, storage and export.
// Methods are called on the goroutine that dispatches events.
type Host interface {
	// EditNode starts editing n's label. The host applies the result
	// with Context.SetNodeText.
	EditNode(c *Context, n *thought.Node)
	ThoughtOptions(c *Context)
	// Save stores the thought and reports the outcome with
	// Context.SetSaveStatus.
	Save(c *Context)
	Export(c *Context)
	// Closed is called after the thought has been closed.
	Closed(c *Context)
}

// DefaultHandler applies intents to the context and forwards the rest to
// Host. A nil Host ignores them.
type DefaultHandler struct {
	Host Host
}

var _ IntentHandler = DefaultHandler{}

func (h DefaultHandler) Select(c *Context, n *thought.Node) {
	if c.thought != nil {
		c.Select(n)
	}
}

func (h DefaultHandler) EditNode(c *Context, n *thought.Node) {
	if h.Host != nil {
		h.Host.EditNode(c, n)
	}
	h.Select(c, n)
}

func (h DefaultHandler) RemoveConnection(c *Context, conn *thought.Connection) {
	c.Confirm(RemoveConnectionPrompt, func() {
		t := c.Thought()
		if t == nil {
			return
		}
		if t.DestroyConnection(conn) {
			if c.Hover.Connection == conn {
				c.Hover.Connection = nil
			}
			t.SetModified(true)
		}
	})
}

func (h DefaultHandler) ConnectTwoNodes(c *Context, n *thought.Node) {
	t := c.mustThought()
	if t.Connect(c.ConnectStartingNode(), n) {
		t.SetModified(true)
	}
	c.ClearStartingConnectNode()
}

func (h DefaultHandler) Create(c *Context, n *thought.Node) {
	t := c.mustThought()
	created := t.CreateNode(c.Engine(), n, c.opts.CreatedNodeDistance)
	c.Select(created)
	t.SetModified(true)
}

func (h DefaultHandler) Connect(c *Context, n *thought.Node) {
	c.mustThought()
	c.SetStartingConnectNode(n)
}

func (h DefaultHandler) Destroy(c *Context, n *thought.Node) {
	t := c.mustThought()
	t.DestroyNode(n)
	c.forget(n)
	c.Select(nil)
	t.SetModified(true)
}

// Close asks first when the thought has unsaved changes.
func (h DefaultHandler) Close(c *Context) {
	t := c.mustThought()
	if t.Modifiable && t.Modified() {
		c.Confirm(CloseUnsavedPrompt, func() { h.close(c) })
		return
	}
	h.close(c)
}

func (h DefaultHandler) close(c *Context) {
	c.Close()
	if h.Host != nil {
		h.Host.Closed(c)
	}
}

func (h DefaultHandler) ThoughtOptions(c *Context) {
	if h.Host != nil {
		h.Host.ThoughtOptions(c)
	}
}

func (h DefaultHandler) Save(c *Context) {
	c.mustThought()
	c.SetSaveStatus(SaveInProgress, "")
	if h.Host != nil {
		h.Host.Save(c)
	}
}

func (h DefaultHandler) Export(c *Context) {
	c.mustThought()
	if h.Host != nil {
		h.Host.Export(c)
	}
}

func (h DefaultHandler) HoverMenuItem(c *Context, item shape.MenuItemType) {
	c.Hover.MenuItem = item
}

func (h DefaultHandler) HoverAction(c *Context, action shape.ActionType) {
	c.Hover.Action = action
}

func (h DefaultHandler) HoverNode(c *Context, n *thought.Node) {
	c.Hover.Node = n
}

func (h DefaultHandler) HoverConnection(c *Context, conn *thought.Connection) {
	c.Hover.Connection = conn
}
