package thought

import (
	"github.com/ha1tch/thinkmap/pkg/geom"
	"github.com/ha1tch/thinkmap/pkg/textlayout"
)

// Node is a labelled circle in a thought. Its wrapped lines and radius are
// computed on demand and cached until the text changes.
type Node struct {
	ID   string // Empty until the node has been stored
	X, Y float64

	text   string
	layout *nodeLayout
}

type nodeLayout struct {
	engine *textlayout.Engine
	lines  []string
	radius float64
}

// NewNode returns a node at (x, y).
func NewNode(x, y float64, text, id string) *Node {
	return &Node{ID: id, X: x, Y: y, text: text}
}

// Text returns the node's label.
func (n *Node) Text() string {
	return n.text
}

// SetText replaces the label and drops the cached layout.
func (n *Node) SetText(text string) {
	n.text = text
	n.layout = nil
}

// Center returns the node's position.
func (n *Node) Center() geom.Point {
	return geom.Point{X: n.X, Y: n.Y}
}

// MoveBy translates the node.
func (n *Node) MoveBy(dx, dy float64) {
	n.X += dx
	n.Y += dy
}

// Lines returns the label broken into display lines. The slice is shared
// with the cache and must not be modified.
func (n *Node) Lines(e *textlayout.Engine) []string {
	return n.cachedLayout(e).lines
}

// Radius returns the node's display radius.
func (n *Node) Radius(e *textlayout.Engine) float64 {
	return n.cachedLayout(e).radius
}

// InvalidateLayout drops the cached layout, for example after the layout
// options change.
func (n *Node) InvalidateLayout() {
	n.layout = nil
}

func (n *Node) cachedLayout(e *textlayout.Engine) *nodeLayout {
	if n.layout != nil && n.layout.engine == e {
		return n.layout
	}
	lines := e.Lines(n.text)
	n.layout = &nodeLayout{
		engine: e,
		lines:  lines,
		radius: e.Radius(n.text, lines),
	}
	return n.layout
}

// Connection joins two distinct nodes. The pair is unordered.
type Connection struct {
	A, B *Node
}

// Has reports whether n is an endpoint of c.
func (c *Connection) Has(n *Node) bool {
	return c.A == n || c.B == n
}

// Joins reports whether c connects a and b in either order.
func (c *Connection) Joins(a, b *Node) bool {
	return (c.A == a && c.B == b) || (c.A == b && c.B == a)
}

// Other returns the endpoint opposite n, or nil if n is not an endpoint.
func (c *Connection) Other(n *Node) *Node {
	switch n {
	case c.A:
		return c.B
	case c.B:
		return c.A
	}
	return nil
}
