// Package thought provides the mind-map data model: nodes, connections,
// the thought that owns them, and the viewport it is seen through.
package thought

import (
	"fmt"
	"math"

	"github.com/ha1tch/thinkmap/pkg/geom"
	"github.com/ha1tch/thinkmap/pkg/textlayout"
)

// Thought is a mind map. Mutators do not mark the thought modified; the
// caller decides with SetModified.
type Thought struct {
	Nodes       []*Node
	Connections []*Connection
	Name        string
	ID          string // Empty until stored
	Modifiable  bool
	IsPublic    bool
	Theme       *Theme // nil selects DefaultTheme

	modified bool
	Observable
}

// New creates an empty, modifiable thought.
func New(name string) *Thought {
	return &Thought{
		Nodes:       make([]*Node, 0),
		Connections: make([]*Connection, 0),
		Name:        name,
		Modifiable:  true,
	}
}

// Modified reports whether the thought has unsaved changes.
func (t *Thought) Modified() bool {
	return t.modified
}

// SetModified sets the modified flag and notifies observers with
// MessageModified.
func (t *Thought) SetModified(v bool) {
	t.modified = v
	t.Notify(MessageModified)
}

// ThemeOrDefault returns the thought's theme or the default one.
func (t *Thought) ThemeOrDefault() Theme {
	if t.Theme == nil {
		return DefaultTheme()
	}
	return *t.Theme
}

// AddNode adds n to the thought.
func (t *Thought) AddNode(n *Node) {
	if n == nil {
		panic("thought: AddNode with nil node")
	}
	if t.HasNode(n) {
		return
	}
	t.Nodes = append(t.Nodes, n)
}

// HasNode reports whether n belongs to the thought.
func (t *Thought) HasNode(n *Node) bool {
	return t.nodeIndex(n) >= 0
}

// NodeByID returns the node with the given id, or nil.
func (t *Thought) NodeByID(id string) *Node {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (t *Thought) nodeIndex(n *Node) int {
	for i, m := range t.Nodes {
		if m == n {
			return i
		}
	}
	return -1
}

// ConnectionBetween returns the connection joining a and b, or nil.
func (t *Thought) ConnectionBetween(a, b *Node) *Connection {
	for _, c := range t.Connections {
		if c.Joins(a, b) {
			return c
		}
	}
	return nil
}

// ConnectionsOf returns the connections touching n.
func (t *Thought) ConnectionsOf(n *Node) []*Connection {
	var out []*Connection
	for _, c := range t.Connections {
		if c.Has(n) {
			out = append(out, c)
		}
	}
	return out
}

// Connect joins a and b. It reports false and changes nothing when either
// node is nil or not in the thought, when a == b, or when the pair is
// already connected in either order.
func (t *Thought) Connect(a, b *Node) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	if !t.HasNode(a) || !t.HasNode(b) {
		return false
	}
	if t.ConnectionBetween(a, b) != nil {
		return false
	}
	t.Connections = append(t.Connections, &Connection{A: a, B: b})
	return true
}

// DestroyConnection removes c. It reports whether c was present.
func (t *Thought) DestroyConnection(c *Connection) bool {
	for i, m := range t.Connections {
		if m == c {
			t.Connections = append(t.Connections[:i], t.Connections[i+1:]...)
			return true
		}
	}
	return false
}

// DestroyNode removes n and every connection touching it. It panics if n
// is not in the thought.
func (t *Thought) DestroyNode(n *Node) {
	i := t.nodeIndex(n)
	if i < 0 {
		panic("thought: DestroyNode: node not found")
	}
	t.Nodes = append(t.Nodes[:i], t.Nodes[i+1:]...)

	kept := t.Connections[:0]
	for _, c := range t.Connections {
		if !c.Has(n) {
			kept = append(kept, c)
		}
	}
	for j := len(kept); j < len(t.Connections); j++ {
		t.Connections[j] = nil
	}
	t.Connections = kept
}

// CreateNode adds an empty node above base, clear of it by distance, and
// connects it to base.
func (t *Thought) CreateNode(e *textlayout.Engine, base *Node, distance float64) *Node {
	if !t.HasNode(base) {
		panic("thought: CreateNode: base node not found")
	}
	n := NewNode(base.X, base.Y, "", "")
	n.Y -= base.Radius(e) + n.Radius(e) + distance
	t.AddNode(n)
	t.Connect(base, n)
	return n
}

// BoundingBox returns the smallest rectangle holding every node circle,
// grown by padding on each side. ok is false for a thought with no nodes.
func (t *Thought) BoundingBox(e *textlayout.Engine, padding float64) (box geom.Rect, ok bool) {
	if len(t.Nodes) == 0 {
		return geom.Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range t.Nodes {
		r := n.Radius(e)
		minX = math.Min(minX, n.X-r)
		maxX = math.Max(maxX, n.X+r)
		minY = math.Min(minY, n.Y-r)
		maxY = math.Max(maxY, n.Y+r)
	}
	return geom.Rect{
		X: minX - padding,
		Y: minY - padding,
		W: maxX - minX + 2*padding,
		H: maxY - minY + 2*padding,
	}, true
}

// InvalidateLayouts drops the cached layout of every node.
func (t *Thought) InvalidateLayouts() {
	for _, n := range t.Nodes {
		n.InvalidateLayout()
	}
}

// Validate checks if the thought is well-formed.
func (t *Thought) Validate() error {
	ids := make(map[string]bool)
	seen := make(map[*Node]bool)
	for i, n := range t.Nodes {
		if n == nil {
			return fmt.Errorf("node %d is nil", i)
		}
		if seen[n] {
			return fmt.Errorf("node %d appears twice", i)
		}
		seen[n] = true
		if n.ID == "" {
			continue
		}
		if ids[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
	}

	for i, c := range t.Connections {
		if c == nil || c.A == nil || c.B == nil {
			return fmt.Errorf("connection %d has a missing endpoint", i)
		}
		if c.A == c.B {
			return fmt.Errorf("connection %d joins node %q to itself", i, c.A.ID)
		}
		if !seen[c.A] || !seen[c.B] {
			return fmt.Errorf("connection %d references a node outside the thought", i)
		}
		for _, d := range t.Connections[:i] {
			if d.Joins(c.A, c.B) {
				return fmt.Errorf("connection %d duplicates an earlier connection", i)
			}
		}
	}

	if t.Theme != nil {
		if err := t.Theme.Validate(); err != nil {
			return fmt.Errorf("theme: %w", err)
		}
	}
	return nil
}
