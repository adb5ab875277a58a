// Package thoughtfile converts thoughts to and from their stored form and
// renders them as images.
//
// A thought is stored as a flat record in which connections refer to nodes
// by id. Reconstruct turns a record back into linked nodes and fails on
// any id it cannot resolve, so a partial thought is never returned.
package thoughtfile

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ha1tch/thinkmap/pkg/thought"
	"github.com/ha1tch/thinkmap/pkg/validation"
)

var (
	// ErrUnresolvedNode is returned when a connection names a node id
	// that is not in the record.
	ErrUnresolvedNode = errors.New("unresolved node id")
	// ErrDuplicateNode is returned when two nodes share an id.
	ErrDuplicateNode = errors.New("duplicate node id")
)

// Record is the stored form of a thought.
type Record struct {
	Nodes       []NodeRecord       `json:"nodes" yaml:"nodes" validate:"dive"`
	Connections []ConnectionRecord `json:"connections" yaml:"connections" validate:"dive"`
	Name        string             `json:"name" yaml:"name"`
	ID          string             `json:"id,omitempty" yaml:"id,omitempty"`
	Modifiable  *bool              `json:"modifiable,omitempty" yaml:"modifiable,omitempty"` // Absent means true
	IsPublic    bool               `json:"isPublic" yaml:"isPublic"`
	Theme       *thought.Theme     `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// NodeRecord is a stored node. ID is empty until the node is first saved.
type NodeRecord struct {
	ID   string  `json:"id" yaml:"id"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	Text string  `json:"text" yaml:"text"`
}

// ConnectionRecord is a stored connection between two node ids.
type ConnectionRecord struct {
	NodeOneID string `json:"nodeOneId" yaml:"nodeOneId" validate:"required"`
	NodeTwoID string `json:"nodeTwoId" yaml:"nodeTwoId" validate:"required,nefield=NodeOneID"`
}

// Validate checks the record's field constraints. It does not resolve ids;
// Reconstruct does that.
func (r *Record) Validate() error {
	return validation.Struct(r)
}

// Reconstruct builds a thought from r. Connections are resolved to the
// nodes they name. The returned thought is unmodified.
func Reconstruct(r *Record) (*thought.Thought, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}

	t := thought.New(r.Name)
	t.ID = r.ID
	t.IsPublic = r.IsPublic
	if r.Modifiable != nil {
		t.Modifiable = *r.Modifiable
	}
	if r.Theme != nil {
		theme := *r.Theme
		t.Theme = &theme
	}

	byID := make(map[string]*thought.Node, len(r.Nodes))
	for _, nr := range r.Nodes {
		n := thought.NewNode(nr.X, nr.Y, nr.Text, nr.ID)
		t.AddNode(n)
		if nr.ID == "" {
			continue
		}
		if _, dup := byID[nr.ID]; dup {
			return nil, fmt.Errorf("node %q: %w", nr.ID, ErrDuplicateNode)
		}
		byID[nr.ID] = n
	}

	for i, cr := range r.Connections {
		a, ok := byID[cr.NodeOneID]
		if !ok {
			return nil, fmt.Errorf("connection %d: node %q: %w", i, cr.NodeOneID, ErrUnresolvedNode)
		}
		b, ok := byID[cr.NodeTwoID]
		if !ok {
			return nil, fmt.Errorf("connection %d: node %q: %w", i, cr.NodeTwoID, ErrUnresolvedNode)
		}
		if !t.Connect(a, b) {
			return nil, fmt.Errorf("connection %d: %q and %q are already connected", i, cr.NodeOneID, cr.NodeTwoID)
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// FromThought flattens t into a record. Nodes and the thought itself are
// given fresh ids first if they have none, so t keeps the ids it was
// stored under.
func FromThought(t *thought.Thought) *Record {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	modifiable := t.Modifiable
	r := &Record{
		Nodes:       make([]NodeRecord, 0, len(t.Nodes)),
		Connections: make([]ConnectionRecord, 0, len(t.Connections)),
		Name:        t.Name,
		ID:          t.ID,
		Modifiable:  &modifiable,
		IsPublic:    t.IsPublic,
	}
	if t.Theme != nil {
		theme := *t.Theme
		r.Theme = &theme
	}
	for _, n := range t.Nodes {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		r.Nodes = append(r.Nodes, NodeRecord{ID: n.ID, X: n.X, Y: n.Y, Text: n.Text()})
	}
	for _, c := range t.Connections {
		r.Connections = append(r.Connections, ConnectionRecord{NodeOneID: c.A.ID, NodeTwoID: c.B.ID})
	}
	return r
}
