// Package thoughtstore keeps thoughts on disk, either as one file per
// thought in a directory or in a SQLite database.
package thoughtstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ha1tch/thinkmap/pkg/thought"
)

// ErrNotFound is returned when no thought has the requested id.
var ErrNotFound = errors.New("thought not found")

// Summary describes a stored thought without loading it.
type Summary struct {
	ID          string
	Name        string
	Nodes       int
	Connections int
	Updated     time.Time
}

// Store persists thoughts by id.
type Store interface {
	List(ctx context.Context) ([]Summary, error)
	Load(ctx context.Context, id string) (*thought.Thought, error)
	// Save stores t, giving it and its nodes ids if they have none, and
	// clears its modified flag.
	Save(ctx context.Context, t *thought.Thought) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Kind names a store backend.
type Kind string

const (
	KindDir    Kind = "dir"
	KindSQLite Kind = "sqlite"
)

// Open opens the store of the given kind at path.
func Open(kind Kind, path string, log *zap.Logger) (Store, error) {
	switch kind {
	case KindDir:
		return NewDirStore(path, log)
	case KindSQLite:
		return OpenSQLite(path, log)
	}
	return nil, fmt.Errorf("unknown store kind %q", kind)
}

// sortSummaries orders by name, then id.
func sortSummaries(s []Summary) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Name != s[j].Name {
			return s[i].Name < s[j].Name
		}
		return s[i].ID < s[j].ID
	})
}
