package thoughtstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/ha1tch/thinkmap/pkg/thought"
	"github.com/ha1tch/thinkmap/pkg/thoughtfile"
)

// SQLiteStore keeps thoughts in a SQLite database, one row per thought,
// node and connection.
type SQLiteStore struct {
	conn *sql.DB
	log  *zap.Logger
	now  func() time.Time
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string, log *zap.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite has a single writer.
	conn.SetMaxOpenConns(1)

	s := &SQLiteStore{conn: conn, log: log, now: time.Now}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS thoughts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			modifiable INTEGER NOT NULL DEFAULT 1,
			is_public INTEGER NOT NULL DEFAULT 0,
			theme_json TEXT NOT NULL DEFAULT '',
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS nodes (
			thought_id TEXT NOT NULL REFERENCES thoughts(id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			text TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (thought_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS connections (
			thought_id TEXT NOT NULL REFERENCES thoughts(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			node_one_id TEXT NOT NULL,
			node_two_id TEXT NOT NULL,
			PRIMARY KEY (thought_id, position)
		)`,
	}
	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// List returns every stored thought.
func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT t.id, t.name, t.updated_at,
			(SELECT COUNT(*) FROM nodes n WHERE n.thought_id = t.id),
			(SELECT COUNT(*) FROM connections c WHERE c.thought_id = t.id)
		FROM thoughts t`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var updated int64
		if err := rows.Scan(&sum.ID, &sum.Name, &updated, &sum.Nodes, &sum.Connections); err != nil {
			return nil, err
		}
		sum.Updated = time.Unix(0, updated)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortSummaries(out)
	return out, nil
}

// Load reads the thought stored under id.
func (s *SQLiteStore) Load(ctx context.Context, id string) (*thought.Thought, error) {
	rec := thoughtfile.Record{ID: id}
	var modifiable bool
	var themeJSON string
	err := s.conn.QueryRowContext(ctx,
		`SELECT name, modifiable, is_public, theme_json FROM thoughts WHERE id = ?`, id,
	).Scan(&rec.Name, &modifiable, &rec.IsPublic, &themeJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	rec.Modifiable = &modifiable
	if themeJSON != "" {
		var theme thought.Theme
		if err := json.Unmarshal([]byte(themeJSON), &theme); err != nil {
			return nil, fmt.Errorf("%s: theme: %w", id, err)
		}
		rec.Theme = &theme
	}

	if rec.Nodes, err = s.loadNodes(ctx, id); err != nil {
		return nil, err
	}
	if rec.Connections, err = s.loadConnections(ctx, id); err != nil {
		return nil, err
	}

	t, err := thoughtfile.Reconstruct(&rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	s.log.Info("thought loaded", zap.String("id", id), zap.Int("nodes", len(t.Nodes)))
	return t, nil
}

func (s *SQLiteStore) loadNodes(ctx context.Context, id string) ([]thoughtfile.NodeRecord, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, x, y, text FROM nodes WHERE thought_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nodes := make([]thoughtfile.NodeRecord, 0)
	for rows.Next() {
		var n thoughtfile.NodeRecord
		if err := rows.Scan(&n.ID, &n.X, &n.Y, &n.Text); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func (s *SQLiteStore) loadConnections(ctx context.Context, id string) ([]thoughtfile.ConnectionRecord, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT node_one_id, node_two_id FROM connections WHERE thought_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conns := make([]thoughtfile.ConnectionRecord, 0)
	for rows.Next() {
		var c thoughtfile.ConnectionRecord
		if err := rows.Scan(&c.NodeOneID, &c.NodeTwoID); err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	return conns, rows.Err()
}

// Save replaces the stored copy of t in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, t *thought.Thought) error {
	rec := thoughtfile.FromThought(t)
	themeJSON := ""
	if rec.Theme != nil {
		data, err := json.Marshal(rec.Theme)
		if err != nil {
			return err
		}
		themeJSON = string(data)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO thoughts (id, name, modifiable, is_public, theme_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			modifiable = excluded.modifiable,
			is_public = excluded.is_public,
			theme_json = excluded.theme_json,
			updated_at = excluded.updated_at`,
		rec.ID, rec.Name, *rec.Modifiable, rec.IsPublic, themeJSON, s.now().UnixNano(),
	); err != nil {
		return fmt.Errorf("save thought: %w", err)
	}

	for _, table := range []string{"nodes", "connections"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE thought_id = ?`, rec.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for i, n := range rec.Nodes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (thought_id, id, position, x, y, text) VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, n.ID, i, n.X, n.Y, n.Text,
		); err != nil {
			return fmt.Errorf("save node %q: %w", n.ID, err)
		}
	}
	for i, c := range rec.Connections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO connections (thought_id, position, node_one_id, node_two_id) VALUES (?, ?, ?, ?)`,
			rec.ID, i, c.NodeOneID, c.NodeTwoID,
		); err != nil {
			return fmt.Errorf("save connection %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	t.SetModified(false)
	s.log.Info("thought saved", zap.String("id", rec.ID), zap.Int("nodes", len(rec.Nodes)))
	return nil
}

// Delete removes the thought stored under id with its nodes and
// connections.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM thoughts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	s.log.Info("thought deleted", zap.String("id", id))
	return nil
}
