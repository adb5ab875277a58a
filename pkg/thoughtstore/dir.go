package thoughtstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ha1tch/thinkmap/pkg/thought"
	"github.com/ha1tch/thinkmap/pkg/thoughtfile"
)

// DirStore keeps each thought in <dir>/<id>.<ext>. Files may be JSON or
// YAML; new thoughts are written in Format.
type DirStore struct {
	Format thoughtfile.Format

	dir string
	log *zap.Logger
}

// NewDirStore opens dir, creating it if needed.
func NewDirStore(dir string, log *zap.Logger) (*DirStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &DirStore{Format: thoughtfile.FormatJSON, dir: dir, log: log}, nil
}

// Dir returns the store directory.
func (s *DirStore) Dir() string { return s.dir }

// List returns every readable thought. Files that fail to parse are
// skipped with a warning.
func (s *DirStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []Summary
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !isThoughtFile(e.Name()) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		t, err := thoughtfile.ReadFile(path)
		if err != nil {
			s.log.Warn("skipping unreadable thought", zap.String("path", path), zap.Error(err))
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{
			ID:          idOf(e.Name()),
			Name:        t.Name,
			Nodes:       len(t.Nodes),
			Connections: len(t.Connections),
			Updated:     info.ModTime(),
		})
	}
	sortSummaries(out)
	return out, nil
}

// Load reads the thought stored under id.
func (s *DirStore) Load(ctx context.Context, id string) (*thought.Thought, error) {
	path, err := s.find(id)
	if err != nil {
		return nil, err
	}
	t, err := thoughtfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t.ID = id
	s.log.Info("thought loaded", zap.String("id", id), zap.String("path", path))
	return t, nil
}

// Save writes t through a temporary file so readers never see a partial
// thought. An existing file keeps its format.
func (s *DirStore) Save(ctx context.Context, t *thought.Thought) error {
	rec := thoughtfile.FromThought(t)
	if err := checkID(rec.ID); err != nil {
		return err
	}

	path, err := s.find(rec.ID)
	if errors.Is(err, ErrNotFound) {
		path = filepath.Join(s.dir, rec.ID+"."+string(s.Format))
	} else if err != nil {
		return err
	}
	format, err := thoughtfile.FormatOf(path)
	if err != nil {
		return err
	}
	data, err := thoughtfile.Encode(t, format)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".save-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	t.SetModified(false)
	s.log.Info("thought saved", zap.String("id", rec.ID), zap.String("path", path))
	return nil
}

// Delete removes the thought stored under id.
func (s *DirStore) Delete(ctx context.Context, id string) error {
	path, err := s.find(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	s.log.Info("thought deleted", zap.String("id", id))
	return nil
}

// Close does nothing; the store holds no open files.
func (s *DirStore) Close() error { return nil }

// Change reports a thought file written or removed behind the store's
// back.
type Change struct {
	ID      string
	Removed bool
}

// watchDebounce collapses the burst of events one save produces.
const watchDebounce = 200 * time.Millisecond

// Watch calls fn for thought files changed in the directory until ctx is
// done. fn runs on a timer goroutine.
func (s *DirStore) Watch(ctx context.Context, fn func(Change)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	go func() {
		defer w.Close()
		timers := make(map[string]*time.Timer)
		defer func() {
			for _, t := range timers {
				t.Stop()
			}
		}()

		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				name := filepath.Base(event.Name)
				if !isThoughtFile(name) || event.Op == fsnotify.Chmod {
					continue
				}
				if t := timers[name]; t != nil {
					t.Stop()
				}
				path := event.Name
				timers[name] = time.AfterFunc(watchDebounce, func() {
					_, statErr := os.Stat(path)
					fn(Change{ID: idOf(name), Removed: errors.Is(statErr, os.ErrNotExist)})
				})

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Warn("store watcher error", zap.Error(err))

			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (s *DirStore) find(id string) (string, error) {
	if err := checkID(id); err != nil {
		return "", err
	}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(s.dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("%s: %w", id, ErrNotFound)
}

func checkID(id string) error {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("invalid thought id %q", id)
	}
	return nil
}

func isThoughtFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	_, err := thoughtfile.FormatOf(name)
	return err == nil
}

func idOf(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
