package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/ha1tch/thinkmap/pkg/textlayout"
	"github.com/ha1tch/thinkmap/pkg/think"
	"github.com/ha1tch/thinkmap/pkg/thought"
	"github.com/ha1tch/thinkmap/pkg/thoughtfile"
)

// saveTimeout bounds a store write.
const saveTimeout = 5 * time.Second

// host answers the intents that need the terminal, the store or the
// file system.
type host struct {
	ed *Editor
}

var _ think.Host = host{}

func (h host) EditNode(c *think.Context, n *thought.Node) {
	h.ed.prompt("Label: ", n.Text(), func(text string) {
		t := c.Thought()
		if t == nil || !t.HasNode(n) {
			return
		}
		text = strings.TrimSpace(text)
		if text != n.Text() {
			c.SetNodeText(n, text)
		}
	})
}

// ThoughtOptions renames the thought.
func (h host) ThoughtOptions(c *think.Context) {
	t := c.Thought()
	h.ed.prompt("Thought name: ", t.Name, func(name string) {
		name = strings.TrimSpace(name)
		if c.Thought() != t || name == "" || name == t.Name {
			return
		}
		t.Name = name
		t.SetModified(true)
	})
}

func (h host) Save(c *think.Context) {
	ed := h.ed
	t := c.Thought()
	err := ed.save(t)
	switch {
	case err == nil:
		ed.lastSave = time.Now()
		c.SetSaveStatus(think.SaveSucceeded, t.Name)
		ed.log.Info("thought saved", zap.String("id", t.ID), zap.String("path", ed.path))
	case errors.Is(err, context.DeadlineExceeded):
		c.SetSaveStatus(think.SaveTimedOut, err.Error())
		ed.log.Warn("save timed out", zap.String("id", t.ID))
	default:
		c.SetSaveStatus(think.SaveFailed, err.Error())
		ed.log.Error("save failed", zap.String("id", t.ID), zap.Error(err))
	}
}

// save writes t back where it came from: its file, or the store.
func (ed *Editor) save(t *thought.Thought) error {
	if ed.path != "" {
		if err := thoughtfile.WriteFile(ed.path, t); err != nil {
			return err
		}
		t.SetModified(false)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	return ed.store.Save(ctx, t)
}

// Export renders the thought to a PNG named after it, with labels
// measured in Go Regular rather than terminal cells.
func (h host) Export(c *think.Context) {
	ed := h.ed
	path, err := ed.export(c.Thought())
	if err != nil {
		ed.showMessage("Export failed: "+err.Error(), MsgError)
		ed.log.Error("export failed", zap.Error(err))
		return
	}
	ed.showMessage("Exported to "+path, MsgSuccess)
	ed.log.Info("thought exported", zap.String("path", path))
}

func (ed *Editor) export(t *thought.Thought) (string, error) {
	m, err := textlayout.NewFaceMeasurer(nil)
	if err != nil {
		return "", err
	}
	engine := textlayout.NewEngine(m, ed.opts.Layout())

	path := filepath.Join(ed.exportDir, fileName(t.Name)+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := thoughtfile.RenderPNG(t, engine, f, ed.opts.Image()); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// fileName turns a thought name into a safe base name.
func fileName(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			return r
		case unicode.IsSpace(r):
			return '_'
		}
		return -1
	}, strings.TrimSpace(name))
	if s == "" {
		return "thought"
	}
	return s
}

func (h host) Closed(*think.Context) {
	h.ed.closed = true
}
