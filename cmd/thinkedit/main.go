// Command thinkedit is a terminal editor for thoughts.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ha1tch/thinkmap/pkg/config"
	"github.com/ha1tch/thinkmap/pkg/geom"
	"github.com/ha1tch/thinkmap/pkg/logging"
	"github.com/ha1tch/thinkmap/pkg/mouse"
	"github.com/ha1tch/thinkmap/pkg/shape"
	"github.com/ha1tch/thinkmap/pkg/textlayout"
	"github.com/ha1tch/thinkmap/pkg/think"
	"github.com/ha1tch/thinkmap/pkg/thought"
	"github.com/ha1tch/thinkmap/pkg/thoughtfile"
	"github.com/ha1tch/thinkmap/pkg/thoughtstore"
)

var version = "0.3.0"

// Mode is what keyboard input currently drives.
type Mode int

const (
	ModeCanvas Mode = iota
	ModeInput
)

// MessageType determines how a status message is shown.
type MessageType int

const (
	MsgInfo    MessageType = iota // Informational, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // Completed actions, flash
	MsgWarning                    // Warnings, flash
)

// tick is posted by the animation goroutine.
type tick struct{}

// Editor holds all editor state. Everything except post runs on the
// goroutine that calls run.
type Editor struct {
	screen   tcell.Screen
	ctx      *think.Context
	tracker  *mouse.Tracker
	measurer *textlayout.CellMeasurer
	opts     *config.Options
	store    thoughtstore.Store
	log      *zap.Logger

	path      string // File the thought was read from; empty when stored
	exportDir string
	lastSave  time.Time

	mode        Mode
	inputPrompt string
	input       []rune
	onInput     func(string)

	message           string
	messageType       MessageType
	messageFlashStart int64

	closed bool
}

// newEditor returns an editor drawing to screen. No thought is open.
func newEditor(screen tcell.Screen, opts *config.Options, store thoughtstore.Store, log *zap.Logger) *Editor {
	ed := &Editor{
		screen:   screen,
		tracker:  mouse.NewTracker(opts.DoubleClick(), opts.Editor.ClickSlop),
		measurer: &textlayout.CellMeasurer{CellWidth: opts.Editor.CellWidth},
		opts:     opts,
		store:    store,
		log:      log,
	}
	ed.exportDir, _ = os.Getwd()
	ed.ctx = think.New(ed.measurer, editorOptions(opts), think.DefaultHandler{Host: host{ed}}, log.Named("think"))
	return ed
}

// editorOptions lays one label line out per terminal row.
func editorOptions(o *config.Options) think.Options {
	to := o.Think()
	to.Layout.Font.Size = o.Editor.CellHeight
	return to
}

// loadThought resolves the command line argument. A path with a thought
// extension is read from disk, or started afresh when it does not exist
// yet; anything else is a stored thought id. No argument starts a new
// thought.
func loadThought(ctx context.Context, store thoughtstore.Store, args []string) (t *thought.Thought, path string, err error) {
	if len(args) == 0 {
		return untitled("Untitled"), "", nil
	}
	arg := args[0]
	if _, ferr := thoughtfile.FormatOf(arg); ferr == nil {
		t, err = thoughtfile.ReadFile(arg)
		if errors.Is(err, fs.ErrNotExist) {
			name := filepath.Base(arg)
			return untitled(name[:len(name)-len(filepath.Ext(name))]), arg, nil
		}
		return t, arg, err
	}
	t, err = store.Load(ctx, arg)
	return t, "", err
}

// untitled returns a thought holding a single empty node.
func untitled(name string) *thought.Thought {
	t := thought.New(name)
	t.AddNode(thought.NewNode(0, 0, "", ""))
	return t
}

// open shows t centred in the canvas and starts the animation clock.
func (ed *Editor) open(t *thought.Thought) {
	ed.ctx.Open(t)
	ed.resize()
	w, h := ed.ctx.CanvasSize()
	if box, ok := t.BoundingBox(ed.ctx.Engine(), 0); ok {
		c := box.Center()
		ed.ctx.Viewport().SetOffset(geom.Point{X: c.X - w/2, Y: c.Y - h/2})
	} else {
		ed.ctx.Viewport().SetOffset(geom.Point{X: -w / 2, Y: -h / 2})
	}
	ed.ctx.StartAnimation(ed.post)
}

// post schedules a Tick on the event loop. It is called from the
// animation goroutine and touches nothing but the screen queue.
func (ed *Editor) post() {
	_ = ed.screen.PostEvent(tcell.NewEventInterrupt(tick{}))
}

// watchConfig applies configuration edits on the event loop.
func (ed *Editor) watchConfig(w *config.Watcher) {
	w.OnChange(func(o *config.Options) {
		_ = ed.screen.PostEvent(tcell.NewEventInterrupt(o))
	})
}

// watchStore reports edits made to the open thought by other programs.
func (ed *Editor) watchStore(ctx context.Context) {
	d, ok := ed.store.(*thoughtstore.DirStore)
	if !ok || ed.path != "" {
		return
	}
	go func() {
		err := d.Watch(ctx, func(ch thoughtstore.Change) {
			_ = ed.screen.PostEvent(tcell.NewEventInterrupt(ch))
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			ed.log.Warn("store watch stopped", zap.Error(err))
		}
	}()
}

func (ed *Editor) run() {
	for !ed.closed {
		ed.draw()
		ed.screen.Show()
		ed.handleEvent(ed.screen.PollEvent())
	}
}

func (ed *Editor) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case nil:
		ed.closed = true
	case *tcell.EventResize:
		ed.screen.Sync()
		ed.resize()
	case *tcell.EventKey:
		ed.handleKey(ev)
	case *tcell.EventMouse:
		ed.handleMouse(ev)
	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case tick:
			ed.ctx.Tick(ev.When())
		case *config.Options:
			ed.applyConfig(data)
		case thoughtstore.Change:
			ed.storeChanged(data)
		}
	}
}

// resize fits the canvas to the screen, leaving the bottom rows for the
// status and help bars.
func (ed *Editor) resize() {
	w, h := ed.screen.Size()
	cw, ch := ed.cellSize()
	rows := h - 2
	if rows < 0 {
		rows = 0
	}
	ed.ctx.SetCanvasSize(float64(w)*cw, float64(rows)*ch)
}

func (ed *Editor) cellSize() (w, h float64) {
	return ed.opts.Editor.CellWidth, ed.opts.Editor.CellHeight
}

// cellToCanvas returns the canvas point at the centre of a cell.
func (ed *Editor) cellToCanvas(x, y int) geom.Point {
	cw, ch := ed.cellSize()
	return geom.Point{X: (float64(x) + 0.5) * cw, Y: (float64(y) + 0.5) * ch}
}

// canvasToCell returns the cell holding a canvas point.
func (ed *Editor) canvasToCell(p geom.Point) (int, int) {
	cw, ch := ed.cellSize()
	return int(math.Floor(p.X / cw)), int(math.Floor(p.Y / ch))
}

// worldToCell returns the cell holding a diagram point.
func (ed *Editor) worldToCell(p geom.Point) (int, int) {
	return ed.canvasToCell(ed.ctx.Viewport().ToRelative(p))
}

func (ed *Editor) applyConfig(o *config.Options) {
	ed.opts = o
	ed.tracker.DoubleClick = o.DoubleClick()
	ed.tracker.Slop = o.Editor.ClickSlop
	ed.measurer.CellWidth = o.Editor.CellWidth
	ed.ctx.ApplyOptions(editorOptions(o))
	ed.resize()
	ed.showMessage("Configuration reloaded", MsgSuccess)
}

func (ed *Editor) storeChanged(ch thoughtstore.Change) {
	t := ed.ctx.Thought()
	if t == nil || t.ID != ch.ID || time.Since(ed.lastSave) < time.Second {
		return
	}
	if ch.Removed {
		ed.showMessage("Thought was removed from the store", MsgWarning)
		return
	}
	ed.showMessage("Thought was changed by another program", MsgWarning)
}

func (ed *Editor) handleKey(ev *tcell.EventKey) {
	if _, ok := ed.ctx.PendingConfirmation(); ok {
		ed.handleConfirmKey(ev)
		return
	}
	if ed.mode == ModeInput {
		ed.handleInputKey(ev)
		return
	}
	ed.handleCanvasKey(ev)
}

func (ed *Editor) handleConfirmKey(ev *tcell.EventKey) {
	switch {
	case ev.Key() == tcell.KeyEnter, ev.Rune() == 'y', ev.Rune() == 'Y':
		ed.ctx.ResolveConfirmation(true)
	case ev.Key() == tcell.KeyEscape, ev.Rune() == 'n', ev.Rune() == 'N':
		ed.ctx.ResolveConfirmation(false)
	}
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.endInput()
	case tcell.KeyEnter:
		fn, text := ed.onInput, string(ed.input)
		ed.endInput()
		if fn != nil {
			fn(text)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(ed.input) > 0 {
			ed.input = ed.input[:len(ed.input)-1]
		}
	case tcell.KeyCtrlU:
		ed.input = ed.input[:0]
	case tcell.KeyRune:
		ed.input = append(ed.input, ev.Rune())
	}
}

// Menu shortcuts
var menuKeys = map[tcell.Key]shape.MenuItemType{
	tcell.KeyCtrlQ: shape.MenuClose,
	tcell.KeyCtrlC: shape.MenuClose,
	tcell.KeyCtrlO: shape.MenuThoughtOptions,
	tcell.KeyCtrlS: shape.MenuSave,
	tcell.KeyCtrlE: shape.MenuExport,
}

func (ed *Editor) handleCanvasKey(ev *tcell.EventKey) {
	t := ed.ctx.Thought()
	if t == nil {
		return
	}
	if item, ok := menuKeys[ev.Key()]; ok {
		ed.activateMenuItem(item)
		return
	}

	sel := ed.ctx.Selection().Node()
	switch ev.Key() {
	case tcell.KeyLeft:
		ed.pan(4, 0)
	case tcell.KeyRight:
		ed.pan(-4, 0)
	case tcell.KeyUp:
		ed.pan(0, 2)
	case tcell.KeyDown:
		ed.pan(0, -2)
	case tcell.KeyTab:
		ed.cycleSelection()
	case tcell.KeyEscape:
		if ed.ctx.ConnectStartingNode() != nil {
			ed.ctx.ClearStartingConnectNode()
		} else {
			ed.ctx.Select(nil)
		}
	case tcell.KeyEnter:
		if sel != nil {
			ed.ctx.Emit(think.Intent{Kind: think.IntentEditNode, Node: sel})
		}
	case tcell.KeyDelete:
		if sel != nil {
			ed.ctx.Emit(think.Intent{Kind: think.IntentDestroy, Node: sel, Action: shape.ActionDestroy})
		}
	case tcell.KeyRune:
		if sel == nil {
			return
		}
		switch ev.Rune() {
		case 'n', '+':
			ed.ctx.Emit(think.Intent{Kind: think.IntentCreate, Node: sel, Action: shape.ActionCreate})
		case 'c':
			ed.ctx.Emit(think.Intent{Kind: think.IntentConnect, Node: sel, Action: shape.ActionConnect})
			if ed.ctx.ConnectStartingNode() == sel {
				// The action button click spends one count; match it.
				ed.ctx.ConnectNodesNoEvent()
			}
		}
	}
}

// activateMenuItem behaves like clicking item.
func (ed *Editor) activateMenuItem(item shape.MenuItemType) {
	for _, m := range ed.ctx.MenuItems() {
		if m.Type != item {
			continue
		}
		if m.Disabled(ed.ctx.Thought()) {
			ed.showMessage(item.ToolTip()+" is not available", MsgWarning)
			return
		}
		ed.ctx.Emit(think.Intent{Kind: think.MenuIntent(item), MenuItem: item})
		return
	}
}

// pan moves the view by whole cells.
func (ed *Editor) pan(dx, dy int) {
	cw, ch := ed.cellSize()
	ed.ctx.Viewport().Pan(geom.Point{X: float64(dx) * cw, Y: float64(dy) * ch})
}

// cycleSelection selects the node after the current one.
func (ed *Editor) cycleSelection() {
	nodes := ed.ctx.Thought().Nodes
	if len(nodes) == 0 {
		return
	}
	next := 0
	if sel := ed.ctx.Selection().Node(); sel != nil {
		for i, n := range nodes {
			if n == sel {
				next = (i + 1) % len(nodes)
				break
			}
		}
	}
	ed.ctx.Emit(think.Intent{Kind: think.IntentSelect, Node: nodes[next]})
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	if ed.mode != ModeCanvas || ed.ctx.Thought() == nil {
		return
	}
	if _, ok := ed.ctx.PendingConfirmation(); ok {
		return
	}

	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		ed.pan(0, 2)
		return
	case buttons&tcell.WheelDown != 0:
		ed.pan(0, -2)
		return
	case buttons&tcell.WheelLeft != 0:
		ed.pan(4, 0)
		return
	case buttons&tcell.WheelRight != 0:
		ed.pan(-4, 0)
		return
	}

	x, y := ev.Position()
	_, h := ed.screen.Size()
	if y >= h-2 && !ed.tracker.Pressed() {
		return
	}
	p := ed.cellToCanvas(x, y)
	for _, mev := range ed.tracker.Feed(p, buttons&tcell.Button1 != 0, ev.When()) {
		ed.ctx.Dispatch(mev)
	}
}

// prompt starts a line edit. done receives the text on Enter.
func (ed *Editor) prompt(label, initial string, done func(string)) {
	ed.mode = ModeInput
	ed.inputPrompt = label
	ed.input = []rune(initial)
	ed.onInput = done
	ed.tracker.Reset()
	ed.ctx.ResetMouseStates()
}

func (ed *Editor) endInput() {
	ed.mode = ModeCanvas
	ed.inputPrompt = ""
	ed.input = nil
	ed.onInput = nil
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	if msgType.flashes() {
		ed.messageFlashStart = time.Now().UnixMilli()
	} else {
		ed.messageFlashStart = 0
	}
}

func rootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "thinkedit [file | id]",
		Short:         "Edit a thought in the terminal",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(cmd.Context(), configPath, args)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", config.Path(), "config file")
	return cmd
}

func runEditor(ctx context.Context, configPath string, args []string) error {
	opts, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(opts.Logging())
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := thoughtstore.Open(thoughtstore.Kind(opts.Editor.Store), opts.StorePath(), log.Named("store"))
	if err != nil {
		return err
	}
	defer store.Close()
	if d, ok := store.(*thoughtstore.DirStore); ok {
		d.Format = thoughtfile.Format(opts.Editor.Format)
	}

	t, path, err := loadThought(ctx, store, args)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialise screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.Clear()

	ed := newEditor(screen, opts, store, log)
	ed.path = path
	if path != "" {
		ed.exportDir = filepath.Dir(path)
	}

	if w, err := config.NewWatcher(configPath, opts, log.Named("config")); err != nil {
		log.Warn("config changes will not be picked up", zap.Error(err))
	} else {
		defer w.Close()
		ed.watchConfig(w)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ed.open(t)
	ed.watchStore(watchCtx)
	ed.run()
	ed.ctx.StopAnimation()
	return nil
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("thinkedit:"), err)
		os.Exit(1)
	}
}
