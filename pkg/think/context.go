// Package think holds the state of an open thought and turns pointer
// events into edits of it.
//
// A Context owns the thought, its viewport, the selection, hover and drag
// state, and the mouse entities that interpret pointer events. Everything
// runs on the caller's goroutine: the host feeds pointer events to
// Dispatch and animation ticks to Tick from a single event loop.
package think

import (
	"time"

	"go.uber.org/zap"

	"github.com/ha1tch/thinkmap/pkg/geom"
	"github.com/ha1tch/thinkmap/pkg/mouse"
	"github.com/ha1tch/thinkmap/pkg/shape"
	"github.com/ha1tch/thinkmap/pkg/textlayout"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

// Prompts shown before destructive intents.
const (
	RemoveConnectionPrompt = "Are you sure you want to delete this connection?"
	CloseUnsavedPrompt     = "This thought has unsaved changes. Do you still want to close it?"
)

// connectCountdown is spent by clicks that miss every node, the arming
// click on the action button included, so the next stray click disarms.
const connectCountdown = 2

// Hover is what the pointer is over. Each field is cleared by the entity
// that owns it when the pointer leaves.
type Hover struct {
	MenuItem   shape.MenuItemType
	Action     shape.ActionType
	Node       *thought.Node
	Connection *thought.Connection
}

// SaveState is the progress of the last save, shown in the menu.
type SaveState int

const (
	SaveIdle SaveState = iota
	SaveInProgress
	SaveSucceeded
	SaveFailed
	SaveTimedOut
)

func (s SaveState) String() string {
	switch s {
	case SaveInProgress:
		return "Saving..."
	case SaveSucceeded:
		return "Saved"
	case SaveFailed:
		return "Save failed"
	case SaveTimedOut:
		return "Save timed out"
	}
	return ""
}

// SaveStatus is the save message and when it stops being shown.
type SaveStatus struct {
	State   SaveState
	Message string
	Until   time.Time // Zero while saving
}

type confirmation struct {
	prompt string
	onYes  func()
}

// Context is the single source of truth for one open thought.
type Context struct {
	opts    Options
	engine  *textlayout.Engine
	log     *zap.Logger
	handler IntentHandler
	now     func() time.Time

	thought     *thought.Thought
	thoughtSub  thought.Subscription
	viewport    *thought.Viewport
	viewportSub thought.Subscription
	canvasW     float64
	canvasH     float64

	selection   *Selection
	animatables []Animatable
	Hover       Hover

	dragging     bool
	lastDrag     geom.Point // Canvas-relative
	dragged      *thought.Node
	connectStart *thought.Node
	connectLeft  int

	culled      bool
	culledNodes []*thought.Node
	culledConns []*thought.Connection

	dispatcher *mouse.Dispatcher[*Context]
	listeners  []func(Intent)
	pending    *confirmation
	saveStatus SaveStatus

	lastTick time.Time
	stop     chan struct{}
	done     chan struct{}
	post     func()
	interval time.Duration // Period of the running ticker
}

// New returns a context measuring text with m. A nil handler selects
// DefaultHandler without a host and a nil logger discards output.
func New(m textlayout.Measurer, opts Options, handler IntentHandler, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	if handler == nil {
		handler = DefaultHandler{}
	}
	c := &Context{
		opts:    opts,
		engine:  textlayout.NewEngine(m, opts.Layout),
		log:     log,
		handler: handler,
		now:     time.Now,
	}
	c.selection = newSelection(opts)
	c.dispatcher = mouse.NewDispatcher(log.Named("mouse"), DefaultEntities(opts.ZOrder)...)
	return c
}

// Options returns the current options.
func (c *Context) Options() Options { return c.opts }

// Engine returns the text layout engine nodes are measured with.
func (c *Context) Engine() *textlayout.Engine { return c.engine }

// Thought returns the open thought, or nil.
func (c *Context) Thought() *thought.Thought { return c.thought }

// Viewport returns the viewport, or nil.
func (c *Context) Viewport() *thought.Viewport { return c.viewport }

// Selection returns the selection.
func (c *Context) Selection() *Selection { return c.selection }

// Dispatcher returns the dispatcher, for registering extra entities.
func (c *Context) Dispatcher() *mouse.Dispatcher[*Context] { return c.dispatcher }

// Open shows t through a fresh viewport at the origin.
func (c *Context) Open(t *thought.Thought) {
	c.SetThought(t)
	c.SetViewport(thought.NewViewport(0, 0))
}

// SetThought swaps the open thought. The old thought's observers and
// animations are removed and the selection cleared before t is attached.
func (c *Context) SetThought(t *thought.Thought) {
	if c.thought != nil {
		c.thought.Unsubscribe(c.thoughtSub)
		c.animatables = nil
		c.selection.set(nil)
		c.ResetMouseStates()
		c.connectStart, c.connectLeft = nil, 0
	}
	c.thought = t
	c.ResetCulling()
	if t != nil {
		c.thoughtSub = t.Subscribe(c.resetCullingObserver)
		c.animatables = append(c.animatables, c.selection)
		c.log.Info("thought opened", zap.String("name", t.Name), zap.Int("nodes", len(t.Nodes)))
	}
}

// SetViewport swaps the viewport.
func (c *Context) SetViewport(v *thought.Viewport) {
	if c.viewport != nil {
		c.viewport.Unsubscribe(c.viewportSub)
	}
	c.viewport = v
	c.ResetCulling()
	if v != nil {
		c.viewportSub = v.Subscribe(c.resetCullingObserver)
	}
}

// SetCanvasSize records the visible area in canvas units.
func (c *Context) SetCanvasSize(w, h float64) {
	c.canvasW, c.canvasH = w, h
	c.ResetCulling()
}

// CanvasSize returns the visible area.
func (c *Context) CanvasSize() (w, h float64) {
	return c.canvasW, c.canvasH
}

// Close drops the thought and viewport, stops the animation and clears
// every reference into the old thought.
func (c *Context) Close() {
	name := ""
	if c.thought != nil {
		name = c.thought.Name
	}
	c.SetThought(nil)
	c.SetViewport(nil)
	c.StopAnimation()
	c.ResetMouseStates()
	c.Hover = Hover{}
	c.connectStart, c.connectLeft = nil, 0
	c.pending = nil
	c.log.Info("thought closed", zap.String("name", name))
}

// ResetMouseStates forgets any drag in progress and the hover state.
func (c *Context) ResetMouseStates() {
	c.dragging = false
	c.dragged = nil
	c.Hover = Hover{}
}

// Dragging reports whether the pointer is held down on the canvas.
func (c *Context) Dragging() bool { return c.dragging }

// DraggedNode returns the node being dragged, or nil.
func (c *Context) DraggedNode() *thought.Node { return c.dragged }

// Select selects n, or clears the selection for nil. It panics if n is
// not in the open thought.
func (c *Context) Select(n *thought.Node) {
	if n != nil && !c.mustThought().HasNode(n) {
		panic("think: selecting a node outside the open thought")
	}
	c.selection.set(n)
}

// SetNodeText relabels n and marks the thought modified.
func (c *Context) SetNodeText(n *thought.Node, text string) {
	n.SetText(text)
	c.mustThought().SetModified(true)
}

// SetStartingConnectNode arms connect mode from n.
func (c *Context) SetStartingConnectNode(n *thought.Node) {
	if n == nil {
		panic("think: SetStartingConnectNode with nil node")
	}
	c.connectStart = n
	c.connectLeft = connectCountdown
}

// ConnectStartingNode returns the armed node, or nil.
func (c *Context) ConnectStartingNode() *thought.Node { return c.connectStart }

// ClearStartingConnectNode disarms connect mode.
func (c *Context) ClearStartingConnectNode() {
	c.connectStart = nil
	c.connectLeft = 0
}

// ConnectNodesNoEvent counts a click that did not land on a node. Connect
// mode disarms once the countdown runs out.
func (c *Context) ConnectNodesNoEvent() {
	c.connectLeft--
	if c.connectLeft <= 0 {
		c.ClearStartingConnectNode()
	}
}

// forget clears every transient reference to n.
func (c *Context) forget(n *thought.Node) {
	if c.selection.Node() == n {
		c.selection.set(nil)
	}
	if c.dragged == n {
		c.dragged = nil
	}
	if c.connectStart == n {
		c.ClearStartingConnectNode()
	}
	if c.Hover.Node == n {
		c.Hover.Node = nil
	}
	if c.Hover.Connection != nil && c.Hover.Connection.Has(n) {
		c.Hover.Connection = nil
	}
}

// Actions returns the action buttons around the selected node, in
// diagram coordinates.
func (c *Context) Actions() []shape.Action {
	n := c.selection.Node()
	if n == nil {
		return nil
	}
	return shape.Actions(shape.NodeCircle(n, c.engine), shape.ActionTypes, c.opts.Shape)
}

// MenuItems returns the thought menu, in canvas coordinates.
func (c *Context) MenuItems() []shape.MenuItem {
	return shape.MenuItems(shape.MenuItemTypes, c.opts.Shape)
}

// SelectionRadius returns the radius of the selection highlight.
func (c *Context) SelectionRadius() float64 {
	n := c.selection.Node()
	if n == nil {
		return 0
	}
	return n.Radius(c.engine) + c.selection.Addition()
}

// Subscribe registers fn to see every intent before it is handled.
func (c *Context) Subscribe(fn func(Intent)) {
	c.listeners = append(c.listeners, fn)
}

// Emit announces in to listeners and hands it to the intent handler.
func (c *Context) Emit(in Intent) {
	if !in.Kind.Hover() {
		c.log.Debug("intent", zap.Stringer("kind", in.Kind))
	}
	for _, fn := range c.listeners {
		fn(in)
	}
	deliver(c.handler, c, in)
}

// Dispatch feeds a pointer event through the mouse entities. Events are
// ignored while no thought is open or a confirmation is pending. It
// returns the entity that consumed the event, or nil.
func (c *Context) Dispatch(ev mouse.Event) *mouse.Entity[*Context] {
	if c.thought == nil || c.pending != nil {
		return nil
	}
	if c.viewport == nil {
		panic("think: Dispatch without a viewport")
	}
	return c.dispatcher.Dispatch(c, ev, c.viewport.ToAbsolute)
}

// Confirm defers onYes until the user answers prompt. Pointer events are
// dropped until ResolveConfirmation is called.
func (c *Context) Confirm(prompt string, onYes func()) {
	if c.pending != nil {
		panic("think: a confirmation is already pending")
	}
	c.pending = &confirmation{prompt: prompt, onYes: onYes}
}

// PendingConfirmation returns the prompt awaiting an answer.
func (c *Context) PendingConfirmation() (prompt string, ok bool) {
	if c.pending == nil {
		return "", false
	}
	return c.pending.prompt, true
}

// ResolveConfirmation answers the pending prompt, running its action on
// yes. It reports whether a prompt was pending.
func (c *Context) ResolveConfirmation(yes bool) bool {
	p := c.pending
	if p == nil {
		return false
	}
	c.pending = nil
	if yes && p.onYes != nil {
		p.onYes()
	}
	return true
}

// SaveStatus returns the current save message.
func (c *Context) SaveStatus() SaveStatus { return c.saveStatus }

// SetSaveStatus shows a save message. Finished states expire after
// Options.SaveStatusDuration.
func (c *Context) SetSaveStatus(state SaveState, msg string) {
	s := SaveStatus{State: state, Message: msg}
	if state != SaveIdle && state != SaveInProgress {
		s.Until = c.now().Add(c.opts.SaveStatusDuration)
	}
	c.saveStatus = s
}

// ApplyOptions switches to new options. Node layouts are recomputed and
// the default mouse entities rebuilt with the new priorities; entities
// registered through Dispatcher must be registered again.
func (c *Context) ApplyOptions(opts Options) {
	c.opts = opts
	c.engine = textlayout.NewEngine(c.engine.Measurer, opts.Layout)
	if c.thought != nil {
		c.thought.InvalidateLayouts()
	}
	c.selection.Min, c.selection.Max, c.selection.Length = opts.SelectionDiffMin, opts.SelectionDiffMax, opts.AnimationLength
	c.selection.set(c.selection.Node())
	c.dispatcher = mouse.NewDispatcher(c.log.Named("mouse"), DefaultEntities(opts.ZOrder)...)
	c.ResetCulling()
	if c.Animating() && opts.FrameInterval() != c.interval {
		c.stopTicker()
		c.startTicker()
	}
	c.log.Info("options applied")
}

func (c *Context) mustThought() *thought.Thought {
	if c.thought == nil {
		panic("think: no thought is open")
	}
	return c.thought
}
