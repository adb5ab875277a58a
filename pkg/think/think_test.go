package think

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/thinkmap/pkg/geom"
	"github.com/ha1tch/thinkmap/pkg/mouse"
	"github.com/ha1tch/thinkmap/pkg/shape"
	"github.com/ha1tch/thinkmap/pkg/textlayout"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

var fixedWidth = textlayout.MeasureFunc(func(text string, _ textlayout.FontStyle) float64 {
	return float64(len([]rune(text))) * 10
})

type fakeHost struct {
	edited   []*thought.Node
	options  int
	saved    int
	exported int
	closed   int
}

func (h *fakeHost) EditNode(_ *Context, n *thought.Node) { h.edited = append(h.edited, n) }
func (h *fakeHost) ThoughtOptions(*Context)              { h.options++ }
func (h *fakeHost) Save(*Context)                        { h.saved++ }
func (h *fakeHost) Export(*Context)                      { h.exported++ }
func (h *fakeHost) Closed(*Context)                      { h.closed++ }

type fixture struct {
	c       *Context
	th      *thought.Thought
	a, b    *thought.Node
	host    *fakeHost
	intents []Intent
}

// newFixture opens a thought with A at (0, 0) and B at (100, 0), both of
// radius 25, shown with the diagram origin at canvas (400, 300).
func newFixture(t *testing.T, connected bool) *fixture {
	t.Helper()
	f := &fixture{host: &fakeHost{}}
	f.c = New(fixedWidth, DefaultOptions(), DefaultHandler{Host: f.host}, nil)
	f.c.Subscribe(func(in Intent) { f.intents = append(f.intents, in) })

	f.th = thought.New("test")
	f.a = thought.NewNode(0, 0, "A", "a")
	f.b = thought.NewNode(100, 0, "B", "b")
	f.th.AddNode(f.a)
	f.th.AddNode(f.b)
	if connected {
		require.True(t, f.th.Connect(f.a, f.b))
	}

	f.c.Open(f.th)
	f.c.Viewport().SetOffset(geom.Pt(-400, -300))
	f.c.SetCanvasSize(800, 600)
	return f
}

func (f *fixture) rel(abs geom.Point) geom.Point {
	return f.c.Viewport().ToRelative(abs)
}

func (f *fixture) send(typ mouse.EventType, abs geom.Point) *mouse.Entity[*Context] {
	click := mouse.ClickNone
	if typ == mouse.EventClick {
		click = mouse.ClickSingle
	}
	return f.c.Dispatch(mouse.Event{Type: typ, Click: click, Point: f.rel(abs)})
}

// press performs a full down, up, single click sequence at abs.
func (f *fixture) press(abs geom.Point) {
	f.send(mouse.EventDown, abs)
	f.send(mouse.EventUp, abs)
	f.send(mouse.EventClick, abs)
}

func (f *fixture) nonHover() []IntentKind {
	var kinds []IntentKind
	for _, in := range f.intents {
		if !in.Kind.Hover() {
			kinds = append(kinds, in.Kind)
		}
	}
	return kinds
}

func TestClickOnRibbonRemovesConnection(t *testing.T) {
	f := newFixture(t, true)

	hit := f.send(mouse.EventClick, geom.Pt(50, 0))
	require.NotNil(t, hit)
	assert.Equal(t, "connection", hit.Name)
	assert.Equal(t, []IntentKind{IntentRemoveConnection}, f.nonHover())
	assert.Same(t, f.th.Connections[0], f.intents[0].Connection)

	prompt, ok := f.c.PendingConfirmation()
	require.True(t, ok)
	assert.Equal(t, RemoveConnectionPrompt, prompt)
	assert.Len(t, f.th.Connections, 1, "nothing changes before the answer")

	assert.True(t, f.c.ResolveConfirmation(true))
	assert.Empty(t, f.th.Connections)
	assert.True(t, f.th.Modified())
	assert.False(t, f.c.ResolveConfirmation(true))
}

func TestDecliningRemoveConnectionKeepsIt(t *testing.T) {
	f := newFixture(t, true)
	f.send(mouse.EventClick, geom.Pt(50, 0))
	f.c.ResolveConfirmation(false)
	assert.Len(t, f.th.Connections, 1)
	assert.False(t, f.th.Modified())
}

func TestEventsDroppedWhileConfirming(t *testing.T) {
	f := newFixture(t, true)
	f.send(mouse.EventClick, geom.Pt(50, 0))
	assert.Nil(t, f.send(mouse.EventClick, f.a.Center()))
	assert.Nil(t, f.c.Selection().Node())
}

func TestNodeBeatsConnectionUnderneath(t *testing.T) {
	f := newFixture(t, true)
	// Inside A, where the ribbon also starts.
	hit := f.send(mouse.EventClick, geom.Pt(20, 0))
	require.NotNil(t, hit)
	assert.Equal(t, "node", hit.Name)
	assert.Equal(t, []IntentKind{IntentSelect}, f.nonHover())
	assert.Same(t, f.a, f.c.Selection().Node())
}

func TestEmptyNodeRadius(t *testing.T) {
	f := newFixture(t, false)
	n := thought.NewNode(50, 50, "", "")
	opts := DefaultOptions().Layout
	assert.Equal(t, opts.MinimumTextWidth+opts.Padding, n.Radius(f.c.Engine()))
}

func TestConnectThenClickSecondNode(t *testing.T) {
	f := newFixture(t, false)

	f.press(f.a.Center())
	require.Same(t, f.a, f.c.Selection().Node())

	actions := f.c.Actions()
	require.Len(t, actions, 3)
	connect := actions[1]
	require.Equal(t, shape.ActionConnect, connect.Type)
	assert.InDelta(t, -47, connect.Center.Y, 1e-9)

	f.press(connect.Center)
	require.Same(t, f.a, f.c.ConnectStartingNode())

	f.intents = nil
	f.press(f.b.Center())

	assert.Equal(t, []IntentKind{IntentConnectTwoNodes}, f.nonHover())
	assert.Same(t, f.b, f.intents[0].Node)
	assert.Nil(t, f.c.ConnectStartingNode())
	assert.NotNil(t, f.th.ConnectionBetween(f.a, f.b))
	assert.True(t, f.th.Modified())
}

func TestConnectToAlreadyConnectedNode(t *testing.T) {
	f := newFixture(t, true)
	f.c.SetStartingConnectNode(f.a)
	f.press(f.b.Center())
	assert.Len(t, f.th.Connections, 1)
	assert.False(t, f.th.Modified())
	assert.Nil(t, f.c.ConnectStartingNode())
}

func TestConnectDisarmsAfterStrayClicks(t *testing.T) {
	f := newFixture(t, false)
	f.c.Select(f.a)
	f.press(f.c.Actions()[1].Center)
	require.Same(t, f.a, f.c.ConnectStartingNode(), "the arming click itself counts once")

	f.press(geom.Pt(300, 200))
	assert.Nil(t, f.c.ConnectStartingNode())
	assert.Nil(t, f.c.Selection().Node(), "background click clears the selection")
}

func TestConnectCountdown(t *testing.T) {
	f := newFixture(t, false)
	assert.Panics(t, func() { f.c.SetStartingConnectNode(nil) })

	f.c.SetStartingConnectNode(f.a)
	f.c.ConnectNodesNoEvent()
	assert.Same(t, f.a, f.c.ConnectStartingNode())
	f.c.ConnectNodesNoEvent()
	assert.Nil(t, f.c.ConnectStartingNode())
	f.c.ConnectNodesNoEvent()
	assert.Nil(t, f.c.ConnectStartingNode())
}

func TestDoubleClickEditsNode(t *testing.T) {
	f := newFixture(t, false)
	f.c.Dispatch(mouse.Event{Type: mouse.EventClick, Click: mouse.ClickDouble, Point: f.rel(f.b.Center())})

	assert.Equal(t, []IntentKind{IntentEditNode}, f.nonHover())
	assert.Equal(t, []*thought.Node{f.b}, f.host.edited)
	assert.Same(t, f.b, f.c.Selection().Node())

	f.c.SetNodeText(f.b, "renamed")
	assert.Equal(t, "renamed", f.b.Text())
	assert.True(t, f.th.Modified())
}

func TestDragNode(t *testing.T) {
	f := newFixture(t, true)

	f.send(mouse.EventDown, f.a.Center())
	require.Same(t, f.a, f.c.DraggedNode())
	require.True(t, f.c.Dragging())

	f.send(mouse.EventHover, geom.Pt(10, 5))
	f.send(mouse.EventHover, geom.Pt(15, 5))
	assert.Equal(t, geom.Pt(15, 5), f.a.Center())
	assert.True(t, f.th.Modified())
	assert.Equal(t, geom.Pt(-400, -300), f.c.Viewport().Offset(), "dragging a node does not pan")

	f.send(mouse.EventUp, geom.Pt(15, 5))
	assert.Nil(t, f.c.DraggedNode())
	assert.False(t, f.c.Dragging())

	f.send(mouse.EventHover, geom.Pt(40, 40))
	assert.Equal(t, geom.Pt(15, 5), f.a.Center())
}

func TestDragBackgroundPans(t *testing.T) {
	f := newFixture(t, false)

	down := f.rel(geom.Pt(300, 200))
	f.c.Dispatch(mouse.Event{Type: mouse.EventDown, Point: down})
	assert.Nil(t, f.c.DraggedNode())

	hit := f.c.Dispatch(mouse.Event{Type: mouse.EventHover, Point: down.Add(geom.Pt(20, 10))})
	require.NotNil(t, hit)
	assert.Equal(t, "viewport", hit.Name)
	assert.Equal(t, geom.Pt(-420, -310), f.c.Viewport().Offset())
	assert.False(t, f.th.Modified())

	f.c.Dispatch(mouse.Event{Type: mouse.EventUp, Point: down})
	assert.Nil(t, f.c.Dispatch(mouse.Event{Type: mouse.EventHover, Point: down}))
}

func TestHoverState(t *testing.T) {
	f := newFixture(t, true)

	f.send(mouse.EventHover, f.a.Center())
	assert.Same(t, f.a, f.c.Hover.Node)

	f.send(mouse.EventHover, geom.Pt(50, 0))
	assert.Nil(t, f.c.Hover.Node)
	assert.Same(t, f.th.Connections[0], f.c.Hover.Connection)

	f.c.Dispatch(mouse.Event{Type: mouse.EventHover, Point: f.c.MenuItems()[2].Center})
	assert.Equal(t, shape.MenuSave, f.c.Hover.MenuItem, "disabled items can still be hovered")
	assert.Nil(t, f.c.Hover.Connection)

	f.c.Select(f.a)
	f.send(mouse.EventHover, f.c.Actions()[0].Center)
	assert.Equal(t, shape.ActionCreate, f.c.Hover.Action)
	assert.Empty(t, f.c.Hover.MenuItem)

	f.send(mouse.EventHover, geom.Pt(300, 200))
	assert.Equal(t, Hover{}, f.c.Hover)
}

func TestCreateAction(t *testing.T) {
	f := newFixture(t, false)
	f.c.Select(f.a)

	f.press(f.c.Actions()[0].Center)

	require.Len(t, f.th.Nodes, 3)
	created := f.th.Nodes[2]
	assert.Equal(t, geom.Pt(0, -80), created.Center())
	assert.Same(t, created, f.c.Selection().Node())
	assert.NotNil(t, f.th.ConnectionBetween(f.a, created))
	assert.True(t, f.th.Modified())
	assert.Equal(t, []IntentKind{IntentCreate}, f.nonHover())
}

func TestDestroyAction(t *testing.T) {
	f := newFixture(t, true)
	f.c.Select(f.a)
	f.c.SetStartingConnectNode(f.a)

	f.press(f.c.Actions()[2].Center)

	assert.Equal(t, []*thought.Node{f.b}, f.th.Nodes)
	assert.Empty(t, f.th.Connections)
	assert.Nil(t, f.c.Selection().Node())
	assert.Nil(t, f.c.ConnectStartingNode())
	assert.True(t, f.th.Modified())
}

func TestMenuSave(t *testing.T) {
	f := newFixture(t, false)
	save := f.c.MenuItems()[2]
	click := mouse.Event{Type: mouse.EventClick, Click: mouse.ClickSingle, Point: save.Center}

	f.c.Dispatch(click)
	assert.Zero(t, f.host.saved, "save is disabled until the thought changes")

	f.th.SetModified(true)
	f.c.Dispatch(click)
	assert.Equal(t, 1, f.host.saved)
	assert.Equal(t, SaveInProgress, f.c.SaveStatus().State)
}

func TestMenuItems(t *testing.T) {
	f := newFixture(t, false)
	items := f.c.MenuItems()
	for _, idx := range []int{1, 3} {
		f.c.Dispatch(mouse.Event{Type: mouse.EventClick, Click: mouse.ClickSingle, Point: items[idx].Center})
	}
	assert.Equal(t, 1, f.host.options)
	assert.Equal(t, 1, f.host.exported)
	assert.Equal(t, []IntentKind{IntentThoughtOptions, IntentExport}, f.nonHover())
}

func TestCloseUnmodified(t *testing.T) {
	f := newFixture(t, false)
	f.c.Dispatch(mouse.Event{Type: mouse.EventClick, Click: mouse.ClickSingle, Point: f.c.MenuItems()[0].Center})

	_, pending := f.c.PendingConfirmation()
	assert.False(t, pending)
	assert.Nil(t, f.c.Thought())
	assert.Nil(t, f.c.Viewport())
	assert.Equal(t, 1, f.host.closed)
}

func TestCloseModifiedAsks(t *testing.T) {
	f := newFixture(t, false)
	f.th.SetModified(true)
	closeAt := f.c.MenuItems()[0].Center

	f.c.Dispatch(mouse.Event{Type: mouse.EventClick, Click: mouse.ClickSingle, Point: closeAt})
	prompt, pending := f.c.PendingConfirmation()
	require.True(t, pending)
	assert.Equal(t, CloseUnsavedPrompt, prompt)

	f.c.ResolveConfirmation(false)
	assert.Same(t, f.th, f.c.Thought())

	f.c.Dispatch(mouse.Event{Type: mouse.EventClick, Click: mouse.ClickSingle, Point: closeAt})
	f.c.ResolveConfirmation(true)
	assert.Nil(t, f.c.Thought())
	assert.Equal(t, 1, f.host.closed)
}

func TestDispatchWithoutThought(t *testing.T) {
	c := New(fixedWidth, DefaultOptions(), nil, nil)
	assert.Nil(t, c.Dispatch(mouse.Event{Type: mouse.EventClick}))

	c.SetThought(thought.New("t"))
	assert.Panics(t, func() { c.Dispatch(mouse.Event{Type: mouse.EventClick}) })
}

func TestSetThoughtSwapsObservers(t *testing.T) {
	f := newFixture(t, false)
	f.c.Select(f.a)
	f.c.SetStartingConnectNode(f.a)
	require.Equal(t, 1, f.th.Observers())

	next := thought.New("next")
	f.c.SetThought(next)

	assert.Equal(t, 0, f.th.Observers())
	assert.Equal(t, 1, next.Observers())
	assert.Nil(t, f.c.Selection().Node())
	assert.Nil(t, f.c.ConnectStartingNode())
	assert.Panics(t, func() { f.c.Select(f.a) }, "old nodes cannot be selected")

	v := f.c.Viewport()
	f.c.SetViewport(thought.NewViewport(0, 0))
	assert.Equal(t, 0, v.Observers())
}

func TestTickAnimatesSelection(t *testing.T) {
	f := newFixture(t, false)
	opts := DefaultOptions()
	sel := f.c.Selection()
	t0 := time.Unix(100, 0)

	f.c.Tick(t0)
	f.c.Select(f.a)
	assert.Equal(t, opts.SelectionDiffMin, sel.Addition())

	f.c.Tick(t0.Add(500 * time.Millisecond))
	assert.InDelta(t, opts.SelectionDiffMin+5, sel.Addition(), 1e-9)
	assert.InDelta(t, 25+opts.SelectionDiffMin+5, f.c.SelectionRadius(), 1e-9)

	f.c.Tick(t0.Add(1500 * time.Millisecond))
	assert.Equal(t, opts.SelectionDiffMax, sel.Addition())
	assert.False(t, sel.Expanding())

	f.c.Tick(t0.Add(2500 * time.Millisecond))
	assert.Equal(t, opts.SelectionDiffMin, sel.Addition())
	assert.True(t, sel.Expanding())

	f.c.Select(f.b)
	assert.Equal(t, opts.SelectionDiffMin, sel.Addition())
}

func TestSelectionIdleWithoutNode(t *testing.T) {
	s := newSelection(DefaultOptions())
	s.Animate(time.Second)
	assert.Equal(t, DefaultOptions().SelectionDiffMin, s.Addition())
}

func TestCullingRefreshedOnTick(t *testing.T) {
	f := newFixture(t, true)
	far := thought.NewNode(5000, 5000, "far", "")
	f.th.AddNode(far)

	_, _, ok := f.c.Culled()
	assert.False(t, ok)

	f.c.Tick(time.Unix(0, 0))
	nodes, conns, ok := f.c.Culled()
	require.True(t, ok)
	assert.Equal(t, []*thought.Node{f.a, f.b}, nodes)
	assert.Len(t, conns, 1)

	f.th.SetModified(false)
	_, _, ok = f.c.Culled()
	assert.True(t, ok, "clearing modified keeps the cache")

	f.th.SetModified(true)
	_, _, ok = f.c.Culled()
	assert.False(t, ok)

	f.c.Tick(time.Unix(1, 0))
	f.c.Viewport().Pan(geom.Pt(1, 0))
	_, _, ok = f.c.Culled()
	assert.False(t, ok)

	f.c.Viewport().SetOffset(geom.Pt(4600, 4700))
	f.c.Tick(time.Unix(2, 0))
	nodes, conns, _ = f.c.Culled()
	assert.Equal(t, []*thought.Node{far}, nodes)
	assert.Empty(t, conns)
}

func TestSaveStatusExpires(t *testing.T) {
	f := newFixture(t, false)
	now := time.Unix(1000, 0)
	f.c.now = func() time.Time { return now }

	f.c.SetSaveStatus(SaveSucceeded, "")
	assert.Equal(t, "Saved", f.c.SaveStatus().State.String())

	f.c.Tick(now.Add(time.Second))
	assert.Equal(t, SaveSucceeded, f.c.SaveStatus().State)
	f.c.Tick(now.Add(3 * time.Second))
	assert.Equal(t, SaveIdle, f.c.SaveStatus().State)
}

func TestAnimationTicker(t *testing.T) {
	opts := DefaultOptions()
	opts.FPS = 200
	c := New(fixedWidth, opts, nil, nil)

	var frames atomic.Int32
	c.StartAnimation(func() { frames.Add(1) })
	c.StartAnimation(func() { t.Error("second start must be ignored") })
	require.True(t, c.Animating())
	require.Eventually(t, func() bool { return frames.Load() >= 2 }, time.Second, time.Millisecond)

	c.StopAnimation()
	assert.False(t, c.Animating())
	stopped := frames.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, frames.Load(), "no frames after stop returns")

	c.StartAnimation(func() {})
	c.Open(thought.New("t"))
	c.Close()
	assert.False(t, c.Animating(), "close stops the animation")
}

func TestApplyOptionsRestartsTicker(t *testing.T) {
	opts := DefaultOptions()
	c := New(fixedWidth, opts, nil, nil)
	assert.Zero(t, c.FrameInterval())

	var frames atomic.Int32
	c.StartAnimation(func() { frames.Add(1) })
	defer c.StopAnimation()
	require.Equal(t, time.Second/25, c.FrameInterval())

	opts.FPS = 200
	c.ApplyOptions(opts)
	require.True(t, c.Animating())
	assert.Equal(t, 5*time.Millisecond, c.FrameInterval())
	require.Eventually(t, func() bool { return frames.Load() >= 2 }, time.Second, time.Millisecond,
		"frames keep coming from the restarted ticker")

	opts.ZOrder = DefaultOptions().ZOrder
	c.ApplyOptions(opts)
	assert.Equal(t, 5*time.Millisecond, c.FrameInterval())

	c.StopAnimation()
	assert.Zero(t, c.FrameInterval())
}

func TestApplyOptions(t *testing.T) {
	f := newFixture(t, false)
	f.c.Tick(time.Unix(0, 0))
	require.Equal(t, 25.0, f.a.Radius(f.c.Engine()))

	opts := DefaultOptions()
	opts.Layout.Padding = 30
	opts.ZOrder.Connection = 10
	f.c.ApplyOptions(opts)

	assert.Equal(t, 40.0, f.a.Radius(f.c.Engine()))
	_, _, ok := f.c.Culled()
	assert.False(t, ok)
	for _, e := range f.c.Dispatcher().Entities() {
		if e.Name == "connection" {
			assert.Equal(t, 10, e.Priority)
		}
	}
}

func TestIntentKinds(t *testing.T) {
	assert.Equal(t, "ConnectTwoNodes", IntentConnectTwoNodes.String())
	assert.Equal(t, "IntentKind(99)", IntentKind(99).String())
	assert.True(t, IntentHoverNode.Hover())
	assert.False(t, IntentExport.Hover())
	assert.Panics(t, func() { deliver(DefaultHandler{}, nil, Intent{Kind: IntentKind(99)}) })
}
