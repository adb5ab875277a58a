package think

import (
	"time"

	"go.uber.org/zap"

	"github.com/ha1tch/thinkmap/pkg/geom"
	"github.com/ha1tch/thinkmap/pkg/shape"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

// resetCullingObserver drops the culling cache when the thought becomes
// modified or the viewport moves.
func (c *Context) resetCullingObserver(msg thought.Message) {
	switch msg {
	case thought.MessageModified:
		if c.thought != nil && c.thought.Modified() {
			c.ResetCulling()
		}
	case thought.MessageXOffset, thought.MessageYOffset:
		c.ResetCulling()
	}
}

// ResetCulling marks the visible sets stale. They are recomputed on the
// next Tick.
func (c *Context) ResetCulling() {
	c.culled = false
	c.culledNodes = nil
	c.culledConns = nil
}

// Culled returns the visible nodes and connections. ok is false until a
// Tick has computed them since the last reset.
func (c *Context) Culled() (nodes []*thought.Node, conns []*thought.Connection, ok bool) {
	return c.culledNodes, c.culledConns, c.culled
}

// View returns the visible area in diagram coordinates.
func (c *Context) View() geom.Rect {
	if c.viewport == nil {
		return geom.Rect{W: c.canvasW, H: c.canvasH}
	}
	return geom.Rect{X: c.viewport.XOffset(), Y: c.viewport.YOffset(), W: c.canvasW, H: c.canvasH}
}

func (c *Context) cull() {
	view := c.View()
	c.culledNodes = shape.CullNodes(c.thought.Nodes, view, c.engine, c.opts.Shape)
	c.culledConns = shape.CullConnections(c.thought.Connections, view, c.engine, c.opts.Shape)
	c.culled = true
	c.log.Debug("culled",
		zap.Int("nodes", len(c.culledNodes)),
		zap.Int("connections", len(c.culledConns)),
	)
}

// Tick advances animations to now and refreshes the culling cache. The
// first tick only records the time.
func (c *Context) Tick(now time.Time) {
	if !c.lastTick.IsZero() {
		dt := now.Sub(c.lastTick)
		for _, a := range c.animatables {
			a.Animate(dt)
		}
	}
	c.lastTick = now

	if c.thought != nil {
		if c.viewport == nil {
			panic("think: Tick without a viewport")
		}
		if !c.culled {
			c.cull()
		}
	}

	if s := c.saveStatus; !s.Until.IsZero() && !now.Before(s.Until) {
		c.saveStatus = SaveStatus{}
	}
}

// StartAnimation calls post once per frame from a background goroutine
// until StopAnimation. post must only schedule a Tick on the goroutine
// that owns the context; it must not touch the context itself. Starting
// an already running animation does nothing. ApplyOptions restarts the
// ticker when the frame rate changes.
func (c *Context) StartAnimation(post func()) {
	if c.stop != nil {
		return
	}
	c.lastTick = time.Time{}
	c.post = post
	c.startTicker()
}

func (c *Context) startTicker() {
	stop := make(chan struct{})
	done := make(chan struct{})
	c.stop, c.done = stop, done
	c.interval = c.opts.FrameInterval()

	post, interval := c.post, c.interval
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				post()
			}
		}
	}()
}

// StopAnimation stops the frame goroutine and waits for it to exit.
func (c *Context) StopAnimation() {
	if c.stop == nil {
		return
	}
	c.stopTicker()
	c.post = nil
}

func (c *Context) stopTicker() {
	close(c.stop)
	<-c.done
	c.stop, c.done = nil, nil
	c.interval = 0
}

// FrameInterval returns the period of the running animation, or zero.
func (c *Context) FrameInterval() time.Duration { return c.interval }

// Animating reports whether the frame goroutine is running.
func (c *Context) Animating() bool {
	return c.stop != nil
}
