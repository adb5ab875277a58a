package think

import (
	"time"

	"github.com/ha1tch/thinkmap/pkg/shape"
	"github.com/ha1tch/thinkmap/pkg/textlayout"
)

// ZOrders are the dispatch priorities of the default entities.
type ZOrders struct {
	Dragging   int
	MenuItem   int
	Action     int
	Node       int
	Connection int
	Viewport   int
}

// Options configures a Context.
type Options struct {
	Layout textlayout.Options
	Shape  shape.Options
	ZOrder ZOrders

	FPS                 int
	AnimationLength     time.Duration // One sweep of the selection pulse
	SelectionPadding    float64
	SelectionDiffMin    float64
	SelectionDiffMax    float64
	CreatedNodeDistance float64
	ExportPadding       float64
	SaveStatusDuration  time.Duration
}

// DefaultOptions returns the stock behaviour.
func DefaultOptions() Options {
	sh := shape.DefaultOptions()
	padding := 5.0
	diffMin := (sh.ActionRadius+sh.ActionMargin)*2 + padding
	return Options{
		Layout: textlayout.Options{
			Font:             textlayout.FontStyle{Family: "sans-serif", Size: 14},
			Wrap:             true,
			Strategy:         textlayout.StrategyAveraging,
			MinimumTextWidth: 10,
			Padding:          15,
			MaxGreedyWords:   textlayout.DefaultMaxGreedyWords,
		},
		Shape: sh,
		ZOrder: ZOrders{
			Dragging:   5,
			MenuItem:   4,
			Action:     3,
			Node:       2,
			Connection: 1,
			Viewport:   0,
		},
		FPS:                 25,
		AnimationLength:     time.Second,
		SelectionPadding:    padding,
		SelectionDiffMin:    diffMin,
		SelectionDiffMax:    diffMin + 10,
		CreatedNodeDistance: 30,
		ExportPadding:       10,
		SaveStatusDuration:  3 * time.Second,
	}
}

// FrameInterval returns the animation tick period.
func (o Options) FrameInterval() time.Duration {
	if o.FPS <= 0 {
		return time.Second / 25
	}
	return time.Second / time.Duration(o.FPS)
}
