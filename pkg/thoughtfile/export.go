package thoughtfile

import (
	"errors"

	"github.com/ha1tch/thinkmap/pkg/geom"
	"github.com/ha1tch/thinkmap/pkg/shape"
	"github.com/ha1tch/thinkmap/pkg/textlayout"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

// ErrEmptyThought is returned when exporting a thought with no nodes.
var ErrEmptyThought = errors.New("thought has no nodes")

// ImageOptions controls PNG and SVG export.
type ImageOptions struct {
	Padding   float64 // World units around the nodes
	Scale     float64 // Pixels per world unit
	LineWidth float64 // Outline width in world units
	Shape     shape.Options
}

// DefaultImageOptions returns the export defaults.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{
		Padding:   10,
		Scale:     1,
		LineWidth: 2,
		Shape:     shape.DefaultOptions(),
	}
}

// frame returns the exported area of t in world coordinates.
func frame(t *thought.Thought, e *textlayout.Engine, opts ImageOptions) (geom.Rect, error) {
	box, ok := t.BoundingBox(e, opts.Padding)
	if !ok {
		return geom.Rect{}, ErrEmptyThought
	}
	return box, nil
}

// labelLines returns n's lines with the vertical centre of each, line 0
// on top.
func labelLines(n *thought.Node, e *textlayout.Engine) ([]string, []float64) {
	lines := n.Lines(e)
	ys := make([]float64, len(lines))
	size := e.Options.Font.Size
	for i := range lines {
		ys[i] = n.Y + size*(float64(i)-float64(len(lines)-1)/2)
	}
	return lines, ys
}
