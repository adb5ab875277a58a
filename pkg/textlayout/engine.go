package textlayout

import "math"

// Options configures an Engine.
type Options struct {
	Font             FontStyle
	Wrap             bool     // Wrap labels onto several lines
	Strategy         Strategy // Used when Wrap is set
	MinimumTextWidth float64  // Lower bound on the text radius
	Padding          float64  // Added to the text radius
	MaxGreedyWords   int      // Above this StrategyGreedy falls back to averaging; 0 means DefaultMaxGreedyWords
}

// Engine computes display lines and radii for node labels.
type Engine struct {
	Measurer Measurer
	Options  Options
}

// NewEngine returns an Engine measuring with m.
func NewEngine(m Measurer, opts Options) *Engine {
	if m == nil {
		panic("textlayout: nil Measurer")
	}
	return &Engine{Measurer: m, Options: opts}
}

// Lines returns the display lines for text. Without wrapping the whole
// label is a single line.
func (e *Engine) Lines(text string) []string {
	if !e.Options.Wrap {
		return []string{text}
	}
	if e.Options.Strategy == StrategyGreedy && len(Words(text)) <= e.maxGreedyWords() {
		return WrapGreedy(e.Measurer, e.Options.Font, text)
	}
	return WrapAveraging(e.Measurer, e.Options.Font, text)
}

// Radius returns the node radius for text already broken into lines. The
// result is never below MinimumTextWidth + Padding.
func (e *Engine) Radius(text string, lines []string) float64 {
	var inner float64
	if e.Options.Wrap {
		inner = RadiusOfLines(e.Measurer, e.Options.Font, lines)
	} else {
		inner = e.Measurer.MeasureText(text, e.Options.Font) / 2
	}
	return math.Max(inner, e.Options.MinimumTextWidth) + e.Options.Padding
}

// Measure returns the width of text in the engine's font.
func (e *Engine) Measure(text string) float64 {
	return e.Measurer.MeasureText(text, e.Options.Font)
}

func (e *Engine) maxGreedyWords() int {
	if e.Options.MaxGreedyWords > 0 {
		return e.Options.MaxGreedyWords
	}
	return DefaultMaxGreedyWords
}
