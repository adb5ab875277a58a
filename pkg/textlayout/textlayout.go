// Package textlayout fits node labels into the smallest circle it can find.
//
// Two wrapping strategies are provided. The averaging strategy estimates a
// square text block from the mean word width and packs words greedily into
// lines of that width. The exhaustive strategy tries every ordered grouping
// of words into lines, which costs O(2^(n-1)) for n words, and keeps the one
// with the smallest enclosing radius.
package textlayout

import (
	"math"
	"strings"

	"github.com/ha1tch/thinkmap/pkg/geom"
)

// InefficiencyRatio inflates the estimated text area to allow for the
// space wasted by line breaks.
const InefficiencyRatio = 1.7

// DefaultMaxGreedyWords bounds the exhaustive strategy.
const DefaultMaxGreedyWords = 12

// FontStyle identifies the font a label is measured in.
type FontStyle struct {
	Family string
	Size   float64 // Line height in world units
}

// Measurer reports the rendered width of text in world units.
type Measurer interface {
	MeasureText(text string, style FontStyle) float64
}

// MeasureFunc adapts a plain function to Measurer.
type MeasureFunc func(text string, style FontStyle) float64

// MeasureText calls f.
func (f MeasureFunc) MeasureText(text string, style FontStyle) float64 {
	return f(text, style)
}

// Strategy selects how wrapped lines are computed.
type Strategy int

const (
	StrategyAveraging Strategy = iota // Square-block estimate, greedy packing
	StrategyGreedy                    // Exhaustive search over all line groupings
)

func (s Strategy) String() string {
	switch s {
	case StrategyAveraging:
		return "averaging"
	case StrategyGreedy:
		return "greedy"
	}
	return "unknown"
}

// Words splits text on runs of whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// BreakIntoLines packs words into lines no wider than width. A line is
// flushed when the next word would overflow it or when it fills the width
// exactly. A single word wider than width gets a line of its own.
func BreakIntoLines(m Measurer, style FontStyle, words []string, width float64) []string {
	var lines []string
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}

		if m.MeasureText(candidate, style) <= width {
			line = candidate
		} else {
			if line != "" {
				lines = append(lines, line)
			}
			line = word
		}

		if m.MeasureText(line, style) == width {
			lines = append(lines, line)
			line = ""
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// AveragingWidth returns the target line width for the averaging strategy.
func AveragingWidth(m Measurer, style FontStyle, words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	widths := make([]float64, len(words))
	for i, w := range words {
		widths[i] = m.MeasureText(w, style)
	}
	avgWidth := geom.Average(widths)
	area := avgWidth * style.Size * float64(len(words)) * InefficiencyRatio
	return math.Ceil(math.Sqrt(area))
}

// WrapAveraging wraps text using the averaging strategy.
func WrapAveraging(m Measurer, style FontStyle, text string) []string {
	words := Words(text)
	if len(words) == 0 {
		return nil
	}
	return BreakIntoLines(m, style, words, AveragingWidth(m, style, words))
}

// Partitions returns every way of splitting words into consecutive lines,
// in the order produced by repeatedly either appending the next word to the
// last line or starting a new line with it. There are 2^(n-1) results.
func Partitions(words []string) [][]string {
	var results [][]string
	WalkPartitions(words, func(lines []string) {
		results = append(results, append([]string(nil), lines...))
	})
	return results
}

// WalkPartitions calls visit with each partition of words, in the order
// Partitions returns them. The lines slice is reused between calls and
// must be copied to be kept.
func WalkPartitions(words []string, visit func(lines []string)) {
	if len(words) == 0 {
		return
	}
	lines := make([]string, 1, len(words))
	lines[0] = words[0]
	walkPartitions(words[1:], lines, visit)
}

func walkPartitions(rest, lines []string, visit func([]string)) {
	if len(rest) == 0 {
		visit(lines)
		return
	}
	word := rest[0]
	last := len(lines) - 1

	line := lines[last]
	lines[last] = line + " " + word
	walkPartitions(rest[1:], lines, visit)
	lines[last] = line

	walkPartitions(rest[1:], append(lines, word), visit)
}

// WrapGreedy wraps text by trying every partition and keeping the first one
// with the smallest radius.
func WrapGreedy(m Measurer, style FontStyle, text string) []string {
	var best []string
	bestRadius := 0.0
	WalkPartitions(Words(text), func(lines []string) {
		r := RadiusOfLines(m, style, lines)
		if best == nil || r < bestRadius {
			best, bestRadius = append(best[:0], lines...), r
		}
	})
	return best
}

// RadiusOfLines returns the radius of the smallest origin-centred circle
// that holds the top corners of every line, with the block centred at the
// origin and line i at height Size*(len/2 - i).
func RadiusOfLines(m Measurer, style FontStyle, lines []string) float64 {
	origin := geom.Point{}
	radius := 0.0
	for i, line := range lines {
		x := m.MeasureText(line, style) / 2
		y := style.Size * (float64(len(lines))/2 - float64(i))
		if d := geom.Distance(origin, geom.Point{X: x, Y: y}); d > radius {
			radius = d
		}
	}
	return radius
}
