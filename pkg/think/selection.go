package think

import (
	"time"

	"github.com/ha1tch/thinkmap/pkg/thought"
)

// Animatable advances with the animation clock.
type Animatable interface {
	Animate(dt time.Duration)
}

// Selection is the selected node and its pulsing highlight. Addition
// sweeps between Min and Max once per Length, then back.
type Selection struct {
	Min, Max float64
	Length   time.Duration

	node      *thought.Node
	addition  float64
	expanding bool
}

func newSelection(o Options) *Selection {
	s := &Selection{Min: o.SelectionDiffMin, Max: o.SelectionDiffMax, Length: o.AnimationLength}
	s.set(nil)
	return s
}

// Node returns the selected node, or nil.
func (s *Selection) Node() *thought.Node {
	return s.node
}

// Addition returns how far the highlight extends past the node radius.
func (s *Selection) Addition() float64 {
	return s.addition
}

// Expanding reports the pulse direction.
func (s *Selection) Expanding() bool {
	return s.expanding
}

// set changes the selected node and restarts the pulse.
func (s *Selection) set(n *thought.Node) {
	s.node = n
	s.addition = s.Min
	s.expanding = true
}

// Animate advances the pulse by dt. It does nothing without a selection.
func (s *Selection) Animate(dt time.Duration) {
	if s.node == nil || s.Length <= 0 {
		return
	}
	step := (s.Max - s.Min) * float64(dt) / float64(s.Length)
	if s.expanding {
		s.addition += step
	} else {
		s.addition -= step
	}

	if s.addition >= s.Max {
		s.addition = s.Max
		s.expanding = false
	} else if s.addition <= s.Min {
		s.addition = s.Min
		s.expanding = true
	}
}
