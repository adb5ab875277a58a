package shape

import (
	"fmt"
	"math"
	"sort"

	"github.com/ha1tch/thinkmap/pkg/geom"
)

// ActionType names a button in the ring around the selected node.
type ActionType string

const (
	ActionCreate  ActionType = "Create"
	ActionConnect ActionType = "Connect"
	ActionDestroy ActionType = "Destroy"
)

// ActionTypes lists the ring's buttons in angular order.
var ActionTypes = []ActionType{ActionCreate, ActionConnect, ActionDestroy}

// ToolTip returns the button's help text.
func (a ActionType) ToolTip() string {
	switch a {
	case ActionCreate:
		return "Create a node"
	case ActionConnect:
		return "Connect this node to another"
	case ActionDestroy:
		return "Destroy this node"
	}
	return ""
}

// Action is one placed button.
type Action struct {
	Type   ActionType
	Center geom.Point
}

// Contains reports whether p is within radius of the button centre.
func (a Action) Contains(p geom.Point, radius float64) bool {
	return geom.Distance(a.Center, p) <= radius
}

// ActionDistance returns the distance from a node centre to its action
// button centres.
func ActionDistance(nodeRadius float64, opts Options) float64 {
	return nodeRadius + opts.ActionMargin + opts.ActionRadius
}

// ActionAngles returns opts.NumberOfActions button angles in radians,
// centred on 270 degrees (straight up on a y-down canvas) and sorted
// ascending. An even count straddles the centre, an odd one puts a button
// on it.
func ActionAngles(nodeRadius float64, opts Options) []float64 {
	n := opts.NumberOfActions
	diameter := 2 * (opts.ActionRadius + opts.ActionMargin)
	step := math.Atan(diameter / ActionDistance(nodeRadius, opts))
	centre := geom.DegToRad(270)

	pos, neg := centre, centre
	if n%2 == 0 {
		pos = centre + step/2
		neg = centre - step/2
	}

	angles := make([]float64, 0, n)
	for i := 0; i < (n+1)/2; i++ {
		if i == 0 && n%2 != 0 {
			angles = append(angles, centre)
			continue
		}
		angles = append(angles, pos+step*float64(i), neg-step*float64(i))
	}
	sort.Float64s(angles)
	return angles
}

// Actions places one button per type around a node. It panics if the
// ring does not hold exactly one button per type.
func Actions(c Circle, types []ActionType, opts Options) []Action {
	angles := ActionAngles(c.Radius, opts)
	if len(angles) != len(types) {
		panic(fmt.Sprintf("shape: %d action positions for %d action types", len(angles), len(types)))
	}
	dist := ActionDistance(c.Radius, opts)
	actions := make([]Action, len(types))
	for i, a := range angles {
		actions[i] = Action{
			Type:   types[i],
			Center: geom.PointOnCircle(c.Center.X, c.Center.Y, dist, a),
		}
	}
	return actions
}
