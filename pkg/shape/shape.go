// Package shape derives hit-test geometry from the thought model: node
// circles, connection ribbons, the action ring around the selected node
// and the thought menu.
package shape

import (
	"github.com/ha1tch/thinkmap/pkg/geom"
	"github.com/ha1tch/thinkmap/pkg/textlayout"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

// Options holds the geometric tunables.
type Options struct {
	ControlPointConstant float64 // Ribbon bulge, divided by the smaller radius
	ActionRadius         float64
	ActionMargin         float64
	NumberOfActions      int
	MenuItemRadius       float64
	MenuItemMargin       float64
	MenuPadding          float64
	MenuMarginTop        float64
	MenuMarginLeft       float64
	CircleVertices       int // Polygon approximation used for culling
}

// DefaultOptions returns the stock geometry.
func DefaultOptions() Options {
	return Options{
		ControlPointConstant: 550,
		ActionRadius:         15,
		ActionMargin:         7,
		NumberOfActions:      len(ActionTypes),
		MenuItemRadius:       15,
		MenuItemMargin:       3,
		MenuPadding:          2,
		MenuMarginTop:        5,
		MenuMarginLeft:       5,
		CircleVertices:       geom.DefaultCircleVertices,
	}
}

func (o Options) circleVertices() int {
	if o.CircleVertices < 3 {
		return geom.DefaultCircleVertices
	}
	return o.CircleVertices
}

// Circle is a disc.
type Circle struct {
	Center geom.Point
	Radius float64
}

// NodeCircle returns the hit region of n.
func NodeCircle(n *thought.Node, e *textlayout.Engine) Circle {
	return Circle{Center: n.Center(), Radius: n.Radius(e)}
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p geom.Point) bool {
	return geom.Distance(c.Center, p) <= c.Radius
}

// Polygon approximates the circle with a regular polygon.
func (c Circle) Polygon(vertices int) []geom.Point {
	return geom.CircleToPolygon(c.Center, c.Radius, vertices)
}
