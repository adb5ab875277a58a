package shape

import (
	"math"

	"github.com/ha1tch/thinkmap/pkg/geom"
	"github.com/ha1tch/thinkmap/pkg/textlayout"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

// ControlPointValue returns the signed distance of a ribbon's control
// points from the midpoint between the two centres. A circle without
// radius gives a straight ribbon with both control points on the midpoint.
func ControlPointValue(constant, r0, r1 float64) float64 {
	r := math.Min(r0, r1)
	if r <= 0 {
		return 0
	}
	return -constant / r
}

// Ribbon is the curved band drawn between two node circles. Top and
// bottom are the points where the perpendicular to the centre line meets
// each circle.
type Ribbon struct {
	Top0, Bottom0 geom.Point
	Top1, Bottom1 geom.Point
	ControlTop    geom.Point
	ControlBottom geom.Point
}

// NewRibbon builds the ribbon between c0 and c1. A vertical centre line
// is treated as a 90 degree angle.
func NewRibbon(c0, c1 Circle, controlPointValue float64) Ribbon {
	dx := c1.Center.X - c0.Center.X
	dy := c1.Center.Y - c0.Center.Y

	angle := geom.DegToRad(90)
	if dx != 0 {
		angle = math.Atan(dy / dx)
	}
	top := angle + geom.DegToRad(90)
	bottom := top + geom.DegToRad(180)

	mid := geom.Point{X: (c0.Center.X + c1.Center.X) / 2, Y: (c0.Center.Y + c1.Center.Y) / 2}
	return Ribbon{
		Top0:          geom.PointOnCircle(c0.Center.X, c0.Center.Y, c0.Radius, top),
		Bottom0:       geom.PointOnCircle(c0.Center.X, c0.Center.Y, c0.Radius, bottom),
		Top1:          geom.PointOnCircle(c1.Center.X, c1.Center.Y, c1.Radius, top),
		Bottom1:       geom.PointOnCircle(c1.Center.X, c1.Center.Y, c1.Radius, bottom),
		ControlTop:    geom.PointOnCircle(mid.X, mid.Y, controlPointValue, top),
		ControlBottom: geom.PointOnCircle(mid.X, mid.Y, controlPointValue, bottom),
	}
}

// ConnectionRibbon returns the ribbon drawn for c.
func ConnectionRibbon(c *thought.Connection, e *textlayout.Engine, opts Options) Ribbon {
	c0 := NodeCircle(c.A, e)
	c1 := NodeCircle(c.B, e)
	return NewRibbon(c0, c1, ControlPointValue(opts.ControlPointConstant, c0.Radius, c1.Radius))
}

// Quads splits the ribbon into two convex quadrilaterals, one per node.
// The second quad lists its control points in the opposite order to the
// first; the containment test depends on this ordering.
func (r Ribbon) Quads() [2][]geom.Point {
	return [2][]geom.Point{
		{r.Top0, r.Bottom0, r.ControlTop, r.ControlBottom},
		{r.Bottom1, r.Top1, r.ControlBottom, r.ControlTop},
	}
}

// Outline is the straight-sided polygon through the four circle points,
// used for culling.
func (r Ribbon) Outline() []geom.Point {
	return []geom.Point{r.Top0, r.Bottom0, r.Bottom1, r.Top1}
}

// Contains reports whether p lies on the ribbon.
func (r Ribbon) Contains(p geom.Point) bool {
	for _, quad := range r.Quads() {
		if geom.PointInPolygon(p, quad) {
			return true
		}
	}
	return false
}

// Curves returns the two quadratic curves bounding the ribbon, each as
// start, control and end points. Renderers sample them with geom.QuadBezier.
func (r Ribbon) Curves() [2][3]geom.Point {
	return [2][3]geom.Point{
		{r.Top0, r.ControlTop, r.Top1},
		{r.Bottom0, r.ControlBottom, r.Bottom1},
	}
}
