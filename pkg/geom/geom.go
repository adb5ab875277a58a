// Planar geometry for thought diagrams.
// Provides containment tests used for hit-testing and culling.

package geom

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used by AlmostEqual and the angle-sum test.
const Epsilon = 0.0001

// DefaultCircleVertices is the vertex count used when a circle is
// approximated by a polygon.
const DefaultCircleVertices = 8

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y float64 // Top-left
	W, H float64 // Full width and height
}

// Polygon returns the corners clockwise from top-left (y grows downward).
func (r Rect) Polygon() []Point {
	return []Point{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X + r.W, r.Y + r.H},
		{r.X, r.Y + r.H},
	}
}

// Center returns the centre of the rectangle.
func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return math.Pi / 180 * deg
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return 180 / math.Pi * rad
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Dot returns the dot product of two 2D vectors.
func Dot(ax, ay, bx, by float64) float64 {
	return ax*bx + ay*by
}

// AlmostEqual reports whether a and b differ by less than Epsilon.
func AlmostEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// PointOnCircle returns the point at angle (radians) on the circle centred
// at (cx, cy) with radius r.
func PointOnCircle(cx, cy, r, angle float64) Point {
	return Point{cx + math.Cos(angle)*r, cy + math.Sin(angle)*r}
}

// CircleToPolygon approximates a circle by a regular polygon whose first
// vertex sits at angle 0.
func CircleToPolygon(center Point, radius float64, vertices int) []Point {
	if vertices < 3 {
		panic(fmt.Sprintf("geom: circle polygon needs at least 3 vertices, got %d", vertices))
	}
	poly := make([]Point, 0, vertices)
	for i := 0; i < vertices; i++ {
		angle := DegToRad(360 / float64(vertices) * float64(i))
		poly = append(poly, PointOnCircle(center.X, center.Y, radius, angle))
	}
	return poly
}

// PointBetween reports whether p lies inside the bounding box of a and b,
// edges included.
func PointBetween(p, a, b Point) bool {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return minX <= p.X && p.X <= maxX && minY <= p.Y && p.Y <= maxY
}

// PointOnEdge reports whether p lies exactly on the segment a-b.
func PointOnEdge(p, a, b Point) bool {
	if !PointBetween(p, a, b) {
		return false
	}
	// Inside the bounding box from here on.
	if a.X == b.X && a.X == p.X {
		return true
	}
	if a.Y == b.Y && a.Y == p.Y {
		return true
	}
	if a.X == b.X || a.Y == b.Y {
		return false
	}

	// y = mx + c
	m := (a.Y - b.Y) / (a.X - b.X)
	c := a.Y - m*a.X
	return m*p.X+c == p.Y
}

// PointInPolygon reports whether p is inside the convex polygon poly, using
// the angle-sum method: the angles subtended at p by every edge sum to 360
// degrees exactly when p is inside. Vertices and points on an edge count as
// inside. Results for concave polygons are unspecified.
func PointInPolygon(p Point, poly []Point) bool {
	if len(poly) < 3 {
		panic(fmt.Sprintf("geom: polygon needs at least 3 vertices, got %d", len(poly)))
	}

	sum := 0.0
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		if p == a || p == b {
			return true
		}
		if PointOnEdge(p, a, b) {
			return true
		}

		dxA, dyA := a.X-p.X, a.Y-p.Y
		dxB, dyB := b.X-p.X, b.Y-p.Y
		magA := math.Sqrt(dxA*dxA + dyA*dyA)
		magB := math.Sqrt(dxB*dxB + dyB*dyB)

		// Rounding can push the cosine just outside [-1, 1].
		cos := Dot(dxA, dyA, dxB, dyB) / (magA * magB)
		cos = math.Max(-1, math.Min(1, cos))

		sum += RadToDeg(math.Acos(cos))
	}
	return AlmostEqual(sum, 360)
}

// PolygonInsidePolygon reports whether any vertex of inner lies inside
// outer. This over-approximates overlap and is only meant for culling.
func PolygonInsidePolygon(inner, outer []Point) bool {
	for _, v := range inner {
		if PointInPolygon(v, outer) {
			return true
		}
	}
	return false
}

// CircleInsidePolygon applies PolygonInsidePolygon to an 8-gon
// approximation of the circle.
func CircleInsidePolygon(center Point, radius float64, poly []Point) bool {
	return PolygonInsidePolygon(CircleToPolygon(center, radius, DefaultCircleVertices), poly)
}

// QuadBezier evaluates the quadratic Bezier p0-c-p1 at t in [0, 1].
func QuadBezier(p0, c, p1 Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
	}
}

// Average returns the arithmetic mean of xs, or 0 for an empty slice.
func Average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
