package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var square = []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

func TestPointInPolygon(t *testing.T) {
	triangle := []Point{{0, 0}, {10, 0}, {0, 10}}

	tests := []struct {
		name string
		p    Point
		poly []Point
		want bool
	}{
		{"square centre", Pt(5, 5), square, true},
		{"square near corner", Pt(0.5, 9.5), square, true},
		{"square outside right", Pt(15, 5), square, false},
		{"square outside diagonal", Pt(-1, -1), square, false},
		{"square vertex", Pt(10, 10), square, true},
		{"square horizontal edge", Pt(4, 0), square, true},
		{"square vertical edge", Pt(10, 3), square, true},
		{"triangle inside", Pt(2, 2), triangle, true},
		{"triangle hypotenuse", Pt(5, 5), triangle, true},
		{"triangle outside hypotenuse", Pt(6, 6), triangle, false},
		{"triangle beyond edge line", Pt(12, 0), triangle, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, tt.poly); got != tt.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPointInPolygonPanicsOnDegeneratePolygon(t *testing.T) {
	assert.Panics(t, func() {
		PointInPolygon(Pt(0, 0), []Point{{0, 0}, {1, 1}})
	})
}

func TestPointOnEdge(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		a, b Point
		want bool
	}{
		{"vertical", Pt(2, 5), Pt(2, 0), Pt(2, 10), true},
		{"vertical off", Pt(3, 5), Pt(2, 0), Pt(2, 10), false},
		{"horizontal", Pt(5, 2), Pt(0, 2), Pt(10, 2), true},
		{"diagonal", Pt(3, 3), Pt(0, 0), Pt(10, 10), true},
		{"diagonal off", Pt(3, 4), Pt(0, 0), Pt(10, 10), false},
		{"beyond segment", Pt(11, 11), Pt(0, 0), Pt(10, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointOnEdge(tt.p, tt.a, tt.b); got != tt.want {
				t.Errorf("PointOnEdge(%v, %v-%v) = %v, want %v", tt.p, tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCircleToPolygon(t *testing.T) {
	poly := CircleToPolygon(Pt(10, 20), 5, DefaultCircleVertices)
	if len(poly) != 8 {
		t.Fatalf("Expected 8 vertices, got %d", len(poly))
	}

	// First vertex at angle 0, third at 90 degrees.
	if math.Abs(poly[0].X-15) > 1e-9 || math.Abs(poly[0].Y-20) > 1e-9 {
		t.Errorf("First vertex expected (15, 20), got %v", poly[0])
	}
	if math.Abs(poly[2].X-10) > 1e-9 || math.Abs(poly[2].Y-25) > 1e-9 {
		t.Errorf("Third vertex expected (10, 25), got %v", poly[2])
	}

	for i, v := range poly {
		if d := Distance(v, Pt(10, 20)); math.Abs(d-5) > 1e-9 {
			t.Errorf("Vertex %d at distance %.4f, want 5", i, d)
		}
	}

	assert.Panics(t, func() { CircleToPolygon(Pt(0, 0), 1, 2) })
}

func TestPolygonInsidePolygon(t *testing.T) {
	overlapping := []Point{{8, 8}, {20, 8}, {20, 20}, {8, 20}}
	disjoint := []Point{{20, 20}, {30, 20}, {30, 30}}

	assert.True(t, PolygonInsidePolygon(overlapping, square))
	assert.False(t, PolygonInsidePolygon(disjoint, square))

	// A polygon that covers the outer one entirely has no vertex inside it.
	covering := []Point{{-5, -5}, {15, -5}, {15, 15}, {-5, 15}}
	assert.False(t, PolygonInsidePolygon(covering, square))
}

func TestCircleInsidePolygon(t *testing.T) {
	assert.True(t, CircleInsidePolygon(Pt(12, 5), 3, square))
	assert.False(t, CircleInsidePolygon(Pt(20, 5), 3, square))
}

func TestAnglesAndDistance(t *testing.T) {
	if math.Abs(DegToRad(180)-math.Pi) > 1e-12 {
		t.Errorf("DegToRad(180) = %f", DegToRad(180))
	}
	if math.Abs(RadToDeg(math.Pi/2)-90) > 1e-12 {
		t.Errorf("RadToDeg(pi/2) = %f", RadToDeg(math.Pi/2))
	}
	if d := Distance(Pt(0, 0), Pt(3, 4)); d != 5 {
		t.Errorf("Distance = %f, want 5", d)
	}

	p := PointOnCircle(1, 1, 2, DegToRad(270))
	if math.Abs(p.X-1) > 1e-9 || math.Abs(p.Y+1) > 1e-9 {
		t.Errorf("PointOnCircle at 270 degrees = %v, want (1, -1)", p)
	}

	assert.True(t, AlmostEqual(1, 1.00005))
	assert.False(t, AlmostEqual(1, 1.0002))
}

func TestRectPolygon(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 4}
	assert.Equal(t, []Point{{1, 2}, {4, 2}, {4, 6}, {1, 6}}, r.Polygon())
	assert.Equal(t, Pt(2.5, 4), r.Center())
}

func TestQuadBezier(t *testing.T) {
	p0, c, p1 := Pt(0, 0), Pt(5, 10), Pt(10, 0)
	assert.Equal(t, p0, QuadBezier(p0, c, p1, 0))
	assert.Equal(t, p1, QuadBezier(p0, c, p1, 1))
	assert.Equal(t, Pt(5, 5), QuadBezier(p0, c, p1, 0.5))
}

// FuzzPointInPolygon checks the angle-sum test against the axis-aligned
// square for points that are clearly inside or outside.
func FuzzPointInPolygon(f *testing.F) {
	f.Add(5.0, 5.0)
	f.Add(0.0, 0.0)
	f.Add(10.0, 5.0)
	f.Add(-3.0, 4.0)
	f.Add(1e9, -1e9)

	f.Fuzz(func(t *testing.T, x, y float64) {
		got := PointInPolygon(Pt(x, y), square)
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return
		}
		const margin = 0.5
		inside := x > margin && x < 10-margin && y > margin && y < 10-margin
		outside := x < -margin || x > 10+margin || y < -margin || y > 10+margin
		if inside && !got {
			t.Errorf("(%g, %g) is inside the square but was rejected", x, y)
		}
		if outside && got {
			t.Errorf("(%g, %g) is outside the square but was accepted", x, y)
		}
	})
}
