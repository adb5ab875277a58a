package thought

import "github.com/ha1tch/thinkmap/pkg/geom"

// Viewport translates between diagram-absolute and canvas-relative
// coordinates: relative = absolute - offset. Offset changes notify
// observers with MessageXOffset and MessageYOffset.
type Viewport struct {
	x, y float64
	Observable
}

// NewViewport returns a viewport at the given offset.
func NewViewport(xOffset, yOffset float64) *Viewport {
	return &Viewport{x: xOffset, y: yOffset}
}

// XOffset returns the horizontal offset.
func (v *Viewport) XOffset() float64 { return v.x }

// YOffset returns the vertical offset.
func (v *Viewport) YOffset() float64 { return v.y }

// Offset returns both offsets as a point.
func (v *Viewport) Offset() geom.Point {
	return geom.Point{X: v.x, Y: v.y}
}

// SetXOffset sets the horizontal offset.
func (v *Viewport) SetXOffset(x float64) {
	v.x = x
	v.Notify(MessageXOffset)
}

// SetYOffset sets the vertical offset.
func (v *Viewport) SetYOffset(y float64) {
	v.y = y
	v.Notify(MessageYOffset)
}

// SetOffset sets both offsets.
func (v *Viewport) SetOffset(p geom.Point) {
	v.SetXOffset(p.X)
	v.SetYOffset(p.Y)
}

// Pan moves the content by delta on screen, so the offset moves the
// other way.
func (v *Viewport) Pan(delta geom.Point) {
	v.SetOffset(v.Offset().Sub(delta))
}

// ToAbsolute converts a canvas-relative point to diagram coordinates.
func (v *Viewport) ToAbsolute(rel geom.Point) geom.Point {
	return rel.Add(v.Offset())
}

// ToRelative converts a diagram point to canvas-relative coordinates.
func (v *Viewport) ToRelative(abs geom.Point) geom.Point {
	return abs.Sub(v.Offset())
}
