// Package geom provides floating point pixel geometry for layout.
package geom

import "fmt"

// PointF is a point in pixels.
type PointF struct {
	X, Y float32
}

// Pt is shorthand for PointF{x, y}.
func Pt(x, y float32) PointF { return PointF{X: x, Y: y} }

// Add returns p translated by q.
func (p PointF) Add(q PointF) PointF { return PointF{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p translated by -q.
func (p PointF) Sub(q PointF) PointF { return PointF{X: p.X - q.X, Y: p.Y - q.Y} }

// SizeF is a width and height in pixels.
type SizeF struct {
	W, H float32
}

// RectF is an axis aligned rectangle. Right and Bottom are exclusive.
type RectF struct {
	Left, Top, Right, Bottom float32
}

// Rect constructs a RectF from its edges.
func Rect(left, top, right, bottom float32) RectF {
	return RectF{Left: left, Top: top, Right: right, Bottom: bottom}
}

// RectFromPointSize constructs a RectF at p with size s.
func RectFromPointSize(p PointF, s SizeF) RectF {
	return RectF{Left: p.X, Top: p.Y, Right: p.X + s.W, Bottom: p.Y + s.H}
}

// Width returns the horizontal extent.
func (r RectF) Width() float32 { return r.Right - r.Left }

// Height returns the vertical extent.
func (r RectF) Height() float32 { return r.Bottom - r.Top }

// Origin returns the top-left corner.
func (r RectF) Origin() PointF { return PointF{X: r.Left, Y: r.Top} }

// Size returns the rectangle's size.
func (r RectF) Size() SizeF { return SizeF{W: r.Width(), H: r.Height()} }

// Empty reports whether the rectangle has no area.
func (r RectF) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Contains reports whether p lies inside r.
func (r RectF) Contains(p PointF) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// Offset returns r translated by (dx, dy).
func (r RectF) Offset(dx, dy float32) RectF {
	return RectF{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Union returns the smallest rectangle containing r and o.
// An empty operand is ignored.
func (r RectF) Union(o RectF) RectF {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return RectF{
		Left:   min(r.Left, o.Left),
		Top:    min(r.Top, o.Top),
		Right:  max(r.Right, o.Right),
		Bottom: max(r.Bottom, o.Bottom),
	}
}

// String implements fmt.Stringer.
func (r RectF) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.Left, r.Top, r.Right, r.Bottom)
}
