// Package geom provides the canvas-space geometry primitives shared by the
// viewport, interaction, and grouping packages: points, axis-aligned
// rectangles, compass directions for typed handles, and the control-point
// math for connection preview curves.
package geom

import "math"

// Point is a position in canvas or screen space.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p with both components multiplied by k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle. Width and Height are non-negative for
// rectangles produced by this package; Normalize fixes up caller-supplied
// rects dragged out in any direction.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RectFromPoints returns the normalized rectangle spanning a and b.
func RectFromPoints(a, b Point) Rect {
	r := Rect{X: a.X, Y: a.Y, Width: b.X - a.X, Height: b.Y - a.Y}
	return r.Normalize()
}

// Normalize returns r with negative extents folded into the origin.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Empty reports whether r has zero area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// MaxX returns the right edge of r.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge of r.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Intersects reports whether r and s overlap. Touching edges count as an
// overlap, matching the box-select semantics where a node grazed by the
// selection rectangle is selected.
func (r Rect) Intersects(s Rect) bool {
	return r.X <= s.MaxX() && s.X <= r.MaxX() && r.Y <= s.MaxY() && s.Y <= r.MaxY()
}

// Union returns the smallest rectangle covering both r and s.
func (r Rect) Union(s Rect) Rect {
	minX := math.Min(r.X, s.X)
	minY := math.Min(r.Y, s.Y)
	maxX := math.Max(r.MaxX(), s.MaxX())
	maxY := math.Max(r.MaxY(), s.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Pad returns r grown by m on every side.
func (r Rect) Pad(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, Width: r.Width + 2*m, Height: r.Height + 2*m}
}

// BoundingRect returns the union bounding box of rects, and false when the
// slice is empty.
func BoundingRect(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	bbox := rects[0]
	for _, r := range rects[1:] {
		bbox = bbox.Union(r)
	}
	return bbox, true
}
