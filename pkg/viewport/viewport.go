// Package viewport owns the pan/zoom transform of a canvas and the
// conversions between screen and canvas coordinate spaces. The Transform
// value is immutable; every gesture replaces it wholesale so callers can
// hold a snapshot without seeing it shift mid-callback.
package viewport

import (
	"math"

	"github.com/saxonthune/carta-sub006/pkg/geom"
)

// Transform is a pan/zoom state: screen = canvas*K + (X, Y).
type Transform struct {
	X float64
	Y float64
	K float64
}

// Identity is the transform a canvas mounts with.
var Identity = Transform{X: 0, Y: 0, K: 1}

// Apply converts a canvas-space point to screen space.
func (t Transform) Apply(p geom.Point) geom.Point {
	return geom.Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert converts a screen-space point to canvas space.
func (t Transform) Invert(p geom.Point) geom.Point {
	return geom.Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Options bounds the zoom range of a Controller.
type Options struct {
	MinZoom float64 // default 0.2
	MaxZoom float64 // default 5.0
}

func (o *Options) withDefaults() Options {
	d := Options{MinZoom: 0.2, MaxZoom: 5.0}
	if o == nil {
		return d
	}
	if o.MinZoom > 0 {
		d.MinZoom = o.MinZoom
	}
	if o.MaxZoom > 0 {
		d.MaxZoom = o.MaxZoom
	}
	return d
}

// Controller holds the current transform and viewport size for one canvas.
// All operations are total: degenerate inputs (empty rect sets, zero-size
// viewport) are no-ops, never faults.
type Controller struct {
	transform Transform
	width     float64
	height    float64
	opts      Options
}

// NewController creates a controller at the identity transform.
func NewController(opts *Options) *Controller {
	return &Controller{
		transform: Identity,
		opts:      opts.withDefaults(),
	}
}

// Transform returns the current transform snapshot.
func (c *Controller) Transform() Transform {
	return c.transform
}

// SetSize records the viewport dimensions in screen pixels. Size is
// unknown (and FitView a no-op) until the host calls this.
func (c *Controller) SetSize(width, height float64) {
	c.width = width
	c.height = height
}

// Size returns the last known viewport dimensions.
func (c *Controller) Size() (width, height float64) {
	return c.width, c.height
}

// clampZoom bounds k to the configured zoom range.
func (c *Controller) clampZoom(k float64) float64 {
	return math.Max(c.opts.MinZoom, math.Min(c.opts.MaxZoom, k))
}

// Pan translates the viewport by a screen-space delta. Translation is
// unclamped.
func (c *Controller) Pan(dx, dy float64) {
	t := c.transform
	c.transform = Transform{X: t.X + dx, Y: t.Y + dy, K: t.K}
}

// ZoomBy multiplies the current scale by factor, clamped to the zoom
// bounds, keeping the canvas point under the screen-space anchor fixed.
func (c *Controller) ZoomBy(factor float64, anchor geom.Point) {
	t := c.transform
	k := c.clampZoom(t.K * factor)
	if k == t.K {
		return
	}
	// Anchor policy: the canvas point under the cursor stays under it.
	w := t.Invert(anchor)
	c.transform = Transform{
		X: anchor.X - w.X*k,
		Y: anchor.Y - w.Y*k,
		K: k,
	}
}

// SetTransform replaces the transform directly, re-clamping the scale.
func (c *Controller) SetTransform(t Transform) {
	t.K = c.clampZoom(t.K)
	c.transform = t
}

// ScreenToCanvas converts a screen-space point to canvas space using the
// current transform.
func (c *Controller) ScreenToCanvas(p geom.Point) geom.Point {
	return c.transform.Invert(p)
}

// CanvasToScreen converts a canvas-space point to screen space using the
// current transform.
func (c *Controller) CanvasToScreen(p geom.Point) geom.Point {
	return c.transform.Apply(p)
}

// FitView computes and installs a transform that frames the union bounding
// box of rects, leaving a padding fraction of the viewport on each side,
// and centers the content. Scale is capped at MaxZoom. No-op when rects is
// empty or the viewport size is unknown.
func (c *Controller) FitView(rects []geom.Rect, padding float64) {
	bbox, ok := geom.BoundingRect(rects)
	if !ok || c.width <= 0 || c.height <= 0 {
		return
	}
	if bbox.Width <= 0 {
		bbox.Width = 1
	}
	if bbox.Height <= 0 {
		bbox.Height = 1
	}
	availW := c.width * (1 - 2*padding)
	availH := c.height * (1 - 2*padding)
	if availW <= 0 || availH <= 0 {
		return
	}
	k := math.Min(availW/bbox.Width, availH/bbox.Height)
	if k > c.opts.MaxZoom {
		k = c.opts.MaxZoom
	}
	center := bbox.Center()
	c.transform = Transform{
		X: c.width/2 - center.X*k,
		Y: c.height/2 - center.Y*k,
		K: k,
	}
}
