// Package canvas composes the viewport, the interaction controllers, the
// grouping pass, and the presentation pipeline into one coordinate frame
// per canvas instance. Pointer events enter here and are routed by the
// gesture-filter policy; render state leaves as a Frame. Every Canvas is
// self-contained, so several can sit side by side without cross-talk.
package canvas

import (
	"github.com/saxonthune/carta-sub006/pkg/document"
	"github.com/saxonthune/carta-sub006/pkg/geom"
	"github.com/saxonthune/carta-sub006/pkg/interact"
	"github.com/saxonthune/carta-sub006/pkg/pipeline"
	"github.com/saxonthune/carta-sub006/pkg/viewport"
)

// handleSize is the side length of a handle's hit region in canvas units.
const handleSize = 12

// Options configures a Canvas.
type Options struct {
	Viewport *viewport.Options

	// HandleFilter restricts node-drag origin to a sub-region (optional).
	HandleFilter func(nodeID string, ev interact.Pointer) bool

	// IsValidConnection is appended to the connection rule chain (optional).
	IsValidConnection func(c interact.Candidate) bool

	// CurveCap bounds the Bézier control-point extension for previews.
	CurveCap float64

	// Capture registers global listeners for drag sessions (optional).
	Capture interact.CaptureFunc
}

// Canvas is one interactive diagram surface over a shared document.
type Canvas struct {
	doc *document.Document

	Viewport  *viewport.Controller
	NodeDrag  *interact.NodeDrag
	Connect   *interact.ConnectionDrag
	BoxSelect *interact.BoxSelect

	pipeline *pipeline.Pipeline

	dimmed   map[string]struct{}
	renaming string
	query    string
	lastHint interact.Hint
	curveCap float64
}

// New creates a canvas over doc.
func New(doc *document.Document, opts Options) *Canvas {
	c := &Canvas{
		doc:      doc,
		Viewport: viewport.NewController(opts.Viewport),
		pipeline: pipeline.New(),
		dimmed:   make(map[string]struct{}),
		curveCap: opts.CurveCap,
	}
	if c.curveCap <= 0 {
		c.curveCap = 150
	}

	c.NodeDrag = interact.NewNodeDrag(interact.NodeDragOptions{
		Viewport:     c.Viewport,
		NodeOrigin:   c.nodeOrigin,
		HandleFilter: opts.HandleFilter,
		Capture:      opts.Capture,
		OnDrag: func(nodeID string, dx, dy float64) {
			origin, ok := c.NodeDrag.Origin()
			if !ok {
				return
			}
			c.doc.MoveNode(nodeID, origin, geom.Point{X: dx, Y: dy})
		},
	})

	c.Connect = interact.NewConnectionDrag(interact.ConnectionDragOptions{
		Viewport:          c.Viewport,
		Targets:           c.dropTargets,
		IsValidConnection: opts.IsValidConnection,
		Capture:           opts.Capture,
		OnConnect: func(cand interact.Candidate) {
			_ = c.doc.Connect(document.Edge{
				Source:       cand.SourceNode,
				SourceHandle: cand.SourceHandle,
				Target:       cand.TargetNode,
				TargetHandle: cand.TargetHandle,
			})
		},
		OnHint: func(h interact.Hint) { c.lastHint = h },
	})

	c.BoxSelect = interact.NewBoxSelect(interact.BoxSelectOptions{
		Viewport: c.Viewport,
		Rects:    c.selectableRects,
		Capture:  opts.Capture,
	})

	return c
}

// Document returns the underlying document.
func (c *Canvas) Document() *document.Document {
	return c.doc
}

// nodeOrigin looks up a node's current canvas position.
func (c *Canvas) nodeOrigin(nodeID string) (geom.Point, bool) {
	n, ok := c.doc.Node(nodeID)
	if !ok {
		return geom.Point{}, false
	}
	r := n.Rect()
	return geom.Point{X: r.X, Y: r.Y}, true
}

// selectableRects supplies box-select with the rects of visible nodes.
func (c *Canvas) selectableRects() []interact.TargetRect {
	vis := c.visibility()
	var out []interact.TargetRect
	for _, nr := range c.doc.Rects() {
		if vis.IsHidden(nr.ID) {
			continue
		}
		out = append(out, interact.TargetRect{ID: nr.ID, Rect: nr.Rect})
	}
	return out
}

// dropTargets exposes every handle of every visible node as a drop region,
// plus the node bodies themselves.
func (c *Canvas) dropTargets() []interact.DropTarget {
	vis := c.visibility()
	var out []interact.DropTarget
	for _, n := range c.doc.Nodes() {
		if vis.IsHidden(n.NodeID()) {
			continue
		}
		switch n := n.(type) {
		case *document.LeafNode:
			for _, h := range n.Handles {
				out = append(out, interact.DropTarget{
					NodeID:   n.ID,
					HandleID: h.ID,
					Kind:     polarity(h.Kind),
					Rect:     HandleRect(n.Rect(), h.Direction),
				})
			}
			out = append(out, interact.DropTarget{
				NodeID: n.ID,
				Kind:   interact.KindBody,
				Rect:   n.Rect(),
			})
		case *document.GroupNode:
			// Collapsed groups stand in for their hidden members and
			// accept body drops like a leaf.
			if n.Collapsed {
				out = append(out, interact.DropTarget{
					NodeID: n.ID,
					Kind:   interact.KindBody,
					Rect:   n.Rect(),
				})
			}
		}
	}
	return out
}

// polarity converts the document handle kind to the rule-chain kind.
func polarity(k document.HandleKind) interact.HandleKind {
	switch k {
	case document.HandleOutput:
		return interact.KindOutput
	case document.HandleInput:
		return interact.KindInput
	default:
		return interact.KindBody
	}
}

// HandleRect returns the hit region of a handle on the given node rect: a
// fixed-size square centered on the edge midpoint the handle's compass
// direction points at.
func HandleRect(node geom.Rect, dir geom.Direction) geom.Rect {
	center := node.Center()
	v := dir.Vector()
	p := geom.Point{
		X: center.X + v.X*node.Width/2,
		Y: center.Y + v.Y*node.Height/2,
	}
	return geom.Rect{
		X:      p.X - handleSize/2,
		Y:      p.Y - handleSize/2,
		Width:  handleSize,
		Height: handleSize,
	}
}

// SetQuery sets the search filter text.
func (c *Canvas) SetQuery(q string) {
	c.query = q
}

// SetDimmed replaces the dimmed-node overlay set.
func (c *Canvas) SetDimmed(ids map[string]struct{}) {
	if ids == nil {
		ids = make(map[string]struct{})
	}
	c.dimmed = ids
}

// SetRenaming marks one node as having an in-progress rename ("" clears).
func (c *Canvas) SetRenaming(id string) {
	c.renaming = id
}

// Hint returns the latest connection-drag feedback.
func (c *Canvas) Hint() interact.Hint {
	return c.lastHint
}

// Teardown cancels any live session, releasing captured listeners. Safe to
// call on an idle canvas.
func (c *Canvas) Teardown() {
	c.NodeDrag.Cancel()
	c.Connect.Cancel()
	c.BoxSelect.Cancel()
}
