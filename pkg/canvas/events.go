package canvas

import (
	"github.com/saxonthune/carta-sub006/pkg/document"
	"github.com/saxonthune/carta-sub006/pkg/geom"
	"github.com/saxonthune/carta-sub006/pkg/grouping"
	"github.com/saxonthune/carta-sub006/pkg/interact"
)

// visibility recomputes the collapse-derived state from the current nodes.
// Derived, disposable state: never cached across document changes.
func (c *Canvas) visibility() grouping.Visibility {
	return grouping.Compute(c.doc.Nodes())
}

// PointerDown routes a press by what sits under the pointer. It returns
// true when an interaction captured the gesture, in which case the host
// must not start panning; secondary and tertiary buttons always fall
// through so they stay available for pan.
func (c *Canvas) PointerDown(ev interact.Pointer) bool {
	if ev.Button != interact.ButtonPrimary {
		return false
	}
	// At most one session across all controllers; a second press while a
	// drag is live (duplicate event, stray touch) is swallowed so it can
	// neither start a second session nor fall through to pan.
	if c.NodeDrag.Active() || c.Connect.Active() || c.BoxSelect.Active() {
		return true
	}

	p := c.Viewport.ScreenToCanvas(ev.Position)
	vis := c.visibility()

	// Output handles take priority over the node body beneath them.
	if node, handle, ok := c.handleAt(p, vis); ok {
		return c.Connect.Press(node.ID, handle.ID, polarity(handle.Kind), ev)
	}
	if id, ok := c.nodeAt(p, vis); ok {
		return c.NodeDrag.Press(id, ev)
	}
	// Empty background: rectangle selection.
	return c.BoxSelect.Press(ev)
}

// PointerMove advances whichever session is live. Sessions are mutually
// exclusive, so at most one controller sees the event.
func (c *Canvas) PointerMove(ev interact.Pointer) {
	switch {
	case c.NodeDrag.Active():
		c.NodeDrag.Move(ev)
	case c.Connect.Active():
		c.Connect.Move(ev)
	case c.BoxSelect.Active():
		c.BoxSelect.Move(ev)
	}
}

// PointerUp ends the live session, if any.
func (c *Canvas) PointerUp(ev interact.Pointer) {
	switch {
	case c.NodeDrag.Active():
		c.NodeDrag.Release(ev)
	case c.Connect.Active():
		c.Connect.Release(ev)
		c.lastHint = interact.Hint{}
	case c.BoxSelect.Active():
		c.BoxSelect.Release(ev)
	}
}

// Wheel zooms by a multiplicative factor anchored at the pointer.
func (c *Canvas) Wheel(factor float64, anchor geom.Point) {
	c.Viewport.ZoomBy(factor, anchor)
}

// Pan translates the viewport by a screen-space delta.
func (c *Canvas) Pan(dx, dy float64) {
	c.Viewport.Pan(dx, dy)
}

// FitView frames all visible nodes with the standard padding fraction.
func (c *Canvas) FitView() {
	vis := c.visibility()
	var rects []geom.Rect
	for _, nr := range c.doc.Rects() {
		if !vis.IsHidden(nr.ID) {
			rects = append(rects, nr.Rect)
		}
	}
	c.Viewport.FitView(rects, 0.1)
}

// handleAt finds the topmost visible leaf handle whose hit region contains
// the canvas point. Later nodes render on top, so the scan runs back to
// front.
func (c *Canvas) handleAt(p geom.Point, vis grouping.Visibility) (*document.LeafNode, *document.Handle, bool) {
	nodes := c.doc.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		leaf, ok := nodes[i].(*document.LeafNode)
		if !ok || vis.IsHidden(leaf.ID) {
			continue
		}
		for j := range leaf.Handles {
			h := &leaf.Handles[j]
			if HandleRect(leaf.Rect(), h.Direction).Contains(p) {
				return leaf, h, true
			}
		}
	}
	return nil, nil, false
}

// nodeAt finds the topmost visible node whose rect contains the canvas
// point.
func (c *Canvas) nodeAt(p geom.Point, vis grouping.Visibility) (string, bool) {
	nodes := c.doc.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if vis.IsHidden(n.NodeID()) {
			continue
		}
		if n.Rect().Contains(p) {
			return n.NodeID(), true
		}
	}
	return "", false
}
