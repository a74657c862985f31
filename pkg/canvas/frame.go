package canvas

import (
	"github.com/saxonthune/carta-sub006/pkg/document"
	"github.com/saxonthune/carta-sub006/pkg/geom"
	"github.com/saxonthune/carta-sub006/pkg/grouping"
	"github.com/saxonthune/carta-sub006/pkg/interact"
	"github.com/saxonthune/carta-sub006/pkg/pipeline"
	"github.com/saxonthune/carta-sub006/pkg/viewport"
)

// LOD is the zoom-dependent rendering density tier.
type LOD uint8

const (
	// LODOutline: far out; boxes only.
	LODOutline LOD = iota
	// LODCompact: labels but no field detail.
	LODCompact
	// LODFull: everything.
	LODFull
)

// LODForScale selects the detail tier for a zoom scale.
func LODForScale(k float64) LOD {
	switch {
	case k >= 0.75:
		return LODFull
	case k >= 0.4:
		return LODCompact
	default:
		return LODOutline
	}
}

// FrameEdge is an edge prepared for rendering: endpoints already remapped
// away from hidden nodes, with the Bézier control points of its curve.
type FrameEdge struct {
	Edge     document.Edge
	Source   string // render endpoint after remap
	Target   string
	From     geom.Point // canvas-space endpoints
	To       geom.Point
	C1       geom.Point // cubic Bézier controls
	C2       geom.Point
	Remapped bool
}

// Frame is the shared render context one pass over the canvas produces:
// a single coordinate frame plus everything node/edge rendering consumes.
type Frame struct {
	Transform   viewport.Transform
	Detail      LOD
	Nodes       []*pipeline.Presented
	Edges       []FrameEdge
	GroupBounds map[string]geom.Rect
	Selection   map[string]struct{}
	SelectBox   *geom.Rect
	Hint        interact.Hint
	// FloatingFrom/FloatingTo carry the in-progress connection preview in
	// screen space while a connection drag is live.
	Floating *FloatingEdge
}

// FloatingEdge is the preview curve of an in-progress connection drag.
type FloatingEdge struct {
	From geom.Point // screen space
	To   geom.Point
	C1   geom.Point
	C2   geom.Point
}

// Frame runs the grouping pass and the presentation pipeline over the
// current document state and assembles the render context.
func (c *Canvas) Frame() Frame {
	nodes := c.doc.Nodes()
	vis := grouping.Compute(nodes)
	bounds := grouping.Bounds(nodes, nil)
	// Groups inside a collapsed ancestor are off screen; their geometry
	// must not reach renderers or wire clients.
	for id := range bounds {
		if vis.IsHidden(id) {
			delete(bounds, id)
		}
	}

	presented := c.pipeline.Run(nodes, pipeline.Overlays{
		Dimmed:   c.dimmed,
		Renaming: c.renaming,
		Hidden:   vis.Hidden,
		Query:    c.query,
	})

	f := Frame{
		Transform:   c.Viewport.Transform(),
		Nodes:       presented,
		GroupBounds: bounds,
		Selection:   c.BoxSelect.Selected(),
		Hint:        c.lastHint,
	}
	f.Detail = LODForScale(f.Transform.K)

	if box, ok := c.BoxSelect.Box(); ok {
		f.SelectBox = &box
	}

	f.Edges = c.frameEdges(vis)
	f.Floating = c.floatingEdge()
	return f
}

// frameEdges remaps edge endpoints through the visibility table and drops
// edges that collapse onto a single node.
func (c *Canvas) frameEdges(vis grouping.Visibility) []FrameEdge {
	var out []FrameEdge
	for _, e := range c.doc.Edges() {
		src := vis.EdgeEndpoint(e.Source)
		dst := vis.EdgeEndpoint(e.Target)
		if src == dst && (src != e.Source || dst != e.Target) {
			// Both endpoints fell inside the same collapsed group; there
			// is nothing to draw between the group and itself.
			continue
		}
		fe := FrameEdge{
			Edge:     e,
			Source:   src,
			Target:   dst,
			Remapped: src != e.Source || dst != e.Target,
		}
		from, fromDir, okFrom := c.edgeAnchor(src, e.SourceHandle, fe.Remapped)
		to, toDir, okTo := c.edgeAnchor(dst, e.TargetHandle, fe.Remapped)
		if !okFrom || !okTo {
			continue
		}
		fe.From = from
		fe.To = to
		fe.C1, fe.C2 = geom.CurveControls(from, fromDir, to, toDir, c.curveCap)
		out = append(out, fe)
	}
	return out
}

// edgeAnchor resolves the canvas point and direction an edge attaches at.
// Remapped endpoints lose their original handle and anchor at the group
// boundary nearest nothing in particular, so they use the rect center with
// an eastward exit.
func (c *Canvas) edgeAnchor(nodeID, handleID string, remapped bool) (geom.Point, geom.Direction, bool) {
	n, ok := c.doc.Node(nodeID)
	if !ok {
		return geom.Point{}, geom.East, false
	}
	if !remapped && handleID != "" {
		if leaf, isLeaf := n.(*document.LeafNode); isLeaf {
			if h := leaf.Handle(handleID); h != nil {
				return HandleRect(leaf.Rect(), h.Direction).Center(), h.Direction, true
			}
		}
	}
	return n.Rect().Center(), geom.East, true
}

// floatingEdge builds the preview curve for a live connection drag.
func (c *Canvas) floatingEdge() *FloatingEdge {
	pos, ok := c.Connect.Position()
	if !ok {
		return nil
	}
	// The preview is drawn in screen space: anchor the source end at the
	// source handle projected through the current transform.
	from := pos
	dir := geom.East
	if srcNode, srcHandle, live := c.Connect.Source(); live {
		if n, ok := c.doc.Node(srcNode); ok {
			if leaf, isLeaf := n.(*document.LeafNode); isLeaf {
				if h := leaf.Handle(srcHandle); h != nil {
					from = c.Viewport.CanvasToScreen(HandleRect(leaf.Rect(), h.Direction).Center())
					dir = h.Direction
				}
			}
		}
	}
	c1, c2 := geom.CurveControls(from, dir, pos, geom.West, c.curveCap)
	return &FloatingEdge{From: from, To: pos, C1: c1, C2: c2}
}
