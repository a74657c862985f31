package grouping

import (
	"github.com/saxonthune/carta-sub006/pkg/document"
	"github.com/saxonthune/carta-sub006/pkg/geom"
)

// BoundsOptions tunes computed group rectangles.
type BoundsOptions struct {
	Margin float64 // padding around the content union, default 16
	Header float64 // extra allowance above the content for the group header, default 24
}

func (o *BoundsOptions) withDefaults() BoundsOptions {
	d := BoundsOptions{Margin: 16, Header: 24}
	if o == nil {
		return d
	}
	if o.Margin > 0 {
		d.Margin = o.Margin
	}
	if o.Header > 0 {
		d.Header = o.Header
	}
	return d
}

// Bounds computes the rectangle of every group, bottom-up: a group's rect
// is the union of its direct content nodes and its child groups' computed
// rects, padded by the margin plus a header allowance. Groups pinned to a
// manual position/size keep it regardless of content, and collapsed groups
// render as their own rect since their content is not on screen.
func Bounds(nodes []document.Node, opts *BoundsOptions) map[string]geom.Rect {
	o := opts.withDefaults()

	groups := make(map[string]*document.GroupNode)
	children := make(map[string][]document.Node)
	for _, n := range nodes {
		if g, ok := n.(*document.GroupNode); ok {
			groups[g.ID] = g
		}
		if p := n.ParentGroup(); p != "" {
			children[p] = append(children[p], n)
		}
	}

	out := make(map[string]geom.Rect, len(groups))
	for id := range groups {
		resolve(id, groups, children, o, out, 0)
	}
	return out
}

// resolve computes (and memoizes) the rect for one group.
func resolve(id string, groups map[string]*document.GroupNode, children map[string][]document.Node, o BoundsOptions, out map[string]geom.Rect, depth int) geom.Rect {
	if r, done := out[id]; done {
		return r
	}
	g := groups[id]
	if g.Collapsed || g.Manual || depth >= maxDepth {
		r := g.Rect()
		out[id] = r
		return r
	}

	var content []geom.Rect
	for _, child := range children[id] {
		switch child := child.(type) {
		case *document.GroupNode:
			content = append(content, resolve(child.ID, groups, children, o, out, depth+1))
		case *document.LeafNode:
			content = append(content, child.Rect())
		}
	}

	bbox, ok := geom.BoundingRect(content)
	if !ok {
		// Empty group: fall back to whatever position it already has.
		r := g.Rect()
		out[id] = r
		return r
	}
	r := bbox.Pad(o.Margin)
	r.Y -= o.Header
	r.Height += o.Header
	out[id] = r
	return r
}
