// Package pipeline turns the raw node list plus transient UI overlays into
// a render-ready, parents-first node sequence with minimal reference churn.
// The central invariant: touching one node's transient state must not
// invalidate the presented wrapper of any other node, so downstream
// renderers keyed on wrapper identity re-render only what changed.
package pipeline

import "github.com/saxonthune/carta-sub006/pkg/document"

// maxDepth caps the parent-first insertion recursion against malformed
// parent cycles.
const maxDepth = 64

// Overlays is the transient per-render UI state injected onto nodes.
type Overlays struct {
	// Dimmed nodes render at reduced emphasis.
	Dimmed map[string]struct{}
	// Renaming is the id of the node with an in-progress rename, if any.
	Renaming string
	// Hidden nodes carry a do-not-render flag (from the grouping pass).
	Hidden map[string]struct{}
	// Query is the active search text; empty disables filtering.
	Query string
}

func (o Overlays) dimmed(id string) bool {
	_, ok := o.Dimmed[id]
	return ok
}

func (o Overlays) hidden(id string) bool {
	_, ok := o.Hidden[id]
	return ok
}

// Presented wraps a base node with its overlay state for one render pass.
// Wrappers are reused across passes whenever neither the base node nor any
// overlay field changed, so identity doubles as a change signal.
type Presented struct {
	Node     document.Node
	Dimmed   bool
	Renaming bool
	Hidden   bool
	// Match reports whether the node passed the search filter. Groups are
	// never subject to the predicate and always report true.
	Match bool
}

// Pipeline produces presented node lists for one canvas. The reuse cache is
// an explicit field on the instance, reset only by Invalidate.
type Pipeline struct {
	prev map[string]*Presented
}

// New creates a pipeline with an empty reuse cache.
func New() *Pipeline {
	return &Pipeline{prev: make(map[string]*Presented)}
}

// Invalidate drops the reuse cache, forcing fresh wrappers on the next run.
func (p *Pipeline) Invalidate() {
	p.prev = make(map[string]*Presented)
}

// Run sorts nodes parents-before-children, injects overlays, and applies
// the search filter. Wrappers for unaffected nodes are returned with the
// same identity as the previous run.
func (p *Pipeline) Run(nodes []document.Node, overlays Overlays) []*Presented {
	ordered := SortParentsFirst(nodes)

	next := make(map[string]*Presented, len(ordered))
	out := make([]*Presented, 0, len(ordered))
	for _, n := range ordered {
		id := n.NodeID()
		want := Presented{
			Node:     n,
			Dimmed:   overlays.dimmed(id),
			Renaming: overlays.Renaming == id,
			Hidden:   overlays.hidden(id),
			Match:    matches(n, overlays.Query),
		}
		wrapper := p.prev[id]
		if wrapper == nil || *wrapper != want {
			fresh := want
			wrapper = &fresh
		}
		next[id] = wrapper
		out = append(out, wrapper)
	}
	p.prev = next
	return out
}

// SortParentsFirst orders nodes so every group precedes its descendants,
// via a recursive insert that places a node's parent (when present in the
// input) before the node itself. Relative order of unrelated nodes follows
// the input.
func SortParentsFirst(nodes []document.Node) []document.Node {
	byID := make(map[string]document.Node, len(nodes))
	for _, n := range nodes {
		byID[n.NodeID()] = n
	}

	placed := make(map[string]struct{}, len(nodes))
	out := make([]document.Node, 0, len(nodes))

	var insert func(n document.Node, depth int)
	insert = func(n document.Node, depth int) {
		id := n.NodeID()
		if _, done := placed[id]; done {
			return
		}
		// Mark before recursing so a parent cycle terminates instead of
		// overflowing; the depth cap backstops pathological chains.
		placed[id] = struct{}{}
		if depth < maxDepth {
			if parent, ok := byID[n.ParentGroup()]; ok {
				insert(parent, depth+1)
			}
		}
		out = append(out, n)
	}

	for _, n := range nodes {
		insert(n, 0)
	}
	return out
}
