// Package grouping computes the derived visibility state of a hierarchical
// diagram: which nodes are hidden by ancestor collapse, and how edges into
// hidden nodes are re-routed to a visible collapsed ancestor. Both outputs
// are rebuilt in full on every call; the structure is a forest of modest
// depth and a full rebuild is far cheaper than getting incremental patching
// right.
package grouping

import "github.com/saxonthune/carta-sub006/pkg/document"

// maxDepth bounds every recursive traversal. The document model is
// expected to keep the parent forest acyclic, but a malformed cycle must
// truncate the walk rather than loop.
const maxDepth = 64

// Visibility is the derived collapse state of a node forest.
type Visibility struct {
	// Hidden holds the ids of nodes concealed by a collapsed ancestor.
	Hidden map[string]struct{}
	// Remap maps each hidden node id to the visible collapsed group its
	// edges render against: the nearest collapsed ancestor, so nested
	// collapses resolve to the innermost collapse boundary.
	Remap map[string]string
}

// IsHidden reports whether id is concealed.
func (v Visibility) IsHidden(id string) bool {
	_, ok := v.Hidden[id]
	return ok
}

// EdgeEndpoint resolves the node an edge endpoint should render against:
// the node itself when visible, otherwise its remap target.
func (v Visibility) EdgeEndpoint(id string) string {
	if target, ok := v.Remap[id]; ok {
		return target
	}
	return id
}

// Compute derives the hidden set and remap table for the given forest.
// Calling it twice with the same input yields equal outputs.
func Compute(nodes []document.Node) Visibility {
	parents := make(map[string]string, len(nodes))
	children := make(map[string][]string)
	collapsed := make(map[string]struct{})

	for _, n := range nodes {
		id := n.NodeID()
		if p := n.ParentGroup(); p != "" {
			parents[id] = p
			children[p] = append(children[p], id)
		}
		if g, ok := n.(*document.GroupNode); ok && g.Collapsed {
			collapsed[id] = struct{}{}
		}
	}

	v := Visibility{
		Hidden: make(map[string]struct{}),
		Remap:  make(map[string]string),
	}

	for id := range collapsed {
		hideDescendants(children, id, v.Hidden, 0)
	}

	for id := range v.Hidden {
		if target, ok := nearestCollapsed(parents, collapsed, v.Hidden, id); ok {
			v.Remap[id] = target
		}
	}
	return v
}

// hideDescendants collects every descendant of group into hidden, stopping
// at maxDepth against malformed cyclic input.
func hideDescendants(children map[string][]string, group string, hidden map[string]struct{}, depth int) {
	if depth >= maxDepth {
		return
	}
	for _, child := range children[group] {
		if _, seen := hidden[child]; seen {
			continue
		}
		hidden[child] = struct{}{}
		hideDescendants(children, child, hidden, depth+1)
	}
}

// nearestCollapsed walks the ancestor chain of id upward and returns the
// first ancestor that is a collapsed group and is itself visible. Nested
// collapses therefore remap to the innermost collapse boundary, not the
// outermost.
func nearestCollapsed(parents map[string]string, collapsed, hidden map[string]struct{}, id string) (string, bool) {
	cur := id
	for depth := 0; depth < maxDepth; depth++ {
		p, ok := parents[cur]
		if !ok {
			return "", false
		}
		if _, isCollapsed := collapsed[p]; isCollapsed {
			if _, alsoHidden := hidden[p]; !alsoHidden {
				return p, true
			}
		}
		cur = p
	}
	return "", false
}
