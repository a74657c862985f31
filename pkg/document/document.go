package document

import (
	"fmt"
	"sync"

	"github.com/saxonthune/carta-sub006/pkg/geom"
)

// Document owns the node/edge collection for one diagram. Mutations go
// through the methods below so a change callback can observe every write;
// undo history and persistence attach at that seam, not inside the engine.
type Document struct {
	mu    sync.RWMutex
	nodes []Node // insertion order preserved
	byID  map[string]Node
	edges []Edge

	// onChange, when set, fires after every successful mutation.
	onChange func()
}

// New creates an empty document.
func New() *Document {
	return &Document{byID: make(map[string]Node)}
}

// OnChange registers the change callback. At most one is supported; the
// host multiplexes if it needs more.
func (d *Document) OnChange(fn func()) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

// notify fires the change callback outside d.mu so the callback may read
// the document (or mutate it again) without deadlocking. Mutators call it
// after releasing the lock.
func (d *Document) notify() {
	d.mu.RLock()
	fn := d.onChange
	d.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Nodes returns the nodes in insertion order. The slice is a copy; the
// nodes themselves are shared and must be treated as read-only by callers.
func (d *Document) Nodes() []Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// Edges returns a copy of the edge list.
func (d *Document) Edges() []Edge {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Edge, len(d.edges))
	copy(out, d.edges)
	return out
}

// Node returns the node with the given id.
func (d *Document) Node(id string) (Node, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, ok := d.byID[id]
	return n, ok
}

// Add inserts a node. Duplicate ids are rejected.
func (d *Document) Add(n Node) error {
	d.mu.Lock()
	if _, exists := d.byID[n.NodeID()]; exists {
		d.mu.Unlock()
		return fmt.Errorf("document: duplicate node id %q", n.NodeID())
	}
	d.nodes = append(d.nodes, n)
	d.byID[n.NodeID()] = n
	d.mu.Unlock()
	d.notify()
	return nil
}

// MoveNode sets a node's canvas position to origin+delta. Drag controllers
// report cumulative deltas from drag start, so the caller passes the same
// origin for the whole session and position never drifts across events.
func (d *Document) MoveNode(id string, origin geom.Point, delta geom.Point) {
	d.mu.Lock()
	n, ok := d.byID[id]
	if !ok {
		d.mu.Unlock()
		return
	}
	p := origin.Add(delta)
	switch n := n.(type) {
	case *LeafNode:
		moved := *n
		moved.Position = p
		d.replace(&moved)
	case *GroupNode:
		moved := *n
		moved.Position = p
		moved.Manual = true
		d.replace(&moved)
	}
	d.mu.Unlock()
	d.notify()
}

// replace swaps the stored node for id with n, preserving order. Nodes are
// replaced, never mutated in place, so downstream reference-identity checks
// see a changed pointer exactly when the node changed.
func (d *Document) replace(n Node) {
	id := n.NodeID()
	for i := range d.nodes {
		if d.nodes[i].NodeID() == id {
			d.nodes[i] = n
			break
		}
	}
	d.byID[id] = n
}

// Connect appends an edge. The interaction layer has already validated the
// endpoints; Connect only rejects dangling node ids.
func (d *Document) Connect(e Edge) error {
	d.mu.Lock()
	if _, ok := d.byID[e.Source]; !ok {
		d.mu.Unlock()
		return fmt.Errorf("document: unknown source node %q", e.Source)
	}
	if _, ok := d.byID[e.Target]; !ok {
		d.mu.Unlock()
		return fmt.Errorf("document: unknown target node %q", e.Target)
	}
	if e.ID == "" {
		e.ID = fmt.Sprintf("edge-%d", len(d.edges)+1)
	}
	d.edges = append(d.edges, e)
	d.mu.Unlock()
	d.notify()
	return nil
}

// SetCollapsed toggles a group's collapsed flag.
func (d *Document) SetCollapsed(id string, collapsed bool) {
	d.mu.Lock()
	g, ok := d.byID[id].(*GroupNode)
	if !ok || g.Collapsed == collapsed {
		d.mu.Unlock()
		return
	}
	next := *g
	next.Collapsed = collapsed
	d.replace(&next)
	d.mu.Unlock()
	d.notify()
}

// UpdateGroup pins a group to a manual position and size.
func (d *Document) UpdateGroup(id string, r geom.Rect) {
	d.mu.Lock()
	g, ok := d.byID[id].(*GroupNode)
	if !ok {
		d.mu.Unlock()
		return
	}
	next := *g
	next.Position = geom.Point{X: r.X, Y: r.Y}
	next.Size = geom.Point{X: r.Width, Y: r.Height}
	next.Manual = true
	d.replace(&next)
	d.mu.Unlock()
	d.notify()
}

// Remove deletes a node, its incident edges, and, for groups, clears the
// parent link of children orphaned by the delete.
func (d *Document) Remove(id string) {
	d.mu.Lock()
	n, ok := d.byID[id]
	if !ok {
		d.mu.Unlock()
		return
	}
	delete(d.byID, id)
	kept := d.nodes[:0]
	for _, other := range d.nodes {
		if other.NodeID() != id {
			kept = append(kept, other)
		}
	}
	d.nodes = kept

	if _, isGroup := n.(*GroupNode); isGroup {
		for _, child := range d.nodes {
			if child.ParentGroup() != id {
				continue
			}
			switch child := child.(type) {
			case *LeafNode:
				orphan := *child
				orphan.Parent = ""
				d.replace(&orphan)
			case *GroupNode:
				orphan := *child
				orphan.Parent = ""
				d.replace(&orphan)
			}
		}
	}

	keptEdges := d.edges[:0]
	for _, e := range d.edges {
		if e.Source != id && e.Target != id {
			keptEdges = append(keptEdges, e)
		}
	}
	d.edges = keptEdges
	d.mu.Unlock()
	d.notify()
}

// Replace swaps this document's contents for those of other, firing the
// change callback once. File reloads go through here so open canvases keep
// their document reference across the swap.
func (d *Document) Replace(other *Document) {
	nodes := other.Nodes()
	edges := other.Edges()

	d.mu.Lock()
	d.nodes = nodes
	d.byID = make(map[string]Node, len(nodes))
	for _, n := range nodes {
		d.byID[n.NodeID()] = n
	}
	d.edges = edges
	d.mu.Unlock()
	d.notify()
}

// Rects returns the canvas rectangles of every node, the geometry query the
// box-select and fit-to-content operations consume.
func (d *Document) Rects() []NodeRect {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]NodeRect, 0, len(d.nodes))
	for _, n := range d.nodes {
		out = append(out, NodeRect{ID: n.NodeID(), Rect: n.Rect()})
	}
	return out
}

// NodeRect pairs a node id with its current canvas rectangle. Supplied
// fresh per query and never cached across frames.
type NodeRect struct {
	ID string
	geom.Rect
}
