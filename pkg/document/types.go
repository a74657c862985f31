// Package document defines the node/edge/group model a canvas renders and
// the mutation seam the interaction controllers write through. The
// collection is owned here, outside the engine; controllers receive
// callbacks, never direct references they can mutate.
package document

import "github.com/saxonthune/carta-sub006/pkg/geom"

// HandleKind is the polarity of an attachment point. Port compatibility
// rules are expressed over kinds, not individual handles.
type HandleKind uint8

const (
	// HandleBody accepts incoming connections anywhere on the node body.
	HandleBody HandleKind = iota
	// HandleOutput emits connections.
	HandleOutput
	// HandleInput terminates connections at a specific port.
	HandleInput
)

var handleKindNames = [...]string{"body", "output", "input"}

// String returns the wire name of k.
func (k HandleKind) String() string {
	if int(k) < len(handleKindNames) {
		return handleKindNames[k]
	}
	return "unknown"
}

// Handle is a named attachment point on a node.
type Handle struct {
	ID        string
	Kind      HandleKind
	Direction geom.Direction
}

// Node is the tagged union over the two node kinds. Consumption sites
// switch exhaustively on the concrete type instead of probing fields.
type Node interface {
	// NodeID returns the stable identifier of the node.
	NodeID() string
	// ParentGroup returns the enclosing group id, or "" at the top level.
	ParentGroup() string
	// Rect returns the node's canvas-space rectangle.
	Rect() geom.Rect

	sealed()
}

// LeafNode is a content node: a typed box with handles and display fields.
type LeafNode struct {
	ID       string
	Parent   string
	Type     string // schema type identifier
	Semantic string // stable semantic identifier shown to users
	Position geom.Point
	Size     geom.Point
	Handles  []Handle
	Fields   map[string]string // displayed field values
}

func (n *LeafNode) NodeID() string      { return n.ID }
func (n *LeafNode) ParentGroup() string { return n.Parent }
func (n *LeafNode) Rect() geom.Rect {
	return geom.Rect{X: n.Position.X, Y: n.Position.Y, Width: n.Size.X, Height: n.Size.Y}
}
func (n *LeafNode) sealed() {}

// Handle returns the handle with the given id, or nil.
func (n *LeafNode) Handle(id string) *Handle {
	for i := range n.Handles {
		if n.Handles[i].ID == id {
			return &n.Handles[i]
		}
	}
	return nil
}

// GroupNode is a container node. Collapsed groups hide their descendants;
// a group with Manual set keeps its user-assigned position and size instead
// of the computed bounds.
type GroupNode struct {
	ID        string
	Parent    string
	Label     string
	Collapsed bool
	Manual    bool // user-pinned position/size take precedence
	Position  geom.Point
	Size      geom.Point
}

func (n *GroupNode) NodeID() string      { return n.ID }
func (n *GroupNode) ParentGroup() string { return n.Parent }
func (n *GroupNode) Rect() geom.Rect {
	return geom.Rect{X: n.Position.X, Y: n.Position.Y, Width: n.Size.X, Height: n.Size.Y}
}
func (n *GroupNode) sealed() {}

// Edge connects a source handle to a target handle.
type Edge struct {
	ID           string
	Source       string // source node id
	SourceHandle string
	Target       string // target node id
	TargetHandle string
}
