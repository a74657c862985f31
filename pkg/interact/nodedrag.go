package interact

import (
	"github.com/saxonthune/carta-sub006/pkg/geom"
	"github.com/saxonthune/carta-sub006/pkg/viewport"
)

// NodeDragOptions configures a NodeDrag controller.
type NodeDragOptions struct {
	// Viewport supplies the current transform. It is consulted fresh on
	// every event so mid-drag zoom changes never act on a stale scale.
	Viewport *viewport.Controller

	// NodeOrigin returns the node's current canvas position at drag start.
	NodeOrigin func(nodeID string) (geom.Point, bool)

	// HandleFilter, when set, restricts where on the node a drag may
	// originate. The press is suppressed unless the filter accepts it.
	HandleFilter func(nodeID string, ev Pointer) bool

	// Capture registers global listeners for the session (optional).
	Capture CaptureFunc

	// OnDragStart fires when a session begins.
	OnDragStart func(nodeID string)
	// OnDrag fires per move with the delta cumulative from drag start, in
	// canvas space. The caller recomputes position as origin+delta, so
	// repeated events cannot accumulate drift.
	OnDrag func(nodeID string, dx, dy float64)
	// OnDragEnd fires when the session ends, normally or not.
	OnDragEnd func(nodeID string)
}

// dragSession is the state carried while a node drag is in progress. At
// most one exists per controller.
type dragSession struct {
	nodeID       string
	origin       geom.Point // node canvas position at press
	pointerStart geom.Point // pointer screen position at press
	release      func()
}

// NodeDrag converts a pointer down/move/up sequence on a node into
// cumulative canvas-space deltas.
type NodeDrag struct {
	opts    NodeDragOptions
	session *dragSession
}

// NewNodeDrag creates an idle controller.
func NewNodeDrag(opts NodeDragOptions) *NodeDrag {
	return &NodeDrag{opts: opts}
}

// Active reports whether a drag session is in progress.
func (d *NodeDrag) Active() bool {
	return d.session != nil
}

// Press attempts to start a drag on nodeID. It returns true when the event
// is captured, in which case the host must stop the gesture from reaching
// its pan/zoom handler. Non-primary buttons never start a drag; a press
// while a session is live is a no-op until that session ends.
func (d *NodeDrag) Press(nodeID string, ev Pointer) bool {
	if d.session != nil {
		return false
	}
	if ev.Button != ButtonPrimary {
		return false
	}
	if d.opts.HandleFilter != nil && !d.opts.HandleFilter(nodeID, ev) {
		return false
	}
	origin, ok := d.opts.NodeOrigin(nodeID)
	if !ok {
		return false
	}
	d.session = &dragSession{
		nodeID:       nodeID,
		origin:       origin,
		pointerStart: ev.Position,
		release:      capture(d.opts.Capture),
	}
	if d.opts.OnDragStart != nil {
		d.opts.OnDragStart(nodeID)
	}
	return true
}

// Origin returns the dragged node's canvas position at press time.
func (d *NodeDrag) Origin() (geom.Point, bool) {
	if d.session == nil {
		return geom.Point{}, false
	}
	return d.session.origin, true
}

// Move advances the session. Screen delta is divided by the current scale
// to land in canvas space.
func (d *NodeDrag) Move(ev Pointer) {
	if d.session == nil {
		return
	}
	k := d.opts.Viewport.Transform().K
	delta := ev.Position.Sub(d.session.pointerStart)
	if d.opts.OnDrag != nil {
		d.opts.OnDrag(d.session.nodeID, delta.X/k, delta.Y/k)
	}
}

// Release ends the session on pointer-up.
func (d *NodeDrag) Release(ev Pointer) {
	d.end()
}

// Cancel ends the session without a pointer-up, e.g. when the node was
// removed mid-drag or the host is tearing down. Idle controllers ignore it.
func (d *NodeDrag) Cancel() {
	d.end()
}

func (d *NodeDrag) end() {
	s := d.session
	if s == nil {
		return
	}
	d.session = nil
	s.release()
	if d.opts.OnDragEnd != nil {
		d.opts.OnDragEnd(s.nodeID)
	}
}
