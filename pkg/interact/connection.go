package interact

import (
	"github.com/saxonthune/carta-sub006/pkg/geom"
	"github.com/saxonthune/carta-sub006/pkg/viewport"
)

// DropTarget is a registered region a floating connection endpoint may land
// on, in canvas space.
type DropTarget struct {
	NodeID   string
	HandleID string
	Kind     HandleKind
	Rect     geom.Rect
}

// HandleKind mirrors the polarity of a handle for rule evaluation without
// importing the document package; the composition layer converts.
type HandleKind uint8

const (
	KindBody HandleKind = iota
	KindOutput
	KindInput
)

// Candidate is a prospective connection under evaluation.
type Candidate struct {
	SourceNode   string
	SourceHandle string
	SourceKind   HandleKind
	TargetNode   string
	TargetHandle string
	TargetKind   HandleKind
}

// HintKind classifies the live feedback shown during a connection drag.
type HintKind uint8

const (
	// HintGuidance: no target under the cursor; show how to proceed.
	HintGuidance HintKind = iota
	// HintValid: the candidate passes every rule.
	HintValid
	// HintInvalid: a rule rejected the candidate; Message names the reason.
	HintInvalid
)

// Hint is the tri-state feedback produced on every move of a connection
// drag.
type Hint struct {
	Kind      HintKind
	Message   string
	Candidate *Candidate // set for HintValid and HintInvalid
}

// ConnectionDragOptions configures a ConnectionDrag controller.
type ConnectionDragOptions struct {
	Viewport *viewport.Controller

	// Targets supplies the current drop targets, queried fresh per move.
	Targets func() []DropTarget

	// Rules is the ordered validation chain. Empty means DefaultRules.
	Rules []Rule

	// IsValidConnection, when set, is appended to the chain as a final
	// host-supplied predicate.
	IsValidConnection func(c Candidate) bool

	// Capture registers global listeners for the session (optional).
	Capture CaptureFunc

	// OnConnect commits a validated connection on release.
	OnConnect func(c Candidate)
	// OnHint receives feedback updates (optional; Move also returns it).
	OnHint func(h Hint)
}

// connectState is the live state of a connection drag.
type connectState struct {
	sourceNode   string
	sourceHandle string
	sourceKind   HandleKind
	current      geom.Point // screen space
	candidate    *Candidate // last validated candidate, nil if none valid
	release      func()
}

// ConnectionDrag tracks a floating endpoint from a typed source handle,
// hit-testing drop targets as it moves and committing only a validated
// connection on release. No partial or erroneous connection is ever
// committed; releasing over nothing is silent abandonment.
type ConnectionDrag struct {
	opts  ConnectionDragOptions
	rules []Rule
	state *connectState
}

// NewConnectionDrag creates an idle controller.
func NewConnectionDrag(opts ConnectionDragOptions) *ConnectionDrag {
	rules := opts.Rules
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	if opts.IsValidConnection != nil {
		hostPredicate := opts.IsValidConnection
		rules = append(rules, Rule{
			Name:    "host",
			Message: "connection not allowed here",
			Check:   func(c Candidate) bool { return hostPredicate(c) },
		})
	}
	return &ConnectionDrag{opts: opts, rules: rules}
}

// Active reports whether a connection drag is in progress.
func (d *ConnectionDrag) Active() bool {
	return d.state != nil
}

// Press starts a connection drag from a source handle. Returns true when
// captured (the host must suppress pan for this gesture).
func (d *ConnectionDrag) Press(sourceNode, sourceHandle string, sourceKind HandleKind, ev Pointer) bool {
	if d.state != nil {
		return false
	}
	if ev.Button != ButtonPrimary {
		return false
	}
	d.state = &connectState{
		sourceNode:   sourceNode,
		sourceHandle: sourceHandle,
		sourceKind:   sourceKind,
		current:      ev.Position,
		release:      capture(d.opts.Capture),
	}
	return true
}

// Source returns the origin of the live drag.
func (d *ConnectionDrag) Source() (nodeID, handleID string, ok bool) {
	if d.state == nil {
		return "", "", false
	}
	return d.state.sourceNode, d.state.sourceHandle, true
}

// Position returns the floating endpoint in screen space.
func (d *ConnectionDrag) Position() (geom.Point, bool) {
	if d.state == nil {
		return geom.Point{}, false
	}
	return d.state.current, true
}

// Move updates the floating endpoint, hit-tests the drop targets, and
// returns the feedback hint for this position.
func (d *ConnectionDrag) Move(ev Pointer) Hint {
	if d.state == nil {
		return Hint{Kind: HintGuidance}
	}
	d.state.current = ev.Position

	hint := Hint{Kind: HintGuidance, Message: "drop on a port to connect"}
	d.state.candidate = nil

	if target, ok := d.hitTest(ev.Position); ok {
		c := Candidate{
			SourceNode:   d.state.sourceNode,
			SourceHandle: d.state.sourceHandle,
			SourceKind:   d.state.sourceKind,
			TargetNode:   target.NodeID,
			TargetHandle: target.HandleID,
			TargetKind:   target.Kind,
		}
		if failed, ok := Validate(d.rules, c); ok {
			hint = Hint{Kind: HintValid, Message: "release to connect", Candidate: &c}
			d.state.candidate = &c
		} else {
			hint = Hint{Kind: HintInvalid, Message: failed.Message, Candidate: &c}
		}
	}

	if d.opts.OnHint != nil {
		d.opts.OnHint(hint)
	}
	return hint
}

// hitTest finds the drop target under the screen-space point, converting
// through the current transform. First registered target wins.
func (d *ConnectionDrag) hitTest(p geom.Point) (DropTarget, bool) {
	if d.opts.Targets == nil {
		return DropTarget{}, false
	}
	canvas := d.opts.Viewport.ScreenToCanvas(p)
	for _, t := range d.opts.Targets() {
		if t.Rect.Contains(canvas) {
			return t, true
		}
	}
	return DropTarget{}, false
}

// Release ends the drag. A valid candidate at release commits through
// OnConnect; anything else is discarded without error.
func (d *ConnectionDrag) Release(ev Pointer) {
	s := d.state
	if s == nil {
		return
	}
	d.state = nil
	s.release()
	if s.candidate != nil && d.opts.OnConnect != nil {
		d.opts.OnConnect(*s.candidate)
	}
}

// Cancel abandons the drag on host teardown without committing.
func (d *ConnectionDrag) Cancel() {
	s := d.state
	if s == nil {
		return
	}
	d.state = nil
	s.release()
}
