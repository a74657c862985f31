package interact

import (
	"testing"

	"github.com/saxonthune/carta-sub006/pkg/geom"
	"github.com/saxonthune/carta-sub006/pkg/viewport"
)

type dragRecorder struct {
	started []string
	ended   []string
	deltas  []geom.Point
}

func newTestNodeDrag(t *testing.T, rec *dragRecorder, opts NodeDragOptions) (*NodeDrag, *viewport.Controller) {
	t.Helper()
	vp := viewport.NewController(nil)
	opts.Viewport = vp
	if opts.NodeOrigin == nil {
		opts.NodeOrigin = func(string) (geom.Point, bool) {
			return geom.Point{X: 10, Y: 20}, true
		}
	}
	opts.OnDragStart = func(id string) { rec.started = append(rec.started, id) }
	opts.OnDrag = func(id string, dx, dy float64) {
		rec.deltas = append(rec.deltas, geom.Point{X: dx, Y: dy})
	}
	opts.OnDragEnd = func(id string) { rec.ended = append(rec.ended, id) }
	return NewNodeDrag(opts), vp
}

func TestNodeDrag_CumulativeDeltaScaledByZoom(t *testing.T) {
	rec := &dragRecorder{}
	d, vp := newTestNodeDrag(t, rec, NodeDragOptions{})
	vp.SetTransform(viewport.Transform{X: 0, Y: 0, K: 2})

	if !d.Press("n1", Pointer{Position: geom.Point{X: 100, Y: 100}}) {
		t.Fatal("press not captured")
	}
	// Intermediate moves must not change the final cumulative delta.
	d.Move(Pointer{Position: geom.Point{X: 120, Y: 110}})
	d.Move(Pointer{Position: geom.Point{X: 90, Y: 140}})
	d.Move(Pointer{Position: geom.Point{X: 150, Y: 130}})

	last := rec.deltas[len(rec.deltas)-1]
	if last.X != 25 || last.Y != 15 {
		t.Errorf("cumulative delta = %+v, want (25,15)", last)
	}

	d.Release(Pointer{})
	if len(rec.started) != 1 || len(rec.ended) != 1 {
		t.Errorf("lifecycle callbacks: started=%d ended=%d", len(rec.started), len(rec.ended))
	}
}

func TestNodeDrag_SecondaryButtonIgnored(t *testing.T) {
	rec := &dragRecorder{}
	d, _ := newTestNodeDrag(t, rec, NodeDragOptions{})

	for _, b := range []Button{ButtonSecondary, ButtonTertiary} {
		if d.Press("n1", Pointer{Button: b}) {
			t.Errorf("button %d started a drag", b)
		}
	}
	if d.Active() {
		t.Error("controller should stay idle")
	}
}

func TestNodeDrag_AtMostOneSession(t *testing.T) {
	rec := &dragRecorder{}
	d, _ := newTestNodeDrag(t, rec, NodeDragOptions{})

	if !d.Press("n1", Pointer{Position: geom.Point{X: 0, Y: 0}}) {
		t.Fatal("first press not captured")
	}
	if d.Press("n2", Pointer{Position: geom.Point{X: 5, Y: 5}}) {
		t.Error("second press captured while a session is live")
	}
	if len(rec.started) != 1 || rec.started[0] != "n1" {
		t.Errorf("started = %v, want [n1]", rec.started)
	}

	d.Release(Pointer{})
	if !d.Press("n2", Pointer{}) {
		t.Error("press after release should start a new session")
	}
}

func TestNodeDrag_HandleFilterGatesPress(t *testing.T) {
	rec := &dragRecorder{}
	d, _ := newTestNodeDrag(t, rec, NodeDragOptions{
		HandleFilter: func(nodeID string, ev Pointer) bool {
			return ev.Position.Y < 10 // only the title bar drags
		},
	})

	if d.Press("n1", Pointer{Position: geom.Point{X: 5, Y: 50}}) {
		t.Error("press outside handle region captured")
	}
	if !d.Press("n1", Pointer{Position: geom.Point{X: 5, Y: 5}}) {
		t.Error("press inside handle region suppressed")
	}
}

func TestNodeDrag_MidDragZoomUsesFreshTransform(t *testing.T) {
	rec := &dragRecorder{}
	d, vp := newTestNodeDrag(t, rec, NodeDragOptions{})

	d.Press("n1", Pointer{Position: geom.Point{X: 0, Y: 0}})
	d.Move(Pointer{Position: geom.Point{X: 100, Y: 0}})
	if got := rec.deltas[len(rec.deltas)-1]; got.X != 100 {
		t.Fatalf("delta at k=1: %+v", got)
	}

	// Zoom changes mid-drag; the next move must use the new scale.
	vp.SetTransform(viewport.Transform{K: 4})
	d.Move(Pointer{Position: geom.Point{X: 100, Y: 0}})
	if got := rec.deltas[len(rec.deltas)-1]; got.X != 25 {
		t.Errorf("delta after mid-drag zoom = %+v, want X=25", got)
	}
}

func TestNodeDrag_CaptureReleasedOnEveryExit(t *testing.T) {
	tests := []struct {
		name string
		exit func(d *NodeDrag)
	}{
		{name: "pointer up", exit: func(d *NodeDrag) { d.Release(Pointer{}) }},
		{name: "cancel", exit: func(d *NodeDrag) { d.Cancel() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			released := 0
			rec := &dragRecorder{}
			d, _ := newTestNodeDrag(t, rec, NodeDragOptions{
				Capture: func() func() {
					return func() { released++ }
				},
			})
			d.Press("n1", Pointer{})
			tt.exit(d)
			if released != 1 {
				t.Errorf("release ran %d times, want 1", released)
			}
			if d.Active() {
				t.Error("session still active after exit")
			}
			// Exiting again must not double-release.
			tt.exit(d)
			if released != 1 {
				t.Errorf("idle exit re-released: %d", released)
			}
		})
	}
}

func TestNodeDrag_UnknownNodeRejected(t *testing.T) {
	rec := &dragRecorder{}
	d, _ := newTestNodeDrag(t, rec, NodeDragOptions{
		NodeOrigin: func(string) (geom.Point, bool) { return geom.Point{}, false },
	})
	if d.Press("ghost", Pointer{}) {
		t.Error("press on unknown node captured")
	}
}
