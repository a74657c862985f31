package live

import (
	"sync"
	"testing"

	"github.com/saxonthune/carta-sub006/pkg/canvas"
	"github.com/saxonthune/carta-sub006/pkg/document"
	"github.com/saxonthune/carta-sub006/pkg/geom"
)

func testCanvas(t *testing.T) *canvas.Canvas {
	t.Helper()
	doc := document.New()
	mustAdd := func(n document.Node) {
		if err := doc.Add(n); err != nil {
			t.Fatalf("add %s: %v", n.NodeID(), err)
		}
	}
	mustAdd(&document.GroupNode{
		ID:        "g",
		Collapsed: true,
		Position:  geom.Point{X: 300, Y: 0},
		Size:      geom.Point{X: 120, Y: 60},
	})
	mustAdd(&document.LeafNode{
		ID:       "a",
		Type:     "service",
		Position: geom.Point{X: 0, Y: 0},
		Size:     geom.Point{X: 100, Y: 50},
	})
	mustAdd(&document.LeafNode{
		ID:       "b",
		Parent:   "g",
		Type:     "store",
		Position: geom.Point{X: 320, Y: 10},
		Size:     geom.Point{X: 80, Y: 40},
	})
	if err := doc.Connect(document.Edge{Source: "a", Target: "b"}); err != nil {
		t.Fatalf("connect: %v", err)
	}
	c := canvas.New(doc, canvas.Options{})
	c.Viewport.SetSize(800, 600)
	return c
}

func TestEncodeFrame(t *testing.T) {
	c := testCanvas(t)
	wf := encodeFrame(c.Frame())

	if wf.Transform.K != 1 {
		t.Errorf("transform K = %v, want 1", wf.Transform.K)
	}
	if len(wf.Nodes) != 3 {
		t.Fatalf("node count = %d, want 3", len(wf.Nodes))
	}

	byID := make(map[string]wireNode)
	for _, n := range wf.Nodes {
		byID[n.ID] = n
	}
	if byID["g"].Kind != "group" {
		t.Errorf("g kind = %q, want group", byID["g"].Kind)
	}
	if byID["a"].Kind != "leaf" {
		t.Errorf("a kind = %q, want leaf", byID["a"].Kind)
	}
	if !byID["b"].Hidden {
		t.Error("b should be hidden inside the collapsed group")
	}

	// The edge to b renders remapped onto the collapsed group.
	if len(wf.Edges) != 1 {
		t.Fatalf("edge count = %d, want 1", len(wf.Edges))
	}
	e := wf.Edges[0]
	if e.Target != "g" || !e.Remapped {
		t.Errorf("edge target = %q remapped = %v, want g remapped", e.Target, e.Remapped)
	}
}

func TestSessionConcurrentRefreshAndEvents(t *testing.T) {
	// Broadcast-triggered refreshes run on the watcher goroutine while the
	// reader goroutine applies events; both funnel through the session's
	// canvas serialization.
	s := &Session{ID: "test", canvas: testCanvas(t), sendChan: make(chan []byte, 8)}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s.sendFrame()
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.Apply(Event{Type: EventWheel, X: 100, Y: 100, Factor: 1.01})
			s.Apply(Event{Type: EventPan, X: 1, Y: -1})
		}
	}()
	wg.Wait()

	if k := s.canvas.Viewport.Transform().K; k <= 1 {
		t.Errorf("zoom K = %v after 200 zoom-in events, want > 1", k)
	}
}

func TestSessionApplyEvents(t *testing.T) {
	s := &Session{ID: "test", canvas: testCanvas(t)}

	s.Apply(Event{Type: EventWheel, X: 400, Y: 300, Factor: 2})
	if k := s.canvas.Viewport.Transform().K; k != 2 {
		t.Errorf("zoom K = %v, want 2", k)
	}

	s.Apply(Event{Type: EventPan, X: -10, Y: 5})
	tr := s.canvas.Viewport.Transform()
	wantX := -400.0 - 10
	if tr.X != wantX {
		t.Errorf("pan X = %v, want %v", tr.X, wantX)
	}

	s.Apply(Event{Type: EventExpand, Text: "g"})
	n, _ := s.canvas.Document().Node("g")
	if n.(*document.GroupNode).Collapsed {
		t.Error("expand should clear Collapsed")
	}

	s.Apply(Event{Type: EventSearch, Text: "store"})
	frame := s.canvas.Frame()
	for _, p := range frame.Nodes {
		if p.Node.NodeID() == "a" && p.Match {
			t.Error("a should not match query 'store'")
		}
	}
}
