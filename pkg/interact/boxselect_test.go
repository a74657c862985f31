package interact

import (
	"testing"

	"github.com/saxonthune/carta-sub006/pkg/geom"
	"github.com/saxonthune/carta-sub006/pkg/viewport"
)

func testRects() []TargetRect {
	return []TargetRect{
		{ID: "a", Rect: geom.Rect{X: 0, Y: 0, Width: 50, Height: 50}},
		{ID: "b", Rect: geom.Rect{X: 100, Y: 0, Width: 50, Height: 50}},
		{ID: "c", Rect: geom.Rect{X: 400, Y: 400, Width: 50, Height: 50}},
	}
}

func newTestBoxSelect(opts BoxSelectOptions) *BoxSelect {
	if opts.Viewport == nil {
		opts.Viewport = viewport.NewController(nil)
	}
	if opts.Rects == nil {
		opts.Rects = testRects
	}
	return NewBoxSelect(opts)
}

func selectedIDs(b *BoxSelect) map[string]struct{} {
	return b.Selected()
}

func TestBoxSelect_SelectsIntersectingRects(t *testing.T) {
	b := newTestBoxSelect(BoxSelectOptions{})

	b.Press(Pointer{Position: geom.Point{X: -10, Y: -10}})
	b.Move(Pointer{Position: geom.Point{X: 120, Y: 30}})

	sel := selectedIDs(b)
	if len(sel) != 2 {
		t.Fatalf("selected %d nodes, want 2: %v", len(sel), sel)
	}
	for _, id := range []string{"a", "b"} {
		if _, ok := sel[id]; !ok {
			t.Errorf("%s missing from selection", id)
		}
	}
}

func TestBoxSelect_SelectionPersistsAfterRelease(t *testing.T) {
	b := newTestBoxSelect(BoxSelectOptions{})

	b.Press(Pointer{Position: geom.Point{X: -10, Y: -10}})
	b.Move(Pointer{Position: geom.Point{X: 60, Y: 60}})
	b.Release(Pointer{})

	if _, ok := b.Box(); ok {
		t.Error("rectangle should clear on release")
	}
	if _, ok := selectedIDs(b)["a"]; !ok {
		t.Error("selection did not persist after release")
	}

	b.Clear()
	if len(selectedIDs(b)) != 0 {
		t.Error("Clear left a selection behind")
	}
}

func TestBoxSelect_AdditiveLatchedAtPress(t *testing.T) {
	b := newTestBoxSelect(BoxSelectOptions{})

	// First pass selects a.
	b.Press(Pointer{Position: geom.Point{X: -10, Y: -10}})
	b.Move(Pointer{Position: geom.Point{X: 60, Y: 60}})
	b.Release(Pointer{})

	// Second pass with shift held adds c; dropping shift mid-drag must not
	// demote the drag to a replacing selection.
	b.Press(Pointer{Position: geom.Point{X: 390, Y: 390}, Shift: true})
	b.Move(Pointer{Position: geom.Point{X: 460, Y: 460}, Shift: false})
	b.Release(Pointer{})

	sel := selectedIDs(b)
	for _, id := range []string{"a", "c"} {
		if _, ok := sel[id]; !ok {
			t.Errorf("%s missing from additive selection: %v", id, sel)
		}
	}
}

func TestBoxSelect_NonAdditiveReplaces(t *testing.T) {
	b := newTestBoxSelect(BoxSelectOptions{})

	b.Press(Pointer{Position: geom.Point{X: -10, Y: -10}})
	b.Move(Pointer{Position: geom.Point{X: 60, Y: 60}})
	b.Release(Pointer{})

	b.Press(Pointer{Position: geom.Point{X: 390, Y: 390}})
	b.Move(Pointer{Position: geom.Point{X: 460, Y: 460}})
	b.Release(Pointer{})

	sel := selectedIDs(b)
	if _, ok := sel["a"]; ok {
		t.Error("non-additive drag kept the old selection")
	}
	if _, ok := sel["c"]; !ok {
		t.Error("new selection missing c")
	}
}

func TestBoxSelect_RectInCanvasSpace(t *testing.T) {
	vp := viewport.NewController(nil)
	vp.SetTransform(viewport.Transform{X: 0, Y: 0, K: 2})
	b := newTestBoxSelect(BoxSelectOptions{Viewport: vp})

	// Screen (0,0)-(120,120) is canvas (0,0)-(60,60): only a.
	b.Press(Pointer{Position: geom.Point{X: 0, Y: 0}})
	b.Move(Pointer{Position: geom.Point{X: 120, Y: 120}})

	sel := selectedIDs(b)
	if len(sel) != 1 {
		t.Fatalf("selected %v, want only a", sel)
	}
	if _, ok := sel["a"]; !ok {
		t.Error("a missing")
	}
}

func TestBoxSelect_ChangeCallbackOnlyOnChange(t *testing.T) {
	var changes int
	b := newTestBoxSelect(BoxSelectOptions{
		OnSelectionChange: func(map[string]struct{}) { changes++ },
	})

	b.Press(Pointer{Position: geom.Point{X: -10, Y: -10}})
	b.Move(Pointer{Position: geom.Point{X: 60, Y: 60}})
	after := changes
	// Same selection again: no callback.
	b.Move(Pointer{Position: geom.Point{X: 61, Y: 61}})
	if changes != after {
		t.Errorf("callback fired for an unchanged selection")
	}
}

func TestBoxSelect_SecondaryButtonIgnored(t *testing.T) {
	b := newTestBoxSelect(BoxSelectOptions{})
	if b.Press(Pointer{Button: ButtonSecondary}) {
		t.Error("secondary button started a box select")
	}
}
