package interact

import (
	"github.com/saxonthune/carta-sub006/pkg/geom"
	"github.com/saxonthune/carta-sub006/pkg/viewport"
)

// TargetRect pairs a node id with its canvas rectangle for selection
// hit-testing. The host supplies these fresh per query.
type TargetRect struct {
	ID string
	geom.Rect
}

// BoxSelectOptions configures a BoxSelect controller.
type BoxSelectOptions struct {
	Viewport *viewport.Controller

	// Rects supplies the selectable node rectangles, queried per move.
	Rects func() []TargetRect

	// Capture registers global listeners for the session (optional).
	Capture CaptureFunc

	// OnSelectionChange fires whenever the selected-id set changes.
	OnSelectionChange func(ids map[string]struct{})
}

// BoxSelect drags a rectangle over empty canvas background and selects the
// nodes it overlaps. The rectangle clears on release; the selection
// persists until explicitly cleared.
type BoxSelect struct {
	opts BoxSelectOptions

	active   bool
	additive bool       // modifier latched at press, never re-read mid-drag
	start    geom.Point // canvas space
	current  geom.Point // canvas space
	base     map[string]struct{}
	selected map[string]struct{}
	release  func()
}

// NewBoxSelect creates an idle controller with an empty selection.
func NewBoxSelect(opts BoxSelectOptions) *BoxSelect {
	return &BoxSelect{
		opts:     opts,
		selected: make(map[string]struct{}),
	}
}

// Active reports whether a selection rectangle is being dragged.
func (b *BoxSelect) Active() bool {
	return b.active
}

// Selected returns the current selected-id set. The map is shared; callers
// must not mutate it.
func (b *BoxSelect) Selected() map[string]struct{} {
	return b.selected
}

// Press begins a rectangle drag from a point over empty background. The
// caller has already established that no interactive element is under the
// pointer. Returns true when captured.
func (b *BoxSelect) Press(ev Pointer) bool {
	if b.active || ev.Button != ButtonPrimary {
		return false
	}
	b.active = true
	b.additive = ev.Shift
	b.start = b.opts.Viewport.ScreenToCanvas(ev.Position)
	b.current = b.start
	b.release = capture(b.opts.Capture)

	if b.additive {
		b.base = b.selected
	} else {
		b.base = nil
		b.set(make(map[string]struct{}))
	}
	return true
}

// Move extends the rectangle to the pointer and recomputes the selection.
func (b *BoxSelect) Move(ev Pointer) {
	if !b.active {
		return
	}
	b.current = b.opts.Viewport.ScreenToCanvas(ev.Position)

	box := geom.RectFromPoints(b.start, b.current)
	next := make(map[string]struct{}, len(b.base))
	for id := range b.base {
		next[id] = struct{}{}
	}
	if b.opts.Rects != nil {
		for _, r := range b.opts.Rects() {
			if box.Intersects(r.Rect) {
				next[r.ID] = struct{}{}
			}
		}
	}
	b.set(next)
}

// Release clears the rectangle. The selection stays as it was at the last
// move.
func (b *BoxSelect) Release(ev Pointer) {
	b.end()
}

// Cancel clears the rectangle on host teardown, keeping the selection.
func (b *BoxSelect) Cancel() {
	b.end()
}

func (b *BoxSelect) end() {
	if !b.active {
		return
	}
	b.active = false
	b.base = nil
	b.release()
}

// Box returns the current selection rectangle in canvas space.
func (b *BoxSelect) Box() (geom.Rect, bool) {
	if !b.active {
		return geom.Rect{}, false
	}
	return geom.RectFromPoints(b.start, b.current), true
}

// Clear empties the selection outside of any drag.
func (b *BoxSelect) Clear() {
	if len(b.selected) == 0 {
		return
	}
	b.set(make(map[string]struct{}))
}

func (b *BoxSelect) set(ids map[string]struct{}) {
	if sameIDSet(b.selected, ids) {
		b.selected = ids
		return
	}
	b.selected = ids
	if b.opts.OnSelectionChange != nil {
		b.opts.OnSelectionChange(ids)
	}
}

func sameIDSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
