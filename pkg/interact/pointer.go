// Package interact implements the pointer-driven drag state machines of a
// canvas: node dragging, connection dragging with live validity feedback,
// and rectangle box-selection. Each controller is a small explicit state
// machine owned by one canvas instance; nothing is package-global, so many
// canvases can coexist without cross-talk.
package interact

import "github.com/saxonthune/carta-sub006/pkg/geom"

// Button identifies which pointer button an event carries.
type Button uint8

const (
	// ButtonPrimary starts drags and selections.
	ButtonPrimary Button = iota
	// ButtonSecondary is reserved for panning.
	ButtonSecondary
	// ButtonTertiary is reserved for panning.
	ButtonTertiary
)

// Pointer is one event from the host's pointer stream, in screen space.
type Pointer struct {
	Position geom.Point
	Button   Button
	Shift    bool
	Ctrl     bool
	Alt      bool
}

// CaptureFunc registers global move/up listeners for the lifetime of a drag
// session and returns the release that removes them. Controllers call the
// release on every exit path: normal pointer-up, cancellation, and host
// teardown.
type CaptureFunc func() (release func())

// capture invokes fn when set and always returns a callable release.
func capture(fn CaptureFunc) func() {
	if fn == nil {
		return func() {}
	}
	if release := fn(); release != nil {
		return release
	}
	return func() {}
}
