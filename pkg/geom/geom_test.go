package geom

import (
	"math"
	"testing"
)

func TestRect_Intersects(t *testing.T) {
	tests := []struct {
		name string
		a    Rect
		b    Rect
		want bool
	}{
		{
			name: "overlapping",
			a:    Rect{X: 0, Y: 0, Width: 10, Height: 10},
			b:    Rect{X: 5, Y: 5, Width: 10, Height: 10},
			want: true,
		},
		{
			name: "disjoint",
			a:    Rect{X: 0, Y: 0, Width: 10, Height: 10},
			b:    Rect{X: 20, Y: 20, Width: 5, Height: 5},
			want: false,
		},
		{
			name: "touching edges",
			a:    Rect{X: 0, Y: 0, Width: 10, Height: 10},
			b:    Rect{X: 10, Y: 0, Width: 10, Height: 10},
			want: true,
		},
		{
			name: "contained",
			a:    Rect{X: 0, Y: 0, Width: 100, Height: 100},
			b:    Rect{X: 40, Y: 40, Width: 10, Height: 10},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			// Intersection is symmetric.
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("Intersects() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRect_Union(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 30, Width: 10, Height: 10}
	got := a.Union(b)
	want := Rect{X: 0, Y: 0, Width: 30, Height: 40}
	if got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
}

func TestRectFromPoints_Normalizes(t *testing.T) {
	// Dragging up-left must yield the same rect as dragging down-right.
	down := RectFromPoints(Point{X: 10, Y: 10}, Point{X: 50, Y: 40})
	up := RectFromPoints(Point{X: 50, Y: 40}, Point{X: 10, Y: 10})
	if down != up {
		t.Errorf("RectFromPoints not direction-invariant: %+v vs %+v", down, up)
	}
	if down != (Rect{X: 10, Y: 10, Width: 40, Height: 30}) {
		t.Errorf("RectFromPoints = %+v", down)
	}
}

func TestBoundingRect(t *testing.T) {
	if _, ok := BoundingRect(nil); ok {
		t.Error("BoundingRect(nil) should report no box")
	}
	rects := []Rect{
		{X: 0, Y: 0, Width: 100, Height: 50},
		{X: 200, Y: 100, Width: 200, Height: 200},
	}
	bbox, ok := BoundingRect(rects)
	if !ok {
		t.Fatal("BoundingRect returned no box")
	}
	want := Rect{X: 0, Y: 0, Width: 400, Height: 300}
	if bbox != want {
		t.Errorf("BoundingRect = %+v, want %+v", bbox, want)
	}
}

func TestDirection_Vectors(t *testing.T) {
	for d := North; d <= NorthWest; d++ {
		v := d.Vector()
		mag := math.Hypot(v.X, v.Y)
		if math.Abs(mag-1) > 1e-9 {
			t.Errorf("%s vector magnitude = %v, want 1", d, mag)
		}
	}
	if (East.Vector() != Point{X: 1, Y: 0}) {
		t.Errorf("East vector = %+v", East.Vector())
	}
	if (North.Vector() != Point{X: 0, Y: -1}) {
		t.Errorf("North vector = %+v", North.Vector())
	}
}

func TestParseDirection_RoundTrip(t *testing.T) {
	for d := North; d <= NorthWest; d++ {
		if got := ParseDirection(d.String()); got != d {
			t.Errorf("ParseDirection(%q) = %v, want %v", d.String(), got, d)
		}
	}
	if got := ParseDirection("sideways"); got != East {
		t.Errorf("ParseDirection fallback = %v, want East", got)
	}
}

func TestCurveControls(t *testing.T) {
	src := Point{X: 0, Y: 0}
	dst := Point{X: 100, Y: 0}

	// Extension is 40% of distance when under the cap.
	c1, c2 := CurveControls(src, East, dst, West, 150)
	if math.Abs(c1.X-40) > 1e-9 || math.Abs(c1.Y) > 1e-9 {
		t.Errorf("c1 = %+v, want (40,0)", c1)
	}
	if math.Abs(c2.X-60) > 1e-9 || math.Abs(c2.Y) > 1e-9 {
		t.Errorf("c2 = %+v, want (60,0)", c2)
	}

	// Far apart, the cap wins so the curve stays anchored near its ends.
	far := Point{X: 1000, Y: 0}
	c1, _ = CurveControls(src, East, far, West, 150)
	if math.Abs(c1.X-150) > 1e-9 {
		t.Errorf("capped c1.X = %v, want 150", c1.X)
	}

	// Very close, the curve flattens toward a straight line.
	near := Point{X: 5, Y: 0}
	c1, c2 = CurveControls(src, East, near, West, 150)
	if c1.X > 2.1 || near.X-c2.X > 2.1 {
		t.Errorf("short-distance controls too long: c1=%+v c2=%+v", c1, c2)
	}
}
