package ui

import "testing"

func TestGridBoxLabelTruncatesByRune(t *testing.T) {
	g := newGrid(8, 3)
	// Inner width is 4 cells; the 6-rune label must be cut between runes,
	// never mid-encoding.
	g.box(0, 0, 5, 2, "ünïcöd", paintNormal)

	want := []rune{'ü', 'n', 'ï', 'c'}
	for i, r := range want {
		if got := g.runes[1+i]; got != r {
			t.Errorf("cell %d = %q, want %q", 1+i, got, r)
		}
	}
	if g.runes[5] != '┐' {
		t.Errorf("corner overwritten: %q", g.runes[5])
	}
}

func TestGridBoxDegenerateRect(t *testing.T) {
	g := newGrid(4, 4)
	g.box(2, 2, 2, 2, "x", paintNormal)
	if g.runes[2*4+2] != '▪' {
		t.Error("degenerate rect should collapse to a point marker")
	}
}
