package pipeline

import (
	"testing"

	"github.com/saxonthune/carta-sub006/pkg/document"
)

func group(id, parent string) *document.GroupNode {
	return &document.GroupNode{ID: id, Parent: parent}
}

func leaf(id, parent string) *document.LeafNode {
	return &document.LeafNode{ID: id, Parent: parent}
}

func ids(nodes []document.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.NodeID()
	}
	return out
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

func TestSortParentsFirst(t *testing.T) {
	tests := []struct {
		name   string
		nodes  []document.Node
		before [][2]string // pairs that must appear in this relative order
	}{
		{
			name: "child listed before its parent",
			nodes: []document.Node{
				leaf("child", "g"),
				group("g", ""),
			},
			before: [][2]string{{"g", "child"}},
		},
		{
			name: "three levels out of order",
			nodes: []document.Node{
				leaf("l", "inner"),
				group("inner", "outer"),
				group("outer", ""),
			},
			before: [][2]string{{"outer", "inner"}, {"inner", "l"}},
		},
		{
			name: "unrelated nodes keep input order",
			nodes: []document.Node{
				leaf("a", ""),
				leaf("b", ""),
			},
			before: [][2]string{{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(SortParentsFirst(tt.nodes))
			if len(got) != len(tt.nodes) {
				t.Fatalf("sorted %d nodes, want %d", len(got), len(tt.nodes))
			}
			for _, pair := range tt.before {
				if indexOf(got, pair[0]) >= indexOf(got, pair[1]) {
					t.Errorf("%s should precede %s in %v", pair[0], pair[1], got)
				}
			}
		})
	}
}

func TestSortParentsFirst_CycleTerminates(t *testing.T) {
	nodes := []document.Node{
		group("a", "b"),
		group("b", "a"),
	}
	got := SortParentsFirst(nodes)
	if len(got) != 2 {
		t.Errorf("sorted %d nodes, want both despite the cycle", len(got))
	}
}

func TestRun_ReferenceStability(t *testing.T) {
	nodes := []document.Node{
		group("g", ""),
		leaf("a", "g"),
		leaf("b", "g"),
	}

	p := New()
	first := p.Run(nodes, Overlays{})
	second := p.Run(nodes, Overlays{})

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("wrapper for %s reallocated with no changes", first[i].Node.NodeID())
		}
	}
}

func TestRun_OverlayChangeTouchesOnlyThatNode(t *testing.T) {
	nodes := []document.Node{
		leaf("a", ""),
		leaf("b", ""),
		leaf("c", ""),
	}

	p := New()
	first := p.Run(nodes, Overlays{})
	second := p.Run(nodes, Overlays{Dimmed: map[string]struct{}{"b": {}}})

	for i := range first {
		id := first[i].Node.NodeID()
		same := first[i] == second[i]
		if id == "b" {
			if same {
				t.Error("b's wrapper should be reallocated when its overlay changed")
			}
			if !second[i].Dimmed {
				t.Error("b should be dimmed")
			}
		} else if !same {
			t.Errorf("%s's wrapper reallocated by an unrelated overlay change", id)
		}
	}
}

func TestRun_BaseNodeChangeReallocates(t *testing.T) {
	a := leaf("a", "")
	nodes := []document.Node{a}

	p := New()
	first := p.Run(nodes, Overlays{})

	// The document replaces nodes rather than mutating them, so a changed
	// node means a changed pointer.
	moved := *a
	moved.Position.X = 50
	second := p.Run([]document.Node{&moved}, Overlays{})

	if first[0] == second[0] {
		t.Error("wrapper reused although the base node changed")
	}
}

func TestRun_RenamingFlag(t *testing.T) {
	nodes := []document.Node{leaf("a", ""), leaf("b", "")}
	p := New()
	out := p.Run(nodes, Overlays{Renaming: "a"})
	if !out[0].Renaming || out[1].Renaming {
		t.Errorf("renaming flags = %v/%v, want true/false", out[0].Renaming, out[1].Renaming)
	}
}

func TestRun_SearchFilter(t *testing.T) {
	nodes := []document.Node{
		group("unrelated-group", ""),
		&document.LeafNode{ID: "a", Type: "http.Request", Semantic: "fetch-users"},
		&document.LeafNode{ID: "b", Type: "db.Query", Fields: map[string]string{"table": "Users"}},
		&document.LeafNode{ID: "c", Type: "timer", Semantic: "tick"},
	}

	p := New()
	out := p.Run(nodes, Overlays{Query: "users"})

	matches := map[string]bool{}
	for _, w := range out {
		matches[w.Node.NodeID()] = w.Match
	}

	// Case-insensitive substring over type, semantic id, and field values.
	if !matches["a"] || !matches["b"] {
		t.Errorf("a/b should match: %v", matches)
	}
	if matches["c"] {
		t.Error("c should not match")
	}
	// Groups are excluded from the predicate and always retained.
	if !matches["unrelated-group"] {
		t.Error("group subjected to the search predicate")
	}
	if len(out) != len(nodes) {
		t.Errorf("filter removed nodes from the output: %d of %d", len(out), len(nodes))
	}
}

func TestInvalidate_ForcesFreshWrappers(t *testing.T) {
	nodes := []document.Node{leaf("a", "")}
	p := New()
	first := p.Run(nodes, Overlays{})
	p.Invalidate()
	second := p.Run(nodes, Overlays{})
	if first[0] == second[0] {
		t.Error("Invalidate did not drop the reuse cache")
	}
}
