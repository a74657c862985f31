package document

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/saxonthune/carta-sub006/pkg/geom"
)

// fileDoc is the on-disk YAML shape. The format is intentionally thin: it
// exists so the CLI can host real diagrams, not as a persistence contract.
type fileDoc struct {
	Nodes  []fileNode `yaml:"nodes"`
	Groups []fileNode `yaml:"groups"`
	Edges  []fileEdge `yaml:"edges"`
}

type fileNode struct {
	ID        string            `yaml:"id"`
	Parent    string            `yaml:"parent,omitempty"`
	Type      string            `yaml:"type,omitempty"`
	Semantic  string            `yaml:"semantic,omitempty"`
	Label     string            `yaml:"label,omitempty"`
	X         float64           `yaml:"x"`
	Y         float64           `yaml:"y"`
	Width     float64           `yaml:"width,omitempty"`
	Height    float64           `yaml:"height,omitempty"`
	Collapsed bool              `yaml:"collapsed,omitempty"`
	Pinned    bool              `yaml:"pinned,omitempty"`
	Handles   []fileHandle      `yaml:"handles,omitempty"`
	Fields    map[string]string `yaml:"fields,omitempty"`
}

type fileHandle struct {
	ID        string `yaml:"id"`
	Kind      string `yaml:"kind"`
	Direction string `yaml:"direction,omitempty"`
}

type fileEdge struct {
	ID           string `yaml:"id,omitempty"`
	Source       string `yaml:"source"`
	SourceHandle string `yaml:"sourceHandle,omitempty"`
	Target       string `yaml:"target"`
	TargetHandle string `yaml:"targetHandle,omitempty"`
}

// Load reads a diagram document from a YAML file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML diagram document.
func Parse(data []byte) (*Document, error) {
	var f fileDoc
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("document: parse: %w", err)
	}

	doc := New()
	for _, g := range f.Groups {
		node := &GroupNode{
			ID:        g.ID,
			Parent:    g.Parent,
			Label:     g.Label,
			Collapsed: g.Collapsed,
			Manual:    g.Pinned,
			Position:  geom.Point{X: g.X, Y: g.Y},
			Size:      geom.Point{X: g.Width, Y: g.Height},
		}
		if err := doc.Add(node); err != nil {
			return nil, err
		}
	}
	for _, n := range f.Nodes {
		leaf := &LeafNode{
			ID:       n.ID,
			Parent:   n.Parent,
			Type:     n.Type,
			Semantic: n.Semantic,
			Position: geom.Point{X: n.X, Y: n.Y},
			Size:     geom.Point{X: n.Width, Y: n.Height},
			Fields:   n.Fields,
		}
		for _, h := range n.Handles {
			leaf.Handles = append(leaf.Handles, Handle{
				ID:        h.ID,
				Kind:      parseHandleKind(h.Kind),
				Direction: geom.ParseDirection(h.Direction),
			})
		}
		if err := doc.Add(leaf); err != nil {
			return nil, err
		}
	}
	for _, e := range f.Edges {
		if err := doc.Connect(Edge(e)); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func parseHandleKind(s string) HandleKind {
	switch s {
	case "output":
		return HandleOutput
	case "input":
		return HandleInput
	default:
		return HandleBody
	}
}
