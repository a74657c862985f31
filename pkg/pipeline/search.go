package pipeline

import (
	"strings"

	"github.com/saxonthune/carta-sub006/pkg/document"
)

// matches applies the search predicate to one node. Only leaf content is
// searchable: groups stay in the output as navigable containers no matter
// what their labels say, so they are excluded from the predicate entirely
// and always match.
func matches(n document.Node, query string) bool {
	if query == "" {
		return true
	}
	switch n := n.(type) {
	case *document.GroupNode:
		return true
	case *document.LeafNode:
		q := strings.ToLower(query)
		if strings.Contains(strings.ToLower(n.Type), q) {
			return true
		}
		if strings.Contains(strings.ToLower(n.Semantic), q) {
			return true
		}
		for _, v := range n.Fields {
			if strings.Contains(strings.ToLower(v), q) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
