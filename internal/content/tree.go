package content

import "docsync/internal/models"

// BuildTree nests nodes under their parents, keeping input order. Nodes whose
// parent is not in the list are dropped; nodes without a parent are roots.
func BuildTree(nodes []*models.DocumentNode) []*models.DocumentNode {
	byID := make(map[string]*models.DocumentNode, len(nodes))
	for _, n := range nodes {
		if n.Children == nil {
			n.Children = []*models.DocumentNode{}
		}
		byID[n.ID] = n
	}
	roots := []*models.DocumentNode{}
	for _, n := range nodes {
		if n.ParentID == nil || *n.ParentID == "" {
			roots = append(roots, n)
			continue
		}
		if parent, ok := byID[*n.ParentID]; ok {
			parent.Children = append(parent.Children, n)
		}
	}
	return roots
}
