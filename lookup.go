package main

// FindNode searches forest depth-first for the first node with the given kind
// and name. A node is tested before its children; the children are searched
// only when descend reports true for the node. A nil descend searches
// everything.
func FindNode(forest []*ASTNode, kind NodeKind, name string, descend func(*ASTNode) bool) *ASTNode {
	for _, node := range forest {
		if node.Kind == kind && node.Name == name {
			return node
		}
		if len(node.Children) == 0 || (descend != nil && !descend(node)) {
			continue
		}
		if found := FindNode(node.Children, kind, name, descend); found != nil {
			return found
		}
	}
	return nil
}
