// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

// Pattern is the 3-element structural shape being searched: a node
// tagged Root with an outgoing edge labeled Rel to a node tagged Child.
type Pattern struct {
	Root  string `json:"root"`
	Rel   string `json:"rel"`
	Child string `json:"child"`
}

// TreeNode is one node of an extracted match tree. The root of a match
// is the pattern-matched head; beneath the matched child sits that
// child's entire governed subtree, not just its direct dependents.
type TreeNode struct {
	ID       int         `json:"id"`
	Tag      string      `json:"tag"`
	Children []*TreeNode `json:"children"`
}

func newTreeNode(id int, tag string) *TreeNode {
	// Children starts non-nil so leaves serialize as "children": [].
	return &TreeNode{ID: id, Tag: tag, Children: []*TreeNode{}}
}

// Find scans every edge of the graph and returns one match tree per
// edge satisfying the pattern. A node participates in as many matches
// as it has satisfying edges; there is no dedup beyond edge identity.
// Results are ordered by head id, then child id.
//
// The caller is expected to have validated the graph: extraction
// traverses edges transitively and relies on the tree invariant to
// terminate.
func (g Graph) Find(p Pattern) []*TreeNode {
	var matches []*TreeNode
	for _, head := range g.headIDs() {
		if g.Nodes[head] != p.Root {
			continue
		}
		for _, e := range g.Edges[head] {
			if e.Label != p.Rel || g.Nodes[e.Child] != p.Child {
				continue
			}
			root := newTreeNode(head, g.Nodes[head])
			root.Children = append(root.Children, g.subtree(e.Child))
			matches = append(matches, root)
		}
	}
	return matches
}

// subtree extracts the full governed subtree rooted at id. Traversal is
// an explicit work-list rather than native recursion, so long sentences
// cannot exhaust the stack; children are pushed in reverse so pre-order
// visits them in ascending id order.
func (g Graph) subtree(id int) *TreeNode {
	root := newTreeNode(id, g.Nodes[id])

	stack := []*TreeNode{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Edges are sorted by child id, so Children come out ascending;
		// pushing them in reverse makes the pre-order visit ascending too.
		for _, e := range g.Edges[node.ID] {
			node.Children = append(node.Children, newTreeNode(e.Child, g.Nodes[e.Child]))
		}
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}

	return root
}
