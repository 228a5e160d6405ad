// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pattern builds per-sentence dependency graphs from persisted
// annotations and extracts subtrees matching a 3-element structural
// pattern (root tag, relation label, child tag).
package pattern

import (
	"fmt"
	"sort"

	"github.com/pdiddy/corpus-engine/pkg/conllu"
)

// Edge is one labeled head → dependent arc.
type Edge struct {
	Child int
	Label string
}

// Graph is one sentence's dependency structure: a node per token
// (labeled by UPOS tag) and an outgoing adjacency list per head.
// Adjacency lists are kept sorted by child id so traversal order is
// deterministic. Graphs never cross sentence boundaries.
type Graph struct {
	Nodes map[int]string // token id → UPOS tag
	Edges map[int][]Edge // head id → outgoing edges
}

// BuildGraph derives the dependency graph for one sentence: one node
// per token, one edge per token whose head is not 0, from head to
// token, labeled with the token's relation.
func BuildGraph(sent conllu.Sentence) Graph {
	g := Graph{
		Nodes: make(map[int]string, len(sent.Tokens)),
		Edges: make(map[int][]Edge),
	}
	for _, tok := range sent.Tokens {
		g.Nodes[tok.ID] = tok.UPOS
	}
	for _, tok := range sent.Tokens {
		if tok.Head == 0 {
			continue
		}
		g.Edges[tok.Head] = append(g.Edges[tok.Head], Edge{Child: tok.ID, Label: tok.Deprel})
	}
	for head := range g.Edges {
		edges := g.Edges[head]
		sort.Slice(edges, func(i, j int) bool { return edges[i].Child < edges[j].Child })
	}
	return g
}

// Validate checks the tree invariant: every edge endpoint is a known
// node, exactly one node has no incoming edge (the sentence root), and
// every other node has exactly one. A violation marks the annotation
// malformed; matching must skip the sentence rather than traverse a
// structure that may cycle.
func (g Graph) Validate() error {
	if len(g.Nodes) == 0 {
		return fmt.Errorf("sentence graph has no nodes")
	}

	indegree := make(map[int]int, len(g.Nodes))
	for head, edges := range g.Edges {
		if _, ok := g.Nodes[head]; !ok {
			return fmt.Errorf("edge references unknown head %d", head)
		}
		for _, e := range edges {
			if _, ok := g.Nodes[e.Child]; !ok {
				return fmt.Errorf("edge references unknown dependent %d", e.Child)
			}
			indegree[e.Child]++
		}
	}

	roots := 0
	for id := range g.Nodes {
		switch indegree[id] {
		case 0:
			roots++
		case 1:
			// tree edge
		default:
			return fmt.Errorf("node %d has indegree %d, want 1", id, indegree[id])
		}
	}
	if roots != 1 {
		return fmt.Errorf("sentence graph has %d roots, want exactly 1", roots)
	}

	return nil
}

// headIDs returns the graph's head node ids in ascending order.
func (g Graph) headIDs() []int {
	ids := make([]int, 0, len(g.Edges))
	for id := range g.Edges {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
