package cfg

import "fmt"

// Graph stores nodes in creation order. Node ids are their indexes.
type Graph struct {
	nodes     []*Node
	finalized bool
}

func NewGraph() *Graph {
	return &Graph{}
}

// AddNode appends a node with the given role and returns its id.
func (g *Graph) AddNode(role Role) int {
	id := len(g.nodes)
	g.nodes = append(g.nodes, &Node{ID: id, Role: role})
	return id
}

// AddEdge records a transfer from one node to another. Edges naming an
// unknown node are ignored. Duplicate edges are kept.
func (g *Graph) AddEdge(from, to int, label string) {
	if !g.valid(from) || !g.valid(to) {
		return
	}
	n := g.nodes[from]
	n.Succs = append(n.Succs, Edge{From: from, To: to, Label: label})
}

// AddLine appends an IR line to a node.
func (g *Graph) AddLine(id int, line string) {
	if !g.valid(id) {
		return
	}
	g.nodes[id].Lines = append(g.nodes[id].Lines, line)
}

// Finalize computes display labels. Only the first call has an effect.
func (g *Graph) Finalize() {
	if g.finalized {
		return
	}
	for _, n := range g.nodes {
		role := n.Role
		if role == "" {
			role = RoleBlock
		}
		n.Label = fmt.Sprintf("B%d (%s)", n.ID, role)
	}
	g.finalized = true
}

func (g *Graph) Finalized() bool { return g.finalized }

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id int) *Node {
	if !g.valid(id) {
		return nil
	}
	return g.nodes[id]
}

// Nodes returns the nodes in id order. Callers must not modify the slice.
func (g *Graph) Nodes() []*Node { return g.nodes }

func (g *Graph) Len() int { return len(g.nodes) }

// Edges returns every edge ordered by source node, then by insertion.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, n := range g.nodes {
		edges = append(edges, n.Succs...)
	}
	return edges
}

func (g *Graph) EdgeCount() int {
	count := 0
	for _, n := range g.nodes {
		count += len(n.Succs)
	}
	return count
}

// CyclomaticComplexity returns E - N + 2 for the graph.
func (g *Graph) CyclomaticComplexity() int {
	if len(g.nodes) == 0 {
		return 0
	}
	return g.EdgeCount() - len(g.nodes) + 2
}

func (g *Graph) valid(id int) bool {
	return id >= 0 && id < len(g.nodes)
}
