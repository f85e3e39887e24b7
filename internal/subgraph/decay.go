package subgraph

import "github.com/specialistvlad/ghostview/internal/node"

// Plan is the set of nodes and edges that leave the diagram when deduction
// roots are retracted.
type Plan struct {
	Nodes map[string]*node.Node
	Edges map[string]*node.Edge
}

// PlanDecay collects every node in the subtrees of roots, every edge incident
// to one of them, and every edge one of them owns.
func PlanDecay(roots ...*node.Node) *Plan {
	p := &Plan{
		Nodes: make(map[string]*node.Node),
		Edges: make(map[string]*node.Edge),
	}
	for _, r := range roots {
		for _, n := range r.Subtree() {
			p.Nodes[n.UID()] = n
		}
		for _, e := range r.DescendantEdges() {
			p.Edges[e.Description()] = e
		}
	}
	for _, n := range p.Nodes {
		for _, e := range n.OwnedEdges() {
			p.Edges[e.Description()] = e
		}
	}
	return p
}
