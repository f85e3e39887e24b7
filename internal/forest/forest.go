package forest

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/ghostview/internal/node"
)

// Forest owns all nodes and edges of a diagram, keyed by UID and description.
type Forest struct {
	mode  Mode
	nodes map[string]*node.Node
	edges map[string]*node.Edge
}

// New creates an empty forest using the given expansion mode.
func New(mode Mode) *Forest {
	return &Forest{
		mode:  mode,
		nodes: make(map[string]*node.Node),
		edges: make(map[string]*node.Edge),
	}
}

// Mode returns the expansion mode selected for this diagram.
func (f *Forest) Mode() Mode {
	return f.mode
}

// Node looks up a node by UID.
func (f *Forest) Node(uid string) (*node.Node, bool) {
	n, ok := f.nodes[uid]
	return n, ok
}

// Edge looks up an edge by description.
func (f *Forest) Edge(desc string) (*node.Edge, bool) {
	e, ok := f.edges[desc]
	return e, ok
}

// Nodes returns all registered nodes sorted by UID.
func (f *Forest) Nodes() []*node.Node {
	return sortedValues(f.nodes)
}

// Edges returns all registered edges sorted by description.
func (f *Forest) Edges() []*node.Edge {
	return sortedValues(f.edges)
}

// Roots returns the registered nodes without a parent, sorted by UID.
func (f *Forest) Roots() []*node.Node {
	var roots []*node.Node
	for _, n := range f.Nodes() {
		if n.Parent() == nil {
			roots = append(roots, n)
		}
	}
	return roots
}

// AddNode registers n under parent, which may be nil for a root. It rejects
// duplicate UIDs, unregistered parents and ghosts whose resolution chain
// would revisit a node.
func (f *Forest) AddNode(n *node.Node, parent *node.Node) error {
	uid := n.UID()
	if _, exists := f.nodes[uid]; exists {
		return fmt.Errorf("node '%s' already exists in the forest", uid)
	}
	if parent != nil && f.nodes[parent.UID()] != parent {
		return fmt.Errorf("parent node '%s' of '%s' not found in the forest", parent.UID(), uid)
	}
	if n.IsGhost() {
		if err := f.validateGhostChain(n); err != nil {
			return err
		}
	}

	f.nodes[uid] = n
	if parent != nil {
		parent.AdoptChild(n)
	}
	return nil
}

// validateGhostChain follows the ghost-of relation from n through the
// registered nodes and fails if it comes back to a node already visited.
func (f *Forest) validateGhostChain(n *node.Node) error {
	visited := map[string]bool{n.UID(): true}
	for target := n.GhostOf(); target != ""; {
		if visited[target] {
			return fmt.Errorf("ghost chain of '%s' revisits node '%s'", n.UID(), target)
		}
		visited[target] = true

		next, ok := f.nodes[target]
		if !ok {
			break
		}
		target = next.GhostOf()
	}
	return nil
}

// MakeEdge creates a hidden edge, registers it, and wires it into both
// endpoints. If an edge with the same description already exists, that edge
// is returned unchanged.
func (f *Forest) MakeEdge(tail, head, owner *node.Node, style node.Style, bridge bool) (*node.Edge, error) {
	for _, n := range []*node.Node{tail, head, owner} {
		if f.nodes[n.UID()] != n {
			return nil, fmt.Errorf("edge endpoint or owner '%s' not found in the forest", n.UID())
		}
	}

	desc := node.Describe(owner.UID(), style, tail.UID(), head.UID())
	if existing, ok := f.edges[desc]; ok {
		return existing, nil
	}

	e := node.NewEdge(tail, head, owner, style, bridge)
	tail.SetAsTailOf(e)
	head.SetAsHeadOf(e)
	f.edges[desc] = e
	return e, nil
}

// RemoveEdge unregisters the edge and drops every reference its endpoints and
// owner hold to it. Unknown descriptions are ignored.
func (f *Forest) RemoveEdge(desc string) {
	e, ok := f.edges[desc]
	if !ok {
		return
	}
	e.Tail.Forget(e)
	e.Head.Forget(e)
	e.Owner.Forget(e)
	delete(f.edges, desc)
}

// RemoveNode unregisters the node together with its incident edges and
// detaches it from its parent. Children are not removed; callers remove a
// subtree leaves-first or all at once.
func (f *Forest) RemoveNode(uid string) error {
	n, ok := f.nodes[uid]
	if !ok {
		return fmt.Errorf("node '%s' not found in the forest", uid)
	}
	for _, e := range n.IncidentEdges() {
		f.RemoveEdge(e.Description())
	}
	if p := n.Parent(); p != nil {
		p.DisownChild(uid)
	}
	delete(f.nodes, uid)
	return nil
}

func sortedValues[V any](m map[string]V) []V {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, cmp.Compare[string])
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
