// Package node defines the vertices and edges of a diagram. Nodes and edges
// are owned by a forest.Forest; the references they hold to each other are
// non-owning adjacency used for traversal.
package node

import (
	"cmp"
	"maps"
	"slices"

	"github.com/specialistvlad/ghostview/internal/nodeid"
)

// Type is the node's kind tag. Any string is accepted; the constants below
// have meaning to the system.
type Type string

const (
	// TypeDeduc is the root of a deduction, i.e. the root of a subgraph.
	TypeDeduc Type = "deduc"
	// TypeSubdeduc is a nested container inside a deduction.
	TypeSubdeduc Type = "subdeduc"
	// TypeGhost is a placeholder standing in for a real node elsewhere.
	TypeGhost Type = "ghost"
	// TypeAssertion is the default kind for plain nodes.
	TypeAssertion Type = "asrt"
)

// IsContainer reports whether nodes of this type group other nodes.
func (t Type) IsContainer() bool {
	return t == TypeDeduc || t == TypeSubdeduc
}

// Node is a single vertex of the diagram.
type Node struct {
	// id is the node's UID, a library path.
	id *nodeid.Address
	// Type distinguishes ghosts, containers and plain assertions.
	Type Type
	// Label is the human-readable text shown for the node.
	Label string

	// ghostOf is the UID of the real node a ghost stands in for. Nil for
	// non-ghost nodes.
	ghostOf *nodeid.Address

	parent   *Node
	children map[string]*Node

	// in holds edges with this node as head, out those with it as tail.
	in  map[string]*Edge
	out map[string]*Edge

	owned map[string]*Edge
	vines map[string]*Edge

	// visible is the rendering flag. It is orthogonal to presence.
	visible bool
}

// New creates a non-ghost node.
func New(id *nodeid.Address, typ Type, label string) *Node {
	return &Node{
		id:       id,
		Type:     typ,
		Label:    label,
		children: make(map[string]*Node),
		in:       make(map[string]*Edge),
		out:      make(map[string]*Edge),
		owned:    make(map[string]*Edge),
		vines:    make(map[string]*Edge),
	}
}

// NewGhost creates a ghost node standing in for the real node at ghostOf.
func NewGhost(id, ghostOf *nodeid.Address, label string) *Node {
	n := New(id, TypeGhost, label)
	n.ghostOf = ghostOf
	return n
}

// UID returns the canonical string form of the node's address.
func (n *Node) UID() string {
	return n.id.String()
}

// Address returns the structured UID of the node.
func (n *Node) Address() *nodeid.Address {
	return n.id
}

// IsGhost reports whether the node is a ghost.
func (n *Node) IsGhost() bool {
	return n.Type == TypeGhost
}

// GhostOf returns the UID of the real node this ghost stands in for, or the
// empty string for non-ghost nodes.
func (n *Node) GhostOf() string {
	if !n.IsGhost() {
		return ""
	}
	return n.ghostOf.String()
}

// Parent returns the structural parent, or nil for a deduction root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children sorted by UID.
func (n *Node) Children() []*Node {
	return sortedByKey(n.children)
}

// AdoptChild makes c a child of n.
func (n *Node) AdoptChild(c *Node) {
	c.parent = n
	n.children[c.UID()] = c
}

// DisownChild detaches the child with the given UID, if any.
func (n *Node) DisownChild(uid string) {
	if c, ok := n.children[uid]; ok {
		c.parent = nil
		delete(n.children, uid)
	}
}

// IsAncestorOf reports whether n is other or one of other's structural
// ancestors.
func (n *Node) IsAncestorOf(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Subtree returns n followed by all of its descendants, parents before children.
func (n *Node) Subtree() []*Node {
	out := []*Node{n}
	for _, c := range n.Children() {
		out = append(out, c.Subtree()...)
	}
	return out
}

// InDegree is the number of edges with n as head.
func (n *Node) InDegree() int { return len(n.in) }

// OutDegree is the number of edges with n as tail.
func (n *Node) OutDegree() int { return len(n.out) }

// InEdges returns the edges with n as head, sorted by description.
func (n *Node) InEdges() []*Edge { return sortedByKey(n.in) }

// OutEdges returns the edges with n as tail, sorted by description.
func (n *Node) OutEdges() []*Edge { return sortedByKey(n.out) }

// IncidentEdges returns every edge touching n, sorted by description. A
// self-loop appears once.
func (n *Node) IncidentEdges() []*Edge {
	all := maps.Clone(n.in)
	maps.Copy(all, n.out)
	return sortedByKey(all)
}

// DescendantEdges returns the edges incident to n or to any of its
// descendants, sorted by description.
func (n *Node) DescendantEdges() []*Edge {
	all := make(map[string]*Edge)
	for _, m := range n.Subtree() {
		maps.Copy(all, m.in)
		maps.Copy(all, m.out)
	}
	return sortedByKey(all)
}

// Visible reports the node's rendering flag.
func (n *Node) Visible() bool { return n.visible }

// SetVisible sets the node's rendering flag.
func (n *Node) SetVisible(v bool) { n.visible = v }

// SetAsHeadOf records e as an incoming edge.
func (n *Node) SetAsHeadOf(e *Edge) { n.in[e.Description()] = e }

// SetAsTailOf records e as an outgoing edge.
func (n *Node) SetAsTailOf(e *Edge) { n.out[e.Description()] = e }

// AddOwnedEdge records that n is responsible for e.
func (n *Node) AddOwnedEdge(e *Edge) { n.owned[e.Description()] = e }

// OwnedEdges returns the edges n is responsible for, sorted by description.
func (n *Node) OwnedEdges() []*Edge { return sortedByKey(n.owned) }

// NoteVine records e as a vine owned by n.
func (n *Node) NoteVine(e *Edge) { n.vines[e.Description()] = e }

// Vines returns the vines noted on n, sorted by description.
func (n *Node) Vines() []*Edge { return sortedByKey(n.vines) }

// Forget drops every reference n holds to e.
func (n *Node) Forget(e *Edge) {
	desc := e.Description()
	delete(n.in, desc)
	delete(n.out, desc)
	delete(n.owned, desc)
	delete(n.vines, desc)
}

func sortedByKey[V any](m map[string]V) []V {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, cmp.Compare[string])
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
