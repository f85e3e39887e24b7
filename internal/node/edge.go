package node

import "fmt"

// Style is the edge's drawing style tag.
type Style string

const (
	// StyleFlow is an ordinary inference edge.
	StyleFlow Style = "flow"
	// StyleDeduc links a deduction to the node it expands.
	StyleDeduc Style = "ded"
	// StyleRepresentative marks the synthetic edges created in embedded mode
	// between a new subgraph root and the real counterpart of one of its ghosts.
	StyleRepresentative Style = "rep"
)

// Edge is a directed link from Tail to Head.
type Edge struct {
	Tail  *Node
	Head  *Node
	Owner *Node
	Style Style
	// Bridge marks edges that cross between deductions.
	Bridge bool

	visible bool
	desc    string
}

// NewEdge creates an unwired, hidden edge. Use forest.Forest.MakeEdge to
// create an edge that is registered and wired into its endpoints.
func NewEdge(tail, head, owner *Node, style Style, bridge bool) *Edge {
	return &Edge{
		Tail:   tail,
		Head:   head,
		Owner:  owner,
		Style:  style,
		Bridge: bridge,
		desc:   Describe(owner.UID(), style, tail.UID(), head.UID()),
	}
}

// Describe returns the description an edge with the given owner, style and
// endpoints would have.
func Describe(ownerUID string, style Style, tailUID, headUID string) string {
	return fmt.Sprintf("%s:%s:%s->%s", ownerUID, style, tailUID, headUID)
}

// Description is the edge's key. It is unique while the edge exists.
func (e *Edge) Description() string { return e.desc }

// TailUID returns the UID of the tail node.
func (e *Edge) TailUID() string { return e.Tail.UID() }

// HeadUID returns the UID of the head node.
func (e *Edge) HeadUID() string { return e.Head.UID() }

// Opposite returns the endpoint of e that is not n. For a self-loop it
// returns n. It returns nil if n is not an endpoint.
func (e *Edge) Opposite(n *Node) *Node {
	switch n {
	case e.Tail:
		return e.Head
	case e.Head:
		return e.Tail
	default:
		return nil
	}
}

// IsVine reports whether the endpoints lack a common structural parent.
func (e *Edge) IsVine() bool {
	return e.Tail.Parent() != e.Head.Parent()
}

// Visible reports the edge's rendering flag.
func (e *Edge) Visible() bool { return e.visible }

// SetVisible sets the edge's rendering flag.
func (e *Edge) SetVisible(v bool) { e.visible = v }

// String returns the description.
func (e *Edge) String() string { return e.desc }
