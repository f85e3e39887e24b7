package subgraph

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/specialistvlad/ghostview/internal/forest"
	"github.com/specialistvlad/ghostview/internal/model"
	"github.com/specialistvlad/ghostview/internal/node"
	"github.com/specialistvlad/ghostview/internal/nodeid"
)

// Subgraph is a freshly built deduction.
type Subgraph struct {
	root   *node.Node
	target *node.Node
	nodes  map[string]*node.Node
	edges  map[string]*node.Edge
}

// Root returns the deduction node.
func (s *Subgraph) Root() *node.Node { return s.root }

// Target returns the node this deduction expands, or nil.
func (s *Subgraph) Target() *node.Node { return s.target }

// Predecessor returns the deduction that contains the target, or nil when
// the subgraph expands nothing.
func (s *Subgraph) Predecessor() *node.Node {
	if s.target == nil {
		return nil
	}
	cur := s.target
	for cur.Parent() != nil {
		cur = cur.Parent()
	}
	return cur
}

// Nodes returns every node of the subgraph, root included, keyed by UID.
func (s *Subgraph) Nodes() map[string]*node.Node { return maps.Clone(s.nodes) }

// Edges returns every edge of the subgraph keyed by description.
func (s *Subgraph) Edges() map[string]*node.Edge { return maps.Clone(s.edges) }

// Build registers the deduction's nodes and edges in f. It fails if the
// deduction root already exists or its target is not in the forest. On
// failure nothing built so far is left behind.
func Build(f *forest.Forest, d *model.Deduction) (sg *Subgraph, err error) {
	rootAddr, err := nodeid.Parse(d.Libpath)
	if err != nil {
		return nil, fmt.Errorf("invalid deduction libpath '%s': %w", d.Libpath, err)
	}

	sg = &Subgraph{
		nodes: make(map[string]*node.Node),
		edges: make(map[string]*node.Edge),
	}
	if d.Target != "" {
		target, ok := f.Node(d.Target)
		if !ok {
			return nil, fmt.Errorf("target '%s' of deduction '%s' is not in the diagram", d.Target, d.Libpath)
		}
		sg.target = target
	}

	var created []string
	defer func() {
		if err != nil {
			slices.Reverse(created)
			for _, uid := range created {
				_ = f.RemoveNode(uid)
			}
		}
	}()

	label := d.Label
	if label == "" {
		label = rootAddr.Name()
	}
	sg.root = node.New(rootAddr, node.TypeDeduc, label)
	if err = f.AddNode(sg.root, nil); err != nil {
		return nil, fmt.Errorf("failed to add deduction '%s': %w", d.Libpath, err)
	}
	created = append(created, sg.root.UID())
	sg.nodes[sg.root.UID()] = sg.root

	byName := make(map[string]*node.Node, len(d.Nodes))
	for _, spec := range byDepth(d.Nodes) {
		var n *node.Node
		if n, err = newNode(rootAddr, spec); err != nil {
			return nil, fmt.Errorf("deduction '%s': %w", d.Libpath, err)
		}
		parent := sg.root
		if pname := d.ParentName(spec); pname != "" {
			parent = byName[pname]
		}
		if err = f.AddNode(n, parent); err != nil {
			return nil, fmt.Errorf("deduction '%s': %w", d.Libpath, err)
		}
		created = append(created, n.UID())
		byName[spec.Name] = n
		sg.nodes[n.UID()] = n
	}

	for _, spec := range d.Edges {
		tail, head := byName[spec.Tail], byName[spec.Head]
		if tail == nil || head == nil {
			err = fmt.Errorf("deduction '%s': edge %s -> %s references an undeclared node", d.Libpath, spec.Tail, spec.Head)
			return nil, err
		}
		style := spec.Style
		if style == "" {
			style = node.StyleFlow
		}
		owner := commonAncestor(tail, head)
		var e *node.Edge
		if e, err = f.MakeEdge(tail, head, owner, style, spec.Bridge); err != nil {
			return nil, fmt.Errorf("deduction '%s': %w", d.Libpath, err)
		}
		owner.AddOwnedEdge(e)
		if e.IsVine() {
			owner.NoteVine(e)
		}
		sg.edges[e.Description()] = e
	}

	return sg, nil
}

func newNode(root *nodeid.Address, spec *model.NodeSpec) (*node.Node, error) {
	addr, err := root.Join(spec.Name)
	if err != nil {
		return nil, err
	}
	label := spec.Label
	if label == "" {
		label = addr.Name()
	}
	if spec.Type != node.TypeGhost {
		return node.New(addr, spec.Type, label), nil
	}
	realAddr, err := nodeid.Parse(spec.GhostOf)
	if err != nil {
		return nil, fmt.Errorf("ghost '%s': invalid ghost_of: %w", spec.Name, err)
	}
	return node.NewGhost(addr, realAddr, label), nil
}

// byDepth orders specs so that containers come before their contents,
// keeping declaration order among specs of equal depth.
func byDepth(specs []*model.NodeSpec) []*model.NodeSpec {
	depth := func(s *model.NodeSpec) int { return strings.Count(s.Name, ".") }
	out := slices.Clone(specs)
	slices.SortStableFunc(out, func(a, b *model.NodeSpec) int {
		return cmp.Compare(depth(a), depth(b))
	})
	return out
}

// commonAncestor returns the deepest node that is an ancestor of both a and b.
func commonAncestor(a, b *node.Node) *node.Node {
	for cur := a; cur != nil; cur = cur.Parent() {
		if cur.IsAncestorOf(b) {
			return cur
		}
	}
	// Both endpoints belong to the same deduction, so the loop always
	// reaches a shared root.
	panic(fmt.Sprintf("nodes '%s' and '%s' share no ancestor", a.UID(), b.UID()))
}
