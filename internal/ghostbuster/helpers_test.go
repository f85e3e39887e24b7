package ghostbuster

import (
	"cmp"
	"maps"
	"slices"
	"testing"

	"github.com/specialistvlad/ghostview/internal/forest"
	"github.com/specialistvlad/ghostview/internal/node"
	"github.com/specialistvlad/ghostview/internal/nodeid"
	"github.com/specialistvlad/ghostview/internal/sharva"
	"github.com/stretchr/testify/require"
)

// fixture builds nodes and edges directly in a forest.
type fixture struct {
	t *testing.T
	f *forest.Forest
}

func newFixture(t *testing.T, mode forest.Mode) *fixture {
	t.Helper()
	return &fixture{t: t, f: forest.New(mode)}
}

func (x *fixture) add(n, parent *node.Node) *node.Node {
	x.t.Helper()
	require.NoError(x.t, x.f.AddNode(n, parent))
	return n
}

func (x *fixture) deduc(uid string) *node.Node {
	return x.add(node.New(nodeid.MustParse(uid), node.TypeDeduc, uid), nil)
}

func (x *fixture) asrt(parent *node.Node, uid string) *node.Node {
	return x.add(node.New(nodeid.MustParse(uid), "asrt", uid), parent)
}

func (x *fixture) ghost(parent *node.Node, uid, of string) *node.Node {
	return x.add(node.NewGhost(nodeid.MustParse(uid), nodeid.MustParse(of), uid), parent)
}

func (x *fixture) edge(tail, head, owner *node.Node) *node.Edge {
	x.t.Helper()
	e, err := x.f.MakeEdge(tail, head, owner, node.StyleFlow, false)
	require.NoError(x.t, err)
	return e
}

// testSubgraph is a deduction whose nodes are its root's subtree.
type testSubgraph struct {
	root, pred *node.Node
	edges      map[string]*node.Edge
}

func subgraphOf(root, pred *node.Node, edges ...*node.Edge) *testSubgraph {
	sg := &testSubgraph{root: root, pred: pred, edges: make(map[string]*node.Edge)}
	for _, e := range edges {
		sg.edges[e.Description()] = e
	}
	return sg
}

func (s *testSubgraph) Root() *node.Node        { return s.root }
func (s *testSubgraph) Predecessor() *node.Node { return s.pred }
func (s *testSubgraph) Edges() map[string]*node.Edge {
	return maps.Clone(s.edges)
}
func (s *testSubgraph) Nodes() map[string]*node.Node {
	out := make(map[string]*node.Node)
	for _, n := range s.root.Subtree() {
		out[n.UID()] = n
	}
	return out
}

// open runs an add cycle and applies its visibility changes the way the
// diagram controller does.
func open(t *testing.T, gb *GhostBuster, sg Subgraph) *sharva.Accumulator {
	t.Helper()
	acc := sharva.New()
	gb.ComputeAddShowHide(t.Context(), sg, acc)
	apply(acc)
	return acc
}

func apply(acc *sharva.Accumulator) {
	for _, n := range acc.NodesToHide() {
		n.SetVisible(false)
	}
	for _, e := range acc.EdgesToHide() {
		e.SetVisible(false)
	}
	for _, n := range acc.NodesToShow() {
		n.SetVisible(true)
	}
	for _, e := range acc.EdgesToShow() {
		e.SetVisible(true)
	}
}

func keys[V any](m map[string]V) []string {
	out := slices.AppendSeq(make([]string, 0, len(m)), maps.Keys(m))
	slices.SortFunc(out, cmp.Compare[string])
	return out
}

func descriptions(edges []*node.Edge) []string {
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.Description())
	}
	return out
}
