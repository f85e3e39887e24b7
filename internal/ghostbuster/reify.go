package ghostbuster

import (
	"fmt"

	"github.com/specialistvlad/ghostview/internal/node"
)

// ReificationSequence returns n followed by the chain of present real nodes
// it stands for: each next element is the real target of the previous one,
// for as long as that target is present. The last element is the realest
// present version of n.
func (g *GhostBuster) ReificationSequence(n *node.Node) []*node.Node {
	seq := []*node.Node{n}
	seen := map[string]struct{}{n.UID(): {}}
	for cur := n; cur.IsGhost(); {
		target := cur.GhostOf()
		if !g.index.IsPresent(target) {
			break
		}
		if _, ok := seen[target]; ok {
			panic(fmt.Sprintf("ghost chain of '%s' revisits node '%s'", n.UID(), target))
		}
		next, ok := g.forest.Node(target)
		if !ok {
			panic(fmt.Sprintf("present node '%s' is not registered", target))
		}
		seen[target] = struct{}{}
		seq = append(seq, next)
		cur = next
	}
	return seq
}

// ReifyEdgeComplete creates an edge for every pairing of a version of e's
// tail with a version of e's head, except the pairing e itself connects. The
// pairing of the two realest versions comes first. New edges copy e's style
// and bridge flag, are owned by owner, and start hidden; edges that already
// exist are returned as they are.
func (g *GhostBuster) ReifyEdgeComplete(e *node.Edge, owner *node.Node) []*node.Edge {
	tails := g.ReificationSequence(e.Tail)
	heads := g.ReificationSequence(e.Head)
	m, n := len(tails), len(heads)
	if m*n == 1 {
		return nil
	}

	out := make([]*node.Edge, 0, m*n-1)
	out = append(out, g.makeEdge(tails[m-1], heads[n-1], owner, e))
	for i, tail := range tails {
		for j, head := range heads {
			if (i == 0 && j == 0) || (i == m-1 && j == n-1) {
				continue
			}
			out = append(out, g.makeEdge(tail, head, owner, e))
		}
	}
	return out
}

func (g *GhostBuster) makeEdge(tail, head, owner *node.Node, like *node.Edge) *node.Edge {
	r, err := g.forest.MakeEdge(tail, head, owner, like.Style, like.Bridge)
	if err != nil {
		panic(fmt.Sprintf("failed to reify edge '%s': %v", like.Description(), err))
	}
	return r
}
