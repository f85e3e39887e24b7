package ghostbuster

import (
	"context"
	"fmt"
	"maps"

	"github.com/specialistvlad/ghostview/internal/ctxlog"
	"github.com/specialistvlad/ghostview/internal/forest"
	"github.com/specialistvlad/ghostview/internal/node"
)

// Forest is the diagram registry GhostBuster works against.
type Forest interface {
	Lookup
	Mode() forest.Mode
	MakeEdge(tail, head, owner *node.Node, style node.Style, bridge bool) (*node.Edge, error)
}

// Subgraph is a newly built deduction about to join the diagram.
type Subgraph interface {
	Nodes() map[string]*node.Node
	Edges() map[string]*node.Edge
	Root() *node.Node
	// Predecessor is the deduction this subgraph expands, or nil.
	Predecessor() *node.Node
}

// Accumulator receives the sets computed in one cycle.
type Accumulator interface {
	NoteNodesToAdd(map[string]*node.Node)
	NoteNodesToShow(map[string]*node.Node)
	NoteNodesToHide(map[string]*node.Node)
	NoteEdgesToAdd(map[string]*node.Edge)
	NoteEdgesToShow(map[string]*node.Edge)
	NoteEdgesToHide(map[string]*node.Edge)
	ShowsNode(uid string) bool
}

// GhostBuster computes visibility deltas for one diagram. It is not safe for
// concurrent use.
type GhostBuster struct {
	forest    Forest
	index     *Index
	listeners []Listener
}

// New creates a GhostBuster with an empty index over f.
func New(f Forest) *GhostBuster {
	return &GhostBuster{
		forest: f,
		index:  NewIndex(f),
	}
}

// Index exposes the presence and obscuration bookkeeping.
func (g *GhostBuster) Index() *Index {
	return g.index
}

// AddListener registers l for ghost events. Listeners are called in
// registration order.
func (g *GhostBuster) AddListener(l Listener) {
	g.listeners = append(g.listeners, l)
}

// RemoveNodes retracts nodeSet from the index and returns the ghosts that
// become visible again. Listeners hear about real nodes that lost their last
// ghost, once for the whole batch.
func (g *GhostBuster) RemoveNodes(ctx context.Context, nodeSet map[string]*node.Node) map[string]*node.Node {
	revealed, unghosted := g.index.RemoveNodes(nodeSet)
	if len(unghosted) > 0 {
		ctxlog.FromContext(ctx).Info("Nodes unghosted.", "uids", unghosted)
		for _, l := range g.listeners {
			l.Unghosted(unghosted)
		}
	}
	return revealed
}

// ComputeAddShowHide merges sg into the diagram and notes what to add, show
// and hide in acc.
func (g *GhostBuster) ComputeAddShowHide(ctx context.Context, sg Subgraph, acc Accumulator) {
	logger := ctxlog.FromContext(ctx)
	mode := g.forest.Mode()
	root := sg.Root()
	nodes := sg.Nodes()

	edgesToAdd := sg.Edges()
	edgesToShow := maps.Clone(edgesToAdd)
	nodesToAdd := map[string]*node.Node{root.UID(): root}

	boardGhostsObscured := map[string]*node.Node{}
	newGhostsObscured := map[string]*node.Node{}
	if mode == forest.Unified {
		boardGhostsObscured, newGhostsObscured = g.index.AddNodes(nodes)
	}
	allObscured := maps.Clone(boardGhostsObscured)
	maps.Copy(allObscured, newGhostsObscured)

	newNodesVisible := maps.Clone(nodes)
	for uid := range newGhostsObscured {
		delete(newNodesVisible, uid)
	}

	edgesToHide := incidentEdges(boardGhostsObscured)
	edgesToReify := incidentEdges(allObscured)
	for desc, e := range edgesToReify {
		delete(edgesToShow, desc)
		edgesToAdd[desc] = e
	}

	reifiedCount := 0
	for _, desc := range sortedKeys(edgesToReify) {
		for i, r := range g.ReifyEdgeComplete(edgesToReify[desc], root) {
			edgesToAdd[r.Description()] = r
			if i == 0 {
				edgesToShow[r.Description()] = r
			}
			root.AddOwnedEdge(r)
			if r.IsVine() {
				root.NoteVine(r)
			}
			reifiedCount++
		}
	}

	newGhostsVisible := make(map[string]*node.Node)
	for uid, n := range newNodesVisible {
		if n.IsGhost() {
			newGhostsVisible[uid] = n
		}
	}
	g.notifyGhostsVisible(newGhostsVisible)

	if mode == forest.Embedded {
		for desc, e := range g.representativeEdges(root, sg.Predecessor(), newGhostsVisible) {
			edgesToAdd[desc] = e
			edgesToShow[desc] = e
		}
	}

	acc.NoteNodesToAdd(nodesToAdd)
	acc.NoteNodesToShow(newNodesVisible)
	acc.NoteNodesToHide(boardGhostsObscured)
	acc.NoteEdgesToAdd(edgesToAdd)
	acc.NoteEdgesToShow(edgesToShow)
	acc.NoteEdgesToHide(edgesToHide)

	logger.Debug("Computed add/show/hide.",
		"root", root.UID(),
		"mode", mode.String(),
		"nodes_shown", len(newNodesVisible),
		"board_ghosts_obscured", len(boardGhostsObscured),
		"new_ghosts_obscured", len(newGhostsObscured),
		"edges_reified", reifiedCount,
	)
}

// representativeEdges links root to the real counterpart of each visible
// ghost inside predecessor, following the direction the ghost is used in.
// Ghosts used in both directions or in neither get no edge.
func (g *GhostBuster) representativeEdges(root, predecessor *node.Node, ghosts map[string]*node.Node) map[string]*node.Edge {
	out := make(map[string]*node.Edge)
	if predecessor == nil {
		return out
	}
	for _, uid := range sortedKeys(ghosts) {
		ghost := ghosts[uid]
		realNode, ok := g.forest.Node(ghost.GhostOf())
		if !ok || !predecessor.IsAncestorOf(realNode) {
			continue
		}
		var tail, head *node.Node
		switch in, outd := ghost.InDegree(), ghost.OutDegree(); {
		case outd > 0 && in == 0:
			tail, head = root, realNode
		case in > 0 && outd == 0:
			tail, head = realNode, root
		default:
			continue
		}
		e, err := g.forest.MakeEdge(tail, head, root, node.StyleRepresentative, false)
		if err != nil {
			panic(fmt.Sprintf("failed to make representative edge for ghost '%s': %v", uid, err))
		}
		root.AddOwnedEdge(e)
		if e.IsVine() {
			root.NoteVine(e)
		}
		out[e.Description()] = e
	}
	return out
}

// ComputeShowAfterDecay retracts the nodes ntr and notes which ghosts and
// edges become visible again. etr holds the edges being removed alongside
// ntr; they are never shown.
func (g *GhostBuster) ComputeShowAfterDecay(ctx context.Context, ntr map[string]*node.Node, etr map[string]*node.Edge, acc Accumulator) {
	revealed := g.RemoveNodes(ctx, ntr)
	acc.NoteNodesToShow(revealed)

	edgesToShow := make(map[string]*node.Edge)
	for _, uid := range sortedKeys(revealed) {
		ghost := revealed[uid]
		for _, e := range ghost.IncidentEdges() {
			desc := e.Description()
			if _, gone := etr[desc]; gone {
				continue
			}
			other := e.Opposite(ghost)
			if _, gone := ntr[other.UID()]; gone {
				continue
			}
			if other.Visible() || acc.ShowsNode(other.UID()) {
				edgesToShow[desc] = e
			}
		}
	}
	acc.NoteEdgesToShow(edgesToShow)

	ctxlog.FromContext(ctx).Debug("Computed show after decay.",
		"nodes_removed", len(ntr),
		"edges_removed", len(etr),
		"ghosts_revealed", len(revealed),
		"edges_shown", len(edgesToShow),
	)
}

func (g *GhostBuster) notifyGhostsVisible(ghosts map[string]*node.Node) {
	if len(g.listeners) == 0 {
		return
	}
	list := make([]*node.Node, 0, len(ghosts))
	for _, uid := range sortedKeys(ghosts) {
		list = append(list, ghosts[uid])
	}
	for _, l := range g.listeners {
		l.GhostsVisible(list)
	}
}

// incidentEdges collects every edge touching one of nodes, keyed by
// description.
func incidentEdges(nodes map[string]*node.Node) map[string]*node.Edge {
	out := make(map[string]*node.Edge)
	for _, n := range nodes {
		for _, e := range n.IncidentEdges() {
			out[e.Description()] = e
		}
	}
	return out
}
