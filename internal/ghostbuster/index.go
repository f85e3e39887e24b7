package ghostbuster

import (
	"cmp"
	"maps"
	"slices"

	"github.com/specialistvlad/ghostview/internal/node"
)

// Lookup resolves a UID to a node.
type Lookup interface {
	Node(uid string) (*node.Node, bool)
}

type uidSet map[string]struct{}

// Index is the Presence Set together with the Obscuration Index. Every
// present real node has an entry, possibly empty; an absent real node keeps
// one only while ghosts of it are recorded.
type Index struct {
	lookup   Lookup
	present  uidSet
	obscured map[string]uidSet // real UID -> UIDs of its ghosts
}

// NewIndex creates an empty index resolving UIDs through lookup.
func NewIndex(lookup Lookup) *Index {
	return &Index{
		lookup:   lookup,
		present:  make(uidSet),
		obscured: make(map[string]uidSet),
	}
}

// IsPresent reports whether uid is part of the active diagram.
func (x *Index) IsPresent(uid string) bool {
	_, ok := x.present[uid]
	return ok
}

// GhostsOf returns the sorted UIDs of the ghosts recorded for a real UID.
func (x *Index) GhostsOf(uid string) []string {
	return sortedKeys(x.obscured[uid])
}

// HasEntry reports whether an obscuration entry exists for uid.
func (x *Index) HasEntry(uid string) bool {
	_, ok := x.obscured[uid]
	return ok
}

// AddNodes marks newNodes present and classifies ghosts. boardGhostsObscured
// holds ghosts already on the board that a newly arrived real node now
// obscures; newGhostsObscured holds ghosts in the batch whose real node is
// present, including real nodes arriving in the same batch.
func (x *Index) AddNodes(newNodes map[string]*node.Node) (boardGhostsObscured, newGhostsObscured map[string]*node.Node) {
	boardGhostsObscured = make(map[string]*node.Node)
	newGhostsObscured = make(map[string]*node.Node)

	// A ghost may reference a node of the same batch, so presence must be
	// complete before any ghost is classified.
	for _, uid := range sortedKeys(newNodes) {
		x.present[uid] = struct{}{}
		ghosts := x.obscured[uid]
		if len(ghosts) == 0 {
			x.obscured[uid] = make(uidSet)
			continue
		}
		for g := range ghosts {
			if gn, ok := x.lookup.Node(g); ok {
				boardGhostsObscured[g] = gn
			}
		}
	}

	for _, uid := range sortedKeys(newNodes) {
		n := newNodes[uid]
		if !n.IsGhost() {
			continue
		}
		target := n.GhostOf()
		if x.IsPresent(target) {
			newGhostsObscured[uid] = n
		}
		if x.obscured[target] == nil {
			x.obscured[target] = make(uidSet)
		}
		x.obscured[target][uid] = struct{}{}
	}

	return boardGhostsObscured, newGhostsObscured
}

// RemoveNodes drops nodeSet from the diagram. It returns the ghosts revealed
// by the removal of their real node, excluding ghosts removed in the same
// batch, and the sorted UIDs of real nodes whose last ghost went away.
func (x *Index) RemoveNodes(nodeSet map[string]*node.Node) (revealedGhosts map[string]*node.Node, unghosted []string) {
	revealedGhosts = make(map[string]*node.Node)

	for _, uid := range sortedKeys(nodeSet) {
		delete(x.present, uid)

		if ghosts, ok := x.obscured[uid]; ok {
			for g := range ghosts {
				if gn, ok := x.lookup.Node(g); ok {
					revealedGhosts[g] = gn
				}
			}
			if len(ghosts) == 0 {
				delete(x.obscured, uid)
			}
		}

		n := nodeSet[uid]
		if !n.IsGhost() {
			continue
		}
		target := n.GhostOf()
		ghosts, ok := x.obscured[target]
		if !ok {
			continue
		}
		delete(ghosts, uid)
		if len(ghosts) == 0 {
			if !x.IsPresent(target) {
				delete(x.obscured, target)
			}
			unghosted = append(unghosted, target)
		}
	}

	for uid := range nodeSet {
		delete(revealedGhosts, uid)
	}
	slices.Sort(unghosted)
	return revealedGhosts, unghosted
}

func sortedKeys[V any](m map[string]V) []string {
	keys := slices.AppendSeq(make([]string, 0, len(m)), maps.Keys(m))
	slices.SortFunc(keys, cmp.Compare[string])
	return keys
}
