// Package sharva provides the delta accumulator ("SHARVA": show, hide, add,
// remove) that collects the node and edge sets produced by one incremental
// diagram update. The rendering side consumes the committed result.
//
// Every Note method unions the given mapping into a running set, so noting
// the same value twice is harmless.
package sharva

import (
	"cmp"
	"maps"
	"slices"

	"github.com/specialistvlad/ghostview/internal/node"
)

// Accumulator collects the sets of one update cycle. It is not safe for
// concurrent use.
type Accumulator struct {
	nodesToAdd    map[string]*node.Node
	nodesToShow   map[string]*node.Node
	nodesToHide   map[string]*node.Node
	nodesToRemove map[string]*node.Node

	edgesToAdd    map[string]*node.Edge
	edgesToShow   map[string]*node.Edge
	edgesToHide   map[string]*node.Edge
	edgesToRemove map[string]*node.Edge
}

// New creates an empty accumulator.
func New() *Accumulator {
	return &Accumulator{
		nodesToAdd:    make(map[string]*node.Node),
		nodesToShow:   make(map[string]*node.Node),
		nodesToHide:   make(map[string]*node.Node),
		nodesToRemove: make(map[string]*node.Node),
		edgesToAdd:    make(map[string]*node.Edge),
		edgesToShow:   make(map[string]*node.Edge),
		edgesToHide:   make(map[string]*node.Edge),
		edgesToRemove: make(map[string]*node.Edge),
	}
}

func (a *Accumulator) NoteNodesToAdd(nodes map[string]*node.Node)    { maps.Copy(a.nodesToAdd, nodes) }
func (a *Accumulator) NoteNodesToShow(nodes map[string]*node.Node)   { maps.Copy(a.nodesToShow, nodes) }
func (a *Accumulator) NoteNodesToHide(nodes map[string]*node.Node)   { maps.Copy(a.nodesToHide, nodes) }
func (a *Accumulator) NoteNodesToRemove(nodes map[string]*node.Node) { maps.Copy(a.nodesToRemove, nodes) }

func (a *Accumulator) NoteEdgesToAdd(edges map[string]*node.Edge)    { maps.Copy(a.edgesToAdd, edges) }
func (a *Accumulator) NoteEdgesToShow(edges map[string]*node.Edge)   { maps.Copy(a.edgesToShow, edges) }
func (a *Accumulator) NoteEdgesToHide(edges map[string]*node.Edge)   { maps.Copy(a.edgesToHide, edges) }
func (a *Accumulator) NoteEdgesToRemove(edges map[string]*node.Edge) { maps.Copy(a.edgesToRemove, edges) }

// ShowsNode reports whether uid is already in the running nodes-to-show set.
func (a *Accumulator) ShowsNode(uid string) bool {
	_, ok := a.nodesToShow[uid]
	return ok
}

// The accessors below return copies of the running sets.

func (a *Accumulator) NodesToAdd() map[string]*node.Node    { return maps.Clone(a.nodesToAdd) }
func (a *Accumulator) NodesToShow() map[string]*node.Node   { return maps.Clone(a.nodesToShow) }
func (a *Accumulator) NodesToHide() map[string]*node.Node   { return maps.Clone(a.nodesToHide) }
func (a *Accumulator) NodesToRemove() map[string]*node.Node { return maps.Clone(a.nodesToRemove) }

func (a *Accumulator) EdgesToAdd() map[string]*node.Edge    { return maps.Clone(a.edgesToAdd) }
func (a *Accumulator) EdgesToShow() map[string]*node.Edge   { return maps.Clone(a.edgesToShow) }
func (a *Accumulator) EdgesToHide() map[string]*node.Edge   { return maps.Clone(a.edgesToHide) }
func (a *Accumulator) EdgesToRemove() map[string]*node.Edge { return maps.Clone(a.edgesToRemove) }

// Delta is the committed, serializable form of one update cycle. Node sets
// hold UIDs and edge sets hold descriptions, each sorted.
type Delta struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Deduction string `json:"deduction"`

	NodesToAdd    []string `json:"nodes_to_add"`
	NodesToShow   []string `json:"nodes_to_show"`
	NodesToHide   []string `json:"nodes_to_hide"`
	NodesToRemove []string `json:"nodes_to_remove"`

	EdgesToAdd    []string `json:"edges_to_add"`
	EdgesToShow   []string `json:"edges_to_show"`
	EdgesToHide   []string `json:"edges_to_hide"`
	EdgesToRemove []string `json:"edges_to_remove"`
}

// Delta snapshots the running sets. The identifying fields are left for the
// caller to fill in.
func (a *Accumulator) Delta() *Delta {
	return &Delta{
		NodesToAdd:    sortedKeys(a.nodesToAdd),
		NodesToShow:   sortedKeys(a.nodesToShow),
		NodesToHide:   sortedKeys(a.nodesToHide),
		NodesToRemove: sortedKeys(a.nodesToRemove),
		EdgesToAdd:    sortedKeys(a.edgesToAdd),
		EdgesToShow:   sortedKeys(a.edgesToShow),
		EdgesToHide:   sortedKeys(a.edgesToHide),
		EdgesToRemove: sortedKeys(a.edgesToRemove),
	}
}

// Empty reports whether the delta changes nothing.
func (d *Delta) Empty() bool {
	return len(d.NodesToAdd)+len(d.NodesToShow)+len(d.NodesToHide)+len(d.NodesToRemove)+
		len(d.EdgesToAdd)+len(d.EdgesToShow)+len(d.EdgesToHide)+len(d.EdgesToRemove) == 0
}

func sortedKeys[V any](m map[string]V) []string {
	keys := slices.AppendSeq(make([]string, 0, len(m)), maps.Keys(m))
	slices.SortFunc(keys, cmp.Compare[string])
	return keys
}
