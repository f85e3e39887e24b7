package diagram

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/specialistvlad/ghostview/internal/ctxlog"
	"github.com/specialistvlad/ghostview/internal/forest"
	"github.com/specialistvlad/ghostview/internal/ghostbuster"
	"github.com/specialistvlad/ghostview/internal/model"
	"github.com/specialistvlad/ghostview/internal/node"
	"github.com/specialistvlad/ghostview/internal/sharva"
	"github.com/specialistvlad/ghostview/internal/subgraph"
)

// Delta kinds.
const (
	KindOpen  = "open"
	KindClose = "close"
)

// Diagram is the controller for a single diagram instance.
type Diagram struct {
	lib     *model.Library
	forest  *forest.Forest
	gb      *ghostbuster.GhostBuster
	open    map[string]*subgraph.Subgraph
	clock   func() time.Time
	entropy io.Reader
}

// Option configures a Diagram.
type Option func(*Diagram)

// WithClock sets the time source used for delta IDs.
func WithClock(clock func() time.Time) Option {
	return func(d *Diagram) {
		d.clock = clock
	}
}

// WithEntropy sets the randomness behind delta IDs. IDs stay monotonic
// within one diagram regardless of the source.
func WithEntropy(r io.Reader) Option {
	return func(d *Diagram) {
		d.entropy = r
	}
}

// WithListener registers a ghost event listener.
func WithListener(l ghostbuster.Listener) Option {
	return func(d *Diagram) {
		d.gb.AddListener(l)
	}
}

// New creates an empty diagram over lib using the given expansion mode.
func New(lib *model.Library, mode forest.Mode, opts ...Option) *Diagram {
	f := forest.New(mode)
	d := &Diagram{
		lib:     lib,
		forest:  f,
		gb:      ghostbuster.New(f),
		open:    make(map[string]*subgraph.Subgraph),
		clock:   time.Now,
		entropy: rand.Reader,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.entropy = ulid.Monotonic(d.entropy, 0)
	return d
}

// Forest returns the registry holding the diagram's nodes and edges.
func (d *Diagram) Forest() *forest.Forest {
	return d.forest
}

// Index returns the presence and obscuration bookkeeping.
func (d *Diagram) Index() *ghostbuster.Index {
	return d.gb.Index()
}

// OpenDeductions returns the libpaths of the open deductions, sorted.
func (d *Diagram) OpenDeductions() []string {
	return slices.Sorted(maps.Keys(d.open))
}

// IsOpen reports whether the deduction is currently part of the diagram.
func (d *Diagram) IsOpen(libpath string) bool {
	_, ok := d.open[libpath]
	return ok
}

// Open builds the deduction into the diagram and commits the resulting delta.
func (d *Diagram) Open(ctx context.Context, libpath string) (*sharva.Delta, error) {
	ctx = ctxlog.With(ctx, "deduction", libpath)
	logger := ctxlog.FromContext(ctx)

	ded, ok := d.lib.Deduction(libpath)
	if !ok {
		return nil, fmt.Errorf("unknown deduction '%s'", libpath)
	}
	if d.IsOpen(libpath) {
		return nil, fmt.Errorf("deduction '%s' is already open", libpath)
	}

	sg, err := subgraph.Build(d.forest, ded)
	if err != nil {
		return nil, fmt.Errorf("failed to open deduction: %w", err)
	}
	d.open[libpath] = sg

	acc := sharva.New()
	d.gb.ComputeAddShowHide(ctx, sg, acc)
	applyVisibility(acc)

	delta := d.commit(acc, KindOpen, libpath)
	logger.Info("Opened deduction.", "cycle", delta.ID, "nodes", len(sg.Nodes()), "edges", len(sg.Edges()))
	return delta, nil
}

// Close retracts the deduction together with every open deduction that
// expands one of its nodes, directly or transitively, and commits the
// resulting delta.
func (d *Diagram) Close(ctx context.Context, libpath string) (*sharva.Delta, error) {
	ctx = ctxlog.With(ctx, "deduction", libpath)
	logger := ctxlog.FromContext(ctx)

	if !d.IsOpen(libpath) {
		return nil, fmt.Errorf("deduction '%s' is not open", libpath)
	}

	closing := d.dependents(libpath)
	roots := make([]*node.Node, 0, len(closing))
	for _, p := range closing {
		roots = append(roots, d.open[p].Root())
	}
	plan := subgraph.PlanDecay(roots...)

	acc := sharva.New()
	acc.NoteNodesToRemove(plan.Nodes)
	acc.NoteEdgesToRemove(plan.Edges)
	d.gb.ComputeShowAfterDecay(ctx, plan.Nodes, plan.Edges, acc)

	for desc := range plan.Edges {
		d.forest.RemoveEdge(desc)
	}
	for uid := range plan.Nodes {
		if err := d.forest.RemoveNode(uid); err != nil {
			panic(fmt.Sprintf("decay plan names unregistered node: %v", err))
		}
	}
	for _, p := range closing {
		delete(d.open, p)
	}
	applyVisibility(acc)

	delta := d.commit(acc, KindClose, libpath)
	logger.Info("Closed deduction.", "cycle", delta.ID, "closed", closing, "nodes_removed", len(plan.Nodes))
	return delta, nil
}

// dependents returns libpath followed by every open deduction whose target
// lies inside one of the deductions already collected.
func (d *Diagram) dependents(libpath string) []string {
	closing := []string{libpath}
	inSet := map[string]bool{libpath: true}
	for i := 0; i < len(closing); i++ {
		root := d.open[closing[i]].Root()
		for _, p := range d.OpenDeductions() {
			if inSet[p] {
				continue
			}
			if t := d.open[p].Target(); t != nil && root.IsAncestorOf(t) {
				closing = append(closing, p)
				inSet[p] = true
			}
		}
	}
	return closing
}

func (d *Diagram) commit(acc *sharva.Accumulator, kind, libpath string) *sharva.Delta {
	delta := acc.Delta()
	delta.ID = ulid.MustNew(ulid.Timestamp(d.clock()), d.entropy).String()
	delta.Kind = kind
	delta.Deduction = libpath
	return delta
}

// applyVisibility flips the rendering flags the way the committed delta
// says: hide first, then show.
func applyVisibility(acc *sharva.Accumulator) {
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
