// Package ghostbuster maintains the visibility state of a diagram while
// subgraphs are merged into it and retracted from it.
//
// Several versions of the same logical node may be on the board at once: the
// real node and any number of ghosts standing in for it. When the real node
// is present its ghosts are obscured and every edge that ran through a ghost
// is replaced by reified edges between the most real versions of its
// endpoints. GhostBuster computes, for each open or close cycle, the minimal
// add/show/hide delta that keeps the board consistent, and writes it to an
// Accumulator.
//
// # Components
//
//   - Index: the Presence Set and the Obscuration Index (real UID -> ghost
//     UIDs, recorded independently of presence).
//   - Reification: ReificationSequence and ReifyEdgeComplete.
//   - GhostBuster: ComputeAddShowHide and ComputeShowAfterDecay, plus
//     synchronous listener notification.
//
// # Modes
//
// The forest's Mode is consulted in exactly two places. In Unified mode new
// nodes are classified through the Index so ghosts merge behind their real
// counterparts. In Embedded mode that step is skipped and representative
// edges link the new subgraph root to the real counterparts of its ghosts.
//
// # Concurrency
//
// Everything here runs synchronously on the caller's goroutine, one cycle at
// a time. Listeners are invoked during a cycle and must not start another.
package ghostbuster
