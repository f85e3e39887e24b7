// Package forest provides the registry that owns every node and edge of one
// running diagram instance, together with the diagram-wide expansion mode.
//
// A diagram is a forest: each open deduction is a tree of containers and
// assertions, and edges (including vines across trees) connect nodes of any
// tree. The Forest is the single owner of these values. Other components,
// such as ghostbuster and sharva, hold UIDs, descriptions or non-owning
// references only.
//
// # Thread-Safety
//
// A Forest is not safe for concurrent use. It is mutated synchronously by the
// diagram controller, one open/close cycle at a time.
package forest
