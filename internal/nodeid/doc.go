// internal/nodeid/doc.go

/*
Package nodeid provides a structured, type-safe representation for node
identifiers within a diagram, based on the canonical library path format.

The format is a dot-separated sequence of segments, e.g. `thm.Pf.S1.A2`.
A segment may carry an index, e.g. `thm.Pf[2].A1`, which is used to tell
apart several instances of the same deduction.

Nesting in a diagram follows the path: `thm.Pf` is an ancestor of
`thm.Pf.S1.A2`. This package centralizes formatting, parsing and the
prefix arithmetic the rest of the system relies on.
*/
package nodeid
