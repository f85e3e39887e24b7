// Package subgraph builds deductions into a forest and plans their removal.
//
// Build is the producer side of an open cycle: it materializes one
// model.Deduction as nodes and edges registered in the forest, all hidden,
// and hands back a Subgraph describing what was created. PlanDecay is the
// mirror image for a close cycle: it collects the nodes and edges that go
// away when one or more deduction roots are retracted.
//
// Neither function touches visibility or ghost bookkeeping; that is the job
// of the ghostbuster package.
package subgraph
