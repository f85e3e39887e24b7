package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a diagram file may contain.
type fileRoot struct {
	Deductions []*DeductionBlock `hcl:"deduction,block"`
	Steps      []*StepBlock      `hcl:"step,block"`
}

// DeductionBlock is the HCL form of a deduction.
type DeductionBlock struct {
	Libpath string         `hcl:"libpath,label"`
	Target  *string        `hcl:"target,optional"`
	Label   hcl.Expression `hcl:"label,optional"`
	Nodes   []*NodeBlock   `hcl:"node,block"`
	Edges   []*EdgeBlock   `hcl:"edge,block"`
}

// NodeBlock is a `node "NAME" { ... }` block inside a deduction.
type NodeBlock struct {
	Name    string         `hcl:"name,label"`
	Type    *string        `hcl:"type,optional"`
	Label   hcl.Expression `hcl:"label,optional"`
	GhostOf *string        `hcl:"ghost_of,optional"`
}

// EdgeBlock is an `edge "TAIL" "HEAD" { ... }` block inside a deduction.
type EdgeBlock struct {
	Tail   string  `hcl:"tail,label"`
	Head   string  `hcl:"head,label"`
	Style  *string `hcl:"style,optional"`
	Bridge *bool   `hcl:"bridge,optional"`
}

// StepBlock is a `step "ACTION" { deduction = "..." }` block.
type StepBlock struct {
	Action    string `hcl:"action,label"`
	Deduction string `hcl:"deduction"`
}
