// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Deduction structure, the format-agnostic description
// of one expandable subgraph of a diagram.
//
// A deduction is a tree of nodes rooted at its library path. It may name a
// target: a node of another deduction that this one expands (a proof expands
// the theorem it proves). Ghost nodes inside a deduction stand in for real
// nodes that live in other deductions.
//
// Names of nodes and edge endpoints are relative to the deduction. A dotted
// node name such as `S1.A2` is nested under the longest declared prefix
// (`S1`), or directly under the deduction root when no prefix is declared.
package model

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/ghostview/internal/node"
	"github.com/specialistvlad/ghostview/internal/nodeid"
)

// Deduction is the format-agnostic representation of a `deduction` block.
type Deduction struct {
	Libpath       string
	Target        string
	Label         string
	Nodes         []*NodeSpec
	Edges         []*EdgeSpec
	FSInformation *FSInfo
}

// NodeSpec describes one node of a deduction.
type NodeSpec struct {
	Name    string
	Type    node.Type
	Label   string
	GhostOf string
}

// EdgeSpec describes one edge of a deduction by relative endpoint names.
type EdgeSpec struct {
	Tail   string
	Head   string
	Style  node.Style
	Bridge bool
}

// Validate checks the deduction for internal consistency: parseable paths,
// unique node names, ghosts with targets, and edges between declared nodes.
func (d *Deduction) Validate() error {
	if _, err := nodeid.Parse(d.Libpath); err != nil {
		return fmt.Errorf("deduction '%s' (%s): invalid libpath: %w", d.Libpath, d.FSInformation, err)
	}
	if d.Target != "" {
		if _, err := nodeid.Parse(d.Target); err != nil {
			return fmt.Errorf("deduction '%s' (%s): invalid target: %w", d.Libpath, d.FSInformation, err)
		}
	}

	declared := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if _, err := nodeid.Parse(n.Name); err != nil {
			return fmt.Errorf("deduction '%s' (%s): invalid node name: %w", d.Libpath, d.FSInformation, err)
		}
		if declared[n.Name] {
			return fmt.Errorf("deduction '%s' (%s): node '%s' declared more than once", d.Libpath, d.FSInformation, n.Name)
		}
		declared[n.Name] = true

		switch {
		case n.Type == node.TypeDeduc:
			return fmt.Errorf("deduction '%s' (%s): node '%s' cannot have type '%s'", d.Libpath, d.FSInformation, n.Name, node.TypeDeduc)
		case n.Type == node.TypeGhost && n.GhostOf == "":
			return fmt.Errorf("deduction '%s' (%s): ghost node '%s' is missing ghost_of", d.Libpath, d.FSInformation, n.Name)
		case n.Type != node.TypeGhost && n.GhostOf != "":
			return fmt.Errorf("deduction '%s' (%s): node '%s' sets ghost_of but is not a ghost", d.Libpath, d.FSInformation, n.Name)
		}
		if n.GhostOf != "" {
			if _, err := nodeid.Parse(n.GhostOf); err != nil {
				return fmt.Errorf("deduction '%s' (%s): node '%s': invalid ghost_of: %w", d.Libpath, d.FSInformation, n.Name, err)
			}
		}
	}

	for _, e := range d.Edges {
		for _, end := range []string{e.Tail, e.Head} {
			if !declared[end] {
				return fmt.Errorf("deduction '%s' (%s): edge %s -> %s references undeclared node '%s'", d.Libpath, d.FSInformation, e.Tail, e.Head, end)
			}
		}
	}
	return nil
}

// ParentName returns the relative name of the declared container n is nested
// under, or "" when n sits directly under the deduction root.
func (d *Deduction) ParentName(n *NodeSpec) string {
	best := ""
	for _, other := range d.Nodes {
		if other == n || !strings.HasPrefix(n.Name, other.Name+".") {
			continue
		}
		if len(other.Name) > len(best) {
			best = other.Name
		}
	}
	return best
}
