// Package dotexport renders the visible part of a diagram as a Graphviz DOT
// digraph. Deductions and subdeductions become clusters, ghosts are drawn
// dashed and bridge edges dotted.
package dotexport

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/specialistvlad/ghostview/internal/forest"
	"github.com/specialistvlad/ghostview/internal/node"
)

// ExportDOT returns the DOT source for every visible node and edge of f.
func ExportDOT(f *forest.Forest, name string) (string, error) {
	g := gographviz.NewGraph()
	graphName := strconv.Quote(name)
	if err := g.SetName(graphName); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}
	if err := g.AddAttr(graphName, "compound", "true"); err != nil {
		return "", err
	}

	for _, root := range f.Roots() {
		if err := addTree(g, graphName, root); err != nil {
			return "", err
		}
	}

	for _, e := range f.Edges() {
		if !e.Visible() || !e.Tail.Visible() || !e.Head.Visible() {
			continue
		}
		attrs := map[string]string{}
		switch {
		case e.Style == node.StyleRepresentative:
			attrs["style"] = "dashed"
			attrs["color"] = "gray"
		case e.Bridge:
			attrs["style"] = "dotted"
		}
		if err := g.AddEdge(strconv.Quote(e.TailUID()), strconv.Quote(e.HeadUID()), true, attrs); err != nil {
			return "", fmt.Errorf("failed to add edge %s: %w", e.Description(), err)
		}
	}
	return g.String(), nil
}

// addTree adds n under parent. Containers open a cluster holding a point
// anchor named after the container, so edges can still attach to it.
func addTree(g *gographviz.Graph, parent string, n *node.Node) error {
	if !n.Visible() {
		return nil
	}
	id := strconv.Quote(n.UID())
	label := strconv.Quote(n.Label)

	if !n.Type.IsContainer() {
		attrs := map[string]string{"label": label, "shape": "box"}
		if n.IsGhost() {
			attrs["style"] = "dashed"
		}
		if err := g.AddNode(parent, id, attrs); err != nil {
			return fmt.Errorf("failed to add node %s: %w", n.UID(), err)
		}
		return nil
	}

	cluster := strconv.Quote("cluster_" + n.UID())
	if err := g.AddSubGraph(parent, cluster, map[string]string{"label": label}); err != nil {
		return fmt.Errorf("failed to add cluster %s: %w", n.UID(), err)
	}
	if err := g.AddNode(cluster, id, map[string]string{"shape": "point"}); err != nil {
		return fmt.Errorf("failed to add anchor %s: %w", n.UID(), err)
	}
	for _, c := range n.Children() {
		if err := addTree(g, cluster, c); err != nil {
			return err
		}
	}
	return nil
}
