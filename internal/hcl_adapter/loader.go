package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/ghostview/internal/ctxlog"
	"github.com/specialistvlad/ghostview/internal/fsutil"
	"github.com/specialistvlad/ghostview/internal/model"
	"github.com/specialistvlad/ghostview/internal/node"
	"github.com/specialistvlad/ghostview/internal/nodeid"
)

// Loader reads deduction and step blocks from HCL files into a model.Library.
type Loader struct{}

// NewLoader creates a new HCL diagram loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths, in discovery order, and
// returns the validated library. Steps keep file order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*model.Library, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	lib := model.NewLibrary()
	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.decodeInto(ctx, lib, file, hclFile.Body); err != nil {
			return nil, err
		}
	}

	if err := lib.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "deductions", len(lib.Deductions), "steps", len(lib.Steps))
	return lib, nil
}

// LoadSource parses a single in-memory HCL document. The filename is used
// for diagnostics only.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*model.Library, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL source %s: %w", filename, diags)
	}
	lib := model.NewLibrary()
	if err := l.decodeInto(ctx, lib, filename, hclFile.Body); err != nil {
		return nil, err
	}
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	return lib, nil
}

func (l *Loader) decodeInto(ctx context.Context, lib *model.Library, file string, body hcl.Body) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}

	fsInfo := model.NewFSInfo(file)
	for _, block := range root.Deductions {
		d, err := l.translateDeduction(ctx, block, fsInfo)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if err := lib.AddDeduction(d); err != nil {
			return err
		}
	}
	for _, block := range root.Steps {
		lib.Steps = append(lib.Steps, &model.Step{
			Action:        model.StepAction(block.Action),
			Deduction:     block.Deduction,
			FSInformation: fsInfo,
		})
	}
	return nil
}

// translateDeduction converts the HCL-specific deduction schema into the
// agnostic model, evaluating labels along the way.
func (l *Loader) translateDeduction(ctx context.Context, b *DeductionBlock, fsInfo *model.FSInfo) (*model.Deduction, error) {
	logger := ctxlog.FromContext(ctx).With("deduction", b.Libpath)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL deduction to internal model.", "nodes", len(b.Nodes), "edges", len(b.Edges))

	addr, err := nodeid.Parse(b.Libpath)
	if err != nil {
		return nil, fmt.Errorf("deduction '%s': invalid libpath: %w", b.Libpath, err)
	}
	scope := labelScope{Name: addr.Name(), Libpath: b.Libpath}

	evalCtx, err := newEvalContext(scope, nil)
	if err != nil {
		return nil, err
	}
	label, err := evalLabel(ctx, b.Label, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("deduction '%s': %w", b.Libpath, err)
	}

	d := &model.Deduction{
		Libpath:       b.Libpath,
		Target:        deref(b.Target, ""),
		Label:         label,
		FSInformation: fsInfo,
	}

	for _, nb := range b.Nodes {
		nodeScope := labelScope{Name: nb.Name, Libpath: b.Libpath + "." + nb.Name}
		if evalCtx, err = newEvalContext(scope, &nodeScope); err != nil {
			return nil, err
		}
		nodeLabel, err := evalLabel(ctx, nb.Label, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("deduction '%s', node '%s': %w", b.Libpath, nb.Name, err)
		}
		ghostOf := deref(nb.GhostOf, "")
		typ := node.Type(deref(nb.Type, ""))
		if typ == "" {
			typ = node.TypeAssertion
			if ghostOf != "" {
				typ = node.TypeGhost
			}
		}
		d.Nodes = append(d.Nodes, &model.NodeSpec{
			Name:    nb.Name,
			Type:    typ,
			Label:   nodeLabel,
			GhostOf: ghostOf,
		})
	}

	for _, eb := range b.Edges {
		d.Edges = append(d.Edges, &model.EdgeSpec{
			Tail:   eb.Tail,
			Head:   eb.Head,
			Style:  node.Style(deref(eb.Style, string(node.StyleFlow))),
			Bridge: deref(eb.Bridge, false),
		})
	}
	return d, nil
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
