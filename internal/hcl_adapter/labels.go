package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/ghostview/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// labelScope is the object label expressions see. Node labels also see a
// `node` object of the same shape.
type labelScope struct {
	Name    string `cty:"name"`
	Libpath string `cty:"libpath"`
}

var labelFunctions = map[string]function.Function{
	"upper":  stdlib.UpperFunc,
	"lower":  stdlib.LowerFunc,
	"format": stdlib.FormatFunc,
	"join":   stdlib.JoinFunc,
}

// toCtyValue converts a native Go value into its corresponding cty.Value.
func toCtyValue(v any) (cty.Value, error) {
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}

// newEvalContext builds the context label expressions are evaluated in.
func newEvalContext(deduction labelScope, node *labelScope) (*hcl.EvalContext, error) {
	vars := make(map[string]cty.Value, 2)
	val, err := toCtyValue(deduction)
	if err != nil {
		return nil, err
	}
	vars["deduction"] = val
	if node != nil {
		if val, err = toCtyValue(*node); err != nil {
			return nil, err
		}
		vars["node"] = val
	}
	return &hcl.EvalContext{Variables: vars, Functions: labelFunctions}, nil
}

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional fields with zero-width
// expressions, so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	defined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", r.String(),
		"is_defined", defined,
	)
	return defined
}

// evalLabel evaluates a label expression to a string. An omitted label
// yields "".
func evalLabel(ctx context.Context, expr hcl.Expression, evalCtx *hcl.EvalContext) (string, error) {
	if !isExprDefined(ctx, expr, "label") {
		return "", nil
	}
	for _, traversal := range expr.Variables() {
		if _, ok := evalCtx.Variables[traversal.RootName()]; !ok {
			return "", fmt.Errorf("%s: label refers to unknown value '%s'", expr.Range(), traversalKey(traversal))
		}
	}

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("failed to evaluate label: %w", diags)
	}
	if val.IsNull() {
		return "", nil
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("%s: label must be a string: %w", expr.Range(), err)
	}
	if !str.IsKnown() {
		return "", fmt.Errorf("%s: label value is not known", expr.Range())
	}
	return str.AsString(), nil
}

// traversalKey renders a traversal the way it appears in source, e.g.
// `deduction.name`.
func traversalKey(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}
