package graph

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// formulaFuncs are the functions available inside formula expressions.
var formulaFuncs = map[string]function.Function{
	"abs":    stdlib.AbsoluteFunc,
	"ceil":   stdlib.CeilFunc,
	"floor":  stdlib.FloorFunc,
	"log":    stdlib.LogFunc,
	"pow":    stdlib.PowFunc,
	"signum": stdlib.SignumFunc,
	"min":    stdlib.MinFunc,
	"max":    stdlib.MaxFunc,
}

// formulaNode evaluates an HCL arithmetic expression over the node's input
// values and parameters, writing the result to its single output port
// (default "result"). The expression is parsed once at build time so a
// syntax error fails the graph build, not the solve.
type formulaNode struct {
	base
	src  string
	expr hclsyntax.Expression
}

func newFormulaNode(spec NodeSpec) (Node, error) {
	if spec.Expression == "" {
		return nil, fmt.Errorf("formula node %s: empty expression", spec.ID)
	}

	expr, diags := hclsyntax.ParseExpression(
		[]byte(spec.Expression),
		spec.ID+".expression",
		hcl.InitialPos,
	)
	if diags.HasErrors() {
		return nil, fmt.Errorf("formula node %s: parse %q: %s",
			spec.ID, spec.Expression, diags.Error())
	}

	return &formulaNode{
		base: newBase(spec, nil, []string{"result"}),
		src:  spec.Expression,
		expr: expr,
	}, nil
}

func (n *formulaNode) Compute(inputs map[string]float64) (map[string]float64, error) {
	vars := make(map[string]cty.Value, len(n.inputs)+len(n.params)+len(inputs))

	// Declared but unwired input ports evaluate as zero; parameters come
	// next and wired inputs win.
	for _, port := range n.inputs {
		vars[port] = cty.Zero
	}
	for name, v := range n.params {
		vars[name] = cty.NumberFloatVal(v)
	}
	for name, v := range inputs {
		vars[name] = cty.NumberFloatVal(v)
	}

	val, diags := n.expr.Value(&hcl.EvalContext{
		Variables: vars,
		Functions: formulaFuncs,
	})
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluate %q: %s", n.src, diags.Error())
	}

	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return nil, fmt.Errorf("evaluate %q: non-numeric result: %w", n.src, err)
	}
	result, _ := num.AsBigFloat().Float64()

	return map[string]float64{n.outName(0, "result"): result}, nil
}
