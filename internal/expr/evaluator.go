// Package expr implements the engine's expression evaluator on top of the
// HCL expression syntax and cty value system. Evaluation is pure and never
// panics: every failure, including diagnostics from the parser, is returned
// as an error value.
package expr

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Evaluator parses and evaluates HCL expressions against numeric variables.
// The zero value is not usable; call New.
type Evaluator struct {
	functions map[string]function.Function
}

// New creates an evaluator with a small arithmetic function set.
func New() *Evaluator {
	return &Evaluator{
		functions: map[string]function.Function{
			"abs": stdlib.AbsoluteFunc,
			"min": stdlib.MinFunc,
			"max": stdlib.MaxFunc,
			"int": stdlib.IntFunc,
		},
	}
}

// Evaluate parses the expression and evaluates it against the given
// variables. Boolean results map to 1 (true) and 0 (false); any other
// non-numeric result is an error.
func (e *Evaluator) Evaluate(expression string, vars map[string]float64) (float64, error) {
	if expression == "" {
		return 0, fmt.Errorf("empty expression")
	}

	parsed, diags := hclsyntax.ParseExpression([]byte(expression), "expr", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return 0, fmt.Errorf("parse %q: %s", expression, diags.Error())
	}

	variables := make(map[string]cty.Value, len(vars))
	for name, value := range vars {
		variables[name] = cty.NumberFloatVal(value)
	}

	value, diags := parsed.Value(&hcl.EvalContext{
		Variables: variables,
		Functions: e.functions,
	})
	if diags.HasErrors() {
		return 0, fmt.Errorf("evaluate %q: %s", expression, diags.Error())
	}

	return toFloat(expression, value)
}

func toFloat(expression string, value cty.Value) (float64, error) {
	if value.IsNull() || !value.IsKnown() {
		return 0, fmt.Errorf("evaluate %q: result is not a known value", expression)
	}
	if value.Type() == cty.Bool {
		if value.True() {
			return 1, nil
		}
		return 0, nil
	}
	number, err := convert.Convert(value, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: non-numeric result: %w", expression, err)
	}
	f, _ := number.AsBigFloat().Float64()
	return f, nil
}
