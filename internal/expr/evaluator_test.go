package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sluice/internal/expr"
)

func TestEvaluator_Arithmetic(t *testing.T) {
	eval := expr.New()

	cases := []struct {
		expression string
		vars       map[string]float64
		want       float64
	}{
		{"1 + 2", nil, 3},
		{"a + b", map[string]float64{"a": 1.5, "b": 2.5}, 4},
		{"a * b - 1", map[string]float64{"a": 3, "b": 4}, 11},
		{"a / 4", map[string]float64{"a": 10}, 2.5},
		{"(a + b) * 2", map[string]float64{"a": 1, "b": 2}, 6},
		{"-a", map[string]float64{"a": 5}, -5},
		{"a % 3", map[string]float64{"a": 7}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.expression, func(t *testing.T) {
			got, err := eval.Evaluate(tc.expression, tc.vars)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestEvaluator_BooleansMapToNumbers(t *testing.T) {
	eval := expr.New()

	got, err := eval.Evaluate("a > 3", map[string]float64{"a": 5})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = eval.Evaluate("a > 3", map[string]float64{"a": 2})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	got, err = eval.Evaluate("a >= 1 && b <= 2", map[string]float64{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestEvaluator_Functions(t *testing.T) {
	eval := expr.New()

	cases := []struct {
		expression string
		vars       map[string]float64
		want       float64
	}{
		{"abs(a)", map[string]float64{"a": -5}, 5},
		{"min(a, b)", map[string]float64{"a": 3, "b": 7}, 3},
		{"max(a, b, 10)", map[string]float64{"a": 3, "b": 7}, 10},
		{"int(a)", map[string]float64{"a": 3.9}, 3},
	}

	for _, tc := range cases {
		t.Run(tc.expression, func(t *testing.T) {
			got, err := eval.Evaluate(tc.expression, tc.vars)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestEvaluator_Conditional(t *testing.T) {
	eval := expr.New()

	got, err := eval.Evaluate("a > 0 ? a : 0", map[string]float64{"a": -4})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestEvaluator_Errors(t *testing.T) {
	eval := expr.New()

	_, err := eval.Evaluate("", nil)
	assert.Error(t, err, "empty expression")

	_, err = eval.Evaluate("a +", nil)
	assert.Error(t, err, "parse error")

	_, err = eval.Evaluate("ghost + 1", map[string]float64{"a": 1})
	assert.Error(t, err, "unknown variable")

	_, err = eval.Evaluate("nosuchfn(1)", nil)
	assert.Error(t, err, "unknown function")
}

func TestEvaluator_DivisionByZero(t *testing.T) {
	eval := expr.New()

	_, err := eval.Evaluate("a / 0", map[string]float64{"a": 1})
	assert.Error(t, err)
}
