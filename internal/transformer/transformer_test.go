package transformer

import (
	"testing"

	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/functions"
	"github.com/rooc-lang/rooc/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.PreProblem {
	prob, errList := parser.Parse(src)
	require.Empty(t, errList)
	return prob
}

func TestTransformKnapsack(t *testing.T) {
	src := `
max sum(i in 0..len(weights)) { prices[i] * x_i }
s.t.
    sum(i in 0..len(weights)) { weights[i] * x_i } <= capacity
where
    let weights = [10, 60, 30, 40, 30, 20, 20, 2]
    let prices = [1, 10, 15, 40, 60, 90, 100, 15]
    let capacity = 102
define
    x_i as Boolean for i in 0..len(weights)
`
	prob := mustParse(t, src)
	model, err := Transform(prob, functions.NewMap())
	require.NoError(t, err)

	assert.Equal(t, ast.Max, model.Direction)
	assert.Len(t, model.VariableOrder, 8)
	assert.Equal(t, []string{"x_0", "x_1", "x_2", "x_3", "x_4", "x_5", "x_6", "x_7"}, model.VariableOrder)

	for _, name := range model.VariableOrder {
		assert.Equal(t, DomainBoolean, model.Domains[name].Kind)
	}

	require.Equal(t, ExpAdd, model.Objective.Kind)
	assert.Len(t, model.Objective.Terms, 8)

	require.Len(t, model.Constraints, 1)
	assert.Equal(t, ast.LowerOrEqual, model.Constraints[0].Cmp)
	assert.Equal(t, ExpNumber, model.Constraints[0].Right.Kind)
	assert.Equal(t, 102.0, model.Constraints[0].Right.Number)
}

func TestTransformImplicitVariableDefaultsToNonNegativeReal(t *testing.T) {
	prob := mustParse(t, "min 2x + y\ns.t.\n x + y <= 10")
	model, err := Transform(prob, functions.NewMap())
	require.NoError(t, err)
	assert.Len(t, model.VariableOrder, 2)
	for _, name := range model.VariableOrder {
		assert.Equal(t, DomainNonNegativeReal, model.Domains[name].Kind)
	}
}

func TestTransformAbsAndMax(t *testing.T) {
	prob := mustParse(t, "min |x - y| + max(x, y, 1)\ns.t.\n x <= 1")
	model, err := Transform(prob, functions.NewMap())
	require.NoError(t, err)

	require.Equal(t, ExpAdd, model.Objective.Kind)
	require.Len(t, model.Objective.Terms, 2)
	assert.Equal(t, ExpMod, model.Objective.Terms[0].Kind)
	assert.Equal(t, ExpMax, model.Objective.Terms[1].Kind)
}

func TestTransformGraphSumCanonicalEdgeOrder(t *testing.T) {
	src := `
min sum((u, v, c) in edges(g)) { c * x_{u, v} }
s.t.
    sum((u, v, c) in edges(g)) { x_{u, v} } = 2
where
    let g = graph([("A", "B", 2), ("B", "C", 3), ("A", "C", 5)])
define
    x_{u, v} as Boolean for (u, v, c) in edges(g)
`
	prob := mustParse(t, src)
	model, err := Transform(prob, functions.NewMap())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"x_A_B", "x_B_C", "x_A_C"}, model.VariableOrder)
	require.Equal(t, ExpAdd, model.Objective.Kind)
	require.Len(t, model.Objective.Terms, 3)

	weights := map[string]float64{}
	for _, term := range model.Objective.Terms {
		require.Equal(t, ExpMul, term.Kind)
		require.Equal(t, ExpVariable, term.Right.Kind)
		require.Equal(t, ExpNumber, term.Left.Kind)
		weights[term.Right.Variable] = term.Left.Number
	}
	assert.Equal(t, 2.0, weights["x_A_B"])
	assert.Equal(t, 3.0, weights["x_B_C"])
	assert.Equal(t, 5.0, weights["x_A_C"])
}

func TestFlattenConstantFoldingAndIdentities(t *testing.T) {
	e := AddExp(NumberExp(2), NumberExp(3), VariableExp("x"), NumberExp(0))
	flat := Flatten(e)
	require.Equal(t, ExpAdd, flat.Kind)
	require.Len(t, flat.Terms, 2)
	assert.Equal(t, ExpNumber, flat.Terms[0].Kind)
	assert.Equal(t, 5.0, flat.Terms[0].Number)
	assert.Equal(t, ExpVariable, flat.Terms[1].Kind)

	mul := MulExp(NumberExp(1), VariableExp("y"))
	assert.Equal(t, VariableExp("y"), Flatten(mul))

	zero := MulExp(NumberExp(0), VariableExp("z"))
	assert.Equal(t, NumberExp(0), Flatten(zero))

	doubleNeg := NegExp(NegExp(VariableExp("w")))
	assert.Equal(t, VariableExp("w"), Flatten(doubleNeg))
}

func TestTransformMissingBindingErrors(t *testing.T) {
	prob := mustParse(t, "min len(unknown)\ns.t.\n x <= 1")
	_, err := Transform(prob, functions.NewMap())
	require.Error(t, err)
}
