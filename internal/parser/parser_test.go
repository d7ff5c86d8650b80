package parser

import (
	"testing"

	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKnapsackProblem(t *testing.T) {
	src := `
max sum(i in 0..len(weights)) { prices[i] * x_i }
s.t.
    sum(i in 0..len(weights)) { weights[i] * x_i } <= capacity
where
    let weights = [10, 60, 30, 40, 30, 20, 20, 2]
    let prices = [1, 10, 15, 40, 60, 90, 100, 15]
    let capacity = 102
define
    x as Boolean for i in 0..len(weights)
`
	prob, errList := Parse(src)
	require.Empty(t, errList)
	require.NotNil(t, prob)

	assert.Equal(t, ast.Max, prob.Direction)
	sum, ok := prob.Objective.(*ast.Sum)
	require.True(t, ok)
	require.Len(t, sum.Sets, 1)
	assert.Equal(t, "i", sum.Sets[0].Var.Single)

	require.Len(t, prob.Constraints, 1)
	assert.Equal(t, ast.LowerOrEqual, prob.Constraints[0].Cmp)

	require.Len(t, prob.Bindings, 3)
	assert.Equal(t, "weights", prob.Bindings[0].Name)
	arr, ok := prob.Bindings[0].Value.(*ast.ArrayLit)
	require.True(t, ok)
	assert.Len(t, arr.Elements, 8)
	assert.Equal(t, "capacity", prob.Bindings[2].Name)

	require.Len(t, prob.Domains, 1)
	assert.Equal(t, ast.DomainBoolean, prob.Domains[0].Kind)
	require.Len(t, prob.Domains[0].Sets, 1)
}

func TestParseImplicitMultiplicationAndCompoundVariable(t *testing.T) {
	prob, errList := Parse("min 2x_1 + 3(y + 1)\ns.t.\n x_1 <= 5")
	require.Empty(t, errList)

	add, ok := prob.Objective.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.Add, add.Op)

	left, ok := add.Left.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.Mul, left.Op)
	assert.IsType(t, &ast.NumberLit{}, left.Left)
	cv, ok := left.Right.(*ast.CompoundVariable)
	require.True(t, ok)
	assert.Equal(t, "x", cv.Name)
	require.Len(t, cv.Indexes, 1)

	right, ok := add.Right.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.Mul, right.Op)
	assert.IsType(t, &ast.NumberLit{}, right.Left)
}

func TestParseCompoundVariableWithBraceIndexes(t *testing.T) {
	prob, errList := Parse("min x_{i, j}\ns.t.\n x_{i, j} <= 1 for (i, j) in edges(graph)")
	require.Empty(t, errList)

	cv, ok := prob.Objective.(*ast.CompoundVariable)
	require.True(t, ok)
	assert.Equal(t, "x", cv.Name)
	require.Len(t, cv.Indexes, 2)

	require.Len(t, prob.Constraints, 1)
	c := prob.Constraints[0]
	require.Len(t, c.Sets, 1)
	assert.True(t, c.Sets[0].Var.IsTuple())
	assert.Equal(t, []string{"i", "j"}, c.Sets[0].Var.Tuple)
	fc, ok := c.Sets[0].Iterable.(*ast.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "edges", fc.Name)
}

func TestParseAbsAndMinMax(t *testing.T) {
	prob, errList := Parse("min |x - y| + max(x, y, 1)\ns.t.\n x <= 1")
	require.Empty(t, errList)

	add, ok := prob.Objective.(*ast.BinOp)
	require.True(t, ok)
	assert.IsType(t, &ast.Mod{}, add.Left)
	maxExpr, ok := add.Right.(*ast.Max)
	require.True(t, ok)
	assert.Len(t, maxExpr.Exprs, 3)
}

func TestParseRangeInclusiveAndExclusive(t *testing.T) {
	prob, errList := Parse("min sum(i in 0..5) { x_i } + sum(j in 0..=5) { x_j }\ns.t.\n x_1 <= 1")
	require.Empty(t, errList)

	add, ok := prob.Objective.(*ast.BinOp)
	require.True(t, ok)

	leftSum := add.Left.(*ast.Sum)
	rangeCall := leftSum.Sets[0].Iterable.(*ast.FunctionCall)
	assert.Equal(t, "range", rangeCall.Name)
	inclusive := rangeCall.Args[2].(*ast.BoolLit)
	assert.False(t, inclusive.Value)

	rightSum := add.Right.(*ast.Sum)
	rangeCall2 := rightSum.Sets[0].Iterable.(*ast.FunctionCall)
	inclusive2 := rangeCall2.Args[2].(*ast.BoolLit)
	assert.True(t, inclusive2.Value)
}

func TestParseDomainIntegerRange(t *testing.T) {
	prob, errList := Parse("min x\ns.t.\n x <= 1\ndefine\n x as IntegerRange(0, 10)")
	require.Empty(t, errList)
	require.Len(t, prob.Domains, 1)
	d := prob.Domains[0]
	assert.Equal(t, ast.DomainIntegerRange, d.Kind)
	require.NotNil(t, d.Lo)
	require.NotNil(t, d.Hi)
}

func TestParseArrayAccess(t *testing.T) {
	prob, errList := Parse("min a[0] + b[i][j]\ns.t.\n a[0] <= 1")
	require.Empty(t, errList)
	add, ok := prob.Objective.(*ast.BinOp)
	require.True(t, ok)

	acc, ok := add.Left.(*ast.ArrayAccess)
	require.True(t, ok)
	require.Len(t, acc.Indexes, 1)

	acc2, ok := add.Right.(*ast.ArrayAccess)
	require.True(t, ok)
	require.Len(t, acc2.Indexes, 2)
}

func TestParseConsecutiveConstraintsDontMergeViaImplicitMultiplication(t *testing.T) {
	prob, errList := Parse("min x\ns.t.\n x >= 0\n x <= 10")
	require.Empty(t, errList)
	require.Len(t, prob.Constraints, 2)

	first := prob.Constraints[0]
	assert.Equal(t, ast.UpperOrEqual, first.Cmp)
	assert.IsType(t, &ast.NumberLit{}, first.Right)

	second := prob.Constraints[1]
	assert.Equal(t, ast.LowerOrEqual, second.Cmp)
	rhs, ok := second.Right.(*ast.NumberLit)
	require.True(t, ok)
	assert.Equal(t, float64(10), rhs.Value)
}

func TestParseMissingSTProducesError(t *testing.T) {
	_, errList := Parse("min x")
	require.NotEmpty(t, errList)
}

func TestParseUnexpectedTokenProducesError(t *testing.T) {
	_, errList := Parse("min @\ns.t.\n x <= 1")
	require.NotEmpty(t, errList)
}
