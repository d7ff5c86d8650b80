package solver

import (
	"testing"

	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/linearizer"
	"github.com/rooc-lang/rooc/internal/transformer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoSolveRealOnlyUsesSimplexDirectly(t *testing.T) {
	lm := &linearizer.LinearModel{
		Direction:       ast.Max,
		VariableOrder:   []string{"x", "y"},
		Variables: map[string]transformer.VariableDomain{
			"x": {Kind: transformer.DomainNonNegativeReal},
			"y": {Kind: transformer.DomainNonNegativeReal},
		},
		ObjectiveCoeffs: []float64{3, 5},
		Constraints: []linearizer.LinearConstraint{
			{Coeffs: []float64{1, 0}, Cmp: ast.LowerOrEqual, Rhs: 4},
			{Coeffs: []float64{0, 2}, Cmp: ast.LowerOrEqual, Rhs: 12},
			{Coeffs: []float64{3, 2}, Cmp: ast.LowerOrEqual, Rhs: 18},
		},
	}
	sol, err := AutoSolve(lm)
	require.NoError(t, err)
	assert.InDelta(t, 36, sol.Value, 1e-3)
	require.Len(t, sol.Assignments, 2)
	assert.Equal(t, RealValue, sol.Assignments[0].Value.Kind)
}

func TestAutoSolveKnapsackBranchAndBound(t *testing.T) {
	// Three 0/1 items; weight/capacity chosen so the LP relaxation is
	// fractional but the optimal integral pick is items 0 and 2 (value 25,
	// weight 40 <= capacity 40).
	lm := &linearizer.LinearModel{
		Direction:     ast.Max,
		VariableOrder: []string{"x_0", "x_1", "x_2"},
		Variables: map[string]transformer.VariableDomain{
			"x_0": {Kind: transformer.DomainBoolean},
			"x_1": {Kind: transformer.DomainBoolean},
			"x_2": {Kind: transformer.DomainBoolean},
		},
		ObjectiveCoeffs: []float64{10, 18, 15},
		Constraints: []linearizer.LinearConstraint{
			{Coeffs: []float64{20, 25, 20}, Cmp: ast.LowerOrEqual, Rhs: 40},
		},
	}
	sol, err := AutoSolve(lm)
	require.NoError(t, err)
	for _, a := range sol.Assignments {
		assert.Equal(t, BoolValue, a.Value.Kind)
	}
	assert.InDelta(t, 25, sol.Value, 1e-6)
}

func TestAutoSolveNoVariablesReturnsConstant(t *testing.T) {
	lm := &linearizer.LinearModel{
		Direction:         ast.Min,
		ObjectiveConstant: 7,
	}
	sol, err := AutoSolve(lm)
	require.NoError(t, err)
	assert.Empty(t, sol.Assignments)
	assert.Equal(t, 7.0, sol.Value)
}

func TestAutoSolvePropagatesInfeasible(t *testing.T) {
	lm := &linearizer.LinearModel{
		Direction:     ast.Min,
		VariableOrder: []string{"x"},
		Variables: map[string]transformer.VariableDomain{
			"x": {Kind: transformer.DomainNonNegativeReal},
		},
		ObjectiveCoeffs: []float64{1},
		Constraints: []linearizer.LinearConstraint{
			{Coeffs: []float64{1}, Cmp: ast.UpperOrEqual, Rhs: 5},
			{Coeffs: []float64{1}, Cmp: ast.LowerOrEqual, Rhs: 3},
		},
	}
	_, err := AutoSolve(lm)
	assert.Error(t, err)
}

func TestAutoSolveIntegerRangeBounds(t *testing.T) {
	lm := &linearizer.LinearModel{
		Direction:     ast.Max,
		VariableOrder: []string{"x"},
		Variables: map[string]transformer.VariableDomain{
			"x": {Kind: transformer.DomainIntegerRange, Lo: 0, Hi: 5},
		},
		ObjectiveCoeffs: []float64{1},
		Constraints: []linearizer.LinearConstraint{
			{Coeffs: []float64{1}, Cmp: ast.LowerOrEqual, Rhs: 4.5},
		},
	}
	sol, err := AutoSolve(lm)
	require.NoError(t, err)
	require.Len(t, sol.Assignments, 1)
	assert.Equal(t, IntValue, sol.Assignments[0].Value.Kind)
	assert.Equal(t, 4, sol.Assignments[0].Value.Int)
	assert.Equal(t, 4.0, sol.Value)
}
