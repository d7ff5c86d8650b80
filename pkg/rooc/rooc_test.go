package rooc

import (
	"testing"

	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/functions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndToEndKnapsack(t *testing.T) {
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
	sol, cerrs, err := CompileAndSolve(src, functions.NewMap())
	require.Empty(t, cerrs)
	require.NoError(t, err)
	assert.InDelta(t, 280, sol.Value, 1e-6)

	totalWeight := 0.0
	weights := []float64{10, 60, 30, 40, 30, 20, 20, 2}
	for i, a := range sol.Assignments {
		if a.Value.Bool {
			totalWeight += weights[i]
		}
	}
	assert.LessOrEqual(t, totalWeight, 102.0)
}

func TestEndToEndSimpleLpIsUnbounded(t *testing.T) {
	// x2 is unrestricted in sign and only bounded below (x2 >= x1-5), so it
	// can grow without limit and drive the maximand to infinity.
	src := "max x1 + x2\ns.t.\n x1 - x2 <= 5\ndefine\n x2 as Real"
	_, cerrs, err := CompileAndSolve(src, functions.NewMap())
	require.Empty(t, cerrs)
	require.Error(t, err)
	se, ok := err.(errs.SolverError)
	require.True(t, ok)
	assert.Equal(t, errs.Unbounded, se.Kind)
}

func TestEndToEndAbsoluteValue(t *testing.T) {
	src := "min |x - 3|\ns.t.\n x >= 0\n x <= 10"
	sol, cerrs, err := CompileAndSolve(src, functions.NewMap())
	require.Empty(t, cerrs)
	require.NoError(t, err)
	assert.InDelta(t, 0, sol.Value, 1e-3)
	for _, a := range sol.Assignments {
		if a.Name == "x" {
			assert.InDelta(t, 3, a.Value.AsFloat(), 1e-3)
		}
	}
}

func TestEndToEndMinInObjective(t *testing.T) {
	src := "max min(x, 5 - x)\ns.t.\n x >= 0\n x <= 5"
	sol, cerrs, err := CompileAndSolve(src, functions.NewMap())
	require.Empty(t, cerrs)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, sol.Value, 1e-3)
	for _, a := range sol.Assignments {
		if a.Name == "x" {
			assert.InDelta(t, 2.5, a.Value.AsFloat(), 1e-3)
		}
	}
}

func TestEndToEndQuantifiedGraphSum(t *testing.T) {
	src := `
min sum((u, v, c) in edges(g)) { c * x_{u, v} }
s.t.
    sum((u, v, c) in edges(g)) { x_{u, v} } = 2
where
    let g = graph([("A", "B", 2), ("B", "C", 3), ("A", "C", 5)])
define
    x_{u, v} as Boolean for (u, v, c) in edges(g)
`
	sol, cerrs, err := CompileAndSolve(src, functions.NewMap())
	require.Empty(t, cerrs)
	require.NoError(t, err)
	assert.InDelta(t, 5, sol.Value, 1e-6)
}

func TestEndToEndInfeasible(t *testing.T) {
	src := "min x\ns.t.\n x >= 5\n x <= 3"
	_, cerrs, err := CompileAndSolve(src, functions.NewMap())
	require.Empty(t, cerrs)
	require.Error(t, err)
	se, ok := err.(errs.SolverError)
	require.True(t, ok)
	assert.Equal(t, errs.Infeasible, se.Kind)
}

func TestCompileAndSolveReturnsSyntaxErrors(t *testing.T) {
	_, cerrs, err := CompileAndSolve("max x s.t.\n x <=", functions.NewMap())
	assert.NoError(t, err)
	assert.NotEmpty(t, cerrs)
}
