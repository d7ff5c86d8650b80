package simplex

import (
	"math"
	"testing"

	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nonneg() VarBound { return VarBound{Lo: 0, Hi: math.Inf(1)} }

func TestSolveSimpleMaximize(t *testing.T) {
	// max 3x + 5y s.t. x <= 4, 2y <= 12, 3x + 2y <= 18, x,y >= 0.
	// Textbook optimum: x=2, y=6, value=36.
	bounds := []VarBound{nonneg(), nonneg()}
	rows := []Row{
		{Coeffs: []float64{1, 0}, Cmp: ast.LowerOrEqual, Rhs: 4},
		{Coeffs: []float64{0, 2}, Cmp: ast.LowerOrEqual, Rhs: 12},
		{Coeffs: []float64{3, 2}, Cmp: ast.LowerOrEqual, Rhs: 18},
	}
	res, err := Solve([]float64{3, 5}, ast.Max, bounds, rows, 100, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Assignment[0], Epsilon*10)
	assert.InDelta(t, 6, res.Assignment[1], Epsilon*10)
	assert.InDelta(t, 36, res.Value, Epsilon*10)
}

func TestSolveUnbounded(t *testing.T) {
	// max x, x >= 0, no upper bound anywhere: unbounded.
	bounds := []VarBound{nonneg()}
	_, err := Solve([]float64{1}, ast.Max, bounds, nil, 100, nil)
	require.Error(t, err)
	se, ok := err.(errs.SolverError)
	require.True(t, ok)
	assert.Equal(t, errs.Unbounded, se.Kind)
}

func TestSolveInfeasible(t *testing.T) {
	// x >= 5 and x <= 3 has no feasible point.
	bounds := []VarBound{nonneg()}
	rows := []Row{
		{Coeffs: []float64{1}, Cmp: ast.UpperOrEqual, Rhs: 5},
		{Coeffs: []float64{1}, Cmp: ast.LowerOrEqual, Rhs: 3},
	}
	_, err := Solve([]float64{1}, ast.Min, bounds, rows, 100, nil)
	require.Error(t, err)
	se, ok := err.(errs.SolverError)
	require.True(t, ok)
	assert.Equal(t, errs.Infeasible, se.Kind)
}

func TestSolveAbsObjectiveLifted(t *testing.T) {
	// min t s.t. x-t<=3, -(x-3)<=t i.e. t>=x-3 and t>=3-x, x in [0,10].
	// Mirrors the linearized form of `min |x-3|` s.t. 0<=x<=10: optimum t=0 at x=3.
	bounds := []VarBound{{Lo: 0, Hi: 10}, {Lo: 0, Hi: math.Inf(1)}}
	rows := []Row{
		{Coeffs: []float64{1, -1}, Cmp: ast.LowerOrEqual, Rhs: 3},
		{Coeffs: []float64{-1, -1}, Cmp: ast.LowerOrEqual, Rhs: -3},
	}
	res, err := Solve([]float64{0, 1}, ast.Min, bounds, rows, 100, nil)
	require.NoError(t, err)
	assert.InDelta(t, 3, res.Assignment[0], 1e-3)
	assert.InDelta(t, 0, res.Assignment[1], 1e-3)
	assert.InDelta(t, 0, res.Value, 1e-3)
}

func TestSolveEqualityConstraint(t *testing.T) {
	// min x+y s.t. x+y=5, x,y>=0. Any point on the line is optimal at value 5.
	bounds := []VarBound{nonneg(), nonneg()}
	rows := []Row{
		{Coeffs: []float64{1, 1}, Cmp: ast.Equal, Rhs: 5},
	}
	res, err := Solve([]float64{1, 1}, ast.Min, bounds, rows, 100, nil)
	require.NoError(t, err)
	assert.InDelta(t, 5, res.Value, 1e-3)
}

func TestSolveUnrestrictedVariable(t *testing.T) {
	// min x s.t. x >= -7, x unrestricted in sign: optimum x=-7.
	bounds := []VarBound{{Lo: math.Inf(-1), Hi: math.Inf(1)}}
	rows := []Row{
		{Coeffs: []float64{1}, Cmp: ast.UpperOrEqual, Rhs: -7},
	}
	res, err := Solve([]float64{1}, ast.Min, bounds, rows, 100, nil)
	require.NoError(t, err)
	assert.InDelta(t, -7, res.Assignment[0], 1e-3)
	assert.InDelta(t, -7, res.Value, 1e-3)
}

func TestSolveIterationLimit(t *testing.T) {
	bounds := []VarBound{nonneg(), nonneg()}
	rows := []Row{
		{Coeffs: []float64{1, 0}, Cmp: ast.LowerOrEqual, Rhs: 4},
		{Coeffs: []float64{0, 2}, Cmp: ast.LowerOrEqual, Rhs: 12},
		{Coeffs: []float64{3, 2}, Cmp: ast.LowerOrEqual, Rhs: 18},
	}
	_, err := Solve([]float64{3, 5}, ast.Max, bounds, rows, 0, nil)
	require.Error(t, err)
	se, ok := err.(errs.SolverError)
	require.True(t, ok)
	assert.Equal(t, errs.IterationLimit, se.Kind)
}

func TestSolveRecordsTrace(t *testing.T) {
	bounds := []VarBound{nonneg()}
	rows := []Row{{Coeffs: []float64{1}, Cmp: ast.LowerOrEqual, Rhs: 4}}
	var trace []StepAction
	_, err := Solve([]float64{1}, ast.Max, bounds, rows, 100, &trace)
	require.NoError(t, err)
	require.NotEmpty(t, trace)
	assert.True(t, trace[len(trace)-1].Finished)
}
