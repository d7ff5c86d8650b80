// Package rooc is the public entry point to the compilation pipeline:
// source text to PreProblem (Parse), PreProblem to a type-checked PreProblem
// (TypeCheck), PreProblem to a symbolic Model (Transform), Model to a
// LinearModel (Linearize), and LinearModel to a solved LpSolution (Solve).
// Each stage is also usable standalone by callers that only need part of
// the pipeline (a linter that only parses and type-checks, say).
package rooc

import (
	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/functions"
	"github.com/rooc-lang/rooc/internal/linearizer"
	"github.com/rooc-lang/rooc/internal/parser"
	"github.com/rooc-lang/rooc/internal/simplex"
	"github.com/rooc-lang/rooc/internal/solver"
	"github.com/rooc-lang/rooc/internal/transformer"
	"github.com/rooc-lang/rooc/internal/typecheck"
)

// Re-exported so callers don't need to import the internal packages
// directly for the common path.
type (
	PreProblem  = ast.PreProblem
	Model       = transformer.Model
	LinearModel = linearizer.LinearModel
	LpSolution  = solver.LpSolution
	Assignment  = solver.Assignment
)

// Parse lexes and parses source into a PreProblem, or a non-empty list of
// CompilationErrors on a syntax failure.
func Parse(source string) (*ast.PreProblem, []errs.CompilationError) {
	return parser.Parse(source)
}

// TypeCheck validates prob's expressions against the built-in and supplied
// function signatures, returning every error found (not just the first).
func TypeCheck(prob *ast.PreProblem, fns *functions.Map) []errs.CompilationError {
	return typecheck.Check(prob, fns)
}

// Transform evaluates prob's constants, quantifiers, and compound variables
// into a symbolic Model over flattened decision-variable names.
func Transform(prob *ast.PreProblem, fns *functions.Map) (*transformer.Model, error) {
	return transformer.Transform(prob, fns)
}

// Linearize rewrites m's |·|/min/max/non-linear occurrences into an
// equivalent LinearModel, or a LinearizationError if no such rewrite
// exists.
func Linearize(m *transformer.Model) (*linearizer.LinearModel, error) {
	return linearizer.Linearize(m)
}

// Solve dispatches lm to the simplex or branch-and-bound back-end its
// variable domains call for.
func Solve(lm *linearizer.LinearModel) (solver.LpSolution, error) {
	return solver.AutoSolve(lm)
}

// SolveTrace is Solve with an optional simplex pivot trace attached, for
// callers (cmd/roocc's -trace flag) that want to render the iteration
// sequence.
func SolveTrace(lm *linearizer.LinearModel, trace *[]simplex.StepAction) (solver.LpSolution, error) {
	return solver.AutoSolveTrace(lm, trace)
}

// CompileAndSolve runs the full pipeline end to end: parse, type-check,
// transform, linearize, and solve. fns supplies any user-defined functions
// referenced by source; pass functions.NewMap() for none. A syntax or
// type error returns its CompilationErrors; any later-stage failure
// returns a single error value (TransformError, LinearizationError, or
// SolverError).
func CompileAndSolve(source string, fns *functions.Map) (solver.LpSolution, []errs.CompilationError, error) {
	prob, perrs := Parse(source)
	if len(perrs) > 0 {
		return solver.LpSolution{}, perrs, nil
	}
	if cerrs := TypeCheck(prob, fns); len(cerrs) > 0 {
		return solver.LpSolution{}, cerrs, nil
	}
	model, err := Transform(prob, fns)
	if err != nil {
		return solver.LpSolution{}, nil, err
	}
	lm, err := Linearize(model)
	if err != nil {
		return solver.LpSolution{}, nil, err
	}
	sol, err := Solve(lm)
	if err != nil {
		return solver.LpSolution{}, nil, err
	}
	return sol, nil, nil
}
