// Package solver dispatches a linearizer.LinearModel to the back-end best
// suited to its variable domains, grounded on
// original_source/src/solvers/auto_solver.rs's has_binary/has_integer/
// has_real dispatch table: a continuous-only model goes straight to the
// simplex engine, anything with a Boolean or integer-ranged variable goes
// through branch-and-bound, and a model with no variables at all returns
// its constant objective directly.
package solver

import (
	"math"

	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/linearizer"
	"github.com/rooc-lang/rooc/internal/simplex"
	"github.com/rooc-lang/rooc/internal/transformer"
)

// ValueKind distinguishes the three shapes an Assignment's value can take,
// mirroring original_source's MILPValue enum.
type ValueKind int

const (
	BoolValue ValueKind = iota
	IntValue
	RealValue
)

// MILPValue is one decision variable's solved value, tagged by the domain
// it was declared with.
type MILPValue struct {
	Kind ValueKind
	Bool bool
	Int  int
	Real float64
}

// AsFloat returns the value as a plain float64 regardless of Kind, for
// callers that only need the number (objective recomputation, display).
func (v MILPValue) AsFloat() float64 {
	switch v.Kind {
	case BoolValue:
		if v.Bool {
			return 1
		}
		return 0
	case IntValue:
		return float64(v.Int)
	default:
		return v.Real
	}
}

// Assignment is one named variable's solved value.
type Assignment struct {
	Name  string
	Value MILPValue
}

// LpSolution is a complete solve result: every decision variable's value in
// VariableOrder order, plus the resulting objective value.
type LpSolution struct {
	Assignments []Assignment
	Value       float64
}

// maxBranchNodes bounds the branch-and-bound search tree; exceeding it
// surfaces as errs.NewIterationLimit() rather than running forever on a
// pathological MILP.
const maxBranchNodes = 20000

// AutoSolve picks and runs the appropriate back-end for lm.
func AutoSolve(lm *linearizer.LinearModel) (LpSolution, error) {
	return AutoSolveTrace(lm, nil)
}

// AutoSolveTrace is AutoSolve with an optional simplex pivot trace, used by
// cmd/roocc's -trace flag. For the branch-and-bound back-ends only the root
// relaxation's pivots are recorded — per-node traces would interleave
// unreadably, so the trace is scoped to the single real-LP back-end's
// natural use case and the MILP root bound.
func AutoSolveTrace(lm *linearizer.LinearModel, trace *[]simplex.StepAction) (LpSolution, error) {
	hasBinary, hasInteger, hasReal := scanDomains(lm)
	switch {
	case !hasBinary && !hasInteger && !hasReal:
		return LpSolution{Value: lm.ObjectiveConstant}, nil
	case !hasBinary && !hasInteger && hasReal:
		return solveReal(lm, trace)
	default:
		return solveBranchAndBound(lm, trace)
	}
}

func scanDomains(lm *linearizer.LinearModel) (hasBinary, hasInteger, hasReal bool) {
	for _, name := range lm.VariableOrder {
		switch lm.Variables[name].Kind {
		case transformer.DomainBoolean:
			hasBinary = true
		case transformer.DomainIntegerRange:
			hasInteger = true
		default:
			hasReal = true
		}
	}
	return
}

func varBounds(lm *linearizer.LinearModel) []simplex.VarBound {
	bounds := make([]simplex.VarBound, len(lm.VariableOrder))
	for i, name := range lm.VariableOrder {
		dom := lm.Variables[name]
		switch dom.Kind {
		case transformer.DomainBoolean:
			bounds[i] = simplex.VarBound{Lo: 0, Hi: 1}
		case transformer.DomainIntegerRange:
			bounds[i] = simplex.VarBound{Lo: dom.Lo, Hi: dom.Hi}
		case transformer.DomainReal:
			bounds[i] = simplex.VarBound{Lo: math.Inf(-1), Hi: math.Inf(1)}
		default: // DomainNonNegativeReal
			bounds[i] = simplex.VarBound{Lo: 0, Hi: math.Inf(1)}
		}
	}
	return bounds
}

func simplexRows(lm *linearizer.LinearModel) []simplex.Row {
	rows := make([]simplex.Row, len(lm.Constraints))
	for i, c := range lm.Constraints {
		rows[i] = simplex.Row{Coeffs: c.Coeffs, Cmp: c.Cmp, Rhs: c.Rhs}
	}
	return rows
}

func solveReal(lm *linearizer.LinearModel, trace *[]simplex.StepAction) (LpSolution, error) {
	res, err := simplex.Solve(lm.ObjectiveCoeffs, lm.Direction, varBounds(lm), simplexRows(lm), 1000, trace)
	if err != nil {
		return LpSolution{}, err
	}
	return toSolution(lm, res), nil
}

// bbNode is one open branch: its variable bounds plus its already-solved LP
// relaxation, kept together so the best-first queue can pick the most
// promising node without re-solving.
type bbNode struct {
	bounds []simplex.VarBound
	res    simplex.Result
	full   float64 // res.Value + lm.ObjectiveConstant
}

// solveBranchAndBound runs branch-and-bound over the LP relaxation: a
// best-first queue ordered by each open node's relaxed bound, pruning any
// node whose bound can't beat the best integral solution found so far, and
// branching on the relaxation's most-fractional variable, per the MILP
// back-end described in SPEC_FULL.md §4.6.
func solveBranchAndBound(lm *linearizer.LinearModel, trace *[]simplex.StepAction) (LpSolution, error) {
	rows := simplexRows(lm)
	integral := make([]bool, len(lm.VariableOrder))
	for i, name := range lm.VariableOrder {
		k := lm.Variables[name].Kind
		integral[i] = k == transformer.DomainBoolean || k == transformer.DomainIntegerRange
	}

	sense := 1.0
	if lm.Direction == ast.Max {
		sense = -1.0
	}

	solveNode := func(bounds []simplex.VarBound, nodeTrace *[]simplex.StepAction) (*bbNode, error) {
		res, err := simplex.Solve(lm.ObjectiveCoeffs, lm.Direction, bounds, rows, 1000, nodeTrace)
		if err != nil {
			return nil, err
		}
		return &bbNode{bounds: bounds, res: res, full: res.Value + lm.ObjectiveConstant}, nil
	}

	root, err := solveNode(varBounds(lm), trace)
	if err != nil {
		return LpSolution{}, err // root relaxation infeasible/unbounded binds the whole problem
	}

	var best *simplex.Result
	var bestValue float64

	open := []*bbNode{root}
	nodes := 0
	for len(open) > 0 {
		nodes++
		if nodes > maxBranchNodes {
			return LpSolution{}, errs.NewIterationLimit()
		}

		bestIdx := 0
		for i, n := range open {
			if sense*n.full < sense*open[bestIdx].full {
				bestIdx = i
			}
		}
		n := open[bestIdx]
		open = append(open[:bestIdx], open[bestIdx+1:]...)

		if best != nil && sense*n.full >= sense*bestValue-simplex.Epsilon {
			continue // this node's bound can't beat the incumbent even if fully integral
		}

		fracIdx, fracDist := -1, -1.0
		for i, isInt := range integral {
			if !isInt {
				continue
			}
			v := n.res.Assignment[i]
			d := math.Abs(v - math.Round(v))
			if d > simplex.Epsilon && d > fracDist {
				fracIdx, fracDist = i, d
			}
		}

		if fracIdx < 0 {
			r := n.res
			best = &r
			bestValue = n.full
			continue
		}

		v := n.res.Assignment[fracIdx]
		lowerBounds := append([]simplex.VarBound(nil), n.bounds...)
		lowerBounds[fracIdx] = simplex.VarBound{Lo: n.bounds[fracIdx].Lo, Hi: math.Floor(v)}
		upperBounds := append([]simplex.VarBound(nil), n.bounds...)
		upperBounds[fracIdx] = simplex.VarBound{Lo: math.Ceil(v), Hi: n.bounds[fracIdx].Hi}

		if child, err := solveNode(lowerBounds, nil); err == nil {
			open = append(open, child)
		}
		if child, err := solveNode(upperBounds, nil); err == nil {
			open = append(open, child)
		}
	}

	if best == nil {
		return LpSolution{}, errs.NewInfeasible()
	}
	return toSolution(lm, *best), nil
}

func toSolution(lm *linearizer.LinearModel, res simplex.Result) LpSolution {
	assignments := make([]Assignment, len(lm.VariableOrder))
	for i, name := range lm.VariableOrder {
		v := res.Assignment[i]
		switch lm.Variables[name].Kind {
		case transformer.DomainBoolean:
			assignments[i] = Assignment{Name: name, Value: MILPValue{Kind: BoolValue, Bool: math.Round(v) >= 1}}
		case transformer.DomainIntegerRange:
			assignments[i] = Assignment{Name: name, Value: MILPValue{Kind: IntValue, Int: int(math.Round(v))}}
		default:
			assignments[i] = Assignment{Name: name, Value: MILPValue{Kind: RealValue, Real: v}}
		}
	}
	return LpSolution{Assignments: assignments, Value: res.Value + lm.ObjectiveConstant}
}
