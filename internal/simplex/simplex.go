// Package simplex implements a from-scratch, single-phase Big-M dense-tableau
// simplex method over a bounded-variable linear program, grounded on the
// method taught in any standard operations-research text and on the
// termination/trace vocabulary of
// original_source/src/solvers/simplex/simplex_enums.rs (StepAction,
// SimplexError).
package simplex

import (
	"math"

	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/numeric"
)

// Epsilon is the single centralized tolerance used for equality and
// near-zero tests throughout the solver stages, per spec.md §9.
const Epsilon = numeric.Epsilon

// bigM is the penalty coefficient applied to artificial variables in the
// phase-one objective row; large enough to dominate any reduced cost this
// solver's problems produce, driving artificials out of the basis whenever
// a feasible solution exists.
const bigM = 1e7

// degeneracyWindow is how many consecutive pivots with an unchanged
// objective value trigger the switch from Dantzig's rule to Bland's rule,
// the standard anti-cycling fallback.
const degeneracyWindow = 10

// StepAction is one event of the pivot trace, optionally recorded for
// callers that want to render the iteration sequence (cmd/roocc's -trace
// flag reads this).
type StepAction struct {
	Pivot    bool
	Entering int
	Leaving  int
	Ratio    float64
	Finished bool
}

// VarBound is a structural variable's feasible range. Lo/Hi may be
// math.Inf(-1)/math.Inf(1) for an unbounded side.
type VarBound struct {
	Lo, Hi float64
}

// Row is one constraint in the caller's original variable numbering, before
// the bound-shift/split Solve performs internally to reach the standard
// x >= 0 form the tableau needs.
type Row struct {
	Coeffs []float64
	Cmp    ast.Comparison
	Rhs    float64
}

// Result is a found optimum, with Assignment aligned to the caller's
// original variable numbering (not the internal shifted/split columns).
type Result struct {
	Assignment []float64
	Value      float64
}

// column describes how one original variable maps to the tableau's
// structural columns.
type column struct {
	shift    float64 // x = shift + sign*y  (single-column case)
	sign     float64
	plusCol  int // index of y+ column
	minusCol int // index of y- column, -1 if this variable isn't split
}

// Solve runs Big-M simplex on minimize/maximize objCoeffs·x subject to rows
// and per-variable bounds. iterLimit bounds the total pivot count (this
// implementation runs a single Big-M phase rather than a separate
// phase-one/phase-two pass). trace, if non-nil, is
// appended one StepAction per pivot plus a final StepAction{Finished:true}.
func Solve(objCoeffs []float64, dir ast.OptimizationType, bounds []VarBound, rows []Row, iterLimit int, trace *[]StepAction) (Result, error) {
	n := len(objCoeffs)
	cols := make([]column, n)
	numStructural := 0
	for i, b := range bounds {
		switch {
		case b.Lo == 0 && math.IsInf(b.Hi, 1):
			cols[i] = column{shift: 0, sign: 1, plusCol: numStructural, minusCol: -1}
			numStructural++
		case math.IsInf(b.Lo, -1) && math.IsInf(b.Hi, 1):
			cols[i] = column{shift: 0, sign: 1, plusCol: numStructural, minusCol: numStructural + 1}
			numStructural += 2
		case math.IsInf(b.Lo, -1):
			// Bounded above only: z = hi - x, z >= 0.
			cols[i] = column{shift: b.Hi, sign: -1, plusCol: numStructural, minusCol: -1}
			numStructural++
		default:
			// Bounded below (finite lo); shift y = x - lo, y >= 0, with an
			// extra y <= hi-lo row appended below when hi is finite.
			cols[i] = column{shift: b.Lo, sign: 1, plusCol: numStructural, minusCol: -1}
			numStructural++
		}
	}

	var stdRows []Row
	for _, r := range rows {
		nc := make([]float64, numStructural)
		rhs := r.Rhs
		for i, c := range r.Coeffs {
			if c == 0 {
				continue
			}
			rhs -= c * cols[i].shift
			nc[cols[i].plusCol] += c * cols[i].sign
			if cols[i].minusCol >= 0 {
				nc[cols[i].minusCol] += -c * cols[i].sign
			}
		}
		stdRows = append(stdRows, Row{Coeffs: nc, Cmp: r.Cmp, Rhs: rhs})
	}
	for i, b := range bounds {
		if !math.IsInf(b.Hi, 1) && !math.IsInf(b.Lo, -1) {
			nc := make([]float64, numStructural)
			nc[cols[i].plusCol] = 1
			stdRows = append(stdRows, Row{Coeffs: nc, Cmp: ast.LowerOrEqual, Rhs: b.Hi - b.Lo})
		}
	}

	objConstant := 0.0
	internalCost := make([]float64, numStructural)
	sense := 1.0
	if dir == ast.Max {
		sense = -1.0
	}
	for i, c := range objCoeffs {
		if c == 0 {
			continue
		}
		objConstant += c * cols[i].shift
		internalCost[cols[i].plusCol] += sense * c * cols[i].sign
		if cols[i].minusCol >= 0 {
			internalCost[cols[i].minusCol] += -sense * c * cols[i].sign
		}
	}

	tab, artificialCols, basis := buildTableau(stdRows, internalCost, numStructural)

	result, err := runSimplex(tab, basis, artificialCols, iterLimit, trace)
	if err != nil {
		return Result{}, err
	}

	x := make([]float64, n)
	for i := range x {
		c := cols[i]
		plus := result.columnValue(c.plusCol)
		if c.minusCol >= 0 {
			x[i] = c.shift + c.sign*(plus-result.columnValue(c.minusCol))
		} else {
			x[i] = c.shift + c.sign*plus
		}
	}

	value := objConstant
	for i, c := range objCoeffs {
		value += c * x[i]
	}

	return Result{Assignment: x, Value: value}, nil
}

// tableau is the dense Big-M simplex matrix: rows+1 rows (last is the
// objective row) by cols+1 columns (last is the RHS).
type tableau struct {
	rows int
	cols int
	data [][]float64 // len rows+1, each len cols+1
}

func (t *tableau) rhs(row int) float64         { return t.data[row][t.cols] }
func (t *tableau) at(row, col int) float64     { return t.data[row][col] }
func (t *tableau) set(row, col int, v float64) { t.data[row][col] = v }

func buildTableau(rows []Row, cost []float64, numStructural int) (*tableau, map[int]bool, []int) {
	// Column layout: [structural | slack/surplus (one per row) | artificial (one per GE/EQ row)].
	numRows := len(rows)
	slackBase := numStructural
	artBase := numStructural + numRows
	numArt := 0
	for _, r := range rows {
		cmp := r.Cmp
		if r.Rhs < 0 {
			cmp = flip(cmp)
		}
		if cmp != ast.LowerOrEqual {
			numArt++
		}
	}
	totalCols := artBase + numArt

	tab := &tableau{rows: numRows, cols: totalCols}
	tab.data = make([][]float64, numRows+1)
	for i := range tab.data {
		tab.data[i] = make([]float64, totalCols+1)
	}

	basis := make([]int, numRows)
	artificialCols := make(map[int]bool, numArt)
	artCursor := artBase

	for i, r := range rows {
		rhs := r.Rhs
		cmp := r.Cmp
		sign := 1.0
		if rhs < 0 {
			sign = -1
			rhs = -rhs
			cmp = flip(cmp)
		}
		for j, c := range r.Coeffs {
			tab.set(i, j, sign*c)
		}
		tab.set(i, totalCols, rhs)

		switch cmp {
		case ast.LowerOrEqual:
			tab.set(i, slackBase+i, 1)
			basis[i] = slackBase + i
		case ast.UpperOrEqual:
			tab.set(i, slackBase+i, -1)
			tab.set(i, artCursor, 1)
			basis[i] = artCursor
			artificialCols[artCursor] = true
			artCursor++
		default: // Equal
			tab.set(i, artCursor, 1)
			basis[i] = artCursor
			artificialCols[artCursor] = true
			artCursor++
		}
	}

	for j := 0; j < numStructural; j++ {
		tab.data[numRows][j] = cost[j]
	}
	for col := range artificialCols {
		tab.data[numRows][col] = bigM
	}
	// Eliminate artificial/basis columns from the objective row so it holds
	// true reduced costs, per the standard Big-M setup.
	for i := 0; i < numRows; i++ {
		basisCost := tab.data[numRows][basis[i]]
		if basisCost == 0 {
			continue
		}
		for j := 0; j <= totalCols; j++ {
			tab.data[numRows][j] -= basisCost * tab.at(i, j)
		}
	}

	return tab, artificialCols, basis
}

func flip(c ast.Comparison) ast.Comparison {
	switch c {
	case ast.LowerOrEqual:
		return ast.UpperOrEqual
	case ast.UpperOrEqual:
		return ast.LowerOrEqual
	default:
		return ast.Equal
	}
}

type tableauResult struct {
	tab   *tableau
	basis []int
}

func (r tableauResult) columnValue(col int) float64 {
	if col < 0 {
		return 0
	}
	for i, b := range r.basis {
		if b == col {
			return r.tab.rhs(i)
		}
	}
	return 0
}

func runSimplex(tab *tableau, basis []int, artificialCols map[int]bool, iterLimit int, trace *[]StepAction) (tableauResult, error) {
	lastObj := math.NaN()
	degenerateStreak := 0
	usingBland := false

	for iter := 0; ; iter++ {
		if iter >= iterLimit {
			return tableauResult{}, errs.NewIterationLimit()
		}

		entering := -1
		if usingBland {
			for j := 0; j < tab.cols; j++ {
				if tab.at(tab.rows, j) < -Epsilon {
					entering = j
					break
				}
			}
		} else {
			best := -Epsilon
			for j := 0; j < tab.cols; j++ {
				v := tab.at(tab.rows, j)
				if v < best {
					best = v
					entering = j
				}
			}
		}
		if entering < 0 {
			break // optimal
		}

		leaving := -1
		bestRatio := math.Inf(1)
		for i := 0; i < tab.rows; i++ {
			a := tab.at(i, entering)
			if a <= Epsilon {
				continue
			}
			ratio := tab.rhs(i) / a
			if ratio < bestRatio-Epsilon ||
				(ratio < bestRatio+Epsilon && (leaving < 0 || basis[i] < basis[leaving])) {
				bestRatio = ratio
				leaving = i
			}
		}
		if leaving < 0 {
			return tableauResult{}, errs.NewUnbounded()
		}

		pivot(tab, leaving, entering)
		basis[leaving] = entering

		if trace != nil {
			*trace = append(*trace, StepAction{Pivot: true, Entering: entering, Leaving: leaving, Ratio: bestRatio})
		}

		obj := tab.at(tab.rows, tab.cols)
		if !math.IsNaN(lastObj) && math.Abs(obj-lastObj) < Epsilon {
			degenerateStreak++
		} else {
			degenerateStreak = 0
		}
		lastObj = obj
		if degenerateStreak >= degeneracyWindow {
			usingBland = true
		}
	}

	if trace != nil {
		*trace = append(*trace, StepAction{Finished: true})
	}

	for i, b := range basis {
		if artificialCols[b] && tab.rhs(i) > Epsilon {
			return tableauResult{}, errs.NewInfeasible()
		}
	}

	return tableauResult{tab: tab, basis: basis}, nil
}

func pivot(tab *tableau, row, col int) {
	p := tab.at(row, col)
	for j := 0; j <= tab.cols; j++ {
		tab.data[row][j] /= p
	}
	for i := 0; i <= tab.rows; i++ {
		if i == row {
			continue
		}
		factor := tab.at(i, col)
		if factor == 0 {
			continue
		}
		for j := 0; j <= tab.cols; j++ {
			tab.data[i][j] -= factor * tab.data[row][j]
		}
	}
}
