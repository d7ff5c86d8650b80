// Package linearizer rewrites a transformer.Model — whose objective and
// constraints may contain |·|, min, max, and constant-side products and
// quotients — into a LinearModel restricted to Σ cᵢ·xᵢ (≤|≥|=) b, following
// the four rewrite rules stated in original_source/src/linearizer.rs's doc
// comment: absolute value, min, max, and constant products/quotients.
package linearizer

import (
	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/transformer"
)

// LinearModel is a Model reduced to dense coefficient-vector form. Variable
// order is inherited from the transformer.Model plus any auxiliary variables
// introduced during linearization, appended in the order they were created.
type LinearModel struct {
	Direction         ast.OptimizationType
	VariableOrder     []string
	Variables         map[string]transformer.VariableDomain
	ObjectiveCoeffs   []float64 // dense, aligned with VariableOrder
	ObjectiveConstant float64
	Constraints       []LinearConstraint
}

// LinearConstraint is one row of the linear system: a dense coefficient
// vector aligned with LinearModel.VariableOrder, a comparison, and a
// constant right-hand side (constants from both original sides are folded
// into this single Rhs value).
type LinearConstraint struct {
	Coeffs []float64
	Cmp    ast.Comparison
	Rhs    float64
}

// IndexOf returns the coefficient-vector position of name, or -1.
func (lm *LinearModel) IndexOf(name string) int {
	for i, n := range lm.VariableOrder {
		if n == name {
			return i
		}
	}
	return -1
}
