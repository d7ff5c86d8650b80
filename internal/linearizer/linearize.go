package linearizer

import (
	"fmt"

	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/transformer"
)

// rawConstraint is a Left Cmp Right relation between two still-symbolic
// linear Exps, produced either directly from the Model or by one of the
// lifting rules below, before being reduced to a dense LinearConstraint.
type rawConstraint struct {
	Left  transformer.Exp
	Cmp   ast.Comparison
	Right transformer.Exp
}

// auxCounter names auxiliary variables deterministically (__aux_<kind>_<n>)
// and registers each one into the LinearModel being built, in the order
// they're introduced, per spec.md §4.4.
type auxCounter struct{ n int }

func (a *auxCounter) next(kind string, lm *LinearModel) transformer.Exp {
	name := fmt.Sprintf("__aux_%s_%d", kind, a.n)
	a.n++
	lm.VariableOrder = append(lm.VariableOrder, name)
	// Auxiliary variables get an unbounded real domain; inferring tighter
	// bounds from the lifted operands is not attempted (see DESIGN.md).
	lm.Variables[name] = transformer.VariableDomain{Kind: transformer.DomainReal}
	return transformer.VariableExp(name)
}

// Linearize reduces m to a LinearModel by lifting every |·|/min/max
// occurrence at the root of the objective or a constraint side into an
// auxiliary variable plus the rewrite rules' generated constraints, then
// collecting every resulting expression into Σ cᵢ·xᵢ + k form.
func Linearize(m *transformer.Model) (*LinearModel, error) {
	lm := &LinearModel{
		Direction:     m.Direction,
		VariableOrder: append([]string(nil), m.VariableOrder...),
		Variables:     make(map[string]transformer.VariableDomain, len(m.Domains)),
	}
	for name, dom := range m.Domains {
		lm.Variables[name] = dom
	}
	aux := &auxCounter{}

	var raw []rawConstraint

	objLifted, objExtra, err := liftObjective(m.Objective, aux, lm)
	if err != nil {
		return nil, err
	}
	raw = append(raw, objExtra...)

	for _, c := range m.Constraints {
		cs, err := liftConstraint(c, aux, lm)
		if err != nil {
			return nil, err
		}
		raw = append(raw, cs...)
	}

	n := len(lm.VariableOrder)

	objCoeffs, objConstant, err := collectLinear(objLifted, lm, n)
	if err != nil {
		return nil, err
	}
	lm.ObjectiveCoeffs = objCoeffs
	lm.ObjectiveConstant = objConstant

	lm.Constraints = make([]LinearConstraint, 0, len(raw))
	for _, rc := range raw {
		lCoeffs, lConstant, err := collectLinear(rc.Left, lm, n)
		if err != nil {
			return nil, err
		}
		rCoeffs, rConstant, err := collectLinear(rc.Right, lm, n)
		if err != nil {
			return nil, err
		}
		coeffs := make([]float64, n)
		for i := range coeffs {
			coeffs[i] = lCoeffs[i] - rCoeffs[i]
		}
		lm.Constraints = append(lm.Constraints, LinearConstraint{
			Coeffs: coeffs,
			Cmp:    rc.Cmp,
			Rhs:    rConstant - lConstant,
		})
	}

	return lm, nil
}

func isNonlinearRoot(e transformer.Exp) bool {
	return e.Kind == transformer.ExpMod || e.Kind == transformer.ExpMin || e.Kind == transformer.ExpMax
}

func flipCmp(c ast.Comparison) ast.Comparison {
	switch c {
	case ast.LowerOrEqual:
		return ast.UpperOrEqual
	case ast.UpperOrEqual:
		return ast.LowerOrEqual
	default:
		return ast.Equal
	}
}

// liftObjective handles the two worked shapes of a |·|/min/max appearing as
// the objective's own root: the function's epigraph (abs, max) or hypograph
// (min) form, with the fresh auxiliary variable standing in as the
// objective itself. Any other objective shape passes through unchanged,
// left for collectLinear to accept or reject.
func liftObjective(e transformer.Exp, aux *auxCounter, lm *LinearModel) (transformer.Exp, []rawConstraint, error) {
	switch e.Kind {
	case transformer.ExpMod:
		t := aux.next("abs", lm)
		operand := *e.Operand
		return t, []rawConstraint{
			{Left: operand, Cmp: ast.LowerOrEqual, Right: t},
			{Left: transformer.NegExp(operand), Cmp: ast.LowerOrEqual, Right: t},
		}, nil

	case transformer.ExpMin:
		t := aux.next("min", lm)
		cs := make([]rawConstraint, len(e.Operands))
		for i, op := range e.Operands {
			cs[i] = rawConstraint{Left: t, Cmp: ast.LowerOrEqual, Right: op}
		}
		return t, cs, nil

	case transformer.ExpMax:
		t := aux.next("max", lm)
		cs := make([]rawConstraint, len(e.Operands))
		for i, op := range e.Operands {
			cs[i] = rawConstraint{Left: op, Cmp: ast.LowerOrEqual, Right: t}
		}
		return t, cs, nil

	default:
		return e, nil, nil
	}
}

// liftConstraint applies the rewrite rules to one Model constraint. A
// |·|/min/max root is expected on one side only; if it's on the right, the
// relation is flipped so the lifting logic always sees it on the left.
func liftConstraint(c transformer.Constraint, aux *auxCounter, lm *LinearModel) ([]rawConstraint, error) {
	left, right, cmp := c.Left, c.Right, c.Cmp
	if isNonlinearRoot(right) && !isNonlinearRoot(left) {
		left, right = right, left
		cmp = flipCmp(cmp)
	}

	switch left.Kind {
	case transformer.ExpMod:
		return liftAbsConstraint(left, cmp, right)
	case transformer.ExpMin:
		return liftMinConstraint(left, cmp, right, aux, lm)
	case transformer.ExpMax:
		return liftMaxConstraint(left, cmp, right, aux, lm)
	default:
		if isNonlinearRoot(right) {
			return nil, errs.NewUnsupportedConstruct("both sides of a constraint cannot be a |·|/min/max expression")
		}
		return []rawConstraint{{Left: left, Cmp: cmp, Right: right}}, nil
	}
}

// |e| ≤ b ⇒ e ≤ b ∧ -e ≤ b, no auxiliary needed. |e| ≥ b and |e| = b are
// rejected: both require a disjunction to express exactly, which has no
// purely linear form.
func liftAbsConstraint(left transformer.Exp, cmp ast.Comparison, right transformer.Exp) ([]rawConstraint, error) {
	if cmp != ast.LowerOrEqual {
		return nil, errs.NewNotLinear("absolute value can only be linearized against a '<=' bound")
	}
	operand := *left.Operand
	return []rawConstraint{
		{Left: operand, Cmp: ast.LowerOrEqual, Right: right},
		{Left: transformer.NegExp(operand), Cmp: ast.LowerOrEqual, Right: right},
	}, nil
}

// min(e₁…eₙ) ≤ b ⇒ e₁ ≤ b ∧ … ∧ eₙ ≤ b, no auxiliary. min(e₁…eₙ) ≥ b
// introduces t with t ≤ eᵢ for each i, then asserts t ≥ b.
func liftMinConstraint(left transformer.Exp, cmp ast.Comparison, right transformer.Exp, aux *auxCounter, lm *LinearModel) ([]rawConstraint, error) {
	switch cmp {
	case ast.LowerOrEqual:
		cs := make([]rawConstraint, len(left.Operands))
		for i, op := range left.Operands {
			cs[i] = rawConstraint{Left: op, Cmp: ast.LowerOrEqual, Right: right}
		}
		return cs, nil
	case ast.UpperOrEqual:
		t := aux.next("min", lm)
		cs := make([]rawConstraint, 0, len(left.Operands)+1)
		for _, op := range left.Operands {
			cs = append(cs, rawConstraint{Left: t, Cmp: ast.LowerOrEqual, Right: op})
		}
		cs = append(cs, rawConstraint{Left: t, Cmp: ast.UpperOrEqual, Right: right})
		return cs, nil
	default:
		return nil, errs.NewNotLinear("min() can only be linearized against a '<=' or '>=' bound")
	}
}

// max(e₁…eₙ) ≥ b ⇒ e₁ ≥ b ∧ … ∧ eₙ ≥ b, symmetric to min's '<=' case.
// max(e₁…eₙ) ≤ b introduces t with t ≥ eᵢ for each i, then asserts t ≤ b.
func liftMaxConstraint(left transformer.Exp, cmp ast.Comparison, right transformer.Exp, aux *auxCounter, lm *LinearModel) ([]rawConstraint, error) {
	switch cmp {
	case ast.UpperOrEqual:
		cs := make([]rawConstraint, len(left.Operands))
		for i, op := range left.Operands {
			cs[i] = rawConstraint{Left: op, Cmp: ast.UpperOrEqual, Right: right}
		}
		return cs, nil
	case ast.LowerOrEqual:
		t := aux.next("max", lm)
		cs := make([]rawConstraint, 0, len(left.Operands)+1)
		for _, op := range left.Operands {
			cs = append(cs, rawConstraint{Left: op, Cmp: ast.LowerOrEqual, Right: t})
		}
		cs = append(cs, rawConstraint{Left: t, Cmp: ast.LowerOrEqual, Right: right})
		return cs, nil
	default:
		return nil, errs.NewNotLinear("max() can only be linearized against a '<=' or '>=' bound")
	}
}

// collectLinear reduces e — which must now be a pure linear combination, any
// |·|/min/max root already having been lifted away — to a dense coefficient
// vector of length n aligned with lm.VariableOrder, plus a constant term.
func collectLinear(e transformer.Exp, lm *LinearModel, n int) ([]float64, float64, error) {
	coeffs := make([]float64, n)
	constant, err := addLinear(e, 1, coeffs, lm)
	if err != nil {
		return nil, 0, err
	}
	return coeffs, constant, nil
}

func addLinear(e transformer.Exp, scale float64, coeffs []float64, lm *LinearModel) (float64, error) {
	switch e.Kind {
	case transformer.ExpNumber:
		return scale * e.Number, nil

	case transformer.ExpVariable:
		idx := lm.IndexOf(e.Variable)
		if idx < 0 {
			return 0, errs.NewUnsupportedConstruct(fmt.Sprintf("unknown variable %q in linear expression", e.Variable))
		}
		coeffs[idx] += scale
		return 0, nil

	case transformer.ExpNeg:
		return addLinear(*e.Operand, -scale, coeffs, lm)

	case transformer.ExpAdd:
		var constant float64
		for _, t := range e.Terms {
			c, err := addLinear(t, scale, coeffs, lm)
			if err != nil {
				return 0, err
			}
			constant += c
		}
		return constant, nil

	case transformer.ExpMul:
		l, r := *e.Left, *e.Right
		switch {
		case l.IsConstant():
			return addLinear(r, scale*l.Number, coeffs, lm)
		case r.IsConstant():
			return addLinear(l, scale*r.Number, coeffs, lm)
		default:
			return 0, errs.NewNotLinear("product of two non-constant expressions is not linear")
		}

	case transformer.ExpDiv:
		r := *e.Right
		if !r.IsConstant() {
			return 0, errs.NewNotLinear("division by a non-constant expression is not linear")
		}
		if r.Number == 0 {
			return 0, errs.NewUnsupportedConstruct("division by zero")
		}
		return addLinear(*e.Left, scale/r.Number, coeffs, lm)

	case transformer.ExpMod, transformer.ExpMin, transformer.ExpMax:
		return 0, errs.NewUnsupportedConstruct("|·|/min/max expression not in a directly liftable position")

	default:
		return 0, errs.NewUnsupportedConstruct("unrecognized expression shape")
	}
}
