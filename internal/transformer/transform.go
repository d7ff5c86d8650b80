package transformer

import (
	"fmt"

	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/functions"
	"github.com/rooc-lang/rooc/internal/primitives"
)

// Transform evaluates a type-checked PreProblem into a Model: `where`
// bindings are resolved into constant Primitives and seeded into a fresh
// Context, `define` domain declarations are expanded into per-variable
// VariableDomain entries, and the objective/constraints are lowered to
// symbolic, flattened Exp trees over decision variables.
func Transform(prob *ast.PreProblem, fns *functions.Map) (*Model, error) {
	ctx := NewContext(fns)

	for _, b := range prob.Bindings {
		val, err := evalToPrimitive(b.Value, ctx)
		if err != nil {
			return nil, errs.WithSpan(err, b.Sp)
		}
		ctx.DeclareVariable(b.Name, val)
	}

	model := &Model{
		Direction: prob.Direction,
		Domains:   map[string]VariableDomain{},
	}

	for _, d := range prob.Domains {
		if err := expandDomainDecl(d, ctx, model); err != nil {
			return nil, errs.WithSpan(err, d.Sp)
		}
	}

	objExp, err := evalToExp(prob.Objective, ctx)
	if err != nil {
		return nil, errs.WithSpan(err, prob.Objective.Span())
	}
	model.Objective = Flatten(objExp)

	for _, con := range prob.Constraints {
		cs, err := expandConstraint(con, ctx)
		if err != nil {
			return nil, errs.WithSpan(err, con.Sp)
		}
		model.Constraints = append(model.Constraints, cs...)
	}

	model.VariableOrder = ctx.VariableOrder()
	for _, name := range model.VariableOrder {
		if _, ok := model.Domains[name]; !ok {
			model.Domains[name] = VariableDomain{Kind: DomainNonNegativeReal}
		}
	}

	return model, nil
}

// expandConstraint resolves a (possibly quantified) constraint into one
// Constraint per combination of its quantifier sets' values — an unquantified
// constraint is the degenerate case of a single combination.
func expandConstraint(con ast.Constraint, ctx *Context) ([]Constraint, error) {
	return resolveSets(con.Sets, ctx, 0, func(c *Context) (Constraint, error) {
		l, err := evalToExp(con.Left, c)
		if err != nil {
			return Constraint{}, errs.WithSpan(err, con.Left.Span())
		}
		r, err := evalToExp(con.Right, c)
		if err != nil {
			return Constraint{}, errs.WithSpan(err, con.Right.Span())
		}
		return Constraint{Left: Flatten(l), Cmp: con.Cmp, Right: Flatten(r)}, nil
	})
}

// expandDomainDecl records a VariableDomain for every name in d.Names, for
// every combination of d.Sets' values when the declaration is quantified
// (e.g. `x_i as Boolean for i in 0..n`, where the flattened per-i name is
// what actually appears in the objective/constraints).
func expandDomainDecl(d ast.DomainDecl, ctx *Context, model *Model) error {
	var lo, hi float64
	if d.Kind == ast.DomainIntegerRange {
		loVal, err := evalToPrimitive(d.Lo, ctx)
		if err != nil {
			return err
		}
		loN, ok := primitives.AsNumber(loVal)
		if !ok {
			return errs.NewWrongType("Number", loVal.Kind().String())
		}
		hiVal, err := evalToPrimitive(d.Hi, ctx)
		if err != nil {
			return err
		}
		hiN, ok := primitives.AsNumber(hiVal)
		if !ok {
			return errs.NewWrongType("Number", hiVal.Kind().String())
		}
		lo, hi = loN.Float(), hiN.Float()
	}

	domain := VariableDomain{Kind: domainKindOf(d.Kind), Lo: lo, Hi: hi}

	if len(d.Sets) == 0 {
		for _, nameExpr := range d.Names {
			name, err := flattenedNameOf(nameExpr, ctx)
			if err != nil {
				return err
			}
			model.Domains[name] = domain
		}
		return nil
	}

	_, err := resolveSets(d.Sets, ctx, 0, func(c *Context) (struct{}, error) {
		for _, nameExpr := range d.Names {
			name, err := flattenedNameOf(nameExpr, c)
			if err != nil {
				return struct{}{}, err
			}
			model.Domains[name] = domain
		}
		return struct{}{}, nil
	})
	return err
}

// flattenedNameOf resolves a domain declaration's name entry (a bare
// Variable or a CompoundVariable indexed by some subset of the enclosing
// quantifier's induction variables) to the same flattened decision-variable
// name a reference to it produces in the objective/constraints, reusing
// flattenCompoundName so the two stay in lockstep regardless of how many of
// the quantifier's own induction variables the declared name actually uses.
func flattenedNameOf(e ast.PreExp, ctx *Context) (string, error) {
	switch v := e.(type) {
	case *ast.Variable:
		return v.Name, nil
	case *ast.CompoundVariable:
		return flattenCompoundName(v, ctx)
	default:
		return "", errs.NewUnimplemented(fmt.Sprintf("invalid domain declaration name %T", e))
	}
}

func domainKindOf(k ast.DomainKind) DomainKind {
	switch k {
	case ast.DomainBoolean:
		return DomainBoolean
	case ast.DomainReal:
		return DomainReal
	case ast.DomainIntegerRange:
		return DomainIntegerRange
	default:
		return DomainNonNegativeReal
	}
}
