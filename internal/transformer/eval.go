package transformer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/functions"
	"github.com/rooc-lang/rooc/internal/primitives"
)

// evalToPrimitive evaluates e to a fully-constant Primitive: array data,
// function arguments, quantifier bounds, domain bounds. Any reference to an
// undeclared identifier here is a decision variable used where only
// constant data is allowed, which is an error at this stage (the type
// checker permits it as *numeric*, but the transformer cannot fold it to a
// value).
func evalToPrimitive(e ast.PreExp, ctx *Context) (primitives.Primitive, error) {
	switch v := e.(type) {
	case *ast.NumberLit:
		return primitives.Number(v.Value), nil
	case *ast.StringLit:
		return primitives.String(v.Value), nil
	case *ast.BoolLit:
		return primitives.Boolean(v.Value), nil

	case *ast.Variable:
		if val, ok := ctx.GetValue(v.Name); ok {
			return val, nil
		}
		return nil, errs.NewMissingVariable(v.Name)

	case *ast.TupleLit:
		vals := make([]primitives.Primitive, len(v.Elements))
		for i, el := range v.Elements {
			p, err := evalToPrimitive(el, ctx)
			if err != nil {
				return nil, errs.WithSpan(err, el.Span())
			}
			vals[i] = p
		}
		return primitives.NewTuple(vals...), nil

	case *ast.ArrayLit:
		vals := make([]primitives.Primitive, len(v.Elements))
		var elemKind primitives.KindInfo
		for i, el := range v.Elements {
			p, err := evalToPrimitive(el, ctx)
			if err != nil {
				return nil, errs.WithSpan(err, el.Span())
			}
			vals[i] = p
			if i == 0 {
				elemKind = p.Kind()
			}
		}
		if len(v.Elements) == 0 {
			elemKind = primitives.Of(primitives.KindAny)
		}
		return primitives.Iterable{ElementKind: elemKind, Values: vals}, nil

	case *ast.ArrayAccess:
		base, err := evalToPrimitive(v.Base, ctx)
		if err != nil {
			return nil, err
		}
		for _, idxExpr := range v.Indexes {
			idxVal, err := evalToPrimitive(idxExpr, ctx)
			if err != nil {
				return nil, errs.WithSpan(err, idxExpr.Span())
			}
			idx, ok := primitives.AsNumber(idxVal)
			if !ok {
				return nil, errs.WithSpan(errs.NewWrongType("Number", idxVal.Kind().String()), idxExpr.Span())
			}
			it, ok := base.(primitives.Iterable)
			if !ok {
				return nil, errs.WithSpan(errs.NewWrongType("Iterable", base.Kind().String()), idxExpr.Span())
			}
			i := int(idx.Float())
			if i < 0 || i >= len(it.Values) {
				return nil, errs.WithSpan(errs.NewWrongArgument(fmt.Sprintf("index %d out of bounds (len %d)", i, len(it.Values))), idxExpr.Span())
			}
			base = it.Values[i]
		}
		return base, nil

	case *ast.FunctionCall:
		return callFunction(v, ctx)

	case *ast.BinOp, *ast.UnaryNeg, *ast.Mod, *ast.Min, *ast.Max, *ast.Sum, *ast.CompoundVariable:
		// These arithmetic shapes can still be fully constant (e.g. a
		// `where` binding like `let n = 2*3`). Evaluate symbolically and
		// require the flattened result to be a bare number.
		exp, err := evalToExp(e, ctx)
		if err != nil {
			return nil, err
		}
		flat := Flatten(exp)
		if !flat.IsConstant() {
			return nil, errs.NewWrongArgument("expected a constant expression here, found a reference to a decision variable")
		}
		return primitives.Number(flat.Number), nil

	default:
		return nil, errs.NewUnimplemented(fmt.Sprintf("cannot evaluate %T as a constant", e))
	}
}

// evalToExp evaluates e to a symbolic Exp, the arithmetic context used for
// the objective and constraints. Identifiers bound to a constant Primitive
// in ctx are embedded as numeric constants; unbound identifiers are decision
// variables, recorded via NoteDecisionVariable and embedded as Exp
// variables under their flattened name.
func evalToExp(e ast.PreExp, ctx *Context) (Exp, error) {
	switch v := e.(type) {
	case *ast.NumberLit:
		return NumberExp(v.Value), nil

	case *ast.Variable:
		if val, ok := ctx.GetValue(v.Name); ok {
			n, ok := primitives.AsNumber(val)
			if !ok {
				return Exp{}, errs.NewWrongType("Number", val.Kind().String())
			}
			return NumberExp(n.Float()), nil
		}
		ctx.NoteDecisionVariable(v.Name)
		return VariableExp(v.Name), nil

	case *ast.CompoundVariable:
		name, err := flattenCompoundName(v, ctx)
		if err != nil {
			return Exp{}, err
		}
		ctx.NoteDecisionVariable(name)
		return VariableExp(name), nil

	case *ast.ArrayAccess:
		p, err := evalToPrimitive(e, ctx)
		if err != nil {
			return Exp{}, err
		}
		n, ok := primitives.AsNumber(p)
		if !ok {
			return Exp{}, errs.NewWrongType("Number", p.Kind().String())
		}
		return NumberExp(n.Float()), nil

	case *ast.BinOp:
		l, err := evalToExp(v.Left, ctx)
		if err != nil {
			return Exp{}, errs.WithSpan(err, v.Left.Span())
		}
		r, err := evalToExp(v.Right, ctx)
		if err != nil {
			return Exp{}, errs.WithSpan(err, v.Right.Span())
		}
		switch v.Op {
		case ast.Add:
			return AddExp(l, r), nil
		case ast.Sub:
			return AddExp(l, NegExp(r)), nil
		case ast.Mul:
			return MulExp(l, r), nil
		default:
			return DivExp(l, r), nil
		}

	case *ast.UnaryNeg:
		operand, err := evalToExp(v.Operand, ctx)
		if err != nil {
			return Exp{}, errs.WithSpan(err, v.Operand.Span())
		}
		return NegExp(operand), nil

	case *ast.Mod:
		operand, err := evalToExp(v.Operand, ctx)
		if err != nil {
			return Exp{}, errs.WithSpan(err, v.Operand.Span())
		}
		return ModExp(operand), nil

	case *ast.Min:
		terms := make([]Exp, len(v.Exprs))
		for i, ex := range v.Exprs {
			t, err := evalToExp(ex, ctx)
			if err != nil {
				return Exp{}, errs.WithSpan(err, ex.Span())
			}
			terms[i] = t
		}
		return MinExp(terms...), nil

	case *ast.Max:
		terms := make([]Exp, len(v.Exprs))
		for i, ex := range v.Exprs {
			t, err := evalToExp(ex, ctx)
			if err != nil {
				return Exp{}, errs.WithSpan(err, ex.Span())
			}
			terms[i] = t
		}
		return MaxExp(terms...), nil

	case *ast.Sum:
		bodies, err := resolveSets(v.Sets, ctx, 0, func(c *Context) (Exp, error) {
			return evalToExp(v.Body, c)
		})
		if err != nil {
			return Exp{}, errs.WithSpan(err, v.Sp)
		}
		return AddExp(bodies...), nil

	case *ast.FunctionCall:
		p, err := callFunction(v, ctx)
		if err != nil {
			return Exp{}, err
		}
		n, ok := primitives.AsNumber(p)
		if !ok {
			return Exp{}, errs.NewWrongType("Number", p.Kind().String())
		}
		return NumberExp(n.Float()), nil

	default:
		return Exp{}, errs.NewUnimplemented(fmt.Sprintf("cannot evaluate %T in an arithmetic context", e))
	}
}

// flattenCompoundName evaluates each index expression of a compound
// variable to a primitive, stringifies it, and joins the pieces with '_',
// producing the flat decision-variable name (e.g. x_2_3 for x_{i,j} with
// i=2, j=3).
func flattenCompoundName(v *ast.CompoundVariable, ctx *Context) (string, error) {
	parts := make([]string, 0, len(v.Indexes)+1)
	parts = append(parts, v.Name)
	for _, idxExpr := range v.Indexes {
		p, err := evalToPrimitive(idxExpr, ctx)
		if err != nil {
			return "", errs.WithSpan(err, idxExpr.Span())
		}
		parts = append(parts, stringifyIndex(p))
	}
	return strings.Join(parts, "_"), nil
}

func stringifyIndex(p primitives.Primitive) string {
	switch v := p.(type) {
	case primitives.Number:
		if primitives.IsInteger(v) {
			return strconv.FormatInt(int64(v.Float()), 10)
		}
		return v.String()
	default:
		return p.String()
	}
}

func callFunction(fc *ast.FunctionCall, ctx *Context) (primitives.Primitive, error) {
	fn, ok := ctx.Fns.Lookup(fc.Name)
	if !ok {
		return nil, errs.NewUnimplemented(fmt.Sprintf("undeclared function %q", fc.Name))
	}
	args := make([]functions.Parameter, len(fc.Args))
	for i, a := range fc.Args {
		p, err := evalToPrimitive(a, ctx)
		if err != nil {
			return nil, errs.WithSpan(err, a.Span())
		}
		args[i] = functions.Parameter{Value: p}
	}
	return fn.Call(args)
}
