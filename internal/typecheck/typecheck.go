// Package typecheck walks a PreProblem computing the PrimitiveKind of every
// sub-expression over a scoped environment, rejecting wrong-arity calls,
// non-iterable iteration sources, non-numeric contexts, and undeclared
// iteration sources, before the transformer ever runs.
package typecheck

import (
	"fmt"

	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/functions"
	"github.com/rooc-lang/rooc/internal/primitives"
	"github.com/rooc-lang/rooc/internal/span"
)

// env is a stack of scopes, mirroring the transformer's add_scope/pop_scope
// discipline so the two stages agree on what's visible where. Bare
// identifiers not found in any scope are not an error here: they default to
// an implicitly declared decision variable of numeric kind, the same
// convention the transformer's Context.get_value uses for unbound names in
// expression position. Only iteration *sources* (the right side of `in`)
// must resolve to a real binding or function result.
type env struct {
	scopes []map[string]primitives.KindInfo
}

func newEnv() *env {
	return &env{scopes: []map[string]primitives.KindInfo{{}}}
}

func (e *env) push() { e.scopes = append(e.scopes, map[string]primitives.KindInfo{}) }
func (e *env) pop()  { e.scopes = e.scopes[:len(e.scopes)-1] }

func (e *env) declare(name string, kind primitives.KindInfo) {
	e.scopes[len(e.scopes)-1][name] = kind
}

func (e *env) lookup(name string) (primitives.KindInfo, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if k, ok := e.scopes[i][name]; ok {
			return k, true
		}
	}
	return primitives.KindInfo{}, false
}

// Checker walks a PreProblem against a function registry, accumulating
// CompilationErrors without stopping at the first one, the same
// resynchronize-and-continue discipline the parser uses.
type Checker struct {
	fns    *functions.Map
	env    *env
	errors []errs.CompilationError
}

func NewChecker(fns *functions.Map) *Checker {
	return &Checker{fns: fns, env: newEnv()}
}

// Check type-checks prob and returns every violation found.
func Check(prob *ast.PreProblem, fns *functions.Map) []errs.CompilationError {
	c := NewChecker(fns)
	c.checkProblem(prob)
	return c.errors
}

func (c *Checker) report(sp span.InputSpan, err error) {
	c.errors = append(c.errors, errs.NewCompilationError(errs.SemanticError, sp, err.Error()))
}

func (c *Checker) checkProblem(prob *ast.PreProblem) {
	// Bindings are declared before constraints/objective are checked: a
	// `where` clause's constants are visible throughout the problem
	// regardless of where in the file it's written, same as the
	// transformer's TransformerContext being seeded before evaluation
	// begins.
	for _, b := range prob.Bindings {
		kind, err := c.checkExpr(b.Value)
		if err != nil {
			c.report(b.Sp, err)
			kind = primitives.Of(primitives.KindAny)
		}
		c.env.declare(b.Name, kind)
	}

	for _, d := range prob.Domains {
		c.checkDomainDecl(d)
	}

	if kind, err := c.checkExpr(prob.Objective); err != nil {
		c.report(prob.Objective.Span(), err)
	} else if !kind.IsNumeric() {
		c.report(prob.Objective.Span(), fmt.Errorf("objective must be numeric, got %s", kind))
	}

	for _, con := range prob.Constraints {
		c.checkConstraint(con)
	}
}

func (c *Checker) checkConstraint(con ast.Constraint) {
	c.env.push()
	defer c.env.pop()
	c.checkSets(con.Sets)

	lk, lerr := c.checkExpr(con.Left)
	if lerr != nil {
		c.report(con.Left.Span(), lerr)
	} else if !lk.IsNumeric() {
		c.report(con.Left.Span(), fmt.Errorf("constraint side must be numeric, got %s", lk))
	}

	rk, rerr := c.checkExpr(con.Right)
	if rerr != nil {
		c.report(con.Right.Span(), rerr)
	} else if !rk.IsNumeric() {
		c.report(con.Right.Span(), fmt.Errorf("constraint side must be numeric, got %s", rk))
	}
}

func (c *Checker) checkDomainDecl(d ast.DomainDecl) {
	c.env.push()
	defer c.env.pop()
	c.checkSets(d.Sets)

	// A declared name is a Variable or CompoundVariable referencing the
	// quantifier's own induction variables; checking it (after the sets
	// above have bound those variables) both validates index expressions
	// and leaves the implicit-decision-variable defaulting in checkExpr to
	// do the rest — no separate declaration is needed.
	for _, name := range d.Names {
		if _, err := c.checkExpr(name); err != nil {
			c.report(name.Span(), err)
		}
	}

	if d.Kind == ast.DomainIntegerRange {
		if lk, err := c.checkExpr(d.Lo); err != nil {
			c.report(d.Lo.Span(), err)
		} else if !lk.IsNumeric() {
			c.report(d.Lo.Span(), fmt.Errorf("IntegerRange bound must be numeric, got %s", lk))
		}
		if hk, err := c.checkExpr(d.Hi); err != nil {
			c.report(d.Hi.Span(), err)
		} else if !hk.IsNumeric() {
			c.report(d.Hi.Span(), fmt.Errorf("IntegerRange bound must be numeric, got %s", hk))
		}
	}
}

// checkSets resolves a chain of "pattern in iterable" bindings in order,
// each one visible to the next (a later set's iterable may reference an
// earlier set's induction variable), and declares every pattern name into
// the current scope. The iteration source itself must resolve: it is the
// one place a bare, unbound identifier is an error rather than an implicit
// decision-variable declaration.
func (c *Checker) checkSets(sets []ast.IterableSet) {
	for _, s := range sets {
		elemKind, err := c.checkIterableSource(s.Iterable)
		if err != nil {
			c.report(s.Iterable.Span(), err)
			elemKind = primitives.Of(primitives.KindAny)
		}
		c.bindPattern(s.Var, elemKind, s.Sp)
	}
}

// checkIterableSource checks an iteration source expression and demands it
// be Iterable, distinct from a general expression check because an
// unresolved identifier here is always an error (it can never be an
// implicit decision variable: decision variables are scalar, not
// iterable).
func (c *Checker) checkIterableSource(e ast.PreExp) (primitives.KindInfo, error) {
	if v, ok := e.(*ast.Variable); ok {
		kind, found := c.env.lookup(v.Name)
		if !found {
			return primitives.KindInfo{}, fmt.Errorf("undeclared identifier %q used as an iteration source", v.Name)
		}
		if !kind.IsIterable() {
			return primitives.KindInfo{}, fmt.Errorf("expected an Iterable iteration source, got %s", kind)
		}
		return *kind.Of, nil
	}
	kind, err := c.checkExpr(e)
	if err != nil {
		return primitives.KindInfo{}, err
	}
	if !kind.IsIterable() {
		return primitives.KindInfo{}, fmt.Errorf("expected an Iterable iteration source, got %s", kind)
	}
	return *kind.Of, nil
}

// bindPattern declares a set's induction variable(s) in the current scope.
// A tuple pattern destructures against a Tuple element kind or, per the
// canonical GraphEdge order (from, to, weight), against a GraphEdge element
// kind truncated to the pattern's arity.
func (c *Checker) bindPattern(pat ast.VariablePattern, elemKind primitives.KindInfo, sp span.InputSpan) {
	if !pat.IsTuple() {
		c.env.declare(pat.Single, elemKind)
		return
	}

	switch elemKind.Tag {
	case primitives.KindGraphEdge:
		edgeParts := []primitives.KindInfo{
			primitives.Of(primitives.KindString),
			primitives.Of(primitives.KindString),
			primitives.Of(primitives.KindNumber),
		}
		if len(pat.Tuple) > len(edgeParts) {
			c.report(sp, fmt.Errorf("GraphEdge destructures into at most %d values, pattern wants %d", len(edgeParts), len(pat.Tuple)))
			for _, n := range pat.Tuple {
				c.env.declare(n, primitives.Of(primitives.KindAny))
			}
			return
		}
		for i, n := range pat.Tuple {
			c.env.declare(n, edgeParts[i])
		}
	case primitives.KindTuple:
		if len(elemKind.Parts) != len(pat.Tuple) {
			c.report(sp, fmt.Errorf("expected a %d-tuple, pattern has %d names", len(elemKind.Parts), len(pat.Tuple)))
			for _, n := range pat.Tuple {
				c.env.declare(n, primitives.Of(primitives.KindAny))
			}
			return
		}
		for i, n := range pat.Tuple {
			c.env.declare(n, elemKind.Parts[i])
		}
	default:
		c.report(sp, fmt.Errorf("value of kind %s cannot be destructured by a tuple pattern", elemKind))
		for _, n := range pat.Tuple {
			c.env.declare(n, primitives.Of(primitives.KindAny))
		}
	}
}

// checkExpr computes the kind of a PreExp node, recursing into every
// sub-expression. It returns the first error encountered in that subtree;
// callers higher up still keep walking siblings so one bad subtree doesn't
// suppress diagnostics elsewhere.
func (c *Checker) checkExpr(e ast.PreExp) (primitives.KindInfo, error) {
	switch v := e.(type) {
	case *ast.NumberLit:
		return primitives.Of(primitives.KindNumber), nil
	case *ast.StringLit:
		return primitives.Of(primitives.KindString), nil
	case *ast.BoolLit:
		return primitives.Of(primitives.KindBoolean), nil

	case *ast.Variable:
		if kind, ok := c.env.lookup(v.Name); ok {
			return kind, nil
		}
		// Undeclared bare identifiers default to an implicitly declared
		// decision variable of numeric kind.
		return primitives.Of(primitives.KindNumber), nil

	case *ast.CompoundVariable:
		for _, idx := range v.Indexes {
			ik, err := c.checkExpr(idx)
			if err != nil {
				c.report(idx.Span(), err)
				continue
			}
			if ik.IsIterable() || ik.Tag == primitives.KindTuple {
				c.report(idx.Span(), fmt.Errorf("compound variable index must be a scalar, got %s", ik))
			}
		}
		return primitives.Of(primitives.KindNumber), nil

	case *ast.ArrayAccess:
		base, err := c.checkExpr(v.Base)
		if err != nil {
			return primitives.KindInfo{}, err
		}
		for _, idx := range v.Indexes {
			ik, ierr := c.checkExpr(idx)
			if ierr != nil {
				c.report(idx.Span(), ierr)
			} else if !ik.IsNumeric() {
				c.report(idx.Span(), fmt.Errorf("array index must be numeric, got %s", ik))
			}
			if !base.IsIterable() {
				return primitives.KindInfo{}, fmt.Errorf("expected an Iterable for array access, got %s", base)
			}
			base = *base.Of
		}
		return base, nil

	case *ast.BinOp:
		lk, lerr := c.checkExpr(v.Left)
		if lerr != nil {
			c.report(v.Left.Span(), lerr)
		} else if !lk.IsNumeric() {
			c.report(v.Left.Span(), fmt.Errorf("arithmetic operand must be numeric, got %s", lk))
		}
		rk, rerr := c.checkExpr(v.Right)
		if rerr != nil {
			c.report(v.Right.Span(), rerr)
		} else if !rk.IsNumeric() {
			c.report(v.Right.Span(), fmt.Errorf("arithmetic operand must be numeric, got %s", rk))
		}
		return primitives.Of(primitives.KindNumber), nil

	case *ast.UnaryNeg:
		k, err := c.checkExpr(v.Operand)
		if err != nil {
			c.report(v.Operand.Span(), err)
		} else if !k.IsNumeric() {
			c.report(v.Operand.Span(), fmt.Errorf("unary '-' operand must be numeric, got %s", k))
		}
		return primitives.Of(primitives.KindNumber), nil

	case *ast.Mod:
		k, err := c.checkExpr(v.Operand)
		if err != nil {
			c.report(v.Operand.Span(), err)
		} else if !k.IsNumeric() {
			c.report(v.Operand.Span(), fmt.Errorf("absolute value operand must be numeric, got %s", k))
		}
		return primitives.Of(primitives.KindNumber), nil

	case *ast.Min:
		for _, ex := range v.Exprs {
			k, err := c.checkExpr(ex)
			if err != nil {
				c.report(ex.Span(), err)
			} else if !k.IsNumeric() {
				c.report(ex.Span(), fmt.Errorf("min() argument must be numeric, got %s", k))
			}
		}
		return primitives.Of(primitives.KindNumber), nil

	case *ast.Max:
		for _, ex := range v.Exprs {
			k, err := c.checkExpr(ex)
			if err != nil {
				c.report(ex.Span(), err)
			} else if !k.IsNumeric() {
				c.report(ex.Span(), fmt.Errorf("max() argument must be numeric, got %s", k))
			}
		}
		return primitives.Of(primitives.KindNumber), nil

	case *ast.Sum:
		c.env.push()
		defer c.env.pop()
		c.checkSets(v.Sets)
		bk, err := c.checkExpr(v.Body)
		if err != nil {
			c.report(v.Body.Span(), err)
		} else if !bk.IsNumeric() {
			c.report(v.Body.Span(), fmt.Errorf("sum() body must be numeric, got %s", bk))
		}
		return primitives.Of(primitives.KindNumber), nil

	case *ast.FunctionCall:
		argKinds := make([]primitives.KindInfo, len(v.Args))
		ok := true
		for i, a := range v.Args {
			k, err := c.checkExpr(a)
			if err != nil {
				c.report(a.Span(), err)
				ok = false
				continue
			}
			argKinds[i] = k
		}
		if !ok {
			return primitives.Of(primitives.KindAny), nil
		}
		fn, found := c.fns.Lookup(v.Name)
		if !found {
			return primitives.KindInfo{}, fmt.Errorf("undeclared function %q", v.Name)
		}
		return fn.Check(argKinds)

	case *ast.TupleLit:
		parts := make([]primitives.KindInfo, len(v.Elements))
		for i, el := range v.Elements {
			k, err := c.checkExpr(el)
			if err != nil {
				c.report(el.Span(), err)
				k = primitives.Of(primitives.KindAny)
			}
			parts[i] = k
		}
		return primitives.TupleOf(parts...), nil

	case *ast.ArrayLit:
		var elemKind primitives.KindInfo
		for i, el := range v.Elements {
			k, err := c.checkExpr(el)
			if err != nil {
				c.report(el.Span(), err)
				continue
			}
			if i == 0 {
				elemKind = k
			} else if !elemKind.Equal(k) {
				c.report(el.Span(), fmt.Errorf("array literal elements must share a kind: %s vs %s", elemKind, k))
			}
		}
		if len(v.Elements) == 0 {
			elemKind = primitives.Of(primitives.KindAny)
		}
		return primitives.IterableOf(elemKind), nil

	default:
		return primitives.KindInfo{}, fmt.Errorf("unhandled expression node %T", e)
	}
}
