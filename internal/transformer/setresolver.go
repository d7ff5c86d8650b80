package transformer

import (
	"fmt"

	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/primitives"
)

// resolveSets generalizes the original's recursive_set_resolver: it walks
// nested IterableSets depth-first, binding each level's induction
// variable(s) to every value of that level's iterable in turn, and calls
// onLeaf once the innermost level is reached. Results are collected in
// iteration order across the full cartesian product of the sets.
func resolveSets[T any](sets []ast.IterableSet, ctx *Context, level int, onLeaf func(*Context) (T, error)) ([]T, error) {
	if level >= len(sets) {
		v, err := onLeaf(ctx)
		if err != nil {
			return nil, err
		}
		return []T{v}, nil
	}

	set := sets[level]
	ctx.AddScope()
	defer ctx.PopScope()

	declarePattern(ctx, set.Var)

	iterPrim, err := evalToPrimitive(set.Iterable, ctx)
	if err != nil {
		return nil, errs.WithSpan(err, set.Sp)
	}
	it, ok := iterPrim.(primitives.Iterable)
	if !ok {
		return nil, errs.WithSpan(errs.NewWrongType("Iterable", iterPrim.Kind().String()), set.Sp)
	}

	var results []T
	for _, val := range it.Values {
		if err := bindPatternValue(ctx, set.Var, val); err != nil {
			return nil, errs.WithSpan(err, set.Sp)
		}
		sub, err := resolveSets(sets, ctx, level+1, onLeaf)
		if err != nil {
			return nil, err
		}
		results = append(results, sub...)
	}
	return results, nil
}

// declarePattern introduces the pattern's name(s) into the current (just
// pushed) scope with a Number(0) placeholder, so that bindPatternValue's
// later UpdateVariable calls have something to find.
func declarePattern(ctx *Context, pat ast.VariablePattern) {
	if pat.IsTuple() {
		for _, n := range pat.Tuple {
			ctx.DeclareVariable(n, primitives.Number(0))
		}
		return
	}
	ctx.DeclareVariable(pat.Single, primitives.Number(0))
}

// bindPatternValue advances a set's induction variable(s) to val on one
// iteration. A tuple pattern destructures val via primitives.Spread, which
// fixes the canonical (from, to, weight) order for a spread GraphEdge.
func bindPatternValue(ctx *Context, pat ast.VariablePattern, val primitives.Primitive) error {
	if !pat.IsTuple() {
		return ctx.UpdateVariable(pat.Single, val)
	}

	parts, err := primitives.Spread(val)
	if err != nil {
		return errs.NewNonSpreadable(err.Error())
	}
	if len(pat.Tuple) > len(parts) {
		return errs.NewWrongArgument(fmt.Sprintf("cannot destructure %d values into a %d-name pattern", len(parts), len(pat.Tuple)))
	}
	for i, name := range pat.Tuple {
		if err := ctx.UpdateVariable(name, parts[i]); err != nil {
			return err
		}
	}
	return nil
}
