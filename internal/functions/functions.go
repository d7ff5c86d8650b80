// Package functions implements ROOC's built-in and user-defined function
// surface: len, enumerate, edges, range plus a registry user code extends.
// Each function both type-checks its arguments (consulted by
// internal/typecheck) and evaluates them (consulted by internal/transformer),
// mirroring the way the original's FunctionCall trait bundles a
// get_type_signature alongside its run/call method.
package functions

import (
	"fmt"

	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/primitives"
)

// Parameter wraps a resolved argument Primitive with typed accessors, the
// same role the original's Parameter::as_number/as_integer/... family plays
// at the function-call boundary.
type Parameter struct {
	Value primitives.Primitive
}

func (p Parameter) AsNumber() (float64, error) {
	if n, ok := primitives.AsNumber(p.Value); ok {
		return n.Float(), nil
	}
	return 0, errs.NewWrongType("Number", p.Value.Kind().String())
}

func (p Parameter) AsInteger() (int, error) {
	n, err := p.AsNumber()
	if err != nil {
		return 0, err
	}
	if !primitives.IsInteger(primitives.Number(n)) {
		return 0, errs.NewWrongType("Integer", "Number")
	}
	return int(n), nil
}

// AsUSize is AsInteger with a non-negative check, for array lengths and
// indices.
func (p Parameter) AsUSize() (int, error) {
	n, err := p.AsInteger()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errs.NewWrongArgument(fmt.Sprintf("expected a non-negative integer, got %d", n))
	}
	return n, nil
}

func (p Parameter) AsString() (string, error) {
	if s, ok := p.Value.(primitives.String); ok {
		return string(s), nil
	}
	return "", errs.NewWrongType("String", p.Value.Kind().String())
}

func (p Parameter) AsBoolean() (bool, error) {
	if b, ok := p.Value.(primitives.Boolean); ok {
		return bool(b), nil
	}
	return false, errs.NewWrongType("Boolean", p.Value.Kind().String())
}

func (p Parameter) AsGraph() (*primitives.Graph, error) {
	if g, ok := p.Value.(primitives.GraphValue); ok {
		return g.Value, nil
	}
	return nil, errs.NewWrongType("Graph", p.Value.Kind().String())
}

func (p Parameter) AsNode() (primitives.GraphNode, error) {
	if n, ok := p.Value.(primitives.Node); ok {
		return n.Value, nil
	}
	return primitives.GraphNode{}, errs.NewWrongType("GraphNode", p.Value.Kind().String())
}

func (p Parameter) AsEdge() (primitives.GraphEdge, error) {
	if e, ok := p.Value.(primitives.Edge); ok {
		return e.Value, nil
	}
	return primitives.GraphEdge{}, errs.NewWrongType("GraphEdge", p.Value.Kind().String())
}

func (p Parameter) AsIterator() (primitives.Iterable, error) {
	if it, ok := p.Value.(primitives.Iterable); ok {
		return it, nil
	}
	return primitives.Iterable{}, errs.NewWrongType("Iterable", p.Value.Kind().String())
}

// FunctionCall is a built-in or user-defined callable. Check runs during
// type checking over argument Kinds alone; Call runs during transform over
// fully resolved Parameters.
type FunctionCall interface {
	Name() string
	Check(args []primitives.KindInfo) (primitives.KindInfo, error)
	Call(args []Parameter) (primitives.Primitive, error)
}

func arityError(name string, want string, got int) error {
	return errs.NewWrongArgumentCount(fmt.Sprintf("%s expects %s argument(s), got %d", name, want, got))
}

// lenFn is len(x): requires an Iterable, yields Number.
type lenFn struct{}

func (lenFn) Name() string { return "len" }

func (lenFn) Check(args []primitives.KindInfo) (primitives.KindInfo, error) {
	if len(args) != 1 {
		return primitives.KindInfo{}, arityError("len", "1", len(args))
	}
	if !args[0].IsIterable() {
		return primitives.KindInfo{}, errs.NewWrongType("Iterable", args[0].String())
	}
	return primitives.Of(primitives.KindNumber), nil
}

func (lenFn) Call(args []Parameter) (primitives.Primitive, error) {
	it, err := args[0].AsIterator()
	if err != nil {
		return nil, err
	}
	return primitives.Number(it.Len()), nil
}

// enumerateFn is enumerate(x): requires Iterable(T), yields
// Iterable(Tuple[T, Number]).
type enumerateFn struct{}

func (enumerateFn) Name() string { return "enumerate" }

func (enumerateFn) Check(args []primitives.KindInfo) (primitives.KindInfo, error) {
	if len(args) != 1 {
		return primitives.KindInfo{}, arityError("enumerate", "1", len(args))
	}
	if !args[0].IsIterable() {
		return primitives.KindInfo{}, errs.NewWrongType("Iterable", args[0].String())
	}
	elem := primitives.TupleOf(*args[0].Of, primitives.Of(primitives.KindNumber))
	return primitives.IterableOf(elem), nil
}

func (enumerateFn) Call(args []Parameter) (primitives.Primitive, error) {
	it, err := args[0].AsIterator()
	if err != nil {
		return nil, err
	}
	out := make([]primitives.Primitive, it.Len())
	for i, v := range it.Values {
		out[i] = primitives.NewTuple(v, primitives.Number(i))
	}
	return primitives.Iterable{
		ElementKind: primitives.TupleOf(it.ElementKind, primitives.Of(primitives.KindNumber)),
		Values:      out,
	}, nil
}

// edgesFn is edges(g): requires Graph, yields Iterable(GraphEdge).
type edgesFn struct{}

func (edgesFn) Name() string { return "edges" }

func (edgesFn) Check(args []primitives.KindInfo) (primitives.KindInfo, error) {
	if len(args) != 1 {
		return primitives.KindInfo{}, arityError("edges", "1", len(args))
	}
	if args[0].Tag != primitives.KindGraph {
		return primitives.KindInfo{}, errs.NewWrongType("Graph", args[0].String())
	}
	return primitives.IterableOf(primitives.Of(primitives.KindGraphEdge)), nil
}

func (edgesFn) Call(args []Parameter) (primitives.Primitive, error) {
	g, err := args[0].AsGraph()
	if err != nil {
		return nil, err
	}
	return primitives.NewEdgeIterable(g.Edges()), nil
}

// nodesFn is nodes(g): requires Graph, yields Iterable(GraphNode). Not
// named explicitly by the grammar note listing len/enumerate/edges, but the
// same graph-primitive family the original exposes (see
// src/primitives/graph.rs's Graph::nodes), so it gets the same built-in
// treatment.
type nodesFn struct{}

func (nodesFn) Name() string { return "nodes" }

func (nodesFn) Check(args []primitives.KindInfo) (primitives.KindInfo, error) {
	if len(args) != 1 {
		return primitives.KindInfo{}, arityError("nodes", "1", len(args))
	}
	if args[0].Tag != primitives.KindGraph {
		return primitives.KindInfo{}, errs.NewWrongType("Graph", args[0].String())
	}
	return primitives.IterableOf(primitives.Of(primitives.KindGraphNode)), nil
}

func (nodesFn) Call(args []Parameter) (primitives.Primitive, error) {
	g, err := args[0].AsGraph()
	if err != nil {
		return nil, err
	}
	return primitives.NewNodeIterable(g.Nodes()), nil
}

// rangeFn is range(lo, hi, inclusive): the desugaring target of `a..b` and
// `a..=b`, requires two numbers and a boolean, yields Iterable(Number).
type rangeFn struct{}

func (rangeFn) Name() string { return "range" }

func (rangeFn) Check(args []primitives.KindInfo) (primitives.KindInfo, error) {
	if len(args) != 3 {
		return primitives.KindInfo{}, arityError("range", "3", len(args))
	}
	if !args[0].IsNumeric() || !args[1].IsNumeric() {
		return primitives.KindInfo{}, errs.NewWrongType("Number", "non-numeric range bound")
	}
	if args[2].Tag != primitives.KindBoolean {
		return primitives.KindInfo{}, errs.NewWrongType("Boolean", args[2].String())
	}
	return primitives.IterableOf(primitives.Of(primitives.KindNumber)), nil
}

func (rangeFn) Call(args []Parameter) (primitives.Primitive, error) {
	lo, err := args[0].AsInteger()
	if err != nil {
		return nil, err
	}
	hi, err := args[1].AsInteger()
	if err != nil {
		return nil, err
	}
	inclusive, err := args[2].AsBoolean()
	if err != nil {
		return nil, err
	}
	if inclusive {
		hi++
	}
	if hi < lo {
		hi = lo
	}
	values := make([]float64, 0, hi-lo)
	for i := lo; i < hi; i++ {
		values = append(values, float64(i))
	}
	return primitives.NewNumberIterable(values), nil
}

// graphFn is graph(edgeTuples): builds a Graph from an Iterable of 2- or
// 3-element tuples (from, to[, weight]), the constructor a `where` binding
// uses to supply graph-shaped constant data (no graph literal surface
// syntax is in the grammar, so this is the one way in).
type graphFn struct{}

func (graphFn) Name() string { return "graph" }

func (graphFn) Check(args []primitives.KindInfo) (primitives.KindInfo, error) {
	if len(args) != 1 {
		return primitives.KindInfo{}, arityError("graph", "1", len(args))
	}
	if !args[0].IsIterable() || args[0].Of == nil || args[0].Of.Tag != primitives.KindTuple {
		return primitives.KindInfo{}, errs.NewWrongType("Iterable(Tuple)", args[0].String())
	}
	return primitives.Of(primitives.KindGraph), nil
}

func (graphFn) Call(args []Parameter) (primitives.Primitive, error) {
	it, err := args[0].AsIterator()
	if err != nil {
		return nil, err
	}
	g := primitives.NewGraph()
	for _, v := range it.Values {
		tup, ok := v.(primitives.Tuple)
		if !ok {
			return nil, errs.NewWrongType("Tuple", v.Kind().String())
		}
		if len(tup.Elements) < 2 || len(tup.Elements) > 3 {
			return nil, errs.NewWrongArgument(fmt.Sprintf("graph edge tuple must have 2 or 3 elements, got %d", len(tup.Elements)))
		}
		from, ok := tup.Elements[0].(primitives.String)
		if !ok {
			return nil, errs.NewWrongType("String", tup.Elements[0].Kind().String())
		}
		to, ok := tup.Elements[1].(primitives.String)
		if !ok {
			return nil, errs.NewWrongType("String", tup.Elements[1].Kind().String())
		}
		var weight *float64
		if len(tup.Elements) == 3 {
			w, ok := primitives.AsNumber(tup.Elements[2])
			if !ok {
				return nil, errs.NewWrongType("Number", tup.Elements[2].Kind().String())
			}
			wf := w.Float()
			weight = &wf
		}
		g.AddEdge(string(from), string(to), weight)
	}
	return primitives.GraphValue{Value: g}, nil
}

// Map is the name-to-callable registry consulted by both the type checker
// and the transformer. User-defined functions are added with Register.
type Map struct {
	fns map[string]FunctionCall
}

// NewMap builds a registry seeded with the built-ins.
func NewMap() *Map {
	m := &Map{fns: make(map[string]FunctionCall)}
	for _, f := range []FunctionCall{lenFn{}, enumerateFn{}, edgesFn{}, nodesFn{}, rangeFn{}, graphFn{}} {
		m.fns[f.Name()] = f
	}
	return m
}

// Register installs a user-defined function, shadowing a built-in of the
// same name if present.
func (m *Map) Register(f FunctionCall) {
	m.fns[f.Name()] = f
}

func (m *Map) Lookup(name string) (FunctionCall, bool) {
	f, ok := m.fns[name]
	return f, ok
}
