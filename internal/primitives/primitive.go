package primitives

import (
	"fmt"
	"strconv"
	"strings"
)

// Primitive is the closed sum of runtime values produced during
// transformation. Implementations are unexported structs carrying a
// payload behind the marker method, the same tagged-sum shape the teacher
// uses for its AST node interfaces.
type Primitive interface {
	Kind() KindInfo
	String() string
	primitiveMarker()
}

type Number float64

func (Number) primitiveMarker() {}
func (n Number) Kind() KindInfo { return Of(KindNumber) }
func (n Number) String() string { return strconv.FormatFloat(float64(n), 'g', -1, 64) }

// Integer wraps a Number known to be whole-valued; it never appears as a
// distinct runtime representation (§3), only as a Kind annotation checked
// via IsInteger.
func IsInteger(n Number) bool {
	return n.Float() == float64(int64(n.Float()))
}

func (n Number) Float() float64 { return float64(n) }

type Boolean bool

func (Boolean) primitiveMarker() {}
func (b Boolean) Kind() KindInfo { return Of(KindBoolean) }
func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }

type String string

func (String) primitiveMarker() {}
func (s String) Kind() KindInfo { return Of(KindString) }
func (s String) String() string { return string(s) }

type Node struct{ Value GraphNode }

func (Node) primitiveMarker() {}
func (n Node) Kind() KindInfo { return Of(KindGraphNode) }
func (n Node) String() string { return n.Value.String() }

type Edge struct{ Value GraphEdge }

func (Edge) primitiveMarker() {}
func (e Edge) Kind() KindInfo { return Of(KindGraphEdge) }
func (e Edge) String() string { return e.Value.String() }

type GraphValue struct{ Value *Graph }

func (GraphValue) primitiveMarker() {}
func (g GraphValue) Kind() KindInfo { return Of(KindGraph) }
func (g GraphValue) String() string { return g.Value.String() }

// Tuple is an ordered, heterogeneous, destructurable sequence of
// primitives.
type Tuple struct{ Elements []Primitive }

func NewTuple(elements ...Primitive) Tuple { return Tuple{Elements: elements} }

func (Tuple) primitiveMarker() {}
func (t Tuple) Kind() KindInfo {
	parts := make([]KindInfo, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.Kind()
	}
	return TupleOf(parts...)
}
func (t Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Iterable is a typed, finite, order-preserving sequence of primitives.
// A single concrete representation (backed by []Primitive) covers every
// IterableKind variant named by the spec (Numbers, Integers, Strings,
// Edges, Nodes, Tuple, nested Iterable); the element Kind is carried
// alongside so callers can recover it statically without inspecting
// elements.
type Iterable struct {
	ElementKind KindInfo
	Values      []Primitive
}

func (Iterable) primitiveMarker() {}
func (it Iterable) Kind() KindInfo { return IterableOf(it.ElementKind) }
func (it Iterable) Len() int       { return len(it.Values) }
func (it Iterable) String() string {
	parts := make([]string, len(it.Values))
	for i, v := range it.Values {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func NewNumberIterable(values []float64) Iterable {
	vs := make([]Primitive, len(values))
	for i, v := range values {
		vs[i] = Number(v)
	}
	return Iterable{ElementKind: Of(KindNumber), Values: vs}
}

func NewStringIterable(values []string) Iterable {
	vs := make([]Primitive, len(values))
	for i, v := range values {
		vs[i] = String(v)
	}
	return Iterable{ElementKind: Of(KindString), Values: vs}
}

func NewEdgeIterable(edges []GraphEdge) Iterable {
	vs := make([]Primitive, len(edges))
	for i, e := range edges {
		vs[i] = Edge{Value: e}
	}
	return Iterable{ElementKind: Of(KindGraphEdge), Values: vs}
}

func NewNodeIterable(nodes []GraphNode) Iterable {
	vs := make([]Primitive, len(nodes))
	for i, n := range nodes {
		vs[i] = Node{Value: n}
	}
	return Iterable{ElementKind: Of(KindGraphNode), Values: vs}
}

// AsNumber coerces a primitive to Number, the common case for arithmetic.
func AsNumber(p Primitive) (Number, bool) {
	n, ok := p.(Number)
	return n, ok
}

// Spread destructures a primitive into the ordered list of values a tuple
// pattern of the given arity binds against. A Tuple spreads as its
// elements; a GraphEdge spreads as (from, to, weight) — the canonical
// order fixed by DESIGN.md's resolution of the open question in §9 of the
// specification. Anything else is not spreadable.
func Spread(p Primitive) ([]Primitive, error) {
	switch v := p.(type) {
	case Tuple:
		return v.Elements, nil
	case Edge:
		weight := v.Value.WeightOr(1.0)
		return []Primitive{String(v.Value.From), String(v.Value.To), Number(weight)}, nil
	default:
		return nil, fmt.Errorf("value of kind %s is not spreadable", p.Kind())
	}
}
