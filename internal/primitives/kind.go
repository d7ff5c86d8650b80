// Package primitives defines the runtime value universe used during
// transformation: numbers, booleans, strings, tuples, graphs and their
// nodes/edges, and typed iterable sequences, plus the spreading semantics
// used by quantifier destructuring.
package primitives

import "fmt"

// Kind is the closed set of primitive kinds the type checker and
// transformer operate over. Integer is a refinement of Number, not a
// distinct runtime representation (§3 of the specification).
type Kind int

const (
	KindNumber Kind = iota
	KindInteger
	KindBoolean
	KindString
	KindGraphNode
	KindGraphEdge
	KindGraph
	KindTuple
	KindIterable
	KindAny
	KindUndefined
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindInteger:
		return "Integer"
	case KindBoolean:
		return "Boolean"
	case KindString:
		return "String"
	case KindGraphNode:
		return "GraphNode"
	case KindGraphEdge:
		return "GraphEdge"
	case KindGraph:
		return "Graph"
	case KindTuple:
		return "Tuple"
	case KindIterable:
		return "Iterable"
	case KindAny:
		return "Any"
	default:
		return "Undefined"
	}
}

// KindInfo carries the payload a bare Kind cannot: the element kind of an
// Iterable, or the component kinds of a Tuple.
type KindInfo struct {
	Tag   Kind
	Of    *KindInfo   // set when Tag == KindIterable
	Parts []KindInfo // set when Tag == KindTuple
}

func Of(tag Kind) KindInfo { return KindInfo{Tag: tag} }

func IterableOf(of KindInfo) KindInfo {
	return KindInfo{Tag: KindIterable, Of: &of}
}

func TupleOf(parts ...KindInfo) KindInfo {
	return KindInfo{Tag: KindTuple, Parts: parts}
}

func (k KindInfo) String() string {
	switch k.Tag {
	case KindIterable:
		if k.Of != nil {
			return fmt.Sprintf("Iterable(%s)", k.Of.String())
		}
		return "Iterable(?)"
	case KindTuple:
		s := "Tuple("
		for i, p := range k.Parts {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		return s + ")"
	default:
		return k.Tag.String()
	}
}

// Equal reports structural equality of two KindInfo values. KindAny is
// treated as a wildcard matching anything, which the type checker uses for
// "no constraint yet" placeholders.
func (k KindInfo) Equal(other KindInfo) bool {
	if k.Tag == KindAny || other.Tag == KindAny {
		return true
	}
	if k.Tag != other.Tag {
		// Integer is assignable wherever Number is expected and vice versa.
		if (k.Tag == KindNumber && other.Tag == KindInteger) ||
			(k.Tag == KindInteger && other.Tag == KindNumber) {
			return true
		}
		return false
	}
	switch k.Tag {
	case KindIterable:
		if k.Of == nil || other.Of == nil {
			return true
		}
		return k.Of.Equal(*other.Of)
	case KindTuple:
		if len(k.Parts) != len(other.Parts) {
			return false
		}
		for i := range k.Parts {
			if !k.Parts[i].Equal(other.Parts[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// IsNumeric reports whether a kind can stand in an arithmetic context.
func (k KindInfo) IsNumeric() bool {
	return k.Tag == KindNumber || k.Tag == KindInteger
}

func (k KindInfo) IsIterable() bool {
	return k.Tag == KindIterable
}
