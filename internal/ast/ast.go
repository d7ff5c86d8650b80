package ast

import "github.com/rooc-lang/rooc/internal/span"

// Op is a binary arithmetic operator.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
)

func (o Op) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

// Precedence mirrors the teacher's infixPrecedence table, generalized to
// the four arithmetic operators the grammar needs.
func (o Op) Precedence() int {
	switch o {
	case Add, Sub:
		return 1
	case Mul, Div:
		return 2
	default:
		return 0
	}
}

// Comparison is a constraint relation.
type Comparison int

const (
	LowerOrEqual Comparison = iota
	UpperOrEqual
	Equal
)

func (c Comparison) String() string {
	switch c {
	case LowerOrEqual:
		return "<="
	case UpperOrEqual:
		return ">="
	default:
		return "="
	}
}

// OptimizationType is the problem's objective direction.
type OptimizationType int

const (
	Min OptimizationType = iota
	Max
)

func (o OptimizationType) String() string {
	if o == Min {
		return "min"
	}
	return "max"
}

// Node is the common interface of every PreExp variant: it can report the
// span of source text it was parsed from.
type Node interface {
	Span() span.InputSpan
}

// PreExp is the untyped parse tree of an expression. It is a closed sum
// implemented as an interface with an unexported marker, following the
// same "tagged sum as interface" shape the teacher uses for model.Expr.
type PreExp interface {
	Node
	preExpMarker()
}

type NumberLit struct {
	Value float64
	Sp    span.InputSpan
}

func (n *NumberLit) Span() span.InputSpan { return n.Sp }
func (*NumberLit) preExpMarker()          {}

type StringLit struct {
	Value string
	Sp    span.InputSpan
}

func (s *StringLit) Span() span.InputSpan { return s.Sp }
func (*StringLit) preExpMarker()          {}

type BoolLit struct {
	Value bool
	Sp    span.InputSpan
}

func (b *BoolLit) Span() span.InputSpan { return b.Sp }
func (*BoolLit) preExpMarker()          {}

// Variable is a bare identifier reference.
type Variable struct {
	Name string
	Sp   span.InputSpan
}

func (v *Variable) Span() span.InputSpan { return v.Sp }
func (*Variable) preExpMarker()          {}

// CompoundVariable is x_{i, j} or x_i: a name plus one or more index
// expressions evaluated at transform time and joined into a flat name.
type CompoundVariable struct {
	Name    string
	Indexes []PreExp
	Sp      span.InputSpan
}

func (c *CompoundVariable) Span() span.InputSpan { return c.Sp }
func (*CompoundVariable) preExpMarker()          {}

// ArrayAccess is A[i][j]...: a base expression plus one or more index
// expressions.
type ArrayAccess struct {
	Base    PreExp
	Indexes []PreExp
	Sp      span.InputSpan
}

func (a *ArrayAccess) Span() span.InputSpan { return a.Sp }
func (*ArrayAccess) preExpMarker()          {}

type BinOp struct {
	Op    Op
	Left  PreExp
	Right PreExp
	Sp    span.InputSpan
}

func (b *BinOp) Span() span.InputSpan { return b.Sp }
func (*BinOp) preExpMarker()          {}

type UnaryNeg struct {
	Operand PreExp
	Sp      span.InputSpan
}

func (u *UnaryNeg) Span() span.InputSpan { return u.Sp }
func (*UnaryNeg) preExpMarker()          {}

// Mod is |e|, absolute value.
type Mod struct {
	Operand PreExp
	Sp      span.InputSpan
}

func (m *Mod) Span() span.InputSpan { return m.Sp }
func (*Mod) preExpMarker()          {}

type Min struct {
	Exprs []PreExp
	Sp    span.InputSpan
}

func (m *Min) Span() span.InputSpan { return m.Sp }
func (*Min) preExpMarker()          {}

type Max struct {
	Exprs []PreExp
	Sp    span.InputSpan
}

func (m *Max) Span() span.InputSpan { return m.Sp }
func (*Max) preExpMarker()          {}

// VariablePattern is a set binding's induction variable(s): either a
// single name or a tuple pattern destructured from each iterated value.
type VariablePattern struct {
	Single string   // set when len(Tuple) == 0
	Tuple  []string // set for (u, v, c) in ... patterns
	Sp     span.InputSpan
}

func (v VariablePattern) IsTuple() bool { return len(v.Tuple) > 0 }

// IterableSet is a single "pattern in iterable" binding used by sum/min/max
// blocks and by quantified constraints.
type IterableSet struct {
	Var      VariablePattern
	Iterable PreExp
	Sp       span.InputSpan
}

// Sum is sum(sets){ body }: one or more nested set bindings around a body
// expression, folded additively at transform time.
type Sum struct {
	Sets []IterableSet
	Body PreExp
	Sp   span.InputSpan
}

func (s *Sum) Span() span.InputSpan { return s.Sp }
func (*Sum) preExpMarker()          {}

// ArrayLit is a literal array `[e, e, ...]`, used in `where` bindings to
// supply constant data (one level of nesting gives a 2-D array).
type ArrayLit struct {
	Elements []PreExp
	Sp       span.InputSpan
}

func (a *ArrayLit) Span() span.InputSpan { return a.Sp }
func (*ArrayLit) preExpMarker()          {}

// TupleLit is a literal tuple `(e, e, ...)`, disambiguated from a
// parenthesized grouping by having more than one element — used in `where`
// bindings to supply graph edge data to the `graph` builtin.
type TupleLit struct {
	Elements []PreExp
	Sp       span.InputSpan
}

func (t *TupleLit) Span() span.InputSpan { return t.Sp }
func (*TupleLit) preExpMarker()          {}

// FunctionCall is a call to a built-in or user-defined function with
// already-parsed argument expressions.
type FunctionCall struct {
	Name string
	Args []PreExp
	Sp   span.InputSpan
}

func (f *FunctionCall) Span() span.InputSpan { return f.Sp }
func (*FunctionCall) preExpMarker()          {}

// Constraint is a single (possibly quantified) relation in the "s.t."
// block.
type Constraint struct {
	Left  PreExp
	Cmp   Comparison
	Right PreExp
	Sets  []IterableSet // non-empty when the constraint is quantified
	Sp    span.InputSpan
}

// Binding is a single `let name = value` entry of the "where" clause.
type Binding struct {
	Name  string
	Value PreExp
	Sp    span.InputSpan
}

// DomainKind is the right-hand side of a `define` declaration.
type DomainKind int

const (
	DomainBoolean DomainKind = iota
	DomainReal
	DomainNonNegativeReal
	DomainIntegerRange
)

// DomainDecl declares one or more variable families' type, e.g.
// `x as Boolean for i in 0..len(weights)` or, for a multi-index family,
// `x_{u,v} as Boolean for (u,v,c) in edges(g)`. Each Names entry is a
// Variable or CompoundVariable naming exactly the indices that appear on
// the declared variable wherever it's used in the objective/constraints —
// which may be a subset of the quantifier's own induction variables.
type DomainDecl struct {
	Names []PreExp
	Kind  DomainKind
	Lo    PreExp // set when Kind == DomainIntegerRange
	Hi    PreExp // set when Kind == DomainIntegerRange
	Sets  []IterableSet
	Sp    span.InputSpan
}

// PreProblem is the full parse tree of a source file: objective direction,
// objective expression, constraints, data bindings, and domain
// declarations, each still holding their original PreExp subtrees.
type PreProblem struct {
	Direction   OptimizationType
	Objective   PreExp
	Constraints []Constraint
	Bindings    []Binding
	Domains     []DomainDecl
}
