// Package transformer evaluates a PreProblem into a Model: PreExp is either
// fully resolved to a constant Primitive (array data, graph literals,
// quantifier bounds) or lowered to a symbolic Exp tree referencing decision
// variables by their flattened name.
package transformer

import "github.com/rooc-lang/rooc/internal/ast"

// ExpKind is the closed set of symbolic expression node shapes a Model's
// objective and constraints are built from, after flattening.
type ExpKind int

const (
	ExpNumber ExpKind = iota
	ExpVariable
	ExpAdd // n-ary, only shape flatten produces for + and -
	ExpNeg
	ExpMul
	ExpDiv
	ExpMod
	ExpMin
	ExpMax
)

// Exp is a symbolic arithmetic expression over decision variables, produced
// by evaluating an objective or constraint PreExp. A fully constant Exp has
// Kind == ExpNumber after Flatten folds it.
type Exp struct {
	Kind     ExpKind
	Number   float64
	Variable string
	Terms    []Exp // ExpAdd
	Operand  *Exp  // ExpNeg, ExpMod
	Left     *Exp  // ExpMul, ExpDiv
	Right    *Exp  // ExpMul, ExpDiv
	Operands []Exp // ExpMin, ExpMax
}

func NumberExp(v float64) Exp        { return Exp{Kind: ExpNumber, Number: v} }
func VariableExp(name string) Exp    { return Exp{Kind: ExpVariable, Variable: name} }
func NegExp(e Exp) Exp               { return Exp{Kind: ExpNeg, Operand: &e} }
func AddExp(terms ...Exp) Exp        { return Exp{Kind: ExpAdd, Terms: terms} }
func MulExp(l, r Exp) Exp            { return Exp{Kind: ExpMul, Left: &l, Right: &r} }
func DivExp(l, r Exp) Exp            { return Exp{Kind: ExpDiv, Left: &l, Right: &r} }
func ModExp(e Exp) Exp               { return Exp{Kind: ExpMod, Operand: &e} }
func MinExp(terms ...Exp) Exp        { return Exp{Kind: ExpMin, Operands: terms} }
func MaxExp(terms ...Exp) Exp        { return Exp{Kind: ExpMax, Operands: terms} }

// IsConstant reports whether e folded down to a bare number.
func (e Exp) IsConstant() bool { return e.Kind == ExpNumber }

// Constraint is a relation between two symbolic expressions in a Model.
type Constraint struct {
	Left  Exp
	Cmp   ast.Comparison
	Right Exp
}

// Model is the output of transformation: an objective plus constraints over
// decision variables named by their flattened (post-compound-variable)
// name, in first-seen order.
type Model struct {
	Direction     ast.OptimizationType
	Objective     Exp
	Constraints   []Constraint
	VariableOrder []string
	Domains       map[string]VariableDomain
}

// VariableDomain is a decision variable's declared domain, defaulting to
// NonNegativeReal when no `define` clause names it — the common LP
// convention the original keeps as its implicit default.
type VariableDomain struct {
	Kind DomainKind
	Lo   float64 // set when Kind == IntegerRange
	Hi   float64 // set when Kind == IntegerRange
}

type DomainKind int

const (
	DomainNonNegativeReal DomainKind = iota
	DomainReal
	DomainBoolean
	DomainIntegerRange
)
