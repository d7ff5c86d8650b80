package transformer

import (
	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/functions"
	"github.com/rooc-lang/rooc/internal/primitives"
)

// Context holds the constant bindings visible during evaluation (from
// `where` clauses and quantifier induction variables) plus the function
// table, and tracks every decision-variable name encountered so the Model
// can report them in first-seen order. This mirrors the original's
// TransformerContext: add_scope/pop_scope bracket each quantifier body,
// declare_variable/update_variable manage bindings within a scope, and
// get_value resolves a name through the whole stack.
type Context struct {
	scopes   []map[string]primitives.Primitive
	Fns      *functions.Map
	varSeen  map[string]bool
	varOrder []string
}

func NewContext(fns *functions.Map) *Context {
	return &Context{
		scopes:  []map[string]primitives.Primitive{{}},
		Fns:     fns,
		varSeen: map[string]bool{},
	}
}

// AddScope pushes a fresh binding scope, used around each quantifier body.
func (c *Context) AddScope() {
	c.scopes = append(c.scopes, map[string]primitives.Primitive{})
}

// PopScope removes the innermost scope. Popping the outermost scope is a
// programming error in the caller, not a user-facing condition.
func (c *Context) PopScope() {
	if len(c.scopes) <= 1 {
		panic("transformer: pop_scope called with no scope to pop")
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// DeclareVariable introduces name in the innermost scope, shadowing any
// outer binding of the same name for the scope's lifetime.
func (c *Context) DeclareVariable(name string, val primitives.Primitive) {
	c.scopes[len(c.scopes)-1][name] = val
}

// UpdateVariable rebinds an already-declared name to a new value, walking
// outward from the innermost scope — used to advance a quantifier's
// induction variable on each iteration without re-declaring it.
func (c *Context) UpdateVariable(name string, val primitives.Primitive) error {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if _, ok := c.scopes[i][name]; ok {
			c.scopes[i][name] = val
			return nil
		}
	}
	return errs.NewMissingVariable(name)
}

// GetValue resolves name through the scope stack, innermost first.
func (c *Context) GetValue(name string) (primitives.Primitive, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// NoteDecisionVariable records a flattened decision-variable name the first
// time it's referenced, building the Model's VariableOrder.
func (c *Context) NoteDecisionVariable(name string) {
	if !c.varSeen[name] {
		c.varSeen[name] = true
		c.varOrder = append(c.varOrder, name)
	}
}

func (c *Context) VariableOrder() []string {
	out := make([]string, len(c.varOrder))
	copy(out, c.varOrder)
	return out
}
