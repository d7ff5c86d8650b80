// Package errs collects the tagged error types returned by every stage of
// the ROOC pipeline. Errors are propagated as values, never panics, and are
// enriched with a source span as they cross a stage boundary.
package errs

import (
	"fmt"

	"github.com/rooc-lang/rooc/internal/span"
)

// CompilationErrorKind distinguishes the lexer/parser/type-checker failure
// modes named by the specification.
type CompilationErrorKind int

const (
	UnexpectedToken CompilationErrorKind = iota
	MissingToken
	SemanticError
	WrongNumberOfArguments
)

func (k CompilationErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case MissingToken:
		return "missing token"
	case SemanticError:
		return "semantic error"
	case WrongNumberOfArguments:
		return "wrong number of arguments"
	default:
		return "compilation error"
	}
}

// CompilationError is a syntactic or structural failure from parsing or
// type checking, carrying the span of the offending text and a rendered
// snippet for display.
type CompilationError struct {
	Kind    CompilationErrorKind
	Span    span.InputSpan
	Message string
	Snippet string
}

func (e CompilationError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("%s: %s: %s\n\t%s", e.Span, e.Kind, e.Message, e.Snippet)
	}
	return fmt.Sprintf("%s: %s: %s", e.Span, e.Kind, e.Message)
}

func NewCompilationError(kind CompilationErrorKind, sp span.InputSpan, message string) CompilationError {
	return CompilationError{Kind: kind, Span: sp, Message: message}
}

func (e CompilationError) WithSnippet(source string) CompilationError {
	e.Snippet = span.Snippet(source, e.Span)
	return e
}

// TransformErrorKind enumerates the ways data-plane evaluation can fail
// during the transform stage.
type TransformErrorKind int

const (
	MissingVariable TransformErrorKind = iota
	WrongArgument
	WrongType
	WrongArgumentCount
	NonSpreadablePrimitive
	Unimplemented
)

// TransformError is raised while evaluating constants, function calls, and
// quantifiers during the transform stage. It starts unspanned and is
// enriched with the current node's span by the caller via WithSpan.
type TransformError struct {
	Kind     TransformErrorKind
	Message  string
	Expected string
	Got      string
	Span     span.InputSpan
	hasSpan  bool
}

func (e TransformError) Error() string {
	prefix := ""
	if e.hasSpan {
		prefix = e.Span.String() + ": "
	}
	switch e.Kind {
	case WrongType:
		return fmt.Sprintf("%swrong type: expected %s, got %s", prefix, e.Expected, e.Got)
	default:
		return prefix + e.Message
	}
}

func NewMissingVariable(name string) TransformError {
	return TransformError{Kind: MissingVariable, Message: fmt.Sprintf("missing variable %q", name)}
}

func NewWrongArgument(message string) TransformError {
	return TransformError{Kind: WrongArgument, Message: message}
}

func NewWrongType(expected, got string) TransformError {
	return TransformError{Kind: WrongType, Expected: expected, Got: got}
}

func NewWrongArgumentCount(message string) TransformError {
	return TransformError{Kind: WrongArgumentCount, Message: message}
}

func NewNonSpreadable(message string) TransformError {
	return TransformError{Kind: NonSpreadablePrimitive, Message: message}
}

func NewUnimplemented(message string) TransformError {
	return TransformError{Kind: Unimplemented, Message: message}
}

// WithSpan attaches sp to err if err is a TransformError without one yet,
// mirroring the repeated `.map_err(|e| e.to_spanned_error(...))` idiom used
// throughout the original transformer.
func WithSpan(err error, sp span.InputSpan) error {
	if err == nil {
		return nil
	}
	if te, ok := err.(TransformError); ok && !te.hasSpan {
		te.Span = sp
		te.hasSpan = true
		return te
	}
	return err
}

// LinearizationErrorKind enumerates why a Model could not be reduced to
// linear form.
type LinearizationErrorKind int

const (
	NotLinear LinearizationErrorKind = iota
	UnsupportedConstruct
)

type LinearizationError struct {
	Kind    LinearizationErrorKind
	Message string
}

func (e LinearizationError) Error() string {
	return e.Message
}

func NewNotLinear(message string) LinearizationError {
	return LinearizationError{Kind: NotLinear, Message: message}
}

func NewUnsupportedConstruct(message string) LinearizationError {
	return LinearizationError{Kind: UnsupportedConstruct, Message: message}
}

// SolverErrorKind enumerates the terminal states of the simplex/MILP
// back-ends that are not a found optimum.
type SolverErrorKind int

const (
	Infeasible SolverErrorKind = iota
	Unbounded
	IterationLimit
	BackendError
)

type SolverError struct {
	Kind    SolverErrorKind
	Message string
}

func (e SolverError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case Infeasible:
		return "infeasible problem"
	case Unbounded:
		return "unbounded problem"
	case IterationLimit:
		return "iteration limit reached"
	default:
		return "solver backend error"
	}
}

func NewInfeasible() SolverError        { return SolverError{Kind: Infeasible} }
func NewUnbounded() SolverError         { return SolverError{Kind: Unbounded} }
func NewIterationLimit() SolverError    { return SolverError{Kind: IterationLimit} }
func NewBackendError(msg string) SolverError {
	return SolverError{Kind: BackendError, Message: msg}
}
