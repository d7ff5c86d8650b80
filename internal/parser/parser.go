// Package parser builds a PreProblem from a ROOC source file using a
// recursive-descent layer (problem structure, constraints, bindings,
// domains) driving a Pratt expression parser, the same two-layer shape
// the teacher uses for statements vs. expressions.
package parser

import (
	"fmt"

	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/lexer"
	"github.com/rooc-lang/rooc/internal/span"
)

// Parser parses ROOC source text into a PreProblem.
type Parser struct {
	source string
	tokens []ast.Token
	pos    int
	errors []errs.CompilationError
}

func New(source string) *Parser {
	return NewWithFilename(source, "")
}

func NewWithFilename(source, filename string) *Parser {
	lx := lexer.NewWithFilename(source, filename)
	tokens, lexErrs := lx.Tokenize()
	p := &Parser{source: source, tokens: tokens}
	for _, le := range lexErrs {
		sp := span.InputSpan{Start: le.Pos, End: le.Pos}
		p.errors = append(p.errors, errs.NewCompilationError(errs.UnexpectedToken, sp, le.Message))
	}
	return p
}

// Parse parses the source file and returns a PreProblem plus any
// compilation errors. Parsing does not stop at the first error: it
// resynchronizes at the next constraint/binding/domain boundary to keep
// collecting diagnostics, mirroring the teacher's NewParser/Parse split.
func Parse(source string) (*ast.PreProblem, []errs.CompilationError) {
	p := New(source)
	prob := p.ParseProblem()
	return prob, p.Errors()
}

func (p *Parser) Errors() []errs.CompilationError {
	for i := range p.errors {
		p.errors[i] = p.errors[i].WithSnippet(p.source)
	}
	return p.errors
}

// --- token stream helpers, mirroring the teacher's current/peek/advance/check split ---

func (p *Parser) current() ast.Token {
	if p.pos >= len(p.tokens) {
		return ast.Token{Kind: ast.TkEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) ast.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return ast.Token{Kind: ast.TkEOF}
	}
	return p.tokens[idx]
}

func (p *Parser) advance() ast.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind ast.TokenKind) bool {
	return p.current().Kind == kind
}

func (p *Parser) match(kind ast.TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

// skipNewlines consumes a TkNewline token if present. Newlines only
// separate top-level constructs (constraints, bindings, domain
// declarations) from one another; every other call site treats them as
// insignificant and skips past them explicitly rather than the lexer
// discarding them, so a dangling implicit-multiplication factor can never
// read past a line boundary into the next statement.
func (p *Parser) skipNewlines() {
	for p.match(ast.TkNewline) {
	}
}

func (p *Parser) expect(kind ast.TokenKind) (ast.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	tok := p.current()
	p.errors = append(p.errors, errs.NewCompilationError(
		errs.MissingToken, tok.Span(), fmt.Sprintf("expected %s, got %s", kind, tok.Kind),
	))
	return tok, false
}

func (p *Parser) errorf(kind errs.CompilationErrorKind, sp span.InputSpan, format string, args ...any) {
	p.errors = append(p.errors, errs.NewCompilationError(kind, sp, fmt.Sprintf(format, args...)))
}

// isAtEnd reports whether the parser has consumed every token.
func (p *Parser) isAtEnd() bool { return p.check(ast.TkEOF) }
