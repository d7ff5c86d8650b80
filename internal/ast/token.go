// Package ast is the pre-model AST: PreExp/PreProblem as emitted by the
// lexer and parser, retaining source spans for diagnostics.
package ast

import (
	"fmt"

	"github.com/rooc-lang/rooc/internal/span"
)

// TokenKind is the closed set of lexical token kinds the grammar needs.
type TokenKind int

const (
	TkIllegal TokenKind = iota
	TkEOF

	TkNumber
	TkIdentifier
	TkString

	// Keywords
	TkMin
	TkMax
	TkST // "s.t."
	TkWhere
	TkDefine
	TkLet
	TkAs
	TkFor
	TkIn

	// Operators & punctuation
	TkPlus
	TkMinus
	TkStar
	TkSlash
	TkLParen
	TkRParen
	TkLBracket
	TkRBracket
	TkLBrace
	TkRBrace
	TkComma
	TkPipe // |x|
	TkUnderscore
	TkDotDot   // ..
	TkDotDotEq // ..=
	TkLe       // <=
	TkGe       // >=
	TkEq       // =

	// TkNewline is significant at the top level: it's what stops an implicit
	// multiplication or a constraint/binding/domain list from swallowing the
	// next line's leading token. A run of blank lines and comments collapses
	// into a single TkNewline.
	TkNewline
)

var keywords = map[string]TokenKind{
	"min":    TkMin,
	"max":    TkMax,
	"s.t.":   TkST,
	"where":  TkWhere,
	"define": TkDefine,
	"let":    TkLet,
	"as":     TkAs,
	"for":    TkFor,
	"in":     TkIn,
}

func LookupKeyword(ident string) (TokenKind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

func (k TokenKind) String() string {
	switch k {
	case TkEOF:
		return "EOF"
	case TkNumber:
		return "number"
	case TkIdentifier:
		return "identifier"
	case TkString:
		return "string"
	case TkMin:
		return "min"
	case TkMax:
		return "max"
	case TkST:
		return "s.t."
	case TkWhere:
		return "where"
	case TkDefine:
		return "define"
	case TkLet:
		return "let"
	case TkAs:
		return "as"
	case TkFor:
		return "for"
	case TkIn:
		return "in"
	case TkPlus:
		return "+"
	case TkMinus:
		return "-"
	case TkStar:
		return "*"
	case TkSlash:
		return "/"
	case TkLParen:
		return "("
	case TkRParen:
		return ")"
	case TkLBracket:
		return "["
	case TkRBracket:
		return "]"
	case TkLBrace:
		return "{"
	case TkRBrace:
		return "}"
	case TkComma:
		return ","
	case TkPipe:
		return "|"
	case TkUnderscore:
		return "_"
	case TkDotDot:
		return ".."
	case TkDotDotEq:
		return "..="
	case TkLe:
		return "<="
	case TkGe:
		return ">="
	case TkEq:
		return "="
	case TkNewline:
		return "newline"
	default:
		return "illegal"
	}
}

// Token is a lexical token with a literal payload and source span.
type Token struct {
	Kind    TokenKind
	Literal string
	Pos     span.Position
	EndPos  span.Position
}

func (t Token) String() string {
	if t.Literal != "" {
		return fmt.Sprintf("%s(%q) at %s", t.Kind, t.Literal, t.Pos)
	}
	return fmt.Sprintf("%s at %s", t.Kind, t.Pos)
}

func (t Token) Span() span.InputSpan {
	return span.InputSpan{Start: t.Pos, End: t.EndPos}
}
