package parser

import (
	"strconv"

	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/span"
)

// Precedence levels for the Pratt layer. Implicit multiplication shares
// precProduct with explicit '*'/'/'; unary negation binds tighter than
// both, matching spec.md §4.1.
const (
	precLowest  = 0
	precSum     = 1 // + -
	precProduct = 2 // * / and implicit multiplication
)

// ParseExpr parses a single expression starting at the lowest precedence.
func (p *Parser) ParseExpr() ast.PreExp {
	return p.parseExpr(precLowest)
}

func (p *Parser) parseExpr(minPrec int) ast.PreExp {
	left := p.parseProduct()
	for minPrec <= precSum && (p.check(ast.TkPlus) || p.check(ast.TkMinus)) {
		opTok := p.advance()
		op := ast.Add
		if opTok.Kind == ast.TkMinus {
			op = ast.Sub
		}
		right := p.parseProduct()
		left = &ast.BinOp{Op: op, Left: left, Right: right, Sp: span.Join(left.Span(), right.Span())}
	}
	return left
}

func (p *Parser) parseProduct() ast.PreExp {
	left := p.parseUnary()
	for {
		switch {
		case p.check(ast.TkStar):
			p.advance()
			right := p.parseUnary()
			left = &ast.BinOp{Op: ast.Mul, Left: left, Right: right, Sp: span.Join(left.Span(), right.Span())}
		case p.check(ast.TkSlash):
			p.advance()
			right := p.parseUnary()
			left = &ast.BinOp{Op: ast.Div, Left: left, Right: right, Sp: span.Join(left.Span(), right.Span())}
		case p.startsImplicitFactor():
			right := p.parseUnary()
			left = &ast.BinOp{Op: ast.Mul, Left: left, Right: right, Sp: span.Join(left.Span(), right.Span())}
		default:
			return left
		}
	}
}

// startsImplicitFactor reports whether the current token can begin a new
// primary with no explicit operator — a juxtaposition like `2x` or
// `3(x+1)` that lowers to Mul. Every call site that uses this already has
// a left operand in hand, so the resulting node always has two factors.
// A '|' never starts an implicit factor: inside `|...|` it is the closing
// bar, not the opening bar of a new absolute value.
func (p *Parser) startsImplicitFactor() bool {
	switch p.current().Kind {
	case ast.TkNumber, ast.TkIdentifier, ast.TkLParen, ast.TkMin, ast.TkMax:
		return true
	default:
		return false
	}
}

func (p *Parser) parseUnary() ast.PreExp {
	if p.check(ast.TkMinus) {
		tok := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryNeg{Operand: operand, Sp: span.Join(tok.Span(), operand.Span())}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.PreExp {
	tok := p.current()
	switch tok.Kind {
	case ast.TkNumber:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Literal, 64)
		return &ast.NumberLit{Value: v, Sp: tok.Span()}
	case ast.TkString:
		p.advance()
		return &ast.StringLit{Value: tok.Literal, Sp: tok.Span()}
	case ast.TkPipe:
		p.advance()
		inner := p.ParseExpr()
		end, _ := p.expect(ast.TkPipe)
		return &ast.Mod{Operand: inner, Sp: span.Join(tok.Span(), end.Span())}
	case ast.TkMin:
		return p.parseMinMax(tok, false)
	case ast.TkMax:
		return p.parseMinMax(tok, true)
	case ast.TkLParen:
		p.advance()
		first := p.ParseExpr()
		if p.check(ast.TkComma) {
			elems := []ast.PreExp{first}
			for p.match(ast.TkComma) {
				elems = append(elems, p.ParseExpr())
			}
			end, _ := p.expect(ast.TkRParen)
			return &ast.TupleLit{Elements: elems, Sp: span.Join(tok.Span(), end.Span())}
		}
		end, _ := p.expect(ast.TkRParen)
		if first != nil {
			return withSpan(first, span.Join(tok.Span(), end.Span()))
		}
		return first
	case ast.TkIdentifier:
		return p.parseIdentifierExpr()
	case ast.TkLBracket:
		return p.parseArrayLit(tok)
	default:
		p.errorf(errs.UnexpectedToken, tok.Span(), "unexpected token %s", tok.Kind)
		p.advance()
		return &ast.NumberLit{Value: 0, Sp: tok.Span()}
	}
}

// withSpan widens a parenthesized expression's reported span to include
// the surrounding parens, without otherwise touching the node.
func withSpan(e ast.PreExp, sp span.InputSpan) ast.PreExp {
	switch v := e.(type) {
	case *ast.BinOp:
		v.Sp = sp
	case *ast.UnaryNeg:
		v.Sp = sp
	case *ast.Mod:
		v.Sp = sp
	}
	return e
}

func (p *Parser) parseMinMax(tok ast.Token, isMax bool) ast.PreExp {
	p.advance()
	p.expect(ast.TkLParen)
	var exprs []ast.PreExp
	if !p.check(ast.TkRParen) {
		exprs = append(exprs, p.ParseExpr())
		for p.match(ast.TkComma) {
			exprs = append(exprs, p.ParseExpr())
		}
	}
	end, _ := p.expect(ast.TkRParen)
	sp := span.Join(tok.Span(), end.Span())
	if isMax {
		return &ast.Max{Exprs: exprs, Sp: sp}
	}
	return &ast.Min{Exprs: exprs, Sp: sp}
}

// parseArrayLit parses a literal array `[e, e, ...]`, the only place
// `where` bindings can introduce constant data. Nesting one level gives a
// 2-D array (`[[1, 2], [3, 4]]`).
func (p *Parser) parseArrayLit(tok ast.Token) ast.PreExp {
	p.advance() // consume '['
	var elems []ast.PreExp
	if !p.check(ast.TkRBracket) {
		elems = append(elems, p.ParseExpr())
		for p.match(ast.TkComma) {
			elems = append(elems, p.ParseExpr())
		}
	}
	end, _ := p.expect(ast.TkRBracket)
	return &ast.ArrayLit{Elements: elems, Sp: span.Join(tok.Span(), end.Span())}
}

func (p *Parser) parseIdentifierExpr() ast.PreExp {
	nameTok := p.advance()
	name := nameTok.Literal

	if name == "sum" && p.check(ast.TkLParen) {
		return p.parseSumBlock(nameTok)
	}

	if p.check(ast.TkLParen) {
		p.advance()
		var args []ast.PreExp
		if !p.check(ast.TkRParen) {
			args = append(args, p.ParseExpr())
			for p.match(ast.TkComma) {
				args = append(args, p.ParseExpr())
			}
		}
		end, _ := p.expect(ast.TkRParen)
		return &ast.FunctionCall{Name: name, Args: args, Sp: span.Join(nameTok.Span(), end.Span())}
	}

	if p.check(ast.TkUnderscore) {
		p.advance()
		return p.parseCompoundVariable(nameTok, name)
	}

	if p.check(ast.TkLBracket) {
		base := ast.PreExp(&ast.Variable{Name: name, Sp: nameTok.Span()})
		var indexes []ast.PreExp
		end := nameTok
		for p.check(ast.TkLBracket) {
			p.advance()
			indexes = append(indexes, p.ParseExpr())
			end, _ = p.expect(ast.TkRBracket)
		}
		return &ast.ArrayAccess{Base: base, Indexes: indexes, Sp: span.Join(nameTok.Span(), end.Span())}
	}

	return &ast.Variable{Name: name, Sp: nameTok.Span()}
}

func (p *Parser) parseCompoundVariable(nameTok ast.Token, name string) ast.PreExp {
	if p.check(ast.TkLBrace) {
		p.advance()
		indexes := []ast.PreExp{p.ParseExpr()}
		for p.match(ast.TkComma) {
			indexes = append(indexes, p.ParseExpr())
		}
		end, _ := p.expect(ast.TkRBrace)
		return &ast.CompoundVariable{Name: name, Indexes: indexes, Sp: span.Join(nameTok.Span(), end.Span())}
	}
	index := p.parsePrimary()
	return &ast.CompoundVariable{Name: name, Indexes: []ast.PreExp{index}, Sp: span.Join(nameTok.Span(), index.Span())}
}

func (p *Parser) parseSumBlock(tok ast.Token) ast.PreExp {
	p.advance() // consume '('
	sets := []ast.IterableSet{p.parseSet()}
	for p.match(ast.TkComma) {
		sets = append(sets, p.parseSet())
	}
	p.expect(ast.TkRParen)
	p.expect(ast.TkLBrace)
	body := p.ParseExpr()
	end, _ := p.expect(ast.TkRBrace)
	return &ast.Sum{Sets: sets, Body: body, Sp: span.Join(tok.Span(), end.Span())}
}

// parseSet parses a single "pattern in iterable" binding, used by sum/min
// blocks and by quantified constraints/domains.
func (p *Parser) parseSet() ast.IterableSet {
	start := p.current()
	var pattern ast.VariablePattern
	if p.check(ast.TkLParen) {
		p.advance()
		names := []string{p.identName()}
		for p.match(ast.TkComma) {
			names = append(names, p.identName())
		}
		p.expect(ast.TkRParen)
		pattern = ast.VariablePattern{Tuple: names, Sp: start.Span()}
	} else {
		pattern = ast.VariablePattern{Single: p.identName(), Sp: start.Span()}
	}
	p.expect(ast.TkIn)
	iterable := p.parseIterableExpr()
	return ast.IterableSet{Var: pattern, Iterable: iterable, Sp: span.Join(start.Span(), iterable.Span())}
}

func (p *Parser) identName() string {
	tok, _ := p.expect(ast.TkIdentifier)
	return tok.Literal
}

// parseIterableExpr parses an expression that produces an Iterable: either
// a normal expression (a variable bound to an array, a function call like
// enumerate/edges) or an integer range `a..b` / `a..=b`.
func (p *Parser) parseIterableExpr() ast.PreExp {
	lower := p.ParseExpr()
	if p.check(ast.TkDotDot) || p.check(ast.TkDotDotEq) {
		inclusive := p.check(ast.TkDotDotEq)
		p.advance()
		upper := p.ParseExpr()
		return &ast.FunctionCall{
			Name: "range",
			Args: []ast.PreExp{lower, upper, &ast.BoolLit{Value: inclusive, Sp: upper.Span()}},
			Sp:   span.Join(lower.Span(), upper.Span()),
		}
	}
	return lower
}
