package parser

import (
	"github.com/rooc-lang/rooc/internal/ast"
	"github.com/rooc-lang/rooc/internal/errs"
)

// ParseProblem parses a full source file:
//
//	problem := ("min"|"max") expr "s.t." constraint+ ("where" binding+)? ("define" domain+)?
func (p *Parser) ParseProblem() *ast.PreProblem {
	p.skipNewlines()
	prob := &ast.PreProblem{Direction: ast.Min}

	switch {
	case p.match(ast.TkMin):
		prob.Direction = ast.Min
	case p.match(ast.TkMax):
		prob.Direction = ast.Max
	default:
		tok := p.current()
		p.errorf(errs.MissingToken, tok.Span(), "expected min or max, got %s", tok.Kind)
	}

	prob.Objective = p.ParseExpr()
	p.skipNewlines()

	if _, ok := p.expect(ast.TkST); !ok {
		return prob
	}
	p.skipNewlines()

	for !p.isAtEnd() && !p.check(ast.TkWhere) && !p.check(ast.TkDefine) {
		prob.Constraints = append(prob.Constraints, p.parseConstraint())
		p.skipNewlines()
	}

	if p.match(ast.TkWhere) {
		p.skipNewlines()
		for !p.isAtEnd() && !p.check(ast.TkDefine) && p.check(ast.TkLet) {
			prob.Bindings = append(prob.Bindings, p.parseBinding())
			p.skipNewlines()
		}
	}

	if p.match(ast.TkDefine) {
		p.skipNewlines()
		for !p.isAtEnd() {
			prob.Domains = append(prob.Domains, p.parseDomainDecl())
			p.skipNewlines()
		}
	}

	return prob
}

func (p *Parser) parseConstraint() ast.Constraint {
	left := p.ParseExpr()
	cmpTok := p.current()
	cmp := p.parseComparison()
	right := p.ParseExpr()

	c := ast.Constraint{Left: left, Cmp: cmp, Right: right, Sp: cmpTok.Span()}
	if p.match(ast.TkFor) {
		c.Sets = append(c.Sets, p.parseSet())
		for p.match(ast.TkComma) {
			c.Sets = append(c.Sets, p.parseSet())
		}
	}
	return c
}

func (p *Parser) parseComparison() ast.Comparison {
	tok := p.current()
	switch tok.Kind {
	case ast.TkLe:
		p.advance()
		return ast.LowerOrEqual
	case ast.TkGe:
		p.advance()
		return ast.UpperOrEqual
	case ast.TkEq:
		p.advance()
		return ast.Equal
	default:
		p.errorf(errs.UnexpectedToken, tok.Span(), "expected a comparison operator, got %s", tok.Kind)
		return ast.Equal
	}
}

func (p *Parser) parseBinding() ast.Binding {
	start := p.current()
	p.expect(ast.TkLet)
	name := p.identName()
	p.expect(ast.TkEq)
	value := p.ParseExpr()
	return ast.Binding{Name: name, Value: value, Sp: start.Span()}
}

// parseDomainName parses one entry of a `define` declaration's name list:
// either a bare family name (`x`) or a compound name indexed by the
// quantifier's own induction variables (`x_{u, v}`), reusing the same
// compound-variable grammar expressions use so the flattened name the
// transformer computes for a domain entry always matches the flattened name
// a reference to that same variable produces in the objective/constraints.
func (p *Parser) parseDomainName() ast.PreExp {
	nameTok, _ := p.expect(ast.TkIdentifier)
	if p.check(ast.TkUnderscore) {
		p.advance()
		return p.parseCompoundVariable(nameTok, nameTok.Literal)
	}
	return &ast.Variable{Name: nameTok.Literal, Sp: nameTok.Span()}
}

func (p *Parser) parseDomainDecl() ast.DomainDecl {
	start := p.current()
	names := []ast.PreExp{p.parseDomainName()}
	for p.match(ast.TkComma) {
		names = append(names, p.parseDomainName())
	}
	p.expect(ast.TkAs)

	kindTok, _ := p.expect(ast.TkIdentifier)
	decl := ast.DomainDecl{Names: names, Sp: start.Span()}
	switch kindTok.Literal {
	case "Boolean":
		decl.Kind = ast.DomainBoolean
	case "Real":
		decl.Kind = ast.DomainReal
	case "NonNegativeReal":
		decl.Kind = ast.DomainNonNegativeReal
	case "IntegerRange":
		decl.Kind = ast.DomainIntegerRange
		p.expect(ast.TkLParen)
		decl.Lo = p.ParseExpr()
		p.expect(ast.TkComma)
		decl.Hi = p.ParseExpr()
		p.expect(ast.TkRParen)
	default:
		p.errorf(errs.SemanticError, kindTok.Span(), "unknown domain kind %q", kindTok.Literal)
	}

	if p.match(ast.TkFor) {
		decl.Sets = append(decl.Sets, p.parseSet())
		for p.match(ast.TkComma) {
			decl.Sets = append(decl.Sets, p.parseSet())
		}
	}
	return decl
}
