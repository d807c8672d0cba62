package parser

import (
	"strconv"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/token"
)

// parseExpression is the entry point for the precedence-climbing chain
// below, ordered lowest to highest precedence:
// || < && < ==/!= < </<=/>/>= < +/- < */ /%  < unary !/- < call/index.
func (p *Parser) parseExpression() ast.Expression {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expression {
	left := p.parseAnd()
	for p.check(token.OR_OR) {
		op := p.advance()
		right := p.parseAnd()
		left = &ast.BinaryExpr{Op: op.Kind, Left: left, Right: right, Span: token.Merge(left.GetSpan(), right.GetSpan())}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseEquality()
	for p.check(token.AND_AND) {
		op := p.advance()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Op: op.Kind, Left: left, Right: right, Span: token.Merge(left.GetSpan(), right.GetSpan())}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expression {
	left := p.parseComparison()
	for p.check(token.EQ) || p.check(token.NOT_EQ) {
		op := p.advance()
		right := p.parseComparison()
		left = &ast.BinaryExpr{Op: op.Kind, Left: left, Right: right, Span: token.Merge(left.GetSpan(), right.GetSpan())}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()
	for p.check(token.LT) || p.check(token.LT_EQ) || p.check(token.GT) || p.check(token.GT_EQ) {
		op := p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryExpr{Op: op.Kind, Left: left, Right: right, Span: token.Merge(left.GetSpan(), right.GetSpan())}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Op: op.Kind, Left: left, Right: right, Span: token.Merge(left.GetSpan(), right.GetSpan())}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseUnary()
	for p.check(token.STAR) || p.check(token.SLASH) || p.check(token.PERCENT) {
		op := p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Op: op.Kind, Left: left, Right: right, Span: token.Merge(left.GetSpan(), right.GetSpan())}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.check(token.BANG) || p.check(token.MINUS) {
		op := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: op.Kind, Operand: operand, Span: token.Merge(op.Span, operand.GetSpan())}
	}
	return p.parseCallIndex()
}

// parseCallIndex parses a primary expression followed by any number of
// call and index postfixes, e.g. `f(1)[0](2)`.
func (p *Parser) parseCallIndex() ast.Expression {
	expr := p.parsePrimary()
	for {
		switch {
		case p.check(token.LPAREN):
			expr = p.finishCall(expr)
		case p.check(token.LBRACKET):
			expr = p.finishIndex(expr)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	p.advance() // (
	var args []ast.Expression
	if !p.check(token.RPAREN) {
		args = append(args, p.parseExpression())
		for p.match(token.COMMA) {
			args = append(args, p.parseExpression())
		}
	}
	end := p.expect(token.RPAREN, "')'").Span
	return &ast.CallExpr{Callee: callee, Args: args, Span: token.Merge(callee.GetSpan(), end)}
}

func (p *Parser) finishIndex(arr ast.Expression) ast.Expression {
	p.advance() // [
	idx := p.parseExpression()
	end := p.expect(token.RBRACKET, "']'").Span
	return &ast.IndexExpr{Array: arr, Index: idx, Span: token.Merge(arr.GetSpan(), end)}
}

func (p *Parser) parsePrimary() ast.Expression {
	t := p.cur()
	switch t.Kind {
	case token.NUMBER:
		p.advance()
		val, _ := t.Literal.(float64)
		return &ast.NumberLiteral{Value: val, Raw: t.Lexeme, Span: t.Span}
	case token.STRING:
		p.advance()
		val, _ := t.Literal.(string)
		return &ast.StringLiteral{Value: val, Span: t.Span}
	case token.TRUE:
		p.advance()
		return &ast.BoolLiteral{Value: true, Span: t.Span}
	case token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Value: false, Span: t.Span}
	case token.NULL:
		p.advance()
		return &ast.NullLiteral{Span: t.Span}
	case token.IDENT:
		p.advance()
		return &ast.Identifier{Name: t.Lexeme, Span: t.Span}
	case token.LPAREN:
		p.advance()
		inner := p.parseExpression()
		end := p.expect(token.RPAREN, "')'").Span
		return &ast.GroupExpr{Inner: inner, Span: token.Merge(t.Span, end)}
	case token.LBRACKET:
		return p.parseArrayLiteral()
	default:
		p.errorHere(diagnostics.ErrSyntax, "expected an expression, found "+quoteLexeme(t.Lexeme))
		p.advance()
		return &ast.NullLiteral{Span: t.Span}
	}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	start := p.expect(token.LBRACKET, "'['").Span
	var elems []ast.Expression
	if !p.check(token.RBRACKET) {
		elems = append(elems, p.parseExpression())
		for p.match(token.COMMA) {
			if p.check(token.RBRACKET) { // trailing comma
				break
			}
			elems = append(elems, p.parseExpression())
		}
	}
	end := p.expect(token.RBRACKET, "']'").Span
	return &ast.ArrayLiteral{Elements: elems, Span: token.Merge(start, end)}
}

func quoteLexeme(s string) string {
	return strconv.Quote(s)
}
