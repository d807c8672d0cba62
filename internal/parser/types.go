package parser

import (
	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/token"
)

// parseTypeRef parses a type annotation: a primitive name, possibly
// followed by any number of `[]` suffixes, or a `fn(...) -> T` function
// type.
func (p *Parser) parseTypeRef() ast.TypeRef {
	start := p.cur().Span
	var base ast.TypeRef

	switch p.cur().Kind {
	case token.NUMBER_TYPE, token.STRING_TYPE, token.BOOL_TYPE, token.VOID_TYPE:
		name := p.cur().Lexeme
		p.advance()
		base = &ast.PrimitiveTypeRef{Name: name, Span: start}
	case token.NULL: // "null" as a type name reuses the literal keyword token
		p.advance()
		base = &ast.PrimitiveTypeRef{Name: "null", Span: start}
	case token.FN:
		base = p.parseFunctionTypeRef()
	default:
		p.errorHere(diagnostics.ErrSyntax, "expected a type")
		p.advance()
		base = &ast.PrimitiveTypeRef{Name: "void", Span: start}
	}

	for p.check(token.LBRACKET) && p.peekAt(1).Kind == token.RBRACKET {
		p.advance() // [
		end := p.advance().Span // ]
		base = &ast.ArrayTypeRef{Elem: base, Span: token.Merge(start, end)}
	}
	return base
}

func (p *Parser) parseFunctionTypeRef() ast.TypeRef {
	start := p.expect(token.FN, "'fn'").Span
	p.expect(token.LPAREN, "'('")
	var params []ast.TypeRef
	if !p.check(token.RPAREN) {
		params = append(params, p.parseTypeRef())
		for p.match(token.COMMA) {
			params = append(params, p.parseTypeRef())
		}
	}
	p.expect(token.RPAREN, "')'")
	p.expect(token.ARROW, "'->'")
	ret := p.parseTypeRef()
	return &ast.FunctionTypeRef{Params: params, Ret: ret, Span: token.Merge(start, ret.GetSpan())}
}
