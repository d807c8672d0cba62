package parser

import (
	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/token"
)

// parseFunctionDecl parses `fn name(p1: T1, ...) -> Ret { ... }`.
func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	start := p.expect(token.FN, "'fn'").Span
	nameTok := p.expect(token.IDENT, "a function name")
	p.expect(token.LPAREN, "'('")

	var params []ast.Param
	if !p.check(token.RPAREN) {
		params = append(params, p.parseParam())
		for p.match(token.COMMA) {
			params = append(params, p.parseParam())
		}
	}
	p.expect(token.RPAREN, "')'")
	p.expect(token.ARROW, "'->'")
	retType := p.parseTypeRef()
	body := p.parseBlock()

	return &ast.FunctionDecl{
		Name: nameTok.Lexeme, NameSpan: nameTok.Span,
		Params: params, ReturnType: retType, Body: body,
		Span: token.Merge(start, body.Span),
	}
}

func (p *Parser) parseParam() ast.Param {
	nameTok := p.expect(token.IDENT, "a parameter name")
	p.expect(token.COLON, "':'")
	typ := p.parseTypeRef()
	return ast.Param{Name: nameTok.Lexeme, Type: typ, Span: token.Merge(nameTok.Span, typ.GetSpan())}
}

// parseBlock parses `{ stmt* }`. Only statements are permitted inside a
// block; a nested `fn` is a syntax error since functions declare only at
// top level.
func (p *Parser) parseBlock() *ast.Block {
	start := p.expect(token.LBRACE, "'{'").Span
	var stmts []ast.Statement
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if p.check(token.FN) {
			p.errorHere(diagnostics.ErrSyntax, "function declarations are only allowed at the top level")
			p.parseFunctionDecl() // parse and discard, to resynchronize past its body
			continue
		}
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
	}
	end := p.expect(token.RBRACE, "'}'").Span
	return &ast.Block{Stmts: stmts, Span: token.Merge(start, end)}
}

// parseStatement parses one statement. It returns nil (and has already
// synchronized) if the statement could not be parsed at all.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Kind {
	case token.LET, token.VAR:
		return p.parseVarDecl()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.BREAK:
		return p.parseBreakStmt()
	case token.CONTINUE:
		return p.parseContinueStmt()
	case token.LBRACE:
		return p.parseBlock()
	case token.MATCH, token.IMPORT:
		p.errorHere(diagnostics.ErrReservedKeyword, "'"+p.cur().Lexeme+"' is reserved and not yet part of the language")
		p.advance()
		p.synchronize()
		return nil
	case token.PLUS_PLUS, token.MINUS_MINUS:
		return p.parsePreIncDec()
	default:
		return p.parseSimpleOrExprStmt()
	}
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	kindTok := p.advance() // LET or VAR
	kind := ast.KindLet
	if kindTok.Kind == token.VAR {
		kind = ast.KindVar
	}
	nameTok := p.expect(token.IDENT, "a variable name")

	var declType ast.TypeRef
	if p.match(token.COLON) {
		declType = p.parseTypeRef()
	}
	p.expect(token.ASSIGN, "'='")
	init := p.parseExpression()
	end := p.expect(token.SEMICOLON, "';'").Span

	return &ast.VarDecl{
		VarKind: kind, Name: nameTok.Lexeme, NameSpan: nameTok.Span,
		DeclaredType: declType, Init: init,
		Span: token.Merge(kindTok.Span, end),
	}
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.expect(token.IF, "'if'").Span
	p.expect(token.LPAREN, "'('")
	cond := p.parseExpression()
	p.expect(token.RPAREN, "')'")
	then := p.parseBlock()

	var elseStmt ast.Statement
	end := then.Span
	if p.match(token.ELSE) {
		if p.check(token.IF) {
			elseStmt = p.parseIfStmt()
		} else {
			elseStmt = p.parseBlock()
		}
		end = elseStmt.GetSpan()
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: elseStmt, Span: token.Merge(start, end)}
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.expect(token.WHILE, "'while'").Span
	p.expect(token.LPAREN, "'('")
	cond := p.parseExpression()
	p.expect(token.RPAREN, "')'")
	body := p.parseBlock()
	return &ast.WhileStmt{Cond: cond, Body: body, Span: token.Merge(start, body.Span)}
}

func (p *Parser) parseForStmt() *ast.ForStmt {
	start := p.expect(token.FOR, "'for'").Span
	p.expect(token.LPAREN, "'('")

	var init ast.Statement
	if !p.check(token.SEMICOLON) {
		init = p.parseForClause()
	}
	p.expect(token.SEMICOLON, "';'")

	var cond ast.Expression
	if !p.check(token.SEMICOLON) {
		cond = p.parseExpression()
	}
	p.expect(token.SEMICOLON, "';'")

	var step ast.Statement
	if !p.check(token.RPAREN) {
		step = p.parseForClause()
	}
	p.expect(token.RPAREN, "')'")
	body := p.parseBlock()

	return &ast.ForStmt{Init: init, Cond: cond, Step: step, Body: body, Span: token.Merge(start, body.Span)}
}

// parseForClause parses one of the three for-loop header slots: a var
// declaration or an assignment/compound-assign/inc-dec/expression
// statement, without consuming a trailing ';' (the caller owns the
// header's own semicolons).
func (p *Parser) parseForClause() ast.Statement {
	if p.check(token.LET) || p.check(token.VAR) {
		return p.parseVarDeclNoSemi()
	}
	if p.check(token.PLUS_PLUS) || p.check(token.MINUS_MINUS) {
		opTok := p.advance()
		target := p.parseAssignTarget()
		return &ast.IncDecStmt{
			Target: target, Op: opTok.Kind, Position: ast.PositionPre,
			Span: token.Merge(opTok.Span, target.GetSpan()),
		}
	}
	return p.parseSimpleStmtNoSemi()
}

func (p *Parser) parseVarDeclNoSemi() *ast.VarDecl {
	kindTok := p.advance()
	kind := ast.KindLet
	if kindTok.Kind == token.VAR {
		kind = ast.KindVar
	}
	nameTok := p.expect(token.IDENT, "a variable name")
	var declType ast.TypeRef
	if p.match(token.COLON) {
		declType = p.parseTypeRef()
	}
	p.expect(token.ASSIGN, "'='")
	init := p.parseExpression()
	return &ast.VarDecl{
		VarKind: kind, Name: nameTok.Lexeme, NameSpan: nameTok.Span,
		DeclaredType: declType, Init: init,
		Span: token.Merge(kindTok.Span, init.GetSpan()),
	}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.expect(token.RETURN, "'return'").Span
	var val ast.Expression
	if !p.check(token.SEMICOLON) {
		val = p.parseExpression()
	}
	end := p.expect(token.SEMICOLON, "';'").Span
	return &ast.ReturnStmt{Value: val, Span: token.Merge(start, end)}
}

func (p *Parser) parseBreakStmt() *ast.BreakStmt {
	start := p.expect(token.BREAK, "'break'").Span
	end := p.expect(token.SEMICOLON, "';'").Span
	return &ast.BreakStmt{Span: token.Merge(start, end)}
}

func (p *Parser) parseContinueStmt() *ast.ContinueStmt {
	start := p.expect(token.CONTINUE, "'continue'").Span
	end := p.expect(token.SEMICOLON, "';'").Span
	return &ast.ContinueStmt{Span: token.Merge(start, end)}
}

func (p *Parser) parsePreIncDec() *ast.IncDecStmt {
	opTok := p.advance()
	target := p.parseAssignTarget()
	end := p.expect(token.SEMICOLON, "';'").Span
	return &ast.IncDecStmt{Target: target, Op: opTok.Kind, Position: ast.PositionPre, Span: token.Merge(opTok.Span, end)}
}

// parseSimpleOrExprStmt parses an assignment, compound assignment,
// postfix inc/dec, or bare expression statement, deciding which by
// looking at the token that follows a full expression.
func (p *Parser) parseSimpleOrExprStmt() ast.Statement {
	s := p.parseSimpleStmtNoSemi()
	end := p.expect(token.SEMICOLON, "';'").Span
	applySpanEnd(s, end)
	return s
}

// parseSimpleStmtNoSemi parses the same statement shapes as
// parseSimpleOrExprStmt but does not consume the trailing ';', for reuse
// in for-loop headers.
func (p *Parser) parseSimpleStmtNoSemi() ast.Statement {
	expr := p.parseExpression()

	switch p.cur().Kind {
	case token.ASSIGN:
		p.advance()
		target := exprToAssignTarget(p, expr)
		value := p.parseExpression()
		return &ast.AssignStmt{Target: target, Value: value, Span: token.Merge(expr.GetSpan(), value.GetSpan())}

	case token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN, token.PERCENT_ASSIGN:
		op := p.advance()
		target := exprToAssignTarget(p, expr)
		value := p.parseExpression()
		return &ast.CompoundAssignStmt{Target: target, Op: op.Kind, Value: value, Span: token.Merge(expr.GetSpan(), value.GetSpan())}

	case token.PLUS_PLUS, token.MINUS_MINUS:
		op := p.advance()
		target := exprToAssignTarget(p, expr)
		return &ast.IncDecStmt{Target: target, Op: op.Kind, Position: ast.PositionPost, Span: token.Merge(expr.GetSpan(), op.Span)}

	default:
		return &ast.ExprStmt{Expr: expr, Span: expr.GetSpan()}
	}
}

func (p *Parser) parseAssignTarget() ast.AssignTarget {
	expr := p.parseCallIndex()
	return exprToAssignTarget(p, expr)
}

// exprToAssignTarget narrows a parsed expression to an AssignTarget,
// reporting a syntax error if the expression isn't an identifier or
// index expression — nothing else is assignable.
func exprToAssignTarget(p *Parser, expr ast.Expression) ast.AssignTarget {
	switch t := expr.(type) {
	case *ast.Identifier:
		return t
	case *ast.IndexExpr:
		return t
	default:
		p.errorHere(diagnostics.ErrSyntax, "invalid assignment target")
		return &ast.Identifier{Name: "", Span: expr.GetSpan()}
	}
}

// applySpanEnd extends a statement's recorded span to include end, used
// once the trailing ';' is known to have been consumed.
func applySpanEnd(s ast.Statement, end token.Span) {
	switch v := s.(type) {
	case *ast.AssignStmt:
		v.Span = token.Merge(v.Span, end)
	case *ast.CompoundAssignStmt:
		v.Span = token.Merge(v.Span, end)
	case *ast.IncDecStmt:
		v.Span = token.Merge(v.Span, end)
	case *ast.ExprStmt:
		v.Span = token.Merge(v.Span, end)
	}
}
