// Package parser implements Atlas's recursive-descent parser, producing
// an Item slice with spans even in the presence of errors. The files
// split by syntactic category: parser.go holds the token-stream
// primitives and recovery, expressions.go the precedence-climbing chain,
// statements.go the statement grammar, types.go the type annotations.
package parser

import (
	"fmt"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/token"
)

// Parser holds the full pre-scanned token stream and a cursor into it.
// Atlas lexes eagerly (internal/lexer.Scan), so the parser never blocks on
// more input; this keeps panic-mode recovery simple (just advance the
// cursor) at the cost of holding the whole token slice in memory, which is
// fine at the source-file sizes Atlas targets.
type Parser struct {
	file   string
	source string
	toks   []token.Token // NEWLINE tokens already filtered out, see New
	pos    int
	diags  *diagnostics.Bag
}

// New builds a Parser over a raw token stream (as produced by
// lexer.Lexer.Scan). NEWLINE tokens are dropped up front: newlines
// separate tokens but never terminate statements, so they carry no
// grammatical meaning for this parser (a REPL front-end that wants
// brace-balance-sensitive incremental input reads the raw stream itself
// before handing it here).
func New(toks []token.Token, file, source string, diags *diagnostics.Bag) *Parser {
	filtered := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != token.NEWLINE {
			filtered = append(filtered, t)
		}
	}
	return &Parser{file: file, source: source, toks: filtered, diags: diags}
}

// ParseProgram parses the whole token stream into a Program. Parsing never
// fails outright: on error it records a diagnostic, synchronizes, and
// keeps going so later stages can still see as much of the tree as
// possible.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{File: p.file}
	start := p.cur().Span
	for !p.isAtEnd() {
		item := p.parseItem()
		if item != nil {
			prog.Items = append(prog.Items, item)
		}
	}
	end := p.prevSpan()
	prog.Span = token.Merge(start, end)
	return prog
}

func (p *Parser) parseItem() ast.Item {
	if p.check(token.FN) {
		return p.parseFunctionDecl()
	}
	stmt := p.parseStatement()
	if stmt == nil {
		return nil
	}
	return stmt.(ast.Item)
}

// --- token stream primitives ---

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) prevSpan() token.Span {
	if p.pos == 0 {
		return p.cur().Span
	}
	return p.toks[p.pos-1].Span
}

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) isAtEnd() bool { return p.cur().Kind == token.EOF }

func (p *Parser) check(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if !p.isAtEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it has kind k, otherwise emits a
// syntax diagnostic and returns the current (unconsumed) token so callers
// can keep building a best-effort tree.
func (p *Parser) expect(k token.Kind, what string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	p.errorHere(diagnostics.ErrSyntax, fmt.Sprintf("expected %s, found %q", what, p.cur().Lexeme))
	return p.cur()
}

func (p *Parser) errorHere(code diagnostics.ErrorCode, msg string) {
	if p.diags == nil {
		return
	}
	p.diags.AddErr(diagnostics.NewError(code, p.cur(), p.file, p.source, msg, "^"))
}

// synchronize implements panic-mode recovery: skip tokens until just past
// a statement-terminating ';' or up to a block boundary '}', so a single
// missing brace does not cascade into unrelated errors.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.check(token.SEMICOLON) {
			p.advance()
			return
		}
		if p.check(token.RBRACE) {
			return
		}
		switch p.cur().Kind {
		case token.LET, token.VAR, token.FN, token.IF, token.WHILE, token.FOR,
			token.RETURN, token.BREAK, token.CONTINUE:
			return
		}
		p.advance()
	}
}
