// Package checker implements Atlas's strict, non-inferring type checker.
// There is no unification and no generics: internal/types.Type is a
// closed sum, and every expression is assigned exactly one Type on the
// way up the tree.
package checker

import (
	"fmt"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/symbols"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/types"
)

// Checker assigns a Type to every expression node and enforces the
// language's assignability, operator-domain, and return-coverage rules.
type Checker struct {
	file   string
	source string
	diags  *diagnostics.Bag
	table  *symbols.Table

	// NodeTypes is the per-expression type annotation map produced by
	// checking, consumed by both execution engines.
	NodeTypes map[ast.Expression]types.Type

	fnStack []fnCtx
}

type fnCtx struct {
	retType types.Type
}

// Check type-checks prog using the symbol table the binder already built,
// populating and returning the node-type map.
func Check(prog *ast.Program, table *symbols.Table, file, source string, diags *diagnostics.Bag) map[ast.Expression]types.Type {
	c := &Checker{file: file, source: source, diags: diags, table: table, NodeTypes: make(map[ast.Expression]types.Type)}
	for _, item := range prog.Items {
		switch v := item.(type) {
		case *ast.FunctionDecl:
			c.checkFunctionDecl(v)
		case ast.Statement:
			c.checkStatement(v)
		}
	}
	return c.NodeTypes
}

func (c *Checker) checkFunctionDecl(fn *ast.FunctionDecl) {
	retType := typeRefToType(fn.ReturnType)
	c.fnStack = append(c.fnStack, fnCtx{retType: retType})
	c.checkBlock(fn.Body)
	if !types.Equal(retType, types.Void) && !blockAlwaysReturns(fn.Body) {
		c.err(diagnostics.ErrMissingReturn, fn.NameSpan, fn.Name,
			fmt.Sprintf("function '%s' must return a value of type %s on every path", fn.Name, retType))
	}
	c.fnStack = c.fnStack[:len(c.fnStack)-1]
}

func (c *Checker) checkBlockStmts(b *ast.Block) {
	for _, stmt := range b.Stmts {
		c.checkStatement(stmt)
	}
}

// checkBlock checks a block's statements and then flags any code made
// unreachable by an earlier terminal statement (AT2002).
func (c *Checker) checkBlock(b *ast.Block) {
	c.checkBlockStmts(b)
	c.checkUnreachable(b)
}

func (c *Checker) currentReturnType() types.Type {
	if len(c.fnStack) == 0 {
		return types.Void
	}
	return c.fnStack[len(c.fnStack)-1].retType
}

// typeRefToType mirrors binder.typeRefToType; duplicated at this small
// size rather than shared, since the two packages must not import each
// other (binder runs first and owns no checker-facing API).
func typeRefToType(t ast.TypeRef) types.Type {
	switch n := t.(type) {
	case *ast.PrimitiveTypeRef:
		switch n.Name {
		case "number":
			return types.Number
		case "string":
			return types.String
		case "bool":
			return types.Bool
		case "void":
			return types.Void
		case "null":
			return types.Null
		}
	case *ast.ArrayTypeRef:
		return types.Array{Elem: typeRefToType(n.Elem)}
	case *ast.FunctionTypeRef:
		params := make([]types.Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = typeRefToType(p)
		}
		return types.Function{Params: params, Ret: typeRefToType(n.Ret)}
	}
	return types.Void
}

func (c *Checker) err(code diagnostics.ErrorCode, span token.Span, lexeme, msg string) {
	if c.diags == nil {
		return
	}
	tok := token.Token{Lexeme: lexeme, Span: span}
	c.diags.AddErr(diagnostics.NewError(code, tok, c.file, c.source, msg, "^"))
}

func (c *Checker) warn(code diagnostics.ErrorCode, span token.Span, lexeme, msg string) {
	if c.diags == nil {
		return
	}
	tok := token.Token{Lexeme: lexeme, Span: span}
	c.diags.AddErr(diagnostics.NewWarning(code, tok, c.file, c.source, msg, "^"))
}

func (c *Checker) symbolAt(span token.Span) *symbols.Symbol {
	sym, ok := c.table.SymbolAt(span)
	if !ok {
		return nil
	}
	return sym
}
