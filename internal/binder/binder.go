// Package binder resolves identifiers to declarations and builds the
// scope tree in two passes: hoist top-level functions, then walk
// statements introducing `let`/`var` bindings at their declaration point.
package binder

import (
	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/symbols"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/types"
)

// preludeNames are the builtin functions every program sees; they may not
// be shadowed by a user declaration (AT1012).
var preludeNames = map[string]bool{"print": true, "len": true, "str": true}

// Binder walks a Program building its symbol table.
type Binder struct {
	file   string
	source string
	diags  *diagnostics.Bag
	table  *symbols.Table
	scope  *symbols.Scope
}

// New creates a Binder for one compilation unit.
func New(file, source string, diags *diagnostics.Bag) *Binder {
	table := symbols.NewTable()
	b := &Binder{file: file, source: source, diags: diags, table: table, scope: table.Root}
	b.seedPrelude()
	return b
}

// seedPrelude registers print/len/str directly (bypassing declare's
// reserved-name check, which exists to stop *user* code from redeclaring
// them) so ordinary identifier resolution finds them in call position.
// Their Type is a nominal placeholder: the checker special-cases these
// three names by name rather than consulting it, since each accepts a
// domain of types no single internal/types.Function signature expresses.
func (b *Binder) seedPrelude() {
	for _, name := range []string{"print", "len", "str"} {
		sym := &symbols.Symbol{
			Name: name, Kind: symbols.FunctionSym,
			Type: types.Function{Ret: types.Void}, Used: true,
		}
		b.table.Root.Declare(sym)
	}
}

// Bind runs both passes over prog and returns the resulting symbol table.
func Bind(prog *ast.Program, file, source string, diags *diagnostics.Bag) *symbols.Table {
	b := New(file, source, diags)
	b.hoistFunctionHeaders(prog)
	// Pass 2 walks items in textual order: a function's body is bound
	// only once the binder reaches its declaration, so a function may
	// call another declared anywhere in the file (headers are already
	// hoisted), but referencing a global `let`/`var` still obeys
	// declaration-point ordering.
	for _, item := range prog.Items {
		switch v := item.(type) {
		case *ast.FunctionDecl:
			b.bindFunctionBody(v)
		case ast.Statement:
			b.bindStatement(v)
		}
	}
	b.warnUnused(b.table.Root)
	return b.table
}

// hoistFunctionHeaders implements pass 1: every top-level function name
// (and its signature) is visible from program start, including to calls
// textually before its declaration.
func (b *Binder) hoistFunctionHeaders(prog *ast.Program) {
	for _, item := range prog.Items {
		fn, ok := item.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		b.declare(b.scope, &symbols.Symbol{
			Name: fn.Name, Kind: symbols.FunctionSym,
			Type:          functionType(fn),
			DeclaredAt:    fn.NameSpan,
			DeclaredToken: token.Token{Lexeme: fn.Name, Span: fn.NameSpan},
		}, fn.NameSpan)
	}
}

func functionType(fn *ast.FunctionDecl) types.Type {
	params := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = typeRefToType(p.Type)
	}
	return types.Function{Params: params, Ret: typeRefToType(fn.ReturnType)}
}

// typeRefToType converts a parsed TypeRef node to a resolved types.Type.
// Atlas's type grammar is closed (no user-defined names), so this never
// fails; an unrecognized shape falls back to types.Void defensively.
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

func (b *Binder) bindFunctionBody(fn *ast.FunctionDecl) {
	parent := b.scope
	fnScope := symbols.NewScope(symbols.ScopeFunction, parent)
	b.scope = fnScope
	for _, param := range fn.Params {
		b.declare(fnScope, &symbols.Symbol{
			Name: param.Name, Kind: symbols.VariableParam,
			Type: typeRefToType(param.Type), DeclaredAt: param.Span,
		}, param.Span)
	}
	b.bindBlockStmts(fn.Body)
	b.warnUnused(fnScope)
	b.scope = parent
}

// bindBlockStmts binds the statements of a block in the current scope
// without opening a new one; callers that need a fresh scope (blocks
// reached as statements) call bindBlock instead.
func (b *Binder) bindBlockStmts(block *ast.Block) {
	for _, stmt := range block.Stmts {
		b.bindStatement(stmt)
	}
}

func (b *Binder) bindBlock(block *ast.Block) {
	parent := b.scope
	b.scope = symbols.NewScope(symbols.ScopeBlock, parent)
	b.bindBlockStmts(block)
	b.warnUnused(b.scope)
	b.scope = parent
}

// warnUnused flags let/var bindings in scope that were never read
// (AT2001). Function parameters are exempt: an unused parameter is
// common and not itself a defect the way a dead local is.
func (b *Binder) warnUnused(scope *symbols.Scope) {
	for _, sym := range scope.All() {
		if sym.Used {
			continue
		}
		if sym.Kind != symbols.VariableLet && sym.Kind != symbols.VariableVar {
			continue
		}
		b.warn(diagnostics.WarnUnusedVariable, sym.DeclaredAt, sym.Name,
			"'"+sym.Name+"' is declared but never used")
	}
}

func (b *Binder) declare(scope *symbols.Scope, sym *symbols.Symbol, at token.Span) {
	if preludeNames[sym.Name] {
		b.err(diagnostics.ErrShadowedPrelude, at, sym.Name,
			"'"+sym.Name+"' is a prelude name and cannot be redeclared")
		return
	}
	if _, exists := scope.LocalLookup(sym.Name); exists {
		b.err(diagnostics.ErrRedeclaration, at, sym.Name,
			"'"+sym.Name+"' is already declared in this scope")
		return
	}
	scope.Declare(sym)
	// Recorded at its own declaration span too, so the checker can look a
	// VarDecl's symbol back up by NameSpan to fill in its resolved type.
	b.table.Resolve(at, sym)
}

func (b *Binder) bindStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		b.resolveExpr(s.Init)
		kind := symbols.VariableLet
		if s.VarKind == ast.KindVar {
			kind = symbols.VariableVar
		}
		b.declare(b.scope, &symbols.Symbol{
			Name: s.Name, Kind: kind, DeclaredAt: s.NameSpan,
		}, s.NameSpan)

	case *ast.AssignStmt:
		b.resolveAssignTarget(s.Target)
		b.resolveExpr(s.Value)

	case *ast.CompoundAssignStmt:
		b.resolveAssignTarget(s.Target)
		b.resolveExpr(s.Value)

	case *ast.IncDecStmt:
		b.resolveAssignTarget(s.Target)

	case *ast.IfStmt:
		b.resolveExpr(s.Cond)
		b.bindBlock(s.Then)
		if s.Else != nil {
			b.bindStatement(s.Else)
		}

	case *ast.WhileStmt:
		b.resolveExpr(s.Cond)
		b.bindLoopBlock(s.Body)

	case *ast.ForStmt:
		parent := b.scope
		b.scope = symbols.NewScope(symbols.ScopeLoop, parent)
		if s.Init != nil {
			b.bindStatement(s.Init)
		}
		if s.Cond != nil {
			b.resolveExpr(s.Cond)
		}
		if s.Step != nil {
			b.bindStatement(s.Step)
		}
		b.bindBlockStmts(s.Body)
		b.warnUnused(b.scope)
		b.scope = parent

	case *ast.ReturnStmt:
		if !b.scope.InFunction {
			b.err(diagnostics.ErrIllegalReturn, s.Span, "", "'return' outside a function")
		}
		if s.Value != nil {
			b.resolveExpr(s.Value)
		}

	case *ast.BreakStmt:
		if !b.scope.InLoop {
			b.err(diagnostics.ErrIllegalBreakCont, s.Span, "", "'break' outside a loop")
		}

	case *ast.ContinueStmt:
		if !b.scope.InLoop {
			b.err(diagnostics.ErrIllegalBreakCont, s.Span, "", "'continue' outside a loop")
		}

	case *ast.ExprStmt:
		b.resolveExpr(s.Expr)

	case *ast.Block:
		b.bindBlock(s)
	}
}

// bindLoopBlock opens a loop scope around a while-body so break/continue
// validation sees InLoop even though the loop itself introduces no
// bindings of its own (unlike a for-loop's init scope).
func (b *Binder) bindLoopBlock(block *ast.Block) {
	parent := b.scope
	b.scope = symbols.NewScope(symbols.ScopeLoop, parent)
	b.bindBlockStmts(block)
	b.warnUnused(b.scope)
	b.scope = parent
}

func (b *Binder) resolveAssignTarget(t ast.AssignTarget) {
	switch v := t.(type) {
	case *ast.Identifier:
		b.resolveIdent(v)
	case *ast.IndexExpr:
		b.resolveExpr(v)
	}
}

func (b *Binder) resolveIdent(id *ast.Identifier) {
	sym, ok := b.scope.Lookup(id.Name)
	if !ok {
		b.err(diagnostics.ErrUnknownSymbol, id.Span, id.Name, "unknown symbol '"+id.Name+"'")
		return
	}
	sym.Used = true
	b.table.Resolve(id.Span, sym)
}

func (b *Binder) resolveExpr(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Identifier:
		b.resolveIdent(e)
	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			b.resolveExpr(el)
		}
	case *ast.BinaryExpr:
		b.resolveExpr(e.Left)
		b.resolveExpr(e.Right)
	case *ast.UnaryExpr:
		b.resolveExpr(e.Operand)
	case *ast.CallExpr:
		b.resolveExpr(e.Callee)
		for _, a := range e.Args {
			b.resolveExpr(a)
		}
	case *ast.IndexExpr:
		b.resolveExpr(e.Array)
		b.resolveExpr(e.Index)
	case *ast.GroupExpr:
		b.resolveExpr(e.Inner)
	}
}

func (b *Binder) err(code diagnostics.ErrorCode, span token.Span, lexeme, msg string) {
	if b.diags == nil {
		return
	}
	tok := token.Token{Lexeme: lexeme, Span: span}
	b.diags.AddErr(diagnostics.NewError(code, tok, b.file, b.source, msg, "^"))
}

func (b *Binder) warn(code diagnostics.ErrorCode, span token.Span, lexeme, msg string) {
	if b.diags == nil {
		return
	}
	tok := token.Token{Lexeme: lexeme, Span: span}
	b.diags.AddErr(diagnostics.NewWarning(code, tok, b.file, b.source, msg, "^"))
}
