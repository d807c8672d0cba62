// Package symbols implements the scope tree and symbol table produced by
// the binder. There are only two symbol kinds: variables
// (let/var/parameter) and functions.
package symbols

import (
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/types"
)

// Kind classifies a symbol.
type Kind int

const (
	VariableLet Kind = iota
	VariableVar
	VariableParam
	FunctionSym
)

// Symbol is a named binding produced by the binder.
type Symbol struct {
	Name          string
	Kind          Kind
	Type          types.Type
	DeclaredAt    token.Span
	DeclaredToken token.Token
	Used          bool // set when an identifier use resolves to this symbol
}

// IsMutable reports whether assignment to this symbol is legal: only
// `var` bindings may be assigned to.
func (s *Symbol) IsMutable() bool {
	return s.Kind == VariableVar
}

// ScopeKind distinguishes the program (global) scope from nested block,
// function, and loop scopes.
type ScopeKind int

const (
	ScopeProgram ScopeKind = iota
	ScopeFunction
	ScopeBlock
	ScopeLoop // dedicated scope for a for-loop's init variable
)

// Scope is one node in the scope tree.
type Scope struct {
	Kind    ScopeKind
	Parent  *Scope
	symbols map[string]*Symbol
	// InLoop/InFunction are true if this scope or any ancestor is a loop
	// or function body, used by the binder to validate
	// break/continue/return.
	InLoop     bool
	InFunction bool
}

// NewScope creates a child scope of parent (nil for the root/program scope).
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	s := &Scope{Kind: kind, Parent: parent, symbols: make(map[string]*Symbol)}
	if parent != nil {
		s.InLoop = parent.InLoop
		s.InFunction = parent.InFunction
	}
	if kind == ScopeLoop {
		s.InLoop = true
	}
	if kind == ScopeFunction {
		s.InFunction = true
		s.InLoop = false // a loop in an enclosing function does not reach across it
	}
	return s
}

// Declare adds a new symbol to this scope. It does not check for
// redeclaration; callers (the binder) do that so they can attach the
// precise diagnostic.
func (s *Scope) Declare(sym *Symbol) {
	s.symbols[sym.Name] = sym
}

// LocalLookup returns the symbol declared directly in this scope, if any.
func (s *Scope) LocalLookup(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Lookup resolves name by walking outward through enclosing scopes,
// implementing lexical shadowing.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// All returns every symbol declared directly in this scope (for the
// unused-variable warning pass).
func (s *Scope) All() []*Symbol {
	out := make([]*Symbol, 0, len(s.symbols))
	for _, sym := range s.symbols {
		out = append(out, sym)
	}
	return out
}

// Table is the full scope tree produced by the binder, plus the resolution
// map from identifier/declaration nodes to their Symbol.
type Table struct {
	Root *Scope
	// Uses maps an identifier node's span to the symbol it resolved to,
	// used by the checker and both execution engines. Keyed by span since
	// identifiers don't carry a stable pointer identity before resolution.
	Uses map[token.Span]*Symbol
}

// NewTable creates an empty symbol table rooted at a fresh program scope.
func NewTable() *Table {
	return &Table{Root: NewScope(ScopeProgram, nil), Uses: make(map[token.Span]*Symbol)}
}

// Resolve records that the identifier at span resolved to sym.
func (t *Table) Resolve(span token.Span, sym *Symbol) {
	t.Uses[span] = sym
}

// SymbolAt returns the symbol an identifier at span resolved to, if any.
func (t *Table) SymbolAt(span token.Span) (*Symbol, bool) {
	sym, ok := t.Uses[span]
	return sym, ok
}
