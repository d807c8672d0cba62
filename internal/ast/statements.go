package ast

import "github.com/atlas-lang/atlas/internal/token"

// VarDeclKind distinguishes `let` (immutable) from `var` (mutable).
type VarDeclKind int

const (
	KindLet VarDeclKind = iota
	KindVar
)

// VarDecl is `let name[: T] = e;` or `var name[: T] = e;`.
type VarDecl struct {
	VarKind      VarDeclKind
	Name         string
	NameSpan     token.Span
	DeclaredType TypeRef // nil if omitted
	Init         Expression
	Span         token.Span
}

func (s *VarDecl) GetSpan() token.Span { return s.Span }
func (s *VarDecl) Accept(v Visitor)     { v.VisitVarDecl(s) }
func (s *VarDecl) statementNode()       {}
func (s *VarDecl) itemNode()            {}

// AssignStmt is `target = expr;`.
type AssignStmt struct {
	Target AssignTarget
	Value  Expression
	Span   token.Span
}

func (s *AssignStmt) GetSpan() token.Span { return s.Span }
func (s *AssignStmt) Accept(v Visitor)     { v.VisitAssignStmt(s) }
func (s *AssignStmt) statementNode()       {}
func (s *AssignStmt) itemNode()            {}

// CompoundAssignStmt is `name OP= expr;` for OP in {+,-,*,/,%}.
type CompoundAssignStmt struct {
	Target AssignTarget
	Op     token.Kind
	Value  Expression
	Span   token.Span
}

func (s *CompoundAssignStmt) GetSpan() token.Span { return s.Span }
func (s *CompoundAssignStmt) Accept(v Visitor)     { v.VisitCompoundAssignStmt(s) }
func (s *CompoundAssignStmt) statementNode()       {}
func (s *CompoundAssignStmt) itemNode()            {}

// IncDecPosition distinguishes `++x` (pre) from `x++` (post).
type IncDecPosition int

const (
	PositionPre IncDecPosition = iota
	PositionPost
)

// IncDecStmt is `++target;`, `target++;`, `--target;`, or `target--;`.
// These are statements only, never sub-expressions.
type IncDecStmt struct {
	Target   AssignTarget
	Op       token.Kind // PLUS_PLUS | MINUS_MINUS
	Position IncDecPosition
	Span     token.Span
}

func (s *IncDecStmt) GetSpan() token.Span { return s.Span }
func (s *IncDecStmt) Accept(v Visitor)     { v.VisitIncDecStmt(s) }
func (s *IncDecStmt) statementNode()       {}
func (s *IncDecStmt) itemNode()            {}

// IfStmt is `if (cond) then else else`. Else may be nil, a *Block, or
// another *IfStmt (for `else if`).
type IfStmt struct {
	Cond Expression
	Then *Block
	Else Statement
	Span token.Span
}

func (s *IfStmt) GetSpan() token.Span { return s.Span }
func (s *IfStmt) Accept(v Visitor)     { v.VisitIfStmt(s) }
func (s *IfStmt) statementNode()       {}
func (s *IfStmt) itemNode()            {}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Cond Expression
	Body *Block
	Span token.Span
}

func (s *WhileStmt) GetSpan() token.Span { return s.Span }
func (s *WhileStmt) Accept(v Visitor)     { v.VisitWhileStmt(s) }
func (s *WhileStmt) statementNode()       {}
func (s *WhileStmt) itemNode()            {}

// ForStmt is `for (init; cond; step) body`; Init/Cond/Step may each be nil.
// The init variable scopes only to the loop body.
type ForStmt struct {
	Init Statement
	Cond Expression
	Step Statement
	Body *Block
	Span token.Span
}

func (s *ForStmt) GetSpan() token.Span { return s.Span }
func (s *ForStmt) Accept(v Visitor)     { v.VisitForStmt(s) }
func (s *ForStmt) statementNode()       {}
func (s *ForStmt) itemNode()            {}

// ReturnStmt is `return;` or `return expr;`.
type ReturnStmt struct {
	Value Expression // nil for bare `return;`
	Span  token.Span
}

func (s *ReturnStmt) GetSpan() token.Span { return s.Span }
func (s *ReturnStmt) Accept(v Visitor)     { v.VisitReturnStmt(s) }
func (s *ReturnStmt) statementNode()       {}
func (s *ReturnStmt) itemNode()            {}

// BreakStmt is `break;`.
type BreakStmt struct{ Span token.Span }

func (s *BreakStmt) GetSpan() token.Span { return s.Span }
func (s *BreakStmt) Accept(v Visitor)     { v.VisitBreakStmt(s) }
func (s *BreakStmt) statementNode()       {}
func (s *BreakStmt) itemNode()            {}

// ContinueStmt is `continue;`.
type ContinueStmt struct{ Span token.Span }

func (s *ContinueStmt) GetSpan() token.Span { return s.Span }
func (s *ContinueStmt) Accept(v Visitor)     { v.VisitContinueStmt(s) }
func (s *ContinueStmt) statementNode()       {}
func (s *ContinueStmt) itemNode()            {}

// ExprStmt is an expression evaluated for its side effects, e.g. a call.
type ExprStmt struct {
	Expr Expression
	Span token.Span
}

func (s *ExprStmt) GetSpan() token.Span { return s.Span }
func (s *ExprStmt) Accept(v Visitor)     { v.VisitExprStmt(s) }
func (s *ExprStmt) statementNode()       {}
func (s *ExprStmt) itemNode()            {}

// Block is a brace-delimited statement sequence introducing its own scope.
type Block struct {
	Stmts []Statement
	Span  token.Span
}

func (s *Block) GetSpan() token.Span { return s.Span }
func (s *Block) Accept(v Visitor)     { v.VisitBlock(s) }
func (s *Block) statementNode()       {}
func (s *Block) itemNode()            {}

// Param is one function parameter: a name and its declared type.
type Param struct {
	Name string
	Type TypeRef
	Span token.Span
}

// FunctionDecl is a top-level named function. Function declarations
// appear only at program top level; there are no closures or nested
// functions.
type FunctionDecl struct {
	Name       string
	NameSpan   token.Span
	Params     []Param
	ReturnType TypeRef
	Body       *Block
	Span       token.Span
}

func (s *FunctionDecl) GetSpan() token.Span { return s.Span }
func (s *FunctionDecl) Accept(v Visitor)     { v.VisitFunctionDecl(s) }
func (s *FunctionDecl) itemNode()            {}
