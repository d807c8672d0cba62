package ast

// Visitor dispatches over every concrete AST node kind. internal/printer
// implements it; the binder, checker, interpreter, and compiler dispatch
// with their own type switches instead.
type Visitor interface {
	VisitProgram(n *Program)
	VisitFunctionDecl(n *FunctionDecl)

	VisitVarDecl(n *VarDecl)
	VisitAssignStmt(n *AssignStmt)
	VisitCompoundAssignStmt(n *CompoundAssignStmt)
	VisitIncDecStmt(n *IncDecStmt)
	VisitIfStmt(n *IfStmt)
	VisitWhileStmt(n *WhileStmt)
	VisitForStmt(n *ForStmt)
	VisitReturnStmt(n *ReturnStmt)
	VisitBreakStmt(n *BreakStmt)
	VisitContinueStmt(n *ContinueStmt)
	VisitExprStmt(n *ExprStmt)
	VisitBlock(n *Block)

	VisitNumberLiteral(n *NumberLiteral)
	VisitStringLiteral(n *StringLiteral)
	VisitBoolLiteral(n *BoolLiteral)
	VisitNullLiteral(n *NullLiteral)
	VisitArrayLiteral(n *ArrayLiteral)
	VisitIdentifier(n *Identifier)
	VisitBinaryExpr(n *BinaryExpr)
	VisitUnaryExpr(n *UnaryExpr)
	VisitCallExpr(n *CallExpr)
	VisitIndexExpr(n *IndexExpr)
	VisitGroupExpr(n *GroupExpr)

	VisitPrimitiveTypeRef(n *PrimitiveTypeRef)
	VisitArrayTypeRef(n *ArrayTypeRef)
	VisitFunctionTypeRef(n *FunctionTypeRef)
}

// BaseVisitor implements Visitor with no-op methods so concrete visitors
// only need to override the node kinds they care about.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(n *Program)           {}
func (BaseVisitor) VisitFunctionDecl(n *FunctionDecl) {}

func (BaseVisitor) VisitVarDecl(n *VarDecl)                         {}
func (BaseVisitor) VisitAssignStmt(n *AssignStmt)                   {}
func (BaseVisitor) VisitCompoundAssignStmt(n *CompoundAssignStmt)   {}
func (BaseVisitor) VisitIncDecStmt(n *IncDecStmt)                   {}
func (BaseVisitor) VisitIfStmt(n *IfStmt)                           {}
func (BaseVisitor) VisitWhileStmt(n *WhileStmt)                     {}
func (BaseVisitor) VisitForStmt(n *ForStmt)                         {}
func (BaseVisitor) VisitReturnStmt(n *ReturnStmt)                   {}
func (BaseVisitor) VisitBreakStmt(n *BreakStmt)                     {}
func (BaseVisitor) VisitContinueStmt(n *ContinueStmt)               {}
func (BaseVisitor) VisitExprStmt(n *ExprStmt)                       {}
func (BaseVisitor) VisitBlock(n *Block)                             {}

func (BaseVisitor) VisitNumberLiteral(n *NumberLiteral) {}
func (BaseVisitor) VisitStringLiteral(n *StringLiteral) {}
func (BaseVisitor) VisitBoolLiteral(n *BoolLiteral)     {}
func (BaseVisitor) VisitNullLiteral(n *NullLiteral)     {}
func (BaseVisitor) VisitArrayLiteral(n *ArrayLiteral)   {}
func (BaseVisitor) VisitIdentifier(n *Identifier)       {}
func (BaseVisitor) VisitBinaryExpr(n *BinaryExpr)       {}
func (BaseVisitor) VisitUnaryExpr(n *UnaryExpr)         {}
func (BaseVisitor) VisitCallExpr(n *CallExpr)           {}
func (BaseVisitor) VisitIndexExpr(n *IndexExpr)         {}
func (BaseVisitor) VisitGroupExpr(n *GroupExpr)         {}

func (BaseVisitor) VisitPrimitiveTypeRef(n *PrimitiveTypeRef) {}
func (BaseVisitor) VisitArrayTypeRef(n *ArrayTypeRef)         {}
func (BaseVisitor) VisitFunctionTypeRef(n *FunctionTypeRef)   {}
