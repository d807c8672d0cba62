package compiler

import (
	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/value"
)

// compileStmt compiles one statement for its side effects, mirroring
// interp.exec's per-kind dispatch.
func (fc *funcCompiler) compileStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		fc.compileVarDecl(s)
	case *ast.AssignStmt:
		fc.compileAssignStmt(s)
	case *ast.CompoundAssignStmt:
		fc.compileCompoundAssignStmt(s)
	case *ast.IncDecStmt:
		fc.compileIncDecStmt(s)
	case *ast.IfStmt:
		fc.compileIfStmt(s)
	case *ast.WhileStmt:
		fc.compileWhileStmt(s)
	case *ast.ForStmt:
		fc.compileForStmt(s)
	case *ast.ReturnStmt:
		fc.compileReturnStmt(s)
	case *ast.BreakStmt:
		fc.emitBreak(s.Span)
	case *ast.ContinueStmt:
		fc.emitContinue(s.Span)
	case *ast.ExprStmt:
		fc.compileExpr(s.Expr)
		fc.chunk.Emit(bytecode.OpPop, s.Span)
	case *ast.Block:
		fc.compileBlockStmts(s.Stmts)
	}
}

// compileBlockStmts opens a new scope for stmts — every block gets a
// fresh scope — and compiles them in it.
func (fc *funcCompiler) compileBlockStmts(stmts []ast.Statement) {
	fc.pushScope()
	fc.compileStmtsInPlace(stmts)
	fc.popScope()
}

// compileStmtsInPlace compiles stmts directly in the current scope without
// pushing another one, used for a function body so its parameter scope and
// its top-level block scope share the same frame (mirrors
// interp.execStmtsIn).
func (fc *funcCompiler) compileStmtsInPlace(stmts []ast.Statement) {
	for _, s := range stmts {
		fc.compileStmt(s)
	}
}

func (fc *funcCompiler) compileVarDecl(s *ast.VarDecl) {
	fc.compileExpr(s.Init)
	if fc.isTopLevel && fc.depth == 0 {
		idx := fc.chunk.AddConstant(value.String(s.Name))
		fc.chunk.Emit(bytecode.OpStoreGlobal, s.Span, idx)
		return
	}
	slot := fc.declare(s.Name)
	fc.chunk.Emit(bytecode.OpStoreLocal, s.Span, slot)
}

func (fc *funcCompiler) compileAssignStmt(s *ast.AssignStmt) {
	switch t := s.Target.(type) {
	case *ast.Identifier:
		fc.compileExpr(s.Value)
		fc.resolveStore(t.Name, s.Span)
	case *ast.IndexExpr:
		fc.compileExpr(t.Array)
		fc.compileExpr(t.Index)
		fc.compileExpr(s.Value)
		fc.chunk.Emit(bytecode.OpSetIndex, s.Span)
	}
}

// compileCompoundAssignStmt implements `target OP= value` as "load current
// value, apply op, store". For an array-element target, the array/index
// sub-expressions are compiled twice — once to load the current element,
// once to address the store — exactly matching
// interp.execCompoundAssignStmt's double evaluation, so a side-effecting
// index expression diverges identically in both engines rather than only
// one of them re-evaluating it. The freshly computed result is stashed in
// a temp local across the second array/index evaluation since SET_INDEX
// expects array, index, then value on the stack in that order.
func (fc *funcCompiler) compileCompoundAssignStmt(s *ast.CompoundAssignStmt) {
	op := compoundOpcode(s.Op)
	switch t := s.Target.(type) {
	case *ast.Identifier:
		fc.resolveLoad(t.Name, s.Span)
		fc.compileExpr(s.Value)
		fc.chunk.Emit(op, s.Span)
		fc.resolveStore(t.Name, s.Span)
	case *ast.IndexExpr:
		fc.compileExpr(t.Array)
		fc.compileExpr(t.Index)
		fc.chunk.Emit(bytecode.OpGetIndex, s.Span)
		fc.compileExpr(s.Value)
		fc.chunk.Emit(op, s.Span)
		tmp := fc.allocTemp()
		fc.chunk.Emit(bytecode.OpStoreLocal, s.Span, tmp)
		fc.compileExpr(t.Array)
		fc.compileExpr(t.Index)
		fc.chunk.Emit(bytecode.OpLoadLocal, s.Span, tmp)
		fc.chunk.Emit(bytecode.OpSetIndex, s.Span)
	}
}

func (fc *funcCompiler) compileIncDecStmt(s *ast.IncDecStmt) {
	delta := 1.0
	if s.Op == token.MINUS_MINUS {
		delta = -1.0
	}
	switch t := s.Target.(type) {
	case *ast.Identifier:
		fc.resolveLoad(t.Name, s.Span)
		idx := fc.chunk.AddConstant(value.Number(delta))
		fc.chunk.Emit(bytecode.OpPushConst, s.Span, idx)
		fc.chunk.Emit(bytecode.OpAdd, s.Span)
		fc.resolveStore(t.Name, s.Span)
	case *ast.IndexExpr:
		fc.compileExpr(t.Array)
		fc.compileExpr(t.Index)
		fc.chunk.Emit(bytecode.OpGetIndex, s.Span)
		idx := fc.chunk.AddConstant(value.Number(delta))
		fc.chunk.Emit(bytecode.OpPushConst, s.Span, idx)
		fc.chunk.Emit(bytecode.OpAdd, s.Span)
		tmp := fc.allocTemp()
		fc.chunk.Emit(bytecode.OpStoreLocal, s.Span, tmp)
		fc.compileExpr(t.Array)
		fc.compileExpr(t.Index)
		fc.chunk.Emit(bytecode.OpLoadLocal, s.Span, tmp)
		fc.chunk.Emit(bytecode.OpSetIndex, s.Span)
	}
}

func (fc *funcCompiler) compileIfStmt(s *ast.IfStmt) {
	fc.compileExpr(s.Cond)
	elseJump := fc.chunk.Emit(bytecode.OpJmpIfFalse, s.Span, 0)
	fc.compileBlockStmts(s.Then.Stmts)
	if s.Else != nil {
		endJump := fc.chunk.Emit(bytecode.OpJmp, s.Span, 0)
		fc.chunk.PatchOperand16(elseJump, fc.chunk.Len())
		fc.compileStmt(s.Else)
		fc.chunk.PatchOperand16(endJump, fc.chunk.Len())
		return
	}
	fc.chunk.PatchOperand16(elseJump, fc.chunk.Len())
}

func (fc *funcCompiler) compileWhileStmt(s *ast.WhileStmt) {
	condStart := fc.chunk.Len()
	fc.compileExpr(s.Cond)
	exitJump := fc.chunk.Emit(bytecode.OpJmpIfFalse, s.Span, 0)
	fc.pushLoop()
	fc.compileBlockStmts(s.Body.Stmts)
	lc := fc.popLoop()
	fc.chunk.Emit(bytecode.OpJmp, s.Span, condStart)
	bodyEnd := fc.chunk.Len()
	fc.chunk.PatchOperand16(exitJump, bodyEnd)
	for _, j := range lc.breakJumps {
		fc.chunk.PatchOperand16(j, bodyEnd)
	}
	for _, j := range lc.continueJumps {
		fc.chunk.PatchOperand16(j, condStart)
	}
}

// compileForStmt treats `for (init; cond; step) body` as `init` followed by
// `while (cond) { body; step; }` in a dedicated loop scope, matching
// interp.execForStmt's desugaring. `continue` jumps to step (or to the
// condition re-check when there is no step), never back to init.
func (fc *funcCompiler) compileForStmt(s *ast.ForStmt) {
	fc.pushScope()
	if s.Init != nil {
		fc.compileStmt(s.Init)
	}

	condStart := fc.chunk.Len()
	var exitJump int
	hasCond := s.Cond != nil
	if hasCond {
		fc.compileExpr(s.Cond)
		exitJump = fc.chunk.Emit(bytecode.OpJmpIfFalse, s.Span, 0)
	}

	fc.pushLoop()
	fc.compileBlockStmts(s.Body.Stmts)

	stepStart := fc.chunk.Len()
	if s.Step != nil {
		fc.compileStmt(s.Step)
	}
	lc := fc.popLoop()

	fc.chunk.Emit(bytecode.OpJmp, s.Span, condStart)
	bodyEnd := fc.chunk.Len()
	if hasCond {
		fc.chunk.PatchOperand16(exitJump, bodyEnd)
	}
	for _, j := range lc.breakJumps {
		fc.chunk.PatchOperand16(j, bodyEnd)
	}
	continueTarget := stepStart
	for _, j := range lc.continueJumps {
		fc.chunk.PatchOperand16(j, continueTarget)
	}
	fc.popScope()
}

func (fc *funcCompiler) compileReturnStmt(s *ast.ReturnStmt) {
	if s.Value != nil {
		fc.compileExpr(s.Value)
	} else {
		fc.chunk.Emit(bytecode.OpNull, s.Span)
	}
	fc.chunk.Emit(bytecode.OpRet, s.Span)
}

func (fc *funcCompiler) emitBreak(span token.Span) {
	j := fc.chunk.Emit(bytecode.OpJmp, span, 0)
	lc := fc.currentLoop()
	lc.breakJumps = append(lc.breakJumps, j)
}

func (fc *funcCompiler) emitContinue(span token.Span) {
	j := fc.chunk.Emit(bytecode.OpJmp, span, 0)
	lc := fc.currentLoop()
	lc.continueJumps = append(lc.continueJumps, j)
}

func compoundOpcode(op token.Kind) bytecode.Opcode {
	switch op {
	case token.PLUS_ASSIGN:
		return bytecode.OpAdd
	case token.MINUS_ASSIGN:
		return bytecode.OpSub
	case token.STAR_ASSIGN:
		return bytecode.OpMul
	case token.SLASH_ASSIGN:
		return bytecode.OpDiv
	case token.PERCENT_ASSIGN:
		return bytecode.OpMod
	default:
		return bytecode.OpAdd
	}
}
