package compiler

import (
	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/value"
)

// compileExpr emits the instructions that leave e's value on top of the
// operand stack, mirroring the per-node-kind dispatch of interp.eval.
func (fc *funcCompiler) compileExpr(e ast.Expression) {
	switch v := e.(type) {
	case *ast.NumberLiteral:
		idx := fc.chunk.AddConstant(value.Number(v.Value))
		fc.chunk.Emit(bytecode.OpPushConst, v.Span, idx)
	case *ast.StringLiteral:
		idx := fc.chunk.AddConstant(value.String(v.Value))
		fc.chunk.Emit(bytecode.OpPushConst, v.Span, idx)
	case *ast.BoolLiteral:
		idx := fc.chunk.AddConstant(value.Bool(v.Value))
		fc.chunk.Emit(bytecode.OpPushConst, v.Span, idx)
	case *ast.NullLiteral:
		fc.chunk.Emit(bytecode.OpNull, v.Span)
	case *ast.ArrayLiteral:
		for _, el := range v.Elements {
			fc.compileExpr(el)
		}
		fc.chunk.Emit(bytecode.OpNewArray, v.Span, len(v.Elements))
	case *ast.Identifier:
		fc.resolveLoad(v.Name, v.Span)
	case *ast.UnaryExpr:
		fc.compileExpr(v.Operand)
		switch v.Op {
		case token.MINUS:
			fc.chunk.Emit(bytecode.OpNeg, v.Span)
		case token.BANG:
			fc.chunk.Emit(bytecode.OpNot, v.Span)
		}
	case *ast.BinaryExpr:
		fc.compileBinaryExpr(v)
	case *ast.GroupExpr:
		fc.compileExpr(v.Inner)
	case *ast.IndexExpr:
		fc.compileExpr(v.Array)
		fc.compileExpr(v.Index)
		fc.chunk.Emit(bytecode.OpGetIndex, v.Span)
	case *ast.CallExpr:
		fc.compileCallExpr(v)
	}
}

// compileBinaryExpr lowers '&&'/'||' to jumps rather than dedicated
// opcodes, keeping one copy of the left operand on the stack via DUP so
// the short-circuited result is exactly the left value, matching
// interp.evalBinaryExpr's `return value.Bool(false)`/`return value.Bool(true)` shape.
// All other operators just push both operands and emit one instruction.
func (fc *funcCompiler) compileBinaryExpr(b *ast.BinaryExpr) {
	switch b.Op {
	case token.AND_AND:
		fc.compileExpr(b.Left)
		fc.chunk.Emit(bytecode.OpDup, b.Span)
		exitJump := fc.chunk.Emit(bytecode.OpJmpIfFalse, b.Span, 0)
		fc.chunk.Emit(bytecode.OpPop, b.Span)
		fc.compileExpr(b.Right)
		fc.chunk.PatchOperand16(exitJump, fc.chunk.Len())
		return
	case token.OR_OR:
		fc.compileExpr(b.Left)
		fc.chunk.Emit(bytecode.OpDup, b.Span)
		evalRightJump := fc.chunk.Emit(bytecode.OpJmpIfFalse, b.Span, 0)
		exitJump := fc.chunk.Emit(bytecode.OpJmp, b.Span, 0)
		fc.chunk.PatchOperand16(evalRightJump, fc.chunk.Len())
		fc.chunk.Emit(bytecode.OpPop, b.Span)
		fc.compileExpr(b.Right)
		fc.chunk.PatchOperand16(exitJump, fc.chunk.Len())
		return
	}

	fc.compileExpr(b.Left)
	fc.compileExpr(b.Right)
	switch b.Op {
	case token.PLUS:
		fc.chunk.Emit(bytecode.OpAdd, b.Span)
	case token.MINUS:
		fc.chunk.Emit(bytecode.OpSub, b.Span)
	case token.STAR:
		fc.chunk.Emit(bytecode.OpMul, b.Span)
	case token.SLASH:
		fc.chunk.Emit(bytecode.OpDiv, b.Span)
	case token.PERCENT:
		fc.chunk.Emit(bytecode.OpMod, b.Span)
	case token.EQ:
		fc.chunk.Emit(bytecode.OpEq, b.Span)
	case token.NOT_EQ:
		fc.chunk.Emit(bytecode.OpNe, b.Span)
	case token.LT:
		fc.chunk.Emit(bytecode.OpLt, b.Span)
	case token.LT_EQ:
		fc.chunk.Emit(bytecode.OpLe, b.Span)
	case token.GT:
		fc.chunk.Emit(bytecode.OpGt, b.Span)
	case token.GT_EQ:
		fc.chunk.Emit(bytecode.OpGe, b.Span)
	}
}

// compileCallExpr special-cases the three prelude builtins, which have no
// FunctionMeta entry, and otherwise pushes the callee then its arguments
// left-to-right before CALL, matching interp.evalCallExpr/callFunction's
// evaluation order exactly.
func (fc *funcCompiler) compileCallExpr(call *ast.CallExpr) {
	if ident, ok := call.Callee.(*ast.Identifier); ok {
		switch ident.Name {
		case "print":
			fc.compileExpr(call.Args[0])
			fc.chunk.Emit(bytecode.OpPrint, call.Span)
			return
		case "len":
			fc.compileExpr(call.Args[0])
			fc.chunk.Emit(bytecode.OpLen, call.Span)
			return
		case "str":
			fc.compileExpr(call.Args[0])
			fc.chunk.Emit(bytecode.OpStr, call.Span)
			return
		}
	}

	fc.compileExpr(call.Callee)
	for _, a := range call.Args {
		fc.compileExpr(a)
	}
	fc.chunk.Emit(bytecode.OpCall, call.Span, len(call.Args))
}
