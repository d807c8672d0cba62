// Package compiler lowers a type-checked AST into linear Bytecode for
// internal/vm to execute. It shares no state with internal/interp — each
// engine evaluates the same typed AST independently — but its opcode
// choices for every construct are deliberately the same "load operands,
// apply op, store result" shape interp's eval/exec functions use, which
// is what makes the interpreter/VM parity guarantee (checked by
// internal/backend) hold by construction rather than by luck.
//
// The emitter is single-pass: expressions compile into constant-pool
// references and stack operations, statements compile with forward jumps
// patched once their targets are known. Top-level variables go to the
// global table; everything else gets a frame-local slot.
package compiler

import (
	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/value"
)

// scope is one lexical level of compile-time local-slot bindings, pushed on
// block entry and popped on exit — the compile-time analogue of interp's
// runtime Environment chain.
type scope struct {
	names  map[string]int
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{names: make(map[string]int), parent: parent}
}

func (s *scope) lookup(name string) (int, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if slot, ok := cur.names[name]; ok {
			return slot, true
		}
	}
	return 0, false
}

// loopCtx collects the break/continue jump instructions emitted inside one
// loop body, patched once the loop's exit and continuation addresses are
// known.
type loopCtx struct {
	breakJumps    []int
	continueJumps []int
}

// funcCompiler compiles one function body, or the implicit top-level
// "function" that runs a program's top-level statements. Local slots are
// assigned monotonically as declarations are encountered and are never
// reused across sibling blocks — simpler than a slot allocator and free of
// reuse bugs, at the cost of a frame slightly larger than strictly needed.
type funcCompiler struct {
	chunk      *bytecode.Chunk
	scope      *scope
	depth      int
	localCount int
	isTopLevel bool
	loops      []*loopCtx
}

func (fc *funcCompiler) declare(name string) int {
	slot := fc.localCount
	fc.localCount++
	fc.scope.names[name] = slot
	return slot
}

// allocTemp reserves a fresh slot outside the named-scope map, used to hold
// an intermediate value across the array/index re-evaluation a compound
// assignment or inc/dec on an array element requires (see
// compileCompoundAssignStmt).
func (fc *funcCompiler) allocTemp() int {
	slot := fc.localCount
	fc.localCount++
	return slot
}

func (fc *funcCompiler) pushScope() {
	fc.scope = newScope(fc.scope)
	fc.depth++
}

func (fc *funcCompiler) popScope() {
	fc.scope = fc.scope.parent
	fc.depth--
}

func (fc *funcCompiler) pushLoop() { fc.loops = append(fc.loops, &loopCtx{}) }

func (fc *funcCompiler) popLoop() *loopCtx {
	lc := fc.loops[len(fc.loops)-1]
	fc.loops = fc.loops[:len(fc.loops)-1]
	return lc
}

func (fc *funcCompiler) currentLoop() *loopCtx { return fc.loops[len(fc.loops)-1] }

// resolveLoad emits the load for an identifier reference: LOAD_LOCAL for a
// name found in the compile-time scope chain, otherwise LOAD_GLOBAL by name
// — which covers both a true top-level variable and a function reference,
// exactly as interp's evalIdentifier falls back to the function table when
// an Environment lookup misses.
func (fc *funcCompiler) resolveLoad(name string, span token.Span) {
	if slot, ok := fc.scope.lookup(name); ok {
		fc.chunk.Emit(bytecode.OpLoadLocal, span, slot)
		return
	}
	idx := fc.chunk.AddConstant(value.String(name))
	fc.chunk.Emit(bytecode.OpLoadGlobal, span, idx)
}

func (fc *funcCompiler) resolveStore(name string, span token.Span) {
	if slot, ok := fc.scope.lookup(name); ok {
		fc.chunk.Emit(bytecode.OpStoreLocal, span, slot)
		return
	}
	idx := fc.chunk.AddConstant(value.String(name))
	fc.chunk.Emit(bytecode.OpStoreGlobal, span, idx)
}

// Compile lowers prog into a Bytecode artifact. fileID/file are recorded in
// the debug file table so a runtime error raised by the VM can render the
// same path the interpreter would for the same span.
func Compile(prog *ast.Program, fileID int, file string) *bytecode.Bytecode {
	bc := bytecode.NewBytecode()
	chunk := bytecode.NewChunk(bc)
	chunk.RegisterFile(fileID, file)

	var fns []*ast.FunctionDecl
	for _, item := range prog.Items {
		if fn, ok := item.(*ast.FunctionDecl); ok {
			fns = append(fns, fn)
		}
	}

	top := &funcCompiler{chunk: chunk, scope: newScope(nil), isTopLevel: true}
	resultSlot := top.allocTemp() // always bytecode.ResultSlot (0)

	for _, item := range prog.Items {
		stmt, ok := item.(ast.Statement)
		if !ok {
			continue // *ast.FunctionDecl, compiled in the pass below
		}
		if es, isExpr := stmt.(*ast.ExprStmt); isExpr {
			top.compileExpr(es.Expr)
			chunk.Emit(bytecode.OpStoreLocal, es.Span, resultSlot)
			continue
		}
		top.compileStmt(stmt)
		chunk.Emit(bytecode.OpNull, stmt.GetSpan())
		chunk.Emit(bytecode.OpStoreLocal, stmt.GetSpan(), resultSlot)
	}
	chunk.Emit(bytecode.OpHalt, token.Span{})

	for _, fn := range fns {
		entry := chunk.Len()
		fc := &funcCompiler{chunk: chunk, scope: newScope(nil)}
		for _, p := range fn.Params {
			fc.declare(p.Name)
		}
		fc.compileStmtsInPlace(fn.Body.Stmts)
		// Implicit fall-through return for a void function: the checker
		// rejects a non-void function whose body can fall off the end
		// (AT0004), so reaching here for a non-void function never happens
		// for an accepted program.
		chunk.Emit(bytecode.OpNull, fn.Span)
		chunk.Emit(bytecode.OpRet, fn.Span)
		chunk.AddFunction(bytecode.FunctionMeta{
			Name: fn.Name, EntryOffset: entry, Arity: len(fn.Params), LocalCount: fc.localCount,
		})
	}

	bc.TopLevelLocals = top.localCount
	return bc
}
