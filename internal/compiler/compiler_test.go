package compiler_test

import (
	"testing"

	"github.com/atlas-lang/atlas/internal/binder"
	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/checker"
	"github.com/atlas-lang/atlas/internal/compiler"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/lexer"
	"github.com/atlas-lang/atlas/internal/parser"
)

func compileSrc(t *testing.T, src string) *bytecode.Bytecode {
	t.Helper()
	bag := diagnostics.NewBag()
	toks := lexer.New(src, "test.atl", 0, bag).Scan()
	prog := parser.New(toks, "test.atl", src, bag).ParseProgram()
	table := binder.Bind(prog, "test.atl", src, bag)
	checker.Check(prog, table, "test.atl", src, bag)
	if bag.HasErrors() {
		t.Fatalf("program rejected: %s", bag.Errors()[0].Message)
	}
	return compiler.Compile(prog, 0, "test.atl")
}

// opcodes decodes the code stream back into its opcode sequence using the
// operand-width table.
func opcodes(bc *bytecode.Bytecode) []bytecode.Opcode {
	var out []bytecode.Opcode
	for ip := 0; ip < len(bc.Code); {
		op := bytecode.Opcode(bc.Code[ip])
		out = append(out, op)
		ip += bytecode.InstructionLen(op)
	}
	return out
}

func count(ops []bytecode.Opcode, want bytecode.Opcode) int {
	n := 0
	for _, op := range ops {
		if op == want {
			n++
		}
	}
	return n
}

func TestFunctionTable(t *testing.T) {
	bc := compileSrc(t, `fn add(a: number, b: number) -> number { let c = a + b; return c; } print(add(1, 2));`)
	if len(bc.Functions) != 1 {
		t.Fatalf("functions: %d", len(bc.Functions))
	}
	fn := bc.Functions[0]
	if fn.Name != "add" || fn.Arity != 2 {
		t.Errorf("meta: %+v", fn)
	}
	if fn.LocalCount != 3 { // a, b, c
		t.Errorf("local count: got %d, want 3", fn.LocalCount)
	}
	// Function bodies live after the top-level HALT so they can never be
	// reached by falling through.
	haltAt := -1
	for ip, n := 0, 0; ip < len(bc.Code); n++ {
		if bytecode.Opcode(bc.Code[ip]) == bytecode.OpHalt {
			haltAt = ip
			break
		}
		ip += bytecode.InstructionLen(bytecode.Opcode(bc.Code[ip]))
	}
	if haltAt < 0 {
		t.Fatal("no HALT emitted")
	}
	if fn.EntryOffset <= haltAt {
		t.Errorf("function entry %d not after HALT at %d", fn.EntryOffset, haltAt)
	}
}

func TestTopLevelVarsAreGlobals(t *testing.T) {
	bc := compileSrc(t, `var x = 1; x = x + 1; print(x);`)
	ops := opcodes(bc)
	if count(ops, bytecode.OpStoreGlobal) < 2 {
		t.Errorf("expected global stores for a top-level var, got %v", ops)
	}
}

func TestBlockVarsAreLocals(t *testing.T) {
	bc := compileSrc(t, `{ let y = 1; print(y); }`)
	ops := opcodes(bc)
	if count(ops, bytecode.OpStoreLocal) == 0 {
		t.Errorf("expected a local store for a block-scoped let, got %v", ops)
	}
	if bc.TopLevelLocals < 2 { // result slot + y
		t.Errorf("TopLevelLocals: %d", bc.TopLevelLocals)
	}
}

// Short-circuit is lowered to DUP/JMP_IF_FALSE/POP jumps; there is no
// AND/OR opcode for it to use.
func TestShortCircuitLowering(t *testing.T) {
	bc := compileSrc(t, `let a = true; let b = false; let c = a && b; let d = a || b; print(c); print(d);`)
	ops := opcodes(bc)
	if count(ops, bytecode.OpDup) < 2 {
		t.Errorf("expected DUPs from the short-circuit lowering, got %v", ops)
	}
	if count(ops, bytecode.OpJmpIfFalse) < 2 {
		t.Errorf("expected conditional jumps from the short-circuit lowering, got %v", ops)
	}
}

// Every instruction carries a debug span so the VM can locate runtime
// errors precisely.
func TestDebugSpansCoverCode(t *testing.T) {
	bc := compileSrc(t, `fn f(n: number) -> number { return n * 2; } print(f(21));`)
	if len(bc.Debug) == 0 {
		t.Fatal("no debug entries")
	}
	last := -1
	for _, d := range bc.Debug {
		if d.ByteOffset <= last {
			t.Fatalf("debug offsets not strictly increasing at %d", d.ByteOffset)
		}
		last = d.ByteOffset
	}
	if bc.File(0) != "test.atl" {
		t.Errorf("file table: %q", bc.File(0))
	}
}

func TestConstantsInterned(t *testing.T) {
	bc := compileSrc(t, `print("hello"); print(42); print(true);`)
	var haveStr, haveNum, haveBool bool
	for _, c := range bc.Constants {
		switch {
		case c.IsString() && c.AsString() == "hello":
			haveStr = true
		case c.IsNumber() && c.AsNumber() == 42:
			haveNum = true
		case c.IsBool() && c.AsBool():
			haveBool = true
		}
	}
	if !haveStr || !haveNum || !haveBool {
		t.Errorf("constant pool missing literals: %v %v %v", haveStr, haveNum, haveBool)
	}
}
