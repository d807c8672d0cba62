// Package bytecode defines the instruction set, constant pool, and
// serialized artifact format the compiler emits and the VM executes.
// The opcode set is closed and deliberately small: AND/OR are never
// emitted (short-circuit is lowered to jumps, see internal/compiler), so
// the VM needs no boolean shortcut opcodes at all. Operands use a
// fixed-width big-endian encoding so the instruction stream stays a flat
// byte slice with no variable-length decoding.
package bytecode

import "fmt"

// Opcode is a single VM instruction.
type Opcode byte

const (
	OpPushConst   Opcode = iota // operand: 2-byte constant pool index
	OpLoadLocal                 // operand: 2-byte local slot index
	OpStoreLocal                // operand: 2-byte local slot index
	OpLoadGlobal                // operand: 2-byte constant pool index (name)
	OpStoreGlobal               // operand: 2-byte constant pool index (name)

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	OpNot
	OpNeg

	OpDup
	OpPop

	OpJmp         // operand: 2-byte absolute byte offset
	OpJmpIfFalse  // operand: 2-byte absolute byte offset

	OpCall // operand: 1-byte argument count
	OpRet

	OpNewArray // operand: 2-byte element count
	OpGetIndex
	OpSetIndex

	OpNull
	OpHalt

	// The three prelude builtins (print/len/str) are dedicated opcodes
	// rather than ordinary calls: they have no FunctionMeta entry and each
	// has polymorphic behavior (len branches on string-vs-array, str
	// accepts any non-array, non-function value) that the closed CALL
	// convention has no slot for. Each pops exactly one operand.
	OpPrint
	OpLen
	OpStr
)

// OperandWidths reports the byte width of each opcode's operands, in
// order. Opcodes missing from the table take no operands.
var OperandWidths = map[Opcode][]int{
	OpPushConst:   {2},
	OpLoadLocal:   {2},
	OpStoreLocal:  {2},
	OpLoadGlobal:  {2},
	OpStoreGlobal: {2},
	OpJmp:         {2},
	OpJmpIfFalse:  {2},
	OpCall:        {1},
	OpNewArray:    {2},
}

var names = map[Opcode]string{
	OpPushConst: "PUSH_CONST", OpLoadLocal: "LOAD_LOCAL", OpStoreLocal: "STORE_LOCAL",
	OpLoadGlobal: "LOAD_GLOBAL", OpStoreGlobal: "STORE_GLOBAL",
	OpAdd: "ADD", OpSub: "SUB", OpMul: "MUL", OpDiv: "DIV", OpMod: "MOD",
	OpEq: "EQ", OpNe: "NE", OpLt: "LT", OpLe: "LE", OpGt: "GT", OpGe: "GE",
	OpNot: "NOT", OpNeg: "NEG", OpDup: "DUP", OpPop: "POP",
	OpJmp: "JMP", OpJmpIfFalse: "JMP_IF_FALSE",
	OpCall: "CALL", OpRet: "RET",
	OpNewArray: "NEW_ARRAY", OpGetIndex: "GET_INDEX", OpSetIndex: "SET_INDEX",
	OpNull: "NULL", OpHalt: "HALT",
	OpPrint: "PRINT", OpLen: "LEN", OpStr: "STR",
}

func (op Opcode) String() string {
	if s, ok := names[op]; ok {
		return s
	}
	return fmt.Sprintf("OP(%d)", byte(op))
}

// InstructionLen returns the total byte length of an instruction with this
// opcode, including its opcode byte.
func InstructionLen(op Opcode) int {
	n := 1
	for _, w := range OperandWidths[op] {
		n += w
	}
	return n
}
