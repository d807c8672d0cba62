package bytecode

import (
	"encoding/binary"

	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/value"
)

// FunctionMeta records one compiled function's entry point and frame
// shape, so the VM can set up a call without re-walking the AST.
type FunctionMeta struct {
	Name        string
	EntryOffset int
	Arity       int
	LocalCount  int
}

// DebugEntry associates one byte offset in the code stream with the
// source span of the AST node that produced it, so runtime errors raised
// by the VM carry the same span the interpreter would report for the
// equivalent operation.
type DebugEntry struct {
	ByteOffset int
	Span       token.Span
}

// Bytecode is the compiled artifact one compiler run produces and the VM
// consumes.
type Bytecode struct {
	Code      []byte
	Constants []value.Value
	Functions []FunctionMeta
	Debug     []DebugEntry
	// Files maps a token.Span's FileID to its display path, needed to
	// render a runtime error's span without the VM holding a reference to
	// the original source text.
	Files map[int]string
	// TopLevelLocals is the frame size the VM must allocate to run the
	// code stream before any CALL, mirroring a FunctionMeta.LocalCount for
	// the implicit top-level "function" (the result slot plus any
	// block-scoped locals declared directly at program top level).
	TopLevelLocals int
}

// ResultSlot is the local slot in the top-level frame holding the most
// recently evaluated top-level expression statement's value — the
// REPL-visible final value. Every other top-level statement kind resets
// it to Null, mirroring interp.Run's `last` variable exactly.
const ResultSlot = 0

// NewBytecode returns an empty Bytecode ready for a Chunk to append to.
func NewBytecode() *Bytecode {
	return &Bytecode{Files: make(map[int]string)}
}

// Chunk is the compiler's mutable builder over a Bytecode's code stream:
// it appends instructions and constants and records debug spans as it
// goes.
type Chunk struct {
	bc *Bytecode
}

// NewChunk wraps bc for appending instructions and constants.
func NewChunk(bc *Bytecode) *Chunk { return &Chunk{bc: bc} }

// Len returns the current byte length of the code stream — the offset
// the next emitted instruction will occupy.
func (c *Chunk) Len() int { return len(c.bc.Code) }

// Emit appends one instruction (opcode + big-endian operands) and records
// its source span in the debug map, returning the offset it was written
// at (used by callers that need to patch a jump operand later).
func (c *Chunk) Emit(op Opcode, span token.Span, operands ...int) int {
	offset := len(c.bc.Code)
	c.bc.Debug = append(c.bc.Debug, DebugEntry{ByteOffset: offset, Span: span})
	c.bc.Code = append(c.bc.Code, byte(op))
	widths := OperandWidths[op]
	for i, operand := range operands {
		width := widths[i]
		switch width {
		case 1:
			c.bc.Code = append(c.bc.Code, byte(operand))
		case 2:
			var buf [2]byte
			binary.BigEndian.PutUint16(buf[:], uint16(operand))
			c.bc.Code = append(c.bc.Code, buf[:]...)
		}
	}
	return offset
}

// PatchOperand16 overwrites the 2-byte big-endian operand at
// instrOffset+1 with value, used to back-patch a forward jump once its
// target label is known.
func (c *Chunk) PatchOperand16(instrOffset int, value int) {
	binary.BigEndian.PutUint16(c.bc.Code[instrOffset+1:instrOffset+3], uint16(value))
}

// AddConstant interns value into the constant pool and returns its index.
// Atlas does not deduplicate constants across call sites: the constant
// pool is small for any realistic program and deduplication would only
// complicate the compiler for a negligible size win.
func (c *Chunk) AddConstant(v value.Value) int {
	c.bc.Constants = append(c.bc.Constants, v)
	return len(c.bc.Constants) - 1
}

// AddFunction appends a FunctionMeta and returns its index into the
// function table.
func (c *Chunk) AddFunction(fn FunctionMeta) int {
	c.bc.Functions = append(c.bc.Functions, fn)
	return len(c.bc.Functions) - 1
}

// RegisterFile records file's display path under fileID so the VM can
// resolve a debug span to a human-readable path.
func (c *Chunk) RegisterFile(fileID int, file string) {
	c.bc.Files[fileID] = file
}

// Bytecode returns the underlying Bytecode being built.
func (c *Chunk) Bytecode() *Bytecode { return c.bc }

// SpanAt returns the span recorded for the instruction at or immediately
// before ip, used by the VM to annotate a runtime error.
func (bc *Bytecode) SpanAt(ip int) token.Span {
	var best token.Span
	for _, d := range bc.Debug {
		if d.ByteOffset > ip {
			break
		}
		best = d.Span
	}
	return best
}

// File returns the display path registered for fileID, or "" if none.
func (bc *Bytecode) File(fileID int) string {
	return bc.Files[fileID]
}
