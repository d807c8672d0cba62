// Package vm is the stack-based execution engine for compiled Bytecode.
// It must produce, for every type-checked program, the same stdout
// sequence, final value, and first runtime error as internal/interp
// walking the same program's AST — the parity guarantee internal/backend
// checks mechanically. Every domain check here (finite arithmetic,
// integer array index, in-bounds index, division by zero) mirrors its
// internal/interp counterpart exactly, opcode by opcode rather than rule
// by rule, so the two engines diverge identically rather than drifting
// apart as either one changes.
//
// Dispatch is a flat `for { switch op }` loop over a byte-indexed
// instruction pointer, with a call-frame stack separate from the operand
// stack, over the six-kind value model in internal/value.
package vm

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/value"
)

// callFrame is one active function invocation: its local variable slots and
// the code offset execution resumes at in the caller once this frame
// returns.
type callFrame struct {
	funcName string
	callSpan token.Span
	returnIP int
	locals   []value.Value
}

// VM executes one Bytecode program to completion. A VM instance is
// single-use: construct a fresh one per Run, mirroring how
// internal/compiler.Compile produces one self-contained artifact per
// program rather than an incrementally relinked one. Interactive
// incremental evaluation is the interpreter's job, not the VM's.
type VM struct {
	bc     *bytecode.Bytecode
	stdout io.Writer

	stack     []value.Value
	globals   map[string]value.Value
	frames    []*callFrame
	topLocals []value.Value
}

// New constructs a VM ready to run bc, seeding the global table with a
// FunctionRef for every compiled function — fn declarations are bound at
// program start, exactly what interp.Interpreter.Run's hoisting pass
// achieves for the tree-walker.
func New(bc *bytecode.Bytecode, stdout io.Writer) *VM {
	globals := make(map[string]value.Value, len(bc.Functions))
	for i, fn := range bc.Functions {
		globals[fn.Name] = value.Function(value.FunctionID(i))
	}
	return &VM{bc: bc, stdout: stdout, globals: globals}
}

// Run executes the VM's program from the top and returns the value of the
// last top-level expression statement (the REPL-visible result), or Null
// if the program ended some other way, plus the first runtime error
// encountered.
func (vm *VM) Run() (value.Value, *RuntimeError) {
	vm.topLocals = make([]value.Value, vm.bc.TopLevelLocals)
	for i := range vm.topLocals {
		vm.topLocals[i] = value.Null
	}

	ip := 0
	for {
		instrStart := ip
		op := bytecode.Opcode(vm.bc.Code[ip])
		ip++

		switch op {
		case bytecode.OpHalt:
			return vm.topLocals[bytecode.ResultSlot], nil

		case bytecode.OpPushConst:
			idx := vm.readUint16(&ip)
			c := vm.bc.Constants[idx]
			// A numeric literal that overflowed to infinity passes the lexer
			// and compiler untouched; it is rejected here on evaluation, at
			// the same point the interpreter rejects it.
			if c.Kind() == value.KindNumber && !value.IsFinite(c.AsNumber()) {
				return value.Null, vm.runtimeErr(diagnostics.ErrNonFiniteResult, vm.bc.SpanAt(instrStart),
					"numeric literal overflows to a non-finite value")
			}
			vm.push(c)

		case bytecode.OpNull:
			vm.push(value.Null)

		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpDup:
			vm.push(vm.peek())

		case bytecode.OpLoadLocal:
			slot := vm.readUint16(&ip)
			vm.push(vm.locals()[slot])

		case bytecode.OpStoreLocal:
			slot := vm.readUint16(&ip)
			vm.locals()[slot] = vm.pop()

		case bytecode.OpLoadGlobal:
			idx := vm.readUint16(&ip)
			vm.push(vm.globals[vm.bc.Constants[idx].AsString()])

		case bytecode.OpStoreGlobal:
			idx := vm.readUint16(&ip)
			vm.globals[vm.bc.Constants[idx].AsString()] = vm.pop()

		case bytecode.OpAdd:
			span := vm.bc.SpanAt(instrStart)
			right, left := vm.pop(), vm.pop()
			v, rerr := vm.applyAdd(left, right, span)
			if rerr != nil {
				return value.Null, rerr
			}
			vm.push(v)

		case bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod:
			span := vm.bc.SpanAt(instrStart)
			right, left := vm.pop(), vm.pop()
			v, rerr := vm.applyArith(op, left, right, span)
			if rerr != nil {
				return value.Null, rerr
			}
			vm.push(v)

		case bytecode.OpEq:
			right, left := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(left, right)))

		case bytecode.OpNe:
			right, left := vm.pop(), vm.pop()
			vm.push(value.Bool(!value.Equal(left, right)))

		case bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe:
			right, left := vm.pop(), vm.pop()
			vm.push(value.Bool(compare(op, left.AsNumber(), right.AsNumber())))

		case bytecode.OpNot:
			v := vm.pop()
			vm.push(value.Bool(!v.AsBool()))

		case bytecode.OpNeg:
			span := vm.bc.SpanAt(instrStart)
			v := vm.pop()
			res, rerr := vm.checkFinite(-v.AsNumber(), span)
			if rerr != nil {
				return value.Null, rerr
			}
			vm.push(res)

		case bytecode.OpJmp:
			ip = vm.readUint16(&ip)

		case bytecode.OpJmpIfFalse:
			target := vm.readUint16(&ip)
			if !vm.pop().AsBool() {
				ip = target
			}

		case bytecode.OpNewArray:
			n := vm.readUint16(&ip)
			elems := make([]value.Value, n)
			for i := n - 1; i >= 0; i-- {
				elems[i] = vm.pop()
			}
			for _, e := range elems {
				retainIfArray(e)
			}
			vm.push(value.NewArray(elems))

		case bytecode.OpGetIndex:
			span := vm.bc.SpanAt(instrStart)
			idxV := vm.pop()
			arrV := vm.pop()
			i, rerr := vm.checkIndex(idxV, arrV.AsArray(), span)
			if rerr != nil {
				return value.Null, rerr
			}
			vm.push(arrV.AsArray().Get(i))

		case bytecode.OpSetIndex:
			span := vm.bc.SpanAt(instrStart)
			val := vm.pop()
			idxV := vm.pop()
			arrV := vm.pop()
			i, rerr := vm.checkIndex(idxV, arrV.AsArray(), span)
			if rerr != nil {
				return value.Null, rerr
			}
			retainIfArray(val)
			arrV.AsArray().Set(i, val)

		case bytecode.OpCall:
			argc := int(vm.bc.Code[ip])
			ip++
			span := vm.bc.SpanAt(instrStart)
			args := make([]value.Value, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = vm.pop()
			}
			calleeV := vm.pop()
			if calleeV.Kind() != value.KindFunction {
				return value.Null, vm.runtimeErr(diagnostics.ErrUnknownSymbol, span,
					"call target is not a known function")
			}
			fn := vm.bc.Functions[calleeV.AsFunction()]
			locals := make([]value.Value, fn.LocalCount)
			for i := range locals {
				locals[i] = value.Null
			}
			for i, a := range args {
				retainIfArray(a)
				locals[i] = a
			}
			vm.frames = append(vm.frames, &callFrame{
				funcName: fn.Name, callSpan: span, returnIP: ip, locals: locals,
			})
			ip = fn.EntryOffset

		case bytecode.OpRet:
			retVal := vm.pop()
			frame := vm.frames[len(vm.frames)-1]
			vm.frames = vm.frames[:len(vm.frames)-1]
			ip = frame.returnIP
			vm.push(retVal)

		case bytecode.OpPrint:
			v := vm.pop()
			fmt.Fprintln(vm.stdout, value.CanonicalString(v))
			vm.push(value.Null)

		case bytecode.OpLen:
			v := vm.pop()
			if v.IsString() {
				vm.push(value.Number(float64(utf8.RuneCountInString(v.AsString()))))
			} else {
				vm.push(value.Number(float64(v.AsArray().Len())))
			}

		case bytecode.OpStr:
			v := vm.pop()
			vm.push(value.String(value.CanonicalString(v)))
		}
	}
}

func (vm *VM) locals() []value.Value {
	if len(vm.frames) == 0 {
		return vm.topLocals
	}
	return vm.frames[len(vm.frames)-1].locals
}

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() value.Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek() value.Value { return vm.stack[len(vm.stack)-1] }

func (vm *VM) readUint16(ip *int) int {
	v := int(binary.BigEndian.Uint16(vm.bc.Code[*ip : *ip+2]))
	*ip += 2
	return v
}

// applyAdd implements '+' on (number,number) or (string,string), matching
// interp.applyBinary's PLUS case exactly.
func (vm *VM) applyAdd(left, right value.Value, span token.Span) (value.Value, *RuntimeError) {
	if left.IsString() {
		return value.String(left.AsString() + right.AsString()), nil
	}
	return vm.checkFinite(left.AsNumber()+right.AsNumber(), span)
}

// applyArith implements '-','*','/','%' on (number,number), matching
// interp.applyBinary's corresponding cases.
func (vm *VM) applyArith(op bytecode.Opcode, left, right value.Value, span token.Span) (value.Value, *RuntimeError) {
	switch op {
	case bytecode.OpSub:
		return vm.checkFinite(left.AsNumber()-right.AsNumber(), span)
	case bytecode.OpMul:
		return vm.checkFinite(left.AsNumber()*right.AsNumber(), span)
	case bytecode.OpDiv:
		if right.AsNumber() == 0 {
			return value.Value{}, vm.runtimeErr(diagnostics.ErrDivideByZero, span, "division by zero")
		}
		return vm.checkFinite(left.AsNumber()/right.AsNumber(), span)
	case bytecode.OpMod:
		if right.AsNumber() == 0 {
			return value.Value{}, vm.runtimeErr(diagnostics.ErrDivideByZero, span, "division by zero")
		}
		return vm.checkFinite(math.Mod(left.AsNumber(), right.AsNumber()), span)
	default:
		return value.Null, nil
	}
}

func compare(op bytecode.Opcode, l, r float64) bool {
	switch op {
	case bytecode.OpLt:
		return l < r
	case bytecode.OpLe:
		return l <= r
	case bytecode.OpGt:
		return l > r
	case bytecode.OpGe:
		return l >= r
	default:
		return false
	}
}

func (vm *VM) checkFinite(f float64, span token.Span) (value.Value, *RuntimeError) {
	if !value.IsFinite(f) {
		return value.Value{}, vm.runtimeErr(diagnostics.ErrNonFiniteResult, span,
			"arithmetic operation produced a non-finite result")
	}
	return value.Number(f), nil
}

func (vm *VM) checkIndex(idxV value.Value, arr *value.Array, span token.Span) (int, *RuntimeError) {
	f := idxV.AsNumber()
	if f != math.Trunc(f) {
		return 0, vm.runtimeErr(diagnostics.ErrNonIntegerIndex, span, "array index must be an integer")
	}
	i := int(f)
	if i < 0 || i >= arr.Len() {
		return 0, vm.runtimeErr(diagnostics.ErrOutOfBounds, span, "array index out of bounds")
	}
	return i, nil
}

func (vm *VM) runtimeErr(code diagnostics.ErrorCode, span token.Span, msg string) *RuntimeError {
	stack := make([]Frame, len(vm.frames))
	for i, f := range vm.frames {
		stack[i] = Frame{FuncName: f.funcName, CallSpan: f.callSpan}
	}
	return newRuntimeError(code, span, msg, stack)
}

// retainIfArray bumps v's refcount when it is an Array being stored into a
// new binding, matching interp's retainIfArray.
func retainIfArray(v value.Value) {
	if v.IsArray() {
		v.AsArray().Retain()
	}
}
