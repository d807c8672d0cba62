// Package interp is the tree-walking execution engine. It evaluates the
// typed AST directly against an Environment chain, producing the same
// observable effects (stdout, final value, first runtime error) that
// internal/vm produces for the same program — the parity guarantee
// internal/backend checks mechanically. Statements and expressions each
// dispatch through a per-node-kind switch over the fixed six-kind value
// model in internal/value.
package interp

import (
	"io"
	"math"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/symbols"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/types"
	"github.com/atlas-lang/atlas/internal/value"
)

// signal classifies the control-flow effect an executed statement
// produced, covering Atlas's three non-local control-flow forms.
type signal int

const (
	signalNone signal = iota
	signalReturn
	signalBreak
	signalContinue
)

// flow is what executing a statement or block produces: whether it ran to
// completion (signalNone) or is propagating a control-flow signal upward,
// carrying a value for signalReturn.
type flow struct {
	sig signal
	val value.Value
}

var flowNone = flow{sig: signalNone}

// Interpreter walks one program's statements against a shared global
// Environment. A single Interpreter is reused across repeated REPL
// evaluations so top-level bindings persist.
type Interpreter struct {
	file   string
	source string
	table  *symbols.Table
	types  map[ast.Expression]types.Type
	stdout io.Writer

	functions map[string]*ast.FunctionDecl
	fnIDs     map[string]value.FunctionID
	fnNames   map[value.FunctionID]string
	globals   *Environment

	frames []Frame // active call frames, outermost first
}

// New creates an Interpreter sharing a fresh global Environment, ready to
// Run one or more programs/statements against it (the REPL calls Run
// repeatedly with the same Interpreter).
func New(table *symbols.Table, nodeTypes map[ast.Expression]types.Type, file, source string, stdout io.Writer) *Interpreter {
	return &Interpreter{
		file: file, source: source, table: table, types: nodeTypes, stdout: stdout,
		functions: make(map[string]*ast.FunctionDecl),
		fnIDs:     make(map[string]value.FunctionID),
		fnNames:   make(map[value.FunctionID]string),
		globals:   NewEnvironment(),
	}
}

// registerFunction assigns fn a stable FunctionID the first time its name
// is seen, so a FunctionRef Value (e.g. a function passed or returned as a
// first-class value) can be mapped back to its declaration without Atlas
// needing real closures: functions are static top-level declarations,
// never heap objects.
func (in *Interpreter) registerFunction(fn *ast.FunctionDecl) {
	in.functions[fn.Name] = fn
	if _, ok := in.fnIDs[fn.Name]; ok {
		return
	}
	id := value.FunctionID(len(in.fnIDs))
	in.fnIDs[fn.Name] = id
	in.fnNames[id] = fn.Name
}

// Run executes prog's items against the Interpreter's persistent global
// environment and returns the value of the last top-level expression
// statement (used by the REPL to print a result), or Null if the program
// ended some other way.
func (in *Interpreter) Run(prog *ast.Program) (value.Value, *RuntimeError) {
	for _, item := range prog.Items {
		if fn, ok := item.(*ast.FunctionDecl); ok {
			in.registerFunction(fn)
		}
	}

	var last value.Value = value.Null
	for _, item := range prog.Items {
		stmt, ok := item.(ast.Statement)
		if !ok {
			continue // *ast.FunctionDecl: already hoisted above
		}
		f, v, err := in.execTopLevel(stmt)
		if err != nil {
			return value.Null, err
		}
		if f.sig != signalNone {
			// A bare top-level return/break/continue is rejected by the
			// binder (AT1010/AT1011); reaching here would be a binder bug,
			// not a user-reachable state.
			continue
		}
		last = v
	}
	return last, nil
}

// execTopLevel runs one top-level statement in the global scope, also
// surfacing an expression-statement's value for the REPL.
func (in *Interpreter) execTopLevel(stmt ast.Statement) (flow, value.Value, *RuntimeError) {
	if es, ok := stmt.(*ast.ExprStmt); ok {
		v, err := in.eval(es.Expr, in.globals)
		if err != nil {
			return flowNone, value.Null, err
		}
		return flowNone, v, nil
	}
	f, err := in.exec(stmt, in.globals)
	return f, value.Null, err
}

func (in *Interpreter) pushFrame(name string, callSpan token.Span) {
	in.frames = append(in.frames, Frame{FuncName: name, CallSpan: callSpan})
}

func (in *Interpreter) popFrame() {
	in.frames = in.frames[:len(in.frames)-1]
}

func (in *Interpreter) runtimeErr(code diagnostics.ErrorCode, span token.Span, msg string) *RuntimeError {
	return newRuntimeError(code, span, msg, in.frames)
}

// checkFinite enforces the "every Number is finite" invariant after every
// arithmetic op, reporting AT0007 for a produced NaN or ±Inf (division by
// zero is reported separately, as AT0005, before this check would
// otherwise turn it into a less specific AT0007).
func (in *Interpreter) checkFinite(f float64, span token.Span) (value.Value, *RuntimeError) {
	if !value.IsFinite(f) {
		return value.Value{}, in.runtimeErr(diagnostics.ErrNonFiniteResult, span,
			"arithmetic operation produced a non-finite result")
	}
	return value.Number(f), nil
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f)
}
