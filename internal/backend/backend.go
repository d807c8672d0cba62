// Package backend lets a caller pick an execution engine — the
// tree-walking interpreter or the bytecode VM — behind one interface, and
// provides a parity harness that runs both over the same type-checked
// program and reports any divergence. For every program that passes type
// checking, the interpreter's and VM's observable effects must be
// identical; RunBoth is the executable form of that invariant.
package backend

import (
	"bytes"
	"io"

	"github.com/atlas-lang/atlas/internal/compiler"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/interp"
	"github.com/atlas-lang/atlas/internal/pipeline"
	"github.com/atlas-lang/atlas/internal/token"
	"github.com/atlas-lang/atlas/internal/value"
	"github.com/atlas-lang/atlas/internal/vm"
)

// Backend executes a type-checked program and reports its observable
// result: the REPL-visible final value and, on failure, the runtime error.
type Backend interface {
	Name() string
	Run(ctx *pipeline.Context, stdout io.Writer) (value.Value, error)
}

// TreeWalk runs a program through internal/interp.
type TreeWalk struct{}

func NewTreeWalk() *TreeWalk { return &TreeWalk{} }

func (b *TreeWalk) Name() string { return "interpreter" }

func (b *TreeWalk) Run(ctx *pipeline.Context, stdout io.Writer) (value.Value, error) {
	in := interp.New(ctx.SymbolTable, ctx.NodeTypes, ctx.FilePath, ctx.Source, stdout)
	v, err := in.Run(ctx.AST)
	if err != nil {
		return value.Null, err
	}
	return v, nil
}

// VMBackend compiles a program to Bytecode and runs it through internal/vm.
type VMBackend struct{}

func NewVM() *VMBackend { return &VMBackend{} }

func (b *VMBackend) Name() string { return "vm" }

func (b *VMBackend) Run(ctx *pipeline.Context, stdout io.Writer) (value.Value, error) {
	bc := compiler.Compile(ctx.AST, ctx.FileID, ctx.FilePath)
	machine := vm.New(bc, stdout)
	v, err := machine.Run()
	if err != nil {
		return value.Null, err
	}
	return v, nil
}

// errInfo is the engine-agnostic shape backend extracts from either
// *interp.RuntimeError or *vm.RuntimeError for comparison, since the two
// engines deliberately keep independent RuntimeError types (see
// internal/vm/errors.go).
type errInfo struct {
	Code    diagnostics.ErrorCode
	Message string
	Span    token.Span
}

func describeErr(err error) (errInfo, bool) {
	switch e := err.(type) {
	case *interp.RuntimeError:
		return errInfo{Code: e.Code, Message: e.Message, Span: e.Span}, true
	case *vm.RuntimeError:
		return errInfo{Code: e.Code, Message: e.Message, Span: e.Span}, true
	default:
		return errInfo{}, false
	}
}

// ParityResult is the outcome of running a program through both engines.
type ParityResult struct {
	InterpStdout string
	VMStdout     string
	InterpValue  value.Value
	VMValue      value.Value
	InterpErr    error
	VMErr        error
	// Mismatch is empty when the two engines agree; otherwise it names
	// what diverged.
	Mismatch string
}

// OK reports whether the two engines agreed on every observable effect.
func (r *ParityResult) OK() bool { return r.Mismatch == "" }

// RunBoth executes ctx's program through the interpreter and the VM
// independently, each with its own stdout capture, and compares stdout,
// final value, and first runtime error.
func RunBoth(ctx *pipeline.Context) *ParityResult {
	var interpOut, vmOut bytes.Buffer

	interpVal, interpErr := (&TreeWalk{}).Run(ctx, &interpOut)
	vmVal, vmErr := (&VMBackend{}).Run(ctx, &vmOut)

	r := &ParityResult{
		InterpStdout: interpOut.String(),
		VMStdout:     vmOut.String(),
		InterpValue:  interpVal,
		VMValue:      vmVal,
		InterpErr:    interpErr,
		VMErr:        vmErr,
	}

	if r.InterpStdout != r.VMStdout {
		r.Mismatch = "stdout diverged between interpreter and VM"
		return r
	}

	interpInfo, interpHasErr := describeErr(interpErr)
	vmInfo, vmHasErr := describeErr(vmErr)
	if interpHasErr != vmHasErr {
		r.Mismatch = "one engine raised a runtime error and the other did not"
		return r
	}
	if interpHasErr && vmHasErr {
		if interpInfo.Code != vmInfo.Code {
			r.Mismatch = "runtime error codes diverged between interpreter and VM"
		}
		return r
	}

	// Array/Function equality is reference/identity-based and the two
	// engines never share an Array or FunctionID namespace, so
	// value.Equal would always (and meaninglessly) fail for those kinds;
	// compare by canonical string instead, which is what a REPL actually
	// displays.
	if value.CanonicalString(interpVal) != value.CanonicalString(vmVal) {
		r.Mismatch = "final value diverged between interpreter and VM"
		return r
	}

	return r
}
