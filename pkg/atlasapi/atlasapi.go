// Package atlasapi is the host-embedding surface of the Atlas engine. A
// host (CLI driver, test harness, editor tooling) hands it source text and
// gets back the `{ ok, diagnostics, result? }` shape the language core
// exposes to its collaborators, without importing any internal package
// directly.
package atlasapi

import (
	"io"

	"github.com/atlas-lang/atlas/internal/backend"
	"github.com/atlas-lang/atlas/internal/binder"
	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/checker"
	"github.com/atlas-lang/atlas/internal/compiler"
	"github.com/atlas-lang/atlas/internal/diagnostics"
	"github.com/atlas-lang/atlas/internal/lexer"
	"github.com/atlas-lang/atlas/internal/parser"
	"github.com/atlas-lang/atlas/internal/pipeline"
	"github.com/atlas-lang/atlas/internal/value"
	"github.com/atlas-lang/atlas/internal/vm"
)

// Diagnostic re-exports the structured diagnostic record so hosts can
// consume it without reaching into internal packages.
type Diagnostic = diagnostics.Diagnostic

// Outcome is what every API call returns: whether the program was
// accepted, every diagnostic collected, and — for the run entry points —
// the final value's canonical string form.
type Outcome struct {
	OK          bool
	Diagnostics []*Diagnostic
	// Result is the canonical string of the last top-level expression
	// statement's value ("null" when the program ended without one), or ""
	// when the program was rejected or failed at runtime.
	Result string
	// RuntimeError is the rendered runtime failure, when one occurred.
	RuntimeError string
}

func compile(file, source string) *pipeline.Context {
	ctx := pipeline.NewContext(file, 0, source)
	p := pipeline.New(lexer.Processor{}, parser.Processor{}, binder.Processor{}, checker.Processor{})
	return p.Run(ctx)
}

func outcomeFrom(ctx *pipeline.Context) Outcome {
	return Outcome{
		OK:          !ctx.Diags.HasErrors(),
		Diagnostics: ctx.Diags.All(),
	}
}

// Check lexes, parses, binds, and type-checks source without executing it.
func Check(file, source string) Outcome {
	return outcomeFrom(compile(file, source))
}

// Run type-checks source and, when accepted, executes it on the
// tree-walking interpreter, writing program output to stdout.
func Run(file, source string, stdout io.Writer) Outcome {
	ctx := compile(file, source)
	out := outcomeFrom(ctx)
	if !out.OK {
		return out
	}
	v, err := backend.NewTreeWalk().Run(ctx, stdout)
	if err != nil {
		out.RuntimeError = err.Error()
		return out
	}
	out.Result = value.CanonicalString(v)
	return out
}

// RunVM type-checks source and, when accepted, compiles and executes it on
// the bytecode VM, writing program output to stdout.
func RunVM(file, source string, stdout io.Writer) Outcome {
	ctx := compile(file, source)
	out := outcomeFrom(ctx)
	if !out.OK {
		return out
	}
	v, err := backend.NewVM().Run(ctx, stdout)
	if err != nil {
		out.RuntimeError = err.Error()
		return out
	}
	out.Result = value.CanonicalString(v)
	return out
}

// Build type-checks source and, when accepted, returns the serialized
// .atb bytecode artifact.
func Build(file, source string) ([]byte, Outcome) {
	ctx := compile(file, source)
	out := outcomeFrom(ctx)
	if !out.OK {
		return nil, out
	}
	bc := compiler.Compile(ctx.AST, ctx.FileID, ctx.FilePath)
	data, err := bytecode.Marshal(bc)
	if err != nil {
		out.OK = false
		out.RuntimeError = err.Error()
		return nil, out
	}
	return data, out
}

// Exec runs a serialized .atb artifact (as produced by Build) on the VM.
func Exec(artifact []byte, stdout io.Writer) (Outcome, error) {
	bc, err := bytecode.Unmarshal(artifact)
	if err != nil {
		return Outcome{}, err
	}
	v, rerr := vm.New(bc, stdout).Run()
	out := Outcome{OK: true}
	if rerr != nil {
		out.RuntimeError = rerr.Error()
		return out, nil
	}
	out.Result = value.CanonicalString(v)
	return out, nil
}
