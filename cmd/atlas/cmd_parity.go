package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/atlas-lang/atlas/internal/backend"
	"github.com/atlas-lang/atlas/internal/value"
)

// parityCmd runs a program through BOTH engines and compares their
// observable effects, the executable form of the interpreter/VM parity
// guarantee. Exit status is non-zero on any divergence.
type parityCmd struct{}

func (*parityCmd) Name() string     { return "parity" }
func (*parityCmd) Synopsis() string { return "Run a program on both engines and diff their output" }
func (*parityCmd) Usage() string {
	return `atlas parity <file.atl>
  Execute the program on the interpreter and the VM, comparing stdout,
  final value, and first runtime error.
`
}

func (*parityCmd) SetFlags(*flag.FlagSet) {}

func (*parityCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "atlas parity: no input file")
		return subcommands.ExitUsageError
	}

	ctx, cfg, err := compileFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "atlas parity: %v\n", err)
		return subcommands.ExitFailure
	}
	if reportDiagnostics(ctx, cfg, false) {
		return subcommands.ExitFailure
	}

	r := backend.RunBoth(ctx)
	if r.OK() {
		// The two outputs are identical; show the program's output once.
		fmt.Fprint(os.Stdout, r.InterpStdout)
		if r.InterpErr != nil {
			reportRuntimeError(r.InterpErr, ctx.FilePath, ctx.Source)
		}
		fmt.Fprintln(os.Stderr, "parity: engines agree")
		return subcommands.ExitSuccess
	}

	fmt.Fprintf(os.Stderr, "parity: MISMATCH: %s\n", r.Mismatch)
	fmt.Fprintf(os.Stderr, "--- interpreter stdout\n%s", r.InterpStdout)
	fmt.Fprintf(os.Stderr, "+++ vm stdout\n%s", r.VMStdout)
	fmt.Fprintf(os.Stderr, "interpreter value: %s\n", value.CanonicalString(r.InterpValue))
	fmt.Fprintf(os.Stderr, "vm value:          %s\n", value.CanonicalString(r.VMValue))
	if r.InterpErr != nil {
		fmt.Fprintf(os.Stderr, "interpreter error: %v\n", r.InterpErr)
	}
	if r.VMErr != nil {
		fmt.Fprintf(os.Stderr, "vm error:          %v\n", r.VMErr)
	}
	return subcommands.ExitFailure
}
