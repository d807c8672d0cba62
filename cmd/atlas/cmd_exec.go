package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/vm"
)

// execCmd loads a compiled .atb artifact and runs it on the VM. The source
// file is not consulted: runtime errors are located through the artifact's
// debug map and file table alone.
type execCmd struct{}

func (*execCmd) Name() string     { return "exec" }
func (*execCmd) Synopsis() string { return "Run a compiled .atb bytecode artifact" }
func (*execCmd) Usage() string {
	return `atlas exec <file.atb>
  Execute a previously built bytecode artifact on the VM.
`
}

func (*execCmd) SetFlags(*flag.FlagSet) {}

func (*execCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "atlas exec: no input file")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "atlas exec: %v\n", err)
		return subcommands.ExitFailure
	}
	bc, err := bytecode.Unmarshal(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "atlas exec: %v\n", err)
		return subcommands.ExitFailure
	}

	machine := vm.New(bc, os.Stdout)
	if _, rerr := machine.Run(); rerr != nil {
		// The original source is unavailable here, so the rendered error
		// carries the artifact's recorded file path without a snippet line.
		reportRuntimeError(rerr, bc.File(rerr.Span.FileID), "")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
