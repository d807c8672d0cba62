package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/atlas-lang/atlas/internal/backend"
)

// runCmd executes an Atlas source file: parse, bind, check, then run on
// the selected engine (the tree-walking interpreter unless -engine=vm).
type runCmd struct {
	engine string
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute an Atlas source file" }
func (*runCmd) Usage() string {
	return `atlas run [-engine=interp|vm] <file.atl>
  Type-check and execute an Atlas program.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.engine, "engine", "interp", "execution engine: interp (tree-walking) or vm (bytecode)")
}

func (c *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "atlas run: no input file")
		return subcommands.ExitUsageError
	}

	ctx, cfg, err := compileFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "atlas run: %v\n", err)
		return subcommands.ExitFailure
	}
	if reportDiagnostics(ctx, cfg, false) {
		return subcommands.ExitFailure
	}

	var eng backend.Backend
	switch c.engine {
	case "interp":
		eng = backend.NewTreeWalk()
	case "vm":
		eng = backend.NewVM()
	default:
		fmt.Fprintf(os.Stderr, "atlas run: unknown engine %q\n", c.engine)
		return subcommands.ExitUsageError
	}

	if _, err := eng.Run(ctx, os.Stdout); err != nil {
		reportRuntimeError(err, ctx.FilePath, ctx.Source)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
