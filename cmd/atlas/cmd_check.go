package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// checkCmd runs the pipeline through the type checker only and reports
// diagnostics, without executing anything.
type checkCmd struct {
	jsonOut bool
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "Type-check an Atlas source file without running it" }
func (*checkCmd) Usage() string {
	return `atlas check [-json] <file.atl>
  Report all lex, parse, bind, and type diagnostics; exit non-zero on any error.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.jsonOut, "json", false, "emit diagnostics as one JSON record per line")
}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "atlas check: no input file")
		return subcommands.ExitUsageError
	}

	ctx, cfg, err := compileFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "atlas check: %v\n", err)
		return subcommands.ExitFailure
	}
	if reportDiagnostics(ctx, cfg, c.jsonOut) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
