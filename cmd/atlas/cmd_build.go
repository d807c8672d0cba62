package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/compiler"
	"github.com/atlas-lang/atlas/internal/config"
)

// buildCmd compiles an Atlas source file to a .atb bytecode artifact.
type buildCmd struct {
	out string
}

func (*buildCmd) Name() string     { return "build" }
func (*buildCmd) Synopsis() string { return "Compile an Atlas source file to a .atb artifact" }
func (*buildCmd) Usage() string {
	return `atlas build [-o out.atb] <file.atl>
  Type-check and compile a program to bytecode.
`
}

func (c *buildCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "output path (default: input path with .atb extension)")
}

func (c *buildCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "atlas build: no input file")
		return subcommands.ExitUsageError
	}
	in := args[0]

	ctx, cfg, err := compileFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "atlas build: %v\n", err)
		return subcommands.ExitFailure
	}
	if reportDiagnostics(ctx, cfg, false) {
		return subcommands.ExitFailure
	}

	bc := compiler.Compile(ctx.AST, ctx.FileID, ctx.FilePath)
	data, err := bytecode.Marshal(bc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "atlas build: %v\n", err)
		return subcommands.ExitFailure
	}

	out := c.out
	if out == "" {
		out = config.TrimSourceExt(in) + config.BytecodeExt
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "atlas build: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
