// Command atlas is the Atlas language driver: it runs, checks, compiles,
// and executes Atlas programs, and hosts the interactive REPL.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&buildCmd{}, "")
	subcommands.Register(&execCmd{}, "")
	subcommands.Register(&checkCmd{}, "")
	subcommands.Register(&parityCmd{}, "")
	subcommands.Register(&replCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
