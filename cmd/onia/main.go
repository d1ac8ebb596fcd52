// Command onia trains the ONIA multiclass model and checks its output file.
//
//	onia train [--data-dir templates] [--output resultado.csv] [options]
//	onia check [-file resultado.csv]
//	onia config [--config onia.yaml]
package main

import (
	"fmt"
	"os"

	"github.com/gonuts/commander"
)

func main() {
	cmd := &commander.Command{
		UsageLine: "onia <command> [options]",
		Short:     "ONIA multiclass classification pipeline",
		Subcommands: []*commander.Command{
			trainCmd(),
			checkCmd(),
			configCmd(),
		},
	}

	if err := cmd.Dispatch(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "onia: %v\n", err)
		os.Exit(1)
	}
}
