// Command kitchen runs, validates and inspects cooperative kitchen levels.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/kitchen/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
