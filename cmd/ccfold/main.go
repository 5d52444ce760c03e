// Command ccfold folds C constant expressions for a chosen target.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/ccfold/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
