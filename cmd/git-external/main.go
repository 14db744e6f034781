package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/stettberger/git-external/internal/cli"
	"github.com/stettberger/git-external/internal/vcs"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)

		// Propagate the collaborator's exit status where one exists.
		var execErr *vcs.ExecError
		if errors.As(err, &execErr) && execErr.ExitCode > 0 {
			os.Exit(execErr.ExitCode)
		}
		os.Exit(1)
	}
}
