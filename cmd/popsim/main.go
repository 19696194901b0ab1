package main

import (
	"fmt"
	"os"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
