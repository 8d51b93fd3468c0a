package main

import (
	"os"

	"github.com/stellarbit/hubclient/cmd/cli"
)

func main() {
	if err := cli.GetCommandOptions().Execute(); err != nil {
		os.Exit(1)
	}
}
