package main

import (
	"go-best-conversion/cmd/bestrate/commands"
	"os"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(commands.ExitCode(err))
	}
}
