package main

import (
	"fmt"
	"os"

	"ozymandias/cmd/ozymandias/commands"
	"ozymandias/internal/apperr"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperr.ExitCode(err))
	}
}
