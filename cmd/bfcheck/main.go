// Package main provides the entry point for the bfcheck CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/bfcheck/cmd/bfcheck/commands"
	"github.com/Sumatoshi-tech/bfcheck/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := commands.NewRootCommand().Execute()
	if err == nil {
		return
	}

	var exitErr *commands.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	os.Exit(commands.ExitCode(err))
}
