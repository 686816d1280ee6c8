// Package commands implements the bfcheck subcommands.
package commands

import "errors"

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitInvalid    = 2
	ExitMismatch   = 3
	ExitRegression = 1
)

// ExitError is returned by a command whose outcome has already been reported
// and only needs to be turned into a process exit code.
type ExitError struct {
	Reason string
	Code   int
}

func (e *ExitError) Error() string {
	return e.Reason
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitFailure
}
