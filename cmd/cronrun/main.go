// Command cronrun enters a fixed project directory and runs its program,
// appending the program's merged output to cron.log. It is meant to be
// invoked by cron with no arguments.
package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes not produced by the run itself.
const (
	ExitCodeFailed = 1
	ExitCodeUsage  = 2
)

// exitCoder is implemented by errors that decide the process exit code.
type exitCoder interface {
	ExitCode() int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cronrun: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return ExitCodeFailed
}

// usageError marks bad flags or configuration.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }
func (e *usageError) ExitCode() int { return ExitCodeUsage }
