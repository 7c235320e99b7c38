package runner

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// Exit codes mirroring what a shell reports for the same failures.
const (
	ExitFailure       = 1
	ExitCannotExecute = 126
	ExitNotFound      = 127
)

// WorkDirError is returned when the working directory cannot be entered.
// Nothing else has happened when it is returned.
type WorkDirError struct {
	Dir string
	Err error
}

func (e *WorkDirError) Error() string {
	return fmt.Sprintf("entering %s: %v", e.Dir, e.Err)
}

func (e *WorkDirError) Unwrap() error { return e.Err }

// ExitCode implements the CLI's exit code contract.
func (e *WorkDirError) ExitCode() int { return ExitFailure }

// LaunchError is returned when the child process could not be started.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("executing %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ExitCode returns 127 when the interpreter does not exist, 126 when it
// cannot be executed and 1 otherwise.
func (e *LaunchError) ExitCode() int {
	switch {
	case errors.Is(e.Err, exec.ErrNotFound), errors.Is(e.Err, fs.ErrNotExist):
		return ExitNotFound
	case errors.Is(e.Err, fs.ErrPermission):
		return ExitCannotExecute
	default:
		return ExitFailure
	}
}

// ExitStatusError carries a non-zero child exit code. Run never returns
// it; callers that opt into propagation build it with Result.Err.
type ExitStatusError struct {
	RunID string
	Code  int
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("run %s: child exited with status %d", e.RunID, e.Code)
}

// ExitCode returns the child's code, or 1 if it was killed by a signal.
func (e *ExitStatusError) ExitCode() int {
	if e.Code < 0 {
		return ExitFailure
	}
	return e.Code
}

// Err returns an *ExitStatusError when the child exited non-zero.
func (r *Result) Err() error {
	if r.ExitCode == 0 {
		return nil
	}
	return &ExitStatusError{RunID: r.RunID, Code: r.ExitCode}
}
