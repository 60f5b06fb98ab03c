package exec

import (
	"errors"
	"fmt"
)

// ErrTimeout is the cause recorded on an ExecError when a run exceeded its
// timeout and was killed.
var ErrTimeout = errors.New("command timed out")

// ExecError describes a failed run: a non-zero exit, a start failure, a
// timeout, or a canceled parent context.
type ExecError struct {
	// Command is the full command that was executed, including arguments.
	Command []string

	// ExitCode is the exit code returned by the command, or -1.
	ExitCode int

	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// TimedOut is true when the run was killed after exceeding its timeout.
	TimedOut bool

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %v failed with exit code %d: %v", e.Command, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("command %v failed with exit code %d", e.Command, e.ExitCode)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}
