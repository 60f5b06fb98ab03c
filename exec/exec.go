package exec

import (
	"context"
	"time"
)

//go:generate go run github.com/matryer/moq@latest -out mocks/executor.go -pkg mocks . Executor

// Executor runs external commands. It exposes a fluent API for per-run
// settings; local settings are cleared after every Run or RunShell call.
//
// Implementations are not safe for concurrent configuration. Callers that
// share an Executor between goroutines should Clone it before configuring.
type Executor interface {
	// WithEnv sets environment variables for the next run.
	WithEnv(env map[string]string) Executor

	// WithDir sets the working directory for the next run.
	WithDir(dir string) Executor

	// WithContext sets the parent context for the next run.
	WithContext(ctx context.Context) Executor

	// WithDisableColors sets NO_COLOR and friends for the next run.
	WithDisableColors() Executor

	// WithTimeout bounds the next run. When the bound expires the process
	// and everything it spawned are killed and a failed result with exit
	// code -1 is returned.
	WithTimeout(timeout time.Duration) Executor

	// WithInheritEnv passes the parent process environment through.
	WithInheritEnv() Executor

	// Run executes args[0] with the remaining arguments.
	Run(args ...string) (*Result, error)

	// RunShell executes script through the given shell.
	RunShell(shell Shell, script string) (*Result, error)

	// Clone returns an independent copy with the same configuration.
	Clone() Executor
}

// Result is the outcome of a command. Run always returns a non-nil Result,
// even when the command could not be started or timed out.
type Result struct {
	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// Combined is stdout and stderr interleaved in write order.
	Combined string

	// ExitCode is the process exit code, or -1 when the process could not
	// be started, was killed, or timed out.
	ExitCode int

	// Success is true when the command exited with code 0.
	Success bool

	// TimedOut is true when the run exceeded its timeout and was killed.
	TimedOut bool

	// Duration is the wall time spent running the command.
	Duration time.Duration
}

// Option configures a Command with global settings.
// Global settings apply to every run and are overridden by local settings.
type Option func(*Command)

// WithEnv returns an Option that sets global environment variables.
func WithEnv(env map[string]string) Option {
	return func(c *Command) {
		for k, v := range env {
			c.config.globalEnv[k] = v
		}
	}
}

// WithDir returns an Option that sets the global working directory.
func WithDir(dir string) Option {
	return func(c *Command) {
		c.config.globalDir = dir
	}
}

// WithDisableColors returns an Option that globally disables color output.
func WithDisableColors() Option {
	return func(c *Command) {
		c.config.globalDisableColors = true
	}
}

// WithTimeout returns an Option that sets the default timeout for every run.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Command) {
		c.config.globalTimeout = timeout
	}
}

// WithInheritEnv returns an Option that globally enables environment inheritance.
func WithInheritEnv() Option {
	return func(c *Command) {
		c.config.globalInheritEnv = true
	}
}
