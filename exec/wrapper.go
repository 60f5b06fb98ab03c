package exec

import (
	"context"
	"time"
)

// CommandWrapper wraps an Executor and prepends a fixed program name to every
// Run call, e.g. NewWrapper(exec, "fnm").Run("--version").
// It implements Executor, so it can stand in for one anywhere.
type CommandWrapper struct {
	executor Executor
	cmd      string
}

// NewWrapper creates a CommandWrapper that prepends cmd to all Run calls.
func NewWrapper(executor Executor, cmd string) *CommandWrapper {
	return &CommandWrapper{
		executor: executor,
		cmd:      cmd,
	}
}

// Name returns the wrapped program name.
func (w *CommandWrapper) Name() string {
	return w.cmd
}

func (w *CommandWrapper) WithEnv(env map[string]string) Executor {
	w.executor = w.executor.WithEnv(env)
	return w
}

func (w *CommandWrapper) WithDir(dir string) Executor {
	w.executor = w.executor.WithDir(dir)
	return w
}

func (w *CommandWrapper) WithContext(ctx context.Context) Executor {
	w.executor = w.executor.WithContext(ctx)
	return w
}

func (w *CommandWrapper) WithDisableColors() Executor {
	w.executor = w.executor.WithDisableColors()
	return w
}

func (w *CommandWrapper) WithTimeout(timeout time.Duration) Executor {
	w.executor = w.executor.WithTimeout(timeout)
	return w
}

func (w *CommandWrapper) WithInheritEnv() Executor {
	w.executor = w.executor.WithInheritEnv()
	return w
}

// Run executes the wrapped program with args appended.
func (w *CommandWrapper) Run(args ...string) (*Result, error) {
	fullArgs := append([]string{w.cmd}, args...)
	return w.executor.Run(fullArgs...)
}

// RunShell runs script through shell without the program prefix.
func (w *CommandWrapper) RunShell(shell Shell, script string) (*Result, error) {
	return w.executor.RunShell(shell, script)
}

// Clone creates a copy of the wrapper with the same configuration.
func (w *CommandWrapper) Clone() Executor {
	return &CommandWrapper{
		executor: w.executor.Clone(),
		cmd:      w.cmd,
	}
}
