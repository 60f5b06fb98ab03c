package exec

import (
	"context"
	"errors"
	"os"
	osexec "os/exec"
	"time"
)

// waitDelay bounds how long Wait keeps reading pipes after the process has
// been killed. Grandchildren that inherited the pipes cannot hold a run open
// past this.
const waitDelay = 500 * time.Millisecond

// Command is the concrete implementation of the Executor interface.
type Command struct {
	config *config
	ctx    context.Context
}

// New creates a new Command with the given global options.
func New(opts ...Option) *Command {
	cmd := &Command{
		config: newConfig(),
		ctx:    context.Background(),
	}

	for _, opt := range opts {
		opt(cmd)
	}

	return cmd
}

// WithEnv sets environment variables for the next run.
func (c *Command) WithEnv(env map[string]string) Executor {
	for k, v := range env {
		c.config.localEnv[k] = v
	}
	return c
}

// WithDir sets the working directory for the next run.
func (c *Command) WithDir(dir string) Executor {
	c.config.localDir = dir
	return c
}

// WithContext sets the parent context for the next run.
func (c *Command) WithContext(ctx context.Context) Executor {
	c.ctx = ctx
	return c
}

// WithDisableColors disables color output for the next run.
func (c *Command) WithDisableColors() Executor {
	val := true
	c.config.localDisableColors = &val
	return c
}

// WithTimeout bounds the next run.
func (c *Command) WithTimeout(timeout time.Duration) Executor {
	c.config.localTimeout = &timeout
	return c
}

// WithInheritEnv enables environment inheritance for the next run.
func (c *Command) WithInheritEnv() Executor {
	val := true
	c.config.localInheritEnv = &val
	return c
}

// RunShell executes script through shell.
func (c *Command) RunShell(shell Shell, script string) (*Result, error) {
	return c.Run(shell.Args(script)...)
}

// Run executes the command with the given arguments.
//
// The returned Result is never nil. A nil error means the command exited
// with code 0; otherwise the error is an *ExecError. A run that exceeds its
// timeout has its whole process group killed and reports ExitCode -1,
// TimedOut true, and an ExecError wrapping ErrTimeout.
func (c *Command) Run(args ...string) (*Result, error) {
	defer c.reset()

	if len(args) == 0 {
		return &Result{ExitCode: -1}, &ExecError{
			Command:  args,
			ExitCode: -1,
			Err:      osexec.ErrNotFound,
		}
	}

	ctx := c.ctx
	timeout := c.config.effectiveTimeout()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := osexec.CommandContext(ctx, args[0], args[1:]...)
	configureProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	if dir := c.config.effectiveDir(); dir != "" {
		cmd.Dir = dir
	}

	env := c.config.effectiveEnv()
	if c.config.effectiveInheritEnv() {
		cmd.Env = os.Environ()
	} else if len(env) > 0 {
		cmd.Env = []string{}
	}
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	out := &capture{}
	cmd.Stdout = out.stdoutWriter()
	cmd.Stderr = out.stderrWriter()

	start := time.Now()
	err := cmd.Run()

	result := &Result{Duration: time.Since(start), ExitCode: -1}
	out.fill(result)

	if err == nil {
		result.ExitCode = 0
		result.Success = true
		return result, nil
	}

	execErr := &ExecError{
		Command: args,
		Stdout:  result.Stdout,
		Stderr:  result.Stderr,
		Err:     err,
	}

	switch {
	case timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
		execErr.TimedOut = true
		execErr.Err = ErrTimeout
	case c.ctx.Err() != nil:
		execErr.Err = c.ctx.Err()
	case cmd.ProcessState != nil:
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	execErr.ExitCode = result.ExitCode
	return result, execErr
}

// Clone creates a copy of the executor with the same configuration.
func (c *Command) Clone() Executor {
	return &Command{
		config: c.config.clone(),
		ctx:    c.ctx,
	}
}

func (c *Command) reset() {
	c.config.resetLocal()
	c.ctx = context.Background()
}
