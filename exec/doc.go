// Package exec runs external commands for the version engine.
//
// It wraps os/exec behind the Executor interface so callers can substitute a
// mock in tests. Command is the concrete implementation; CommandWrapper binds
// a program name so a version manager can be invoked as
// fnm.Run("--version").
//
// # Configuration
//
// Global options are fixed at creation time; the fluent With* methods apply
// to the next run only:
//
//	executor := exec.New(exec.WithInheritEnv(), exec.WithTimeout(10*time.Second))
//
//	result, err := executor.Clone().
//		WithContext(ctx).
//		WithDir(root).
//		Run("node", "--version")
//
// # Results and Errors
//
// Run always returns a Result. Result.Success reports a zero exit. Any other
// outcome also returns an *ExecError carrying the command, exit code and
// captured output, so callers may inspect either.
//
// # Timeouts
//
// A run that exceeds its timeout is killed together with every process it
// spawned (the command runs in its own process group on Unix). The Result has
// ExitCode -1 and TimedOut set, and the error wraps ErrTimeout:
//
//	result, err := executor.WithTimeout(2*time.Second).RunShell(exec.DefaultShell(), script)
//	if result.TimedOut {
//		// err wraps exec.ErrTimeout
//	}
//
// # Shells
//
// RunShell runs a script through a Shell descriptor (interpreter plus flags).
// DefaultShell picks a platform shell; ParseShell reads one from settings.
package exec
