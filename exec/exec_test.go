package exec

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestNew(t *testing.T) {
	exec := New()
	if exec == nil {
		t.Fatal("New() returned nil")
	}
}

func TestBasicExecution(t *testing.T) {
	skipOnWindows(t)

	exec := New()
	result, err := exec.Run("echo", "hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.Stdout, "hello world") {
		t.Errorf("expected stdout to contain 'hello world', got: %s", result.Stdout)
	}
	if result.ExitCode != 0 || !result.Success {
		t.Errorf("expected success with exit code 0, got: %+v", result)
	}
}

func TestCommandFailure(t *testing.T) {
	skipOnWindows(t)

	exec := New()
	result, err := exec.Run("sh", "-c", "echo oops >&2; exit 3")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecError, got: %T", err)
	}
	if execErr.ExitCode != 3 || result.ExitCode != 3 {
		t.Errorf("expected exit code 3, got: %d / %d", execErr.ExitCode, result.ExitCode)
	}
	if result.Success {
		t.Error("expected Success to be false")
	}
	if !strings.Contains(result.Stderr, "oops") {
		t.Errorf("expected stderr to be captured, got: %q", result.Stderr)
	}
}

func TestCommandNotFound(t *testing.T) {
	exec := New()
	result, err := exec.Run("nodeenv-definitely-not-a-command")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if result == nil {
		t.Fatal("expected a synthetic result")
	}
	if result.ExitCode != -1 || result.Success {
		t.Errorf("expected exit code -1 and failure, got: %+v", result)
	}
}

func TestEmptyArgs(t *testing.T) {
	result, err := New().Run()
	if err == nil {
		t.Fatal("expected error for empty command")
	}
	if result == nil || result.ExitCode != -1 {
		t.Fatalf("expected synthetic result with exit code -1, got: %+v", result)
	}
}

func TestWithDir(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	result, err := New().WithDir(dir).Run("pwd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Stdout, filepath.Base(dir)) {
		t.Errorf("expected stdout to contain %q, got: %s", dir, result.Stdout)
	}
}

func TestWithEnv(t *testing.T) {
	skipOnWindows(t)

	result, err := New().WithEnv(map[string]string{
		"TEST_VAR": "test_value",
	}).Run("sh", "-c", "echo $TEST_VAR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Stdout, "test_value") {
		t.Errorf("expected stdout to contain 'test_value', got: %s", result.Stdout)
	}
}

func TestWithDisableColors(t *testing.T) {
	skipOnWindows(t)

	result, err := New().WithDisableColors().Run("sh", "-c", "echo $NO_COLOR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Stdout, "1") {
		t.Errorf("expected NO_COLOR=1, got: %s", result.Stdout)
	}
}

func TestLocalSettingsReset(t *testing.T) {
	skipOnWindows(t)

	exec := New()
	if _, err := exec.WithEnv(map[string]string{"ONCE": "yes"}).Run("true"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := exec.Run("sh", "-c", "echo \"[$ONCE]\"")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Stdout, "[]") {
		t.Errorf("expected local env to be cleared, got: %s", result.Stdout)
	}
}

func TestWithTimeout(t *testing.T) {
	skipOnWindows(t)

	start := time.Now()
	result, err := New().WithTimeout(100 * time.Millisecond).Run("sleep", "5")
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got: %v", err)
	}
	if !result.TimedOut || result.ExitCode != -1 || result.Success {
		t.Errorf("expected synthetic timed out result, got: %+v", result)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestTimeoutKillsProcessGroup(t *testing.T) {
	skipOnWindows(t)

	// The background sleep inherits stdout; without a group kill Wait would
	// block until it exits.
	start := time.Now()
	result, _ := New().
		WithTimeout(100*time.Millisecond).
		RunShell(Shell{Path: "sh", Flags: []string{"-c"}}, "sleep 5 & sleep 5")

	if !result.TimedOut {
		t.Fatalf("expected timed out result, got: %+v", result)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("sub-shell children kept the run alive for %v", elapsed)
	}
}

func TestGlobalTimeout(t *testing.T) {
	skipOnWindows(t)

	result, err := New(WithTimeout(100 * time.Millisecond)).Run("sleep", "5")
	if !errors.Is(err, ErrTimeout) || !result.TimedOut {
		t.Fatalf("expected global timeout to apply, got: %v / %+v", err, result)
	}
}

func TestWithContextCanceled(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New().WithContext(ctx).Run("sleep", "1")
	if err == nil {
		t.Fatal("expected context cancellation error, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
	if result.TimedOut {
		t.Error("cancellation must not be reported as a timeout")
	}
}

func TestRunShell(t *testing.T) {
	skipOnWindows(t)

	result, err := New().RunShell(Shell{Path: "sh", Flags: []string{"-c"}}, "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Stdout, "out") || !strings.Contains(result.Stderr, "err") {
		t.Errorf("unexpected output: %+v", result)
	}
	if !strings.Contains(result.Combined, "out") || !strings.Contains(result.Combined, "err") {
		t.Errorf("expected combined output, got: %q", result.Combined)
	}
}

func TestClone(t *testing.T) {
	skipOnWindows(t)

	base := New(WithEnv(map[string]string{"BASE": "base"}))
	clone := base.Clone()
	clone.WithEnv(map[string]string{"LOCAL": "local"})

	result, err := base.Run("sh", "-c", "echo \"$BASE-[$LOCAL]\"")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Stdout, "base-[]") {
		t.Errorf("clone leaked settings into base, got: %s", result.Stdout)
	}
}

func TestShell(t *testing.T) {
	sh := ParseShell("bash -l -c")
	if sh.Path != "bash" || len(sh.Flags) != 2 {
		t.Fatalf("unexpected shell: %+v", sh)
	}

	args := sh.Args("echo hi")
	want := []string{"bash", "-l", "-c", "echo hi"}
	if strings.Join(args, "|") != strings.Join(want, "|") {
		t.Errorf("expected %v, got %v", want, args)
	}
	if sh.String() != "bash -l -c" {
		t.Errorf("unexpected String(): %q", sh.String())
	}

	if ParseShell("  ").IsZero() {
		t.Error("empty descriptor should fall back to the default shell")
	}
}
