package exec_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jmgilman/nodeenv/exec"
	"github.com/jmgilman/nodeenv/exec/mocks"
)

func newSelfMock(run func(args ...string) (*exec.Result, error)) *mocks.ExecutorMock {
	var mockExec *mocks.ExecutorMock
	mockExec = &mocks.ExecutorMock{
		WithEnvFunc:           func(map[string]string) exec.Executor { return mockExec },
		WithDirFunc:           func(string) exec.Executor { return mockExec },
		WithContextFunc:       func(context.Context) exec.Executor { return mockExec },
		WithDisableColorsFunc: func() exec.Executor { return mockExec },
		WithTimeoutFunc:       func(time.Duration) exec.Executor { return mockExec },
		WithInheritEnvFunc:    func() exec.Executor { return mockExec },
		CloneFunc:             func() exec.Executor { return mockExec },
		RunFunc:               run,
		RunShellFunc: func(shell exec.Shell, script string) (*exec.Result, error) {
			return run(shell.Args(script)...)
		},
	}
	return mockExec
}

func TestWrapperPrependsCommand(t *testing.T) {
	mockExec := newSelfMock(func(args ...string) (*exec.Result, error) {
		return &exec.Result{Stdout: "fnm 1.35.1\n", Success: true}, nil
	})

	fnm := exec.NewWrapper(mockExec, "fnm")
	result, err := fnm.
		WithTimeout(time.Second).
		WithDir("/work").
		Run("--version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(result.Stdout, "fnm") {
		t.Errorf("unexpected stdout: %s", result.Stdout)
	}

	calls := mockExec.RunCalls()
	if len(calls) != 1 {
		t.Fatalf("expected Run to be called once, got: %d", len(calls))
	}
	if strings.Join(calls[0].Args, " ") != "fnm --version" {
		t.Errorf("expected 'fnm --version', got: %v", calls[0].Args)
	}
	if len(mockExec.WithTimeoutCalls()) != 1 || mockExec.WithTimeoutCalls()[0].Timeout != time.Second {
		t.Errorf("expected timeout to be forwarded, got: %v", mockExec.WithTimeoutCalls())
	}
	if len(mockExec.WithDirCalls()) != 1 || mockExec.WithDirCalls()[0].Dir != "/work" {
		t.Errorf("expected dir to be forwarded, got: %v", mockExec.WithDirCalls())
	}
}

func TestWrapperRunShellHasNoPrefix(t *testing.T) {
	mockExec := newSelfMock(func(args ...string) (*exec.Result, error) {
		return &exec.Result{Success: true}, nil
	})

	w := exec.NewWrapper(mockExec, "nvm")
	_, err := w.RunShell(exec.Shell{Path: "bash", Flags: []string{"-c"}}, "nvm --version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := mockExec.RunShellCalls()
	if len(calls) != 1 || calls[0].Script != "nvm --version" {
		t.Fatalf("unexpected RunShell calls: %v", calls)
	}
	if w.Name() != "nvm" {
		t.Errorf("unexpected name: %s", w.Name())
	}
}

func TestWrapperRealExecution(t *testing.T) {
	if _, err := exec.New().Run("sh", "-c", "true"); err != nil {
		t.Skip("requires a POSIX shell")
	}

	sh := exec.NewWrapper(exec.New(), "sh")
	result, err := sh.
		WithEnv(map[string]string{"VAR1": "value1"}).
		WithEnv(map[string]string{"VAR2": "value2"}).
		Run("-c", "echo $VAR1 $VAR2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Stdout, "value1 value2") {
		t.Errorf("expected both env vars to be set, got: %s", result.Stdout)
	}
}

func TestWrapperClone(t *testing.T) {
	mockExec := newSelfMock(func(args ...string) (*exec.Result, error) {
		return &exec.Result{Success: true}, nil
	})

	w := exec.NewWrapper(mockExec, "node")
	clone := w.Clone()
	if _, err := clone.Run("--version"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mockExec.RunCalls()[0].Args[0]; got != "node" {
		t.Errorf("clone lost the program name, got: %s", got)
	}
}
