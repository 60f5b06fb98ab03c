package manager

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jmgilman/nodeenv/errors"
	"github.com/jmgilman/nodeenv/exec"
	"github.com/jmgilman/nodeenv/internal/logging"
)

var versionOutput = regexp.MustCompile(`v?\d+(\.\d+)+`)

// parseVersionOutput pulls the version out of "0.39.7", "fnm 1.35.1" or
// "v20.11.0".
func parseVersionOutput(out string) (string, bool) {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	m := versionOutput.FindString(line)
	if m == "" {
		return "", false
	}
	return strings.TrimPrefix(m, "v"), true
}

func (d *Detector) probeNow(ctx context.Context, t Type) Descriptor {
	switch t {
	case TypeNVM:
		return d.probeNVM(ctx)
	case TypeFNM:
		return d.probeFNM(ctx)
	default:
		return Descriptor{Type: t, Error: "unknown version manager"}
	}
}

// probeNVM tries "nvm --version" directly and then, since nvm is normally a
// shell function, again in a sub-shell that sources nvm.sh first. Both
// attempts together are one probe.
func (d *Detector) probeNVM(ctx context.Context) Descriptor {
	args := []string{"--version"}
	if d.platform == "windows" {
		args = []string{"version"}
	}

	result, err := d.run(ctx, "nvm", args...)
	if version, ok := versionFrom(result, err); ok {
		return Descriptor{Type: TypeNVM, Available: true, Version: version, Path: d.path("nvm")}
	}
	if d.platform == "windows" {
		return d.probeFailed(ctx, TypeNVM, "nvm "+strings.Join(args, " "), result, err)
	}

	nvmDir := d.nvmDir()
	script := nvmScript("nvm --version")
	result, err = d.runShell(ctx, script, nvmEnv(nvmDir))
	if version, ok := versionFrom(result, err); ok {
		return Descriptor{
			Type:      TypeNVM,
			Available: true,
			Version:   version,
			Path:      filepath.Join(nvmDir, "nvm.sh"),
		}
	}
	return d.probeFailed(ctx, TypeNVM, script, result, err)
}

func (d *Detector) probeFNM(ctx context.Context) Descriptor {
	result, err := d.run(ctx, "fnm", "--version")
	if version, ok := versionFrom(result, err); ok {
		return Descriptor{Type: TypeFNM, Available: true, Version: version, Path: d.path("fnm")}
	}
	return d.probeFailed(ctx, TypeFNM, "fnm --version", result, err)
}

func versionFrom(result *exec.Result, err error) (string, bool) {
	if err != nil || result == nil || !result.Success {
		return "", false
	}
	return parseVersionOutput(result.Stdout)
}

// probeFailed converts a failed probe into a negative descriptor and logs it.
func (d *Detector) probeFailed(ctx context.Context, t Type, command string, result *exec.Result, err error) Descriptor {
	perr := classifyRunError(err, result, "version manager probe failed")
	perr = errors.WithContextMap(perr, map[string]any{
		"manager":  string(t),
		"platform": d.platform,
		"command":  command,
	})

	logging.LogRecovered(ctx, d.logger.WithOperation("probe"), "version manager unavailable", perr,
		"manager", string(t),
		"command", command)

	return Descriptor{Type: t, Available: false, Error: perr.Error()}
}

// classifyRunError maps an executor outcome onto the error taxonomy.
func classifyRunError(err error, result *exec.Result, message string) errors.PlatformError {
	switch {
	case err == nil && result != nil && result.Success:
		return errors.New(errors.CodeParseFailed, message+": unrecognized version output")
	case err == nil:
		return errors.New(errors.CodeProbeFailed, message)
	case errors.Is(err, exec.ErrTimeout):
		return errors.Wrap(err, errors.CodeTimeout, message)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(err, errors.CodeCanceled, message)
	default:
		return errors.Wrap(err, errors.CodeProbeFailed, message)
	}
}

func (d *Detector) run(ctx context.Context, program string, args ...string) (*exec.Result, error) {
	return exec.NewWrapper(d.executor, program).
		Clone().
		WithContext(ctx).
		WithTimeout(d.timeout).
		Run(args...)
}

// runShell runs script in the configured sub-shell with env added to the
// inherited environment.
func (d *Detector) runShell(ctx context.Context, script string, env map[string]string) (*exec.Result, error) {
	e := d.executor.
		Clone().
		WithContext(ctx).
		WithTimeout(d.timeout)
	if len(env) > 0 {
		e = e.WithInheritEnv().WithEnv(env)
	}
	return e.RunShell(d.shell, script)
}

func (d *Detector) path(program string) string {
	p, err := d.lookPath(program)
	if err != nil {
		return ""
	}
	return p
}
