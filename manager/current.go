package manager

import (
	"context"

	"github.com/jmgilman/nodeenv/cache"
	"github.com/jmgilman/nodeenv/internal/logging"
)

// CurrentVersion returns the active Node version without a "v" prefix, or
// "" when none could be determined. Failures are cached like successes.
func (d *Detector) CurrentVersion(ctx context.Context) string {
	key := d.platform
	v, err := cache.Cached(ctx, d.cache, cache.Current, key, d.currentTTL,
		func(ctx context.Context) (string, error) {
			return d.currentNow(ctx), nil
		})
	if err != nil {
		d.logger.Error(ctx, "current version cache lookup failed", "operation", "current_version", "error", err.Error())
		return d.currentNow(ctx)
	}
	return v
}

// currentNow runs "node --version" and, when node is not on PATH, retries
// inside the preferred manager's environment.
func (d *Detector) currentNow(ctx context.Context) string {
	result, err := d.run(ctx, "node", "--version")
	if version, ok := versionFrom(result, err); ok {
		return version
	}
	command := "node --version"

	if preferred, ok := d.GetPreferredManager(ctx); ok && d.platform != "windows" {
		var (
			script string
			env    map[string]string
		)
		switch preferred.Type {
		case TypeNVM:
			script = nvmScript("node --version")
			env = nvmEnv(d.nvmDir())
		case TypeFNM:
			script = fnmScript("node --version")
		}
		if script != "" {
			command = script
			result, err = d.runShell(ctx, script, env)
			if version, ok := versionFrom(result, err); ok {
				return version
			}
		}
	}

	perr := classifyRunError(err, result, "current node version unavailable")
	logging.LogRecovered(ctx, d.logger.WithOperation("current_version"), "current node version unavailable", perr,
		"command", command)
	return ""
}
