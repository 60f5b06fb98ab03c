//nolint:contextcheck // Context is passed via Executor.WithContext() but linter cannot verify
package manager

import (
	"context"
	"os"
	osexec "os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jmgilman/nodeenv/cache"
	"github.com/jmgilman/nodeenv/exec"
	"github.com/jmgilman/nodeenv/internal/logging"
)

// Default TTLs and bounds.
const (
	DefaultManagersTTL = 5 * time.Minute
	DefaultProbeTTL    = 5 * time.Minute
	DefaultCurrentTTL  = 30 * time.Second
	DefaultTimeout     = 10 * time.Second
)

// Detector finds the usable version manager and the active Node version.
// All results, including failures, are cached.
type Detector struct {
	cache    *cache.Cache
	executor exec.Executor
	shell    exec.Shell
	logger   *logging.Logger

	platform string
	timeout  time.Duration

	managersTTL time.Duration
	probeTTL    time.Duration
	currentTTL  time.Duration

	getenv   func(string) string
	lookPath func(string) (string, error)
}

// Option configures a Detector.
type Option func(*Detector)

// WithExecutor replaces the default process executor.
func WithExecutor(executor exec.Executor) Option {
	return func(d *Detector) {
		d.executor = executor
	}
}

// WithShell sets the shell used for the sub-shell fallback probes.
func WithShell(shell exec.Shell) Option {
	return func(d *Detector) {
		if !shell.IsZero() {
			d.shell = shell
		}
	}
}

// WithLogger sets the detector's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// WithPlatform overrides the platform used in cache keys and log fields.
func WithPlatform(platform string) Option {
	return func(d *Detector) {
		d.platform = platform
	}
}

// WithTimeout bounds each probe process.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Detector) {
		d.timeout = timeout
	}
}

// WithTTLs overrides the cache lifetimes. Zero values keep the defaults.
func WithTTLs(managers, probe, current time.Duration) Option {
	return func(d *Detector) {
		if managers > 0 {
			d.managersTTL = managers
		}
		if probe > 0 {
			d.probeTTL = probe
		}
		if current > 0 {
			d.currentTTL = current
		}
	}
}

// WithGetenv overrides environment lookups (NVM_DIR, HOME).
func WithGetenv(getenv func(string) string) Option {
	return func(d *Detector) {
		d.getenv = getenv
	}
}

// WithLookPath overrides how manager binaries are located on PATH.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(d *Detector) {
		d.lookPath = lookPath
	}
}

// NewDetector creates a Detector backed by c.
func NewDetector(c *cache.Cache, opts ...Option) *Detector {
	d := &Detector{
		cache:       c,
		executor:    exec.New(exec.WithInheritEnv(), exec.WithDisableColors()),
		shell:       exec.DefaultShell(),
		logger:      logging.NewNopLogger(),
		platform:    runtime.GOOS,
		timeout:     DefaultTimeout,
		managersTTL: DefaultManagersTTL,
		probeTTL:    DefaultProbeTTL,
		currentTTL:  DefaultCurrentTTL,
		getenv:      os.Getenv,
		lookPath:    osexec.LookPath,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithPlatform(d.platform)
	return d
}

// Platform returns the platform the detector keys its cache entries by.
func (d *Detector) Platform() string {
	return d.platform
}

// DetectAllManagers probes managers in priority order. If the primary
// manager is available the result has one entry and nothing else is probed;
// otherwise it has one entry per manager.
func (d *Detector) DetectAllManagers(ctx context.Context) []Descriptor {
	key := "all:" + d.platform
	result, err := cache.Cached(ctx, d.cache, cache.Managers, key, d.managersTTL,
		func(ctx context.Context) ([]Descriptor, error) {
			return d.detectAll(ctx), nil
		})
	if err != nil {
		d.logger.Error(ctx, "manager cache lookup failed", "operation", "detect_all", "error", err.Error())
		result = d.detectAll(ctx)
	}
	return cloneDescriptors(result)
}

func (d *Detector) detectAll(ctx context.Context) []Descriptor {
	var out []Descriptor
	for _, t := range probeOrder {
		desc := d.probe(ctx, t)
		out = append(out, desc)
		if desc.Available {
			break
		}
	}
	return out
}

// GetPreferredManager returns the single available manager, or the primary
// one when several are available, or the first available by probe order.
func (d *Detector) GetPreferredManager(ctx context.Context) (Descriptor, bool) {
	return Preferred(d.DetectAllManagers(ctx))
}

// Preferred selects the preferred manager from a probe result.
func Preferred(descriptors []Descriptor) (Descriptor, bool) {
	var available []Descriptor
	for _, desc := range descriptors {
		if desc.Available {
			available = append(available, desc)
		}
	}

	switch len(available) {
	case 0:
		return Descriptor{}, false
	case 1:
		return available[0], true
	}

	for _, desc := range available {
		if desc.Type == Primary() {
			return desc, true
		}
	}
	return available[0], true
}

// IsManagerAvailable reports whether t is usable. A manager skipped by the
// short-circuit in DetectAllManagers is probed on its own.
func (d *Detector) IsManagerAvailable(ctx context.Context, t Type) bool {
	for _, desc := range d.DetectAllManagers(ctx) {
		if desc.Type == t {
			return desc.Available
		}
	}
	for _, known := range probeOrder {
		if known == t {
			return d.probe(ctx, t).Available
		}
	}
	return false
}

// Probe returns the cached descriptor for one manager.
func (d *Detector) Probe(ctx context.Context, t Type) Descriptor {
	return d.probe(ctx, t)
}

func (d *Detector) probe(ctx context.Context, t Type) Descriptor {
	key := string(t) + ":" + d.platform
	desc, err := cache.Cached(ctx, d.cache, cache.Probes, key, d.probeTTL,
		func(ctx context.Context) (Descriptor, error) {
			return d.probeNow(ctx, t), nil
		})
	if err != nil {
		d.logger.Error(ctx, "probe cache lookup failed", "operation", "probe", "manager", string(t), "error", err.Error())
		return d.probeNow(ctx, t)
	}
	return desc
}

func (d *Detector) nvmDir() string {
	if dir := d.getenv("NVM_DIR"); dir != "" {
		return dir
	}
	home := d.getenv("HOME")
	if home == "" {
		home = d.getenv("USERPROFILE")
	}
	return filepath.Join(home, ".nvm")
}

func cloneDescriptors(in []Descriptor) []Descriptor {
	if in == nil {
		return nil
	}
	out := make([]Descriptor, len(in))
	copy(out, in)
	return out
}
