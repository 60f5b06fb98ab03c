// Package nodeenv decides which Node version a project needs and whether the
// active one satisfies it.
//
// An Engine owns one cache shared by the manager detector, the project
// config resolver and the version matcher. Construct one per process and
// pass it to whatever needs it.
package nodeenv

import (
	"context"

	"github.com/jmgilman/nodeenv/cache"
	"github.com/jmgilman/nodeenv/exec"
	"github.com/jmgilman/nodeenv/fs/billy"
	"github.com/jmgilman/nodeenv/fs/core"
	"github.com/jmgilman/nodeenv/internal/config"
	"github.com/jmgilman/nodeenv/internal/logging"
	"github.com/jmgilman/nodeenv/manager"
	"github.com/jmgilman/nodeenv/project"
	"github.com/jmgilman/nodeenv/version"
)

// Engine is the explicit context object composing every component.
type Engine struct {
	cache    *cache.Cache
	detector *manager.Detector
	resolver *project.Resolver
	matcher  *version.Matcher
	logger   *logging.Logger
	settings config.Settings
}

type options struct {
	settings config.Settings
	executor exec.Executor
	fs       core.ReadFS
	clock    cache.Clock
	logger   *logging.Logger
	platform string
}

// Option configures an Engine.
type Option func(*options)

// WithSettings replaces the default settings.
func WithSettings(s config.Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithExecutor sets the executor used for probes.
func WithExecutor(executor exec.Executor) Option {
	return func(o *options) {
		o.executor = executor
	}
}

// WithFS sets the filesystem project configuration is read from.
func WithFS(fsys core.ReadFS) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithClock sets the cache clock.
func WithClock(clock cache.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger. By default one is built from the settings.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPlatform overrides the platform used for manager cache keys.
func WithPlatform(platform string) Option {
	return func(o *options) {
		o.platform = platform
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	o := &options{
		settings: config.Default(),
		clock:    cache.SystemClock(),
	}
	for _, opt := range opts {
		opt(o)
	}

	s := o.settings
	logger := o.logger
	if logger == nil {
		logger = NewLogger(s.Log)
	}
	fsys := o.fs
	if fsys == nil {
		fsys = billy.NewLocal()
	}

	c := cache.New(cache.WithClock(o.clock), cache.WithLogger(logger.With("component", "cache")))

	detectorOpts := []manager.Option{
		manager.WithLogger(logger.With("component", "manager")),
		manager.WithTimeout(s.Exec.Timeout),
		manager.WithShell(exec.ParseShell(s.Exec.Shell)),
		manager.WithTTLs(s.Cache.ManagersTTL, s.Cache.ProbeTTL, s.Cache.CurrentTTL),
	}
	if o.executor != nil {
		detectorOpts = append(detectorOpts, manager.WithExecutor(o.executor))
	}
	if o.platform != "" {
		detectorOpts = append(detectorOpts, manager.WithPlatform(o.platform))
	}

	return &Engine{
		cache:    c,
		detector: manager.NewDetector(c, detectorOpts...),
		resolver: project.NewResolver(c,
			project.WithFS(fsys),
			project.WithLogger(logger.With("component", "project")),
			project.WithTTLs(s.Cache.ProjectTTL, s.Cache.ManifestTTL, s.Cache.PinTTL),
		),
		matcher: version.NewMatcher(c,
			version.WithTTL(s.Cache.MatchTTL),
			version.WithLogger(logger.With("component", "version")),
		),
		logger:   logger,
		settings: s,
	}
}

// NewLogger builds a logger from log settings. An invalid level falls back
// to info.
func NewLogger(s config.LogSettings) *logging.Logger {
	level, _ := logging.ParseLogLevel(s.Level)
	return logging.NewLogger(logging.LogConfig{
		Level: level,
		JSON:  s.Format == "json",
	})
}

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() config.Settings { return e.settings }

// Logger returns the engine's logger.
func (e *Engine) Logger() *logging.Logger { return e.logger }

// DetectAllManagers lists probed managers in priority order.
func (e *Engine) DetectAllManagers(ctx context.Context) []manager.Descriptor {
	return e.detector.DetectAllManagers(ctx)
}

// GetPreferredManager returns the manager to use, if any is available.
func (e *Engine) GetPreferredManager(ctx context.Context) (manager.Descriptor, bool) {
	return e.detector.GetPreferredManager(ctx)
}

// IsManagerAvailable reports whether the named manager is usable.
func (e *Engine) IsManagerAvailable(ctx context.Context, t manager.Type) bool {
	return e.detector.IsManagerAvailable(ctx, t)
}

// CurrentVersion returns the active Node version, or "".
func (e *Engine) CurrentVersion(ctx context.Context) string {
	return e.detector.CurrentVersion(ctx)
}

// GetProjectVersionConfig returns the project's required version.
func (e *Engine) GetProjectVersionConfig(ctx context.Context, root string) (project.Config, bool) {
	return e.resolver.GetProjectVersionConfig(ctx, root)
}

// HasConfigFiles reports whether root has any version configuration file.
func (e *Engine) HasConfigFiles(ctx context.Context, root string) bool {
	return e.resolver.HasConfigFiles(ctx, root)
}

// Invalidate drops cached configuration for root.
func (e *Engine) Invalidate(root string) {
	e.resolver.Invalidate(root)
}

// MatchVersion compares current against required.
func (e *Engine) MatchVersion(ctx context.Context, current, required string) version.Result {
	return e.matcher.Match(ctx, current, required)
}

// Clear empties the cache.
func (e *Engine) Clear() {
	e.cache.Clear()
}

// ClearNamespace empties one cache namespace.
func (e *Engine) ClearNamespace(name string) error {
	ns, err := cache.ParseNamespace(name)
	if err != nil {
		return err
	}
	e.cache.DeleteNamespace(ns)
	return nil
}

// Stats returns cache diagnostics.
func (e *Engine) Stats() cache.Stats {
	return e.cache.Stats()
}

// Cleanup removes expired cache entries.
func (e *Engine) Cleanup(ctx context.Context) int {
	return e.cache.Cleanup(ctx)
}
