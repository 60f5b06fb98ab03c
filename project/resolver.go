package project

import (
	"context"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jmgilman/nodeenv/cache"
	"github.com/jmgilman/nodeenv/errors"
	"github.com/jmgilman/nodeenv/fs/billy"
	"github.com/jmgilman/nodeenv/fs/core"
	"github.com/jmgilman/nodeenv/internal/logging"
)

// Default TTLs. Manifests are edited often, pin files rarely.
const (
	DefaultProjectTTL  = time.Minute
	DefaultManifestTTL = 10 * time.Second
	DefaultPinTTL      = 5 * time.Minute
)

// Resolver turns a project root into its required Node version.
//
// Each file read is cached on its own and the aggregate resolution is cached
// per root. Nothing is invalidated when files change; call Invalidate from a
// file watcher to drop a root early.
type Resolver struct {
	cache  *cache.Cache
	fs     core.ReadFS
	logger *logging.Logger

	projectTTL  time.Duration
	manifestTTL time.Duration
	pinTTL      time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFS sets the filesystem configuration files are read from.
func WithFS(fsys core.ReadFS) Option {
	return func(r *Resolver) {
		r.fs = fsys
	}
}

// WithLogger sets the resolver's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithTTLs overrides the cache lifetimes. Zero values keep the defaults.
func WithTTLs(project, manifest, pin time.Duration) Option {
	return func(r *Resolver) {
		if project > 0 {
			r.projectTTL = project
		}
		if manifest > 0 {
			r.manifestTTL = manifest
		}
		if pin > 0 {
			r.pinTTL = pin
		}
	}
}

// NewResolver creates a Resolver backed by c.
func NewResolver(c *cache.Cache, opts ...Option) *Resolver {
	r := &Resolver{
		cache:       c,
		fs:          billy.NewLocal(),
		logger:      logging.NewNopLogger(),
		projectTTL:  DefaultProjectTTL,
		manifestTTL: DefaultManifestTTL,
		pinTTL:      DefaultPinTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithPlatform(runtime.GOOS)
	return r
}

// GetProjectVersionConfig returns the required version of the project at
// root, taken from the first source in priority order that yields one.
// Unreadable or malformed files are skipped.
func (r *Resolver) GetProjectVersionConfig(ctx context.Context, root string) (Config, bool) {
	root = cleanRoot(root)
	cfg, err := cache.Cached(ctx, r.cache, cache.Project, root, r.projectTTL,
		func(ctx context.Context) (*Config, error) {
			return r.resolve(ctx, root), nil
		})
	if err != nil {
		r.logger.Error(ctx, "project cache lookup failed", "operation", "resolve", "root", root, "error", err.Error())
		cfg = r.resolve(ctx, root)
	}
	if cfg == nil {
		return Config{}, false
	}
	return *cfg, true
}

func (r *Resolver) resolve(ctx context.Context, root string) *Config {
	for _, src := range sources {
		content, ok := r.readFile(ctx, root, src)
		if !ok {
			continue
		}

		spec, err := src.extract(content)
		if err != nil {
			logging.LogRecovered(ctx, r.logger.WithOperation("parse_config"), "configuration file ignored", err,
				"path", filepath.Join(root, src.file),
				"source", string(src.source))
			continue
		}

		spec = normalizeSpec(spec, src.kind)
		if spec == "" {
			continue
		}
		return &Config{Version: spec, Source: src.source}
	}
	return nil
}

// fileContent is what the files namespace stores. Missing files are cached
// too.
type fileContent struct {
	Data  string
	Found bool
}

func (r *Resolver) readFile(ctx context.Context, root string, src source) (string, bool) {
	ttl := r.pinTTL
	if src.kind == kindManifest {
		ttl = r.manifestTTL
	}

	path := filepath.Join(root, src.file)
	fc, err := cache.Cached(ctx, r.cache, cache.Files, fileKey(root, src.file), ttl,
		func(ctx context.Context) (fileContent, error) {
			return r.readNow(ctx, path), nil
		})
	if err != nil {
		r.logger.Error(ctx, "file cache lookup failed", "operation", "read_config", "path", path, "error", err.Error())
		fc = r.readNow(ctx, path)
	}
	return fc.Data, fc.Found
}

func (r *Resolver) readNow(ctx context.Context, path string) fileContent {
	data, err := r.fs.ReadFile(path)
	if err != nil {
		if !core.IsNotExist(err) {
			logging.LogRecovered(ctx, r.logger.WithOperation("read_config"), "configuration file unreadable",
				errors.Wrap(err, errors.CodeReadFailed, "read failed"),
				"path", path)
		}
		return fileContent{}
	}
	return fileContent{Data: string(data), Found: true}
}

// HasConfigFiles reports whether any recognized configuration file exists
// in root. Contents are not examined.
func (r *Resolver) HasConfigFiles(ctx context.Context, root string) bool {
	root = cleanRoot(root)
	for _, name := range ConfigFiles {
		path := filepath.Join(root, name)
		ok, err := r.fs.Exists(path)
		if err != nil {
			logging.LogRecovered(ctx, r.logger.WithOperation("has_config"), "existence check failed",
				errors.Wrap(err, errors.CodeReadFailed, "stat failed"),
				"path", path)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

// Invalidate drops the cached resolution and every cached file read for root.
func (r *Resolver) Invalidate(root string) {
	root = cleanRoot(root)
	r.cache.Delete(cache.Project, root)
	r.cache.DeletePrefix(cache.Files, root+"|")
}

func fileKey(root, name string) string {
	return root + "|" + name
}

// cleanRoot makes root absolute against the working directory, so relative
// and absolute spellings of one project share cache entries and the local
// filesystem (rooted at "/") reads the right files.
func cleanRoot(root string) string {
	if !filepath.IsAbs(root) {
		if abs, err := filepath.Abs(root); err == nil {
			return abs
		}
	}
	return filepath.Clean(root)
}
