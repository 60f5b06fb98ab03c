package version

import (
	"context"
	"strings"
	"time"

	"github.com/jmgilman/nodeenv/cache"
	"github.com/jmgilman/nodeenv/internal/logging"
)

// DefaultMatchTTL is how long match results are cached.
const DefaultMatchTTL = 10 * time.Minute

// Result is the outcome of matching a current version against a spec.
type Result struct {
	Matches bool `json:"matches" yaml:"matches"`
	// Target is the version to act on. It is the current version for every
	// kind except KindPartial, where it is the spec itself so the version
	// manager can pick its own latest matching install.
	Target string `json:"targetVersion,omitempty" yaml:"targetVersion,omitempty"`
}

// Match compares current against required without caching.
func Match(current, required string) Result {
	current = Normalize(current)
	required = Normalize(required)
	if required == "" || current == "" {
		return Result{}
	}

	if current == required {
		return Result{Matches: true, Target: current}
	}

	spec := ParseSpec(required)
	cur := Parse(current)

	var ok bool
	switch spec.Kind {
	case KindComparison:
		ok = spec.Operator.Apply(Compare(cur, Parse(spec.Version)))
	case KindCaret:
		want := Parse(spec.Version)
		ok = cur.Major == want.Major && Compare(cur, want) >= 0
	case KindTilde:
		want := Parse(spec.Version)
		ok = cur.Major == want.Major && cur.Minor == want.Minor && cur.Patch >= want.Patch
	case KindPartial:
		if matchPartial(cur, spec.Parts) {
			return Result{Matches: true, Target: spec.Raw}
		}
		return Result{}
	case KindAlias, KindExact:
		// Aliases need registry data to resolve; an exact spec already failed
		// the equality check.
		return Result{}
	}

	if !ok {
		return Result{}
	}
	return Result{Matches: true, Target: current}
}

func isWildcard(part string) bool {
	switch strings.TrimSpace(part) {
	case "x", "X", "*":
		return true
	}
	return false
}

func matchPartial(cur Parsed, parts []string) bool {
	have := [3]int{cur.Major, cur.Minor, cur.Patch}
	for i, part := range parts {
		if i >= len(have) {
			break
		}
		if isWildcard(part) {
			continue
		}
		if parseComponent(part) != have[i] {
			return false
		}
	}
	return true
}

// Matcher caches Match results per (current, required) pair.
type Matcher struct {
	cache  *cache.Cache
	ttl    time.Duration
	logger *logging.Logger
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithTTL overrides DefaultMatchTTL.
func WithTTL(ttl time.Duration) MatcherOption {
	return func(m *Matcher) {
		m.ttl = ttl
	}
}

// WithLogger sets the matcher's logger.
func WithLogger(logger *logging.Logger) MatcherOption {
	return func(m *Matcher) {
		m.logger = logger
	}
}

// NewMatcher creates a Matcher backed by c.
func NewMatcher(c *cache.Cache, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		cache:  c,
		ttl:    DefaultMatchTTL,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match compares current against required, consulting the cache first.
func (m *Matcher) Match(ctx context.Context, current, required string) Result {
	key := Normalize(current) + "|" + Normalize(required)
	result, err := cache.Cached(ctx, m.cache, cache.Matches, key, m.ttl,
		func(context.Context) (Result, error) {
			return Match(current, required), nil
		})
	if err != nil {
		// Only a foreign value under our key can get here; fall back to a
		// fresh computation.
		m.logger.Error(ctx, "match cache lookup failed", "key", key, "error", err.Error())
		return Match(current, required)
	}
	return result
}
