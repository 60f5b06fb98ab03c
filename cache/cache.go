package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jmgilman/nodeenv/errors"
	"github.com/jmgilman/nodeenv/internal/logging"
)

// Cache is an in-memory, namespaced key-value store with per-entry TTLs.
// Expired entries are removed lazily on access or by Cleanup.
//
// A Cache is safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	store map[Namespace]map[string]*Entry
	// gens is bumped per namespace by every delete in it, and epoch by
	// Clear, so an in-flight producer started before a delete does not
	// repopulate the entry. Deletes in one namespace leave fills in the
	// others alone.
	gens  map[Namespace]uint64
	epoch uint64

	clock  Clock
	logger *logging.Logger
	group  singleflight.Group

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
	inflight  atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source.
func WithClock(clock Clock) Option {
	return func(c *Cache) {
		c.clock = clock
	}
}

// WithLogger sets the logger used for hit, miss and cleanup events.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		store:  make(map[Namespace]map[string]*Entry),
		gens:   make(map[Namespace]uint64),
		clock:  SystemClock(),
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the cache's notion of the current time.
func (c *Cache) Now() time.Time {
	return c.clock.Now()
}

// Get returns the value stored under (ns, key). An expired entry is deleted
// and reported as absent.
func (c *Cache) Get(ns Namespace, key string) (any, bool) {
	v, ok := c.lookup(ns, key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

func (c *Cache) lookup(ns Namespace, key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, ok := c.store[ns]
	if !ok {
		return nil, false
	}
	entry, ok := entries[key]
	if !ok {
		return nil, false
	}
	if entry.IsExpired(c.clock.Now()) {
		delete(entries, key)
		c.evictions.Add(1)
		return nil, false
	}
	return entry.Value, true
}

// Set stores value under (ns, key), replacing any existing entry.
func (c *Cache) Set(ns Namespace, key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(ns, key, value, ttl)
}

func (c *Cache) setLocked(ns Namespace, key string, value any, ttl time.Duration) {
	entries, ok := c.store[ns]
	if !ok {
		entries = make(map[string]*Entry)
		c.store[ns] = entries
	}
	entries[key] = &Entry{
		Value:     value,
		CreatedAt: c.clock.Now(),
		TTL:       ttl,
	}
}

// genStamp identifies the delete history of one namespace.
type genStamp struct {
	epoch uint64
	ns    uint64
}

func (c *Cache) generation(ns Namespace) genStamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return genStamp{epoch: c.epoch, ns: c.gens[ns]}
}

// setIfGen stores the value only if nothing in ns was deleted since gen was
// read.
func (c *Cache) setIfGen(gen genStamp, ns Namespace, key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != gen.epoch || c.gens[ns] != gen.ns {
		return
	}
	c.setLocked(ns, key, value, ttl)
}

// Delete removes a single entry.
func (c *Cache) Delete(ns Namespace, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entries, ok := c.store[ns]; ok {
		delete(entries, key)
	}
	c.gens[ns]++
}

// DeleteFunc removes every entry in ns whose key satisfies match and
// returns how many were removed.
func (c *Cache) DeleteFunc(ns Namespace, match func(key string) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.store[ns] {
		if match(key) {
			delete(c.store[ns], key)
			removed++
		}
	}
	c.gens[ns]++
	return removed
}

// DeletePrefix removes every entry in ns whose key starts with prefix.
func (c *Cache) DeletePrefix(ns Namespace, prefix string) int {
	return c.DeleteFunc(ns, func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

// DeleteNamespace removes every entry in ns atomically.
func (c *Cache) DeleteNamespace(ns Namespace) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, ns)
	c.gens[ns]++
}

// Clear removes everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[Namespace]map[string]*Entry)
	c.epoch++
}

// Cleanup sweeps all expired entries and returns how many were removed.
func (c *Cache) Cleanup(ctx context.Context) int {
	start := time.Now()

	c.mu.Lock()
	now := c.clock.Now()
	removed := 0
	for _, entries := range c.store {
		for key, entry := range entries {
			if entry.IsExpired(now) {
				delete(entries, key)
				removed++
			}
		}
	}
	c.mu.Unlock()

	c.evictions.Add(int64(removed))
	logging.LogCleanup(ctx, c.logger, removed, time.Since(start))
	return removed
}

// Stats returns a snapshot of per-namespace counts and global counters.
// Every known namespace is present, even when empty.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	stats := Stats{
		Namespaces: make(map[Namespace]NamespaceStats, len(namespaces)),
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Evictions:  c.evictions.Load(),
		InFlight:   c.inflight.Load(),
	}
	for _, ns := range namespaces {
		stats.Namespaces[ns] = NamespaceStats{}
	}
	for ns, entries := range c.store {
		s := NamespaceStats{Entries: len(entries)}
		for _, entry := range entries {
			if entry.IsExpired(now) {
				s.Expired++
			}
		}
		stats.Namespaces[ns] = s
		stats.TotalEntries += s.Entries
	}
	return stats
}

// Producer computes a value on a cache miss.
type Producer[T any] func(ctx context.Context) (T, error)

// GetAs returns the value under (ns, key) if present and of type T.
func GetAs[T any](c *Cache, ns Namespace, key string) (T, bool) {
	var zero T
	v, ok := c.Get(ns, key)
	if !ok {
		return zero, false
	}
	if v == nil {
		return zero, true
	}
	t, ok := v.(T)
	return t, ok
}

// Cached returns the value under (ns, key), computing and storing it with
// produce on a miss.
//
// Concurrent misses on the same key share a single call to produce. The
// producer runs with the values of the caller that started it but not its
// cancellation: one caller giving up must not fail or poison the result the
// other waiters and later callers see. Producers bound their own work with
// timeouts. A producer error is returned to every waiting caller unchanged
// and is never stored.
func Cached[T any](
	ctx context.Context,
	c *Cache,
	ns Namespace,
	key string,
	ttl time.Duration,
	produce Producer[T],
) (T, error) {
	var zero T

	if v, ok := c.Get(ns, key); ok {
		logging.LogCacheHit(ctx, c.logger, string(ns), key)
		return assertValue[T](ns, key, v)
	}
	logging.LogCacheMiss(ctx, c.logger, string(ns), key, "absent")

	c.inflight.Add(1)
	defer c.inflight.Add(-1)

	flightKey := string(ns) + "\x00" + key
	result, err, _ := c.group.Do(flightKey, func() (any, error) {
		// Another flight may have stored the value between the miss above and
		// acquiring the flight.
		if v, ok := c.lookup(ns, key); ok {
			return v, nil
		}

		gen := c.generation(ns)
		v, err := produce(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.setIfGen(gen, ns, key, v, ttl)
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return assertValue[T](ns, key, result)
}

func assertValue[T any](ns Namespace, key string, v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, errors.WithContextMap(
			errors.Newf(errors.CodeInternal, "cached value has unexpected type %T", v),
			map[string]any{"namespace": string(ns), "key": key},
		)
	}
	return t, nil
}
