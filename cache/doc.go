// Package cache provides the namespaced TTL cache every expensive operation
// in nodeenv goes through.
//
// Entries live in one of a fixed set of namespaces and carry their own TTL.
// An entry observed with now - created > ttl is treated as absent and
// deleted on the spot; Cleanup sweeps the rest.
//
// Cached is the read-through entry point:
//
//	managers, err := cache.Cached(ctx, c, cache.Managers, "all:linux", 5*time.Minute,
//	    func(ctx context.Context) ([]manager.Descriptor, error) {
//	        return probeAll(ctx)
//	    })
//
// Concurrent misses on one key run the producer once. Producer errors are
// returned and never stored.
package cache
