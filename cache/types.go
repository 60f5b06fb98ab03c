package cache

import "time"

// Entry is a single cached value.
type Entry struct {
	Value     any
	CreatedAt time.Time
	TTL       time.Duration
}

// IsExpired reports whether the entry is stale at now.
// An entry is still valid at exactly CreatedAt+TTL.
func (e *Entry) IsExpired(now time.Time) bool {
	return now.Sub(e.CreatedAt) > e.TTL
}

// NamespaceStats describes one namespace.
type NamespaceStats struct {
	Entries int `json:"entries" yaml:"entries"`
	Expired int `json:"expired" yaml:"expired"`
}

// Stats is a point-in-time snapshot of the cache.
type Stats struct {
	Namespaces   map[Namespace]NamespaceStats `json:"namespaces" yaml:"namespaces"`
	TotalEntries int                          `json:"total_entries" yaml:"total_entries"`
	Hits         int64                        `json:"hits" yaml:"hits"`
	Misses       int64                        `json:"misses" yaml:"misses"`
	Evictions    int64                        `json:"evictions" yaml:"evictions"`
	InFlight     int64                        `json:"in_flight" yaml:"in_flight"`
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
