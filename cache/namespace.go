package cache

import (
	"github.com/jmgilman/nodeenv/errors"
)

// Namespace partitions the cache. The set of namespaces is fixed.
type Namespace string

const (
	// Managers holds the aggregate manager detection result.
	Managers Namespace = "managers"
	// Probes holds individual per-manager probe results.
	Probes Namespace = "probes"
	// Current holds the active runtime version.
	Current Namespace = "current"
	// Files holds per-file configuration reads.
	Files Namespace = "files"
	// Project holds aggregate project version resolutions.
	Project Namespace = "project"
	// Matches holds version match results.
	Matches Namespace = "matches"
)

var namespaces = []Namespace{Managers, Probes, Current, Files, Project, Matches}

// Namespaces returns every known namespace in a stable order.
func Namespaces() []Namespace {
	out := make([]Namespace, len(namespaces))
	copy(out, namespaces)
	return out
}

// Valid reports whether n is one of the known namespaces.
func (n Namespace) Valid() bool {
	for _, known := range namespaces {
		if n == known {
			return true
		}
	}
	return false
}

// ParseNamespace converts a name into a Namespace.
func ParseNamespace(name string) (Namespace, error) {
	ns := Namespace(name)
	if !ns.Valid() {
		return "", errors.WithContext(
			errors.Newf(errors.CodeInvalidInput, "unknown cache namespace %q", name),
			"namespace", name,
		)
	}
	return ns, nil
}
