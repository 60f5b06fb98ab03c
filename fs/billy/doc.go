// Package billy provides go-billy backed implementations of the core
// filesystem capability interfaces.
//
// Usage:
//
//	// Local disk, rooted at "/"
//	fs := billy.NewLocal()
//	data, err := fs.ReadFile("/work/app/.nvmrc")
//
//	// In memory, for tests
//	mem := billy.NewMemory()
//	err := mem.WriteFile("/app/.nvmrc", []byte("18\n"), 0o644)
//
// Unwrap returns the underlying billy.Filesystem when a go-git API needs it.
//
// # Thread Safety
//
// FS values are safe for concurrent use by multiple goroutines.
package billy
