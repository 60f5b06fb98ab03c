// Package core defines the filesystem capability interfaces the rest of the
// module reads project configuration through.
//
// The interfaces are deliberately small:
//
//   - ReadFS: Stat, ReadFile, Exists
//   - WriteFS: WriteFile, MkdirAll, Remove
//   - FS: both, plus Type
//
// Components accept the narrowest interface they need, so tests can hand
// them an in-memory filesystem and production code a disk-backed one.
//
// # Usage Example
//
//	func readPin(filesystem core.ReadFS, root string) (string, error) {
//	    data, err := filesystem.ReadFile(path.Join(root, ".nvmrc"))
//	    if err != nil {
//	        return "", err
//	    }
//	    return strings.TrimSpace(string(data)), nil
//	}
//
// # Provider Implementations
//
// This package contains only interface definitions. The go-billy backed
// providers live in github.com/jmgilman/nodeenv/fs/billy.
package core
