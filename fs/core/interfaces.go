package core

import (
	"io/fs"
)

// FSType represents the underlying type of filesystem implementation.
type FSType int

const (
	// FSTypeUnknown indicates the filesystem type is unknown or unspecified.
	FSTypeUnknown FSType = iota
	// FSTypeLocal indicates a disk-backed filesystem.
	FSTypeLocal
	// FSTypeMemory indicates an in-memory filesystem.
	FSTypeMemory
)

// String returns a string representation of the FSType.
func (t FSType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// FS combines the read and write capabilities.
type FS interface {
	ReadFS
	WriteFS

	// Type returns the underlying filesystem type.
	Type() FSType
}

// ReadFS is the read capability consumed by the config resolver.
type ReadFS interface {
	// Stat returns file metadata.
	// If there is an error, it will be of type *fs.PathError.
	Stat(name string) (fs.FileInfo, error)

	// ReadFile reads the named file and returns its contents.
	// A missing file yields an error satisfying errors.Is(err, ErrNotExist).
	ReadFile(name string) ([]byte, error)

	// Exists reports whether the named file or directory exists.
	//
	// A false result with a non-nil error indicates the existence
	// could not be determined, not that the file doesn't exist.
	Exists(name string) (bool, error)
}

// WriteFS defines the write operations used by tests and the settings writer.
type WriteFS interface {
	// WriteFile writes data to the named file, creating it if necessary.
	// If the file already exists, WriteFile truncates it before writing.
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// MkdirAll creates a directory named path, along with any necessary parents.
	// If path is already a directory, MkdirAll does nothing and returns nil.
	MkdirAll(path string, perm fs.FileMode) error

	// Remove removes the named file or empty directory.
	Remove(name string) error
}
