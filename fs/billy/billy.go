package billy

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jmgilman/nodeenv/fs/core"
)

// FS adapts a billy.Filesystem to core.FS.
// The underlying filesystem stays reachable through Unwrap for go-git.
type FS struct {
	bfs billy.Filesystem
	typ core.FSType
}

var _ core.FS = (*FS)(nil)

// NewLocal creates a go-billy-backed local filesystem rooted at "/".
func NewLocal() *FS {
	return &FS{bfs: osfs.New("/"), typ: core.FSTypeLocal}
}

// NewMemory creates an empty go-billy-backed in-memory filesystem.
func NewMemory() *FS {
	return &FS{bfs: memfs.New(), typ: core.FSTypeMemory}
}

// Wrap adapts an existing billy.Filesystem.
func Wrap(bfs billy.Filesystem, typ core.FSType) *FS {
	return &FS{bfs: bfs, typ: typ}
}

// Unwrap returns the underlying billy.Filesystem.
func (f *FS) Unwrap() billy.Filesystem {
	return f.bfs
}

// Type returns the filesystem type.
func (f *FS) Type() core.FSType {
	return f.typ
}

// normalize converts paths to use forward slashes consistently.
// billy handles the remaining path security.
func normalize(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// Stat returns file metadata for the named file.
func (f *FS) Stat(name string) (fs.FileInfo, error) {
	return f.bfs.Stat(normalize(name))
}

// ReadFile reads the named file and returns its contents.
func (f *FS) ReadFile(name string) ([]byte, error) {
	file, err := f.bfs.Open(normalize(name))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return io.ReadAll(file)
}

// Exists reports whether the named file or directory exists.
func (f *FS) Exists(name string) (bool, error) {
	_, err := f.bfs.Stat(normalize(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// WriteFile writes data to the named file, creating parents as needed.
func (f *FS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	name = normalize(name)
	if dir := filepath.Dir(name); dir != "." && dir != "/" {
		if err := f.bfs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	file, err := f.bfs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (f *FS) MkdirAll(path string, perm fs.FileMode) error {
	return f.bfs.MkdirAll(normalize(path), perm)
}

// Remove removes the named file or empty directory.
func (f *FS) Remove(name string) error {
	return f.bfs.Remove(normalize(name))
}
