package billy

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/nodeenv/fs/core"
)

func TestNewMemory(t *testing.T) {
	fs := NewMemory()
	require.NotNil(t, fs.Unwrap())
	assert.Equal(t, core.FSTypeMemory, fs.Type())
}

func TestNewLocal(t *testing.T) {
	fs := NewLocal()
	require.NotNil(t, fs.Unwrap())
	assert.Equal(t, core.FSTypeLocal, fs.Type())
}

func TestMemoryFS_ReadWrite(t *testing.T) {
	fs := NewMemory()

	require.NoError(t, fs.WriteFile("/project/.nvmrc", []byte("18\n"), 0o644))

	data, err := fs.ReadFile("/project/.nvmrc")
	require.NoError(t, err)
	assert.Equal(t, "18\n", string(data))

	// Overwrite truncates.
	require.NoError(t, fs.WriteFile("/project/.nvmrc", []byte("20"), 0o644))
	data, err = fs.ReadFile("/project/.nvmrc")
	require.NoError(t, err)
	assert.Equal(t, "20", string(data))
}

func TestMemoryFS_ReadMissing(t *testing.T) {
	fs := NewMemory()

	_, err := fs.ReadFile("/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotExist)
}

func TestMemoryFS_Exists(t *testing.T) {
	fs := NewMemory()
	require.NoError(t, fs.MkdirAll("/a/b", 0o755))
	require.NoError(t, fs.WriteFile("/a/b/file", nil, 0o644))

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "file", path: "/a/b/file", want: true},
		{name: "directory", path: "/a/b", want: true},
		{name: "unclean path", path: "/a/./b/../b/file", want: true},
		{name: "missing", path: "/a/c", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.Exists(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemoryFS_Remove(t *testing.T) {
	fs := NewMemory()
	require.NoError(t, fs.WriteFile("/f", []byte("x"), 0o644))
	require.NoError(t, fs.Remove("/f"))

	ok, err := fs.Exists("/f")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryFS_Stat(t *testing.T) {
	fs := NewMemory()
	require.NoError(t, fs.WriteFile("/pkg/package.json", []byte("{}"), 0o644))

	info, err := fs.Stat("/pkg/package.json")
	require.NoError(t, err)
	assert.Equal(t, "package.json", info.Name())
	assert.EqualValues(t, 2, info.Size())
	assert.False(t, info.IsDir())
}

func TestLocalFS_ReadWrite(t *testing.T) {
	fs := NewLocal()
	path := filepath.Join(t.TempDir(), "nested", ".node-version")

	require.NoError(t, fs.WriteFile(path, []byte("v20.1.0"), 0o644))

	ok, err := fs.Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v20.1.0", string(data))
}
