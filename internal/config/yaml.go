package config

import (
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmgilman/nodeenv/errors"
	"github.com/jmgilman/nodeenv/fs/core"
)

// MarshalYAML renders s as a nested YAML document readable by Load.
func (s Settings) MarshalYAML() (any, error) {
	return nest(s.Map()), nil
}

// nest expands dotted keys into nested maps.
func nest(flat map[string]any) map[string]any {
	out := make(map[string]any)
	for key, value := range flat {
		parts := strings.Split(key, ".")
		m := out
		for _, p := range parts[:len(parts)-1] {
			child, ok := m[p].(map[string]any)
			if !ok {
				child = make(map[string]any)
				m[p] = child
			}
			m = child
		}
		m[parts[len(parts)-1]] = value
	}
	return out
}

// Write stores s as YAML at path, creating parent directories.
func Write(fsys core.WriteFS, path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode settings")
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithContext(err, errors.CodeInternal, "failed to create settings directory",
			map[string]any{"path": path})
	}
	if err := fsys.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithContext(err, errors.CodeInternal, "failed to write settings file",
			map[string]any{"path": path})
	}
	return nil
}
