package manager

import (
	"regexp"

	"github.com/jmgilman/nodeenv/errors"
)

// Type identifies a version manager.
type Type string

const (
	// TypeNVM is the primary manager.
	TypeNVM Type = "nvm"
	// TypeFNM is the secondary manager.
	TypeFNM Type = "fnm"
	// TypeUnknown is reported when nothing usable was found.
	TypeUnknown Type = "unknown"
)

// probeOrder is the fixed detection priority.
var probeOrder = []Type{TypeNVM, TypeFNM}

// Primary returns the manager probed first.
func Primary() Type { return probeOrder[0] }

// ParseType converts a name into a Type.
func ParseType(name string) (Type, error) {
	switch Type(name) {
	case TypeNVM, TypeFNM:
		return Type(name), nil
	default:
		return TypeUnknown, errors.WithContext(
			errors.Newf(errors.CodeInvalidInput, "unknown version manager %q", name),
			"manager", name,
		)
	}
}

// Descriptor is the result of probing one manager. Descriptors are values;
// a new probe produces a new Descriptor rather than updating one.
type Descriptor struct {
	Type      Type   `json:"type" yaml:"type"`
	Available bool   `json:"available" yaml:"available"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

var switchableVersion = regexp.MustCompile(`^[A-Za-z0-9._/*-]+$`)

// SwitchCommand returns the shell command that activates version with the
// given manager. It does not run anything.
func SwitchCommand(t Type, version string) (string, error) {
	if !switchableVersion.MatchString(version) {
		return "", errors.WithContextMap(
			errors.Newf(errors.CodeInvalidInput, "version %q cannot be passed to a version manager", version),
			map[string]any{"manager": string(t), "version": version},
		)
	}

	switch t {
	case TypeNVM:
		return "nvm use " + version, nil
	case TypeFNM:
		return "fnm use " + version, nil
	default:
		return "", errors.WithContext(
			errors.Newf(errors.CodeInvalidInput, "no switch command for manager %q", t),
			"manager", string(t),
		)
	}
}
