package core_test

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/jmgilman/nodeenv/fs/core"
)

// TestFSType_String verifies FSType.String() returns correct string representations.
func TestFSType_String(t *testing.T) {
	tests := []struct {
		name     string
		fsType   core.FSType
		expected string
	}{
		{name: "Unknown", fsType: core.FSTypeUnknown, expected: "unknown"},
		{name: "Local", fsType: core.FSTypeLocal, expected: "local"},
		{name: "Memory", fsType: core.FSTypeMemory, expected: "memory"},
		{name: "Invalid", fsType: core.FSType(999), expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fsType.String(); got != tt.expected {
				t.Errorf("FSType.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsNotExist(t *testing.T) {
	if !core.IsNotExist(fs.ErrNotExist) {
		t.Error("fs.ErrNotExist should be absence")
	}
	if !core.IsNotExist(fmt.Errorf("open .nvmrc: %w", fs.ErrNotExist)) {
		t.Error("wrapped fs.ErrNotExist should be absence")
	}
	if core.IsNotExist(fs.ErrPermission) {
		t.Error("fs.ErrPermission is not absence")
	}
	if core.IsNotExist(nil) {
		t.Error("nil is not absence")
	}
}
