package exec

import (
	"os"
	"runtime"
	"strings"
)

// Shell describes the interpreter used for RunShell: the program and the
// flags placed before the script argument.
type Shell struct {
	Path  string
	Flags []string
}

// Args returns the argv for running script through the shell.
func (s Shell) Args(script string) []string {
	args := make([]string, 0, len(s.Flags)+2)
	args = append(args, s.Path)
	args = append(args, s.Flags...)
	return append(args, script)
}

// String returns the shell as it would be typed on a command line.
func (s Shell) String() string {
	return strings.TrimSpace(s.Path + " " + strings.Join(s.Flags, " "))
}

// IsZero reports whether no shell has been configured.
func (s Shell) IsZero() bool {
	return s.Path == ""
}

// ParseShell splits a descriptor such as "bash -c" or "cmd.exe /d /c" into a
// Shell. An empty descriptor yields DefaultShell.
func ParseShell(descriptor string) Shell {
	fields := strings.Fields(descriptor)
	if len(fields) == 0 {
		return DefaultShell()
	}
	return Shell{Path: fields[0], Flags: fields[1:]}
}

// DefaultShell returns the platform shell used to initialise a version
// manager in a sub-shell: cmd.exe on Windows, otherwise bash (or $SHELL when
// bash is not the login shell and no bash is installed).
func DefaultShell() Shell {
	if runtime.GOOS == "windows" {
		return Shell{Path: "cmd.exe", Flags: []string{"/d", "/s", "/c"}}
	}
	if _, err := os.Stat("/bin/bash"); err == nil {
		return Shell{Path: "/bin/bash", Flags: []string{"-c"}}
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return Shell{Path: sh, Flags: []string{"-c"}}
	}
	return Shell{Path: "/bin/sh", Flags: []string{"-c"}}
}
