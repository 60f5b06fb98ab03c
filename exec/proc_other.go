//go:build !unix

package exec

import osexec "os/exec"

// configureProcessGroup keeps the default CommandContext behaviour (kill the
// direct child) on platforms without process groups.
func configureProcessGroup(_ *osexec.Cmd) {}
