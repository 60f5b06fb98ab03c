// Package manager detects which Node version manager is usable and which
// Node version is active.
//
// nvm is the primary manager and fnm the secondary. Detection probes them in
// that order and stops at the first available one, so when nvm works fnm is
// never invoked. Every probe result is cached per manager and platform, and
// the aggregate result is cached as one unit. Failed probes are cached as
// unavailable descriptors; a probe never returns an error.
//
// Example:
//
//	d := manager.NewDetector(cache.New())
//	if m, ok := d.GetPreferredManager(ctx); ok {
//	    cmd, _ := manager.SwitchCommand(m.Type, "18")
//	    fmt.Println(cmd) // nvm use 18
//	}
package manager
