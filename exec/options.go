package exec

import "time"

// config holds the settings for command execution. Global settings are set
// at creation time; local settings apply to a single run and win over them.
type config struct {
	globalEnv           map[string]string
	globalDir           string
	globalInheritEnv    bool
	globalDisableColors bool
	globalTimeout       time.Duration

	localEnv           map[string]string
	localDir           string
	localInheritEnv    *bool
	localDisableColors *bool
	localTimeout       *time.Duration
}

func newConfig() *config {
	return &config{
		globalEnv: make(map[string]string),
		localEnv:  make(map[string]string),
	}
}

// clone creates a deep copy of the configuration.
func (c *config) clone() *config {
	out := &config{
		globalEnv:           make(map[string]string, len(c.globalEnv)),
		globalDir:           c.globalDir,
		globalInheritEnv:    c.globalInheritEnv,
		globalDisableColors: c.globalDisableColors,
		globalTimeout:       c.globalTimeout,
		localEnv:            make(map[string]string, len(c.localEnv)),
		localDir:            c.localDir,
		localInheritEnv:     clonePtr(c.localInheritEnv),
		localDisableColors:  clonePtr(c.localDisableColors),
		localTimeout:        clonePtr(c.localTimeout),
	}
	for k, v := range c.globalEnv {
		out.globalEnv[k] = v
	}
	for k, v := range c.localEnv {
		out.localEnv[k] = v
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// effectiveEnv merges global and local variables, local winning.
func (c *config) effectiveEnv() map[string]string {
	env := make(map[string]string, len(c.globalEnv)+len(c.localEnv))
	for k, v := range c.globalEnv {
		env[k] = v
	}
	for k, v := range c.localEnv {
		env[k] = v
	}

	if c.effectiveDisableColors() {
		env["NO_COLOR"] = "1"
		env["TERM"] = "dumb"
		env["CLICOLOR"] = "0"
		env["FORCE_COLOR"] = "0"
	}

	return env
}

func (c *config) effectiveDir() string {
	if c.localDir != "" {
		return c.localDir
	}
	return c.globalDir
}

func (c *config) effectiveInheritEnv() bool {
	if c.localInheritEnv != nil {
		return *c.localInheritEnv
	}
	return c.globalInheritEnv
}

func (c *config) effectiveDisableColors() bool {
	if c.localDisableColors != nil {
		return *c.localDisableColors
	}
	return c.globalDisableColors
}

func (c *config) effectiveTimeout() time.Duration {
	if c.localTimeout != nil {
		return *c.localTimeout
	}
	return c.globalTimeout
}

// resetLocal clears per-run settings. Called after every run.
func (c *config) resetLocal() {
	c.localEnv = make(map[string]string)
	c.localDir = ""
	c.localInheritEnv = nil
	c.localDisableColors = nil
	c.localTimeout = nil
}
