package nodeenv

import (
	"context"

	"github.com/jmgilman/nodeenv/manager"
	"github.com/jmgilman/nodeenv/project"
	"github.com/jmgilman/nodeenv/version"
)

// Plan is what a shell integration needs to know to bring a terminal in
// line with a project.
type Plan struct {
	Root      string              `json:"root" yaml:"root"`
	HasConfig bool                `json:"hasConfig" yaml:"hasConfig"`
	Required  string              `json:"required,omitempty" yaml:"required,omitempty"`
	Source    project.Source      `json:"source,omitempty" yaml:"source,omitempty"`
	Manager   *manager.Descriptor `json:"manager,omitempty" yaml:"manager,omitempty"`
	Current   string              `json:"current,omitempty" yaml:"current,omitempty"`
	Match     version.Result      `json:"match" yaml:"match"`
	// NeedsSwitch is true when a requirement exists, the active version does
	// not satisfy it, and a manager is available to switch.
	NeedsSwitch bool   `json:"needsSwitch" yaml:"needsSwitch"`
	Command     string `json:"command,omitempty" yaml:"command,omitempty"`
	// Reason explains why no command was produced.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Plan resolves root's requirement, the active manager and version, and
// whether a switch is needed. It does not run the switch.
func (e *Engine) Plan(ctx context.Context, root string) Plan {
	logger := e.logger.WithOperation("plan")
	p := Plan{Root: root}

	cfg, ok := e.resolver.GetProjectVersionConfig(ctx, root)
	p.HasConfig = ok || e.resolver.HasConfigFiles(ctx, root)
	if !ok {
		p.Reason = "no version requirement found"
		return p
	}
	p.Required = cfg.Version
	p.Source = cfg.Source

	mgr, ok := e.detector.GetPreferredManager(ctx)
	if ok {
		p.Manager = &mgr
	}

	p.Current = e.detector.CurrentVersion(ctx)
	p.Match = e.matcher.Match(ctx, p.Current, p.Required)
	if p.Match.Matches {
		return p
	}

	if p.Manager == nil {
		p.Reason = "no version manager available"
		return p
	}

	cmd, err := manager.SwitchCommand(mgr.Type, p.Required)
	if err != nil {
		logger.Warn(ctx, "cannot build switch command", "root", root, "required", p.Required, "error", err.Error())
		p.Reason = "requirement cannot be passed to " + string(mgr.Type)
		return p
	}
	p.NeedsSwitch = true
	p.Command = cmd
	return p
}
