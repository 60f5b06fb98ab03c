package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/nodeenv"
	"github.com/jmgilman/nodeenv/errors"
	"github.com/jmgilman/nodeenv/internal/config"
)

// Set at build time with -ldflags "-X main.buildVersion=...".
var (
	buildVersion = "dev"
	gitCommit    = "unknown"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// app carries state shared by all commands.
type app struct {
	configFile string
	output     string

	settings config.Settings
	// engineOpts are appended to the options New receives; tests inject
	// fakes through them.
	engineOpts []nodeenv.Option
	engine     *nodeenv.Engine
}

func newApp(opts ...nodeenv.Option) *app {
	return &app{engineOpts: opts}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodeenv",
		Short: "Resolve and match project Node versions",
		Long: `nodeenv reads a project's Node version requirement from .nvmrc,
.node-version, .tool-versions or package.json, detects nvm and fnm, and
reports whether the active Node satisfies the requirement.`,
		Version:       fmt.Sprintf("%s (%s)", buildVersion, gitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "settings file (default: nodeenv.yaml in the user config dir or working dir)")
	flags.StringVarP(&a.output, "output", "o", outputText, "output format: text, json or yaml")

	defaults := config.Default().Map()
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		flags.String(config.FlagName(key), fmt.Sprint(defaults[key]), "override setting "+key)
	}

	cmd.AddCommand(
		newDetectCmd(a),
		newCurrentCmd(a),
		newResolveCmd(a),
		newMatchCmd(a),
		newPlanCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	switch a.output {
	case outputText, outputJSON, outputYAML:
	default:
		return errors.WithContext(
			errors.Newf(errors.CodeInvalidInput, "unknown output format %q", a.output),
			"output", a.output,
		)
	}

	s, err := config.Load(config.LoadOptions{
		ConfigFile: a.configFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return err
	}
	a.settings = s

	opts := append([]nodeenv.Option{nodeenv.WithSettings(s)}, a.engineOpts...)
	a.engine = nodeenv.New(opts...)
	return nil
}

// render writes v in the selected format. text is called for the text
// format.
func (a *app) render(w io.Writer, v any, text func(io.Writer) error) error {
	switch a.output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}
