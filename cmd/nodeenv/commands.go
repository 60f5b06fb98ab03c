package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/nodeenv/errors"
	"github.com/jmgilman/nodeenv/fs/billy"
	"github.com/jmgilman/nodeenv/internal/api"
	"github.com/jmgilman/nodeenv/internal/config"
	"github.com/jmgilman/nodeenv/manager"
	"github.com/jmgilman/nodeenv/project"
)

func newDetectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [manager]",
		Short: "Detect installed version managers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				t, err := manager.ParseType(args[0])
				if err != nil {
					return err
				}
				available := a.engine.IsManagerAvailable(ctx, t)
				return a.render(cmd.OutOrStdout(), map[string]any{"type": t, "available": available},
					func(w io.Writer) error {
						_, err := fmt.Fprintf(w, "%s: %s\n", t, availability(available))
						return err
					})
			}

			managers := a.engine.DetectAllManagers(ctx)
			return a.render(cmd.OutOrStdout(), managers, func(w io.Writer) error {
				for _, m := range managers {
					line := fmt.Sprintf("%s: %s", m.Type, availability(m.Available))
					if m.Version != "" {
						line += " " + m.Version
					}
					if m.Error != "" {
						line += " (" + m.Error + ")"
					}
					if _, err := fmt.Fprintln(w, line); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func availability(ok bool) string {
	if ok {
		return "available"
	}
	return "not available"
}

func newCurrentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the active Node version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := a.engine.CurrentVersion(cmd.Context())
			if v == "" {
				return errors.New(errors.CodeNotFound, "no active node version")
			}
			return a.render(cmd.OutOrStdout(), map[string]string{"version": v}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, v)
				return err
			})
		},
	}
}

// rootArg returns the project root for an optional path argument.
func rootArg(args []string) (string, error) {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err != nil {
		return "", errors.WithContext(
			errors.Wrap(err, errors.CodeNotFound, "path does not exist"), "path", path)
	}
	return project.FindRoot(path), nil
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [path]",
		Short: "Resolve the Node version a project requires",
		Long: `Resolve walks up from path to the enclosing git worktree and reads the
first version source found, in order: .nvmrc, .node-version, .tool-versions,
package.json volta.node, package.json engines.node.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := rootArg(args)
			if err != nil {
				return err
			}
			cfg, ok := a.engine.GetProjectVersionConfig(cmd.Context(), root)
			if !ok {
				return errors.WithContext(
					errors.New(errors.CodeNotFound, "no version requirement found"), "root", root)
			}
			return a.render(cmd.OutOrStdout(), cfg, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s (from %s)\n", cfg.Version, cfg.Source)
				return err
			})
		},
	}
}

func newMatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "match <current> <required>",
		Short: "Check whether a version satisfies a requirement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.engine.MatchVersion(cmd.Context(), args[0], args[1])
			return a.render(cmd.OutOrStdout(), res, func(w io.Writer) error {
				if res.Matches {
					_, err := fmt.Fprintf(w, "%s satisfies %s\n", args[0], args[1])
					return err
				}
				_, err := fmt.Fprintf(w, "%s does not satisfy %s\n", args[0], args[1])
				return err
			})
		},
	}
}

func newPlanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [path]",
		Short: "Show whether the project needs a Node switch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := rootArg(args)
			if err != nil {
				return err
			}
			p := a.engine.Plan(cmd.Context(), root)
			return a.render(cmd.OutOrStdout(), p, func(w io.Writer) error {
				switch {
				case p.NeedsSwitch:
					_, err = fmt.Fprintln(w, p.Command)
				case p.Required != "" && p.Match.Matches:
					_, err = fmt.Fprintf(w, "node %s satisfies %s\n", p.Current, p.Required)
				default:
					_, err = fmt.Fprintln(w, p.Reason)
				}
				return err
			})
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := a.engine.Logger().With("component", "api")
			srv := api.NewServer(a.settings.Server.Addr, a.engine, logger)
			return srv.ListenAndServe(cmd.Context())
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create settings files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Durations render as strings in every format.
			nested, err := a.settings.MarshalYAML()
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), nested, func(w io.Writer) error {
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(a.settings); err != nil {
					return err
				}
				return enc.Close()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the effective settings to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName + ".yaml"
			if len(args) == 1 {
				path = args[0]
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return errors.Wrap(err, errors.CodeInvalidInput, "invalid path")
			}
			fsys := billy.NewLocal()
			exists, err := fsys.Exists(abs)
			if err != nil {
				return errors.WrapWithContext(err, errors.CodeReadFailed, "failed to check settings file",
					map[string]any{"path": abs})
			}
			if exists {
				return errors.WithContext(
					errors.New(errors.CodeInvalidInput, "settings file already exists"), "path", abs)
			}
			if err := config.Write(fsys, abs, a.settings); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "wrote", abs)
			return err
		},
	})
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Skip settings loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nodeenv %s (commit %s)\n", buildVersion, gitCommit)
		},
	}
}
