package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/klauern/ringport/internal/adapter"
	"github.com/klauern/ringport/internal/adapter/registry"
	"github.com/klauern/ringport/internal/config"
	"github.com/klauern/ringport/internal/logging"
	"github.com/klauern/ringport/internal/model"
	"github.com/klauern/ringport/internal/ui"
)

// adapterFor resolves the platform and type flags shared by most commands.
func adapterFor(cmd *cli.Command) (adapter.Adapter, error) {
	platform := model.Platform(cmd.String("platform"))
	if !platform.IsValid() {
		return nil, fmt.Errorf("unknown platform %q (supported: %s)",
			cmd.String("platform"), platformList())
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return registry.ForWithInstallPath(platform, cfg.InstallPathFor(platform))
}

func componentFor(cmd *cli.Command) (model.Component, error) {
	comp, ok := model.ParseComponent(cmd.String("type"))
	if !ok {
		return "", fmt.Errorf("unknown component type %q (supported: skill, agent, command, hook)",
			cmd.String("type"))
	}
	return comp, nil
}

func platformList() string {
	names := make([]string, 0, len(model.AllPlatforms()))
	for _, p := range model.AllPlatforms() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

func platformFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "platform",
		Aliases:  []string{"p"},
		Usage:    "Target platform (" + platformList() + ")",
		Required: true,
	}
}

func typeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "type",
		Aliases:  []string{"t"},
		Usage:    "Artifact type (skill, agent, command, hook)",
		Required: true,
	}
}

func transformCommand() *cli.Command {
	return &cli.Command{
		Name:      "transform",
		Usage:     "Transform a Ring artifact for a target platform",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			platformFlag(),
			typeFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the result to a file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one input file")
			}

			a, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			comp, err := componentFor(cmd)
			if err != nil {
				return err
			}

			path := cmd.Args().First()
			content, err := os.ReadFile(path) // #nosec G304 - user-supplied input file
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", path, err)
			}

			result, err := adapter.Transform(a, comp, string(content), nil)
			if err != nil {
				return fmt.Errorf("failed to transform %q: %w", path, err)
			}
			logging.Debug("transformed artifact",
				logging.Operation("transform"),
				logging.Platform(string(a.Platform())),
				logging.Component(string(comp)),
				logging.Path(path),
			)

			if out := cmd.String("output"); out != "" {
				if err := os.WriteFile(out, []byte(result), 0o644); err != nil {
					return fmt.Errorf("failed to write %q: %w", out, err)
				}
				fmt.Println(ui.StatusSuccess("wrote " + out))
				return nil
			}
			fmt.Print(result)
			return nil
		},
	}
}

func installCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Transform artifacts and install them into the platform's layout",
		ArgsUsage: "<file>...",
		Flags: []cli.Flag{
			platformFlag(),
			typeFlag(),
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report what would be installed without writing anything",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("expected at least one input file")
			}

			a, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			comp, err := componentFor(cmd)
			if err != nil {
				return err
			}
			dryRun := cmd.Bool("dry-run")
			log := logging.With(
				logging.Operation("install"),
				logging.Platform(string(a.Platform())),
				logging.Component(string(comp)),
			)

			for _, path := range cmd.Args().Slice() {
				if err := installFile(a, comp, path, dryRun); err != nil {
					fmt.Println(ui.StatusError(err.Error()))
					return err
				}
			}
			log.Debug("install complete", logging.Count(cmd.Args().Len()))
			return nil
		},
	}
}

// installFile transforms one artifact and writes it into the platform's
// component directory. Structured hook declarations on platforms that keep
// hooks in settings are merged into the platform config instead.
func installFile(a adapter.Adapter, comp model.Component, path string, dryRun bool) error {
	content, err := os.ReadFile(path) // #nosec G304 - user-supplied input file
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", path, err)
	}

	if comp == model.Hooks && a.RequiresHooksInSettings() {
		var hooks map[string]any
		if err := json.Unmarshal(content, &hooks); err == nil {
			if !a.MergeHooks(hooks, dryRun, "") {
				return fmt.Errorf("failed to merge hooks from %q", path)
			}
			if dryRun {
				fmt.Println(ui.StatusDryRun("would merge hooks from " + path))
			} else {
				fmt.Println(ui.StatusSuccess("merged hooks from " + path))
			}
			return nil
		}
		// Not structured hook config; fall through and install as a file.
		fmt.Println(ui.StatusWarning("treating " + path + " as a hook script"))
	}

	result, err := adapter.Transform(a, comp, string(content), nil)
	if err != nil {
		return fmt.Errorf("failed to transform %q: %w", path, err)
	}

	target := a.ComponentMapping()[comp]
	name := a.TargetFilename(filepath.Base(path), comp)
	if target.Extension != "" {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + target.Extension
	}
	dest := filepath.Join(a.InstallPath(), target.Dir, name)

	if dryRun {
		fmt.Println(ui.StatusDryRun("would install " + dest))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", filepath.Dir(dest), err)
	}
	if err := os.WriteFile(dest, []byte(result), 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", dest, err)
	}
	fmt.Println(ui.StatusSuccess("installed " + dest))
	return nil
}

func mergeHooksCommand() *cli.Command {
	return &cli.Command{
		Name:      "merge-hooks",
		Usage:     "Merge hook declarations into a platform's configuration file",
		ArgsUsage: "<hooks.json>",
		Flags: []cli.Flag{
			platformFlag(),
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report what would be merged without writing anything",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one hooks file")
			}

			a, err := adapterFor(cmd)
			if err != nil {
				return err
			}

			path := cmd.Args().First()
			content, err := os.ReadFile(path) // #nosec G304 - user-supplied input file
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", path, err)
			}

			var hooks map[string]any
			if err := json.Unmarshal(content, &hooks); err != nil {
				return fmt.Errorf("failed to parse %q: %w", path, err)
			}

			dryRun := cmd.Bool("dry-run")
			if !a.MergeHooks(hooks, dryRun, "") {
				return fmt.Errorf("failed to merge hooks into %s configuration", a.Name())
			}
			if dryRun {
				fmt.Println(ui.StatusDryRun("would merge hooks from " + path))
			} else {
				fmt.Println(ui.StatusSuccess("merged hooks from " + path))
			}
			return nil
		},
	}
}

func platformsCommand() *cli.Command {
	return &cli.Command{
		Name:  "platforms",
		Usage: "List supported target platforms",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, ui.Header("ID\tNAME\tINSTALL PATH\tNATIVE\tHOOKS IN SETTINGS"))
			for _, a := range registry.All() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\n",
					a.Platform(), a.Name(), a.InstallPath(),
					a.IsNativeFormat(), a.RequiresHooksInSettings())
			}
			return w.Flush()
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Printf("ringport %s (commit %s, built %s)\n", Version, Commit, BuildDate)
			return nil
		},
	}
}
