package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spachava753/packtool/internal/executor"
	"github.com/spachava753/packtool/internal/models"
	"github.com/spachava753/packtool/internal/project"
)

func (o *options) loadProject(cmd *cobra.Command) (*project.Project, error) {
	p, err := project.Load(cmd.Context(), o.settings.ProjectPath, o.settings.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", o.settings.ProjectPath, err)
	}
	return p, nil
}

func newRunCmd(opts *options) *cobra.Command {
	var reportPath string
	var publishOutputs bool

	cmd := &cobra.Command{
		Use:   "run [action]",
		Short: "Run an action and everything it depends on (default: all)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := models.AllAction
			if len(args) == 1 {
				name = args[0]
			}

			p, err := opts.loadProject(cmd)
			if err != nil {
				return err
			}

			var runnerOpts []executor.Option
			if publishOutputs {
				if !opts.settings.Publish.Enabled() {
					return fmt.Errorf("--publish requires PACKTOOL_S3_ENDPOINT and PACKTOOL_S3_BUCKET")
				}
				pub, err := opts.newPublisher(opts.settings.Publish)
				if err != nil {
					return fmt.Errorf("creating publisher: %w", err)
				}
				runnerOpts = append(runnerOpts, executor.WithPublisher(pub))
			}

			result, runErr := executor.NewRunner(p, runnerOpts...).Run(cmd.Context(), name)
			if result != nil {
				printResult(cmd, result)
				if reportPath != "" {
					if err := executor.WriteReport(reportPath, result); err != nil {
						return err
					}
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "write the run result as JSON to this file")
	cmd.Flags().BoolVar(&publishOutputs, "publish", false, "upload produced files to S3-compatible storage")
	return cmd
}

func printResult(cmd *cobra.Command, result *models.RunResult) {
	printf(cmd, "Package: %s %s\n", result.Package, result.Version)
	printf(cmd, "Plan: %s\n", strings.Join(result.Plan, " -> "))
	for _, step := range result.Steps {
		status := "ok"
		if step.Error != nil {
			status = "FAILED: " + step.Error.Message
		}
		printf(cmd, "  %-16s %-6s %.2fs %s\n", step.Action, step.Kind, step.DurationSec, status)
		for _, out := range step.Outputs {
			printf(cmd, "    -> %s\n", out)
		}
		for _, uri := range step.Published {
			printf(cmd, "    => %s\n", uri)
		}
	}
	printf(cmd, "Completed: %d/%d\n", result.Completed, len(result.Plan))
	printf(cmd, "Duration: %.2fs\n", result.TotalDurationSec)
}

func newPlanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [action]",
		Short: "Print the order in which an action and its dependencies would run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := models.AllAction
			if len(args) == 1 {
				name = args[0]
			}
			p, err := opts.loadProject(cmd)
			if err != nil {
				return err
			}
			plan, err := p.Resolve(name)
			if err != nil {
				return err
			}
			for i, step := range plan {
				target, err := p.Target(step)
				if err != nil {
					return err
				}
				if target == "" {
					printf(cmd, "%d. %s\n", i+1, step)
				} else {
					printf(cmd, "%d. %s -> %s\n", i+1, step, target)
				}
			}
			return nil
		},
	}
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the project document without running anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := opts.loadProject(cmd)
			if err != nil {
				return err
			}
			if err := p.Check(); err != nil {
				return err
			}
			printf(cmd, "%s %s: %d actions, %d file groups, ok\n",
				p.Package.Name, p.Package.Version, len(p.DeclaredActions()), len(p.Package.FileGroups()))
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the package and its declared actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := opts.loadProject(cmd)
			if err != nil {
				return err
			}
			printf(cmd, "%s %s\n", p.Package.Name, p.Package.Version)
			for _, name := range p.DeclaredActions() {
				entry, _ := p.Action(name)
				line := fmt.Sprintf("  %-16s %s", name, entry.Config.Kind())
				if len(entry.Dependencies) > 0 {
					line += " (depends on " + strings.Join(entry.Dependencies, ", ") + ")"
				}
				printf(cmd, "%s\n", line)
			}
			return nil
		},
	}
}
