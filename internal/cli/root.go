// Package cli implements the packtool commands.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/spachava753/packtool/internal/config"
	"github.com/spachava753/packtool/internal/executor"
	"github.com/spachava753/packtool/internal/publish"
)

// PublisherFactory builds the publisher used by run --publish.
type PublisherFactory func(cfg config.PublishSettings) (executor.Publisher, error)

func defaultPublisherFactory(cfg config.PublishSettings) (executor.Publisher, error) {
	return publish.NewS3Publisher(cfg)
}

// options holds values shared by every subcommand.
type options struct {
	settings     config.Settings
	newPublisher PublisherFactory
}

// NewRootCmd creates the root packtool command with all subcommands registered.
// Flag defaults come from settings.
func NewRootCmd(settings config.Settings) *cobra.Command {
	return newRootCmd(settings, defaultPublisherFactory)
}

func newRootCmd(settings config.Settings, newPublisher PublisherFactory) *cobra.Command {
	opts := &options{settings: settings, newPublisher: newPublisher}

	root := &cobra.Command{
		Use:           "packtool",
		Short:         "packtool - build distributable packages from a declarative project file",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.settings.Validate(); err != nil {
				return err
			}
			slog.SetDefault(newLogger(opts.settings.LogLevel, opts.settings.LogFormat, cmd.ErrOrStderr()))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.settings.ProjectPath, "project", "p", settings.ProjectPath, "project document (.toml, .yaml or .yml)")
	flags.StringVarP(&opts.settings.OutputDir, "output", "o", settings.OutputDir, "directory receiving action outputs")
	flags.StringVar(&opts.settings.LogLevel, "log-level", settings.LogLevel, "log level: debug, info, warn or error")
	flags.StringVar(&opts.settings.LogFormat, "log-format", settings.LogFormat, "log format: text or json")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newPlanCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newListCmd(opts))
	return root
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
