package root

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/flarebyte/surfacetask/cmd/surfacetask/commands"
	"github.com/flarebyte/surfacetask/cmd/surfacetask/envcmd"
	"github.com/flarebyte/surfacetask/cmd/surfacetask/version"
	"github.com/flarebyte/surfacetask/internal/app"
)

// NewRootCmd creates the root command for surfacetask. Everything after the
// command name is handed to the dispatcher verbatim.
func NewRootCmd() *cobra.Command {
	opts := &app.Options{}
	cmd := &cobra.Command{
		Use:   "surfacetask [flags] <command> [args...]",
		Short: "Task runner for the KML surface-area engine",
		Long: `Task runner for the KML surface-area engine.

Commands:
  testdata          run the engine on the configured sample input
  compute [args]    run the engine, forwarding args
  test [args]       run the test suite, forwarding args

Exit status is the toolchain's own; 2 means no command was given, 3 an
unknown command, 4 a configuration or environment failure.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Setup(withStreams(*opts, cmd))
			if err != nil {
				return err
			}
			return a.Dispatcher.Dispatch(cmd.Context(), args)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	// Stop at the command name so its arguments, flags included, pass through.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the toolchain invocation instead of running it")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (.cue, .yaml); defaults to $"+app.EnvConfig+" or surfacetask.cue at the workspace root")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Harness log level (panic|fatal|error|warn|info|debug|trace)")
	cmd.PersistentFlags().StringVarP(&opts.Dir, "directory", "C", "", "Run as if started in this directory")

	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(commands.NewCmd())
	cmd.AddCommand(envcmd.NewCmd(opts))

	return cmd
}

func withStreams(opts app.Options, cmd *cobra.Command) app.Options {
	opts.Stdin = cmd.InOrStdin()
	opts.Stdout = cmd.OutOrStdout()
	opts.Stderr = cmd.ErrOrStderr()
	return opts
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}
