package envcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flarebyte/surfacetask/internal/app"
)

// NewCmd implements `surfacetask env`: print the variables every toolchain
// invocation receives on top of the inherited environment.
func NewCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:           "env",
		Short:         "Print the process-wide environment passed to the toolchain",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := *opts
			o.Stdout = cmd.OutOrStdout()
			o.Stderr = cmd.ErrOrStderr()
			a, err := app.Setup(o)
			if err != nil {
				return err
			}
			for _, kv := range a.Env.Pairs() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), kv); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
