package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/flarebyte/surfacetask/internal/command"
)

// NewCmd implements `surfacetask commands`.
func NewCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:           "commands",
		Short:         "List the commands the dispatcher accepts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(cmd.OutOrStdout(), format, command.Entries())
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json|yaml")
	return cmd
}

func render(w io.Writer, format string, entries []command.Entry) error {
	switch format {
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, e := range entries {
			fwd := "no args"
			if e.ForwardsArgs {
				fwd = "[args...]"
			}
			if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, fwd, e.Summary); err != nil {
				return err
			}
		}
		return tw.Flush()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("invalid --format: %s (expected text, json or yaml)", format)
	}
}
