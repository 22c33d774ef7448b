package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/visitparse/report"
	"github.com/c360studio/visitparse/visit/parser"
)

// NewParseCommand creates the parse subcommand: parse one visit file and
// print its summary table.
func NewParseCommand() *cobra.Command {
	var describe bool

	cmd := &cobra.Command{
		Use:   "parse <visit-file>",
		Short: "Parse a visit file and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parser.ParseFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, v)
			if err := report.WriteFixedWidth(out, v.SummaryTable()); err != nil {
				return err
			}

			if describe {
				fmt.Fprintln(out)
				for _, act := range v.Activities {
					fmt.Fprintln(out, act)
				}
			}

			for _, warning := range v.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", warning.Command, warning.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&describe, "describe", false, "Print a description of every activity statement")
	return cmd
}
