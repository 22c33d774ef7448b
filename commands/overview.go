package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/visitparse/report"
	"github.com/c360studio/visitparse/visit/parser"
)

// NewOverviewCommand creates the overview subcommand: the
// instrument-filtered projection of one visit file.
func NewOverviewCommand(configPath *string) *cobra.Command {
	var (
		instrument string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "overview <visit-file>",
		Short: "Print the instrument overview table of a visit file",
		Long: `Overview filters a visit file's summary table to the activities of one
instrument and joins in the instrument's report fields. Unknown
instrument names print the unfiltered summary table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := LoadConfig(*configPath, nil); err != nil {
				return err
			}

			v, err := parser.ParseFile(args[0])
			if err != nil {
				return err
			}

			table, err := v.Overview(instrument)
			if err != nil {
				return err
			}

			if output == "" {
				return report.WriteFixedWidth(cmd.OutOrStdout(), table)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()
			if err := report.WriteFixedWidth(f, table); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&instrument, "instrument", "i", "niriss", "Instrument overview profile")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
