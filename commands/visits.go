package commands

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/c360studio/visitparse/report"
	"github.com/c360studio/visitparse/storage"
)

// NewVisitsCommand creates the visits subcommand: inspect visits recorded
// by previous ingest runs.
func NewVisitsCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visits [visit-id]",
		Short: "List stored visits, or print one visit's stored summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(*configPath, nil)
			if err != nil {
				return err
			}

			store, err := storage.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				table, err := store.SummaryRows(cmd.Context(), args[0])
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("visit %s not found in store", args[0])
				}
				if err != nil {
					return err
				}
				return report.WriteFixedWidth(cmd.OutOrStdout(), table)
			}

			records, err := store.Visits(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No visits stored. Run 'visitparse ingest' first.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VISIT\tFILE\tSTATEMENTS\tWARNINGS\tTEMPLATES\tINGESTED")
			for _, rec := range records {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
					rec.VisitID, rec.Filename, rec.Statements, rec.Warnings,
					strings.Join(rec.Templates, ","),
					rec.IngestedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
	return cmd
}
