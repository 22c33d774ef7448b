package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/visitparse/ingest"
	"github.com/c360studio/visitparse/storage"
)

// NewIngestCommand creates the ingest subcommand: scan the configured
// data directory, parse every matching visit file, write overview
// reports, and record the run in the store.
func NewIngestCommand(configPath *string) *cobra.Command {
	var noStore bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Parse all visit files in the data directory",
		Long: `Ingest scans the configured data directory for visit files, parses each
one, writes its overview report, and records results in the local
store. A file that fails to parse is reported and skipped; the rest of
the batch still runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()
			cfg, err := LoadConfig(*configPath, logger)
			if err != nil {
				return err
			}

			var store *storage.Store
			if !noStore {
				store, err = storage.Open(cfg.Store.Path)
				if err != nil {
					return err
				}
				defer store.Close()
			}

			runner := ingest.NewRunner(cfg, store, logger)

			summary, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, result := range summary.Results {
				if result.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s: %v\n", result.Path, result.Err)
					continue
				}
				fmt.Fprintf(out, "parsed: %s (visit %s)\n", result.Path, result.VisitID)
			}
			fmt.Fprintf(out, "%d parsed, %d failed\n", summary.Parsed, summary.Failed)
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d files failed to parse", summary.Failed, len(summary.Results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noStore, "no-store", false, "Skip recording the run in the local store")
	return cmd
}
