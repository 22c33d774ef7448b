package commands

import (
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/c360studio/visitparse/ingest"
	"github.com/c360studio/visitparse/storage"
)

// NewWatchCommand creates the watch subcommand: keep re-parsing visit
// files as they change on disk.
func NewWatchCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the data directory and re-parse visit files on change",
		Long: `Watch monitors the configured data directory and re-parses a visit file
whenever it is created or written, debouncing rapid changes. When a
metrics address is configured, parse counters are served over HTTP in
Prometheus format. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()
			cfg, err := LoadConfig(*configPath, logger)
			if err != nil {
				return err
			}

			store, err := storage.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			runner := ingest.NewRunner(cfg, store, logger)

			if addr := cfg.Watch.MetricsAddr; addr != "" {
				registry := prometheus.NewRegistry()
				runner.SetMetrics(ingest.NewMetrics(registry))
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
				go func() {
					logger.Info("Serving metrics", slog.String("addr", addr))
					if err := http.ListenAndServe(addr, mux); err != nil {
						logger.Error("Metrics server stopped", slog.String("error", err.Error()))
					}
				}()
			}

			watcher, err := ingest.NewWatcher(runner, cfg.Data.Dir, cfg.Watch.DebounceDelay, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("Watching for visit files", slog.String("dir", cfg.Data.Dir))
			return watcher.Run(ctx)
		},
	}
	return cmd
}
