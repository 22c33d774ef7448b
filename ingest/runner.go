// Package ingest processes batches of visit files: it scans a data
// directory, parses every matching file, writes overview reports, and
// records results in the visit store. A watch mode keeps doing so as
// files change.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/visitparse/config"
	"github.com/c360studio/visitparse/report"
	"github.com/c360studio/visitparse/storage"
	"github.com/c360studio/visitparse/visit"
	"github.com/c360studio/visitparse/visit/parser"
)

// FileResult is the outcome of processing one visit file. A file's
// failure never aborts the batch; it is recorded here instead.
type FileResult struct {
	// Path is the visit file path.
	Path string

	// VisitID is the parsed visit identifier, empty on failure.
	VisitID string

	// ReportPath is where the overview report was written, empty when
	// reports are disabled or the file failed.
	ReportPath string

	// Warnings is the number of recovered parse warnings.
	Warnings int

	// Err is the parse or report error, nil on success.
	Err error
}

// Summary aggregates a batch run.
type Summary struct {
	// RunID identifies the run in the store, empty without a store.
	RunID string

	// Results holds one entry per matched file, in scan order.
	Results []FileResult

	// Parsed and Failed count the outcomes.
	Parsed int
	Failed int
}

// Runner processes visit files according to the configuration. The store
// and metrics are optional.
type Runner struct {
	cfg     *config.Config
	store   *storage.Store
	metrics *Metrics
	logger  *slog.Logger
}

// NewRunner creates a batch runner.
func NewRunner(cfg *config.Config, store *storage.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, store: store, logger: logger}
}

// SetMetrics attaches ingest counters, used by watch mode.
func (r *Runner) SetMetrics(m *Metrics) {
	r.metrics = m
}

// Run scans the data directory for files matching the configured pattern
// and processes each one. Parsing is file-local: one malformed file is
// reported in its result and the batch continues.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	pattern := filepath.Join(r.cfg.Data.Dir, r.cfg.Data.Pattern)
	files, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}

	summary := &Summary{}
	runID := ""
	var run *storage.Run
	if r.store != nil {
		run, err = r.store.BeginRun(ctx, r.cfg.Data.Dir)
		if err != nil {
			return nil, fmt.Errorf("begin run: %w", err)
		}
		runID = run.ID
		summary.RunID = runID
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result := r.ProcessFile(ctx, runID, path)
		summary.Results = append(summary.Results, result)
		if result.Err != nil {
			summary.Failed++
		} else {
			summary.Parsed++
		}
	}

	if run != nil {
		run.Files = len(summary.Results)
		run.Parsed = summary.Parsed
		run.Failed = summary.Failed
		if err := r.store.FinishRun(ctx, run); err != nil {
			return summary, fmt.Errorf("finish run: %w", err)
		}
	}

	r.logger.Info("ingest complete",
		slog.Int("files", len(summary.Results)),
		slog.Int("parsed", summary.Parsed),
		slog.Int("failed", summary.Failed))
	return summary, nil
}

// ProcessFile parses one visit file, writes its overview report, and
// records it in the store. runID may be empty when no run is open.
func (r *Runner) ProcessFile(ctx context.Context, runID, path string) FileResult {
	result := FileResult{Path: path}

	v, err := parser.ParseFile(path, parser.WithLogger(r.logger))
	if err != nil {
		r.count(func(m *Metrics) { m.ParseFailures.Inc() })
		r.logger.Warn("visit file failed to parse",
			slog.String("path", path), slog.String("error", err.Error()))
		result.Err = err
		return result
	}
	result.VisitID = v.ID
	result.Warnings = len(v.Warnings)

	if reportPath, err := r.writeReport(v); err != nil {
		result.Err = err
		return result
	} else if reportPath != "" {
		result.ReportPath = reportPath
	}

	if r.store != nil && runID != "" {
		if err := r.store.SaveVisit(ctx, runID, filepath.Base(path), v); err != nil {
			result.Err = err
			return result
		}
	}

	// Counted only once the report and store steps are through, so the
	// counters agree with the run summary.
	r.count(func(m *Metrics) {
		m.FilesParsed.Inc()
		m.ParseWarnings.Add(float64(len(v.Warnings)))
	})

	r.logger.Debug("visit file processed",
		slog.String("path", path),
		slog.String("visit", v.ID),
		slog.Int("statements", len(v.Activities)),
		slog.Int("warnings", len(v.Warnings)))
	return result
}

// writeReport writes the instrument overview as a fixed-width report
// named after the visit id.
func (r *Runner) writeReport(v *visit.Visit) (string, error) {
	table, err := v.Overview(r.cfg.Report.Instrument)
	if err != nil {
		return "", fmt.Errorf("overview for %s: %w", v.ID, err)
	}

	dir := r.cfg.ReportDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_visit_file_summary.txt", v.ID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if err := report.WriteFixedWidth(f, table); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	return path, nil
}

func (r *Runner) count(inc func(*Metrics)) {
	if r.metrics != nil {
		inc(r.metrics)
	}
}
