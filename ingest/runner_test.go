package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/visitparse/config"
	"github.com/c360studio/visitparse/storage"
)

const goodVisit = `# NIRISS External Calibration
VISIT V00744008001 ,VISITYPE=PRIME_TARGETED_FIXED;
GROUP 1;
SEQ 1;
ACT 01 ,NISMAIN ,OPMODE=IMAGE ,FILTER=F200W;
`

const otherVisit = `# NIRISS External Calibration
VISIT V00744008002;
GROUP 1;
SEQ 1;
ACT 01 ,NISMAIN ,OPMODE=IMAGE;
`

// brokenVisit has an ACT before any SEQ, a structural violation.
const brokenVisit = `# T
VISIT V00744008003;
GROUP 1;
ACT 01 ,NISMAIN;
`

func writeVisitFiles(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "niriss"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "niriss", "a.vst"), []byte(goodVisit), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "niriss", "b.vst"), []byte(otherVisit), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.vst"), []byte(brokenVisit), 0o644))
	// Non-matching files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
}

func testConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Data.Dir = dir
	cfg.Store.Path = filepath.Join(dir, "visits.db")
	return cfg
}

func TestRunner_Run_FileFailuresAreIsolated(t *testing.T) {
	dir := t.TempDir()
	writeVisitFiles(t, dir)

	runner := NewRunner(testConfig(dir), nil, nil)
	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, summary.Results, 3)
	assert.Equal(t, 2, summary.Parsed)
	assert.Equal(t, 1, summary.Failed)

	var failed *FileResult
	for i := range summary.Results {
		if summary.Results[i].Err != nil {
			failed = &summary.Results[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, filepath.Join(dir, "broken.vst"), failed.Path)
}

func TestRunner_Run_WritesReports(t *testing.T) {
	dir := t.TempDir()
	writeVisitFiles(t, dir)

	runner := NewRunner(testConfig(dir), nil, nil)
	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	for _, result := range summary.Results {
		if result.Err != nil {
			continue
		}
		assert.FileExists(t, result.ReportPath)
		content, readErr := os.ReadFile(result.ReportPath)
		require.NoError(t, readErr)
		assert.Contains(t, string(content), "GSA")
		assert.Contains(t, string(content), "NISMAIN")
	}

	assert.FileExists(t, filepath.Join(dir, "out", "V00744008001_visit_file_summary.txt"))
}

func TestRunner_Run_RecordsInStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeVisitFiles(t, dir)
	cfg := testConfig(dir)

	store, err := storage.Open(cfg.Store.Path)
	require.NoError(t, err)
	defer store.Close()

	runner := NewRunner(cfg, store, nil)
	summary, err := runner.Run(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, summary.RunID)

	records, err := store.Visits(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRunner_Metrics(t *testing.T) {
	dir := t.TempDir()
	writeVisitFiles(t, dir)

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	runner := NewRunner(testConfig(dir), nil, nil)
	runner.SetMetrics(metrics)

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.FilesParsed))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ParseFailures))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ParseWarnings))
}

func TestRunner_Metrics_ReportFailureNotCountedParsed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.vst"), []byte(goodVisit), 0o644))

	cfg := testConfig(dir)
	// A regular file occupies the report directory path, so the report
	// write fails after a successful parse.
	cfg.Report.Dir = filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(cfg.Report.Dir, []byte("x"), 0o644))

	metrics := NewMetrics(prometheus.NewRegistry())
	runner := NewRunner(cfg, nil, nil)
	runner.SetMetrics(metrics)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	// The run summary and the counters agree: the file did not make it
	// through.
	assert.Equal(t, 0, summary.Parsed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.FilesParsed))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ParseFailures))
}

func TestRunner_Run_EmptyDirectory(t *testing.T) {
	runner := NewRunner(testConfig(t.TempDir()), nil, nil)
	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Results)
}
