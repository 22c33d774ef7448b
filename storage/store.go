// Package storage persists parsed visit summaries in SQLite so batches of
// visit files can be queried across runs.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/c360studio/visitparse/report"
	"github.com/c360studio/visitparse/visit"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store handles SQLite database operations for visit ingest runs.
type Store struct {
	db *sql.DB
}

// Run identifies one batch ingest over a set of visit files.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	StartedAt time.Time `json:"started_at"`
	Files     int       `json:"files"`
	Parsed    int       `json:"parsed"`
	Failed    int       `json:"failed"`
}

// VisitRecord is the stored header of one parsed visit file.
type VisitRecord struct {
	RunID      string    `json:"run_id"`
	VisitID    string    `json:"visit_id"`
	Filename   string    `json:"filename"`
	Templates  []string  `json:"templates,omitempty"`
	Statements int       `json:"statements"`
	Warnings   int       `json:"warnings"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Open opens (creating if needed) the store at the given database path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		files INTEGER NOT NULL DEFAULT 0,
		parsed INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS visits (
		run_id TEXT NOT NULL,
		visit_id TEXT NOT NULL,
		filename TEXT NOT NULL,
		templates TEXT,
		statements INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		ingested_at DATETIME NOT NULL,
		PRIMARY KEY (run_id, visit_id),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS summary_rows (
		run_id TEXT NOT NULL,
		visit_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		group_id INTEGER NOT NULL,
		seq_id INTEGER NOT NULL,
		act_id INTEGER NOT NULL,
		gsa TEXT NOT NULL,
		type TEXT NOT NULL,
		script TEXT NOT NULL,
		PRIMARY KEY (run_id, visit_id, position),
		FOREIGN KEY (run_id, visit_id) REFERENCES visits(run_id, visit_id)
	);

	CREATE INDEX IF NOT EXISTS idx_summary_visit ON summary_rows(visit_id);
	CREATE INDEX IF NOT EXISTS idx_summary_script ON summary_rows(script);
	CREATE INDEX IF NOT EXISTS idx_visits_run ON visits(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// BeginRun records the start of a batch ingest and returns its run with a
// fresh identifier.
func (s *Store) BeginRun(ctx context.Context, source string) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Source:    source,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Source, run.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun stores the run's final counters.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET files = ?, parsed = ?, failed = ? WHERE id = ?`,
		run.Files, run.Parsed, run.Failed, run.ID)
	if err != nil {
		return fmt.Errorf("update run %s: %w", run.ID, err)
	}
	return nil
}

// SaveVisit stores a parsed visit's header and summary rows under a run.
func (s *Store) SaveVisit(ctx context.Context, runID, filename string, v *visit.Visit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO visits
		 (run_id, visit_id, filename, templates, statements, warnings, ingested_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, v.ID, filename, strings.Join(v.Templates, ","),
		len(v.Activities), len(v.Warnings), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert visit %s: %w", v.ID, err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM summary_rows WHERE run_id = ? AND visit_id = ?`, runID, v.ID)
	if err != nil {
		return fmt.Errorf("clear summary rows for %s: %w", v.ID, err)
	}

	for i, act := range v.Activities {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO summary_rows
			 (run_id, visit_id, position, group_id, seq_id, act_id, gsa, type, script)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, v.ID, i, act.Group, act.Sequence, act.Number,
			act.GSA(), act.Name, act.ScriptName())
		if err != nil {
			return fmt.Errorf("insert summary row %d for %s: %w", i, v.ID, err)
		}
	}

	return tx.Commit()
}

// Visits lists the stored visit headers, newest first.
func (s *Store) Visits(ctx context.Context) ([]VisitRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, visit_id, filename, templates, statements, warnings, ingested_at
		 FROM visits ORDER BY ingested_at DESC, visit_id`)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	var records []VisitRecord
	for rows.Next() {
		var (
			rec       VisitRecord
			templates string
		)
		if err := rows.Scan(&rec.RunID, &rec.VisitID, &rec.Filename, &templates,
			&rec.Statements, &rec.Warnings, &rec.IngestedAt); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		if templates != "" {
			rec.Templates = strings.Split(templates, ",")
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SummaryRows reconstructs the stored summary table of a visit. When the
// visit was ingested in multiple runs, the most recent run wins.
func (s *Store) SummaryRows(ctx context.Context, visitID string) (*report.Table, error) {
	var runID string
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id FROM visits WHERE visit_id = ? ORDER BY ingested_at DESC LIMIT 1`,
		visitID).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("visit %s: %w", visitID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query visit %s: %w", visitID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, seq_id, act_id, gsa, type, script
		 FROM summary_rows WHERE run_id = ? AND visit_id = ? ORDER BY position`,
		runID, visitID)
	if err != nil {
		return nil, fmt.Errorf("query summary rows for %s: %w", visitID, err)
	}
	defer rows.Close()

	table := report.NewTable(visit.ColGroupID, visit.ColSeqID, visit.ColActID,
		visit.ColGSA, visit.ColType, visit.ColScript)
	for rows.Next() {
		var (
			groupID, seqID, actID int
			gsa, stmtType, script string
		)
		if err := rows.Scan(&groupID, &seqID, &actID, &gsa, &stmtType, &script); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		if err := table.AddRow(
			fmt.Sprintf("%d", groupID), fmt.Sprintf("%d", seqID), fmt.Sprintf("%d", actID),
			gsa, stmtType, script); err != nil {
			return nil, err
		}
	}
	return table, rows.Err()
}
