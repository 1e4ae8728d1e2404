package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/audiencelab/seoscan/internal/model"
)

// ErrNoRuns is returned when no run history exists for a target website.
var ErrNoRuns = errors.New("no runs recorded for target")

// ResearchDB provides SQLite-based storage for run reports and the
// trigger latch. It manages connection pooling and provides methods for
// CRUD operations.
type ResearchDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ResearchDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ResearchDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
func Open(dbDir string, opts Options) (*ResearchDB, error) {
	dbPath := filepath.Join(dbDir, "seoscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY under concurrent batch runs.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ResearchDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *ResearchDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *ResearchDB) createTables() error {
	schema := `
	-- Run reports, one row per pipeline run, report serialized as JSON
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		target_website TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		report TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_target ON runs(target_website);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Trigger latch: last value seen per watched cell
	CREATE TABLE IF NOT EXISTS trigger_latch (
		cell TEXT PRIMARY KEY,
		last_value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := rdb.db.Exec(schema)
	return err
}

// SaveRunReport persists a completed run report.
func (rdb *ResearchDB) SaveRunReport(ctx context.Context, report *model.ResearchReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("serialize report: %w", err)
	}

	_, err = rdb.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, target_website, started_at, report) VALUES (?, ?, ?, ?)`,
		report.RunID, report.TargetWebsite, report.StartedAt.UTC().Format(time.RFC3339Nano), string(data),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRunHistory returns all run reports for a target website, most
// recent first. Returns ErrNoRuns when none exist.
func (rdb *ResearchDB) GetRunHistory(ctx context.Context, targetWebsite string) ([]*model.ResearchReport, error) {
	rows, err := rdb.db.QueryContext(ctx,
		`SELECT report FROM runs WHERE target_website = ? ORDER BY started_at DESC`,
		targetWebsite,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var reports []*model.ResearchReport
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		var report model.ResearchReport
		if err := json.Unmarshal([]byte(data), &report); err != nil {
			return nil, fmt.Errorf("deserialize report: %w", err)
		}
		reports = append(reports, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrNoRuns
	}
	return reports, nil
}

// GetLatestRun returns the most recent run report for a target website.
func (rdb *ResearchDB) GetLatestRun(ctx context.Context, targetWebsite string) (*model.ResearchReport, error) {
	var data string
	err := rdb.db.QueryRowContext(ctx,
		`SELECT report FROM runs WHERE target_website = ? ORDER BY started_at DESC LIMIT 1`,
		targetWebsite,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	var report model.ResearchReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("deserialize report: %w", err)
	}
	return &report, nil
}

// ListTargets returns every target website with at least one recorded run.
func (rdb *ResearchDB) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := rdb.db.QueryContext(ctx,
		`SELECT DISTINCT target_website FROM runs ORDER BY target_website`,
	)
	if err != nil {
		return nil, fmt.Errorf("query targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// LastTriggerValue returns the last value recorded for a watched cell,
// or an empty string when the cell has never fired.
func (rdb *ResearchDB) LastTriggerValue(ctx context.Context, cell string) (string, error) {
	var value string
	err := rdb.db.QueryRowContext(ctx,
		`SELECT last_value FROM trigger_latch WHERE cell = ?`, cell,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query trigger latch: %w", err)
	}
	return value, nil
}

// SetLastTriggerValue records the last value seen for a watched cell.
func (rdb *ResearchDB) SetLastTriggerValue(ctx context.Context, cell, value string) error {
	_, err := rdb.db.ExecContext(ctx,
		`INSERT INTO trigger_latch (cell, last_value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(cell) DO UPDATE SET last_value = excluded.last_value, updated_at = CURRENT_TIMESTAMP`,
		cell, value,
	)
	if err != nil {
		return fmt.Errorf("update trigger latch: %w", err)
	}
	return nil
}
