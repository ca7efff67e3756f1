//go:build !js

package pipeline

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteSchema is applied on every export. Tables are keyed by run id so one
// database file can hold several runs.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id        TEXT PRIMARY KEY,
		generated_at  TEXT NOT NULL,
		source_path   TEXT NOT NULL,
		source_format TEXT NOT NULL,
		record_count  INTEGER NOT NULL,
		date_count    INTEGER NOT NULL,
		missing_steps INTEGER NOT NULL,
		notes         TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS daily_totals (
		run_id              TEXT NOT NULL REFERENCES runs(run_id),
		date                TEXT NOT NULL,
		day_kind            TEXT NOT NULL,
		raw_total_steps     REAL,
		imputed_total_steps REAL NOT NULL,
		PRIMARY KEY (run_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS interval_profiles (
		run_id             TEXT NOT NULL REFERENCES runs(run_id),
		interval           INTEGER NOT NULL,
		time               TEXT NOT NULL,
		raw_mean_steps     REAL,
		raw_observed       INTEGER NOT NULL,
		raw_missing        INTEGER NOT NULL,
		weekday_mean_steps REAL,
		weekend_mean_steps REAL,
		PRIMARY KEY (run_id, interval)
	)`,
	`CREATE TABLE IF NOT EXISTS imputed_records (
		run_id        TEXT NOT NULL REFERENCES runs(run_id),
		date          TEXT NOT NULL,
		interval      INTEGER NOT NULL,
		day_kind      TEXT NOT NULL,
		steps         INTEGER,
		imputed_steps REAL NOT NULL,
		imputed       INTEGER NOT NULL,
		PRIMARY KEY (run_id, date, interval)
	)`,
}

func exportSQLite(path string, summary SummaryFile, daily []DailyTotalRow, profiles []IntervalProfileRow, imputed []ImputedRecordRow) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := insertRun(tx, summary, daily, profiles, imputed); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertRun(tx *sql.Tx, summary SummaryFile, daily []DailyTotalRow, profiles []IntervalProfileRow, imputed []ImputedRecordRow) error {
	a := summary.Analysis
	_, err := tx.Exec(
		`INSERT INTO runs (run_id, generated_at, source_path, source_format, record_count, date_count, missing_steps, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.GeneratedAt.Format(time.RFC3339),
		summary.Source.Path,
		summary.Source.Format,
		a.RecordCount,
		a.DateCount,
		a.MissingSteps,
		a.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	dailyStmt, err := tx.Prepare(`INSERT INTO daily_totals (run_id, date, day_kind, raw_total_steps, imputed_total_steps) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer dailyStmt.Close()
	for _, r := range daily {
		if _, err := dailyStmt.Exec(summary.RunID, r.Date, r.DayKind, r.RawTotalSteps, r.ImputedTotalSteps); err != nil {
			return fmt.Errorf("insert daily total %s: %w", r.Date, err)
		}
	}

	profileStmt, err := tx.Prepare(`INSERT INTO interval_profiles (run_id, interval, time, raw_mean_steps, raw_observed, raw_missing, weekday_mean_steps, weekend_mean_steps) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer profileStmt.Close()
	for _, r := range profiles {
		if _, err := profileStmt.Exec(summary.RunID, r.Interval, r.Time, r.RawMean, r.RawObserved, r.RawMissing, r.WeekdayMean, r.WeekendMean); err != nil {
			return fmt.Errorf("insert interval profile %d: %w", r.Interval, err)
		}
	}

	recordStmt, err := tx.Prepare(`INSERT INTO imputed_records (run_id, date, interval, day_kind, steps, imputed_steps, imputed) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer recordStmt.Close()
	for _, r := range imputed {
		if _, err := recordStmt.Exec(summary.RunID, r.Date, r.Interval, r.DayKind, r.Steps, r.ImputedSteps, r.Imputed); err != nil {
			return fmt.Errorf("insert imputed record %s %d: %w", r.Date, r.Interval, err)
		}
	}
	return nil
}
