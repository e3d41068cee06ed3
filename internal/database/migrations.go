package database

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order; PRAGMA user_version records how many
// have run. Append new steps, never edit old ones.
var migrations = []string{
	// 1: report catalog
	`CREATE TABLE IF NOT EXISTS reports (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		chart_type  TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		updated_at  TEXT NOT NULL
	)`,

	// 2: dashboards and their layouts
	`CREATE TABLE IF NOT EXISTS dashboards (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL UNIQUE,
		next_row_seq INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS dashboard_rows (
		dashboard_id TEXT NOT NULL,
		row_id       TEXT NOT NULL,
		position     INTEGER NOT NULL,
		PRIMARY KEY (dashboard_id, row_id),
		UNIQUE (dashboard_id, position),
		FOREIGN KEY (dashboard_id) REFERENCES dashboards(id) ON DELETE CASCADE
	);

	-- A report is placed at most once per dashboard
	CREATE TABLE IF NOT EXISTS row_reports (
		dashboard_id TEXT NOT NULL,
		row_id       TEXT NOT NULL,
		report_id    TEXT NOT NULL,
		position     INTEGER NOT NULL,
		PRIMARY KEY (dashboard_id, report_id),
		UNIQUE (dashboard_id, row_id, position),
		FOREIGN KEY (dashboard_id, row_id) REFERENCES dashboard_rows(dashboard_id, row_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_row_reports_row
	ON row_reports(dashboard_id, row_id, position)`,

	// 3: report selection state per dashboard
	`CREATE TABLE IF NOT EXISTS dashboard_selections (
		dashboard_id TEXT NOT NULL,
		report_id    TEXT NOT NULL,
		seq          INTEGER NOT NULL,
		PRIMARY KEY (dashboard_id, report_id),
		FOREIGN KEY (dashboard_id) REFERENCES dashboards(id) ON DELETE CASCADE
	)`,
}

// Migrate brings the schema up to date
func Migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		err := withTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
				return err
			}
			// PRAGMA does not accept bound parameters
			_, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1))
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

// SchemaVersion returns the number of applied migrations
func SchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	return version, err
}
