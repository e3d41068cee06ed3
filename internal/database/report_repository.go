package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sparksai/dashlayout/internal/catalog"
)

// ReportRepo handles the report catalog table
type ReportRepo struct {
	db *sql.DB
}

// UpsertReports inserts or replaces catalog entries in one transaction
func (r *ReportRepo) UpsertReports(ctx context.Context, reports []catalog.Report) error {
	now := formatTime(time.Now())
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, rep := range reports {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO reports (id, name, chart_type, description, updated_at)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name,
					chart_type = excluded.chart_type,
					description = excluded.description,
					updated_at = excluded.updated_at`,
				rep.ID, rep.Name, rep.ChartType, rep.Description, now,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert report %s: %w", rep.ID, err)
			}
		}
		return nil
	})
}

// ListReports returns every catalog entry ordered by name
func (r *ReportRepo) ListReports(ctx context.Context) ([]catalog.Report, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, chart_type, description
		FROM reports
		ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []catalog.Report
	for rows.Next() {
		var rep catalog.Report
		if err := rows.Scan(&rep.ID, &rep.Name, &rep.ChartType, &rep.Description); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// GetReport returns one catalog entry
func (r *ReportRepo) GetReport(ctx context.Context, id string) (catalog.Report, error) {
	var rep catalog.Report
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, chart_type, description
		FROM reports
		WHERE id = ?`, id,
	).Scan(&rep.ID, &rep.Name, &rep.ChartType, &rep.Description)
	if err != nil {
		return catalog.Report{}, notFound(err, "report", id)
	}
	return rep, nil
}

// DeleteReport removes a catalog entry. Layouts that still reference it
// drop the ID the next time they are loaded.
func (r *ReportRepo) DeleteReport(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	return nil
}
