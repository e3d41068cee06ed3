package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sparksai/dashlayout/internal/layout"
	"github.com/sparksai/dashlayout/internal/models"
)

// DashboardRepo handles dashboards, their layouts and selections
type DashboardRepo struct {
	db *sql.DB
}

// CreateDashboard inserts a dashboard together with its initial layout and
// selection
func (r *DashboardRepo) CreateDashboard(ctx context.Context, d *models.Dashboard) error {
	if err := d.Layout.Check(); err != nil {
		return fmt.Errorf("refusing to store invalid layout: %w", err)
	}

	now := time.Now().UTC()
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO dashboards (id, name, next_row_seq, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			d.ID, d.Name, d.Layout.RowSeq(), formatTime(now), formatTime(now),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrDuplicateName, d.Name)
			}
			return fmt.Errorf("failed to insert dashboard: %w", err)
		}
		if err := writeLayout(ctx, tx, d.ID, d.Layout); err != nil {
			return err
		}
		for i, reportID := range d.Selected {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO dashboard_selections (dashboard_id, report_id, seq) VALUES (?, ?, ?)`,
				d.ID, reportID, i,
			); err != nil {
				return fmt.Errorf("failed to insert selection: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.CreatedAt = now
	d.UpdatedAt = now
	return nil
}

// GetDashboard loads a dashboard with its layout and selection
func (r *DashboardRepo) GetDashboard(ctx context.Context, id string) (*models.Dashboard, error) {
	return r.getDashboard(ctx, "id", id)
}

// GetDashboardByName loads a dashboard by its unique name
func (r *DashboardRepo) GetDashboardByName(ctx context.Context, name string) (*models.Dashboard, error) {
	return r.getDashboard(ctx, "name", name)
}

func (r *DashboardRepo) getDashboard(ctx context.Context, column, value string) (*models.Dashboard, error) {
	var (
		d                    models.Dashboard
		seq                  int
		createdAt, updatedAt string
	)
	// column is one of two fixed identifiers, never user input
	query := fmt.Sprintf(`
		SELECT id, name, next_row_seq, created_at, updated_at
		FROM dashboards
		WHERE %s = ?`, column)
	err := r.db.QueryRowContext(ctx, query, value).Scan(&d.ID, &d.Name, &seq, &createdAt, &updatedAt)
	if err != nil {
		return nil, notFound(err, "dashboard", value)
	}
	d.CreatedAt = parseTime(createdAt)
	d.UpdatedAt = parseTime(updatedAt)

	if d.Layout, err = r.loadLayout(ctx, d.ID, seq); err != nil {
		return nil, err
	}
	if d.Selected, err = r.loadSelection(ctx, d.ID); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDashboards returns summaries ordered by name
func (r *DashboardRepo) ListDashboards(ctx context.Context) ([]*models.DashboardSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.updated_at,
			(SELECT COUNT(*) FROM dashboard_rows dr WHERE dr.dashboard_id = d.id),
			(SELECT COUNT(*) FROM row_reports rr WHERE rr.dashboard_id = d.id)
		FROM dashboards d
		ORDER BY d.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.DashboardSummary
	for rows.Next() {
		var (
			s         models.DashboardSummary
			updatedAt string
		)
		if err := rows.Scan(&s.ID, &s.Name, &updatedAt, &s.RowCount, &s.ReportCount); err != nil {
			return nil, err
		}
		s.UpdatedAt = parseTime(updatedAt)
		out = append(out, &s)
	}
	return out, rows.Err()
}

// DeleteDashboard removes a dashboard; rows, placements and selections
// cascade
func (r *DashboardRepo) DeleteDashboard(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM dashboards WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("dashboard %s: %w", id, ErrNotFound)
	}
	return nil
}

// SaveLayout replaces the stored layout of a dashboard
func (r *DashboardRepo) SaveLayout(ctx context.Context, dashboardID string, l *layout.Layout) error {
	if err := l.Check(); err != nil {
		return fmt.Errorf("refusing to store invalid layout: %w", err)
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return replaceLayout(ctx, tx, dashboardID, l)
	})
}

// SaveLayoutAndSelect stores a layout and ticks or unticks a report in one
// transaction, so placement and selection never disagree
func (r *DashboardRepo) SaveLayoutAndSelect(ctx context.Context, dashboardID string, l *layout.Layout, reportID string, selected bool) error {
	if err := l.Check(); err != nil {
		return fmt.Errorf("refusing to store invalid layout: %w", err)
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := replaceLayout(ctx, tx, dashboardID, l); err != nil {
			return err
		}
		return setSelected(ctx, tx, dashboardID, reportID, selected)
	})
}

func replaceLayout(ctx context.Context, tx *sql.Tx, dashboardID string, l *layout.Layout) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE dashboards SET next_row_seq = ?, updated_at = ? WHERE id = ?`,
		l.RowSeq(), formatTime(time.Now()), dashboardID,
	)
	if err != nil {
		return fmt.Errorf("failed to update dashboard: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("dashboard %s: %w", dashboardID, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM row_reports WHERE dashboard_id = ?`, dashboardID); err != nil {
		return fmt.Errorf("failed to clear placements: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM dashboard_rows WHERE dashboard_id = ?`, dashboardID); err != nil {
		return fmt.Errorf("failed to clear rows: %w", err)
	}
	return writeLayout(ctx, tx, dashboardID, l)
}

// LoadLayout reads only the layout of a dashboard
func (r *DashboardRepo) LoadLayout(ctx context.Context, dashboardID string) (*layout.Layout, error) {
	var seq int
	err := r.db.QueryRowContext(ctx,
		`SELECT next_row_seq FROM dashboards WHERE id = ?`, dashboardID,
	).Scan(&seq)
	if err != nil {
		return nil, notFound(err, "dashboard", dashboardID)
	}
	return r.loadLayout(ctx, dashboardID, seq)
}

// ListSelected returns the reports ticked for display, in selection order
func (r *DashboardRepo) ListSelected(ctx context.Context, dashboardID string) ([]string, error) {
	return r.loadSelection(ctx, dashboardID)
}

// SetSelected ticks or unticks a report for display on a dashboard
func (r *DashboardRepo) SetSelected(ctx context.Context, dashboardID, reportID string, selected bool) error {
	return setSelected(ctx, r.db, dashboardID, reportID, selected)
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func setSelected(ctx context.Context, db execer, dashboardID, reportID string, selected bool) error {
	if !selected {
		_, err := db.ExecContext(ctx,
			`DELETE FROM dashboard_selections WHERE dashboard_id = ? AND report_id = ?`,
			dashboardID, reportID,
		)
		return err
	}
	_, err := db.ExecContext(ctx, `
		INSERT OR IGNORE INTO dashboard_selections (dashboard_id, report_id, seq)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), -1) + 1 FROM dashboard_selections WHERE dashboard_id = ?))`,
		dashboardID, reportID, dashboardID,
	)
	return err
}

func writeLayout(ctx context.Context, tx *sql.Tx, dashboardID string, l *layout.Layout) error {
	for pos, row := range l.Rows() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dashboard_rows (dashboard_id, row_id, position) VALUES (?, ?, ?)`,
			dashboardID, row.ID, pos,
		); err != nil {
			return fmt.Errorf("failed to insert row %s: %w", row.ID, err)
		}
		for i, reportID := range row.Reports {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO row_reports (dashboard_id, row_id, report_id, position) VALUES (?, ?, ?, ?)`,
				dashboardID, row.ID, reportID, i,
			); err != nil {
				return fmt.Errorf("failed to place report %s: %w", reportID, err)
			}
		}
	}
	return nil
}

func (r *DashboardRepo) loadLayout(ctx context.Context, dashboardID string, seq int) (*layout.Layout, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT dr.row_id, rr.report_id
		FROM dashboard_rows dr
		LEFT JOIN row_reports rr
			ON rr.dashboard_id = dr.dashboard_id AND rr.row_id = dr.row_id
		WHERE dr.dashboard_id = ?
		ORDER BY dr.position, rr.position`, dashboardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load layout: %w", err)
	}
	defer rows.Close()

	var out []layout.Row
	for rows.Next() {
		var (
			rowID    string
			reportID sql.NullString
		)
		if err := rows.Scan(&rowID, &reportID); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].ID != rowID {
			out = append(out, layout.Row{ID: rowID})
		}
		if reportID.Valid {
			last := &out[len(out)-1]
			last.Reports = append(last.Reports, reportID.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return layout.NewWithSeq(seq, out...), nil
}

func (r *DashboardRepo) loadSelection(ctx context.Context, dashboardID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT report_id FROM dashboard_selections WHERE dashboard_id = ? ORDER BY seq`, dashboardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load selection: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
