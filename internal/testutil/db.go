package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"testing"

	"github.com/sparksai/dashlayout/internal/catalog"
	"github.com/sparksai/dashlayout/internal/database"
	"github.com/sparksai/dashlayout/internal/layout"
	"github.com/sparksai/dashlayout/internal/models"
	_ "modernc.org/sqlite"
)

// CaptureOutput captures stdout during function execution
func CaptureOutput(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	return <-outC
}

// SetupTestDB creates a migrated in-memory database closed on cleanup
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	// Each pooled connection to :memory: would get its own empty database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SampleReports is a small catalog used across tests
func SampleReports() []catalog.Report {
	return []catalog.Report{
		{ID: "velocity", Name: "Velocity", ChartType: catalog.ChartBar, Description: "Points completed per sprint."},
		{ID: "burndown", Name: "Burndown", ChartType: catalog.ChartLine, Description: "Remaining work over time."},
		{ID: "cycle-time", Name: "Cycle Time", ChartType: catalog.ChartArea},
		{ID: "bugs-by-severity", Name: "Bugs by Severity", ChartType: catalog.ChartPie},
		{ID: "open-prs", Name: "Open PRs", ChartType: catalog.ChartTable},
	}
}

// SeedReports stores catalog entries, defaulting to SampleReports
func SeedReports(t *testing.T, db *sql.DB, reports ...catalog.Report) {
	t.Helper()
	if len(reports) == 0 {
		reports = SampleReports()
	}
	if err := database.NewRepository(db).UpsertReports(context.Background(), reports); err != nil {
		t.Fatalf("Failed to seed reports: %v", err)
	}
}

// SeedDashboard stores a dashboard with the given rows, every placed report
// selected, and returns it
func SeedDashboard(t *testing.T, db *sql.DB, id, name string, rows ...layout.Row) *models.Dashboard {
	t.Helper()
	l := layout.New(rows...)
	d := &models.Dashboard{ID: id, Name: name, Layout: l, Selected: l.Reports()}
	if err := database.NewRepository(db).CreateDashboard(context.Background(), d); err != nil {
		t.Fatalf("Failed to seed dashboard: %v", err)
	}
	return d
}
