package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sparksai/dashlayout/internal/catalog"
	"github.com/sparksai/dashlayout/internal/layout"
	"github.com/sparksai/dashlayout/internal/models"
	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory database and runs migrations
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	// Every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestDashboard(id, name string, l *layout.Layout) *models.Dashboard {
	return &models.Dashboard{ID: id, Name: name, Layout: l, Selected: l.Reports()}
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
	version, err := SchemaVersion(ctx, db)
	if err != nil {
		t.Fatalf("Failed to read version: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("Expected schema version %d, got %d", len(migrations), version)
	}
}

func TestInitDB_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "dash.db")

	db, err := InitDB(context.Background(), path)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("Failed to read pragma: %v", err)
	}
	if fk != 1 {
		t.Error("Expected foreign keys to be enabled")
	}
}

func TestReportRepo_UpsertAndList(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	err := repo.UpsertReports(ctx, []catalog.Report{
		{ID: "velocity", Name: "Velocity", ChartType: catalog.ChartBar},
		{ID: "burndown", Name: "Burndown", ChartType: catalog.ChartLine, Description: "old"},
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// Second upsert updates in place
	err = repo.UpsertReports(ctx, []catalog.Report{
		{ID: "burndown", Name: "Sprint Burndown", ChartType: catalog.ChartArea, Description: "new"},
	})
	if err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	reports, err := repo.ListReports(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("Expected 2 reports, got %d", len(reports))
	}
	if reports[0].ID != "burndown" || reports[0].Name != "Sprint Burndown" || reports[0].ChartType != catalog.ChartArea {
		t.Errorf("Expected updated burndown first, got %+v", reports[0])
	}

	got, err := repo.GetReport(ctx, "velocity")
	if err != nil || got.Name != "Velocity" {
		t.Errorf("GetReport returned %+v, %v", got, err)
	}
	if _, err := repo.GetReport(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := repo.DeleteReport(ctx, "velocity"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.DeleteReport(ctx, "velocity"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDashboardRepo_CreateAndGet(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	l := layout.New(
		layout.Row{ID: "r1", Reports: []string{"A", "B"}},
		layout.Row{ID: "r2"},
		layout.Row{ID: "r3", Reports: []string{"C"}},
	).AddRow()
	d := newTestDashboard("d-1", "Sprint 42", l)

	if err := repo.CreateDashboard(ctx, d); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if d.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	got, err := repo.GetDashboard(ctx, "d-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.Layout.Equal(l) {
		t.Errorf("Expected layout %s, got %s", l, got.Layout)
	}
	if got.Layout.RowSeq() != l.RowSeq() {
		t.Errorf("Expected row sequence %d, got %d", l.RowSeq(), got.Layout.RowSeq())
	}
	if len(got.Selected) != 3 || got.Selected[0] != "A" {
		t.Errorf("Expected selection [A B C], got %v", got.Selected)
	}

	byName, err := repo.GetDashboardByName(ctx, "Sprint 42")
	if err != nil || byName.ID != "d-1" {
		t.Errorf("GetDashboardByName returned %v, %v", byName, err)
	}

	if _, err := repo.GetDashboard(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDashboardRepo_DuplicateName(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.CreateDashboard(ctx, newTestDashboard("d-1", "Team", layout.New())); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err := repo.CreateDashboard(ctx, newTestDashboard("d-2", "Team", layout.New()))
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName, got %v", err)
	}
}

func TestDashboardRepo_SaveLayout(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	l := layout.New(
		layout.Row{ID: "r1", Reports: []string{"A", "B"}},
		layout.Row{ID: "r2", Reports: []string{"C"}},
	)
	if err := repo.CreateDashboard(ctx, newTestDashboard("d-1", "Main", l)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	next := layout.Move(l, layout.DragResult{ReportID: "B", SourceRowID: "r1", Target: layout.RowZone("r2")})
	if err := repo.SaveLayout(ctx, "d-1", next); err != nil {
		t.Fatalf("SaveLayout failed: %v", err)
	}

	got, err := repo.GetDashboard(ctx, "d-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Layout.String() != "[r1:A] [r2:C,B]" {
		t.Errorf("Expected persisted move, got %s", got.Layout)
	}

	// Removing a row and saving must not leave stale rows behind
	if err := repo.SaveLayout(ctx, "d-1", got.Layout.RemoveRow("r2")); err != nil {
		t.Fatalf("SaveLayout failed: %v", err)
	}
	got, _ = repo.GetDashboard(ctx, "d-1")
	if got.Layout.String() != "[r1:A,C,B]" {
		t.Errorf("Expected merged row, got %s", got.Layout)
	}

	loaded, err := repo.LoadLayout(ctx, "d-1")
	if err != nil {
		t.Fatalf("LoadLayout failed: %v", err)
	}
	if !loaded.Equal(got.Layout) || loaded.RowSeq() != got.Layout.RowSeq() {
		t.Errorf("Expected LoadLayout to match GetDashboard, got %s", loaded)
	}
	if _, err := repo.LoadLayout(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := repo.SaveLayout(ctx, "missing", next); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	bad := layout.New(layout.Row{ID: "r1", Reports: []string{"A"}}, layout.Row{ID: "r2", Reports: []string{"A"}})
	if err := repo.SaveLayout(ctx, "d-1", bad); !errors.Is(err, layout.ErrDuplicateReport) {
		t.Errorf("Expected ErrDuplicateReport, got %v", err)
	}
}

func TestDashboardRepo_SelectionAndList(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	l := layout.New(layout.Row{ID: "r1", Reports: []string{"A", "B"}})
	if err := repo.CreateDashboard(ctx, newTestDashboard("d-1", "Beta", l)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.CreateDashboard(ctx, newTestDashboard("d-2", "Alpha", layout.New())); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.SetSelected(ctx, "d-1", "A", false); err != nil {
		t.Fatalf("Deselect failed: %v", err)
	}
	if err := repo.SetSelected(ctx, "d-1", "Z", true); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	got, _ := repo.GetDashboard(ctx, "d-1")
	if len(got.Selected) != 2 || got.Selected[0] != "B" || got.Selected[1] != "Z" {
		t.Errorf("Expected selection [B Z], got %v", got.Selected)
	}
	selected, err := repo.ListSelected(ctx, "d-1")
	if err != nil || len(selected) != 2 || selected[1] != "Z" {
		t.Errorf("ListSelected returned %v, %v", selected, err)
	}

	list, err := repo.ListDashboards(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Alpha" {
		t.Fatalf("Expected dashboards ordered by name, got %+v", list)
	}
	if list[1].RowCount != 1 || list[1].ReportCount != 2 {
		t.Errorf("Expected 1 row and 2 reports for Beta, got %+v", list[1])
	}

	if err := repo.DeleteDashboard(ctx, "d-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.DeleteDashboard(ctx, "d-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDashboardRepo_SaveLayoutAndSelect(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	l := layout.New(
		layout.Row{ID: "r1", Reports: []string{"A", "B"}},
		layout.Row{ID: "r2", Reports: []string{"C"}},
	)
	if err := repo.CreateDashboard(ctx, newTestDashboard("d-1", "Main", l)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	next, removed := l.RemoveReportFromRow("r1", "B")
	if err := repo.SaveLayoutAndSelect(ctx, "d-1", next, removed, false); err != nil {
		t.Fatalf("SaveLayoutAndSelect failed: %v", err)
	}
	got, _ := repo.GetDashboard(ctx, "d-1")
	if got.Layout.String() != "[r1:A] [r2:C]" {
		t.Errorf("Expected B removed, got %s", got.Layout)
	}
	if got.IsSelected("B") || !got.IsSelected("A") {
		t.Errorf("Expected only B deselected, got %v", got.Selected)
	}

	placed := next.PlaceReport("D")
	if err := repo.SaveLayoutAndSelect(ctx, "d-1", placed, "D", true); err != nil {
		t.Fatalf("SaveLayoutAndSelect failed: %v", err)
	}
	got, _ = repo.GetDashboard(ctx, "d-1")
	if got.Layout.String() != "[r1:A] [r2:C,D]" || !got.IsSelected("D") {
		t.Errorf("Expected D placed and selected, got %s %v", got.Layout, got.Selected)
	}
	next = placed

	if err := repo.SaveLayoutAndSelect(ctx, "missing", next, "A", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	// An invalid layout is rejected before the selection is touched
	bad := layout.New(layout.Row{ID: "r1", Reports: []string{"A"}}, layout.Row{ID: "r2", Reports: []string{"A"}})
	if err := repo.SaveLayoutAndSelect(ctx, "d-1", bad, "A", false); !errors.Is(err, layout.ErrDuplicateReport) {
		t.Errorf("Expected ErrDuplicateReport, got %v", err)
	}
	got, _ = repo.GetDashboard(ctx, "d-1")
	if !got.IsSelected("A") || got.Layout.String() != "[r1:A] [r2:C,D]" {
		t.Errorf("Expected dashboard untouched, got %s %v", got.Layout, got.Selected)
	}
}
