package database

import (
	"context"

	"github.com/sparksai/dashlayout/internal/catalog"
	"github.com/sparksai/dashlayout/internal/layout"
	"github.com/sparksai/dashlayout/internal/models"
)

// ReportStore persists the report catalog
type ReportStore interface {
	UpsertReports(ctx context.Context, reports []catalog.Report) error
	ListReports(ctx context.Context) ([]catalog.Report, error)
	GetReport(ctx context.Context, id string) (catalog.Report, error)
	DeleteReport(ctx context.Context, id string) error
}

// DashboardStore persists dashboards and their layouts
type DashboardStore interface {
	CreateDashboard(ctx context.Context, d *models.Dashboard) error
	GetDashboard(ctx context.Context, id string) (*models.Dashboard, error)
	GetDashboardByName(ctx context.Context, name string) (*models.Dashboard, error)
	ListDashboards(ctx context.Context) ([]*models.DashboardSummary, error)
	DeleteDashboard(ctx context.Context, id string) error
	SaveLayout(ctx context.Context, dashboardID string, l *layout.Layout) error
	SaveLayoutAndSelect(ctx context.Context, dashboardID string, l *layout.Layout, reportID string, selected bool) error
	LoadLayout(ctx context.Context, dashboardID string) (*layout.Layout, error)
	ListSelected(ctx context.Context, dashboardID string) ([]string, error)
	SetSelected(ctx context.Context, dashboardID, reportID string, selected bool) error
}

// DataStore defines the unified interface for all data operations.
// Consumers can depend on the smaller interfaces for clearer dependencies.
type DataStore interface {
	ReportStore
	DashboardStore
}

// Compile-time verification that *Repository implements DataStore
var _ DataStore = (*Repository)(nil)
