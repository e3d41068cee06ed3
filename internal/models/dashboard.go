package models

import (
	"slices"
	"time"

	"github.com/sparksai/dashlayout/internal/layout"
)

// Dashboard is a named arrangement of reports.
// The layout is immutable; services replace it wholesale after each edit.
type Dashboard struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Layout    *layout.Layout `json:"layout"`
	Selected  []string       `json:"selected"` // reports ticked for display, in selection order
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// GetID returns the dashboard ID (used by quiet CLI output)
func (d *Dashboard) GetID() string {
	return d.ID
}

// IsSelected reports whether the report is ticked for display
func (d *Dashboard) IsSelected(reportID string) bool {
	return slices.Contains(d.Selected, reportID)
}

// DashboardSummary is the list view of a dashboard
type DashboardSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RowCount    int       `json:"row_count"`
	ReportCount int       `json:"report_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetID returns the dashboard ID (used by quiet CLI output)
func (s *DashboardSummary) GetID() string {
	return s.ID
}
