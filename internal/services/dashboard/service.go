// Package dashboard applies layout edits to stored dashboards: it loads a
// dashboard, runs the layout engine, saves the result and announces it.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sparksai/dashlayout/internal/catalog"
	"github.com/sparksai/dashlayout/internal/database"
	"github.com/sparksai/dashlayout/internal/events"
	"github.com/sparksai/dashlayout/internal/layout"
	"github.com/sparksai/dashlayout/internal/models"
)

const (
	maxNameLength        = 100
	defaultReportsPerRow = 3
	publishRetries       = 3
)

// Service defines all dashboard operations. Every method taking ref
// accepts a dashboard ID or a dashboard name.
type Service interface {
	// Read operations
	GetDashboard(ctx context.Context, ref string) (*models.Dashboard, error)
	ListDashboards(ctx context.Context) ([]*models.DashboardSummary, error)

	// Write operations
	CreateDashboard(ctx context.Context, req CreateDashboardRequest) (*models.Dashboard, error)
	DeleteDashboard(ctx context.Context, ref string) error

	// Layout edits
	Drop(ctx context.Context, ref string, drop layout.DragResult) (*Result, error)
	MoveReport(ctx context.Context, ref, reportID string, target layout.DropTarget) (*Result, error)
	AddRow(ctx context.Context, ref string) (*Result, error)
	RemoveRow(ctx context.Context, ref, rowID string) (*Result, error)
	RemoveReport(ctx context.Context, ref, rowID, reportID string) (*Result, error)
	PlaceReport(ctx context.Context, ref, reportID string) (*Result, error)
}

// CreateDashboardRequest encapsulates data for creating a dashboard
type CreateDashboardRequest struct {
	Name          string
	ReportIDs     []string // initial reports, arranged in order
	ReportsPerRow int      // 0 uses the service default
}

// Result is the state of a dashboard after a layout edit
type Result struct {
	Dashboard *models.Dashboard `json:"dashboard"`
	Changed   bool              `json:"changed"`
	Outcome   *layout.Outcome   `json:"outcome,omitempty"` // drops only
	RowID     string            `json:"row_id,omitempty"`  // row created by AddRow
	Notice    string            `json:"notice,omitempty"`  // why nothing changed
}

// service implements Service with a private repository
type service struct {
	repo          database.DataStore
	eventClient   events.Publisher
	reportsPerRow int

	// Serializes load-edit-save cycles within the process
	mu sync.Mutex
}

// NewService creates a new dashboard service. reportsPerRow controls the
// default arrangement of new dashboards.
func NewService(repo database.DataStore, eventClient events.Publisher, reportsPerRow int) Service {
	if reportsPerRow <= 0 {
		reportsPerRow = defaultReportsPerRow
	}
	return &service{
		repo:          repo,
		eventClient:   eventClient,
		reportsPerRow: reportsPerRow,
	}
}

// GetDashboard loads a dashboard and drops reports the catalog no longer
// knows. A repaired layout is written back.
func (s *service) GetDashboard(ctx context.Context, ref string) (*models.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, ref)
}

// ListDashboards returns dashboard summaries ordered by name
func (s *service) ListDashboards(ctx context.Context) ([]*models.DashboardSummary, error) {
	return s.repo.ListDashboards(ctx)
}

// CreateDashboard stores a new dashboard with reports arranged
// reportsPerRow to a row. Every initial report is selected.
func (s *service) CreateDashboard(ctx context.Context, req CreateDashboardRequest) (*models.Dashboard, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range req.ReportIDs {
		if !cat.Has(id) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownReport, id)
		}
	}

	perRow := req.ReportsPerRow
	if perRow <= 0 {
		perRow = s.reportsPerRow
	}
	l := layout.Arrange(req.ReportIDs, perRow)

	d := &models.Dashboard{
		ID:       uuid.NewString(),
		Name:     name,
		Layout:   l,
		Selected: l.Reports(),
	}
	if err := s.repo.CreateDashboard(ctx, d); err != nil {
		if errors.Is(err, database.ErrDuplicateName) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		return nil, fmt.Errorf("failed to create dashboard: %w", err)
	}

	s.publishLayoutEvent(ctx, d.ID)
	return d, nil
}

// DeleteDashboard removes a dashboard and everything placed on it
func (s *service) DeleteDashboard(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteDashboard(ctx, d.ID); err != nil {
		return fmt.Errorf("failed to delete dashboard: %w", err)
	}

	s.publishLayoutEvent(ctx, d.ID)
	return nil
}

// Drop applies a completed drag gesture
func (s *service) Drop(ctx context.Context, ref string, drop layout.DragResult) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.applyDrop(ctx, d, drop)
}

// MoveReport drops a report on a target, taking the source row from the
// stored layout. It is the non-interactive form of a drag.
func (s *service) MoveReport(ctx context.Context, ref, reportID string, target layout.DropTarget) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	sourceRowID, _, ok := d.Layout.RowOf(reportID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrReportNotPlaced, reportID)
	}
	return s.applyDrop(ctx, d, layout.DragResult{
		ReportID:    reportID,
		SourceRowID: sourceRowID,
		Target:      target,
	})
}

func (s *service) applyDrop(ctx context.Context, d *models.Dashboard, drop layout.DragResult) (*Result, error) {
	next, outcome := layout.Apply(d.Layout, drop)
	res := &Result{Dashboard: d, Outcome: &outcome}
	if !outcome.Changed() {
		res.Notice = dropNotice(outcome)
		return res, nil
	}

	if err := s.save(ctx, d, next); err != nil {
		return nil, err
	}
	res.Changed = true
	return res, nil
}

// AddRow appends an empty row and reports its ID
func (s *service) AddRow(ctx context.Context, ref string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}

	next := d.Layout.AddRow()
	if err := s.save(ctx, d, next); err != nil {
		return nil, err
	}
	return &Result{Dashboard: d, Changed: true, RowID: next.NewestRowID()}, nil
}

// RemoveRow deletes a row, moving its reports to the first remaining row
func (s *service) RemoveRow(ctx context.Context, ref, rowID string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if _, ok := d.Layout.Row(rowID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}

	next := d.Layout.RemoveRow(rowID)
	if next == d.Layout {
		return &Result{Dashboard: d, Notice: "the only row cannot be removed"}, nil
	}
	if err := s.save(ctx, d, next); err != nil {
		return nil, err
	}
	return &Result{Dashboard: d, Changed: true}, nil
}

// RemoveReport takes a report off the dashboard and deselects it.
// An empty rowID looks the row up.
func (s *service) RemoveReport(ctx context.Context, ref, rowID, reportID string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if rowID == "" {
		var ok bool
		if rowID, _, ok = d.Layout.RowOf(reportID); !ok {
			return nil, fmt.Errorf("%w: %s", ErrReportNotPlaced, reportID)
		}
	} else if _, ok := d.Layout.Row(rowID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}

	next, removed := d.Layout.RemoveReportFromRow(rowID, reportID)
	if removed == "" {
		return nil, fmt.Errorf("%w: %s in row %s", ErrReportNotPlaced, reportID, rowID)
	}
	if err := s.saveSelection(ctx, d, next, removed, false); err != nil {
		return nil, err
	}

	return &Result{Dashboard: d, Changed: true}, nil
}

// PlaceReport selects a catalog report and appends it to the last row
func (s *service) PlaceReport(ctx context.Context, ref, reportID string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	if !cat.Has(reportID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReport, reportID)
	}

	d, err := s.loadWith(ctx, ref, cat)
	if err != nil {
		return nil, err
	}

	next := d.Layout.PlaceReport(reportID)
	if next == d.Layout {
		return &Result{Dashboard: d, Notice: "report is already on the dashboard"}, nil
	}
	if err := s.saveSelection(ctx, d, next, reportID, true); err != nil {
		return nil, err
	}

	return &Result{Dashboard: d, Changed: true}, nil
}

// resolve finds a dashboard by ID, then by name
func (s *service) resolve(ctx context.Context, ref string) (*models.Dashboard, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyReference
	}

	d, err := s.repo.GetDashboard(ctx, ref)
	if errors.Is(err, database.ErrNotFound) {
		d, err = s.repo.GetDashboardByName(ctx, ref)
	}
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDashboardNotFound, ref)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) load(ctx context.Context, ref string) (*models.Dashboard, error) {
	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return s.loadWith(ctx, ref, cat)
}

// loadWith resolves a dashboard and sanitizes it against cat
func (s *service) loadWith(ctx context.Context, ref string, cat *catalog.Catalog) (*models.Dashboard, error) {
	d, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	clean := layout.Sanitize(d.Layout, cat)
	if clean != d.Layout {
		slog.Info("dropping unknown reports from layout",
			"dashboard_id", d.ID,
			"before", d.Layout.ReportCount(),
			"after", clean.ReportCount())
		if err := s.repo.SaveLayout(ctx, d.ID, clean); err != nil {
			// The cleaned layout is still usable in memory
			slog.Warn("failed to persist sanitized layout", "dashboard_id", d.ID, "error", err)
		}
		d.Layout = clean
	}

	selected := d.Selected[:0:0]
	for _, id := range d.Selected {
		if cat.Has(id) {
			selected = append(selected, id)
		}
	}
	d.Selected = selected
	return d, nil
}

// save persists a new layout, updates d and announces the change
func (s *service) save(ctx context.Context, d *models.Dashboard, next *layout.Layout) error {
	if err := s.repo.SaveLayout(ctx, d.ID, next); err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}
	d.Layout = next
	d.UpdatedAt = time.Now().UTC()

	s.publishLayoutEvent(ctx, d.ID)
	return nil
}

func (s *service) catalog(ctx context.Context) (*catalog.Catalog, error) {
	reports, err := s.repo.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog.New(reports...), nil
}

// saveSelection persists a new layout together with a report's selection,
// updates d and announces the change once both are stored
func (s *service) saveSelection(ctx context.Context, d *models.Dashboard, next *layout.Layout, reportID string, selected bool) error {
	if err := s.repo.SaveLayoutAndSelect(ctx, d.ID, next, reportID, selected); err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}
	d.Layout = next
	d.UpdatedAt = time.Now().UTC()
	switch {
	case !selected:
		d.Selected = without(d.Selected, reportID)
	case !d.IsSelected(reportID):
		d.Selected = append(d.Selected, reportID)
	}

	s.publishLayoutEvent(ctx, d.ID)
	return nil
}

// publishLayoutEvent announces a changed dashboard to other processes
func (s *service) publishLayoutEvent(ctx context.Context, dashboardID string) {
	if s.eventClient == nil {
		return
	}
	err := events.PublishWithRetry(ctx, s.eventClient, events.Event{
		Type:        events.EventLayoutChanged,
		DashboardID: dashboardID,
	}, publishRetries)
	if err != nil {
		slog.Error("failed to publish layout event", "dashboard_id", dashboardID, "error", err)
	}
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func dropNotice(o layout.Outcome) string {
	switch o {
	case layout.OutcomeDuplicate:
		return "the target row already holds this report"
	case layout.OutcomeStale:
		return "the layout changed since the drag started"
	case layout.OutcomeNoTarget:
		return "the drop target does not exist"
	default:
		return ""
	}
}

func without(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
