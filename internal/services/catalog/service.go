// Package catalog is the service layer over the stored report catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sparksai/dashlayout/internal/catalog"
	"github.com/sparksai/dashlayout/internal/database"
	"github.com/sparksai/dashlayout/internal/events"
)

// Service defines all catalog operations
type Service interface {
	// Read operations
	ListReports(ctx context.Context) ([]catalog.Report, error)
	GetReport(ctx context.Context, id string) (catalog.Report, error)
	Catalog(ctx context.Context) (*catalog.Catalog, error)

	// Write operations
	ImportFile(ctx context.Context, path string) (int, error)
	Import(ctx context.Context, reports []catalog.Report) error
	DeleteReport(ctx context.Context, id string) error
}

// service implements Service with a private repository
type service struct {
	repo        database.ReportStore
	eventClient events.Publisher
}

// NewService creates a new catalog service
func NewService(repo database.ReportStore, eventClient events.Publisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// ListReports returns every report ordered by name
func (s *service) ListReports(ctx context.Context) ([]catalog.Report, error) {
	return s.repo.ListReports(ctx)
}

// GetReport returns one report. Unknown IDs wrap ErrReportNotFound.
func (s *service) GetReport(ctx context.Context, id string) (catalog.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.Report{}, catalog.ErrEmptyID
	}
	rep, err := s.repo.GetReport(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return catalog.Report{}, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	return rep, err
}

// Catalog materializes the stored reports into a lookup
func (s *service) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	reports, err := s.repo.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog.New(reports...), nil
}

// ImportFile loads a YAML catalog file and upserts every report in it.
// It returns the number of reports imported.
func (s *service) ImportFile(ctx context.Context, path string) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, ErrEmptyPath
	}
	reports, err := catalog.LoadFile(path)
	if err != nil {
		return 0, err
	}
	if err := s.Import(ctx, reports); err != nil {
		return 0, err
	}
	return len(reports), nil
}

// Import validates and upserts reports in one transaction
func (s *service) Import(ctx context.Context, reports []catalog.Report) error {
	if len(reports) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]bool, len(reports))
	for _, r := range reports {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.ID] {
			return fmt.Errorf("%w: %s", catalog.ErrDuplicateID, r.ID)
		}
		seen[r.ID] = true
	}

	if err := s.repo.UpsertReports(ctx, reports); err != nil {
		return fmt.Errorf("failed to store reports: %w", err)
	}

	s.publishCatalogEvent()
	return nil
}

// DeleteReport removes a report from the catalog. Dashboards still
// referencing it drop it on their next load.
func (s *service) DeleteReport(ctx context.Context, id string) error {
	err := s.repo.DeleteReport(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	if err != nil {
		return err
	}

	s.publishCatalogEvent()
	return nil
}

// publishCatalogEvent tells every dashboard to re-sanitize
func (s *service) publishCatalogEvent() {
	if s.eventClient == nil {
		return
	}
	if err := s.eventClient.SendEvent(events.Event{
		Type:      events.EventCatalogChanged,
		Timestamp: time.Now(),
	}); err != nil {
		slog.Warn("failed to send catalog event", "error", err)
	}
}
