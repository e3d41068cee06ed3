// Package tui is the terminal arranger: rows of report cards that can be
// picked up, moved with the cursor and dropped onto another row or card.
package tui

import (
	"context"
	"fmt"
	"log/slog"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	"github.com/sparksai/dashlayout/internal/app"
	"github.com/sparksai/dashlayout/internal/catalog"
	"github.com/sparksai/dashlayout/internal/config"
	"github.com/sparksai/dashlayout/internal/events"
	"github.com/sparksai/dashlayout/internal/layout"
	"github.com/sparksai/dashlayout/internal/models"
	catalogservice "github.com/sparksai/dashlayout/internal/services/catalog"
	dashboardservice "github.com/sparksai/dashlayout/internal/services/dashboard"
)

// cursor addresses a card slot. While dragging, col may equal the number
// of reports in the row, which addresses the row's drop zone.
type cursor struct {
	row int
	col int
}

// Model represents the arranger state
type Model struct {
	ctx context.Context

	dashboards  dashboardservice.Service
	catalogs    catalogservice.Service
	eventClient events.EventPublisher
	eventChan   <-chan events.Event

	keys     keyMap
	help     help.Model
	styles   styles
	showHelp bool

	dashboard *models.Dashboard
	catalog   *catalog.Catalog
	session   layout.Session
	cursor    cursor
	note      notification

	width  int
	height int
}

// RefreshMsg is sent when the daemon reports a change made elsewhere
type RefreshMsg struct {
	Event events.Event
}

// eventsClosedMsg is sent when the daemon connection is gone for good
type eventsClosedMsg struct{}

// New loads a dashboard and builds the arranger for it. When the App has
// a daemon connection the arranger follows changes made by other
// processes.
func New(ctx context.Context, a *app.App, ref string) (Model, error) {
	d, err := a.DashboardService.GetDashboard(ctx, ref)
	if err != nil {
		return Model{}, err
	}
	cat, err := a.CatalogService.Catalog(ctx)
	if err != nil {
		return Model{}, err
	}

	cfg := a.Config
	if cfg == nil {
		cfg = config.Default()
	}

	m := Model{
		ctx:         ctx,
		dashboards:  a.DashboardService,
		catalogs:    a.CatalogService,
		eventClient: a.EventClient(),
		keys:        newKeyMap(cfg.KeyMappings),
		help:        help.New(),
		styles:      newStyles(cfg.ColorScheme),
		dashboard:   d,
		catalog:     cat,
	}

	if m.eventClient != nil {
		if err := m.eventClient.Subscribe(d.ID); err != nil {
			slog.Warn("failed to subscribe to dashboard", "dashboard_id", d.ID, "error", err)
		}
		ch, err := m.eventClient.Listen(ctx)
		if err != nil {
			slog.Warn("live updates unavailable", "error", err)
		} else {
			m.eventChan = ch
		}
	}
	return m, nil
}

// Init starts listening for daemon events
func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that blocks until the daemon sends an
// event. It returns nil when there is no daemon connection.
func (m Model) waitForEvent() tea.Cmd {
	if m.eventChan == nil {
		return nil
	}
	ch := m.eventChan
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case event, ok := <-ch:
			if !ok {
				return eventsClosedMsg{}
			}
			return RefreshMsg{Event: event}
		case <-ctx.Done():
			return nil
		}
	}
}

// Dashboard returns the dashboard as currently shown
func (m Model) Dashboard() *models.Dashboard {
	return m.dashboard
}

// Dragging reports whether a card is picked up
func (m Model) Dragging() bool {
	return m.session.Active()
}

// rows returns the rows of the current layout
func (m Model) rows() []layout.Row {
	return m.dashboard.Layout.Rows()
}

// currentRow returns the row under the cursor
func (m Model) currentRow() layout.Row {
	row, _ := m.dashboard.Layout.RowAt(m.cursor.row)
	return row
}

// focusedReport returns the report under the cursor, if any
func (m Model) focusedReport() (string, bool) {
	row := m.currentRow()
	if m.cursor.col < 0 || m.cursor.col >= len(row.Reports) {
		return "", false
	}
	return row.Reports[m.cursor.col], true
}

// hoverTarget is the drop target under the cursor
func (m Model) hoverTarget() layout.DropTarget {
	row := m.currentRow()
	if row.ID == "" {
		return layout.DropTarget{}
	}
	if id, ok := m.focusedReport(); ok {
		return layout.Card(row.ID, id)
	}
	return layout.RowZone(row.ID)
}

// clampCursor keeps the cursor on an existing row and slot
func (m *Model) clampCursor() {
	n := m.dashboard.Layout.Len()
	m.cursor.row = max(0, min(m.cursor.row, n-1))

	row := m.currentRow()
	last := len(row.Reports) - 1
	if m.session.Active() {
		// The slot after the last card is the drop zone
		last = len(row.Reports)
	}
	m.cursor.col = max(0, min(m.cursor.col, last))
}

// focus moves the cursor onto a report, wherever it now is
func (m *Model) focus(reportID string) {
	rowID, idx, ok := m.dashboard.Layout.RowOf(reportID)
	if !ok {
		m.clampCursor()
		return
	}
	for i, r := range m.rows() {
		if r.ID == rowID {
			m.cursor = cursor{row: i, col: idx}
			return
		}
	}
}

// reportName returns the display name of a report
func (m Model) reportName(id string) string {
	return m.catalog.Name(id)
}

func (m *Model) notify(level Level, format string, args ...any) {
	m.note.set(level, fmt.Sprintf(format, args...))
}
