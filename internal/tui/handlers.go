package tui

import (
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"github.com/sparksai/dashlayout/internal/layout"
	dashboardservice "github.com/sparksai/dashlayout/internal/services/dashboard"
)

// handleNavigate moves the cursor. While dragging, the hover target
// follows the cursor.
func (m Model) handleNavigate(dRow, dCol int) (tea.Model, tea.Cmd) {
	m.cursor.row += dRow
	m.cursor.col += dCol
	m.clampCursor()

	if m.session.Active() {
		m.session.UpdateHoverTarget(m.hoverTarget())
	}
	return m, nil
}

func (m Model) handlePickUp() (tea.Model, tea.Cmd) {
	id, ok := m.focusedReport()
	if !ok {
		return m, nil
	}
	row := m.currentRow()
	if err := m.session.StartDrag(id, row.ID); err != nil {
		m.notify(LevelError, "cannot pick up %s: %v", m.reportName(id), err)
		return m, nil
	}
	m.session.UpdateHoverTarget(layout.Card(row.ID, id))
	m.notify(LevelInfo, "moving %s", m.reportName(id))
	return m, nil
}

func (m Model) handleCancel() (tea.Model, tea.Cmd) {
	if !m.session.Active() {
		return m, nil
	}
	id, _ := m.session.Dragged()
	m.session.Cancel()
	m.focus(id)
	return m, nil
}

func (m Model) handleDrop() (tea.Model, tea.Cmd) {
	dragged, _ := m.session.Dragged()
	result, ok := m.session.EndDrag()
	if !ok {
		m.focus(dragged)
		return m, nil
	}

	res, err := m.dashboards.Drop(m.ctx, m.dashboard.ID, result)
	if err != nil {
		slog.Error("failed to drop report", "report_id", result.ReportID, "error", err)
		m.notify(LevelError, "failed to move %s: %v", m.reportName(result.ReportID), err)
		m.focus(result.ReportID)
		return m, nil
	}
	m.apply(res)
	m.focus(result.ReportID)
	return m, nil
}

func (m Model) handleAddRow() (tea.Model, tea.Cmd) {
	res, err := m.dashboards.AddRow(m.ctx, m.dashboard.ID)
	if err != nil {
		m.notify(LevelError, "failed to add row: %v", err)
		return m, nil
	}
	m.apply(res)
	m.cursor = cursor{row: m.dashboard.Layout.Len() - 1}
	m.clampCursor()
	return m, nil
}

func (m Model) handleRemoveRow() (tea.Model, tea.Cmd) {
	row := m.currentRow()
	if row.ID == "" {
		return m, nil
	}
	res, err := m.dashboards.RemoveRow(m.ctx, m.dashboard.ID, row.ID)
	if err != nil {
		m.notify(LevelError, "failed to remove row: %v", err)
		return m, nil
	}
	m.apply(res)
	m.clampCursor()
	return m, nil
}

func (m Model) handleRemoveReport() (tea.Model, tea.Cmd) {
	id, ok := m.focusedReport()
	if !ok {
		return m, nil
	}
	res, err := m.dashboards.RemoveReport(m.ctx, m.dashboard.ID, m.currentRow().ID, id)
	if err != nil {
		m.notify(LevelError, "failed to remove %s: %v", m.reportName(id), err)
		return m, nil
	}
	m.apply(res)
	m.clampCursor()
	if res.Changed {
		m.notify(LevelInfo, "removed %s", m.reportName(id))
	}
	return m, nil
}

// apply adopts the dashboard returned by an edit and surfaces its notice
func (m *Model) apply(res *dashboardservice.Result) {
	m.dashboard = res.Dashboard
	if res.Notice != "" {
		m.notify(LevelWarning, "%s", res.Notice)
	}
}
