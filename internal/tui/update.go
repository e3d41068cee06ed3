package tui

import (
	"log/slog"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/sparksai/dashlayout/internal/events"
)

// Update handles all messages and updates the model accordingly
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case RefreshMsg:
		return m.handleRefresh(msg.Event)

	case eventsClosedMsg:
		m.eventChan = nil
		m.notify(LevelWarning, "lost connection to daemon; live updates stopped")
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	m.note.clear()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		return m.handleCancel()
	case key.Matches(msg, m.keys.Left):
		return m.handleNavigate(0, -1)
	case key.Matches(msg, m.keys.Right):
		return m.handleNavigate(0, 1)
	case key.Matches(msg, m.keys.Up):
		return m.handleNavigate(-1, 0)
	case key.Matches(msg, m.keys.Down):
		return m.handleNavigate(1, 0)
	case key.Matches(msg, m.keys.Grab):
		if m.session.Active() {
			return m.handleDrop()
		}
		return m.handlePickUp()
	}

	// Structural edits are disabled mid-drag
	if m.session.Active() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.AddRow):
		return m.handleAddRow()
	case key.Matches(msg, m.keys.RemoveRow):
		return m.handleRemoveRow()
	case key.Matches(msg, m.keys.RemoveReport):
		return m.handleRemoveReport()
	}
	return m, nil
}

// handleRefresh reloads the dashboard after a change made elsewhere. An
// in-flight drag survives; a drop whose source moved is reported stale.
func (m Model) handleRefresh(event events.Event) (tea.Model, tea.Cmd) {
	if event.Type == events.EventCatalogChanged {
		cat, err := m.catalogs.Catalog(m.ctx)
		if err != nil {
			slog.Error("failed to reload catalog", "error", err)
		} else {
			m.catalog = cat
		}
	}

	d, err := m.dashboards.GetDashboard(m.ctx, m.dashboard.ID)
	if err != nil {
		slog.Error("failed to reload dashboard", "dashboard_id", m.dashboard.ID, "error", err)
		m.notify(LevelError, "failed to reload dashboard: %v", err)
		return m, m.waitForEvent()
	}
	m.dashboard = d
	m.clampCursor()
	if m.session.Active() {
		m.session.UpdateHoverTarget(m.hoverTarget())
	}
	return m, m.waitForEvent()
}
