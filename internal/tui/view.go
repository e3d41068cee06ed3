package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"
	clistyles "github.com/sparksai/dashlayout/internal/cli/styles"
	"github.com/sparksai/dashlayout/internal/layout"
)

const (
	descriptionWidth = 60
	minNoteWidth     = 20
)

// View renders the dashboard rows, the focused report and the status bar
func (m Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width == 0 {
		view.Content = "Loading..."
		return view
	}

	sections := []string{m.renderHeader()}
	for i, row := range m.rows() {
		sections = append(sections, m.renderRow(i, row))
	}
	if desc := m.renderDescription(); desc != "" {
		sections = append(sections, desc)
	}
	sections = append(sections, m.renderStatusBar())
	m.help.ShowAll = m.showHelp
	sections = append(sections, m.help.View(m.keys))

	view.Content = lipgloss.JoinVertical(lipgloss.Left, sections...)
	return view
}

func (m Model) renderHeader() string {
	title := m.styles.title.Render(m.dashboard.Name)
	meta := m.styles.subtle.Render(fmt.Sprintf("%d rows · %d reports",
		m.dashboard.Layout.Len(), m.dashboard.Layout.ReportCount()))
	return title + "  " + meta + "\n"
}

func (m Model) renderRow(index int, row layout.Row) string {
	focused := index == m.cursor.row
	hover := m.session.Hover()
	dragged, _ := m.session.Dragged()

	cards := make([]string, 0, len(row.Reports)+1)
	for col, id := range row.Reports {
		style := m.styles.card
		switch {
		case m.session.Active() && hover.IsCard() && hover.ReportID == id:
			style = m.styles.dropCard
		case m.session.Active() && id == dragged:
			style = m.styles.dragging
		case focused && col == m.cursor.col:
			style = m.styles.selected
		}
		cards = append(cards, style.Render(m.renderCard(id)))
	}

	switch {
	case m.session.Active() && !hover.IsCard() && hover.RowID == row.ID:
		cards = append(cards, m.styles.dropZone.Render("drop here"))
	case len(row.Reports) == 0 || m.session.Active():
		cards = append(cards, m.styles.emptyZone.Render("(empty)"))
	}

	label := m.styles.rowLabel.Render(row.ID)
	body := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	style := m.styles.row
	if focused {
		style = m.styles.rowFocus
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, label, style.Render(body))
}

func (m Model) renderCard(id string) string {
	r, ok := m.catalog.Get(id)
	if !ok {
		return m.styles.subtle.Render(id + "\n(unknown)")
	}
	return r.Name + "\n" + clistyles.RenderChartChip(r.ChartType)
}

func (m Model) renderDescription() string {
	id, ok := m.focusedReport()
	if !ok || m.session.Active() {
		return ""
	}
	r, ok := m.catalog.Get(id)
	if !ok || r.Description == "" {
		return ""
	}
	width := descriptionWidth
	if m.width > 0 && m.width < width {
		width = m.width
	}
	return "\n" + clistyles.RenderMarkdown(r.Description, width)
}

func (m Model) renderStatusBar() string {
	var parts []string
	if m.session.Active() {
		id, src := m.session.Dragged()
		parts = append(parts, fmt.Sprintf("dragging %s from %s", m.reportName(id), src))
	}
	if m.eventChan != nil {
		parts = append(parts, "live")
	}
	bar := m.styles.statusBar.Render(strings.Join(parts, " · "))
	if m.note.active() {
		note := wordwrap.String(m.note.message, max(m.width/2, minNoteWidth))
		bar = lipgloss.JoinHorizontal(lipgloss.Top,
			m.styles.notification(m.note.level).Render(note), bar)
	}
	return "\n" + bar
}
