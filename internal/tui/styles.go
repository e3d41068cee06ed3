package tui

import (
	"charm.land/lipgloss/v2"
	"github.com/sparksai/dashlayout/internal/config/colors"
)

const cardWidth = 22

// styles are the arranger styles derived from one color scheme
type styles struct {
	title     lipgloss.Style
	subtle    lipgloss.Style
	rowLabel  lipgloss.Style
	row       lipgloss.Style
	rowFocus  lipgloss.Style
	card      lipgloss.Style
	selected  lipgloss.Style
	dragging  lipgloss.Style
	dropCard  lipgloss.Style
	dropZone  lipgloss.Style
	emptyZone lipgloss.Style
	statusBar lipgloss.Style
	info      lipgloss.Style
	warning   lipgloss.Style
	error     lipgloss.Style
}

func newStyles(scheme colors.ColorScheme) styles {
	scheme.ApplyDefaults()
	c := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(scheme.CardBorder)).
		Foreground(lipgloss.Color(scheme.Normal)).
		Width(cardWidth).
		Padding(0, 1)
	zone := lipgloss.NewStyle().
		Border(lipgloss.HiddenBorder()).
		Width(cardWidth).
		Padding(0, 1).
		Foreground(lipgloss.Color(scheme.Subtle))
	row := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(scheme.RowBorder)).
		PaddingLeft(1)

	return styles{
		title:    c(scheme.Title).Bold(true),
		subtle:   c(scheme.Subtle),
		rowLabel: c(scheme.RowBorder).Width(8),
		row:      row,
		rowFocus: row.BorderForeground(lipgloss.Color(scheme.Accent)),
		card:     card,
		selected: card.BorderForeground(lipgloss.Color(scheme.SelectedBorder)).
			Background(lipgloss.Color(scheme.SelectedBg)),
		dragging: card.BorderForeground(lipgloss.Color(scheme.DragBorder)).
			BorderStyle(lipgloss.DoubleBorder()),
		dropCard:  card.BorderForeground(lipgloss.Color(scheme.DropTarget)).BorderStyle(lipgloss.ThickBorder()),
		dropZone:  zone.Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color(scheme.DropTarget)),
		emptyZone: zone,
		statusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(scheme.StatusBarText)).
			Background(lipgloss.Color(scheme.StatusBarBg)).
			Padding(0, 1),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color(scheme.InfoFg)).
			Background(lipgloss.Color(scheme.InfoBg)).
			Padding(0, 1),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(scheme.WarningFg)).
			Background(lipgloss.Color(scheme.WarningBg)).
			Padding(0, 1),
		error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(scheme.ErrorFg)).
			Background(lipgloss.Color(scheme.ErrorBg)).
			Padding(0, 1),
	}
}

func (s styles) notification(level Level) lipgloss.Style {
	switch level {
	case LevelWarning:
		return s.warning
	case LevelError:
		return s.error
	default:
		return s.info
	}
}
