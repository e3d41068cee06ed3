// Package styles holds the lipgloss styles used by human-readable CLI output.
package styles

import (
	"fmt"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/sparksai/dashlayout/internal/catalog"
	"github.com/sparksai/dashlayout/internal/config/colors"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 80

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Chart:", "Rows:"
	ValueStyle    lipgloss.Style // For field values
	RowIDStyle    lipgloss.Style
	ChipStyle     lipgloss.Style // Chart type tags

	// Status styles
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style

	chartColors map[string]string
)

// Init initializes all CLI styles with the given color scheme
func Init(scheme colors.ColorScheme) {
	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(scheme.Accent)).
		Padding(1, 2).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(scheme.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(scheme.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(scheme.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(scheme.Normal))

	RowIDStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(scheme.RowBorder)).
		Width(8)

	ChipStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(scheme.Subtle))

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(scheme.InfoFg)).
		Background(lipgloss.Color(scheme.InfoBg)).
		Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(scheme.ErrorFg)).
		Background(lipgloss.Color(scheme.ErrorBg)).
		Padding(0, 1)

	WarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(scheme.WarningFg)).
		Background(lipgloss.Color(scheme.WarningBg)).
		Padding(0, 1)

	chartColors = map[string]string{
		catalog.ChartLine:  scheme.InfoBg,
		catalog.ChartBar:   scheme.Accent,
		catalog.ChartArea:  scheme.SelectedBorder,
		catalog.ChartPie:   scheme.WarningBg,
		catalog.ChartTable: scheme.Subtle,
		catalog.ChartCard:  scheme.DropTarget,
	}
}

// ═══════════════════════════════════════════════════════════════════
// HELPER FUNCTIONS
// ═══════════════════════════════════════════════════════════════════

// ColoredText renders text with a hex color
func ColoredText(text, hexColor string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexColor)).
		Render(text)
}

// RenderChartChip renders a chart type as "[bar]" in its chart color
func RenderChartChip(chartType string) string {
	hex, ok := chartColors[chartType]
	if !ok {
		return ChipStyle.Render("[" + chartType + "]")
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hex)).
		Bold(true).
		Render("[" + chartType + "]")
}

// RenderReportReference renders "Name [chart]" for a report, or the bare
// ID when the catalog does not know it
func RenderReportReference(r catalog.Report, known bool) string {
	if !known {
		return SubtitleStyle.Render(r.ID)
	}
	return fmt.Sprintf("%s %s", ValueStyle.Render(r.Name), RenderChartChip(r.ChartType))
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}

// Glamour renderers are expensive to build, so they are cached by width
var rendererCache sync.Map // map[int]*glamour.TermRenderer

func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache.Store(width, renderer)
	return renderer, nil
}

// RenderMarkdown renders a report description for the terminal. The raw
// text is returned when rendering fails.
func RenderMarkdown(md string, width int) string {
	if md == "" {
		return ""
	}
	r, err := getRenderer(width)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
