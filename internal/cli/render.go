package cli

import (
	"fmt"
	"strings"

	"github.com/sparksai/dashlayout/internal/catalog"
	"github.com/sparksai/dashlayout/internal/cli/styles"
	"github.com/sparksai/dashlayout/internal/models"
)

// PrintDashboard writes the human-readable form of a dashboard: its name
// followed by one line per row
func PrintDashboard(d *models.Dashboard, cat *catalog.Catalog) {
	fmt.Printf("%s %s\n", styles.TitleStyle.Render(d.Name), styles.SubtitleStyle.Render("("+d.ID+")"))
	for _, row := range d.Layout.Rows() {
		fmt.Printf("  %s %s\n", styles.RowIDStyle.Render(row.ID), RowSummary(row.Reports, cat))
	}
}

// RowSummary joins the reports of a row for display
func RowSummary(reportIDs []string, cat *catalog.Catalog) string {
	if len(reportIDs) == 0 {
		return styles.SubtitleStyle.Render("(empty)")
	}
	parts := make([]string, len(reportIDs))
	for i, id := range reportIDs {
		r, ok := cat.Get(id)
		if !ok {
			r = catalog.Report{ID: id}
		}
		parts[i] = styles.RenderReportReference(r, ok)
	}
	return strings.Join(parts, " · ")
}

// PrintNotice explains why an edit left the dashboard unchanged
func PrintNotice(notice string) {
	if notice == "" {
		return
	}
	fmt.Printf("%s %s\n", styles.WarningStyle.Render("No change"), notice)
}

// PrintSuccess prints a one-line confirmation
func PrintSuccess(format string, args ...any) {
	fmt.Printf("%s %s\n", styles.SuccessStyle.Render("OK"), fmt.Sprintf(format, args...))
}
