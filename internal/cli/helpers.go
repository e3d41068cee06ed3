package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sparksai/dashlayout/internal/catalog"
	"github.com/sparksai/dashlayout/internal/layout"
	"github.com/sparksai/dashlayout/internal/models"
	catalogservice "github.com/sparksai/dashlayout/internal/services/catalog"
	dashboardservice "github.com/sparksai/dashlayout/internal/services/dashboard"
	"github.com/spf13/cobra"
)

// DashboardEnv names the dashboard used when --dashboard is not given
const DashboardEnv = "DASHLAYOUT_DASHBOARD"

const maxSuggestions = 3

// classification maps a sentinel error to its output code and exit code
type classification struct {
	target   error
	code     string
	exitCode int
}

var classifications = []classification{
	{dashboardservice.ErrDashboardNotFound, "DASHBOARD_NOT_FOUND", ExitNotFound},
	{dashboardservice.ErrRowNotFound, "ROW_NOT_FOUND", ExitNotFound},
	{dashboardservice.ErrReportNotPlaced, "REPORT_NOT_PLACED", ExitNotFound},
	{dashboardservice.ErrUnknownReport, "REPORT_NOT_FOUND", ExitNotFound},
	{catalogservice.ErrReportNotFound, "REPORT_NOT_FOUND", ExitNotFound},
	{fs.ErrNotExist, "FILE_NOT_FOUND", ExitNotFound},

	{dashboardservice.ErrEmptyName, "VALIDATION_ERROR", ExitValidation},
	{dashboardservice.ErrNameTooLong, "VALIDATION_ERROR", ExitValidation},
	{dashboardservice.ErrEmptyReference, "VALIDATION_ERROR", ExitValidation},
	{dashboardservice.ErrDuplicateName, "DUPLICATE_NAME", ExitValidation},
	{catalog.ErrEmptyID, "VALIDATION_ERROR", ExitValidation},
	{catalog.ErrEmptyName, "VALIDATION_ERROR", ExitValidation},
	{catalog.ErrInvalidChartType, "VALIDATION_ERROR", ExitValidation},
	{catalog.ErrDuplicateID, "VALIDATION_ERROR", ExitValidation},

	{catalogservice.ErrEmptyCatalog, "DATA_ERROR", ExitDataErr},
	{catalogservice.ErrEmptyPath, "USAGE_ERROR", ExitUsage},
	{layout.ErrInvalidState, "INVALID_DRAG_STATE", ExitDataErr},
	{layout.ErrDuplicateReport, "DATA_ERROR", ExitDataErr},
	{layout.ErrNoRows, "DATA_ERROR", ExitDataErr},
}

// Classify returns the output code and exit code for a command error
func Classify(err error) (string, int) {
	for _, c := range classifications {
		if errors.Is(err, c.target) {
			return c.code, c.exitCode
		}
	}
	return "ERROR", ExitError
}

// DashboardRef returns the --dashboard flag, falling back to
// DASHLAYOUT_DASHBOARD
func DashboardRef(cmd *cobra.Command) string {
	ref, _ := cmd.Flags().GetString("dashboard")
	if strings.TrimSpace(ref) == "" {
		ref = os.Getenv(DashboardEnv)
	}
	return strings.TrimSpace(ref)
}

// Suggestion formats close matches as a hint, or returns ""
func Suggestion(matches []string) string {
	if len(matches) == 0 {
		return ""
	}
	return fmt.Sprintf("did you mean %s?", strings.Join(matches, ", "))
}

// SuggestDashboard proposes dashboard names close to ref
func SuggestDashboard(ctx context.Context, c *CLI, ref string) string {
	list, err := c.App.DashboardService.ListDashboards(ctx)
	if err != nil {
		return ""
	}
	names := make([]string, 0, len(list))
	for _, d := range list {
		names = append(names, d.Name)
	}
	return Suggestion(catalog.Closest(ref, names, maxSuggestions))
}

// SuggestReport proposes catalog IDs close to an unknown report ID
func SuggestReport(ctx context.Context, c *CLI, id string) string {
	cat, err := c.App.CatalogService.Catalog(ctx)
	if err != nil {
		return ""
	}
	return Suggestion(cat.Suggest(id, maxSuggestions))
}

// SuggestRow proposes row IDs of d close to an unknown row ID
func SuggestRow(d *models.Dashboard, rowID string) string {
	if d == nil || d.Layout == nil {
		return ""
	}
	ids := make([]string, 0, d.Layout.Len())
	for _, r := range d.Layout.Rows() {
		ids = append(ids, r.ID)
	}
	return Suggestion(catalog.Closest(rowID, ids, maxSuggestions))
}

// SuggestFor picks the hint matching the kind of lookup that failed
func SuggestFor(ctx context.Context, c *CLI, err error, ref, rowID, reportID string) string {
	switch {
	case errors.Is(err, dashboardservice.ErrDashboardNotFound):
		return SuggestDashboard(ctx, c, ref)
	case errors.Is(err, dashboardservice.ErrUnknownReport), errors.Is(err, catalogservice.ErrReportNotFound):
		return SuggestReport(ctx, c, reportID)
	case errors.Is(err, dashboardservice.ErrRowNotFound):
		d, getErr := c.App.DashboardService.GetDashboard(ctx, ref)
		if getErr != nil {
			return ""
		}
		return SuggestRow(d, rowID)
	}
	return ""
}
