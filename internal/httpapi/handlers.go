package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sparksai/dashlayout/internal/catalog"
	"github.com/sparksai/dashlayout/internal/daemon"
	"github.com/sparksai/dashlayout/internal/layout"
	catalogservice "github.com/sparksai/dashlayout/internal/services/catalog"
	dashboardservice "github.com/sparksai/dashlayout/internal/services/dashboard"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, catalogs catalogservice.Service, dashboards dashboardservice.Service) {
	e.GET("/api/reports", listReports(catalogs))

	e.GET("/api/dashboards", listDashboards(dashboards))
	e.POST("/api/dashboards", createDashboard(dashboards))
	e.GET("/api/dashboards/:id", getDashboard(dashboards))
	e.DELETE("/api/dashboards/:id", deleteDashboard(dashboards))

	e.POST("/api/dashboards/:id/rows", addRow(dashboards))
	e.DELETE("/api/dashboards/:id/rows/:row", removeRow(dashboards))
	e.POST("/api/dashboards/:id/moves", postMove(dashboards))
	e.POST("/api/dashboards/:id/reports", placeReport(dashboards))
	e.DELETE("/api/dashboards/:id/rows/:row/reports/:report", removeReport(dashboards))
}

type errorResponse struct {
	Error  string                   `json:"error"`
	Result *dashboardservice.Result `json:"result,omitempty"`
}

type createRequest struct {
	Name          string   `json:"name"`
	ReportIDs     []string `json:"report_ids"`
	ReportsPerRow int      `json:"reports_per_row"`
}

type placeRequest struct {
	ReportID string `json:"report_id"`
}

type healthResponse struct {
	Status string           `json:"status"`
	Daemon *daemon.Snapshot `json:"daemon,omitempty"`
}

func healthz(server *daemon.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := healthResponse{Status: "ok"}
		if server != nil {
			snap := server.Metrics().Snapshot()
			resp.Daemon = &snap
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func listReports(catalogs catalogservice.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		reports, err := catalogs.ListReports(c.Request().Context())
		if err != nil {
			return fail(c, err)
		}
		if reports == nil {
			reports = []catalog.Report{}
		}
		return c.JSON(http.StatusOK, reports)
	}
}

func listDashboards(dashboards dashboardservice.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := dashboards.ListDashboards(c.Request().Context())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func createDashboard(dashboards dashboardservice.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		d, err := dashboards.CreateDashboard(c.Request().Context(), dashboardservice.CreateDashboardRequest{
			Name:          req.Name,
			ReportIDs:     req.ReportIDs,
			ReportsPerRow: req.ReportsPerRow,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusCreated, d)
	}
}

func getDashboard(dashboards dashboardservice.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		d, err := dashboards.GetDashboard(c.Request().Context(), c.Param("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, d)
	}
}

func deleteDashboard(dashboards dashboardservice.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := dashboards.DeleteDashboard(c.Request().Context(), c.Param("id")); err != nil {
			return fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func addRow(dashboards dashboardservice.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := dashboards.AddRow(c.Request().Context(), c.Param("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusCreated, res)
	}
}

func removeRow(dashboards dashboardservice.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := dashboards.RemoveRow(c.Request().Context(), c.Param("id"), c.Param("row"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

// postMove applies a drop payload. Without source_row_id the source row is
// taken from the stored layout.
func postMove(dashboards dashboardservice.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var drop layout.DragResult
		if err := c.Bind(&drop); err != nil {
			return badRequest(c, "invalid body")
		}
		if strings.TrimSpace(drop.ReportID) == "" {
			return badRequest(c, "report_id is required")
		}
		if drop.Target.IsZero() {
			return badRequest(c, "target needs a row_id or a report_id")
		}

		ctx := c.Request().Context()
		var (
			res *dashboardservice.Result
			err error
		)
		if drop.SourceRowID == "" {
			res, err = dashboards.MoveReport(ctx, c.Param("id"), drop.ReportID, drop.Target)
		} else {
			res, err = dashboards.Drop(ctx, c.Param("id"), drop)
		}
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(moveStatus(res), res)
	}
}

func placeReport(dashboards dashboardservice.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req placeRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		if strings.TrimSpace(req.ReportID) == "" {
			return badRequest(c, "report_id is required")
		}
		res, err := dashboards.PlaceReport(c.Request().Context(), c.Param("id"), req.ReportID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

func removeReport(dashboards dashboardservice.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := dashboards.RemoveReport(c.Request().Context(), c.Param("id"), c.Param("row"), c.Param("report"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

// moveStatus maps drop outcomes to a status code. Drops that were refused
// because the layout disagrees with the payload are conflicts.
func moveStatus(res *dashboardservice.Result) int {
	if res.Outcome == nil {
		return http.StatusOK
	}
	switch *res.Outcome {
	case layout.OutcomeStale, layout.OutcomeDuplicate, layout.OutcomeNoTarget:
		return http.StatusConflict
	default:
		return http.StatusOK
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func fail(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		return echo.NewHTTPError(status, err.Error()).SetInternal(err)
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboardservice.ErrDashboardNotFound),
		errors.Is(err, dashboardservice.ErrRowNotFound),
		errors.Is(err, dashboardservice.ErrReportNotPlaced),
		errors.Is(err, dashboardservice.ErrUnknownReport),
		errors.Is(err, catalogservice.ErrReportNotFound):
		return http.StatusNotFound

	case errors.Is(err, dashboardservice.ErrEmptyName),
		errors.Is(err, dashboardservice.ErrNameTooLong),
		errors.Is(err, dashboardservice.ErrEmptyReference),
		errors.Is(err, catalog.ErrEmptyID):
		return http.StatusBadRequest

	case errors.Is(err, dashboardservice.ErrDuplicateName),
		errors.Is(err, layout.ErrInvalidState):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
