package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/sparksai/dashlayout/internal/catalog"
	"github.com/sparksai/dashlayout/internal/layout"
	"github.com/sparksai/dashlayout/internal/models"
	catalogservice "github.com/sparksai/dashlayout/internal/services/catalog"
	dashboardservice "github.com/sparksai/dashlayout/internal/services/dashboard"
	"github.com/spf13/cobra"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{"dashboard not found", fmt.Errorf("%w: x", dashboardservice.ErrDashboardNotFound), "DASHBOARD_NOT_FOUND", ExitNotFound},
		{"row not found", dashboardservice.ErrRowNotFound, "ROW_NOT_FOUND", ExitNotFound},
		{"unknown report", dashboardservice.ErrUnknownReport, "REPORT_NOT_FOUND", ExitNotFound},
		{"missing file", fmt.Errorf("failed to read catalog file: %w", fs.ErrNotExist), "FILE_NOT_FOUND", ExitNotFound},
		{"empty name", dashboardservice.ErrEmptyName, "VALIDATION_ERROR", ExitValidation},
		{"duplicate name", dashboardservice.ErrDuplicateName, "DUPLICATE_NAME", ExitValidation},
		{"bad chart type", fmt.Errorf("report x: %w", catalog.ErrInvalidChartType), "VALIDATION_ERROR", ExitValidation},
		{"empty catalog", catalogservice.ErrEmptyCatalog, "DATA_ERROR", ExitDataErr},
		{"corrupt layout", layout.ErrDuplicateReport, "DATA_ERROR", ExitDataErr},
		{"empty path", catalogservice.ErrEmptyPath, "USAGE_ERROR", ExitUsage},
		{"anything else", errors.New("disk on fire"), "ERROR", ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit := Classify(tt.err)
			if code != tt.wantCode || exit != tt.wantExit {
				t.Errorf("Classify(%v) = %s, %d; want %s, %d", tt.err, code, exit, tt.wantCode, tt.wantExit)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != ExitSuccess {
		t.Errorf("Expected %d for nil, got %d", ExitSuccess, got)
	}
	if got := ExitCode(errors.New("plain")); got != ExitError {
		t.Errorf("Expected %d for a plain error, got %d", ExitError, got)
	}
	wrapped := fmt.Errorf("run: %w", &CommandError{Code: ExitNotFound, Err: errors.New("gone")})
	if got := ExitCode(wrapped); got != ExitNotFound {
		t.Errorf("Expected %d for a wrapped command error, got %d", ExitNotFound, got)
	}
}

func TestSuggestion(t *testing.T) {
	if got := Suggestion(nil); got != "" {
		t.Errorf("Expected no suggestion, got %q", got)
	}
	if got := Suggestion([]string{"row-1", "row-2"}); got != "did you mean row-1, row-2?" {
		t.Errorf("Unexpected suggestion %q", got)
	}
}

func TestSuggestRow(t *testing.T) {
	d := &models.Dashboard{Layout: layout.New(
		layout.Row{ID: "row-1"},
		layout.Row{ID: "row-12"},
		layout.Row{ID: "totals"},
	)}
	if got := SuggestRow(d, "row-13"); got != "did you mean row-1, row-12?" {
		t.Errorf("Unexpected suggestion %q", got)
	}
	if got := SuggestRow(nil, "row-1"); got != "" {
		t.Errorf("Expected no suggestion for nil dashboard, got %q", got)
	}
}

func TestDashboardRef(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "x"}
		cmd.Flags().String("dashboard", "", "")
		return cmd
	}

	t.Setenv(DashboardEnv, " From Env ")
	cmd := newCmd()
	if got := DashboardRef(cmd); got != "From Env" {
		t.Errorf("Expected env fallback, got %q", got)
	}

	_ = cmd.Flags().Set("dashboard", "From Flag")
	if got := DashboardRef(cmd); got != "From Flag" {
		t.Errorf("Expected flag to win, got %q", got)
	}
}
