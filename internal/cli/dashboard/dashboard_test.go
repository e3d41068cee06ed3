package dashboard

import (
	"context"
	"strings"
	"testing"

	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/sparksai/dashlayout/internal/layout"
	"github.com/sparksai/dashlayout/internal/testutil"
	clitest "github.com/sparksai/dashlayout/internal/testutil/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDashboard_Integration(t *testing.T) {
	db, app := clitest.SetupCLITest(t)
	ctx := context.Background()
	_ = db

	tests := []struct {
		name         string
		flags        []string
		expectedCode int
		wantLayout   string
		verifyOutput func(t *testing.T, output string)
	}{
		{
			name:       "Empty dashboard gets one empty row",
			flags:      []string{"--name", "Empty"},
			wantLayout: "[row-1:]",
			verifyOutput: func(t *testing.T, output string) {
				assert.Contains(t, output, "Dashboard 'Empty' created")
				assert.Contains(t, output, "(empty)")
			},
		},
		{
			name:       "Reports are arranged per row",
			flags:      []string{"--name", "Sprint 42", "--reports", "velocity,burndown,cycle-time", "--per-row", "2"},
			wantLayout: "[row-1:velocity,burndown] [row-2:cycle-time]",
			verifyOutput: func(t *testing.T, output string) {
				assert.Contains(t, output, "Velocity")
				assert.Contains(t, output, "Cycle Time")
			},
		},
		{
			name:         "Unknown report is rejected with a suggestion",
			flags:        []string{"--name", "Typo", "--reports", "velocty"},
			expectedCode: cli.ExitNotFound,
		},
		{
			name:         "Duplicate name",
			flags:        []string{"--name", "Sprint 42"},
			expectedCode: cli.ExitValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"create"}, tt.flags...)
			output, err := clitest.ExecuteCLICommand(t, app, DashboardCmd(), args)

			if tt.expectedCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.expectedCode, cli.ExitCode(err))
				return
			}
			require.NoError(t, err)
			if tt.verifyOutput != nil {
				tt.verifyOutput(t, output)
			}

			var name string
			for i, f := range tt.flags {
				if f == "--name" {
					name = tt.flags[i+1]
				}
			}
			d, err := app.DashboardService.GetDashboard(ctx, name)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLayout, d.Layout.String())
		})
	}
}

func TestCreateDashboard_QuietAndJSON(t *testing.T) {
	_, app := clitest.SetupCLITest(t)

	output, err := clitest.ExecuteCLICommand(t, app, DashboardCmd(),
		[]string{"create", "--name", "Quiet", "--quiet"})
	require.NoError(t, err)
	id := strings.TrimSpace(output)
	assert.NotEmpty(t, id)

	d, err := app.DashboardService.GetDashboard(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Quiet", d.Name)

	output, err = clitest.ExecuteCLICommand(t, app, DashboardCmd(),
		[]string{"create", "--name", "Loud", "--reports", "velocity", "--json"})
	require.NoError(t, err)
	result := testutil.ParseJSON(t, output)
	assert.Equal(t, true, result["success"])
	dash, ok := result["dashboard"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Loud", dash["name"])
	assert.Equal(t, []any{"velocity"}, dash["selected"])
}

func TestCreateDashboard_JSONError(t *testing.T) {
	_, app := clitest.SetupCLITest(t)

	output, err := clitest.ExecuteCLICommand(t, app, DashboardCmd(),
		[]string{"create", "--name", "Typo", "--reports", "burndwn", "--json"})
	require.Error(t, err)

	result := testutil.ParseJSON(t, output)
	assert.Equal(t, false, result["success"])
	errData, ok := result["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "REPORT_NOT_FOUND", errData["code"])
	assert.Contains(t, errData["suggestion"], "burndown")
}

func TestListDashboards(t *testing.T) {
	db, app := clitest.SetupCLITest(t)

	output, err := clitest.ExecuteCLICommand(t, app, DashboardCmd(), []string{"list"})
	require.NoError(t, err)
	assert.Contains(t, output, "No dashboards found")

	testutil.SeedDashboard(t, db, "d-1", "Beta", layout.Row{ID: "r1", Reports: []string{"velocity"}})
	testutil.SeedDashboard(t, db, "d-2", "Alpha", layout.Row{ID: "r1"})

	output, err = clitest.ExecuteCLICommand(t, app, DashboardCmd(), []string{"list", "--quiet"})
	require.NoError(t, err)
	assert.Equal(t, "d-2\nd-1\n", output)

	output, err = clitest.ExecuteCLICommand(t, app, DashboardCmd(), []string{"list"})
	require.NoError(t, err)
	assert.Contains(t, output, "Found 2 dashboards")
	assert.Contains(t, output, "1 rows, 1 reports")
}

func TestShowDashboard(t *testing.T) {
	db, app := clitest.SetupCLITest(t)
	testutil.SeedDashboard(t, db, "d-1", "Sprint 42",
		layout.Row{ID: "r1", Reports: []string{"velocity", "burndown"}},
		layout.Row{ID: "r2", Reports: []string{"cycle-time"}},
	)

	output, err := clitest.ExecuteCLICommand(t, app, DashboardCmd(), []string{"show", "Sprint 42", "--quiet"})
	require.NoError(t, err)
	assert.Equal(t, "[r1:velocity,burndown] [r2:cycle-time]\n", output)

	output, err = clitest.ExecuteCLICommand(t, app, DashboardCmd(), []string{"show", "--dashboard", "d-1"})
	require.NoError(t, err)
	assert.Contains(t, output, "Sprint 42")
	assert.Contains(t, output, "Velocity [bar] · Burndown [line]")

	_, err = clitest.ExecuteCLICommand(t, app, DashboardCmd(), []string{"show", "Sprint 24"})
	require.Error(t, err)
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
}

func TestShowDashboard_FromEnv(t *testing.T) {
	db, app := clitest.SetupCLITest(t)
	testutil.SeedDashboard(t, db, "d-1", "Sprint 42", layout.Row{ID: "r1", Reports: []string{"velocity"}})
	t.Setenv(cli.DashboardEnv, "Sprint 42")

	output, err := clitest.ExecuteCLICommand(t, app, DashboardCmd(), []string{"show", "--quiet"})
	require.NoError(t, err)
	assert.Equal(t, "[r1:velocity]\n", output)
}

func TestShowDashboard_MissingRef(t *testing.T) {
	_, app := clitest.SetupCLITest(t)
	t.Setenv(cli.DashboardEnv, "")

	_, err := clitest.ExecuteCLICommand(t, app, DashboardCmd(), []string{"show"})
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestDeleteDashboard(t *testing.T) {
	db, app := clitest.SetupCLITest(t)
	ctx := context.Background()
	testutil.SeedDashboard(t, db, "d-1", "Sprint 42", layout.Row{ID: "r1"})

	// Declined confirmation keeps the dashboard
	cmd := DashboardCmd()
	cmd.SetIn(strings.NewReader("n\n"))
	output, err := clitest.ExecuteCLICommand(t, app, cmd, []string{"delete", "Sprint 42"})
	require.NoError(t, err)
	assert.Contains(t, output, "Cancelled")
	_, err = app.DashboardService.GetDashboard(ctx, "d-1")
	require.NoError(t, err)

	cmd = DashboardCmd()
	cmd.SetIn(strings.NewReader("y\n"))
	output, err = clitest.ExecuteCLICommand(t, app, cmd, []string{"delete", "Sprint 42"})
	require.NoError(t, err)
	assert.Contains(t, output, "Dashboard 'Sprint 42' deleted")
	_, err = app.DashboardService.GetDashboard(ctx, "d-1")
	require.Error(t, err)

	_, err = clitest.ExecuteCLICommand(t, app, DashboardCmd(), []string{"delete", "Sprint 42", "--force"})
	require.Error(t, err)
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
}
