// Package cli provides helpers for CLI command tests. It lives apart from
// testutil so service tests can import testutil without pulling in the app.
package cli

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sparksai/dashlayout/internal/app"
	dlcli "github.com/sparksai/dashlayout/internal/cli"
	"github.com/sparksai/dashlayout/internal/testutil"
	"github.com/spf13/cobra"
)

// SetupCLITest creates an in-memory DB seeded with the sample catalog and
// returns both the DB and App instance
func SetupCLITest(t *testing.T) (*sql.DB, *app.App) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.SeedReports(t, db)

	// Event publishing is covered by the service and daemon tests
	return db, app.New(db)
}

// ExecuteCLICommand executes a CLI command with a test app instance and
// returns what it wrote to stdout
func ExecuteCLICommand(t *testing.T, testApp *app.App, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()
	return ExecuteCLICommandWithContext(t, context.Background(), testApp, cmd, args)
}

// ExecuteCLICommandWithContext executes a CLI command with a specific context and test app
func ExecuteCLICommandWithContext(t *testing.T, ctx context.Context, testApp *app.App, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()

	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	cmd.SetArgs(args)
	ctxWithApp := dlcli.WithApp(ctx, testApp)

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	var executeErr error
	output := testutil.CaptureOutput(t, func() {
		executeErr = cmd.ExecuteContext(ctxWithApp)
	})
	return output, executeErr
}
