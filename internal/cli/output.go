package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sparksai/dashlayout/internal/cli/styles"
	"github.com/spf13/cobra"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
}

// NewFormatter reads the --json and --quiet flags of cmd
func NewFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
}

// Success outputs successful operation result
func (f *OutputFormatter) Success(data any) error {
	if f.Quiet {
		if idGetter, ok := data.(interface{ GetID() string }); ok {
			fmt.Println(idGetter.GetID())
			return nil
		}
	}

	if f.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"data":    data,
		})
	}

	// Human-readable format
	return f.prettyPrint(data)
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", styles.ErrorStyle.Render("Error"), message)
	if suggestion != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n", styles.WarningStyle.Render("Hint"), suggestion)
	}
	return nil
}

// Fail reports err in the current output mode and returns it wrapped with
// the matching exit code
func (f *OutputFormatter) Fail(err error, suggestion string) error {
	code, exitCode := Classify(err)
	if fmtErr := f.ErrorWithSuggestion(code, err.Error(), suggestion); fmtErr != nil {
		return fmtErr
	}
	return &CommandError{Code: exitCode, Err: err}
}

// Usage reports a usage problem and returns an ExitUsage error
func (f *OutputFormatter) Usage(message string) error {
	if fmtErr := f.Error("USAGE_ERROR", message); fmtErr != nil {
		return fmtErr
	}
	return &CommandError{Code: ExitUsage, Err: fmt.Errorf("%s", message)}
}

// prettyPrint formats data for human-readable output
func (f *OutputFormatter) prettyPrint(data any) error {
	fmt.Printf("%+v\n", data)
	return nil
}
