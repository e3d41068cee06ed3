package dashboard

import "errors"

// Dashboard-related errors
var (
	// Validation errors
	ErrEmptyName      = errors.New("dashboard name cannot be empty")
	ErrNameTooLong    = errors.New("dashboard name cannot exceed 100 characters")
	ErrEmptyReference = errors.New("dashboard ID or name is required")

	// Lookup errors
	ErrDashboardNotFound = errors.New("dashboard not found")
	ErrRowNotFound       = errors.New("row not found")
	ErrReportNotPlaced   = errors.New("report is not placed on this dashboard")
	ErrUnknownReport     = errors.New("report is not in the catalog")

	// Business logic errors
	ErrDuplicateName = errors.New("a dashboard with this name already exists")
)
