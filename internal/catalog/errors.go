package catalog

import "errors"

// Report validation errors
var (
	ErrEmptyID          = errors.New("report ID cannot be empty")
	ErrEmptyName        = errors.New("report name cannot be empty")
	ErrInvalidChartType = errors.New("invalid chart type")
	ErrDuplicateID      = errors.New("duplicate report ID")
)
