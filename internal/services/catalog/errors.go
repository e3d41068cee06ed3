package catalog

import "errors"

// Catalog service errors
var (
	ErrReportNotFound = errors.New("report not found")
	ErrEmptyCatalog   = errors.New("catalog file contains no reports")
	ErrEmptyPath      = errors.New("catalog file path cannot be empty")
)
