package layout

import "errors"

// Drag session errors
var (
	// ErrInvalidState indicates a caller contract violation, such as
	// starting a second drag while one is active
	ErrInvalidState = errors.New("invalid drag state")

	// ErrEmptyDrag indicates a drag started without a report or source row
	ErrEmptyDrag = errors.New("drag requires a report and a source row")
)

// Layout integrity errors reported by Check
var (
	ErrNoRows          = errors.New("layout has no rows")
	ErrEmptyRowID      = errors.New("row has an empty ID")
	ErrDuplicateRow    = errors.New("row ID appears more than once")
	ErrDuplicateReport = errors.New("report is placed in more than one position")
)
