package layout

import "slices"

// AddRow appends an empty row with a fresh, never reused identifier
func (l *Layout) AddRow() *Layout {
	next := l.clone()
	next.appendRow(nil)
	return next
}

// NewestRowID returns the ID of the last row, which is the row created by a
// preceding AddRow
func (l *Layout) NewestRowID() string {
	return l.rows[len(l.rows)-1].ID
}

// RemoveRow deletes a row and appends its reports, in order, to the first
// remaining row. Removing the only row or an unknown row is a no-op.
func (l *Layout) RemoveRow(rowID string) *Layout {
	i := l.rowIndex(rowID)
	if i < 0 || len(l.rows) == 1 {
		return l
	}

	next := l.clone()
	orphans := next.rows[i].Reports
	next.rows = slices.Delete(next.rows, i, i+1)
	next.rows[0].Reports = append(next.rows[0].Reports, orphans...)
	return next
}

// RemoveReportFromRow takes a report off a row and returns the removed ID
// so the caller can deselect it. An emptied row is deleted unless it is
// the only row. The returned ID is empty when nothing was removed.
func (l *Layout) RemoveReportFromRow(rowID, reportID string) (*Layout, string) {
	i := l.rowIndex(rowID)
	if i < 0 {
		return l, ""
	}
	idx := slices.Index(l.rows[i].Reports, reportID)
	if idx < 0 {
		return l, ""
	}

	next := l.clone()
	next.rows[i].Reports = slices.Delete(next.rows[i].Reports, idx, idx+1)
	if len(next.rows[i].Reports) == 0 && len(next.rows) > 1 {
		next.rows = slices.Delete(next.rows, i, i+1)
	}
	return next, reportID
}

// PlaceReport appends a report to the last row. Placing a report that is
// already on the layout, or an empty ID, is a no-op.
func (l *Layout) PlaceReport(reportID string) *Layout {
	if reportID == "" || l.Contains(reportID) {
		return l
	}
	next := l.clone()
	last := len(next.rows) - 1
	next.rows[last].Reports = append(next.rows[last].Reports, reportID)
	return next
}
