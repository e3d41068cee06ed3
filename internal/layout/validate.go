package layout

import "fmt"

// Catalog answers whether a report identifier is known. It is satisfied by
// catalog.Catalog.
type Catalog interface {
	Has(reportID string) bool
}

// Sanitize drops report IDs the catalog does not know and duplicate
// placements (the first occurrence wins). The catalog is sourced
// externally and may have changed since the layout was saved, so unknown
// IDs are removed silently. A nil catalog skips the membership check.
// Sanitize returns l itself when nothing needed fixing.
func Sanitize(l *Layout, c Catalog) *Layout {
	seen := make(map[string]bool, l.ReportCount())
	var next *Layout
	for i, r := range l.rows {
		kept := make([]string, 0, len(r.Reports))
		for _, id := range r.Reports {
			if seen[id] || (c != nil && !c.Has(id)) {
				continue
			}
			seen[id] = true
			kept = append(kept, id)
		}
		if len(kept) == len(r.Reports) {
			continue
		}
		if next == nil {
			next = l.clone()
		}
		next.rows[i].Reports = kept
	}
	if next == nil {
		return l
	}
	next.ensureRow()
	return next
}

// Check verifies the structural invariants: at least one row, unique
// non-empty row IDs, and no report placed twice.
func (l *Layout) Check() error {
	if len(l.rows) == 0 {
		return ErrNoRows
	}
	rowIDs := make(map[string]bool, len(l.rows))
	reports := make(map[string]string)
	for _, r := range l.rows {
		if r.ID == "" {
			return ErrEmptyRowID
		}
		if rowIDs[r.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateRow, r.ID)
		}
		rowIDs[r.ID] = true
		for _, id := range r.Reports {
			if prev, ok := reports[id]; ok {
				return fmt.Errorf("%w: %s in rows %s and %s", ErrDuplicateReport, id, prev, r.ID)
			}
			reports[id] = r.ID
		}
	}
	return nil
}
