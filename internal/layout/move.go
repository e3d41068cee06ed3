package layout

import "slices"

// DropTarget identifies where a dragged report was released. A card target
// carries the ReportID of the card under the pointer; a row drop zone
// carries only the RowID. The zero value means "no target".
type DropTarget struct {
	RowID    string `json:"row_id,omitempty"`
	ReportID string `json:"report_id,omitempty"`
}

// RowZone returns a target for the empty drop zone of a row
func RowZone(rowID string) DropTarget {
	return DropTarget{RowID: rowID}
}

// Card returns a target for a report card
func Card(rowID, reportID string) DropTarget {
	return DropTarget{RowID: rowID, ReportID: reportID}
}

// IsZero reports whether the target resolves to nothing
func (t DropTarget) IsZero() bool {
	return t.RowID == "" && t.ReportID == ""
}

// IsCard reports whether the drop landed on a report card
func (t DropTarget) IsCard() bool {
	return t.ReportID != ""
}

// DragResult is the payload of a completed drag gesture
type DragResult struct {
	ReportID    string     `json:"report_id"`
	SourceRowID string     `json:"source_row_id"`
	Target      DropTarget `json:"target"`
}

// Outcome describes what Apply did with a drop
type Outcome int

const (
	// OutcomeNoTarget: the drop did not resolve to a known row or card
	OutcomeNoTarget Outcome = iota
	// OutcomeUnchanged: dropped onto itself or onto its current position
	OutcomeUnchanged
	// OutcomeStale: the source row or the dragged report no longer matches
	// the layout, e.g. the row was removed while the gesture was in flight
	OutcomeStale
	// OutcomeDuplicate: the target row already holds the report
	OutcomeDuplicate
	// OutcomeReordered: the report moved within its row
	OutcomeReordered
	// OutcomeMoved: the report moved to another row
	OutcomeMoved
)

// Changed reports whether the outcome produced a new layout
func (o Outcome) Changed() bool {
	return o == OutcomeReordered || o == OutcomeMoved
}

func (o Outcome) String() string {
	switch o {
	case OutcomeNoTarget:
		return "no_target"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeStale:
		return "stale"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeReordered:
		return "reordered"
	case OutcomeMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Move computes the layout that results from a drop. It returns l itself
// when the drop has no effect.
func Move(l *Layout, r DragResult) *Layout {
	next, _ := Apply(l, r)
	return next
}

// Apply is Move with the reason for the result
func Apply(l *Layout, r DragResult) (*Layout, Outcome) {
	if r.ReportID == "" || r.Target.IsZero() {
		return l, OutcomeNoTarget
	}

	// Recheck the source against the current layout; the payload may
	// describe a row that has since been removed
	srcRow := l.rowIndex(r.SourceRowID)
	if srcRow < 0 {
		return l, OutcomeStale
	}
	from := slices.Index(l.rows[srcRow].Reports, r.ReportID)
	if from < 0 {
		return l, OutcomeStale
	}

	dstRow, to, outcome := l.resolveTarget(r)
	if outcome != OutcomeMoved {
		return l, outcome
	}

	if dstRow == srcRow {
		// Dropping on the row zone of the own row means "move to the end"
		if to >= len(l.rows[srcRow].Reports) {
			to = len(l.rows[srcRow].Reports) - 1
		}
		if from == to {
			return l, OutcomeUnchanged
		}
		next := l.clone()
		next.rows[srcRow].Reports = reorder(next.rows[srcRow].Reports, from, to)
		return next, OutcomeReordered
	}

	if slices.Contains(l.rows[dstRow].Reports, r.ReportID) {
		return l, OutcomeDuplicate
	}

	next := l.clone()
	next.rows[srcRow].Reports = slices.Delete(next.rows[srcRow].Reports, from, from+1)
	next.rows[dstRow].Reports = append(next.rows[dstRow].Reports, r.ReportID)
	if len(next.rows[srcRow].Reports) == 0 && len(next.rows) > 1 {
		next.rows = slices.Delete(next.rows, srcRow, srcRow+1)
	}
	next.ensureRow()
	return next, OutcomeMoved
}

// resolveTarget finds the destination row index and insertion position.
// A card resolves through the layout rather than the payload's RowID so a
// stale row hint cannot misplace the report. The returned outcome is
// OutcomeMoved when the target resolved.
func (l *Layout) resolveTarget(r DragResult) (row, pos int, outcome Outcome) {
	if r.Target.IsCard() {
		if r.Target.ReportID == r.ReportID {
			return -1, -1, OutcomeUnchanged
		}
		rowID, idx, ok := l.RowOf(r.Target.ReportID)
		if !ok {
			return -1, -1, OutcomeNoTarget
		}
		return l.rowIndex(rowID), idx, OutcomeMoved
	}

	row = l.rowIndex(r.Target.RowID)
	if row < 0 {
		return -1, -1, OutcomeNoTarget
	}
	return row, len(l.rows[row].Reports), OutcomeMoved
}

// reorder moves the element at from to index to, shifting the others.
// The slice is modified in place and returned.
func reorder(items []string, from, to int) []string {
	item := items[from]
	items = slices.Delete(items, from, from+1)
	return slices.Insert(items, to, item)
}

// MarshalText encodes the outcome by name
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
