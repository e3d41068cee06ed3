// Package layout models a dashboard as ordered rows of report placements
// and implements the arrangement operations over it.
//
// A *Layout is immutable. Every operation returns a new *Layout, or the
// receiver itself when the operation has no effect, so callers can detect
// a no-op with a pointer comparison.
package layout

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// rowIDPrefix is used for generated row identifiers ("row-1", "row-2", ...)
const rowIDPrefix = "row-"

// Row is a horizontal grouping of report identifiers
type Row struct {
	ID      string   `json:"id" yaml:"id"`
	Reports []string `json:"reports" yaml:"reports"`
}

// Layout is an ordered sequence of rows. It always holds at least one row.
type Layout struct {
	rows []Row

	// rowSeq is the highest sequence number handed out for a generated row
	// ID. It only grows, so removed row IDs are never reused.
	rowSeq int
}

// New builds a layout from the given rows. The rows are copied. When no
// rows are given the layout starts with a single empty row.
func New(rows ...Row) *Layout {
	return NewWithSeq(0, rows...)
}

// NewWithSeq builds a layout and restores a persisted row sequence. The
// sequence is raised to cover any generated IDs already present in rows.
func NewWithSeq(seq int, rows ...Row) *Layout {
	l := &Layout{rows: cloneRows(rows), rowSeq: seq}
	for _, r := range l.rows {
		if n, ok := parseRowSeq(r.ID); ok && n > l.rowSeq {
			l.rowSeq = n
		}
	}
	l.ensureRow()
	return l
}

// Arrange places reportIDs into rows of perRow reports each, in order.
// Duplicate and empty IDs are skipped.
func Arrange(reportIDs []string, perRow int) *Layout {
	if perRow <= 0 {
		perRow = 1
	}
	l := &Layout{}
	seen := make(map[string]bool, len(reportIDs))
	var current []string
	flush := func() {
		l.appendRow(current)
		current = nil
	}
	for _, id := range reportIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		current = append(current, id)
		if len(current) == perRow {
			flush()
		}
	}
	if len(current) > 0 || len(l.rows) == 0 {
		flush()
	}
	return l
}

// Rows returns a deep copy of the rows in order
func (l *Layout) Rows() []Row {
	return cloneRows(l.rows)
}

// Len returns the number of rows
func (l *Layout) Len() int {
	return len(l.rows)
}

// RowSeq returns the row ID sequence that must be persisted alongside the
// rows to keep generated IDs unique across the layout's lifetime.
func (l *Layout) RowSeq() int {
	return l.rowSeq
}

// Row returns a copy of the row with the given ID
func (l *Layout) Row(id string) (Row, bool) {
	i := l.rowIndex(id)
	if i < 0 {
		return Row{}, false
	}
	return cloneRow(l.rows[i]), true
}

// RowAt returns a copy of the row at position i
func (l *Layout) RowAt(i int) (Row, bool) {
	if i < 0 || i >= len(l.rows) {
		return Row{}, false
	}
	return cloneRow(l.rows[i]), true
}

// RowOf locates a report. It returns the ID of the row holding it and the
// report's index within that row.
func (l *Layout) RowOf(reportID string) (string, int, bool) {
	for _, r := range l.rows {
		if i := slices.Index(r.Reports, reportID); i >= 0 {
			return r.ID, i, true
		}
	}
	return "", -1, false
}

// Contains reports whether the report is placed in any row
func (l *Layout) Contains(reportID string) bool {
	_, _, ok := l.RowOf(reportID)
	return ok
}

// Reports returns every placed report ID, row by row
func (l *Layout) Reports() []string {
	var out []string
	for _, r := range l.rows {
		out = append(out, r.Reports...)
	}
	return out
}

// ReportCount returns the number of placed reports
func (l *Layout) ReportCount() int {
	n := 0
	for _, r := range l.rows {
		n += len(r.Reports)
	}
	return n
}

// Equal reports whether two layouts hold the same rows in the same order
func (l *Layout) Equal(other *Layout) bool {
	if l == other {
		return true
	}
	if l == nil || other == nil || len(l.rows) != len(other.rows) {
		return false
	}
	for i := range l.rows {
		if l.rows[i].ID != other.rows[i].ID || !slices.Equal(l.rows[i].Reports, other.rows[i].Reports) {
			return false
		}
	}
	return true
}

// String renders the layout as "[r1:A,B] [r2:C]" for logs and test output
func (l *Layout) String() string {
	parts := make([]string, len(l.rows))
	for i, r := range l.rows {
		parts[i] = fmt.Sprintf("[%s:%s]", r.ID, strings.Join(r.Reports, ","))
	}
	return strings.Join(parts, " ")
}

type layoutJSON struct {
	Rows   []Row `json:"rows"`
	RowSeq int   `json:"row_seq"`
}

// MarshalJSON encodes the layout as {"rows": [...], "row_seq": n}
func (l *Layout) MarshalJSON() ([]byte, error) {
	rows := l.Rows()
	for i := range rows {
		if rows[i].Reports == nil {
			rows[i].Reports = []string{}
		}
	}
	return json.Marshal(layoutJSON{Rows: rows, RowSeq: l.rowSeq})
}

// Decode parses the JSON form produced by MarshalJSON into a new layout
func Decode(data []byte) (*Layout, error) {
	var raw layoutJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode layout: %w", err)
	}
	return NewWithSeq(raw.RowSeq, raw.Rows...), nil
}

// Internal helpers

func (l *Layout) clone() *Layout {
	return &Layout{rows: cloneRows(l.rows), rowSeq: l.rowSeq}
}

func (l *Layout) rowIndex(id string) int {
	return slices.IndexFunc(l.rows, func(r Row) bool { return r.ID == id })
}

// nextRowID returns a fresh row ID and advances the sequence
func (l *Layout) nextRowID() string {
	for {
		l.rowSeq++
		id := rowIDPrefix + strconv.Itoa(l.rowSeq)
		if l.rowIndex(id) < 0 {
			return id
		}
	}
}

func (l *Layout) appendRow(reports []string) {
	l.rows = append(l.rows, Row{ID: l.nextRowID(), Reports: slices.Clone(reports)})
}

// ensureRow synthesizes an empty fallback row when the layout has none
func (l *Layout) ensureRow() {
	if len(l.rows) == 0 {
		l.appendRow(nil)
	}
}

func parseRowSeq(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, rowIDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func cloneRow(r Row) Row {
	return Row{ID: r.ID, Reports: slices.Clone(r.Reports)}
}

func cloneRows(rows []Row) []Row {
	if len(rows) == 0 {
		return nil
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = cloneRow(r)
	}
	return out
}
