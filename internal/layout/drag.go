package layout

// DragState is the phase of a drag gesture
type DragState int

const (
	Idle DragState = iota
	Dragging
)

func (s DragState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Session tracks a single drag-and-drop gesture. It is owned by whoever
// handles the input events and is never shared; the zero value is Idle.
// A session never touches a Layout: the caller feeds the DragResult from
// EndDrag into Apply.
type Session struct {
	state       DragState
	reportID    string
	sourceRowID string
	hover       DropTarget
}

// StartDrag begins dragging a report out of its source row
func (s *Session) StartDrag(reportID, sourceRowID string) error {
	if s.state == Dragging {
		return ErrInvalidState
	}
	if reportID == "" || sourceRowID == "" {
		return ErrEmptyDrag
	}
	s.state = Dragging
	s.reportID = reportID
	s.sourceRowID = sourceRowID
	s.hover = DropTarget{}
	return nil
}

// UpdateHoverTarget records the candidate drop target. A zero target means
// the pointer is outside every row. Ignored while Idle.
func (s *Session) UpdateHoverTarget(t DropTarget) {
	if s.state != Dragging {
		return
	}
	s.hover = t
}

// EndDrag finishes the gesture and returns the drop payload. It reports
// false when no drag was active or the pointer was released outside every
// row; in both cases the session is Idle afterwards.
func (s *Session) EndDrag() (DragResult, bool) {
	if s.state != Dragging {
		return DragResult{}, false
	}
	result := DragResult{
		ReportID:    s.reportID,
		SourceRowID: s.sourceRowID,
		Target:      s.hover,
	}
	s.reset()
	if result.Target.IsZero() {
		return DragResult{}, false
	}
	return result, true
}

// Cancel aborts the gesture
func (s *Session) Cancel() {
	s.reset()
}

// State returns the current phase
func (s *Session) State() DragState {
	return s.state
}

// Active reports whether a drag is in progress
func (s *Session) Active() bool {
	return s.state == Dragging
}

// Dragged returns the report being dragged and its source row
func (s *Session) Dragged() (reportID, sourceRowID string) {
	return s.reportID, s.sourceRowID
}

// Hover returns the current hover target
func (s *Session) Hover() DropTarget {
	return s.hover
}

func (s *Session) reset() {
	*s = Session{}
}
