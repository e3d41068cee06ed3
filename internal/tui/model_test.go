package tui

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/sparksai/dashlayout/internal/app"
	"github.com/sparksai/dashlayout/internal/catalog"
	"github.com/sparksai/dashlayout/internal/events"
	"github.com/sparksai/dashlayout/internal/layout"
	"github.com/sparksai/dashlayout/internal/testutil"
)

var (
	keySpace = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	keyRight = tea.KeyPressMsg{Code: tea.KeyRight}
	keyLeft  = tea.KeyPressMsg{Code: tea.KeyLeft}
	keyDown  = tea.KeyPressMsg{Code: tea.KeyDown}
	keyUp    = tea.KeyPressMsg{Code: tea.KeyUp}
	keyEsc   = tea.KeyPressMsg{Code: tea.KeyEscape}
)

func runeKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// setupModel builds an arranger over [r1:velocity,burndown] [r2:cycle-time]
func setupModel(t *testing.T) (Model, *app.App) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.SeedReports(t, db)
	testutil.SeedDashboard(t, db, "d-1", "Sprint 42",
		layout.Row{ID: "r1", Reports: []string{"velocity", "burndown"}},
		layout.Row{ID: "r2", Reports: []string{"cycle-time"}},
	)
	a := app.New(db)

	m, err := New(context.Background(), a, "Sprint 42")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40}), a
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func assertLayout(t *testing.T, m Model, want string) {
	t.Helper()
	if got := m.Dashboard().Layout.String(); got != want {
		t.Errorf("Expected layout %s, got %s", want, got)
	}
}

func assertStored(t *testing.T, a *app.App, want string) {
	t.Helper()
	d, err := a.DashboardService.GetDashboard(context.Background(), "d-1")
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	if got := d.Layout.String(); got != want {
		t.Errorf("Expected stored layout %s, got %s", want, got)
	}
}

func TestNew_UnknownDashboard(t *testing.T) {
	t.Parallel()
	db := testutil.SetupTestDB(t)
	if _, err := New(context.Background(), app.New(db), "missing"); err == nil {
		t.Error("Expected error for unknown dashboard")
	}
}

func TestDrag_ReorderWithinRow(t *testing.T) {
	t.Parallel()
	m, a := setupModel(t)

	m = send(t, m, keySpace)
	if !m.Dragging() {
		t.Fatal("Expected drag to start")
	}
	m = send(t, m, keyRight)
	if hover := m.session.Hover(); hover != layout.Card("r1", "burndown") {
		t.Errorf("Expected hover on burndown, got %+v", hover)
	}

	m = send(t, m, keySpace)
	if m.Dragging() {
		t.Error("Expected drag to end")
	}
	assertLayout(t, m, "[r1:burndown,velocity] [r2:cycle-time]")
	assertStored(t, a, "[r1:burndown,velocity] [r2:cycle-time]")
	if m.cursor != (cursor{row: 0, col: 1}) {
		t.Errorf("Expected cursor to follow the report, got %+v", m.cursor)
	}
}

func TestDrag_MoveToRowZone(t *testing.T) {
	t.Parallel()
	m, a := setupModel(t)

	// Past the last card of r2 is its drop zone
	m = send(t, m, keySpace, keyDown, keyRight)
	if hover := m.session.Hover(); hover != layout.RowZone("r2") {
		t.Fatalf("Expected hover on r2 drop zone, got %+v", hover)
	}
	if !strings.Contains(m.View().Content, "drop here") {
		t.Error("Expected drop zone to be highlighted")
	}

	m = send(t, m, keySpace)
	assertLayout(t, m, "[r1:burndown] [r2:cycle-time,velocity]")
	assertStored(t, a, "[r1:burndown] [r2:cycle-time,velocity]")
	if m.cursor != (cursor{row: 1, col: 1}) {
		t.Errorf("Expected cursor on velocity in r2, got %+v", m.cursor)
	}
}

func TestDrag_EmptiedRowIsRemoved(t *testing.T) {
	t.Parallel()
	m, a := setupModel(t)

	m = send(t, m, keyDown, keySpace, keyUp)
	if hover := m.session.Hover(); hover != layout.Card("r1", "velocity") {
		t.Fatalf("Expected hover on velocity, got %+v", hover)
	}
	m = send(t, m, keySpace)
	assertLayout(t, m, "[r1:velocity,burndown,cycle-time]")
	assertStored(t, a, "[r1:velocity,burndown,cycle-time]")
}

func TestDrag_Cancel(t *testing.T) {
	t.Parallel()
	m, a := setupModel(t)

	m = send(t, m, keySpace, keyDown, keyEsc)
	if m.Dragging() {
		t.Error("Expected drag to be cancelled")
	}
	assertLayout(t, m, "[r1:velocity,burndown] [r2:cycle-time]")
	assertStored(t, a, "[r1:velocity,burndown] [r2:cycle-time]")
	if m.cursor != (cursor{}) {
		t.Errorf("Expected cursor back on velocity, got %+v", m.cursor)
	}
}

func TestDrag_DropOnItself(t *testing.T) {
	t.Parallel()
	m, _ := setupModel(t)

	m = send(t, m, keySpace, keySpace)
	if m.Dragging() {
		t.Error("Expected drag to end")
	}
	if m.note.active() {
		t.Errorf("Expected no notification, got %q", m.note.message)
	}
	assertLayout(t, m, "[r1:velocity,burndown] [r2:cycle-time]")
}

func TestDrag_StaleAfterRefresh(t *testing.T) {
	t.Parallel()
	m, a := setupModel(t)
	ctx := context.Background()

	m = send(t, m, keyDown, keySpace)

	// Another process removes the source row mid-drag
	if _, err := a.DashboardService.RemoveRow(ctx, "d-1", "r2"); err != nil {
		t.Fatalf("RemoveRow failed: %v", err)
	}
	m = send(t, m, RefreshMsg{Event: events.Event{Type: events.EventLayoutChanged, DashboardID: "d-1"}})
	if !m.Dragging() {
		t.Fatal("Expected drag to survive the refresh")
	}
	assertLayout(t, m, "[r1:velocity,burndown,cycle-time]")

	m = send(t, m, keySpace)
	if !m.note.active() || m.note.level != LevelWarning {
		t.Fatalf("Expected a warning, got %+v", m.note)
	}
	assertStored(t, a, "[r1:velocity,burndown,cycle-time]")
}

func TestRowEdits(t *testing.T) {
	t.Parallel()
	m, a := setupModel(t)

	m = send(t, m, runeKey('a'))
	assertLayout(t, m, "[r1:velocity,burndown] [r2:cycle-time] [row-1:]")
	if m.cursor.row != 2 {
		t.Errorf("Expected cursor on the new row, got %+v", m.cursor)
	}

	m = send(t, m, runeKey('x'))
	assertLayout(t, m, "[r1:velocity,burndown] [r2:cycle-time]")

	// The cursor fell back to r2
	m = send(t, m, runeKey('x'))
	assertLayout(t, m, "[r1:velocity,burndown,cycle-time]")

	// The only row stays
	m = send(t, m, runeKey('x'))
	assertLayout(t, m, "[r1:velocity,burndown,cycle-time]")
	if !m.note.active() {
		t.Error("Expected a notice for removing the only row")
	}
	assertStored(t, a, "[r1:velocity,burndown,cycle-time]")
}

func TestRemoveReport(t *testing.T) {
	t.Parallel()
	m, a := setupModel(t)

	m = send(t, m, keyRight, runeKey('d'))
	assertLayout(t, m, "[r1:velocity] [r2:cycle-time]")
	assertStored(t, a, "[r1:velocity] [r2:cycle-time]")
	if m.cursor != (cursor{row: 0, col: 0}) {
		t.Errorf("Expected cursor clamped to velocity, got %+v", m.cursor)
	}

	d, _ := a.DashboardService.GetDashboard(context.Background(), "d-1")
	for _, id := range d.Selected {
		if id == "burndown" {
			t.Error("Expected burndown to be deselected")
		}
	}
}

func TestEditsDisabledWhileDragging(t *testing.T) {
	t.Parallel()
	m, _ := setupModel(t)

	m = send(t, m, keySpace, runeKey('a'), runeKey('d'))
	assertLayout(t, m, "[r1:velocity,burndown] [r2:cycle-time]")
	if !m.Dragging() {
		t.Error("Expected drag to continue")
	}
}

func TestNavigation_Clamps(t *testing.T) {
	t.Parallel()
	m, _ := setupModel(t)

	m = send(t, m, keyLeft, keyUp)
	if m.cursor != (cursor{}) {
		t.Errorf("Expected cursor at origin, got %+v", m.cursor)
	}
	m = send(t, m, keyRight, keyRight, keyRight)
	if m.cursor.col != 1 {
		t.Errorf("Expected cursor on the last card, got %+v", m.cursor)
	}
	m = send(t, m, keyDown, keyDown)
	if m.cursor != (cursor{row: 1, col: 0}) {
		t.Errorf("Expected cursor on cycle-time, got %+v", m.cursor)
	}
}

func TestView(t *testing.T) {
	t.Parallel()
	m, _ := setupModel(t)

	view := m.View()
	if !view.AltScreen {
		t.Error("Expected alt screen")
	}
	for _, want := range []string{"Sprint 42", "Velocity", "Burndown", "Cycle Time", "r1", "r2"} {
		if !strings.Contains(view.Content, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}

	m = send(t, m, runeKey('?'))
	if !m.showHelp {
		t.Error("Expected help to be shown")
	}
}

func TestRefresh_CatalogChangeReloadsNames(t *testing.T) {
	t.Parallel()
	m, a := setupModel(t)
	ctx := context.Background()

	err := a.CatalogService.Import(ctx, []catalog.Report{{ID: "lead-time", Name: "Lead Time", ChartType: catalog.ChartBar}})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if _, err := a.DashboardService.PlaceReport(ctx, "d-1", "lead-time"); err != nil {
		t.Fatalf("PlaceReport failed: %v", err)
	}

	// One debounce window delivers both events
	m = send(t, m,
		RefreshMsg{Event: events.Event{Type: events.EventCatalogChanged}},
		RefreshMsg{Event: events.Event{Type: events.EventLayoutChanged, DashboardID: "d-1"}},
	)
	assertLayout(t, m, "[r1:velocity,burndown] [r2:cycle-time,lead-time]")
	if content := m.View().Content; !strings.Contains(content, "Lead Time") {
		t.Error("Expected the imported report name after a catalog refresh")
	}
}

func TestQuit(t *testing.T) {
	t.Parallel()
	m, _ := setupModel(t)

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}
