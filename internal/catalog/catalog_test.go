package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleCatalog = `
reports:
  - id: burndown
    name: Sprint Burndown
    chart_type: line
    description: "Remaining **story points** per day"
  - id: velocity
    name: Velocity
    chart_type: BAR
  - id: pi-progress
    name: PI Progress
    chart_type: area
`

func TestParse(t *testing.T) {
	t.Parallel()

	reports, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("Expected 3 reports, got %d", len(reports))
	}
	if reports[1].ChartType != ChartBar {
		t.Errorf("Expected chart type to be normalized to 'bar', got '%s'", reports[1].ChartType)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want error
	}{
		{"missing id", "reports:\n  - name: X\n    chart_type: line\n", ErrEmptyID},
		{"missing name", "reports:\n  - id: x\n    chart_type: line\n", ErrEmptyName},
		{"bad chart", "reports:\n  - id: x\n    name: X\n    chart_type: radar\n", ErrInvalidChartType},
		{"duplicate", "reports:\n  - id: x\n    name: X\n    chart_type: pie\n  - id: x\n    name: Y\n    chart_type: pie\n", ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := Parse([]byte("reports: [")); err == nil {
		t.Error("Expected YAML syntax error")
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0o644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}

	reports, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(reports) != 3 {
		t.Errorf("Expected 3 reports, got %d", len(reports))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestCatalogLookup(t *testing.T) {
	t.Parallel()

	reports, _ := Parse([]byte(sampleCatalog))
	c := New(reports...)

	if !c.Has("velocity") || c.Has("nope") {
		t.Error("Has returned wrong membership")
	}
	if got := c.Name("burndown"); got != "Sprint Burndown" {
		t.Errorf("Expected display name, got '%s'", got)
	}
	if got := c.Name("nope"); got != "nope" {
		t.Errorf("Expected fallback to ID, got '%s'", got)
	}

	all := c.All()
	if len(all) != 3 || all[0].Name != "PI Progress" {
		t.Errorf("Expected reports sorted by name, got %+v", all)
	}

	var nilCatalog *Catalog
	if nilCatalog.Has("burndown") || nilCatalog.Len() != 0 {
		t.Error("Expected nil catalog to be empty")
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	c := New(
		Report{ID: "burndown", Name: "Burndown", ChartType: ChartLine},
		Report{ID: "burnup", Name: "Burnup", ChartType: ChartLine},
		Report{ID: "velocity", Name: "Velocity", ChartType: ChartBar},
	)

	got := c.Suggest("burndwn", 2)
	if len(got) == 0 || got[0] != "burndown" {
		t.Errorf("Expected 'burndown' first, got %v", got)
	}

	if got := c.Suggest("zzzzzzzz", 3); len(got) != 0 {
		t.Errorf("Expected no suggestions for unrelated input, got %v", got)
	}
}

func TestClosest_DistanceWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		candidates []string
		want       []string
	}{
		// len 3 still allows two edits
		{"short input floor", "r-1", []string{"r-12", "row-1", "xyz"}, []string{"r-12", "row-1"}},
		{"three edits rejected", "abc", []string{"xyz"}, nil},
		// len 12 allows four edits
		{"long input scales", "velocityxxxx", []string{"velocity", "velocityx"}, []string{"velocityx", "velocity"}},
		{"ties sort by value", "row", []string{"rox", "roa"}, []string{"roa", "rox"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Closest(tt.input, tt.candidates, 0)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}
