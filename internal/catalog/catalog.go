// Package catalog holds the report metadata the layout refers to by ID
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

// Chart type tags used by the burndown dashboard
const (
	ChartLine  = "line"
	ChartBar   = "bar"
	ChartArea  = "area"
	ChartPie   = "pie"
	ChartTable = "table"
	ChartCard  = "card"
)

// ValidChartTypes lists every accepted chart type tag
var ValidChartTypes = []string{ChartLine, ChartBar, ChartArea, ChartPie, ChartTable, ChartCard}

// Report is a named, typed visualization unit
type Report struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	ChartType   string `json:"chart_type" yaml:"chart_type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate checks the fields required to register a report
func (r Report) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("report %s: %w", r.ID, ErrEmptyName)
	}
	if !IsValidChartType(r.ChartType) {
		return fmt.Errorf("report %s: %w: %q", r.ID, ErrInvalidChartType, r.ChartType)
	}
	return nil
}

// IsValidChartType reports whether tag is a known chart type
func IsValidChartType(tag string) bool {
	for _, t := range ValidChartTypes {
		if t == tag {
			return true
		}
	}
	return false
}

// Catalog is a fully materialized, read-only lookup of reports by ID
type Catalog struct {
	reports map[string]Report
}

// New builds a catalog. Later duplicates of an ID replace earlier ones.
func New(reports ...Report) *Catalog {
	c := &Catalog{reports: make(map[string]Report, len(reports))}
	for _, r := range reports {
		c.reports[r.ID] = r
	}
	return c
}

// Has reports whether the ID is known. A nil catalog knows nothing.
func (c *Catalog) Has(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.reports[id]
	return ok
}

// Get returns the report with the given ID
func (c *Catalog) Get(id string) (Report, bool) {
	if c == nil {
		return Report{}, false
	}
	r, ok := c.reports[id]
	return r, ok
}

// Name returns the display name for an ID, falling back to the ID itself
func (c *Catalog) Name(id string) string {
	if r, ok := c.Get(id); ok {
		return r.Name
	}
	return id
}

// Len returns the number of reports
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.reports)
}

// All returns every report sorted by name, then ID
func (c *Catalog) All() []Report {
	if c == nil {
		return nil
	}
	out := make([]Report, 0, len(c.reports))
	for _, r := range c.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Suggest returns the known IDs closest to an unknown one, best first
func (c *Catalog) Suggest(id string, limit int) []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.reports))
	for known := range c.reports {
		ids = append(ids, known)
	}
	return Closest(id, ids, limit)
}

// Closest ranks candidates by edit distance to input (case-insensitive).
// A candidate qualifies within max(len(input)/3, 2) edits; ties sort by value.
func Closest(input string, candidates []string, limit int) []string {
	type scored struct {
		value string
		dist  int
	}
	maxDist := max(len(input)/3, 2)
	needle := strings.ToLower(input)

	var matches []scored
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(c))
		if d <= maxDist {
			matches = append(matches, scored{value: c, dist: d})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].value < matches[j].value
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.value
	}
	return out
}

// File is the on-disk YAML format of a catalog
type File struct {
	Reports []Report `yaml:"reports"`
}

// LoadFile reads and validates a YAML catalog file
func LoadFile(path string) ([]Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML catalog content
func Parse(data []byte) ([]Report, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	seen := make(map[string]bool, len(f.Reports))
	for i := range f.Reports {
		r := &f.Reports[i]
		r.ID = strings.TrimSpace(r.ID)
		r.ChartType = strings.ToLower(strings.TrimSpace(r.ChartType))
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = true
	}
	return f.Reports, nil
}
