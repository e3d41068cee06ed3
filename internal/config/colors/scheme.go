// Package colors holds the arranger color presets.
package colors

// ColorScheme defines all configurable color values
type ColorScheme struct {
	// Preset name ("default", "monochrome", "wave")
	Preset string `yaml:"preset"`

	// Primary accent color (titles, focused row)
	Accent     string `yaml:"accent"`
	Background string `yaml:"background"`

	// Rows and cards
	RowBorder      string `yaml:"row_border"`
	RowBackground  string `yaml:"row_background"`
	CardBorder     string `yaml:"card_border"`
	CardBackground string `yaml:"card_background"`
	SelectedBorder string `yaml:"selected_border"` // card under the cursor
	SelectedBg     string `yaml:"selected_bg"`
	DragBorder     string `yaml:"drag_border"` // card being dragged
	DropTarget     string `yaml:"drop_target"` // hovered row or card while dragging

	// Text colors
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"`
	Normal string `yaml:"normal"`

	// Notification colors (foreground/background pairs)
	InfoFg    string `yaml:"info_fg"`
	InfoBg    string `yaml:"info_bg"`
	WarningFg string `yaml:"warning_fg"`
	WarningBg string `yaml:"warning_bg"`
	ErrorFg   string `yaml:"error_fg"`
	ErrorBg   string `yaml:"error_bg"`

	StatusBarBg   string `yaml:"status_bar_bg"`
	StatusBarText string `yaml:"status_bar_text"`
}

// GetPreset returns a preset color scheme by name, falling back to Default
func GetPreset(name string) *ColorScheme {
	switch name {
	case "monochrome":
		return Monochrome()
	case "wave":
		return Wave()
	default:
		return Default()
	}
}

// Presets lists the built-in scheme names
func Presets() []string {
	return []string{"default", "monochrome", "wave"}
}

// fields returns pointers to every color value, in declaration order
func (c *ColorScheme) fields() []*string {
	return []*string{
		&c.Accent, &c.Background,
		&c.RowBorder, &c.RowBackground, &c.CardBorder, &c.CardBackground,
		&c.SelectedBorder, &c.SelectedBg, &c.DragBorder, &c.DropTarget,
		&c.Title, &c.Subtle, &c.Normal,
		&c.InfoFg, &c.InfoBg, &c.WarningFg, &c.WarningBg, &c.ErrorFg, &c.ErrorBg,
		&c.StatusBarBg, &c.StatusBarText,
	}
}

// ApplyDefaults fills in missing color values from the named preset
func (c *ColorScheme) ApplyDefaults() {
	preset := GetPreset(c.Preset).fields()
	for i, f := range c.fields() {
		if *f == "" {
			*f = *preset[i]
		}
	}
}

// MergeFrom overrides colors with every non-empty value in other.
// A preset named in other replaces the base preset.
func (c *ColorScheme) MergeFrom(other ColorScheme) {
	if other.Preset != "" && other.Preset != c.Preset {
		*c = *GetPreset(other.Preset)
	}
	src := other.fields()
	for i, f := range c.fields() {
		if *src[i] != "" {
			*f = *src[i]
		}
	}
}
