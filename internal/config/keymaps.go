package config

// KeyMappings defines the configurable arranger key bindings
type KeyMappings struct {
	// Cursor
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
	Up    string `yaml:"up"`
	Down  string `yaml:"down"`

	// Drag and drop
	Grab   string `yaml:"grab"` // picks up and drops
	Cancel string `yaml:"cancel"`

	// Rows and reports
	AddRow       string `yaml:"add_row"`
	RemoveRow    string `yaml:"remove_row"`
	RemoveReport string `yaml:"remove_report"`

	// Other
	ShowHelp string `yaml:"show_help"`
	Quit     string `yaml:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		Left:  "left",
		Right: "right",
		Up:    "up",
		Down:  "down",

		Grab:   "space",
		Cancel: "esc",

		AddRow:       "a",
		RemoveRow:    "x",
		RemoveReport: "d",

		ShowHelp: "?",
		Quit:     "q",
	}
}

// applyDefaults fills in missing key mappings with defaults
func (k *KeyMappings) applyDefaults() {
	d := DefaultKeyMappings()
	pairs := []struct{ dst, def *string }{
		{&k.Left, &d.Left},
		{&k.Right, &d.Right},
		{&k.Up, &d.Up},
		{&k.Down, &d.Down},
		{&k.Grab, &d.Grab},
		{&k.Cancel, &d.Cancel},
		{&k.AddRow, &d.AddRow},
		{&k.RemoveRow, &d.RemoveRow},
		{&k.RemoveReport, &d.RemoveReport},
		{&k.ShowHelp, &d.ShowHelp},
		{&k.Quit, &d.Quit},
	}
	for _, p := range pairs {
		if *p.dst == "" {
			*p.dst = *p.def
		}
	}
}
