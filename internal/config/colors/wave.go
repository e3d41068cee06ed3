package colors

// Kanagawa palette entries used by Wave
const (
	sumiInk1     = "#1F1F28"
	sumiInk2     = "#2A2A37"
	sumiInk3     = "#363646"
	sumiInk4     = "#54546D"
	waveBlue1    = "#223249"
	waveAqua2    = "#7AA89F"
	oniViolet    = "#957FB8"
	crystalBlue  = "#7E9CD8"
	springGreen  = "#98BB6C"
	carpYellow   = "#E6C384"
	fujiWhite    = "#DCD7BA"
	fujiGray     = "#727169"
	dragonBlue   = "#658594"
	winterBlue   = "#252535"
	roninYellow  = "#FF9E3B"
	winterYellow = "#49443C"
	samuraiRed   = "#E82424"
	winterRed    = "#43242B"
)

// Wave returns the Kanagawa Wave color scheme (dark theme with blue/purple accents)
func Wave() *ColorScheme {
	return &ColorScheme{
		Preset: "wave",

		Accent:     oniViolet,
		Background: sumiInk1,

		RowBorder:      sumiInk4,
		RowBackground:  sumiInk2,
		CardBorder:     sumiInk4,
		CardBackground: sumiInk3,
		SelectedBorder: waveAqua2,
		SelectedBg:     waveBlue1,
		DragBorder:     carpYellow,
		DropTarget:     springGreen,

		Title:  crystalBlue,
		Subtle: fujiGray,
		Normal: fujiWhite,

		InfoFg:    dragonBlue,
		InfoBg:    winterBlue,
		WarningFg: roninYellow,
		WarningBg: winterYellow,
		ErrorFg:   samuraiRed,
		ErrorBg:   winterRed,

		StatusBarBg:   oniViolet,
		StatusBarText: fujiWhite,
	}
}
