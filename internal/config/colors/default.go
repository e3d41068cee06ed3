package colors

// Default returns the default color scheme (purple theme)
func Default() *ColorScheme {
	return &ColorScheme{
		Preset: "default",

		Accent:     "#874BFD",
		Background: "#1C1C1C",

		RowBorder:      "#5F87D7",
		RowBackground:  "#262626",
		CardBorder:     "#585858",
		CardBackground: "#262626",
		SelectedBorder: "#D75FD7",
		SelectedBg:     "#3A3A3A",
		DragBorder:     "#FFD700",
		DropTarget:     "#5FD75F",

		Title:  "#D75FD7",
		Subtle: "#585858",
		Normal: "#D0D0D0",

		InfoFg:    "#00AFFF",
		InfoBg:    "#00005F",
		WarningFg: "#FFD700",
		WarningBg: "#875F00",
		ErrorFg:   "#FF0000",
		ErrorBg:   "#5F0000",

		StatusBarBg:   "#874BFD", // matches accent
		StatusBarText: "#D0D0D0",
	}
}
