package tui

import (
	"charm.land/bubbles/v2/key"
	"github.com/sparksai/dashlayout/internal/config"
)

// keyMap holds the arranger bindings built from the configured mappings
type keyMap struct {
	Left         key.Binding
	Right        key.Binding
	Up           key.Binding
	Down         key.Binding
	Grab         key.Binding
	Cancel       key.Binding
	AddRow       key.Binding
	RemoveRow    key.Binding
	RemoveReport key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func newKeyMap(km config.KeyMappings) keyMap {
	return keyMap{
		Left:         key.NewBinding(key.WithKeys(km.Left), key.WithHelp(km.Left, "left")),
		Right:        key.NewBinding(key.WithKeys(km.Right), key.WithHelp(km.Right, "right")),
		Up:           key.NewBinding(key.WithKeys(km.Up), key.WithHelp(km.Up, "row up")),
		Down:         key.NewBinding(key.WithKeys(km.Down), key.WithHelp(km.Down, "row down")),
		Grab:         key.NewBinding(key.WithKeys(km.Grab, "enter"), key.WithHelp(km.Grab, "pick up / drop")),
		Cancel:       key.NewBinding(key.WithKeys(km.Cancel), key.WithHelp(km.Cancel, "cancel drag")),
		AddRow:       key.NewBinding(key.WithKeys(km.AddRow), key.WithHelp(km.AddRow, "add row")),
		RemoveRow:    key.NewBinding(key.WithKeys(km.RemoveRow), key.WithHelp(km.RemoveRow, "remove row")),
		RemoveReport: key.NewBinding(key.WithKeys(km.RemoveReport), key.WithHelp(km.RemoveReport, "remove report")),
		Help:         key.NewBinding(key.WithKeys(km.ShowHelp), key.WithHelp(km.ShowHelp, "help")),
		Quit:         key.NewBinding(key.WithKeys(km.Quit, "ctrl+c"), key.WithHelp(km.Quit, "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Cancel, k.AddRow, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Grab, k.Cancel},
		{k.AddRow, k.RemoveRow, k.RemoveReport},
		{k.Help, k.Quit},
	}
}
