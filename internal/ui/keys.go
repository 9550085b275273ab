package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard bindings. Bindings made of plain letters only
// apply while no text field has focus.
type keyMap struct {
	// Always active
	ForceQuit  key.Binding
	CycleTheme key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Confirm    key.Binding
	Back       key.Binding

	// Outside text fields
	Quit         key.Binding
	Help         key.Binding
	GoSearch     key.Binding
	GoCollection key.Binding
	GoLogin      key.Binding
	GoRegister   key.Binding
	Logout       key.Binding
	Refresh      key.Binding
	Save         key.Binding
	Remove       key.Binding
	FocusInput   key.Binding

	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Cycle theme"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next field / pane"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous field / pane"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Submit / open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		GoSearch: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Search recipes"),
		),
		GoCollection: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "My recipes"),
		),
		GoLogin: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Log in"),
		),
		GoRegister: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New account"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Log out"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Reload collection"),
		),
		Save: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Save recipe"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "Remove ingredient"),
		),
		FocusInput: key.NewBinding(
			key.WithKeys("/", "i"),
			key.WithHelp("/", "Type an ingredient"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "Page down"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped the way the help overlay shows them.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.GoSearch, k.GoCollection, k.GoLogin, k.GoRegister, k.Logout, k.Back},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.FocusInput, k.NextField, k.Confirm, k.Remove, k.Save, k.Refresh},
		{k.CycleTheme, k.Help, k.Quit, k.ForceQuit},
	}
}
