package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up        key.Binding
	Down      key.Binding
	SwitchTab key.Binding

	// Trending view
	Search    key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Category  key.Binding
	ClearCat  key.Binding
	QuickTag  key.Binding
	Back      key.Binding
	Refresh   key.Binding

	// Personalized view
	EditUser key.Binding
	Count    key.Binding
	Model    key.Binding
	Generate key.Binding
	Clear    key.Binding

	// Shared
	Export  key.Binding
	Dismiss key.Binding

	// Application
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "switch view"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "leave input"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "next category"),
		),
		ClearCat: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "all categories"),
		),
		QuickTag: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "quick tag"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "back to trending"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),

		EditUser: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "edit user id"),
		),
		Count: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "count"),
		),
		Model: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "model"),
		),
		Generate: key.NewBinding(
			key.WithKeys("enter", "g"),
			key.WithHelp("Enter/g", "generate"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear results"),
		),

		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("Enter", "dismiss"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchTab, k.Search, k.Export, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchTab},
		{k.Search, k.Category, k.ClearCat, k.QuickTag, k.Back, k.Refresh},
		{k.EditUser, k.Count, k.Model, k.Generate, k.Clear},
		{k.Export, k.Help, k.Quit, k.ForceQuit},
	}
}

// personalizedHelp is the short help on the personalized tab.
type personalizedHelp struct {
	KeyMap
}

func (k personalizedHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchTab, k.EditUser, k.Count, k.Model, k.Generate, k.Export, k.Quit}
}
