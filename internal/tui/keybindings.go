package tui

import "github.com/charmbracelet/bubbles/key"

// SharedKeyMap defines keybindings available on all screens.
type SharedKeyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
}

// SharedKeys are available on all screens.
var SharedKeys = SharedKeyMap{
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "force quit"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
}

// ListKeyMap defines keybindings for the account list screen.
type ListKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Search      key.Binding
	ClearSearch key.Binding
	Toggle      key.Binding
	ToggleAll   key.Binding
	New         key.Binding
	Edit        key.Binding
	Delete      key.Binding
	BulkDelete  key.Binding
	SortName    key.Binding
	SortCreated key.Binding
	SortRevised key.Binding
}

// ListKeys are the keybindings for the list screen.
var ListKeys = ListKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	ClearSearch: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear search"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "select"),
	),
	ToggleAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "select all"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e", "rename"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	BulkDelete: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete selected"),
	),
	SortName: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort name"),
	),
	SortCreated: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "sort created"),
	),
	SortRevised: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "sort revised"),
	),
}

// SearchKeyMap defines keybindings while the search box has focus.
type SearchKeyMap struct {
	Done   key.Binding
	Cancel key.Binding
}

// SearchKeys are the keybindings for the search box.
var SearchKeys = SearchKeyMap{
	Done: key.NewBinding(
		key.WithKeys("enter", "down"),
		key.WithHelp("enter", "done"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear"),
	),
}

// FormKeyMap defines keybindings for the create/rename form.
type FormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

// FormKeys are the keybindings for the form screen.
var FormKeys = FormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// ConfirmKeyMap defines keybindings for the delete confirmation.
type ConfirmKeyMap struct {
	Yes key.Binding
	No  key.Binding
}

// ConfirmKeys are the keybindings for the confirmation screen.
var ConfirmKeys = ConfirmKeyMap{
	Yes: key.NewBinding(
		key.WithKeys("y", "Y", "enter"),
		key.WithHelp("y/enter", "confirm"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}
