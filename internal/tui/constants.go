package tui

// Key binding constants for TUI navigation and interaction
const (
	KeyEnter = "enter"
	KeyEsc   = "esc"
	KeyCtrlC = "ctrl+c"
)

// UI element constants
const (
	CheckboxUnchecked = "[ ]"
	CheckboxChecked   = "[x]"
	CursorMarker      = "›"

	// ScrollOffsetMargin is the minimum number of rows to keep between cursor and viewport edges
	ScrollOffsetMargin = 3

	// NameCharLimit caps the length of an account name in the form
	NameCharLimit = 128

	// maxConfirmListed is how many accounts the delete confirmation lists by name
	maxConfirmListed = 10
)
