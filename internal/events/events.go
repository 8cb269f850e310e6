// Package events carries the intents raised by the account list to whatever
// container owns it.
package events

import "github.com/AntoineGS/smaccounts/internal/account"

// Type identifies an event kind.
type Type string

// Event types
const (
	TypeCreateRequested     Type = "create_requested"
	TypeDeleteRequested     Type = "delete_requested"
	TypeBulkDeleteRequested Type = "bulk_delete_requested"
	TypeSelectionChanged    Type = "selection_changed"
	TypeEditRequested       Type = "edit_requested"
)

// Event is implemented by every intent published on a Bus.
type Event interface {
	Type() Type
}

// CreateRequested asks the container to start creating an account.
type CreateRequested struct{}

// Type implements Event.
func (CreateRequested) Type() Type { return TypeCreateRequested }

// DeleteRequested asks for a single account to be deleted. Accounts always
// holds exactly one element.
type DeleteRequested struct {
	Accounts []account.ServiceAccount
}

// Type implements Event.
func (DeleteRequested) Type() Type { return TypeDeleteRequested }

// BulkDeleteRequested asks for every selected account to be deleted, in list
// order. Accounts is never empty.
type BulkDeleteRequested struct {
	Accounts []account.ServiceAccount
}

// Type implements Event.
func (BulkDeleteRequested) Type() Type { return TypeBulkDeleteRequested }

// SelectionChanged carries the full selection after a change.
type SelectionChanged struct {
	IDs []string
}

// Type implements Event.
func (SelectionChanged) Type() Type { return TypeSelectionChanged }

// EditRequested asks the container to edit one account.
type EditRequested struct {
	ID string
}

// Type implements Event.
func (EditRequested) Type() Type { return TypeEditRequested }
