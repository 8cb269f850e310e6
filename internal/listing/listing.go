// Package listing implements the service-account list: a filterable row
// store, a multi-row selection and the intents the list raises to its owner.
//
// A List is driven from a single goroutine (the UI loop or a CLI command).
// Every method is synchronous; events are published before the method
// returns.
package listing

import (
	"log/slog"
	"slices"

	"github.com/AntoineGS/smaccounts/internal/account"
	"github.com/AntoineGS/smaccounts/internal/events"
	"github.com/AntoineGS/smaccounts/internal/selection"
)

// ToastVariant is the severity of a user-facing notification.
type ToastVariant string

// Toast variants
const (
	ToastError   ToastVariant = "error"
	ToastWarning ToastVariant = "warning"
	ToastInfo    ToastVariant = "info"
	ToastSuccess ToastVariant = "success"
)

// Message keys looked up through the Translator.
const (
	KeyErrorOccurred   = "errorOccurred"
	KeyNothingSelected = "nothingSelected"
)

// Notifier presents a message to the user.
type Notifier interface {
	ShowToast(variant ToastVariant, title, message string)
}

// Translator resolves a message key to localized text.
type Translator interface {
	T(key string, args ...any) string
}

// Option configures a List.
type Option func(*List)

// WithPredicate replaces DefaultPredicate.
func WithPredicate(p Predicate) Option {
	return func(l *List) {
		if p != nil {
			l.predicate = p
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(l *List) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// List is the service-account list component.
type List struct {
	pub         events.Publisher
	notifier    Notifier
	tr          Translator
	logger      *slog.Logger
	predicate   Predicate
	selection   *selection.Model[string]
	unsubscribe func()
	filter      string
	sortColumn  account.SortColumn
	items       []account.ServiceAccount
	filtered    []account.ServiceAccount
	descending  bool
	closed      bool
}

// New creates an empty List publishing into pub. notifier and tr may be nil,
// in which case toasts are only logged and keys are shown untranslated.
func New(pub events.Publisher, notifier Notifier, tr Translator, opts ...Option) *List {
	l := &List{
		pub:       pub,
		notifier:  notifier,
		tr:        tr,
		logger:    slog.Default(),
		predicate: DefaultPredicate,
		selection: selection.New[string](true),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.unsubscribe = l.selection.OnChange(func(selection.Change[string]) {
		l.publish(events.SelectionChanged{IDs: l.selection.Selected()})
	})

	return l
}

// SetItems replaces the account list. The selection is cleared and the
// filtered view recomputed with the current filter.
func (l *List) SetItems(items []account.ServiceAccount) {
	l.selection.Clear()
	l.items = slices.Clone(items)
	l.refilter()
}

// Items returns the full account list in the order it was given.
func (l *List) Items() []account.ServiceAccount {
	return slices.Clone(l.items)
}

// SetFilter replaces the filter text. The selection is cleared and the
// filtered view recomputed over the current items.
func (l *List) SetFilter(text string) {
	l.selection.Clear()
	l.filter = text
	l.refilter()
}

// Filter returns the current filter text.
func (l *List) Filter() string {
	return l.filter
}

// Filtered returns the accounts matching the filter, in list order.
func (l *List) Filtered() []account.ServiceAccount {
	return slices.Clone(l.filtered)
}

// Rows returns the filtered view in display order.
func (l *List) Rows() []account.ServiceAccount {
	rows := slices.Clone(l.filtered)
	if l.sortColumn == account.SortNone {
		return rows
	}

	slices.SortStableFunc(rows, func(a, b account.ServiceAccount) int {
		if l.descending {
			a, b = b, a
		}
		switch {
		case account.Less(a, b, l.sortColumn):
			return -1
		case account.Less(b, a, l.sortColumn):
			return 1
		default:
			return 0
		}
	})
	return rows
}

// SetSort orders Rows by column. Sorting never touches the selection.
func (l *List) SetSort(column account.SortColumn, ascending bool) {
	l.sortColumn = column
	l.descending = !ascending
}

// ClearSort restores list order.
func (l *List) ClearSort() {
	l.sortColumn = account.SortNone
	l.descending = false
}

// Sort returns the active sort column and direction.
func (l *List) Sort() (column account.SortColumn, ascending bool) {
	return l.sortColumn, !l.descending
}

// Suggest returns a "did you mean" account name when a non-empty filter
// matches nothing.
func (l *List) Suggest() (string, bool) {
	if len(l.filtered) > 0 || normalizeFilter(l.filter) == "" {
		return "", false
	}
	name := suggestName(l.items, l.filter)
	return name, name != ""
}

// IsAllSelected reports whether every row of the filtered view is selected.
// An empty selection is never all selected, even over an empty view.
func (l *List) IsAllSelected() bool {
	n := l.selection.Len()
	return n > 0 && n == len(l.filtered)
}

// ToggleAll clears the selection when everything is selected, and otherwise
// selects exactly the filtered view.
func (l *List) ToggleAll() {
	if l.IsAllSelected() {
		l.selection.Clear()
		return
	}
	l.selection.SetSelection(account.IDs(l.filtered)...)
}

// Toggle flips the selection of one row. IDs outside the filtered view are
// ignored.
func (l *List) Toggle(id string) {
	if !l.inView(id) {
		l.logger.Debug("ignoring toggle outside filtered view", "id", id)
		return
	}
	l.selection.Toggle(id)
}

// IsSelected reports whether id is selected.
func (l *List) IsSelected(id string) bool {
	return l.selection.IsSelected(id)
}

// Selected returns the selected IDs in the order they were selected.
func (l *List) Selected() []string {
	return l.selection.Selected()
}

// SelectedAccounts resolves the selection against the full list, in list
// order.
func (l *List) SelectedAccounts() []account.ServiceAccount {
	var out []account.ServiceAccount
	for _, a := range l.items {
		if l.selection.IsSelected(a.ID) {
			out = append(out, a)
		}
	}
	return out
}

// RequestCreate raises CreateRequested.
func (l *List) RequestCreate() {
	l.publish(events.CreateRequested{})
}

// RequestEdit raises EditRequested for id.
func (l *List) RequestEdit(id string) {
	l.publish(events.EditRequested{ID: id})
}

// Delete raises DeleteRequested for a single account. The selection is not
// consulted.
func (l *List) Delete(a account.ServiceAccount) {
	l.publish(events.DeleteRequested{Accounts: []account.ServiceAccount{a}})
}

// BulkDelete raises BulkDeleteRequested with the selected accounts. With an
// empty selection it shows a "nothing selected" error toast instead.
func (l *List) BulkDelete() {
	if l.closed {
		return
	}

	if l.selection.IsEmpty() {
		l.toast(ToastError, l.translate(KeyErrorOccurred), l.translate(KeyNothingSelected))
		return
	}

	l.publish(events.BulkDeleteRequested{Accounts: l.SelectedAccounts()})
}

// Close releases the selection subscription. After Close the list publishes
// nothing and shows no toasts. Close is idempotent.
func (l *List) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.unsubscribe()
	l.selection.Close()
}

func (l *List) refilter() {
	filtered := make([]account.ServiceAccount, 0, len(l.items))
	for _, a := range l.items {
		if l.predicate(a, l.filter) {
			filtered = append(filtered, a)
		}
	}
	l.filtered = filtered
}

func (l *List) inView(id string) bool {
	for _, a := range l.filtered {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (l *List) publish(e events.Event) {
	if l.closed || l.pub == nil {
		return
	}
	l.pub.Publish(e)
}

func (l *List) toast(variant ToastVariant, title, message string) {
	if l.notifier == nil {
		l.logger.Warn(message, "title", title, "variant", string(variant))
		return
	}
	l.notifier.ShowToast(variant, title, message)
}

func (l *List) translate(key string) string {
	if l.tr == nil {
		return key
	}
	return l.tr.T(key)
}
