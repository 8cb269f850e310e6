package tui

import (
	"log/slog"

	"github.com/AntoineGS/smaccounts/internal/listing"
)

// Toast is a transient message shown in the status bar.
type Toast struct {
	Variant listing.ToastVariant
	Title   string
	Message string
}

// toaster keeps the most recent toast until the next key press.
type toaster struct {
	logger  *slog.Logger
	current *Toast
}

// ShowToast implements listing.Notifier.
func (t *toaster) ShowToast(variant listing.ToastVariant, title, message string) {
	t.logger.Debug("toast", "variant", string(variant), "title", title, "message", message)
	t.current = &Toast{Variant: variant, Title: title, Message: message}
}

// Current returns the toast on display, if any.
func (t *toaster) Current() (Toast, bool) {
	if t.current == nil {
		return Toast{}, false
	}
	return *t.current, true
}

// Dismiss hides the current toast.
func (t *toaster) Dismiss() {
	t.current = nil
}

func renderToast(toast Toast) string {
	style := InfoStyle
	switch toast.Variant {
	case listing.ToastError:
		style = ErrorStyle
	case listing.ToastWarning:
		style = WarningStyle
	case listing.ToastSuccess:
		style = SuccessStyle
	case listing.ToastInfo:
	}

	text := toast.Message
	if toast.Title != "" {
		text = toast.Title + " " + toast.Message
	}
	return style.Render(text)
}
