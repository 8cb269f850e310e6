package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/AntoineGS/smaccounts/internal/account"
	"github.com/AntoineGS/smaccounts/internal/listing"
	"github.com/AntoineGS/smaccounts/internal/store"
)

var accountHeaders = []string{"ID", "NAME", "CREATED", "REVISED"}

// printAccounts writes accounts as a borderless table with two spaces
// between columns.
func printAccounts(w io.Writer, accounts []account.ServiceAccount) error {
	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []string{a.ID, a.Name, formatDate(a.CreationDate), formatDate(a.RevisionDate)})
	}

	gap := lipgloss.NewStyle().PaddingRight(2)
	last := len(accountHeaders) - 1

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		Headers(accountHeaders...).
		Rows(rows...).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == last {
				return lipgloss.NewStyle()
			}
			return gap
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// printDeleteResults writes one line per result and a summary. It returns
// an error when any delete failed so the exit status reflects it.
func printDeleteResults(w io.Writer, results []store.DeleteResult, targets []account.ServiceAccount) error {
	names := make(map[string]string, len(targets))
	for _, a := range targets {
		names[a.ID] = a.Name
	}

	deleted, failed := 0, 0
	for _, r := range results {
		label := r.ID
		if name := names[r.ID]; name != "" {
			label = fmt.Sprintf("%s (%s)", r.ID, name)
		}
		if r.Error != "" {
			failed++
			fmt.Fprintf(w, "failed %s: %s\n", label, r.Error)
			continue
		}
		deleted++
		fmt.Fprintf(w, "deleted %s\n", label)
	}

	fmt.Fprintf(w, "%d deleted, %d failed\n", deleted, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d deletes failed", failed, len(results))
	}
	return nil
}

// formatDate is account.FormatDate with a placeholder for unset dates.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return account.FormatDate(t)
}

// cliNotifier prints toasts to stderr.
type cliNotifier struct {
	w io.Writer
}

func newCLINotifier(w io.Writer) cliNotifier {
	return cliNotifier{w: w}
}

// ShowToast implements listing.Notifier.
func (n cliNotifier) ShowToast(variant listing.ToastVariant, title, message string) {
	slog.Debug("toast", "variant", string(variant), "title", title, "message", message)
	fmt.Fprintf(n.w, "%s %s\n", title, message)
}
