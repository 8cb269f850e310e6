package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AntoineGS/smaccounts/internal/listing"
)

func (m Model) updateConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, ConfirmKeys.Yes):
		targets := m.pendingDelete
		m.pendingDelete = nil
		m.Screen = ScreenList
		if len(targets) == 0 {
			return m, nil
		}
		m.loading = true
		return m, m.deleteAccounts(targets)

	case key.Matches(msg, ConfirmKeys.No):
		m.pendingDelete = nil
		m.Screen = ScreenList
	}

	return m, nil
}

// handleDeleted reports the outcome of a delete and reloads the list. The
// reload clears the selection. A confirmation opened while the delete was
// running is left alone.
func (m Model) handleDeleted(msg accountsDeletedMsg) (Model, tea.Cmd) {
	names := make(map[string]string, len(msg.targets))
	for _, a := range msg.targets {
		names[a.ID] = a.Name
	}

	if msg.err != nil {
		m.logger.Error("deleting service accounts", "error", msg.err)
		m.notifier.ShowToast(listing.ToastError, m.t("errorOccurred"), msg.err.Error())
		return m, m.loadAccounts()
	}

	deleted := 0
	var failed []string
	for _, r := range msg.results {
		if r.Error == "" {
			deleted++
			continue
		}
		name := names[r.ID]
		if name == "" {
			name = r.ID
		}
		m.logger.Warn("service account not deleted", "id", r.ID, "error", r.Error)
		failed = append(failed, m.t("deleteFailed", map[string]any{"Name": name, "Error": r.Error}))
	}

	if len(failed) > 0 {
		m.notifier.ShowToast(listing.ToastError, m.t("errorOccurred"), strings.Join(failed, "; "))
	} else {
		m.notifier.ShowToast(listing.ToastSuccess, m.t("success"), m.t("deleted", map[string]any{"Count": deleted}))
	}

	return m, m.loadAccounts()
}

func (m Model) viewConfirm() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(m.t("confirmDelete", map[string]any{"Count": len(m.pendingDelete)})))
	b.WriteString("\n")

	for i, a := range m.pendingDelete {
		if i == maxConfirmListed {
			b.WriteString(SubtitleStyle.Render(fmt.Sprintf("  ... and %d more", len(m.pendingDelete)-maxConfirmListed)))
			b.WriteString("\n")
			break
		}
		b.WriteString(CheckedStyle.Render("  ✓ ") + a.Name)
		b.WriteString("\n")
	}

	box := BoxStyle.Render(HelpKeyStyle.Render("y") + "/yes  " +
		HelpKeyStyle.Render("n") + "/no")
	b.WriteString(box)
	b.WriteString("\n")

	b.WriteString(RenderHelp(
		"y/enter", "confirm",
		"n/esc", "cancel",
	))

	return BaseStyle.Render(b.String())
}
