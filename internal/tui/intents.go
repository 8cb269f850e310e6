package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AntoineGS/smaccounts/internal/account"
	"github.com/AntoineGS/smaccounts/internal/events"
)

// intentQueue buffers events published while Update runs so they can be
// handled once the triggering key has been processed.
type intentQueue struct {
	pending []events.Event
}

func (q *intentQueue) push(e events.Event) {
	q.pending = append(q.pending, e)
}

func (q *intentQueue) drain() []events.Event {
	out := q.pending
	q.pending = nil
	return out
}

// subscribedIntents are the list events the model reacts to.
var subscribedIntents = []events.Type{
	events.TypeCreateRequested,
	events.TypeEditRequested,
	events.TypeDeleteRequested,
	events.TypeBulkDeleteRequested,
	events.TypeSelectionChanged,
}

func (m Model) drainIntents() (Model, tea.Cmd) {
	var cmds []tea.Cmd

	for _, e := range m.intents.drain() {
		switch e := e.(type) {
		case events.SelectionChanged:
			m.selectedCount = len(e.IDs)
		case events.CreateRequested:
			m.form = newAccountForm(formCreate, account.ServiceAccount{}, m.t("newServiceAccount"))
			m.Screen = ScreenForm
			cmds = append(cmds, m.form.input.Focus())
		case events.EditRequested:
			a, ok := m.findAccount(e.ID)
			if !ok {
				m.logger.Debug("edit requested for unknown account", "id", e.ID)
				continue
			}
			m.form = newAccountForm(formRename, a, m.t("editServiceAccount"))
			m.Screen = ScreenForm
			cmds = append(cmds, m.form.input.Focus())
		case events.DeleteRequested:
			m.pendingDelete = e.Accounts
			m.Screen = ScreenConfirm
		case events.BulkDeleteRequested:
			m.pendingDelete = e.Accounts
			m.Screen = ScreenConfirm
		}
	}

	return m, batch(cmds...)
}

// batch is tea.Batch without the wrapper for zero or one command.
func batch(cmds ...tea.Cmd) tea.Cmd {
	var valid []tea.Cmd
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}

	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	default:
		return tea.Batch(valid...)
	}
}
