package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/AntoineGS/smaccounts/internal/account"
	"github.com/AntoineGS/smaccounts/internal/listing"
	"github.com/AntoineGS/smaccounts/internal/store"
)

// formMode distinguishes creating from renaming.
type formMode int

const (
	formCreate formMode = iota
	formRename
)

// accountForm holds the state of the create/rename screen.
type accountForm struct {
	title    string
	err      string
	original account.ServiceAccount
	input    textinput.Model
	mode     formMode
	saving   bool
}

func newAccountForm(mode formMode, original account.ServiceAccount, title string) accountForm {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = NameCharLimit
	if mode == formRename {
		input.SetValue(original.Name)
	}

	return accountForm{
		title:    title,
		original: original,
		input:    input,
		mode:     mode,
	}
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.form.saving {
		return m, nil
	}

	switch {
	case key.Matches(msg, FormKeys.Cancel):
		m.form = accountForm{}
		m.Screen = ScreenList
		return m, nil

	case key.Matches(msg, FormKeys.Submit):
		name := strings.TrimSpace(m.form.input.Value())
		if name == "" {
			m.form.err = m.t("nameRequired")
			return m, nil
		}
		if m.form.mode == formRename && name == m.form.original.Name {
			m.form = accountForm{}
			m.Screen = ScreenList
			return m, nil
		}
		m.form.saving = true
		return m, m.saveAccount(m.form, name)
	}

	var cmd tea.Cmd
	m.form.input, cmd = m.form.input.Update(msg)
	m.form.err = ""
	return m, cmd
}

func (m Model) handleSaved(msg accountSavedMsg) (Model, tea.Cmd) {
	m.form.saving = false

	if msg.err != nil {
		if errors.Is(msg.err, store.ErrInvalidName) {
			m.form.err = m.t("nameRequired")
			return m, nil
		}
		m.logger.Error("saving service account", "error", msg.err)
		m.notifier.ShowToast(listing.ToastError, m.t("errorOccurred"), msg.err.Error())
		return m, nil
	}

	text := m.t("renamedAccount", map[string]any{"Name": msg.account.Name})
	if msg.created {
		text = m.t("createdAccount", map[string]any{"Name": msg.account.Name})
	}
	m.notifier.ShowToast(listing.ToastSuccess, m.t("success"), text)

	m.form = accountForm{}
	m.Screen = ScreenList
	m.loading = true
	return m, m.loadAccounts()
}

func (m Model) viewForm() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(m.form.title))
	b.WriteString("\n")

	b.WriteString(m.t("name"))
	b.WriteString("\n")
	b.WriteString(m.form.input.View())
	b.WriteString("\n")

	if m.form.mode == formRename {
		b.WriteString("\n")
		b.WriteString(MutedTextStyle.Render(m.form.original.Name + " → "))
		b.WriteString(renderRenameDiff(renameDiff(m.form.original.Name, m.form.input.Value())))
		b.WriteString("\n")
	}

	if m.form.err != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(m.form.err))
		b.WriteString("\n")
	}

	if toast, ok := m.toaster.Current(); ok {
		b.WriteString("\n")
		b.WriteString(renderToast(toast))
		b.WriteString("\n")
	}

	b.WriteString(RenderHelp(
		"enter", "save",
		"esc", "cancel",
	))

	return BaseStyle.Render(b.String())
}

// renameDiff returns the character diff from the current name to the new one.
func renameDiff(from, to string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	return dmp.DiffMain(from, to, false)
}

func renderRenameDiff(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString(DiffDeleteStyle.Render(d.Text))
		case diffmatchpatch.DiffInsert:
			b.WriteString(DiffInsertStyle.Render(d.Text))
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
