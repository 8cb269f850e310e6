package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AntoineGS/smaccounts/internal/account"
	"github.com/AntoineGS/smaccounts/internal/store"
)

// Backend performs the storage operations the list asks for.
type Backend interface {
	List(ctx context.Context, orgID string) ([]account.ServiceAccount, error)
	Create(ctx context.Context, orgID, name string) (account.ServiceAccount, error)
	Rename(ctx context.Context, orgID, id, name string) (account.ServiceAccount, error)
	Delete(ctx context.Context, orgID string, ids ...string) ([]store.DeleteResult, error)
}

var _ Backend = (*store.Store)(nil)

// accountsLoadedMsg is sent when the account list has been (re)loaded.
type accountsLoadedMsg struct {
	err      error
	accounts []account.ServiceAccount
}

// accountSavedMsg is sent when a create or rename finishes.
type accountSavedMsg struct {
	err     error
	account account.ServiceAccount
	created bool
}

// accountsDeletedMsg is sent when a delete finishes.
type accountsDeletedMsg struct {
	err     error
	targets []account.ServiceAccount
	results []store.DeleteResult
}

func (m Model) loadAccounts() tea.Cmd {
	ctx, backend, orgID := m.ctx, m.backend, m.orgID
	return func() tea.Msg {
		accounts, err := backend.List(ctx, orgID)
		return accountsLoadedMsg{accounts: accounts, err: err}
	}
}

func (m Model) saveAccount(form accountForm, name string) tea.Cmd {
	ctx, backend, orgID := m.ctx, m.backend, m.orgID
	if form.mode == formCreate {
		return func() tea.Msg {
			a, err := backend.Create(ctx, orgID, name)
			return accountSavedMsg{account: a, err: err, created: true}
		}
	}

	id := form.original.ID
	return func() tea.Msg {
		a, err := backend.Rename(ctx, orgID, id, name)
		return accountSavedMsg{account: a, err: err}
	}
}

func (m Model) deleteAccounts(targets []account.ServiceAccount) tea.Cmd {
	ctx, backend, orgID := m.ctx, m.backend, m.orgID
	ids := account.IDs(targets)
	return func() tea.Msg {
		results, err := backend.Delete(ctx, orgID, ids...)
		return accountsDeletedMsg{targets: targets, results: results, err: err}
	}
}
