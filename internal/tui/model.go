package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AntoineGS/smaccounts/internal/account"
	"github.com/AntoineGS/smaccounts/internal/events"
	"github.com/AntoineGS/smaccounts/internal/i18n"
	"github.com/AntoineGS/smaccounts/internal/listing"
	"github.com/AntoineGS/smaccounts/internal/metrics"
)

// Screen represents the current screen being displayed in the TUI.
type Screen int

// TUI screen types.
const (
	// ScreenList is the account list
	ScreenList Screen = iota
	// ScreenForm is the create/rename form
	ScreenForm
	// ScreenConfirm is the delete confirmation
	ScreenConfirm
)

// Options configure a Model.
type Options struct {
	Backend        Backend
	Catalog        *i18n.Catalog
	Recorder       *metrics.Recorder
	Logger         *slog.Logger
	OrganizationID string
	MetricsFile    string
}

// Model is the bubbletea model owning the account list.
type Model struct {
	ctx           context.Context
	backend       Backend
	list          *listing.List
	bus           *events.Bus
	catalog       *i18n.Catalog
	recorder      *metrics.Recorder
	toaster       *toaster
	notifier      listing.Notifier
	intents       *intentQueue
	logger        *slog.Logger
	search        textinput.Model
	orgID         string
	form          accountForm
	unsubscribe   []func()
	pendingDelete []account.ServiceAccount
	Screen        Screen
	cursor        int
	scrollOffset  int
	selectedCount int
	width         int
	height        int
	searching     bool
	loading       bool
}

// NewModel wires a list, an event bus and a metrics recorder together.
func NewModel(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = i18n.MustLoad("en")
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.New()
	}

	bus := events.NewBus(logger)
	t := &toaster{logger: logger}
	queue := &intentQueue{}

	notifier := recorder.Notifier(t)
	list := listing.New(bus, notifier, catalog, listing.WithLogger(logger))

	unsubscribe := []func(){recorder.Attach(bus)}
	for _, typ := range subscribedIntents {
		unsubscribe = append(unsubscribe, bus.Subscribe(typ, queue.push))
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = catalog.T("searchPlaceholder")
	search.CharLimit = 256

	return Model{
		ctx:         ctx,
		backend:     opts.Backend,
		list:        list,
		bus:         bus,
		catalog:     catalog,
		recorder:    recorder,
		toaster:     t,
		notifier:    notifier,
		intents:     queue,
		logger:      logger,
		search:      search,
		orgID:       opts.OrganizationID,
		unsubscribe: unsubscribe,
		Screen:      ScreenList,
		loading:     true,
	}
}

// Init loads the accounts.
func (m Model) Init() tea.Cmd {
	return m.loadAccounts()
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScrollOffset()
		return m, nil

	case accountsLoadedMsg:
		m = m.handleLoaded(msg)

	case accountSavedMsg:
		m, cmd = m.handleSaved(msg)

	case accountsDeletedMsg:
		m, cmd = m.handleDeleted(msg)

	case tea.KeyMsg:
		if key.Matches(msg, SharedKeys.ForceQuit) {
			return m, tea.Quit
		}

		m.toaster.Dismiss()

		switch m.Screen {
		case ScreenList:
			m, cmd = m.updateList(msg)
		case ScreenForm:
			m, cmd = m.updateForm(msg)
		case ScreenConfirm:
			m, cmd = m.updateConfirm(msg)
		}

	default:
		if m.Screen == ScreenForm {
			m.form.input, cmd = m.form.input.Update(msg)
		} else if m.searching {
			m.search, cmd = m.search.Update(msg)
		}
	}

	m, intentCmd := m.drainIntents()
	return m, batch(cmd, intentCmd)
}

// View renders the current screen.
func (m Model) View() string {
	switch m.Screen {
	case ScreenForm:
		return m.viewForm()
	case ScreenConfirm:
		return m.viewConfirm()
	case ScreenList:
	}
	return m.viewList()
}

// Close tears down the list and every bus subscription. It is safe to call
// more than once.
func (m Model) Close() {
	m.list.Close()
	for _, unsubscribe := range m.unsubscribe {
		unsubscribe()
	}
}

// Recorder returns the metrics recorder fed by this model.
func (m Model) Recorder() *metrics.Recorder {
	return m.recorder
}

func (m Model) t(key string, data ...any) string {
	return m.catalog.T(key, data...)
}

func (m Model) findAccount(id string) (account.ServiceAccount, bool) {
	for _, a := range m.list.Items() {
		if a.ID == id {
			return a, true
		}
	}
	return account.ServiceAccount{}, false
}

func (m Model) handleLoaded(msg accountsLoadedMsg) Model {
	m.loading = false
	if msg.err != nil {
		m.logger.Error("loading service accounts", "error", msg.err)
		m.notifier.ShowToast(listing.ToastError, m.t("errorOccurred"), msg.err.Error())
		return m
	}

	m.list.SetItems(msg.accounts)
	m.clampCursor()
	m.updateScrollOffset()
	return m
}
