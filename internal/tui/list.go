package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/AntoineGS/smaccounts/internal/account"
)

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.searching {
		return m.updateSearch(msg)
	}

	rows := m.list.Rows()

	switch {
	case key.Matches(msg, SharedKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, ListKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, ListKeys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, ListKeys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, ListKeys.ClearSearch):
		if m.list.Filter() != "" {
			m.search.Reset()
			m.applyFilter("")
		}

	case key.Matches(msg, ListKeys.Toggle):
		if row, ok := rowAt(rows, m.cursor); ok {
			m.list.Toggle(row.ID)
		}

	case key.Matches(msg, ListKeys.ToggleAll):
		m.list.ToggleAll()

	case key.Matches(msg, ListKeys.New):
		m.list.RequestCreate()

	case key.Matches(msg, ListKeys.Edit):
		if row, ok := rowAt(rows, m.cursor); ok {
			m.list.RequestEdit(row.ID)
		}

	case key.Matches(msg, ListKeys.Delete):
		if row, ok := rowAt(rows, m.cursor); ok {
			m.list.Delete(row)
		}

	case key.Matches(msg, ListKeys.BulkDelete):
		m.list.BulkDelete()

	case key.Matches(msg, ListKeys.SortName):
		m.toggleSort(account.SortName)

	case key.Matches(msg, ListKeys.SortCreated):
		m.toggleSort(account.SortCreated)

	case key.Matches(msg, ListKeys.SortRevised):
		m.toggleSort(account.SortRevised)
	}

	m.updateScrollOffset()
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, SearchKeys.Done):
		m.searching = false
		m.search.Blur()
		return m, nil

	case key.Matches(msg, SearchKeys.Cancel):
		m.searching = false
		m.search.Blur()
		m.search.Reset()
		m.applyFilter("")
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.applyFilter(after)
	}

	return m, cmd
}

// applyFilter pushes text to the list. The list clears the selection.
func (m *Model) applyFilter(text string) {
	m.list.SetFilter(text)
	m.cursor = 0
	m.scrollOffset = 0
}

// toggleSort sorts by column, flipping the direction when column is already
// active.
func (m *Model) toggleSort(column account.SortColumn) {
	current, ascending := m.list.Sort()
	if current == column {
		m.list.SetSort(column, !ascending)
		return
	}
	m.list.SetSort(column, true)
}

func (m *Model) clampCursor() {
	n := len(m.list.Rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func rowAt(rows []account.ServiceAccount, i int) (account.ServiceAccount, bool) {
	if i < 0 || i >= len(rows) {
		return account.ServiceAccount{}, false
	}
	return rows[i], true
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(m.t("serviceAccounts")))
	b.WriteString("\n")

	if m.searching || m.list.Filter() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	switch {
	case m.loading:
		b.WriteString(SubtitleStyle.Render("..."))
	case len(m.list.Items()) == 0:
		b.WriteString(SubtitleStyle.Render(m.t("noServiceAccounts")))
	case len(m.list.Filtered()) == 0:
		b.WriteString(SubtitleStyle.Render(m.t("noResults", map[string]any{"Filter": m.list.Filter()})))
		if name, ok := m.list.Suggest(); ok {
			b.WriteString("\n")
			b.WriteString(MutedTextStyle.Render(m.t("didYouMean", map[string]any{"Name": name})))
		}
	default:
		b.WriteString(m.renderTable())
	}
	b.WriteString("\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")

	if m.searching {
		b.WriteString(RenderHelp(
			"enter", "done",
			"esc", "clear",
		))
	} else {
		b.WriteString(RenderHelp(
			"space", "select",
			"a", "all",
			"n", "new",
			"e", "rename",
			"d", "delete",
			"D", "delete selected",
			"/", "search",
			"q", "quit",
		))
	}

	return BaseStyle.Render(b.String())
}

func (m Model) renderStatusBar() string {
	status := fmt.Sprintf("%s  %d/%d",
		m.t("selectedCount", map[string]any{"Count": m.selectedCount}),
		len(m.list.Filtered()),
		len(m.list.Items()))

	if toast, ok := m.toaster.Current(); ok {
		return StatusBarStyle.Render(status) + " " + renderToast(toast)
	}
	return StatusBarStyle.Render(status)
}

// tableHeight is the number of lines the table may use, borders included.
func (m Model) tableHeight() int {
	if m.height == 0 {
		return 0
	}
	// title, search, status bar, help and padding
	return m.height - 12
}

// formatHeader appends a sort indicator when column is active.
func (m Model) formatHeader(text string, column account.SortColumn) string {
	current, ascending := m.list.Sort()
	if column == account.SortNone || current != column {
		return text
	}

	indicator := " ↑"
	if !ascending {
		indicator = " ↓"
	}
	return text + lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		Render(indicator)
}

// maxVisibleRows is the number of table rows that fit, or 0 for unbounded.
func (m Model) maxVisibleRows() int {
	h := m.tableHeight()
	if h <= 0 {
		return 0
	}
	// Table structure uses 4 lines (top border, header, separator, bottom border)
	return max(h-4, 3)
}

// updateScrollOffset keeps the cursor inside the viewport with
// ScrollOffsetMargin rows around it.
func (m *Model) updateScrollOffset() {
	maxRows := m.maxVisibleRows()
	totalRows := len(m.list.Rows())
	if maxRows == 0 || totalRows <= maxRows {
		m.scrollOffset = 0
		return
	}

	scrollOffset := min(max(m.scrollOffset, 0), totalRows-maxRows)

	cursorPosInViewport := m.cursor - scrollOffset
	if cursorPosInViewport < ScrollOffsetMargin {
		scrollOffset = max(m.cursor-ScrollOffsetMargin, 0)
	} else if cursorPosInViewport >= maxRows-ScrollOffsetMargin {
		scrollOffset = min(m.cursor-maxRows+ScrollOffsetMargin+1, totalRows-maxRows)
	}

	m.scrollOffset = scrollOffset
}

// visibleRange returns the rows to draw.
func (m Model) visibleRange(totalRows int) (start, end int) {
	maxRows := m.maxVisibleRows()
	if maxRows == 0 || totalRows <= maxRows {
		return 0, totalRows
	}
	start = min(max(m.scrollOffset, 0), totalRows-maxRows)
	return start, start + maxRows
}

// renderTable renders the visible rows with lipgloss/table. The checkbox
// column header shows whether the whole filtered view is selected.
func (m Model) renderTable() string {
	rows := m.list.Rows()
	start, end := m.visibleRange(len(rows))

	allBox := CheckboxUnchecked
	if m.list.IsAllSelected() {
		allBox = CheckboxChecked
	}

	headers := []string{
		allBox,
		m.formatHeader(m.t("name"), account.SortName),
		m.formatHeader(m.t("created"), account.SortCreated),
		m.formatHeader(m.t("revised"), account.SortRevised),
	}

	data := make([][]string, 0, end-start)
	for _, a := range rows[start:end] {
		box := CheckboxUnchecked
		if m.list.IsSelected(a.ID) {
			box = CheckboxChecked
		}
		data = append(data, []string{
			box,
			a.Name,
			account.FormatDate(a.CreationDate),
			account.FormatDate(a.RevisionDate),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(primaryColor)).
		Headers(headers...).
		Rows(data...).
		BorderHeader(true).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}

			actual := row + start
			if actual == m.cursor {
				return CursorRowStyle
			}
			if actual < len(rows) && m.list.IsSelected(rows[actual].ID) {
				return SelectedRowStyle
			}
			return CellStyle
		})

	if m.width > 4 {
		t = t.Width(m.width - 4)
	}

	return t.Render()
}
