package listing

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/AntoineGS/smaccounts/internal/account"
	"github.com/AntoineGS/smaccounts/internal/events"
)

type recorder struct {
	events []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) ofType(t events.Type) []events.Event {
	var out []events.Event
	for _, e := range r.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

type toast struct {
	variant ToastVariant
	title   string
	message string
}

type fakeNotifier struct {
	toasts []toast
}

func (n *fakeNotifier) ShowToast(variant ToastVariant, title, message string) {
	n.toasts = append(n.toasts, toast{variant, title, message})
}

type upperTranslator struct{}

func (upperTranslator) T(key string, _ ...any) string {
	return "T(" + key + ")"
}

func newTestList(t *testing.T, opts ...Option) (*List, *recorder, *fakeNotifier) {
	t.Helper()
	rec := &recorder{}
	n := &fakeNotifier{}
	l := New(rec, n, upperTranslator{}, opts...)
	t.Cleanup(l.Close)
	return l, rec, n
}

func accounts(ids ...string) []account.ServiceAccount {
	out := make([]account.ServiceAccount, 0, len(ids))
	for _, id := range ids {
		out = append(out, account.ServiceAccount{ID: id, OrganizationID: "org-1", Name: "account " + id})
	}
	return out
}

func TestSetItems_EmptyFilterShowsEverything(t *testing.T) {
	l, _, _ := newTestList(t)
	l.SetItems(accounts("a", "b", "c"))

	got := account.IDs(l.Filtered())
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Filtered() = %v, want %v", got, want)
	}
}

func TestSetItems_CopiesInput(t *testing.T) {
	l, _, _ := newTestList(t)
	items := accounts("a", "b")
	l.SetItems(items)
	items[0].ID = "mutated"

	if got := l.Items()[0].ID; got != "a" {
		t.Errorf("Items()[0].ID = %q, want %q", got, "a")
	}
}

func TestSetItems_ClearsSelection(t *testing.T) {
	l, rec, _ := newTestList(t)
	l.SetItems(accounts("a", "b"))
	l.Toggle("a")

	l.SetItems(accounts("a", "b"))

	if got := l.Selected(); len(got) != 0 {
		t.Errorf("Selected() = %v, want empty", got)
	}

	changes := rec.ofType(events.TypeSelectionChanged)
	if len(changes) != 2 {
		t.Fatalf("got %d selection changes, want 2", len(changes))
	}
	if ids := changes[1].(events.SelectionChanged).IDs; len(ids) != 0 {
		t.Errorf("last SelectionChanged.IDs = %v, want empty", ids)
	}
}

func TestSetItems_KeepsFilter(t *testing.T) {
	l, _, _ := newTestList(t)
	l.SetFilter("account b")
	l.SetItems(accounts("a", "b", "c"))

	got := account.IDs(l.Filtered())
	if !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Filtered() = %v, want [b]", got)
	}
}

func TestSetFilter_SubsetInListOrder(t *testing.T) {
	l, _, _ := newTestList(t)
	items := []account.ServiceAccount{
		{ID: "1", Name: "Deploy bot"},
		{ID: "2", Name: "metrics"},
		{ID: "3", Name: "CI deployer"},
	}
	l.SetItems(items)
	l.SetFilter("  DEPLOY ")

	got := account.IDs(l.Filtered())
	if !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Errorf("Filtered() = %v, want [1 3]", got)
	}
	if l.Filter() != "  DEPLOY " {
		t.Errorf("Filter() = %q, want the text as given", l.Filter())
	}
}

func TestIsAllSelected(t *testing.T) {
	tests := []struct {
		name   string
		items  []string
		filter string
		toggle []string
		want   bool
	}{
		{name: "empty view, empty selection", want: false},
		{name: "items, empty selection", items: []string{"a", "b"}, want: false},
		{name: "partial selection", items: []string{"a", "b"}, toggle: []string{"a"}, want: false},
		{name: "full selection", items: []string{"a", "b"}, toggle: []string{"b", "a"}, want: true},
		{name: "full filtered view", items: []string{"a", "b"}, filter: "id:a", toggle: []string{"a"}, want: true},
		{name: "filter matches nothing", items: []string{"a"}, filter: "zzz", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _, _ := newTestList(t)
			l.SetItems(accounts(tt.items...))
			l.SetFilter(tt.filter)
			for _, id := range tt.toggle {
				l.Toggle(id)
			}

			if got := l.IsAllSelected(); got != tt.want {
				t.Errorf("IsAllSelected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToggleAll_Scenario(t *testing.T) {
	l, rec, _ := newTestList(t)
	l.SetItems(accounts("a", "b", "c"))
	l.SetFilter("")

	l.ToggleAll()
	if got := l.Selected(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("Selected() = %v, want [a b c]", got)
	}
	if !l.IsAllSelected() {
		t.Fatal("IsAllSelected() = false after ToggleAll")
	}

	l.ToggleAll()
	if got := l.Selected(); len(got) != 0 {
		t.Errorf("Selected() = %v, want empty", got)
	}

	changes := rec.ofType(events.TypeSelectionChanged)
	if len(changes) != 2 {
		t.Fatalf("got %d selection changes, want one per ToggleAll", len(changes))
	}
	if ids := changes[0].(events.SelectionChanged).IDs; !reflect.DeepEqual(ids, []string{"a", "b", "c"}) {
		t.Errorf("first SelectionChanged.IDs = %v", ids)
	}
}

func TestToggleAll_FromPartialSelectsExactlyView(t *testing.T) {
	l, _, _ := newTestList(t)
	l.SetItems([]account.ServiceAccount{
		{ID: "a", Name: "alpha"},
		{ID: "b", Name: "beta"},
		{ID: "c", Name: "alphabet"},
	})
	l.SetFilter("name:alpha")
	l.Toggle("c")

	l.ToggleAll()

	got := l.Selected()
	if len(got) != 2 || !l.IsSelected("a") || !l.IsSelected("c") || l.IsSelected("b") {
		t.Errorf("Selected() = %v, want exactly {a c}", got)
	}
}

func TestToggleAll_EmptyViewSelectsNothing(t *testing.T) {
	l, rec, _ := newTestList(t)
	l.ToggleAll()

	if len(l.Selected()) != 0 {
		t.Errorf("Selected() = %v, want empty", l.Selected())
	}
	if len(rec.events) != 0 {
		t.Errorf("published %d events, want none", len(rec.events))
	}
}

func TestSetFilter_ClearsSelectionScenario(t *testing.T) {
	l, _, _ := newTestList(t)
	l.SetItems(accounts("a", "b"))
	l.Toggle("a")

	l.SetFilter("x")

	if got := l.Selected(); len(got) != 0 {
		t.Errorf("Selected() = %v, want empty", got)
	}
	if got := l.Filtered(); len(got) != 0 {
		t.Errorf("Filtered() = %v, want empty", got)
	}
}

func TestToggle_OutsideViewIgnored(t *testing.T) {
	l, rec, _ := newTestList(t)
	l.SetItems(accounts("a", "b"))
	l.SetFilter("id:a")

	l.Toggle("b")
	l.Toggle("missing")

	if l.IsSelected("b") {
		t.Error("IsSelected(b) = true, want false")
	}
	if len(rec.events) != 0 {
		t.Errorf("published %d events, want none", len(rec.events))
	}
}

func TestSelectionChanged_CarriesFullSelection(t *testing.T) {
	l, rec, _ := newTestList(t)
	l.SetItems(accounts("a", "b", "c"))

	l.Toggle("c")
	l.Toggle("a")
	l.Toggle("c")

	var got [][]string
	for _, e := range rec.ofType(events.TypeSelectionChanged) {
		got = append(got, e.(events.SelectionChanged).IDs)
	}
	want := [][]string{{"c"}, {"c", "a"}, {"a"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SelectionChanged payloads = %v, want %v", got, want)
	}
}

func TestBulkDelete_ListOrder(t *testing.T) {
	l, rec, n := newTestList(t)
	items := accounts("a", "b", "c", "d")
	l.SetItems(items)
	l.Toggle("d")
	l.Toggle("b")

	l.BulkDelete()

	got := rec.ofType(events.TypeBulkDeleteRequested)
	if len(got) != 1 {
		t.Fatalf("got %d bulk delete events, want 1", len(got))
	}
	want := []account.ServiceAccount{items[1], items[3]}
	if accs := got[0].(events.BulkDeleteRequested).Accounts; !reflect.DeepEqual(accs, want) {
		t.Errorf("BulkDeleteRequested.Accounts = %v, want %v", accs, want)
	}
	if len(n.toasts) != 0 {
		t.Errorf("got %d toasts, want none", len(n.toasts))
	}
	if !l.IsSelected("b") {
		t.Error("BulkDelete should not change the selection")
	}
}

func TestBulkDelete_NothingSelected(t *testing.T) {
	l, rec, n := newTestList(t)
	l.SetItems(accounts("a"))

	l.BulkDelete()

	if got := rec.ofType(events.TypeBulkDeleteRequested); len(got) != 0 {
		t.Errorf("got %d bulk delete events, want none", len(got))
	}
	if len(n.toasts) != 1 {
		t.Fatalf("got %d toasts, want exactly 1", len(n.toasts))
	}
	want := toast{ToastError, "T(errorOccurred)", "T(nothingSelected)"}
	if n.toasts[0] != want {
		t.Errorf("toast = %+v, want %+v", n.toasts[0], want)
	}
}

func TestBulkDelete_NilNotifierDoesNotPanic(t *testing.T) {
	l := New(&recorder{}, nil, nil)
	defer l.Close()

	l.BulkDelete()
}

func TestDelete_BypassesSelection(t *testing.T) {
	l, rec, _ := newTestList(t)
	items := accounts("a", "b")
	l.SetItems(items)
	l.Toggle("a")

	l.Delete(items[1])

	got := rec.ofType(events.TypeDeleteRequested)
	if len(got) != 1 {
		t.Fatalf("got %d delete events, want 1", len(got))
	}
	accs := got[0].(events.DeleteRequested).Accounts
	if len(accs) != 1 || accs[0].ID != "b" {
		t.Errorf("DeleteRequested.Accounts = %v, want [b]", accs)
	}
	if !l.IsSelected("a") {
		t.Error("Delete should not change the selection")
	}
}

func TestRequestCreateAndEdit(t *testing.T) {
	l, rec, _ := newTestList(t)

	l.RequestCreate()
	l.RequestEdit("sa-7")

	want := []events.Event{events.CreateRequested{}, events.EditRequested{ID: "sa-7"}}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestClose_SilencesList(t *testing.T) {
	l, rec, n := newTestList(t)
	l.SetItems(accounts("a", "b"))
	l.Close()
	l.Close()

	l.Toggle("a")
	l.ToggleAll()
	l.RequestCreate()
	l.RequestEdit("a")
	l.Delete(accounts("a")[0])
	l.SetItems(nil)
	l.BulkDelete()

	if len(rec.events) != 0 {
		t.Errorf("published %v after Close, want nothing", rec.events)
	}
	if len(n.toasts) != 0 {
		t.Errorf("showed %d toasts after Close, want none", len(n.toasts))
	}
}

func TestRows_Sorting(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l, _, _ := newTestList(t)
	l.SetItems([]account.ServiceAccount{
		{ID: "1", Name: "charlie", CreationDate: base.Add(2 * time.Hour), RevisionDate: base},
		{ID: "2", Name: "Alpha", CreationDate: base, RevisionDate: base.Add(time.Hour)},
		{ID: "3", Name: "bravo", CreationDate: base.Add(time.Hour), RevisionDate: base.Add(3 * time.Hour)},
	})
	l.Toggle("2")

	tests := []struct {
		column    account.SortColumn
		ascending bool
		want      []string
	}{
		{account.SortNone, true, []string{"1", "2", "3"}},
		{account.SortName, true, []string{"2", "3", "1"}},
		{account.SortName, false, []string{"1", "3", "2"}},
		{account.SortCreated, true, []string{"2", "3", "1"}},
		{account.SortRevised, false, []string{"3", "2", "1"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.column, tt.ascending), func(t *testing.T) {
			l.SetSort(tt.column, tt.ascending)
			if got := account.IDs(l.Rows()); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Rows() = %v, want %v", got, tt.want)
			}
		})
	}

	l.ClearSort()
	if got := account.IDs(l.Rows()); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Errorf("Rows() after ClearSort = %v", got)
	}
	if got := account.IDs(l.Filtered()); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Errorf("Filtered() must stay in list order, got %v", got)
	}
	if !l.IsSelected("2") {
		t.Error("sorting must not touch the selection")
	}
}

func TestWithPredicate(t *testing.T) {
	exact := func(a account.ServiceAccount, filter string) bool {
		return filter == "" || a.ID == filter
	}
	l, _, _ := newTestList(t, WithPredicate(exact))
	l.SetItems(accounts("a", "ab"))
	l.SetFilter("a")

	if got := account.IDs(l.Filtered()); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Filtered() = %v, want [a]", got)
	}
}

func TestSuggest(t *testing.T) {
	l, _, _ := newTestList(t)
	l.SetItems([]account.ServiceAccount{
		{ID: "1", Name: "deployer"},
		{ID: "2", Name: "metrics"},
	})

	l.SetFilter("metrcs")
	got, ok := l.Suggest()
	if !ok || got != "metrics" {
		t.Errorf("Suggest() = %q, %v; want %q, true", got, ok, "metrics")
	}

	l.SetFilter("metr")
	if got, ok := l.Suggest(); ok {
		t.Errorf("Suggest() with matches = %q, want none", got)
	}

	l.SetFilter("something else entirely")
	if got, ok := l.Suggest(); ok {
		t.Errorf("Suggest() for distant text = %q, want none", got)
	}
}
