package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/AntoineGS/smaccounts/internal/events"
	"github.com/AntoineGS/smaccounts/internal/listing"
)

type nopNotifier struct {
	shown int
}

func (n *nopNotifier) ShowToast(listing.ToastVariant, string, string) {
	n.shown++
}

func TestRecorder_CountsBusEvents(t *testing.T) {
	r := New()
	bus := events.NewBus(nil)
	detach := r.Attach(bus)

	bus.Publish(events.CreateRequested{})
	bus.Publish(events.CreateRequested{})
	bus.Publish(events.SelectionChanged{IDs: []string{"a", "b"}})
	bus.Publish(events.SelectionChanged{IDs: []string{"a"}})

	detach()
	bus.Publish(events.CreateRequested{})

	if got := testutil.ToFloat64(r.intents.WithLabelValues(string(events.TypeCreateRequested))); got != 2 {
		t.Errorf("create intents = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.intents.WithLabelValues(string(events.TypeSelectionChanged))); got != 2 {
		t.Errorf("selection intents = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.selected); got != 1 {
		t.Errorf("selected gauge = %v, want 1", got)
	}
}

func TestRecorder_Notifier(t *testing.T) {
	r := New()
	next := &nopNotifier{}
	n := r.Notifier(next)

	n.ShowToast(listing.ToastError, "t", "m")
	n.ShowToast(listing.ToastError, "t", "m")
	n.ShowToast(listing.ToastSuccess, "t", "m")
	r.Notifier(nil).ShowToast(listing.ToastInfo, "t", "m")

	if next.shown != 3 {
		t.Errorf("wrapped notifier shown %d toasts, want 3", next.shown)
	}
	if got := testutil.ToFloat64(r.toasts.WithLabelValues("error")); got != 2 {
		t.Errorf("error toasts = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.toasts.WithLabelValues("info")); got != 1 {
		t.Errorf("info toasts = %v, want 1", got)
	}
}

func TestRecorder_BulkDeleteWithoutSelectionCountsToast(t *testing.T) {
	r := New()
	bus := events.NewBus(nil)
	r.Attach(bus)

	l := listing.New(bus, r.Notifier(nil), nil)
	defer l.Close()
	l.BulkDelete()

	if got := testutil.ToFloat64(r.toasts.WithLabelValues("error")); got != 1 {
		t.Errorf("error toasts = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.intents); got != 0 {
		t.Errorf("intent series = %d, want 0", got)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.Observe(events.EditRequested{ID: "x"})

	path := filepath.Join(t.TempDir(), "smaccounts.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // test file path is controlled
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, `smaccounts_intents_total{intent="edit_requested"} 1`) {
		t.Errorf("textfile missing edit intent, got:\n%s", content)
	}
	if !strings.Contains(content, "# HELP smaccounts_selected_accounts") {
		t.Errorf("textfile missing selected gauge, got:\n%s", content)
	}
}
