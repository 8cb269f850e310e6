// Package metrics counts list intents and notifications in a Prometheus
// registry that can be exported as a node-exporter textfile.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntoineGS/smaccounts/internal/events"
	"github.com/AntoineGS/smaccounts/internal/listing"
)

const namespace = "smaccounts"

// Recorder owns a private registry; nothing is registered globally.
type Recorder struct {
	registry *prometheus.Registry
	intents  *prometheus.CounterVec
	selected prometheus.Gauge
	toasts   *prometheus.CounterVec
}

// New creates a Recorder with its collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Intents raised by the service account list.",
		}, []string{"intent"}),
		selected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selected_accounts",
			Help:      "Size of the selection after the last change.",
		}),
		toasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "toasts_total",
			Help:      "Notifications shown to the user.",
		}, []string{"variant"}),
	}
	r.registry.MustRegister(r.intents, r.selected, r.toasts)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Attach subscribes the recorder to every event on bus.
func (r *Recorder) Attach(bus *events.Bus) func() {
	return bus.SubscribeAll(r.Observe)
}

// Observe counts one event.
func (r *Recorder) Observe(e events.Event) {
	r.intents.WithLabelValues(string(e.Type())).Inc()
	if sc, ok := e.(events.SelectionChanged); ok {
		r.selected.Set(float64(len(sc.IDs)))
	}
}

// Toast counts one notification.
func (r *Recorder) Toast(variant listing.ToastVariant) {
	r.toasts.WithLabelValues(string(variant)).Inc()
}

// Notifier wraps next so every toast is counted before it is shown.
func (r *Recorder) Notifier(next listing.Notifier) listing.Notifier {
	return countingNotifier{r: r, next: next}
}

type countingNotifier struct {
	r    *Recorder
	next listing.Notifier
}

func (n countingNotifier) ShowToast(variant listing.ToastVariant, title, message string) {
	n.r.Toast(variant)
	if n.next != nil {
		n.next.ShowToast(variant, title, message)
	}
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
