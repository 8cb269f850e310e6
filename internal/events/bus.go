package events

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Handler handles one published event.
type Handler func(Event)

// Publisher is the side of the bus a component emits into.
type Publisher interface {
	Publish(Event)
}

type handlerEntry struct {
	fn Handler
	id uint64
}

// Bus dispatches events synchronously, on the publishing goroutine, to
// handlers in the order they subscribed. Type-specific handlers run before
// catch-all ones.
type Bus struct {
	logger   *slog.Logger
	handlers map[Type][]handlerEntry
	all      []handlerEntry
	mu       sync.RWMutex
	nextID   uint64
}

// NewBus creates a Bus. A nil logger falls back to slog.Default().
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		logger:   logger,
		handlers: make(map[Type][]handlerEntry),
	}
}

// Subscribe registers h for events of type t and returns an unsubscribe func.
func (b *Bus) Subscribe(t Type, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[t] = append(b.handlers[t], handlerEntry{id: id, fn: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.handlers[t] = without(b.handlers[t], id)
	}
}

// SubscribeAll registers h for every event and returns an unsubscribe func.
func (b *Bus) SubscribeAll(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.all = append(b.all, handlerEntry{id: id, fn: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.all = without(b.all, id)
	}
}

// Publish delivers e to its handlers before returning. A handler may publish
// or subscribe again; it will not deadlock.
func (b *Bus) Publish(e Event) {
	if e == nil {
		return
	}

	b.mu.RLock()
	typed := b.handlers[e.Type()]
	targets := make([]handlerEntry, 0, len(typed)+len(b.all))
	targets = append(targets, typed...)
	targets = append(targets, b.all...)
	b.mu.RUnlock()

	b.logger.Debug("publishing event", "type", e.Type(), "handlers", len(targets))

	for _, h := range targets {
		b.call(h.fn, e)
	}
}

func (b *Bus) call(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"type", e.Type(),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	h(e)
}

func without(entries []handlerEntry, id uint64) []handlerEntry {
	for i, e := range entries {
		if e.id == id {
			return append(entries[:i:i], entries[i+1:]...)
		}
	}
	return entries
}
