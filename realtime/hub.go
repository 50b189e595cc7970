// Package realtime carries "something changed" signals from the store to
// mounted views. A signal names the table and operation, never the row data.
package realtime

import (
	"context"
	"log/slog"
	"sync"

	"eventhub/metrics"
)

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Change is one store mutation. Keys holds the row's filterable columns; a nil
// Keys means the rows are unknown and every binding on the table matches.
type Change struct {
	Table string            `json:"table"`
	Op    Op                `json:"op"`
	Keys  map[string]string `json:"keys,omitempty"`
}

// Binding selects changes on one table, optionally narrowed to column = value.
type Binding struct {
	Table  string
	Column string
	Value  string
}

// On binds every change on table.
func On(table string) Binding {
	return Binding{Table: table}
}

// Where narrows the binding to rows whose column equals value.
func (b Binding) Where(column, value string) Binding {
	b.Column = column
	b.Value = value
	return b
}

func (b Binding) matches(c Change) bool {
	if b.Table != c.Table {
		return false
	}
	if b.Column == "" || c.Keys == nil {
		return true
	}
	v, ok := c.Keys[b.Column]
	return !ok || v == b.Value
}

// Hub fans published changes out to subscriptions.
type Hub struct {
	mu         sync.RWMutex
	subs       map[*Subscription]struct{}
	forwarders []func(Change)
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscribe opens a named channel with the given bindings.
func (h *Hub) Subscribe(name string, bindings ...Binding) *Subscription {
	s := &Subscription{
		Name:     name,
		bindings: bindings,
		hub:      h,
		notify:   make(chan struct{}, 1),
		pending:  make(map[string]Change),
		done:     make(chan struct{}),
	}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("channel subscribed", "channel", name, "bindings", len(bindings))
	return s
}

// Forward registers fn to receive every locally published change.
func (h *Hub) Forward(fn func(Change)) {
	h.mu.Lock()
	h.forwarders = append(h.forwarders, fn)
	h.mu.Unlock()
}

// Publish delivers c to matching subscriptions and to forwarders.
func (h *Hub) Publish(c Change) {
	h.mu.RLock()
	forwarders := h.forwarders
	h.mu.RUnlock()

	h.Deliver(c)
	for _, fn := range forwarders {
		fn(c)
	}
}

// Deliver hands c to local subscriptions only. Never blocks.
func (h *Hub) Deliver(c Change) {
	metrics.ChangeNotifications.WithLabelValues(c.Table).Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		for _, b := range s.bindings {
			if b.matches(c) {
				s.push(c)
				break
			}
		}
	}
}

// Len returns the number of open subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}

// Subscription receives coalesced changes: repeated changes to one table
// between reads collapse into a single entry.
type Subscription struct {
	Name     string
	bindings []Binding
	hub      *Hub

	mu      sync.Mutex
	pending map[string]Change
	order   []string
	notify  chan struct{}

	closeOnce sync.Once
	done      chan struct{}
}

func (s *Subscription) push(c Change) {
	s.mu.Lock()
	if _, ok := s.pending[c.Table]; !ok {
		s.order = append(s.order, c.Table)
	}
	s.pending[c.Table] = c
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Next blocks until at least one change is pending and returns the pending
// changes, one per table, in arrival order. It returns ctx.Err() when ctx ends
// and ErrClosed once the subscription is closed.
func (s *Subscription) Next(ctx context.Context) ([]Change, error) {
	for {
		if changes := s.drain(); len(changes) > 0 {
			return changes, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.done:
			return nil, ErrClosed
		case <-s.notify:
		}
	}
}

func (s *Subscription) drain() []Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 {
		return nil
	}
	out := make([]Change, 0, len(s.order))
	for _, table := range s.order {
		out = append(out, s.pending[table])
		delete(s.pending, table)
	}
	s.order = s.order[:0]
	return out
}

// Close detaches the subscription from the hub. Safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.remove(s)
		close(s.done)
		s.hub.logger.Debug("channel closed", "channel", s.Name)
	})
}

// Done is closed when the subscription is closed.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}
