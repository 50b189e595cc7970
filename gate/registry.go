package gate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"eventhub/metrics"
)

// Registry keeps one Gate per browser client id.
type Registry struct {
	mu    sync.Mutex
	gates map[string]*Gate
	ttl   time.Duration
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Registry{
		gates: make(map[string]*Gate),
		ttl:   ttl,
	}
}

// Get returns the client's gate, creating it on first use.
func (r *Registry) Get(clientID string) *Gate {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.gates[clientID]
	if !ok {
		g = New()
		r.gates[clientID] = g
	}
	return g
}

// Lookup returns the client's gate without creating one.
func (r *Registry) Lookup(clientID string) (*Gate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.gates[clientID]
	return g, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.gates)
}

// Sweep drops gates idle longer than the ttl and returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed, pending := 0, 0
	for id, g := range r.gates {
		if g.idleSince(now) > r.ttl {
			delete(r.gates, id)
			removed++
			continue
		}
		if g.hasPending() {
			pending++
		}
	}
	metrics.PendingGates.Set(float64(pending))
	return removed
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Sweep(now); n > 0 {
				slog.Debug("expired idle gates", "count", n)
			}
		}
	}
}
