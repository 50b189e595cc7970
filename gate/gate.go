// Package gate holds at most one protected action per browser client while
// the user signs in, then replays it exactly once.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type Kind string

// KindRegister is a workshop registration; Payload is the workshop id.
const KindRegister Kind = "register"

type Action struct {
	Kind    Kind   `json:"kind"`
	Payload string `json:"payload"`
}

type Handler func(ctx context.Context, a Action) error

var ErrNoHandler = errors.New("gate: no handler for action")

// Gate is a single-slot command queue. A newer held action replaces an older
// one.
type Gate struct {
	mu       sync.Mutex
	pending  *Action
	lastSeen time.Time
}

func New() *Gate {
	return &Gate{lastSeen: time.Now()}
}

// Execute runs run at once when authenticated. Otherwise it holds a and
// returns false so the caller can prompt for sign-in.
func (g *Gate) Execute(authenticated bool, a Action, run func() error) (bool, error) {
	if authenticated {
		return true, run()
	}

	g.mu.Lock()
	g.pending = &a
	g.lastSeen = time.Now()
	g.mu.Unlock()
	return false, nil
}

// Pending reports the held action, if any.
func (g *Gate) Pending() (Action, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return Action{}, false
	}
	return *g.pending, true
}

// Complete is called after a successful sign-in. It clears the slot and
// dispatches the held action to the handler for its kind. The action is
// cleared before dispatch so it never runs twice.
func (g *Gate) Complete(ctx context.Context, handlers map[Kind]Handler) (Action, bool, error) {
	g.mu.Lock()
	pending := g.pending
	g.pending = nil
	g.lastSeen = time.Now()
	g.mu.Unlock()

	if pending == nil {
		return Action{}, false, nil
	}

	h, ok := handlers[pending.Kind]
	if !ok {
		return *pending, false, fmt.Errorf("%w: %s", ErrNoHandler, pending.Kind)
	}
	return *pending, true, h(ctx, *pending)
}

// Cancel discards the held action; it will never run.
func (g *Gate) Cancel() {
	g.mu.Lock()
	g.pending = nil
	g.lastSeen = time.Now()
	g.mu.Unlock()
}

func (g *Gate) idleSince(now time.Time) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return now.Sub(g.lastSeen)
}

func (g *Gate) hasPending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending != nil
}
