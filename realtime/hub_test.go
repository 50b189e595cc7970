package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextWithin(t *testing.T, s *Subscription, d time.Duration) ([]Change, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return s.Next(ctx)
}

func TestHub_FilteredBinding(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("workshop-w1", On("workshop_tasks").Where("workshop_id", "w1"))
	defer sub.Close()

	hub.Publish(Change{Table: "workshop_tasks", Op: OpUpdate, Keys: map[string]string{"workshop_id": "w2"}})
	_, err := nextWithin(t, sub, 20*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	hub.Publish(Change{Table: "workshop_tasks", Op: OpUpdate, Keys: map[string]string{"workshop_id": "w1"}})
	changes, err := nextWithin(t, sub, time.Second)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "workshop_tasks", changes[0].Table)
}

func TestHub_UnknownRowsReachFilteredBindings(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("workshop-w1", On("workshop_leaderboard").Where("workshop_id", "w1"))
	defer sub.Close()

	hub.Publish(Change{Table: "workshop_leaderboard", Op: OpUpdate})

	changes, err := nextWithin(t, sub, time.Second)
	require.NoError(t, err)
	assert.Len(t, changes, 1)
}

func TestHub_UnfilteredBindingSeesEveryRow(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("workshop-w1", On("team_task_submissions"))
	defer sub.Close()

	hub.Publish(Change{Table: "team_task_submissions", Op: OpInsert, Keys: map[string]string{"group_id": "other"}})
	hub.Publish(Change{Table: "workshops", Op: OpInsert})

	changes, err := nextWithin(t, sub, time.Second)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "team_task_submissions", changes[0].Table)
}

func TestSubscription_CoalescesPerTable(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("c", On("a"), On("b"))
	defer sub.Close()

	for i := 0; i < 10; i++ {
		hub.Publish(Change{Table: "a", Op: OpInsert})
	}
	hub.Publish(Change{Table: "b", Op: OpDelete})
	hub.Publish(Change{Table: "a", Op: OpUpdate})

	changes, err := nextWithin(t, sub, time.Second)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "a", changes[0].Table)
	assert.Equal(t, OpUpdate, changes[0].Op)
	assert.Equal(t, "b", changes[1].Table)

	_, err = nextWithin(t, sub, 20*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubscription_CloseIsIdempotent(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("c", On("a"))
	assert.Equal(t, 1, hub.Len())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, hub.Len())

	_, err := sub.Next(context.Background())
	assert.ErrorIs(t, err, ErrClosed)

	// Publishing after close reaches nobody
	hub.Publish(Change{Table: "a", Op: OpInsert})
	select {
	case <-sub.Done():
	default:
		t.Fatal("done channel should be closed")
	}
}

func TestHub_Forwarders(t *testing.T) {
	hub := NewHub(nil)
	var got []Change
	hub.Forward(func(c Change) { got = append(got, c) })

	hub.Publish(Change{Table: "a", Op: OpInsert})
	hub.Deliver(Change{Table: "b", Op: OpInsert})

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Table)
}

func TestRedisBridge_HandleSkipsOwnOrigin(t *testing.T) {
	hub := NewHub(nil)
	bridge := NewRedisBridge(nil, hub, nil)
	sub := hub.Subscribe("c", On("workshop_tasks"))
	defer sub.Close()

	own, err := bridge.encode(Change{Table: "workshop_tasks", Op: OpInsert})
	require.NoError(t, err)
	bridge.handle(string(own))
	bridge.handle("not json")

	_, err = nextWithin(t, sub, 20*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other := NewRedisBridge(nil, NewHub(nil), nil)
	remote, err := other.encode(Change{Table: "workshop_tasks", Op: OpUpdate})
	require.NoError(t, err)
	bridge.handle(string(remote))

	changes, err := nextWithin(t, sub, time.Second)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, OpUpdate, changes[0].Op)
}

func TestRedisBridge_ReconnectQueuesEachChangeOnce(t *testing.T) {
	hub := NewHub(nil)
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()
	bridge := NewRedisBridge(client, hub, nil)

	// Each failed run is a reconnect attempt by the caller
	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		assert.Error(t, bridge.Run(ctx))
		cancel()
	}

	hub.mu.RLock()
	assert.Len(t, hub.forwarders, 1)
	hub.mu.RUnlock()

	hub.Publish(Change{Table: "workshop_tasks", Op: OpInsert})
	require.Len(t, bridge.outbox, 1)
	c := <-bridge.outbox
	assert.Equal(t, "workshop_tasks", c.Table)
}

func TestRedisBridge_FullOutboxNeverBlocksPublish(t *testing.T) {
	hub := NewHub(nil)
	bridge := NewRedisBridge(nil, hub, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < outboxSize+10; i++ {
			hub.Publish(Change{Table: "workshop_tasks", Op: OpUpdate})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full outbox")
	}
	assert.Len(t, bridge.outbox, outboxSize)
}
