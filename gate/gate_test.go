package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(id string) Action {
	return Action{Kind: KindRegister, Payload: id}
}

func TestExecute_AuthenticatedRunsImmediately(t *testing.T) {
	g := New()
	ran := 0

	ok, err := g.Execute(true, register("w1"), func() error { ran++; return nil })
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, ran)

	_, pending := g.Pending()
	assert.False(t, pending)
}

func TestExecute_AnonymousHoldsAction(t *testing.T) {
	g := New()

	ok, err := g.Execute(false, register("w1"), func() error {
		t.Fatal("must not run while anonymous")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, ok)

	a, pending := g.Pending()
	require.True(t, pending)
	assert.Equal(t, "w1", a.Payload)
}

func TestComplete_DispatchesExactlyOnce(t *testing.T) {
	g := New()
	_, _ = g.Execute(false, register("w1"), nil)

	var got []string
	handlers := map[Kind]Handler{
		KindRegister: func(ctx context.Context, a Action) error {
			got = append(got, a.Payload)
			return nil
		},
	}

	a, ran, err := g.Complete(context.Background(), handlers)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, "w1", a.Payload)

	_, ran, err = g.Complete(context.Background(), handlers)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, []string{"w1"}, got)
}

func TestExecute_LatestActionWins(t *testing.T) {
	g := New()
	_, _ = g.Execute(false, register("w1"), nil)
	_, _ = g.Execute(false, register("w2"), nil)

	var got []string
	_, _, err := g.Complete(context.Background(), map[Kind]Handler{
		KindRegister: func(ctx context.Context, a Action) error {
			got = append(got, a.Payload)
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"w2"}, got)
}

func TestCancel_DiscardsAction(t *testing.T) {
	g := New()
	_, _ = g.Execute(false, register("w1"), nil)
	g.Cancel()

	_, ran, err := g.Complete(context.Background(), map[Kind]Handler{
		KindRegister: func(ctx context.Context, a Action) error {
			t.Fatal("cancelled action ran")
			return nil
		},
	})
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestComplete_UnknownKindClearsSlot(t *testing.T) {
	g := New()
	_, _ = g.Execute(false, Action{Kind: "other"}, nil)

	_, ran, err := g.Complete(context.Background(), map[Kind]Handler{})
	assert.False(t, ran)
	assert.True(t, errors.Is(err, ErrNoHandler))

	_, pending := g.Pending()
	assert.False(t, pending)
}

func TestRegistry_SweepExpiresIdleGates(t *testing.T) {
	r := NewRegistry(time.Minute)
	a := r.Get("client-a")
	assert.Same(t, a, r.Get("client-a"))
	r.Get("client-b")

	_, _ = a.Execute(false, register("w1"), nil)

	removed := r.Sweep(time.Now().Add(30 * time.Second))
	assert.Equal(t, 0, removed)
	assert.Equal(t, 2, r.Len())

	removed = r.Sweep(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 2, removed)

	_, ok := r.Lookup("client-a")
	assert.False(t, ok)
}
