package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/foodstream/veggiebot/internal/convo"
)

func TestMemory_StateRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	got, err := m.Get(ctx, "whatsapp:+447700900123")
	require.NoError(t, err)
	require.Nil(t, got)

	st := &convo.ConversationState{
		Stage:     convo.StageAskBundles,
		Draft:     convo.DraftOrder{Name: "John Smith"},
		UpdatedAt: time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, m.Set(ctx, "whatsapp:+447700900123", st))

	got, err = m.Get(ctx, "whatsapp:+447700900123")
	require.NoError(t, err)
	require.Equal(t, st, got)

	require.NoError(t, m.Delete(ctx, "whatsapp:+447700900123"))
	got, err = m.Get(ctx, "whatsapp:+447700900123")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", &convo.ConversationState{Stage: convo.StageAskName}))

	first, err := m.Get(ctx, "k")
	require.NoError(t, err)
	first.Stage = convo.StageConfirm
	first.Draft.Name = "mutated"

	second, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, convo.StageAskName, second.Stage)
	require.Empty(t, second.Draft.Name)
}

func TestMemory_LastOrderRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	got, err := m.GetLastOrder(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, got)

	o := &convo.Order{OrderID: "3FA8B2", Name: "John", Bundles: 12, TotalPrice: 54.00, Status: convo.StatusConfirmed}
	require.NoError(t, m.SetLastOrder(ctx, "k", o))

	got, err = m.GetLastOrder(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, o, got)

	// Overwrite wins.
	o2 := *o
	o2.Status = convo.StatusCancelled
	require.NoError(t, m.SetLastOrder(ctx, "k", &o2))
	got, err = m.GetLastOrder(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, convo.StatusCancelled, got.Status)
}

func TestMemory_KeysAreIndependent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", &convo.ConversationState{Stage: convo.StageAskName}))
	require.NoError(t, m.Set(ctx, "b", &convo.ConversationState{Stage: convo.StageConfirm}))

	a, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, convo.StageAskName, a.Stage)

	b, err := m.Get(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, convo.StageConfirm, b.Stage)
}
