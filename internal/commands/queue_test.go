package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/cadence/internal/apperr"
	"github.com/Nixie-Tech-LLC/cadence/internal/memstore"
	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

type recordingNotifier struct {
	calls []string
	err   error
}

func (n *recordingNotifier) CommandsPending(_ context.Context, code, id string) error {
	n.calls = append(n.calls, code+"/"+id)
	return n.err
}

func setup(t *testing.T) (*Queue, *memstore.Store, *recordingNotifier, *time.Time) {
	t.Helper()
	store := memstore.New()
	_, err := store.CreateDevice(context.Background(), "DEV1", "Lobby", nil)
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	notifier := &recordingNotifier{}
	q := NewQueue(store, notifier, func() time.Time { return now })
	return q, store, notifier, &now
}

func TestLifecycle(t *testing.T) {
	q, _, notifier, now := setup(t)
	ctx := context.Background()

	first, err := q.Enqueue(ctx, "DEV1", "reload", nil)
	require.NoError(t, err)
	assert.Equal(t, model.CommandPending, first.Status)
	assert.NotEmpty(t, first.ID)
	assert.Nil(t, first.ExecutedAt)
	assert.Equal(t, []string{"DEV1/" + first.ID}, notifier.calls)

	second, err := q.Enqueue(ctx, "DEV1", "volume", model.Params(`{"level":30}`))
	require.NoError(t, err)

	// Polling twice returns the same list in creation order.
	for i := 0; i < 2; i++ {
		pending, err := q.ListPending(ctx, "DEV1")
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, first.ID, pending[0].ID)
		assert.Equal(t, second.ID, pending[1].ID)
		assert.JSONEq(t, `{"level":30}`, string(pending[1].Params))
	}

	*now = now.Add(time.Minute)
	acked, err := q.Acknowledge(ctx, first.ID, "", nil)
	require.NoError(t, err)
	assert.Equal(t, model.CommandExecuted, acked.Status)
	require.NotNil(t, acked.ExecutedAt)
	assert.Equal(t, *now, *acked.ExecutedAt)

	pending, err := q.ListPending(ctx, "DEV1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}

func TestReacknowledgeIsIdempotent(t *testing.T) {
	q, _, _, now := setup(t)
	ctx := context.Background()

	cmd, err := q.Enqueue(ctx, "DEV1", "screenshot", nil)
	require.NoError(t, err)

	msg := "camera busy"
	failed, err := q.Acknowledge(ctx, cmd.ID, model.CommandFailed, &msg)
	require.NoError(t, err)
	assert.Equal(t, model.CommandFailed, failed.Status)
	stamped := *failed.ExecutedAt

	*now = now.Add(time.Hour)
	again, err := q.Acknowledge(ctx, cmd.ID, model.CommandExecuted, nil)
	require.NoError(t, err)
	assert.Equal(t, model.CommandFailed, again.Status)
	assert.Equal(t, stamped, *again.ExecutedAt)
	assert.Equal(t, "camera busy", *again.Message)
}

func TestAcknowledgeErrors(t *testing.T) {
	q, _, _, _ := setup(t)
	ctx := context.Background()

	_, err := q.Acknowledge(ctx, "6f1f3c4e-8a58-4c1e-9c1a-3a0cb8a1f4aa", model.CommandExecuted, nil)
	assert.True(t, apperr.IsNotFound(err))

	_, err = q.Acknowledge(ctx, "not-a-uuid", model.CommandExecuted, nil)
	assert.True(t, apperr.IsNotFound(err))

	cmd, err := q.Enqueue(ctx, "DEV1", "reload", nil)
	require.NoError(t, err)
	_, err = q.Acknowledge(ctx, cmd.ID, model.CommandPending, nil)
	assert.True(t, apperr.IsBadRequest(err))
	_, err = q.Acknowledge(ctx, cmd.ID, "exploded", nil)
	assert.True(t, apperr.IsBadRequest(err))
}

func TestEnqueueValidation(t *testing.T) {
	q, _, notifier, _ := setup(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, "DEV1", "   ", nil)
	assert.True(t, apperr.IsBadRequest(err))

	_, err = q.Enqueue(ctx, "NOPE", "reload", nil)
	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, notifier.calls)
}

func TestEnqueueSurvivesNotifierFailure(t *testing.T) {
	q, _, notifier, _ := setup(t)
	notifier.err = errors.New("broker down")

	cmd, err := q.Enqueue(context.Background(), "DEV1", "reload", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, cmd.ID)
}

func TestListPendingUnknownDevice(t *testing.T) {
	q, _, _, _ := setup(t)

	pending, err := q.ListPending(context.Background(), "GHOST")
	require.NoError(t, err)
	assert.NotNil(t, pending)
	assert.Empty(t, pending)
}

func TestHistoryNewestFirst(t *testing.T) {
	q, _, _, _ := setup(t)
	ctx := context.Background()

	a, _ := q.Enqueue(ctx, "DEV1", "a", nil)
	b, _ := q.Enqueue(ctx, "DEV1", "b", nil)
	c, _ := q.Enqueue(ctx, "DEV1", "c", nil)
	_, err := q.Acknowledge(ctx, b.ID, model.CommandExecuted, nil)
	require.NoError(t, err)

	hist, err := q.History(ctx, "DEV1", 0)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, []string{hist[0].ID, hist[1].ID, hist[2].ID})

	hist, err = q.History(ctx, "DEV1", 2)
	require.NoError(t, err)
	assert.Len(t, hist, 2)

	_, err = q.History(ctx, "GHOST", 10)
	assert.True(t, apperr.IsNotFound(err))
}

func TestSameInstantCommandsKeepEnqueueOrder(t *testing.T) {
	q, _, _, _ := setup(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 20; i++ {
		cmd, err := q.Enqueue(ctx, "DEV1", "step", nil)
		require.NoError(t, err)
		ids = append(ids, cmd.ID)
	}

	pending, err := q.ListPending(ctx, "DEV1")
	require.NoError(t, err)
	require.Len(t, pending, len(ids))
	for i, c := range pending {
		assert.Equal(t, ids[i], c.ID, "pending position %d", i)
		assert.True(t, c.CreatedAt.Equal(pending[0].CreatedAt))
	}

	hist, err := q.History(ctx, "DEV1", 0)
	require.NoError(t, err)
	require.Len(t, hist, len(ids))
	for i, c := range hist {
		assert.Equal(t, ids[len(ids)-1-i], c.ID, "history position %d", i)
	}
}
