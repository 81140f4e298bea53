package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ji-Haitang/char-card-1/pkg/turn"
)

func setupTestQueue(t *testing.T) (*TurnQueue, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewTurnQueue(rdb), mr
}

func TestScriptedQueue(t *testing.T) {
	q, mr := setupTestQueue(t)
	defer mr.Close()

	ctx := context.Background()
	gameStateID := uuid.New()

	texts := []string{"第一段剧情", "第二段剧情", "第三段剧情"}
	for i, text := range texts {
		err := q.EnqueueScripted(ctx, &turn.Queued{
			GameStateID: gameStateID,
			EventID:     "Apprenticeship_Storyline_1",
			Raw:         text,
		})
		require.NoError(t, err, "enqueue %d", i)
	}

	depth, err := q.ScriptedDepth(ctx, gameStateID)
	require.NoError(t, err)
	assert.Equal(t, len(texts), depth)

	dequeued, err := q.DequeueScripted(ctx, gameStateID)
	require.NoError(t, err)
	require.Len(t, dequeued, len(texts))
	for i, qt := range dequeued {
		assert.Equal(t, texts[i], qt.Raw, "scripted turns must keep enqueue order")
		assert.Equal(t, gameStateID, qt.GameStateID)
	}

	// Dequeue drains the queue.
	depth, err = q.ScriptedDepth(ctx, gameStateID)
	require.NoError(t, err)
	assert.Zero(t, depth)

	again, err := q.DequeueScripted(ctx, gameStateID)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestScriptedQueueIsolatedPerGame(t *testing.T) {
	q, mr := setupTestQueue(t)
	defer mr.Close()

	ctx := context.Background()
	first := uuid.New()
	second := uuid.New()

	require.NoError(t, q.EnqueueScripted(ctx, &turn.Queued{GameStateID: first, Raw: "甲"}))
	require.NoError(t, q.EnqueueScripted(ctx, &turn.Queued{GameStateID: second, Raw: "乙"}))

	got, err := q.DequeueScripted(ctx, first)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "甲", got[0].Raw)

	depth, err := q.ScriptedDepth(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1, depth, "other game's queue untouched")
}

func TestClearScripted(t *testing.T) {
	q, mr := setupTestQueue(t)
	defer mr.Close()

	ctx := context.Background()
	gameStateID := uuid.New()

	require.NoError(t, q.EnqueueScripted(ctx, &turn.Queued{GameStateID: gameStateID, Raw: "剧情"}))
	require.NoError(t, q.ClearScripted(ctx, gameStateID))

	depth, err := q.ScriptedDepth(ctx, gameStateID)
	require.NoError(t, err)
	assert.Zero(t, depth)
}

func TestPendingQueueFIFO(t *testing.T) {
	q, mr := setupTestQueue(t)
	defer mr.Close()

	ctx := context.Background()
	first := &turn.Request{GameStateID: uuid.New(), Raw: "第一回合", Action: "练武"}
	second := &turn.Request{GameStateID: uuid.New(), Raw: "第二回合"}

	require.NoError(t, q.EnqueuePending(ctx, first))
	require.NoError(t, q.EnqueuePending(ctx, second))

	depth, err := q.PendingDepth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, depth)

	got, err := q.DequeuePending(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.GameStateID, got.GameStateID)
	assert.Equal(t, "练武", got.Action)

	got, err = q.DequeuePending(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.GameStateID, got.GameStateID)

	// Empty queue is nil, not an error.
	got, err = q.DequeuePending(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBlockingDequeuePending(t *testing.T) {
	q, mr := setupTestQueue(t)
	defer mr.Close()

	ctx := context.Background()
	req := &turn.Request{GameStateID: uuid.New(), Raw: "回合"}
	require.NoError(t, q.EnqueuePending(ctx, req))

	got, err := q.BlockingDequeuePending(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, req.GameStateID, got.GameStateID)

	// Timeout on an empty queue returns nil without error.
	got, err = q.BlockingDequeuePending(ctx, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, got)
}
