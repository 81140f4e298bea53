// Package queue moves turns through Redis lists: a per-game list of
// deferred scripted turns, and a single global list feeding the worker
// pool.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Ji-Haitang/char-card-1/pkg/turn"
)

const pendingKey = "pending-turns"

// TurnQueue manages the scripted-turn and pending-turn queues.
type TurnQueue struct {
	rdb *redis.Client
}

func NewTurnQueue(rdb *redis.Client) *TurnQueue {
	return &TurnQueue{rdb: rdb}
}

func scriptedKey(gameStateID uuid.UUID) string {
	return fmt.Sprintf("scripted-turns:%s", gameStateID.String())
}

// EnqueueScripted appends a deferred scripted turn to a game's queue.
// Special-event text replays through here instead of rendering inline
// at trigger time.
func (q *TurnQueue) EnqueueScripted(ctx context.Context, qt *turn.Queued) error {
	data, err := json.Marshal(qt)
	if err != nil {
		return fmt.Errorf("failed to serialize scripted turn: %w", err)
	}
	if err := q.rdb.RPush(ctx, scriptedKey(qt.GameStateID), data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue scripted turn: %w", err)
	}
	return nil
}

// DequeueScripted removes and returns all queued scripted turns for a
// game, in enqueue order.
func (q *TurnQueue) DequeueScripted(ctx context.Context, gameStateID uuid.UUID) ([]*turn.Queued, error) {
	key := scriptedKey(gameStateID)

	items, err := q.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to dequeue scripted turns: %w", err)
	}
	if len(items) > 0 {
		if err := q.rdb.Del(ctx, key).Err(); err != nil {
			return nil, fmt.Errorf("failed to clear scripted turn queue after dequeue: %w", err)
		}
	}

	turns := make([]*turn.Queued, 0, len(items))
	for _, item := range items {
		var qt turn.Queued
		if err := json.Unmarshal([]byte(item), &qt); err != nil {
			return nil, fmt.Errorf("failed to parse scripted turn: %w", err)
		}
		turns = append(turns, &qt)
	}
	return turns, nil
}

// ScriptedDepth returns the number of scripted turns queued for a game.
func (q *TurnQueue) ScriptedDepth(ctx context.Context, gameStateID uuid.UUID) (int, error) {
	count, err := q.rdb.LLen(ctx, scriptedKey(gameStateID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get scripted queue depth: %w", err)
	}
	return int(count), nil
}

// ClearScripted removes all scripted turns for a game.
func (q *TurnQueue) ClearScripted(ctx context.Context, gameStateID uuid.UUID) error {
	if err := q.rdb.Del(ctx, scriptedKey(gameStateID)).Err(); err != nil {
		return fmt.Errorf("failed to clear scripted turn queue: %w", err)
	}
	return nil
}

// EnqueuePending adds a turn request to the global worker queue.
func (q *TurnQueue) EnqueuePending(ctx context.Context, req *turn.Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to serialize turn request: %w", err)
	}
	if err := q.rdb.RPush(ctx, pendingKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue turn request: %w", err)
	}
	return nil
}

// DequeuePending removes and returns the next pending request, or nil
// when the queue is empty.
func (q *TurnQueue) DequeuePending(ctx context.Context) (*turn.Request, error) {
	result, err := q.rdb.LPop(ctx, pendingKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Queue is empty
		}
		return nil, fmt.Errorf("failed to dequeue turn request: %w", err)
	}

	var req turn.Request
	if err := json.Unmarshal([]byte(result), &req); err != nil {
		return nil, fmt.Errorf("failed to parse turn request: %w", err)
	}
	return &req, nil
}

// BlockingDequeuePending blocks until a request is available or the
// timeout elapses. A zero timeout waits forever.
func (q *TurnQueue) BlockingDequeuePending(ctx context.Context, timeout time.Duration) (*turn.Request, error) {
	result, err := q.rdb.BLPop(ctx, timeout, pendingKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Timed out
		}
		return nil, fmt.Errorf("failed to dequeue turn request: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPop result: %v", result)
	}

	var req turn.Request
	if err := json.Unmarshal([]byte(result[1]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse turn request: %w", err)
	}
	return &req, nil
}

// PendingDepth returns the number of requests in the global queue.
func (q *TurnQueue) PendingDepth(ctx context.Context) (int, error) {
	count, err := q.rdb.LLen(ctx, pendingKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get pending queue depth: %w", err)
	}
	return int(count), nil
}
