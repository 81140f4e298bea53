package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Ji-Haitang/char-card-1/internal/queue"
)

const (
	dequeueTimeout = 5 * time.Second
	gameLockTTL    = 30 * time.Second
)

// Worker drains the global pending-turns queue. A per-game Redis lock
// keeps concurrent workers from interleaving mutations on one session.
type Worker struct {
	id          string
	queue       *queue.TurnQueue
	processor   *TurnProcessor
	redisClient *redis.Client
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance
func New(tq *queue.TurnQueue, processor *TurnProcessor, redisClient *redis.Client, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:          workerID,
		queue:       tq,
		processor:   processor,
		redisClient: redisClient,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins processing requests from the queue
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "worker_id", w.id)

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNext(); err != nil {
				w.log.Error("Error processing request", "error", err, "worker_id", w.id)
				// Continue processing even on error
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

// processNext pulls the next request from the queue and processes it
func (w *Worker) processNext() error {
	req, err := w.queue.BlockingDequeuePending(w.ctx, dequeueTimeout)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("failed to dequeue request: %w", err)
	}
	if req == nil {
		// Timed out waiting; normal during idle periods
		return nil
	}

	w.log.Info("Received request from queue",
		"worker_id", w.id,
		"game_state_id", req.GameStateID.String(),
	)

	locked, err := w.acquireGameLock(req.GameStateID)
	if err != nil {
		return fmt.Errorf("failed to acquire game lock: %w", err)
	}
	if !locked {
		// Another worker owns this session; push to the back and move on
		w.log.Info("Game already locked, re-queueing request",
			"worker_id", w.id,
			"game_state_id", req.GameStateID.String(),
		)
		if err := w.queue.EnqueuePending(w.ctx, req); err != nil {
			return fmt.Errorf("failed to re-queue request: %w", err)
		}
		return nil
	}
	defer w.releaseGameLock(req.GameStateID)

	start := time.Now()
	if _, err := w.processor.ProcessTurn(w.ctx, req); err != nil {
		return fmt.Errorf("failed to process turn: %w", err)
	}

	// Replay any scripted turns the event engine deferred
	if _, err := w.processor.ProcessScripted(w.ctx, req.GameStateID); err != nil {
		return fmt.Errorf("failed to replay scripted turns: %w", err)
	}

	w.log.Info("Turn processed",
		"worker_id", w.id,
		"game_state_id", req.GameStateID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// acquireGameLock attempts to acquire a lock for a game
// Returns true if lock was acquired, false if already locked
func (w *Worker) acquireGameLock(gameStateID uuid.UUID) (bool, error) {
	lockKey := fmt.Sprintf("game-lock:%s", gameStateID.String())

	result, err := w.redisClient.SetNX(w.ctx, lockKey, w.id, gameLockTTL).Result()
	if err != nil {
		return false, err
	}

	return result, nil
}

// releaseGameLock releases the lock for a game
func (w *Worker) releaseGameLock(gameStateID uuid.UUID) {
	lockKey := fmt.Sprintf("game-lock:%s", gameStateID.String())

	// Only delete if we own the lock
	script := redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)

	if err := script.Run(w.ctx, w.redisClient, []string{lockKey}, w.id).Err(); err != nil {
		w.log.Error("Failed to release game lock", "error", err, "game_state_id", gameStateID.String())
	}
}
