package main

import (
	"context"
	stdlog "log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ji-Haitang/char-card-1/internal/config"
	"github.com/Ji-Haitang/char-card-1/internal/logger"
	"github.com/Ji-Haitang/char-card-1/internal/queue"
	"github.com/Ji-Haitang/char-card-1/internal/storage"
	"github.com/Ji-Haitang/char-card-1/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting turn engine worker",
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL)

	store := storage.NewRedisStorage(cfg.RedisURL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}

	turnQueue := queue.NewTurnQueue(store.Client())
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	processor := worker.NewDefaultProcessor(store, turnQueue, log, rng)

	// Separate Redis client for worker locking, so blocking dequeues do
	// not starve the lock operations.
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis client", "error", err)
		}
	}()

	w := worker.New(turnQueue, processor, redisClient, log, cfg.WorkerID)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("Worker started, waiting for requests...")

	<-quit
	log.Info("Worker shutdown signal received")

	w.Stop()

	// Give worker time to finish current request
	time.Sleep(2 * time.Second)

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Worker exited")
}
