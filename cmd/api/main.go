package main

import (
	"context"
	stdlog "log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ji-Haitang/char-card-1/internal/config"
	"github.com/Ji-Haitang/char-card-1/internal/handlers"
	"github.com/Ji-Haitang/char-card-1/internal/logger"
	"github.com/Ji-Haitang/char-card-1/internal/middleware"
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

	log.Info("Starting turn engine API",
		"port", cfg.Port,
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

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	turnHandler := handlers.NewTurnHandler(processor, log)
	mux.Handle("/v1/turn", turnHandler)

	choiceHandler := handlers.NewChoiceHandler(processor, log)
	mux.Handle("/v1/choice", choiceHandler)

	minigameHandler := handlers.NewMinigameHandler(processor, log)
	mux.Handle("/v1/minigame", minigameHandler)

	gameStateHandler := handlers.NewGameStateHandler(log, store)
	mux.Handle("/v1/gamestate", gameStateHandler)
	mux.Handle("/v1/gamestate/", gameStateHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
