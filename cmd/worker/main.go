package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/repaso-app/repaso-backend/internal/config"
	"github.com/repaso-app/repaso-backend/internal/queue"
	"github.com/repaso-app/repaso-backend/internal/queue/workers"
	"github.com/repaso-app/repaso-backend/internal/speech"
	"github.com/repaso-app/repaso-backend/internal/speech/store"
	"github.com/repaso-app/repaso-backend/internal/speech/synth"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The worker must point at the same cache directory the API writes to,
	// or invalidation will silently remove nothing.
	audioStore, err := store.NewFSStore(cfg.Speech.CacheDir)
	if err != nil {
		slog.Error("failed to init audio cache", "error", err)
		os.Exit(1)
	}
	engine := speech.NewEngine(audioStore, synth.BuildChain(context.Background(), cfg.Speech))

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()

	audioWorker := workers.NewAudioWorker(engine)
	registry.Register(queue.TypeAudioInvalidate, asynq.HandlerFunc(audioWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
