package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/generator"
	"server/internal/infra"
	"server/internal/providers/aicontent"
	"server/internal/providers/render"
	"server/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)

	storagePath := cfg.StoragePath
	if !filepath.IsAbs(storagePath) {
		if abs, err := filepath.Abs(storagePath); err == nil {
			storagePath = abs
		}
	}
	fileStore, err := storage.NewFileStore(storagePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	httpClient := &http.Client{Timeout: 90 * time.Second}

	contentClient := aicontent.NewClient(aicontent.Options{
		APIKey:         cfg.PerplexityAPIKey,
		BaseURL:        cfg.PerplexityBaseURL,
		Models:         cfg.PerplexityModels,
		AttemptTimeout: cfg.AIAttemptTimeout,
		MaxRetries:     cfg.AIMaxRetries,
		HTTPClient:     httpClient,
		Logger:         &logger,
	})
	if !contentClient.HasCredentials() {
		logger.Warn().Msg("worker: perplexity api key missing, generation jobs will fail until configured")
	}

	renderClient := render.NewClient(render.Options{
		APIKey:     cfg.DocRaptorAPIKey,
		BaseURL:    cfg.DocRaptorBaseURL,
		TestMode:   cfg.DocRaptorTest,
		HTTPClient: httpClient,
		Logger:     &logger,
	})

	pipeline := generator.NewPipeline(generator.PipelineOptions{
		Content:       contentClient,
		Renderer:      renderClient,
		Firms:         repo.NewFirmRepository(runner),
		Store:         fileStore,
		PublicBaseURL: cfg.PublicBaseURL,
		Logger:        logger,
	})

	worker := generator.NewWorker(generator.WorkerOptions{
		Jobs:         repo.NewJobRepository(runner),
		Pipeline:     pipeline,
		Logger:       logger,
		PollInterval: cfg.WorkerPollInterval,
		Concurrency:  cfg.WorkerCount,
	})

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}
