package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/providers/aicontent"
	"server/internal/storage"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, downloads will not be geo-tagged")
	}

	contentClient := aicontent.NewClient(aicontent.Options{
		APIKey:         cfg.PerplexityAPIKey,
		BaseURL:        cfg.PerplexityBaseURL,
		Models:         cfg.PerplexityModels,
		AttemptTimeout: cfg.AIAttemptTimeout,
		MaxRetries:     cfg.AIMaxRetries,
		HTTPClient:     &http.Client{Timeout: 60 * time.Second},
		Logger:         &logger,
	})

	app := &handlers.App{
		Jobs:      repo.NewJobRepository(runner),
		Documents: repo.NewDocumentRepository(runner),
		Firms:     repo.NewFirmRepository(runner),
		Leads:     repo.NewLeadRepository(runner),
		Slogans:   contentClient,
		Files:     fileStore,
		GeoIP:     resolver,
		Logger:    logger,
	}

	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		JWTSecret:       cfg.JWTSecret,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
