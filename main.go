package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tubeinsight/internal/config"
	"tubeinsight/internal/llm"
	"tubeinsight/internal/repository"
	"tubeinsight/internal/sentiment"
	"tubeinsight/internal/server"
	"tubeinsight/internal/youtube"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfgPath := "configs/config.yml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if cfg.Server.Mode == "release" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repository.MigrateDB(db, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	usageRepo := repository.NewUsageRepository(db, logger)
	videoRepo := repository.NewVideoRepository(db, logger)
	analysisRepo := repository.NewAnalysisRepository(db, logger)

	youtubeClient, err := youtube.NewClient(ctx, cfg.YouTube.APIKey, usageRepo, logger)
	if err != nil {
		logger.Fatal("Failed to initialize YouTube client", zap.Error(err))
	}

	llmClient, err := llm.NewClient(ctx, llm.Config{
		APIKey:    cfg.Gemini.APIKey,
		ModelName: cfg.Gemini.ModelName,
	}, usageRepo, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Gemini client", zap.Error(err))
	}
	defer llmClient.Close()

	sentimentSvc := sentiment.NewService(
		youtubeClient,
		llmClient,
		llmClient,
		videoRepo,
		analysisRepo,
		cfg.ProviderTimeout(),
		logger,
	)

	srv := server.NewServer(cfg, db, sentimentSvc, logger)
	go func() {
		if err := srv.Run(cfg.Server.Port); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Application stopped.")
}
