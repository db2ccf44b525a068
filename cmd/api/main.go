package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bizdev/api/internal/app"
	"bizdev/api/internal/config"
	"bizdev/api/internal/kvstore"
	"bizdev/api/internal/llm"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var records kvstore.Store
	if strings.TrimSpace(cfg.RedisURL) != "" {
		logger.Info("using Redis record store")
		redisStore, err := kvstore.NewRedisStore(cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		records = redisStore
	} else {
		logger.Info("using PostgreSQL record store")
		db, err := kvstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		if err := kvstore.EnsureSchema(ctx, db); err != nil {
			logger.Fatal("schema setup failed", zap.Error(err))
		}
		records = kvstore.NewPostgresStore(db)
	}
	defer records.Close()

	var chat llm.Client
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		gemini, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Fatal("gemini client init failed", zap.Error(err))
		}
		chat = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, chat runs against the canned mock")
		chat = &llm.Mock{}
	}

	service := app.New(cfg, records, chat, logger)

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin, logger)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("bizdev API listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
